package bitgo

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// PositionSet is a compressed set of bit positions backed by a
// roaring bitmap. It keeps search results and marked positions
// compact even when they are sparse over long sequences, and supports
// set algebra between result sets.
type PositionSet struct {
	rb *roaring64.Bitmap
}

// NewPositionSet creates a position set holding the given positions.
func NewPositionSet(positions ...uint64) *PositionSet {
	rb := roaring64.New()
	rb.AddMany(positions)
	return &PositionSet{rb: rb}
}

// Add adds a position to the set.
func (p *PositionSet) Add(pos uint64) {
	p.rb.Add(pos)
}

// Remove removes a position from the set.
func (p *PositionSet) Remove(pos uint64) {
	p.rb.Remove(pos)
}

// Contains checks whether a position is in the set.
func (p *PositionSet) Contains(pos uint64) bool {
	return p.rb.Contains(pos)
}

// IsEmpty returns true if the set is empty.
func (p *PositionSet) IsEmpty() bool {
	return p.rb.IsEmpty()
}

// Cardinality returns the number of positions in the set.
func (p *PositionSet) Cardinality() uint64 {
	return p.rb.GetCardinality()
}

// Clone returns a deep copy of the set.
func (p *PositionSet) Clone() *PositionSet {
	return &PositionSet{rb: p.rb.Clone()}
}

// Iterate returns an iterator over the positions in ascending order.
func (p *PositionSet) Iterate() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := p.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Positions returns the positions as a sorted slice.
func (p *PositionSet) Positions() []uint64 {
	return p.rb.ToArray()
}

// And intersects the set with other in place.
func (p *PositionSet) And(other *PositionSet) {
	p.rb.And(other.rb)
}

// Or unions the set with other in place.
func (p *PositionSet) Or(other *PositionSet) {
	p.rb.Or(other.rb)
}

// AndNot removes other's positions from the set in place.
func (p *PositionSet) AndNot(other *PositionSet) {
	p.rb.AndNot(other.rb)
}

// Clear removes all positions.
func (p *PositionSet) Clear() {
	p.rb.Clear()
}

// FindAllSet collects the match positions of pattern into a position
// set. The same options as FindAll apply.
func (b *Bits) FindAllSet(pattern *Bits, opts ...FindOption) (*PositionSet, error) {
	seq, err := b.FindAll(pattern, opts...)
	if err != nil {
		return nil, err
	}
	ps := NewPositionSet()
	for p := range seq {
		ps.Add(uint64(p))
	}
	return ps, nil
}

// OnesSet returns the set of active positions holding a one bit.
func (b *Bits) OnesSet() *PositionSet {
	ps := NewPositionSet()
	n := b.Len()
	for i := 0; i < n; i++ {
		if b.store.Bit(reflectIndex(b.opts.order, n, i)) {
			ps.Add(uint64(i))
		}
	}
	return ps
}

package bitgo

import (
	"fmt"

	"github.com/hupe1980/bitgo/internal/bitstore"
)

// BitArray is a mutable sequence of bits. It shares the Bits
// construction and interpretation machinery through snapshots and
// adds in-place editing: single bits, ranges, insertion, deletion and
// search-and-replace.
//
// Snapshots taken with Bits share storage copy-on-write: the first
// mutation after a snapshot copies the data, so the snapshot stays
// stable. A BitArray must not be used from multiple goroutines
// concurrently.
type BitArray struct {
	store *bitstore.Store
	opts  options
}

// NewBitArray returns an empty mutable sequence.
func NewBitArray(opts ...Option) *BitArray {
	return &BitArray{store: bitstore.New(0), opts: applyOptions(opts)}
}

// Bits returns an immutable snapshot of the current contents. The
// snapshot shares storage until the array's next mutation.
func (a *BitArray) Bits() *Bits {
	a.store.MarkShared()
	st := a.store.View(0, a.store.Len())
	return &Bits{store: st, opts: a.opts}
}

// view wraps the current store for read-only use inside a single
// method. It must not escape: it aliases storage a mutation may
// replace.
func (a *BitArray) view() *Bits {
	return &Bits{store: a.store, opts: a.opts}
}

// Len returns the length in bits.
func (a *BitArray) Len() int { return a.store.Len() }

// Order returns the array's bit ordering.
func (a *BitArray) Order() BitOrder { return a.opts.order }

// Bit returns the bit at index i. Negative indexes count from the
// end.
func (a *BitArray) Bit(i int) (bool, error) {
	return a.view().Bit(i)
}

// Bytes returns the data as bytes, padding any final partial byte
// with zero bits.
func (a *BitArray) Bytes() []byte { return a.store.Bytes() }

// Count returns the number of bits equal to v.
func (a *BitArray) Count(v bool) int { return a.store.Count(v) }

// Equal reports whether the array holds the same bits as o.
func (a *BitArray) Equal(o *Bits) bool {
	return a.view().Equal(o)
}

// String renders the contents like Bits.String.
func (a *BitArray) String() string { return a.view().String() }

// SetBit sets the bit at index i to v. Negative indexes count from
// the end.
func (a *BitArray) SetBit(i int, v bool) error {
	j, err := resolveIndex(a.Len(), i)
	if err != nil {
		return err
	}
	a.store.EnsureOwned()
	a.store.SetBit(reflectIndex(a.opts.order, a.Len(), j), v)
	return nil
}

// FlipBit inverts the bit at index i.
func (a *BitArray) FlipBit(i int) error {
	j, err := resolveIndex(a.Len(), i)
	if err != nil {
		return err
	}
	a.store.EnsureOwned()
	a.store.FlipBit(reflectIndex(a.opts.order, a.Len(), j))
	return nil
}

// SetRange sets the active range [start, end) to v. Negative indexes
// count from the end.
func (a *BitArray) SetRange(start, end int, v bool) error {
	s, e, err := resolveRange(a.Len(), start, end)
	if err != nil {
		return err
	}
	rs, re := reflectRange(a.opts.order, a.Len(), s, e)
	a.store.EnsureOwned()
	a.store.SetRange(rs, re, v)
	return nil
}

// Invert flips every bit in place.
func (a *BitArray) Invert() {
	a.store.EnsureOwned()
	a.store.FlipRange(0, a.store.Len())
}

// Append adds o after the last active position. Under LSB0 the new
// bits become the more significant part of the data.
func (a *BitArray) Append(o *Bits) {
	if a.opts.order == LSB0 {
		a.store = bitstore.Join(o.store, a.store)
		return
	}
	a.store.EnsureOwned()
	a.store.Append(o.store)
}

// Prepend adds o before active position 0.
func (a *BitArray) Prepend(o *Bits) {
	if a.opts.order == LSB0 {
		a.store.EnsureOwned()
		a.store.Append(o.store)
		return
	}
	a.store = bitstore.Join(o.store, a.store)
}

// Insert places o at active position pos, shifting later bits along.
// pos may be negative to count from the end; pos == Len appends.
func (a *BitArray) Insert(pos int, o *Bits) error {
	n := a.Len()
	p := pos
	if p < 0 {
		p += n
	}
	if p < 0 || p > n {
		return fmt.Errorf("%w: position %d of %d bits", ErrRead, pos, n)
	}
	rp := reflectPoint(a.opts.order, n, p)
	a.store = bitstore.Join(a.store.View(0, rp), o.store, a.store.View(rp, n))
	return nil
}

// Delete removes the active range [start, end).
func (a *BitArray) Delete(start, end int) error {
	s, e, err := resolveRange(a.Len(), start, end)
	if err != nil {
		return err
	}
	rs, re := reflectRange(a.opts.order, a.Len(), s, e)
	a.store = bitstore.Join(a.store.View(0, rs), a.store.View(re, a.Len()))
	return nil
}

// SetSlice replaces the active range [start, end) with o. The lengths
// need not match; the array grows or shrinks by the difference.
func (a *BitArray) SetSlice(start, end int, o *Bits) error {
	s, e, err := resolveRange(a.Len(), start, end)
	if err != nil {
		return err
	}
	rs, re := reflectRange(a.opts.order, a.Len(), s, e)
	a.store = bitstore.Join(a.store.View(0, rs), o.store, a.store.View(re, a.Len()))
	return nil
}

// Overwrite writes o over the bits at active position pos. The write
// must fit within the array.
func (a *BitArray) Overwrite(pos int, o *Bits) error {
	n := a.Len()
	p := pos
	if p < 0 {
		p += n
	}
	if p < 0 || p+o.Len() > n {
		return fmt.Errorf("%w: %d bits at position %d of %d", ErrRead, o.Len(), pos, n)
	}
	rs, _ := reflectRange(a.opts.order, n, p, p+o.Len())
	a.store.EnsureOwned()
	a.store.Overwrite(rs, o.store)
	return nil
}

// Replace substitutes repl for occurrences of old, left to right and
// non-overlapping, and returns the number of replacements. WithRange
// restricts where occurrences are looked for, WithCount caps the
// replacements and WithAlignment restricts match positions.
func (a *BitArray) Replace(old, repl *Bits, opts ...FindOption) (int, error) {
	bs := a.view()
	o, err := bs.resolveFindOptions(opts)
	if err != nil {
		return 0, err
	}
	if old.Len() == 0 {
		return 0, fmt.Errorf("%w: empty search pattern", ErrCreation)
	}
	hay, needle := bs.searchable(old)
	m := needle.Len()

	var positions []int
	at := o.start
	for o.count < 0 || len(positions) < o.count {
		if at > o.end {
			break
		}
		p, ok := hay.Find(needle, at, o.end, o.aligned)
		if !ok {
			break
		}
		positions = append(positions, p)
		at = p + m
	}
	if len(positions) == 0 {
		return 0, nil
	}

	parts := make([]*bitstore.Store, 0, 2*len(positions)+1)
	prev := 0
	for _, p := range positions {
		parts = append(parts, bs.sliceActive(prev, p), repl.store)
		prev = p + m
	}
	parts = append(parts, bs.sliceActive(prev, bs.Len()))
	a.store = joinStores(a.opts.order, parts)
	return len(positions), nil
}

// Reverse reverses the bit order in place.
func (a *BitArray) Reverse() {
	a.store = a.store.Reverse()
}

// ROL rotates the bits n places toward active index 0, in place.
func (a *BitArray) ROL(n int) error {
	nb, err := a.view().ROL(n)
	if err != nil {
		return err
	}
	a.store = nb.store
	return nil
}

// ROR rotates the bits n places away from active index 0, in place.
func (a *BitArray) ROR(n int) error {
	nb, err := a.view().ROR(n)
	if err != nil {
		return err
	}
	a.store = nb.store
	return nil
}

// ByteSwap reverses the byte order in place. The length must be a
// whole number of bytes.
func (a *BitArray) ByteSwap() error {
	nb, err := a.view().ByteSwap()
	if err != nil {
		return err
	}
	a.store = nb.store
	return nil
}

// And replaces the contents with the bitwise AND of the array and o.
// Lengths must match.
func (a *BitArray) And(o *Bits) error {
	return a.combine(o, (*bitstore.Store).And)
}

// Or replaces the contents with the bitwise OR of the array and o.
func (a *BitArray) Or(o *Bits) error {
	return a.combine(o, (*bitstore.Store).Or)
}

// Xor replaces the contents with the bitwise XOR of the array and o.
func (a *BitArray) Xor(o *Bits) error {
	return a.combine(o, (*bitstore.Store).Xor)
}

func (a *BitArray) combine(o *Bits, op func(dst, src *bitstore.Store)) error {
	if a.Len() != o.Len() {
		return fmt.Errorf("%w: lengths differ, %d and %d bits", ErrCreation, a.Len(), o.Len())
	}
	a.store.EnsureOwned()
	op(a.store, o.store)
	return nil
}

package bitgo

import (
	"fmt"
	"iter"

	"github.com/hupe1980/bitgo/internal/bitstore"
)

type findOptions struct {
	start, end int
	hasRange   bool
	aligned    bool
	alignedSet bool
	count      int
}

// FindOption configures a single search.
type FindOption func(*findOptions)

// WithRange restricts the search to active positions [start, end).
// Negative indexes count from the end.
func WithRange(start, end int) FindOption {
	return func(o *findOptions) {
		o.start, o.end, o.hasRange = start, end, true
	}
}

// WithAlignment overrides the sequence's byte-alignment default for
// this search. Aligned searches consider only positions at whole-byte
// boundaries.
func WithAlignment(aligned bool) FindOption {
	return func(o *findOptions) {
		o.aligned, o.alignedSet = aligned, true
	}
}

// WithCount caps the number of results yielded by FindAll, Split or
// Cut. Negative means unlimited.
func WithCount(n int) FindOption {
	return func(o *findOptions) {
		o.count = n
	}
}

func (b *Bits) resolveFindOptions(optFns []FindOption) (findOptions, error) {
	o := findOptions{end: b.Len(), aligned: b.opts.aligned, count: -1}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.hasRange {
		s, e, err := resolveRange(b.Len(), o.start, o.end)
		if err != nil {
			return o, err
		}
		o.start, o.end = s, e
	}
	return o, nil
}

// searchable returns the data and pattern in scan coordinates, where
// scan position q is active position q. MSB0 scans the store as is;
// LSB0 scans both reversed, so positions climb from the least
// significant end and byte alignment is alignment to active
// boundaries.
func (b *Bits) searchable(pattern *Bits) (hay, needle *bitstore.Store) {
	if b.opts.order == LSB0 {
		return b.store.Reverse(), pattern.store.Reverse()
	}
	return b.store, pattern.store
}

// Find returns the active position of the first occurrence of pattern
// and whether one was found.
func (b *Bits) Find(pattern *Bits, opts ...FindOption) (int, bool, error) {
	o, err := b.resolveFindOptions(opts)
	if err != nil {
		return 0, false, err
	}
	if pattern.Len() == 0 {
		return 0, false, fmt.Errorf("%w: empty search pattern", ErrCreation)
	}
	hay, needle := b.searchable(pattern)
	p, ok := hay.Find(needle, o.start, o.end, o.aligned)
	if !ok {
		return 0, false, nil
	}
	return p, true, nil
}

// RFind returns the active position of the last occurrence of pattern
// and whether one was found.
func (b *Bits) RFind(pattern *Bits, opts ...FindOption) (int, bool, error) {
	o, err := b.resolveFindOptions(opts)
	if err != nil {
		return 0, false, err
	}
	if pattern.Len() == 0 {
		return 0, false, fmt.Errorf("%w: empty search pattern", ErrCreation)
	}
	hay, needle := b.searchable(pattern)
	p, ok := hay.FindLast(needle, o.start, o.end, o.aligned)
	if !ok {
		return 0, false, nil
	}
	return p, true, nil
}

// Contains reports whether pattern occurs anywhere in the sequence,
// at any alignment.
func (b *Bits) Contains(pattern *Bits) (bool, error) {
	if pattern.Len() == 0 {
		return false, fmt.Errorf("%w: empty search pattern", ErrCreation)
	}
	if pattern.Len() > b.Len() {
		return false, nil
	}
	hay, needle := b.searchable(pattern)
	_, ok := hay.Find(needle, 0, b.Len(), false)
	return ok, nil
}

// FindAll returns an iterator over the active positions of
// occurrences of pattern, ascending. Matches may overlap: the scan
// advances one bit past each match, or one byte when aligned. The
// iterator restarts the scan on every range loop.
func (b *Bits) FindAll(pattern *Bits, opts ...FindOption) (iter.Seq[int], error) {
	o, err := b.resolveFindOptions(opts)
	if err != nil {
		return nil, err
	}
	if pattern.Len() == 0 {
		return nil, fmt.Errorf("%w: empty search pattern", ErrCreation)
	}
	hay, needle := b.searchable(pattern)
	step := 1
	if o.aligned {
		step = 8
	}
	return func(yield func(int) bool) {
		yielded := 0
		for at := o.start; at <= o.end; {
			if o.count >= 0 && yielded >= o.count {
				return
			}
			p, ok := hay.Find(needle, at, o.end, o.aligned)
			if !ok {
				return
			}
			if !yield(p) {
				return
			}
			yielded++
			at = p + step
		}
	}, nil
}

// Split returns an iterator over pieces of the sequence separated by
// delimiter. The first piece holds everything before the first
// occurrence and may be empty; every later piece begins with the
// delimiter. With no occurrence the whole range is one piece. A count
// caps the total number of pieces.
func (b *Bits) Split(delimiter *Bits, opts ...FindOption) (iter.Seq[*Bits], error) {
	o, err := b.resolveFindOptions(opts)
	if err != nil {
		return nil, err
	}
	if delimiter.Len() == 0 {
		return nil, fmt.Errorf("%w: empty delimiter", ErrCreation)
	}
	hay, needle := b.searchable(delimiter)
	m := needle.Len()
	return func(yield func(*Bits) bool) {
		yielded := 0
		quota := func() bool { return o.count < 0 || yielded < o.count }

		first, ok := hay.Find(needle, o.start, o.end, o.aligned)
		if !ok {
			if quota() {
				yield(b.slicePiece(o.start, o.end))
			}
			return
		}
		if !quota() || !yield(b.slicePiece(o.start, first)) {
			return
		}
		yielded++
		cur := first
		for {
			if !quota() {
				return
			}
			next, ok := hay.Find(needle, cur+m, o.end, o.aligned)
			if !ok {
				break
			}
			if !yield(b.slicePiece(cur, next)) {
				return
			}
			yielded++
			cur = next
		}
		yield(b.slicePiece(cur, o.end))
	}, nil
}

// Cut returns an iterator over consecutive width-bit pieces of the
// sequence. A final fragment shorter than width is dropped.
func (b *Bits) Cut(width int, opts ...FindOption) (iter.Seq[*Bits], error) {
	o, err := b.resolveFindOptions(opts)
	if err != nil {
		return nil, err
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: cut width must be positive", ErrCreation)
	}
	return func(yield func(*Bits) bool) {
		yielded := 0
		for at := o.start; at+width <= o.end; at += width {
			if o.count >= 0 && yielded >= o.count {
				return
			}
			if !yield(b.slicePiece(at, at+width)) {
				return
			}
			yielded++
		}
	}, nil
}

// slicePiece returns the active-order range [s, e) as a shared slice.
// Bounds must be validated already.
func (b *Bits) slicePiece(s, e int) *Bits {
	rs, re := reflectRange(b.opts.order, b.Len(), s, e)
	return &Bits{store: b.store.Slice(rs, re), opts: b.opts}
}

package bitgo

import (
	"fmt"

	"github.com/hupe1980/bitgo/dtype"
	"github.com/hupe1980/bitgo/internal/bitstore"
)

// BitOrder selects how bit indexes map onto the data.
type BitOrder int

const (
	// MSB0 numbers bits from the most significant end: index 0 is the
	// most significant bit of the first byte.
	MSB0 BitOrder = iota
	// LSB0 numbers bits from the least significant end: index 0 is the
	// least significant bit of the last byte.
	LSB0
)

func (o BitOrder) String() string {
	if o == LSB0 {
		return "LSB0"
	}
	return "MSB0"
}

// Value is the typed result of interpreting bits. It is an alias for
// dtype.Value, so values flow between the two packages freely.
type Value = dtype.Value

// Bits is an immutable sequence of bits. All methods leave the
// receiver unchanged; deriving operations return new sequences that
// may share storage with their origin.
//
// A Bits value carries its own bit ordering and search alignment
// defaults, inherited by everything derived from it.
type Bits struct {
	store *bitstore.Store
	opts  options
}

// New returns an empty sequence.
func New(opts ...Option) *Bits {
	return &Bits{store: bitstore.New(0), opts: applyOptions(opts)}
}

// Zeros returns a sequence of n zero bits.
func Zeros(n int, opts ...Option) (*Bits, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrCreation, n)
	}
	return &Bits{store: bitstore.New(n), opts: applyOptions(opts)}, nil
}

// Ones returns a sequence of n one bits.
func Ones(n int, opts ...Option) (*Bits, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrCreation, n)
	}
	st := bitstore.New(n)
	st.SetRange(0, n, true)
	return &Bits{store: st, opts: applyOptions(opts)}, nil
}

// FromBytes returns a sequence holding a copy of b, 8 bits per byte.
func FromBytes(b []byte, opts ...Option) *Bits {
	return &Bits{store: bitstore.FromBytes(b), opts: applyOptions(opts)}
}

// FromBytesN returns a sequence holding the first n bits of b.
func FromBytesN(b []byte, n int, opts ...Option) (*Bits, error) {
	if n < 0 || n > 8*len(b) {
		return nil, fmt.Errorf("%w: length %d outside 0..%d", ErrCreation, n, 8*len(b))
	}
	return &Bits{store: bitstore.FromBytesN(b, n), opts: applyOptions(opts)}, nil
}

// FromBin builds a sequence from a binary digit string. An optional
// "0b" prefix and underscore separators are accepted.
func FromBin(s string, opts ...Option) (*Bits, error) {
	return fromDigits("bin", s, opts)
}

// FromOct builds a sequence from an octal digit string, three bits per
// digit. An optional "0o" prefix and underscores are accepted.
func FromOct(s string, opts ...Option) (*Bits, error) {
	return fromDigits("oct", s, opts)
}

// FromHex builds a sequence from a hex digit string, four bits per
// digit. An optional "0x" prefix and underscores are accepted.
func FromHex(s string, opts ...Option) (*Bits, error) {
	return fromDigits("hex", s, opts)
}

func fromDigits(name, s string, opts []Option) (*Bits, error) {
	d, err := dtype.Default.Resolve(name, 0, 0)
	if err != nil {
		return nil, creationError(err)
	}
	v, err := d.ParseValue(s)
	if err != nil {
		return nil, creationError(err)
	}
	st, err := d.Encode(v)
	if err != nil {
		return nil, creationError(err)
	}
	return &Bits{store: st, opts: applyOptions(opts)}, nil
}

// FromString builds a sequence from a format spec with inline values,
// e.g. "uint:6=10, 0b110, hex2=f0". Specs with unbound length
// placeholders need PackKW instead.
func FromString(spec string, opts ...Option) (*Bits, error) {
	return PackKW(spec, nil, nil, opts...)
}

// MustFromBin is FromBin that panics on error, for statically known
// literals.
func MustFromBin(s string, opts ...Option) *Bits {
	b, err := FromBin(s, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// MustFromHex is FromHex that panics on error, for statically known
// literals.
func MustFromHex(s string, opts ...Option) *Bits {
	b, err := FromHex(s, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// MustFromString is FromString that panics on error, for statically
// known specs.
func MustFromString(spec string, opts ...Option) *Bits {
	b, err := FromString(spec, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Join concatenates sequences into a new one. Under LSB0 ordering the
// first sequence supplies the least significant bits. The options
// apply to the result; each part keeps its own.
func Join(parts []*Bits, opts ...Option) *Bits {
	o := applyOptions(opts)
	stores := make([]*bitstore.Store, len(parts))
	for i, p := range parts {
		stores[i] = p.store
	}
	return &Bits{store: joinStores(o.order, stores), opts: o}
}

// joinStores concatenates stores in spec order. LSB0 builds from the
// least significant end, so the part list is reversed before the
// stores (always MSB-first) are joined.
func joinStores(order BitOrder, parts []*bitstore.Store) *bitstore.Store {
	if order == LSB0 {
		rev := make([]*bitstore.Store, len(parts))
		for i, p := range parts {
			rev[len(parts)-1-i] = p
		}
		parts = rev
	}
	return bitstore.Join(parts...)
}

// Len returns the length in bits.
func (b *Bits) Len() int { return b.store.Len() }

// Order returns the sequence's bit ordering.
func (b *Bits) Order() BitOrder { return b.opts.order }

// WithOrder returns the same bits viewed under a different ordering.
// No data is copied.
func (b *Bits) WithOrder(order BitOrder) *Bits {
	if order == b.opts.order {
		return b
	}
	o := b.opts
	o.order = order
	return &Bits{store: b.store, opts: o}
}

// Bit returns the bit at index i. Negative indexes count from the
// end.
func (b *Bits) Bit(i int) (bool, error) {
	j, err := resolveIndex(b.Len(), i)
	if err != nil {
		return false, err
	}
	return b.store.Bit(reflectIndex(b.opts.order, b.Len(), j)), nil
}

// Slice returns the sub-sequence [start, end) in the active ordering.
// Negative indexes count from the end. The result shares storage with
// the receiver.
func (b *Bits) Slice(start, end int) (*Bits, error) {
	s, e, err := resolveRange(b.Len(), start, end)
	if err != nil {
		return nil, err
	}
	rs, re := reflectRange(b.opts.order, b.Len(), s, e)
	return &Bits{store: b.store.Slice(rs, re), opts: b.opts}, nil
}

// Bytes returns the data as bytes, padding any final partial byte
// with zero bits. The result is independent of the bit ordering.
func (b *Bits) Bytes() []byte { return b.store.Bytes() }

// Count returns the number of bits equal to v.
func (b *Bits) Count(v bool) int { return b.store.Count(v) }

// Any reports whether at least one bit equals v.
func (b *Bits) Any(v bool) bool { return b.store.Any(v) }

// All reports whether every bit equals v. An empty sequence satisfies
// All.
func (b *Bits) All(v bool) bool { return b.store.All(v) }

// Equal reports whether two sequences hold the same bits. Ordering
// and alignment options do not participate; equality is over the
// data.
func (b *Bits) Equal(o *Bits) bool {
	if o == nil {
		return false
	}
	return b.store.Equal(o.store)
}

// String renders the sequence as a hex literal when the length is a
// multiple of four bits and as a binary literal otherwise. The empty
// sequence renders as "".
func (b *Bits) String() string {
	n := b.Len()
	switch {
	case n == 0:
		return ""
	case n%4 == 0:
		s, _ := b.Hex()
		return "0x" + s
	default:
		s, _ := b.Bin()
		return "0b" + s
	}
}

// ToBitArray returns a mutable snapshot of the sequence. The snapshot
// shares storage until its first mutation.
func (b *Bits) ToBitArray() *BitArray {
	b.store.MarkShared()
	st := b.store.View(0, b.store.Len())
	return &BitArray{store: st, opts: b.opts}
}

// derive wraps a store in a sequence inheriting the receiver's
// options.
func (b *Bits) derive(st *bitstore.Store) *Bits {
	return &Bits{store: st, opts: b.opts}
}

// sliceActive returns a transient store window over the active-order
// range [s, e), which must be validated already.
func (b *Bits) sliceActive(s, e int) *bitstore.Store {
	rs, re := reflectRange(b.opts.order, b.Len(), s, e)
	return b.store.View(rs, re)
}

// resolveIndex maps i, which may be negative to count from the end,
// onto [0, n).
func resolveIndex(n, i int) (int, error) {
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return 0, fmt.Errorf("%w: bit %d of %d", ErrRead, i, n)
	}
	return j, nil
}

// resolveRange maps start and end, either possibly negative, onto
// 0 <= start <= end <= n.
func resolveRange(n, start, end int) (int, int, error) {
	s, e := start, end
	if s < 0 {
		s += n
	}
	if e < 0 {
		e += n
	}
	if s < 0 || e < s || e > n {
		return 0, 0, fmt.Errorf("%w: range [%d, %d) of %d bits", ErrRead, start, end, n)
	}
	return s, e, nil
}

// reflectIndex maps an active-order bit index onto the MSB-first
// store.
func reflectIndex(order BitOrder, n, i int) int {
	if order == LSB0 {
		return n - 1 - i
	}
	return i
}

// reflectRange maps an active-order range [start, end) onto the
// store. Under LSB0 the ends swap roles.
func reflectRange(order BitOrder, n, start, end int) (int, int) {
	if order == LSB0 {
		return n - end, n - start
	}
	return start, end
}

// reflectPoint maps an active-order boundary position onto the store.
func reflectPoint(order BitOrder, n, pos int) int {
	if order == LSB0 {
		return n - pos
	}
	return pos
}

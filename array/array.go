// Package array provides a growable container of same-typed elements
// packed back to back in binary form. Every element is stored in the
// width of one format, so a million uint:12 items occupy exactly
// twelve million bits.
package array

import (
	"errors"
	"fmt"
	"iter"
	"math/big"

	"github.com/hupe1980/bitgo"
	"github.com/hupe1980/bitgo/dtype"
	"github.com/hupe1980/bitgo/internal/bitstore"
	"github.com/hupe1980/bitgo/token"
)

// Array is a sequence of elements that share one fixed-width format.
// The zero value is not usable; construct with New, FromValues or
// FromBits.
//
// Elements are addressed by item index. Bits beyond the last whole
// item are kept but do not count as an element; TrailingBits reports
// them.
type Array struct {
	dt   *dtype.Dtype
	data *bitgo.BitArray
}

// New returns an empty array whose elements use the given format,
// e.g. "uint:12", "u8" or "e4m3mxfp". The format must have a fixed
// width; variable-length codes and open-ended formats are rejected.
func New(format string, opts ...Option) (*Array, error) {
	cfg, err := configure(opts)
	if err != nil {
		return nil, err
	}
	scale := cfg.scale
	if cfg.auto {
		scale, err = batchScale(format, nil)
		if err != nil {
			return nil, err
		}
	}
	return build(format, scale)
}

// FromValues builds an array from a batch of element values. With
// WithScaleAuto the scale is computed from this batch before any
// value is encoded.
func FromValues(format string, vals []any, opts ...Option) (*Array, error) {
	cfg, err := configure(opts)
	if err != nil {
		return nil, err
	}
	scale := cfg.scale
	if cfg.auto {
		scale, err = batchScale(format, vals)
		if err != nil {
			return nil, err
		}
	}
	a, err := build(format, scale)
	if err != nil {
		return nil, err
	}
	if err := a.Extend(vals...); err != nil {
		return nil, err
	}
	return a, nil
}

// FromBits builds an array over a copy of an existing sequence. The
// sequence's raw bits are taken in MSB0 reading order; a length that
// is not a whole number of elements leaves the remainder as trailing
// bits. Auto-scaling needs element values and is rejected here.
func FromBits(format string, b *bitgo.Bits, opts ...Option) (*Array, error) {
	cfg, err := configure(opts)
	if err != nil {
		return nil, err
	}
	if cfg.auto {
		return nil, fmt.Errorf("%w: auto-scale needs element values, not raw bits", bitgo.ErrCreation)
	}
	a, err := build(format, cfg.scale)
	if err != nil {
		return nil, err
	}
	a.data.Append(b)
	return a, nil
}

// build resolves the element format and validates that it has a
// usable fixed width.
func build(format string, scale float64) (*Array, error) {
	d, err := resolve(format, scale)
	if err != nil {
		return nil, classify(err, bitgo.ErrCreation)
	}
	if d.VarLen() {
		return nil, fmt.Errorf("%w: %s codes cannot be array elements", bitgo.ErrCreation, d.Name())
	}
	if d.BitLen() == 0 {
		return nil, fmt.Errorf("%w: array elements need a fixed width, %s has none", bitgo.ErrCreation, d)
	}
	return &Array{dt: d, data: bitgo.NewBitArray()}, nil
}

// resolve parses format as a single valueless token and binds it,
// with the scale, against the default registry.
func resolve(format string, scale float64) (*dtype.Dtype, error) {
	toks, err := token.Parse(format)
	if err != nil {
		return nil, err
	}
	if len(toks) != 1 {
		return nil, &token.ErrToken{Token: format, Reason: "expected a single format"}
	}
	t := toks[0]
	if t.Value != "" {
		return nil, &token.ErrToken{Token: t.String(), Reason: "unexpected value"}
	}
	length := 0
	if t.Length != "" {
		n, ok := t.LengthInt()
		if !ok {
			return nil, &token.ErrToken{Token: t.String(), Reason: "length placeholder " + t.Length + " is not bound"}
		}
		length = n
	}
	return dtype.Default.Resolve(t.Name, length, scale)
}

// Dtype returns the element format in token form, e.g. "uint12".
func (a *Array) Dtype() string { return a.dt.String() }

// Scale returns the scale factor applied to element values, or 0 when
// the array is unscaled.
func (a *Array) Scale() float64 { return a.dt.Scale() }

// ItemBits returns the width of one element in bits.
func (a *Array) ItemBits() int { return a.dt.BitLen() }

// Len returns the number of whole elements.
func (a *Array) Len() int { return a.data.Len() / a.dt.BitLen() }

// TrailingBits returns the number of bits past the last whole
// element. It is nonzero only for arrays built over data whose length
// is not a multiple of the element width.
func (a *Array) TrailingBits() int { return a.data.Len() % a.dt.BitLen() }

// ToBits returns an immutable snapshot of the backing data, trailing
// bits included.
func (a *Array) ToBits() *bitgo.Bits { return a.data.Bits() }

// String renders a short description of the array.
func (a *Array) String() string {
	if t := a.TrailingBits(); t != 0 {
		return fmt.Sprintf("<Array dtype='%s', length=%d items, %d trailing bits>", a.dt, a.Len(), t)
	}
	return fmt.Sprintf("<Array dtype='%s', length=%d items>", a.dt, a.Len())
}

// Append encodes one value and adds it as a new last element. An
// array with trailing bits cannot grow, since the new element would
// not start on an element boundary.
func (a *Array) Append(x any) error {
	return a.Extend(x)
}

// Extend appends each value in order. Nothing is appended unless
// every value encodes.
func (a *Array) Extend(vals ...any) error {
	if t := a.TrailingBits(); t != 0 {
		return fmt.Errorf("%w: cannot append with %d trailing bits", bitgo.ErrCreation, t)
	}
	items := make([]*bitgo.Bits, len(vals))
	for i, x := range vals {
		item, err := a.encode(x)
		if err != nil {
			return err
		}
		items[i] = item
	}
	for _, item := range items {
		a.data.Append(item)
	}
	return nil
}

// At decodes element i. Negative indexes count from the end.
func (a *Array) At(i int) (bitgo.Value, error) {
	j, err := a.item(i)
	if err != nil {
		return bitgo.Value{}, err
	}
	w := a.dt.BitLen()
	st := bitstore.FromBytesN(a.data.Bytes(), a.data.Len())
	v, err := a.dt.Decode(st, j*w, w)
	if err != nil {
		return bitgo.Value{}, classify(err, bitgo.ErrInterpret)
	}
	return v, nil
}

// SetAt encodes a value over element i in place. Negative indexes
// count from the end.
func (a *Array) SetAt(i int, x any) error {
	j, err := a.item(i)
	if err != nil {
		return err
	}
	item, err := a.encode(x)
	if err != nil {
		return err
	}
	return a.data.Overwrite(j*a.dt.BitLen(), item)
}

// Values yields every whole element in index order, decoded with the
// element format. The data is captured when iteration starts, so the
// array may be mutated mid-loop.
func (a *Array) Values() iter.Seq[bitgo.Value] {
	w := a.dt.BitLen()
	return func(yield func(bitgo.Value) bool) {
		st := bitstore.FromBytesN(a.data.Bytes(), a.data.Len())
		for i := 0; i+w <= st.Len(); i += w {
			v, err := a.dt.Decode(st, i, w)
			if err != nil || !yield(v) {
				return
			}
		}
	}
}

// Count returns the number of elements whose stored bits equal the
// encoding of x.
func (a *Array) Count(x any) (int, error) {
	pattern, err := a.encode(x)
	if err != nil {
		return 0, err
	}
	w := a.dt.BitLen()
	snap := a.data.Bits()
	n := 0
	for i := 0; i < a.Len(); i++ {
		item, err := snap.Slice(i*w, (i+1)*w)
		if err != nil {
			return 0, err
		}
		if item.Equal(pattern) {
			n++
		}
	}
	return n, nil
}

// Equal reports whether o has the same element format, the same scale
// and identical backing bits, trailing bits included.
func (a *Array) Equal(o *Array) bool {
	if o == nil {
		return false
	}
	return a.dt.Name() == o.dt.Name() &&
		a.dt.BitLen() == o.dt.BitLen() &&
		a.dt.Scale() == o.dt.Scale() &&
		a.data.Equal(o.data.Bits())
}

// item resolves an element index, counting negatives from the end.
func (a *Array) item(i int) (int, error) {
	n := a.Len()
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return 0, fmt.Errorf("%w: item %d of %d", bitgo.ErrRead, i, n)
	}
	return j, nil
}

// encode converts one element value into bits of the element width.
func (a *Array) encode(x any) (*bitgo.Bits, error) {
	v, err := a.value(x)
	if err != nil {
		return nil, err
	}
	st, err := a.dt.Encode(v)
	if err != nil {
		return nil, classify(err, bitgo.ErrCreation)
	}
	return bitgo.FromBytesN(st.Bytes(), st.Len())
}

// value converts a Go value into a typed element value. Strings go
// through the format's own parser.
func (a *Array) value(x any) (dtype.Value, error) {
	if s, ok := x.(string); ok {
		v, err := a.dt.ParseValue(s)
		if err != nil {
			return dtype.Value{}, classify(err, bitgo.ErrCreation)
		}
		return v, nil
	}
	if v, ok := valueOf(x); ok {
		return v, nil
	}
	return dtype.Value{}, fmt.Errorf("%w: cannot use a %T as an array element", bitgo.ErrCreation, x)
}

func valueOf(x any) (dtype.Value, bool) {
	switch v := x.(type) {
	case dtype.Value:
		return v, true
	case bool:
		return dtype.BoolValue(v), true
	case int:
		return dtype.IntValue(int64(v)), true
	case int8:
		return dtype.IntValue(int64(v)), true
	case int16:
		return dtype.IntValue(int64(v)), true
	case int32:
		return dtype.IntValue(int64(v)), true
	case int64:
		return dtype.IntValue(v), true
	case uint:
		return dtype.UintValue(uint64(v)), true
	case uint8:
		return dtype.UintValue(uint64(v)), true
	case uint16:
		return dtype.UintValue(uint64(v)), true
	case uint32:
		return dtype.UintValue(uint64(v)), true
	case uint64:
		return dtype.UintValue(v), true
	case float32:
		return dtype.FloatValue(float64(v)), true
	case float64:
		return dtype.FloatValue(v), true
	case []byte:
		return dtype.BytesValue(v), true
	case *big.Int:
		return dtype.BigValue(v), true
	case *bitgo.Bits:
		return dtype.BitsValue(bitstore.FromBytesN(v.Bytes(), v.Len())), true
	default:
		return dtype.Value{}, false
	}
}

// classify maps format and truncation failures onto the shared
// sentinel errors and wraps everything else with the given fallback.
func classify(err, fallback error) error {
	if err == nil || errors.Is(err, bitgo.ErrCreation) || errors.Is(err, bitgo.ErrInterpret) ||
		errors.Is(err, bitgo.ErrRead) || errors.Is(err, bitgo.ErrParse) {
		return err
	}
	var te *token.ErrToken
	if errors.As(err, &te) {
		return fmt.Errorf("%w: %w", bitgo.ErrParse, err)
	}
	var uf *dtype.ErrUnknownFormat
	if errors.As(err, &uf) {
		return fmt.Errorf("%w: %w", bitgo.ErrParse, err)
	}
	var tr *dtype.ErrTruncated
	if errors.As(err, &tr) {
		return fmt.Errorf("%w: %w", bitgo.ErrRead, err)
	}
	return fmt.Errorf("%w: %w", fallback, err)
}

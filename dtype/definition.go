package dtype

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/bitgo/internal/bitstore"
)

// EncodeFunc converts a value into a fresh bit store. nbits is the
// resolved bit length, or 0 when the format derives it from the value.
type EncodeFunc func(nbits int, v Value) (*bitstore.Store, error)

// DecodeFunc interprets bits [start, start+nbits) of s. Bounds are
// validated by the caller.
type DecodeFunc func(s *bitstore.Store, start, nbits int) (Value, error)

// DecodeVarFunc decodes a variable-length code starting at start,
// returning the value and the number of bits consumed.
type DecodeVarFunc func(s *bitstore.Store, start int) (Value, int, error)

// Lengths describes the bit lengths a format accepts: exactly one of a
// single value, an explicit set, or any positive multiple of Every.
type Lengths struct {
	Single int
	Set    []int
	Every  int
}

func (l Lengths) valid(nbits int) bool {
	switch {
	case l.Single != 0:
		return nbits == l.Single
	case len(l.Set) > 0:
		return slices.Contains(l.Set, nbits)
	case l.Every != 0:
		return nbits > 0 && nbits%l.Every == 0
	default:
		return false
	}
}

func (l Lengths) describe() string {
	switch {
	case l.Single != 0:
		return fmt.Sprintf("length must be %d bits", l.Single)
	case len(l.Set) > 0:
		parts := make([]string, len(l.Set))
		for i, n := range l.Set {
			parts[i] = fmt.Sprint(n)
		}
		return fmt.Sprintf("length must be one of %s bits", strings.Join(parts, ", "))
	case l.Every == 1:
		return "length must be positive"
	case l.Every != 0:
		return fmt.Sprintf("length must be a multiple of %d bits", l.Every)
	default:
		return "format takes no length"
	}
}

// Definition is a format class from which concrete Dtypes are resolved.
type Definition struct {
	// Name is the canonical format name, e.g. "uint".
	Name string
	// Description is a short human-readable summary.
	Description string
	// Kind is the result type of a decode.
	Kind Kind
	// BitsPerItem is the number of bits one token-length unit stands
	// for: 1 for numeric formats, 3 for oct, 4 for hex, 8 for bytes.
	BitsPerItem int
	// Signed marks two's-complement formats.
	Signed bool
	// VarLen marks variable-length codes (the Exp-Golomb family).
	// Such formats take no length and decode via DecodeVar.
	VarLen bool
	// LiteralPrefix is the literal spelling this format owns in the
	// token language ("0b", "0o", "0x"), if any.
	LiteralPrefix string
	// MaxAbs is the largest finite magnitude the format can represent,
	// for bounded single-width formats (0 = unbounded). Auto-scaling
	// builds on it.
	MaxAbs float64
	// Lengths are the accepted bit lengths. A Single length doubles as
	// the default when no length is given.
	Lengths Lengths

	Encode    EncodeFunc
	Decode    DecodeFunc
	DecodeVar DecodeVarFunc
}

// Dtype is a Definition bound to a concrete length and optional scale.
// Dtypes are immutable and shared via the registry cache.
type Dtype struct {
	def    *Definition
	length int     // item count as given (0 = unsized)
	bits   int     // resolved bit length (0 = unsized or variable-length)
	scale  float64 // 0 = unscaled
}

// Name returns the canonical format name.
func (d *Dtype) Name() string { return d.def.Name }

// String renders the dtype in token form, e.g. "uint6" or "se".
func (d *Dtype) String() string {
	if d.length == 0 {
		return d.def.Name
	}
	return fmt.Sprintf("%s%d", d.def.Name, d.length)
}

// Length returns the length in items (hex digits, bytes, bits...), or 0
// when unsized.
func (d *Dtype) Length() int { return d.length }

// BitLen returns the resolved length in bits, or 0 when unsized or
// variable-length.
func (d *Dtype) BitLen() int { return d.bits }

// BitsPerItem returns the number of bits per token-length unit.
func (d *Dtype) BitsPerItem() int { return d.def.BitsPerItem }

// Kind returns the result kind of a decode.
func (d *Dtype) Kind() Kind { return d.def.Kind }

// Signed reports whether the format is two's-complement.
func (d *Dtype) Signed() bool { return d.def.Signed }

// VarLen reports whether the format is variable-length.
func (d *Dtype) VarLen() bool { return d.def.VarLen }

// Scale returns the scale factor, or 0 when unscaled.
func (d *Dtype) Scale() float64 { return d.scale }

// MaxAbs returns the largest finite magnitude the format represents,
// or 0 when the format is unbounded.
func (d *Dtype) MaxAbs() float64 { return d.def.MaxAbs }

// Definition returns the format class this dtype was resolved from.
func (d *Dtype) Definition() *Definition { return d.def }

// Encode converts a value into a fresh bit store. Encoding divides by
// the scale before the raw codec runs, so one code path serves scaled
// and unscaled dtypes.
func (d *Dtype) Encode(v Value) (*bitstore.Store, error) {
	if d.scale != 0 {
		f, ok := v.numeric()
		if !ok {
			return nil, &ErrBadValue{Dtype: d.String(), Value: v.String()}
		}
		v = FloatValue(f / d.scale)
	}
	return d.def.Encode(d.bits, v)
}

// Decode interprets bits [start, start+nbits) of s. For sized dtypes
// nbits must match the resolved length; unsized dtypes validate nbits
// against the format's allowed lengths. Decoding multiplies by the
// scale after the raw codec runs.
func (d *Dtype) Decode(s *bitstore.Store, start, nbits int) (Value, error) {
	if d.def.VarLen {
		v, _, err := d.DecodeVar(s, start)
		return v, err
	}
	if d.bits != 0 && nbits != d.bits {
		return Value{}, &ErrDecode{Dtype: d.String(), Reason: fmt.Sprintf("cannot interpret %d bits", nbits)}
	}
	if d.bits == 0 {
		if !d.def.Lengths.valid(nbits) {
			return Value{}, &ErrDecode{Dtype: d.String(), Reason: d.def.Lengths.describe() + fmt.Sprintf(", got %d", nbits)}
		}
	}
	if start < 0 || nbits < 0 || start+nbits > s.Len() {
		return Value{}, &ErrTruncated{Dtype: d.String(), Need: nbits, Have: s.Len() - start}
	}
	v, err := d.def.Decode(s, start, nbits)
	if err != nil {
		return Value{}, err
	}
	if d.scale != 0 && v.kind == KindFloat {
		v.f *= d.scale
	}
	return v, nil
}

// DecodeVar decodes a variable-length code at start, returning the
// value and the bits consumed.
func (d *Dtype) DecodeVar(s *bitstore.Store, start int) (Value, int, error) {
	if d.def.DecodeVar == nil {
		return Value{}, 0, &ErrDecode{Dtype: d.String(), Reason: "not a variable-length format"}
	}
	if start < 0 || start > s.Len() {
		return Value{}, 0, &ErrTruncated{Dtype: d.String(), Need: 1, Have: 0}
	}
	return d.def.DecodeVar(s, start)
}

// ParseValue converts a token value string into a Value suitable for
// Encode. Integer formats accept decimal and 0x/0o/0b literals of any
// magnitude; float formats follow the documented overflow policy
// (16/32-bit saturate to ±Inf, 64-bit fails).
func (d *Dtype) ParseValue(s string) (Value, error) {
	switch d.def.Kind {
	case KindUint, KindInt:
		return d.parseIntValue(s)
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			if !errors.Is(err, strconv.ErrRange) {
				return Value{}, &ErrBadValue{Dtype: d.String(), Value: s}
			}
			if d.bits == 64 {
				return Value{}, &ErrRange{Dtype: d.String(), Value: s}
			}
			// Narrower widths saturate; ParseFloat already returned ±Inf.
		}
		return FloatValue(f), nil
	case KindString:
		digits := s
		if p := d.def.LiteralPrefix; p != "" && len(digits) >= 2 {
			if digits[:2] == p || digits[:2] == strings.ToUpper(p) {
				digits = digits[2:]
			}
		}
		return StringValue(digits), nil
	case KindBytes:
		return BytesValue([]byte(s)), nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, &ErrBadValue{Dtype: d.String(), Value: s}
		}
		return BoolValue(b), nil
	case KindBits:
		st, err := parseBitsLiteral(s)
		if err != nil {
			return Value{}, &ErrBadValue{Dtype: d.String(), Value: s}
		}
		return BitsValue(st), nil
	default:
		return Value{}, &ErrBadValue{Dtype: d.String(), Value: s}
	}
}

func (d *Dtype) parseIntValue(s string) (Value, error) {
	if u, err := strconv.ParseUint(s, 0, 64); err == nil {
		return UintValue(u), nil
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return IntValue(i), nil
	}
	x, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return Value{}, &ErrBadValue{Dtype: d.String(), Value: s}
	}
	return BigValue(x), nil
}

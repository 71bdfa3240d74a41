package bitgo

import (
	"fmt"

	"github.com/hupe1980/bitgo/dtype"
	"github.com/hupe1980/bitgo/token"
)

// Interpret decodes the entire sequence as one value of the given
// format, e.g. Interpret("floatle:32"), Interpret("u12") or
// Interpret("ue"). Variable-length codes must consume the sequence
// exactly.
func (b *Bits) Interpret(spec string) (Value, error) {
	d, err := resolveOne(spec)
	if err != nil {
		return Value{}, interpretError(err)
	}
	return b.decodeWhole(d)
}

// resolveOne parses spec as a single valueless format token and
// resolves it against the default registry.
func resolveOne(spec string) (*dtype.Dtype, error) {
	toks, err := token.Parse(spec)
	if err != nil {
		return nil, err
	}
	if len(toks) != 1 {
		return nil, &token.ErrToken{Token: spec, Reason: "expected a single format"}
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
	return dtype.Default.Resolve(t.Name, length, 0)
}

// interp decodes the whole sequence with the named format, unsized.
func (b *Bits) interp(name string) (Value, error) {
	d, err := dtype.Default.Resolve(name, 0, 0)
	if err != nil {
		return Value{}, interpretError(err)
	}
	return b.decodeWhole(d)
}

// decodeWhole interprets the full sequence as a single value of d.
// The window spans all bits, which reflects onto itself under either
// ordering, so the store is decoded directly.
func (b *Bits) decodeWhole(d *dtype.Dtype) (Value, error) {
	if d.VarLen() {
		v, used, err := b.decodeVarAt(d, 0)
		if err != nil {
			return Value{}, err
		}
		if used != b.Len() {
			return Value{}, fmt.Errorf("%w: %s code uses %d of %d bits", ErrInterpret, d.Name(), used, b.Len())
		}
		return v, nil
	}
	v, err := d.Decode(b.store, 0, b.Len())
	if err != nil {
		return Value{}, interpretError(err)
	}
	return v, nil
}

// Uint interprets the sequence as an unsigned integer, most
// significant bit first. Sequences longer than 64 bits do not fit;
// Interpret("uint") yields those as a big integer.
func (b *Bits) Uint() (uint64, error) {
	return b.uintNamed("uint")
}

// UintBE interprets the sequence as a big-endian unsigned integer.
// The length must be a whole number of bytes.
func (b *Bits) UintBE() (uint64, error) {
	return b.uintNamed("uintbe")
}

// UintLE interprets the sequence as a little-endian unsigned integer.
// The length must be a whole number of bytes.
func (b *Bits) UintLE() (uint64, error) {
	return b.uintNamed("uintle")
}

// UintNE interprets the sequence as a native-endian unsigned integer.
func (b *Bits) UintNE() (uint64, error) {
	return b.uintNamed("uintne")
}

func (b *Bits) uintNamed(name string) (uint64, error) {
	v, err := b.interp(name)
	if err != nil {
		return 0, err
	}
	if v.Kind() != dtype.KindUint {
		return 0, fmt.Errorf("%w: %d bits do not fit in uint64, interpret as a big integer instead", ErrInterpret, b.Len())
	}
	return v.Uint(), nil
}

// Int interprets the sequence as a two's-complement signed integer.
// Sequences longer than 64 bits do not fit; Interpret("int") yields
// those as a big integer.
func (b *Bits) Int() (int64, error) {
	return b.intNamed("int")
}

// IntBE interprets the sequence as a big-endian signed integer. The
// length must be a whole number of bytes.
func (b *Bits) IntBE() (int64, error) {
	return b.intNamed("intbe")
}

// IntLE interprets the sequence as a little-endian signed integer.
// The length must be a whole number of bytes.
func (b *Bits) IntLE() (int64, error) {
	return b.intNamed("intle")
}

// IntNE interprets the sequence as a native-endian signed integer.
func (b *Bits) IntNE() (int64, error) {
	return b.intNamed("intne")
}

func (b *Bits) intNamed(name string) (int64, error) {
	v, err := b.interp(name)
	if err != nil {
		return 0, err
	}
	if v.Kind() != dtype.KindInt {
		return 0, fmt.Errorf("%w: %d bits do not fit in int64, interpret as a big integer instead", ErrInterpret, b.Len())
	}
	return v.Int(), nil
}

// Float interprets the sequence as a big-endian IEEE float. The
// length must be 16, 32 or 64 bits.
func (b *Bits) Float() (float64, error) {
	v, err := b.interp("float")
	if err != nil {
		return 0, err
	}
	return v.Float(), nil
}

// BFloat interprets the sequence as a 16-bit bfloat.
func (b *Bits) BFloat() (float64, error) {
	v, err := b.interp("bfloat")
	if err != nil {
		return 0, err
	}
	return v.Float(), nil
}

// Hex returns the sequence as hex digits. The length must be a
// multiple of four bits; the empty sequence yields "".
func (b *Bits) Hex() (string, error) {
	return b.digits("hex")
}

// Oct returns the sequence as octal digits. The length must be a
// multiple of three bits; the empty sequence yields "".
func (b *Bits) Oct() (string, error) {
	return b.digits("oct")
}

// Bin returns the sequence as binary digits, one per bit.
func (b *Bits) Bin() (string, error) {
	return b.digits("bin")
}

func (b *Bits) digits(name string) (string, error) {
	if b.Len() == 0 {
		return "", nil
	}
	v, err := b.interp(name)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Bool interprets a single-bit sequence as a boolean.
func (b *Bits) Bool() (bool, error) {
	v, err := b.interp("bool")
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

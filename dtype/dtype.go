// Package dtype maps format names like "uint", "floatle" or "ue" to
// typed encode/decode routines. A Definition describes a format class
// (allowed lengths, result kind, codec); Resolve binds it to a concrete
// bit length and optional scale, producing an immutable Dtype that is
// memoized in a bounded cache.
package dtype

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/hupe1980/bitgo/internal/bitstore"
)

// Kind is the result type of a decode.
type Kind int

const (
	KindNone Kind = iota
	KindUint
	KindInt
	KindBigInt
	KindFloat
	KindBytes
	KindString
	KindBool
	KindBits
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindBigInt:
		return "bigint"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindBits:
		return "bits"
	default:
		return "unknown"
	}
}

// Value is the typed payload passed into Encode and returned by Decode.
type Value struct {
	kind Kind
	u    uint64
	i    int64
	f    float64
	b    bool
	s    string
	p    []byte
	big  *big.Int
	st   *bitstore.Store
}

// None is the empty Value, produced by pad decodes.
func None() Value { return Value{kind: KindNone} }

// UintValue wraps an unsigned integer.
func UintValue(u uint64) Value { return Value{kind: KindUint, u: u} }

// IntValue wraps a signed integer.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// BigValue wraps an arbitrary-precision integer.
func BigValue(x *big.Int) Value { return Value{kind: KindBigInt, big: x} }

// FloatValue wraps a float.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// StringValue wraps a digit string (bin/oct/hex payloads).
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// BytesValue wraps raw bytes.
func BytesValue(p []byte) Value { return Value{kind: KindBytes, p: p} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// BitsValue wraps a raw bit store.
func BitsValue(st *bitstore.Store) Value { return Value{kind: KindBits, st: st} }

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Uint returns the unsigned integer payload.
func (v Value) Uint() uint64 { return v.u }

// Int returns the signed integer payload.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload.
func (v Value) Float() float64 { return v.f }

// Bool returns the bool payload.
func (v Value) Bool() bool { return v.b }

// Bytes returns the raw bytes payload.
func (v Value) Bytes() []byte { return v.p }

// Big returns the arbitrary-precision integer payload.
func (v Value) Big() *big.Int { return v.big }

// Store returns the raw bit store payload.
func (v Value) Store() *bitstore.Store { return v.st }

// String returns the string payload for KindString values and a
// rendered form for every other kind.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNone:
		return ""
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindBigInt:
		return v.big.String()
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindBytes:
		return fmt.Sprintf("%q", v.p)
	case KindBits:
		return fmt.Sprintf("<%d bits>", v.st.Len())
	default:
		return "<invalid>"
	}
}

// Any returns the natural Go value for the payload.
func (v Value) Any() any {
	switch v.kind {
	case KindNone:
		return nil
	case KindUint:
		return v.u
	case KindInt:
		return v.i
	case KindBigInt:
		return v.big
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindBytes:
		return v.p
	case KindString:
		return v.s
	case KindBits:
		return v.st
	default:
		return nil
	}
}

// numeric reports whether the value can be coerced to float64, and the
// coerced value. Huge big integers coerce to ±Inf.
func (v Value) numeric() (float64, bool) {
	switch v.kind {
	case KindUint:
		return float64(v.u), true
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindBigInt:
		f, _ := new(big.Float).SetInt(v.big).Float64()
		return f, true
	default:
		return 0, false
	}
}

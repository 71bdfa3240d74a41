// Package fp implements the half-width floating point formats used as
// storage interpretations: IEEE-754 binary16 and bfloat16. Values cross
// the API as float64; these helpers convert between float64 and the raw
// bit-patterns.
package fp

import "math"

const (
	f16SignMask uint16 = 0x8000
	f16ExpMask  uint16 = 0x7C00
	f16FracMask uint16 = 0x03FF

	f64ExpMask  uint64 = 0x7FF0000000000000
	f64FracMask uint64 = 0x000FFFFFFFFFFFFF
)

// F16ToFloat converts a binary16 bit-pattern to float64. The conversion
// is exact.
func F16ToFloat(h uint16) float64 {
	sign := uint64(h&f16SignMask) << 48
	exp := uint64(h&f16ExpMask) >> 10
	frac := uint64(h & f16FracMask)

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float64frombits(sign)
		}
		// Subnormal: normalize the fraction. Half subnormals have an
		// exponent of -14 and no implicit leading 1.
		e := int64(-14)
		m := frac
		for m&0x0400 == 0 {
			m <<= 1
			e--
		}
		m &= 0x03FF // strip leading 1
		f64Exp := uint64(1023+e) << 52
		return math.Float64frombits(sign | f64Exp | m<<42)
	case 0x1F:
		// Inf/NaN; the quiet bit and payload shift up with the fraction.
		if frac == 0 {
			return math.Float64frombits(sign | f64ExpMask)
		}
		return math.Float64frombits(sign | f64ExpMask | frac<<42)
	default:
		f64Exp := uint64(int64(exp)-15+1023) << 52
		return math.Float64frombits(sign | f64Exp | frac<<42)
	}
}

// F16FromFloat converts a float64 value into a binary16 bit-pattern.
//
// Rounding mode: round-to-nearest, ties-to-even. Values beyond the
// binary16 range saturate to ±Inf.
func F16FromFloat(f float64) uint16 {
	bits := math.Float64bits(f)
	sign := uint16(bits>>48) & f16SignMask
	exp := int64((bits & f64ExpMask) >> 52)
	frac := bits & f64FracMask

	// NaN / Inf
	if exp == 0x7FF {
		if frac == 0 {
			return sign | f16ExpMask
		}
		// Preserve some payload; ensure it's a quiet NaN and non-zero.
		payload := uint16(frac >> 42)
		if payload == 0 {
			payload = 1
		}
		payload |= 0x0200
		return sign | f16ExpMask | (payload & f16FracMask)
	}

	// Zero and float64 subnormals, which sit far below the binary16
	// subnormal range.
	if exp == 0 {
		return sign
	}

	// Re-bias exponent from float64 (1023) to float16 (15).
	e16 := exp - 1023 + 15

	// Overflow -> Inf
	if e16 >= 0x1F {
		return sign | f16ExpMask
	}

	// Underflow -> subnormal/zero
	if e16 <= 0 {
		// Too small even for subnormal.
		if e16 < -10 {
			return sign
		}
		// Make the implicit leading 1 explicit.
		mant := frac | 1<<52
		// Shift so that we end up with a 10-bit mantissa.
		shift := uint(1-e16) + 42
		m := uint16(mant >> shift)
		rem := mant & (1<<shift - 1)
		half := uint64(1) << (shift - 1)
		if rem > half || (rem == half && m&1 == 1) {
			// A carry out of the mantissa lands on the minimum normal
			// encoding, which is still correct.
			m++
		}
		return sign | m
	}

	// Normal case: convert fraction (52 bits) -> (10 bits) with rounding.
	m := uint16(frac >> 42)
	rem := frac & (1<<42 - 1)
	half := uint64(1) << 41
	if rem > half || (rem == half && m&1 == 1) {
		m++
		if m == 0x0400 {
			// Mantissa overflow; carry into exponent.
			m = 0
			e16++
			if e16 >= 0x1F {
				return sign | f16ExpMask
			}
		}
	}

	return sign | uint16(e16)<<10 | m
}

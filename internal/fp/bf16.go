package fp

import "math"

// BF16FromFloat converts a float64 value into a bfloat16 bit-pattern.
// The value is first rounded to float32, then the low 16 fraction bits
// are truncated. Values beyond the float32 range saturate to ±Inf.
func BF16FromFloat(f float64) uint16 {
	return uint16(math.Float32bits(float32(f)) >> 16)
}

// BF16ToFloat converts a bfloat16 bit-pattern to float64. The
// conversion is exact.
func BF16ToFloat(b uint16) float64 {
	return float64(math.Float32frombits(uint32(b) << 16))
}

package dtype

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2M1_Table(t *testing.T) {
	want := []float64{0, 0.5, 1, 1.5, 2, 3, 4, 6}
	d := mustDtype(t, "e2m1mxfp", 0)
	for code := 0; code < 16; code++ {
		st := fromBits(t, "")
		st.AppendUint(4, uint64(code))
		v, err := d.Decode(st, 0, 4)
		require.NoError(t, err)
		expected := want[code&7]
		if code >= 8 {
			expected = -expected
		}
		assert.Equal(t, expected, v.Float(), "code %#x", code)
	}
}

func TestE4M3_Specials(t *testing.T) {
	d := mustDtype(t, "e4m3mxfp", 0)
	decode := func(code uint64) float64 {
		st := fromBits(t, "")
		st.AppendUint(8, code)
		v, err := d.Decode(st, 0, 8)
		require.NoError(t, err)
		return v.Float()
	}

	assert.Equal(t, 448.0, decode(0x7e))
	assert.Equal(t, -448.0, decode(0xfe))
	assert.True(t, math.IsNaN(decode(0x7f)))
	assert.True(t, math.IsNaN(decode(0xff)))
	assert.Equal(t, 0x1p-9, decode(0x01)) // smallest subnormal
	assert.Equal(t, 0x1p-6, decode(0x08)) // smallest normal
	assert.Equal(t, 448.0, d.MaxAbs())
}

func TestE5M2_Specials(t *testing.T) {
	d := mustDtype(t, "e5m2mxfp", 0)
	decode := func(code uint64) float64 {
		st := fromBits(t, "")
		st.AppendUint(8, code)
		v, err := d.Decode(st, 0, 8)
		require.NoError(t, err)
		return v.Float()
	}

	assert.Equal(t, 57344.0, decode(0x7b))
	assert.True(t, math.IsInf(decode(0x7c), 1))
	assert.True(t, math.IsInf(decode(0xfc), -1))
	assert.True(t, math.IsNaN(decode(0x7d)))
	assert.True(t, math.IsNaN(decode(0xfe)))
	assert.Equal(t, 0x1p-14, decode(0x04))
	assert.Equal(t, 0x1p-16, decode(0x01))
	assert.Equal(t, 57344.0, d.MaxAbs())
}

func TestMinifloat_EncodeNearest(t *testing.T) {
	d := mustDtype(t, "e2m1mxfp", 0)
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0.7, want: 0.5},
		{in: 5.1, want: 6},
		{in: 2.5, want: 2}, // tie goes to the lower code
		{in: -2.5, want: -2},
		{in: 0.25, want: 0},
		{in: 1.5, want: 1.5}, // exact values keep their code
	}
	for _, tt := range tests {
		st, err := d.Encode(FloatValue(tt.in))
		require.NoError(t, err)
		v, err := d.Decode(st, 0, 4)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v.Float(), "input %v", tt.in)
	}
}

func TestMinifloat_Saturates(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "e2m1mxfp", in: 100, want: 6},
		{name: "e2m1mxfp", in: -100, want: -6},
		{name: "e2m3mxfp", in: 100, want: 7.5},
		{name: "e3m2mxfp", in: 100, want: 28},
		{name: "e4m3mxfp", in: 1000, want: 448},
		{name: "e4m3mxfp", in: math.Inf(1), want: 448},
	}
	for _, tt := range tests {
		d := mustDtype(t, tt.name, 0)
		st, err := d.Encode(FloatValue(tt.in))
		require.NoError(t, err)
		v, err := d.Decode(st, 0, d.BitLen())
		require.NoError(t, err)
		assert.Equal(t, tt.want, v.Float(), "%s %v", tt.name, tt.in)
	}

	// e5m2 has an infinity to saturate to.
	d := mustDtype(t, "e5m2mxfp", 0)
	for _, in := range []float64{60000, math.Inf(1)} {
		st, err := d.Encode(FloatValue(in))
		require.NoError(t, err)
		v, err := d.Decode(st, 0, 8)
		require.NoError(t, err)
		assert.True(t, math.IsInf(v.Float(), 1), "input %v", in)
	}
	st, err := d.Encode(FloatValue(math.Inf(-1)))
	require.NoError(t, err)
	v, err := d.Decode(st, 0, 8)
	require.NoError(t, err)
	assert.True(t, math.IsInf(v.Float(), -1))
}

func TestMinifloat_NaN(t *testing.T) {
	for _, name := range []string{"e4m3mxfp", "e5m2mxfp"} {
		d := mustDtype(t, name, 0)
		st, err := d.Encode(FloatValue(math.NaN()))
		require.NoError(t, err)
		v, err := d.Decode(st, 0, 8)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v.Float()), name)
	}

	// Formats without a NaN code reject it.
	for _, name := range []string{"e2m1mxfp", "e2m3mxfp", "e3m2mxfp"} {
		d := mustDtype(t, name, 0)
		_, err := d.Encode(FloatValue(math.NaN()))
		var bad *ErrBadValue
		require.ErrorAs(t, err, &bad, name)
	}
}

func TestMinifloat_NegativeZero(t *testing.T) {
	d := mustDtype(t, "e2m1mxfp", 0)
	st, err := d.Encode(FloatValue(math.Copysign(0, -1)))
	require.NoError(t, err)
	assert.Equal(t, "1000", storeBits(st))

	v, err := d.Decode(st, 0, 4)
	require.NoError(t, err)
	assert.True(t, math.Signbit(v.Float()))
	assert.Equal(t, 0.0, math.Abs(v.Float()))
}

func TestMinifloat_RoundTripAllCodes(t *testing.T) {
	for _, f := range miniFormats {
		d := mustDtype(t, f.name, 0)
		for code := uint64(0); code < 1<<f.width; code++ {
			st := fromBits(t, "")
			st.AppendUint(f.width, code)
			v, err := d.Decode(st, 0, f.width)
			require.NoError(t, err)
			if math.IsNaN(v.Float()) {
				continue
			}
			back, err := d.Encode(v)
			require.NoError(t, err)
			require.Equal(t, storeBits(st), storeBits(back), "%s code %#x (%v)", f.name, code, v.Float())
		}
	}
}

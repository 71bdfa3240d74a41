package bitgo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitgo/dtype"
)

func TestUint(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		v, err := MustFromBin("001111").Uint()
		require.NoError(t, err)
		assert.Equal(t, uint64(15), v)
	})

	t.Run("BigEndian", func(t *testing.T) {
		v, err := MustFromHex("0102").UintBE()
		require.NoError(t, err)
		assert.Equal(t, uint64(0x0102), v)
	})

	t.Run("LittleEndian", func(t *testing.T) {
		v, err := MustFromHex("0102").UintLE()
		require.NoError(t, err)
		assert.Equal(t, uint64(0x0201), v)
	})

	t.Run("NativeEndian", func(t *testing.T) {
		// A single byte reads the same either way.
		v, err := MustFromHex("ab").UintNE()
		require.NoError(t, err)
		assert.Equal(t, uint64(0xab), v)
	})

	t.Run("WholeBytesOnly", func(t *testing.T) {
		b := MustFromBin("111100001111")
		_, err := b.UintBE()
		require.ErrorIs(t, err, ErrInterpret)
	})

	t.Run("TooWide", func(t *testing.T) {
		b, err := Zeros(72)
		require.NoError(t, err)

		_, err = b.Uint()
		require.ErrorIs(t, err, ErrInterpret)
		assert.ErrorContains(t, err, "big integer")
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := New().Uint()
		require.Error(t, err)
	})
}

func TestInt(t *testing.T) {
	t.Run("TwosComplement", func(t *testing.T) {
		b, err := Pack("i11", -2)
		require.NoError(t, err)

		s, err := b.Bin()
		require.NoError(t, err)
		assert.Equal(t, "11111111110", s)

		v, err := b.Int()
		require.NoError(t, err)
		assert.Equal(t, int64(-2), v)
	})

	t.Run("Positive", func(t *testing.T) {
		v, err := MustFromBin("0101").Int()
		require.NoError(t, err)
		assert.Equal(t, int64(5), v)
	})

	t.Run("BigEndian", func(t *testing.T) {
		v, err := MustFromHex("fffe").IntBE()
		require.NoError(t, err)
		assert.Equal(t, int64(-2), v)
	})

	t.Run("LittleEndian", func(t *testing.T) {
		v, err := MustFromHex("feff").IntLE()
		require.NoError(t, err)
		assert.Equal(t, int64(-2), v)
	})
}

func TestBig(t *testing.T) {
	b := MustFromHex("010000000000000000")
	require.Equal(t, 72, b.Len())

	v, err := b.Interpret("uint")
	require.NoError(t, err)
	require.Equal(t, dtype.KindBigInt, v.Kind())
	assert.Equal(t, "18446744073709551616", v.Big().String())

	v, err = b.Interpret("int")
	require.NoError(t, err)
	require.Equal(t, dtype.KindBigInt, v.Kind())
	assert.Equal(t, "18446744073709551616", v.Big().String())
}

func TestFloat(t *testing.T) {
	t.Run("Float32", func(t *testing.T) {
		v, err := MustFromHex("3f800000").Float()
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)
	})

	t.Run("Float64", func(t *testing.T) {
		v, err := MustFromHex("3ff0000000000000").Float()
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)
	})

	t.Run("Float16", func(t *testing.T) {
		v, err := MustFromHex("3c00").Float()
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)

		v, err = MustFromHex("c000").Float()
		require.NoError(t, err)
		assert.Equal(t, -2.0, v)
	})

	t.Run("LittleEndian", func(t *testing.T) {
		v, err := MustFromHex("0000803f").Interpret("floatle:32")
		require.NoError(t, err)
		assert.Equal(t, 1.0, v.Float())
	})

	t.Run("Infinity", func(t *testing.T) {
		v, err := MustFromHex("7f800000").Float()
		require.NoError(t, err)
		assert.True(t, math.IsInf(v, 1))
	})

	t.Run("BadWidth", func(t *testing.T) {
		_, err := MustFromHex("010203").Float()
		require.ErrorIs(t, err, ErrInterpret)
	})
}

func TestBFloat(t *testing.T) {
	v, err := MustFromHex("3f80").BFloat()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	// bfloat16 is the top half of a float32.
	v, err = MustFromHex("4170").BFloat()
	require.NoError(t, err)
	assert.Equal(t, 15.0, v)

	_, err = MustFromHex("3f8000").BFloat()
	require.ErrorIs(t, err, ErrInterpret)
}

func TestDigits(t *testing.T) {
	t.Run("Hex", func(t *testing.T) {
		s, err := MustFromHex("f0f").Hex()
		require.NoError(t, err)
		assert.Equal(t, "f0f", s)

		_, err = MustFromBin("111111").Hex()
		require.ErrorIs(t, err, ErrInterpret)
	})

	t.Run("Oct", func(t *testing.T) {
		s, err := MustFromBin("001111").Oct()
		require.NoError(t, err)
		assert.Equal(t, "17", s)
	})

	t.Run("Bin", func(t *testing.T) {
		s, err := MustFromHex("a5").Bin()
		require.NoError(t, err)
		assert.Equal(t, "10100101", s)
	})

	t.Run("Empty", func(t *testing.T) {
		s, err := New().Hex()
		require.NoError(t, err)
		assert.Equal(t, "", s)
	})
}

func TestBool(t *testing.T) {
	v, err := MustFromBin("1").Bool()
	require.NoError(t, err)
	assert.True(t, v)

	v, err = MustFromBin("0").Bool()
	require.NoError(t, err)
	assert.False(t, v)

	_, err = MustFromBin("10").Bool()
	require.ErrorIs(t, err, ErrInterpret)
}

func TestInterpret(t *testing.T) {
	t.Run("SizedToken", func(t *testing.T) {
		v, err := MustFromHex("f00f").Interpret("uint:16")
		require.NoError(t, err)
		assert.Equal(t, uint64(0xf00f), v.Uint())
	})

	t.Run("WidthMismatch", func(t *testing.T) {
		_, err := MustFromHex("f00f").Interpret("uint:8")
		require.Error(t, err)
	})

	t.Run("MultipleTokens", func(t *testing.T) {
		_, err := MustFromHex("f00f").Interpret("uint:8, uint:8")
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("ValuedToken", func(t *testing.T) {
		_, err := MustFromHex("f0").Interpret("uint:8=5")
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("UnboundPlaceholder", func(t *testing.T) {
		_, err := MustFromHex("f0").Interpret("uint:n")
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := MustFromHex("f0").Interpret("nosuch:8")
		require.ErrorIs(t, err, ErrParse)
	})
}

func TestGolomb(t *testing.T) {
	t.Run("Unsigned", func(t *testing.T) {
		for _, tc := range []struct {
			value uint64
			bits  string
		}{
			{0, "1"},
			{1, "010"},
			{2, "011"},
			{3, "00100"},
			{4, "00101"},
		} {
			b, err := Pack("ue", tc.value)
			require.NoError(t, err)

			s, err := b.Bin()
			require.NoError(t, err)
			assert.Equal(t, tc.bits, s, "ue %d", tc.value)

			v, err := b.Interpret("ue")
			require.NoError(t, err)
			assert.Equal(t, tc.value, v.Uint())
		}
	})

	t.Run("Signed", func(t *testing.T) {
		b, err := Pack("se", -2)
		require.NoError(t, err)

		s, err := b.Bin()
		require.NoError(t, err)
		assert.Equal(t, "00101", s)

		v, err := b.Interpret("se")
		require.NoError(t, err)
		assert.Equal(t, int64(-2), v.Int())
	})

	t.Run("TrailingBits", func(t *testing.T) {
		_, err := MustFromBin("10").Interpret("ue")
		require.ErrorIs(t, err, ErrInterpret)
		assert.ErrorContains(t, err, "uses 1 of 2 bits")
	})

	t.Run("LSB0", func(t *testing.T) {
		_, err := MustFromBin("00101", WithLSB0()).Interpret("ue")
		require.ErrorIs(t, err, ErrInterpret)
		assert.ErrorContains(t, err, "undefined with LSB0 ordering")
	})
}

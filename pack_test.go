package bitgo

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack(t *testing.T) {
	b, err := Pack("uint:8, bin:3, bool", 129, "101", true)
	require.NoError(t, err)
	require.Equal(t, 12, b.Len())

	vals, err := b.Unpack("uint:8, bin:3, bool")
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, uint64(129), vals[0].Uint())
	assert.Equal(t, "101", vals[1].String())
	assert.True(t, vals[2].Bool())
}

func TestPackShorthand(t *testing.T) {
	b, err := Pack("u6", 15)
	require.NoError(t, err)

	s, err := b.Bin()
	require.NoError(t, err)
	assert.Equal(t, "001111", s)

	v, err := b.Interpret("u6")
	require.NoError(t, err)
	assert.Equal(t, uint64(15), v.Uint())
}

func TestPackValueKinds(t *testing.T) {
	t.Run("Bytes", func(t *testing.T) {
		b, err := Pack("bytes:2", []byte{0xde, 0xad})
		require.NoError(t, err)
		assert.Equal(t, "0xdead", b.String())
	})

	t.Run("Float", func(t *testing.T) {
		b, err := Pack("float:32", 1.0)
		require.NoError(t, err)
		assert.Equal(t, "0x3f800000", b.String())
	})

	t.Run("BigInt", func(t *testing.T) {
		b, err := Pack("uint:72", new(big.Int).Lsh(big.NewInt(1), 64))
		require.NoError(t, err)
		assert.Equal(t, "0x010000000000000000", b.String())
	})

	t.Run("Bits", func(t *testing.T) {
		b, err := Pack("bits:4", MustFromBin("1010"))
		require.NoError(t, err)
		assert.Equal(t, "0b1010", b.String())
	})

	t.Run("BitArray", func(t *testing.T) {
		a := MustFromBin("1010").ToBitArray()
		b, err := Pack("bits:4", a)
		require.NoError(t, err)
		assert.Equal(t, "0b1010", b.String())
	})

	t.Run("NumericString", func(t *testing.T) {
		b, err := Pack("uint:8", "42")
		require.NoError(t, err)

		v, err := b.Uint()
		require.NoError(t, err)
		assert.Equal(t, uint64(42), v)
	})
}

func TestPackErrors(t *testing.T) {
	t.Run("EmptySpecWithValues", func(t *testing.T) {
		_, err := Pack("", 1)
		require.ErrorIs(t, err, ErrCreation)
		assert.EqualError(t, err, "cannot create bits: 1 values for an empty spec")
	})

	t.Run("MissingValue", func(t *testing.T) {
		_, err := Pack("uint:8")
		require.ErrorIs(t, err, ErrCreation)
		assert.ErrorContains(t, err, "no value for token")
	})

	t.Run("LeftoverValues", func(t *testing.T) {
		_, err := Pack("uint:8", 1, 2)
		require.ErrorIs(t, err, ErrCreation)
		assert.EqualError(t, err, "cannot create bits: 2 values given, 1 consumed")
	})

	t.Run("BadValueType", func(t *testing.T) {
		_, err := Pack("uint:8", struct{}{})
		require.ErrorIs(t, err, ErrCreation)
		assert.ErrorContains(t, err, "as a pack value")
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := Pack("uint:8", 256)
		require.ErrorIs(t, err, ErrCreation)

		var re *RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "256", re.Value)
	})

	t.Run("VarLenLSB0", func(t *testing.T) {
		_, err := PackKW("ue", []any{1}, nil, WithLSB0())
		require.ErrorIs(t, err, ErrCreation)
		assert.EqualError(t, err, "cannot create bits: ue codes are undefined with LSB0 ordering")
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := Pack("wat:8", 1)
		require.ErrorIs(t, err, ErrParse)
	})
}

func TestPackKW(t *testing.T) {
	t.Run("PlaceholderLengthAndValue", func(t *testing.T) {
		b, err := PackKW("uint:n=x, pad:n", nil, map[string]any{"n": 8, "x": 129})
		require.NoError(t, err)
		require.Equal(t, 16, b.Len())
		assert.Equal(t, []byte{129, 0}, b.Bytes())
	})

	t.Run("UnboundPlaceholder", func(t *testing.T) {
		_, err := PackKW("uint:n", []any{1}, nil)
		require.ErrorIs(t, err, ErrParse)

		var te *TokenError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "uint:n", te.Token)
	})

	t.Run("NonIntegerPlaceholder", func(t *testing.T) {
		_, err := PackKW("uint:n", []any{1}, map[string]any{"n": "eight"})
		require.ErrorIs(t, err, ErrParse)

		var te *TokenError
		require.ErrorAs(t, err, &te)
	})

	t.Run("BadKeywordValue", func(t *testing.T) {
		_, err := PackKW("uint:8=x", nil, map[string]any{"x": struct{}{}})
		require.ErrorIs(t, err, ErrCreation)
		assert.ErrorContains(t, err, "as the value of")
	})
}

func TestUnpack(t *testing.T) {
	t.Run("StretchyMiddle", func(t *testing.T) {
		vals, err := MustFromHex("abcdef").Unpack("hex:2, bin, hex:2")
		require.NoError(t, err)
		require.Len(t, vals, 3)
		assert.Equal(t, "ab", vals[0].String())
		assert.Equal(t, "11001101", vals[1].String())
		assert.Equal(t, "ef", vals[2].String())
	})

	t.Run("PadSkipped", func(t *testing.T) {
		vals, err := MustFromHex("010203").Unpack("uint:8, pad:8, uint:8")
		require.NoError(t, err)
		require.Len(t, vals, 2)
		assert.Equal(t, uint64(1), vals[0].Uint())
		assert.Equal(t, uint64(3), vals[1].Uint())
	})

	t.Run("InlineValueSetsWidth", func(t *testing.T) {
		vals, err := MustFromHex("abcd").Unpack("0xab, uint:8")
		require.NoError(t, err)
		require.Len(t, vals, 2)
		assert.Equal(t, "ab", vals[0].String())
		assert.Equal(t, uint64(0xcd), vals[1].Uint())
	})

	t.Run("TrailingBitsStayUnread", func(t *testing.T) {
		vals, err := MustFromHex("abcd").Unpack("uint:8")
		require.NoError(t, err)
		require.Len(t, vals, 1)
		assert.Equal(t, uint64(0xab), vals[0].Uint())
	})

	t.Run("VarLenAfterStretchy", func(t *testing.T) {
		_, err := MustFromHex("ab").Unpack("bin, ue")
		require.ErrorIs(t, err, ErrInterpret)
		assert.EqualError(t, err, "cannot interpret bits: ue code after a token with unknown length")
	})

	t.Run("Overclaim", func(t *testing.T) {
		_, err := MustFromHex("ab").Unpack("bin, uint:16")
		require.ErrorIs(t, err, ErrRead)
		assert.EqualError(t, err, "read past end of bits: 16 bits claimed beyond position 0 of 8")
	})

	t.Run("UnsizedPad", func(t *testing.T) {
		_, err := MustFromHex("ab").Unpack("pad")
		require.ErrorIs(t, err, ErrInterpret)
		assert.ErrorContains(t, err, "length required")
	})

	t.Run("Empty", func(t *testing.T) {
		vals, err := MustFromHex("ab").Unpack("")
		require.NoError(t, err)
		assert.Nil(t, vals)
	})
}

func TestUnpackKW(t *testing.T) {
	vals, err := MustFromHex("abcd").UnpackKW("uint:n, hex:m", map[string]any{"n": 8, "m": 2})
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.Equal(t, uint64(0xab), vals[0].Uint())
	assert.Equal(t, "cd", vals[1].String())
}

func TestPackLSB0(t *testing.T) {
	// The first token supplies the least significant bits, and
	// unpacking walks back up from there.
	b, err := PackKW("uint:8, uint:4", []any{0xab, 0xc}, nil, WithLSB0())
	require.NoError(t, err)
	require.Equal(t, 12, b.Len())

	s, err := b.Bin()
	require.NoError(t, err)
	assert.Equal(t, "110010101011", s)

	vals, err := b.Unpack("uint:8, uint:4")
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.Equal(t, uint64(0xab), vals[0].Uint())
	assert.Equal(t, uint64(0xc), vals[1].Uint())
}

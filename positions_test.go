package bitgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionSet(t *testing.T) {
	ps := NewPositionSet(3, 1, 7)

	assert.Equal(t, uint64(3), ps.Cardinality())
	assert.True(t, ps.Contains(1))
	assert.False(t, ps.Contains(2))
	assert.Equal(t, []uint64{1, 3, 7}, ps.Positions())

	ps.Add(2)
	ps.Remove(7)
	assert.Equal(t, []uint64{1, 2, 3}, ps.Positions())

	ps.Clear()
	assert.True(t, ps.IsEmpty())
}

func TestPositionSetIterate(t *testing.T) {
	ps := NewPositionSet(5, 0, 9)

	var got []uint64
	for p := range ps.Iterate() {
		got = append(got, p)
	}
	assert.Equal(t, []uint64{0, 5, 9}, got)

	// Early break must not panic or leak.
	for range ps.Iterate() {
		break
	}
}

func TestPositionSetAlgebra(t *testing.T) {
	t.Run("And", func(t *testing.T) {
		a := NewPositionSet(1, 2, 3)
		a.And(NewPositionSet(2, 3, 4))
		assert.Equal(t, []uint64{2, 3}, a.Positions())
	})

	t.Run("Or", func(t *testing.T) {
		a := NewPositionSet(1, 2)
		a.Or(NewPositionSet(2, 9))
		assert.Equal(t, []uint64{1, 2, 9}, a.Positions())
	})

	t.Run("AndNot", func(t *testing.T) {
		a := NewPositionSet(1, 2, 3)
		a.AndNot(NewPositionSet(2))
		assert.Equal(t, []uint64{1, 3}, a.Positions())
	})

	t.Run("Clone", func(t *testing.T) {
		a := NewPositionSet(1)
		b := a.Clone()
		b.Add(2)
		assert.Equal(t, []uint64{1}, a.Positions())
		assert.Equal(t, []uint64{1, 2}, b.Positions())
	})
}

func TestFindAllSet(t *testing.T) {
	ps, err := MustFromBin("10101").FindAllSet(MustFromBin("101"))
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 2}, ps.Positions())

	_, err = MustFromBin("10101").FindAllSet(New())
	require.ErrorIs(t, err, ErrCreation)
}

func TestOnesSet(t *testing.T) {
	t.Run("MSB0", func(t *testing.T) {
		ps := MustFromBin("1010").OnesSet()
		assert.Equal(t, []uint64{0, 2}, ps.Positions())
	})

	t.Run("LSB0", func(t *testing.T) {
		ps := MustFromBin("1010", WithLSB0()).OnesSet()
		assert.Equal(t, []uint64{1, 3}, ps.Positions())
	})

	t.Run("Empty", func(t *testing.T) {
		assert.True(t, New().OnesSet().IsEmpty())
	})
}

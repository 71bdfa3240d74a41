package dtype

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitgo/internal/bitstore"
)

func mustDtype(t *testing.T, name string, length int) *Dtype {
	t.Helper()
	d, err := Default.Resolve(name, length, 0)
	require.NoError(t, err)
	return d
}

func storeBits(st *bitstore.Store) string {
	var b strings.Builder
	for i := 0; i < st.Len(); i++ {
		if st.Bit(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func fromBits(t *testing.T, bits string) *bitstore.Store {
	t.Helper()
	st, err := binToStore(bits)
	require.NoError(t, err)
	return st
}

func TestResolve_Defaults(t *testing.T) {
	tests := []struct {
		name string
		bits int
	}{
		{name: "bool", bits: 1},
		{name: "bfloat", bits: 16},
		{name: "e2m1mxfp", bits: 4},
		{name: "e4m3mxfp", bits: 8},
		{name: "e5m2mxfp", bits: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustDtype(t, tt.name, 0)
			assert.Equal(t, tt.bits, d.BitLen())
		})
	}

	// Formats without a single allowed length stay unsized.
	d := mustDtype(t, "uint", 0)
	assert.Equal(t, 0, d.BitLen())
}

func TestResolve_Lengths(t *testing.T) {
	d := mustDtype(t, "uint", 6)
	assert.Equal(t, 6, d.BitLen())
	assert.Equal(t, "uint6", d.String())

	// hex counts characters, bytes counts bytes.
	assert.Equal(t, 8, mustDtype(t, "hex", 2).BitLen())
	assert.Equal(t, 24, mustDtype(t, "bytes", 3).BitLen())

	for _, n := range []int{16, 32, 64} {
		assert.Equal(t, n, mustDtype(t, "float", n).BitLen())
	}
	_, err := Default.Resolve("float", 24, 0)
	assert.Error(t, err)

	// Byte-oriented integer formats take whole bytes only.
	_, err = Default.Resolve("uintle", 12, 0)
	assert.Error(t, err)
	assert.Equal(t, 24, mustDtype(t, "uintle", 24).BitLen())

	_, err = Default.Resolve("bfloat", 8, 0)
	assert.Error(t, err)

	_, err = Default.Resolve("uint", -1, 0)
	assert.Error(t, err)
}

func TestResolve_Aliases(t *testing.T) {
	u := mustDtype(t, "u", 8)
	assert.Equal(t, "uint", u.Name())
	i := mustDtype(t, "i", 8)
	assert.Equal(t, "int", i.Name())
	f := mustDtype(t, "f", 32)
	assert.Equal(t, "float", f.Name())
	fb := mustDtype(t, "floatbe", 32)
	assert.Equal(t, "float", fb.Name())
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Default.Resolve("nosuch", 8, 0)
	require.Error(t, err)
	var unknown *ErrUnknownFormat
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nosuch", unknown.Name)
}

func TestResolve_VarLenTakesNoLength(t *testing.T) {
	d, err := Default.Resolve("ue", 0, 0)
	require.NoError(t, err)
	assert.True(t, d.VarLen())

	_, err = Default.Resolve("ue", 3, 0)
	assert.Error(t, err)
}

func TestResolve_Scale(t *testing.T) {
	d, err := Default.Resolve("e2m1mxfp", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, d.Scale())

	// Raw 6 is the format maximum, so scale 2 doubles the range.
	st, err := d.Encode(FloatValue(12))
	require.NoError(t, err)
	v, err := d.Decode(st, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 12.0, v.Float())

	// Scale only applies to float formats.
	_, err = Default.Resolve("uint", 8, 2)
	assert.Error(t, err)
	var scaleErr *ErrScale
	assert.ErrorAs(t, err, &scaleErr)

	_, err = Default.Resolve("float", 16, -1)
	assert.Error(t, err)
}

func TestResolve_Caches(t *testing.T) {
	r := NewRegistry()
	a, err := r.Resolve("uint", 12, 0)
	require.NoError(t, err)
	b, err := r.Resolve("uint", 12, 0)
	require.NoError(t, err)
	assert.Same(t, a, b)

	hits, misses := r.CacheStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestRegister_Conflict(t *testing.T) {
	r := NewRegistry()
	def := &Definition{
		Name:        "uint",
		Kind:        KindUint,
		BitsPerItem: 1,
		Encode:      func(nbits int, v Value) (*bitstore.Store, error) { return bitstore.New(nbits), nil },
		Decode:      func(s *bitstore.Store, start, nbits int) (Value, error) { return None(), nil },
	}
	err := r.Register(def)
	assert.Error(t, err)

	def.Name = "custom"
	require.NoError(t, r.Register(def, "cu"))
	got, ok := r.Get("cu")
	require.True(t, ok)
	assert.Equal(t, "custom", got.Name)
}

func TestNames(t *testing.T) {
	names := Default.Names()
	assert.True(t, slices.IsSorted(names))
	for _, want := range []string{"uint", "int", "float", "bfloat", "hex", "bin", "oct", "bytes", "bool", "bits", "pad", "ue", "se", "uie", "sie", "e4m3mxfp", "u", "i"} {
		assert.Contains(t, names, want)
	}
}

func TestMustResolve_Panics(t *testing.T) {
	assert.Panics(t, func() { Default.MustResolve("nosuch", 0, 0) })
}

package bitgo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitgo/source"
)

func TestFromSource(t *testing.T) {
	data := []byte{0xf0, 0x0f, 0xaa}

	b, err := FromSource(source.NewMemory(data))
	require.NoError(t, err)
	assert.Equal(t, 24, b.Len())
	assert.Equal(t, data, b.Bytes())
	assert.Equal(t, "0xf00faa", b.String())
}

func TestFromSource_Empty(t *testing.T) {
	b, err := FromSource(source.NewMemory(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
}

func TestFromFile(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	b, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 32, b.Len())
	assert.Equal(t, data, b.Bytes())

	// The backing file is already unmapped; the bits must still read.
	v, err := b.Interpret("uintbe:32")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x01020304), v.Uint())
}

func TestFromFile_Compressed(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}

	path := filepath.Join(t.TempDir(), "data.bin.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	b, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, b.Len())
	assert.Equal(t, data, b.Bytes())
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreation)
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestFromFile_Ordering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x80}, 0o600))

	b, err := FromFile(path, WithLSB0())
	require.NoError(t, err)

	bit, err := b.Bit(7)
	require.NoError(t, err)
	assert.True(t, bit)

	bit, err = b.Bit(0)
	require.NoError(t, err)
	assert.False(t, bit)
}

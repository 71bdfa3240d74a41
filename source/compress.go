package source

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// OpenAuto opens the file at path, dispatching on its suffix. Plain
// files are memory-mapped; ".zst" and ".lz4" inputs are decoded into
// memory, since compressed streams cannot be read at random offsets.
func OpenAuto(path string) (Source, error) {
	switch {
	case strings.HasSuffix(path, ".zst"):
		return openZstd(path)
	case strings.HasSuffix(path, ".lz4"):
		return openLZ4(path)
	default:
		return Open(path)
	}
}

func openZstd(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}
	return NewMemory(data), nil
}

func openLZ4(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(lz4.NewReader(f))
	if err != nil {
		return nil, err
	}
	return NewMemory(data), nil
}

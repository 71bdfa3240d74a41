package bitgo

import (
	"github.com/hupe1980/bitgo/internal/bitstore"
	"github.com/hupe1980/bitgo/source"
)

// FromSource reads the full content of src as a bit sequence. Sources
// exposing their memory directly, such as mapped files, are viewed
// without copying; the sequence is then valid only while src stays
// open, and the first mutating derivation copies the bits onto the
// heap.
func FromSource(src source.Source, opts ...Option) (*Bits, error) {
	data, err := source.ReadAll(src)
	if err != nil {
		return nil, creationError(err)
	}
	// The buffer may alias the source's backing memory, so the store
	// is marked shared and mutations go through a copy.
	return &Bits{store: bitstore.Wrap(data, 8*len(data)), opts: applyOptions(opts)}, nil
}

// FromFile loads the file at path as a bit sequence. Files ending in
// ".zst" or ".lz4" are decompressed; anything else is memory-mapped
// for the duration of the load. The returned sequence owns its bits.
func FromFile(path string, opts ...Option) (*Bits, error) {
	src, err := source.OpenAuto(path)
	if err != nil {
		return nil, creationError(err)
	}
	defer src.Close()

	b, err := FromSource(src, opts...)
	if err != nil {
		return nil, err
	}
	// The source closes on return, so mapped views are copied now.
	if _, ok := src.(source.Mappable); ok {
		b.store = b.store.Clone()
	}
	return b, nil
}

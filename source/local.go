package source

import (
	"github.com/hupe1980/bitgo/internal/mmap"
)

// File is a memory-mapped local file. Mapping keeps the file contents
// out of the Go heap, which matters when bit sequences view multi-GB
// inputs.
type File struct {
	m *mmap.Mapping
}

// Open memory-maps the file at path read-only.
func Open(path string) (*File, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{m: m}, nil
}

// ReadAt implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return f.m.ReadAt(p, off)
}

// Close unmaps the file.
func (f *File) Close() error {
	return f.m.Close()
}

// Size returns the file size in bytes.
func (f *File) Size() int64 {
	return int64(f.m.Size())
}

// Bytes implements Mappable. The slice aliases the mapping and is valid
// only until Close.
func (f *File) Bytes() ([]byte, error) {
	b := f.m.Bytes()
	if b == nil && f.m.Size() > 0 {
		return nil, mmap.ErrClosed
	}
	return b, nil
}

// Advise passes an access pattern hint to the kernel.
func (f *File) Advise(pattern mmap.AccessPattern) error {
	return f.m.Advise(pattern)
}

var _ Source = (*File)(nil)
var _ Mappable = (*File)(nil)

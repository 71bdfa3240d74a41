// Package source provides read-only byte sources for loading bit
// sequences from local files, memory, compressed inputs, and object
// storage.
//
// Source is the interface the loaders in the root package consume.
// Implementations must be safe for concurrent reads.
//
// # Built-in Implementations
//
//   - File: memory-mapped local files
//   - Memory: byte slices, mainly for tests
//   - Caching: block-level LRU wrapper for remote sources
//   - s3.Object: Amazon S3 with ranged reads
//   - minio.Object: MinIO and S3-compatible storage
//
// # Custom Implementations
//
// Implement the Source interface to support custom backends:
//
//	type Source interface {
//	    io.ReaderAt
//	    io.Closer
//	    Size() int64
//	}
//
// Sources whose content already lives in addressable memory can
// additionally implement Mappable to let callers skip the copy:
//
//	type Mappable interface {
//	    Bytes() ([]byte, error)
//	}
package source

import (
	"io"
	"os"
)

// ErrNotFound is returned when a named input does not exist.
var ErrNotFound = os.ErrNotExist

// Source is a read-only, randomly addressable sequence of bytes.
type Source interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// Mappable is implemented by sources that can expose their full content
// as a byte slice without copying. The slice is valid only until the
// source is closed and must not be modified.
type Mappable interface {
	Bytes() ([]byte, error)
}

// ReadAll returns the full content of src. Mappable sources hand out
// their backing slice directly; everything else is copied into a fresh
// buffer.
func ReadAll(src Source) ([]byte, error) {
	if m, ok := src.(Mappable); ok {
		return m.Bytes()
	}

	buf := make([]byte, src.Size())
	if len(buf) == 0 {
		return buf, nil
	}
	n, err := src.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

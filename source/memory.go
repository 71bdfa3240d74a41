package source

import "io"

// Memory is a Source backed by a byte slice.
type Memory struct {
	data []byte
}

// NewMemory wraps data in a Source. The slice is not copied.
func NewMemory(data []byte) *Memory {
	return &Memory{data: data}
}

// ReadAt implements io.ReaderAt.
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Size returns the length of the wrapped slice.
func (m *Memory) Size() int64 {
	return int64(len(m.data))
}

// Bytes implements Mappable.
func (m *Memory) Bytes() ([]byte, error) {
	return m.data, nil
}

var _ Source = (*Memory)(nil)
var _ Mappable = (*Memory)(nil)

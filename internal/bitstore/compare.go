package bitstore

import (
	"bytes"
	"encoding/binary"
	"math/bits"
)

// Equal reports whether two stores hold the same bits, regardless of
// their offsets into the backing buffers.
func (s *Store) Equal(o *Store) bool {
	if s.n != o.n {
		return false
	}
	if s.off&7 == 0 && o.off&7 == 0 {
		nb := s.n >> 3
		if !bytes.Equal(s.data[s.off>>3:s.off>>3+nb], o.data[o.off>>3:o.off>>3+nb]) {
			return false
		}
		if rem := s.n & 7; rem != 0 {
			return s.readBits(s.off+8*nb, rem) == o.readBits(o.off+8*nb, rem)
		}
		return true
	}
	return s.EqualRange(0, o, 0, s.n)
}

// EqualRange reports whether bits [start, start+width) equal
// o's bits [ostart, ostart+width).
func (s *Store) EqualRange(start int, o *Store, ostart, width int) bool {
	if start < 0 || start+width > s.n || ostart < 0 || ostart+width > o.n {
		panic("bitstore: compare out of range")
	}
	for i := 0; i < width; {
		w := width - i
		if w > 64 {
			w = 64
		}
		if s.readBits(s.off+start+i, w) != o.readBits(o.off+ostart+i, w) {
			return false
		}
		i += w
	}
	return true
}

// Count returns the number of bits equal to v.
func (s *Store) Count(v bool) int {
	ones := 0
	i := 0
	if s.off&7 == 0 {
		b := s.data[s.off>>3:]
		for ; i+64 <= s.n; i += 64 {
			ones += bits.OnesCount64(binary.BigEndian.Uint64(b[i>>3:]))
		}
	} else {
		for ; i+64 <= s.n; i += 64 {
			ones += bits.OnesCount64(s.readBits(s.off+i, 64))
		}
	}
	if rem := s.n - i; rem > 0 {
		ones += bits.OnesCount64(s.readBits(s.off+i, rem))
	}
	if v {
		return ones
	}
	return s.n - ones
}

// Any reports whether at least one bit equals v.
func (s *Store) Any(v bool) bool {
	for i := 0; i < s.n; {
		w := s.n - i
		if w > 64 {
			w = 64
		}
		chunk := s.readBits(s.off+i, w)
		if v && chunk != 0 {
			return true
		}
		if !v && chunk != ^uint64(0)>>(64-w) {
			return true
		}
		i += w
	}
	return false
}

// All reports whether every bit equals v. An empty store satisfies All.
func (s *Store) All(v bool) bool {
	return !s.Any(!v)
}

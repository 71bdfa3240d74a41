package bitstore

import "math/bits"

// readBits reads width bits starting at absolute bit position abs,
// returning them right-aligned in a uint64. 0 <= width <= 64.
func (s *Store) readBits(abs, width int) uint64 {
	var v uint64
	for rem := width; rem > 0; {
		bi := abs >> 3
		bo := abs & 7
		take := 8 - bo
		if take > rem {
			take = rem
		}
		chunk := uint64(s.data[bi]>>(8-bo-take)) & (1<<take - 1)
		v = v<<take | chunk
		abs += take
		rem -= take
	}
	return v
}

// writeBits writes the low width bits of v at absolute bit position abs,
// preserving surrounding bits. 0 <= width <= 64.
func (s *Store) writeBits(abs, width int, v uint64) {
	for rem := width; rem > 0; {
		bi := abs >> 3
		bo := abs & 7
		take := 8 - bo
		if take > rem {
			take = rem
		}
		keep := byte(0xff) >> (8 - take)
		chunk := byte(v>>(rem-take)) & keep
		shift := 8 - bo - take
		s.data[bi] = s.data[bi]&^(keep<<shift) | chunk<<shift
		abs += take
		rem -= take
	}
}

// ReadUint returns bits [start, start+width) as an unsigned integer,
// most significant bit first. width must be at most 64.
func (s *Store) ReadUint(start, width int) uint64 {
	if width < 0 || width > 64 || start < 0 || start+width > s.n {
		panic("bitstore: read out of range")
	}
	return s.readBits(s.off+start, width)
}

// WriteUint stores the low width bits of v at [start, start+width),
// most significant bit first. The store must be owned.
func (s *Store) WriteUint(start, width int, v uint64) {
	if width < 0 || width > 64 || start < 0 || start+width > s.n {
		panic("bitstore: write out of range")
	}
	s.writeBits(s.off+start, width, v)
}

// Bytes returns the contents as a byte slice, left-aligned and padded
// with zero bits up to a whole byte.
func (s *Store) Bytes() []byte {
	out := make([]byte, (s.n+7)>>3)
	if s.off&7 == 0 {
		copy(out, s.data[s.off>>3:s.off>>3+len(out)])
	} else {
		for k := range out {
			w := s.n - 8*k
			if w > 8 {
				w = 8
			}
			out[k] = byte(s.readBits(s.off+8*k, w) << (8 - w))
		}
	}
	if pad := s.n & 7; pad != 0 {
		out[len(out)-1] &= 0xff << (8 - pad)
	}
	return out
}

// Append extends the store with the contents of o. The store must be
// owned; o is not modified. Appending a store to itself is allowed.
func (s *Store) Append(o *Store) {
	if s.aliases(o) {
		o = o.Clone()
	}
	total := s.n + o.n
	s.grow(total)
	if (s.off+s.n)&7 == 0 && o.off&7 == 0 {
		copy(s.data[(s.off+s.n)>>3:], o.data[o.off>>3:(o.off+o.n+7)>>3])
	} else {
		for i := 0; i < o.n; {
			w := o.n - i
			if w > 64 {
				w = 64
			}
			s.writeBits(s.off+s.n+i, w, o.readBits(o.off+i, w))
			i += w
		}
	}
	s.n = total
}

// AppendUint appends the low width bits of v. The store must be owned.
func (s *Store) AppendUint(width int, v uint64) {
	if width < 0 || width > 64 {
		panic("bitstore: width out of range")
	}
	s.grow(s.n + width)
	s.writeBits(s.off+s.n, width, v)
	s.n += width
}

// Overwrite copies o over bits [start, start+o.n). The store must be
// owned; overlapping self-copies are handled.
func (s *Store) Overwrite(start int, o *Store) {
	if start < 0 || start+o.n > s.n {
		panic("bitstore: overwrite out of range")
	}
	if s.aliases(o) {
		o = o.Clone()
	}
	for i := 0; i < o.n; {
		w := o.n - i
		if w > 64 {
			w = 64
		}
		s.writeBits(s.off+start+i, w, o.readBits(o.off+i, w))
		i += w
	}
}

// Join concatenates parts into a single owned store.
func Join(parts ...*Store) *Store {
	total := 0
	for _, p := range parts {
		total += p.n
	}
	out := &Store{data: make([]byte, (total+7)>>3)}
	for _, p := range parts {
		out.Append(p)
	}
	return out
}

// Reverse returns an owned store with the bits in reverse order.
func (s *Store) Reverse() *Store {
	out := New(s.n)
	for i := 0; i < s.n; {
		w := s.n - i
		if w > 64 {
			w = 64
		}
		v := s.readBits(s.off+s.n-i-w, w)
		out.writeBits(i, w, bits.Reverse64(v)>>(64-w))
		i += w
	}
	return out
}

// ByteSwap returns an owned store with whole-byte order reversed.
// The length must be a multiple of 8.
func (s *Store) ByteSwap() *Store {
	if s.n&7 != 0 {
		panic("bitstore: byteswap needs whole bytes")
	}
	b := s.Bytes()
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return &Store{data: b, n: s.n}
}

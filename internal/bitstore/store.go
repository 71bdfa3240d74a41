// Package bitstore implements the bit-addressable storage engine underlying
// Bits and BitArray.
//
// A Store is a view (bit offset + bit length) over a byte buffer with bits
// packed most-significant-bit first: logical bit 0 of an aligned store is the
// MSB of byte 0. Views created by Slice share the backing buffer; ownership
// is tracked with a shared flag, and mutating callers must obtain exclusive
// ownership via EnsureOwned first (clone-on-first-write).
//
// Bounds are the caller's contract: public wrappers validate user input and
// translate violations into errors, so methods here panic on out-of-range
// arguments instead of returning them.
package bitstore

// Store is a bit buffer with bit-granular offset and length.
type Store struct {
	data   []byte
	off    int  // absolute bit position of logical bit 0
	n      int  // length in bits
	shared bool // backing buffer may be referenced by another Store
}

// New returns an owned, zeroed store of n bits.
func New(n int) *Store {
	if n < 0 {
		panic("bitstore: negative length")
	}
	return &Store{data: make([]byte, (n+7)>>3), n: n}
}

// FromBytes returns an owned store holding a copy of b (8*len(b) bits).
func FromBytes(b []byte) *Store {
	data := make([]byte, len(b))
	copy(data, b)
	return &Store{data: data, n: 8 * len(b)}
}

// FromBytesN is FromBytes truncated to the first n bits.
func FromBytesN(b []byte, n int) *Store {
	if n < 0 || n > 8*len(b) {
		panic("bitstore: length out of range")
	}
	data := make([]byte, (n+7)>>3)
	copy(data, b[:(n+7)>>3])
	return &Store{data: data, n: n}
}

// Wrap returns a store viewing the first n bits of b without copying.
// The result is marked shared, so the first mutation through a facade
// clones it; callers must not modify b while the store is live.
func Wrap(b []byte, n int) *Store {
	if n < 0 || n > 8*len(b) {
		panic("bitstore: length out of range")
	}
	return &Store{data: b, n: n, shared: true}
}

// Len returns the length in bits.
func (s *Store) Len() int { return s.n }

// Shared reports whether the backing buffer may be multiply referenced.
func (s *Store) Shared() bool { return s.shared }

// MarkShared flags the backing buffer as multiply referenced.
func (s *Store) MarkShared() { s.shared = true }

// EnsureOwned makes the store exclusively own its backing buffer,
// copying the view into a fresh aligned buffer when it is shared.
func (s *Store) EnsureOwned() {
	if !s.shared {
		return
	}
	c := s.Clone()
	*s = *c
}

// Clone returns an owned deep copy, normalized to bit offset 0.
func (s *Store) Clone() *Store {
	return &Store{data: s.Bytes(), n: s.n}
}

// Slice returns a view of bits [start, end). The view shares the backing
// buffer; both the receiver and the result are marked shared.
func (s *Store) Slice(start, end int) *Store {
	if start < 0 || end < start || end > s.n {
		panic("bitstore: slice bounds out of range")
	}
	s.shared = true
	return &Store{data: s.data, off: s.off + start, n: end - start, shared: true}
}

// View is Slice without marking the receiver shared. It is for
// transient read-only windows; callers must not hold the view across a
// mutation of the receiver.
func (s *Store) View(start, end int) *Store {
	if start < 0 || end < start || end > s.n {
		panic("bitstore: view bounds out of range")
	}
	return &Store{data: s.data, off: s.off + start, n: end - start, shared: true}
}

// Bit returns the bit at index i.
func (s *Store) Bit(i int) bool {
	if i < 0 || i >= s.n {
		panic("bitstore: bit index out of range")
	}
	p := s.off + i
	return s.data[p>>3]&(1<<(7-p&7)) != 0
}

// SetBit sets the bit at index i to v. The store must be owned.
func (s *Store) SetBit(i int, v bool) {
	if i < 0 || i >= s.n {
		panic("bitstore: bit index out of range")
	}
	p := s.off + i
	mask := byte(1) << (7 - p&7)
	if v {
		s.data[p>>3] |= mask
	} else {
		s.data[p>>3] &^= mask
	}
}

// FlipBit inverts the bit at index i. The store must be owned.
func (s *Store) FlipBit(i int) {
	if i < 0 || i >= s.n {
		panic("bitstore: bit index out of range")
	}
	p := s.off + i
	s.data[p>>3] ^= 1 << (7 - p&7)
}

// SetRange sets bits [start, end) to v. The store must be owned.
func (s *Store) SetRange(start, end int, v bool) {
	if start < 0 || end < start || end > s.n {
		panic("bitstore: range out of bounds")
	}
	var fill uint64
	if v {
		fill = ^uint64(0)
	}
	for i := start; i < end; {
		w := end - i
		if w > 64 {
			w = 64
		}
		s.writeBits(s.off+i, w, fill)
		i += w
	}
}

// FlipRange inverts bits [start, end). The store must be owned.
func (s *Store) FlipRange(start, end int) {
	if start < 0 || end < start || end > s.n {
		panic("bitstore: range out of bounds")
	}
	for i := start; i < end; {
		w := end - i
		if w > 64 {
			w = 64
		}
		v := s.readBits(s.off+i, w)
		mask := ^uint64(0) >> (64 - w)
		s.writeBits(s.off+i, w, v^mask)
		i += w
	}
}

// grow ensures capacity for n logical bits, reallocating with amortized
// doubling when the backing buffer is too small.
func (s *Store) grow(n int) {
	need := (s.off + n + 7) >> 3
	if need <= len(s.data) {
		return
	}
	newCap := 2 * len(s.data)
	if newCap < need {
		newCap = need
	}
	nd := make([]byte, newCap)
	copy(nd, s.data)
	s.data = nd
}

// aliases reports whether two stores reference the same backing buffer.
func (s *Store) aliases(o *Store) bool {
	return len(s.data) > 0 && len(o.data) > 0 && &s.data[0] == &o.data[0]
}

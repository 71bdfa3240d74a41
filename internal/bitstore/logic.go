package bitstore

// combine overwrites s with f(s, o) word by word. Lengths must match;
// the store must be owned.
func (s *Store) combine(o *Store, f func(a, b uint64) uint64) {
	if s.n != o.n {
		panic("bitstore: length mismatch")
	}
	for i := 0; i < s.n; {
		w := s.n - i
		if w > 64 {
			w = 64
		}
		a := s.readBits(s.off+i, w)
		b := o.readBits(o.off+i, w)
		s.writeBits(s.off+i, w, f(a, b))
		i += w
	}
}

// And replaces s with the bitwise AND of s and o.
func (s *Store) And(o *Store) {
	s.combine(o, func(a, b uint64) uint64 { return a & b })
}

// Or replaces s with the bitwise OR of s and o.
func (s *Store) Or(o *Store) {
	s.combine(o, func(a, b uint64) uint64 { return a | b })
}

// Xor replaces s with the bitwise XOR of s and o.
func (s *Store) Xor(o *Store) {
	s.combine(o, func(a, b uint64) uint64 { return a ^ b })
}

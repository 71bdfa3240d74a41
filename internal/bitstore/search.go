package bitstore

import "bytes"

// Search windows are at least this many bits so per-chunk setup cost
// stays amortized over long scans.
const minChunkBits = 1 << 13

func alignUp(i int) int { return (i + 7) &^ 7 }

// Find returns the position of the first occurrence of t within
// [start, end). With aligned set, only positions at whole-byte
// boundaries are considered. t must be non-empty.
func (s *Store) Find(t *Store, start, end int, aligned bool) (int, bool) {
	if t.n == 0 {
		panic("bitstore: empty search target")
	}
	if start < 0 || start > end || end > s.n {
		panic("bitstore: search range out of bounds")
	}
	if aligned {
		if t.n&7 == 0 {
			return s.findBytes(t.Bytes(), start, end)
		}
		return s.findScan(t, alignUp(start), end, 8)
	}
	return s.findScan(t, start, end, 1)
}

// FindLast returns the position of the last occurrence of t within
// [start, end), walking backward in chunks so matches near the tail are
// found without scanning the whole range.
func (s *Store) FindLast(t *Store, start, end int, aligned bool) (int, bool) {
	if t.n == 0 {
		panic("bitstore: empty search target")
	}
	if start < 0 || start > end || end > s.n {
		panic("bitstore: search range out of bounds")
	}
	m := t.n
	chunk := 80 * m
	if chunk < minChunkBits {
		chunk = minChunkBits
	}
	for ce := end; ce-start >= m; {
		cs := ce - chunk
		if cs < start {
			cs = start
		}
		if p, ok := s.findLastIn(t, cs, ce, aligned); ok {
			return p, true
		}
		if cs == start {
			break
		}
		// keep m-1 bits of overlap so matches spanning the cut are seen
		ce = cs + m - 1
	}
	return 0, false
}

func (s *Store) findLastIn(t *Store, start, end int, aligned bool) (int, bool) {
	best, found := 0, false
	for i := start; ; {
		p, ok := s.Find(t, i, end, aligned)
		if !ok {
			break
		}
		best, found = p, true
		i = p + 1
	}
	return best, found
}

// findScan is the general scanner: a rolling 64-bit window for bit
// stride, plain window reads for byte stride. Targets longer than 64
// bits are filtered on their first word and confirmed with EqualRange.
func (s *Store) findScan(t *Store, start, end, step int) (int, bool) {
	m := t.n
	last := end - m
	if last < start {
		return 0, false
	}
	w := m
	if w > 64 {
		w = 64
	}
	want := t.readBits(t.off, w)
	if step == 1 {
		mask := ^uint64(0) >> (64 - w)
		cur := s.readBits(s.off+start, w)
		for i := start; ; i++ {
			if cur == want && (m <= 64 || s.EqualRange(i+64, t, 64, m-64)) {
				return i, true
			}
			if i == last {
				break
			}
			p := s.off + i + w
			cur = (cur<<1 | uint64(s.data[p>>3]>>(7-p&7)&1)) & mask
		}
		return 0, false
	}
	for i := start; i <= last; i += step {
		if s.readBits(s.off+i, w) == want && (m <= 64 || s.EqualRange(i+64, t, 64, m-64)) {
			return i, true
		}
	}
	return 0, false
}

// findBytes searches for a whole-byte target at byte-aligned positions
// using bytes.Index over chunked windows.
func (s *Store) findBytes(tb []byte, start, end int) (int, bool) {
	m := 8 * len(tb)
	chunk := 80 * m
	if chunk < minChunkBits {
		chunk = minChunkBits
	}
	for cs := alignUp(start); cs+m <= end; {
		ce := cs + chunk
		if ce > end {
			ce = end
		}
		wb := (ce - cs) >> 3
		if idx := bytes.Index(s.byteWindow(cs, wb), tb); idx >= 0 {
			return cs + 8*idx, true
		}
		next := cs + 8*wb - (m - 8)
		if next <= cs {
			next = cs + 8
		}
		cs = next
	}
	return 0, false
}

// byteWindow materializes logical bits [from, from+8*nbytes) as bytes.
// from must be a multiple of 8; aligned stores return a subslice.
func (s *Store) byteWindow(from, nbytes int) []byte {
	if s.off&7 == 0 {
		b := (s.off + from) >> 3
		return s.data[b : b+nbytes]
	}
	out := make([]byte, nbytes)
	for k := range out {
		out[k] = byte(s.readBits(s.off+from+8*k, 8))
	}
	return out
}

// Package bitgo provides bit-precision construction, slicing, and
// interpretation of binary data for Go.
//
// Sequences are addressed in bits rather than bytes, so formats whose
// fields fall on arbitrary bit boundaries decode without manual shift
// and mask bookkeeping:
//
//   - Immutable Bits and mutable BitArray sequences with shared,
//     copy-on-write storage
//   - A format mini-language: "uint:12", "intle16", "float:32",
//     "bfloat", "e4m3mxfp", "ue", "hex:8", "bool", "pad:4"
//   - Big-endian, little-endian, and native byte orders for whole-byte
//     widths, two's complement integers up to any width
//   - IEEE half/single/double floats, bfloat16, and 8-bit minifloats
//     with power-of-two scaling
//   - Exponential-Golomb codes (unsigned, signed, interleaved)
//   - Unaligned and byte-aligned searching, both directions, with
//     overlapping match enumeration
//   - MSB0 and LSB0 bit numbering on every operation
//   - Stream-style Reader with position, peek, and spec-driven reads
//   - Typed arrays over a fixed element format, with auto-scaling for
//     minifloat batches
//   - Loaders for local, compressed, and object-stored inputs
//
// # Quick Start
//
// Build sequences from literals, pack values into a spec, and slice
// freely:
//
//	a, err := bitgo.FromHex("f0ff")
//	b, err := bitgo.Pack("uint:12, bool, pad:3", 1600, true)
//	c, err := b.Slice(4, 12)
//
// Interpret the same bits many ways:
//
//	v, err := b.Interpret("uint:12")
//	u, err := c.Uint()
//	f, err := bitgo.MustFromHex("4170").BFloat()
//
// Read sequentially:
//
//	r := bitgo.NewReader(b)
//	width, err := r.Read("uint:4")
//	flags, err := r.ReadBits(3)
//
// Search without alignment constraints:
//
//	pos, found, err := a.Find(bitgo.MustFromBin("1101"))
//	all, err := a.FindAll(pattern)
//	for p := range all { ... }
//
// Mutate through BitArray when building frames incrementally:
//
//	w := bitgo.NewBitArray()
//	w.Append(header)
//	w.SetBit(11, true)
//	err := w.Overwrite(24, payload)
//
// # Bit Ordering
//
// All indexing, slicing, searching, and insertion honor the sequence's
// ordering. MSB0 numbers bits from the most significant end, LSB0 from
// the least significant:
//
//	lsb, err := bitgo.FromHex("80", bitgo.WithLSB0())
//	bit, err := lsb.Bit(7) // true: bit 7 is the high bit of 0x80
//
// # Loading Data
//
// Large inputs are memory-mapped; compressed and remote inputs decode
// through the source package:
//
//	b, err := bitgo.FromFile("capture.bin.zst")
//	src, err := s3.Open(ctx, client, "bucket", "trace.bin")
//	b, err := bitgo.FromSource(src)
package bitgo

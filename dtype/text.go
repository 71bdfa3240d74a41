package dtype

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/hupe1980/bitgo/internal/bitstore"
)

func textDefs() []registration {
	return []registration{
		{def: &Definition{
			Name:          "bin",
			Description:   "binary digit string",
			Kind:          KindString,
			BitsPerItem:   1,
			LiteralPrefix: "0b",
			Lengths:       Lengths{Every: 1},
			Encode:        binEncode,
			Decode:        binDecode,
		}},
		{def: &Definition{
			Name:          "oct",
			Description:   "octal digit string",
			Kind:          KindString,
			BitsPerItem:   3,
			LiteralPrefix: "0o",
			Lengths:       Lengths{Every: 3},
			Encode:        octEncode,
			Decode:        octDecode,
		}},
		{def: &Definition{
			Name:          "hex",
			Description:   "hexadecimal digit string",
			Kind:          KindString,
			BitsPerItem:   4,
			LiteralPrefix: "0x",
			Lengths:       Lengths{Every: 4},
			Encode:        hexEncode,
			Decode:        hexDecode,
		}},
		{def: &Definition{
			Name:        "bytes",
			Description: "raw byte string",
			Kind:        KindBytes,
			BitsPerItem: 8,
			Lengths:     Lengths{Every: 8},
			Encode:      bytesEncode,
			Decode:      bytesDecode,
		}},
		{def: &Definition{
			Name:        "bool",
			Description: "single-bit boolean",
			Kind:        KindBool,
			BitsPerItem: 1,
			Lengths:     Lengths{Single: 1},
			Encode:      boolEncode,
			Decode:      boolDecode,
		}},
		{def: &Definition{
			Name:        "pad",
			Description: "padding bits, skipped on reads",
			Kind:        KindNone,
			BitsPerItem: 1,
			Lengths:     Lengths{Every: 1},
			Encode:      padEncode,
			Decode:      padDecode,
		}},
		{def: &Definition{
			Name:        "bits",
			Description: "bit sequence of any length",
			Kind:        KindBits,
			BitsPerItem: 1,
			Lengths:     Lengths{Every: 1},
			Encode:      bitsEncode,
			Decode:      bitsDecode,
		}},
	}
}

// stripPrefix removes an optional base prefix like "0b" or "0X".
func stripPrefix(s, prefix string) string {
	if len(s) >= 2 && (s[:2] == prefix || s[:2] == strings.ToUpper(prefix)) {
		return s[2:]
	}
	return s
}

// binToStore packs a string of 0s and 1s, one bit per digit.
// Underscore separators are allowed.
func binToStore(digits string) (*bitstore.Store, error) {
	st := bitstore.New(0)
	for _, c := range digits {
		switch c {
		case '0':
			st.AppendUint(1, 0)
		case '1':
			st.AppendUint(1, 1)
		case '_':
		default:
			return nil, &ErrBadValue{Dtype: "bin", Value: digits}
		}
	}
	return st, nil
}

// octToStore packs octal digits, three bits per digit.
func octToStore(digits string) (*bitstore.Store, error) {
	st := bitstore.New(0)
	for _, c := range digits {
		if c == '_' {
			continue
		}
		if c < '0' || c > '7' {
			return nil, &ErrBadValue{Dtype: "oct", Value: digits}
		}
		st.AppendUint(3, uint64(c-'0'))
	}
	return st, nil
}

// hexToStore packs hex digits, four bits per digit.
func hexToStore(digits string) (*bitstore.Store, error) {
	st := bitstore.New(0)
	for _, c := range digits {
		var d uint64
		switch {
		case c == '_':
			continue
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return nil, &ErrBadValue{Dtype: "hex", Value: digits}
		}
		st.AppendUint(4, d)
	}
	return st, nil
}

// parseBitsLiteral parses a prefixed literal ("0b...", "0o...",
// "0x...") into a bit sequence.
func parseBitsLiteral(s string) (*bitstore.Store, error) {
	t := strings.TrimSpace(s)
	if len(t) < 2 {
		return nil, &ErrBadValue{Dtype: "bits", Value: s}
	}
	switch strings.ToLower(t[:2]) {
	case "0b":
		return binToStore(t[2:])
	case "0o":
		return octToStore(t[2:])
	case "0x":
		return hexToStore(t[2:])
	}
	return nil, &ErrBadValue{Dtype: "bits", Value: s}
}

// digitEncode is shared by the digit-string formats: build the store
// from the digits, then check it against the requested length. With no
// length given the digits determine it.
func digitEncode(name string, nbits int, v Value, conv func(string) (*bitstore.Store, error), prefix string) (*bitstore.Store, error) {
	if v.Kind() != KindString {
		return nil, &ErrBadValue{Dtype: dtName(name, nbits), Value: v.String()}
	}
	st, err := conv(stripPrefix(strings.TrimSpace(v.String()), prefix))
	if err != nil {
		return nil, err
	}
	if nbits > 0 && st.Len() != nbits {
		return nil, &ErrLength{Name: name, Length: nbits, Reason: "value has " + strconv.Itoa(st.Len()) + " bits"}
	}
	return st, nil
}

func binEncode(nbits int, v Value) (*bitstore.Store, error) {
	return digitEncode("bin", nbits, v, binToStore, "0b")
}

func binDecode(s *bitstore.Store, start, nbits int) (Value, error) {
	var b strings.Builder
	b.Grow(nbits)
	for i := 0; i < nbits; i++ {
		if s.Bit(start + i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return StringValue(b.String()), nil
}

func octEncode(nbits int, v Value) (*bitstore.Store, error) {
	return digitEncode("oct", nbits, v, octToStore, "0o")
}

func octDecode(s *bitstore.Store, start, nbits int) (Value, error) {
	var b strings.Builder
	b.Grow(nbits / 3)
	for i := 0; i < nbits; i += 3 {
		b.WriteByte('0' + byte(s.ReadUint(start+i, 3)))
	}
	return StringValue(b.String()), nil
}

func hexEncode(nbits int, v Value) (*bitstore.Store, error) {
	return digitEncode("hex", nbits, v, hexToStore, "0x")
}

func hexDecode(s *bitstore.Store, start, nbits int) (Value, error) {
	// Bytes pads the tail with zeros, so a trailing half byte is the
	// high nibble of the last output byte and survives the cut.
	h := hex.EncodeToString(s.View(start, start+nbits).Bytes())
	return StringValue(h[:nbits/4]), nil
}

func bytesEncode(nbits int, v Value) (*bitstore.Store, error) {
	if v.Kind() != KindBytes {
		return nil, &ErrBadValue{Dtype: dtName("bytes", nbits), Value: v.String()}
	}
	b := v.Bytes()
	if nbits > 0 && len(b)*8 != nbits {
		return nil, &ErrLength{Name: "bytes", Length: nbits, Reason: "value has " + strconv.Itoa(len(b)*8) + " bits"}
	}
	return bitstore.FromBytes(b), nil
}

func bytesDecode(s *bitstore.Store, start, nbits int) (Value, error) {
	return BytesValue(s.View(start, start+nbits).Bytes()), nil
}

func boolEncode(nbits int, v Value) (*bitstore.Store, error) {
	st := bitstore.New(1)
	switch v.Kind() {
	case KindBool:
		st.SetBit(0, v.Bool())
	case KindUint, KindInt:
		f, _ := v.numeric()
		if f != 0 && f != 1 {
			return nil, &ErrBadValue{Dtype: "bool", Value: v.String()}
		}
		st.SetBit(0, f == 1)
	default:
		return nil, &ErrBadValue{Dtype: "bool", Value: v.String()}
	}
	return st, nil
}

func boolDecode(s *bitstore.Store, start, nbits int) (Value, error) {
	return BoolValue(s.Bit(start)), nil
}

func padEncode(nbits int, v Value) (*bitstore.Store, error) {
	if nbits <= 0 {
		return nil, &ErrLength{Name: "pad", Reason: "length required"}
	}
	return bitstore.New(nbits), nil
}

func padDecode(s *bitstore.Store, start, nbits int) (Value, error) {
	return None(), nil
}

func bitsEncode(nbits int, v Value) (*bitstore.Store, error) {
	if v.Kind() != KindBits {
		return nil, &ErrBadValue{Dtype: dtName("bits", nbits), Value: v.String()}
	}
	st := v.Store()
	if nbits > 0 && st.Len() != nbits {
		return nil, &ErrLength{Name: "bits", Length: nbits, Reason: "value has " + strconv.Itoa(st.Len()) + " bits"}
	}
	return st.Clone(), nil
}

func bitsDecode(s *bitstore.Store, start, nbits int) (Value, error) {
	return BitsValue(s.View(start, start+nbits).Clone()), nil
}

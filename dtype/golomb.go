package dtype

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/hupe1980/bitgo/internal/bitstore"
)

// Exponential-Golomb codes. "ue" and "se" are the classic H.264 forms:
// the unsigned value i is stored as k = i+1 written in L = bitlen(k)
// bits, preceded by L-1 zeros. "uie" and "sie" interleave the flag and
// data bits instead, so a decoder never has to scan a zero run.
//
// All four are variable-length and defined for MSB-first reads only.

func golombDefs() []registration {
	return []registration{
		{def: &Definition{
			Name:        "ue",
			Description: "unsigned exponential-Golomb code",
			Kind:        KindUint,
			VarLen:      true,
			Encode:      ueEncode,
			DecodeVar:   ueDecode,
		}},
		{def: &Definition{
			Name:        "se",
			Description: "signed exponential-Golomb code",
			Kind:        KindInt,
			Signed:      true,
			VarLen:      true,
			Encode:      seEncode,
			DecodeVar:   seDecode,
		}},
		{def: &Definition{
			Name:        "uie",
			Description: "unsigned interleaved exponential-Golomb code",
			Kind:        KindUint,
			VarLen:      true,
			Encode:      uieEncode,
			DecodeVar:   uieDecode,
		}},
		{def: &Definition{
			Name:        "sie",
			Description: "signed interleaved exponential-Golomb code",
			Kind:        KindInt,
			Signed:      true,
			VarLen:      true,
			Encode:      sieEncode,
			DecodeVar:   sieDecode,
		}},
	}
}

// golombUint extracts a non-negative value small enough that k = i+1
// still fits in 64 bits.
func golombUint(name string, v Value) (uint64, error) {
	var u uint64
	switch v.Kind() {
	case KindUint:
		u = v.Uint()
	case KindInt:
		if v.Int() < 0 {
			return 0, &ErrRange{Dtype: name, Value: v.String()}
		}
		u = uint64(v.Int())
	case KindBigInt:
		if v.Big().Sign() < 0 || !v.Big().IsUint64() {
			return 0, &ErrRange{Dtype: name, Value: v.String()}
		}
		u = v.Big().Uint64()
	default:
		return 0, &ErrBadValue{Dtype: name, Value: v.String()}
	}
	if u == math.MaxUint64 {
		return 0, &ErrRange{Dtype: name, Value: v.String()}
	}
	return u, nil
}

// golombInt extracts a signed value for the signed code mappings.
func golombInt(name string, v Value) (int64, error) {
	switch v.Kind() {
	case KindInt:
		return v.Int(), nil
	case KindUint:
		if v.Uint() > math.MaxInt64 {
			return 0, &ErrRange{Dtype: name, Value: v.String()}
		}
		return int64(v.Uint()), nil
	case KindBigInt:
		if !v.Big().IsInt64() {
			return 0, &ErrRange{Dtype: name, Value: v.String()}
		}
		return v.Big().Int64(), nil
	}
	return 0, &ErrBadValue{Dtype: name, Value: v.String()}
}

func ueEncode(nbits int, v Value) (*bitstore.Store, error) {
	u, err := golombUint("ue", v)
	if err != nil {
		return nil, err
	}
	return ueStore(u), nil
}

func ueStore(u uint64) *bitstore.Store {
	k := u + 1
	l := bits.Len64(k)
	st := bitstore.New(2*l - 1)
	st.WriteUint(l-1, l, k)
	return st
}

func ueDecode(s *bitstore.Store, start int) (Value, int, error) {
	u, n, err := readUE("ue", s, start)
	if err != nil {
		return None(), 0, err
	}
	return UintValue(u), n, nil
}

// readUE reads one exp-Golomb code at start and returns the value and
// the number of bits consumed.
func readUE(name string, s *bitstore.Store, start int) (uint64, int, error) {
	end := s.Len()
	z := 0
	for {
		if start+z >= end {
			return 0, 0, &ErrTruncated{Dtype: name, Need: z + 1, Have: end - start}
		}
		if s.Bit(start + z) {
			break
		}
		z++
		if z > 63 {
			return 0, 0, &ErrDecode{Dtype: name, Reason: "code prefix longer than 63 zeros"}
		}
	}
	n := 2*z + 1
	if start+n > end {
		return 0, 0, &ErrTruncated{Dtype: name, Need: n, Have: end - start}
	}
	k := s.ReadUint(start+z, z+1)
	return k - 1, n, nil
}

// se maps signed to unsigned as i>0 -> 2i-1, i<=0 -> -2i, then uses
// the ue code. MinInt64 is excluded: its mapped value needs 65 bits.
func seEncode(nbits int, v Value) (*bitstore.Store, error) {
	i, err := golombInt("se", v)
	if err != nil {
		return nil, err
	}
	if i == math.MinInt64 {
		return nil, &ErrRange{Dtype: "se", Value: v.String()}
	}
	var u uint64
	if i > 0 {
		u = 2*uint64(i) - 1
	} else {
		u = 2 * (0 - uint64(i))
	}
	return ueStore(u), nil
}

func seDecode(s *bitstore.Store, start int) (Value, int, error) {
	u, n, err := readUE("se", s, start)
	if err != nil {
		return None(), 0, err
	}
	if u&1 == 1 {
		i := u/2 + 1
		if i > math.MaxInt64 {
			return BigValue(new(big.Int).SetUint64(i)), n, nil
		}
		return IntValue(int64(i)), n, nil
	}
	return IntValue(-int64(u / 2)), n, nil
}

func uieEncode(nbits int, v Value) (*bitstore.Store, error) {
	u, err := golombUint("uie", v)
	if err != nil {
		return nil, err
	}
	return uieStore(u), nil
}

// uieStore writes k = u+1 in interleaved form: every bit of k below
// the leading 1 becomes a "0 bit" pair, then a lone 1 terminates.
func uieStore(u uint64) *bitstore.Store {
	k := u + 1
	l := bits.Len64(k)
	st := bitstore.New(2*l - 1)
	pos := 0
	for j := l - 2; j >= 0; j-- {
		st.SetBit(pos+1, k>>uint(j)&1 == 1)
		pos += 2
	}
	st.SetBit(pos, true)
	return st
}

func uieDecode(s *bitstore.Store, start int) (Value, int, error) {
	u, n, err := readUIE("uie", s, start)
	if err != nil {
		return None(), 0, err
	}
	return UintValue(u), n, nil
}

func readUIE(name string, s *bitstore.Store, start int) (uint64, int, error) {
	end := s.Len()
	k := uint64(1)
	pos := start
	for {
		if pos >= end {
			return 0, 0, &ErrTruncated{Dtype: name, Need: pos + 1 - start, Have: end - start}
		}
		if s.Bit(pos) {
			pos++
			break
		}
		if pos+1 >= end {
			return 0, 0, &ErrTruncated{Dtype: name, Need: pos + 2 - start, Have: end - start}
		}
		if pos-start >= 2*63 {
			return 0, 0, &ErrDecode{Dtype: name, Reason: "code longer than 127 bits"}
		}
		k = k << 1
		if s.Bit(pos + 1) {
			k |= 1
		}
		pos += 2
	}
	return k - 1, pos - start, nil
}

// sie is uie of the magnitude followed by a sign bit, which is omitted
// for zero.
func sieEncode(nbits int, v Value) (*bitstore.Store, error) {
	i, err := golombInt("sie", v)
	if err != nil {
		return nil, err
	}
	m := uint64(i)
	if i < 0 {
		m = 0 - uint64(i)
	}
	st := uieStore(m)
	if i != 0 {
		st.AppendUint(1, boolBit(i < 0))
	}
	return st, nil
}

func sieDecode(s *bitstore.Store, start int) (Value, int, error) {
	u, n, err := readUIE("sie", s, start)
	if err != nil {
		return None(), 0, err
	}
	if u == 0 {
		return IntValue(0), n, nil
	}
	if start+n >= s.Len() {
		return None(), 0, &ErrTruncated{Dtype: "sie", Need: n + 1, Have: s.Len() - start}
	}
	neg := s.Bit(start + n)
	n++
	if u > math.MaxInt64 {
		b := new(big.Int).SetUint64(u)
		if neg {
			b.Neg(b)
		}
		return BigValue(b), n, nil
	}
	i := int64(u)
	if neg {
		i = -i
	}
	return IntValue(i), n, nil
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

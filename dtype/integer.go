package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/hupe1980/bitgo/internal/bitstore"
)

// nativeLittle reports the host byte order, selecting the codec behind
// the *ne formats.
var nativeLittle = binary.NativeEndian.Uint16([]byte{0x01, 0x00}) == 0x0001

func integerDefs() []registration {
	anyLen := Lengths{Every: 1}
	byteLen := Lengths{Every: 8}
	return []registration{
		{
			def: &Definition{
				Name:        "uint",
				Description: "unsigned integer, most significant bit first",
				Kind:        KindUint,
				BitsPerItem: 1,
				Lengths:     anyLen,
				Encode:      uintEncoder("uint", false),
				Decode:      uintDecoder(false),
			},
			aliases: []string{"u"},
		},
		{
			def: &Definition{
				Name:        "int",
				Description: "two's-complement signed integer",
				Kind:        KindInt,
				BitsPerItem: 1,
				Signed:      true,
				Lengths:     anyLen,
				Encode:      intEncoder("int", false),
				Decode:      intDecoder(false),
			},
			aliases: []string{"i"},
		},
		{
			def: &Definition{
				Name:        "uintbe",
				Description: "big-endian unsigned integer",
				Kind:        KindUint,
				BitsPerItem: 1,
				Lengths:     byteLen,
				Encode:      uintEncoder("uintbe", false),
				Decode:      uintDecoder(false),
			},
		},
		{
			def: &Definition{
				Name:        "uintle",
				Description: "little-endian unsigned integer",
				Kind:        KindUint,
				BitsPerItem: 1,
				Lengths:     byteLen,
				Encode:      uintEncoder("uintle", true),
				Decode:      uintDecoder(true),
			},
		},
		{
			def: &Definition{
				Name:        "uintne",
				Description: "native-endian unsigned integer",
				Kind:        KindUint,
				BitsPerItem: 1,
				Lengths:     byteLen,
				Encode:      uintEncoder("uintne", nativeLittle),
				Decode:      uintDecoder(nativeLittle),
			},
		},
		{
			def: &Definition{
				Name:        "intbe",
				Description: "big-endian two's-complement signed integer",
				Kind:        KindInt,
				BitsPerItem: 1,
				Signed:      true,
				Lengths:     byteLen,
				Encode:      intEncoder("intbe", false),
				Decode:      intDecoder(false),
			},
		},
		{
			def: &Definition{
				Name:        "intle",
				Description: "little-endian two's-complement signed integer",
				Kind:        KindInt,
				BitsPerItem: 1,
				Signed:      true,
				Lengths:     byteLen,
				Encode:      intEncoder("intle", true),
				Decode:      intDecoder(true),
			},
		},
		{
			def: &Definition{
				Name:        "intne",
				Description: "native-endian two's-complement signed integer",
				Kind:        KindInt,
				BitsPerItem: 1,
				Signed:      true,
				Lengths:     byteLen,
				Encode:      intEncoder("intne", nativeLittle),
				Decode:      intDecoder(nativeLittle),
			},
		},
	}
}

func dtName(name string, nbits int) string {
	return fmt.Sprintf("%s%d", name, nbits)
}

func uintEncoder(name string, swap bool) EncodeFunc {
	return func(nbits int, v Value) (*bitstore.Store, error) {
		if nbits <= 0 {
			return nil, &ErrLength{Name: name, Reason: "length required"}
		}
		st, err := encodeUintCore(name, nbits, v)
		if err != nil {
			return nil, err
		}
		if swap {
			st = st.ByteSwap()
		}
		return st, nil
	}
}

func encodeUintCore(name string, nbits int, v Value) (*bitstore.Store, error) {
	switch v.Kind() {
	case KindUint:
		u := v.Uint()
		if nbits < 64 && u > (1<<nbits)-1 {
			return nil, &ErrRange{Dtype: dtName(name, nbits), Value: v.String()}
		}
		st := bitstore.New(nbits)
		if nbits <= 64 {
			st.WriteUint(0, nbits, u)
		} else {
			st.WriteUint(nbits-64, 64, u)
		}
		return st, nil
	case KindInt:
		if v.Int() < 0 {
			return nil, &ErrRange{Dtype: dtName(name, nbits), Value: v.String()}
		}
		return encodeUintCore(name, nbits, UintValue(uint64(v.Int())))
	case KindBigInt:
		x := v.Big()
		if x.Sign() < 0 || x.BitLen() > nbits {
			return nil, &ErrRange{Dtype: dtName(name, nbits), Value: x.String()}
		}
		if x.IsUint64() {
			return encodeUintCore(name, nbits, UintValue(x.Uint64()))
		}
		return bigToStore(x, nbits), nil
	default:
		return nil, &ErrBadValue{Dtype: dtName(name, nbits), Value: v.String()}
	}
}

func intEncoder(name string, swap bool) EncodeFunc {
	return func(nbits int, v Value) (*bitstore.Store, error) {
		if nbits <= 0 {
			return nil, &ErrLength{Name: name, Reason: "length required"}
		}
		st, err := encodeIntCore(name, nbits, v)
		if err != nil {
			return nil, err
		}
		if swap {
			st = st.ByteSwap()
		}
		return st, nil
	}
}

func encodeIntCore(name string, nbits int, v Value) (*bitstore.Store, error) {
	switch v.Kind() {
	case KindInt:
		i := v.Int()
		if nbits < 64 {
			lim := int64(1) << (nbits - 1)
			if i < -lim || i > lim-1 {
				return nil, &ErrRange{Dtype: dtName(name, nbits), Value: v.String()}
			}
		}
		st := bitstore.New(nbits)
		u := uint64(i)
		switch {
		case nbits < 64:
			st.WriteUint(0, nbits, u&((1<<nbits)-1))
		case nbits == 64:
			st.WriteUint(0, 64, u)
		default:
			if i < 0 {
				st.SetRange(0, nbits-64, true)
			}
			st.WriteUint(nbits-64, 64, u)
		}
		return st, nil
	case KindUint:
		u := v.Uint()
		if u > math.MaxInt64 {
			return encodeIntCore(name, nbits, BigValue(new(big.Int).SetUint64(u)))
		}
		if nbits < 64 && int64(u) > (int64(1)<<(nbits-1))-1 {
			return nil, &ErrRange{Dtype: dtName(name, nbits), Value: v.String()}
		}
		return encodeIntCore(name, nbits, IntValue(int64(u)))
	case KindBigInt:
		x := v.Big()
		lim := new(big.Int).Lsh(big.NewInt(1), uint(nbits-1))
		maxv := new(big.Int).Sub(lim, big.NewInt(1))
		minv := new(big.Int).Neg(lim)
		if x.Cmp(minv) < 0 || x.Cmp(maxv) > 0 {
			return nil, &ErrRange{Dtype: dtName(name, nbits), Value: x.String()}
		}
		if x.IsInt64() {
			return encodeIntCore(name, nbits, IntValue(x.Int64()))
		}
		t := new(big.Int).Set(x)
		if t.Sign() < 0 {
			t.Add(t, new(big.Int).Lsh(big.NewInt(1), uint(nbits)))
		}
		return bigToStore(t, nbits), nil
	default:
		return nil, &ErrBadValue{Dtype: dtName(name, nbits), Value: v.String()}
	}
}

// bigToStore writes a non-negative integer into an owned store of
// exactly nbits bits. x must fit.
func bigToStore(x *big.Int, nbits int) *bitstore.Store {
	nb := (nbits + 7) / 8
	buf := make([]byte, nb)
	x.FillBytes(buf)
	// The value sits right-aligned across nb bytes; the dtype window is
	// the last nbits of them.
	return bitstore.FromBytes(buf).View(8*nb-nbits, 8*nb).Clone()
}

func uintDecoder(swap bool) DecodeFunc {
	return func(s *bitstore.Store, start, nbits int) (Value, error) {
		if swap {
			s = s.View(start, start+nbits).ByteSwap()
			start = 0
		}
		if nbits <= 64 {
			return UintValue(s.ReadUint(start, nbits)), nil
		}
		return BigValue(readBig(s, start, nbits)), nil
	}
}

func intDecoder(swap bool) DecodeFunc {
	return func(s *bitstore.Store, start, nbits int) (Value, error) {
		if swap {
			s = s.View(start, start+nbits).ByteSwap()
			start = 0
		}
		if nbits <= 64 {
			u := s.ReadUint(start, nbits)
			if nbits < 64 && u&(1<<(nbits-1)) != 0 {
				u |= ^uint64(0) << nbits
			}
			return IntValue(int64(u)), nil
		}
		x := readBig(s, start, nbits)
		if x.Bit(nbits-1) == 1 {
			x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(nbits)))
		}
		return BigValue(x), nil
	}
}

// readBig reads an nbits-wide big-endian unsigned integer.
func readBig(s *bitstore.Store, start, nbits int) *big.Int {
	b := s.View(start, start+nbits).Bytes()
	x := new(big.Int).SetBytes(b)
	return x.Rsh(x, uint(8*len(b)-nbits))
}

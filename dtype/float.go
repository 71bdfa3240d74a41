package dtype

import (
	"math"

	"github.com/hupe1980/bitgo/internal/bitstore"
	"github.com/hupe1980/bitgo/internal/fp"
)

func floatDefs() []registration {
	ieee := Lengths{Set: []int{16, 32, 64}}
	b16 := Lengths{Single: 16}
	return []registration{
		{
			def: &Definition{
				Name:        "float",
				Description: "big-endian IEEE-754 float",
				Kind:        KindFloat,
				BitsPerItem: 1,
				Signed:      true,
				Lengths:     ieee,
				Encode:      floatEncoder("float", false),
				Decode:      floatDecoder(false),
			},
			aliases: []string{"f", "floatbe"},
		},
		{
			def: &Definition{
				Name:        "floatle",
				Description: "little-endian IEEE-754 float",
				Kind:        KindFloat,
				BitsPerItem: 1,
				Signed:      true,
				Lengths:     ieee,
				Encode:      floatEncoder("floatle", true),
				Decode:      floatDecoder(true),
			},
		},
		{
			def: &Definition{
				Name:        "floatne",
				Description: "native-endian IEEE-754 float",
				Kind:        KindFloat,
				BitsPerItem: 1,
				Signed:      true,
				Lengths:     ieee,
				Encode:      floatEncoder("floatne", nativeLittle),
				Decode:      floatDecoder(nativeLittle),
			},
		},
		{
			def: &Definition{
				Name:        "bfloat",
				Description: "big-endian bfloat16 (truncated binary32)",
				Kind:        KindFloat,
				BitsPerItem: 1,
				Signed:      true,
				Lengths:     b16,
				Encode:      bfloatEncoder("bfloat", false),
				Decode:      bfloatDecoder(false),
			},
			aliases: []string{"bfloatbe"},
		},
		{
			def: &Definition{
				Name:        "bfloatle",
				Description: "little-endian bfloat16",
				Kind:        KindFloat,
				BitsPerItem: 1,
				Signed:      true,
				Lengths:     b16,
				Encode:      bfloatEncoder("bfloatle", true),
				Decode:      bfloatDecoder(true),
			},
		},
		{
			def: &Definition{
				Name:        "bfloatne",
				Description: "native-endian bfloat16",
				Kind:        KindFloat,
				BitsPerItem: 1,
				Signed:      true,
				Lengths:     b16,
				Encode:      bfloatEncoder("bfloatne", nativeLittle),
				Decode:      bfloatDecoder(nativeLittle),
			},
		},
	}
}

// floatInput coerces an encode value to float64. Integers too large
// for float64 fail rather than silently becoming infinite.
func floatInput(name string, nbits int, v Value) (float64, error) {
	f, ok := v.numeric()
	if !ok {
		return 0, &ErrBadValue{Dtype: dtName(name, nbits), Value: v.String()}
	}
	if v.Kind() == KindBigInt && math.IsInf(f, 0) {
		return 0, &ErrRange{Dtype: dtName(name, nbits), Value: v.String()}
	}
	return f, nil
}

func floatEncoder(name string, swap bool) EncodeFunc {
	return func(nbits int, v Value) (*bitstore.Store, error) {
		if nbits == 0 {
			return nil, &ErrLength{Name: name, Reason: "length required"}
		}
		f, err := floatInput(name, nbits, v)
		if err != nil {
			return nil, err
		}
		st := bitstore.New(nbits)
		switch nbits {
		case 16:
			// Out-of-range values saturate to ±Inf in the conversion.
			st.WriteUint(0, 16, uint64(fp.F16FromFloat(f)))
		case 32:
			st.WriteUint(0, 32, uint64(math.Float32bits(float32(f))))
		case 64:
			st.WriteUint(0, 64, math.Float64bits(f))
		default:
			return nil, &ErrLength{Name: name, Length: nbits, Reason: "length must be one of 16, 32, 64 bits"}
		}
		if swap {
			st = st.ByteSwap()
		}
		return st, nil
	}
}

func floatDecoder(swap bool) DecodeFunc {
	return func(s *bitstore.Store, start, nbits int) (Value, error) {
		if swap {
			s = s.View(start, start+nbits).ByteSwap()
			start = 0
		}
		switch nbits {
		case 16:
			return FloatValue(fp.F16ToFloat(uint16(s.ReadUint(start, 16)))), nil
		case 32:
			return FloatValue(float64(math.Float32frombits(uint32(s.ReadUint(start, 32))))), nil
		default:
			return FloatValue(math.Float64frombits(s.ReadUint(start, 64))), nil
		}
	}
}

func bfloatEncoder(name string, swap bool) EncodeFunc {
	return func(nbits int, v Value) (*bitstore.Store, error) {
		f, err := floatInput(name, 16, v)
		if err != nil {
			return nil, err
		}
		st := bitstore.New(16)
		st.WriteUint(0, 16, uint64(fp.BF16FromFloat(f)))
		if swap {
			st = st.ByteSwap()
		}
		return st, nil
	}
}

func bfloatDecoder(swap bool) DecodeFunc {
	return func(s *bitstore.Store, start, nbits int) (Value, error) {
		if swap {
			s = s.View(start, start+nbits).ByteSwap()
			start = 0
		}
		return FloatValue(fp.BF16ToFloat(uint16(s.ReadUint(start, 16)))), nil
	}
}

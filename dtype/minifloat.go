package dtype

import (
	"fmt"
	"math"

	"github.com/hupe1980/bitgo/internal/bitstore"
)

// miniFormat parameterizes a sub-byte float layout: one sign bit,
// expBits of exponent and manBits of mantissa.
type miniFormat struct {
	name    string
	width   int
	expBits int
	manBits int
	bias    int
	// ieee gives the all-ones exponent IEEE semantics (inf and NaN).
	// nanAtMax reserves only the all-ones code for NaN. Formats with
	// neither flag use every code for a finite value.
	ieee     bool
	nanAtMax bool
}

var miniFormats = []miniFormat{
	{name: "e2m1mxfp", width: 4, expBits: 2, manBits: 1, bias: 1},
	{name: "e2m3mxfp", width: 6, expBits: 2, manBits: 3, bias: 1},
	{name: "e3m2mxfp", width: 6, expBits: 3, manBits: 2, bias: 3},
	{name: "e4m3mxfp", width: 8, expBits: 4, manBits: 3, bias: 7, nanAtMax: true},
	{name: "e5m2mxfp", width: 8, expBits: 5, manBits: 2, bias: 15, ieee: true},
}

func minifloatDefs() []registration {
	regs := make([]registration, 0, len(miniFormats))
	for _, f := range miniFormats {
		lut := f.buildLUT()

		// The largest finite positive value and its code. Codes above
		// it in the positive half are inf or NaN.
		maxAbs, maxCode := 0.0, uint64(0)
		for c, v := range lut[:1<<(f.width-1)] {
			if !math.IsNaN(v) && !math.IsInf(v, 0) && v >= maxAbs {
				maxAbs, maxCode = v, uint64(c)
			}
		}

		regs = append(regs, registration{def: &Definition{
			Name:        f.name,
			Description: fmt.Sprintf("%d-bit float with %d exponent and %d mantissa bits", f.width, f.expBits, f.manBits),
			Kind:        KindFloat,
			BitsPerItem: 1,
			Signed:      true,
			MaxAbs:      maxAbs,
			Lengths:     Lengths{Single: f.width},
			Encode:      f.encoder(lut, maxAbs, maxCode),
			Decode:      f.decoder(lut),
		}})
	}
	return regs
}

func (f miniFormat) buildLUT() []float64 {
	lut := make([]float64, 1<<f.width)
	for c := range lut {
		lut[c] = f.decodeCode(uint64(c))
	}
	return lut
}

func (f miniFormat) decodeCode(code uint64) float64 {
	sign := code >> (f.width - 1) & 1
	exp := int(code >> f.manBits & (1<<f.expBits - 1))
	man := int(code & (1<<f.manBits - 1))
	maxExp := 1<<f.expBits - 1

	var v float64
	switch {
	case f.ieee && exp == maxExp:
		if man != 0 {
			return math.NaN()
		}
		v = math.Inf(1)
	case f.nanAtMax && exp == maxExp && man == 1<<f.manBits-1:
		return math.NaN()
	case exp == 0:
		v = float64(man) / float64(int(1)<<f.manBits) * math.Ldexp(1, 1-f.bias)
	default:
		v = (1 + float64(man)/float64(int(1)<<f.manBits)) * math.Ldexp(1, exp-f.bias)
	}
	if sign == 1 {
		v = -v
	}
	return v
}

func (f miniFormat) encoder(lut []float64, maxAbs float64, maxCode uint64) EncodeFunc {
	return func(nbits int, v Value) (*bitstore.Store, error) {
		fl, err := floatInput(f.name, f.width, v)
		if err != nil {
			return nil, err
		}
		code, err := f.encodeValue(lut, maxAbs, maxCode, fl)
		if err != nil {
			return nil, err
		}
		st := bitstore.New(f.width)
		st.WriteUint(0, f.width, code)
		return st, nil
	}
}

func (f miniFormat) encodeValue(lut []float64, maxAbs float64, maxCode uint64, fl float64) (uint64, error) {
	signBit := uint64(1) << (f.width - 1)
	maxExp := uint64(1<<f.expBits - 1)

	switch {
	case math.IsNaN(fl):
		switch {
		case f.ieee:
			return maxExp<<f.manBits | 1<<(f.manBits-1), nil
		case f.nanAtMax:
			return signBit - 1, nil
		}
		return 0, &ErrBadValue{Dtype: f.name, Value: "NaN"}

	case math.IsInf(fl, 0) || math.Abs(fl) > maxAbs:
		// Out-of-range values saturate: to inf when the format has
		// one, to the largest finite value otherwise.
		code := maxCode
		if f.ieee {
			code = maxExp << f.manBits
		}
		if fl < 0 {
			code |= signBit
		}
		return code, nil

	case fl == 0:
		if math.Signbit(fl) {
			return signBit, nil
		}
		return 0, nil
	}

	// Nearest finite table entry, ties to the lower code.
	best, bestDiff := uint64(0), math.Inf(1)
	for c, val := range lut {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			continue
		}
		if d := math.Abs(fl - val); d < bestDiff {
			best, bestDiff = uint64(c), d
		}
	}
	return best, nil
}

func (f miniFormat) decoder(lut []float64) DecodeFunc {
	return func(s *bitstore.Store, start, nbits int) (Value, error) {
		return FloatValue(lut[s.ReadUint(start, f.width)]), nil
	}
}

package array

import (
	"fmt"
	"math"

	"github.com/hupe1980/bitgo"
)

// Option adjusts how an array encodes its elements.
type Option func(*config)

type config struct {
	scale float64
	auto  bool
}

// WithScale divides every element by s on encode and multiplies on
// decode. The scale must be a positive finite number and the element
// format must be a float kind.
func WithScale(s float64) Option {
	return func(c *config) { c.scale = s }
}

// WithScaleAuto computes a power-of-two scale from the construction
// batch so that its largest magnitude fits the element format's
// finite range. Elements appended later reuse the computed scale.
func WithScaleAuto() Option {
	return func(c *config) { c.auto = true }
}

func configure(opts []Option) (config, error) {
	var c config
	for _, o := range opts {
		o(&c)
	}
	if c.auto && c.scale != 0 {
		return c, fmt.Errorf("%w: scale and auto-scale are mutually exclusive", bitgo.ErrCreation)
	}
	return c, nil
}

// batchScale resolves the unscaled format to learn its range and
// derives the scale from the batch's largest finite magnitude.
func batchScale(format string, vals []any) (float64, error) {
	d, err := resolve(format, 0)
	if err != nil {
		return 0, classify(err, bitgo.ErrCreation)
	}
	if d.MaxAbs() == 0 {
		return 0, fmt.Errorf("%w: auto-scale needs a bounded format, not %s", bitgo.ErrCreation, d)
	}
	m := 0.0
	for _, x := range vals {
		f, ok := floatOf(x)
		if !ok {
			return 0, fmt.Errorf("%w: cannot auto-scale a %T value", bitgo.ErrCreation, x)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		if af := math.Abs(f); af > m {
			m = af
		}
	}
	return autoScale(m, d.MaxAbs()), nil
}

// autoScale picks the power of two that maps the largest batch
// magnitude maxVal into [0, maxAbs]. A batch with no finite nonzero
// value scales by one, and the exponent is clamped to ±127.
func autoScale(maxVal, maxAbs float64) float64 {
	if maxVal == 0 {
		return 1
	}
	e := exp2floor(maxVal) - exp2floor(maxAbs)
	for e < 127 && maxVal > maxAbs*math.Ldexp(1, e) {
		e++
	}
	if e > 127 {
		e = 127
	}
	if e < -127 {
		e = -127
	}
	return math.Ldexp(1, e)
}

// exp2floor returns floor(log2 x) for x > 0, exactly.
func exp2floor(x float64) int {
	_, e := math.Frexp(x)
	return e - 1
}

func floatOf(x any) (float64, bool) {
	switch v := x.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

package bitgo

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/hupe1980/bitgo/dtype"
	"github.com/hupe1980/bitgo/internal/bitstore"
	"github.com/hupe1980/bitgo/token"
)

// Pack builds a sequence from a format spec and positional values,
// one value per token without an inline value:
//
//	Pack("uint:8, bin:3, bool", 129, "101", true)
//
// Values may be Go integers, floats, bools, strings, byte slices,
// *big.Int, *Bits, *BitArray or Value. Strings go through the
// format's own parser, so "42" works for an integer token and "ff"
// for a hex token.
func Pack(spec string, vals ...any) (*Bits, error) {
	return PackKW(spec, vals, nil)
}

// PackKW is Pack with keyword bindings. Tokens may name keywords as
// lengths or values:
//
//	PackKW("uint:n=x, pad:n", nil, map[string]any{"n": 8, "x": 129})
func PackKW(spec string, vals []any, kwargs map[string]any, opts ...Option) (*Bits, error) {
	o := applyOptions(opts)
	if strings.TrimSpace(spec) == "" {
		if len(vals) != 0 {
			return nil, fmt.Errorf("%w: %d values for an empty spec", ErrCreation, len(vals))
		}
		return &Bits{store: bitstore.New(0), opts: o}, nil
	}
	toks, err := token.Parse(spec)
	if err != nil {
		return nil, creationError(err)
	}

	parts := make([]*bitstore.Store, 0, len(toks))
	vi := 0
	for _, t := range toks {
		dt, err := resolveTokenDtype(t, kwargs)
		if err != nil {
			return nil, creationError(err)
		}
		if dt.VarLen() && o.order == LSB0 {
			return nil, fmt.Errorf("%w: %s codes are undefined with LSB0 ordering", ErrCreation, dt.Name())
		}
		var v Value
		switch {
		case dt.Kind() == dtype.KindNone:
			v = dtype.None()
		case t.Value != "":
			v, err = tokenValue(t, dt, kwargs)
			if err != nil {
				return nil, creationError(err)
			}
		default:
			if vi >= len(vals) {
				return nil, fmt.Errorf("%w: no value for token %q", ErrCreation, t.String())
			}
			v, err = argValue(dt, vals[vi])
			if err != nil {
				return nil, err
			}
			vi++
		}
		st, err := dt.Encode(v)
		if err != nil {
			return nil, creationError(err)
		}
		parts = append(parts, st)
	}
	if vi != len(vals) {
		return nil, fmt.Errorf("%w: %d values given, %d consumed", ErrCreation, len(vals), vi)
	}
	return &Bits{store: joinStores(o.order, parts), opts: o}, nil
}

// Unpack decodes the sequence according to a format spec, returning
// one value per non-padding token. At most one token may leave its
// length open; it takes whatever the sized tokens around it do not
// claim. Bits beyond what the spec needs stay unread.
func (b *Bits) Unpack(spec string) ([]Value, error) {
	vals, _, err := b.readTokensAt(0, spec, nil)
	return vals, err
}

// UnpackKW is Unpack with keyword bindings for placeholder lengths,
// e.g. UnpackKW("uint:n, hex:m", map[string]any{"n": 8, "m": 2}).
func (b *Bits) UnpackKW(spec string, kwargs map[string]any) ([]Value, error) {
	vals, _, err := b.readTokensAt(0, spec, kwargs)
	return vals, err
}

// resolveTokenDtype binds one token to a concrete dtype, taking
// placeholder lengths from kwargs.
func resolveTokenDtype(t token.Token, kwargs map[string]any) (*dtype.Dtype, error) {
	length := 0
	if t.Length != "" {
		n, ok := t.LengthInt()
		if !ok {
			x, bound := kwargs[t.Length]
			if !bound {
				return nil, &token.ErrToken{Token: t.String(), Reason: "length placeholder " + strconv.Quote(t.Length) + " is not bound"}
			}
			n, ok = intOf(x)
			if !ok {
				return nil, &token.ErrToken{Token: t.String(), Reason: "length placeholder " + strconv.Quote(t.Length) + " is not an integer"}
			}
		}
		length = n
	}
	return dtype.Default.Resolve(t.Name, length, 0)
}

// tokenValue resolves a token's inline value: a keyword binding when
// the value names one, otherwise the format's literal syntax.
func tokenValue(t token.Token, dt *dtype.Dtype, kwargs map[string]any) (Value, error) {
	if x, ok := kwargs[t.Value]; ok {
		if s, isStr := x.(string); isStr {
			return dt.ParseValue(s)
		}
		if v, ok := valueOf(x); ok {
			return v, nil
		}
		return Value{}, fmt.Errorf("cannot use a %T as the value of %q", x, t.String())
	}
	return dt.ParseValue(t.Value)
}

// argValue converts one positional argument for dt.
func argValue(dt *dtype.Dtype, x any) (Value, error) {
	if s, ok := x.(string); ok {
		v, err := dt.ParseValue(s)
		if err != nil {
			return Value{}, creationError(err)
		}
		return v, nil
	}
	if v, ok := valueOf(x); ok {
		return v, nil
	}
	return Value{}, fmt.Errorf("%w: cannot use a %T as a pack value", ErrCreation, x)
}

// valueOf converts a Go value into a typed dtype value. Strings are
// handled by the caller so they can use the format's own parser.
func valueOf(x any) (Value, bool) {
	switch v := x.(type) {
	case nil:
		return dtype.None(), true
	case Value:
		return v, true
	case bool:
		return dtype.BoolValue(v), true
	case int:
		return dtype.IntValue(int64(v)), true
	case int8:
		return dtype.IntValue(int64(v)), true
	case int16:
		return dtype.IntValue(int64(v)), true
	case int32:
		return dtype.IntValue(int64(v)), true
	case int64:
		return dtype.IntValue(v), true
	case uint:
		return dtype.UintValue(uint64(v)), true
	case uint8:
		return dtype.UintValue(uint64(v)), true
	case uint16:
		return dtype.UintValue(uint64(v)), true
	case uint32:
		return dtype.UintValue(uint64(v)), true
	case uint64:
		return dtype.UintValue(v), true
	case float32:
		return dtype.FloatValue(float64(v)), true
	case float64:
		return dtype.FloatValue(v), true
	case []byte:
		return dtype.BytesValue(v), true
	case *big.Int:
		return dtype.BigValue(v), true
	case *Bits:
		return dtype.BitsValue(v.store), true
	case *BitArray:
		return dtype.BitsValue(v.store), true
	default:
		return Value{}, false
	}
}

func intOf(x any) (int, bool) {
	switch v := x.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	default:
		return 0, false
	}
}

type plannedToken struct {
	dt    *dtype.Dtype
	width int // fixed width in bits, -1 for variable-length codes
	keep  bool
}

// readTokensAt decodes spec at active position pos, returning the
// values of the non-padding tokens and the total bits consumed.
// Inline token values fix widths but are not compared against the
// data. Every token after one with open length must have a fixed
// width, so the open token's share can be computed up front.
func (b *Bits) readTokensAt(pos int, spec string, kwargs map[string]any) ([]Value, int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, 0, nil
	}
	toks, err := token.Parse(spec)
	if err != nil {
		return nil, 0, interpretError(err)
	}

	plan := make([]plannedToken, len(toks))
	stretchy := -1
	for i, t := range toks {
		dt, err := resolveTokenDtype(t, kwargs)
		if err != nil {
			return nil, 0, interpretError(err)
		}
		pl := plannedToken{dt: dt, keep: dt.Kind() != dtype.KindNone}
		switch {
		case dt.VarLen():
			pl.width = -1
		case dt.BitLen() > 0:
			pl.width = dt.BitLen()
		case t.Value != "":
			v, err := dt.ParseValue(t.Value)
			if err != nil {
				return nil, 0, interpretError(err)
			}
			st, err := dt.Encode(v)
			if err != nil {
				return nil, 0, interpretError(err)
			}
			pl.width = st.Len()
		default:
			if dt.Kind() == dtype.KindNone {
				return nil, 0, interpretError(&dtype.ErrLength{Name: dt.Name(), Reason: "length required"})
			}
			stretchy = i
		}
		plan[i] = pl
	}

	claimAfter := 0
	if stretchy >= 0 {
		for _, pl := range plan[stretchy+1:] {
			if pl.width < 0 {
				return nil, 0, fmt.Errorf("%w: %s code after a token with unknown length", ErrInterpret, pl.dt.Name())
			}
			claimAfter += pl.width
		}
	}

	vals := make([]Value, 0, len(plan))
	cur := pos
	for i, pl := range plan {
		if pl.width < 0 {
			v, used, err := b.decodeVarAt(pl.dt, cur)
			if err != nil {
				return nil, 0, err
			}
			if pl.keep {
				vals = append(vals, v)
			}
			cur += used
			continue
		}
		w := pl.width
		if i == stretchy {
			w = b.Len() - cur - claimAfter
			if w < 0 {
				return nil, 0, fmt.Errorf("%w: %d bits claimed beyond position %d of %d", ErrRead, claimAfter, cur, b.Len())
			}
		}
		v, err := b.decodeFixedAt(pl.dt, cur, w)
		if err != nil {
			return nil, 0, err
		}
		if pl.keep {
			vals = append(vals, v)
		}
		cur += w
	}
	return vals, cur - pos, nil
}

package bitgo

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/bitgo/dtype"
	"github.com/hupe1980/bitgo/token"
)

// PP pretty-prints the sequence to w in groups of bits rendered in
// one or two formats, e.g. "bin, hex" or "u12" or "hex:4, int:16".
// An explicit length fixes the group size, counted in the format's
// own units (hex digits, bytes, bits); with two formats the resulting
// group sizes must agree. An empty format means "bin, hex". width is
// the target line width in characters; zero or less means 120.
func (b *Bits) PP(w io.Writer, format string, width int) error {
	return b.pp(w, "Bits", format, width)
}

// PP pretty-prints the array's contents like Bits.PP.
func (a *BitArray) PP(w io.Writer, format string, width int) error {
	return a.view().pp(w, "BitArray", format, width)
}

func (b *Bits) pp(w io.Writer, label, format string, width int) error {
	format = strings.TrimSpace(format)
	if format == "" {
		format = "bin, hex"
	}
	if width <= 0 {
		width = 120
	}

	dts, err := ppDtypes(format)
	if err != nil {
		return err
	}
	g, err := ppGroupBits(dts)
	if err != nil {
		return err
	}

	n := b.Len()
	cols := make([][]string, len(dts))
	widths := make([]int, len(dts))
	for i, d := range dts {
		for pos := 0; pos+g <= n; pos += g {
			v, err := b.decodeFixedAt(d, pos, g)
			if err != nil {
				return err
			}
			s := v.String()
			widths[i] = max(widths[i], len(s))
			cols[i] = append(cols[i], s)
		}
	}
	whole := n / g * g
	tail := ""
	if whole < n {
		v, err := b.decodeFixedAt(dtype.Default.MustResolve("bin", 0, 0), whole, n-whole)
		if err != nil {
			return err
		}
		tail = v.String()
	}

	offWidth := len(strconv.Itoa(n))
	perLine := 1
	for k := 2; k <= max(len(cols[0]), 1); k++ {
		cost := offWidth + 2 + k*widths[0] + k - 1
		if len(dts) == 2 {
			cost += 3 + k*widths[1] + k - 1
		}
		if cost > width {
			break
		}
		perLine = k
	}

	green, cyan, reset := "", "", ""
	if colorEnabled(w) {
		green, cyan, reset = "\x1b[32m", "\x1b[36m", "\x1b[0m"
	}

	var out strings.Builder
	fmt.Fprintf(&out, "<%s, fmt='%s', length=%d bits> [\n", label, format, n)
	for li := 0; li < len(cols[0]); li += perLine {
		hi := min(li+perLine, len(cols[0]))
		fmt.Fprintf(&out, "%s%*d:%s ", green, offWidth, li*g, reset)
		for gi := li; gi < hi; gi++ {
			if gi > li {
				out.WriteByte(' ')
			}
			fmt.Fprintf(&out, "%*s", widths[0], cols[0][gi])
		}
		if len(dts) == 2 {
			// pad a short final line so the second column stays put
			for gi := hi; gi < li+perLine; gi++ {
				out.WriteString(strings.Repeat(" ", widths[0]+1))
			}
			out.WriteString(" : ")
			out.WriteString(cyan)
			for gi := li; gi < hi; gi++ {
				if gi > li {
					out.WriteByte(' ')
				}
				fmt.Fprintf(&out, "%*s", widths[1], cols[1][gi])
			}
			out.WriteString(reset)
		}
		out.WriteByte('\n')
	}
	if tail != "" {
		fmt.Fprintf(&out, "%s%*d:%s %s\n", green, offWidth, whole, reset, tail)
	}
	out.WriteString("]\n")

	_, err = io.WriteString(w, out.String())
	return err
}

// ppDtypes parses a pretty-print format into one or two dtypes.
func ppDtypes(format string) ([]*dtype.Dtype, error) {
	toks, err := token.Parse(format)
	if err != nil {
		return nil, interpretError(err)
	}
	if len(toks) > 2 {
		return nil, fmt.Errorf("%w: pretty-print takes one or two formats, got %d", ErrParse, len(toks))
	}
	dts := make([]*dtype.Dtype, len(toks))
	for i, t := range toks {
		if t.Value != "" {
			return nil, fmt.Errorf("%w: pretty-print format %q cannot take a value", ErrParse, t.String())
		}
		d, err := resolveTokenDtype(t, nil)
		if err != nil {
			return nil, interpretError(err)
		}
		if d.VarLen() || d.Kind() == dtype.KindNone || d.Kind() == dtype.KindBits {
			return nil, fmt.Errorf("%w: %s cannot be used in a pretty-print format", ErrParse, d.Name())
		}
		dts[i] = d
	}
	return dts, nil
}

// ppGroupBits picks the bits per printed group: an explicit or
// natural format width wins and must be shared, digit formats without
// one fall back to byte-oriented defaults.
func ppGroupBits(dts []*dtype.Dtype) (int, error) {
	g := 0
	for _, d := range dts {
		if d.BitLen() == 0 {
			continue
		}
		if g != 0 && g != d.BitLen() {
			return 0, fmt.Errorf("%w: differing group lengths %d and %d bits", ErrParse, g, d.BitLen())
		}
		g = d.BitLen()
	}
	if g == 0 {
		for _, d := range dts {
			def := 0
			switch d.Kind() {
			case dtype.KindString:
				def = 8
				if d.BitsPerItem() == 3 {
					def = 24
				}
			case dtype.KindBytes:
				def = 8
			}
			if def == 0 {
				return 0, fmt.Errorf("%w: %s needs a length in a pretty-print format", ErrParse, d.Name())
			}
			g = max(g, def)
		}
	}
	for _, d := range dts {
		if d.BitLen() == 0 && g%d.BitsPerItem() != 0 {
			return 0, fmt.Errorf("%w: %s cannot show %d-bit groups", ErrParse, d.Name(), g)
		}
	}
	return g, nil
}

// colorEnabled reports whether output to w should carry ANSI colors.
func colorEnabled(w io.Writer) bool {
	switch DefaultConfig.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return w == os.Stdout || w == os.Stderr
}

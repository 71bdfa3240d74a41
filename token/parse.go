package token

import (
	"strconv"
	"strings"

	"github.com/hupe1980/bitgo/dtype"
)

// Parse tokenizes a format spec against the default dtype registry.
func Parse(spec string) ([]Token, error) {
	return ParseWith(dtype.Default, spec)
}

// ParseWith tokenizes a format spec: comma-separated tokens, "n*token"
// and "n*(spec)" repetition, 0b/0o/0x literals, struct codes, and
// trailing-digit shorthand like "u6". At most one stretchy token is
// allowed per spec.
func ParseWith(reg *dtype.Registry, spec string) ([]Token, error) {
	toks, err := parseSpec(reg, spec)
	if err != nil {
		return nil, err
	}
	stretchy := -1
	for i, t := range toks {
		if !t.Stretchy() {
			continue
		}
		if stretchy >= 0 {
			return nil, &ErrToken{Token: t.String(), Reason: "only one token with unknown length allowed"}
		}
		stretchy = i
	}
	return toks, nil
}

func parseSpec(reg *dtype.Registry, spec string) ([]Token, error) {
	items, err := splitTop(spec)
	if err != nil {
		return nil, err
	}
	var toks []Token
	for _, item := range items {
		parsed, err := parseItem(reg, item)
		if err != nil {
			return nil, err
		}
		toks = append(toks, parsed...)
	}
	return toks, nil
}

// splitTop splits on commas outside parentheses.
func splitTop(spec string) ([]string, error) {
	var items []string
	depth, start := 0, 0
	for i := 0; i < len(spec); i++ {
		switch spec[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, &ErrToken{Token: spec, Reason: "unbalanced parentheses"}
			}
		case ',':
			if depth == 0 {
				items = append(items, spec[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, &ErrToken{Token: spec, Reason: "unbalanced parentheses"}
	}
	return append(items, spec[start:]), nil
}

func parseItem(reg *dtype.Registry, item string) ([]Token, error) {
	s := strings.TrimSpace(item)
	if s == "" {
		return nil, &ErrToken{Token: item, Reason: "empty token"}
	}

	factor := 1
	if i := strings.IndexByte(s, '*'); i > 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(s[:i])); err == nil {
			if n < 0 {
				return nil, &ErrToken{Token: s, Reason: "negative repeat factor"}
			}
			factor = n
			s = strings.TrimSpace(s[i+1:])
		}
	}

	if strings.HasPrefix(s, "(") {
		if !strings.HasSuffix(s, ")") {
			return nil, &ErrToken{Token: s, Reason: "unbalanced parentheses"}
		}
		inner, err := parseSpec(reg, s[1:len(s)-1])
		if err != nil {
			return nil, err
		}
		out := make([]Token, 0, factor*len(inner))
		for i := 0; i < factor; i++ {
			out = append(out, inner...)
		}
		return out, nil
	}

	switch s[0] {
	case '<', '>', '@', '=':
		toks, err := expandStructCode(reg, s)
		if err != nil {
			return nil, err
		}
		return repeat(toks, factor), nil
	}

	tok, err := parseOne(reg, s)
	if err != nil {
		return nil, err
	}
	return repeat([]Token{tok}, factor), nil
}

func repeat(toks []Token, factor int) []Token {
	if factor == 1 {
		return toks
	}
	out := make([]Token, 0, factor*len(toks))
	for i := 0; i < factor; i++ {
		out = append(out, toks...)
	}
	return out
}

// expandStructCode turns "<3h2f" style codes into one token per
// (possibly repeated) character.
func expandStructCode(reg *dtype.Registry, s string) ([]Token, error) {
	suffix := endianSuffix(s[0])
	body := s[1:]
	if body == "" {
		return nil, &ErrToken{Token: s, Reason: "empty struct code"}
	}
	var toks []Token
	for i := 0; i < len(body); {
		count := 1
		j := i
		for j < len(body) && body[j] >= '0' && body[j] <= '9' {
			j++
		}
		if j > i {
			n, err := strconv.Atoi(body[i:j])
			if err != nil || n < 1 {
				return nil, &ErrToken{Token: s, Reason: "bad struct code count"}
			}
			count = n
		}
		if j == len(body) {
			return nil, &ErrToken{Token: s, Reason: "struct code count without format"}
		}
		sc, ok := structCodes[body[j]]
		if !ok {
			return nil, &ErrToken{Token: s, Reason: "unknown struct code " + strconv.QuoteRune(rune(body[j]))}
		}
		name := sc.name
		if sc.endian {
			name += suffix
		}
		def, ok := reg.Get(name)
		if !ok {
			return nil, &ErrToken{Token: s, Reason: "unknown format " + strconv.Quote(name)}
		}
		tok := Token{Name: name, Length: strconv.Itoa(sc.length), Def: def}
		for k := 0; k < count; k++ {
			toks = append(toks, tok)
		}
		i = j + 1
	}
	return toks, nil
}

func parseOne(reg *dtype.Registry, s string) (Token, error) {
	if isLiteral(s) {
		var name string
		switch s[1] {
		case 'b', 'B':
			name = "bin"
		case 'o', 'O':
			name = "oct"
		default:
			name = "hex"
		}
		def, _ := reg.Get(name)
		return Token{Name: name, Value: s, Def: def}, nil
	}

	// A bare integer is a plain bit-slice token.
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return Token{}, &ErrToken{Token: s, Reason: "negative length"}
		}
		def, _ := reg.Get("bits")
		return Token{Name: "bits", Length: s, Def: def}, nil
	}

	rest := s
	var value string
	if i := strings.IndexByte(rest, '='); i >= 0 {
		value = strings.TrimSpace(rest[i+1:])
		rest = strings.TrimSpace(rest[:i])
		if value == "" {
			return Token{}, &ErrToken{Token: s, Reason: "empty value"}
		}
	}
	var length string
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		length = strings.TrimSpace(rest[i+1:])
		rest = strings.TrimSpace(rest[:i])
		if length == "" {
			return Token{}, &ErrToken{Token: s, Reason: "empty length"}
		}
	}
	name := rest
	if name == "" {
		return Token{}, &ErrToken{Token: s, Reason: "missing format name"}
	}

	def, ok := reg.Get(name)
	if !ok {
		// Trailing digits can spell the length: "u6" is "u:6".
		base := strings.TrimRight(name, "0123456789")
		if base != "" && base != name {
			if d, found := reg.Get(base); found {
				if length != "" {
					return Token{}, &ErrToken{Token: s, Reason: "length given twice"}
				}
				length = name[len(base):]
				name, def, ok = base, d, true
			}
		}
		if !ok {
			return Token{}, &ErrToken{Token: s, Reason: "unknown format " + strconv.Quote(name)}
		}
	}

	if length != "" {
		if _, err := strconv.Atoi(length); err != nil && !isIdent(length) {
			return Token{}, &ErrToken{Token: s, Reason: "bad length " + strconv.Quote(length)}
		}
	}
	return Token{Name: name, Length: length, Value: value, Def: def}, nil
}

func isIdent(s string) bool {
	for i, c := range s {
		switch {
		case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return s != ""
}

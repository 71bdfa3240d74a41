// Package token parses the compact format mini-language used to build
// and unpack bit sequences, e.g. "uint:6=10, 0b110, 2*(hex:2, pad:4)".
// Parsing validates names against a dtype registry and expands factors
// and struct codes, but leaves lengths and values as raw strings so
// keyword placeholders can be bound later.
package token

import (
	"fmt"
	"strconv"

	"github.com/hupe1980/bitgo/dtype"
)

// Token is one parsed element of a format spec. Length and Value are
// kept raw: either numerals/literals or identifier placeholders that
// pack-time keyword binding resolves.
type Token struct {
	Name   string
	Length string
	Value  string
	Def    *dtype.Definition
}

// String renders the token the way it was spelled.
func (t Token) String() string {
	if t.Length == "" && isLiteral(t.Value) {
		return t.Value
	}
	s := t.Name
	if t.Length != "" {
		s += ":" + t.Length
	}
	if t.Value != "" {
		s += "=" + t.Value
	}
	return s
}

// LengthInt returns the numeric length, or false when the length is
// absent or a placeholder.
func (t Token) LengthInt() (int, bool) {
	if t.Length == "" {
		return 0, false
	}
	n, err := strconv.Atoi(t.Length)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Stretchy reports whether the token's length must be inferred from
// the bits left over at use time: no length, no value to derive one
// from, and a fixed-width format without a default length.
func (t Token) Stretchy() bool {
	if t.Def == nil || t.Def.VarLen || t.Def.Kind == dtype.KindNone {
		return false
	}
	return t.Length == "" && t.Value == "" && t.Def.Lengths.Single == 0
}

func isLiteral(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'b', 'B', 'o', 'O', 'x', 'X':
		return true
	}
	return false
}

// ErrToken reports a spec element that could not be parsed.
type ErrToken struct {
	Token  string
	Reason string
}

func (e *ErrToken) Error() string {
	return fmt.Sprintf("bad token %q: %s", e.Token, e.Reason)
}

// structCode describes one struct-style format character.
type structCode struct {
	name   string
	endian bool // name takes the endian suffix
	length int
}

var structCodes = map[byte]structCode{
	'b': {name: "int", length: 8},
	'B': {name: "uint", length: 8},
	'h': {name: "int", endian: true, length: 16},
	'H': {name: "uint", endian: true, length: 16},
	'l': {name: "int", endian: true, length: 32},
	'L': {name: "uint", endian: true, length: 32},
	'q': {name: "int", endian: true, length: 64},
	'Q': {name: "uint", endian: true, length: 64},
	'e': {name: "float", endian: true, length: 16},
	'f': {name: "float", endian: true, length: 32},
	'd': {name: "float", endian: true, length: 64},
}

func endianSuffix(prefix byte) string {
	switch prefix {
	case '<':
		return "le"
	case '>':
		return "be"
	}
	return "ne"
}

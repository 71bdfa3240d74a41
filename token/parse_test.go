package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Spec(t *testing.T) {
	toks, err := Parse("uint:6=10, 0b110, 0xff, int:6=-1, se=-6, ue=6, oct=54")
	require.NoError(t, err)
	require.Len(t, toks, 7)

	want := []Token{
		{Name: "uint", Length: "6", Value: "10"},
		{Name: "bin", Value: "0b110"},
		{Name: "hex", Value: "0xff"},
		{Name: "int", Length: "6", Value: "-1"},
		{Name: "se", Value: "-6"},
		{Name: "ue", Value: "6"},
		{Name: "oct", Value: "54"},
	}
	for i, w := range want {
		assert.Equal(t, w.Name, toks[i].Name, "token %d", i)
		assert.Equal(t, w.Length, toks[i].Length, "token %d", i)
		assert.Equal(t, w.Value, toks[i].Value, "token %d", i)
		assert.NotNil(t, toks[i].Def, "token %d", i)
	}
}

func TestParse_CompactNames(t *testing.T) {
	toks, err := Parse("u6, i11, bfloat16, e4m3mxfp")
	require.NoError(t, err)
	require.Len(t, toks, 4)

	assert.Equal(t, "uint", toks[0].Name)
	assert.Equal(t, "6", toks[0].Length)
	assert.Equal(t, "int", toks[1].Name)
	assert.Equal(t, "11", toks[1].Length)
	assert.Equal(t, "bfloat", toks[2].Name)
	assert.Equal(t, "16", toks[2].Length)

	// A name that happens to contain digits stays whole.
	assert.Equal(t, "e4m3mxfp", toks[3].Name)
	assert.Equal(t, "", toks[3].Length)
}

func TestParse_BareInteger(t *testing.T) {
	toks, err := Parse("16")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "bits", toks[0].Name)
	assert.Equal(t, "16", toks[0].Length)
}

func TestParse_Factors(t *testing.T) {
	toks, err := Parse("3*uint:8")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	for _, tok := range toks {
		assert.Equal(t, "uint", tok.Name)
		assert.Equal(t, "8", tok.Length)
	}

	toks, err = Parse("2*(uint:4, bin:3), hex:1")
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, "uint", toks[0].Name)
	assert.Equal(t, "bin", toks[1].Name)
	assert.Equal(t, "uint", toks[2].Name)
	assert.Equal(t, "bin", toks[3].Name)
	assert.Equal(t, "hex", toks[4].Name)

	toks, err = Parse("0*uint:8")
	require.NoError(t, err)
	assert.Empty(t, toks)
}

func TestParse_StructCodes(t *testing.T) {
	toks, err := Parse("<2h4b")
	require.NoError(t, err)
	require.Len(t, toks, 6)
	for _, tok := range toks[:2] {
		assert.Equal(t, "intle", tok.Name)
		assert.Equal(t, "16", tok.Length)
	}
	for _, tok := range toks[2:] {
		assert.Equal(t, "int", tok.Name)
		assert.Equal(t, "8", tok.Length)
	}

	toks, err = Parse(">QL")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "uintbe", toks[0].Name)
	assert.Equal(t, "64", toks[0].Length)
	assert.Equal(t, "uintbe", toks[1].Name)
	assert.Equal(t, "32", toks[1].Length)

	toks, err = Parse("@efd")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "floatne", toks[0].Name)
	assert.Equal(t, "16", toks[0].Length)
	assert.Equal(t, "floatne", toks[1].Name)
	assert.Equal(t, "32", toks[1].Length)
	assert.Equal(t, "floatne", toks[2].Name)
	assert.Equal(t, "64", toks[2].Length)

	_, err = Parse("<2x")
	assert.Error(t, err)
	_, err = Parse("<3")
	assert.Error(t, err)
}

func TestParse_Placeholders(t *testing.T) {
	toks, err := Parse("uint:n=v, pad:3")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "n", toks[0].Length)
	assert.Equal(t, "v", toks[0].Value)

	_, ok := toks[0].LengthInt()
	assert.False(t, ok)
	n, ok := toks[1].LengthInt()
	require.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestParse_Stretchy(t *testing.T) {
	toks, err := Parse("uint:6, bytes")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.False(t, toks[0].Stretchy())
	assert.True(t, toks[1].Stretchy())

	// Variable-length and defaulted formats are not stretchy.
	toks, err = Parse("ue, bool, bfloat")
	require.NoError(t, err)
	for _, tok := range toks {
		assert.False(t, tok.Stretchy(), tok.Name)
	}

	_, err = Parse("bytes, uint:8, hex")
	require.Error(t, err)
	var terr *ErrToken
	require.ErrorAs(t, err, &terr)

	// A value pins the length, so two lengthless tokens can coexist.
	_, err = Parse("hex=ff, bin")
	assert.NoError(t, err)
}

func TestParse_Errors(t *testing.T) {
	for _, spec := range []string{
		"nosuch:8",
		"uint:6=",
		"uint:",
		"",
		"uint:6,,uint:6",
		"2*(uint:4",
		"uint:6)",
		"uint:6!",
		"u6:8",
	} {
		_, err := Parse(spec)
		require.Error(t, err, "spec %q", spec)
		var terr *ErrToken
		assert.ErrorAs(t, err, &terr, "spec %q", spec)
	}
}

func TestToken_String(t *testing.T) {
	toks, err := Parse("uint:6=10, 0xff, se=-6, bytes")
	require.NoError(t, err)
	assert.Equal(t, "uint:6=10", toks[0].String())
	assert.Equal(t, "0xff", toks[1].String())
	assert.Equal(t, "se=-6", toks[2].String())
	assert.Equal(t, "bytes", toks[3].String())
}

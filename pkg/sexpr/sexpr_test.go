package sexpr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNestedForms(t *testing.T) {
	//** Act
	forms, err := Parse("(assert (> x 3)) ; trailing comment\n(check-sat)")

	//** Assert
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, List, forms[0].Type)
	assert.True(t, forms[0].Children[0].IsSymbol("assert"))
	gt := forms[0].Children[1]
	assert.Equal(t, 8, gt.Pos)
	assert.Equal(t, "(> x 3)", gt.String())
	assert.Equal(t, Numeral, gt.Children[2].Type)
	assert.Equal(t, "(check-sat)", forms[1].String())
}

func TestParseAtomTypes(t *testing.T) {
	cases := map[string]NodeType{
		"42":      Numeral,
		"4.25":    Decimal,
		"#x1F":    Hexadecimal,
		"#b101":   Binary,
		`"a ""b"`: String,
		":named":  Keyword,
		"x!1":     Symbol,
		"|a b|":   Symbol,
		"-":       Symbol,
	}

	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			forms, err := Parse(src)

			require.NoError(t, err)
			require.Len(t, forms, 1)
			assert.Equal(t, want, forms[0].Type)
		})
	}
}

func TestQuotedSymbolsAndStrings(t *testing.T) {
	forms, err := Parse(`|my var| "say ""hi"""`)

	require.NoError(t, err)
	assert.Equal(t, "my var", forms[0].Text)
	assert.Equal(t, "|my var|", forms[0].String())
	assert.Equal(t, `say "hi"`, forms[1].Text)
	assert.Equal(t, `"say ""hi"""`, forms[1].String())
}

func TestParseErrors(t *testing.T) {
	cases := map[string]int{
		"(> x 3":    0,
		"(> x 3))":  7,
		"12ab":      0,
		"#q1":       0,
		`"open`:     0,
		"(a |b c)":  3,
		"(a [b])":   3,
		"1.":        0,
		"(f |a\\|)": 5,
	}

	for src, pos := range cases {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "expected a syntax error, got %v", err)
			assert.Equal(t, pos, syntaxErr.Pos)
		})
	}
}

func TestQuote(t *testing.T) {
	quoted, err := Quote("x")
	require.NoError(t, err)
	assert.Equal(t, "x", quoted)

	quoted, err = Quote("1st")
	require.NoError(t, err)
	assert.Equal(t, "|1st|", quoted)

	_, err = Quote("a|b")
	assert.Error(t, err)

	assert.False(t, IsSimpleSymbol(""))
	assert.True(t, IsSimpleSymbol("<=>"))
}

package engine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermWidths(t *testing.T) {
	small := NumeralTerm(big.NewInt(-2147483648))
	value32, ok := small.Int32()
	assert.True(t, ok)
	assert.Equal(t, int32(-2147483648), value32)

	wide := NumeralTerm(big.NewInt(2147483648))
	_, ok = wide.Int32()
	assert.False(t, ok)
	value64, ok := wide.Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(2147483648), value64)

	huge, _ := new(big.Int).SetString("-9223372036854775809", 10)
	_, ok = NumeralTerm(huge).Int64()
	assert.False(t, ok)
	assert.Equal(t, "(- 9223372036854775809)", NumeralTerm(huge).String())
}

func TestTermCopiesNumeral(t *testing.T) {
	value := big.NewInt(5)
	term := NumeralTerm(value)
	value.SetInt64(6)

	copied, ok := term.BigInt()
	assert.True(t, ok)
	assert.Equal(t, "5", copied.String())
}

func TestSymbolTerm(t *testing.T) {
	term := SymbolTerm("my var")

	assert.False(t, term.IsNumeral())
	_, ok := term.Int64()
	assert.False(t, ok)
	assert.Equal(t, "|my var|", term.String())
	assert.Equal(t, "x", SymbolTerm("x").String())
}

func TestTextTerm(t *testing.T) {
	term := TextTerm("(/ 1 2)")

	assert.False(t, term.IsNumeral())
	assert.Equal(t, "(/ 1 2)", term.String())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "sat", StatusSat.String())
	assert.Equal(t, "unsat", StatusUnsat.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}

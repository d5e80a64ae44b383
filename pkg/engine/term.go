package engine

import (
	"math"
	"math/big"

	"github.com/limaJavier/intsolve/pkg/expr"
	"github.com/limaJavier/intsolve/pkg/sexpr"
)

// Term is a value returned by a model: an integer numeral or an uninterpreted symbol.
type Term struct {
	numeral  *big.Int
	symbol   string
	verbatim bool
}

func NumeralTerm(value *big.Int) Term {
	return Term{numeral: new(big.Int).Set(value)}
}

func SymbolTerm(name string) Term {
	return Term{symbol: name}
}

// TextTerm keeps a compound solver term, such as (/ 1 2), as written.
func TextTerm(text string) Term {
	return Term{symbol: text, verbatim: true}
}

func (t Term) IsNumeral() bool {
	return t.numeral != nil
}

// BigInt returns a copy of the numeral.
func (t Term) BigInt() (*big.Int, bool) {
	if t.numeral == nil {
		return nil, false
	}
	return new(big.Int).Set(t.numeral), true
}

// Int64 fails on overflow instead of truncating.
func (t Term) Int64() (int64, bool) {
	if t.numeral == nil || !t.numeral.IsInt64() {
		return 0, false
	}
	return t.numeral.Int64(), true
}

func (t Term) Int32() (int32, bool) {
	value, ok := t.Int64()
	if !ok || value < math.MinInt32 || value > math.MaxInt32 {
		return 0, false
	}
	return int32(value), true
}

// String renders the canonical SMT-LIB text, (- n) for negative numerals.
func (t Term) String() string {
	if t.numeral != nil {
		return expr.Numeral(t.numeral)
	}
	if t.verbatim {
		return t.symbol
	}
	if quoted, err := sexpr.Quote(t.symbol); err == nil {
		return quoted
	}
	return t.symbol
}

package expr

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	x = Var{Name: "x", Index: 0}
	y = Var{Name: "y", Index: 1}
)

func env(xValue, yValue int64) Env {
	return MapEnv(map[int]*big.Int{0: big.NewInt(xValue), 1: big.NewInt(yValue)})
}

func TestEuclideanDivision(t *testing.T) {
	cases := []struct {
		a, b          int64
		quotient, mod int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{7, -2, -3, 1},
		{-7, -2, 4, 1},
		{6, 3, 2, 0},
	}

	for _, c := range cases {
		quotient, err := EvalInt(NewApp(OpDiv, x, y), env(c.a, c.b))
		require.NoError(t, err)
		assert.Equal(t, c.quotient, quotient.Int64(), "%d div %d", c.a, c.b)

		mod, err := EvalInt(NewApp(OpMod, x, y), env(c.a, c.b))
		require.NoError(t, err)
		assert.Equal(t, c.mod, mod.Int64(), "%d mod %d", c.a, c.b)
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := EvalInt(NewApp(OpDiv, x, y), env(1, 0))
	assert.True(t, errors.Is(err, ErrDivisionByZero))
}

func TestEvalInt(t *testing.T) {
	cases := map[string]struct {
		e    Expr
		want int64
	}{
		"add":     {NewApp(OpAdd, x, y, Int(1)), 6},
		"sub":     {NewApp(OpSub, x, y, Int(1)), -2},
		"neg":     {NewApp(OpNeg, x), -2},
		"mul":     {NewApp(OpMul, x, y, Int(-1)), -6},
		"abs":     {NewApp(OpAbs, NewApp(OpNeg, y)), 3},
		"ite":     {NewApp(OpIte, NewApp(OpLt, x, y), x, y), 2},
		"literal": {Int(-9), -9},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			value, err := EvalInt(c.e, env(2, 3))

			require.NoError(t, err)
			assert.Equal(t, c.want, value.Int64())
		})
	}
}

func TestEvalBool(t *testing.T) {
	cases := map[string]struct {
		e    Expr
		want bool
	}{
		"chained le":        {NewApp(OpLe, Int(0), x, y, Int(3)), true},
		"chained lt fails":  {NewApp(OpLt, x, y, Int(3)), false},
		"ge":                {NewApp(OpGe, y, x), true},
		"gt":                {NewApp(OpGt, x, y), false},
		"eq":                {NewApp(OpEq, NewApp(OpAdd, x, Int(1)), y), true},
		"distinct":          {NewApp(OpDistinct, x, y, Int(2)), false},
		"bool eq":           {NewApp(OpEq, BoolLit(true), NewApp(OpLt, x, y)), true},
		"and":               {NewApp(OpAnd, BoolLit(true), BoolLit(false)), false},
		"empty and":         {NewApp(OpAnd), true},
		"or":                {NewApp(OpOr, BoolLit(false), BoolLit(true)), true},
		"empty or":          {NewApp(OpOr), false},
		"not":               {NewApp(OpNot, BoolLit(false)), true},
		"implies":           {NewApp(OpImplies, BoolLit(true), BoolLit(false)), false},
		"implies right":     {NewApp(OpImplies, BoolLit(false), BoolLit(true), BoolLit(false)), true},
		"xor":               {NewApp(OpXor, BoolLit(true), BoolLit(true), BoolLit(true)), true},
		"bool ite":          {NewApp(OpIte, BoolLit(false), BoolLit(false), BoolLit(true)), true},
		"literal":           {BoolLit(true), true},
		"nested comparison": {NewApp(OpNot, NewApp(OpEq, x, y)), true},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			value, err := EvalBool(c.e, env(2, 3))

			require.NoError(t, err)
			assert.Equal(t, c.want, value)
		})
	}
}

func TestEvalUnbound(t *testing.T) {
	_, err := EvalBool(NewApp(OpGt, x, Int(0)), MapEnv(map[int]*big.Int{}))
	assert.True(t, errors.Is(err, ErrUnbound))
}

func TestStringAndVars(t *testing.T) {
	odd := Var{Name: "my var", Index: 2}
	e := NewApp(OpAnd, NewApp(OpGt, x, Int(-3)), NewApp(OpLe, odd, x, y))

	assert.Equal(t, "(and (> x (- 3)) (<= |my var| x y))", e.String())
	assert.Equal(t, []Var{x, odd, y}, Vars(e))
	assert.Equal(t, SortBool, e.Sort())
	assert.Equal(t, SortInt, NewApp(OpIte, BoolLit(true), x, y).Sort())
}

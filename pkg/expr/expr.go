// Package expr holds the typed constraint tree produced by the clause builder and consumed
// by the engines.
package expr

import (
	"math/big"
	"strings"

	"github.com/limaJavier/intsolve/pkg/sexpr"
)

type Sort int

const (
	SortBool Sort = iota
	SortInt
)

func (s Sort) String() string {
	if s == SortInt {
		return "Int"
	}
	return "Bool"
}

type Op int

const (
	OpAdd Op = iota
	OpSub
	OpNeg
	OpMul
	OpDiv
	OpMod
	OpAbs
	OpLe
	OpLt
	OpGe
	OpGt
	OpEq
	OpDistinct
	OpAnd
	OpOr
	OpNot
	OpImplies
	OpXor
	OpIte
)

var opSymbols = map[Op]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpNeg:      "-",
	OpMul:      "*",
	OpDiv:      "div",
	OpMod:      "mod",
	OpAbs:      "abs",
	OpLe:       "<=",
	OpLt:       "<",
	OpGe:       ">=",
	OpGt:       ">",
	OpEq:       "=",
	OpDistinct: "distinct",
	OpAnd:      "and",
	OpOr:       "or",
	OpNot:      "not",
	OpImplies:  "=>",
	OpXor:      "xor",
	OpIte:      "ite",
}

func (op Op) String() string {
	return opSymbols[op]
}

// Expr is a well-sorted constraint term.
type Expr interface {
	Sort() Sort
	String() string
}

// Var is a declared integer constant; Index is its position in the request.
type Var struct {
	Name  string
	Index int
}

func (v Var) Sort() Sort { return SortInt }

func (v Var) String() string {
	if quoted, err := sexpr.Quote(v.Name); err == nil {
		return quoted
	}
	return v.Name
}

type IntLit struct {
	Value *big.Int
}

func NewIntLit(value *big.Int) IntLit {
	return IntLit{Value: new(big.Int).Set(value)}
}

func Int(value int64) IntLit {
	return IntLit{Value: big.NewInt(value)}
}

func (l IntLit) Sort() Sort { return SortInt }

// String renders negative numerals as (- n), as SMT-LIB has no negative literals.
func (l IntLit) String() string {
	return Numeral(l.Value)
}

type BoolLit bool

func (l BoolLit) Sort() Sort { return SortBool }

func (l BoolLit) String() string {
	if l {
		return "true"
	}
	return "false"
}

// App applies an operator. Arguments are assumed to be sort-checked by the builder.
type App struct {
	Op   Op
	Args []Expr
}

func NewApp(op Op, args ...Expr) *App {
	return &App{Op: op, Args: args}
}

func (a *App) Sort() Sort {
	switch a.Op {
	case OpAdd, OpSub, OpNeg, OpMul, OpDiv, OpMod, OpAbs:
		return SortInt
	case OpIte:
		return a.Args[1].Sort()
	default:
		return SortBool
	}
}

func (a *App) String() string {
	var builder strings.Builder
	builder.WriteByte('(')
	builder.WriteString(a.Op.String())
	for _, arg := range a.Args {
		builder.WriteByte(' ')
		builder.WriteString(arg.String())
	}
	builder.WriteByte(')')
	return builder.String()
}

// Numeral renders an integer in canonical SMT-LIB form.
func Numeral(value *big.Int) string {
	if value.Sign() < 0 {
		return "(- " + new(big.Int).Neg(value).String() + ")"
	}
	return value.String()
}

// Vars returns the distinct variables of e in order of first occurrence.
func Vars(e Expr) []Var {
	seen := make(map[int]bool)
	var vars []Var
	var walk func(Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case Var:
			if !seen[e.Index] {
				seen[e.Index] = true
				vars = append(vars, e)
			}
		case *App:
			for _, arg := range e.Args {
				walk(arg)
			}
		}
	}
	walk(e)
	return vars
}

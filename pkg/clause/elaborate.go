package clause

import (
	"math/big"

	"github.com/limaJavier/intsolve/pkg/expr"
	"github.com/limaJavier/intsolve/pkg/model"
	"github.com/limaJavier/intsolve/pkg/sexpr"
)

type arity struct {
	min, max int // max < 0 means unbounded
}

type signature struct {
	op    expr.Op
	arity arity
	args  argSorts
}

type argSorts int

const (
	intArgs  argSorts = iota // every argument Int
	boolArgs                 // every argument Bool
	sameArgs                 // all arguments share one sort
	iteArgs                  // Bool condition, branches share one sort
)

var signatures = map[string]signature{
	"+":        {expr.OpAdd, arity{1, -1}, intArgs},
	"*":        {expr.OpMul, arity{1, -1}, intArgs},
	"div":      {expr.OpDiv, arity{2, -1}, intArgs},
	"mod":      {expr.OpMod, arity{2, 2}, intArgs},
	"abs":      {expr.OpAbs, arity{1, 1}, intArgs},
	"<=":       {expr.OpLe, arity{2, -1}, intArgs},
	"<":        {expr.OpLt, arity{2, -1}, intArgs},
	">=":       {expr.OpGe, arity{2, -1}, intArgs},
	">":        {expr.OpGt, arity{2, -1}, intArgs},
	"=":        {expr.OpEq, arity{2, -1}, sameArgs},
	"distinct": {expr.OpDistinct, arity{2, -1}, sameArgs},
	"and":      {expr.OpAnd, arity{0, -1}, boolArgs},
	"or":       {expr.OpOr, arity{0, -1}, boolArgs},
	"not":      {expr.OpNot, arity{1, 1}, boolArgs},
	"=>":       {expr.OpImplies, arity{2, -1}, boolArgs},
	"xor":      {expr.OpXor, arity{2, -1}, boolArgs},
	"ite":      {expr.OpIte, arity{3, 3}, iteArgs},
}

// commands are rejected with a hint, as clauses hold expressions only
var commands = map[string]bool{
	"assert": true, "check-sat": true, "declare-fun": true, "declare-const": true,
	"define-fun": true, "set-option": true, "set-logic": true, "get-value": true,
	"get-model": true, "push": true, "pop": true, "reset": true, "exit": true,
}

type elaborator struct {
	registry *model.Registry
	scopes   []map[string]expr.Expr
}

func (el *elaborator) elaborate(node *sexpr.Node) (expr.Expr, error) {
	switch node.Type {
	case sexpr.Numeral:
		value, ok := new(big.Int).SetString(node.Text, 10)
		if !ok {
			return nil, syntaxErrorf(node, "malformed numeral %q", node.Text)
		}
		return expr.IntLit{Value: value}, nil
	case sexpr.Decimal:
		return nil, syntaxErrorf(node, "decimal literal %s: real arithmetic is not supported", node.Text)
	case sexpr.Hexadecimal, sexpr.Binary:
		return nil, syntaxErrorf(node, "bit-vector literal %s is not supported", node.Text)
	case sexpr.String:
		return nil, syntaxErrorf(node, "string literal %s is not supported", node.String())
	case sexpr.Keyword:
		return nil, syntaxErrorf(node, "unexpected keyword %s", node.Text)
	case sexpr.Symbol:
		return el.symbol(node)
	default:
		return el.list(node)
	}
}

func (el *elaborator) symbol(node *sexpr.Node) (expr.Expr, error) {
	for i := len(el.scopes) - 1; i >= 0; i-- {
		if bound, ok := el.scopes[i][node.Text]; ok {
			return bound, nil
		}
	}
	switch node.Text {
	case "true":
		return expr.BoolLit(true), nil
	case "false":
		return expr.BoolLit(false), nil
	}
	if v, ok := el.registry.Lookup(node.Text); ok {
		return v, nil
	}
	if _, ok := signatures[node.Text]; ok {
		return nil, syntaxErrorf(node, "operator %s used as a constant", node.Text)
	}
	return nil, unknownErrorf(node, "unknown constant %s", node.String())
}

func (el *elaborator) list(node *sexpr.Node) (expr.Expr, error) {
	if len(node.Children) == 0 {
		return nil, syntaxErrorf(node, "empty application ()")
	}
	head := node.Children[0]
	if head.Type != sexpr.Symbol {
		return nil, syntaxErrorf(head, "application head must be a symbol, got %s", head.Type)
	}
	if head.Text == "let" {
		return el.let(node)
	}
	if head.Text == "-" {
		return el.minus(node)
	}

	sig, ok := signatures[head.Text]
	if !ok {
		if commands[head.Text] {
			return nil, syntaxErrorf(head, "command %s is not allowed inside a clause", head.Text)
		}
		if _, declared := el.registry.Lookup(head.Text); declared {
			return nil, syntaxErrorf(head, "%s is an Int constant, not a function", head.String())
		}
		return nil, unknownErrorf(head, "unknown function %s", head.String())
	}

	args, err := el.args(node)
	if err != nil {
		return nil, err
	}
	if err := checkArity(node, sig.arity, len(args)); err != nil {
		return nil, err
	}
	if err := checkSorts(node, sig.args, args); err != nil {
		return nil, err
	}

	switch {
	case sig.op == expr.OpAnd && len(args) == 0:
		return expr.BoolLit(true), nil
	case sig.op == expr.OpOr && len(args) == 0:
		return expr.BoolLit(false), nil
	case (sig.op == expr.OpAnd || sig.op == expr.OpOr || sig.op == expr.OpAdd || sig.op == expr.OpMul) && len(args) == 1:
		return args[0], nil
	}
	return expr.NewApp(sig.op, args...), nil
}

// minus is negation with one argument and left-associative subtraction with more.
func (el *elaborator) minus(node *sexpr.Node) (expr.Expr, error) {
	args, err := el.args(node)
	if err != nil {
		return nil, err
	}
	if err := checkArity(node, arity{1, -1}, len(args)); err != nil {
		return nil, err
	}
	if err := checkSorts(node, intArgs, args); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		if lit, ok := args[0].(expr.IntLit); ok {
			return expr.IntLit{Value: new(big.Int).Neg(lit.Value)}, nil
		}
		return expr.NewApp(expr.OpNeg, args...), nil
	}
	return expr.NewApp(expr.OpSub, args...), nil
}

// let binds in parallel: every bound term is elaborated in the enclosing scope.
func (el *elaborator) let(node *sexpr.Node) (expr.Expr, error) {
	if len(node.Children) != 3 {
		return nil, syntaxErrorf(node, "let expects a binding list and a body")
	}
	bindings := node.Children[1]
	if bindings.Type != sexpr.List || len(bindings.Children) == 0 {
		return nil, syntaxErrorf(bindings, "let expects a non-empty binding list")
	}
	scope := make(map[string]expr.Expr, len(bindings.Children))
	for _, binding := range bindings.Children {
		if binding.Type != sexpr.List || len(binding.Children) != 2 || binding.Children[0].Type != sexpr.Symbol {
			return nil, syntaxErrorf(binding, "malformed let binding %s", binding.String())
		}
		name := binding.Children[0].Text
		if _, dup := scope[name]; dup {
			return nil, syntaxErrorf(binding, "symbol %s bound twice in one let", binding.Children[0].String())
		}
		term, err := el.elaborate(binding.Children[1])
		if err != nil {
			return nil, err
		}
		scope[name] = term
	}
	el.scopes = append(el.scopes, scope)
	body, err := el.elaborate(node.Children[2])
	el.scopes = el.scopes[:len(el.scopes)-1]
	return body, err
}

func (el *elaborator) args(node *sexpr.Node) ([]expr.Expr, error) {
	args := make([]expr.Expr, 0, len(node.Children)-1)
	for _, child := range node.Children[1:] {
		arg, err := el.elaborate(child)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func checkArity(node *sexpr.Node, want arity, got int) error {
	name := node.Children[0].Text
	if got < want.min {
		return syntaxErrorf(node, "%s expects at least %d arguments, got %d", name, want.min, got)
	}
	if want.max >= 0 && got > want.max {
		return syntaxErrorf(node, "%s expects at most %d arguments, got %d", name, want.max, got)
	}
	return nil
}

func checkSorts(node *sexpr.Node, want argSorts, args []expr.Expr) error {
	name := node.Children[0].Text
	for i, arg := range args {
		var expected expr.Sort
		switch want {
		case intArgs:
			expected = expr.SortInt
		case boolArgs:
			expected = expr.SortBool
		case sameArgs:
			expected = args[0].Sort()
		case iteArgs:
			switch i {
			case 0:
				expected = expr.SortBool
			case 1:
				expected = arg.Sort()
			default:
				expected = args[1].Sort()
			}
		}
		if arg.Sort() != expected {
			return syntaxErrorf(node.Children[i+1], "argument %d of %s must be %s, got %s", i+1, name, expected, arg.Sort())
		}
	}
	return nil
}

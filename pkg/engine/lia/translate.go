package lia

import (
	"fmt"
	"math/big"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/limaJavier/intsolve/pkg/expr"
)

// unsupportedError marks input outside linear integer arithmetic. It turns into an
// unknown verdict rather than a fault.
type unsupportedError struct {
	reason string
}

func (e *unsupportedError) Error() string {
	return e.reason
}

func unsupported(format string, args ...any) error {
	return &unsupportedError{reason: fmt.Sprintf(format, args...)}
}

type divKey struct {
	dividend string
	divisor  string
}

// translator lowers expressions to a boolean circuit whose inputs are normalized atoms.
// Auxiliary variables introduced for ite, div, mod and abs get defining constraints in defs.
type translator struct {
	varIDs   map[int]int // expr.Var.Index to theory id
	numVars  int
	circuit  *logic.C
	atoms    []*atom
	atomLits []z.Lit // circuit input of each atom, by atom id
	atomIDs  map[string]int
	defs     []z.Lit
	divCache map[divKey][2]int
}

func newTranslator(declared []expr.Var) *translator {
	t := &translator{
		varIDs:   make(map[int]int, len(declared)),
		circuit:  logic.NewC(),
		atomIDs:  make(map[string]int),
		divCache: make(map[divKey][2]int),
	}
	for _, v := range declared {
		t.varIDs[v.Index] = t.numVars
		t.numVars++
	}
	return t
}

func (t *translator) fresh() int {
	id := t.numVars
	t.numVars++
	return id
}

// translate returns the conjunction of the assertions and every auxiliary definition.
func (t *translator) translate(assertions []expr.Expr) (z.Lit, error) {
	roots := make([]z.Lit, 0, len(assertions))
	for _, assertion := range assertions {
		root, err := t.boolean(assertion)
		if err != nil {
			return z.LitNull, err
		}
		roots = append(roots, root)
	}
	return t.circuit.Ands(append(roots, t.defs...)...), nil
}

func (t *translator) boolean(e expr.Expr) (z.Lit, error) {
	switch e := e.(type) {
	case expr.BoolLit:
		return t.constant(bool(e)), nil
	case *expr.App:
		return t.booleanApp(e)
	default:
		return z.LitNull, fmt.Errorf("expected Bool term, got %s", e.String())
	}
}

func (t *translator) booleanApp(e *expr.App) (z.Lit, error) {
	c := t.circuit
	switch e.Op {
	case expr.OpLe, expr.OpLt, expr.OpGe, expr.OpGt:
		terms, err := t.integers(e.Args)
		if err != nil {
			return z.LitNull, err
		}
		links := make([]z.Lit, 0, len(terms)-1)
		for i := 0; i+1 < len(terms); i++ {
			a, b := terms[i], terms[i+1]
			switch e.Op {
			case expr.OpLe:
				links = append(links, t.leq(a.sub(b)))
			case expr.OpLt:
				links = append(links, t.leq(a.sub(b).plus(1)))
			case expr.OpGe:
				links = append(links, t.leq(b.sub(a)))
			case expr.OpGt:
				links = append(links, t.leq(b.sub(a).plus(1)))
			}
		}
		return c.Ands(links...), nil
	case expr.OpEq, expr.OpDistinct:
		return t.equality(e)
	case expr.OpIte:
		lits, err := t.booleans(e.Args)
		if err != nil {
			return z.LitNull, err
		}
		return c.Choice(lits[0], lits[1], lits[2]), nil
	}

	lits, err := t.booleans(e.Args)
	if err != nil {
		return z.LitNull, err
	}
	switch e.Op {
	case expr.OpAnd:
		return c.Ands(lits...), nil
	case expr.OpOr:
		return c.Ors(lits...), nil
	case expr.OpNot:
		return lits[0].Not(), nil
	case expr.OpImplies: // right associative
		result := lits[len(lits)-1]
		for i := len(lits) - 2; i >= 0; i-- {
			result = c.Implies(lits[i], result)
		}
		return result, nil
	case expr.OpXor:
		result := lits[0]
		for _, m := range lits[1:] {
			result = c.Xor(result, m)
		}
		return result, nil
	default:
		return z.LitNull, fmt.Errorf("operator %s is not Bool-sorted", e.Op)
	}
}

func (t *translator) constant(value bool) z.Lit {
	if value {
		return t.circuit.T
	}
	return t.circuit.F
}

// equality handles = as a chain and distinct as all pairs, for either sort.
func (t *translator) equality(e *expr.App) (z.Lit, error) {
	var equal func(i, j int) z.Lit
	if e.Args[0].Sort() == expr.SortInt {
		terms, err := t.integers(e.Args)
		if err != nil {
			return z.LitNull, err
		}
		equal = func(i, j int) z.Lit { return t.eq(terms[i], terms[j]) }
	} else {
		lits, err := t.booleans(e.Args)
		if err != nil {
			return z.LitNull, err
		}
		equal = func(i, j int) z.Lit { return t.circuit.Xor(lits[i], lits[j]).Not() }
	}

	var links []z.Lit
	if e.Op == expr.OpEq {
		for i := 0; i+1 < len(e.Args); i++ {
			links = append(links, equal(i, i+1))
		}
		return t.circuit.Ands(links...), nil
	}
	for i := range e.Args {
		for j := i + 1; j < len(e.Args); j++ {
			links = append(links, equal(i, j).Not())
		}
	}
	return t.circuit.Ands(links...), nil
}

func (t *translator) booleans(args []expr.Expr) ([]z.Lit, error) {
	lits := make([]z.Lit, len(args))
	for i, arg := range args {
		m, err := t.boolean(arg)
		if err != nil {
			return nil, err
		}
		lits[i] = m
	}
	return lits, nil
}

func (t *translator) integers(args []expr.Expr) ([]linear, error) {
	terms := make([]linear, len(args))
	for i, arg := range args {
		term, err := t.integer(arg)
		if err != nil {
			return nil, err
		}
		terms[i] = term
	}
	return terms, nil
}

func (t *translator) integer(e expr.Expr) (linear, error) {
	switch e := e.(type) {
	case expr.IntLit:
		return constLinear(e.Value), nil
	case expr.Var:
		id, ok := t.varIDs[e.Index]
		if !ok {
			return linear{}, fmt.Errorf("variable %s was not declared", e.String())
		}
		return varLinear(id), nil
	case *expr.App:
		return t.integerApp(e)
	default:
		return linear{}, fmt.Errorf("expected Int term, got %s", e.String())
	}
}

func (t *translator) integerApp(e *expr.App) (linear, error) {
	if e.Op == expr.OpIte {
		return t.ite(e)
	}

	terms, err := t.integers(e.Args)
	if err != nil {
		return linear{}, err
	}
	switch e.Op {
	case expr.OpAdd:
		sum := constLinear(new(big.Int))
		for _, term := range terms {
			sum = sum.add(term)
		}
		return sum, nil
	case expr.OpSub:
		difference := terms[0]
		for _, term := range terms[1:] {
			difference = difference.sub(term)
		}
		return difference, nil
	case expr.OpNeg:
		return terms[0].neg(), nil
	case expr.OpMul:
		return product(e, terms)
	case expr.OpDiv, expr.OpMod:
		result := terms[0]
		for i, divisor := range terms[1:] {
			if !divisor.isConstant() {
				return linear{}, unsupported("nonlinear term %s: division by a non-constant term %s", e.String(), e.Args[i+1].String())
			}
			if divisor.constant.Sign() == 0 {
				return linear{}, unsupported("division by zero in %s", e.String())
			}
			result = t.divMod(result, divisor.constant, e.Op == expr.OpMod)
		}
		return result, nil
	case expr.OpAbs:
		return t.abs(terms[0]), nil
	default:
		return linear{}, fmt.Errorf("operator %s is not Int-sorted", e.Op)
	}
}

// product allows at most one non-constant factor.
func product(e *expr.App, terms []linear) (linear, error) {
	factor := big.NewInt(1)
	var variable *linear
	for i := range terms {
		if terms[i].isConstant() {
			factor.Mul(factor, terms[i].constant)
			continue
		}
		if variable != nil {
			return linear{}, unsupported("nonlinear term %s", e.String())
		}
		variable = &terms[i]
	}
	if variable == nil {
		return constLinear(factor), nil
	}
	return variable.scale(factor), nil
}

// divMod returns the Euclidean quotient or remainder of a by the non-zero constant k,
// defining fresh q and r with a = k·q + r and 0 ≤ r ≤ |k|-1.
func (t *translator) divMod(a linear, k *big.Int, remainder bool) linear {
	if a.isConstant() {
		q, r := new(big.Int).DivMod(a.constant, k, new(big.Int))
		if remainder {
			return constLinear(r)
		}
		return constLinear(q)
	}

	cacheKey := divKey{dividend: a.key(), divisor: k.String()}
	ids, ok := t.divCache[cacheKey]
	if !ok {
		ids = [2]int{t.fresh(), t.fresh()}
		t.divCache[cacheKey] = ids
		q, r := varLinear(ids[0]), varLinear(ids[1])
		limit := new(big.Int).Abs(k)
		limit.Sub(limit, big.NewInt(1))
		t.defs = append(t.defs,
			t.eq(a, q.scale(k).add(r)),
			t.leq(r.neg()),
			t.leq(r.sub(constLinear(limit))),
		)
	}
	if remainder {
		return varLinear(ids[1])
	}
	return varLinear(ids[0])
}

func (t *translator) abs(a linear) linear {
	if a.isConstant() {
		return constLinear(new(big.Int).Abs(a.constant))
	}
	result := varLinear(t.fresh())
	nonNegative := t.leq(a.neg())
	t.defs = append(t.defs, t.circuit.Choice(nonNegative, t.eq(result, a), t.eq(result, a.neg())))
	return result
}

func (t *translator) ite(e *expr.App) (linear, error) {
	cond, err := t.boolean(e.Args[0])
	if err != nil {
		return linear{}, err
	}
	branches, err := t.integers(e.Args[1:])
	if err != nil {
		return linear{}, err
	}
	switch cond {
	case t.circuit.T:
		return branches[0], nil
	case t.circuit.F:
		return branches[1], nil
	}
	result := varLinear(t.fresh())
	t.defs = append(t.defs, t.circuit.Choice(cond, t.eq(result, branches[0]), t.eq(result, branches[1])))
	return result, nil
}

func (t *translator) eq(a, b linear) z.Lit {
	difference := a.sub(b)
	return t.circuit.And(t.leq(difference), t.leq(difference.neg()))
}

// leq normalizes l ≤ 0 into an atom, or a negated atom when the lowest id would carry a
// negative coefficient.
func (t *translator) leq(l linear) z.Lit {
	if l.isConstant() {
		return t.constant(l.constant.Sign() <= 0)
	}

	ids := l.ids()
	gcd := new(big.Int)
	for _, id := range ids {
		gcd.GCD(nil, nil, gcd, new(big.Int).Abs(l.coeffs[id]))
	}
	coeffs := make([]*big.Int, len(ids))
	for i, id := range ids {
		coeffs[i] = new(big.Int).Quo(l.coeffs[id], gcd)
	}
	// Euclidean division by a positive divisor is floor division
	bound := new(big.Int).Div(new(big.Int).Neg(l.constant), gcd)

	if coeffs[0].Sign() > 0 {
		return t.atomLit(&atom{ids: ids, coeffs: coeffs, bound: bound})
	}
	// Σcx ≤ k  ⇔  ¬(Σ(-c)x ≤ -k-1)
	for _, coeff := range coeffs {
		coeff.Neg(coeff)
	}
	bound.Neg(bound).Sub(bound, big.NewInt(1))
	return t.atomLit(&atom{ids: ids, coeffs: coeffs, bound: bound}).Not()
}

// atomLit returns the circuit input of a, shared by every occurrence of the same atom.
func (t *translator) atomLit(a *atom) z.Lit {
	key := a.key()
	id, ok := t.atomIDs[key]
	if !ok {
		id = len(t.atoms)
		t.atoms = append(t.atoms, a)
		t.atomLits = append(t.atomLits, t.circuit.Lit())
		t.atomIDs[key] = id
	}
	return t.atomLits[id]
}

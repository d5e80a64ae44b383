package smtlib

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/limaJavier/intsolve/pkg/engine"
	"github.com/limaJavier/intsolve/pkg/expr"
	"github.com/limaJavier/intsolve/pkg/sexpr"
)

var ErrSolverError = errors.New("solver reported an error")

type response struct {
	status engine.Status
	reason string
	values map[string]engine.Term
}

// parseResponse reads the check-sat answer first. Errors printed after an
// unsat or unknown verdict belong to the follow-up commands and are ignored.
// When sat and wantValues is set, the form after the verdict holds the
// get-value pairs.
func parseResponse(output string, wantValues bool) (response, error) {
	forms, err := sexpr.Parse(output)
	if err != nil {
		return response{}, fmt.Errorf("smtlib: malformed solver output: %w", err)
	}

	verdict := -1
	for i, form := range forms {
		if isError(form) {
			return response{}, solverError(form)
		}
		if form.Type == sexpr.Symbol {
			verdict = i
			break
		}
	}
	if verdict < 0 {
		return response{}, fmt.Errorf("smtlib: missing check-sat answer in %q", output)
	}
	rest := forms[verdict+1:]

	r := response{reason: reasonUnknown(rest)}
	switch forms[verdict].Text {
	case "sat":
		r.status = engine.StatusSat
	case "unsat":
		r.status = engine.StatusUnsat
		return r, nil
	case "unknown":
		r.status = engine.StatusUnknown
		return r, nil
	default:
		return response{}, fmt.Errorf("smtlib: unexpected check-sat answer %q", forms[verdict].Text)
	}

	r.values = make(map[string]engine.Term)
	if !wantValues {
		return r, nil
	}
	if len(rest) == 0 {
		return response{}, errors.New("smtlib: sat answer without get-value response")
	}
	pairs := rest[0]
	if isError(pairs) {
		return response{}, solverError(pairs)
	}
	if pairs.Type != sexpr.List {
		return response{}, fmt.Errorf("smtlib: malformed get-value response %s", pairs.String())
	}
	for _, pair := range pairs.Children {
		if pair.Type != sexpr.List || len(pair.Children) != 2 || pair.Children[0].Type != sexpr.Symbol {
			return response{}, fmt.Errorf("smtlib: malformed get-value pair %s", pair.String())
		}
		r.values[pair.Children[0].Text] = term(pair.Children[1])
	}
	return r, nil
}

func isError(form *sexpr.Node) bool {
	return form.Type == sexpr.List && len(form.Children) > 0 && form.Children[0].IsSymbol("error")
}

func solverError(form *sexpr.Node) error {
	message := form.String()
	if len(form.Children) > 1 {
		message = form.Children[1].Text
	}
	return fmt.Errorf("%w: %s", ErrSolverError, message)
}

// reasonUnknown finds the (:reason-unknown ...) answer of get-info, if any.
func reasonUnknown(forms []*sexpr.Node) string {
	for _, form := range forms {
		if form.Type != sexpr.List || len(form.Children) != 2 {
			continue
		}
		key, value := form.Children[0], form.Children[1]
		if key.Type != sexpr.Keyword || key.Text != ":reason-unknown" {
			continue
		}
		if value.Type == sexpr.List {
			return value.String()
		}
		return value.Text
	}
	return ""
}

// term reads a numeral or a (- numeral); anything else is kept as its text.
func term(node *sexpr.Node) engine.Term {
	switch {
	case node.Type == sexpr.Numeral:
		if value, ok := new(big.Int).SetString(node.Text, 10); ok {
			return engine.NumeralTerm(value)
		}
	case node.Type == sexpr.List && len(node.Children) == 2 && node.Children[0].IsSymbol("-") && node.Children[1].Type == sexpr.Numeral:
		if value, ok := new(big.Int).SetString(node.Children[1].Text, 10); ok {
			return engine.NumeralTerm(value.Neg(value))
		}
	case node.Type == sexpr.Symbol:
		return engine.SymbolTerm(node.Text)
	}
	return engine.TextTerm(node.String())
}

type model struct {
	values map[string]engine.Term
}

// Eval returns the solver's term for v unchanged. Only a variable the solver
// gave no value for is completed to 0.
func (m *model) Eval(v expr.Var, completion bool) (engine.Term, error) {
	if value, ok := m.values[v.Name]; ok {
		return value, nil
	}
	if completion {
		return engine.NumeralTerm(new(big.Int)), nil
	}
	return engine.SymbolTerm(v.Name), nil
}

// Package clause turns clause strings into typed constraints over a variable registry.
//
// Every clause is a single bare boolean expression. The builder wraps it as
// (assert <expr>) and parses the result as an assertion list holding exactly one command.
package clause

import (
	"errors"
	"fmt"
	"log/slog"

	ierr "github.com/limaJavier/intsolve/pkg/err"
	"github.com/limaJavier/intsolve/pkg/expr"
	"github.com/limaJavier/intsolve/pkg/model"
	"github.com/limaJavier/intsolve/pkg/sexpr"
)

const assertPrefix = "(assert "

// Builder accumulates the constraints of one request.
type Builder struct {
	registry *model.Registry
	asserts  []expr.Expr
	logger   *slog.Logger
}

func NewBuilder(registry *model.Registry) *Builder {
	return &Builder{
		registry: registry,
		logger:   slog.Default().With(slog.String("component", "clause")),
	}
}

// AddAll adds clauses in input order and stops at the first failure.
func (b *Builder) AddAll(clauses []string) error {
	for i, clause := range clauses {
		if err := b.Add(i, clause); err != nil {
			return err
		}
	}
	return nil
}

// Add parses the clause at index and appends its constraint.
func (b *Builder) Add(index int, clause string) error {
	wrapped := assertPrefix + clause + "\n)" // newline ends a trailing comment
	forms, err := parseForms(wrapped)
	if err == nil && len(forms) != 1 {
		err = syntaxErrorf(forms[len(forms)-1], "clause closes the assert wrapper")
	}
	var asserts []expr.Expr
	if err == nil {
		asserts, err = elaborateAssertions(forms, b.registry)
	}
	if err != nil {
		var perr *parseError
		if !errors.As(err, &perr) {
			return ierr.InClause(ierr.KindSyntaxError, index, clause, err, err.Error())
		}
		pos := max(perr.pos-len(assertPrefix), 0)
		b.logger.Debug("clause rejected",
			slog.Int("clause", index),
			slog.String("kind", string(perr.kind)),
			slog.String("error", perr.msg),
		)
		return ierr.InClause(perr.kind, index, clause, nil, fmt.Sprintf("offset %d: %s", pos, perr.msg))
	}
	b.asserts = append(b.asserts, asserts[0])
	return nil
}

// Assertions returns the accumulated constraints in input order.
func (b *Builder) Assertions() []expr.Expr {
	return b.asserts
}

// ParseAssertions parses text as zero or more (assert <expr>) commands, resolving free
// identifiers against registry.
func ParseAssertions(text string, registry *model.Registry) ([]expr.Expr, error) {
	forms, err := parseForms(text)
	if err != nil {
		return nil, err
	}
	return elaborateAssertions(forms, registry)
}

func parseForms(text string) ([]*sexpr.Node, error) {
	forms, err := sexpr.Parse(text)
	if err != nil {
		var serr *sexpr.SyntaxError
		if errors.As(err, &serr) {
			return nil, &parseError{kind: ierr.KindSyntaxError, pos: serr.Pos, msg: serr.Msg}
		}
		return nil, err
	}
	return forms, nil
}

func elaborateAssertions(forms []*sexpr.Node, registry *model.Registry) ([]expr.Expr, error) {
	el := &elaborator{registry: registry}
	asserts := make([]expr.Expr, 0, len(forms))
	for _, form := range forms {
		if form.Type != sexpr.List || len(form.Children) == 0 || !form.Children[0].IsSymbol("assert") {
			return nil, syntaxErrorf(form, "expected (assert <expr>), got %s", form.String())
		}
		if len(form.Children) != 2 {
			return nil, syntaxErrorf(form, "assert takes exactly one expression, got %d", len(form.Children)-1)
		}
		e, err := el.elaborate(form.Children[1])
		if err != nil {
			return nil, err
		}
		if e.Sort() != expr.SortBool {
			return nil, syntaxErrorf(form.Children[1], "assertion must be Bool, got %s", e.Sort())
		}
		asserts = append(asserts, e)
	}
	return asserts, nil
}

type parseError struct {
	kind ierr.Kind
	pos  int
	msg  string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.kind, e.pos, e.msg)
}

func syntaxErrorf(node *sexpr.Node, format string, args ...any) error {
	return &parseError{kind: ierr.KindSyntaxError, pos: node.Pos, msg: fmt.Sprintf(format, args...)}
}

func unknownErrorf(node *sexpr.Node, format string, args ...any) error {
	return &parseError{kind: ierr.KindUnknownIdentifier, pos: node.Pos, msg: fmt.Sprintf(format, args...)}
}

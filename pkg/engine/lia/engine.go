// Package lia is an in-process engine for quantifier-free linear integer arithmetic.
//
// The boolean structure goes to a SAT oracle from pkg/sat; each candidate assignment of
// the arithmetic atoms is checked with an exact simplex and branch-and-bound. Infeasible
// assignments are shrunk to a core and blocked before the oracle is asked again.
package lia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/limaJavier/intsolve/pkg/engine"
	"github.com/limaJavier/intsolve/pkg/expr"
	"github.com/limaJavier/intsolve/pkg/sat"
)

const (
	Name = "lia"

	DefaultMaxRounds      = 1000
	DefaultMaxBranchNodes = 2000
	DefaultMaxPivots      = 10000
)

type Engine struct {
	oracle         sat.SATSolver
	maxRounds      int
	maxBranchNodes int
	maxPivots      int
	logger         *slog.Logger
}

type Option func(*Engine)

func WithMaxRounds(rounds int) Option {
	return func(e *Engine) {
		if rounds > 0 {
			e.maxRounds = rounds
		}
	}
}

func WithMaxBranchNodes(nodes int) Option {
	return func(e *Engine) {
		if nodes > 0 {
			e.maxBranchNodes = nodes
		}
	}
}

func WithMaxPivots(pivots int) Option {
	return func(e *Engine) {
		if pivots > 0 {
			e.maxPivots = pivots
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New builds the engine on top of oracle, which defaults to gophersat when nil.
func New(oracle sat.SATSolver, options ...Option) *Engine {
	if oracle == nil {
		oracle = sat.NewGophersatSolver()
	}
	e := &Engine{
		oracle:         oracle,
		maxRounds:      DefaultMaxRounds,
		maxBranchNodes: DefaultMaxBranchNodes,
		maxPivots:      DefaultMaxPivots,
		logger:         slog.Default().With(slog.String("component", "lia")),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Engine) Name() string {
	return Name
}

func (e *Engine) NewContext() (engine.Context, error) {
	return &solverContext{
		engine:   e,
		declared: make(map[int]bool),
	}, nil
}

type solverContext struct {
	engine   *Engine
	vars     []expr.Var
	declared map[int]bool
	asserts  []expr.Expr
	reason   string
	model    *assignmentModel
	closed   bool
}

var errClosed = errors.New("lia: context is closed")

func (c *solverContext) Declare(v expr.Var) error {
	if c.closed {
		return errClosed
	}
	if c.declared[v.Index] {
		return fmt.Errorf("lia: variable %s declared twice", v.String())
	}
	c.declared[v.Index] = true
	c.vars = append(c.vars, v)
	return nil
}

func (c *solverContext) Assert(constraints ...expr.Expr) error {
	if c.closed {
		return errClosed
	}
	for _, constraint := range constraints {
		for _, v := range expr.Vars(constraint) {
			if !c.declared[v.Index] {
				return fmt.Errorf("lia: constraint %s uses undeclared variable %s", constraint.String(), v.String())
			}
		}
		if constraint.Sort() != expr.SortBool {
			return fmt.Errorf("lia: constraint %s is not Bool", constraint.String())
		}
	}
	c.asserts = append(c.asserts, constraints...)
	return nil
}

func (c *solverContext) ReasonUnknown() string {
	return c.reason
}

func (c *solverContext) Model() (engine.Model, error) {
	if c.model == nil {
		return nil, errors.New("lia: no model available, the last check was not sat")
	}
	return c.model, nil
}

func (c *solverContext) Close() error {
	c.closed = true
	c.asserts = nil
	c.model = nil
	return nil
}

func (c *solverContext) Check(ctx context.Context) (engine.Status, error) {
	if c.closed {
		return engine.StatusUnknown, errClosed
	}
	c.model, c.reason = nil, ""

	t := newTranslator(c.vars)
	root, err := t.translate(c.asserts)
	if err != nil {
		var unsupportedErr *unsupportedError
		if errors.As(err, &unsupportedErr) {
			return c.unknown(unsupportedErr.reason), nil
		}
		return engine.StatusUnknown, fmt.Errorf("lia: %w", err)
	}
	if root == t.circuit.F {
		return engine.StatusUnsat, nil
	}

	s := &search{
		ctx:        ctx,
		engine:     c.engine,
		translator: t,
		encoder:    newEncoder(t, root),
	}
	status, assignment, err := s.run()
	if err != nil {
		return engine.StatusUnknown, err
	}
	switch status {
	case engine.StatusUnknown:
		return c.unknown(s.reason), nil
	case engine.StatusUnsat:
		return engine.StatusUnsat, nil
	}

	m := newAssignmentModel(c.vars, t, assignment)
	if err := m.validate(c.asserts); err != nil {
		return engine.StatusUnknown, err
	}
	c.model = m
	return engine.StatusSat, nil
}

func (c *solverContext) unknown(reason string) engine.Status {
	c.reason = reason
	c.engine.logger.Debug("check result unknown", slog.String("reason", reason))
	return engine.StatusUnknown
}

func contextReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "canceled"
}

// assignmentModel assigns every declared variable that reached the theory. Others are unconstrained.
type assignmentModel struct {
	vars   []expr.Var
	values map[int]*big.Int // by expr.Var.Index
}

func newAssignmentModel(vars []expr.Var, t *translator, assignment map[int]*big.Int) *assignmentModel {
	m := &assignmentModel{vars: vars, values: make(map[int]*big.Int, len(vars))}
	for _, v := range vars {
		if value, ok := assignment[t.varIDs[v.Index]]; ok {
			m.values[v.Index] = value
		}
	}
	return m
}

func (m *assignmentModel) Eval(v expr.Var, completion bool) (engine.Term, error) {
	if value, ok := m.values[v.Index]; ok {
		return engine.NumeralTerm(value), nil
	}
	if completion {
		return engine.NumeralTerm(new(big.Int)), nil
	}
	return engine.SymbolTerm(v.Name), nil
}

// validate evaluates the assertions under the completed model.
func (m *assignmentModel) validate(asserts []expr.Expr) error {
	zero := new(big.Int)
	env := func(v expr.Var) (*big.Int, bool) {
		if value, ok := m.values[v.Index]; ok {
			return value, true
		}
		return zero, true
	}
	for i, assertion := range asserts {
		holds, err := expr.EvalBool(assertion, env)
		if err != nil {
			return fmt.Errorf("lia: model check of assertion %d: %w", i, err)
		}
		if !holds {
			return fmt.Errorf("lia: model violates assertion %d %s", i, assertion.String())
		}
	}
	return nil
}

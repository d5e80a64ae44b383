// Package engine defines the contract between the solve pipeline and a constraint engine.
package engine

import (
	"context"

	"github.com/limaJavier/intsolve/pkg/expr"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusSat
	StatusUnsat
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "sat"
	case StatusUnsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Engine creates independent problem instances.
type Engine interface {
	Name() string
	NewContext() (Context, error)
}

// Context is one request-scoped problem instance. It is not safe for concurrent use and
// must be closed on every exit path.
type Context interface {
	Declare(v expr.Var) error
	Assert(constraints ...expr.Expr) error
	// Check decides the asserted constraints. Cancellation of ctx yields StatusUnknown.
	Check(ctx context.Context) (Status, error)
	// Model is only valid after Check returned StatusSat.
	Model() (Model, error)
	// ReasonUnknown explains the last StatusUnknown.
	ReasonUnknown() string
	Close() error
}

type Model interface {
	// Eval returns the value of v. With completion an unconstrained variable gets 0;
	// without it, the variable comes back as its own symbol.
	Eval(v expr.Var, completion bool) (Term, error)
}

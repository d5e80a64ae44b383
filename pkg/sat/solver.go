// Package sat holds the propositional instance handed to SAT oracles and the oracle
// backends themselves: in-process gophersat and gini, and external DIMACS binaries.
package sat

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInterrupted    = errors.New("sat solver interrupted")
	ErrUnknownBackend = errors.New("unknown sat solver")
)

type SATSolver interface {
	// Solve returns a full assignment, nil when unsatisfiable, or ErrInterrupted when ctx
	// was cancelled first.
	Solve(ctx context.Context, sat *SAT) (SATSolution, error)
}

const (
	Gophersat     = "gophersat"
	Gini          = "gini"
	Kissat        = "kissat"
	Cadical       = "cadical"
	Cryptominisat = "cryptominisat"
	Minisat       = "minisat"
)

// InProcess lists backends that need no external binary.
var InProcess = []string{Gophersat, Gini}

// External lists backends run as subprocesses.
var External = []string{Kissat, Cadical, Cryptominisat, Minisat}

// Backends returns every supported backend name.
func Backends() []string {
	return slices.Concat(InProcess, External)
}

// New builds the named backend. paths maps external backends to executables; a missing
// entry falls back to the backend name on PATH.
func New(name string, paths map[string]string) (SATSolver, error) {
	switch name {
	case Gophersat:
		return NewGophersatSolver(), nil
	case Gini:
		return NewGiniSolver(), nil
	case Kissat:
		return NewKissatSolver(executablePath(name, paths)), nil
	case Cadical:
		return NewCadicalSolver(executablePath(name, paths)), nil
	case Cryptominisat:
		return NewCryptominisatSolver(executablePath(name, paths)), nil
	case Minisat:
		return NewMinisatSolver(executablePath(name, paths)), nil
	default:
		return nil, fmt.Errorf("%w %q, expected one of %v", ErrUnknownBackend, name, Backends())
	}
}

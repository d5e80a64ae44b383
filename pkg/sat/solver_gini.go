package sat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

const (
	giniSatisfiable   = 1
	giniUnsatisfiable = -1
	giniPollInterval  = 5 * time.Millisecond
)

type giniSolver struct{}

// NewGiniSolver returns the in-process gini backend, which stops its search when the
// context is cancelled.
func NewGiniSolver() SATSolver {
	return &giniSolver{}
}

func (s *giniSolver) Solve(ctx context.Context, sat *SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	if len(sat.Clauses) == 0 {
		return trivialSolution(sat), nil
	}

	g := gini.New()
	for _, clause := range sat.Clauses {
		for _, literal := range clause {
			g.Add(z.Dimacs2Lit(int(literal)))
		}
		g.Add(z.LitNull)
	}

	solve := g.GoSolve()
	ticker := time.NewTicker(giniPollInterval)
	defer ticker.Stop()

	var result int
	for {
		res, done := solve.Test()
		if done {
			result = res
			break
		}
		select {
		case <-ctx.Done():
			solve.Stop()
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
		case <-ticker.C:
		}
	}

	switch result {
	case giniUnsatisfiable:
		return nil, nil
	case giniSatisfiable:
	default:
		return nil, fmt.Errorf("gini returned status %d", result)
	}

	maxVar := int64(g.MaxVar())
	solution := make(SATSolution, sat.Variables)
	for i := range solution {
		literal := int64(i + 1)
		if literal <= maxVar && g.Value(z.Dimacs2Lit(int(literal))) {
			solution[i] = literal
		} else {
			solution[i] = -literal
		}
	}
	return solution, nil
}

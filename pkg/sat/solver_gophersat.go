package sat

import (
	"context"
	"fmt"

	"github.com/crillab/gophersat/solver"
)

type gophersatSolver struct{}

// NewGophersatSolver returns the in-process gophersat backend. gophersat cannot be
// interrupted: on cancellation Solve returns at once and the search finishes in the
// background.
func NewGophersatSolver() SATSolver {
	return &gophersatSolver{}
}

type gophersatOutcome struct {
	status solver.Status
	model  []bool
	err    error
}

func (s *gophersatSolver) Solve(ctx context.Context, sat *SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	if len(sat.Clauses) == 0 {
		return trivialSolution(sat), nil
	}

	cnf := make([][]int, len(sat.Clauses))
	for i, clause := range sat.Clauses {
		cnf[i] = make([]int, len(clause))
		for j, literal := range clause {
			cnf[i][j] = int(literal)
		}
	}

	done := make(chan gophersatOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- gophersatOutcome{err: fmt.Errorf("gophersat panicked: %v", r)}
			}
		}()
		solv := solver.New(solver.ParseSlice(cnf))
		status := solv.Solve()
		outcome := gophersatOutcome{status: status}
		if status == solver.Sat {
			outcome.model = solv.Model()
		}
		done <- outcome
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	case outcome := <-done:
		switch {
		case outcome.err != nil:
			return nil, outcome.err
		case outcome.status == solver.Unsat:
			return nil, nil
		case outcome.status != solver.Sat:
			return nil, fmt.Errorf("gophersat returned status %v", outcome.status)
		}
		// Variables absent from every clause are missing from the model
		solution := make(SATSolution, sat.Variables)
		for i := range solution {
			literal := int64(i + 1)
			if i < len(outcome.model) && outcome.model[i] {
				solution[i] = literal
			} else {
				solution[i] = -literal
			}
		}
		return solution, nil
	}
}

package sat

import (
	"context"
	"os/exec"
	"strings"
)

type kissatSolver struct {
	path string
}

func NewKissatSolver(path string) SATSolver {
	return &kissatSolver{path: path}
}

func (solver *kissatSolver) Solve(ctx context.Context, sat *SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	cmd := exec.CommandContext(ctx, solver.path, "-q", "--relaxed")
	cmd.Stdin = strings.NewReader(dimacs) // Feed dimacs into kissat's standard input

	output, satisfiable, err := runSolver(ctx, Kissat, cmd)
	if err != nil || !satisfiable {
		return nil, err
	}
	return parseSolution(output)
}

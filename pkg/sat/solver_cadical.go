package sat

import (
	"context"
	"os/exec"
	"strings"
)

type cadicalSolver struct {
	path string
}

func NewCadicalSolver(path string) SATSolver {
	return &cadicalSolver{path: path}
}

func (solver *cadicalSolver) Solve(ctx context.Context, sat *SAT) (SATSolution, error) {
	cmd := exec.CommandContext(ctx, solver.path, "-q")
	cmd.Stdin = strings.NewReader(sat.ToDIMACS())

	output, satisfiable, err := runSolver(ctx, Cadical, cmd)
	if err != nil || !satisfiable {
		return nil, err
	}
	return parseSolution(output)
}

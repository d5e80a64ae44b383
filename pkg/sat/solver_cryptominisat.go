package sat

import (
	"context"
	"os/exec"
	"strings"
)

type cryptominisatSolver struct {
	path string
}

func NewCryptominisatSolver(path string) SATSolver {
	return &cryptominisatSolver{path: path}
}

func (solver *cryptominisatSolver) Solve(ctx context.Context, sat *SAT) (SATSolution, error) {
	cmd := exec.CommandContext(ctx, solver.path, "--verb", "0")
	cmd.Stdin = strings.NewReader(sat.ToDIMACS())

	output, satisfiable, err := runSolver(ctx, Cryptominisat, cmd)
	if err != nil || !satisfiable {
		return nil, err
	}
	return parseSolution(output)
}

package sat

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type minisatSolver struct {
	path string
}

func NewMinisatSolver(path string) SATSolver {
	return &minisatSolver{path: path}
}

func (solver *minisatSolver) Solve(ctx context.Context, sat *SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	// Create a temporary file to hold the DIMACS content
	inputTempFile, err := os.CreateTemp("", "dimacs-*.cnf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(inputTempFile.Name())

	outputTempFile, err := os.CreateTemp("", "minisat_output-*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(outputTempFile.Name())
	defer outputTempFile.Close()

	if _, err := inputTempFile.WriteString(dimacs); err != nil {
		return nil, fmt.Errorf("failed to write DIMACS to temporary file: %w", err)
	}
	if err := inputTempFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary file: %w", err)
	}

	cmd := exec.CommandContext(ctx, solver.path, "-verb=0", inputTempFile.Name(), outputTempFile.Name())
	_, satisfiable, err := runSolver(ctx, Minisat, cmd)
	if err != nil || !satisfiable {
		return nil, err
	}

	output, err := os.ReadFile(outputTempFile.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %w", err)
	}
	return solver.parseSolution(string(output))
}

// parseSolution reads minisat's result file: a SAT header followed by one literal line.
func (solver *minisatSolver) parseSolution(solverOutput string) (SATSolution, error) {
	lines := strings.Split(solverOutput, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "SAT" {
		return nil, fmt.Errorf("unexpected minisat result file: %q", solverOutput)
	}
	var parseErr error
	solution := lo.FilterMap(strings.Fields(lines[1]), func(valueStr string, _ int) (int64, bool) {
		value, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil && parseErr == nil {
			parseErr = fmt.Errorf("invalid literal in minisat output: %w", err)
		}
		return value, err == nil && value != 0
	})
	return solution, parseErr
}

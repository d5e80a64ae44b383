package sat

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
const (
	exitSatisfiable   = 10
	exitUnsatisfiable = 20
)

// parseSolution collects the literals of every "v" line, dropping the terminating 0.
func parseSolution(solverOutput string) (SATSolution, error) {
	var parseErr error
	values := lo.FilterMap(
		lo.Reduce(
			lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
				return len(line) > 0 && line[0] == 'v'
			}),
			func(values []string, line string, _ int) []string {
				return append(values, strings.Fields(line[1:])...)
			},
			[]string{},
		),
		func(valueStr string, _ int) (int64, bool) {
			value, err := strconv.ParseInt(valueStr, 10, 64)
			if err != nil && parseErr == nil {
				parseErr = fmt.Errorf("invalid literal in solver output: %w", err)
			}
			return value, err == nil && value != 0
		},
	)
	if parseErr != nil {
		return nil, parseErr
	}
	if len(values) == 0 && !strings.Contains(solverOutput, "v 0") {
		return nil, fmt.Errorf("solver reported satisfiable without a model")
	}
	return values, nil
}

func executablePath(solver string, paths map[string]string) string {
	if path, ok := paths[solver]; ok && path != "" {
		return path
	}
	return solver
}

// runSolver runs cmd and classifies its exit code. The returned output is only
// meaningful when satisfiable is true.
func runSolver(ctx context.Context, name string, cmd *exec.Cmd) (output string, satisfiable bool, err error) {
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() != nil {
		return "", false, fmt.Errorf("%w: %s: %w", ErrInterrupted, name, ctx.Err())
	}

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	switch {
	case exitCode == exitUnsatisfiable:
		return "", false, nil
	case exitCode == exitSatisfiable:
		return stdOut.String(), true, nil
	case err != nil:
		return "", false, fmt.Errorf("an error occurred during %s execution: %w: %s", name, err, stderr.String())
	default:
		return "", false, fmt.Errorf("%s exited with code %d without a verdict", name, exitCode)
	}
}

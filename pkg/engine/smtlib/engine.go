// Package smtlib drives an external SMT-LIB2 solver process, z3 by default.
package smtlib

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/limaJavier/intsolve/pkg/engine"
	"github.com/limaJavier/intsolve/pkg/expr"
	"github.com/limaJavier/intsolve/pkg/sexpr"
)

const Name = "smtlib"

var (
	DefaultCommand = "z3"
	DefaultArgs    = []string{"-in", "-smt2"}
)

type Engine struct {
	command string
	args    []string
	logger  *slog.Logger
}

// New returns an engine running command with args, reading the script on stdin.
// An empty command selects z3.
func New(command string, args []string, logger *slog.Logger) *Engine {
	if command == "" {
		command, args = DefaultCommand, DefaultArgs
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		command: command,
		args:    args,
		logger:  logger.With(slog.String("component", "smtlib")),
	}
}

func (e *Engine) Name() string {
	return Name
}

func (e *Engine) NewContext() (engine.Context, error) {
	return &solverContext{engine: e}, nil
}

type solverContext struct {
	engine  *Engine
	vars    []expr.Var
	asserts []expr.Expr
	reason  string
	model   *model
	closed  bool
}

var errClosed = errors.New("smtlib: context is closed")

func (c *solverContext) Declare(v expr.Var) error {
	if c.closed {
		return errClosed
	}
	if _, err := sexpr.Quote(v.Name); err != nil {
		return fmt.Errorf("smtlib: %w", err)
	}
	c.vars = append(c.vars, v)
	return nil
}

func (c *solverContext) Assert(constraints ...expr.Expr) error {
	if c.closed {
		return errClosed
	}
	c.asserts = append(c.asserts, constraints...)
	return nil
}

func (c *solverContext) ReasonUnknown() string {
	return c.reason
}

func (c *solverContext) Model() (engine.Model, error) {
	if c.model == nil {
		return nil, errors.New("smtlib: no model available, the last check was not sat")
	}
	return c.model, nil
}

func (c *solverContext) Close() error {
	c.closed = true
	c.model = nil
	return nil
}

func (c *solverContext) Check(ctx context.Context) (engine.Status, error) {
	if c.closed {
		return engine.StatusUnknown, errClosed
	}
	c.model, c.reason = nil, ""
	if err := ctx.Err(); err != nil {
		c.reason = contextReason(err)
		return engine.StatusUnknown, nil
	}

	script := Script(c.vars, c.asserts)
	cmd := exec.CommandContext(ctx, c.engine.command, c.engine.args...)
	cmd.Stdin = strings.NewReader(script)
	var stdOut, stderr bytes.Buffer
	cmd.Stdout = &stdOut
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if err := ctx.Err(); err != nil {
		c.reason = contextReason(err)
		return engine.StatusUnknown, nil
	}

	response, err := parseResponse(stdOut.String(), len(c.vars) > 0)
	if err != nil {
		if runErr != nil {
			return engine.StatusUnknown, fmt.Errorf("smtlib: %s failed: %w: %s", c.engine.command, runErr, stderr.String())
		}
		return engine.StatusUnknown, err
	}
	c.engine.logger.Debug("solver responded",
		slog.String("status", response.status.String()),
		slog.Int("values", len(response.values)),
	)
	if runErr != nil {
		// z3 exits non-zero when a follow-up command such as get-info is rejected
		c.engine.logger.Debug("solver exited with an error after answering",
			slog.String("error", runErr.Error()),
		)
	}

	switch response.status {
	case engine.StatusUnknown:
		c.reason = response.reason
		if c.reason == "" {
			c.reason = "solver returned unknown"
		}
		return engine.StatusUnknown, nil
	case engine.StatusUnsat:
		return engine.StatusUnsat, nil
	}
	c.model = &model{values: response.values}
	return engine.StatusSat, nil
}

func contextReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "canceled"
}

// Script renders declarations and assertions as a complete SMT-LIB2 script.
func Script(vars []expr.Var, asserts []expr.Expr) string {
	var builder strings.Builder
	builder.WriteString("(set-option :print-success false)\n")
	builder.WriteString("(set-option :produce-models true)\n")
	for _, v := range vars {
		fmt.Fprintf(&builder, "(declare-fun %s () Int)\n", v.String())
	}
	for _, assertion := range asserts {
		fmt.Fprintf(&builder, "(assert %s)\n", assertion.String())
	}
	builder.WriteString("(check-sat)\n")
	if len(vars) > 0 {
		names := make([]string, len(vars))
		for i, v := range vars {
			names[i] = v.String()
		}
		fmt.Fprintf(&builder, "(get-value (%s))\n", strings.Join(names, " "))
	}
	builder.WriteString("(get-info :reason-unknown)\n")
	builder.WriteString("(exit)\n")
	return builder.String()
}

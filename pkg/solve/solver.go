// Package solve runs a request through the pipeline: variable registry, clause builder,
// engine check and value extraction.
package solve

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/limaJavier/intsolve/pkg/clause"
	"github.com/limaJavier/intsolve/pkg/engine"
	ierr "github.com/limaJavier/intsolve/pkg/err"
	"github.com/limaJavier/intsolve/pkg/model"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultIntWidth = 64

	tracerName = "github.com/limaJavier/intsolve/pkg/solve"
)

// Solver is safe for concurrent use; every request gets its own engine context.
type Solver struct {
	engine   engine.Engine
	timeout  time.Duration
	intWidth int
	workers  int
	logger   *slog.Logger
	tracer   trace.Tracer
}

type Option func(*Solver)

func WithTimeout(timeout time.Duration) Option {
	return func(s *Solver) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithIntWidth selects 32 or 64 bit machine integers for reported values.
func WithIntWidth(width int) Option {
	return func(s *Solver) {
		if width == 32 || width == 64 {
			s.intWidth = width
		}
	}
}

// WithWorkers bounds the goroutines used by SolveBatch; 0 means one per CPU.
func WithWorkers(workers int) Option {
	return func(s *Solver) {
		s.workers = workers
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) {
		if logger != nil {
			s.logger = logger.With(slog.String("component", "solve"))
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Solver) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

func New(e engine.Engine, options ...Option) *Solver {
	s := &Solver{
		engine:   e,
		timeout:  DefaultTimeout,
		intWidth: DefaultIntWidth,
		logger:   slog.Default().With(slog.String("component", "solve")),
		tracer:   otel.Tracer(tracerName),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Solver) Engine() engine.Engine {
	return s.engine
}

// Solve never panics and never returns a partial result.
func (s *Solver) Solve(ctx context.Context, request model.Request) (result model.Result) {
	ctx, span := s.tracer.Start(ctx, "solve.Request",
		trace.WithAttributes(
			attribute.String("engine", s.engine.Name()),
			attribute.Int("variables", len(request.VarNames)),
			attribute.Int("clauses", len(request.Clauses)),
		),
	)
	defer span.End()
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = model.ErrorResult(ierr.New(ierr.KindEngineFault, nil, "engine panicked: %v", r))
		}
		span.SetAttributes(attribute.String("status", string(result.Status)))
		if result.Error != "" {
			span.RecordError(fmt.Errorf("%s", result.Error))
			span.SetStatus(codes.Error, string(result.ErrorKind))
		}
		s.logger.Debug("request solved",
			slog.String("status", string(result.Status)),
			slog.Int("variables", len(request.VarNames)),
			slog.Int("clauses", len(request.Clauses)),
			slog.Duration("elapsed", time.Since(started)),
		)
	}()

	values, status, err := s.solve(ctx, request)
	switch {
	case err != nil:
		return model.ErrorResult(err)
	case status == engine.StatusUnsat:
		return model.UnsatResult()
	default:
		return model.SatResult(values)
	}
}

func (s *Solver) solve(ctx context.Context, request model.Request) (map[string]model.Value, engine.Status, error) {
	registry, err := model.NewRegistry(request.VarNames)
	if err != nil {
		return nil, engine.StatusUnknown, err
	}
	builder := clause.NewBuilder(registry)
	if err := builder.AddAll(request.Clauses); err != nil {
		return nil, engine.StatusUnknown, err
	}

	solverCtx, err := s.engine.NewContext()
	if err != nil {
		return nil, engine.StatusUnknown, ierr.New(ierr.KindEngineFault, err, "cannot create %s context: %v", s.engine.Name(), err)
	}
	defer func() {
		if err := solverCtx.Close(); err != nil {
			s.logger.Warn("cannot close engine context", slog.String("error", err.Error()))
		}
	}()

	for _, v := range registry.Vars() {
		if err := solverCtx.Declare(v); err != nil {
			return nil, engine.StatusUnknown, ierr.New(ierr.KindEngineFault, err, "declare %s: %v", v.String(), err)
		}
	}
	if err := solverCtx.Assert(builder.Assertions()...); err != nil {
		return nil, engine.StatusUnknown, ierr.New(ierr.KindEngineFault, err, "assert: %v", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	status, err := solverCtx.Check(checkCtx)
	if err != nil {
		return nil, engine.StatusUnknown, ierr.New(ierr.KindEngineFault, err, "check: %v", err)
	}

	switch status {
	case engine.StatusUnsat:
		return nil, status, nil
	case engine.StatusUnknown:
		return nil, status, ierr.New(ierr.KindUnknown, nil, "engine returned unknown: %s", solverCtx.ReasonUnknown())
	}

	m, err := solverCtx.Model()
	if err != nil {
		return nil, engine.StatusUnknown, ierr.New(ierr.KindEngineFault, err, "model: %v", err)
	}
	values, err := s.extract(registry, m)
	if err != nil {
		return nil, engine.StatusUnknown, err
	}
	return values, status, nil
}

// extract reads every variable in registry order with completion enabled. Values that
// do not fit the integer width are reported as text, never truncated.
func (s *Solver) extract(registry *model.Registry, m engine.Model) (map[string]model.Value, error) {
	values := make(map[string]model.Value, registry.Len())
	for _, v := range registry.Vars() {
		term, err := m.Eval(v, true)
		if err != nil {
			return nil, ierr.New(ierr.KindEngineFault, err, "evaluate %s: %v", v.String(), err)
		}
		values[v.Name] = s.value(term)
	}
	return values, nil
}

func (s *Solver) value(term engine.Term) model.Value {
	if s.intWidth == 32 {
		if value, ok := term.Int32(); ok {
			return model.NewIntegerValue(int64(value))
		}
	} else if value, ok := term.Int64(); ok {
		return model.NewIntegerValue(value)
	}
	return model.NewTextValue(term.String())
}

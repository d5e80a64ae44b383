package solve

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/limaJavier/intsolve/internal/parallel"
	ierr "github.com/limaJavier/intsolve/pkg/err"
	"github.com/limaJavier/intsolve/pkg/model"
)

// SolveBatch solves every request independently on the worker pool. The i-th result
// always answers the i-th request; requests that could not be scheduled report an
// engine fault.
func (s *Solver) SolveBatch(ctx context.Context, requests []model.Request) []model.Result {
	ctx, span := s.tracer.Start(ctx, "solve.Batch",
		trace.WithAttributes(attribute.Int("requests", len(requests))),
	)
	defer span.End()

	results := make([]model.Result, len(requests))
	pool := parallel.NewWorkerPool(s.workers)
	var wg sync.WaitGroup

	for i, request := range requests {
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			results[i] = s.Solve(ctx, request)
		})
		if err != nil {
			wg.Done()
			results[i] = model.ErrorResult(ierr.New(ierr.KindEngineFault, err, "request %d not scheduled: %v", i, err))
		}
	}
	wg.Wait()
	pool.Shutdown()

	s.logger.Info("batch solved",
		slog.Int("requests", len(requests)),
		slog.Int("workers", pool.Size()),
	)
	return results
}

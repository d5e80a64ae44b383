package solve

import (
	"fmt"
	"log/slog"

	"github.com/limaJavier/intsolve/pkg/config"
	"github.com/limaJavier/intsolve/pkg/engine"
	"github.com/limaJavier/intsolve/pkg/engine/lia"
	"github.com/limaJavier/intsolve/pkg/engine/smtlib"
	"github.com/limaJavier/intsolve/pkg/sat"
)

// FromConfig wires the engine named by cfg and applies the request-level settings.
func FromConfig(cfg config.Config, logger *slog.Logger) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	var e engine.Engine
	switch cfg.Engine {
	case lia.Name:
		oracle, err := sat.New(cfg.SATSolver, cfg.SolverPaths)
		if err != nil {
			return nil, fmt.Errorf("cannot create sat oracle: %w", err)
		}
		e = lia.New(oracle,
			lia.WithMaxRounds(cfg.MaxRounds),
			lia.WithMaxBranchNodes(cfg.MaxBranchNodes),
			lia.WithLogger(logger),
		)
	case smtlib.Name:
		e = smtlib.New(cfg.SMTLIB.Command, cfg.SMTLIB.Args, logger)
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", config.ErrInvalidConfig, cfg.Engine)
	}

	return New(e,
		WithTimeout(cfg.Timeout),
		WithIntWidth(cfg.IntWidth),
		WithWorkers(cfg.Workers),
		WithLogger(logger),
	), nil
}

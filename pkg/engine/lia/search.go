package lia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"slices"

	"github.com/limaJavier/intsolve/pkg/engine"
	"github.com/limaJavier/intsolve/pkg/sat"
)

// theoryLiteral is an atom with the polarity chosen by the SAT oracle.
type theoryLiteral struct {
	atom     int
	positive bool
	literal  int64 // signed SAT literal that is true in the current assignment
}

// search is one run of the lazy SAT-modulo-theory loop.
type search struct {
	ctx        context.Context
	engine     *Engine
	translator *translator
	encoder    *encoder
	negated    map[int]*atom
	reason     string
	incomplete bool // an assignment was blocked without a proof of infeasibility
}

func (s *search) run() (engine.Status, map[int]*big.Int, error) {
	instance := &s.encoder.instance
	if len(instance.Clauses) == 0 {
		return engine.StatusSat, map[int]*big.Int{}, nil
	}
	s.negated = make(map[int]*atom)
	logger := s.engine.logger

	for round := range s.engine.maxRounds {
		if err := s.ctx.Err(); err != nil {
			s.reason = contextReason(err)
			return engine.StatusUnknown, nil, nil
		}

		solution, err := s.engine.oracle.Solve(s.ctx, instance)
		if err != nil {
			if errors.Is(err, sat.ErrInterrupted) {
				s.reason = "sat solver interrupted"
				if ctxErr := s.ctx.Err(); ctxErr != nil {
					s.reason = contextReason(ctxErr)
				}
				return engine.StatusUnknown, nil, nil
			}
			return engine.StatusUnknown, nil, fmt.Errorf("lia: sat oracle: %w", err)
		}
		if solution == nil {
			if s.incomplete {
				return engine.StatusUnknown, nil, nil
			}
			logger.Debug("skeleton unsatisfiable", slog.Int("round", round))
			return engine.StatusUnsat, nil, nil
		}

		literals := make([]theoryLiteral, len(s.encoder.emitted))
		for i, id := range s.encoder.emitted {
			v := s.encoder.atomVars[id]
			positive := solution.Value(v)
			literal := v
			if !positive {
				literal = -v
			}
			literals[i] = theoryLiteral{atom: id, positive: positive, literal: literal}
		}

		checker := s.checker()
		result, assignment := checker.check(s.rows(literals))
		switch result {
		case feasible:
			logger.Debug("theory feasible", slog.Int("round", round), slog.Int("atoms", len(literals)))
			return engine.StatusSat, assignment, nil
		case undecided:
			s.reason = checker.reason
			if s.ctx.Err() != nil {
				return engine.StatusUnknown, nil, nil
			}
			s.incomplete = true
			s.block(literals)
		default:
			core := s.core(literals)
			logger.Debug("theory conflict",
				slog.Int("round", round),
				slog.Int("atoms", len(literals)),
				slog.Int("core", len(core)),
			)
			s.block(core)
		}
	}

	s.reason = fmt.Sprintf("round limit of %d reached", s.engine.maxRounds)
	return engine.StatusUnknown, nil, nil
}

func (s *search) checker() *integerChecker {
	return &integerChecker{
		ctx:       s.ctx,
		maxNodes:  s.engine.maxBranchNodes,
		maxPivots: s.engine.maxPivots,
	}
}

// rows turns literals into ≤ rows; a false atom Σcx ≤ k becomes Σ(-c)x ≤ -k-1.
func (s *search) rows(literals []theoryLiteral) []*atom {
	rows := make([]*atom, len(literals))
	for i, literal := range literals {
		a := s.translator.atoms[literal.atom]
		if literal.positive {
			rows[i] = a
			continue
		}
		negated, ok := s.negated[literal.atom]
		if !ok {
			negated = &atom{ids: a.ids, coeffs: make([]*big.Int, len(a.coeffs)), bound: new(big.Int)}
			for k, coeff := range a.coeffs {
				negated.coeffs[k] = new(big.Int).Neg(coeff)
			}
			negated.bound.Neg(a.bound).Sub(negated.bound, big.NewInt(1))
			s.negated[literal.atom] = negated
		}
		rows[i] = negated
	}
	return rows
}

// core drops literals one at a time, keeping a drop only while the rest stays provably
// infeasible.
func (s *search) core(literals []theoryLiteral) []theoryLiteral {
	core := slices.Clone(literals)
	for i := 0; i < len(core) && s.ctx.Err() == nil; {
		candidate := slices.Delete(slices.Clone(core), i, i+1)
		if result, _ := s.checker().check(s.rows(candidate)); result == infeasible {
			core = candidate
			continue
		}
		i++
	}
	return core
}

func (s *search) block(literals []theoryLiteral) {
	clause := make([]int64, len(literals))
	for i, literal := range literals {
		clause[i] = -literal.literal
	}
	s.encoder.instance.AddClause(clause...)
}

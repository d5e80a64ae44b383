package sat

import (
	"fmt"
	"strings"
)

// SATSolution lists one signed literal per variable. A nil solution means unsatisfiable.
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

// AddClause appends a clause, growing Variables to cover its literals.
func (s *SAT) AddClause(literals ...int64) {
	for _, literal := range literals {
		if v := uint64(abs(literal)); v > s.Variables {
			s.Variables = v
		}
	}
	s.Clauses = append(s.Clauses, literals)
}

// NewVariable reserves the next variable index.
func (s *SAT) NewVariable() int64 {
	s.Variables++
	return int64(s.Variables)
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Value reports the polarity a solution assigns to variable v.
func (s SATSolution) Value(v int64) bool {
	if v <= 0 || v > int64(len(s)) {
		return false
	}
	literal := s[v-1]
	if abs(literal) == v {
		return literal > 0
	}
	for _, literal := range s { // solver printed literals out of order
		if abs(literal) == v {
			return literal > 0
		}
	}
	return false
}

// trivialSolution assigns false to every variable of a clause-free instance.
func trivialSolution(sat *SAT) SATSolution {
	solution := make(SATSolution, sat.Variables)
	for i := range solution {
		solution[i] = -int64(i + 1)
	}
	return solution
}

func abs(literal int64) int64 {
	if literal < 0 {
		return -literal
	}
	return literal
}

package lia

import (
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"

	"github.com/limaJavier/intsolve/pkg/sat"
)

// encoder holds the CNF of the part of the circuit reachable from the root. Circuit
// variables are SAT variables, and only atoms that occur in a clause reach the theory.
type encoder struct {
	instance sat.SAT
	atomVars map[int]int64
	emitted  []int // atom ids in increasing order
}

// clauseSink collects the z.LitNull-terminated clauses of the circuit into a sat.SAT.
type clauseSink struct {
	instance *sat.SAT
	clause   []int64
}

var _ inter.Adder = (*clauseSink)(nil)

func (s *clauseSink) Add(m z.Lit) {
	if m == z.LitNull {
		s.instance.AddClause(s.clause...)
		s.clause = nil
		return
	}
	s.clause = append(s.clause, int64(m.Dimacs()))
}

// newEncoder asserts root, a literal of t's circuit. A true root yields an empty instance.
func newEncoder(t *translator, root z.Lit) *encoder {
	e := &encoder{atomVars: make(map[int]int64)}
	if root == t.circuit.T {
		return e
	}

	sink := &clauseSink{instance: &e.instance}
	t.circuit.ToCnfFrom(sink, root)
	sink.Add(root)
	sink.Add(z.LitNull)

	occurs := make(map[int64]bool)
	for _, clause := range e.instance.Clauses {
		for _, literal := range clause {
			occurs[max(literal, -literal)] = true
		}
	}
	for id, m := range t.atomLits {
		v := int64(m.Var())
		if occurs[v] {
			e.atomVars[id] = v
			e.emitted = append(e.emitted, id)
		}
	}
	return e
}

package lia

import (
	"context"
	"math/big"
	"slices"
)

// integerChecker decides integer feasibility of a conjunction of atoms with
// branch-and-bound over the rational relaxation.
type integerChecker struct {
	ctx       context.Context
	maxNodes  int
	maxPivots int
	nodes     int
	reason    string // set when the outcome is undecided
}

// check returns an integer assignment keyed by theory id when the rows are feasible.
func (c *integerChecker) check(rows []*atom) (outcome, map[int]*big.Int) {
	var ids []int
	for _, row := range rows {
		ids = append(ids, row.ids...)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	compact := make(map[int]int, len(ids))
	for i, id := range ids {
		compact[id] = i
	}
	local := make([]*atom, len(rows))
	for i, row := range rows {
		local[i] = &atom{ids: make([]int, len(row.ids)), coeffs: row.coeffs, bound: row.bound}
		for k, id := range row.ids {
			local[i].ids[k] = compact[id]
		}
	}

	// branch-and-bound does not terminate on unbounded equations without an integer
	// point, such as x = 2y together with x = 2z + 1
	if matrix, rhs := equalities(len(ids), local); len(matrix) > 0 && !integerSolvable(len(ids), matrix, rhs) {
		return infeasible, nil
	}

	c.nodes = 0
	result, values := c.search(len(ids), local, make([]*big.Rat, len(ids)), make([]*big.Rat, len(ids)))
	if result != feasible {
		return result, nil
	}
	assignment := make(map[int]*big.Int, len(ids))
	for i, id := range ids {
		assignment[id] = new(big.Int).Set(values[i].Num())
	}
	return feasible, assignment
}

func (c *integerChecker) search(n int, rows []*atom, lower, upper []*big.Rat) (outcome, []*big.Rat) {
	c.nodes++
	if c.nodes > c.maxNodes {
		c.reason = "branch-and-bound node budget exhausted"
		return undecided, nil
	}
	if err := c.ctx.Err(); err != nil {
		c.reason = contextReason(err)
		return undecided, nil
	}

	lp := newSimplex(n, rows, lower, upper)
	switch lp.solve(c.maxPivots) {
	case infeasible:
		return infeasible, nil
	case undecided:
		c.reason = "simplex pivot limit reached"
		return undecided, nil
	}

	values := lp.values()
	j := slices.IndexFunc(values, func(v *big.Rat) bool { return !v.IsInt() })
	if j < 0 {
		return feasible, values
	}

	floor := new(big.Int).Div(values[j].Num(), values[j].Denom())

	below := slices.Clone(upper)
	below[j] = new(big.Rat).SetInt(floor)
	left, values := c.search(n, rows, lower, below)
	if left == feasible {
		return feasible, values
	}

	above := slices.Clone(lower)
	above[j] = new(big.Rat).SetInt(new(big.Int).Add(floor, big.NewInt(1)))
	right, values := c.search(n, rows, above, upper)
	if right == feasible {
		return feasible, values
	}

	if left == undecided || right == undecided {
		return undecided, nil
	}
	return infeasible, nil
}

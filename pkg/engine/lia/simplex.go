package lia

import "math/big"

type outcome int

const (
	infeasible outcome = iota
	feasible
	undecided
)

// simplex is the bounded-variable general simplex of Dutertre and de Moura over exact
// rationals. Columns 0..n-1 are structural variables, column n+i is the slack of row i
// with upper bound rows[i].bound. Bland's rule picks both the leaving and the entering
// variable, so the search terminates.
type simplex struct {
	n, total     int
	tableau      [][]*big.Rat // tableau[r] expresses basicOf[r] over the nonbasic columns
	basicOf      []int
	rowOf        []int // -1 for nonbasic columns
	value        []*big.Rat
	lower, upper []*big.Rat // nil when unbounded
}

// newSimplex builds the tableau for rows over n structural variables. rows use the
// compact ids 0..n-1.
func newSimplex(n int, rows []*atom, lower, upper []*big.Rat) *simplex {
	m := len(rows)
	s := &simplex{
		n:       n,
		total:   n + m,
		tableau: make([][]*big.Rat, m),
		basicOf: make([]int, m),
		rowOf:   make([]int, n+m),
		value:   make([]*big.Rat, n+m),
		lower:   make([]*big.Rat, n+m),
		upper:   make([]*big.Rat, n+m),
	}
	copy(s.lower, lower)
	copy(s.upper, upper)

	for j := range n {
		s.rowOf[j] = -1
		switch {
		case s.lower[j] != nil:
			s.value[j] = new(big.Rat).Set(s.lower[j])
		case s.upper[j] != nil:
			s.value[j] = new(big.Rat).Set(s.upper[j])
		default:
			s.value[j] = new(big.Rat)
		}
	}
	for i, row := range rows {
		slack := n + i
		s.basicOf[i] = slack
		s.rowOf[slack] = i
		s.upper[slack] = new(big.Rat).SetInt(row.bound)

		s.tableau[i] = zeroRow(s.total)
		sum := new(big.Rat)
		for k, id := range row.ids {
			coeff := new(big.Rat).SetInt(row.coeffs[k])
			s.tableau[i][id].Add(s.tableau[i][id], coeff)
			sum.Add(sum, new(big.Rat).Mul(coeff, s.value[id]))
		}
		s.value[slack] = sum
	}
	return s
}

func zeroRow(size int) []*big.Rat {
	row := make([]*big.Rat, size)
	for i := range row {
		row[i] = new(big.Rat)
	}
	return row
}

// solve runs at most maxPivots pivots.
func (s *simplex) solve(maxPivots int) outcome {
	for j := range s.n {
		if s.lower[j] != nil && s.upper[j] != nil && s.lower[j].Cmp(s.upper[j]) > 0 {
			return infeasible
		}
	}

	for pivots := 0; pivots <= maxPivots; pivots++ {
		leave, below := s.violated()
		if leave < 0 {
			return feasible
		}
		r := s.rowOf[leave]
		enter := -1
		for j := range s.total {
			a := s.tableau[r][j]
			if s.rowOf[j] >= 0 || a.Sign() == 0 {
				continue
			}
			increase := (a.Sign() > 0) == below
			if (increase && s.canIncrease(j)) || (!increase && s.canDecrease(j)) {
				enter = j
				break
			}
		}
		if enter < 0 {
			return infeasible
		}
		target := s.upper[leave]
		if below {
			target = s.lower[leave]
		}
		s.pivotAndUpdate(r, enter, target)
	}
	return undecided
}

// violated returns the smallest basic variable outside its bounds, and whether it lies
// below its lower bound.
func (s *simplex) violated() (int, bool) {
	for v := range s.total {
		if s.rowOf[v] < 0 {
			continue
		}
		if s.lower[v] != nil && s.value[v].Cmp(s.lower[v]) < 0 {
			return v, true
		}
		if s.upper[v] != nil && s.value[v].Cmp(s.upper[v]) > 0 {
			return v, false
		}
	}
	return -1, false
}

func (s *simplex) canIncrease(j int) bool {
	return s.upper[j] == nil || s.value[j].Cmp(s.upper[j]) < 0
}

func (s *simplex) canDecrease(j int) bool {
	return s.lower[j] == nil || s.value[j].Cmp(s.lower[j]) > 0
}

func (s *simplex) pivotAndUpdate(r, enter int, target *big.Rat) {
	leave := s.basicOf[r]
	theta := new(big.Rat).Sub(target, s.value[leave])
	theta.Quo(theta, s.tableau[r][enter])

	s.value[leave] = new(big.Rat).Set(target)
	s.value[enter] = new(big.Rat).Add(s.value[enter], theta)
	for k, row := range s.tableau {
		if k == r || row[enter].Sign() == 0 {
			continue
		}
		basic := s.basicOf[k]
		s.value[basic] = new(big.Rat).Add(s.value[basic], new(big.Rat).Mul(row[enter], theta))
	}
	s.pivot(r, enter)
}

// pivot swaps basicOf[r] out and enter in, rewriting every row over the new basis.
func (s *simplex) pivot(r, enter int) {
	leave := s.basicOf[r]
	old := s.tableau[r]
	a := old[enter]

	// leave = a·enter + Σ old[k]·x_k  ⇒  enter = leave/a - Σ (old[k]/a)·x_k
	fresh := zeroRow(s.total)
	for k, coeff := range old {
		if k == enter || coeff.Sign() == 0 {
			continue
		}
		fresh[k].Quo(coeff, a)
		fresh[k].Neg(fresh[k])
	}
	fresh[leave].Inv(a)
	s.tableau[r] = fresh

	for q, row := range s.tableau {
		c := row[enter]
		if q == r || c.Sign() == 0 {
			continue
		}
		c = new(big.Rat).Set(c)
		row[enter] = new(big.Rat)
		for k, coeff := range fresh {
			if coeff.Sign() == 0 {
				continue
			}
			row[k].Add(row[k], new(big.Rat).Mul(c, coeff))
		}
	}

	s.basicOf[r] = enter
	s.rowOf[enter] = r
	s.rowOf[leave] = -1
}

// values returns the assignment of the structural variables.
func (s *simplex) values() []*big.Rat {
	return s.value[:s.n]
}

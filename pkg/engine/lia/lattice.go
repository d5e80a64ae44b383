package lia

import (
	"math/big"
	"strconv"
	"strings"
)

// equalities collects the rows pinned from both sides, Σcx ≤ k together with
// Σ(-c)x ≤ -k, as dense equations Σcx = k over n variables.
func equalities(n int, rows []*atom) ([][]*big.Int, []*big.Int) {
	seen := make(map[string]*atom, len(rows))
	var matrix [][]*big.Int
	var rhs []*big.Int
	for _, row := range rows {
		if other, ok := seen[coefficientKey(row, true)]; ok && new(big.Int).Neg(other.bound).Cmp(row.bound) == 0 {
			dense := make([]*big.Int, n)
			for i := range dense {
				dense[i] = new(big.Int)
			}
			for k, id := range row.ids {
				dense[id].Set(row.coeffs[k])
			}
			matrix = append(matrix, dense)
			rhs = append(rhs, new(big.Int).Set(row.bound))
		}
		seen[coefficientKey(row, false)] = row
	}
	return matrix, rhs
}

func coefficientKey(a *atom, negate bool) string {
	var builder strings.Builder
	for i, id := range a.ids {
		coeff := a.coeffs[i]
		if negate {
			coeff = new(big.Int).Neg(coeff)
		}
		builder.WriteString(coeff.String())
		builder.WriteByte('*')
		builder.WriteString(strconv.Itoa(id))
		builder.WriteByte('+')
	}
	return builder.String()
}

// integerSolvable reports whether matrix·x = rhs has an integer solution. Unimodular
// column operations bring the matrix to lower echelon form, after which forward
// substitution must stay integral. The matrix is overwritten.
func integerSolvable(n int, matrix [][]*big.Int, rhs []*big.Int) bool {
	pivots := make([]int, len(matrix))
	col := 0
	for i, row := range matrix {
		pivots[i] = -1
		if col == n {
			continue
		}
		for j := col + 1; j < n; j++ {
			if row[j].Sign() == 0 {
				continue
			}
			// [col j] ← [col j]·[[p -b/g] [q a/g]], determinant 1
			p, q := new(big.Int), new(big.Int)
			g := new(big.Int).GCD(p, q, row[col], row[j])
			bg := new(big.Int).Quo(row[j], g)
			ag := new(big.Int).Quo(row[col], g)
			for _, r := range matrix[i:] {
				u, v := r[col], r[j]
				left := new(big.Int).Mul(p, u)
				left.Add(left, new(big.Int).Mul(q, v))
				right := new(big.Int).Mul(ag, v)
				right.Sub(right, new(big.Int).Mul(bg, u))
				r[col], r[j] = left, right
			}
		}
		if row[col].Sign() != 0 {
			pivots[i] = col
			col++
		}
	}

	var y []*big.Int
	for i, row := range matrix {
		residual := new(big.Int).Set(rhs[i])
		for k, value := range y {
			residual.Sub(residual, new(big.Int).Mul(row[k], value))
		}
		if pivots[i] < 0 {
			if residual.Sign() != 0 {
				return false
			}
			continue
		}
		quotient, remainder := new(big.Int).QuoRem(residual, row[pivots[i]], new(big.Int))
		if remainder.Sign() != 0 {
			return false
		}
		y = append(y, quotient)
	}
	return true
}

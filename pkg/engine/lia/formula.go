package lia

import (
	"math/big"
	"strconv"
	"strings"
)

// atom is the normalized comparison Σ coeffs[i]·x[ids[i]] ≤ bound. The gcd of the
// coefficients is 1 and the lowest id has a positive coefficient.
type atom struct {
	ids    []int
	coeffs []*big.Int
	bound  *big.Int
}

func (a *atom) key() string {
	var builder strings.Builder
	for i, id := range a.ids {
		builder.WriteString(a.coeffs[i].String())
		builder.WriteByte('*')
		builder.WriteString(strconv.Itoa(id))
		builder.WriteByte('+')
	}
	builder.WriteString("<=")
	builder.WriteString(a.bound.String())
	return builder.String()
}

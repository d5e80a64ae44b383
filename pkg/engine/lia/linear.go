package lia

import (
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// linear is Σ cᵢxᵢ + constant over theory variable ids. Zero coefficients are never stored.
type linear struct {
	coeffs   map[int]*big.Int
	constant *big.Int
}

func constLinear(value *big.Int) linear {
	return linear{coeffs: map[int]*big.Int{}, constant: new(big.Int).Set(value)}
}

func varLinear(id int) linear {
	return linear{coeffs: map[int]*big.Int{id: big.NewInt(1)}, constant: new(big.Int)}
}

func (l linear) isConstant() bool {
	return len(l.coeffs) == 0
}

// ids returns the variables of l in ascending order.
func (l linear) ids() []int {
	ids := make([]int, 0, len(l.coeffs))
	for id := range l.coeffs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (l linear) add(other linear) linear {
	sum := constLinear(l.constant)
	sum.constant.Add(sum.constant, other.constant)
	for _, term := range []linear{l, other} {
		for id, coeff := range term.coeffs {
			current, ok := sum.coeffs[id]
			if !ok {
				current = new(big.Int)
				sum.coeffs[id] = current
			}
			current.Add(current, coeff)
			if current.Sign() == 0 {
				delete(sum.coeffs, id)
			}
		}
	}
	return sum
}

func (l linear) scale(k *big.Int) linear {
	scaled := constLinear(new(big.Int).Mul(l.constant, k))
	if k.Sign() == 0 {
		return scaled
	}
	for id, coeff := range l.coeffs {
		scaled.coeffs[id] = new(big.Int).Mul(coeff, k)
	}
	return scaled
}

func (l linear) neg() linear {
	return l.scale(big.NewInt(-1))
}

func (l linear) sub(other linear) linear {
	return l.add(other.neg())
}

func (l linear) plus(k int64) linear {
	return l.add(constLinear(big.NewInt(k)))
}

// key identifies l structurally, for caching auxiliary definitions.
func (l linear) key() string {
	var builder strings.Builder
	for _, id := range l.ids() {
		builder.WriteString(l.coeffs[id].String())
		builder.WriteByte('*')
		builder.WriteString(strconv.Itoa(id))
		builder.WriteByte('+')
	}
	builder.WriteString(l.constant.String())
	return builder.String()
}

package expr

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrUnbound        = errors.New("variable has no value")
)

// Env supplies variable values to the evaluator.
type Env func(v Var) (*big.Int, bool)

// MapEnv builds an Env from values indexed by Var.Index.
func MapEnv(values map[int]*big.Int) Env {
	return func(v Var) (*big.Int, bool) {
		value, ok := values[v.Index]
		return value, ok
	}
}

// EvalBool evaluates a Bool-sorted expression with SMT-LIB Ints semantics.
func EvalBool(e Expr, env Env) (bool, error) {
	switch e := e.(type) {
	case BoolLit:
		return bool(e), nil
	case *App:
		return evalBoolApp(e, env)
	default:
		return false, fmt.Errorf("expected Bool term, got %s", e.String())
	}
}

// EvalInt evaluates an Int-sorted expression. div and mod use Euclidean division.
func EvalInt(e Expr, env Env) (*big.Int, error) {
	switch e := e.(type) {
	case IntLit:
		return new(big.Int).Set(e.Value), nil
	case Var:
		value, ok := env(e)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnbound, e.Name)
		}
		return new(big.Int).Set(value), nil
	case *App:
		return evalIntApp(e, env)
	default:
		return nil, fmt.Errorf("expected Int term, got %s", e.String())
	}
}

func evalInts(args []Expr, env Env) ([]*big.Int, error) {
	values := make([]*big.Int, len(args))
	for i, arg := range args {
		value, err := EvalInt(arg, env)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func evalIntApp(e *App, env Env) (*big.Int, error) {
	if e.Op == OpIte {
		cond, err := EvalBool(e.Args[0], env)
		if err != nil {
			return nil, err
		}
		if cond {
			return EvalInt(e.Args[1], env)
		}
		return EvalInt(e.Args[2], env)
	}

	args, err := evalInts(e.Args, env)
	if err != nil {
		return nil, err
	}
	result := new(big.Int)
	switch e.Op {
	case OpAdd:
		for _, arg := range args {
			result.Add(result, arg)
		}
	case OpSub:
		result.Set(args[0])
		for _, arg := range args[1:] {
			result.Sub(result, arg)
		}
	case OpNeg:
		result.Neg(args[0])
	case OpMul:
		result.SetInt64(1)
		for _, arg := range args {
			result.Mul(result, arg)
		}
	case OpDiv, OpMod:
		result.Set(args[0])
		for _, divisor := range args[1:] {
			if divisor.Sign() == 0 {
				return nil, ErrDivisionByZero
			}
			quotient, modulus := new(big.Int), new(big.Int)
			quotient.DivMod(result, divisor, modulus)
			if e.Op == OpDiv {
				result = quotient
			} else {
				result = modulus
			}
		}
	case OpAbs:
		result.Abs(args[0])
	default:
		return nil, fmt.Errorf("operator %s is not Int-sorted", e.Op)
	}
	return result, nil
}

func evalBoolApp(e *App, env Env) (bool, error) {
	switch e.Op {
	case OpLe, OpLt, OpGe, OpGt:
		args, err := evalInts(e.Args, env)
		if err != nil {
			return false, err
		}
		for i := 0; i+1 < len(args); i++ {
			cmp := args[i].Cmp(args[i+1])
			holds := (e.Op == OpLe && cmp <= 0) || (e.Op == OpLt && cmp < 0) ||
				(e.Op == OpGe && cmp >= 0) || (e.Op == OpGt && cmp > 0)
			if !holds {
				return false, nil
			}
		}
		return true, nil
	case OpEq, OpDistinct:
		keys := make([]string, len(e.Args))
		for i, arg := range e.Args {
			key, err := evalKey(arg, env)
			if err != nil {
				return false, err
			}
			keys[i] = key
		}
		if e.Op == OpEq {
			for _, key := range keys[1:] {
				if key != keys[0] {
					return false, nil
				}
			}
			return true, nil
		}
		seen := make(map[string]bool, len(keys))
		for _, key := range keys {
			if seen[key] {
				return false, nil
			}
			seen[key] = true
		}
		return true, nil
	case OpIte:
		cond, err := EvalBool(e.Args[0], env)
		if err != nil {
			return false, err
		}
		if cond {
			return EvalBool(e.Args[1], env)
		}
		return EvalBool(e.Args[2], env)
	}

	args := make([]bool, len(e.Args))
	for i, arg := range e.Args {
		value, err := EvalBool(arg, env)
		if err != nil {
			return false, err
		}
		args[i] = value
	}
	switch e.Op {
	case OpAnd:
		for _, arg := range args {
			if !arg {
				return false, nil
			}
		}
		return true, nil
	case OpOr:
		for _, arg := range args {
			if arg {
				return true, nil
			}
		}
		return false, nil
	case OpNot:
		return !args[0], nil
	case OpImplies: // right associative
		result := args[len(args)-1]
		for i := len(args) - 2; i >= 0; i-- {
			result = !args[i] || result
		}
		return result, nil
	case OpXor:
		result := false
		for _, arg := range args {
			result = result != arg
		}
		return result, nil
	default:
		return false, fmt.Errorf("operator %s is not Bool-sorted", e.Op)
	}
}

// evalKey evaluates an argument of = or distinct, which may be of either sort.
func evalKey(e Expr, env Env) (string, error) {
	if e.Sort() == SortBool {
		value, err := EvalBool(e, env)
		return fmt.Sprint(value), err
	}
	value, err := EvalInt(e, env)
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

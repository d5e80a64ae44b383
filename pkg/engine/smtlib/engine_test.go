package smtlib

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/limaJavier/intsolve/pkg/engine"
	"github.com/limaJavier/intsolve/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	x = expr.Var{Name: "x", Index: 0}
	y = expr.Var{Name: "my var", Index: 1}
)

func TestScript(t *testing.T) {
	//** Arrange
	assertion := expr.NewApp(expr.OpGt, x, expr.Int(-3))

	//** Act
	script := Script([]expr.Var{x, y}, []expr.Expr{assertion})

	//** Assert
	assert.Equal(t, "(set-option :print-success false)\n"+
		"(set-option :produce-models true)\n"+
		"(declare-fun x () Int)\n"+
		"(declare-fun |my var| () Int)\n"+
		"(assert (> x (- 3)))\n"+
		"(check-sat)\n"+
		"(get-value (x |my var|))\n"+
		"(get-info :reason-unknown)\n"+
		"(exit)\n", script)
}

func TestScriptWithoutVariables(t *testing.T) {
	script := Script(nil, []expr.Expr{expr.BoolLit(true)})
	assert.NotContains(t, script, "get-value")
}

func TestParseResponse(t *testing.T) {
	//** Act
	r, err := parseResponse("sat\n((x 5)\n (|my var| (- 12)))\n(:reason-unknown \"\")\n", true)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, engine.StatusSat, r.status)
	m := &model{values: r.values}
	value, err := m.Eval(x, true)
	require.NoError(t, err)
	assert.Equal(t, "5", value.String())
	value, err = m.Eval(y, true)
	require.NoError(t, err)
	number, ok := value.Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(-12), number)
}

func TestParseResponseVerdicts(t *testing.T) {
	r, err := parseResponse("unsat\n(error \"line 7 column 10: model is not available\")\n", true)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusUnsat, r.status)

	r, err = parseResponse("unsat\n", false)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusUnsat, r.status)

	r, err = parseResponse("unknown\n(error \"model is not available\")\n(:reason-unknown \"(incomplete (theory arithmetic))\")\n", true)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusUnknown, r.status)
	assert.Equal(t, "(incomplete (theory arithmetic))", r.reason)

	r, err = parseResponse("sat\n(:reason-unknown \"\")\n", false)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusSat, r.status)
	assert.Empty(t, r.values)

	_, err = parseResponse("(error \"unknown constant z\")\nsat\n((x 1))\n", true)
	assert.True(t, errors.Is(err, ErrSolverError))

	_, err = parseResponse("sat\n(error \"model is not available\")\n", true)
	assert.True(t, errors.Is(err, ErrSolverError))

	_, err = parseResponse("sat\n", true)
	assert.Error(t, err)

	_, err = parseResponse("", false)
	assert.Error(t, err)

	_, err = parseResponse("maybe\n", false)
	assert.Error(t, err)
}

func TestCompletionOfMissingValue(t *testing.T) {
	m := &model{values: map[string]engine.Term{}}

	completed, err := m.Eval(x, true)
	require.NoError(t, err)
	assert.Equal(t, "0", completed.String())

	symbolic, err := m.Eval(x, false)
	require.NoError(t, err)
	assert.False(t, symbolic.IsNumeral())
}

func TestSuppliedTermIsNotCompleted(t *testing.T) {
	//** Arrange
	r, err := parseResponse("sat\n((x (/ 1 2)))\n", true)
	require.NoError(t, err)
	m := &model{values: r.values}

	//** Act
	value, err := m.Eval(x, true)

	//** Assert
	require.NoError(t, err)
	assert.False(t, value.IsNumeral())
	assert.Equal(t, "(/ 1 2)", value.String())
}

// fakeSolver answers every script with a fixed reply through sh.
func fakeSolver(t *testing.T, reply string) *Engine {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}
	return New("sh", []string{"-c", "cat > /dev/null; printf '" + reply + "'"}, nil)
}

func TestCheckThroughProcess(t *testing.T) {
	//** Arrange
	e := fakeSolver(t, `sat\n((x 41))\n`)
	solverCtx, err := e.NewContext()
	require.NoError(t, err)
	defer solverCtx.Close()
	require.NoError(t, solverCtx.Declare(x))
	require.NoError(t, solverCtx.Assert(expr.NewApp(expr.OpGt, x, expr.Int(40))))

	//** Act
	status, err := solverCtx.Check(context.Background())

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, engine.StatusSat, status)
	m, err := solverCtx.Model()
	require.NoError(t, err)
	value, err := m.Eval(x, true)
	require.NoError(t, err)
	assert.Equal(t, "41", value.String())
}

func TestCheckReportsUnknown(t *testing.T) {
	e := fakeSolver(t, `unknown\n`)
	solverCtx, err := e.NewContext()
	require.NoError(t, err)

	status, err := solverCtx.Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, engine.StatusUnknown, status)
	assert.Equal(t, "solver returned unknown", solverCtx.ReasonUnknown())
}

func TestCheckReportsSolverReason(t *testing.T) {
	//** Arrange
	e := fakeSolver(t, `unknown\n(error "model is not available")\n(:reason-unknown "canceled by resource limit")\n`)
	solverCtx, err := e.NewContext()
	require.NoError(t, err)
	require.NoError(t, solverCtx.Declare(x))

	//** Act
	status, err := solverCtx.Check(context.Background())

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, engine.StatusUnknown, status)
	assert.Equal(t, "canceled by resource limit", solverCtx.ReasonUnknown())
}

func TestCheckUnsatWithFailingExit(t *testing.T) {
	//** Arrange
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}
	e := New("sh", []string{"-c", `cat > /dev/null; printf 'unsat\n(error "line 5 column 15: model is not available")\n'; exit 1`}, nil)
	solverCtx, err := e.NewContext()
	require.NoError(t, err)
	require.NoError(t, solverCtx.Declare(x))
	require.NoError(t, solverCtx.Assert(
		expr.NewApp(expr.OpGt, x, expr.Int(1)),
		expr.NewApp(expr.OpLt, x, expr.Int(0)),
	))

	//** Act
	status, err := solverCtx.Check(context.Background())

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, engine.StatusUnsat, status)
	_, err = solverCtx.Model()
	assert.Error(t, err)
}

func TestCheckMissingBinary(t *testing.T) {
	e := New("definitely-not-a-solver-binary", nil, nil)
	solverCtx, err := e.NewContext()
	require.NoError(t, err)

	_, err = solverCtx.Check(context.Background())

	assert.Error(t, err)
}

func TestZ3(t *testing.T) {
	if _, err := exec.LookPath(DefaultCommand); err != nil {
		t.Skipf("%s is not installed", DefaultCommand)
	}

	//** Arrange
	solverCtx, err := New("", nil, nil).NewContext()
	require.NoError(t, err)
	defer solverCtx.Close()
	require.NoError(t, solverCtx.Declare(x))
	require.NoError(t, solverCtx.Declare(y))
	require.NoError(t, solverCtx.Assert(
		expr.NewApp(expr.OpEq, expr.NewApp(expr.OpAdd, x, y), expr.Int(10)),
		expr.NewApp(expr.OpEq, expr.NewApp(expr.OpSub, x, y), expr.Int(4)),
	))

	//** Act
	status, err := solverCtx.Check(context.Background())

	//** Assert
	require.NoError(t, err)
	require.Equal(t, engine.StatusSat, status)
	m, err := solverCtx.Model()
	require.NoError(t, err)
	value, err := m.Eval(x, true)
	require.NoError(t, err)
	assert.Equal(t, "7", value.String())
}

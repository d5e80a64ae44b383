package solve

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/intsolve/pkg/config"
	"github.com/limaJavier/intsolve/pkg/engine/lia"
	ierr "github.com/limaJavier/intsolve/pkg/err"
	"github.com/limaJavier/intsolve/pkg/model"
	"github.com/limaJavier/intsolve/pkg/sat"
)

func newSolver(options ...Option) *Solver {
	return New(lia.New(nil), options...)
}

func integer(t *testing.T, result model.Result, name string) int64 {
	t.Helper()
	value, ok := result.Values[name]
	require.True(t, ok, "missing value for %s", name)
	number, ok := value.Int64()
	require.True(t, ok, "value of %s is not an integer: %s", name, value.String())
	return number
}

func TestEmptyRequestIsSat(t *testing.T) {
	g := NewWithT(t)

	result := newSolver().Solve(context.Background(), model.Request{})

	g.Expect(result.Satisfiable).To(BeTrue())
	g.Expect(result.Status).To(Equal(model.StatusSat))
	g.Expect(result.Values).To(BeEmpty())
	g.Expect(result.Error).To(BeEmpty())

	bytes, err := json.Marshal(result)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(bytes).To(MatchJSON(`{"satisfiable": true, "status": "sat", "values": {}}`))
}

func TestSatisfiableRequest(t *testing.T) {
	//** Arrange
	request := model.Request{
		VarNames: []string{"x", "y"},
		Clauses:  []string{"(> x 3)", "(= (+ x y) 10)"},
	}

	//** Act
	result := newSolver().Solve(context.Background(), request)

	//** Assert
	require.True(t, result.Satisfiable, result.Error)
	x, y := integer(t, result, "x"), integer(t, result, "y")
	assert.Greater(t, x, int64(3))
	assert.Equal(t, int64(10), x+y)
}

func TestUnconstrainedVariableIsCompleted(t *testing.T) {
	request := model.Request{VarNames: []string{"x", "free"}, Clauses: []string{"(= x 1)"}}

	result := newSolver().Solve(context.Background(), request)

	require.True(t, result.Satisfiable, result.Error)
	assert.Len(t, result.Values, 2)
	assert.Equal(t, int64(0), integer(t, result, "free"))
}

func TestUnsatisfiableRequest(t *testing.T) {
	g := NewWithT(t)
	request := model.Request{VarNames: []string{"x"}, Clauses: []string{"(> x 3)", "(< x 3)"}}

	result := newSolver().Solve(context.Background(), request)

	g.Expect(result.Satisfiable).To(BeFalse())
	g.Expect(result.Status).To(Equal(model.StatusUnsat))
	g.Expect(result.Values).To(BeEmpty())
	g.Expect(result.Error).To(BeEmpty())
}

func TestRequestErrors(t *testing.T) {
	cases := map[string]struct {
		request model.Request
		kind    ierr.Kind
		status  model.Status
	}{
		"unknown identifier": {
			request: model.Request{VarNames: []string{"x"}, Clauses: []string{"(> y 3)"}},
			kind:    ierr.KindUnknownIdentifier,
			status:  model.StatusError,
		},
		"syntax error": {
			request: model.Request{VarNames: []string{"x"}, Clauses: []string{"(> x 3"}},
			kind:    ierr.KindSyntaxError,
			status:  model.StatusError,
		},
		"duplicate variable": {
			request: model.Request{VarNames: []string{"x", "x"}},
			kind:    ierr.KindInvalidRequest,
			status:  model.StatusError,
		},
		"nonlinear": {
			request: model.Request{VarNames: []string{"x", "y"}, Clauses: []string{"(= (* x y) 6)"}},
			kind:    ierr.KindUnknown,
			status:  model.StatusUnknown,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			g := NewWithT(t)

			result := newSolver().Solve(context.Background(), c.request)

			g.Expect(result.Satisfiable).To(BeFalse())
			g.Expect(result.Values).To(BeEmpty())
			g.Expect(result.ErrorKind).To(Equal(c.kind))
			g.Expect(result.Status).To(Equal(c.status))
			g.Expect(result.Error).NotTo(BeEmpty())
		})
	}
}

func TestCanceledContextIsUnknown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	request := model.Request{VarNames: []string{"x"}, Clauses: []string{"(> x 3)"}}

	result := newSolver().Solve(ctx, request)

	assert.Equal(t, model.StatusUnknown, result.Status)
	assert.Equal(t, ierr.KindUnknown, result.ErrorKind)
	assert.Contains(t, result.Error, "canceled")
}

func TestSolveIsDeterministic(t *testing.T) {
	g := NewWithT(t)
	request := model.Request{
		VarNames: []string{"a", "b", "c"},
		Clauses:  []string{"(distinct a b c)", "(<= 0 a 5)", "(<= 0 b 5)", "(<= 0 c 5)", "(> (+ a b) c)"},
	}
	solver := newSolver()

	first := solver.Solve(context.Background(), request)
	second := solver.Solve(context.Background(), request)

	g.Expect(first.Satisfiable).To(BeTrue(), first.Error)
	g.Expect(second).To(Equal(first))
}

func TestLargeValuesAreText(t *testing.T) {
	//** Arrange
	request := model.Request{
		VarNames: []string{"big", "small"},
		Clauses:  []string{"(= big 100000000000000000000)", "(= small (- 7))"},
	}

	//** Act
	result := newSolver().Solve(context.Background(), request)

	//** Assert
	require.True(t, result.Satisfiable, result.Error)
	text, ok := result.Values["big"].Text()
	require.True(t, ok)
	assert.Equal(t, "100000000000000000000", text)
	assert.Equal(t, int64(-7), integer(t, result, "small"))
}

func TestIntWidth32(t *testing.T) {
	request := model.Request{
		VarNames: []string{"x", "y"},
		Clauses:  []string{"(= x 2147483648)", "(= y 2147483647)"},
	}

	result := newSolver(WithIntWidth(32)).Solve(context.Background(), request)

	require.True(t, result.Satisfiable, result.Error)
	assert.Equal(t, model.ValueText, result.Values["x"].Kind())
	assert.Equal(t, int64(2147483647), integer(t, result, "y"))
}

func TestSolveBatchKeepsOrder(t *testing.T) {
	g := NewWithT(t)
	requests := make([]model.Request, 12)
	for i := range requests {
		requests[i] = model.Request{VarNames: []string{"x"}, Clauses: []string{fmt.Sprintf("(= x %d)", i)}}
	}
	requests[5] = model.Request{VarNames: []string{"x"}, Clauses: []string{"(< x x)"}}

	results := newSolver(WithWorkers(3)).SolveBatch(context.Background(), requests)

	g.Expect(results).To(HaveLen(len(requests)))
	for i, result := range results {
		if i == 5 {
			g.Expect(result.Status).To(Equal(model.StatusUnsat))
			continue
		}
		g.Expect(result.Satisfiable).To(BeTrue(), result.Error)
		g.Expect(integer(t, result, "x")).To(Equal(int64(i)))
	}
}

func TestResultJSON(t *testing.T) {
	request := model.Request{VarNames: []string{"x"}, Clauses: []string{"(= x 42)"}}
	result := newSolver().Solve(context.Background(), request)

	bytes, err := json.Marshal(result)

	require.NoError(t, err)
	assert.JSONEq(t, `{"satisfiable": true, "status": "sat", "values": {"x": 42}}`, string(bytes))
}

func TestFromConfig(t *testing.T) {
	//** Arrange
	cfg := config.Default()
	cfg.SATSolver = sat.Gini
	cfg.Timeout = time.Second
	cfg.IntWidth = 32

	//** Act
	solver, err := FromConfig(cfg, nil)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, lia.Name, solver.Engine().Name())
	assert.Equal(t, time.Second, solver.timeout)
	assert.Equal(t, 32, solver.intWidth)
}

func TestFromConfigRejectsInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Engine = "cvc5"

	_, err := FromConfig(cfg, nil)

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

package main

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/intsolve/pkg/engine/lia"
	"github.com/limaJavier/intsolve/pkg/model"
	"github.com/limaJavier/intsolve/pkg/sat"
	"github.com/limaJavier/intsolve/pkg/solve"
)

func TestNumeral(t *testing.T) {
	assert.Equal(t, "7", numeral(7))
	assert.Equal(t, "0", numeral(0))
	assert.Equal(t, "(- 3)", numeral(-3))
}

func TestGeneratedRequestsParse(t *testing.T) {
	//** Arrange
	request := generateRequest(rand.New(rand.NewPCG(1, 2)), 5, 8)
	solver := solve.New(lia.New(sat.NewGophersatSolver()))

	//** Act
	result := solver.Solve(context.Background(), request)

	//** Assert
	assert.Len(t, request.VarNames, 5)
	assert.Len(t, request.Clauses, 5+8)
	assert.NotEqual(t, model.StatusError, result.Status, result.Error)
}

func TestRecordMatchesHeader(t *testing.T) {
	r := record(BenchmarkResult{
		Oracle:   sat.Gini,
		Instance: InstanceMetadata{Name: "random-0", Variables: 4, Clauses: 6},
		Duration: 12,
		Result:   model.StatusSat,
	})

	require.Len(t, r, len(header()))
	assert.Equal(t, []string{"gini", "random-0", "4", "6", "12", "sat"}, r)
}

func TestOraclesIncludeInProcess(t *testing.T) {
	assert.Subset(t, getOracles(), sat.InProcess)
}

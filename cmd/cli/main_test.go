package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/intsolve/pkg/model"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadSingleRequest(t *testing.T) {
	path := writeInput(t, `{"varNames": ["x"], "clauses": ["(> x 3)"]}`)

	requests, batch, err := readRequests(path)

	require.NoError(t, err)
	assert.False(t, batch)
	assert.Equal(t, []model.Request{{VarNames: []string{"x"}, Clauses: []string{"(> x 3)"}}}, requests)
}

func TestReadBatch(t *testing.T) {
	path := writeInput(t, `[{"varNames": ["x"], "clauses": []}, {"varNames": [], "clauses": ["true"]}]`)

	requests, batch, err := readRequests(path)

	require.NoError(t, err)
	assert.True(t, batch)
	require.Len(t, requests, 2)
	assert.Equal(t, []string{"true"}, requests[1].Clauses)
}

func TestReadRejects(t *testing.T) {
	for name, content := range map[string]string{
		"not json":    `{"varNames": [`,
		"scalar":      `42`,
		"unknown key": `{"vars": ["x"]}`,
		"wrong type":  `{"varNames": "x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := readRequests(writeInput(t, content))
			assert.Error(t, err)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 10, exitCode(model.Result{Status: model.StatusSat}))
	assert.Equal(t, 20, exitCode(model.Result{Status: model.StatusUnsat}))
	assert.Equal(t, 30, exitCode(model.Result{Status: model.StatusUnknown}))
	assert.Equal(t, 1, exitCode(model.Result{Status: model.StatusError}))
}

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	//** Arrange
	path := writeFile(t, "config.json", `{
		"engine": "lia",
		"satSolver": "gini",
		"timeout": "1500ms",
		"intWidth": 32,
		"workers": 4,
		"solverPaths": {"kissat": "/opt/bin/kissat"}
	}`)

	//** Act
	config, err := Load(path)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "gini", config.SATSolver)
	assert.Equal(t, 1500*time.Millisecond, config.Timeout)
	assert.Equal(t, 32, config.IntWidth)
	assert.Equal(t, 4, config.Workers)
	assert.Equal(t, "/opt/bin/kissat", config.SolverPaths["kissat"])
	assert.Equal(t, Default().MaxRounds, config.MaxRounds)
}

func TestLoadYAML(t *testing.T) {
	//** Arrange
	path := writeFile(t, "config.yaml", `
engine: smtlib
timeout: 2s
logLevel: debug
smtlib:
  command: /usr/local/bin/z3
  args: ["-in"]
`)

	//** Act
	config, err := Load(path)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "smtlib", config.Engine)
	assert.Equal(t, 2*time.Second, config.Timeout)
	assert.Equal(t, "/usr/local/bin/z3", config.SMTLIB.Command)
	assert.Equal(t, []string{"-in"}, config.SMTLIB.Args)
	level, err := config.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	config, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), config)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, 64, config.IntWidth)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"unknown engine": `{"engine": "cvc5"}`,
		"unknown solver": `{"satSolver": "glucose"}`,
		"width":          `{"intWidth": 16}`,
		"timeout":        `{"timeout": "-1s"}`,
		"unused key":     `{"tiemout": "1s"}`,
		"log level":      `{"logLevel": "loud"}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			//** Arrange
			path := writeFile(t, "config.json", content)

			//** Act
			_, err := Load(path)

			//** Assert
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

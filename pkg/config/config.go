// Package config loads the service configuration from JSON or YAML files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"sigs.k8s.io/yaml"

	"github.com/limaJavier/intsolve/pkg/engine/lia"
	"github.com/limaJavier/intsolve/pkg/engine/smtlib"
	"github.com/limaJavier/intsolve/pkg/sat"
)

var ErrInvalidConfig = errors.New("invalid config")

type SMTLIB struct {
	Command string   `mapstructure:"command" json:"command"`
	Args    []string `mapstructure:"args" json:"args"`
}

type Config struct {
	Engine         string            `mapstructure:"engine" json:"engine"`
	SATSolver      string            `mapstructure:"satSolver" json:"satSolver"`
	Timeout        time.Duration     `mapstructure:"timeout" json:"timeout"`
	IntWidth       int               `mapstructure:"intWidth" json:"intWidth"`
	MaxRounds      int               `mapstructure:"maxRounds" json:"maxRounds"`
	MaxBranchNodes int               `mapstructure:"maxBranchNodes" json:"maxBranchNodes"`
	Workers        int               `mapstructure:"workers" json:"workers"`
	SolverPaths    map[string]string `mapstructure:"solverPaths" json:"solverPaths"`
	SMTLIB         SMTLIB            `mapstructure:"smtlib" json:"smtlib"`
	LogLevel       string            `mapstructure:"logLevel" json:"logLevel"`
}

func Default() Config {
	return Config{
		Engine:         lia.Name,
		SATSolver:      sat.Gophersat,
		Timeout:        10 * time.Second,
		IntWidth:       64,
		MaxRounds:      lia.DefaultMaxRounds,
		MaxBranchNodes: lia.DefaultMaxBranchNodes,
		SolverPaths:    map[string]string{},
		SMTLIB: SMTLIB{
			Command: smtlib.DefaultCommand,
			Args:    slices.Clone(smtlib.DefaultArgs),
		},
		LogLevel: "info",
	}
}

// Load reads path, a .json, .yaml or .yml file, on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		bytes, err = yaml.YAMLToJSON(bytes)
		if err != nil {
			return Config{}, fmt.Errorf("cannot parse yaml config %s: %w", path, err)
		}
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Config{}, fmt.Errorf("cannot parse config %s: %w", path, err)
	}
	return Decode(inputJson)
}

// Decode applies raw settings on top of the defaults and validates the result.
func Decode(raw map[string]any) (Config, error) {
	config := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		ZeroFields:  true,
		Result:      &config,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Engine != lia.Name && c.Engine != smtlib.Name {
		errs = append(errs, fmt.Errorf("engine %q must be %q or %q", c.Engine, lia.Name, smtlib.Name))
	}
	if !slices.Contains(sat.Backends(), c.SATSolver) {
		errs = append(errs, fmt.Errorf("satSolver %q must be one of %v", c.SATSolver, sat.Backends()))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", c.Timeout))
	}
	if c.IntWidth != 32 && c.IntWidth != 64 {
		errs = append(errs, fmt.Errorf("intWidth must be 32 or 64, got %d", c.IntWidth))
	}
	if c.MaxRounds <= 0 || c.MaxBranchNodes <= 0 {
		errs = append(errs, fmt.Errorf("maxRounds and maxBranchNodes must be positive"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Level parses LogLevel as a slog level name.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("logLevel %q: %w", c.LogLevel, err)
	}
	return level, nil
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/limaJavier/intsolve/pkg/config"
	"github.com/limaJavier/intsolve/pkg/model"
	"github.com/limaJavier/intsolve/pkg/solve"
)

const (
	exitSat     = 10
	exitUnsat   = 20
	exitUnknown = 30
	exitError   = 1
)

func main() {
	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the request file: one {\"varNames\": [...], \"clauses\": [...]} object, or an array of them for a batch")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	configPathPtr := flag.String("config", "", "Path to a JSON or YAML configuration file; if empty, the defaults are used")
	enginePtr := flag.String("engine", "", "Engine to use: \"lia\" or \"smtlib\"; overrides the configuration")
	solverPtr := flag.String("solver", "", "SAT oracle of the lia engine: \"gophersat\", \"gini\", \"kissat\", \"cadical\", \"cryptominisat\" or \"minisat\"; overrides the configuration")
	timeoutPtr := flag.Duration("timeout", 0, "Per-request timeout, e.g. 500ms or 5s; overrides the configuration")
	flag.Parse()
	filePath := *filePathPtr
	outFile := *outFilePathPtr

	if filePath == "" {
		log.Fatal("an input file must be specified")
	}

	// Resolve configuration
	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	if *enginePtr != "" {
		cfg.Engine = strings.ToLower(*enginePtr)
	}
	if *solverPtr != "" {
		cfg.SATSolver = strings.ToLower(*solverPtr)
	}
	if *timeoutPtr != 0 {
		cfg.Timeout = *timeoutPtr
	}
	level, err := cfg.Level()
	if err != nil {
		log.Fatalf("invalid log level: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	solver, err := solve.FromConfig(cfg, logger)
	if err != nil {
		log.Fatalf("cannot initialize solver: %v", err)
	}

	// Extract input
	requests, batch, err := readRequests(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	start := time.Now()
	var output any
	code := 0
	if batch {
		output = solver.SolveBatch(context.Background(), requests)
	} else {
		result := solver.Solve(context.Background(), requests[0])
		output = result
		code = exitCode(result)
	}
	logger.Info("finished",
		slog.Int("requests", len(requests)),
		slog.Duration("elapsed", time.Since(start)),
	)

	// Marshal output into json
	outputJson, err := json.Marshal(output)
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(outputJson))
	} else if err := os.WriteFile(outFile, outputJson, 0666); err != nil {
		log.Fatalf("an error occurred while writing to the output file: %v", err)
	}

	os.Exit(code)
}

// readRequests decodes a single request or an array of requests. The second return
// value reports whether the file held an array.
func readRequests(path string) ([]model.Request, bool, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("cannot read input file: %w", err)
	}

	var inputJson any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return nil, false, fmt.Errorf("cannot parse json: %w", err)
	}

	switch raw := inputJson.(type) {
	case map[string]any:
		request, err := decodeRequest(raw)
		if err != nil {
			return nil, false, err
		}
		return []model.Request{request}, false, nil
	case []any:
		requests := make([]model.Request, len(raw))
		for i, item := range raw {
			request, err := decodeRequest(item)
			if err != nil {
				return nil, true, fmt.Errorf("request %d: %w", i, err)
			}
			requests[i] = request
		}
		return requests, true, nil
	default:
		return nil, false, fmt.Errorf("input must be a request object or an array of requests")
	}
}

func decodeRequest(raw any) (model.Request, error) {
	var request model.Request
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &request,
	})
	if err != nil {
		return model.Request{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return model.Request{}, fmt.Errorf("cannot decode request: %w", err)
	}
	return request, nil
}

func exitCode(result model.Result) int {
	switch result.Status {
	case model.StatusSat:
		return exitSat
	case model.StatusUnsat:
		return exitUnsat
	case model.StatusUnknown:
		return exitUnknown
	default:
		return exitError
	}
}

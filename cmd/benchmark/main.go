package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/limaJavier/intsolve/pkg/engine/lia"
	"github.com/limaJavier/intsolve/pkg/model"
	"github.com/limaJavier/intsolve/pkg/sat"
	"github.com/limaJavier/intsolve/pkg/solve"
)

const (
	resultsFile = "benchmark_results.csv"
	seed        = 42
	timeout     = 30 * time.Second
)

type InstanceMetadata struct {
	Name      string
	Variables int
	Clauses   int
	Request   model.Request
}

type BenchmarkResult struct {
	Oracle   string
	Instance InstanceMetadata
	Duration int64
	Result   model.Status
}

var sizes = []lo.Tuple2[int, int]{
	lo.T2(4, 6),
	lo.T2(8, 12),
	lo.T2(12, 20),
	lo.T2(16, 32),
	lo.T2(24, 48),
}

func main() {
	instances := getInstances()
	oracles := getOracles()
	results := make([]BenchmarkResult, 0, len(instances)*len(oracles))

	for _, instance := range instances {
		for _, oracle := range oracles {
			fmt.Printf("Benchmarking instance \"%v\" with oracle \"%v\"\n", instance.Name, oracle)
			duration, result := measure(oracle, instance)
			results = append(results, BenchmarkResult{
				Oracle:   oracle,
				Instance: instance,
				Duration: duration,
				Result:   result,
			})
		}
	}

	toCsv(results)
}

// getOracles returns the in-process oracles and the external ones found on PATH.
func getOracles() []string {
	installed := lo.Filter(sat.External, func(name string, _ int) bool {
		_, err := exec.LookPath(name)
		return err == nil
	})
	return append(append([]string{}, sat.InProcess...), installed...)
}

func getInstances() []InstanceMetadata {
	rng := rand.New(rand.NewPCG(seed, seed))
	return lo.Map(sizes, func(size lo.Tuple2[int, int], i int) InstanceMetadata {
		variables, clauses := size.Unpack()
		return InstanceMetadata{
			Name:      fmt.Sprintf("random-%d-%dx%d", i, variables, clauses),
			Variables: variables,
			Clauses:   clauses,
			Request:   generateRequest(rng, variables, clauses),
		}
	})
}

// generateRequest draws bounded variables and clauses that are disjunctions of two
// random linear inequalities over three variables each.
func generateRequest(rng *rand.Rand, variables, clauses int) model.Request {
	names := make([]string, variables)
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i)
	}

	request := model.Request{VarNames: names, Clauses: make([]string, 0, variables+clauses)}
	for _, name := range names {
		request.Clauses = append(request.Clauses, fmt.Sprintf("(<= %s %s 20)", numeral(-20), name))
	}

	inequality := func() string {
		terms := make([]string, 3)
		for i := range terms {
			coefficient := rng.IntN(9) - 4
			if coefficient == 0 {
				coefficient = 1
			}
			terms[i] = fmt.Sprintf("(* %s %s)", numeral(coefficient), names[rng.IntN(variables)])
		}
		op := []string{"<=", ">=", "<="}[rng.IntN(3)]
		return fmt.Sprintf("(%s (+ %s) %s)", op, strings.Join(terms, " "), numeral(rng.IntN(21)-10))
	}
	for range clauses {
		request.Clauses = append(request.Clauses, fmt.Sprintf("(or %s %s)", inequality(), inequality()))
	}
	return request
}

func numeral(value int) string {
	if value < 0 {
		return fmt.Sprintf("(- %d)", -value)
	}
	return fmt.Sprint(value)
}

func measure(oracle string, instance InstanceMetadata) (duration int64, result model.Status) {
	satSolver, err := sat.New(oracle, nil)
	if err != nil {
		log.Fatalf("cannot create oracle \"%v\": %v", oracle, err)
	}
	solver := solve.New(lia.New(satSolver), solve.WithTimeout(timeout))

	start := time.Now()
	response := solver.Solve(context.Background(), instance.Request)
	duration = time.Since(start).Milliseconds()

	if response.Status == model.StatusError {
		log.Fatalf("an error occurred at instance \"%v\" using oracle \"%v\": %v", instance.Name, oracle, response.Error)
	}
	return duration, response.Status
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create(resultsFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header()); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}
	for _, result := range results {
		if err := writer.Write(record(result)); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func header() []string {
	return []string{"Oracle", "Instance", "Variables", "Clauses", "Duration(ms)", "Result"}
}

func record(result BenchmarkResult) []string {
	return []string{
		result.Oracle,
		result.Instance.Name,
		fmt.Sprintf("%d", result.Instance.Variables),
		fmt.Sprintf("%d", result.Instance.Clauses),
		fmt.Sprintf("%d", result.Duration),
		string(result.Result),
	}
}

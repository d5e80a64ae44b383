package model

import (
	"encoding/json"

	ierr "github.com/limaJavier/intsolve/pkg/err"
)

type Status string

const (
	StatusSat     Status = "sat"
	StatusUnsat   Status = "unsat"
	StatusUnknown Status = "unknown"
	StatusError   Status = "error"
)

// Request is one independent problem instance.
type Request struct {
	VarNames []string `json:"varNames" mapstructure:"varNames"`
	Clauses  []string `json:"clauses" mapstructure:"clauses"`
}

// Result is the response of one request. Invariants:
//   - Error set implies Satisfiable false and no Values
//   - Satisfiable true implies one entry in Values per declared variable
type Result struct {
	Satisfiable bool             `json:"satisfiable"`
	Status      Status           `json:"status"`
	Values      map[string]Value `json:"values,omitempty"`
	Error       string           `json:"error,omitempty"`
	ErrorKind   ierr.Kind        `json:"errorKind,omitempty"`
}

// MarshalJSON writes values exactly when the result is satisfiable, as {} for a
// request without variables.
func (r Result) MarshalJSON() ([]byte, error) {
	type wire struct {
		Satisfiable bool              `json:"satisfiable"`
		Status      Status            `json:"status"`
		Values      *map[string]Value `json:"values,omitempty"`
		Error       string            `json:"error,omitempty"`
		ErrorKind   ierr.Kind         `json:"errorKind,omitempty"`
	}
	w := wire{Satisfiable: r.Satisfiable, Status: r.Status, Error: r.Error, ErrorKind: r.ErrorKind}
	if r.Satisfiable {
		values := r.Values
		if values == nil {
			values = map[string]Value{}
		}
		w.Values = &values
	}
	return json.Marshal(w)
}

func SatResult(values map[string]Value) Result {
	return Result{Satisfiable: true, Status: StatusSat, Values: values}
}

func UnsatResult() Result {
	return Result{Status: StatusUnsat}
}

// ErrorResult reports err; Unknown-kind errors get the unknown status.
func ErrorResult(err error) Result {
	kind := ierr.KindOf(err)
	status := StatusError
	if kind == ierr.KindUnknown {
		status = StatusUnknown
	}
	return Result{Status: status, Error: err.Error(), ErrorKind: kind}
}

// Package model holds the request-scoped data of the pipeline: the variable registry, the
// per-variable values and the result returned to callers.
package model

import (
	"fmt"

	ierr "github.com/limaJavier/intsolve/pkg/err"
	"github.com/limaJavier/intsolve/pkg/expr"
)

// Registry declares one integer variable per input name, keeping input order.
// Values are correlated back to names by index, never by re-lookup.
type Registry struct {
	vars   []expr.Var
	byName map[string]expr.Var
}

// NewRegistry declares names in order. Duplicate names are rejected as a caller error.
func NewRegistry(names []string) (*Registry, error) {
	registry := &Registry{
		vars:   make([]expr.Var, len(names)),
		byName: make(map[string]expr.Var, len(names)),
	}
	for i, name := range names {
		if first, ok := registry.byName[name]; ok {
			return nil, ierr.New(ierr.KindInvalidRequest, ierr.ErrDuplicateVariable,
				"variable %q declared at positions %d and %d", name, first.Index, i)
		}
		v := expr.Var{Name: name, Index: i}
		registry.vars[i] = v
		registry.byName[name] = v
	}
	return registry, nil
}

// Lookup resolves a free identifier of a clause.
func (r *Registry) Lookup(name string) (expr.Var, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// Vars returns the declarations in registry order.
func (r *Registry) Vars() []expr.Var {
	return r.vars
}

func (r *Registry) Len() int {
	return len(r.vars)
}

func (r *Registry) String() string {
	return fmt.Sprintf("registry(%d vars)", len(r.vars))
}

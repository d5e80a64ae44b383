// Package err defines the error taxonomy shared by the clause parser, the engines and the
// solve pipeline.
package err

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can tell a confirmed unsat apart from a fault.
type Kind string

const (
	KindUnknownIdentifier Kind = "UnknownIdentifier"
	KindSyntaxError       Kind = "SyntaxError"
	KindEngineFault       Kind = "EngineFault"
	KindUnknown           Kind = "Unknown"
	KindInvalidRequest    Kind = "InvalidRequest"
)

var (
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrSyntax            = errors.New("syntax error")
	ErrEngineFault       = errors.New("engine fault")
	ErrUnknown           = errors.New("solver returned unknown")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrDuplicateVariable = fmt.Errorf("%w: duplicate variable name", ErrInvalidRequest)
)

var sentinels = map[Kind]error{
	KindUnknownIdentifier: ErrUnknownIdentifier,
	KindSyntaxError:       ErrSyntax,
	KindEngineFault:       ErrEngineFault,
	KindUnknown:           ErrUnknown,
	KindInvalidRequest:    ErrInvalidRequest,
}

// Error is the structured error reported for a request.
//
// Clause is -1 when the failure is not attributable to a single clause.
type Error struct {
	Kind    Kind
	Clause  int
	Text    string // offending clause text, empty when Clause is -1
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Clause >= 0 {
		return fmt.Sprintf("%s: clause %d %q: %s", e.Kind, e.Clause, e.Text, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel, ok := sentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// New creates an error that is not tied to a clause.
func New(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Clause: -1, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// InClause creates an error attributed to the clause at index with the given text.
func InClause(kind Kind, index int, text string, cause error, message string) *Error {
	return &Error{Kind: kind, Clause: index, Text: text, Message: message, Cause: cause}
}

// KindOf returns the kind of err, falling back to EngineFault for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindEngineFault
}

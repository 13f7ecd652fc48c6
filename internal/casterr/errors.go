// Package casterr defines the tagged error type shared by the expression
// layer and the polynomial kernel.
package casterr

import (
	"errors"
	"fmt"
)

// Kind identifies the failure class.
type Kind string

const (
	KindNotAPolynomial        Kind = "not_a_polynomial"
	KindDivisionByZero        Kind = "division_by_zero"
	KindSingularMatrix        Kind = "singular_matrix"
	KindDomain                Kind = "domain_error"
	KindConvergenceFailed     Kind = "convergence_failed"
	KindMaxIterationsExceeded Kind = "max_iterations_exceeded"
	KindDimensionMismatch     Kind = "dimension_mismatch"
	KindInvalidArgument       Kind = "invalid_argument"
)

// Error is a structured kernel error. Op names the failing operation, Value
// renders the offending input when there is one.
type Error struct {
	Kind   Kind
	Op     string
	Value  string
	Reason string
	Limit  int
	Err    error
}

// New creates an error of the given kind.
func New(kind Kind, op, reason string) *Error {
	return &Error{Kind: kind, Op: op, Reason: reason}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (%s)", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" [limit %d]", e.Limit)
	}
	return msg
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so kind sentinels work with
// errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// WithValue records the rendered offending input.
func (e *Error) WithValue(v string) *Error {
	e.Value = v
	return e
}

// WithLimit records the bound that was hit.
func (e *Error) WithLimit(n int) *Error {
	e.Limit = n
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// Sentinels, one per kind.
var (
	ErrNotAPolynomial        = &Error{Kind: KindNotAPolynomial}
	ErrDivisionByZero        = &Error{Kind: KindDivisionByZero}
	ErrSingularMatrix        = &Error{Kind: KindSingularMatrix}
	ErrDomain                = &Error{Kind: KindDomain}
	ErrConvergenceFailed     = &Error{Kind: KindConvergenceFailed}
	ErrMaxIterationsExceeded = &Error{Kind: KindMaxIterationsExceeded}
	ErrDimensionMismatch     = &Error{Kind: KindDimensionMismatch}
	ErrInvalidArgument       = &Error{Kind: KindInvalidArgument}
)

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

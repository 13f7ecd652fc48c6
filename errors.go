package gocas

import "github.com/njchilds90/gocas/internal/casterr"

// Error is the tagged error returned by every fallible operation.
type Error = casterr.Error

// ErrorKind classifies an Error.
type ErrorKind = casterr.Kind

const (
	NotAPolynomial        = casterr.KindNotAPolynomial
	DivisionByZero        = casterr.KindDivisionByZero
	SingularMatrix        = casterr.KindSingularMatrix
	DomainError           = casterr.KindDomain
	ConvergenceFailed     = casterr.KindConvergenceFailed
	MaxIterationsExceeded = casterr.KindMaxIterationsExceeded
	DimensionMismatch     = casterr.KindDimensionMismatch
	InvalidArgument       = casterr.KindInvalidArgument
)

// Sentinels for errors.Is; any *Error of the same kind matches.
var (
	ErrNotAPolynomial        = casterr.ErrNotAPolynomial
	ErrDivisionByZero        = casterr.ErrDivisionByZero
	ErrSingularMatrix        = casterr.ErrSingularMatrix
	ErrDomain                = casterr.ErrDomain
	ErrConvergenceFailed     = casterr.ErrConvergenceFailed
	ErrMaxIterationsExceeded = casterr.ErrMaxIterationsExceeded
	ErrDimensionMismatch     = casterr.ErrDimensionMismatch
	ErrInvalidArgument       = casterr.ErrInvalidArgument
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind { return casterr.KindOf(err) }

func newError(kind ErrorKind, op, reason string) *Error { return casterr.New(kind, op, reason) }

func notAPolynomial(op string, e Expr, reason string) *Error {
	return casterr.New(casterr.KindNotAPolynomial, op, reason).WithValue(e.String())
}

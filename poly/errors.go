package poly

import "github.com/njchilds90/gocas/internal/casterr"

// Error sentinels for errors.Is.
var (
	ErrDivisionByZero        = casterr.ErrDivisionByZero
	ErrConvergenceFailed     = casterr.ErrConvergenceFailed
	ErrMaxIterationsExceeded = casterr.ErrMaxIterationsExceeded
	ErrDimensionMismatch     = casterr.ErrDimensionMismatch
	ErrInvalidArgument       = casterr.ErrInvalidArgument
)

func errDivZero(op string) error {
	return casterr.New(casterr.KindDivisionByZero, op, "zero divisor")
}

func errVars(op string, a, b int) error {
	return casterr.New(casterr.KindDimensionMismatch, op, "variable count mismatch").
		WithValue(itoa(a) + " vs " + itoa(b))
}

func errInvalid(op, reason string) *casterr.Error {
	return casterr.New(casterr.KindInvalidArgument, op, reason)
}

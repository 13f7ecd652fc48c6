package casterr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(KindNotAPolynomial, "to_poly", "non-integer exponent").WithValue("x^(1/2)")
	assert.Equal(t, "to_poly: not_a_polynomial (x^(1/2)): non-integer exponent", err.Error())

	lim := New(KindMaxIterationsExceeded, "groebner", "").WithLimit(10)
	assert.Equal(t, "groebner: max_iterations_exceeded [limit 10]", lim.Error())
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(KindDivisionByZero, "divmod", "zero divisor"))
	assert.True(t, errors.Is(err, ErrDivisionByZero))
	assert.False(t, errors.Is(err, ErrSingularMatrix))
	assert.Equal(t, KindDivisionByZero, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk")
	err := New(KindDomain, "store", "").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

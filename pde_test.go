package gocas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas"
)

// ============================================================
// Laplace equation on a rectangle
// ============================================================

func TestSolveLaplaceRectangle(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	a, b := gocas.N(1), gocas.N(2)
	f := gocas.MulOf(x, gocas.SubOf(gocas.N(1), x))

	sol, err := gocas.SolveLaplaceRectangle(x, y, a, b, f, 3)
	require.NoError(t, err)
	require.Len(t, sol.Coeffs, 3)
	require.Len(t, sol.Coefficients, 3)
	require.Len(t, sol.Eigenvalues, 3)
	assert.NotEmpty(t, sol.Note)

	for n, lambda := range sol.Eigenvalues {
		k := gocas.MulOf(gocas.N(int64(n+1)), gocas.Pi)
		assert.True(t, lambda.Equal(gocas.PowOf(k, gocas.N(2))), "mode %d: %s", n+1, lambda)
	}
	assert.Equal(t, "C1", sol.Coeffs[0].Name())

	// every mode is harmonic, so the whole series is
	lap := gocas.Laplacian(sol.Series, []*gocas.Sym{x, y})
	assert.True(t, lap.Equal(gocas.N(0)), "got %s", lap)

	// u vanishes on x = 0, x = a and y = 0
	for _, edge := range []gocas.Expr{
		gocas.Subs(sol.Series, x, gocas.N(0)),
		gocas.Subs(sol.Series, x, a),
		gocas.Subs(sol.Series, y, gocas.N(0)),
	} {
		assert.True(t, gocas.Simplify(edge).Equal(gocas.N(0)), "got %s", edge)
	}
}

func TestSolveLaplaceRectangle_CoefficientsIntegrate(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	sol, err := gocas.SolveLaplaceRectangle(x, y, gocas.N(1), gocas.N(1), gocas.N(1), 2)
	require.NoError(t, err)

	// ∫₀¹ sin(2πx) dx = 0, so the second coefficient vanishes once evaluated
	c, ok := sol.Coefficients[1].(*gocas.Mul)
	require.True(t, ok, "got %s", sol.Coefficients[1])
	var integral *gocas.Calculus
	for _, fac := range c.Factors() {
		if cal, ok := fac.(*gocas.Calculus); ok {
			integral = cal
		}
	}
	require.NotNil(t, integral)
	bounds := integral.Bounds()
	v := gocas.DefiniteIntegral(integral.Body(), integral.Var(), bounds[0], bounds[1])
	assert.True(t, v.Equal(gocas.N(0)), "got %s", v)
}

func TestSolveLaplaceRectangle_Errors(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	_, err := gocas.SolveLaplaceRectangle(x, y, gocas.N(1), gocas.N(1), x, 0)
	assert.Equal(t, gocas.InvalidArgument, gocas.KindOf(err))

	_, err = gocas.SolveLaplaceRectangle(x, y, gocas.N(0), gocas.N(1), x, 2)
	assert.Equal(t, gocas.DomainError, gocas.KindOf(err))
}

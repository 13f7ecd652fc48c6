package gocas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas"
)

// ============================================================
// Vector calculus
// ============================================================

func TestGradient(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	f := gocas.AddOf(gocas.MulOf(gocas.PowOf(x, gocas.N(2)), y), gocas.SinOf(y))
	g := gocas.Gradient(f, []*gocas.Sym{x, y})
	require.Len(t, g, 2)
	assert.True(t, g[0].Equal(gocas.MulOf(gocas.N(2), x, y)), "got %s", g[0])
	assert.True(t, g[1].Equal(gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.CosOf(y))), "got %s", g[1])
}

func TestJacobian(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	J, err := gocas.Jacobian([]gocas.Expr{gocas.MulOf(x, y), gocas.AddOf(x, y)}, []*gocas.Sym{x, y})
	require.NoError(t, err)
	assert.Equal(t, 2, J.Rows())
	assert.Equal(t, 2, J.Cols())
	assert.True(t, J.At(0, 0).Equal(y))
	assert.True(t, J.At(0, 1).Equal(x))
	assert.True(t, J.At(1, 0).Equal(gocas.N(1)))

	det, err := gocas.Det(J)
	require.NoError(t, err)
	assert.True(t, det.Equal(gocas.SubOf(y, x)), "got %s", det)

	_, err = gocas.Jacobian(nil, []*gocas.Sym{x})
	assert.Equal(t, gocas.DimensionMismatch, gocas.KindOf(err))
}

func TestHessian(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	f := gocas.AddOf(gocas.PowOf(x, gocas.N(3)), gocas.MulOf(x, gocas.PowOf(y, gocas.N(2))))
	H, err := gocas.Hessian(f, []*gocas.Sym{x, y})
	require.NoError(t, err)
	assert.True(t, H.At(0, 0).Equal(gocas.MulOf(gocas.N(6), x)), "got %s", H.At(0, 0))
	assert.True(t, H.At(0, 1).Equal(gocas.MulOf(gocas.N(2), y)), "got %s", H.At(0, 1))
	assert.True(t, H.At(1, 0).Equal(H.At(0, 1)))
	assert.True(t, H.At(1, 1).Equal(gocas.MulOf(gocas.N(2), x)), "got %s", H.At(1, 1))

	_, err = gocas.Hessian(f, nil)
	assert.Equal(t, gocas.DimensionMismatch, gocas.KindOf(err))
}

func TestLaplacian_Harmonic(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	// Re (x + iy)^2 is harmonic
	u := gocas.SubOf(gocas.PowOf(x, gocas.N(2)), gocas.PowOf(y, gocas.N(2)))
	assert.True(t, gocas.Laplacian(u, []*gocas.Sym{x, y}).Equal(gocas.N(0)))

	w := gocas.MulOf(gocas.ExpOf(x), gocas.SinOf(y))
	assert.True(t, gocas.Laplacian(w, []*gocas.Sym{x, y}).Equal(gocas.N(0)))
}

func TestDivergence(t *testing.T) {
	x, y, z := gocas.S("x"), gocas.S("y"), gocas.S("z")
	div, err := gocas.Divergence([]gocas.Expr{x, y, z}, []*gocas.Sym{x, y, z})
	require.NoError(t, err)
	assert.True(t, div.Equal(gocas.N(3)))

	_, err = gocas.Divergence([]gocas.Expr{x}, []*gocas.Sym{x, y})
	assert.Equal(t, gocas.DimensionMismatch, gocas.KindOf(err))
}

func TestCurl(t *testing.T) {
	x, y, z := gocas.S("x"), gocas.S("y"), gocas.S("z")
	vars := [3]*gocas.Sym{x, y, z}

	// rotation field (-y, x, 0) has curl (0, 0, 2)
	c := gocas.Curl([3]gocas.Expr{gocas.Neg(y), x, gocas.N(0)}, vars)
	assert.True(t, c[0].Equal(gocas.N(0)))
	assert.True(t, c[1].Equal(gocas.N(0)))
	assert.True(t, c[2].Equal(gocas.N(2)))

	// a gradient field is curl-free
	phi := gocas.MulOf(x, y, gocas.SinOf(z))
	g := gocas.Gradient(phi, vars[:])
	c = gocas.Curl([3]gocas.Expr{g[0], g[1], g[2]}, vars)
	for i, ci := range c {
		assert.True(t, ci.Equal(gocas.N(0)), "component %d: %s", i, ci)
	}
}

package gocas_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas"
)

// ============================================================
// Single equations
// ============================================================

func TestSolve_Linear(t *testing.T) {
	x := gocas.S("x")
	res, err := gocas.Solve(gocas.Eq(gocas.AddOf(gocas.MulOf(gocas.N(2), x), gocas.N(3)), gocas.N(8)), x)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 1)
	assert.True(t, res.Solutions[0].Equal(gocas.F(5, 2)), "got %s", res.Solutions[0])
	assert.Equal(t, "linear", res.Method)
	assert.True(t, res.Exact)
}

func TestSolve_SymbolicLinear(t *testing.T) {
	x, a, b := gocas.S("x"), gocas.S("a"), gocas.S("b")
	res, err := gocas.Solve(gocas.AddOf(gocas.MulOf(a, x), b), x)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 1)
	assert.True(t, gocas.Equivalent(res.Solutions[0], gocas.Neg(gocas.DivOf(b, a))), "got %s", res.Solutions[0])
}

func TestSolve_DoubleRoot(t *testing.T) {
	x := gocas.S("x")
	res, err := gocas.Solve(gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.MulOf(gocas.N(-2), x), gocas.N(1)), x)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 1)
	assert.True(t, res.Solutions[0].Equal(gocas.N(1)))
}

func TestSolve_ComplexPair(t *testing.T) {
	x := gocas.S("x")
	res, err := gocas.Solve(gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1)), x)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 2)
	for _, s := range res.Solutions {
		c, ok := s.(*gocas.Complex)
		require.True(t, ok, "want a complex root, got %s", s)
		assert.True(t, c.Real().Equal(gocas.N(0)), "got %s", s)
	}
	assert.True(t, gocas.SetOf(res.Solutions...).Equal(gocas.SetOf(gocas.ComplexOf(gocas.N(0), gocas.N(1)), gocas.ComplexOf(gocas.N(0), gocas.N(-1)))))
}

func TestSolve_FactoredCubic(t *testing.T) {
	x := gocas.S("x")
	p := gocas.Expand(gocas.MulOf(gocas.SubOf(x, gocas.N(1)), gocas.SubOf(x, gocas.N(2)), gocas.SubOf(x, gocas.N(3))))
	res, err := gocas.Solve(p, x)
	require.NoError(t, err)
	assert.Equal(t, "factor", res.Method)
	assert.True(t, res.Exact)
	assert.True(t, gocas.SetOf(res.Solutions...).Equal(gocas.SetOf(gocas.N(1), gocas.N(2), gocas.N(3))), "got %v", res.Solutions)
}

func TestSolve_IrreducibleCubic(t *testing.T) {
	x := gocas.S("x")
	res, err := gocas.Solve(gocas.SubOf(gocas.PowOf(x, gocas.N(3)), gocas.N(2)), x)
	require.NoError(t, err)
	assert.False(t, res.Exact)
	require.Len(t, res.Solutions, 1)
	f, err := gocas.Float64(res.Solutions[0])
	require.NoError(t, err)
	assert.InDelta(t, math.Cbrt(2), f, 1e-9)
}

func TestSolve_DropsPoles(t *testing.T) {
	x := gocas.S("x")
	// (x² - 1)/(x - 1) = 0 has only x = -1
	f := gocas.DivOf(gocas.SubOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1)), gocas.SubOf(x, gocas.N(1)))
	res, err := gocas.Solve(f, x)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 1)
	assert.True(t, res.Solutions[0].Equal(gocas.N(-1)))
}

func TestSolve_Inverse(t *testing.T) {
	x := gocas.S("x")
	res, err := gocas.Solve(gocas.Eq(gocas.ExpOf(x), gocas.N(2)), x)
	require.NoError(t, err)
	assert.Equal(t, "inverse", res.Method)
	require.Len(t, res.Solutions, 1)
	assert.True(t, res.Solutions[0].Equal(gocas.LnOf(gocas.N(2))), "got %s", res.Solutions[0])
}

func TestSolve_SpuriousRootDropped(t *testing.T) {
	x := gocas.S("x")
	res, err := gocas.Solve(gocas.Eq(gocas.SqrtOf(x), gocas.N(-3)), x)
	require.NoError(t, err)
	assert.Empty(t, res.Solutions)
}

func TestSolve_Numeric(t *testing.T) {
	x := gocas.S("x")
	res, err := gocas.Solve(gocas.Eq(gocas.CosOf(x), x), x)
	require.NoError(t, err)
	assert.Equal(t, "numeric", res.Method)
	assert.False(t, res.Exact)
	require.NotEmpty(t, res.Solutions)
	for _, s := range res.Solutions {
		f, err := gocas.Float64(s)
		require.NoError(t, err)
		assert.InDelta(t, 0.7390851332151607, f, 1e-9)
	}
}

func TestSolve_Degenerate(t *testing.T) {
	x := gocas.S("x")

	_, err := gocas.Solve(gocas.Eq(x, x), x)
	assert.Equal(t, gocas.InvalidArgument, gocas.KindOf(err))

	res, err := gocas.Solve(gocas.N(3), x)
	require.NoError(t, err)
	assert.Empty(t, res.Solutions)
	assert.Equal(t, "inconsistent", res.Method)

	_, err = gocas.Solve(gocas.RelationOf(x, gocas.N(1), gocas.OpLt), x)
	assert.Equal(t, gocas.InvalidArgument, gocas.KindOf(err))
}

// ============================================================
// Systems
// ============================================================

func TestSolveLinearSystem(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	sol, err := gocas.SolveLinearSystem([]gocas.Expr{
		gocas.Eq(gocas.AddOf(x, y), gocas.N(3)),
		gocas.Eq(gocas.SubOf(x, y), gocas.N(1)),
	}, []*gocas.Sym{x, y})
	require.NoError(t, err)
	require.Len(t, sol, 2)
	assert.True(t, sol[0].Equal(gocas.N(2)), "x = %s", sol[0])
	assert.True(t, sol[1].Equal(gocas.N(1)), "y = %s", sol[1])
}

func TestSolveLinearSystem_Errors(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	vars := []*gocas.Sym{x, y}

	_, err := gocas.SolveLinearSystem([]gocas.Expr{gocas.AddOf(x, y)}, vars)
	assert.Equal(t, gocas.DimensionMismatch, gocas.KindOf(err))

	_, err = gocas.SolveLinearSystem([]gocas.Expr{
		gocas.SubOf(gocas.AddOf(x, y), gocas.N(1)),
		gocas.SubOf(gocas.AddOf(gocas.MulOf(gocas.N(2), x), gocas.MulOf(gocas.N(2), y)), gocas.N(2)),
	}, vars)
	assert.Equal(t, gocas.SingularMatrix, gocas.KindOf(err))

	_, err = gocas.SolveLinearSystem([]gocas.Expr{
		gocas.SubOf(gocas.MulOf(x, y), gocas.N(1)),
		gocas.SubOf(x, y),
	}, vars)
	assert.Equal(t, gocas.InvalidArgument, gocas.KindOf(err))
}

func TestSolvePolynomialSystem(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	sols, err := gocas.SolvePolynomialSystem([]gocas.Expr{
		gocas.SubOf(x, y),
		gocas.SubOf(gocas.PowOf(x, gocas.N(2)), gocas.N(4)),
	}, []*gocas.Sym{x, y})
	require.NoError(t, err)
	require.Len(t, sols, 2)
	got := gocas.SetOf(gocas.SetOf(sols[0]...), gocas.SetOf(sols[1]...))
	for _, s := range sols {
		require.Len(t, s, 2)
		assert.True(t, s[0].Equal(s[1]), "x and y should agree, got %v", s)
	}
	assert.True(t, got.Equal(gocas.SetOf(gocas.SetOf(gocas.N(2)), gocas.SetOf(gocas.N(-2)))), "got %v", sols)
}

func TestSolvePolynomialSystem_Inconsistent(t *testing.T) {
	x := gocas.S("x")
	sols, err := gocas.SolvePolynomialSystem([]gocas.Expr{
		gocas.SubOf(x, gocas.N(1)),
		gocas.SubOf(x, gocas.N(2)),
	}, []*gocas.Sym{x})
	require.NoError(t, err)
	assert.Empty(t, sols)
}

package gocas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas"
)

// ============================================================
// End-to-end scenarios
// ============================================================

func countFunc(e gocas.Expr, name string) int {
	n := 0
	gocas.Walk(e, func(x gocas.Expr) bool {
		if f, ok := x.(*gocas.Func); ok && f.Name() == name {
			n++
		}
		return true
	})
	return n
}

func TestScenario_RationalArithmetic(t *testing.T) {
	got := gocas.Simplify(gocas.AddOf(gocas.F(1, 2), gocas.F(1, 3)))
	assert.True(t, got.Equal(gocas.F(5, 6)), "got %s", got)
	assert.Equal(t, "5/6", got.String())
}

func TestScenario_LikeTerms(t *testing.T) {
	x := gocas.S("x")
	got := gocas.AddOf(gocas.MulOf(gocas.N(2), x), gocas.MulOf(gocas.N(3), x), x)
	assert.True(t, got.Equal(gocas.MulOf(gocas.N(6), x)), "got %s", got)
	assert.Equal(t, "6*x", got.String())
}

func TestScenario_DistributiveDerivative(t *testing.T) {
	x := gocas.S("x")
	f := gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.MulOf(gocas.N(3), x), gocas.N(1))
	got := gocas.Derivative(f, x, 1)
	assert.True(t, got.Equal(gocas.AddOf(gocas.MulOf(gocas.N(2), x), gocas.N(3))), "got %s", got)
}

func TestScenario_FundamentalTheorem(t *testing.T) {
	x := gocas.S("x")
	anti, ok := gocas.TryIntegrate(gocas.SinOf(x), x)
	require.True(t, ok)
	assert.True(t, anti.Equal(gocas.Neg(gocas.CosOf(x))), "got %s", anti)
	assert.True(t, gocas.Simplify(gocas.Diff(anti, x)).Equal(gocas.SinOf(x)))
}

func TestScenario_PolynomialGCD(t *testing.T) {
	x := gocas.S("x")
	g, err := gocas.PolynomialGCD(gocas.SubOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1)), gocas.SubOf(x, gocas.N(1)))
	require.NoError(t, err)
	assert.True(t, g.Equal(gocas.SubOf(x, gocas.N(1))), "got %s", g)
}

func TestScenario_Quadratic(t *testing.T) {
	x := gocas.S("x")
	p := gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.MulOf(gocas.N(-5), x), gocas.N(6))
	res, err := gocas.Solve(gocas.Eq(p, gocas.N(0)), x)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 2)
	assert.True(t, res.Exact)
	assert.True(t, gocas.SetOf(res.Solutions...).Equal(gocas.SetOf(gocas.N(2), gocas.N(3))), "got %v", res.Solutions)
	for _, s := range res.Solutions {
		lhs := gocas.Simplify(gocas.Subs(p, x, s))
		assert.True(t, lhs.Equal(gocas.N(0)), "x = %s leaves %s", s, lhs)
	}
}

func TestScenario_NonElementary(t *testing.T) {
	x := gocas.S("x")
	f := gocas.ExpOf(gocas.PowOf(x, gocas.N(2)))
	anti, ok := gocas.TryIntegrate(f, x)
	assert.False(t, ok)
	assert.True(t, anti.Equal(gocas.IntegralOf(f, x)), "got %s", anti)
	assert.Equal(t, "Integral(exp(x^2), x)", anti.String())
}

func TestScenario_PartialFractions(t *testing.T) {
	x := gocas.S("x")
	f := gocas.DivOf(gocas.N(1), gocas.MulOf(gocas.SubOf(x, gocas.N(1)), gocas.SubOf(x, gocas.N(2))))
	anti, ok := gocas.TryIntegrate(f, x)
	require.True(t, ok, "got %s", anti)
	assert.Equal(t, 2, countFunc(anti, "ln"), "got %s", anti)
	assert.True(t, gocas.Equivalent(gocas.Diff(anti, x), f))
}

func TestScenario_TrigReduction(t *testing.T) {
	x := gocas.S("x")
	f := gocas.MulOf(gocas.SinOf(x), gocas.CosOf(x))
	anti, ok := gocas.TryIntegrate(f, x)
	require.True(t, ok)
	assert.True(t, gocas.Equivalent(gocas.Diff(anti, x), f), "got %s", anti)
}

func TestScenario_MatrixNonCommutativity(t *testing.T) {
	A, B := gocas.MatrixSymbol("A"), gocas.MatrixSymbol("B")
	assert.False(t, gocas.Simplify(gocas.SubOf(gocas.MulOf(A, B), gocas.MulOf(B, A))).Equal(gocas.N(0)))

	a, b := gocas.S("a"), gocas.S("b")
	assert.True(t, gocas.Simplify(gocas.SubOf(gocas.MulOf(a, b), gocas.MulOf(b, a))).Equal(gocas.N(0)))
}

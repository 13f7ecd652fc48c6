package gocas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas"
)

// ============================================================
// Algebraic properties
// ============================================================

func sampleExprs() []gocas.Expr {
	x, y := gocas.S("x"), gocas.S("y")
	return []gocas.Expr{
		gocas.N(7),
		gocas.F(-3, 4),
		x,
		gocas.AddOf(x, y, gocas.N(1)),
		gocas.MulOf(gocas.N(3), x, gocas.PowOf(y, gocas.N(2))),
		gocas.PowOf(gocas.AddOf(x, gocas.N(1)), gocas.N(3)),
		gocas.DivOf(gocas.SinOf(x), gocas.AddOf(x, y)),
		gocas.ExpOf(gocas.MulOf(gocas.N(2), x)),
		gocas.SqrtOf(gocas.N(8)),
		gocas.AddOf(gocas.PowOf(gocas.CosOf(x), gocas.N(2)), gocas.LnOf(y)),
		gocas.MulOf(gocas.Pi, gocas.F(1, 2), x),
	}
}

func TestProperty_Idempotence(t *testing.T) {
	for _, e := range sampleExprs() {
		once := gocas.Simplify(e)
		assert.True(t, gocas.Simplify(once).Equal(once), "simplify not idempotent on %s", e)
	}
}

func TestProperty_Commutativity(t *testing.T) {
	es := sampleExprs()
	for i := range es {
		for j := range es {
			a, b := es[i], es[j]
			assert.True(t, gocas.AddOf(a, b).Equal(gocas.AddOf(b, a)), "%s + %s", a, b)
			assert.True(t, gocas.MulOf(a, b).Equal(gocas.MulOf(b, a)), "%s * %s", a, b)
		}
	}
}

func TestProperty_Identities(t *testing.T) {
	for _, e := range sampleExprs() {
		s := gocas.Simplify(e)
		assert.True(t, gocas.AddOf(e, gocas.N(0)).Equal(s), "e + 0 for %s", e)
		assert.True(t, gocas.MulOf(e, gocas.N(1)).Equal(s), "e * 1 for %s", e)
		assert.True(t, gocas.MulOf(e, gocas.N(0)).Equal(gocas.N(0)), "e * 0 for %s", e)
		assert.True(t, gocas.PowOf(e, gocas.N(0)).Equal(gocas.N(1)), "e ^ 0 for %s", e)
		assert.True(t, gocas.PowOf(e, gocas.N(1)).Equal(s), "e ^ 1 for %s", e)
		assert.True(t, gocas.PowOf(gocas.N(1), e).Equal(gocas.N(1)), "1 ^ e for %s", e)
	}
}

func TestProperty_UndefinedForms(t *testing.T) {
	assert.True(t, gocas.IsUndefined(gocas.PowOf(gocas.N(0), gocas.N(0))))
	assert.True(t, gocas.IsUndefined(gocas.DivOf(gocas.N(0), gocas.N(0))))
	assert.True(t, gocas.IsUndefined(gocas.PowOf(gocas.N(0), gocas.N(-1))))
	assert.True(t, gocas.IsUndefined(gocas.SubOf(gocas.Infinity, gocas.Infinity)))
	// undefined propagates through arithmetic
	x := gocas.S("x")
	assert.True(t, gocas.IsUndefined(gocas.MulOf(gocas.Undef, gocas.N(0))))
	assert.True(t, gocas.IsUndefined(gocas.AddOf(x, gocas.Undef)))
}

func TestProperty_DerivativeLinearity(t *testing.T) {
	x, a, b := gocas.S("x"), gocas.S("a"), gocas.S("b")
	f := gocas.MulOf(gocas.SinOf(x), gocas.PowOf(x, gocas.N(3)))
	g := gocas.ExpOf(gocas.MulOf(gocas.N(2), x))
	lhs := gocas.Diff(gocas.AddOf(gocas.MulOf(a, f), gocas.MulOf(b, g)), x)
	rhs := gocas.AddOf(gocas.MulOf(a, gocas.Diff(f, x)), gocas.MulOf(b, gocas.Diff(g, x)))
	assert.True(t, gocas.Equivalent(lhs, rhs), "%s vs %s", lhs, rhs)
}

func TestProperty_GCDDivides(t *testing.T) {
	x := gocas.S("x")
	common := gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1))
	f1 := gocas.Expand(gocas.MulOf(common, gocas.SubOf(x, gocas.N(2))))
	f2 := gocas.Expand(gocas.MulOf(common, gocas.AddOf(x, gocas.N(3)), gocas.AddOf(x, gocas.N(3))))
	g, err := gocas.PolynomialGCD(f1, f2)
	require.NoError(t, err)
	for _, f := range []gocas.Expr{f1, f2} {
		_, r, err := gocas.PolynomialDiv(f, g, x)
		require.NoError(t, err)
		assert.True(t, r.Equal(gocas.N(0)), "%s mod %s = %s", f, g, r)
	}
	_, r, err := gocas.PolynomialDiv(g, common, x)
	require.NoError(t, err)
	assert.True(t, r.Equal(gocas.N(0)))
}

func TestPolynomialGCD_KeepsIntegerContent(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	tests := []struct {
		name string
		a, b gocas.Expr
		want gocas.Expr
	}{
		{"monomials", gocas.MulOf(gocas.N(6), gocas.PowOf(x, gocas.N(2))), gocas.MulOf(gocas.N(4), x), gocas.MulOf(gocas.N(2), x)},
		{"bivariate", gocas.MulOf(gocas.N(6), gocas.AddOf(x, y)), gocas.MulOf(gocas.N(10), gocas.AddOf(x, y)),
			gocas.AddOf(gocas.MulOf(gocas.N(2), x), gocas.MulOf(gocas.N(2), y))},
		{"constants", gocas.N(6), gocas.N(4), gocas.N(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := gocas.PolynomialGCD(tt.a, tt.b)
			require.NoError(t, err)
			assert.True(t, g.Equal(tt.want), "got %s", g)
		})
	}
}

func TestProperty_PartialFractionRoundTrip(t *testing.T) {
	x := gocas.S("x")
	cases := []gocas.Expr{
		gocas.DivOf(gocas.N(1), gocas.MulOf(gocas.SubOf(x, gocas.N(1)), gocas.SubOf(x, gocas.N(2)))),
		gocas.DivOf(gocas.AddOf(x, gocas.N(3)), gocas.MulOf(gocas.PowOf(gocas.SubOf(x, gocas.N(1)), gocas.N(2)), gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1)))),
		gocas.DivOf(gocas.PowOf(x, gocas.N(4)), gocas.SubOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1))),
	}
	for _, e := range cases {
		pf, err := gocas.PartialFraction(e, x)
		require.NoError(t, err)
		assert.True(t, gocas.Equivalent(pf, e), "%s -> %s", e, pf)
	}
}

func TestProperty_SubstitutionIdentity(t *testing.T) {
	x := gocas.S("x")
	for _, e := range sampleExprs() {
		s := gocas.Simplify(e)
		got := gocas.Substitute(s, map[gocas.Symbol]gocas.Expr{x.Symbol(): x})
		assert.True(t, got.Equal(s), "substituting x for x changed %s", s)
	}
}

func TestProperty_HashAgreesWithEquality(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	a := gocas.AddOf(gocas.MulOf(x, y), gocas.SinOf(x))
	b := gocas.AddOf(gocas.SinOf(x), gocas.MulOf(y, x))
	require.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

package gocas_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas"
)

// ============================================================
// Indefinite integration
// ============================================================

func TestIntegrate_FundamentalTheorem(t *testing.T) {
	x := gocas.S("x")
	tests := []struct {
		name string
		f    gocas.Expr
	}{
		{"power", gocas.PowOf(x, gocas.N(3))},
		{"polynomial", gocas.AddOf(gocas.MulOf(gocas.N(4), gocas.PowOf(x, gocas.N(2))), gocas.N(-7))},
		{"reciprocal", gocas.PowOf(x, gocas.N(-1))},
		{"linear base power", gocas.PowOf(gocas.AddOf(gocas.MulOf(gocas.N(2), x), gocas.N(1)), gocas.N(5))},
		{"exp of linear", gocas.ExpOf(gocas.MulOf(gocas.N(3), x))},
		{"shifted sine", gocas.SinOf(gocas.AddOf(gocas.MulOf(gocas.N(2), x), gocas.N(1)))},
		{"cosine", gocas.CosOf(x)},
		{"log", gocas.LnOf(x)},
		{"sec squared", gocas.PowOf(gocas.SecOf(x), gocas.N(2))},
		{"x exp x", gocas.MulOf(x, gocas.ExpOf(x))},
		{"x^2 sin x", gocas.MulOf(gocas.PowOf(x, gocas.N(2)), gocas.SinOf(x))},
		{"exp sin", gocas.MulOf(gocas.ExpOf(x), gocas.SinOf(x))},
		{"arctangent", gocas.DivOf(gocas.N(1), gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1)))},
		{"difference of squares", gocas.DivOf(gocas.N(1), gocas.SubOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1)))},
		{"sine squared", gocas.PowOf(gocas.SinOf(x), gocas.N(2))},
		{"chain rule", gocas.MulOf(gocas.N(2), x, gocas.CosOf(gocas.PowOf(x, gocas.N(2))))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			F, ok := gocas.TryIntegrate(tt.f, x)
			require.True(t, ok, "no antiderivative for %s, got %s", tt.f, F)
			assert.True(t, gocas.Equivalent(gocas.Diff(F, x), tt.f), "d/dx %s != %s", F, tt.f)
		})
	}
}

func TestIntegrate_Linearity(t *testing.T) {
	x, a := gocas.S("x"), gocas.S("a")
	F := gocas.Integrate(gocas.MulOf(a, gocas.PowOf(x, gocas.N(2))), x)
	assert.True(t, F.Equal(gocas.MulOf(gocas.F(1, 3), a, gocas.PowOf(x, gocas.N(3)))), "got %s", F)

	c := gocas.Integrate(a, x)
	assert.True(t, c.Equal(gocas.MulOf(a, x)), "got %s", c)
}

func TestIntegrate_NonElementary(t *testing.T) {
	x := gocas.S("x")
	for _, f := range []gocas.Expr{
		gocas.ExpOf(gocas.Neg(gocas.PowOf(x, gocas.N(2)))),
		gocas.DivOf(gocas.SinOf(x), x),
		gocas.DivOf(gocas.ExpOf(x), x),
		gocas.DivOf(gocas.N(1), gocas.LnOf(x)),
	} {
		F, ok := gocas.TryIntegrate(f, x)
		assert.False(t, ok, "%s", f)
		assert.True(t, F.Equal(gocas.IntegralOf(f, x)), "got %s", F)
	}
}

func TestIntegrate_Undefined(t *testing.T) {
	x := gocas.S("x")
	assert.True(t, gocas.IsUndefined(gocas.Integrate(gocas.Undef, x)))
}

// ============================================================
// Definite integration
// ============================================================

func TestDefiniteIntegral_Closed(t *testing.T) {
	x := gocas.S("x")
	got := gocas.DefiniteIntegral(gocas.PowOf(x, gocas.N(2)), x, gocas.N(0), gocas.N(1))
	assert.True(t, got.Equal(gocas.F(1, 3)), "got %s", got)

	got = gocas.DefiniteIntegral(gocas.SinOf(x), x, gocas.N(0), gocas.Pi)
	assert.True(t, got.Equal(gocas.N(2)), "got %s", got)
}

func TestDefiniteIntegral_SameBounds(t *testing.T) {
	x := gocas.S("x")
	got := gocas.DefiniteIntegral(gocas.ExpOf(gocas.PowOf(x, gocas.N(2))), x, gocas.N(3), gocas.N(3))
	assert.True(t, got.Equal(gocas.N(0)))
}

func TestDefiniteIntegral_PoleStaysSymbolic(t *testing.T) {
	x := gocas.S("x")
	f := gocas.PowOf(x, gocas.N(-2))
	got := gocas.DefiniteIntegral(f, x, gocas.N(-1), gocas.N(1))
	assert.True(t, got.Equal(gocas.DefiniteIntegralOf(f, x, gocas.N(-1), gocas.N(1))), "got %s", got)
}

func TestNIntegrate(t *testing.T) {
	x := gocas.S("x")
	tests := []struct {
		name string
		f    gocas.Expr
		a, b float64
		want float64
	}{
		{"polynomial", gocas.PowOf(x, gocas.N(2)), 0, 3, 9},
		{"sine", gocas.SinOf(x), 0, math.Pi, 2},
		{"gaussian", gocas.ExpOf(gocas.Neg(gocas.PowOf(x, gocas.N(2)))), math.Inf(-1), math.Inf(1), math.Sqrt(math.Pi)},
		{"half line", gocas.ExpOf(gocas.Neg(x)), 0, math.Inf(1), 1},
		{"reversed", gocas.N(1), 2, 0, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gocas.NIntegrate(tt.f, x, tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-8)
		})
	}
}

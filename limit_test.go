package gocas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas"
)

// ============================================================
// Limits
// ============================================================

func TestLimit_Table(t *testing.T) {
	x := gocas.S("x")
	tests := []struct {
		name  string
		e     gocas.Expr
		point gocas.Expr
		want  gocas.Expr
	}{
		{"continuous", gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1)), gocas.N(2), gocas.N(5)},
		{"sinc", gocas.DivOf(gocas.SinOf(x), x), gocas.N(0), gocas.N(1)},
		{"one minus cosine", gocas.DivOf(gocas.SubOf(gocas.N(1), gocas.CosOf(x)), gocas.PowOf(x, gocas.N(2))), gocas.N(0), gocas.F(1, 2)},
		{"reciprocal at infinity", gocas.DivOf(gocas.N(1), x), gocas.Infinity, gocas.N(0)},
		{"rational at infinity",
			gocas.DivOf(gocas.AddOf(gocas.MulOf(gocas.N(2), gocas.PowOf(x, gocas.N(2))), gocas.N(1)), gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.N(3))),
			gocas.Infinity, gocas.N(2)},
		{"removable", gocas.DivOf(gocas.SubOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1)), gocas.SubOf(x, gocas.N(1))), gocas.N(1), gocas.N(2)},
		{"exp at minus infinity", gocas.ExpOf(x), gocas.NegInfinity, gocas.N(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gocas.Limit(tt.e, x, tt.point)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestLimit_OneSided(t *testing.T) {
	x := gocas.S("x")
	got, err := gocas.LimitDir(gocas.MulOf(x, gocas.LnOf(x)), x, gocas.N(0), gocas.FromRight)
	require.NoError(t, err)
	assert.True(t, got.Equal(gocas.N(0)), "got %s", got)

	got, err = gocas.LimitDir(gocas.DivOf(gocas.N(1), x), x, gocas.N(0), gocas.FromRight)
	require.NoError(t, err)
	assert.True(t, got.Equal(gocas.Infinity), "got %s", got)

	got, err = gocas.LimitDir(gocas.DivOf(gocas.N(1), x), x, gocas.N(0), gocas.FromLeft)
	require.NoError(t, err)
	assert.True(t, got.Equal(gocas.NegInfinity), "got %s", got)
}

func TestLimit_TwoSidedDisagree(t *testing.T) {
	x := gocas.S("x")
	e := gocas.DivOf(gocas.N(1), x)
	got, err := gocas.Limit(e, x, gocas.N(0))
	require.Error(t, err)
	assert.True(t, got.Equal(gocas.LimitOf(e, x, gocas.N(0))), "got %s", got)
}

// ============================================================
// Series
// ============================================================

func TestMaclaurin_Exp(t *testing.T) {
	x := gocas.S("x")
	got, err := gocas.MaclaurinSeries(gocas.ExpOf(x), x, 3)
	require.NoError(t, err)
	want := gocas.AddOf(gocas.N(1), x, gocas.MulOf(gocas.F(1, 2), gocas.PowOf(x, gocas.N(2))), gocas.MulOf(gocas.F(1, 6), gocas.PowOf(x, gocas.N(3))))
	assert.True(t, gocas.Equivalent(got, want), "got %s", got)
}

func TestMaclaurin_SineHasOddTerms(t *testing.T) {
	x := gocas.S("x")
	got, err := gocas.MaclaurinSeries(gocas.SinOf(x), x, 5)
	require.NoError(t, err)
	want := gocas.AddOf(x, gocas.MulOf(gocas.F(-1, 6), gocas.PowOf(x, gocas.N(3))), gocas.MulOf(gocas.F(1, 120), gocas.PowOf(x, gocas.N(5))))
	assert.True(t, gocas.Equivalent(got, want), "got %s", got)
}

func TestTaylor_AboutPoint(t *testing.T) {
	x := gocas.S("x")
	got, err := gocas.TaylorSeries(gocas.LnOf(x), x, gocas.N(1), 2)
	require.NoError(t, err)
	d := gocas.SubOf(x, gocas.N(1))
	want := gocas.SubOf(d, gocas.MulOf(gocas.F(1, 2), gocas.PowOf(d, gocas.N(2))))
	assert.True(t, gocas.Equivalent(got, want), "got %s", got)
}

func TestTaylor_NegativeOrder(t *testing.T) {
	x := gocas.S("x")
	_, err := gocas.TaylorSeries(x, x, gocas.N(0), -1)
	require.Error(t, err)
	assert.Equal(t, gocas.InvalidArgument, gocas.KindOf(err))
}

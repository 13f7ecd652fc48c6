package gocas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas"
)

// ============================================================
// Canonical order with non-commutative symbols
// ============================================================

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}

func TestCompare_NonCommutativeSymbols(t *testing.T) {
	A, B := gocas.MatrixSymbol("A"), gocas.MatrixSymbol("B")
	assert.Equal(t, -1, sign(gocas.Compare(A, B)))
	assert.Equal(t, 1, sign(gocas.Compare(B, A)))
	assert.Equal(t, 0, gocas.Compare(A, gocas.MatrixSymbol("A")))

	// same name, different type
	P := gocas.SymOf("A", gocas.OperatorType)
	assert.NotEqual(t, 0, gocas.Compare(A, P))
	assert.Equal(t, -sign(gocas.Compare(A, P)), sign(gocas.Compare(P, A)))
}

func TestCompare_AntisymmetricOverMixedTerms(t *testing.T) {
	x := gocas.S("x")
	P, Q := gocas.SymOf("P", gocas.OperatorType), gocas.SymOf("Q", gocas.OperatorType)
	i, j := gocas.SymOf("i", gocas.QuaternionType), gocas.SymOf("j", gocas.QuaternionType)
	terms := []gocas.Expr{
		P, Q, i, j, x,
		gocas.MulOf(P, Q),
		gocas.MulOf(Q, P),
		gocas.MulOf(gocas.N(3), i, j),
		gocas.MulOf(x, j, i),
		gocas.PowOf(P, gocas.N(2)),
		gocas.SinOf(P),
		gocas.SinOf(Q),
	}
	for _, a := range terms {
		assert.Equal(t, 0, gocas.Compare(a, a), "%s", a)
		for _, b := range terms {
			if a.Equal(b) {
				continue
			}
			ab, ba := gocas.Compare(a, b), gocas.Compare(b, a)
			assert.NotEqual(t, 0, ab, "%s vs %s", a, b)
			assert.Equal(t, -sign(ab), sign(ba), "%s vs %s", a, b)
		}
	}
}

func TestAdd_OperatorSymbols(t *testing.T) {
	P, Q := gocas.SymOf("P", gocas.OperatorType), gocas.SymOf("Q", gocas.OperatorType)
	sum := gocas.AddOf(P, Q)
	add, ok := sum.(*gocas.Add)
	require.True(t, ok, "got %s", sum)
	assert.Equal(t, 2, add.Len())
	assert.True(t, sum.Equal(gocas.AddOf(Q, P)))
	assert.True(t, gocas.SubOf(sum, P).Equal(Q))
}

func TestMul_QuaternionCommutator(t *testing.T) {
	i, j := gocas.SymOf("i", gocas.QuaternionType), gocas.SymOf("j", gocas.QuaternionType)
	assert.False(t, gocas.MulOf(i, j).Equal(gocas.MulOf(j, i)))

	comm := gocas.Simplify(gocas.SubOf(gocas.MulOf(i, j), gocas.MulOf(j, i)))
	add, ok := comm.(*gocas.Add)
	require.True(t, ok, "got %s", comm)
	assert.Equal(t, 2, add.Len())

	// the same product on both sides still cancels
	assert.True(t, gocas.Simplify(gocas.SubOf(gocas.MulOf(i, j), gocas.MulOf(i, j))).Equal(gocas.N(0)))
}

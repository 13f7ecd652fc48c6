package poly_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas/poly"
)

func r(a, b int64) *big.Rat { return big.NewRat(a, b) }

// ============================================================
// Dense univariate arithmetic
// ============================================================

func TestPolyArithmetic(t *testing.T) {
	a := poly.FromInts(1, 1)  // x + 1
	b := poly.FromInts(-1, 1) // x - 1
	assert.Equal(t, "x^2 - 1", a.Mul(b).String())
	assert.Equal(t, "2*x", a.Add(b).String())
	assert.Equal(t, "2", a.Sub(b).String())
	assert.Equal(t, "x^3 + 3*x^2 + 3*x + 1", a.Pow(3).String())
	assert.Equal(t, 2, a.Mul(b).Degree())
	assert.Equal(t, -1, poly.Poly{}.Degree())
}

func TestPolyDivMod(t *testing.T) {
	f := poly.FromInts(-1, 0, 0, 1) // x^3 - 1
	q, rem, err := f.DivMod(poly.FromInts(-1, 1))
	require.NoError(t, err)
	assert.Equal(t, "x^2 + x + 1", q.String())
	assert.True(t, rem.IsZero())

	q, rem, err = poly.FromInts(1, 0, 1).DivMod(poly.FromInts(0, 2))
	require.NoError(t, err)
	assert.Equal(t, "1/2*x", q.String())
	assert.Equal(t, "1", rem.String())

	_, _, err = f.DivMod(poly.Poly{})
	assert.True(t, errors.Is(err, poly.ErrDivisionByZero))
}

func TestPolyEvalDerivativeCompose(t *testing.T) {
	f := poly.FromInts(1, 3, 1) // x^2 + 3x + 1
	assert.Equal(t, 0, f.Eval(r(2, 1)).Cmp(r(11, 1)))
	assert.Equal(t, "2*x + 3", f.Derivative().String())
	assert.Equal(t, "x^2 + 5*x + 5", f.Compose(poly.FromInts(1, 1)).String())
}

func TestContentPrimitive(t *testing.T) {
	f := poly.New(r(-2, 3), r(4, 3)) // 4/3 x - 2/3
	c, pp := f.ContentPrimitive()
	assert.Equal(t, 0, c.Cmp(r(2, 3)))
	assert.Equal(t, "2*x - 1", pp.String())

	g := poly.FromInts(2, -4)
	c, pp = g.ContentPrimitive()
	assert.Equal(t, 0, c.Cmp(r(-2, 1)))
	assert.Equal(t, "2*x - 1", pp.String())
	assert.True(t, pp.Scale(c).Equal(g))
}

// ============================================================
// GCD
// ============================================================

func TestGCDUnivariate(t *testing.T) {
	tests := []struct {
		name string
		f, g poly.Poly
		want string
	}{
		{"common linear", poly.FromInts(-1, 0, 1), poly.FromInts(1, -2, 1), "x - 1"},
		{"common content", poly.FromInts(2, 2), poly.FromInts(4, 4), "2*x + 2"},
		{"monomials with content", poly.FromInts(0, 0, 6), poly.FromInts(0, 4), "2*x"},
		{"constants", poly.FromInts(6), poly.FromInts(4), "2"},
		{"coprime", poly.FromInts(1, 0, 1), poly.FromInts(-1, 1), "1"},
		{"coprime with content", poly.FromInts(3, 0, 3), poly.FromInts(-6, 6), "3"},
		{"zero operand", poly.Poly{}, poly.FromInts(-3, 6), "6*x - 3"},
		{"quadratic factor", poly.FromInts(1, 0, 1).Mul(poly.FromInts(2, 3)), poly.FromInts(1, 0, 1).Mul(poly.FromInts(-5, 7)), "x^2 + 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := poly.GCD(tt.f, tt.g)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.String())
		})
	}
}

func TestGCDConvergenceFailure(t *testing.T) {
	cfg := poly.DefaultConfig()
	cfg.MaxCRTIterations = 1
	g, err := poly.GCDWithConfig(poly.FromInts(-1, 0, 1), poly.FromInts(1, -2, 1), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, poly.ErrConvergenceFailed))
	assert.Equal(t, "1", g.String())
}

func TestExtGCD(t *testing.T) {
	a := poly.FromInts(1, 0, 1)
	b := poly.FromInts(-1, 1)
	g, s, tt := poly.ExtGCD(a, b)
	assert.Equal(t, "1", g.String())
	assert.True(t, s.Mul(a).Add(tt.Mul(b)).Equal(g))
}

func TestSquareFree(t *testing.T) {
	f := poly.FromInts(-1, 1).Pow(2).Mul(poly.FromInts(2, 1))
	parts := poly.SquareFree(f)
	require.Len(t, parts, 2)
	assert.Equal(t, "x + 2", parts[0].String())
	assert.Equal(t, "x - 1", parts[1].String())
}

// ============================================================
// Multivariate
// ============================================================

func mp(t *testing.T, terms ...poly.Term) *poly.MPoly {
	t.Helper()
	return poly.NewMPoly(2, poly.Lex, terms...)
}

func term(c int64, ex ...int) poly.Term {
	return poly.Term{Exp: poly.Monomial(ex), Coef: big.NewRat(c, 1)}
}

func TestMPolyArithmetic(t *testing.T) {
	x := poly.Var(2, poly.Lex, 0)
	y := poly.Var(2, poly.Lex, 1)
	s := x.Add(y)
	d := x.Sub(y)
	names := []string{"x", "y"}
	assert.Equal(t, "x^2 - y^2", s.Mul(d).Format(names))
	assert.Equal(t, "x^2 + 2*x*y + y^2", s.Pow(2).Format(names))
	assert.Equal(t, 2, s.Pow(2).TotalDegree())
	assert.True(t, s.Mul(d).Sub(d.Mul(s)).IsZero())

	q, ok := s.Mul(d).ExactDiv(s)
	require.True(t, ok)
	assert.True(t, q.Equal(d))
	_, ok = s.ExactDiv(d)
	assert.False(t, ok)
}

func TestMGCD(t *testing.T) {
	x := poly.Var(2, poly.Lex, 0)
	y := poly.Var(2, poly.Lex, 1)
	f := x.Add(y).Mul(x.Sub(y))
	g := x.Add(y).Pow(2)
	h, err := poly.MGCD(f, g)
	require.NoError(t, err)
	assert.Equal(t, "x + y", h.Format([]string{"x", "y"}))
}

func TestMGCDThreeVariables(t *testing.T) {
	x := poly.Var(3, poly.Lex, 0)
	y := poly.Var(3, poly.Lex, 1)
	z := poly.Var(3, poly.Lex, 2)
	common := x.Mul(y).Add(z)                                   // xy + z
	f := common.Mul(x.Add(poly.Constant(3, poly.Lex, r(1, 1)))) // (xy+z)(x+1)
	g := common.Mul(y.Sub(z))                                   // (xy+z)(y-z)
	h, err := poly.MGCD(f, g)
	require.NoError(t, err)
	assert.True(t, h.Equal(common), "got %s", h)
}

func TestMGCDCoprimeAndZero(t *testing.T) {
	x := poly.Var(2, poly.Lex, 0)
	y := poly.Var(2, poly.Lex, 1)
	h, err := poly.MGCD(x, y)
	require.NoError(t, err)
	assert.True(t, h.IsConstant())

	h, err = poly.MGCD(poly.Zero(2, poly.Lex), x.Scale(r(-4, 1)))
	require.NoError(t, err)
	assert.True(t, h.Equal(x.Scale(r(4, 1))), "got %s", h)

	_, err = poly.MGCD(x, poly.Var(3, poly.Lex, 0))
	assert.True(t, errors.Is(err, poly.ErrDimensionMismatch))
}

func TestMGCDKeepsContent(t *testing.T) {
	x := poly.Var(2, poly.Lex, 0)
	y := poly.Var(2, poly.Lex, 1)
	s := x.Add(y)
	h, err := poly.MGCD(s.Scale(r(6, 1)), s.Scale(r(10, 1)))
	require.NoError(t, err)
	assert.Equal(t, "2*x + 2*y", h.Format([]string{"x", "y"}))

	c := poly.Constant(2, poly.Lex, r(1, 1))
	h, err = poly.MGCD(c.Scale(r(6, 1)), c.Scale(r(4, 1)))
	require.NoError(t, err)
	assert.True(t, h.Equal(c.Scale(r(2, 1))), "got %s", h)
}

func TestMGCDUnivariateFallback(t *testing.T) {
	f := mp(t, term(1, 2, 0), term(-1, 0, 0)) // x^2 - 1
	g := mp(t, term(1, 1, 0), term(-1, 0, 0)) // x - 1
	h, err := poly.MGCD(f, g)
	require.NoError(t, err)
	assert.True(t, h.Equal(g))
}

// ============================================================
// Orders, division, Groebner
// ============================================================

func TestMonomialOrders(t *testing.T) {
	assert.Equal(t, 1, poly.Lex.Compare(poly.Monomial{1, 0}, poly.Monomial{0, 5}))
	assert.Equal(t, -1, poly.GrLex.Compare(poly.Monomial{1, 0}, poly.Monomial{0, 5}))
	// xy > xz under grevlex
	assert.Equal(t, 1, poly.GrevLex.Compare(poly.Monomial{1, 1, 0}, poly.Monomial{1, 0, 1}))
	// x y^2 > x^2 z under grevlex, the reverse under grlex
	assert.Equal(t, 1, poly.GrevLex.Compare(poly.Monomial{1, 2, 0}, poly.Monomial{2, 0, 1}))
	assert.Equal(t, -1, poly.GrLex.Compare(poly.Monomial{1, 2, 0}, poly.Monomial{2, 0, 1}))

	o, err := poly.ParseOrder("grevlex")
	require.NoError(t, err)
	assert.Equal(t, poly.GrevLex, o)
	_, err = poly.ParseOrder("bogus")
	assert.Error(t, err)
}

func TestMultivariateDivision(t *testing.T) {
	f := mp(t, term(1, 2, 1), term(1, 1, 2), term(1, 0, 2)) // x^2y + xy^2 + y^2
	g1 := mp(t, term(1, 1, 1), term(-1, 0, 0))              // xy - 1
	g2 := mp(t, term(1, 0, 2), term(-1, 0, 0))              // y^2 - 1
	qs, rem, err := f.DivMod(g1, g2)
	require.NoError(t, err)
	names := []string{"x", "y"}
	assert.Equal(t, "x + y", qs[0].Format(names))
	assert.Equal(t, "1", qs[1].Format(names))
	assert.Equal(t, "x + y + 1", rem.Format(names))
	back := qs[0].Mul(g1).Add(qs[1].Mul(g2)).Add(rem)
	assert.True(t, back.Equal(f))
}

func TestGroebnerCircleLine(t *testing.T) {
	f1 := mp(t, term(1, 2, 0), term(1, 0, 2), term(-1, 0, 0)) // x^2 + y^2 - 1
	f2 := mp(t, term(1, 1, 0), term(-1, 0, 1))                // x - y
	basis, err := poly.Groebner([]*poly.MPoly{f1, f2}, poly.Lex, poly.DefaultConfig())
	require.NoError(t, err)
	got := make([]string, len(basis))
	for i, b := range basis {
		got[i] = b.Format([]string{"x", "y"})
	}
	if diff := cmp.Diff([]string{"x - y", "y^2 - 1/2"}, got); diff != "" {
		t.Errorf("basis mismatch (-want +got):\n%s", diff)
	}
}

func TestGroebnerMembership(t *testing.T) {
	f1 := mp(t, term(1, 2, 0), term(-1, 0, 1)) // x^2 - y
	f2 := mp(t, term(1, 3, 0), term(-1, 0, 0)) // x^3 - 1
	basis, err := poly.Groebner([]*poly.MPoly{f1, f2}, poly.GrevLex, poly.DefaultConfig())
	require.NoError(t, err)
	for _, f := range []*poly.MPoly{f1, f2} {
		rem, err := f.WithOrder(poly.GrevLex).Reduce(basis...)
		require.NoError(t, err)
		assert.True(t, rem.IsZero())
	}
}

func TestGroebnerIterationLimit(t *testing.T) {
	f1 := mp(t, term(1, 2, 0), term(1, 0, 2), term(-1, 0, 0))
	f2 := mp(t, term(1, 1, 0), term(-1, 0, 1))
	cfg := poly.DefaultConfig()
	cfg.GroebnerMaxIterations = 0
	_, err := poly.Groebner([]*poly.MPoly{f1, f2}, poly.Lex, cfg)
	assert.True(t, errors.Is(err, poly.ErrMaxIterationsExceeded))
}

// ============================================================
// Resultant
// ============================================================

func TestResultantUnivariate(t *testing.T) {
	res := poly.Resultant(poly.FromInts(-2, 0, 1), poly.FromInts(-1, 1))
	assert.Equal(t, 0, res.Cmp(r(-1, 1)))
	common := poly.Resultant(poly.FromInts(-1, 0, 1), poly.FromInts(-1, 1))
	assert.Equal(t, 0, common.Sign())
}

func TestResultantAgreesWithSylvester(t *testing.T) {
	f := poly.FromInts(-2, 0, 1)
	g := poly.FromInts(-1, 1)
	m, err := poly.MResultant(poly.FromUnivariate(f, 1, poly.Lex, 0), poly.FromUnivariate(g, 1, poly.Lex, 0), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, m.ConstantValue().Cmp(poly.Resultant(f, g)))
}

func TestResultantEliminates(t *testing.T) {
	f := mp(t, term(1, 2, 0), term(1, 0, 2), term(-1, 0, 0)) // x^2 + y^2 - 1
	g := mp(t, term(1, 1, 0), term(-1, 0, 1))                // x - y
	res, err := poly.MResultant(f, g, 0)
	require.NoError(t, err)
	assert.Equal(t, "2*y^2 - 1", res.Format([]string{"x", "y"}))
	assert.Equal(t, 0, res.Degree(0))
}

// ============================================================
// Factorization and partial fractions
// ============================================================

func factorStrings(fs []poly.Factor) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Poly.String()
		if f.Multiplicity > 1 {
			out[i] += "^" + string(rune('0'+f.Multiplicity))
		}
	}
	return out
}

func TestFactorZ(t *testing.T) {
	tests := []struct {
		name    string
		f       poly.Poly
		content *big.Rat
		want    []string
	}{
		{"difference of squares", poly.FromInts(-1, 0, 1), r(1, 1), []string{"x - 1", "x + 1"}},
		{"content and root at zero", poly.FromInts(0, -2, 0, 2), r(2, 1), []string{"x - 1", "x", "x + 1"}},
		{"repeated root", poly.FromInts(2, -3, 0, 1), r(1, 1), []string{"x - 1^2", "x + 2"}},
		{"irreducible", poly.FromInts(1, 0, 1), r(1, 1), []string{"x^2 + 1"}},
		{"sophie germain", poly.FromInts(4, 0, 0, 0, 1), r(1, 1), []string{"x^2 - 2*x + 2", "x^2 + 2*x + 2"}},
		{"x^4 - 1", poly.FromInts(-1, 0, 0, 0, 1), r(1, 1), []string{"x - 1", "x + 1", "x^2 + 1"}},
		{"non-monic", poly.FromInts(-3, 1, 2), r(1, 1), []string{"x - 1", "2*x + 3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fs := poly.FactorZ(tt.f, poly.DefaultConfig())
			assert.Equal(t, 0, c.Cmp(tt.content), "content %s", c.RatString())
			if diff := cmp.Diff(tt.want, factorStrings(fs)); diff != "" {
				t.Errorf("factors mismatch (-want +got):\n%s", diff)
			}
			prod := poly.New(c)
			for _, f := range fs {
				prod = prod.Mul(f.Poly.Pow(f.Multiplicity))
			}
			assert.True(t, prod.Equal(tt.f))
		})
	}
}

func recombine(q poly.Poly, fr []poly.Fraction) (num, den poly.Poly) {
	num, den = q, poly.FromInts(1)
	for _, f := range fr {
		b := f.Denominator.Pow(f.Power)
		num = num.Mul(b).Add(f.Numerator.Mul(den))
		den = den.Mul(b)
	}
	return num, den
}

func TestApart(t *testing.T) {
	q, fr, err := poly.Apart(poly.FromInts(1), poly.FromInts(-1, 0, 1), poly.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, q.IsZero())
	require.Len(t, fr, 2)
	assert.Equal(t, "1/2", fr[0].Numerator.String())
	assert.Equal(t, "x - 1", fr[0].Denominator.String())
	assert.Equal(t, "-1/2", fr[1].Numerator.String())
	assert.Equal(t, "x + 1", fr[1].Denominator.String())
}

func TestApartRecombines(t *testing.T) {
	n := poly.FromInts(2, 0, 0, 1, 0, 3)                                                  // 3x^5 + x^3 + 2
	d := poly.FromInts(0, 1).Mul(poly.FromInts(-1, 1).Pow(2)).Mul(poly.FromInts(1, 0, 1)) // x(x-1)^2(x^2+1)
	q, fr, err := poly.Apart(n, d, poly.DefaultConfig())
	require.NoError(t, err)
	for _, f := range fr {
		assert.Less(t, f.Numerator.Degree(), f.Denominator.Degree())
	}
	num, den := recombine(q, fr)
	assert.True(t, num.Mul(d).Equal(n.Mul(den)))
}

func TestApartDivisionByZero(t *testing.T) {
	_, _, err := poly.Apart(poly.FromInts(1), poly.Poly{}, poly.DefaultConfig())
	assert.True(t, errors.Is(err, poly.ErrDivisionByZero))
}

func TestPrimesTable(t *testing.T) {
	ps := poly.Primes()
	require.NotEmpty(t, ps)
	assert.Equal(t, uint64(2147483647), ps[0])
	for i := 1; i < len(ps); i++ {
		assert.Less(t, ps[i], ps[i-1])
		assert.True(t, new(big.Int).SetUint64(ps[i]).ProbablyPrime(10))
	}
}

package gocas_test

import (
	"strings"
	"testing"

	"github.com/njchilds90/gocas"
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := gocas.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := gocas.F(2, 6)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_RationalToInteger(t *testing.T) {
	n := gocas.F(6, 3)
	if !n.Equal(gocas.N(2)) {
		t.Errorf("6/3 should normalize to 2, got %s", n)
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	if got := gocas.LaTeX(gocas.F(2, 5)); got != `\frac{2}{5}` {
		t.Errorf("want \\frac{2}{5}, got %s", got)
	}
	if got := gocas.LaTeX(gocas.F(-2, 5)); got != `-\frac{2}{5}` {
		t.Errorf("want -\\frac{2}{5}, got %s", got)
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	if got := gocas.Diff(gocas.N(5), gocas.S("x")); got.String() != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", got)
	}
}

func TestNum_FloatContaminates(t *testing.T) {
	got := gocas.AddOf(gocas.F(1, 2), gocas.NFloat(0.25))
	f, err := gocas.Float64(got)
	if err != nil || f != 0.75 {
		t.Errorf("1/2 + 0.25 should be 0.75, got %s", got)
	}
	if n, ok := got.(*gocas.Num); !ok || !n.Value().IsFloat() {
		t.Errorf("a sum with a float should stay a float, got %s", got)
	}
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_String(t *testing.T) {
	x := gocas.S("x")
	if x.String() != "x" {
		t.Errorf("want x, got %s", x.String())
	}
}

func TestSym_Subs_Match(t *testing.T) {
	x := gocas.S("x")
	if got := gocas.Subs(x, x, gocas.N(3)); got.String() != "3" {
		t.Errorf("want 3, got %s", got)
	}
}

func TestSym_Subs_NoMatch(t *testing.T) {
	x := gocas.S("x")
	if got := gocas.Subs(x, gocas.S("y"), gocas.N(3)); got.String() != "x" {
		t.Errorf("want x, got %s", got)
	}
}

func TestSym_Diff_Self(t *testing.T) {
	x := gocas.S("x")
	if got := gocas.Diff(x, x); got.String() != "1" {
		t.Errorf("d/dx(x) should be 1, got %s", got)
	}
}

func TestSym_Diff_Other(t *testing.T) {
	if got := gocas.Diff(gocas.S("y"), gocas.S("x")); got.String() != "0" {
		t.Errorf("d/dx(y) should be 0, got %s", got)
	}
}

func TestSym_Interned(t *testing.T) {
	if !gocas.S("x").Equal(gocas.S("x")) {
		t.Error("symbols with the same name should be equal")
	}
	if gocas.S("x").Equal(gocas.MatrixSymbol("x")) {
		t.Error("a matrix symbol should differ from a scalar of the same name")
	}
}

func TestSyms(t *testing.T) {
	vs := gocas.Syms("a b c")
	if len(vs) != 3 || vs[2].Name() != "c" {
		t.Errorf("want [a b c], got %v", vs)
	}
}

// ============================================================
// Add tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	expr := gocas.AddOf(gocas.S("x"), gocas.N(3))
	if expr.String() != "x + 3" {
		t.Errorf("want 'x + 3', got %s", expr)
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	expr := gocas.AddOf(gocas.N(1), gocas.N(-1))
	if expr.String() != "0" {
		t.Errorf("want 0, got %s", expr)
	}
}

func TestAdd_LikeTerms(t *testing.T) {
	expr := gocas.AddOf(gocas.S("x"), gocas.S("x"))
	if expr.String() != "2*x" {
		t.Errorf("want '2*x', got %s", expr)
	}
}

func TestAdd_Flattens(t *testing.T) {
	x, y, z := gocas.S("x"), gocas.S("y"), gocas.S("z")
	a := gocas.AddOf(gocas.AddOf(x, y), z)
	b := gocas.AddOf(x, gocas.AddOf(y, z))
	if !a.Equal(b) {
		t.Errorf("(x+y)+z and x+(y+z) should be equal, got %s and %s", a, b)
	}
	if add, ok := a.(*gocas.Add); !ok || add.Len() != 3 {
		t.Errorf("want a flat three-term sum, got %s", a)
	}
}

func TestAdd_Subtraction(t *testing.T) {
	x := gocas.S("x")
	if got := gocas.SubOf(x, gocas.N(2)); got.String() != "x - 2" {
		t.Errorf("want 'x - 2', got %s", got)
	}
}

func TestAdd_SingleTerm(t *testing.T) {
	expr := gocas.AddOf(gocas.N(5))
	if expr.String() != "5" {
		t.Errorf("single-term Add should unwrap, got %s", expr)
	}
}

// ============================================================
// Mul tests
// ============================================================

func TestMul_Simple(t *testing.T) {
	expr := gocas.MulOf(gocas.N(3), gocas.S("x"))
	if expr.String() != "3*x" {
		t.Errorf("want '3*x', got %s", expr)
	}
}

func TestMul_ZeroCollapse(t *testing.T) {
	expr := gocas.MulOf(gocas.N(0), gocas.S("x"))
	if expr.String() != "0" {
		t.Errorf("0*x should be 0, got %s", expr)
	}
}

func TestMul_OneElide(t *testing.T) {
	expr := gocas.MulOf(gocas.N(1), gocas.S("x"))
	if expr.String() != "x" {
		t.Errorf("1*x should be x, got %s", expr)
	}
}

func TestMul_PowersCombine(t *testing.T) {
	x := gocas.S("x")
	expr := gocas.MulOf(x, gocas.PowOf(x, gocas.N(2)))
	if expr.String() != "x^3" {
		t.Errorf("x*x^2 should be x^3, got %s", expr)
	}
}

func TestMul_ProductRule(t *testing.T) {
	x := gocas.S("x")
	d := gocas.Diff(gocas.MulOf(x, gocas.SinOf(x)), x)
	want := gocas.AddOf(gocas.SinOf(x), gocas.MulOf(x, gocas.CosOf(x)))
	if !d.Equal(want) {
		t.Errorf("d/dx(x sin x) should be %s, got %s", want, d)
	}
}

func TestMul_Division(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	if got := gocas.DivOf(x, y); got.String() != "x/y" {
		t.Errorf("want x/y, got %s", got)
	}
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_Simple(t *testing.T) {
	expr := gocas.PowOf(gocas.S("x"), gocas.N(2))
	if expr.String() != "x^2" {
		t.Errorf("want x^2, got %s", expr)
	}
}

func TestPow_ZeroExp(t *testing.T) {
	expr := gocas.PowOf(gocas.S("x"), gocas.N(0))
	if expr.String() != "1" {
		t.Errorf("x^0 should be 1, got %s", expr)
	}
}

func TestPow_OneExp(t *testing.T) {
	expr := gocas.PowOf(gocas.S("x"), gocas.N(1))
	if expr.String() != "x" {
		t.Errorf("x^1 should be x, got %s", expr)
	}
}

func TestPow_NumericEval(t *testing.T) {
	expr := gocas.PowOf(gocas.N(2), gocas.N(3))
	if expr.String() != "8" {
		t.Errorf("2^3 should be 8, got %s", expr)
	}
	expr = gocas.PowOf(gocas.N(2), gocas.N(-2))
	if !expr.Equal(gocas.F(1, 4)) {
		t.Errorf("2^-2 should be 1/4, got %s", expr)
	}
}

func TestPow_NestedIntegerExponents(t *testing.T) {
	x := gocas.S("x")
	expr := gocas.PowOf(gocas.PowOf(x, gocas.N(2)), gocas.N(3))
	if expr.String() != "x^6" {
		t.Errorf("(x^2)^3 should be x^6, got %s", expr)
	}
}

func TestPow_Diff_PowerRule(t *testing.T) {
	x := gocas.S("x")
	d := gocas.Diff(gocas.PowOf(x, gocas.N(3)), x)
	if d.String() != "3*x^2" {
		t.Errorf("d/dx(x^3) should be 3*x^2, got %s", d)
	}
}

func TestPow_LaTeX(t *testing.T) {
	expr := gocas.PowOf(gocas.S("x"), gocas.N(2))
	if got := gocas.LaTeX(expr); got != "x^{2}" {
		t.Errorf("want x^{2}, got %s", got)
	}
}

func TestPow_SqrtString(t *testing.T) {
	x := gocas.S("x")
	if got := gocas.SqrtOf(x); got.String() != "sqrt(x)" {
		t.Errorf("want sqrt(x), got %s", got)
	}
}

// ============================================================
// Func tests
// ============================================================

func TestFunc_Sin_String(t *testing.T) {
	expr := gocas.SinOf(gocas.S("x"))
	if expr.String() != "sin(x)" {
		t.Errorf("want sin(x), got %s", expr)
	}
}

func TestFunc_Sin_Diff(t *testing.T) {
	x := gocas.S("x")
	if d := gocas.Diff(gocas.SinOf(x), x); d.String() != "cos(x)" {
		t.Errorf("d/dx(sin(x)) should be cos(x), got %s", d)
	}
}

func TestFunc_Cos_Diff(t *testing.T) {
	x := gocas.S("x")
	d := gocas.Diff(gocas.CosOf(x), x)
	if !d.Equal(gocas.Neg(gocas.SinOf(x))) {
		t.Errorf("d/dx(cos(x)) should be -sin(x), got %s", d)
	}
}

func TestFunc_Exp_Diff(t *testing.T) {
	x := gocas.S("x")
	if d := gocas.Diff(gocas.ExpOf(x), x); d.String() != "exp(x)" {
		t.Errorf("d/dx(exp(x)) should be exp(x), got %s", d)
	}
}

func TestFunc_Ln_Diff(t *testing.T) {
	x := gocas.S("x")
	d := gocas.Diff(gocas.LnOf(x), x)
	if !d.Equal(gocas.PowOf(x, gocas.N(-1))) {
		t.Errorf("d/dx(ln(x)) should be 1/x, got %s", d)
	}
}

func TestFunc_ChainRule(t *testing.T) {
	x := gocas.S("x")
	d := gocas.Diff(gocas.SinOf(gocas.PowOf(x, gocas.N(2))), x)
	want := gocas.MulOf(gocas.N(2), x, gocas.CosOf(gocas.PowOf(x, gocas.N(2))))
	if !d.Equal(want) {
		t.Errorf("want %s, got %s", want, d)
	}
}

func TestFunc_LnAbs_Diff(t *testing.T) {
	x := gocas.S("x")
	if d := gocas.Diff(gocas.LnOf(gocas.AbsOf(x)), x); !d.Equal(gocas.PowOf(x, gocas.N(-1))) {
		t.Errorf("d/dx ln|x| should be x^-1, got %s", d)
	}
	u := gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.N(1))
	d := gocas.Diff(gocas.LnOf(gocas.AbsOf(u)), x)
	want := gocas.DivOf(gocas.MulOf(gocas.N(2), x), u)
	if !gocas.Equivalent(d, want) {
		t.Errorf("want %s, got %s", want, d)
	}
}

func TestFunc_Numeric_Eval(t *testing.T) {
	if got := gocas.SinOf(gocas.N(0)); got.String() != "0" {
		t.Errorf("sin(0) should evaluate to 0, got %s", got)
	}
	if got := gocas.ExpOf(gocas.LnOf(gocas.S("y"))); !got.Equal(gocas.S("y")) {
		t.Errorf("exp(ln(y)) should be y, got %s", got)
	}
}

func TestFunc_Unknown(t *testing.T) {
	x := gocas.S("x")
	f := gocas.FuncOf("g", x)
	if f.String() != "g(x)" {
		t.Errorf("want g(x), got %s", f)
	}
	d := gocas.Diff(f, x)
	if _, ok := d.(*gocas.Calculus); !ok {
		t.Errorf("d/dx g(x) should stay unevaluated, got %s", d)
	}
}

func TestFunc_LaTeX_Sin(t *testing.T) {
	l := gocas.LaTeX(gocas.SinOf(gocas.S("x")))
	if !strings.Contains(l, `\sin`) {
		t.Errorf("LaTeX for sin should contain \\sin, got %s", l)
	}
}

// ============================================================
// Expand tests
// ============================================================

func TestExpand_Distribution(t *testing.T) {
	x := gocas.S("x")
	expr := gocas.MulOf(gocas.AddOf(x, gocas.N(1)), gocas.AddOf(x, gocas.N(2)))
	got := gocas.Expand(expr)
	want := gocas.AddOf(gocas.PowOf(x, gocas.N(2)), gocas.MulOf(gocas.N(3), x), gocas.N(2))
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}

func TestExpand_Binomial(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	got := gocas.Expand(gocas.PowOf(gocas.AddOf(x, y), gocas.N(3)))
	want := gocas.AddOf(
		gocas.PowOf(x, gocas.N(3)),
		gocas.MulOf(gocas.N(3), gocas.PowOf(x, gocas.N(2)), y),
		gocas.MulOf(gocas.N(3), x, gocas.PowOf(y, gocas.N(2))),
		gocas.PowOf(y, gocas.N(3)),
	)
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}

// ============================================================
// FreeSymbols tests
// ============================================================

func TestFreeSymbols(t *testing.T) {
	expr := gocas.AddOf(gocas.S("x"), gocas.MulOf(gocas.S("y"), gocas.N(2)))
	syms := gocas.FreeSymbols(expr)
	if len(syms) != 2 || syms[0].Name() != "x" || syms[1].Name() != "y" {
		t.Errorf("expected [x y], got %v", syms)
	}
}

func TestFreeSymbols_Constant(t *testing.T) {
	if syms := gocas.FreeSymbols(gocas.N(5)); len(syms) != 0 {
		t.Errorf("constant should have no free symbols, got %d", len(syms))
	}
}

func TestFreeSymbols_BoundVariable(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	syms := gocas.FreeSymbols(gocas.IntegralOf(gocas.MulOf(x, y), x))
	if len(syms) != 1 || syms[0].Name() != "y" {
		t.Errorf("the integration variable is bound, got %v", syms)
	}
}

// ============================================================
// Degree tests
// ============================================================

func TestDegree_Linear(t *testing.T) {
	x := gocas.S("x")
	if d, err := gocas.Degree(x, x); err != nil || d != 1 {
		t.Errorf("degree of x should be 1, got %d (%v)", d, err)
	}
}

func TestDegree_Quadratic(t *testing.T) {
	x := gocas.S("x")
	if d, err := gocas.Degree(gocas.PowOf(x, gocas.N(2)), x); err != nil || d != 2 {
		t.Errorf("degree of x^2 should be 2, got %d (%v)", d, err)
	}
}

func TestDegree_Constant(t *testing.T) {
	if d, err := gocas.Degree(gocas.N(5), gocas.S("x")); err != nil || d != 0 {
		t.Errorf("degree of constant should be 0, got %d (%v)", d, err)
	}
}

func TestDegree_NotPolynomial(t *testing.T) {
	x := gocas.S("x")
	_, err := gocas.Degree(gocas.SinOf(x), x)
	if gocas.KindOf(err) != gocas.NotAPolynomial {
		t.Errorf("sin(x) is not a polynomial, got %v", err)
	}
}

// ============================================================
// PolyCoeffs tests
// ============================================================

func TestPolyCoeffs(t *testing.T) {
	x, a := gocas.S("x"), gocas.S("a")
	// 3x^2 + a·x + 1
	expr := gocas.AddOf(
		gocas.MulOf(gocas.N(3), gocas.PowOf(x, gocas.N(2))),
		gocas.MulOf(a, x),
		gocas.N(1),
	)
	coeffs, err := gocas.PolyCoeffs(expr, x)
	if err != nil {
		t.Fatal(err)
	}
	if !coeffs[2].Equal(gocas.N(3)) || !coeffs[1].Equal(a) || !coeffs[0].Equal(gocas.N(1)) {
		t.Errorf("unexpected coefficients %v", coeffs)
	}
	if ds := coeffs.Degrees(); len(ds) != 3 || ds[0] != 2 {
		t.Errorf("degrees should be descending, got %v", ds)
	}
}

// ============================================================
// Collect tests
// ============================================================

func TestCollect(t *testing.T) {
	x, a, b := gocas.S("x"), gocas.S("a"), gocas.S("b")
	expr := gocas.AddOf(gocas.MulOf(a, x), gocas.MulOf(b, x), gocas.MulOf(a, gocas.PowOf(x, gocas.N(2))))
	got := gocas.Collect(expr, x)
	want := gocas.AddOf(gocas.MulOf(gocas.AddOf(a, b), x), gocas.MulOf(a, gocas.PowOf(x, gocas.N(2))))
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}

package gocas

// ============================================================
// Laplace equation on a rectangle
// ============================================================

// LaplaceSolution is a truncated separation-of-variables series for
// ∇²u = 0 on [0, a]×[0, b] with u = 0 on three sides and u(x, b) = f(x).
//
// The Fourier coefficients are left as the symbols C1…Cn. Coefficients
// holds their defining integrals, unevaluated, so a caller can compute
// them with DefiniteIntegral or NIntegrate when f allows it.
type LaplaceSolution struct {
	Series       Expr
	Eigenvalues  []Expr
	Coeffs       []*Sym
	Coefficients []Expr
	Note         string
}

const laplaceNote = "coefficients C_n are symbolic; each equals the entry of Coefficients with the same index"

// SolveLaplaceRectangle builds the first terms modes of
// u(x, y) = Σ C_n sin(nπx/a) sinh(nπy/a), with eigenvalues λ_n = (nπ/a)²
// and C_n = 2/(a sinh(nπb/a)) ∫₀ᵃ f(x) sin(nπx/a) dx.
func SolveLaplaceRectangle(x, y *Sym, a, b, f Expr, terms int) (LaplaceSolution, error) {
	if terms < 1 {
		return LaplaceSolution{}, newError(InvalidArgument, "laplace_rectangle", "need at least one term").WithValue(itoa(terms))
	}
	a, b = Simplify(a), Simplify(b)
	if isZero(a) || isZero(b) {
		return LaplaceSolution{}, newError(DomainError, "laplace_rectangle", "rectangle sides must be non-zero")
	}
	sol := LaplaceSolution{Note: laplaceNote}
	series := make([]Expr, terms)
	for n := 1; n <= terms; n++ {
		k := DivOf(MulOf(N(int64(n)), Pi), a)
		c := freshSym("C"+itoa(n), f, a, b, x, y)
		series[n-1] = MulOf(c, SinOf(MulOf(k, x)), SinhOf(MulOf(k, y)))
		sol.Eigenvalues = append(sol.Eigenvalues, Simplify(PowOf(k, two)))
		sol.Coeffs = append(sol.Coeffs, c)
		sol.Coefficients = append(sol.Coefficients, MulOf(
			DivOf(two, MulOf(a, SinhOf(MulOf(k, b)))),
			DefiniteIntegralOf(MulOf(f, SinOf(MulOf(k, x))), x, zero, a),
		))
	}
	sol.Series = AddOf(series...)
	explain("laplace_rectangle", "separation", f, nil, sol.Series)
	return sol, nil
}

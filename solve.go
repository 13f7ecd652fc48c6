package gocas

import (
	"math"
	"math/big"
	"sort"

	"github.com/njchilds90/gocas/poly"
)

// ============================================================
// Equation solving
// ============================================================

// SolveResult holds the solutions of one equation. Exact is false when any
// solution is a floating-point approximation.
type SolveResult struct {
	Solutions []Expr
	Exact     bool
	Method    string
}

// Solve solves eq for v. eq is a Relation with OpEq, or an expression taken
// to equal zero. Polynomial equations are solved exactly up to degree two
// and factored over Z beyond that; irreducible cubic factors fall back to
// Cardano's formulas and higher ones to Newton iteration, both numeric.
// Equations h(u) = c with an invertible h are unwrapped. Anything else is
// searched numerically. A value that zeroes a denominator is never
// returned.
func Solve(eq Expr, v *Sym) (SolveResult, error) {
	f, err := equationExpr(eq)
	if err != nil {
		return SolveResult{}, err
	}
	num, den := NumerDenom(f)
	res, err := solveExpr(num, v)
	if err != nil {
		return SolveResult{}, err
	}
	res.Solutions = admissible(res.Solutions, den, v)
	solveOutcomes.WithLabelValues(res.Method).Inc()
	explain("solve", res.Method, f, nil, SetOf(res.Solutions...))
	return res, nil
}

func equationExpr(eq Expr) (Expr, error) {
	// relations between numbers arrive already decided
	if b, ok := eq.(*Bool); ok {
		if b.Value() {
			return nil, newError(InvalidArgument, "solve", "identity: every value is a solution")
		}
		return one, nil
	}
	if r, ok := eq.(*Relation); ok {
		if r.op != OpEq {
			return nil, newError(InvalidArgument, "solve", "only equations can be solved").WithValue(eq.String())
		}
		return Simplify(SubOf(r.lhs, r.rhs)), nil
	}
	return Simplify(eq), nil
}

// admissible drops duplicates and values at which den vanishes.
func admissible(sols []Expr, den Expr, v *Sym) []Expr {
	out := make([]Expr, 0, len(sols))
	for _, s := range sols {
		if containsExpr(out, s) {
			continue
		}
		if !freeOf(den, v) {
			d := Simplify(Subs(den, v, s))
			if containsUndefined(d) || isZeroRational(d) {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func solveExpr(f Expr, v *Sym) (SolveResult, error) {
	if freeOf(f, v) {
		if isZeroRational(f) {
			return SolveResult{}, newError(InvalidArgument, "solve", "identity: every value is a solution")
		}
		return SolveResult{Exact: true, Method: "inconsistent"}, nil
	}
	if cs, err := PolyCoeffs(f, v); err == nil {
		return solvePolynomial(f, cs, v)
	}
	if r, ok := solveInverse(f, v); ok {
		// principal branches can produce spurious roots
		kept := r.Solutions[:0]
		for _, x := range r.Solutions {
			if Equivalent(Subs(f, v, x), zero) {
				kept = append(kept, x)
			}
		}
		r.Solutions = kept
		return r, nil
	}
	return solveNewton(f, v), nil
}

func solvePolynomial(f Expr, cs PolyCoeffsResult, v *Sym) (SolveResult, error) {
	deg := cs.Degrees()[0]
	c := func(k int) Expr {
		if x, ok := cs[k]; ok {
			return x
		}
		return zero
	}
	switch deg {
	case 1:
		return SolveResult{Solutions: []Expr{Simplify(Neg(DivOf(c(0), c(1))))}, Exact: true, Method: "linear"}, nil
	case 2:
		return SolveResult{Solutions: quadraticRoots(c(2), c(1), c(0)), Exact: true, Method: "quadratic"}, nil
	}
	fl, err := FactorList(f, v)
	if err != nil {
		// symbolic coefficients of degree three or more
		return SolveResult{}, newError(InvalidArgument, "solve", "no closed form for a symbolic polynomial of this degree").WithValue(f.String())
	}
	res := SolveResult{Exact: true, Method: "factor"}
	for _, t := range fl.Factors {
		p, _ := ToUniPoly(t.Factor, v)
		switch p.Degree() {
		case 1:
			res.Solutions = append(res.Solutions, RatOf(new(big.Rat).Neg(new(big.Rat).Quo(p.Coeff(0), p.Coeff(1)))))
		case 2:
			res.Solutions = append(res.Solutions, quadraticRoots(RatOf(p.Coeff(2)), RatOf(p.Coeff(1)), RatOf(p.Coeff(0)))...)
		case 3:
			res.Solutions = append(res.Solutions, cubicRoots(p)...)
			res.Exact = false
		default:
			for _, r := range newtonPolyRoots(p) {
				res.Solutions = append(res.Solutions, NFloat(r))
			}
			res.Exact = false
		}
	}
	return res, nil
}

// quadraticRoots solves a·v² + b·v + c = 0 exactly. A negative numeric
// discriminant gives a complex conjugate pair.
func quadraticRoots(a, b, c Expr) []Expr {
	disc := Simplify(SubOf(PowOf(b, two), MulOf(N(4), a, c)))
	den := MulOf(two, a)
	if n, ok := disc.(*Num); ok && n.Sign() < 0 {
		re := Simplify(Neg(DivOf(b, den)))
		im := Simplify(DivOf(SqrtOf(Neg(disc)), den))
		return []Expr{ComplexOf(re, im), ComplexOf(re, Neg(im))}
	}
	if isZero(disc) {
		return []Expr{Simplify(Neg(DivOf(b, den)))}
	}
	sq := SqrtOf(disc)
	return []Expr{
		Simplify(DivOf(SubOf(Neg(b), sq), den)),
		Simplify(DivOf(AddOf(Neg(b), sq), den)),
	}
}

// cubicRoots returns the real roots of an irreducible cubic numerically.
func cubicRoots(p poly.Poly) []Expr {
	af, _ := p.Coeff(3).Float64()
	bf, _ := p.Coeff(2).Float64()
	cf, _ := p.Coeff(1).Float64()
	df, _ := p.Coeff(0).Float64()
	q1 := (3*af*cf - bf*bf) / (3 * af * af)
	q0 := (2*bf*bf*bf - 9*af*bf*cf + 27*af*af*df) / (27 * af * af * af)
	offset := bf / (3 * af)
	disc := -(4*q1*q1*q1 + 27*q0*q0)
	if disc > 0 {
		m := 2 * math.Sqrt(-q1/3)
		theta := math.Acos(3*q0/(q1*m)) / 3
		out := make([]Expr, 3)
		for k := range out {
			out[k] = NFloat(m*math.Cos(theta-2*math.Pi*float64(k)/3) - offset)
		}
		return out
	}
	s := math.Sqrt(q0*q0/4 + q1*q1*q1/27)
	A := math.Cbrt(-q0/2 + s)
	B := 0.0
	if A != 0 {
		B = -q1 / (3 * A)
	}
	return []Expr{NFloat(A + B - offset)}
}

// newtonPolyRoots finds the real roots of p by Newton iteration from a grid
// inside the Cauchy bound.
func newtonPolyRoots(p poly.Poly) []float64 {
	cs := make([]float64, p.Degree()+1)
	for i, c := range p.Coeffs() {
		cs[i], _ = c.Float64()
	}
	bound := 0.0
	for _, c := range cs[:len(cs)-1] {
		bound = math.Max(bound, math.Abs(c/cs[len(cs)-1]))
	}
	bound++
	eval := func(x float64) (float64, float64) {
		y, dy := 0.0, 0.0
		for i := len(cs) - 1; i >= 0; i-- {
			dy = dy*x + y
			y = y*x + cs[i]
		}
		return y, dy
	}
	return newtonGrid(func(x float64) (float64, float64, bool) {
		y, dy := eval(x)
		return y, dy, true
	}, bound)
}

const (
	newtonStarts  = 200
	newtonMaxIter = 100
	newtonTol     = 1e-12
)

// newtonGrid runs Newton's method from evenly spaced starts in
// [-bound, bound] and returns the distinct roots found, sorted.
func newtonGrid(f func(float64) (y, dy float64, ok bool), bound float64) []float64 {
	var roots []float64
	for i := 0; i <= newtonStarts; i++ {
		x := -bound + 2*bound*float64(i)/newtonStarts
		for iter := 0; iter < newtonMaxIter; iter++ {
			y, dy, ok := f(x)
			if !ok || math.IsNaN(y) {
				break
			}
			if math.Abs(y) < newtonTol {
				dup := false
				for _, r := range roots {
					if math.Abs(r-x) < 1e-8*math.Max(1, math.Abs(x)) {
						dup = true
						break
					}
				}
				if !dup {
					roots = append(roots, x)
				}
				break
			}
			if math.Abs(dy) < 1e-15 {
				break
			}
			x -= y / dy
			if math.Abs(x) > bound*10 {
				break
			}
		}
	}
	sort.Float64s(roots)
	return roots
}

// inverses maps a function to the one undoing it on its principal branch.
var inverses = map[string]string{
	"exp": "ln", "ln": "exp",
	"sin": "asin", "cos": "acos", "tan": "atan",
	"asin": "sin", "acos": "cos", "atan": "tan",
}

// solveInverse unwraps a·h(u) + b = 0 and a·u^k + b = 0 with a, b free of v.
// Periodic functions give their principal solution only.
func solveInverse(f Expr, v *Sym) (SolveResult, bool) {
	var core Expr
	var rest []Expr
	terms := []Expr{f}
	if a, ok := f.(*Add); ok {
		terms = a.terms
	}
	for _, t := range terms {
		if freeOf(t, v) {
			rest = append(rest, t)
		} else if core == nil {
			core = t
		} else {
			return SolveResult{}, false
		}
	}
	coef, h := splitFree(core, v)
	rhs := Simplify(Neg(DivOf(AddOf(rest...), coef)))

	switch x := h.(type) {
	case *Func:
		inv, ok := inverses[x.name]
		if !ok || len(x.args) != 1 {
			return SolveResult{}, false
		}
		r, err := solveExpr(SubOf(x.args[0], FuncOf(inv, rhs)), v)
		if err != nil {
			return SolveResult{}, false
		}
		r.Method = "inverse"
		return r, true
	case *Pow:
		if !freeOf(x.exp, v) {
			if !freeOf(x.base, v) {
				return SolveResult{}, false
			}
			// c^u = rhs
			r, err := solveExpr(SubOf(x.exp, DivOf(LnOf(rhs), LnOf(x.base))), v)
			if err != nil {
				return SolveResult{}, false
			}
			r.Method = "inverse"
			return r, true
		}
		root := PowOf(rhs, PowOf(x.exp, negOne))
		targets := []Expr{root}
		if k, ok := smallInt(x.exp); ok && k%2 == 0 {
			targets = append(targets, Neg(root))
		}
		out := SolveResult{Exact: true, Method: "inverse"}
		for _, t := range targets {
			r, err := solveExpr(SubOf(x.base, t), v)
			if err != nil {
				return SolveResult{}, false
			}
			out.Solutions = append(out.Solutions, r.Solutions...)
			out.Exact = out.Exact && r.Exact
		}
		return out, true
	}
	return SolveResult{}, false
}

// solveNewton searches [-100, 100] numerically.
func solveNewton(f Expr, v *Sym) SolveResult {
	df := Simplify(diff(f, v))
	roots := newtonGrid(func(x float64) (float64, float64, bool) {
		y, err := Float64(Subs(f, v, NFloat(x)))
		if err != nil {
			return 0, 0, false
		}
		dy, err := Float64(Subs(df, v, NFloat(x)))
		if err != nil {
			return 0, 0, false
		}
		return y, dy, true
	}, 100)
	out := SolveResult{Method: "numeric"}
	for _, r := range roots {
		out.Solutions = append(out.Solutions, NFloat(r))
	}
	return out
}

// ============================================================
// Systems
// ============================================================

// SolveLinearSystem solves a square linear system for vars. Each equation
// must be linear in vars with coefficients free of them. A singular
// coefficient matrix is SingularMatrix.
func SolveLinearSystem(eqs []Expr, vars []*Sym) ([]Expr, error) {
	if len(eqs) != len(vars) {
		return nil, newError(DimensionMismatch, "solve_linear_system", "need as many equations as unknowns")
	}
	n := len(vars)
	rows := make([][]Expr, n)
	rhs := make([][]Expr, n)
	zeroAll := make(map[Symbol]Expr, n)
	for _, v := range vars {
		zeroAll[v.s] = zero
	}
	for i, eq := range eqs {
		f, err := equationExpr(eq)
		if err != nil {
			return nil, err
		}
		rows[i] = make([]Expr, n)
		for j, v := range vars {
			c := Simplify(diff(f, v))
			for _, w := range vars {
				if !freeOf(c, w) {
					return nil, newError(InvalidArgument, "solve_linear_system", "equation is not linear").WithValue(f.String())
				}
			}
			rows[i][j] = c
		}
		rhs[i] = []Expr{Simplify(Neg(Substitute(f, zeroAll)))}
	}
	A, err := MatrixOf(rows)
	if err != nil {
		return nil, err
	}
	b, err := MatrixOf(rhs)
	if err != nil {
		return nil, err
	}
	inv, err := Inverse(A)
	if err != nil {
		return nil, err
	}
	x, err := MatMul(inv, b)
	if err != nil {
		return nil, err
	}
	out := make([]Expr, n)
	for i := range out {
		out[i] = Cancel(x.At(i, 0))
	}
	solveOutcomes.WithLabelValues("linear_system").Inc()
	return out, nil
}

// SolvePolynomialSystem returns the real solutions of a zero-dimensional
// polynomial system as tuples ordered like vars. It computes a lex Gröbner
// basis, which is triangular, and back-substitutes from the last variable.
func SolvePolynomialSystem(eqs []Expr, vars []*Sym) ([][]Expr, error) {
	basis, err := GroebnerBasis(eqs, vars, "lex")
	if err != nil {
		return nil, err
	}
	if len(basis) == 1 && isConstantExpr(basis[0]) {
		solveOutcomes.WithLabelValues("groebner").Inc()
		return nil, nil
	}
	out, err := backSubstitute(basis, vars, len(vars)-1, map[Symbol]Expr{})
	if err != nil {
		return nil, err
	}
	solveOutcomes.WithLabelValues("groebner").Inc()
	return out, nil
}

func isConstantExpr(e Expr) bool {
	_, ok := e.(*Num)
	return ok && !isZero(e)
}

func backSubstitute(basis []Expr, vars []*Sym, i int, known map[Symbol]Expr) ([][]Expr, error) {
	if i < 0 {
		tuple := make([]Expr, len(vars))
		for j, v := range vars {
			tuple[j] = known[v.s]
		}
		return [][]Expr{tuple}, nil
	}
	v := vars[i]
	var polys []Expr
	for _, g := range basis {
		h := Simplify(Substitute(g, known))
		if isZeroRational(h) {
			continue
		}
		free := true
		for _, w := range vars[:i] {
			if !freeOf(h, w) {
				free = false
				break
			}
		}
		if free {
			polys = append(polys, h)
		}
	}
	if len(polys) == 0 {
		return nil, newError(InvalidArgument, "solve_polynomial_system", "system has infinitely many solutions")
	}
	var cands []Expr
	for _, p := range polys {
		if freeOf(p, v) {
			// a non-zero constant: this branch is inconsistent
			return nil, nil
		}
	}
	r, err := solveExpr(polys[0], v)
	if err != nil {
		return nil, err
	}
	for _, s := range r.Solutions {
		if _, isComplex := s.(*Complex); isComplex {
			continue
		}
		cands = append(cands, s)
	}
	var out [][]Expr
	for _, s := range cands {
		ok := true
		for _, p := range polys[1:] {
			if !Equivalent(Subs(p, v, s), zero) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		next := make(map[Symbol]Expr, len(known)+1)
		for k, x := range known {
			next[k] = x
		}
		next[v.s] = s
		sub, err := backSubstitute(basis, vars, i-1, next)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

package gocas

import (
	"sort"
)

// ============================================================
// Indefinite integration
// ============================================================
//
// The integrator tries, in order: constants and linearity, the power rule on
// linear bases, a table of elementary antiderivatives of linear arguments,
// a small Risch-style recognizer of non-elementary integrands, powers of
// trigonometric functions, rational functions through partial fractions,
// and finally u-substitution and integration by parts under a depth bound.
// Every answer is differentiated and compared with the integrand before it
// is returned; a candidate that fails is dropped in favour of the
// unevaluated Integral node.

// maxIntegrateSteps bounds the total substitution and by-parts attempts of
// one Integrate call.
const maxIntegrateSteps = 256

// maxSubstitutionCandidates bounds the inner expressions tried as u.
const maxSubstitutionCandidates = 12

// Integrate returns an antiderivative of f with respect to v, or the
// unevaluated Integral(f, v) when no strategy succeeds.
func Integrate(f Expr, v *Sym) Expr {
	F, _ := TryIntegrate(f, v)
	return F
}

// TryIntegrate is Integrate with ok reporting whether a closed form was
// found. A closed form F always satisfies d/dv F = f.
func TryIntegrate(f Expr, v *Sym) (Expr, bool) {
	f = Simplify(f)
	switch x := f.(type) {
	case *Undefined:
		return Undef, false
	case *Matrix:
		ok := true
		out := x.Map(func(c Expr) Expr {
			F, good := TryIntegrate(c, v)
			ok = ok && good
			return F
		})
		if !ok {
			return IntegralOf(f, v), false
		}
		return out, true
	}

	cfg := currentConfig().Integrate
	steps := maxIntegrateSteps
	in := &integrator{v: v, maxDepth: cfg.MaxDepth, steps: &steps}
	F, strategy, ok := in.integrate(f)
	if !ok {
		strategy = "symbolic"
		if in.nonElementary {
			strategy = "nonelementary"
		}
		integrateOutcomes.WithLabelValues(strategy).Inc()
		out := IntegralOf(f, v)
		explain("integrate", strategy, f, nil, out)
		return out, false
	}
	F = Simplify(F)
	if !equivalent(Simplify(diff(F, v)), f, cfg.Samples) {
		integrateOutcomes.WithLabelValues("rejected").Inc()
		logger().Warn("antiderivative failed verification",
			"integrand", f.String(), "candidate", F.String(), "strategy", strategy)
		return IntegralOf(f, v), false
	}
	integrateOutcomes.WithLabelValues(strategy).Inc()
	explain("integrate", strategy, f, nil, F)
	return F, true
}

type integrator struct {
	v             *Sym
	depth         int
	maxDepth      int
	steps         *int
	nonElementary bool
}

// with returns an integrator over a substitution variable sharing the
// depth and step budget.
func (in *integrator) with(v *Sym) *integrator {
	return &integrator{v: v, depth: in.depth, maxDepth: in.maxDepth, steps: in.steps}
}

func (in *integrator) integrate(f Expr) (Expr, string, bool) {
	v := in.v
	if freeOf(f, v) {
		return MulOf(f, v), "trivial", true
	}
	if !commutes(f) {
		return nil, "", false
	}
	if a, ok := f.(*Add); ok {
		if F, ok := in.linearity(a); ok {
			return F, "linearity", true
		}
	}
	if c, rest := splitFree(f, v); !isOne(c) {
		F, s, ok := in.integrate(rest)
		if !ok {
			return nil, s, false
		}
		return MulOf(c, F), s, true
	}
	if F, ok := in.power(f); ok {
		return F, "power", true
	}
	if F, ok := in.table(f); ok {
		return F, "table", true
	}
	if nonElementary(f, v) {
		in.nonElementary = true
		return nil, "nonelementary", false
	}
	if F, ok := in.trig(f); ok {
		return F, "trig", true
	}
	if F, ok := in.rational(f); ok {
		return F, "rational", true
	}
	if F, ok := in.expPoly(f); ok {
		return F, "risch", true
	}
	if in.depth >= in.maxDepth || *in.steps <= 0 {
		return nil, "", false
	}
	in.depth++
	defer func() { in.depth-- }()
	if F, ok := in.substitution(f); ok {
		return F, "substitution", true
	}
	if F, ok := in.parts(f); ok {
		return F, "parts", true
	}
	return nil, "", false
}

func (in *integrator) linearity(a *Add) (Expr, bool) {
	parts := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		F, _, ok := in.integrate(t)
		if !ok {
			return nil, false
		}
		parts[i] = F
	}
	return AddOf(parts...), true
}

// splitFree splits a product into the factors free of v and the rest.
func splitFree(f Expr, v *Sym) (Expr, Expr) {
	m, ok := f.(*Mul)
	if !ok {
		return one, f
	}
	var free, dep []Expr
	for _, x := range m.factors {
		if freeOf(x, v) {
			free = append(free, x)
		} else {
			dep = append(dep, x)
		}
	}
	return MulOf(free...), MulOf(dep...)
}

// linearIn writes u as a·v + b with a, b free of v and a non-zero.
func linearIn(u Expr, v *Sym) (a, b Expr, ok bool) {
	if u.Equal(v) {
		return one, zero, true
	}
	if freeOf(u, v) {
		return nil, nil, false
	}
	cs, err := PolyCoeffs(u, v)
	if err != nil {
		return nil, nil, false
	}
	for k := range cs {
		if k > 1 {
			return nil, nil, false
		}
	}
	a, ok = cs[1]
	if !ok {
		return nil, nil, false
	}
	if b, ok = cs[0]; !ok {
		b = zero
	}
	return a, b, true
}

// power handles (a·v+b)^n and c^(a·v+b).
func (in *integrator) power(f Expr) (Expr, bool) {
	v := in.v
	base, exp := asPow(f)
	switch {
	case freeOf(exp, v):
		a, _, ok := linearIn(base, v)
		if !ok {
			return nil, false
		}
		if exp.Equal(negOne) {
			return DivOf(LnOf(AbsOf(base)), a), true
		}
		n1 := AddOf(exp, one)
		return DivOf(PowOf(base, n1), MulOf(a, n1)), true
	case freeOf(base, v):
		a, _, ok := linearIn(exp, v)
		if !ok {
			return nil, false
		}
		if base.Equal(E) {
			return DivOf(f, a), true
		}
		return DivOf(f, MulOf(a, LnOf(base))), true
	}
	return nil, false
}

// ============================================================
// Table
// ============================================================

// funcAntiderivative is ∫ name(u) du.
func funcAntiderivative(name string, u Expr) (Expr, bool) {
	switch name {
	case "sin":
		return Neg(CosOf(u)), true
	case "cos":
		return SinOf(u), true
	case "tan":
		return Neg(LnOf(AbsOf(CosOf(u)))), true
	case "cot":
		return LnOf(AbsOf(SinOf(u))), true
	case "sec":
		return LnOf(AbsOf(AddOf(SecOf(u), TanOf(u)))), true
	case "csc":
		return Neg(LnOf(AbsOf(AddOf(CscOf(u), CotOf(u))))), true
	case "exp":
		return ExpOf(u), true
	case "ln":
		return SubOf(MulOf(u, LnOf(u)), u), true
	case "sinh":
		return CoshOf(u), true
	case "cosh":
		return SinhOf(u), true
	case "tanh":
		return LnOf(CoshOf(u)), true
	case "asin":
		return AddOf(MulOf(u, AsinOf(u)), SqrtOf(SubOf(one, PowOf(u, two)))), true
	case "acos":
		return SubOf(MulOf(u, AcosOf(u)), SqrtOf(SubOf(one, PowOf(u, two)))), true
	case "atan":
		return SubOf(MulOf(u, AtanOf(u)), MulOf(half, LnOf(AddOf(one, PowOf(u, two))))), true
	case "erf":
		return AddOf(MulOf(u, ErfOf(u)), DivOf(ExpOf(Neg(PowOf(u, two))), SqrtOf(Pi))), true
	case "sign":
		return AbsOf(u), true
	case "abs":
		return MulOf(half, u, AbsOf(u)), true
	}
	return nil, false
}

func (in *integrator) table(f Expr) (Expr, bool) {
	v := in.v
	switch x := f.(type) {
	case *Func:
		if len(x.args) != 1 {
			return nil, false
		}
		a, _, ok := linearIn(x.args[0], v)
		if !ok {
			return nil, false
		}
		F, ok := funcAntiderivative(x.name, x.args[0])
		if !ok {
			return nil, false
		}
		return DivOf(F, a), true
	case *Pow:
		g, ok := x.base.(*Func)
		if !ok || len(g.args) != 1 || !x.exp.Equal(two) {
			return nil, false
		}
		a, _, ok := linearIn(g.args[0], v)
		if !ok {
			return nil, false
		}
		switch g.name {
		case "sec":
			return DivOf(TanOf(g.args[0]), a), true
		case "csc":
			return Neg(DivOf(CotOf(g.args[0]), a)), true
		}
	case *Mul:
		return in.expTrig(x)
	}
	return nil, false
}

// expTrig integrates e^(a·v+b)·sin(c·v+d) and e^(a·v+b)·cos(c·v+d).
func (in *integrator) expTrig(m *Mul) (Expr, bool) {
	if len(m.factors) != 2 {
		return nil, false
	}
	var ex, tr *Func
	for _, f := range m.factors {
		g, ok := f.(*Func)
		if !ok || len(g.args) != 1 {
			return nil, false
		}
		switch g.name {
		case "exp":
			ex = g
		case "sin", "cos":
			tr = g
		}
	}
	if ex == nil || tr == nil {
		return nil, false
	}
	a, _, ok1 := linearIn(ex.args[0], in.v)
	c, _, ok2 := linearIn(tr.args[0], in.v)
	if !ok1 || !ok2 {
		return nil, false
	}
	w := tr.args[0]
	den := AddOf(PowOf(a, two), PowOf(c, two))
	var body Expr
	if tr.name == "sin" {
		body = SubOf(MulOf(a, SinOf(w)), MulOf(c, CosOf(w)))
	} else {
		body = AddOf(MulOf(a, CosOf(w)), MulOf(c, SinOf(w)))
	}
	return DivOf(MulOf(ex, body), den), true
}

// nonElementary recognizes integrands whose antiderivative is known not to
// be elementary: e^p(v) with deg p ≥ 2, g(linear)/(linear) for g in exp,
// sin, cos, sinh, cosh, and 1/ln(linear).
func nonElementary(f Expr, v *Sym) bool {
	if g, ok := isFunc(f, "exp"); ok {
		d, err := Degree(g.args[0], v)
		return err == nil && d >= 2
	}
	if p, ok := f.(*Pow); ok && p.exp.Equal(negOne) {
		if g, ok := isFunc(p.base, "ln"); ok {
			_, _, lin := linearIn(g.args[0], v)
			return lin
		}
		return false
	}
	m, ok := f.(*Mul)
	if !ok || len(m.factors) != 2 {
		return false
	}
	var g *Func
	var den Expr
	for _, x := range m.factors {
		if fn, ok := x.(*Func); ok && len(fn.args) == 1 {
			g = fn
			continue
		}
		if p, ok := x.(*Pow); ok && p.exp.Equal(negOne) {
			den = p.base
		}
	}
	if g == nil || den == nil {
		return false
	}
	switch g.name {
	case "exp", "sin", "cos", "sinh", "cosh":
	default:
		return false
	}
	_, _, ok1 := linearIn(g.args[0], v)
	_, _, ok2 := linearIn(den, v)
	return ok1 && ok2
}

// ============================================================
// Polynomial times exponential, sine or cosine
// ============================================================

// polyFactor splits f into P(v)·g(u) with P a polynomial in v of positive
// degree and g one of names applied to a linear argument.
func polyFactor(f Expr, v *Sym, names ...string) (Expr, *Func, Expr, bool) {
	m, ok := f.(*Mul)
	if !ok {
		return nil, nil, nil, false
	}
	var g *Func
	rest := make([]Expr, 0, len(m.factors))
	for _, x := range m.factors {
		if fn, ok := x.(*Func); ok && g == nil && len(fn.args) == 1 && containsName(names, fn.name) {
			g = fn
			continue
		}
		rest = append(rest, x)
	}
	if g == nil {
		return nil, nil, nil, false
	}
	a, _, ok := linearIn(g.args[0], v)
	if !ok {
		return nil, nil, nil, false
	}
	P := MulOf(rest...)
	if d, err := Degree(P, v); err != nil || d < 1 {
		return nil, nil, nil, false
	}
	return P, g, a, true
}

func containsName(names []string, n string) bool {
	for _, m := range names {
		if m == n {
			return true
		}
	}
	return false
}

// expPoly is ∫ P(v)·e^(a·v+b) = e^(a·v+b) Σ_k (-1)^k P^(k) / a^(k+1).
func (in *integrator) expPoly(f Expr) (Expr, bool) {
	P, g, a, ok := polyFactor(f, in.v, "exp")
	if !ok {
		return nil, false
	}
	var terms []Expr
	var sign Expr = one
	for k, d := 0, P; !isZero(d); k++ {
		terms = append(terms, MulOf(sign, d, PowOf(a, N(int64(-(k+1))))))
		d = Simplify(diff(d, in.v))
		sign = Neg(sign)
	}
	return MulOf(g, AddOf(terms...)), true
}

// polyTrig is repeated integration by parts of P(v)·sin(u) or P(v)·cos(u)
// in closed form.
func (in *integrator) polyTrig(f Expr) (Expr, bool) {
	P, g, a, ok := polyFactor(f, in.v, "sin", "cos")
	if !ok {
		return nil, false
	}
	u := g.args[0]
	var even, odd []Expr
	var sign Expr = one
	d := P
	for k := 0; !isZero(d); k++ {
		t := MulOf(sign, d, PowOf(a, N(int64(-(k+1)))))
		if k%2 == 0 {
			even = append(even, t)
		} else {
			odd = append(odd, t)
			sign = Neg(sign)
		}
		d = Simplify(diff(d, in.v))
	}
	if g.name == "sin" {
		return AddOf(MulOf(Neg(CosOf(u)), AddOf(even...)), MulOf(SinOf(u), AddOf(odd...))), true
	}
	return AddOf(MulOf(SinOf(u), AddOf(even...)), MulOf(CosOf(u), AddOf(odd...))), true
}

// ============================================================
// Substitution and parts
// ============================================================

// substitution looks for an inner expression u with f = g(u)·u'.
func (in *integrator) substitution(f Expr) (Expr, bool) {
	v := in.v
	for _, u := range substitutionCandidates(f, v) {
		if *in.steps <= 0 {
			return nil, false
		}
		*in.steps--
		du := Simplify(diff(u, v))
		if isZero(du) {
			continue
		}
		t := freshSym("_u", f)
		q := DivOf(f, du)
		r := replaceSub(q, u, t)
		if !freeOf(r, v) {
			r = replaceSub(Cancel(q), u, t)
			if !freeOf(r, v) {
				continue
			}
		}
		if G, _, ok := in.with(t).integrate(Simplify(r)); ok {
			return Subs(G, t, u), true
		}
	}
	return nil, false
}

// substitutionCandidates lists the inner function calls, powers and sums of
// f that depend on v, largest first.
func substitutionCandidates(f Expr, v *Sym) []Expr {
	var out []Expr
	seen := map[uint64][]Expr{}
	Walk(f, func(n Expr) bool {
		switch n.(type) {
		case *Func, *Pow, *Add:
		default:
			return true
		}
		if n == f || n.Equal(f) || freeOf(n, v) {
			return true
		}
		for _, s := range seen[n.Hash()] {
			if s.Equal(n) {
				return true
			}
		}
		seen[n.Hash()] = append(seen[n.Hash()], n)
		out = append(out, n)
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return Size(out[i]) > Size(out[j]) })
	if len(out) > maxSubstitutionCandidates {
		out = out[:maxSubstitutionCandidates]
	}
	return out
}

// replaceSub replaces every occurrence of target in e with t.
func replaceSub(e, target, t Expr) Expr {
	if e.Equal(target) {
		return t
	}
	switch e.(type) {
	case *Num, *Sym, *Const, *Bool, *Undefined:
		return e
	}
	return Map(e, func(c Expr) Expr { return replaceSub(c, target, t) })
}

// parts integrates by parts, differentiating a logarithm or inverse
// trigonometric factor and integrating the rest.
func (in *integrator) parts(f Expr) (Expr, bool) {
	if F, ok := in.polyTrig(f); ok {
		return F, true
	}
	if *in.steps <= 0 {
		return nil, false
	}
	*in.steps--
	factors := []Expr{f}
	if m, ok := f.(*Mul); ok {
		factors = m.factors
	}
	idx := -1
	for i, x := range factors {
		b, e := asPow(x)
		if k, ok := smallInt(e); !ok || k < 1 {
			continue
		}
		g, ok := b.(*Func)
		if !ok || freeOf(g, in.v) {
			continue
		}
		if containsName([]string{"ln", "asin", "acos", "atan"}, g.name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	u := factors[idx]
	rest := make([]Expr, 0, len(factors)-1)
	rest = append(rest, factors[:idx]...)
	rest = append(rest, factors[idx+1:]...)
	V, _, ok := in.integrate(MulOf(rest...))
	if !ok {
		return nil, false
	}
	V = Simplify(V)
	vdu := Simplify(MulOf(V, diff(u, in.v)))
	W, _, ok := in.integrate(vdu)
	if !ok {
		if W, _, ok = in.integrate(Cancel(vdu)); !ok {
			return nil, false
		}
	}
	return SubOf(MulOf(u, V), W), true
}

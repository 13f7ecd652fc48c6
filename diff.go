package gocas

import "math/big"

// ============================================================
// Derivatives
// ============================================================

// Derivative returns the simplified n-th derivative of e with respect to v.
// Order 0 returns Simplify(e); a negative order is undefined. Functions the
// registry cannot differentiate stay as unevaluated Derivative nodes.
func Derivative(e Expr, v *Sym, n int) Expr {
	switch {
	case n < 0:
		return Undef
	case n == 0:
		return Simplify(e)
	}
	if n >= 2 {
		if m, ok := e.(*Mul); ok && len(m.factors) == 2 && allCommute(m.factors) {
			out := Simplify(Leibniz(m.factors[0], m.factors[1], v, n))
			explain("derivative", "leibniz", e, nil, out)
			return out
		}
		if f, ok := e.(*Func); ok && len(f.args) == 1 && !f.args[0].Equal(v) && !freeOf(f.args[0], v) {
			if out, ok := FaaDiBruno(f.name, f.args[0], v, n); ok {
				out = Simplify(out)
				explain("derivative", "faa_di_bruno", e, nil, out)
				return out
			}
		}
	}
	out := e
	for i := 0; i < n; i++ {
		prev := out
		out = Simplify(diff(out, v))
		explain("derivative", "first_order", prev, nil, out)
	}
	return out
}

// Diff is the first derivative.
func Diff(e Expr, v *Sym) Expr { return Derivative(e, v, 1) }

func diff(e Expr, v *Sym) Expr {
	if freeOf(e, v) {
		if IsUndefined(e) {
			return Undef
		}
		if m, ok := e.(*Matrix); ok {
			return ZeroMatrix(m.rows, m.cols)
		}
		return zero
	}
	switch x := e.(type) {
	case *Sym:
		return one
	case *Add:
		return AddOf(mapAll(x.terms, func(t Expr) Expr { return diff(t, v) })...)
	case *Mul:
		return diffProduct(x.factors, v)
	case *Pow:
		return diffPow(x, v)
	case *Func:
		return diffFunc(x, v)
	case *Matrix:
		return x.Map(func(c Expr) Expr { return diff(c, v) })
	case *Complex:
		return ComplexOf(diff(x.re, v), diff(x.im, v))
	case *Piecewise:
		pieces := make([]Piece, len(x.pieces))
		for i, p := range x.pieces {
			pieces[i] = Piece{Cond: p.Cond, Value: diff(p.Value, v)}
		}
		return PiecewiseOf(pieces, diff(x.otherwise, v))
	case *Relation:
		return RelationOf(diff(x.lhs, v), diff(x.rhs, v), x.op)
	case *Calculus:
		return diffCalculus(x, v)
	}
	return DerivativeOf(e, v, 1)
}

// diffProduct is the n-ary product rule. Each term keeps the factor order,
// which matters for non-commutative factors.
func diffProduct(fs []Expr, v *Sym) Expr {
	terms := make([]Expr, 0, len(fs))
	for i, f := range fs {
		if freeOf(f, v) {
			continue
		}
		row := append([]Expr(nil), fs...)
		row[i] = diff(f, v)
		terms = append(terms, MulOf(row...))
	}
	return AddOf(terms...)
}

func diffPow(p *Pow, v *Sym) Expr {
	b, ex := p.base, p.exp
	switch {
	case freeOf(ex, v):
		return MulOf(ex, PowOf(b, SubOf(ex, one)), diff(b, v))
	case freeOf(b, v):
		return MulOf(p, LnOf(b), diff(ex, v))
	}
	// d(f^g) = f^g · (g'·ln f + g·f'/f)
	return MulOf(p, AddOf(
		MulOf(diff(ex, v), LnOf(b)),
		MulOf(ex, diff(b, v), PowOf(b, negOne)),
	))
}

func diffFunc(f *Func, v *Sym) Expr {
	if len(f.args) != 1 {
		return DerivativeOf(f, v, 1)
	}
	u := f.args[0]
	// ln|u| differentiates to u'/u on both sides of zero.
	if f.name == "ln" {
		if a, ok := isFunc(u, "abs"); ok {
			w := a.args[0]
			return MulOf(diff(w, v), PowOf(w, negOne))
		}
	}
	p, ok := lookupFunction(f.name)
	if !ok || p.Derivative == nil {
		if u.Equal(v) {
			return DerivativeOf(f, v, 1)
		}
		// f'(u)·u' with f' left unevaluated at the dummy point u
		t := freshSym("_t", f)
		outer := Subs(DerivativeOf(FuncOf(f.name, t), t, 1), t, u)
		return MulOf(outer, diff(u, v))
	}
	return MulOf(p.Derivative(u), diff(u, v))
}

func diffCalculus(c *Calculus, v *Sym) Expr {
	switch c.op {
	case CalcIntegral:
		if c.v.Equal(v) {
			return c.body
		}
		return IntegralOf(diff(c.body, v), c.v)
	case CalcDefiniteIntegral:
		// Leibniz integral rule
		a, b := c.bounds[0], c.bounds[1]
		out := []Expr{
			MulOf(Subs(c.body, c.v, b), diff(b, v)),
			Neg(MulOf(Subs(c.body, c.v, a), diff(a, v))),
		}
		if !c.v.Equal(v) && !freeOf(c.body, v) {
			out = append(out, DefiniteIntegralOf(diff(c.body, v), c.v, a, b))
		}
		return AddOf(out...)
	case CalcDerivative:
		if c.v.Equal(v) {
			return DerivativeOf(c, v, 1)
		}
		return DerivativeOf(diff(c.body, v), c.v, c.order)
	}
	return DerivativeOf(c, v, 1)
}

// Leibniz returns (f·g)^(n) = Σ C(n,k) f^(k) g^(n−k).
func Leibniz(f, g Expr, v *Sym, n int) Expr {
	df := derivatives(f, v, n)
	dg := derivatives(g, v, n)
	terms := make([]Expr, 0, n+1)
	c := big.NewInt(1)
	for k := 0; k <= n; k++ {
		terms = append(terms, MulOf(NBig(c), df[k], dg[n-k]))
		c.Mul(c, big.NewInt(int64(n-k)))
		c.Quo(c, big.NewInt(int64(k+1)))
	}
	return AddOf(terms...)
}

// derivatives returns e, e', …, e^(n).
func derivatives(e Expr, v *Sym, n int) []Expr {
	out := make([]Expr, n+1)
	out[0] = e
	for k := 1; k <= n; k++ {
		out[k] = Simplify(diff(out[k-1], v))
	}
	return out
}

// FaaDiBruno returns the n-th derivative of name(inner) through Bell
// polynomials: Σ_k f^(k)(inner) · B(n,k)(inner', …, inner^(n−k+1)). ok is
// false when name is not a registered unary function with a derivative.
func FaaDiBruno(name string, inner Expr, v *Sym, n int) (Expr, bool) {
	p, ok := lookupFunction(name)
	if !ok || p.Derivative == nil || p.Arity != 1 || n < 1 {
		return nil, false
	}
	t := freshSym("_t", inner)
	outer := derivatives(FuncOf(name, t), t, n)
	for _, d := range outer {
		if containsUnevaluated(d) {
			return nil, false
		}
	}
	dg := derivatives(inner, v, n)
	bell := bellTable(dg, n)
	terms := make([]Expr, 0, n)
	for k := 1; k <= n; k++ {
		terms = append(terms, MulOf(Subs(outer[k], t, inner), bell[n][k]))
	}
	return AddOf(terms...), true
}

// bellTable fills B(m,k) for m, k ≤ n from the recurrence
// B(m,k) = Σ_{i=1}^{m−k+1} C(m−1, i−1) x_i B(m−i, k−1), with x_i = dg[i].
func bellTable(dg []Expr, n int) [][]Expr {
	b := make([][]Expr, n+1)
	for m := range b {
		b[m] = make([]Expr, n+1)
		for k := range b[m] {
			b[m][k] = zero
		}
	}
	b[0][0] = one
	for m := 1; m <= n; m++ {
		for k := 1; k <= m; k++ {
			var terms []Expr
			c := big.NewInt(1)
			for i := 1; i <= m-k+1; i++ {
				terms = append(terms, MulOf(NBig(c), dg[i], b[m-i][k-1]))
				c.Mul(c, big.NewInt(int64(m-i)))
				c.Quo(c, big.NewInt(int64(i)))
			}
			b[m][k] = AddOf(terms...)
		}
	}
	return b
}

func containsUnevaluated(e Expr) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if c, ok := n.(*Calculus); ok && c.op == CalcDerivative {
			found = true
		}
		return !found
	})
	return found
}

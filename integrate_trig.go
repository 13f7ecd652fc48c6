package gocas

// trigPowers reads f as Π trig(u)^k over one linear argument u and returns
// the equivalent sin(u)^m·cos(u)^n.
func trigPowers(f Expr, v *Sym) (u Expr, m, n int, ok bool) {
	factors := []Expr{f}
	if x, isMul := f.(*Mul); isMul {
		factors = x.factors
	}
	for _, x := range factors {
		b, e := asPow(x)
		k, isInt := smallInt(e)
		g, isFn := b.(*Func)
		if !isInt || !isFn || len(g.args) != 1 {
			return nil, 0, 0, false
		}
		if u == nil {
			u = g.args[0]
		} else if !u.Equal(g.args[0]) {
			return nil, 0, 0, false
		}
		switch g.name {
		case "sin":
			m += k
		case "cos":
			n += k
		case "tan":
			m, n = m+k, n-k
		case "cot":
			m, n = m-k, n+k
		case "sec":
			n -= k
		case "csc":
			m -= k
		default:
			return nil, 0, 0, false
		}
	}
	if u == nil || (m == 0 && n == 0) {
		return nil, 0, 0, false
	}
	if _, _, lin := linearIn(u, v); !lin {
		return nil, 0, 0, false
	}
	return u, m, n, true
}

// trig integrates sin(u)^m·cos(u)^n. An odd power of one function turns the
// integrand into a rational function of the other; two even non-negative
// powers are reduced through the double angle; the remaining cases go
// through w = tan(u).
func (in *integrator) trig(f Expr) (Expr, bool) {
	u, m, n, ok := trigPowers(f, in.v)
	if !ok {
		return nil, false
	}
	a, _, _ := linearIn(u, in.v)
	if m%2 == 0 && n%2 == 0 && m >= 0 && n >= 0 {
		return in.powerReduce(u, m, n)
	}
	w := freshSym("_w", f)
	var g, back Expr
	switch {
	case m%2 != 0:
		// w = cos(u), dw = -sin(u) du
		g = Neg(MulOf(PowOf(SubOf(one, PowOf(w, two)), N(int64((m-1)/2))), PowOf(w, N(int64(n)))))
		back = CosOf(u)
	case n%2 != 0:
		// w = sin(u), dw = cos(u) du
		g = MulOf(PowOf(w, N(int64(m))), PowOf(SubOf(one, PowOf(w, two)), N(int64((n-1)/2))))
		back = SinOf(u)
	default:
		// w = tan(u), du = dw/(1+w²)
		g = MulOf(PowOf(w, N(int64(m))), PowOf(AddOf(one, PowOf(w, two)), N(int64(-(m+n)/2-1))))
		back = TanOf(u)
	}
	G, _, ok := in.with(w).integrate(Expand(g))
	if !ok {
		return nil, false
	}
	// atan(tan u) from the tangent substitution is u up to a constant
	F := replaceSub(Subs(G, w, back), AtanOf(TanOf(u)), u)
	return DivOf(F, a), true
}

// powerReduce rewrites sin²(u) = (1 - cos 2u)/2 and cos²(u) = (1 + cos 2u)/2
// and integrates the expanded polynomial in cos(2u).
func (in *integrator) powerReduce(u Expr, m, n int) (Expr, bool) {
	c := CosOf(MulOf(two, u))
	g := MulOf(
		PowOf(MulOf(half, SubOf(one, c)), N(int64(m/2))),
		PowOf(MulOf(half, AddOf(one, c)), N(int64(n/2))),
	)
	F, _, ok := in.integrate(Expand(g))
	return F, ok
}

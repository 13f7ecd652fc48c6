package gocas

import (
	"math"
)

// ============================================================
// Limits
// ============================================================

// Direction selects a one-sided or two-sided limit.
type Direction int

const (
	TwoSided  Direction = 0
	FromRight Direction = 1
	FromLeft  Direction = -1
)

// maxLHopital bounds the L'Hôpital steps of one Limit call.
const maxLHopital = 8

// Limit computes lim_{v → point} e. It substitutes directly where e is
// continuous, evaluates ±∞ through the growth of each function, and resolves
// 0/0 and ∞/∞ by L'Hôpital's rule on a numerator/denominator pair; 0·∞,
// ∞ - ∞ and the power forms 1^∞, 0^0, ∞^0 are rewritten into quotients
// first. When no value is found the unevaluated Limit node is returned
// together with a ConvergenceFailed error.
func Limit(e Expr, v *Sym, point Expr) (Expr, error) {
	return LimitDir(e, v, point, TwoSided)
}

// LimitDir is Limit with an explicit side. Limits at ±∞ are one-sided
// whatever dir says.
func LimitDir(e Expr, v *Sym, point Expr, dir Direction) (Expr, error) {
	point = Simplify(point)
	switch {
	case point.Equal(Infinity):
		dir = FromLeft
	case point.Equal(NegInfinity):
		dir = FromRight
	}
	budget := maxLHopital
	l := &limiter{v: v, p: point, dir: dir, budget: &budget}
	r, err := l.limit(Simplify(e))
	if err != nil {
		return LimitOf(e, v, point), err
	}
	explain("limit", "", e, nil, r)
	return r, nil
}

type limiter struct {
	v      *Sym
	p      Expr
	dir    Direction
	budget *int
}

func (l *limiter) fail(e Expr, reason string) error {
	return newError(ConvergenceFailed, "limit", reason).WithValue(e.String())
}

func (l *limiter) limit(e Expr) (Expr, error) {
	if freeOf(e, l.v) {
		return e, nil
	}
	if r, ok := l.eval(e); ok {
		return r, nil
	}
	return l.indeterminate(e)
}

// eval evaluates the limit structurally; ok is false for indeterminate
// forms and anything it cannot decide.
func (l *limiter) eval(e Expr) (Expr, bool) {
	if freeOf(e, l.v) {
		return e, true
	}
	var r Expr
	ok := true
	switch x := e.(type) {
	case *Sym:
		r = l.p
	case *Add:
		r, ok = l.evalAdd(x)
	case *Mul:
		r, ok = l.evalMul(x)
	case *Pow:
		r, ok = l.evalPow(x)
	case *Func:
		r, ok = l.evalFunc(x)
	default:
		if isInfinite(l.p) {
			return nil, false
		}
		r = Simplify(Subs(e, l.v, l.p))
	}
	if !ok || containsUndefined(r) {
		return nil, false
	}
	return r, true
}

func (l *limiter) sub(e Expr) (Expr, bool) {
	r, err := l.limit(e)
	if err != nil || containsUndefined(r) {
		return nil, false
	}
	return r, true
}

func (l *limiter) evalAdd(a *Add) (Expr, bool) {
	parts := make([]Expr, len(a.terms))
	pos, neg := false, false
	for i, t := range a.terms {
		r, ok := l.sub(t)
		if !ok {
			return nil, false
		}
		pos = pos || r.Equal(Infinity)
		neg = neg || r.Equal(NegInfinity)
		parts[i] = r
	}
	switch {
	case pos && neg:
		return nil, false
	case pos:
		return Infinity, true
	case neg:
		return NegInfinity, true
	}
	return AddOf(parts...), true
}

func (l *limiter) evalMul(m *Mul) (Expr, bool) {
	parts := make([]Expr, len(m.factors))
	zeros, infs, sign := 0, 0, 1
	for i, f := range m.factors {
		r, ok := l.sub(f)
		if !ok {
			return nil, false
		}
		switch {
		case isZero(r):
			zeros++
		case isInfinite(r):
			infs++
			if r.Equal(NegInfinity) {
				sign = -sign
			}
		}
		parts[i] = r
	}
	switch {
	case zeros > 0 && infs > 0:
		return nil, false
	case infs > 0:
		for _, r := range parts {
			if isInfinite(r) {
				continue
			}
			s, ok := numericSign(r)
			if !ok {
				return nil, false
			}
			sign *= s
		}
		return signedInfinity(sign), true
	}
	return MulOf(parts...), true
}

func (l *limiter) evalPow(p *Pow) (Expr, bool) {
	b, ok := l.sub(p.base)
	if !ok {
		return nil, false
	}
	k, ok := l.sub(p.exp)
	if !ok {
		return nil, false
	}
	switch {
	case isInfinite(k):
		bf, err := Float64(b)
		if err != nil {
			if b.Equal(Infinity) {
				bf = math.Inf(1)
			} else {
				return nil, false
			}
		}
		up := k.Equal(Infinity)
		switch {
		case bf > 1:
			if up {
				return Infinity, true
			}
			return zero, true
		case bf >= 0 && bf < 1:
			if up {
				return zero, true
			}
			return Infinity, true
		}
		return nil, false
	case isInfinite(b):
		kf, err := Float64(k)
		if err != nil || kf == 0 {
			return nil, false
		}
		if kf < 0 {
			return zero, true
		}
		if b.Equal(Infinity) {
			return Infinity, true
		}
		if n, ok := smallInt(k); ok {
			return signedInfinity(1 - 2*(n&1)), true
		}
		return nil, false
	case isZero(b):
		kf, err := Float64(k)
		if err != nil || kf == 0 {
			return nil, false
		}
		if kf > 0 {
			return zero, true
		}
		if n, ok := smallInt(k); ok && n%2 == 0 {
			return Infinity, true
		}
		s, ok := l.sideSign(p.base)
		if !ok {
			return nil, false
		}
		return signedInfinity(s), true
	}
	r := PowOf(b, k)
	return r, !IsUndefined(r)
}

func (l *limiter) evalFunc(f *Func) (Expr, bool) {
	if len(f.args) != 1 {
		args := make([]Expr, len(f.args))
		for i, a := range f.args {
			r, ok := l.sub(a)
			if !ok || isInfinite(r) {
				return nil, false
			}
			args[i] = r
		}
		return FuncOf(f.name, args...), true
	}
	a, ok := l.sub(f.args[0])
	if !ok {
		return nil, false
	}
	if isInfinite(a) {
		return funcAtInfinity(f.name, a.Equal(Infinity))
	}
	if isZero(a) && f.name == "ln" {
		return NegInfinity, true
	}
	r := FuncOf(f.name, a)
	return r, !containsUndefined(r)
}

// funcAtInfinity is the limit of name(u) as u → +∞ (up) or -∞.
func funcAtInfinity(name string, up bool) (Expr, bool) {
	s := 1
	if !up {
		s = -1
	}
	switch name {
	case "exp":
		if up {
			return Infinity, true
		}
		return zero, true
	case "ln":
		if up {
			return Infinity, true
		}
	case "atan":
		return MulOf(N(int64(s)), half, Pi), true
	case "tanh", "erf", "sign":
		return N(int64(s)), true
	case "sinh":
		return signedInfinity(s), true
	case "cosh", "abs":
		return Infinity, true
	}
	return nil, false
}

func signedInfinity(s int) Expr {
	if s < 0 {
		return NegInfinity
	}
	return Infinity
}

func numericSign(e Expr) (int, bool) {
	f, err := Float64(e)
	if err != nil || f == 0 || math.IsNaN(f) {
		return 0, false
	}
	if f < 0 {
		return -1, true
	}
	return 1, true
}

// sideSign samples the sign of e next to the limit point. A two-sided limit
// needs both sides to agree.
func (l *limiter) sideSign(e Expr) (int, bool) {
	var xs []float64
	switch {
	case l.p.Equal(Infinity):
		xs = []float64{1e6}
	case l.p.Equal(NegInfinity):
		xs = []float64{-1e6}
	default:
		p, err := Float64(l.p)
		if err != nil {
			return 0, false
		}
		h := 1e-7 * math.Max(1, math.Abs(p))
		switch l.dir {
		case FromRight:
			xs = []float64{p + h}
		case FromLeft:
			xs = []float64{p - h}
		default:
			xs = []float64{p + h, p - h}
		}
	}
	sign := 0
	for _, x := range xs {
		s, ok := numericSign(Subs(e, l.v, NFloat(x)))
		if !ok || (sign != 0 && s != sign) {
			return 0, false
		}
		sign = s
	}
	return sign, true
}

// indeterminate rewrites e into a quotient and applies L'Hôpital's rule.
func (l *limiter) indeterminate(e Expr) (Expr, error) {
	if *l.budget <= 0 {
		return nil, l.fail(e, "L'Hôpital budget exhausted")
	}
	*l.budget--
	switch x := e.(type) {
	case *Pow:
		if freeOf(x.exp, l.v) {
			return l.ratio(one, PowOf(x.base, Neg(x.exp)))
		}
		// b^k = exp(k·ln b)
		r, err := l.limit(Simplify(MulOf(x.exp, LnOf(x.base))))
		if err != nil {
			return nil, err
		}
		if isInfinite(r) {
			out, _ := funcAtInfinity("exp", r.Equal(Infinity))
			return out, nil
		}
		return ExpOf(r), nil
	case *Add:
		if t := Together(x); !t.Equal(x) {
			return l.limit(t)
		}
		return nil, l.fail(e, "indeterminate difference")
	case *Func:
		return nil, l.fail(e, "limit of argument undetermined")
	}
	pairs := l.quotients(e)
	if len(pairs) == 0 {
		return nil, l.fail(e, "not a quotient")
	}
	var err error
	for _, q := range pairs {
		var r Expr
		if r, err = l.ratio(q[0], q[1]); err == nil {
			return r, nil
		}
	}
	return nil, err
}

// quotients lists numerator/denominator splits of a product. Factors with
// negative exponents go below the bar. For 0·∞ both f/(1/g) and g/(1/f)
// are offered, since L'Hôpital terminates on only one of them in general.
func (l *limiter) quotients(e Expr) [][2]Expr {
	factors := []Expr{e}
	if m, ok := e.(*Mul); ok {
		factors = m.factors
	}
	var num, den []Expr
	for _, f := range factors {
		if p, ok := f.(*Pow); ok {
			if n, ok := p.exp.(*Num); ok && n.Sign() < 0 {
				den = append(den, PowOf(p.base, Neg(n)))
				continue
			}
		}
		num = append(num, f)
	}
	if len(den) > 0 {
		return [][2]Expr{{MulOf(num...), MulOf(den...)}}
	}
	var zeros, rest []Expr
	for _, f := range factors {
		if r, ok := l.eval(f); ok && isZero(r) {
			zeros = append(zeros, f)
		} else {
			rest = append(rest, f)
		}
	}
	if len(zeros) == 0 || len(rest) == 0 {
		return nil
	}
	z, r := MulOf(zeros...), MulOf(rest...)
	return [][2]Expr{
		{z, PowOf(r, negOne)},
		{r, PowOf(z, negOne)},
	}
}

// ratio evaluates lim num/den, differentiating both while the pair is 0/0
// or ∞/∞. At a finite point this compares the leading Taylor terms.
func (l *limiter) ratio(num, den Expr) (Expr, error) {
	for i := 0; ; i++ {
		if r, ok := l.eval(Simplify(DivOf(num, den))); ok {
			return r, nil
		}
		n, ok1 := l.eval(num)
		d, ok2 := l.eval(den)
		if !ok1 || !ok2 {
			return nil, l.fail(DivOf(num, den), "numerator or denominator undetermined")
		}
		switch {
		case (isZero(n) && isZero(d)) || (isInfinite(n) && isInfinite(d)):
			if i >= maxLHopital {
				return nil, l.fail(DivOf(num, den), "L'Hôpital did not terminate")
			}
			num, den = Simplify(diff(num, l.v)), Simplify(diff(den, l.v))
			explain("limit", "lhopital", DivOf(num, den), nil, DivOf(num, den))
		case isZero(d):
			s, ok := l.sideSign(DivOf(num, den))
			if !ok {
				return nil, newError(DomainError, "limit", "one-sided limits differ").WithValue(DivOf(num, den).String())
			}
			return signedInfinity(s), nil
		case isInfinite(d):
			return zero, nil
		case isInfinite(n):
			s, ok := numericSign(d)
			if !ok {
				return nil, l.fail(DivOf(num, den), "sign of denominator unknown")
			}
			if n.Equal(NegInfinity) {
				s = -s
			}
			return signedInfinity(s), nil
		default:
			return Simplify(DivOf(n, d)), nil
		}
	}
}

func containsUndefined(e Expr) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if IsUndefined(n) {
			found = true
		}
		return !found
	})
	return found
}

// ============================================================
// Taylor / Maclaurin series
// ============================================================

// TaylorSeries returns Σ_{k=0}^{order} f^(k)(a)/k! · (v - a)^k. Where a
// derivative cannot be substituted at a, its limit is used instead.
func TaylorSeries(e Expr, v *Sym, a Expr, order int) (Expr, error) {
	if order < 0 {
		return nil, newError(InvalidArgument, "taylor", "negative order")
	}
	terms := make([]Expr, 0, order+1)
	current := Simplify(e)
	var fact Expr = one
	dx := SubOf(v, a)
	for k := 0; k <= order; k++ {
		if k > 0 {
			fact = MulOf(fact, N(int64(k)))
			current = Simplify(diff(current, v))
		}
		c := Simplify(Subs(current, v, a))
		if containsUndefined(c) {
			var err error
			if c, err = Limit(current, v, a); err != nil {
				return nil, err
			}
		}
		if isZero(c) {
			continue
		}
		terms = append(terms, MulOf(DivOf(c, fact), PowOf(dx, N(int64(k)))))
	}
	return AddOf(terms...), nil
}

// MaclaurinSeries is TaylorSeries about 0.
func MaclaurinSeries(e Expr, v *Sym, order int) (Expr, error) {
	return TaylorSeries(e, v, zero, order)
}

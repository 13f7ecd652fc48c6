package poly

import (
	"math/big"
	"sort"
	"strings"
)

// Term is one coefficient-monomial pair of an MPoly.
type Term struct {
	Exp  Monomial
	Coef *big.Rat
}

// MPoly is a sparse multivariate polynomial over Q. Terms are kept sorted in
// descending monomial order with non-zero coefficients, so the first term is
// the leading term.
type MPoly struct {
	nvars int
	order Order
	terms []Term
}

// NewMPoly builds a polynomial in nvars variables, combining like terms.
func NewMPoly(nvars int, order Order, terms ...Term) *MPoly {
	acc := make(map[string]*Term, len(terms))
	for _, t := range terms {
		if t.Coef == nil || t.Coef.Sign() == 0 {
			continue
		}
		k := t.Exp.key()
		if cur, ok := acc[k]; ok {
			cur.Coef.Add(cur.Coef, t.Coef)
			continue
		}
		acc[k] = &Term{Exp: t.Exp.clone(), Coef: ratCopy(t.Coef)}
	}
	out := make([]Term, 0, len(acc))
	for _, t := range acc {
		if t.Coef.Sign() != 0 {
			out = append(out, *t)
		}
	}
	sortTerms(out, order)
	return &MPoly{nvars: nvars, order: order, terms: out}
}

func sortTerms(ts []Term, o Order) {
	sort.Slice(ts, func(i, j int) bool { return o.Compare(ts[i].Exp, ts[j].Exp) > 0 })
}

// Zero returns the zero polynomial.
func Zero(nvars int, order Order) *MPoly {
	return &MPoly{nvars: nvars, order: order}
}

// Constant returns c as a polynomial.
func Constant(nvars int, order Order, c *big.Rat) *MPoly {
	return NewMPoly(nvars, order, Term{Exp: One(nvars), Coef: c})
}

// Var returns the i-th variable.
func Var(nvars int, order Order, i int) *MPoly {
	m := One(nvars)
	m[i] = 1
	return NewMPoly(nvars, order, Term{Exp: m, Coef: ratInt(1)})
}

// FromUnivariate embeds p as a polynomial in variable i.
func FromUnivariate(p Poly, nvars int, order Order, i int) *MPoly {
	terms := make([]Term, 0, len(p.c))
	for k, c := range p.c {
		m := One(nvars)
		m[i] = k
		terms = append(terms, Term{Exp: m, Coef: c})
	}
	return NewMPoly(nvars, order, terms...)
}

func (f *MPoly) NumVars() int { return f.nvars }
func (f *MPoly) Order() Order { return f.order }
func (f *MPoly) Len() int     { return len(f.terms) }
func (f *MPoly) IsZero() bool { return len(f.terms) == 0 }

// Terms returns a copy of the terms in descending order.
func (f *MPoly) Terms() []Term {
	out := make([]Term, len(f.terms))
	for i, t := range f.terms {
		out[i] = Term{Exp: t.Exp.clone(), Coef: ratCopy(t.Coef)}
	}
	return out
}

// IsConstant reports whether f has no variable dependence.
func (f *MPoly) IsConstant() bool {
	return len(f.terms) == 0 || (len(f.terms) == 1 && f.terms[0].Exp.Degree() == 0)
}

// ConstantValue returns the value of a constant polynomial.
func (f *MPoly) ConstantValue() *big.Rat {
	for _, t := range f.terms {
		if t.Exp.Degree() == 0 {
			return ratCopy(t.Coef)
		}
	}
	return new(big.Rat)
}

// LeadingTerm returns the leading term; zero polynomials return a zero term.
func (f *MPoly) LeadingTerm() Term {
	if f.IsZero() {
		return Term{Exp: One(f.nvars), Coef: new(big.Rat)}
	}
	return Term{Exp: f.terms[0].Exp.clone(), Coef: ratCopy(f.terms[0].Coef)}
}

func (f *MPoly) LM() Monomial { return f.LeadingTerm().Exp }
func (f *MPoly) LC() *big.Rat { return f.LeadingTerm().Coef }

// TotalDegree returns the maximum total degree, -1 for zero.
func (f *MPoly) TotalDegree() int {
	d := -1
	for _, t := range f.terms {
		d = max(d, t.Exp.Degree())
	}
	return d
}

// Degree returns the degree in variable i, -1 for zero.
func (f *MPoly) Degree(i int) int {
	d := -1
	for _, t := range f.terms {
		d = max(d, t.Exp[i])
	}
	return d
}

// Vars lists the indices of variables that occur in f.
func (f *MPoly) Vars() []int {
	var out []int
	for i := 0; i < f.nvars; i++ {
		if f.Degree(i) > 0 {
			out = append(out, i)
		}
	}
	return out
}

func (f *MPoly) with(terms []Term) *MPoly {
	return &MPoly{nvars: f.nvars, order: f.order, terms: terms}
}

// WithOrder returns f re-sorted under order o.
func (f *MPoly) WithOrder(o Order) *MPoly {
	ts := f.Terms()
	sortTerms(ts, o)
	return &MPoly{nvars: f.nvars, order: o, terms: ts}
}

func (f *MPoly) Add(g *MPoly) *MPoly {
	return f.merge(g, false)
}

func (f *MPoly) Sub(g *MPoly) *MPoly {
	return f.merge(g, true)
}

func (f *MPoly) merge(g *MPoly, negate bool) *MPoly {
	out := make([]Term, 0, len(f.terms)+len(g.terms))
	i, j := 0, 0
	for i < len(f.terms) || j < len(g.terms) {
		var c int
		switch {
		case i == len(f.terms):
			c = -1
		case j == len(g.terms):
			c = 1
		default:
			c = f.order.Compare(f.terms[i].Exp, g.terms[j].Exp)
		}
		switch {
		case c > 0:
			out = append(out, f.terms[i])
			i++
		case c < 0:
			gc := g.terms[j].Coef
			if negate {
				gc = ratNeg(gc)
			}
			out = append(out, Term{Exp: g.terms[j].Exp, Coef: gc})
			j++
		default:
			var s *big.Rat
			if negate {
				s = ratSub(f.terms[i].Coef, g.terms[j].Coef)
			} else {
				s = ratAdd(f.terms[i].Coef, g.terms[j].Coef)
			}
			if s.Sign() != 0 {
				out = append(out, Term{Exp: f.terms[i].Exp, Coef: s})
			}
			i++
			j++
		}
	}
	return f.with(out)
}

func (f *MPoly) Neg() *MPoly {
	out := make([]Term, len(f.terms))
	for i, t := range f.terms {
		out[i] = Term{Exp: t.Exp, Coef: ratNeg(t.Coef)}
	}
	return f.with(out)
}

// Scale multiplies by the rational c.
func (f *MPoly) Scale(c *big.Rat) *MPoly {
	if c.Sign() == 0 {
		return f.with(nil)
	}
	out := make([]Term, len(f.terms))
	for i, t := range f.terms {
		out[i] = Term{Exp: t.Exp, Coef: ratMul(t.Coef, c)}
	}
	return f.with(out)
}

// MulTerm multiplies by c*x^m. Monomial orders are multiplicative, so the
// term order is preserved.
func (f *MPoly) MulTerm(m Monomial, c *big.Rat) *MPoly {
	if c.Sign() == 0 {
		return f.with(nil)
	}
	out := make([]Term, len(f.terms))
	for i, t := range f.terms {
		out[i] = Term{Exp: t.Exp.Mul(m), Coef: ratMul(t.Coef, c)}
	}
	return f.with(out)
}

func (f *MPoly) Mul(g *MPoly) *MPoly {
	if f.IsZero() || g.IsZero() {
		return f.with(nil)
	}
	terms := make([]Term, 0, len(f.terms)*len(g.terms))
	for _, a := range f.terms {
		for _, b := range g.terms {
			terms = append(terms, Term{Exp: a.Exp.Mul(b.Exp), Coef: ratMul(a.Coef, b.Coef)})
		}
	}
	return NewMPoly(f.nvars, f.order, terms...)
}

// Pow returns f^n for n >= 0.
func (f *MPoly) Pow(n int) *MPoly {
	result := Constant(f.nvars, f.order, ratInt(1))
	base := f
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	return result
}

func (f *MPoly) Equal(g *MPoly) bool {
	if f.nvars != g.nvars || len(f.terms) != len(g.terms) {
		return false
	}
	if f.order != g.order {
		g = g.WithOrder(f.order)
	}
	for i := range f.terms {
		if !f.terms[i].Exp.Equal(g.terms[i].Exp) || f.terms[i].Coef.Cmp(g.terms[i].Coef) != 0 {
			return false
		}
	}
	return true
}

// Eval substitutes variable i by v.
func (f *MPoly) Eval(i int, v *big.Rat) *MPoly {
	terms := make([]Term, 0, len(f.terms))
	for _, t := range f.terms {
		m := t.Exp.clone()
		e := m[i]
		m[i] = 0
		c := ratCopy(t.Coef)
		if e > 0 {
			pw := new(big.Rat).SetInt(new(big.Int).Exp(v.Num(), big.NewInt(int64(e)), nil))
			pw.Quo(pw, new(big.Rat).SetInt(new(big.Int).Exp(v.Denom(), big.NewInt(int64(e)), nil)))
			c.Mul(c, pw)
		}
		terms = append(terms, Term{Exp: m, Coef: c})
	}
	return NewMPoly(f.nvars, f.order, terms...)
}

// Derivative differentiates with respect to variable i.
func (f *MPoly) Derivative(i int) *MPoly {
	terms := make([]Term, 0, len(f.terms))
	for _, t := range f.terms {
		if t.Exp[i] == 0 {
			continue
		}
		m := t.Exp.clone()
		m[i]--
		terms = append(terms, Term{Exp: m, Coef: ratMul(t.Coef, ratInt(int64(t.Exp[i])))})
	}
	return NewMPoly(f.nvars, f.order, terms...)
}

// Content returns the non-negative rational content of the coefficients.
func (f *MPoly) Content() *big.Rat {
	cs := make([]*big.Rat, len(f.terms))
	for i, t := range f.terms {
		cs[i] = t.Coef
	}
	return ratContent(cs)
}

// PrimitivePart divides by the content and fixes the leading coefficient
// positive.
func (f *MPoly) PrimitivePart() *MPoly {
	if f.IsZero() {
		return f
	}
	c := f.Content()
	if f.terms[0].Coef.Sign() < 0 {
		c.Neg(c)
	}
	return f.Scale(new(big.Rat).Inv(c))
}

// Monic divides by the leading coefficient.
func (f *MPoly) Monic() *MPoly {
	if f.IsZero() {
		return f
	}
	return f.Scale(new(big.Rat).Inv(f.terms[0].Coef))
}

// DivMod runs multivariate division of f by the divisors in f's order. It
// returns one quotient per divisor and the remainder, whose terms are not
// divisible by any divisor's leading monomial.
func (f *MPoly) DivMod(divisors ...*MPoly) ([]*MPoly, *MPoly, error) {
	for _, g := range divisors {
		if g.IsZero() {
			return nil, nil, errDivZero("mpoly divmod")
		}
		if g.nvars != f.nvars {
			return nil, nil, errVars("mpoly divmod", f.nvars, g.nvars)
		}
	}
	gs := make([]*MPoly, len(divisors))
	quo := make([][]Term, len(divisors))
	for i, g := range divisors {
		gs[i] = g
		if g.order != f.order {
			gs[i] = g.WithOrder(f.order)
		}
	}
	p := f
	var rem []Term
	for !p.IsZero() {
		lt := p.terms[0]
		divided := false
		for i, g := range gs {
			glt := g.terms[0]
			if !glt.Exp.Divides(lt.Exp) {
				continue
			}
			m := lt.Exp.Div(glt.Exp)
			c := ratQuo(lt.Coef, glt.Coef)
			quo[i] = append(quo[i], Term{Exp: m, Coef: c})
			p = p.Sub(g.MulTerm(m, c))
			divided = true
			break
		}
		if !divided {
			rem = append(rem, lt)
			p = p.with(p.terms[1:])
		}
	}
	qs := make([]*MPoly, len(gs))
	for i := range gs {
		qs[i] = NewMPoly(f.nvars, f.order, quo[i]...)
	}
	return qs, f.with(rem), nil
}

// Reduce returns the remainder of f modulo the divisors.
func (f *MPoly) Reduce(divisors ...*MPoly) (*MPoly, error) {
	_, r, err := f.DivMod(divisors...)
	return r, err
}

// ExactDiv returns f/g when g divides f.
func (f *MPoly) ExactDiv(g *MPoly) (*MPoly, bool) {
	qs, r, err := f.DivMod(g)
	if err != nil || !r.IsZero() {
		return nil, false
	}
	return qs[0], true
}

// Permute returns f with variable perm[i] renamed to i.
func (f *MPoly) Permute(perm []int) *MPoly {
	terms := make([]Term, len(f.terms))
	for k, t := range f.terms {
		m := make(Monomial, len(perm))
		for i, src := range perm {
			m[i] = t.Exp[src]
		}
		terms[k] = Term{Exp: m, Coef: t.Coef}
	}
	return NewMPoly(len(perm), f.order, terms...)
}

// Extend embeds f into a ring with n >= NumVars variables.
func (f *MPoly) Extend(n int) *MPoly {
	terms := make([]Term, len(f.terms))
	for k, t := range f.terms {
		m := make(Monomial, n)
		copy(m, t.Exp)
		terms[k] = Term{Exp: m, Coef: t.Coef}
	}
	return NewMPoly(n, f.order, terms...)
}

// CoeffsIn views f as a univariate polynomial in variable i and returns
// its coefficients indexed by degree; entry k is free of variable i.
func (f *MPoly) CoeffsIn(i int) []*MPoly {
	d := f.Degree(i)
	if d < 0 {
		return nil
	}
	buckets := make([][]Term, d+1)
	for _, t := range f.terms {
		m := t.Exp.clone()
		k := m[i]
		m[i] = 0
		buckets[k] = append(buckets[k], Term{Exp: m, Coef: t.Coef})
	}
	out := make([]*MPoly, d+1)
	for k := range buckets {
		out[k] = NewMPoly(f.nvars, f.order, buckets[k]...)
	}
	return out
}

// ToUnivariate converts f to a Poly in variable i. ok is false if any other
// variable occurs.
func (f *MPoly) ToUnivariate(i int) (Poly, bool) {
	d := f.Degree(i)
	if d < 0 {
		return Poly{}, true
	}
	cs := make([]*big.Rat, d+1)
	for k := range cs {
		cs[k] = new(big.Rat)
	}
	for _, t := range f.terms {
		for j, e := range t.Exp {
			if j != i && e != 0 {
				return Poly{}, false
			}
		}
		cs[t.Exp[i]].Add(cs[t.Exp[i]], t.Coef)
	}
	return Poly{c: trim(cs)}, true
}

// String renders f with variables x0, x1, ...
func (f *MPoly) String() string {
	names := make([]string, f.nvars)
	for i := range names {
		names[i] = "x" + itoa(i)
	}
	return f.Format(names)
}

// Format renders f with the given variable names.
func (f *MPoly) Format(names []string) string {
	if f.IsZero() {
		return "0"
	}
	var sb strings.Builder
	for k, t := range f.terms {
		c := t.Coef
		a := new(big.Rat).Abs(c)
		switch {
		case k == 0 && c.Sign() < 0:
			sb.WriteString("-")
		case k > 0 && c.Sign() < 0:
			sb.WriteString(" - ")
		case k > 0:
			sb.WriteString(" + ")
		}
		var parts []string
		if a.Cmp(ratInt(1)) != 0 || t.Exp.Degree() == 0 {
			parts = append(parts, a.RatString())
		}
		for i, e := range t.Exp {
			switch {
			case e == 1:
				parts = append(parts, names[i])
			case e > 1:
				parts = append(parts, names[i]+"^"+itoa(e))
			}
		}
		sb.WriteString(strings.Join(parts, "*"))
	}
	return sb.String()
}

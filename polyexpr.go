package gocas

import (
	"math/big"
	"strings"

	"github.com/njchilds90/gocas/poly"
)

// ============================================================
// Expression <-> polynomial bridge
// ============================================================

// ToPoly converts e to a polynomial over Q in vars, in lex order. With no
// vars the free symbols of e are used in name order; the variables actually
// used are returned. Anything that is not a sum of products of non-negative
// integer powers of the variables with exact coefficients is
// NotAPolynomial.
func ToPoly(e Expr, vars ...*Sym) (*poly.MPoly, []*Sym, error) {
	if len(vars) == 0 {
		vars = FreeSymbols(e)
	}
	idx := make(map[Symbol]int, len(vars))
	for i, v := range vars {
		idx[v.s] = i
	}
	p, err := polyOf(e, idx, len(vars))
	if err != nil {
		return nil, nil, err
	}
	return p, vars, nil
}

func polyOf(e Expr, idx map[Symbol]int, n int) (*poly.MPoly, error) {
	switch x := e.(type) {
	case *Num:
		r, ok := x.v.Rat()
		if !ok || !x.v.IsExact() {
			return nil, notAPolynomial("to_poly", e, "inexact coefficient")
		}
		return poly.Constant(n, poly.Lex, r), nil
	case *Sym:
		i, ok := idx[x.s]
		if !ok {
			return nil, notAPolynomial("to_poly", e, "symbol is not a polynomial variable")
		}
		return poly.Var(n, poly.Lex, i), nil
	case *Add:
		acc := poly.Zero(n, poly.Lex)
		for _, t := range x.terms {
			p, err := polyOf(t, idx, n)
			if err != nil {
				return nil, err
			}
			acc = acc.Add(p)
		}
		return acc, nil
	case *Mul:
		acc := poly.Constant(n, poly.Lex, big.NewRat(1, 1))
		for _, f := range x.factors {
			p, err := polyOf(f, idx, n)
			if err != nil {
				return nil, err
			}
			acc = acc.Mul(p)
		}
		return acc, nil
	case *Pow:
		k, ok := smallInt(x.exp)
		if !ok || k < 0 {
			return nil, notAPolynomial("to_poly", e, "exponent is not a non-negative integer")
		}
		b, err := polyOf(x.base, idx, n)
		if err != nil {
			return nil, err
		}
		return b.Pow(k), nil
	}
	return nil, notAPolynomial("to_poly", e, "unsupported node "+e.Kind().String())
}

// FromPoly rebuilds an expression from p over vars.
func FromPoly(p *poly.MPoly, vars []*Sym) Expr {
	gens := make([]Expr, len(vars))
	for i, v := range vars {
		gens[i] = v
	}
	return fromPolyGens(p, gens)
}

func fromPolyGens(p *poly.MPoly, gens []Expr) Expr {
	terms := make([]Expr, 0, p.Len())
	for _, t := range p.Terms() {
		fs := []Expr{RatOf(t.Coef)}
		for i, k := range t.Exp {
			if k > 0 {
				fs = append(fs, PowOf(gens[i], N(int64(k))))
			}
		}
		terms = append(terms, MulOf(fs...))
	}
	return AddOf(terms...)
}

// ToUniPoly converts e to a univariate polynomial in v.
func ToUniPoly(e Expr, v *Sym) (poly.Poly, error) {
	p, _, err := ToPoly(e, v)
	if err != nil {
		return poly.Poly{}, err
	}
	u, _ := p.ToUnivariate(0)
	return u, nil
}

// FromUniPoly rebuilds Σ c_k v^k.
func FromUniPoly(p poly.Poly, v *Sym) Expr {
	terms := make([]Expr, 0, p.Degree()+1)
	for k, c := range p.Coeffs() {
		if c.Sign() != 0 {
			terms = append(terms, MulOf(RatOf(c), PowOf(v, N(int64(k)))))
		}
	}
	return AddOf(terms...)
}

// polyPair converts a and b over their joint free symbols.
func polyPair(a, b Expr, vars []*Sym) (*poly.MPoly, *poly.MPoly, []*Sym, error) {
	if len(vars) == 0 {
		vars = FreeSymbols(SetOf(a, b))
	}
	pa, _, err := ToPoly(a, vars...)
	if err != nil {
		return nil, nil, nil, err
	}
	pb, _, err := ToPoly(b, vars...)
	if err != nil {
		return nil, nil, nil, err
	}
	return pa, pb, vars, nil
}

// ============================================================
// Polynomial operations on expressions
// ============================================================

// PolynomialGCD returns the gcd of a and b over their free symbols: the
// gcd of the coefficient contents times a primitive polynomial with positive
// leading coefficient, so gcd(6x^2, 4x) = 2x and gcd(6, 4) = 2. Univariate
// inputs use the modular algorithm; multivariate ones use evaluation and
// interpolation. When the prime budget runs out the common content is
// returned with a ConvergenceFailed error.
func PolynomialGCD(a, b Expr) (Expr, error) {
	pa, pb, vars, err := polyPair(a, b, nil)
	if err != nil {
		return nil, err
	}
	cfg := currentConfig().PolyConfig()
	switch len(vars) {
	case 1:
		ua, _ := pa.ToUnivariate(0)
		ub, _ := pb.ToUnivariate(0)
		g, err := poly.GCDWithConfig(ua, ub, cfg)
		return FromUniPoly(g, vars[0]), err
	}
	g, err := poly.MGCDWithConfig(pa, pb, cfg)
	if g == nil {
		return one, err
	}
	return FromPoly(g, vars), err
}

// PolynomialDiv divides a by b in the variables vars (default: the joint
// free symbols). Univariate division is exact Euclidean division; in more
// variables it is lex-order multivariate division, whose remainder has no
// term divisible by the leading monomial of b.
func PolynomialDiv(a, b Expr, vars ...*Sym) (q, r Expr, err error) {
	pa, pb, vs, err := polyPair(a, b, vars)
	if err != nil {
		return nil, nil, err
	}
	if pb.IsZero() {
		return nil, nil, newError(DivisionByZero, "polynomial_div", "zero divisor").WithValue(b.String())
	}
	qs, rem, err := pa.DivMod(pb)
	if err != nil {
		return nil, nil, err
	}
	return FromPoly(qs[0], vs), FromPoly(rem, vs), nil
}

// PolynomialResultant eliminates v from a and b. For polynomials in v alone
// it is a number; otherwise a polynomial in the remaining symbols computed
// as the Sylvester determinant.
func PolynomialResultant(a, b Expr, v *Sym) (Expr, error) {
	vars := []*Sym{v}
	for _, s := range FreeSymbols(SetOf(a, b)) {
		if !s.Equal(v) {
			vars = append(vars, s)
		}
	}
	pa, pb, _, err := polyPair(a, b, vars)
	if err != nil {
		return nil, err
	}
	if len(vars) == 1 {
		ua, _ := pa.ToUnivariate(0)
		ub, _ := pb.ToUnivariate(0)
		return RatOf(poly.Resultant(ua, ub)), nil
	}
	res, err := poly.MResultant(pa, pb, 0)
	if err != nil {
		return nil, err
	}
	return FromPoly(res, vars), nil
}

// GroebnerBasis returns the reduced basis of the ideal generated by fs.
// order is "lex", "grlex" or "grevlex"; an empty vars list means the joint
// free symbols in name order, which for lex makes the first name the
// largest variable.
func GroebnerBasis(fs []Expr, vars []*Sym, order string) ([]Expr, error) {
	o, err := poly.ParseOrder(order)
	if err != nil {
		return nil, newError(InvalidArgument, "groebner", err.Error()).WithValue(order)
	}
	if len(vars) == 0 {
		vars = FreeSymbols(SetOf(fs...))
	}
	ps := make([]*poly.MPoly, len(fs))
	for i, f := range fs {
		if rel, ok := f.(*Relation); ok && rel.op == OpEq {
			f = SubOf(rel.lhs, rel.rhs)
		}
		p, _, err := ToPoly(f, vars...)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	basis, err := poly.Groebner(ps, o, currentConfig().PolyConfig())
	if err != nil {
		return nil, err
	}
	out := make([]Expr, len(basis))
	for i, g := range basis {
		out[i] = FromPoly(g, vars)
	}
	return out, nil
}

// FormatPoly renders p with the names of vars.
func FormatPoly(p *poly.MPoly, vars []*Sym) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.s.Name
	}
	return strings.TrimSpace(p.Format(names))
}

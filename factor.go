package gocas

import (
	"github.com/njchilds90/gocas/poly"
)

// ============================================================
// Factorization
// ============================================================

// FactorTerm is an irreducible factor with its multiplicity.
type FactorTerm struct {
	Factor       Expr
	Multiplicity int
}

// FactorResult is content · Π factor^multiplicity.
type FactorResult struct {
	Content Expr
	Factors []FactorTerm
}

// Expr rebuilds the factored product.
func (r FactorResult) Expr() Expr {
	fs := []Expr{r.Content}
	for _, f := range r.Factors {
		fs = append(fs, PowOf(f.Factor, N(int64(f.Multiplicity))))
	}
	return MulOf(fs...)
}

// FactorList factors a univariate polynomial over Z. The content is the
// rational number that makes the remaining factors primitive with positive
// leading coefficients.
func FactorList(e Expr, v *Sym) (FactorResult, error) {
	p, err := ToUniPoly(e, v)
	if err != nil {
		return FactorResult{}, err
	}
	content, fs := poly.FactorZ(p, currentConfig().PolyConfig())
	out := FactorResult{Content: RatOf(content)}
	for _, f := range fs {
		out.Factors = append(out.Factors, FactorTerm{Factor: FromUniPoly(f.Poly, v), Multiplicity: f.Multiplicity})
	}
	return out, nil
}

// Factor factors the numerator and denominator of e over Z when e is a
// rational function of a single symbol. Otherwise the canceled form of e is
// returned.
func Factor(e Expr) Expr {
	syms := FreeSymbols(e)
	num, den := NumerDenom(e)
	if len(syms) != 1 {
		return DivOf(num, den)
	}
	v := syms[0]
	fn, err := FactorList(num, v)
	if err != nil {
		return e
	}
	fd, err := FactorList(den, v)
	if err != nil {
		return e
	}
	return DivOf(fn.Expr(), fd.Expr())
}

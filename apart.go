package gocas

import (
	"github.com/njchilds90/gocas/poly"
)

// ApartTerms returns the partial-fraction decomposition of e in v as a list:
// the polynomial part first (when non-zero), then one term a/f^j per power
// of each irreducible factor f of the denominator over Z. e must be a
// rational function of v with rational coefficients.
func ApartTerms(e Expr, v *Sym) ([]Expr, error) {
	num, den := NumerDenom(e)
	n, err := ToUniPoly(num, v)
	if err != nil {
		return nil, err
	}
	d, err := ToUniPoly(den, v)
	if err != nil {
		return nil, err
	}
	q, fracs, err := poly.Apart(n, d, currentConfig().PolyConfig())
	if err != nil {
		return nil, err
	}
	var out []Expr
	if !q.IsZero() {
		out = append(out, FromUniPoly(q, v))
	}
	for _, f := range fracs {
		out = append(out, MulOf(FromUniPoly(f.Numerator, v), PowOf(FromUniPoly(f.Denominator, v), N(int64(-f.Power)))))
	}
	if len(out) == 0 {
		out = append(out, zero)
	}
	return out, nil
}

// PartialFraction returns the sum of ApartTerms.
func PartialFraction(e Expr, v *Sym) (Expr, error) {
	ts, err := ApartTerms(e, v)
	if err != nil {
		return nil, err
	}
	return AddOf(ts...), nil
}

package gocas

import (
	"math/big"

	"github.com/njchilds90/gocas/poly"
)

// rational integrates a quotient of polynomials in v with rational
// coefficients: the polynomial part term by term, each a/f^j of the
// partial-fraction decomposition in closed form for linear and quadratic f.
// Irreducible denominators of higher degree are left alone.
func (in *integrator) rational(f Expr) (Expr, bool) {
	v := in.v
	num, den := NumerDenom(f)
	n, err := ToUniPoly(num, v)
	if err != nil {
		return nil, false
	}
	d, err := ToUniPoly(den, v)
	if err != nil || d.IsZero() {
		return nil, false
	}
	if d.Degree() == 0 {
		inv := new(big.Rat).Inv(d.Coeff(0))
		return FromUniPoly(polyIntegral(n.Scale(inv)), v), true
	}
	q, fracs, err := poly.Apart(n, d, currentConfig().PolyConfig())
	if err != nil {
		return nil, false
	}
	terms := []Expr{FromUniPoly(polyIntegral(q), v)}
	for _, fr := range fracs {
		t, ok := integrateFraction(fr, v)
		if !ok {
			return nil, false
		}
		terms = append(terms, t)
	}
	return AddOf(terms...), true
}

// polyIntegral is the antiderivative of p with zero constant term.
func polyIntegral(p poly.Poly) poly.Poly {
	cs := p.Coeffs()
	out := make([]*big.Rat, len(cs)+1)
	out[0] = new(big.Rat)
	for k, c := range cs {
		out[k+1] = new(big.Rat).Quo(c, big.NewRat(int64(k+1), 1))
	}
	return poly.New(out...)
}

func integrateFraction(fr poly.Fraction, v *Sym) (Expr, bool) {
	den := fr.Denominator
	j := fr.Power
	f := FromUniPoly(den, v)
	switch den.Degree() {
	case 1:
		// a/(c1·v + c0)^j
		c := new(big.Rat).Quo(fr.Numerator.Coeff(0), den.Coeff(1))
		if j == 1 {
			return MulOf(RatOf(c), LnOf(AbsOf(f))), true
		}
		c.Quo(c, big.NewRat(int64(1-j), 1))
		return MulOf(RatOf(c), PowOf(f, N(int64(1-j)))), true
	case 2:
		return quadraticFraction(fr.Numerator, den, j, v), true
	}
	return nil, false
}

// quadraticFraction is ∫ (s·v + t)/(p·v² + q·v + r)^j. The numerator is
// split into a multiple of the derivative of the quadratic plus a constant.
func quadraticFraction(numer, den poly.Poly, j int, v *Sym) Expr {
	p, q := RatOf(den.Coeff(2)), RatOf(den.Coeff(1))
	s, t := RatOf(numer.Coeff(1)), RatOf(numer.Coeff(0))
	f := FromUniPoly(den, v)

	// s/(2p) · f'/f^j + (t - s·q/(2p)) / f^j
	k := DivOf(s, MulOf(two, p))
	rest := SubOf(t, MulOf(k, q))

	var logPart Expr
	if j == 1 {
		logPart = MulOf(k, LnOf(AbsOf(f)))
	} else {
		logPart = MulOf(k, DivOf(PowOf(f, N(int64(1-j))), N(int64(1-j))))
	}
	return AddOf(logPart, MulOf(rest, reciprocalQuadratic(den, j, v)))
}

// reciprocalQuadratic is ∫ dv/(p·v² + q·v + r)^j through
// I_j = (2pv+q)/((j-1)·D·f^(j-1)) + 2(2j-3)p/((j-1)·D) · I_(j-1),
// with D = 4pr - q².
func reciprocalQuadratic(den poly.Poly, j int, v *Sym) Expr {
	pr, qr, rr := den.Coeff(2), den.Coeff(1), den.Coeff(0)
	D := new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(pr, rr))
	D.Sub(D, new(big.Rat).Mul(qr, qr))
	p, q, dq := RatOf(pr), RatOf(qr), RatOf(D)
	f := FromUniPoly(den, v)
	lin := AddOf(MulOf(two, p, v), q)

	var I Expr
	switch D.Sign() {
	case 1:
		sq := SqrtOf(dq)
		I = MulOf(two, PowOf(sq, negOne), AtanOf(DivOf(lin, sq)))
	case -1:
		sq := SqrtOf(Neg(dq))
		I = MulOf(PowOf(sq, negOne), SubOf(LnOf(AbsOf(SubOf(lin, sq))), LnOf(AbsOf(AddOf(lin, sq)))))
	default:
		// a perfect square p(v + q/2p)²; Apart never produces it
		I = MulOf(N(-2), PowOf(lin, negOne))
	}
	for i := 2; i <= j; i++ {
		c := MulOf(N(int64(i-1)), dq)
		I = AddOf(
			DivOf(lin, MulOf(c, PowOf(f, N(int64(i-1))))),
			MulOf(DivOf(MulOf(N(int64(2*(2*i-3))), p), c), I),
		)
	}
	return I
}

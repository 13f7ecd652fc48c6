package poly

import (
	"math/big"

	"github.com/njchilds90/gocas/internal/casterr"
)

// GCD returns the greatest common divisor of f and g: the gcd of their
// contents times a primitive integer polynomial with positive leading
// coefficient, so gcd(6x^2, 4x) = 2x. It runs the modular algorithm with
// DefaultConfig.
func GCD(f, g Poly) (Poly, error) {
	return GCDWithConfig(f, g, DefaultConfig())
}

// GCDWithConfig computes gcd(f, g) by reducing modulo successive primes,
// combining the images by CRT until the symmetric lift is unchanged across
// two primes, and verifying the candidate by trial division. When the prime
// budget runs out it returns the common content alone with a
// ConvergenceFailed error.
func GCDWithConfig(f, g Poly, cfg Config) (Poly, error) {
	if f.IsZero() && g.IsZero() {
		return Poly{}, nil
	}
	c := ratContent([]*big.Rat{f.Content(), g.Content()})
	h, err := primitiveGCD(f, g, cfg)
	return h.Scale(c), err
}

// primitiveGCD returns the primitive part of gcd(f, g). At most one of f
// and g is zero.
func primitiveGCD(f, g Poly, cfg Config) (Poly, error) {
	switch {
	case f.IsZero():
		return g.PrimitivePart(), nil
	case g.IsZero():
		return f.PrimitivePart(), nil
	}
	pf, pg := f.PrimitivePart(), g.PrimitivePart()
	if pf.Degree() == 0 || pg.Degree() == 0 {
		return FromInts(1), nil
	}

	lcf, lcg := pf.LC().Num(), pg.LC().Num()
	gamma := new(big.Int).GCD(nil, nil, lcf, lcg)
	acc := newCRTAccumulator(1, cfg.MaxCRTIterations)

	for _, p := range Primes() {
		if acc.exhausted() {
			break
		}
		if modBig(lcf, p) == 0 || modBig(lcg, p) == 0 {
			continue
		}
		fp, _ := Reduce(pf, p)
		gp, _ := Reduce(pg, p)
		h := fp.GCD(gp)
		if h.Degree() == 0 {
			gcdPrimesUsed.WithLabelValues("univariate").Observe(float64(acc.primes + 1))
			return FromInts(1), nil
		}
		h = h.Scale(modBig(gamma, p))
		acc.add(fromModPoly(1, 0, h))
		if !acc.stable {
			continue
		}
		cand, _ := acc.candidate().ToUnivariate(0)
		cand = cand.PrimitivePart()
		if pf.Divides(cand) && pg.Divides(cand) {
			acc.converge()
			gcdPrimesUsed.WithLabelValues("univariate").Observe(float64(acc.primes))
			return cand, nil
		}
	}
	gcdFailures.WithLabelValues("univariate").Inc()
	return FromInts(1), casterr.New(casterr.KindConvergenceFailed, "gcd",
		"modular images did not stabilize").WithLimit(cfg.MaxCRTIterations)
}

// EuclidGCD returns the monic gcd of f and g by the Euclidean algorithm
// over Q.
func EuclidGCD(f, g Poly) Poly {
	a, b := f, g
	for !b.IsZero() {
		_, r, _ := a.DivMod(b)
		a, b = b, r
	}
	return a.Monic()
}

// ExtGCD returns g, s, t with s*a + t*b = g and g monic.
func ExtGCD(a, b Poly) (g, s, t Poly) {
	r0, r1 := a, b
	s0, s1 := FromInts(1), Poly{}
	t0, t1 := Poly{}, FromInts(1)
	for !r1.IsZero() {
		q, r, _ := r0.DivMod(r1)
		r0, r1 = r1, r
		s0, s1 = s1, s0.Sub(q.Mul(s1))
		t0, t1 = t1, t0.Sub(q.Mul(t1))
	}
	if r0.IsZero() {
		return r0, s0, t0
	}
	inv := new(big.Rat).Inv(r0.LC())
	return r0.Scale(inv), s0.Scale(inv), t0.Scale(inv)
}

// SquareFree returns Yun's square-free decomposition: factors[i] is the
// product of the irreducible factors of multiplicity i+1, each primitive
// with positive leading coefficient. f must be non-zero.
func SquareFree(f Poly) []Poly {
	if f.Degree() <= 0 {
		return nil
	}
	df := f.Derivative()
	a0 := EuclidGCD(f, df)
	b, _, _ := f.DivMod(a0)
	c, _, _ := df.DivMod(a0)
	d := c.Sub(b.Derivative())
	var out []Poly
	for b.Degree() > 0 {
		a := EuclidGCD(b, d)
		b, _, _ = b.DivMod(a)
		c, _, _ = d.DivMod(a)
		d = c.Sub(b.Derivative())
		out = append(out, a.PrimitivePart())
	}
	// trailing multiplicities with trivial factors are dropped
	for len(out) > 0 && out[len(out)-1].Degree() == 0 {
		out = out[:len(out)-1]
	}
	return out
}

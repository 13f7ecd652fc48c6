package poly

import (
	"math/big"
)

// Fraction is Numerator / Denominator^Power with deg Numerator <
// deg Denominator and Denominator irreducible over Q.
type Fraction struct {
	Numerator   Poly
	Denominator Poly
	Power       int
}

// Apart decomposes n/d into a polynomial part plus one fraction per power of
// each irreducible factor of d over Z. Numerators are found from the Bezout
// identity modulo each prime-power factor and then expanded q-adically, which
// gives the same unique decomposition as equating numerator coefficients.
func Apart(n, d Poly, cfg Config) (Poly, []Fraction, error) {
	if d.IsZero() {
		return Poly{}, nil, errDivZero("apart")
	}
	q, r, _ := n.DivMod(d)
	if r.IsZero() {
		return q, nil, nil
	}
	content, factors := FactorZ(d, cfg)
	r = r.Scale(new(big.Rat).Inv(content))

	// d/content = prod P_i with P_i = f_i^k_i
	prime := make([]Poly, len(factors))
	full := FromInts(1)
	for i, f := range factors {
		prime[i] = f.Poly.Pow(f.Multiplicity)
		full = full.Mul(prime[i])
	}

	var out []Fraction
	for i, f := range factors {
		P := prime[i]
		Q, _, _ := full.DivMod(P)
		_, s, _ := ExtGCD(Q, P) // s*Q ≡ 1 (mod P)
		_, A, _ := r.Mul(s).DivMod(P)
		for j := f.Multiplicity; j >= 1; j-- {
			var a Poly
			A, a, _ = A.DivMod(f.Poly)
			if !a.IsZero() {
				out = append(out, Fraction{Numerator: a, Denominator: f.Poly, Power: j})
			}
		}
	}
	return q, out, nil
}

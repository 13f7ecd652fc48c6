package poly

import (
	"math/big"
	"math/rand"
	"sort"
)

// Factor is an irreducible factor with its multiplicity.
type Factor struct {
	Poly         Poly
	Multiplicity int
}

// FactorZ factors f over Z. It returns the rational content and the
// irreducible primitive factors (positive leading coefficient) such that
// f = content * prod(factor^multiplicity). Factors are sorted by degree,
// then coefficients.
//
// Square-free parts are split modulo a prime exceeding twice the
// coefficient bound (Cantor-Zassenhaus: distinct-degree then equal-degree
// factorization) and the modular factors are recombined by Zassenhaus
// subset search with exact trial division.
func FactorZ(f Poly, cfg Config) (*big.Rat, []Factor) {
	if f.IsZero() {
		return new(big.Rat), nil
	}
	content, pp := f.ContentPrimitive()
	if pp.Degree() <= 0 {
		return content, nil
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	var out []Factor
	for i, part := range SquareFree(pp) {
		if part.Degree() <= 0 {
			continue
		}
		for _, g := range factorSquareFree(part, rng) {
			out = append(out, Factor{Poly: g, Multiplicity: i + 1})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return lessPoly(out[i].Poly, out[j].Poly) })
	return content, out
}

func lessPoly(a, b Poly) bool {
	if a.Degree() != b.Degree() {
		return a.Degree() < b.Degree()
	}
	for i := a.Degree(); i >= 0; i-- {
		if c := a.c[i].Cmp(b.c[i]); c != 0 {
			return c < 0
		}
	}
	return false
}

// factorSquareFree splits a primitive square-free polynomial into its
// irreducible factors over Z.
func factorSquareFree(f Poly, rng *rand.Rand) []Poly {
	if f.Degree() <= 1 {
		return []Poly{f}
	}
	if f.c[0].Sign() == 0 {
		rest, _, _ := f.DivMod(X())
		return append([]Poly{X()}, factorSquareFree(rest.PrimitivePart(), rng)...)
	}

	coeffs := f.IntCoeffs()
	lc := coeffs[len(coeffs)-1]
	field := bigField{p: factorPrime(coeffs)}
	for {
		fp := field.reduce(coeffs)
		if fp.deg() == f.Degree() && field.gcd(fp, field.deriv(fp)).deg() == 0 {
			break
		}
		field.p = nextPrime(field.p)
	}
	factorPrimeBits.Observe(float64(field.p.BitLen()))

	fp := field.monic(field.reduce(coeffs))
	var modFactors []bpoly
	for _, dd := range field.ddf(fp) {
		modFactors = append(modFactors, field.edf(dd.f, dd.d, rng)...)
	}
	if len(modFactors) <= 1 {
		return []Poly{f}
	}
	return zassenhaus(f, lc, modFactors, field)
}

// factorPrime returns a prime above 2 * |lc| * 2^n * ||f||_2, which bounds
// every coefficient of lc times any factor of f.
func factorPrime(coeffs []*big.Int) *big.Int {
	norm := new(big.Int)
	for _, c := range coeffs {
		norm.Add(norm, new(big.Int).Mul(c, c))
	}
	norm.Sqrt(norm)
	norm.Add(norm, big.NewInt(1))
	bound := new(big.Int).Lsh(norm, uint(len(coeffs)))
	bound.Mul(bound, new(big.Int).Abs(coeffs[len(coeffs)-1]))
	bound.Lsh(bound, 1)
	return nextPrime(bound)
}

func nextPrime(n *big.Int) *big.Int {
	p := new(big.Int).Add(n, big.NewInt(1))
	if p.Bit(0) == 0 {
		p.Add(p, big.NewInt(1))
	}
	for !p.ProbablyPrime(20) {
		p.Add(p, big.NewInt(2))
	}
	return p
}

// zassenhaus recombines modular factors into true factors over Z.
func zassenhaus(f Poly, lc *big.Int, us []bpoly, field bigField) []Poly {
	remaining := make([]int, len(us))
	for i := range remaining {
		remaining[i] = i
	}
	F := f
	var out []Poly
	for s := 1; 2*s <= len(remaining); {
		found := false
		lcF := F.LC().Num()
		eachSubset(remaining, s, func(sub []int) bool {
			prod := bpoly{new(big.Int).Mod(lcF, field.p)}
			for _, i := range sub {
				prod = field.mul(prod, us[i])
			}
			cand := field.lift(prod).PrimitivePart()
			if cand.Degree() <= 0 {
				return false
			}
			q, r, _ := F.DivMod(cand)
			if !r.IsZero() {
				return false
			}
			out = append(out, cand)
			F = q.PrimitivePart()
			remaining = without(remaining, sub)
			found = true
			return true
		})
		if !found {
			s++
		}
	}
	if F.Degree() > 0 {
		out = append(out, F)
	}
	return out
}

// eachSubset calls fn on every size-s subset of idx in lexicographic order
// until fn returns true.
func eachSubset(idx []int, s int, fn func([]int) bool) bool {
	sub := make([]int, 0, s)
	var rec func(start int) bool
	rec = func(start int) bool {
		if len(sub) == s {
			return fn(append([]int(nil), sub...))
		}
		for i := start; i <= len(idx)-(s-len(sub)); i++ {
			sub = append(sub, idx[i])
			if rec(i + 1) {
				return true
			}
			sub = sub[:len(sub)-1]
		}
		return false
	}
	return rec(0)
}

func without(idx, drop []int) []int {
	skip := make(map[int]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}
	var out []int
	for _, i := range idx {
		if !skip[i] {
			out = append(out, i)
		}
	}
	return out
}

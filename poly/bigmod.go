package poly

import (
	"math/big"
	"math/rand"
)

// bpoly is a dense polynomial over Z/pZ for a multi-word prime p, ascending
// coefficients in [0, p).
type bpoly []*big.Int

// bigField implements polynomial arithmetic modulo a large prime.
type bigField struct {
	p *big.Int
}

func (F bigField) trim(a bpoly) bpoly {
	n := len(a)
	for n > 0 && a[n-1].Sign() == 0 {
		n--
	}
	return a[:n]
}

func (a bpoly) deg() int { return len(a) - 1 }

func (F bigField) reduce(cs []*big.Int) bpoly {
	out := make(bpoly, len(cs))
	for i, c := range cs {
		out[i] = new(big.Int).Mod(c, F.p)
	}
	return F.trim(out)
}

func (F bigField) coeff(a bpoly, i int) *big.Int {
	if i < len(a) {
		return a[i]
	}
	return new(big.Int)
}

func (F bigField) add(a, b bpoly) bpoly {
	out := make(bpoly, max(len(a), len(b)))
	for i := range out {
		out[i] = new(big.Int).Add(F.coeff(a, i), F.coeff(b, i))
		out[i].Mod(out[i], F.p)
	}
	return F.trim(out)
}

func (F bigField) sub(a, b bpoly) bpoly {
	out := make(bpoly, max(len(a), len(b)))
	for i := range out {
		out[i] = new(big.Int).Sub(F.coeff(a, i), F.coeff(b, i))
		out[i].Mod(out[i], F.p)
	}
	return F.trim(out)
}

func (F bigField) mul(a, b bpoly) bpoly {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make(bpoly, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Int)
	}
	t := new(big.Int)
	for i, x := range a {
		for j, y := range b {
			out[i+j].Add(out[i+j], t.Mul(x, y))
		}
	}
	for _, c := range out {
		c.Mod(c, F.p)
	}
	return F.trim(out)
}

func (F bigField) scale(a bpoly, k *big.Int) bpoly {
	out := make(bpoly, len(a))
	for i, c := range a {
		out[i] = new(big.Int).Mul(c, k)
		out[i].Mod(out[i], F.p)
	}
	return F.trim(out)
}

func (F bigField) monic(a bpoly) bpoly {
	if len(a) == 0 {
		return a
	}
	return F.scale(a, new(big.Int).ModInverse(a[len(a)-1], F.p))
}

func (F bigField) divmod(a, b bpoly) (q, r bpoly) {
	if len(a) < len(b) {
		return nil, a
	}
	rem := make(bpoly, len(a))
	for i, c := range a {
		rem[i] = new(big.Int).Set(c)
	}
	quo := make(bpoly, len(a)-len(b)+1)
	for i := range quo {
		quo[i] = new(big.Int)
	}
	inv := new(big.Int).ModInverse(b[len(b)-1], F.p)
	db := b.deg()
	t := new(big.Int)
	for i := len(rem) - 1; i >= db; i-- {
		if rem[i].Sign() == 0 {
			continue
		}
		k := new(big.Int).Mul(rem[i], inv)
		k.Mod(k, F.p)
		quo[i-db] = k
		for j, c := range b {
			rem[i-db+j].Sub(rem[i-db+j], t.Mul(k, c))
			rem[i-db+j].Mod(rem[i-db+j], F.p)
		}
	}
	return F.trim(quo), F.trim(rem[:db])
}

func (F bigField) mod(a, b bpoly) bpoly {
	_, r := F.divmod(a, b)
	return r
}

func (F bigField) gcd(a, b bpoly) bpoly {
	for len(b) > 0 {
		a, b = b, F.mod(a, b)
	}
	return F.monic(a)
}

func (F bigField) deriv(a bpoly) bpoly {
	if len(a) <= 1 {
		return nil
	}
	out := make(bpoly, len(a)-1)
	for i := 1; i < len(a); i++ {
		out[i-1] = new(big.Int).Mul(a[i], big.NewInt(int64(i)))
		out[i-1].Mod(out[i-1], F.p)
	}
	return F.trim(out)
}

// powmod returns base^e mod m.
func (F bigField) powmod(base bpoly, e *big.Int, m bpoly) bpoly {
	result := bpoly{big.NewInt(1)}
	b := F.mod(base, m)
	for i := e.BitLen() - 1; i >= 0; i-- {
		result = F.mod(F.mul(result, result), m)
		if e.Bit(i) == 1 {
			result = F.mod(F.mul(result, b), m)
		}
	}
	return result
}

func (F bigField) x() bpoly { return bpoly{new(big.Int), big.NewInt(1)} }

type degreePart struct {
	f bpoly
	d int
}

// ddf is distinct-degree factorization of a monic square-free f: each part
// is the product of all irreducible factors of degree d.
func (F bigField) ddf(f bpoly) []degreePart {
	var out []degreePart
	h := F.x()
	rest := f
	for d := 1; rest.deg() >= 2*d; d++ {
		h = F.powmod(h, F.p, rest)
		g := F.gcd(F.sub(h, F.x()), rest)
		if g.deg() > 0 {
			out = append(out, degreePart{f: g, d: d})
			rest, _ = F.divmod(rest, g)
			rest = F.monic(rest)
			h = F.mod(h, rest)
		}
	}
	if rest.deg() > 0 {
		out = append(out, degreePart{f: rest, d: rest.deg()})
	}
	return out
}

// edf splits a product of degree-d irreducibles (Cantor-Zassenhaus; p odd).
func (F bigField) edf(f bpoly, d int, rng *rand.Rand) []bpoly {
	if f.deg() == d {
		return []bpoly{f}
	}
	e := new(big.Int).Exp(F.p, big.NewInt(int64(d)), nil)
	e.Sub(e, big.NewInt(1))
	e.Rsh(e, 1)
	one := bpoly{big.NewInt(1)}
	for {
		a := make(bpoly, f.deg())
		for i := range a {
			a[i] = new(big.Int).Rand(rng, F.p)
		}
		a = F.trim(a)
		if a.deg() <= 0 {
			continue
		}
		g := F.gcd(a, f)
		if g.deg() <= 0 {
			g = F.gcd(F.sub(F.powmod(a, e, f), one), f)
		}
		if g.deg() > 0 && g.deg() < f.deg() {
			q, _ := F.divmod(f, g)
			return append(F.edf(g, d, rng), F.edf(F.monic(q), d, rng)...)
		}
	}
}

// lift maps a to Z[x] with coefficients in the symmetric range.
func (F bigField) lift(a bpoly) Poly {
	out := make([]*big.Int, len(a))
	for i, c := range a {
		out[i] = symmetric(c, F.p)
	}
	return FromBigInts(out)
}

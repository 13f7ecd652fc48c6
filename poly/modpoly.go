package poly

import (
	"math/big"
	"math/bits"
	"sync"
)

func mulMod(a, b, p uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, r := bits.Div64(hi%p, lo, p)
	return r
}

func addMod(a, b, p uint64) uint64 {
	s := a + b
	if s >= p || s < a {
		s -= p
	}
	return s
}

func subMod(a, b, p uint64) uint64 {
	if a >= b {
		return a - b
	}
	return p - (b - a)
}

func powMod(a, e, p uint64) uint64 {
	r := uint64(1) % p
	a %= p
	for e > 0 {
		if e&1 == 1 {
			r = mulMod(r, a, p)
		}
		a = mulMod(a, a, p)
		e >>= 1
	}
	return r
}

// invMod returns a^-1 mod prime p. a must be non-zero mod p.
func invMod(a, p uint64) uint64 {
	return powMod(a, p-2, p)
}

// ModPoly is a dense univariate polynomial over Z/pZ for a prime p.
type ModPoly struct {
	p uint64
	c []uint64
}

// NewModPoly builds a polynomial over Z/pZ from ascending coefficients.
func NewModPoly(p uint64, coeffs ...uint64) ModPoly {
	out := make([]uint64, len(coeffs))
	for i, c := range coeffs {
		out[i] = c % p
	}
	return ModPoly{p: p, c: trimMod(out)}
}

// Reduce maps an integral (or p-unit denominator) Poly to Z/pZ. ok is false
// if p divides some denominator.
func Reduce(f Poly, p uint64) (ModPoly, bool) {
	out := make([]uint64, len(f.c))
	for i, c := range f.c {
		v, ok := modRat(c, p)
		if !ok {
			return ModPoly{}, false
		}
		out[i] = v
	}
	return ModPoly{p: p, c: trimMod(out)}, true
}

func trimMod(c []uint64) []uint64 {
	n := len(c)
	for n > 0 && c[n-1] == 0 {
		n--
	}
	return c[:n]
}

func (f ModPoly) Prime() uint64 { return f.p }
func (f ModPoly) Degree() int   { return len(f.c) - 1 }
func (f ModPoly) IsZero() bool  { return len(f.c) == 0 }

func (f ModPoly) Coeff(i int) uint64 {
	if i < 0 || i >= len(f.c) {
		return 0
	}
	return f.c[i]
}

func (f ModPoly) LC() uint64 {
	if f.IsZero() {
		return 0
	}
	return f.c[len(f.c)-1]
}

func (f ModPoly) Add(g ModPoly) ModPoly {
	n := max(len(f.c), len(g.c))
	out := make([]uint64, n)
	for i := range out {
		out[i] = addMod(f.Coeff(i), g.Coeff(i), f.p)
	}
	return ModPoly{p: f.p, c: trimMod(out)}
}

func (f ModPoly) Sub(g ModPoly) ModPoly {
	n := max(len(f.c), len(g.c))
	out := make([]uint64, n)
	for i := range out {
		out[i] = subMod(f.Coeff(i), g.Coeff(i), f.p)
	}
	return ModPoly{p: f.p, c: trimMod(out)}
}

func (f ModPoly) Mul(g ModPoly) ModPoly {
	if f.IsZero() || g.IsZero() {
		return ModPoly{p: f.p}
	}
	out := make([]uint64, len(f.c)+len(g.c)-1)
	for i, a := range f.c {
		if a == 0 {
			continue
		}
		for j, b := range g.c {
			out[i+j] = addMod(out[i+j], mulMod(a, b, f.p), f.p)
		}
	}
	return ModPoly{p: f.p, c: trimMod(out)}
}

func (f ModPoly) Scale(k uint64) ModPoly {
	out := make([]uint64, len(f.c))
	for i, c := range f.c {
		out[i] = mulMod(c, k%f.p, f.p)
	}
	return ModPoly{p: f.p, c: trimMod(out)}
}

// DivMod divides by a non-zero g.
func (f ModPoly) DivMod(g ModPoly) (q, r ModPoly, err error) {
	if g.IsZero() {
		return ModPoly{}, ModPoly{}, errDivZero("modpoly divmod")
	}
	p := f.p
	if f.Degree() < g.Degree() {
		return ModPoly{p: p}, f, nil
	}
	rem := append([]uint64(nil), f.c...)
	quo := make([]uint64, f.Degree()-g.Degree()+1)
	inv := invMod(g.LC(), p)
	dg := g.Degree()
	for i := len(rem) - 1; i >= dg; i-- {
		if rem[i] == 0 {
			continue
		}
		k := mulMod(rem[i], inv, p)
		quo[i-dg] = k
		for j, c := range g.c {
			rem[i-dg+j] = subMod(rem[i-dg+j], mulMod(k, c, p), p)
		}
	}
	return ModPoly{p: p, c: trimMod(quo)}, ModPoly{p: p, c: trimMod(rem[:dg])}, nil
}

// Monic scales f to leading coefficient 1.
func (f ModPoly) Monic() ModPoly {
	if f.IsZero() {
		return f
	}
	return f.Scale(invMod(f.LC(), f.p))
}

// GCD returns the monic gcd of f and g.
func (f ModPoly) GCD(g ModPoly) ModPoly {
	a, b := f, g
	for !b.IsZero() {
		_, r, _ := a.DivMod(b)
		a, b = b, r
	}
	return a.Monic()
}

// Eval evaluates f at x.
func (f ModPoly) Eval(x uint64) uint64 {
	acc := uint64(0)
	for i := len(f.c) - 1; i >= 0; i-- {
		acc = addMod(mulMod(acc, x, f.p), f.c[i], f.p)
	}
	return acc
}

func (f ModPoly) Equal(g ModPoly) bool {
	if f.p != g.p || len(f.c) != len(g.c) {
		return false
	}
	for i := range f.c {
		if f.c[i] != g.c[i] {
			return false
		}
	}
	return true
}

// Derivative returns df/dx over Z/pZ.
func (f ModPoly) Derivative() ModPoly {
	if len(f.c) <= 1 {
		return ModPoly{p: f.p}
	}
	out := make([]uint64, len(f.c)-1)
	for i := 1; i < len(f.c); i++ {
		out[i-1] = mulMod(f.c[i], uint64(i)%f.p, f.p)
	}
	return ModPoly{p: f.p, c: trimMod(out)}
}

const primeTableSize = 512

var (
	primeOnce  sync.Once
	primeTable []uint64
)

// Primes returns the table of word-sized primes used by the modular
// algorithms, largest first. All are below 2^31 so products fit in 62 bits.
func Primes() []uint64 {
	primeOnce.Do(func() {
		primeTable = make([]uint64, 0, primeTableSize)
		for n := uint64(1<<31 - 1); len(primeTable) < primeTableSize; n -= 2 {
			if new(big.Int).SetUint64(n).ProbablyPrime(0) {
				primeTable = append(primeTable, n)
			}
		}
	})
	return primeTable
}

package poly

import (
	"math/big"
	"strconv"
)

func itoa(n int) string { return strconv.Itoa(n) }

func ratInt(n int64) *big.Rat { return new(big.Rat).SetInt64(n) }

func ratCopy(r *big.Rat) *big.Rat { return new(big.Rat).Set(r) }

func ratAdd(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func ratSub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func ratMul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func ratQuo(a, b *big.Rat) *big.Rat { return new(big.Rat).Quo(a, b) }
func ratNeg(a *big.Rat) *big.Rat    { return new(big.Rat).Neg(a) }

func ratIsInt(r *big.Rat) bool { return r.IsInt() }

// ratContent returns gcd(numerators)/lcm(denominators) of cs, always >= 0.
func ratContent(cs []*big.Rat) *big.Rat {
	num := new(big.Int)
	den := big.NewInt(1)
	for _, c := range cs {
		if c.Sign() == 0 {
			continue
		}
		num.GCD(nil, nil, num, new(big.Int).Abs(c.Num()))
		d := c.Denom()
		g := new(big.Int).GCD(nil, nil, den, d)
		den.Mul(den, new(big.Int).Quo(d, g))
	}
	if num.Sign() == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(num, den)
}

// modRat reduces r modulo p. ok is false when p divides the denominator.
func modRat(r *big.Rat, p uint64) (uint64, bool) {
	bp := new(big.Int).SetUint64(p)
	n := new(big.Int).Mod(r.Num(), bp).Uint64()
	if r.IsInt() {
		return n, true
	}
	d := new(big.Int).Mod(r.Denom(), bp).Uint64()
	if d == 0 {
		return 0, false
	}
	return mulMod(n, invMod(d, p), p), true
}

func modBig(n *big.Int, p uint64) uint64 {
	return new(big.Int).Mod(n, new(big.Int).SetUint64(p)).Uint64()
}

// symmetric maps x in [0, m) to (-m/2, m/2].
func symmetric(x, m *big.Int) *big.Int {
	half := new(big.Int).Rsh(m, 1)
	if x.Cmp(half) > 0 {
		return new(big.Int).Sub(x, m)
	}
	return new(big.Int).Set(x)
}

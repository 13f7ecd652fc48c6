package gocas

import (
	"math"
	"math/big"
	"math/bits"
	"strconv"
	"strings"
)

// ============================================================
// Number: Integer / BigInteger / Rational / Float
// ============================================================

// NumberKind discriminates the numeric tower.
type NumberKind uint8

const (
	KindInteger NumberKind = iota
	KindBigInteger
	KindRational
	KindFloat
)

func (k NumberKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBigInteger:
		return "biginteger"
	case KindRational:
		return "rational"
	case KindFloat:
		return "float"
	}
	return "unknown"
}

// Number is an immutable numeric value. Integers that overflow int64 are
// promoted to BigInteger and demoted back when they fit; rationals with
// denominator 1 become integers; a Float appears only when an operand was a
// Float.
type Number struct {
	kind NumberKind
	i    int64
	b    *big.Int
	r    *big.Rat
	f    float64
}

func IntNumber(n int64) Number     { return Number{kind: KindInteger, i: n} }
func FloatNumber(f float64) Number { return Number{kind: KindFloat, f: f} }
func (n Number) Kind() NumberKind  { return n.kind }
func (n Number) IsFloat() bool     { return n.kind == KindFloat }
func (n Number) IsExact() bool     { return n.kind != KindFloat }

// BigIntNumber normalizes b into Integer or BigInteger.
func BigIntNumber(b *big.Int) Number {
	if b.IsInt64() {
		return IntNumber(b.Int64())
	}
	return Number{kind: KindBigInteger, b: new(big.Int).Set(b)}
}

// RatNumber normalizes r into an integer kind when its denominator is 1.
func RatNumber(r *big.Rat) Number {
	if r.IsInt() {
		return BigIntNumber(r.Num())
	}
	return Number{kind: KindRational, r: new(big.Rat).Set(r)}
}

// FracNumber returns p/q; ok is false when q == 0.
func FracNumber(p, q int64) (Number, bool) {
	if q == 0 {
		return Number{}, false
	}
	return RatNumber(big.NewRat(p, q)), true
}

// ParseNumber reads an integer, a fraction "p/q", or a decimal float.
func ParseNumber(s string) (Number, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, false
	}
	if b, ok := new(big.Int).SetString(s, 10); ok {
		return BigIntNumber(b), true
	}
	if strings.Contains(s, "/") {
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return Number{}, false
		}
		return RatNumber(r), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, false
	}
	return FloatNumber(f), true
}

// Rat returns the exact value; ok is false for NaN and infinities.
func (n Number) Rat() (*big.Rat, bool) {
	switch n.kind {
	case KindInteger:
		return new(big.Rat).SetInt64(n.i), true
	case KindBigInteger:
		return new(big.Rat).SetInt(n.b), true
	case KindRational:
		return new(big.Rat).Set(n.r), true
	}
	if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
		return nil, false
	}
	return new(big.Rat).SetFloat64(n.f), true
}

// BigInt returns the integer value of an integer-kind number.
func (n Number) BigInt() (*big.Int, bool) {
	switch n.kind {
	case KindInteger:
		return big.NewInt(n.i), true
	case KindBigInteger:
		return new(big.Int).Set(n.b), true
	}
	return nil, false
}

// Int64 returns the value of a small integer.
func (n Number) Int64() (int64, bool) {
	if n.kind == KindInteger {
		return n.i, true
	}
	return 0, false
}

func (n Number) Float64() float64 {
	switch n.kind {
	case KindInteger:
		return float64(n.i)
	case KindBigInteger:
		f, _ := new(big.Float).SetInt(n.b).Float64()
		return f
	case KindRational:
		f, _ := n.r.Float64()
		return f
	}
	return n.f
}

// IsInteger reports an exact integer value.
func (n Number) IsInteger() bool {
	return n.kind == KindInteger || n.kind == KindBigInteger
}

// IsIntegral reports an integer value of any kind, including 3.0.
func (n Number) IsIntegral() bool {
	if n.kind == KindFloat {
		return !math.IsInf(n.f, 0) && n.f == math.Trunc(n.f)
	}
	return n.IsInteger()
}

func (n Number) Sign() int {
	switch n.kind {
	case KindInteger:
		switch {
		case n.i < 0:
			return -1
		case n.i > 0:
			return 1
		}
		return 0
	case KindBigInteger:
		return n.b.Sign()
	case KindRational:
		return n.r.Sign()
	}
	switch {
	case n.f < 0:
		return -1
	case n.f > 0:
		return 1
	}
	return 0
}

func (n Number) IsZero() bool { return n.Sign() == 0 && !n.IsNaN() }
func (n Number) IsNaN() bool  { return n.kind == KindFloat && math.IsNaN(n.f) }
func (n Number) IsOne() bool  { return n.Equal(IntNumber(1)) }
func (n Number) IsNegOne() bool {
	return n.Equal(IntNumber(-1))
}

// Cmp orders numbers by value across kinds. NaN sorts after everything and
// equals only itself.
func (n Number) Cmp(m Number) int {
	if n.IsNaN() || m.IsNaN() {
		switch {
		case n.IsNaN() && m.IsNaN():
			return 0
		case n.IsNaN():
			return 1
		}
		return -1
	}
	if n.kind == KindInteger && m.kind == KindInteger {
		switch {
		case n.i < m.i:
			return -1
		case n.i > m.i:
			return 1
		}
		return 0
	}
	if n.kind == KindFloat && m.kind == KindFloat {
		switch {
		case n.f < m.f:
			return -1
		case n.f > m.f:
			return 1
		}
		return 0
	}
	if n.kind == KindFloat && math.IsInf(n.f, 0) {
		return int(math.Copysign(1, n.f))
	}
	if m.kind == KindFloat && math.IsInf(m.f, 0) {
		return -int(math.Copysign(1, m.f))
	}
	a, _ := n.Rat()
	b, _ := m.Rat()
	return a.Cmp(b)
}

// Equal is value equality across kinds: 3, 6/2 and 3.0 are equal.
func (n Number) Equal(m Number) bool { return n.Cmp(m) == 0 }

func (n Number) Neg() Number {
	switch n.kind {
	case KindInteger:
		if n.i == math.MinInt64 {
			return BigIntNumber(new(big.Int).Neg(big.NewInt(n.i)))
		}
		return IntNumber(-n.i)
	case KindBigInteger:
		return BigIntNumber(new(big.Int).Neg(n.b))
	case KindRational:
		return RatNumber(new(big.Rat).Neg(n.r))
	}
	return FloatNumber(-n.f)
}

func (n Number) Abs() Number {
	if n.Sign() < 0 {
		return n.Neg()
	}
	return n
}

func (n Number) Add(m Number) Number {
	switch {
	case n.kind == KindFloat || m.kind == KindFloat:
		return FloatNumber(n.Float64() + m.Float64())
	case n.kind == KindInteger && m.kind == KindInteger:
		s := n.i + m.i
		if (n.i >= 0) == (m.i >= 0) && (s >= 0) != (n.i >= 0) {
			return BigIntNumber(new(big.Int).Add(big.NewInt(n.i), big.NewInt(m.i)))
		}
		return IntNumber(s)
	case n.IsInteger() && m.IsInteger():
		a, _ := n.BigInt()
		b, _ := m.BigInt()
		return BigIntNumber(a.Add(a, b))
	}
	a, _ := n.Rat()
	b, _ := m.Rat()
	return RatNumber(a.Add(a, b))
}

func (n Number) Sub(m Number) Number { return n.Add(m.Neg()) }

func (n Number) Mul(m Number) Number {
	switch {
	case n.kind == KindFloat || m.kind == KindFloat:
		return FloatNumber(n.Float64() * m.Float64())
	case n.kind == KindInteger && m.kind == KindInteger:
		if p, ok := mulInt64(n.i, m.i); ok {
			return IntNumber(p)
		}
		return BigIntNumber(new(big.Int).Mul(big.NewInt(n.i), big.NewInt(m.i)))
	case n.IsInteger() && m.IsInteger():
		a, _ := n.BigInt()
		b, _ := m.BigInt()
		return BigIntNumber(a.Mul(a, b))
	}
	a, _ := n.Rat()
	b, _ := m.Rat()
	return RatNumber(a.Mul(a, b))
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	neg := (a < 0) != (b < 0)
	ua, ub := absU64(a), absU64(b)
	hi, lo := bits.Mul64(ua, ub)
	if hi != 0 {
		return 0, false
	}
	if neg {
		if lo > 1<<63 {
			return 0, false
		}
		return -int64(lo - 1) - 1, true
	}
	if lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

func absU64(a int64) uint64 {
	if a < 0 {
		return uint64(-(a + 1)) + 1
	}
	return uint64(a)
}

// Quo divides; ok is false for exact division by zero. Float division by
// zero follows IEEE-754.
func (n Number) Quo(m Number) (Number, bool) {
	if n.kind == KindFloat || m.kind == KindFloat {
		return FloatNumber(n.Float64() / m.Float64()), true
	}
	if m.IsZero() {
		return Number{}, false
	}
	a, _ := n.Rat()
	b, _ := m.Rat()
	return RatNumber(a.Quo(a, b)), true
}

// Inv returns 1/n; ok is false for exact zero.
func (n Number) Inv() (Number, bool) { return IntNumber(1).Quo(n) }

// PowInt raises n to an integer power. ok is false for 0^negative.
func (n Number) PowInt(e int64) (Number, bool) {
	if n.kind == KindFloat {
		return FloatNumber(math.Pow(n.f, float64(e))), true
	}
	if e < 0 {
		inv, ok := n.Inv()
		if !ok {
			return Number{}, false
		}
		return inv.PowInt(-e)
	}
	r, _ := n.Rat()
	num := new(big.Int).Exp(r.Num(), big.NewInt(e), nil)
	den := new(big.Int).Exp(r.Denom(), big.NewInt(e), nil)
	return RatNumber(new(big.Rat).SetFrac(num, den)), true
}

// BitLen estimates the size of an exact number in bits.
func (n Number) BitLen() int {
	switch n.kind {
	case KindInteger:
		return bits.Len64(absU64(n.i))
	case KindBigInteger:
		return n.b.BitLen()
	case KindRational:
		return max(n.r.Num().BitLen(), n.r.Denom().BitLen())
	}
	return 64
}

// Num returns the numerator and denominator of an exact number.
func (n Number) NumDen() (*big.Int, *big.Int, bool) {
	r, ok := n.Rat()
	if !ok || n.kind == KindFloat {
		return nil, nil, false
	}
	return new(big.Int).Set(r.Num()), new(big.Int).Set(r.Denom()), true
}

// ToFloat converts to the Float kind.
func (n Number) ToFloat() Number { return FloatNumber(n.Float64()) }

func (n Number) String() string {
	switch n.kind {
	case KindInteger:
		return strconv.FormatInt(n.i, 10)
	case KindBigInteger:
		return n.b.String()
	case KindRational:
		return n.r.RatString()
	}
	switch {
	case math.IsInf(n.f, 1):
		return "inf"
	case math.IsInf(n.f, -1):
		return "-inf"
	case math.IsNaN(n.f):
		return "nan"
	}
	s := strconv.FormatFloat(n.f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// hashKey is a canonical byte form shared by equal values of any kind.
func (n Number) hashKey() string {
	if n.IsNaN() {
		return "nan"
	}
	if n.kind == KindFloat && math.IsInf(n.f, 0) {
		return n.String()
	}
	r, _ := n.Rat()
	return r.RatString()
}

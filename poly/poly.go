package poly

import (
	"math/big"
	"strings"
)

// Poly is a dense univariate polynomial over Q. Coefficients are stored in
// ascending degree with no trailing zeros; the zero polynomial has none.
type Poly struct {
	c []*big.Rat
}

// New builds a polynomial from ascending coefficients. The inputs are copied.
func New(coeffs ...*big.Rat) Poly {
	out := make([]*big.Rat, len(coeffs))
	for i, c := range coeffs {
		if c == nil {
			out[i] = new(big.Rat)
		} else {
			out[i] = ratCopy(c)
		}
	}
	return Poly{c: trim(out)}
}

// FromInts builds a polynomial from ascending integer coefficients.
func FromInts(coeffs ...int64) Poly {
	out := make([]*big.Rat, len(coeffs))
	for i, c := range coeffs {
		out[i] = ratInt(c)
	}
	return Poly{c: trim(out)}
}

// FromBigInts builds a polynomial from ascending big integer coefficients.
func FromBigInts(coeffs []*big.Int) Poly {
	out := make([]*big.Rat, len(coeffs))
	for i, c := range coeffs {
		out[i] = new(big.Rat).SetInt(c)
	}
	return Poly{c: trim(out)}
}

// X is the polynomial x.
func X() Poly { return FromInts(0, 1) }

func trim(c []*big.Rat) []*big.Rat {
	n := len(c)
	for n > 0 && c[n-1].Sign() == 0 {
		n--
	}
	return c[:n]
}

// Degree returns the degree, -1 for the zero polynomial.
func (p Poly) Degree() int { return len(p.c) - 1 }

// IsZero reports whether p is the zero polynomial.
func (p Poly) IsZero() bool { return len(p.c) == 0 }

// IsConstant reports whether p has degree <= 0.
func (p Poly) IsConstant() bool { return len(p.c) <= 1 }

// Coeff returns the coefficient of x^i.
func (p Poly) Coeff(i int) *big.Rat {
	if i < 0 || i >= len(p.c) {
		return new(big.Rat)
	}
	return ratCopy(p.c[i])
}

// Coeffs returns a copy of the ascending coefficients.
func (p Poly) Coeffs() []*big.Rat {
	out := make([]*big.Rat, len(p.c))
	for i, c := range p.c {
		out[i] = ratCopy(c)
	}
	return out
}

// LC returns the leading coefficient (0 for the zero polynomial).
func (p Poly) LC() *big.Rat {
	if p.IsZero() {
		return new(big.Rat)
	}
	return ratCopy(p.c[len(p.c)-1])
}

func (p Poly) Add(q Poly) Poly {
	n := max(len(p.c), len(q.c))
	out := make([]*big.Rat, n)
	for i := range out {
		out[i] = ratAdd(p.Coeff(i), q.Coeff(i))
	}
	return Poly{c: trim(out)}
}

func (p Poly) Sub(q Poly) Poly {
	return p.Add(q.Neg())
}

func (p Poly) Neg() Poly {
	out := make([]*big.Rat, len(p.c))
	for i, c := range p.c {
		out[i] = ratNeg(c)
	}
	return Poly{c: out}
}

func (p Poly) Mul(q Poly) Poly {
	if p.IsZero() || q.IsZero() {
		return Poly{}
	}
	out := make([]*big.Rat, len(p.c)+len(q.c)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	t := new(big.Rat)
	for i, a := range p.c {
		if a.Sign() == 0 {
			continue
		}
		for j, b := range q.c {
			out[i+j].Add(out[i+j], t.Mul(a, b))
		}
	}
	return Poly{c: trim(out)}
}

// Scale multiplies every coefficient by k.
func (p Poly) Scale(k *big.Rat) Poly {
	out := make([]*big.Rat, len(p.c))
	for i, c := range p.c {
		out[i] = ratMul(c, k)
	}
	return Poly{c: trim(out)}
}

// Pow returns p^n for n >= 0.
func (p Poly) Pow(n int) Poly {
	result := FromInts(1)
	base := p
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	return result
}

// DivMod returns q, r with p = q*d + r and deg r < deg d.
func (p Poly) DivMod(d Poly) (q, r Poly, err error) {
	if d.IsZero() {
		return Poly{}, Poly{}, errDivZero("divmod")
	}
	if p.Degree() < d.Degree() {
		return Poly{}, p, nil
	}
	rem := p.Coeffs()
	quo := make([]*big.Rat, p.Degree()-d.Degree()+1)
	for i := range quo {
		quo[i] = new(big.Rat)
	}
	lc := d.c[len(d.c)-1]
	dd := d.Degree()
	t := new(big.Rat)
	for i := len(rem) - 1; i >= dd; i-- {
		if rem[i].Sign() == 0 {
			continue
		}
		k := ratQuo(rem[i], lc)
		quo[i-dd] = k
		for j, c := range d.c {
			rem[i-dd+j].Sub(rem[i-dd+j], t.Mul(k, c))
		}
	}
	return Poly{c: trim(quo)}, Poly{c: trim(rem[:dd])}, nil
}

// Divides reports whether d divides p exactly.
func (p Poly) Divides(d Poly) bool {
	_, r, err := p.DivMod(d)
	return err == nil && r.IsZero()
}

// Eval evaluates p at x with Horner's rule.
func (p Poly) Eval(x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p.c) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p.c[i])
	}
	return acc
}

// Derivative returns dp/dx.
func (p Poly) Derivative() Poly {
	if len(p.c) <= 1 {
		return Poly{}
	}
	out := make([]*big.Rat, len(p.c)-1)
	for i := 1; i < len(p.c); i++ {
		out[i-1] = ratMul(p.c[i], ratInt(int64(i)))
	}
	return Poly{c: trim(out)}
}

// Compose returns p(q(x)).
func (p Poly) Compose(q Poly) Poly {
	acc := Poly{}
	for i := len(p.c) - 1; i >= 0; i-- {
		acc = acc.Mul(q).Add(New(p.c[i]))
	}
	return acc
}

// Monic divides p by its leading coefficient.
func (p Poly) Monic() Poly {
	if p.IsZero() {
		return p
	}
	return p.Scale(new(big.Rat).Inv(p.c[len(p.c)-1]))
}

func (p Poly) Equal(q Poly) bool {
	if len(p.c) != len(q.c) {
		return false
	}
	for i := range p.c {
		if p.c[i].Cmp(q.c[i]) != 0 {
			return false
		}
	}
	return true
}

// Content returns the non-negative rational content gcd(num)/lcm(den).
func (p Poly) Content() *big.Rat {
	return ratContent(p.c)
}

// ContentPrimitive splits p = c * pp where pp has coprime integer
// coefficients and a positive leading coefficient. c carries the sign.
func (p Poly) ContentPrimitive() (*big.Rat, Poly) {
	if p.IsZero() {
		return new(big.Rat), Poly{}
	}
	c := p.Content()
	if p.LC().Sign() < 0 {
		c.Neg(c)
	}
	return c, p.Scale(new(big.Rat).Inv(c))
}

// PrimitivePart returns the primitive integer part with positive leading
// coefficient.
func (p Poly) PrimitivePart() Poly {
	_, pp := p.ContentPrimitive()
	return pp
}

// IsIntegral reports whether every coefficient is an integer.
func (p Poly) IsIntegral() bool {
	for _, c := range p.c {
		if !c.IsInt() {
			return false
		}
	}
	return true
}

// IntCoeffs returns the numerators of an integral polynomial.
func (p Poly) IntCoeffs() []*big.Int {
	out := make([]*big.Int, len(p.c))
	for i, c := range p.c {
		out[i] = new(big.Int).Set(c.Num())
	}
	return out
}

func (p Poly) String() string { return p.Format("x") }

// Format renders p in descending degree using v as the variable name.
func (p Poly) Format(v string) string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	first := true
	for i := len(p.c) - 1; i >= 0; i-- {
		c := p.c[i]
		if c.Sign() == 0 {
			continue
		}
		a := new(big.Rat).Abs(c)
		switch {
		case first && c.Sign() < 0:
			sb.WriteString("-")
		case !first && c.Sign() < 0:
			sb.WriteString(" - ")
		case !first:
			sb.WriteString(" + ")
		}
		first = false
		one := a.Cmp(ratInt(1)) == 0
		if !one || i == 0 {
			sb.WriteString(a.RatString())
			if i > 0 {
				sb.WriteString("*")
			}
		}
		switch {
		case i == 1:
			sb.WriteString(v)
		case i > 1:
			sb.WriteString(v + "^" + itoa(i))
		}
	}
	return sb.String()
}

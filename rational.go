package gocas

import (
	"math"
	"math/big"
	"sort"

	"github.com/njchilds90/gocas/poly"
)

// ============================================================
// Rational normal form
// ============================================================
//
// A commutative expression is read as a quotient of two polynomials over Q
// whose variables ("generators") are its symbols and every subexpression
// that is not itself rational: function calls, constants, and powers with
// non-integer exponents. Generators are treated as independent, so the form
// decides rational identities only; sin(x)^2 + cos(x)^2 - 1 is not zero
// here.

type rationalForm struct {
	num, den *poly.MPoly
	gens     []Expr
}

// maxRationalPow bounds integer exponents expanded by the rational form;
// larger powers become generators of their own.
const maxRationalPow = 256

func toRational(e Expr) (rationalForm, bool) {
	var gs genSet
	if !gs.collect(e) {
		return rationalForm{}, false
	}
	sort.SliceStable(gs.list, func(i, j int) bool { return compareBase(gs.list[i], gs.list[j]) < 0 })
	gs.reindex()
	c := ratConv{gens: &gs, n: len(gs.list), cfg: currentConfig().PolyConfig()}
	num, den, ok := c.conv(e)
	if !ok {
		return rationalForm{}, false
	}
	return rationalForm{num: num, den: den, gens: gs.list}, true
}

type genSet struct {
	list  []Expr
	index map[uint64][]int
}

func (g *genSet) find(e Expr) (int, bool) {
	for _, i := range g.index[e.Hash()] {
		if g.list[i].Equal(e) {
			return i, true
		}
	}
	return 0, false
}

func (g *genSet) add(e Expr) {
	if g.index == nil {
		g.index = map[uint64][]int{}
	}
	if _, ok := g.find(e); ok {
		return
	}
	g.index[e.Hash()] = append(g.index[e.Hash()], len(g.list))
	g.list = append(g.list, e)
}

func (g *genSet) reindex() {
	g.index = make(map[uint64][]int, len(g.list))
	for i, e := range g.list {
		g.index[e.Hash()] = append(g.index[e.Hash()], i)
	}
}

func (g *genSet) collect(e Expr) bool {
	switch x := e.(type) {
	case *Num:
		return x.v.IsExact()
	case *Sym:
		if !x.s.Commutative() {
			return false
		}
		g.add(x)
		return true
	case *Add:
		for _, t := range x.terms {
			if !g.collect(t) {
				return false
			}
		}
		return true
	case *Mul:
		for _, f := range x.factors {
			if !g.collect(f) {
				return false
			}
		}
		return true
	case *Pow:
		if k, ok := smallInt(x.exp); ok && k >= -maxRationalPow && k <= maxRationalPow {
			return g.collect(x.base)
		}
		if !commutes(x) {
			return false
		}
		g.add(x)
		return true
	case *Const:
		if isInfinite(x) {
			return false
		}
		g.add(x)
		return true
	case *Func, *Calculus:
		if !commutes(x) {
			return false
		}
		g.add(x)
		return true
	}
	return false
}

type ratConv struct {
	gens *genSet
	n    int
	cfg  poly.Config
}

func (c *ratConv) one() *poly.MPoly { return poly.Constant(c.n, poly.Lex, big.NewRat(1, 1)) }

func (c *ratConv) conv(e Expr) (num, den *poly.MPoly, ok bool) {
	if i, found := c.gens.find(e); found {
		return poly.Var(c.n, poly.Lex, i), c.one(), true
	}
	switch x := e.(type) {
	case *Num:
		r, _ := x.v.Rat()
		return poly.Constant(c.n, poly.Lex, r), c.one(), true
	case *Add:
		num, den = poly.Zero(c.n, poly.Lex), c.one()
		for _, t := range x.terms {
			tn, td, ok := c.conv(t)
			if !ok {
				return nil, nil, false
			}
			num, den = c.add(num, den, tn, td)
		}
		return num, den, true
	case *Mul:
		num, den = c.one(), c.one()
		for _, f := range x.factors {
			fn, fd, ok := c.conv(f)
			if !ok {
				return nil, nil, false
			}
			num, den = num.Mul(fn), den.Mul(fd)
		}
		return num, den, true
	case *Pow:
		k, _ := smallInt(x.exp)
		bn, bd, ok := c.conv(x.base)
		if !ok {
			return nil, nil, false
		}
		if k < 0 {
			if bn.IsZero() {
				return nil, nil, false
			}
			bn, bd, k = bd, bn, -k
		}
		return bn.Pow(k), bd.Pow(k), true
	}
	return nil, nil, false
}

// add returns a/b + c/d over the least common denominator.
func (c *ratConv) add(a, b, cn, d *poly.MPoly) (*poly.MPoly, *poly.MPoly) {
	if b.Equal(d) {
		return a.Add(cn), b
	}
	g, err := poly.MGCDWithConfig(b, d, c.cfg)
	if err != nil || g.IsZero() {
		return a.Mul(d).Add(cn.Mul(b)), b.Mul(d)
	}
	bq, ok1 := b.ExactDiv(g)
	dq, ok2 := d.ExactDiv(g)
	if !ok1 || !ok2 {
		return a.Mul(d).Add(cn.Mul(b)), b.Mul(d)
	}
	return a.Mul(dq).Add(cn.Mul(bq)), b.Mul(dq)
}

// cancel removes the polynomial gcd of numerator and denominator and
// normalizes the denominator to a primitive polynomial with positive
// leading coefficient.
func (r rationalForm) cancel() rationalForm {
	if r.num.IsZero() {
		return rationalForm{num: r.num, den: poly.Constant(r.den.NumVars(), poly.Lex, big.NewRat(1, 1)), gens: r.gens}
	}
	if g, err := poly.MGCDWithConfig(r.num, r.den, currentConfig().PolyConfig()); err == nil && !g.IsConstant() {
		if n, ok := r.num.ExactDiv(g); ok {
			if d, ok := r.den.ExactDiv(g); ok {
				r.num, r.den = n, d
			}
		}
	}
	return r.normalize()
}

func (r rationalForm) normalize() rationalForm {
	c := r.den.Content()
	if r.den.LC().Sign() < 0 {
		c.Neg(c)
	}
	if c.Sign() == 0 {
		return r
	}
	inv := new(big.Rat).Inv(c)
	return rationalForm{num: r.num.Scale(inv), den: r.den.Scale(inv), gens: r.gens}
}

func (r rationalForm) expr() Expr {
	n := fromPolyGens(r.num, r.gens)
	if r.den.IsConstant() {
		return DivOf(n, RatOf(r.den.ConstantValue()))
	}
	return MulOf(n, PowOf(fromPolyGens(r.den, r.gens), negOne))
}

// Together writes e over a common denominator without cancelling common
// factors. Expressions with non-commutative parts are returned unchanged.
func Together(e Expr) Expr {
	r, ok := toRational(e)
	if !ok {
		return e
	}
	return r.normalize().expr()
}

// Cancel writes e as p/q with gcd(p, q) = 1 and q primitive with positive
// leading coefficient.
func Cancel(e Expr) Expr {
	switch e.(type) {
	case *Num, *Sym, *Const, *Undefined, *Bool:
		return e
	}
	r, ok := toRational(e)
	if !ok {
		return e
	}
	return r.cancel().expr()
}

// NumerDenom splits the canceled form of e into numerator and denominator.
func NumerDenom(e Expr) (Expr, Expr) {
	r, ok := toRational(e)
	if !ok {
		return e, one
	}
	r = r.cancel()
	return fromPolyGens(r.num, r.gens), fromPolyGens(r.den, r.gens)
}

// isZeroRational reports e == 0 as a rational function of its generators.
func isZeroRational(e Expr) bool {
	if isZero(e) {
		return true
	}
	r, ok := toRational(e)
	return ok && r.num.IsZero()
}

// samplePoints are the values at which expressions are compared
// numerically; irregular values keep them off common singularities.
var samplePoints = []float64{0.3719, 0.6180, 1.1371, 1.7183, 2.4142, 0.8660, 1.3333}

// Equivalent reports whether a - b is zero. It first tries the rational
// normal form; if that cannot decide, both sides are compared at sample
// points for the free symbols, and at least two points must evaluate.
func Equivalent(a, b Expr) bool { return equivalent(a, b, len(samplePoints)) }

func equivalent(a, b Expr, samples int) bool {
	d := SubOf(a, b)
	if isZeroRational(d) {
		return true
	}
	if r, ok := toRational(d); ok && onlySymbolGens(r.gens) {
		return false
	}
	return numericallyEqual(a, b, samples)
}

func onlySymbolGens(gens []Expr) bool {
	for _, g := range gens {
		if _, ok := g.(*Sym); !ok {
			return false
		}
	}
	return true
}

func numericallyEqual(a, b Expr, samples int) bool {
	syms := FreeSymbols(SetOf(a, b))
	agree := 0
	for k := 0; k < samples && k < len(samplePoints); k++ {
		subs := make(map[Symbol]Expr, len(syms))
		for i, s := range syms {
			x := samplePoints[(k+i)%len(samplePoints)] + 0.173*float64(i)
			subs[s.s] = NFloat(x)
		}
		av, errA := Float64(Substitute(a, subs))
		bv, errB := Float64(Substitute(b, subs))
		if errA != nil || errB != nil || math.IsInf(av, 0) || math.IsInf(bv, 0) {
			continue
		}
		scale := math.Max(1, math.Max(math.Abs(av), math.Abs(bv)))
		if math.Abs(av-bv) > 1e-8*scale {
			return false
		}
		agree++
	}
	return agree >= 2
}

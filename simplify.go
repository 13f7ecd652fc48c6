package gocas

import (
	"context"
	"math"
	"math/big"
)

// ============================================================
// Canonicalizing constructors
// ============================================================
//
// Every constructor returns a tree in canonical form, so a tree built only
// through them is already simplified and Simplify(e) rebuilds it unchanged.

func isZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.v.IsZero()
}

func isOne(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.v.IsOne()
}

func isNumber(e Expr) bool { _, ok := e.(*Num); return ok }

func isInteger(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.v.IsInteger()
}

func smallInt(e Expr) (int, bool) {
	n, ok := e.(*Num)
	if !ok || !n.v.IsInteger() {
		return 0, false
	}
	k, ok := n.v.Int64()
	if !ok || k > math.MaxInt32 || k < math.MinInt32 {
		return 0, false
	}
	return int(k), true
}

// isPositive is a conservative positivity test for real expressions.
func isPositive(e Expr) bool {
	switch x := e.(type) {
	case *Num:
		return x.v.Sign() > 0
	case *Const:
		return x.k == ConstPi || x.k == ConstE || x.k == ConstEulerGamma || x.k == ConstGoldenRatio || x.k == ConstInfinity
	case *Func:
		return x.name == "exp" && isReal(x.args[0])
	case *Pow:
		return isPositive(x.base) && isReal(x.exp)
	case *Mul:
		for _, f := range x.factors {
			if !isPositive(f) {
				return false
			}
		}
		return true
	case *Add:
		for _, t := range x.terms {
			if !isPositive(t) {
				return false
			}
		}
		return true
	}
	return false
}

// isReal reports expressions built from numbers, real constants and scalar
// symbols only. Symbols are assumed real.
func isReal(e Expr) bool {
	switch x := e.(type) {
	case *Num:
		return true
	case *Const:
		return x.k != ConstI
	case *Sym:
		return x.s.Commutative()
	case *Add:
		return allReal(x.terms)
	case *Mul:
		return allReal(x.factors)
	case *Func:
		return allReal(x.args)
	case *Pow:
		return isReal(x.base) && isInteger(x.exp) || isPositive(x.base) && isReal(x.exp)
	}
	return false
}

func allReal(es []Expr) bool {
	for _, e := range es {
		if !isReal(e) {
			return false
		}
	}
	return true
}

// splitCoeff separates a term into its numeric coefficient and the rest.
func splitCoeff(e Expr) (Number, Expr) {
	switch x := e.(type) {
	case *Num:
		return x.v, one
	case *Mul:
		if n, ok := x.factors[0].(*Num); ok {
			if rest := x.factors[1:]; len(rest) > 1 {
				return n.v, newMul(rest)
			}
			return n.v, x.factors[1]
		}
	}
	return IntNumber(1), e
}

// withCoeff rebuilds c·rest for a canonical rest that is not a sum.
func withCoeff(c Number, rest Expr) Expr {
	switch {
	case isOne(rest):
		return numExpr(c)
	case c.IsOne():
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return newMul(append([]Expr{NumOf(c)}, m.factors...))
	}
	return newMul([]Expr{NumOf(c), rest})
}

// leadingNegative reports whether the printed leading term carries a minus
// sign.
func leadingNegative(e Expr) bool {
	switch x := e.(type) {
	case *Num:
		return x.v.Sign() < 0
	case *Mul:
		c, _ := splitCoeff(x)
		return c.Sign() < 0
	case *Add:
		return leadingNegative(x.terms[len(x.terms)-1])
	}
	return false
}

// ------------------------------------------------------------
// Add
// ------------------------------------------------------------

type likeTerm struct {
	coef Number
	rest Expr
}

// AddOf flattens nested sums, folds numbers, combines like terms, sums
// matrix literals of equal shape and sorts the result. ∞ − ∞ is undefined;
// finite numbers are absorbed by an infinity.
func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if a, ok := t.(*Add); ok {
			flat = append(flat, a.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	sum := IntNumber(0)
	posInf, negInf := false, false
	var (
		mats     []*Matrix
		cre, cim []Expr
		others   []Expr
		like     []likeTerm
		index    = map[uint64][]int{}
	)
	for _, t := range flat {
		switch x := t.(type) {
		case *Undefined:
			return Undef
		case *Num:
			if x.v.IsFloat() && math.IsInf(x.v.Float64(), 0) {
				posInf = posInf || x.v.Sign() > 0
				negInf = negInf || x.v.Sign() < 0
				continue
			}
			sum = sum.Add(x.v)
			continue
		case *Const:
			if x.k == ConstInfinity {
				posInf = true
				continue
			}
			if x.k == ConstNegInfinity {
				negInf = true
				continue
			}
		case *Matrix:
			mats = append(mats, x)
			continue
		case *Complex:
			cre = append(cre, x.re)
			cim = append(cim, x.im)
			continue
		}
		others = append(others, t)
	}
	switch {
	case posInf && negInf, sum.IsNaN():
		return Undef
	case len(cre) > 1 || len(cre) == 1 && !sum.IsZero():
		re := AddOf(append(cre, NumOf(sum))...)
		return AddOf(append(others, ComplexOf(re, AddOf(cim...)))...)
	}

	for _, t := range others {
		c, rest := splitCoeff(t)
		found := false
		for _, i := range index[rest.Hash()] {
			if like[i].rest.Equal(rest) {
				like[i].coef = like[i].coef.Add(c)
				found = true
				break
			}
		}
		if !found {
			index[rest.Hash()] = append(index[rest.Hash()], len(like))
			like = append(like, likeTerm{coef: c, rest: rest})
		}
	}

	out := make([]Expr, 0, len(like)+2)
	for _, lt := range like {
		if lt.coef.IsZero() {
			continue
		}
		if lt.coef.IsNaN() {
			return Undef
		}
		out = append(out, withCoeff(lt.coef, lt.rest))
	}
	if len(cre) == 1 {
		out = append(out, ComplexOf(cre[0], cim[0]))
	}
	out = append(out, sumMatrices(mats)...)
	switch {
	case posInf:
		out = append(out, Infinity)
	case negInf:
		out = append(out, NegInfinity)
	case !sum.IsZero():
		out = append(out, NumOf(sum))
	}
	switch len(out) {
	case 0:
		return NumOf(sum)
	case 1:
		return out[0]
	}
	sortExprs(out)
	return newAdd(out)
}

func sumMatrices(mats []*Matrix) []Expr {
	var out []*Matrix
	for _, m := range mats {
		merged := false
		for i, acc := range out {
			if acc.rows == m.rows && acc.cols == m.cols {
				out[i], _ = MatAdd(acc, m)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, m)
		}
	}
	es := make([]Expr, len(out))
	for i, m := range out {
		es[i] = m
	}
	return es
}

// SubOf returns a − b.
func SubOf(a, b Expr) Expr { return AddOf(a, Neg(b)) }

// Neg returns −e.
func Neg(e Expr) Expr { return MulOf(negOne, e) }

// ------------------------------------------------------------
// Mul
// ------------------------------------------------------------

type baseGroup struct {
	base Expr
	exps []Expr
	orig Expr
}

func mulSign(s, t int) int {
	if s == 0 {
		return t
	}
	return s * t
}

// MulOf flattens nested products, folds the numeric coefficient, merges
// equal bases by adding exponents and sorts the commutative factors.
// Non-commutative factors keep their relative order; only adjacent equal
// bases merge and adjacent matrix literals multiply. A numeric coefficient
// times a single sum distributes. 0·∞ is undefined.
func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if m, ok := f.(*Mul); ok {
			flat = append(flat, m.factors...)
		} else {
			flat = append(flat, f)
		}
	}

	coef := IntNumber(1)
	infSign := 0
	var comm, nc []Expr
	var cplx []*Complex
	for _, f := range flat {
		switch x := f.(type) {
		case *Undefined:
			return Undef
		case *Num:
			if x.v.IsFloat() && math.IsInf(x.v.Float64(), 0) {
				infSign = mulSign(infSign, x.v.Sign())
				continue
			}
			coef = coef.Mul(x.v)
			continue
		case *Const:
			if x.k == ConstInfinity {
				infSign = mulSign(infSign, 1)
				continue
			}
			if x.k == ConstNegInfinity {
				infSign = mulSign(infSign, -1)
				continue
			}
		case *Complex:
			cplx = append(cplx, x)
			continue
		}
		if commutes(f) {
			comm = append(comm, f)
		} else {
			nc = append(nc, f)
		}
	}

	if coef.IsNaN() {
		return Undef
	}
	if coef.IsZero() {
		if infSign != 0 {
			return Undef
		}
		if len(nc) == 1 {
			if m, ok := nc[0].(*Matrix); ok {
				return ZeroMatrix(m.rows, m.cols)
			}
		}
		return numExpr(coef)
	}
	if infSign != 0 {
		infSign *= coef.Sign()
		coef = IntNumber(int64(infSign))
	}

	if len(cplx) > 0 {
		var re, im Expr = numExpr(coef), zero
		for _, c := range cplx {
			re, im = SubOf(MulOf(re, c.re), MulOf(im, c.im)), AddOf(MulOf(re, c.im), MulOf(im, c.re))
		}
		z := ComplexOf(re, im)
		if _, still := z.(*Complex); !still {
			return MulOf(append(append(append([]Expr{z}, comm...), nc...), infFactor(infSign)...)...)
		}
		coef = IntNumber(1)
		comm = append(comm, z)
	}

	var ok bool
	if comm, coef, ok = combineBases(comm, coef); !ok {
		return Undef
	}
	if coef.IsZero() {
		return numExpr(coef)
	}

	ncOut := make([]Expr, 0, len(nc))
	for _, f := range nc {
		if len(ncOut) > 0 {
			last := ncOut[len(ncOut)-1]
			lb, lx := asPow(last)
			fb, fx := asPow(f)
			var merged Expr
			if lb.Equal(fb) {
				merged = PowOf(lb, AddOf(lx, fx))
			} else if lm, ok := last.(*Matrix); ok {
				if fm, ok := f.(*Matrix); ok && lm.cols == fm.rows {
					merged, _ = MatMul(lm, fm)
				}
			}
			if merged != nil {
				ncOut = ncOut[:len(ncOut)-1]
				if n, ok := merged.(*Num); ok {
					coef = coef.Mul(n.v)
				} else {
					ncOut = append(ncOut, merged)
				}
				continue
			}
		}
		ncOut = append(ncOut, f)
	}

	if infSign == 0 && len(ncOut) == 1 {
		if m, ok := ncOut[0].(*Matrix); ok {
			if coef.IsOne() && len(comm) == 0 {
				return m
			}
			return MatScale(m, MulOf(append([]Expr{NumOf(coef)}, comm...)...))
		}
	}
	if infSign == 0 && !coef.IsOne() && len(comm) == 1 && len(ncOut) == 0 {
		if a, ok := comm[0].(*Add); ok {
			c := NumOf(coef)
			terms := make([]Expr, len(a.terms))
			for i, t := range a.terms {
				terms[i] = MulOf(c, t)
			}
			return AddOf(terms...)
		}
	}

	if infSign != 0 {
		if len(comm) == 0 && len(ncOut) == 0 {
			return infFactor(infSign)[0]
		}
		comm = append(comm, Infinity)
	}
	sortExprs(comm)
	out := make([]Expr, 0, len(comm)+len(ncOut)+1)
	if !coef.IsOne() {
		out = append(out, NumOf(coef))
	}
	out = append(out, comm...)
	out = append(out, ncOut...)
	switch len(out) {
	case 0:
		return NumOf(coef)
	case 1:
		return out[0]
	}
	return newMul(out)
}

func infFactor(sign int) []Expr {
	switch {
	case sign > 0:
		return []Expr{Infinity}
	case sign < 0:
		return []Expr{NegInfinity}
	}
	return nil
}

// combineBases merges commutative factors with equal bases, and all exp()
// factors into one, until nothing changes. Numbers produced along the way
// are folded into the coefficient.
func combineBases(comm []Expr, coef Number) ([]Expr, Number, bool) {
	for iter := 0; iter < 16; iter++ {
		changed := false
		var groups []*baseGroup
		index := map[uint64][]int{}
		var expArgs, expOrig []Expr
		for _, f := range comm {
			if fn, ok := f.(*Func); ok && fn.name == "exp" && len(fn.args) == 1 {
				expArgs = append(expArgs, fn.args[0])
				expOrig = append(expOrig, f)
				continue
			}
			b, x := asPow(f)
			if c, ok := b.(*Const); ok && c.k == ConstE {
				expArgs = append(expArgs, x)
				expOrig = append(expOrig, f)
				continue
			}
			found := false
			for _, i := range index[b.Hash()] {
				if groups[i].base.Equal(b) {
					groups[i].exps = append(groups[i].exps, x)
					found = true
					break
				}
			}
			if !found {
				index[b.Hash()] = append(index[b.Hash()], len(groups))
				groups = append(groups, &baseGroup{base: b, exps: []Expr{x}, orig: f})
			}
		}
		next := make([]Expr, 0, len(comm))
		for _, g := range groups {
			if len(g.exps) == 1 {
				next = append(next, g.orig)
				continue
			}
			changed = true
			next = append(next, PowOf(g.base, AddOf(g.exps...)))
		}
		switch len(expArgs) {
		case 0:
		case 1:
			next = append(next, expOrig[0])
		default:
			changed = true
			next = append(next, ExpOf(AddOf(expArgs...)))
		}

		comm = comm[:0:0]
		for _, f := range next {
			switch x := f.(type) {
			case *Undefined:
				return nil, coef, false
			case *Num:
				coef = coef.Mul(x.v)
				changed = true
			case *Mul:
				for _, g := range x.factors {
					if n, ok := g.(*Num); ok {
						coef = coef.Mul(n.v)
					} else {
						comm = append(comm, g)
					}
				}
				changed = true
			default:
				comm = append(comm, f)
			}
		}
		if !changed {
			break
		}
	}
	return comm, coef, true
}

// DivOf returns a / b.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, negOne)) }

// ------------------------------------------------------------
// Pow
// ------------------------------------------------------------

// PowOf applies x^0 = 1 (0^0 undefined), x^1 = x, 0^n, 1^x, (a^b)^c for
// integer c or positive a, (ab)^n over commutative products, exact numeric
// powers within the configured size bound and perfect-root extraction for
// rational exponents. E^u becomes exp(u) and powers of I cycle.
func PowOf(base, exp Expr) Expr {
	if IsUndefined(base) || IsUndefined(exp) {
		return Undef
	}
	if en, ok := exp.(*Num); ok {
		if en.v.IsZero() {
			if isZero(base) || isInfinite(base) {
				return Undef
			}
			return one
		}
		if en.v.IsOne() {
			return base
		}
	}
	switch b := base.(type) {
	case *Num:
		return powNum(b, exp)
	case *Const:
		if r, ok := powConst(b, exp); ok {
			return r
		}
	case *Pow:
		if isInteger(exp) || isPositive(b.base) && isReal(b.exp) && isReal(exp) {
			return PowOf(b.base, MulOf(b.exp, exp))
		}
	case *Mul:
		if r, ok := powMul(b, exp); ok {
			return r
		}
	case *Func:
		if b.name == "exp" && isInteger(exp) {
			return ExpOf(MulOf(exp, b.args[0]))
		}
	case *Matrix:
		if k, ok := smallInt(exp); ok && b.IsSquare() && k >= 0 && k <= 64 {
			if m, err := MatPow(b, k); err == nil {
				return m
			}
		}
	case *Complex:
		if k, ok := smallInt(exp); ok && k > 1 && k <= 64 {
			r := Expr(b)
			for i := 1; i < k; i++ {
				r = MulOf(r, b)
			}
			return r
		}
	}
	return newPow(base, exp)
}

// SqrtOf returns e^(1/2).
func SqrtOf(e Expr) Expr { return PowOf(e, half) }

func powNum(b *Num, exp Expr) Expr {
	bv := b.v
	en, isNum := exp.(*Num)
	switch {
	case bv.IsZero():
		if !isNum {
			return newPow(b, exp)
		}
		if en.v.Sign() > 0 {
			return b
		}
		return Undef
	case bv.IsOne():
		if isInfinite(exp) {
			return Undef
		}
		return b
	case !isNum:
		return newPow(b, exp)
	case bv.IsFloat() || en.v.IsFloat():
		r := math.Pow(bv.Float64(), en.v.Float64())
		if math.IsNaN(r) {
			return newPow(b, exp)
		}
		return NFloat(r)
	case en.v.IsInteger():
		k, small := en.v.Int64()
		if !small || int64(bv.BitLen())*absInt64(k) > int64(currentConfig().Simplify.MaxPowBits) {
			return newPow(b, exp)
		}
		r, ok := bv.PowInt(k)
		if !ok {
			return Undef
		}
		return NumOf(r)
	}
	return rootNum(bv, en.v)
}

func absInt64(k int64) int64 {
	if k < 0 {
		return -k
	}
	return k
}

// rootNum canonicalizes b^(p/q) for exact b: integer part of the exponent
// and perfect q-th powers move into a rational coefficient, leaving integer
// bases with exponents in (0, 1). (−n)^(p/2) becomes I^p·n^(p/2).
func rootNum(bv, ev Number) Expr {
	num, den, _ := ev.NumDen()
	if !num.IsInt64() || !den.IsInt64() || den.Int64() > 64 {
		return newPow(NumOf(bv), NumOf(ev))
	}
	p, q := num.Int64(), den.Int64()
	if bv.Sign() < 0 {
		if q != 2 {
			return newPow(NumOf(bv), NumOf(ev))
		}
		return MulOf(PowOf(I, N(p)), PowOf(NumOf(bv.Neg()), NumOf(ev)))
	}
	k := p / q
	if p%q < 0 {
		k--
	}
	r := p - k*q
	if int64(bv.BitLen())*absInt64(k) > int64(currentConfig().Simplify.MaxPowBits) {
		return newPow(NumOf(bv), NumOf(ev))
	}
	coef, _ := bv.PowInt(k)
	a, d, _ := bv.NumDen()
	sa, ra := extractRoot(a, q)
	sd, rd := extractRoot(d, q)
	s := new(big.Rat).SetFrac(sa, sd)
	s.SetFrac(new(big.Int).Exp(s.Num(), big.NewInt(r), nil), new(big.Int).Exp(s.Denom(), big.NewInt(r), nil))
	coef = coef.Mul(RatNumber(s))
	factors := []Expr{nil}
	if ra.Cmp(big.NewInt(1)) != 0 {
		factors = append(factors, newPow(NBig(ra), F(r, q)))
	}
	if rd.Cmp(big.NewInt(1)) != 0 {
		coef, _ = coef.Quo(BigIntNumber(rd))
		factors = append(factors, newPow(NBig(rd), F(q-r, q)))
	}
	factors[0] = NumOf(coef)
	return MulOf(factors...)
}

var smallPrimes = func() []int64 {
	var ps []int64
	for n := int64(2); n < 1000; n++ {
		prime := true
		for _, p := range ps {
			if p*p > n {
				break
			}
			if n%p == 0 {
				prime = false
				break
			}
		}
		if prime {
			ps = append(ps, n)
		}
	}
	return ps
}()

// extractRoot writes n = s^q · r with the q-th powers of small primes, and
// a perfect q-th power cofactor, moved into s.
func extractRoot(n *big.Int, q int64) (s, r *big.Int) {
	s, r = big.NewInt(1), new(big.Int).Set(n)
	rest := big.NewInt(1)
	m, bp, quo, rem := new(big.Int), new(big.Int), new(big.Int), new(big.Int)
	for _, p := range smallPrimes {
		bp.SetInt64(p)
		if m.Mul(bp, bp).Cmp(r) > 0 {
			break
		}
		e := int64(0)
		for {
			quo.QuoRem(r, bp, rem)
			if rem.Sign() != 0 {
				break
			}
			r.Set(quo)
			e++
		}
		if e > 0 {
			s.Mul(s, new(big.Int).Exp(bp, big.NewInt(e/q), nil))
			rest.Mul(rest, new(big.Int).Exp(bp, big.NewInt(e%q), nil))
		}
	}
	if root, ok := intRoot(r, q); ok {
		s.Mul(s, root)
		r.SetInt64(1)
	}
	return s, r.Mul(r, rest)
}

// intRoot returns the exact q-th root of n ≥ 0 when there is one.
func intRoot(n *big.Int, q int64) (*big.Int, bool) {
	if n.Sign() == 0 || n.Cmp(big.NewInt(1)) == 0 {
		return new(big.Int).Set(n), true
	}
	if q == 2 {
		r := new(big.Int).Sqrt(n)
		return r, new(big.Int).Mul(r, r).Cmp(n) == 0
	}
	lo, hi := big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), uint(n.BitLen()/int(q)+1))
	mid, pw, bq := new(big.Int), new(big.Int), big.NewInt(q)
	for lo.Cmp(hi) <= 0 {
		mid.Add(lo, hi).Rsh(mid, 1)
		switch pw.Exp(mid, bq, nil).Cmp(n) {
		case 0:
			return new(big.Int).Set(mid), true
		case -1:
			lo.Add(mid, big.NewInt(1))
		default:
			hi.Sub(mid, big.NewInt(1))
		}
	}
	return nil, false
}

func powConst(c *Const, exp Expr) (Expr, bool) {
	switch c.k {
	case ConstE:
		return ExpOf(exp), true
	case ConstI:
		n, ok := exp.(*Num)
		if !ok || !n.v.IsInteger() {
			return nil, false
		}
		b, _ := n.v.BigInt()
		switch new(big.Int).Mod(b, big.NewInt(4)).Int64() {
		case 0:
			return one, true
		case 1:
			return I, true
		case 2:
			return negOne, true
		}
		return newMul([]Expr{negOne, I}), true
	case ConstInfinity:
		if n, ok := exp.(*Num); ok {
			if n.v.Sign() > 0 {
				return Infinity, true
			}
			return zero, true
		}
	case ConstNegInfinity:
		if n, ok := exp.(*Num); ok && n.v.IsInteger() {
			b, _ := n.v.BigInt()
			switch {
			case n.v.Sign() < 0:
				return zero, true
			case b.Bit(0) == 0:
				return Infinity, true
			}
			return NegInfinity, true
		}
	}
	return nil, false
}

func powMul(m *Mul, exp Expr) (Expr, bool) {
	if !commutes(m) {
		return nil, false
	}
	if isInteger(exp) {
		out := make([]Expr, len(m.factors))
		for i, f := range m.factors {
			out[i] = PowOf(f, exp)
		}
		return MulOf(out...), true
	}
	c, rest := splitCoeff(m)
	if _, ok := exp.(*Num); ok && c.Sign() > 0 && !c.IsOne() {
		return MulOf(PowOf(NumOf(c), exp), PowOf(rest, exp)), true
	}
	return nil, false
}

// ------------------------------------------------------------
// Simplify
// ------------------------------------------------------------

// Simplify rebuilds e bottom-up through the canonicalizing constructors.
// It never fails: undefined forms become Undef. Results are memoized in the
// in-memory LRU and, when one is attached, the persistent cache.
func Simplify(e Expr) Expr {
	switch e.(type) {
	case *Num, *Sym, *Const, *Bool, *Undefined:
		return e
	}
	if c := activeCache(); c != nil {
		return c.do(e, simplifyMiss)
	}
	return simplifyMiss(e)
}

func simplifyMiss(e Expr) Expr {
	p := persistent.Load()
	if p == nil {
		return rebuild(e)
	}
	ctx := context.Background()
	if out, ok := p.Lookup(ctx, e); ok {
		return out
	}
	out := rebuild(e)
	if err := p.Save(ctx, e, out); err != nil {
		logger().Warn("persistent cache write failed", "err", err)
	}
	return out
}

func rebuild(e Expr) Expr {
	switch e.(type) {
	case *Num, *Sym, *Const, *Bool, *Undefined:
		return e
	}
	return Map(e, rebuild)
}

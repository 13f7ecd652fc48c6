package gocas

import (
	"sort"
	"strings"
)

// ============================================================
// Canonical ordering
// ============================================================

// class groups the variants for the top-level comparison: numbers, then
// constants, then algebraic terms, then everything else by discriminant.
func class(e Expr) int {
	switch e.Kind() {
	case KindNum:
		return 0
	case KindConst:
		return 1
	case KindSym, KindPow, KindMul, KindFunc, KindAdd:
		return 2
	}
	return 3 + int(e.Kind())
}

// Compare is the canonical total order on expressions. It returns 0 exactly
// when a.Equal(b).
//
// Algebraic terms (symbols, powers, products, functions and sums) compare
// as monomials: first by total degree, then by the exponent each base
// carries with bases walked in ascending order, then by any
// non-commutative factors in order, and finally by numeric coefficient.
// Sorting ascending therefore puts 1 < x < x^2 and x^2 > x*y > y^2.
func Compare(a, b Expr) int {
	if a == b {
		return 0
	}
	ca, cb := class(a), class(b)
	if ca != cb {
		return cmpInt(ca, cb)
	}
	switch x := a.(type) {
	case *Num:
		return x.v.Cmp(b.(*Num).v)
	case *Const:
		return cmpInt(int(x.k), int(b.(*Const).k))
	case *Complex:
		y := b.(*Complex)
		if c := Compare(x.re, y.re); c != 0 {
			return c
		}
		return Compare(x.im, y.im)
	case *Matrix:
		y := b.(*Matrix)
		if c := cmpInt(x.rows, y.rows); c != 0 {
			return c
		}
		if c := cmpInt(x.cols, y.cols); c != 0 {
			return c
		}
		for i := 0; i < x.rows; i++ {
			for j := 0; j < x.cols; j++ {
				if c := Compare(x.At(i, j), y.At(i, j)); c != 0 {
					return c
				}
			}
		}
		return 0
	case *Set:
		return compareLists(x.elems, b.(*Set).elems)
	case *Interval:
		y := b.(*Interval)
		if c := Compare(x.lo, y.lo); c != 0 {
			return c
		}
		if c := Compare(x.hi, y.hi); c != 0 {
			return c
		}
		return cmpInt(int(boolBits(x.loClosed, x.hiClosed)), int(boolBits(y.loClosed, y.hiClosed)))
	case *Piecewise:
		y := b.(*Piecewise)
		if c := cmpInt(len(x.pieces), len(y.pieces)); c != 0 {
			return c
		}
		for i := range x.pieces {
			if c := Compare(x.pieces[i].Cond, y.pieces[i].Cond); c != 0 {
				return c
			}
			if c := Compare(x.pieces[i].Value, y.pieces[i].Value); c != 0 {
				return c
			}
		}
		return Compare(x.otherwise, y.otherwise)
	case *Relation:
		y := b.(*Relation)
		if c := cmpInt(int(x.op), int(y.op)); c != 0 {
			return c
		}
		if c := Compare(x.lhs, y.lhs); c != 0 {
			return c
		}
		return Compare(x.rhs, y.rhs)
	case *Calculus:
		y := b.(*Calculus)
		if c := cmpInt(int(x.op), int(y.op)); c != 0 {
			return c
		}
		if c := Compare(x.v, y.v); c != 0 {
			return c
		}
		if c := cmpInt(x.order, y.order); c != 0 {
			return c
		}
		if c := Compare(x.body, y.body); c != 0 {
			return c
		}
		return compareLists(x.bounds, y.bounds)
	case *Bool:
		y := b.(*Bool)
		switch {
		case x.v == y.v:
			return 0
		case y.v:
			return -1
		}
		return 1
	case *Undefined:
		return 0
	}
	return compareTerms(a, b)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareLists(a, b []Expr) int {
	if c := cmpInt(len(a), len(b)); c != 0 {
		return c
	}
	for i := range a {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func sortExprs(es []Expr) {
	sort.SliceStable(es, func(i, j int) bool { return Compare(es[i], es[j]) < 0 })
}

// ------------------------------------------------------------
// Monomial view of algebraic terms
// ------------------------------------------------------------

type powPair struct{ base, exp Expr }

type monomial struct {
	coef Number
	comm []powPair
	nc   []Expr
	deg  Number
}

func monomialOf(e Expr) monomial {
	m := monomial{coef: IntNumber(1), deg: IntNumber(0)}
	factors := []Expr{e}
	if mul, ok := e.(*Mul); ok {
		factors = mul.factors
	}
	for _, f := range factors {
		if n, ok := f.(*Num); ok {
			m.coef = m.coef.Mul(n.v)
			continue
		}
		if !commutes(f) {
			m.nc = append(m.nc, f)
			if p, ok := f.(*Pow); ok {
				m.deg = m.deg.Add(expDegree(p.exp))
			} else {
				m.deg = m.deg.Add(IntNumber(1))
			}
			continue
		}
		b, x := asPow(f)
		m.comm = append(m.comm, powPair{b, x})
		if _, isConst := b.(*Const); !isConst {
			m.deg = m.deg.Add(expDegree(x))
		}
	}
	sort.SliceStable(m.comm, func(i, j int) bool { return compareBase(m.comm[i].base, m.comm[j].base) < 0 })
	return m
}

func expDegree(x Expr) Number {
	if n, ok := x.(*Num); ok && !n.v.IsNaN() {
		return n.v
	}
	return IntNumber(0)
}

// expSign is the sign an exponent contributes relative to an absent base.
func expSign(x Expr) int {
	if n, ok := x.(*Num); ok {
		return n.v.Sign()
	}
	return 1
}

func compareTerms(a, b Expr) int {
	ma, mb := monomialOf(a), monomialOf(b)
	if c := ma.deg.Cmp(mb.deg); c != 0 {
		return c
	}
	i, j := 0, 0
	for i < len(ma.comm) && j < len(mb.comm) {
		pa, pb := ma.comm[i], mb.comm[j]
		switch c := compareBase(pa.base, pb.base); {
		case c < 0:
			return expSign(pa.exp)
		case c > 0:
			return -expSign(pb.exp)
		}
		if c := Compare(pa.exp, pb.exp); c != 0 {
			return c
		}
		i++
		j++
	}
	if i < len(ma.comm) {
		return expSign(ma.comm[i].exp)
	}
	if j < len(mb.comm) {
		return -expSign(mb.comm[j].exp)
	}
	if c := compareFactors(ma.nc, mb.nc); c != 0 {
		return c
	}
	return ma.coef.Cmp(mb.coef)
}

// compareFactors orders non-commutative factor lists position by position.
// Each factor is split into base and exponent so a lone symbol is decided
// by compareBase and never re-enters compareTerms.
func compareFactors(a, b []Expr) int {
	if c := cmpInt(len(a), len(b)); c != 0 {
		return c
	}
	for i := range a {
		ba, xa := asPow(a[i])
		bb, xb := asPow(b[i])
		if c := compareBase(ba, bb); c != 0 {
			return c
		}
		if c := Compare(xa, xb); c != 0 {
			return c
		}
	}
	return 0
}

// baseRank orders bases for the monomial walk; constants go last so they
// never decide between polynomial terms.
func baseRank(e Expr) int {
	switch e.Kind() {
	case KindSym:
		return 0
	case KindFunc:
		return 1
	case KindAdd:
		return 2
	case KindPow, KindMul:
		return 3
	case KindConst:
		return 5
	}
	return 4
}

func compareBase(a, b Expr) int {
	ra, rb := baseRank(a), baseRank(b)
	if ra != rb {
		return cmpInt(ra, rb)
	}
	switch x := a.(type) {
	case *Sym:
		y := b.(*Sym)
		if c := strings.Compare(x.s.Name, y.s.Name); c != 0 {
			return c
		}
		return cmpInt(int(x.s.Type), int(y.s.Type))
	case *Func:
		y := b.(*Func)
		if c := strings.Compare(x.name, y.name); c != 0 {
			return c
		}
		return compareLists(x.args, y.args)
	case *Add:
		y := b.(*Add)
		if c := addDegree(x).Cmp(addDegree(y)); c != 0 {
			return c
		}
		n := min(len(x.terms), len(y.terms))
		for k := 1; k <= n; k++ {
			if c := Compare(x.terms[len(x.terms)-k], y.terms[len(y.terms)-k]); c != 0 {
				return c
			}
		}
		return cmpInt(len(x.terms), len(y.terms))
	case *Pow:
		y, ok := b.(*Pow)
		if !ok {
			return cmpInt(int(a.Kind()), int(b.Kind()))
		}
		if c := Compare(x.base, y.base); c != 0 {
			return c
		}
		return Compare(x.exp, y.exp)
	case *Mul:
		y, ok := b.(*Mul)
		if !ok {
			return cmpInt(int(a.Kind()), int(b.Kind()))
		}
		return compareLists(x.factors, y.factors)
	}
	return Compare(a, b)
}

// addDegree is the largest term degree of a sum.
func addDegree(a *Add) Number {
	d := IntNumber(0)
	for _, t := range a.terms {
		if td := monomialOf(t).deg; td.Cmp(d) > 0 {
			d = td
		}
	}
	return d
}

// asPow splits e into base and exponent, with exponent 1 for non-powers.
func asPow(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, one
}

// commutes reports whether e commutes with everything under
// multiplication: no non-scalar symbols and no matrix literals.
func commutes(e Expr) bool {
	switch x := e.(type) {
	case *Num, *Const, *Bool, *Undefined:
		return true
	case *Sym:
		return x.s.Commutative()
	case *Matrix:
		return false
	case *Add:
		return allCommute(x.terms)
	case *Mul:
		return allCommute(x.factors)
	case *Pow:
		return commutes(x.base) && commutes(x.exp)
	case *Func:
		return allCommute(x.args)
	case *Complex:
		return commutes(x.re) && commutes(x.im)
	case *Calculus:
		return commutes(x.body)
	}
	return true
}

func allCommute(es []Expr) bool {
	for _, e := range es {
		if !commutes(e) {
			return false
		}
	}
	return true
}

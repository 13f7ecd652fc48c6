package poly

import (
	"math/big"
	"sort"
)

// mterm is a term of a pmpoly.
type mterm struct {
	e Monomial
	c uint64
}

// pmpoly is a sparse multivariate polynomial over Z/pZ in lex order.
type pmpoly struct {
	n int
	p uint64
	t []mterm
}

func newPM(n int, p uint64, terms []mterm) pmpoly {
	acc := make(map[string]int, len(terms))
	out := make([]mterm, 0, len(terms))
	for _, t := range terms {
		c := t.c % p
		if c == 0 {
			continue
		}
		k := t.e.key()
		if i, ok := acc[k]; ok {
			out[i].c = addMod(out[i].c, c, p)
			continue
		}
		acc[k] = len(out)
		out = append(out, mterm{e: t.e, c: c})
	}
	nz := out[:0]
	for _, t := range out {
		if t.c != 0 {
			nz = append(nz, t)
		}
	}
	sort.Slice(nz, func(i, j int) bool { return lexCompare(nz[i].e, nz[j].e) > 0 })
	return pmpoly{n: n, p: p, t: nz}
}

// reduceMPoly maps an integral MPoly to Z/pZ.
func reduceMPoly(f *MPoly, p uint64) pmpoly {
	terms := make([]mterm, 0, len(f.terms))
	for _, t := range f.terms {
		terms = append(terms, mterm{e: t.Exp, c: modBig(t.Coef.Num(), p)})
	}
	return newPM(f.nvars, p, terms)
}

func (a pmpoly) isZero() bool { return len(a.t) == 0 }

func (a pmpoly) lm() Monomial {
	if a.isZero() {
		return One(a.n)
	}
	return a.t[0].e
}

func (a pmpoly) lc() uint64 {
	if a.isZero() {
		return 0
	}
	return a.t[0].c
}

func (a pmpoly) isConstant() bool {
	return len(a.t) == 0 || (len(a.t) == 1 && a.t[0].e.Degree() == 0)
}

func (a pmpoly) scale(k uint64) pmpoly {
	out := make([]mterm, 0, len(a.t))
	for _, t := range a.t {
		if c := mulMod(t.c, k, a.p); c != 0 {
			out = append(out, mterm{e: t.e, c: c})
		}
	}
	return pmpoly{n: a.n, p: a.p, t: out}
}

func (a pmpoly) monic() pmpoly {
	if a.isZero() {
		return a
	}
	return a.scale(invMod(a.lc(), a.p))
}

func (a pmpoly) add(b pmpoly) pmpoly {
	return newPM(a.n, a.p, append(append([]mterm(nil), a.t...), b.t...))
}

func (a pmpoly) sub(b pmpoly) pmpoly {
	return a.add(b.scale(a.p - 1))
}

func (a pmpoly) mulTerm(m Monomial, c uint64) pmpoly {
	out := make([]mterm, 0, len(a.t))
	for _, t := range a.t {
		out = append(out, mterm{e: t.e.Mul(m), c: mulMod(t.c, c, a.p)})
	}
	return newPM(a.n, a.p, out)
}

func (a pmpoly) mul(b pmpoly) pmpoly {
	out := make([]mterm, 0, len(a.t)*len(b.t))
	for _, x := range a.t {
		for _, y := range b.t {
			out = append(out, mterm{e: x.e.Mul(y.e), c: mulMod(x.c, y.c, a.p)})
		}
	}
	return newPM(a.n, a.p, out)
}

// divExact divides a by b in lex order; ok is false on a non-zero remainder.
func (a pmpoly) divExact(b pmpoly) (pmpoly, bool) {
	if b.isZero() {
		return pmpoly{}, false
	}
	inv := invMod(b.lc(), a.p)
	blm := b.lm()
	rem := a
	var q []mterm
	for !rem.isZero() {
		lt := rem.t[0]
		if !blm.Divides(lt.e) {
			return pmpoly{}, false
		}
		m := lt.e.Div(blm)
		c := mulMod(lt.c, inv, a.p)
		q = append(q, mterm{e: m, c: c})
		rem = rem.sub(b.mulTerm(m, c))
	}
	return newPM(a.n, a.p, q), true
}

// evalVar substitutes variable k by v.
func (a pmpoly) evalVar(k int, v uint64) pmpoly {
	out := make([]mterm, 0, len(a.t))
	for _, t := range a.t {
		m := t.e.clone()
		e := m[k]
		m[k] = 0
		out = append(out, mterm{e: m, c: mulMod(t.c, powMod(v, uint64(e), a.p), a.p)})
	}
	return newPM(a.n, a.p, out)
}

func (a pmpoly) degVar(k int) int {
	d := -1
	for _, t := range a.t {
		d = max(d, t.e[k])
	}
	return d
}

// group is a coefficient of a pmpoly viewed as a polynomial in the
// variables before k, with coefficients in Z/pZ[x_k].
type group struct {
	e Monomial
	c ModPoly
}

func (a pmpoly) groups(k int) []group {
	idx := make(map[string]int)
	var out []group
	for _, t := range a.t {
		m := t.e.clone()
		d := m[k]
		m[k] = 0
		key := m.key()
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, group{e: m, c: ModPoly{p: a.p}})
		}
		coeffs := make([]uint64, d+1)
		coeffs[d] = t.c
		out[i].c = out[i].c.Add(ModPoly{p: a.p, c: coeffs})
	}
	sort.Slice(out, func(i, j int) bool { return lexCompare(out[i].e, out[j].e) > 0 })
	return out
}

func fromGroups(n int, p uint64, k int, gs []group) pmpoly {
	var terms []mterm
	for _, g := range gs {
		for d, c := range g.c.c {
			if c == 0 {
				continue
			}
			m := g.e.clone()
			m[k] = d
			terms = append(terms, mterm{e: m, c: c})
		}
	}
	return newPM(n, p, terms)
}

// toModPoly views a polynomial in variable k alone as a ModPoly.
func (a pmpoly) toModPoly(k int) ModPoly {
	out := ModPoly{p: a.p}
	for _, t := range a.t {
		coeffs := make([]uint64, t.e[k]+1)
		coeffs[t.e[k]] = t.c
		out = out.Add(ModPoly{p: a.p, c: coeffs})
	}
	return out
}

func fromModPoly(n int, k int, f ModPoly) pmpoly {
	terms := make([]mterm, 0, len(f.c))
	for d, c := range f.c {
		m := One(n)
		m[k] = d
		terms = append(terms, mterm{e: m, c: c})
	}
	return newPM(n, f.p, terms)
}

// toMPoly lifts coefficients in [0, p) to integers.
func (a pmpoly) toMPoly() *MPoly {
	terms := make([]Term, 0, len(a.t))
	for _, t := range a.t {
		terms = append(terms, Term{Exp: t.e, Coef: new(big.Rat).SetInt(new(big.Int).SetUint64(t.c))})
	}
	return NewMPoly(a.n, Lex, terms...)
}

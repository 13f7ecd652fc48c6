package gocas

import (
	"sort"
)

// ============================================================
// Expansion and coefficient extraction
// ============================================================

// maxExpandPow bounds the positive integer powers of sums that Expand
// multiplies out.
const maxExpandPow = 64

// Expand distributes products over sums and multiplies out positive
// integer powers of sums, everywhere in e. Factor order is kept, so
// products of non-commutative sums expand correctly.
func Expand(e Expr) Expr {
	switch e.(type) {
	case *Num, *Sym, *Const, *Bool, *Undefined:
		return e
	}
	x := Map(e, Expand)
	switch y := x.(type) {
	case *Mul:
		return expandProduct(y.factors)
	case *Pow:
		if a, ok := y.base.(*Add); ok {
			if k, ok := smallInt(y.exp); ok && k > 1 && k <= maxExpandPow {
				fs := make([]Expr, k)
				for i := range fs {
					fs[i] = a
				}
				return expandProduct(fs)
			}
		}
	}
	return x
}

func expandProduct(fs []Expr) Expr {
	terms := []Expr{one}
	for _, f := range fs {
		var next []Expr
		if a, ok := f.(*Add); ok {
			next = make([]Expr, 0, len(terms)*len(a.terms))
			for _, t := range terms {
				for _, s := range a.terms {
					next = append(next, MulOf(t, s))
				}
			}
		} else {
			next = make([]Expr, len(terms))
			for i, t := range terms {
				next[i] = MulOf(t, f)
			}
		}
		terms = next
	}
	out := AddOf(terms...)
	// a product term may itself be a power of a sum again, e.g. from
	// (x+1)·(x+1) inside a larger product
	if a, ok := out.(*Add); ok {
		for _, t := range a.terms {
			if needsExpand(t) {
				return Expand(out)
			}
		}
	}
	return out
}

func needsExpand(e Expr) bool {
	switch x := e.(type) {
	case *Mul:
		for _, f := range x.factors {
			if _, ok := f.(*Add); ok {
				return true
			}
			if needsExpand(f) {
				return true
			}
		}
	case *Pow:
		if _, ok := x.base.(*Add); ok {
			k, ok := smallInt(x.exp)
			return ok && k > 1 && k <= maxExpandPow
		}
	}
	return false
}

// PolyCoeffsResult maps a degree to its coefficient.
type PolyCoeffsResult map[int]Expr

// Degrees returns the degrees present, highest first.
func (r PolyCoeffsResult) Degrees() []int {
	ds := make([]int, 0, len(r))
	for d := range r {
		ds = append(ds, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ds)))
	return ds
}

// PolyCoeffs expands e and returns its coefficients as a polynomial in v.
// Coefficients may involve other symbols but not v. Zero coefficients are
// omitted.
func PolyCoeffs(e Expr, v *Sym) (PolyCoeffsResult, error) {
	terms := []Expr{Expand(e)}
	if a, ok := terms[0].(*Add); ok {
		terms = a.terms
	}
	parts := map[int][]Expr{}
	for _, t := range terms {
		k, c, err := splitPower(t, v)
		if err != nil {
			return nil, err
		}
		parts[k] = append(parts[k], c)
	}
	out := PolyCoeffsResult{}
	for k, cs := range parts {
		if c := AddOf(cs...); !isZero(c) {
			out[k] = c
		}
	}
	return out, nil
}

// splitPower writes a product term as c·v^k with c free of v.
func splitPower(t Expr, v *Sym) (int, Expr, error) {
	if freeOf(t, v) {
		return 0, t, nil
	}
	factors := []Expr{t}
	if m, ok := t.(*Mul); ok {
		factors = m.factors
	}
	k := 0
	rest := make([]Expr, 0, len(factors))
	for _, f := range factors {
		switch {
		case freeOf(f, v):
			rest = append(rest, f)
		case f.Equal(v):
			k++
		default:
			notPoly := notAPolynomial("poly_coeffs", t, "term is not a power of "+v.s.Name)
			p, ok := f.(*Pow)
			if !ok || !p.base.Equal(v) {
				return 0, nil, notPoly
			}
			n, ok := smallInt(p.exp)
			if !ok || n < 0 {
				return 0, nil, notPoly
			}
			k += n
		}
	}
	return k, MulOf(rest...), nil
}

// Degree returns the degree of e in v, or NotAPolynomial. The zero
// polynomial has degree -1.
func Degree(e Expr, v *Sym) (int, error) {
	cs, err := PolyCoeffs(e, v)
	if err != nil {
		return 0, err
	}
	d := -1
	for k := range cs {
		d = max(d, k)
	}
	return d, nil
}

// Collect groups the expanded terms of e by powers of v. Terms that are not
// polynomial in v are kept as they are.
func Collect(e Expr, v *Sym) Expr {
	terms := []Expr{Expand(e)}
	if a, ok := terms[0].(*Add); ok {
		terms = a.terms
	}
	parts := map[int][]Expr{}
	var other []Expr
	for _, t := range terms {
		k, c, err := splitPower(t, v)
		if err != nil {
			other = append(other, t)
			continue
		}
		parts[k] = append(parts[k], c)
	}
	out := other
	for k, cs := range parts {
		out = append(out, MulOf(AddOf(cs...), PowOf(v, N(int64(k)))))
	}
	return AddOf(out...)
}

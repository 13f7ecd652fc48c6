package gocas

import "sort"

// ============================================================
// Traversal
// ============================================================

// Children returns the direct sub-expressions of e in stored order.
func Children(e Expr) []Expr {
	switch x := e.(type) {
	case *Add:
		return x.Terms()
	case *Mul:
		return x.Factors()
	case *Pow:
		return []Expr{x.base, x.exp}
	case *Func:
		return x.Args()
	case *Complex:
		return []Expr{x.re, x.im}
	case *Matrix:
		out := make([]Expr, 0, x.rows*x.cols)
		for i := 0; i < x.rows; i++ {
			for j := 0; j < x.cols; j++ {
				out = append(out, x.At(i, j))
			}
		}
		return out
	case *Set:
		return x.Elements()
	case *Interval:
		return []Expr{x.lo, x.hi}
	case *Piecewise:
		out := make([]Expr, 0, 2*len(x.pieces)+1)
		for _, p := range x.pieces {
			out = append(out, p.Cond, p.Value)
		}
		return append(out, x.otherwise)
	case *Relation:
		return []Expr{x.lhs, x.rhs}
	case *Calculus:
		return append([]Expr{x.body}, x.bounds...)
	}
	return nil
}

// Map rebuilds e with f applied to each direct child. The node is rebuilt
// through its public constructor, so the result is canonical again.
func Map(e Expr, f func(Expr) Expr) Expr {
	switch x := e.(type) {
	case *Add:
		return AddOf(mapAll(x.terms, f)...)
	case *Mul:
		return MulOf(mapAll(x.factors, f)...)
	case *Pow:
		return PowOf(f(x.base), f(x.exp))
	case *Func:
		return FuncOf(x.name, mapAll(x.args, f)...)
	case *Complex:
		return ComplexOf(f(x.re), f(x.im))
	case *Matrix:
		return x.Map(f)
	case *Set:
		return SetOf(mapAll(x.elems, f)...)
	case *Interval:
		return IntervalOf(f(x.lo), f(x.hi), x.loClosed, x.hiClosed)
	case *Piecewise:
		pieces := make([]Piece, len(x.pieces))
		for i, p := range x.pieces {
			pieces[i] = Piece{Cond: f(p.Cond), Value: f(p.Value)}
		}
		return PiecewiseOf(pieces, f(x.otherwise))
	case *Relation:
		return RelationOf(f(x.lhs), f(x.rhs), x.op)
	case *Calculus:
		return rebuildCalculus(x, f(x.body), mapAll(x.bounds, f))
	}
	return e
}

func mapAll(es []Expr, f func(Expr) Expr) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = f(e)
	}
	return out
}

func rebuildCalculus(c *Calculus, body Expr, bounds []Expr) Expr {
	switch c.op {
	case CalcDerivative:
		return DerivativeOf(body, c.v, c.order)
	case CalcIntegral:
		return IntegralOf(body, c.v)
	case CalcDefiniteIntegral:
		return DefiniteIntegralOf(body, c.v, bounds[0], bounds[1])
	case CalcLimit:
		return LimitOf(body, c.v, bounds[0])
	case CalcSum:
		return SumOf(body, c.v, bounds[0], bounds[1])
	}
	return ProductOf(body, c.v, bounds[0], bounds[1])
}

// Walk visits e and its descendants in pre-order. Returning false from
// visit skips the node's children.
func Walk(e Expr, visit func(Expr) bool) {
	if !visit(e) {
		return
	}
	for _, c := range Children(e) {
		Walk(c, visit)
	}
}

// Contains reports whether sub occurs anywhere in e.
func Contains(e, sub Expr) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if found {
			return false
		}
		if n.Equal(sub) {
			found = true
			return false
		}
		return true
	})
	return found
}

// freeOf reports that e does not depend on v.
func freeOf(e Expr, v *Sym) bool {
	switch x := e.(type) {
	case *Num, *Const, *Bool, *Undefined:
		return true
	case *Sym:
		return !x.Equal(v)
	case *Calculus:
		if x.closed() && x.v.Equal(v) {
			for _, b := range x.bounds {
				if !freeOf(b, v) {
					return false
				}
			}
			return true
		}
	}
	for _, c := range Children(e) {
		if !freeOf(c, v) {
			return false
		}
	}
	return true
}

// FreeOf reports whether e is independent of v.
func FreeOf(e Expr, v *Sym) bool { return freeOf(e, v) }

// FreeSymbols returns the free symbols of e, sorted by name. The variable
// of a calculus node is bound inside that node.
func FreeSymbols(e Expr) []*Sym {
	seen := map[Symbol]*Sym{}
	var collect func(Expr, map[Symbol]bool)
	collect = func(n Expr, bound map[Symbol]bool) {
		switch x := n.(type) {
		case *Sym:
			if !bound[x.s] {
				seen[x.s] = x
			}
			return
		case *Calculus:
			for _, b := range x.bounds {
				collect(b, bound)
			}
			inner := map[Symbol]bool{x.v.s: true}
			for k := range bound {
				inner[k] = true
			}
			collect(x.body, inner)
			return
		}
		for _, c := range Children(n) {
			collect(c, bound)
		}
	}
	collect(e, nil)
	syms := make([]*Sym, 0, len(seen))
	for _, s := range seen {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return compareBase(syms[i], syms[j]) < 0 })
	return syms
}

// freshSym returns a scalar symbol named base, base1, base2, ... that
// occurs in none of es.
func freshSym(base string, es ...Expr) *Sym {
	used := map[string]bool{}
	for _, e := range es {
		Walk(e, func(n Expr) bool {
			if s, ok := n.(*Sym); ok {
				used[s.s.Name] = true
			}
			return true
		})
	}
	name := base
	for i := 1; used[name]; i++ {
		name = base + itoa(i)
	}
	return S(name)
}

// Size counts the nodes of e.
func Size(e Expr) int {
	n := 0
	Walk(e, func(Expr) bool { n++; return true })
	return n
}

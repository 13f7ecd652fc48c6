package gocas

// ============================================================
// Trigonometric and deep simplification
// ============================================================

// pythagorean lists the square identities TrigSimplify tries, as
// f² = c + s·g².
var pythagorean = []struct {
	f, g string
	c, s int64
}{
	{"sin", "cos", 1, -1},
	{"cos", "sin", 1, -1},
	{"tan", "sec", -1, 1},
	{"sec", "tan", 1, 1},
	{"cot", "csc", -1, 1},
	{"csc", "cot", 1, 1},
	{"cosh", "sinh", 1, 1},
	{"sinh", "cosh", -1, 1},
}

// TrigSimplify applies sin² + cos² = 1 and its relatives (1 + tan² = sec²,
// 1 + cot² = csc², cosh² - sinh² = 1) wherever that shrinks the
// expression. Each identity is tried by rewriting every square of one
// function in terms of the other, expanding, and keeping the smallest
// result.
func TrigSimplify(e Expr) Expr {
	e = Simplify(e)
	switch e.(type) {
	case *Num, *Sym, *Const, *Bool, *Undefined:
		return e
	}
	e = Simplify(Map(e, TrigSimplify))
	if _, ok := e.(*Add); !ok {
		return e
	}
	best, size := e, Size(e)
	for _, id := range pythagorean {
		for _, u := range squaredArgs(e, id.f) {
			r := Simplify(Expand(rewriteSquares(e, id.f, u, AddOf(N(id.c), MulOf(N(id.s), PowOf(FuncOf(id.g, u), two))))))
			if n := Size(r); n < size {
				best, size = r, n
			}
		}
	}
	if best != e {
		explain("trig_simplify", "pythagorean", e, nil, best)
	}
	return best
}

// squaredArgs returns the arguments u for which f(u)^k, k ≥ 2, occurs in e.
func squaredArgs(e Expr, f string) []Expr {
	var out []Expr
	Walk(e, func(n Expr) bool {
		p, ok := n.(*Pow)
		if !ok {
			return true
		}
		if k, ok := smallInt(p.exp); !ok || k < 2 {
			return true
		}
		if g, ok := isFunc(p.base, f); ok && !containsExpr(out, g.args[0]) {
			out = append(out, g.args[0])
		}
		return true
	})
	return out
}

// rewriteSquares replaces f(u)^k, k ≥ 2, with f(u)^(k mod 2)·sq^(k div 2).
func rewriteSquares(e Expr, f string, u, sq Expr) Expr {
	if p, ok := e.(*Pow); ok {
		if g, ok := isFunc(p.base, f); ok && g.args[0].Equal(u) {
			if k, ok := smallInt(p.exp); ok && k >= 2 {
				return MulOf(PowOf(p.base, N(int64(k%2))), PowOf(sq, N(int64(k/2))))
			}
		}
	}
	switch e.(type) {
	case *Num, *Sym, *Const, *Bool, *Undefined:
		return e
	}
	return Map(e, func(c Expr) Expr { return rewriteSquares(c, f, u, sq) })
}

// maxDeepPasses bounds the DeepSimplify fixpoint iteration.
const maxDeepPasses = 10

// DeepSimplify alternates simplification, trigonometric identities and
// cancellation of common polynomial factors until the expression stops
// changing.
func DeepSimplify(e Expr) Expr {
	curr := Simplify(e)
	for i := 0; i < maxDeepPasses; i++ {
		next := TrigSimplify(curr)
		if c := Cancel(next); Size(c) < Size(next) {
			next = c
		}
		if next.Equal(curr) {
			break
		}
		curr = next
	}
	return curr
}

package gocas

import (
	"fmt"
	"math"
	"strconv"
)

// ============================================================
// Substitution and numeric evaluation
// ============================================================

// Substitute replaces free occurrences of the mapped symbols. The variable
// of a calculus node (derivative, integral, limit, sum or product) is bound
// in that node's body and left alone there; bounds and limit points are
// substituted. The result is canonical.
func Substitute(e Expr, subs map[Symbol]Expr) Expr {
	if len(subs) == 0 {
		return e
	}
	return substitute(e, subs)
}

// Subs replaces a single symbol.
func Subs(e Expr, v *Sym, val Expr) Expr {
	return Substitute(e, map[Symbol]Expr{v.s: val})
}

func substitute(e Expr, subs map[Symbol]Expr) Expr {
	switch x := e.(type) {
	case *Sym:
		if r, ok := subs[x.s]; ok {
			return r
		}
		return e
	case *Num, *Const, *Bool, *Undefined:
		return e
	case *Calculus:
		bounds := mapAll(x.bounds, func(b Expr) Expr { return substitute(b, subs) })
		inner := subs
		if _, shadowed := subs[x.v.s]; shadowed {
			inner = make(map[Symbol]Expr, len(subs))
			for k, v := range subs {
				if k != x.v.s {
					inner[k] = v
				}
			}
		}
		var body Expr
		if len(inner) == 0 {
			body = x.body
		} else {
			body = substitute(x.body, inner)
		}
		return rebuildCalculus(x, body, bounds)
	}
	return Map(e, func(c Expr) Expr { return substitute(c, subs) })
}

// EvalContext configures Evaluate.
type EvalContext struct {
	// Subs is applied before numeric evaluation.
	Subs map[Symbol]Expr
	// Precision rounds float results to this many significant digits when
	// positive.
	Precision int
	// Numeric selects numeric mode. Without it Evaluate returns e as is.
	Numeric bool
	// Simplify runs Simplify on the numeric result.
	Simplify bool
}

// Evaluate returns e unchanged in symbolic mode. In numeric mode it
// substitutes ctx.Subs, folds pi, e and the other real constants to floats
// and evaluates every child numerically. I stays symbolic, so complex values
// come out as a + b*I. Use Substitute for symbolic substitution.
func Evaluate(e Expr, ctx EvalContext) Expr {
	if !ctx.Numeric {
		return e
	}
	out := numeric(Substitute(e, ctx.Subs), ctx.Precision)
	if ctx.Simplify {
		out = Simplify(out)
	}
	return out
}

// Numeric evaluates e to floats with no substitutions.
func Numeric(e Expr) Expr { return Evaluate(e, EvalContext{Numeric: true}) }

func numeric(e Expr, prec int) Expr {
	switch x := e.(type) {
	case *Num:
		return roundFloat(x.v.Float64(), prec)
	case *Const:
		if x.k == ConstI || isInfinite(x) {
			return e
		}
		return roundFloat(x.Float64(), prec)
	case *Sym, *Bool, *Undefined:
		return e
	case *Calculus:
		return e
	case *Pow:
		if isInteger(x.exp) {
			return PowOf(numeric(x.base, prec), x.exp)
		}
	}
	out := Map(e, func(c Expr) Expr { return numeric(c, prec) })
	if n, ok := out.(*Num); ok && prec > 0 {
		return roundFloat(n.Float64(), prec)
	}
	return out
}

func roundFloat(f float64, prec int) Expr {
	if prec <= 0 || prec > 17 || math.IsInf(f, 0) || math.IsNaN(f) {
		return NFloat(f)
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', prec, 64), 64)
	if err != nil {
		return NFloat(f)
	}
	return NFloat(r)
}

// Float64 evaluates a closed real expression. Unbound symbols and unknown
// functions are InvalidArgument; leaving a function's real domain, or a
// complex intermediate, is DomainError.
func Float64(e Expr) (float64, error) {
	switch x := e.(type) {
	case *Num:
		return x.v.Float64(), nil
	case *Const:
		if x.k == ConstI {
			return 0, domainError("float64", x, "value is complex")
		}
		return x.Float64(), nil
	case *Sym:
		return 0, newError(InvalidArgument, "float64", "unbound symbol").WithValue(x.s.Name)
	case *Add:
		s := 0.0
		for _, t := range x.terms {
			v, err := Float64(t)
			if err != nil {
				return 0, err
			}
			s += v
		}
		return s, nil
	case *Mul:
		p := 1.0
		for _, f := range x.factors {
			v, err := Float64(f)
			if err != nil {
				return 0, err
			}
			p *= v
		}
		return p, nil
	case *Pow:
		b, err := Float64(x.base)
		if err != nil {
			return 0, err
		}
		ex, err := Float64(x.exp)
		if err != nil {
			return 0, err
		}
		r := math.Pow(b, ex)
		if math.IsNaN(r) {
			return 0, domainError("float64", x, "power is not real")
		}
		return r, nil
	case *Func:
		p, ok := lookupFunction(x.name)
		if !ok || p.Numeric == nil || len(x.args) != 1 {
			return 0, newError(InvalidArgument, "float64", "no numeric evaluator").WithValue(x.name)
		}
		a, err := Float64(x.args[0])
		if err != nil {
			return 0, err
		}
		if p.Domain != nil && !p.Domain(a) {
			return 0, domainError(x.name, x, fmt.Sprintf("argument %g outside domain", a))
		}
		r := p.Numeric(a)
		if math.IsNaN(r) {
			return 0, domainError(x.name, x, "result is not a number")
		}
		return r, nil
	case *Undefined:
		return math.NaN(), domainError("float64", x, "undefined value")
	}
	return 0, newError(InvalidArgument, "float64", "not a scalar expression").WithValue(e.Kind().String())
}

func domainError(op string, e Expr, reason string) *Error {
	return newError(DomainError, op, reason).WithValue(e.String())
}

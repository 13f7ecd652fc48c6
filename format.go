package gocas

import (
	"math/big"
	"strconv"
	"strings"
)

// ============================================================
// Plain-text rendering
// ============================================================
//
// Sums print highest term first, products print constants first and then
// the remaining factors in descending order, and factors with a negative
// numeric exponent move into a denominator: "x^2 + 3*x + 1", "-x*y/2",
// "1/(x + 1)".

func (n *Num) String() string   { return n.v.String() }
func (s *Sym) String() string   { return s.s.Name }
func (c *Const) String() string { return constNames[c.k] }
func (f *Func) String() string  { return f.name + "(" + joinStrings(f.args, ", ") + ")" }

func (b *Bool) String() string {
	if b.v {
		return "true"
	}
	return "false"
}

func itoa(n int) string { return strconv.Itoa(n) }

func joinStrings(es []Expr, sep string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}

// termParts splits a product into its coefficient and remaining factors.
func termParts(e Expr) (Number, []Expr) {
	switch x := e.(type) {
	case *Num:
		return x.v, nil
	case *Mul:
		if n, ok := x.factors[0].(*Num); ok {
			return n.v, x.factors[1:]
		}
		return IntNumber(1), x.factors
	}
	return IntNumber(1), []Expr{e}
}

// displayOrder puts constants first, then the other commutative factors
// highest first, then non-commutative factors in product order.
func displayOrder(factors []Expr) []Expr {
	var consts, comm, nc []Expr
	for _, f := range factors {
		switch {
		case !commutes(f):
			nc = append(nc, f)
		case f.Kind() == KindConst:
			consts = append(consts, f)
		default:
			comm = append(comm, f)
		}
	}
	out := consts
	for i := len(comm) - 1; i >= 0; i-- {
		out = append(out, comm[i])
	}
	return append(out, nc...)
}

// reciprocal returns b^(-k) for a commutative power with negative numeric
// exponent.
func reciprocal(f Expr) (base Expr, exp *Num, ok bool) {
	p, isPow := f.(*Pow)
	if !isPow || !commutes(p) {
		return nil, nil, false
	}
	n, isNum := p.exp.(*Num)
	if !isNum || n.v.Sign() >= 0 {
		return nil, nil, false
	}
	return p.base, NumOf(n.v.Neg()), true
}

func productString(coef Number, factors []Expr) string {
	sign := ""
	if coef.Sign() < 0 {
		sign = "-"
		coef = coef.Neg()
	}
	var num, den []string
	cnum, cden := coef.String(), ""
	if p, q, ok := coef.NumDen(); ok {
		cnum = p.String()
		if q.Cmp(big.NewInt(1)) != 0 {
			cden = q.String()
		}
	}
	if cnum != "1" {
		num = append(num, cnum)
	}
	if cden != "" {
		den = append(den, cden)
	}
	for _, f := range displayOrder(factors) {
		if b, k, ok := reciprocal(f); ok {
			if k.v.IsOne() {
				den = append(den, factorString(b))
			} else {
				den = append(den, powString(b, k))
			}
			continue
		}
		num = append(num, factorString(f))
	}
	s := strings.Join(num, "*")
	if s == "" {
		s = "1"
	}
	if len(den) > 0 {
		d := strings.Join(den, "*")
		if len(den) > 1 {
			d = "(" + d + ")"
		}
		s += "/" + d
	}
	return sign + s
}

func factorString(f Expr) string {
	switch x := f.(type) {
	case *Add, *Complex, *Relation:
		return "(" + f.String() + ")"
	case *Num:
		if x.v.Sign() < 0 || x.v.Kind() == KindRational {
			return "(" + f.String() + ")"
		}
	}
	return f.String()
}

func powString(base, exp Expr) string {
	if n, ok := exp.(*Num); ok && n.v.Equal(half.v) {
		return "sqrt(" + base.String() + ")"
	}
	b := base.String()
	switch x := base.(type) {
	case *Add, *Mul, *Pow, *Complex, *Relation:
		b = "(" + b + ")"
	case *Num:
		if x.v.Sign() < 0 || x.v.Kind() == KindRational || x.v.IsFloat() {
			b = "(" + b + ")"
		}
	case *Const:
		if x.k == ConstNegInfinity {
			b = "(" + b + ")"
		}
	}
	e := exp.String()
	switch x := exp.(type) {
	case *Sym, *Const:
	case *Num:
		if !x.v.IsInteger() || x.v.Sign() < 0 {
			e = "(" + e + ")"
		}
	default:
		e = "(" + e + ")"
	}
	return b + "^" + e
}

func (m *Mul) String() string {
	c, fs := termParts(m)
	return productString(c, fs)
}

func (p *Pow) String() string {
	if _, _, ok := reciprocal(p); ok {
		return productString(IntNumber(1), []Expr{p})
	}
	return powString(p.base, p.exp)
}

func (a *Add) String() string {
	var sb strings.Builder
	for i := len(a.terms) - 1; i >= 0; i-- {
		c, fs := termParts(a.terms[i])
		switch {
		case i == len(a.terms)-1:
			sb.WriteString(productString(c, fs))
		case c.Sign() < 0:
			sb.WriteString(" - ")
			sb.WriteString(productString(c.Neg(), fs))
		default:
			sb.WriteString(" + ")
			sb.WriteString(productString(c, fs))
		}
	}
	return sb.String()
}

func (c *Complex) String() string {
	im := c.im.String()
	if n, ok := c.im.(*Num); ok && n.v.IsOne() {
		im = ""
	} else {
		im = factorString(c.im) + "*"
	}
	if isZero(c.re) {
		return im + "I"
	}
	return c.re.String() + " + " + im + "I"
}

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.At(i, j).String())
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}

func (s *Set) String() string { return "{" + joinStrings(s.elems, ", ") + "}" }

func (iv *Interval) String() string {
	lb, rb := "(", ")"
	if iv.loClosed {
		lb = "["
	}
	if iv.hiClosed {
		rb = "]"
	}
	return lb + iv.lo.String() + ", " + iv.hi.String() + rb
}

func (p *Piecewise) String() string {
	var sb strings.Builder
	sb.WriteString("Piecewise(")
	for i, pc := range p.pieces {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(" + pc.Value.String() + ", " + pc.Cond.String() + ")")
	}
	if len(p.pieces) > 0 {
		sb.WriteString(", ")
	}
	sb.WriteString("(" + p.otherwise.String() + ", true))")
	return sb.String()
}

func (r *Relation) String() string {
	return r.lhs.String() + " " + r.op.String() + " " + r.rhs.String()
}

func (c *Calculus) String() string {
	body, v := c.body.String(), c.v.String()
	switch c.op {
	case CalcDerivative:
		if c.order == 1 {
			return "Derivative(" + body + ", " + v + ")"
		}
		return "Derivative(" + body + ", " + v + ", " + itoa(c.order) + ")"
	case CalcIntegral:
		return "Integral(" + body + ", " + v + ")"
	case CalcLimit:
		return "Limit(" + body + ", " + v + ", " + c.bounds[0].String() + ")"
	}
	name := map[CalcOp]string{CalcDefiniteIntegral: "Integral", CalcSum: "Sum", CalcProduct: "Product"}[c.op]
	return name + "(" + body + ", (" + v + ", " + joinStrings(c.bounds, ", ") + "))"
}

// ============================================================
// LaTeX rendering
// ============================================================

// LaTeX renders e as a LaTeX math-mode string.
func LaTeX(e Expr) string {
	switch x := e.(type) {
	case *Num:
		return numLaTeX(x.v)
	case *Sym:
		return symLaTeX(x.s)
	case *Const:
		return constLaTeX[x.k]
	case *Bool:
		return "\\mathrm{" + x.String() + "}"
	case *Undefined:
		return "\\mathrm{undefined}"
	case *Add:
		var sb strings.Builder
		for i := len(x.terms) - 1; i >= 0; i-- {
			c, fs := termParts(x.terms[i])
			switch {
			case i == len(x.terms)-1:
				sb.WriteString(productLaTeX(c, fs))
			case c.Sign() < 0:
				sb.WriteString(" - " + productLaTeX(c.Neg(), fs))
			default:
				sb.WriteString(" + " + productLaTeX(c, fs))
			}
		}
		return sb.String()
	case *Mul:
		c, fs := termParts(x)
		return productLaTeX(c, fs)
	case *Pow:
		if _, _, ok := reciprocal(x); ok {
			return productLaTeX(IntNumber(1), []Expr{x})
		}
		return powLaTeX(x.base, x.exp)
	case *Func:
		return funcLaTeX(x)
	case *Complex:
		if isZero(x.re) {
			return latexFactor(x.im) + " i"
		}
		return LaTeX(x.re) + " + " + latexFactor(x.im) + " i"
	case *Matrix:
		var sb strings.Builder
		sb.WriteString("\\begin{pmatrix}")
		for i := 0; i < x.rows; i++ {
			if i > 0 {
				sb.WriteString(" \\\\ ")
			}
			for j := 0; j < x.cols; j++ {
				if j > 0 {
					sb.WriteString(" & ")
				}
				sb.WriteString(LaTeX(x.At(i, j)))
			}
		}
		sb.WriteString("\\end{pmatrix}")
		return sb.String()
	case *Set:
		parts := make([]string, len(x.elems))
		for i, el := range x.elems {
			parts[i] = LaTeX(el)
		}
		return "\\left\\{" + strings.Join(parts, ", ") + "\\right\\}"
	case *Interval:
		lb, rb := "\\left(", "\\right)"
		if x.loClosed {
			lb = "\\left["
		}
		if x.hiClosed {
			rb = "\\right]"
		}
		return lb + LaTeX(x.lo) + ", " + LaTeX(x.hi) + rb
	case *Piecewise:
		var sb strings.Builder
		sb.WriteString("\\begin{cases}")
		for _, pc := range x.pieces {
			sb.WriteString(LaTeX(pc.Value) + " & " + LaTeX(pc.Cond) + " \\\\ ")
		}
		sb.WriteString(LaTeX(x.otherwise) + " & \\text{otherwise}\\end{cases}")
		return sb.String()
	case *Relation:
		return LaTeX(x.lhs) + " " + relLaTeX[x.op] + " " + LaTeX(x.rhs)
	case *Calculus:
		return calculusLaTeX(x)
	}
	return e.String()
}

var constLaTeX = [...]string{
	ConstPi:          "\\pi",
	ConstE:           "e",
	ConstI:           "i",
	ConstInfinity:    "\\infty",
	ConstNegInfinity: "-\\infty",
	ConstEulerGamma:  "\\gamma",
	ConstGoldenRatio: "\\varphi",
}

var relLaTeX = [...]string{OpEq: "=", OpNe: "\\neq", OpLt: "<", OpLe: "\\leq", OpGt: ">", OpGe: "\\geq"}

var greek = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true, "theta": true,
	"lambda": true, "mu": true, "nu": true, "rho": true, "sigma": true, "tau": true, "phi": true,
	"omega": true, "psi": true, "xi": true, "eta": true, "kappa": true, "zeta": true, "chi": true,
}

func symLaTeX(s Symbol) string {
	name := s.Name
	if greek[name] {
		name = "\\" + name
	}
	if s.Type == MatrixType {
		return "\\mathbf{" + name + "}"
	}
	return name
}

func numLaTeX(v Number) string {
	if p, q, ok := v.NumDen(); ok && q.Cmp(big.NewInt(1)) != 0 {
		sign := ""
		if p.Sign() < 0 {
			sign = "-"
			p.Neg(p)
		}
		return sign + "\\frac{" + p.String() + "}{" + q.String() + "}"
	}
	return v.String()
}

func latexFactor(f Expr) string {
	switch x := f.(type) {
	case *Add, *Complex:
		return "\\left(" + LaTeX(f) + "\\right)"
	case *Num:
		if x.v.Sign() < 0 {
			return "\\left(" + LaTeX(f) + "\\right)"
		}
	}
	return LaTeX(f)
}

func productLaTeX(coef Number, factors []Expr) string {
	sign := ""
	if coef.Sign() < 0 {
		sign = "-"
		coef = coef.Neg()
	}
	var num, den []string
	if p, q, ok := coef.NumDen(); ok {
		if p.Cmp(big.NewInt(1)) != 0 {
			num = append(num, p.String())
		}
		if q.Cmp(big.NewInt(1)) != 0 {
			den = append(den, q.String())
		}
	} else if !coef.IsOne() {
		num = append(num, coef.String())
	}
	for _, f := range displayOrder(factors) {
		if b, k, ok := reciprocal(f); ok {
			if k.v.IsOne() {
				den = append(den, LaTeX(b))
			} else {
				den = append(den, powLaTeX(b, k))
			}
			continue
		}
		num = append(num, latexFactor(f))
	}
	s := strings.Join(num, " \\cdot ")
	if s == "" {
		s = "1"
	}
	if len(den) > 0 {
		s = "\\frac{" + s + "}{" + strings.Join(den, " \\cdot ") + "}"
	}
	return sign + s
}

func powLaTeX(base, exp Expr) string {
	if n, ok := exp.(*Num); ok && n.v.Equal(half.v) {
		return "\\sqrt{" + LaTeX(base) + "}"
	}
	b := LaTeX(base)
	switch x := base.(type) {
	case *Add, *Mul, *Pow, *Complex:
		b = "\\left(" + b + "\\right)"
	case *Num:
		if x.v.Sign() < 0 || x.v.Kind() == KindRational {
			b = "\\left(" + b + "\\right)"
		}
	case *Func:
		if x.name != "abs" {
			b = "\\left(" + b + "\\right)"
		}
	}
	return b + "^{" + LaTeX(exp) + "}"
}

func funcLaTeX(f *Func) string {
	args := make([]string, len(f.args))
	for i, a := range f.args {
		args[i] = LaTeX(a)
	}
	arg := strings.Join(args, ", ")
	switch f.name {
	case "sin", "cos", "tan", "cot", "sec", "csc", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + arg + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + arg + "\\right)"
	case "acos":
		return "\\arccos\\left(" + arg + "\\right)"
	case "atan":
		return "\\arctan\\left(" + arg + "\\right)"
	case "abs":
		return "\\left|" + arg + "\\right|"
	case "floor":
		return "\\lfloor " + arg + " \\rfloor"
	case "ceil":
		return "\\lceil " + arg + " \\rceil"
	case "gamma":
		return "\\Gamma\\left(" + arg + "\\right)"
	}
	return "\\operatorname{" + f.name + "}\\left(" + arg + "\\right)"
}

func calculusLaTeX(c *Calculus) string {
	body, v := LaTeX(c.body), symLaTeX(c.v.s)
	switch c.op {
	case CalcDerivative:
		if c.order == 1 {
			return "\\frac{d}{d" + v + "}\\left(" + body + "\\right)"
		}
		n := itoa(c.order)
		return "\\frac{d^{" + n + "}}{d" + v + "^{" + n + "}}\\left(" + body + "\\right)"
	case CalcIntegral:
		return "\\int " + body + "\\, d" + v
	case CalcDefiniteIntegral:
		return "\\int_{" + LaTeX(c.bounds[0]) + "}^{" + LaTeX(c.bounds[1]) + "} " + body + "\\, d" + v
	case CalcLimit:
		return "\\lim_{" + v + " \\to " + LaTeX(c.bounds[0]) + "} " + body
	case CalcSum:
		return "\\sum_{" + v + "=" + LaTeX(c.bounds[0]) + "}^{" + LaTeX(c.bounds[1]) + "} " + body
	}
	return "\\prod_{" + v + "=" + LaTeX(c.bounds[0]) + "}^{" + LaTeX(c.bounds[1]) + "} " + body
}

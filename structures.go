package gocas

// ============================================================
// Complex
// ============================================================

// Complex is re + im·I with both parts kept as expressions.
type Complex struct {
	re, im Expr
	h      uint64
}

// ComplexOf returns re when im is zero.
func ComplexOf(re, im Expr) Expr {
	if IsUndefined(re) || IsUndefined(im) {
		return Undef
	}
	if isZero(im) {
		return re
	}
	return &Complex{re: re, im: im, h: newHasher(KindComplex).expr(re).expr(im).sum()}
}

func (*Complex) Kind() Kind     { return KindComplex }
func (c *Complex) Hash() uint64 { return c.h }
func (c *Complex) Real() Expr   { return c.re }
func (c *Complex) Imag() Expr   { return c.im }
func (*Complex) isExpr()        {}

func (c *Complex) Equal(other Expr) bool {
	o, ok := other.(*Complex)
	return ok && o.h == c.h && c.re.Equal(o.re) && c.im.Equal(o.im)
}

// ============================================================
// Set, Interval
// ============================================================

// Set holds distinct elements in canonical order.
type Set struct {
	elems []Expr
	h     uint64
}

func SetOf(elems ...Expr) *Set {
	out := make([]Expr, 0, len(elems))
	for _, e := range elems {
		if !containsExpr(out, e) {
			out = append(out, e)
		}
	}
	sortExprs(out)
	return &Set{elems: out, h: newHasher(KindSet).exprs(out).sum()}
}

func (*Set) Kind() Kind             { return KindSet }
func (s *Set) Hash() uint64         { return s.h }
func (s *Set) Len() int             { return len(s.elems) }
func (s *Set) Elements() []Expr     { return append([]Expr(nil), s.elems...) }
func (s *Set) Contains(e Expr) bool { return containsExpr(s.elems, e) }
func (*Set) isExpr()                {}

func (s *Set) Equal(other Expr) bool {
	o, ok := other.(*Set)
	return ok && o.h == s.h && equalSlices(s.elems, o.elems)
}

func containsExpr(es []Expr, e Expr) bool {
	for _, x := range es {
		if x.Equal(e) {
			return true
		}
	}
	return false
}

type Interval struct {
	lo, hi             Expr
	loClosed, hiClosed bool
	h                  uint64
}

// IntervalOf collapses numerically empty intervals to the empty set and a
// closed degenerate interval to a singleton.
func IntervalOf(lo, hi Expr, loClosed, hiClosed bool) Expr {
	if IsUndefined(lo) || IsUndefined(hi) {
		return Undef
	}
	if a, ok := lo.(*Num); ok {
		if b, ok := hi.(*Num); ok {
			switch c := a.v.Cmp(b.v); {
			case c > 0:
				return SetOf()
			case c == 0 && loClosed && hiClosed:
				return SetOf(lo)
			case c == 0:
				return SetOf()
			}
		}
	}
	h := newHasher(KindInterval).expr(lo).expr(hi).u64(boolBits(loClosed, hiClosed))
	return &Interval{lo: lo, hi: hi, loClosed: loClosed, hiClosed: hiClosed, h: h.sum()}
}

func boolBits(a, b bool) uint64 {
	var v uint64
	if a {
		v |= 1
	}
	if b {
		v |= 2
	}
	return v
}

func (*Interval) Kind() Kind              { return KindInterval }
func (iv *Interval) Hash() uint64         { return iv.h }
func (iv *Interval) Bounds() (Expr, Expr) { return iv.lo, iv.hi }
func (iv *Interval) Closed() (bool, bool) { return iv.loClosed, iv.hiClosed }
func (*Interval) isExpr()                 {}

func (iv *Interval) Equal(other Expr) bool {
	o, ok := other.(*Interval)
	return ok && o.h == iv.h && iv.lo.Equal(o.lo) && iv.hi.Equal(o.hi) &&
		iv.loClosed == o.loClosed && iv.hiClosed == o.hiClosed
}

// ============================================================
// Piecewise
// ============================================================

// Piece is one (condition, value) branch.
type Piece struct {
	Cond  Expr
	Value Expr
}

type Piecewise struct {
	pieces    []Piece
	otherwise Expr
	h         uint64
}

// PiecewiseOf drops branches whose condition is False and returns the value
// of a leading True branch. A nil otherwise means Undef.
func PiecewiseOf(pieces []Piece, otherwise Expr) Expr {
	if otherwise == nil {
		otherwise = Undef
	}
	var kept []Piece
	for _, p := range pieces {
		if b, ok := p.Cond.(*Bool); ok {
			if !b.v {
				continue
			}
			if len(kept) == 0 {
				return p.Value
			}
			otherwise = p.Value
			break
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return otherwise
	}
	h := newHasher(KindPiecewise).u64(uint64(len(kept)))
	for _, p := range kept {
		h.expr(p.Cond).expr(p.Value)
	}
	h.expr(otherwise)
	return &Piecewise{pieces: kept, otherwise: otherwise, h: h.sum()}
}

func (*Piecewise) Kind() Kind        { return KindPiecewise }
func (p *Piecewise) Hash() uint64    { return p.h }
func (p *Piecewise) Pieces() []Piece { return append([]Piece(nil), p.pieces...) }
func (p *Piecewise) Otherwise() Expr { return p.otherwise }
func (*Piecewise) isExpr()           {}

func (p *Piecewise) Equal(other Expr) bool {
	o, ok := other.(*Piecewise)
	if !ok || o.h != p.h || len(o.pieces) != len(p.pieces) || !p.otherwise.Equal(o.otherwise) {
		return false
	}
	for i := range p.pieces {
		if !p.pieces[i].Cond.Equal(o.pieces[i].Cond) || !p.pieces[i].Value.Equal(o.pieces[i].Value) {
			return false
		}
	}
	return true
}

// ============================================================
// Relation
// ============================================================

type RelOp uint8

const (
	OpEq RelOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var relOpNames = [...]string{OpEq: "=", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">="}

func (op RelOp) String() string { return relOpNames[op] }

// ParseRelOp accepts the printed operator forms.
func ParseRelOp(s string) (RelOp, bool) {
	for i, n := range relOpNames {
		if n == s {
			return RelOp(i), true
		}
	}
	switch s {
	case "==":
		return OpEq, true
	case "≠":
		return OpNe, true
	case "≤":
		return OpLe, true
	case "≥":
		return OpGe, true
	}
	return 0, false
}

func (op RelOp) holds(c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	}
	return c >= 0
}

// Relation is stored as lhs − rhs (op) 0.
type Relation struct {
	lhs, rhs Expr
	op       RelOp
	h        uint64
}

// RelationOf moves every term to the left side. A relation between numbers
// is decided and returned as a Bool. Equations and inequations are scaled
// so the leading term is positive.
func RelationOf(lhs, rhs Expr, op RelOp) Expr {
	if IsUndefined(lhs) || IsUndefined(rhs) {
		return Undef
	}
	d := SubOf(lhs, rhs)
	if n, ok := d.(*Num); ok {
		return BoolOf(op.holds(n.v.Sign()))
	}
	if (op == OpEq || op == OpNe) && leadingNegative(d) {
		d = Neg(d)
	}
	return &Relation{lhs: d, rhs: zero, op: op, h: newHasher(KindRelation).u64(uint64(op)).expr(d).expr(zero).sum()}
}

// Eq builds lhs = rhs.
func Eq(lhs, rhs Expr) Expr { return RelationOf(lhs, rhs, OpEq) }

func (*Relation) Kind() Kind     { return KindRelation }
func (r *Relation) Hash() uint64 { return r.h }
func (r *Relation) LHS() Expr    { return r.lhs }
func (r *Relation) RHS() Expr    { return r.rhs }
func (r *Relation) Op() RelOp    { return r.op }
func (*Relation) isExpr()        {}

func (r *Relation) Equal(other Expr) bool {
	o, ok := other.(*Relation)
	return ok && o.h == r.h && o.op == r.op && r.lhs.Equal(o.lhs) && r.rhs.Equal(o.rhs)
}

// ============================================================
// Calculus: unevaluated derivative, integral, limit, sum, product
// ============================================================

type CalcOp uint8

const (
	CalcDerivative CalcOp = iota
	CalcIntegral
	CalcDefiniteIntegral
	CalcLimit
	CalcSum
	CalcProduct
)

var calcOpNames = [...]string{
	CalcDerivative:       "derivative",
	CalcIntegral:         "integral",
	CalcDefiniteIntegral: "definite_integral",
	CalcLimit:            "limit",
	CalcSum:              "sum",
	CalcProduct:          "product",
}

func (op CalcOp) String() string { return calcOpNames[op] }

// ParseCalcOp is the inverse of CalcOp.String.
func ParseCalcOp(s string) (CalcOp, bool) {
	for i, n := range calcOpNames {
		if n == s {
			return CalcOp(i), true
		}
	}
	return 0, false
}

// Calculus is an unevaluated calculus operation. Bounds holds [lo, hi] for
// definite integrals, sums and products and [point] for limits.
type Calculus struct {
	op     CalcOp
	body   Expr
	v      *Sym
	order  int
	bounds []Expr
	h      uint64
}

func newCalculus(op CalcOp, body Expr, v *Sym, order int, bounds ...Expr) *Calculus {
	h := newHasher(KindCalculus).u64(uint64(op)).expr(body).expr(v).u64(uint64(order)).exprs(bounds)
	return &Calculus{op: op, body: body, v: v, order: order, bounds: bounds, h: h.sum()}
}

// DerivativeOf is the unevaluated n-th derivative. Nested derivatives in the
// same variable merge their orders.
func DerivativeOf(body Expr, v *Sym, n int) Expr {
	if n <= 0 {
		return body
	}
	if IsUndefined(body) {
		return Undef
	}
	if c, ok := body.(*Calculus); ok && c.op == CalcDerivative && c.v.Equal(v) {
		return newCalculus(CalcDerivative, c.body, v, c.order+n)
	}
	return newCalculus(CalcDerivative, body, v, n)
}

func IntegralOf(body Expr, v *Sym) Expr {
	if IsUndefined(body) {
		return Undef
	}
	return newCalculus(CalcIntegral, body, v, 0)
}

func DefiniteIntegralOf(body Expr, v *Sym, a, b Expr) Expr {
	if IsUndefined(body) || IsUndefined(a) || IsUndefined(b) {
		return Undef
	}
	if a.Equal(b) {
		return zero
	}
	return newCalculus(CalcDefiniteIntegral, body, v, 0, a, b)
}

func LimitOf(body Expr, v *Sym, point Expr) Expr {
	if IsUndefined(body) || IsUndefined(point) {
		return Undef
	}
	return newCalculus(CalcLimit, body, v, 0, point)
}

func SumOf(body Expr, v *Sym, lo, hi Expr) Expr {
	if IsUndefined(body) || IsUndefined(lo) || IsUndefined(hi) {
		return Undef
	}
	return newCalculus(CalcSum, body, v, 0, lo, hi)
}

func ProductOf(body Expr, v *Sym, lo, hi Expr) Expr {
	if IsUndefined(body) || IsUndefined(lo) || IsUndefined(hi) {
		return Undef
	}
	return newCalculus(CalcProduct, body, v, 0, lo, hi)
}

func (*Calculus) Kind() Kind       { return KindCalculus }
func (c *Calculus) Hash() uint64   { return c.h }
func (c *Calculus) Op() CalcOp     { return c.op }
func (c *Calculus) Body() Expr     { return c.body }
func (c *Calculus) Var() *Sym      { return c.v }
func (c *Calculus) Order() int     { return c.order }
func (c *Calculus) Bounds() []Expr { return append([]Expr(nil), c.bounds...) }
func (*Calculus) isExpr()          {}

// closed reports whether the value no longer depends on the variable once
// the operation is carried out. An antiderivative or a derivative is still
// a function of its variable, even though the variable is bound in the body.
func (c *Calculus) closed() bool {
	return c.op != CalcDerivative && c.op != CalcIntegral
}

func (c *Calculus) Equal(other Expr) bool {
	o, ok := other.(*Calculus)
	return ok && o.h == c.h && o.op == c.op && o.order == c.order && c.v.Equal(o.v) &&
		c.body.Equal(o.body) && equalSlices(c.bounds, o.bounds)
}

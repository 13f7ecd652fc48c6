package gocas

import (
	"math/big"
	"strings"
)

// ============================================================
// Num: numeric leaf
// ============================================================

type Num struct {
	v Number
	h uint64
}

// NumOf wraps a Number.
func NumOf(v Number) *Num {
	return &Num{v: v, h: newHasher(KindNum).str(v.hashKey()).sum()}
}

func N(n int64) *Num            { return NumOf(IntNumber(n)) }
func NBig(b *big.Int) *Num      { return NumOf(BigIntNumber(b)) }
func RatOf(r *big.Rat) *Num     { return NumOf(RatNumber(r)) }
func NFloat(f float64) *Num     { return NumOf(FloatNumber(f)) }
func (*Num) Kind() Kind         { return KindNum }
func (n *Num) Value() Number    { return n.v }
func (n *Num) Hash() uint64     { return n.h }
func (n *Num) Float64() float64 { return n.v.Float64() }
func (n *Num) IsZero() bool     { return n.v.IsZero() }
func (n *Num) IsOne() bool      { return n.v.IsOne() }
func (n *Num) Sign() int        { return n.v.Sign() }
func (*Num) isExpr()            {}

// F returns the rational p/q, or Undef when q is zero.
func F(p, q int64) Expr {
	v, ok := FracNumber(p, q)
	if !ok {
		return Undef
	}
	return NumOf(v)
}

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && o.h == n.h && n.v.Equal(o.v)
}

// numExpr turns an arithmetic result into an expression; NaN becomes Undef.
func numExpr(v Number) Expr {
	if v.IsNaN() {
		return Undef
	}
	return NumOf(v)
}

var (
	zero   = N(0)
	one    = N(1)
	negOne = N(-1)
	two    = N(2)
	half   = F(1, 2).(*Num)
)

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct {
	s Symbol
	h uint64
}

// SymOf creates a symbol with an explicit type tag.
func SymOf(name string, t SymbolType) *Sym {
	return &Sym{s: Symbol{Name: name, Type: t}, h: newHasher(KindSym).str(name).u64(uint64(t)).sum()}
}

func S(name string) *Sym            { return SymOf(name, ScalarType) }
func MatrixSymbol(name string) *Sym { return SymOf(name, MatrixType) }
func (*Sym) Kind() Kind             { return KindSym }
func (s *Sym) Name() string         { return s.s.Name }
func (s *Sym) Symbol() Symbol       { return s.s }
func (s *Sym) Type() SymbolType     { return s.s.Type }
func (s *Sym) Hash() uint64         { return s.h }
func (*Sym) isExpr()                {}

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && o.s == s.s
}

// Syms splits a space-separated list into scalar symbols.
func Syms(names string) []*Sym {
	fields := strings.Fields(names)
	out := make([]*Sym, len(fields))
	for i, f := range fields {
		out[i] = S(f)
	}
	return out
}

// ============================================================
// Add, Mul, Pow, Func: algebraic interior nodes
// ============================================================

// Add is a canonical sum: at least two terms, flattened, at most one
// numeric term, like terms combined, sorted by Compare.
type Add struct {
	terms []Expr
	h     uint64
}

func newAdd(terms []Expr) *Add {
	return &Add{terms: terms, h: newHasher(KindAdd).exprs(terms).sum()}
}

func (*Add) Kind() Kind     { return KindAdd }
func (a *Add) Hash() uint64 { return a.h }
func (a *Add) Len() int     { return len(a.terms) }
func (*Add) isExpr()        {}

// Terms returns a copy of the stored terms in canonical order.
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && o.h == a.h && equalSlices(a.terms, o.terms)
}

// Mul is a canonical product: numeric coefficient first (when not 1), then
// commutative factors sorted by Compare, then non-commutative factors in
// their original order.
type Mul struct {
	factors []Expr
	h       uint64
}

func newMul(factors []Expr) *Mul {
	return &Mul{factors: factors, h: newHasher(KindMul).exprs(factors).sum()}
}

func (*Mul) Kind() Kind        { return KindMul }
func (m *Mul) Hash() uint64    { return m.h }
func (m *Mul) Len() int        { return len(m.factors) }
func (*Mul) isExpr()           {}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && o.h == m.h && equalSlices(m.factors, o.factors)
}

type Pow struct {
	base, exp Expr
	h         uint64
}

func newPow(base, exp Expr) *Pow {
	return &Pow{base: base, exp: exp, h: newHasher(KindPow).expr(base).expr(exp).sum()}
}

func (*Pow) Kind() Kind     { return KindPow }
func (p *Pow) Hash() uint64 { return p.h }
func (p *Pow) Base() Expr   { return p.base }
func (p *Pow) Exp() Expr    { return p.exp }
func (*Pow) isExpr()        {}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && o.h == p.h && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

// Func is a named function application.
type Func struct {
	name string
	args []Expr
	h    uint64
}

func newFunc(name string, args []Expr) *Func {
	return &Func{name: name, args: args, h: newHasher(KindFunc).str(name).exprs(args).sum()}
}

func (*Func) Kind() Kind     { return KindFunc }
func (f *Func) Hash() uint64 { return f.h }
func (f *Func) Name() string { return f.name }
func (f *Func) Args() []Expr { return append([]Expr(nil), f.args...) }
func (*Func) isExpr()        {}

// Arg returns the first argument of a unary function.
func (f *Func) Arg() Expr { return f.args[0] }

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && o.h == f.h && o.name == f.name && equalSlices(f.args, o.args)
}

func equalSlices(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

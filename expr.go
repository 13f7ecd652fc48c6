package gocas

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable expression tree node. The set of implementations is
// closed; code that inspects expressions switches on the concrete type or
// on Kind().
type Expr interface {
	Kind() Kind
	String() string
	Equal(other Expr) bool
	Hash() uint64
	isExpr()
}

// Kind is the expression variant discriminant. Its numeric value is also the
// rank used to order unrelated variants.
type Kind uint8

const (
	KindNum Kind = iota
	KindConst
	KindSym
	KindPow
	KindMul
	KindFunc
	KindAdd
	KindComplex
	KindMatrix
	KindSet
	KindInterval
	KindPiecewise
	KindRelation
	KindCalculus
	KindBool
	KindUndefined
)

var kindNames = [...]string{
	KindNum:       "num",
	KindConst:     "const",
	KindSym:       "sym",
	KindPow:       "pow",
	KindMul:       "mul",
	KindFunc:      "func",
	KindAdd:       "add",
	KindComplex:   "complex",
	KindMatrix:    "matrix",
	KindSet:       "set",
	KindInterval:  "interval",
	KindPiecewise: "piecewise",
	KindRelation:  "relation",
	KindCalculus:  "calculus",
	KindBool:      "bool",
	KindUndefined: "undefined",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// hasher folds a discriminant and children into an xxhash digest.
type hasher struct{ d *xxhash.Digest }

func newHasher(k Kind) hasher {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(k)})
	return hasher{d: d}
}

func (h hasher) u64(v uint64) hasher {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, _ = h.d.Write(b[:])
	return h
}

func (h hasher) str(s string) hasher {
	_, _ = h.d.WriteString(s)
	_, _ = h.d.Write([]byte{0})
	return h
}

func (h hasher) expr(e Expr) hasher { return h.u64(e.Hash()) }

func (h hasher) exprs(es []Expr) hasher {
	h.u64(uint64(len(es)))
	for _, e := range es {
		h.expr(e)
	}
	return h
}

func (h hasher) sum() uint64 { return h.d.Sum64() }

// ============================================================
// Distinguished leaves: Undefined, Bool
// ============================================================

// Undefined marks 0/0, 0^0, 0·∞, ∞−∞ and anything built from them.
type Undefined struct{ h uint64 }

// Undef is the single undefined leaf.
var Undef = &Undefined{h: newHasher(KindUndefined).sum()}

func (*Undefined) Kind() Kind            { return KindUndefined }
func (*Undefined) String() string        { return "undefined" }
func (u *Undefined) Hash() uint64        { return u.h }
func (*Undefined) Equal(other Expr) bool { _, ok := other.(*Undefined); return ok }
func (*Undefined) isExpr()               {}

// IsUndefined reports whether e is the undefined leaf.
func IsUndefined(e Expr) bool { _, ok := e.(*Undefined); return ok }

// Bool is a truth value produced by deciding a numeric relation.
type Bool struct {
	v bool
	h uint64
}

func newBool(v bool) *Bool {
	h := newHasher(KindBool)
	if v {
		h.u64(1)
	} else {
		h.u64(0)
	}
	return &Bool{v: v, h: h.sum()}
}

var (
	True  = newBool(true)
	False = newBool(false)
)

// BoolOf returns True or False.
func BoolOf(v bool) *Bool {
	if v {
		return True
	}
	return False
}

func (*Bool) Kind() Kind              { return KindBool }
func (b *Bool) Value() bool           { return b.v }
func (b *Bool) Hash() uint64          { return b.h }
func (b *Bool) Equal(other Expr) bool { o, ok := other.(*Bool); return ok && o.v == b.v }
func (*Bool) isExpr()                 {}

// ============================================================
// Const: named mathematical constants
// ============================================================

// ConstKind enumerates the built-in constants in their canonical order.
type ConstKind uint8

const (
	ConstPi ConstKind = iota
	ConstE
	ConstI
	ConstInfinity
	ConstNegInfinity
	ConstEulerGamma
	ConstGoldenRatio
)

var constNames = [...]string{
	ConstPi:          "pi",
	ConstE:           "E",
	ConstI:           "I",
	ConstInfinity:    "oo",
	ConstNegInfinity: "-oo",
	ConstEulerGamma:  "EulerGamma",
	ConstGoldenRatio: "GoldenRatio",
}

var constValues = [...]float64{
	ConstPi:          math.Pi,
	ConstE:           math.E,
	ConstI:           math.NaN(),
	ConstInfinity:    math.Inf(1),
	ConstNegInfinity: math.Inf(-1),
	ConstEulerGamma:  0.57721566490153286060651209008240243,
	ConstGoldenRatio: math.Phi,
}

type Const struct {
	k ConstKind
	h uint64
}

func newConst(k ConstKind) *Const {
	return &Const{k: k, h: newHasher(KindConst).u64(uint64(k)).sum()}
}

var (
	Pi          = newConst(ConstPi)
	E           = newConst(ConstE)
	I           = newConst(ConstI)
	Infinity    = newConst(ConstInfinity)
	NegInfinity = newConst(ConstNegInfinity)
	EulerGamma  = newConst(ConstEulerGamma)
	GoldenRatio = newConst(ConstGoldenRatio)
)

var constByKind = [...]*Const{Pi, E, I, Infinity, NegInfinity, EulerGamma, GoldenRatio}

// ConstByName looks up a constant by its printed name.
func ConstByName(name string) (*Const, bool) {
	for k, n := range constNames {
		if n == name {
			return constByKind[k], true
		}
	}
	return nil, false
}

func (*Const) Kind() Kind              { return KindConst }
func (c *Const) ConstKind() ConstKind  { return c.k }
func (c *Const) Name() string          { return constNames[c.k] }
func (c *Const) Hash() uint64          { return c.h }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && o.k == c.k }
func (*Const) isExpr()                 {}

// Float64 is the numeric value; I has none and returns NaN.
func (c *Const) Float64() float64 { return constValues[c.k] }

// IsReal reports whether the constant is a finite real number.
func (c *Const) IsReal() bool {
	return c.k != ConstI && c.k != ConstInfinity && c.k != ConstNegInfinity
}

func isInfinite(e Expr) bool {
	switch x := e.(type) {
	case *Const:
		return x.k == ConstInfinity || x.k == ConstNegInfinity
	case *Num:
		return x.v.IsFloat() && math.IsInf(x.v.Float64(), 0)
	}
	return false
}

package gocas

import (
	"math"
	"math/big"
	"sort"
	"sync"

	"github.com/njchilds90/gocas/internal/casterr"
)

// ============================================================
// Function-properties registry
// ============================================================

// Parity of a unary function under negation of its argument.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// FunctionProperties describes what the simplifier and the calculus
// kernels know about a named function.
type FunctionProperties struct {
	Name string
	// Arity is the required argument count; 0 accepts any.
	Arity  int
	Parity Parity
	// Period is the period as an integer multiple of pi; 0 means none.
	Period int64
	// Derivative returns f'(u) for a unary function.
	Derivative func(u Expr) Expr
	// SpecialValues maps the canonical string of an argument to the value.
	SpecialValues map[string]Expr
	// Numeric evaluates the function at float arguments.
	Numeric func(x float64) float64
	// Domain reports whether a float argument lies in the real domain.
	Domain func(x float64) bool
	// Fold applies function-specific exact rewrites.
	Fold func(args []Expr) (Expr, bool)
	// Inverse names g with f(g(u)) = u.
	Inverse string
}

var registry struct {
	once    sync.Once
	mu      sync.Mutex
	frozen  bool
	pending []FunctionProperties
	table   map[string]*FunctionProperties
}

// RegisterFunction adds or replaces a function definition. Registration is
// an initialization-time operation: it fails once any expression has looked
// the registry up.
func RegisterFunction(p FunctionProperties) error {
	if p.Name == "" {
		return casterr.New(casterr.KindInvalidArgument, "register_function", "empty name")
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.frozen {
		return casterr.New(casterr.KindInvalidArgument, "register_function", "registry is frozen").WithValue(p.Name)
	}
	registry.pending = append(registry.pending, p)
	return nil
}

func lookupFunction(name string) (*FunctionProperties, bool) {
	registry.once.Do(func() {
		registry.mu.Lock()
		defer registry.mu.Unlock()
		t := builtinFunctions()
		for i := range registry.pending {
			p := registry.pending[i]
			t[p.Name] = &p
		}
		registry.table = t
		registry.frozen = true
		logger().Debug("function registry frozen", "functions", len(t))
	})
	p, ok := registry.table[name]
	return p, ok
}

// LookupFunction returns a copy of the registered properties of name.
func LookupFunction(name string) (FunctionProperties, bool) {
	p, ok := lookupFunction(name)
	if !ok {
		return FunctionProperties{}, false
	}
	return *p, true
}

// RegisteredFunctions lists the registry in name order.
func RegisteredFunctions() []string {
	lookupFunction("")
	names := make([]string, 0, len(registry.table))
	for n := range registry.table {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ============================================================
// FuncOf: applying the registry
// ============================================================

// FuncOf applies a named function. Registered functions fold float
// arguments numerically, return tabled special values, cancel against
// their inverse, pull signs through odd and even functions and reduce
// multiples of pi modulo their period. Anything else stays symbolic.
func FuncOf(name string, args ...Expr) Expr {
	for _, a := range args {
		if IsUndefined(a) {
			return Undef
		}
	}
	p, ok := lookupFunction(name)
	if !ok || p.Arity > 0 && len(args) != p.Arity {
		return newFunc(name, args)
	}
	if len(args) == 1 {
		if r, ok := applyUnary(p, args[0]); ok {
			return r
		}
	}
	if p.Fold != nil {
		if r, ok := p.Fold(args); ok {
			return r
		}
	}
	return newFunc(name, args)
}

func applyUnary(p *FunctionProperties, u Expr) (Expr, bool) {
	if n, ok := u.(*Num); ok && n.v.IsFloat() && p.Numeric != nil {
		x := n.v.Float64()
		if p.Domain == nil || p.Domain(x) {
			if r := p.Numeric(x); !math.IsNaN(r) {
				return NFloat(r), true
			}
		}
		return nil, false
	}
	if v, ok := p.SpecialValues[u.String()]; ok {
		return v, true
	}
	if p.Inverse != "" {
		if g, ok := u.(*Func); ok && g.name == p.Inverse && len(g.args) == 1 {
			return g.args[0], true
		}
	}
	if p.Parity != ParityNone && leadingNegative(u) {
		r := FuncOf(p.Name, Neg(u))
		if p.Parity == ParityOdd {
			r = Neg(r)
		}
		return r, true
	}
	if p.Period > 0 {
		if r, changed := reducePeriod(u, p.Period); changed {
			return FuncOf(p.Name, r), true
		}
	}
	return nil, false
}

// piCoeff returns c when e is c·pi for exact c, treating 0 as 0·pi.
func piCoeff(e Expr) (*big.Rat, bool) {
	if n, ok := e.(*Num); ok && n.v.IsZero() && n.v.IsExact() {
		return new(big.Rat), true
	}
	c, rest := splitCoeff(e)
	if !c.IsExact() || !rest.Equal(Pi) {
		return nil, false
	}
	r, _ := c.Rat()
	return r, true
}

// modRat reduces c into [0, m).
func modRat(c *big.Rat, m int64) *big.Rat {
	q := new(big.Rat).Quo(c, big.NewRat(m, 1))
	fl := new(big.Int).Div(q.Num(), q.Denom())
	return new(big.Rat).Sub(c, new(big.Rat).SetInt(fl.Mul(fl, big.NewInt(m))))
}

func reducePeriod(u Expr, period int64) (Expr, bool) {
	reduce := func(t Expr) (Expr, bool) {
		c, ok := piCoeff(t)
		if !ok || c.Sign() == 0 {
			return t, false
		}
		r := modRat(c, period)
		if r.Cmp(c) == 0 {
			return t, false
		}
		return MulOf(RatOf(r), Pi), true
	}
	a, ok := u.(*Add)
	if !ok {
		return reduce(u)
	}
	terms := a.Terms()
	for i, t := range terms {
		if r, changed := reduce(t); changed {
			terms[i] = r
			return AddOf(terms...), true
		}
	}
	return u, false
}

// ============================================================
// Named constructors
// ============================================================

func SinOf(arg Expr) Expr   { return FuncOf("sin", arg) }
func CosOf(arg Expr) Expr   { return FuncOf("cos", arg) }
func TanOf(arg Expr) Expr   { return FuncOf("tan", arg) }
func CotOf(arg Expr) Expr   { return FuncOf("cot", arg) }
func SecOf(arg Expr) Expr   { return FuncOf("sec", arg) }
func CscOf(arg Expr) Expr   { return FuncOf("csc", arg) }
func ExpOf(arg Expr) Expr   { return FuncOf("exp", arg) }
func LnOf(arg Expr) Expr    { return FuncOf("ln", arg) }
func AbsOf(arg Expr) Expr   { return FuncOf("abs", arg) }
func SignOf(arg Expr) Expr  { return FuncOf("sign", arg) }
func AsinOf(arg Expr) Expr  { return FuncOf("asin", arg) }
func AcosOf(arg Expr) Expr  { return FuncOf("acos", arg) }
func AtanOf(arg Expr) Expr  { return FuncOf("atan", arg) }
func SinhOf(arg Expr) Expr  { return FuncOf("sinh", arg) }
func CoshOf(arg Expr) Expr  { return FuncOf("cosh", arg) }
func TanhOf(arg Expr) Expr  { return FuncOf("tanh", arg) }
func FloorOf(arg Expr) Expr { return FuncOf("floor", arg) }
func CeilOf(arg Expr) Expr  { return FuncOf("ceil", arg) }
func GammaOf(arg Expr) Expr { return FuncOf("gamma", arg) }
func ErfOf(arg Expr) Expr   { return FuncOf("erf", arg) }

// isFunc reports a unary application of name.
func isFunc(e Expr, name string) (*Func, bool) {
	f, ok := e.(*Func)
	if !ok || f.name != name || len(f.args) != 1 {
		return nil, false
	}
	return f, true
}

// ============================================================
// Built-in table
// ============================================================

// builtinFunctions must not build Func nodes: it runs inside the registry's
// sync.Once, and FuncOf would re-enter it.
func builtinFunctions() map[string]*FunctionProperties {
	sqrt2 := MulOf(half, PowOf(two, half))
	sqrt3 := PowOf(N(3), half)
	sqrt3half := MulOf(half, sqrt3)
	piOver := func(p, q int64) Expr { return MulOf(F(p, q), Pi) }
	realAll := func(float64) bool { return true }

	fs := []*FunctionProperties{
		{
			Name: "sin", Arity: 1, Parity: ParityOdd, Period: 2, Inverse: "asin",
			Derivative: func(u Expr) Expr { return CosOf(u) },
			Numeric:    math.Sin, Domain: realAll,
			Fold: trigFold("sin"),
		},
		{
			Name: "cos", Arity: 1, Parity: ParityEven, Period: 2, Inverse: "acos",
			Derivative: func(u Expr) Expr { return Neg(SinOf(u)) },
			Numeric:    math.Cos, Domain: realAll,
			Fold: trigFold("cos"),
		},
		{
			Name: "tan", Arity: 1, Parity: ParityOdd, Period: 1, Inverse: "atan",
			Derivative: func(u Expr) Expr { return PowOf(SecOf(u), two) },
			Numeric:    math.Tan,
			Fold:       trigFold("tan"),
		},
		{
			Name: "cot", Arity: 1, Parity: ParityOdd, Period: 1,
			Derivative: func(u Expr) Expr { return Neg(PowOf(CscOf(u), two)) },
			Numeric:    func(x float64) float64 { return 1 / math.Tan(x) },
			Fold:       trigFold("cot"),
		},
		{
			Name: "sec", Arity: 1, Parity: ParityEven, Period: 2,
			Derivative: func(u Expr) Expr { return MulOf(SecOf(u), TanOf(u)) },
			Numeric:    func(x float64) float64 { return 1 / math.Cos(x) },
			Fold:       trigFold("sec"),
		},
		{
			Name: "csc", Arity: 1, Parity: ParityOdd, Period: 2,
			Derivative: func(u Expr) Expr { return Neg(MulOf(CscOf(u), CotOf(u))) },
			Numeric:    func(x float64) float64 { return 1 / math.Sin(x) },
			Fold:       trigFold("csc"),
		},
		{
			Name: "exp", Arity: 1, Inverse: "ln",
			Derivative:    func(u Expr) Expr { return ExpOf(u) },
			Numeric:       math.Exp,
			SpecialValues: map[string]Expr{"0": one, "1": E, "oo": Infinity, "-oo": zero},
			Fold:          foldExp,
		},
		{
			Name: "ln", Arity: 1, Inverse: "exp",
			Derivative:    func(u Expr) Expr { return PowOf(u, negOne) },
			Numeric:       math.Log,
			Domain:        func(x float64) bool { return x > 0 },
			SpecialValues: map[string]Expr{"1": zero, "E": one, "0": NegInfinity, "oo": Infinity},
		},
		{
			Name: "abs", Arity: 1, Parity: ParityEven,
			Derivative: func(u Expr) Expr { return SignOf(u) },
			Numeric:    math.Abs,
			Fold:       foldAbs,
		},
		{
			Name: "sign", Arity: 1, Parity: ParityOdd,
			Derivative: func(Expr) Expr { return zero },
			Numeric: func(x float64) float64 {
				switch {
				case x > 0:
					return 1
				case x < 0:
					return -1
				}
				return 0
			},
			Fold: foldSign,
		},
		{
			Name: "asin", Arity: 1, Parity: ParityOdd,
			Derivative: func(u Expr) Expr { return PowOf(SubOf(one, PowOf(u, two)), F(-1, 2)) },
			Numeric:    math.Asin,
			Domain:     func(x float64) bool { return x >= -1 && x <= 1 },
			SpecialValues: map[string]Expr{
				"0": zero, "1": piOver(1, 2), half.String(): piOver(1, 6),
				sqrt2.String(): piOver(1, 4), sqrt3half.String(): piOver(1, 3),
			},
		},
		{
			Name: "acos", Arity: 1,
			Derivative: func(u Expr) Expr { return Neg(PowOf(SubOf(one, PowOf(u, two)), F(-1, 2))) },
			Numeric:    math.Acos,
			Domain:     func(x float64) bool { return x >= -1 && x <= 1 },
			SpecialValues: map[string]Expr{
				"0": piOver(1, 2), "1": zero, "-1": Pi,
				half.String(): piOver(1, 3), F(-1, 2).String(): piOver(2, 3),
				sqrt2.String(): piOver(1, 4), sqrt3half.String(): piOver(1, 6),
			},
		},
		{
			Name: "atan", Arity: 1, Parity: ParityOdd,
			Derivative: func(u Expr) Expr { return PowOf(AddOf(one, PowOf(u, two)), negOne) },
			Numeric:    math.Atan,
			SpecialValues: map[string]Expr{
				"0": zero, "1": piOver(1, 4), sqrt3.String(): piOver(1, 3),
				"oo": piOver(1, 2),
			},
		},
		{
			Name: "sinh", Arity: 1, Parity: ParityOdd,
			Derivative:    func(u Expr) Expr { return CoshOf(u) },
			Numeric:       math.Sinh,
			SpecialValues: map[string]Expr{"0": zero},
		},
		{
			Name: "cosh", Arity: 1, Parity: ParityEven,
			Derivative:    func(u Expr) Expr { return SinhOf(u) },
			Numeric:       math.Cosh,
			SpecialValues: map[string]Expr{"0": one},
		},
		{
			Name: "tanh", Arity: 1, Parity: ParityOdd,
			Derivative:    func(u Expr) Expr { return SubOf(one, PowOf(TanhOf(u), two)) },
			Numeric:       math.Tanh,
			SpecialValues: map[string]Expr{"0": zero},
		},
		{
			Name: "floor", Arity: 1,
			Derivative: func(Expr) Expr { return zero },
			Numeric:    math.Floor,
			Fold:       foldRound(false),
		},
		{
			Name: "ceil", Arity: 1,
			Derivative: func(Expr) Expr { return zero },
			Numeric:    math.Ceil,
			Fold:       foldRound(true),
		},
		{
			Name: "gamma", Arity: 1,
			Derivative: func(u Expr) Expr { return MulOf(GammaOf(u), FuncOf("digamma", u)) },
			Numeric:    math.Gamma,
			SpecialValues: map[string]Expr{
				half.String(): PowOf(Pi, half),
			},
			Fold: foldGamma,
		},
		{
			Name: "erf", Arity: 1, Parity: ParityOdd,
			Derivative: func(u Expr) Expr {
				return MulOf(N(2), PowOf(Pi, F(-1, 2)), ExpOf(Neg(PowOf(u, two))))
			},
			Numeric:       math.Erf,
			SpecialValues: map[string]Expr{"0": zero, "oo": one},
		},
		{
			Name: "sqrt", Arity: 1,
			Fold: func(args []Expr) (Expr, bool) { return SqrtOf(args[0]), true },
		},
	}
	t := make(map[string]*FunctionProperties, len(fs))
	for _, f := range fs {
		t[f.Name] = f
	}
	return t
}

// ------------------------------------------------------------
// Trig special values at rational multiples of pi
// ------------------------------------------------------------

// sinPi returns sin(c·pi) exactly for c in the table, after reducing by
// symmetry into [0, 1/2].
func sinPi(c *big.Rat) (Expr, bool) {
	c = modRat(c, 2)
	ratOne := big.NewRat(1, 1)
	if c.Cmp(ratOne) >= 0 {
		v, ok := sinPi(new(big.Rat).Sub(c, ratOne))
		if !ok {
			return nil, false
		}
		return Neg(v), true
	}
	if c.Cmp(big.NewRat(1, 2)) > 0 {
		return sinPi(new(big.Rat).Sub(ratOne, c))
	}
	switch c.RatString() {
	case "0":
		return zero, true
	case "1/6":
		return half, true
	case "1/4":
		return MulOf(half, PowOf(two, half)), true
	case "1/3":
		return MulOf(half, PowOf(N(3), half)), true
	case "1/2":
		return one, true
	}
	return nil, false
}

func cosPi(c *big.Rat) (Expr, bool) { return sinPi(new(big.Rat).Add(c, big.NewRat(1, 2))) }

func trigFold(name string) func([]Expr) (Expr, bool) {
	return func(args []Expr) (Expr, bool) {
		c, ok := piCoeff(args[0])
		if !ok {
			return nil, false
		}
		s, sok := sinPi(c)
		k, kok := cosPi(c)
		if !sok || !kok {
			return nil, false
		}
		var num, den Expr
		switch name {
		case "sin":
			return s, true
		case "cos":
			return k, true
		case "tan":
			num, den = s, k
		case "cot":
			num, den = k, s
		case "sec":
			num, den = one, k
		case "csc":
			num, den = one, s
		default:
			return nil, false
		}
		if isZero(den) {
			return Undef, true
		}
		return DivOf(num, den), true
	}
}

// foldExp rewrites exp(c·ln u + rest) as u^c·exp(rest).
func foldExp(args []Expr) (Expr, bool) {
	terms := []Expr{args[0]}
	if a, ok := args[0].(*Add); ok {
		terms = a.Terms()
	}
	var pulled, rest []Expr
	for _, t := range terms {
		c, r := splitCoeff(t)
		if l, ok := isFunc(r, "ln"); ok {
			pulled = append(pulled, PowOf(l.args[0], NumOf(c)))
			continue
		}
		rest = append(rest, t)
	}
	if len(pulled) == 0 {
		return nil, false
	}
	if len(rest) > 0 {
		pulled = append(pulled, ExpOf(AddOf(rest...)))
	}
	return MulOf(pulled...), true
}

func foldAbs(args []Expr) (Expr, bool) {
	u := args[0]
	switch x := u.(type) {
	case *Num:
		return NumOf(x.v.Abs()), true
	case *Func:
		if x.name == "abs" {
			return u, true
		}
	case *Complex:
		return SqrtOf(AddOf(PowOf(x.re, two), PowOf(x.im, two))), true
	}
	if isPositive(u) {
		return u, true
	}
	return nil, false
}

func foldSign(args []Expr) (Expr, bool) {
	u := args[0]
	if n, ok := u.(*Num); ok {
		return N(int64(n.v.Sign())), true
	}
	if isPositive(u) {
		return one, true
	}
	return nil, false
}

func foldRound(ceil bool) func([]Expr) (Expr, bool) {
	return func(args []Expr) (Expr, bool) {
		n, ok := args[0].(*Num)
		if !ok || !n.v.IsExact() {
			return nil, false
		}
		r, _ := n.v.Rat()
		if ceil {
			r.Neg(r)
		}
		fl := new(big.Int).Div(r.Num(), r.Denom())
		if ceil {
			fl.Neg(fl)
		}
		return NBig(fl), true
	}
}

// foldGamma evaluates gamma at positive integers as a factorial; poles give
// Undef.
func foldGamma(args []Expr) (Expr, bool) {
	n, ok := args[0].(*Num)
	if !ok || !n.v.IsInteger() {
		return nil, false
	}
	if n.v.Sign() <= 0 {
		return Undef, true
	}
	k, small := n.v.Int64()
	if !small || k > 1000 {
		return nil, false
	}
	return NBig(new(big.Int).MulRange(1, k-1)), true
}

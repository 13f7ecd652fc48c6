package gocas

import (
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ============================================================
// Definite integrals
// ============================================================

// DefiniteIntegral returns F(b) - F(a) for an antiderivative F of f, taking
// limits at infinite bounds. When f has no closed form, or a pole of f may
// lie in [a, b], the unevaluated DefiniteIntegral node is returned.
func DefiniteIntegral(f Expr, v *Sym, a, b Expr) Expr {
	f, a, b = Simplify(f), Simplify(a), Simplify(b)
	symbolic := DefiniteIntegralOf(f, v, a, b)
	if a.Equal(b) {
		return zero
	}
	F, ok := TryIntegrate(f, v)
	if !ok || !safeInterval(f, v, a, b) {
		return symbolic
	}
	hi, err := boundValue(F, v, b, FromLeft)
	if err != nil {
		return symbolic
	}
	lo, err := boundValue(F, v, a, FromRight)
	if err != nil {
		return symbolic
	}
	out := Simplify(SubOf(hi, lo))
	if containsUndefined(out) || (isInfinite(hi) && isInfinite(lo)) {
		return symbolic
	}
	explain("definite_integral", "", symbolic, F, out)
	return out
}

func boundValue(F Expr, v *Sym, x Expr, dir Direction) (Expr, error) {
	if !isInfinite(x) {
		if r := Simplify(Subs(F, v, x)); !containsUndefined(r) {
			return r, nil
		}
	}
	return LimitDir(F, v, x, dir)
}

// safeInterval rejects intervals that contain a real pole of a rational
// integrand, and for other integrands with numeric bounds requires the
// quadrature estimate to converge.
func safeInterval(f Expr, v *Sym, a, b Expr) bool {
	lo, errA := boundFloat(a)
	hi, errB := boundFloat(b)
	if errA != nil || errB != nil {
		return true
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	_, den := NumerDenom(f)
	if _, err := ToUniPoly(den, v); err == nil {
		return !poleIn(den, v, lo, hi)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return true
	}
	_, err := NIntegrate(f, v, lo, hi)
	return err == nil
}

func boundFloat(x Expr) (float64, error) {
	switch {
	case x.Equal(Infinity):
		return math.Inf(1), nil
	case x.Equal(NegInfinity):
		return math.Inf(-1), nil
	}
	return Float64(x)
}

// poleIn reports a real root of the polynomial den in [lo, hi].
func poleIn(den Expr, v *Sym, lo, hi float64) bool {
	fl, err := FactorList(den, v)
	if err != nil {
		return true
	}
	for _, t := range fl.Factors {
		p, _ := ToUniPoly(t.Factor, v)
		var roots []float64
		switch p.Degree() {
		case 1:
			c0, _ := p.Coeff(0).Float64()
			c1, _ := p.Coeff(1).Float64()
			roots = []float64{-c0 / c1}
		case 2:
			c0, _ := p.Coeff(0).Float64()
			c1, _ := p.Coeff(1).Float64()
			c2, _ := p.Coeff(2).Float64()
			d := c1*c1 - 4*c2*c0
			if d < 0 {
				continue
			}
			s := math.Sqrt(d)
			roots = []float64{(-c1 - s) / (2 * c2), (-c1 + s) / (2 * c2)}
		default:
			// sign changes on a grid catch the odd-multiplicity roots
			if gridSignChange(t.Factor, v, lo, hi) {
				return true
			}
		}
		for _, r := range roots {
			if r >= lo && r <= hi {
				return true
			}
		}
	}
	return false
}

func gridSignChange(p Expr, v *Sym, lo, hi float64) bool {
	if math.IsInf(lo, 0) {
		lo = -1e6
	}
	if math.IsInf(hi, 0) {
		hi = 1e6
	}
	const n = 512
	prev := 0.0
	for i := 0; i <= n; i++ {
		x := lo + (hi-lo)*float64(i)/n
		y, err := Float64(Subs(p, v, NFloat(x)))
		if err != nil || y == 0 {
			return true
		}
		if i > 0 && (y < 0) != (prev < 0) {
			return true
		}
		prev = y
	}
	return false
}

// ============================================================
// Numerical integration
// ============================================================

// 10-point Gauss–Legendre nodes and weights on [-1, 1].
var (
	glNodes = [10]float64{
		-0.9739065285171717, -0.8650633666889845, -0.6794095682990244, -0.4333953941292472, -0.1488743389816312,
		0.1488743389816312, 0.4333953941292472, 0.6794095682990244, 0.8650633666889845, 0.9739065285171717,
	}
	glWeights = [10]float64{
		0.0666713443086881, 0.1494513491505806, 0.2190863625159820, 0.2692667193099963, 0.2955242247147529,
		0.2955242247147529, 0.2692667193099963, 0.2190863625159820, 0.1494513491505806, 0.0666713443086881,
	}
)

const (
	nintPanels   = 8
	nintMaxDepth = 24
	nintMaxSplit = 256
	nintTol      = 1e-10
)

// NIntegrate approximates ∫_a^b f dv by adaptive 10-point Gauss–Legendre
// quadrature. Infinite bounds are mapped onto finite ones. The panels are
// integrated concurrently. A ConvergenceFailed error comes with the best
// estimate found.
func NIntegrate(f Expr, v *Sym, a, b float64) (float64, error) {
	if a == b {
		return 0, nil
	}
	if a > b {
		r, err := NIntegrate(f, v, b, a)
		return -r, err
	}
	g := numericFunc(Simplify(f), v)
	switch {
	case math.IsInf(a, -1) && math.IsInf(b, 1):
		l, errL := NIntegrate(f, v, a, 0)
		r, errR := NIntegrate(f, v, 0, b)
		if errL != nil {
			return l + r, errL
		}
		return l + r, errR
	case math.IsInf(b, 1):
		// v = a + t/(1-t), t ∈ [0, 1)
		g, a, b = halfLine(g, a, 1), 0, 1
	case math.IsInf(a, -1):
		g, a, b = halfLine(g, b, -1), 0, 1
	}

	h := (b - a) / nintPanels
	parts := make([]float64, nintPanels)
	converged := true
	var mu sync.Mutex
	var eg errgroup.Group
	for i := 0; i < nintPanels; i++ {
		i := i
		lo := a + float64(i)*h
		hi := lo + h
		if i == nintPanels-1 {
			hi = b
		}
		eg.Go(func() error {
			whole, err := gaussLegendre(g, lo, hi)
			if err != nil {
				return err
			}
			budget := nintMaxSplit
			r, ok, err := adaptGL(g, lo, hi, whole, nintMaxDepth, &budget)
			if err != nil {
				return err
			}
			mu.Lock()
			parts[i] = r
			converged = converged && ok
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return math.NaN(), err
	}
	sum := 0.0
	for _, p := range parts {
		sum += p
	}
	if !converged || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return sum, newError(ConvergenceFailed, "nintegrate", "quadrature did not converge").WithValue(f.String())
	}
	return sum, nil
}

type realFunc func(float64) (float64, error)

func numericFunc(f Expr, v *Sym) realFunc {
	return func(x float64) (float64, error) {
		return Float64(Subs(f, v, NFloat(x)))
	}
}

// halfLine maps [0, 1) onto [x0, ±∞) through x = x0 + s·t/(1-t).
func halfLine(g realFunc, x0 float64, s float64) realFunc {
	return func(t float64) (float64, error) {
		u := 1 - t
		y, err := g(x0 + s*t/u)
		if err != nil {
			return 0, err
		}
		return y / (u * u), nil
	}
}

func gaussLegendre(g realFunc, a, b float64) (float64, error) {
	m, r := (a+b)/2, (b-a)/2
	sum := 0.0
	for i, x := range glNodes {
		y, err := g(m + r*x)
		if err != nil {
			return 0, err
		}
		sum += glWeights[i] * y
	}
	return r * sum, nil
}

// adaptGL bisects until the halves agree with the whole. budget caps the
// bisections of one panel.
func adaptGL(g realFunc, a, b, whole float64, depth int, budget *int) (float64, bool, error) {
	m := (a + b) / 2
	l, err := gaussLegendre(g, a, m)
	if err != nil {
		return 0, false, err
	}
	r, err := gaussLegendre(g, m, b)
	if err != nil {
		return 0, false, err
	}
	if math.Abs(l+r-whole) <= nintTol*math.Max(1, math.Abs(l+r)) {
		return l + r, true, nil
	}
	if depth == 0 || *budget <= 0 {
		return l + r, false, nil
	}
	*budget--
	lv, lok, err := adaptGL(g, a, m, l, depth-1, budget)
	if err != nil {
		return 0, false, err
	}
	rv, rok, err := adaptGL(g, m, b, r, depth-1, budget)
	if err != nil {
		return 0, false, err
	}
	return lv + rv, lok && rok, nil
}

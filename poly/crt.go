package poly

import (
	"math/big"
)

// crtState tracks multi-prime reconstruction.
type crtState int

const (
	crtInit crtState = iota
	crtAccumulating
	crtConverged
	crtFailed
)

func (s crtState) String() string {
	switch s {
	case crtInit:
		return "init"
	case crtAccumulating:
		return "accumulating"
	case crtConverged:
		return "converged"
	case crtFailed:
		return "failed"
	}
	return "unknown"
}

// crtAccumulator combines modular images of one integer polynomial by the
// Chinese remainder theorem. Images whose leading monomial exceeds the
// current one come from unlucky primes and are skipped; a smaller leading
// monomial means every earlier prime was unlucky and restarts the
// reconstruction.
type crtAccumulator struct {
	state   crtState
	n       int
	modulus *big.Int
	coeffs  map[string]*big.Int
	exps    map[string]Monomial
	lead    Monomial
	stable  bool
	primes  int
	limit   int
}

func newCRTAccumulator(n, limit int) *crtAccumulator {
	return &crtAccumulator{state: crtInit, n: n, limit: limit}
}

// exhausted reports whether another prime may be consumed. Reaching the
// limit moves the accumulator to crtFailed.
func (a *crtAccumulator) exhausted() bool {
	if a.state == crtFailed {
		return true
	}
	if a.primes >= a.limit {
		a.state = crtFailed
		return true
	}
	return false
}

// add consumes the image img computed modulo p.
func (a *crtAccumulator) add(img pmpoly) {
	a.primes++
	a.stable = false
	p := new(big.Int).SetUint64(img.p)
	lead := img.lm()

	if a.state == crtInit || lexCompare(lead, a.lead) < 0 {
		a.reset(img, p)
		return
	}
	if lexCompare(lead, a.lead) > 0 {
		return
	}

	before := a.symmetricCoeffs()
	imgCoeffs := make(map[string]uint64, len(img.t))
	for _, t := range img.t {
		k := t.e.key()
		imgCoeffs[k] = t.c
		if _, ok := a.exps[k]; !ok {
			a.exps[k] = t.e
			a.coeffs[k] = new(big.Int)
		}
	}
	mInv := new(big.Int).ModInverse(new(big.Int).Mod(a.modulus, p), p)
	for k, h := range a.coeffs {
		// x = h + m * ((r - h) * m^-1 mod p)
		r := new(big.Int).SetUint64(imgCoeffs[k])
		d := new(big.Int).Sub(r, h)
		d.Mul(d, mInv)
		d.Mod(d, p)
		d.Mul(d, a.modulus)
		h.Add(h, d)
	}
	a.modulus.Mul(a.modulus, p)
	for k, h := range a.coeffs {
		h.Mod(h, a.modulus)
		if h.Sign() == 0 {
			delete(a.coeffs, k)
			delete(a.exps, k)
		}
	}
	a.stable = sameCoeffs(before, a.symmetricCoeffs())
}

func (a *crtAccumulator) reset(img pmpoly, p *big.Int) {
	a.state = crtAccumulating
	a.modulus = new(big.Int).Set(p)
	a.coeffs = make(map[string]*big.Int, len(img.t))
	a.exps = make(map[string]Monomial, len(img.t))
	a.lead = img.lm().clone()
	for _, t := range img.t {
		k := t.e.key()
		a.coeffs[k] = new(big.Int).SetUint64(t.c)
		a.exps[k] = t.e
	}
}

func (a *crtAccumulator) symmetricCoeffs() map[string]*big.Int {
	out := make(map[string]*big.Int, len(a.coeffs))
	for k, h := range a.coeffs {
		out[k] = symmetric(h, a.modulus)
	}
	return out
}

func sameCoeffs(x, y map[string]*big.Int) bool {
	if len(x) != len(y) {
		return false
	}
	for k, v := range x {
		w, ok := y[k]
		if !ok || v.Cmp(w) != 0 {
			return false
		}
	}
	return true
}

// candidate returns the symmetric lift of the current reconstruction.
func (a *crtAccumulator) candidate() *MPoly {
	terms := make([]Term, 0, len(a.coeffs))
	for k, h := range a.symmetricCoeffs() {
		terms = append(terms, Term{Exp: a.exps[k], Coef: new(big.Rat).SetInt(h)})
	}
	return NewMPoly(a.n, Lex, terms...)
}

func (a *crtAccumulator) converge() { a.state = crtConverged }

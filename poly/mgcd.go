package poly

import (
	"math/big"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/gocas/internal/casterr"
)

// MGCD returns gcd(f, g) for multivariate polynomials over Q using
// DefaultConfig. See MGCDWithConfig.
func MGCD(f, g *MPoly) (*MPoly, error) {
	return MGCDWithConfig(f, g, DefaultConfig())
}

// MGCDWithConfig computes the gcd of f and g, normalized to the gcd of
// their contents times a primitive integer polynomial whose lex-leading
// coefficient is positive, returned in f's monomial order.
//
// Each prime gives a modular image computed by evaluating the trailing
// variables at random points, taking univariate gcds, and interpolating the
// images back one variable at a time (Newton form of Lagrange
// interpolation). Images are combined across primes by CRT and the
// stabilized candidate is accepted only after trial division. Variables are
// reordered so the one with the largest common degree is the main variable.
func MGCDWithConfig(f, g *MPoly, cfg Config) (*MPoly, error) {
	if f.nvars != g.nvars {
		return nil, errVars("mgcd", f.nvars, g.nvars)
	}
	if f.IsZero() && g.IsZero() {
		return Zero(f.nvars, f.order), nil
	}
	c := ratContent([]*big.Rat{f.Content(), g.Content()})
	h, err := primitiveMGCD(f, g, cfg)
	return h.Scale(c), err
}

// primitiveMGCD returns the primitive part of gcd(f, g) in f's order. At
// most one of f and g is zero.
func primitiveMGCD(f, g *MPoly, cfg Config) (*MPoly, error) {
	n, order := f.nvars, f.order
	switch {
	case f.IsZero():
		return lexPrimitive(g).WithOrder(order), nil
	case g.IsZero():
		return lexPrimitive(f).WithOrder(order), nil
	}
	F, G := lexPrimitive(f), lexPrimitive(g)

	vars := activeVars(F, G)
	one := Constant(n, order, ratInt(1))
	switch len(vars) {
	case 0:
		return one, nil
	case 1:
		uf, _ := F.ToUnivariate(vars[0])
		ug, _ := G.ToUnivariate(vars[0])
		h, err := GCDWithConfig(uf, ug, cfg)
		if err != nil {
			return one, err
		}
		return FromUnivariate(h, n, order, vars[0]), nil
	}

	res, err := modularMGCD(F.Permute(vars), G.Permute(vars), cfg)
	if err != nil {
		return one, err
	}
	terms := make([]Term, 0, len(res.terms))
	for _, t := range res.terms {
		m := One(n)
		for i, src := range vars {
			m[src] = t.Exp[i]
		}
		terms = append(terms, Term{Exp: m, Coef: t.Coef})
	}
	return NewMPoly(n, order, terms...), nil
}

// lexPrimitive returns the integer primitive part of f in lex order.
func lexPrimitive(f *MPoly) *MPoly {
	return f.WithOrder(Lex).PrimitivePart()
}

// activeVars lists variables occurring in f or g, ordered by decreasing
// common degree.
func activeVars(f, g *MPoly) []int {
	var vars []int
	for i := 0; i < f.nvars; i++ {
		if f.Degree(i) > 0 || g.Degree(i) > 0 {
			vars = append(vars, i)
		}
	}
	weight := func(i int) int { return min(max(f.Degree(i), 0), max(g.Degree(i), 0)) }
	sort.SliceStable(vars, func(a, b int) bool { return weight(vars[a]) > weight(vars[b]) })
	return vars
}

func modularMGCD(F, G *MPoly, cfg Config) (*MPoly, error) {
	k := F.nvars
	lcF, lcG := F.LC().Num(), G.LC().Num()
	gamma := new(big.Int).GCD(nil, nil, new(big.Int).Abs(lcF), new(big.Int).Abs(lcG))
	acc := newCRTAccumulator(k, cfg.MaxCRTIterations)

	for i, p := range Primes() {
		if acc.exhausted() {
			break
		}
		if modBig(lcF, p) == 0 || modBig(lcG, p) == 0 {
			continue
		}
		a, b := reduceMPoly(F, p), reduceMPoly(G, p)
		c, err := pgcd(a, b, k-1, cfg.Seed+int64(i), cfg, true)
		if err != nil {
			acc.primes++
			continue
		}
		if c.isConstant() {
			gcdPrimesUsed.WithLabelValues("multivariate").Observe(float64(acc.primes + 1))
			return Constant(k, Lex, ratInt(1)), nil
		}
		acc.add(c.monic().scale(modBig(gamma, p)))
		if !acc.stable {
			continue
		}
		cand := acc.candidate().PrimitivePart()
		if _, ok := F.ExactDiv(cand); !ok {
			continue
		}
		if _, ok := G.ExactDiv(cand); !ok {
			continue
		}
		acc.converge()
		gcdPrimesUsed.WithLabelValues("multivariate").Observe(float64(acc.primes))
		return cand, nil
	}
	gcdFailures.WithLabelValues("multivariate").Inc()
	return nil, casterr.New(casterr.KindConvergenceFailed, "mgcd",
		"modular images did not stabilize").WithLimit(cfg.MaxCRTIterations)
}

// pgcd returns the monic gcd of a and b in Z/pZ[x0..xk]. Variable k is
// eliminated by evaluation and recovered by interpolation.
func pgcd(a, b pmpoly, k int, seed int64, cfg Config, parallel bool) (pmpoly, error) {
	if a.isZero() {
		return b.monic(), nil
	}
	if b.isZero() {
		return a.monic(), nil
	}
	if k == 0 {
		h := a.toModPoly(0).GCD(b.toModPoly(0))
		return fromModPoly(a.n, 0, h), nil
	}
	p, n := a.p, a.n

	ga, gb := a.groups(k), b.groups(k)
	ca, cb := groupContent(ga, p), groupContent(gb, p)
	a1 := fromGroups(n, p, k, divGroups(ga, ca))
	b1 := fromGroups(n, p, k, divGroups(gb, cb))
	c := ca.GCD(cb)
	gam := a1.groups(k)[0].c.GCD(b1.groups(k)[0].c)
	bound := gam.Degree() + min(a1.degVar(k), b1.degVar(k))

	rng := rand.New(rand.NewSource(seed))
	used := make(map[uint64]bool)
	var (
		interp []group
		lead   Monomial
		q      = NewModPoly(p, 1)
		npts   int
		tried  int
	)
	for {
		need := max(1, bound+1-npts)
		pts := make([]uint64, 0, need)
		for len(pts) < need {
			tried++
			if tried > cfg.MaxEvalPoints {
				return pmpoly{}, casterr.New(casterr.KindConvergenceFailed, "pgcd",
					"evaluation points exhausted").WithLimit(cfg.MaxEvalPoints)
			}
			v := uint64(rng.Int63n(int64(p-1))) + 1
			if used[v] || gam.Eval(v) == 0 {
				continue
			}
			used[v] = true
			pts = append(pts, v)
		}

		images, err := evalImages(a1, b1, k, pts, seed, cfg, parallel)
		if err != nil {
			return pmpoly{}, err
		}

		for i, v := range pts {
			h := images[i]
			if h.isConstant() {
				return fromModPoly(n, k, c), nil
			}
			h = h.scale(gam.Eval(v))
			hl := h.lm()
			switch {
			case lead == nil || lexCompare(hl, lead) < 0:
				interp = h.groups(k)
				lead = hl.clone()
				q = NewModPoly(p, p-v, 1)
				npts = 1
				continue
			case lexCompare(hl, lead) > 0:
				continue
			}
			interp = newtonStep(interp, h.groups(k), q, v, p)
			q = q.Mul(NewModPoly(p, p-v, 1))
			npts++
		}

		if npts <= bound {
			continue
		}
		C := fromGroups(n, p, k, interp)
		cg := C.groups(k)
		C = fromGroups(n, p, k, divGroups(cg, groupContent(cg, p)))
		if _, ok := a1.divExact(C); !ok {
			continue
		}
		if _, ok := b1.divExact(C); !ok {
			continue
		}
		return C.mul(fromModPoly(n, k, c)).monic(), nil
	}
}

// evalImages computes gcd images at each point, concurrently when parallel
// is set. Results are positionally aligned with pts.
func evalImages(a, b pmpoly, k int, pts []uint64, seed int64, cfg Config, parallel bool) ([]pmpoly, error) {
	out := make([]pmpoly, len(pts))
	if !parallel || len(pts) == 1 {
		for i, v := range pts {
			h, err := pgcd(a.evalVar(k, v), b.evalVar(k, v), k-1, seed+int64(v), cfg, false)
			if err != nil {
				return nil, err
			}
			out[i] = h
		}
		return out, nil
	}
	var g errgroup.Group
	g.SetLimit(cfg.workers())
	for i, v := range pts {
		i, v := i, v
		g.Go(func() error {
			h, err := pgcd(a.evalVar(k, v), b.evalVar(k, v), k-1, seed+int64(v), cfg, false)
			if err != nil {
				return err
			}
			out[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// newtonStep extends the interpolant H (agreeing with earlier images at the
// roots of q) so that it also agrees with h at v.
func newtonStep(H, h []group, q ModPoly, v, p uint64) []group {
	idx := make(map[string]int, len(H))
	out := make([]group, len(H))
	for i, g := range H {
		out[i] = group{e: g.e, c: g.c}
		idx[g.e.key()] = i
	}
	vals := make(map[string]uint64, len(h))
	for _, g := range h {
		key := g.e.key()
		vals[key] = g.c.Coeff(0)
		if _, ok := idx[key]; !ok {
			idx[key] = len(out)
			out = append(out, group{e: g.e, c: ModPoly{p: p}})
		}
	}
	qinv := invMod(q.Eval(v), p)
	for i, g := range out {
		delta := mulMod(subMod(vals[g.e.key()], g.c.Eval(v), p), qinv, p)
		if delta != 0 {
			out[i].c = g.c.Add(q.Scale(delta))
		}
	}
	kept := out[:0]
	for _, g := range out {
		if !g.c.IsZero() {
			kept = append(kept, g)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return lexCompare(kept[i].e, kept[j].e) > 0 })
	return kept
}

func groupContent(gs []group, p uint64) ModPoly {
	c := ModPoly{p: p}
	for _, g := range gs {
		c = c.GCD(g.c)
		if c.Degree() == 0 {
			break
		}
	}
	return c.Monic()
}

func divGroups(gs []group, c ModPoly) []group {
	out := make([]group, len(gs))
	for i, g := range gs {
		q, _, _ := g.c.DivMod(c)
		out[i] = group{e: g.e, c: q}
	}
	return out
}

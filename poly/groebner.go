package poly

import (
	"sort"

	"github.com/njchilds90/gocas/internal/casterr"
)

type critPair struct {
	i, j int
	lcm  Monomial
}

// Groebner returns the reduced Groebner basis of the ideal generated by fs
// under order, using Buchberger's algorithm with the normal selection
// strategy and the coprime and chain criteria. Basis elements are monic and
// sorted by decreasing leading monomial.
func Groebner(fs []*MPoly, order Order, cfg Config) ([]*MPoly, error) {
	var basis []*MPoly
	nvars := -1
	for _, f := range fs {
		if nvars >= 0 && f.nvars != nvars {
			return nil, errVars("groebner", nvars, f.nvars)
		}
		nvars = f.nvars
		if f.IsZero() {
			continue
		}
		basis = append(basis, f.WithOrder(order).Monic())
	}
	if len(basis) == 0 {
		return nil, nil
	}

	pending := make(map[[2]int]bool)
	var pairs []critPair
	addPairs := func(j int) {
		for i := 0; i < j; i++ {
			pairs = append(pairs, critPair{i: i, j: j, lcm: basis[i].LM().LCM(basis[j].LM())})
			pending[[2]int{i, j}] = true
		}
	}
	for j := 1; j < len(basis); j++ {
		addPairs(j)
	}

	reduced := 0
	for len(pairs) > 0 {
		// normal selection: smallest lcm first
		best := 0
		for k := 1; k < len(pairs); k++ {
			if order.Compare(pairs[k].lcm, pairs[best].lcm) < 0 {
				best = k
			}
		}
		pr := pairs[best]
		pairs = append(pairs[:best], pairs[best+1:]...)
		delete(pending, [2]int{pr.i, pr.j})

		fi, fj := basis[pr.i], basis[pr.j]
		if fi.LM().Coprime(fj.LM()) || chainCriterion(basis, pending, pr) {
			continue
		}

		reduced++
		if reduced > cfg.GroebnerMaxIterations {
			groebnerPairs.Observe(float64(reduced))
			return nil, casterr.New(casterr.KindMaxIterationsExceeded, "groebner",
				"too many S-polynomial reductions").WithLimit(cfg.GroebnerMaxIterations)
		}
		r, err := sPoly(fi, fj, pr.lcm).Reduce(basis...)
		if err != nil {
			return nil, err
		}
		if r.IsZero() {
			continue
		}
		basis = append(basis, r.Monic())
		addPairs(len(basis) - 1)
	}
	groebnerPairs.Observe(float64(reduced))
	return reduceBasis(basis)
}

// chainCriterion reports whether some other basis element's leading
// monomial divides lcm(i, j) while both of its pairs with i and j are
// already treated, which makes the S-polynomial of (i, j) redundant.
func chainCriterion(basis []*MPoly, pending map[[2]int]bool, pr critPair) bool {
	key := func(a, b int) [2]int {
		if a > b {
			a, b = b, a
		}
		return [2]int{a, b}
	}
	for k := range basis {
		if k == pr.i || k == pr.j {
			continue
		}
		if !basis[k].LM().Divides(pr.lcm) {
			continue
		}
		if !pending[key(pr.i, k)] && !pending[key(pr.j, k)] {
			return true
		}
	}
	return false
}

func sPoly(f, g *MPoly, lcm Monomial) *MPoly {
	ft, gt := f.LeadingTerm(), g.LeadingTerm()
	a := f.MulTerm(lcm.Div(ft.Exp), ratQuo(ratInt(1), ft.Coef))
	b := g.MulTerm(lcm.Div(gt.Exp), ratQuo(ratInt(1), gt.Coef))
	return a.Sub(b)
}

// reduceBasis turns a Groebner basis into the unique reduced basis.
func reduceBasis(basis []*MPoly) ([]*MPoly, error) {
	var minimal []*MPoly
	for i, f := range basis {
		redundant := false
		for j, g := range basis {
			if i == j {
				continue
			}
			if g.LM().Divides(f.LM()) && (!f.LM().Equal(g.LM()) || j < i) {
				redundant = true
				break
			}
		}
		if !redundant {
			minimal = append(minimal, f)
		}
	}
	out := make([]*MPoly, len(minimal))
	for i, f := range minimal {
		others := make([]*MPoly, 0, len(minimal)-1)
		others = append(others, minimal[:i]...)
		others = append(others, minimal[i+1:]...)
		r := f
		if len(others) > 0 {
			var err error
			if r, err = reduceTail(f, others); err != nil {
				return nil, err
			}
		}
		out[i] = r.Monic()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].order.Compare(out[i].LM(), out[j].LM()) > 0
	})
	return out, nil
}

// reduceTail keeps f's leading term and reduces the rest modulo others.
func reduceTail(f *MPoly, others []*MPoly) (*MPoly, error) {
	lt := f.LeadingTerm()
	tail := f.with(f.terms[1:])
	r, err := tail.Reduce(others...)
	if err != nil {
		return nil, err
	}
	return NewMPoly(f.nvars, f.order, lt).Add(r), nil
}

package poly

import (
	"math/big"
)

// Resultant returns the resultant of univariate f and g over Q by the
// Euclidean recurrence res(f, g) = (-1)^(mn) lc(g)^(m-s) res(g, f mod g).
func Resultant(f, g Poly) *big.Rat {
	if f.IsZero() || g.IsZero() {
		return new(big.Rat)
	}
	acc := ratInt(1)
	for {
		m, n := f.Degree(), g.Degree()
		if n == 0 {
			return acc.Mul(acc, ratPow(g.LC(), m))
		}
		_, r, _ := f.DivMod(g)
		if r.IsZero() {
			return new(big.Rat)
		}
		s := r.Degree()
		if (m*n)%2 == 1 {
			acc.Neg(acc)
		}
		acc.Mul(acc, ratPow(g.LC(), m-s))
		f, g = g, r
	}
}

func ratPow(r *big.Rat, n int) *big.Rat {
	num := new(big.Int).Exp(r.Num(), big.NewInt(int64(n)), nil)
	den := new(big.Int).Exp(r.Denom(), big.NewInt(int64(n)), nil)
	return new(big.Rat).SetFrac(num, den)
}

// Sylvester returns the Sylvester matrix of f and g with respect to
// variable i. Entries are polynomials in the remaining variables.
func Sylvester(f, g *MPoly, i int) [][]*MPoly {
	fc, gc := f.CoeffsIn(i), g.CoeffsIn(i)
	m, n := len(fc)-1, len(gc)-1
	size := m + n
	zero := Zero(f.nvars, f.order)
	mat := make([][]*MPoly, size)
	for r := range mat {
		mat[r] = make([]*MPoly, size)
		for c := range mat[r] {
			mat[r][c] = zero
		}
	}
	for r := 0; r < n; r++ {
		for j := 0; j <= m; j++ {
			mat[r][r+j] = fc[m-j]
		}
	}
	for r := 0; r < m; r++ {
		for j := 0; j <= n; j++ {
			mat[n+r][r+j] = gc[n-j]
		}
	}
	return mat
}

// MResultant eliminates variable i from f and g, returning the determinant
// of their Sylvester matrix computed by fraction-free Bareiss elimination.
func MResultant(f, g *MPoly, i int) (*MPoly, error) {
	if f.nvars != g.nvars {
		return nil, errVars("resultant", f.nvars, g.nvars)
	}
	if i < 0 || i >= f.nvars {
		return nil, errInvalid("resultant", "variable out of range").WithValue(itoa(i))
	}
	if f.IsZero() || g.IsZero() {
		return Zero(f.nvars, f.order), nil
	}
	m, n := f.Degree(i), g.Degree(i)
	switch {
	case m == 0 && n == 0:
		return Constant(f.nvars, f.order, ratInt(1)), nil
	case m == 0:
		return f.Pow(n), nil
	case n == 0:
		return g.Pow(m), nil
	}
	return Bareiss(Sylvester(f, g, i))
}

// Bareiss returns the determinant of a square matrix of polynomials using
// fraction-free elimination; every division is exact.
func Bareiss(mat [][]*MPoly) (*MPoly, error) {
	size := len(mat)
	if size == 0 {
		return nil, errInvalid("bareiss", "empty matrix")
	}
	a := make([][]*MPoly, size)
	for r := range mat {
		if len(mat[r]) != size {
			return nil, errVars("bareiss", size, len(mat[r]))
		}
		a[r] = append([]*MPoly(nil), mat[r]...)
	}
	nv, order := a[0][0].nvars, a[0][0].order
	sign := 1
	prev := Constant(nv, order, ratInt(1))
	for k := 0; k < size-1; k++ {
		if a[k][k].IsZero() {
			swap := -1
			for r := k + 1; r < size; r++ {
				if !a[r][k].IsZero() {
					swap = r
					break
				}
			}
			if swap < 0 {
				return Zero(nv, order), nil
			}
			a[k], a[swap] = a[swap], a[k]
			sign = -sign
		}
		for r := k + 1; r < size; r++ {
			for c := k + 1; c < size; c++ {
				num := a[r][c].Mul(a[k][k]).Sub(a[r][k].Mul(a[k][c]))
				q, ok := num.ExactDiv(prev)
				if !ok {
					return nil, errInvalid("bareiss", "inexact elimination step")
				}
				a[r][c] = q
			}
		}
		prev = a[k][k]
	}
	det := a[size-1][size-1]
	if sign < 0 {
		det = det.Neg()
	}
	return det, nil
}

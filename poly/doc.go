// Package poly is the representation-level polynomial kernel: dense
// univariate polynomials over Q (Poly), univariate polynomials over Z/pZ
// (ModPoly), sparse multivariate polynomials over Q with selectable monomial
// order (MPoly), and the algorithms built on them: modular and multivariate
// GCD, resultants, Groebner bases, factorization over Z and partial
// fractions.
//
// Values are immutable; every operation returns a fresh polynomial.
package poly

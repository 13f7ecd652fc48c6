// Package gocas is a symbolic computer algebra kernel for Go.
//
// Expressions are immutable trees built through smart constructors (AddOf,
// MulOf, PowOf, FuncOf, ...) that always return canonical forms: numbers
// are exact rationals or big integers unless a float enters, like terms
// and like bases are combined, and operands are sorted by a fixed total
// order, so equal values have equal trees and equal hashes.
//
// On top of the core sit a polynomial kernel (package poly: modular GCD,
// factorization over Z, resultants, Gröbner bases), differentiation,
// heuristic and rational integration that never reports a wrong
// antiderivative, limits and series, equation solvers, matrix algebra and
// vector calculus.
//
// Everything can be serialized to JSON, and HandleToolCall exposes the
// operations as MCP tools; cmd/mcp-server serves them over HTTP.
//
// Errors are *Error values tagged with an ErrorKind and match the Err*
// sentinels with errors.Is. Simplify, Substitute and String never fail;
// invalid operations produce the undefined leaf instead.
package gocas

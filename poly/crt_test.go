package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func image(p uint64, terms ...mterm) pmpoly {
	return newPM(1, p, terms)
}

func TestCRTStateMachine(t *testing.T) {
	ps := Primes()
	acc := newCRTAccumulator(1, 3)
	assert.Equal(t, crtInit, acc.state)

	// x - 1 modulo two primes
	acc.add(image(ps[0], mterm{e: Monomial{1}, c: 1}, mterm{e: Monomial{0}, c: ps[0] - 1}))
	assert.Equal(t, crtAccumulating, acc.state)
	assert.False(t, acc.stable)

	acc.add(image(ps[1], mterm{e: Monomial{1}, c: 1}, mterm{e: Monomial{0}, c: ps[1] - 1}))
	assert.True(t, acc.stable)
	assert.Equal(t, "x0 - 1", acc.candidate().String())

	// a lower-degree image restarts, a higher one is ignored
	acc.add(image(ps[2], mterm{e: Monomial{0}, c: 5}))
	assert.Equal(t, "5", acc.candidate().String())
	assert.True(t, acc.exhausted())
	assert.Equal(t, crtFailed, acc.state)
}

func TestCRTSkipsUnluckyImage(t *testing.T) {
	ps := Primes()
	acc := newCRTAccumulator(1, 10)
	acc.add(image(ps[0], mterm{e: Monomial{1}, c: 1}))
	acc.add(image(ps[1], mterm{e: Monomial{2}, c: 1}))
	assert.Equal(t, "x0", acc.candidate().String())
	assert.False(t, acc.stable)
	acc.converge()
	assert.Equal(t, "converged", acc.state.String())
}

func TestModArithmetic(t *testing.T) {
	p := uint64(2147483647)
	assert.Equal(t, uint64(1), mulMod(invMod(12345, p), 12345, p))
	assert.Equal(t, uint64(p-1), subMod(0, 1, p))
	assert.Equal(t, uint64(0), addMod(p-1, 1, p))

	f := NewModPoly(7, 6, 0, 1) // x^2 - 1 mod 7
	g := NewModPoly(7, 6, 1)    // x - 1
	assert.Equal(t, NewModPoly(7, 6, 1), f.GCD(g))
	assert.Equal(t, uint64(0), f.Eval(1))
}

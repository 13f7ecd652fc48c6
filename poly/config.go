package poly

import "runtime"

// Config bounds the iterative algorithms.
type Config struct {
	// MaxEvalPoints caps evaluation points per interpolated variable in the
	// multivariate GCD.
	MaxEvalPoints int

	// MaxCRTIterations caps the number of primes tried by modular GCDs.
	MaxCRTIterations int

	// GroebnerMaxIterations caps S-polynomial reductions in Buchberger.
	GroebnerMaxIterations int

	// Workers bounds concurrent image evaluations. Values < 1 mean 1.
	Workers int

	// Seed makes evaluation points and factor splitting reproducible.
	Seed int64
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxEvalPoints:         256,
		MaxCRTIterations:      64,
		GroebnerMaxIterations: 10000,
		Workers:               runtime.GOMAXPROCS(0),
		Seed:                  1,
	}
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}

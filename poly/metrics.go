package poly

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// gcdPrimesUsed tracks how many primes a modular GCD consumed
	gcdPrimesUsed = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gocas_poly_gcd_primes",
		Help:    "Primes consumed per modular GCD",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16, 32, 64},
	}, []string{"algorithm"})

	// gcdFailures counts GCDs that exhausted their prime budget
	gcdFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gocas_poly_gcd_failures_total",
		Help: "Modular GCDs that failed to converge",
	}, []string{"algorithm"})

	// groebnerPairs tracks S-polynomial reductions per Buchberger run
	groebnerPairs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gocas_poly_groebner_pairs",
		Help:    "Critical pairs reduced per Groebner basis computation",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14),
	})

	// factorPrimeBits tracks the size of the prime used for factorization
	factorPrimeBits = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gocas_poly_factor_prime_bits",
		Help:    "Bit length of the modulus used by Cantor-Zassenhaus",
		Buckets: prometheus.LinearBuckets(16, 16, 10),
	})
)

package gocas

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheLookups counts simplification cache lookups by tier and result
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gocas_simplify_cache_lookups_total",
		Help: "Simplification cache lookups",
	}, []string{"tier", "result"})

	// cacheEvictions counts LRU evictions
	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gocas_simplify_cache_evictions_total",
		Help: "Entries evicted from the simplification LRU",
	})

	// integrateOutcomes counts which integration layer produced the answer
	integrateOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gocas_integrate_outcomes_total",
		Help: "Integration results by strategy",
	}, []string{"strategy"})

	// solveOutcomes counts equation-solver paths
	solveOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gocas_solve_outcomes_total",
		Help: "Solver results by method",
	}, []string{"method"})
)

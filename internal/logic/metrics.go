package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	matchesRated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rating_matches_rated_total",
		Help: "Total number of matches rated, by engine",
	}, []string{"engine"})

	ratingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rating_failures_total",
		Help: "Total number of failed rating or quality requests, by kind",
	}, []string{"kind"})

	convergenceIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rating_convergence_iterations",
		Help:    "Difference loop passes needed per factor-graph match",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 100},
	})

	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rating_compute_duration_seconds",
		Help:    "Duration of rating computations",
		Buckets: prometheus.ExponentialBuckets(0.00005, 4, 10),
	}, []string{"operation"})
)

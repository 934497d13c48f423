package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pirate_generations_total",
			Help: "Total generator calls by backend and outcome",
		},
		[]string{"backend", "outcome"}, // outcome: "ok" or "error"
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pirate_generation_duration_seconds",
			Help:    "Duration of generator calls in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 20.0, 30.0, 60.0},
		},
		[]string{"backend"},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pirate_sessions_created_total",
			Help: "Total chat sessions opened over HTTP",
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pirate_rate_limit_exceeded_total",
			Help: "Total requests rejected by the rate limiter",
		},
	)
)

// ObserveGeneration records one generator call.
func ObserveGeneration(backend string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	GenerationsTotal.WithLabelValues(backend, outcome).Inc()
	GenerationDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

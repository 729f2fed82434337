// Package metrics holds the prometheus collectors for provider calls and validation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sfh"

var (
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Provider queries by outcome (ok, error).",
	}, []string{"provider", "outcome"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_latency_seconds",
		Help:      "Latency of provider queries.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"provider"})

	Failovers = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failovers_total",
		Help:      "Times the orchestrator moved on to another provider after a failure.",
	})

	Validations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validations_total",
		Help:      "Validation outcomes (pass, fail, error).",
	}, []string{"result"})

	CoherenceScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "coherence_score",
		Help:      "Distribution of coherence scores.",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})

	RepairAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "repair_attempts",
		Help:      "Attempts used per auto-repair exchange.",
		Buckets:   []float64{1, 2, 3, 4, 5},
	})

	RateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_waits_total",
		Help:      "Times a provider call blocked on its rate limiter.",
	}, []string{"provider"})

	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Sessions removed by the expiry sweep.",
	})
)

// Package metrics holds the Prometheus collectors exposed at /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
	OutcomeCached  = "cached"
)

// Source check outcomes
const (
	SourceAccessible   = "accessible"
	SourceInaccessible = "inaccessible"
	SourceBlocked      = "robots_blocked"
)

var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betthink_analyses_total",
		Help: "Match analyses by provider and outcome",
	}, []string{"provider", "outcome"})

	ProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "betthink_provider_duration_seconds",
		Help:    "Duration of completion calls",
		Buckets: []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90, 120, 180},
	}, []string{"provider"})

	ProviderTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betthink_provider_tokens_total",
		Help: "Tokens reported by completion providers",
	}, []string{"provider"})

	PredictionsParsed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "betthink_predictions_parsed",
		Help:    "Prediction lines parsed per analysis",
		Buckets: []float64{0, 1, 4, 7, 8, 9, 12},
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betthink_cache_lookups_total",
		Help: "Report cache lookups by result",
	}, []string{"result"})

	SourceChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betthink_source_checks_total",
		Help: "Grounding source verifications by outcome",
	}, []string{"outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betthink_http_requests_total",
		Help: "HTTP API requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "betthink_http_request_duration_seconds",
		Help:    "HTTP API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betthink_http_rate_limited_total",
		Help: "HTTP requests rejected by the per-client rate limit",
	})
)

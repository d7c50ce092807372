package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the game and provider collectors
type Metrics struct {
	Guesses          *prometheus.CounterVec
	Completions      *prometheus.CounterVec
	Hints            *prometheus.CounterVec
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	CacheHits        *prometheus.CounterVec
}

// New registers the collectors with reg. A nil registerer creates a private
// registry so tests can build several instances.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Guesses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reeldle",
			Name:      "guesses_total",
			Help:      "Guesses recorded, by mode and correctness.",
		}, []string{"mode", "correct"}),
		Completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reeldle",
			Name:      "sessions_completed_total",
			Help:      "Sessions that reached a terminal state, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		Hints: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reeldle",
			Name:      "hints_used_total",
			Help:      "Hints revealed, by mode.",
		}, []string{"mode"}),
		ProviderRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reeldle",
			Name:      "provider_requests_total",
			Help:      "Provider API requests, by operation and result.",
		}, []string{"operation", "result"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reeldle",
			Name:      "provider_request_duration_seconds",
			Help:      "Provider API request latency, including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reeldle",
			Name:      "provider_cache_total",
			Help:      "Provider cache lookups, by operation and hit or miss.",
		}, []string{"operation", "result"}),
	}
}

package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FeedFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moometrics_feed_fetches_total",
			Help: "Upstream feed fetches",
		},
		[]string{"source", "status"}, // status: success|network|malformed
	)

	FeedFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moometrics_feed_fetch_duration_seconds",
			Help:    "Upstream feed fetch latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)

	FeedItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moometrics_feed_items",
			Help: "Items in the latest successful snapshot of a feed",
		},
		[]string{"source"},
	)

	UnknownImpactPhrases = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moometrics_unknown_impact_phrases_total",
			Help: "Impact phrases that fell back to the Unknown label",
		},
	)

	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moometrics_api_requests_total",
			Help: "Dashboard API requests",
		},
		[]string{"route", "code"},
	)

	DigestsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moometrics_digests_total",
			Help: "Digest deliveries",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// Register adds all collectors to the default registry. Safe to call twice.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			FeedFetches,
			FeedFetchDuration,
			FeedItems,
			UnknownImpactPhrases,
			APIRequests,
			DigestsSent,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records one fetch outcome.
func ObserveFetch(source, status string, started time.Time) {
	FeedFetches.WithLabelValues(source, status).Inc()
	FeedFetchDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
}

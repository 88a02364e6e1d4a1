package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haytac/emojiril/internal/shortname"
)

var (
	// DocumentsRewritten counts rewrite calls.
	DocumentsRewritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emojiril_documents_rewritten_total",
			Help: "Total number of documents passed through the rewriter.",
		},
		[]string{"source", "status"}, // source: http, cli, feed; status: success, error
	)

	// Tokens counts shortname tokens by outcome.
	Tokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emojiril_tokens_total",
			Help: "Total number of shortname tokens seen, by outcome.",
		},
		[]string{"outcome"}, // replaced, escaped, unknown
	)

	// RewriteDuration observes how long a rewrite took.
	RewriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emojiril_rewrite_duration_seconds",
			Help:    "Time spent parsing, rewriting and rendering a document.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"source"},
	)

	// AliasReloads counts registry reloads.
	AliasReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emojiril_alias_reloads_total",
			Help: "Total number of alias registry reloads.",
		},
		[]string{"status"},
	)

	// RegisteredAliases reports the size of the active registry.
	RegisteredAliases = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "emojiril_registered_aliases",
			Help: "Number of aliases in the active registry.",
		},
	)
)

// ObserveTokens adds the counts of one rewrite to Tokens.
func ObserveTokens(stats shortname.Stats) {
	Tokens.WithLabelValues("replaced").Add(float64(stats.Replaced))
	Tokens.WithLabelValues("escaped").Add(float64(stats.Escaped))
	Tokens.WithLabelValues("unknown").Add(float64(stats.Unknown))
}

// ObserveRewrite records one finished rewrite.
func ObserveRewrite(source string, started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DocumentsRewritten.WithLabelValues(source, status).Inc()
	RewriteDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
}

// Handler serves the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records the lifecycle of shipping-quote requests: how many
// were issued, how many resolved after being superseded by a newer request,
// and upstream latency.
type QuoteMetrics struct {
	issued     *prometheus.CounterVec
	failed     *prometheus.CounterVec
	superseded prometheus.Counter
	latency    prometheus.Histogram
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	issued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_quote_requests_total",
		Help: "Shipping quote requests issued to the upstream backend.",
	}, []string{"outcome"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_quote_failures_total",
		Help: "Shipping quote failures by reason.",
	}, []string{"reason"})
	superseded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shipping_quote_superseded_total",
		Help: "Quote responses discarded because a newer request was in flight.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shipping_quote_upstream_seconds",
		Help:    "Latency of upstream quote calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(issued, failed, superseded, latency)
	return &QuoteMetrics{
		issued:     issued,
		failed:     failed,
		superseded: superseded,
		latency:    latency,
	}
}

// IncIssued counts a quote request with the given outcome (ok, error).
func (q *QuoteMetrics) IncIssued(outcome string) {
	if q == nil || q.issued == nil {
		return
	}
	q.issued.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncFailed counts a failed quote by reason (timeout, upstream, decode).
func (q *QuoteMetrics) IncFailed(reason string) {
	if q == nil || q.failed == nil {
		return
	}
	q.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncSuperseded counts a stale response that was dropped.
func (q *QuoteMetrics) IncSuperseded() {
	if q == nil || q.superseded == nil {
		return
	}
	q.superseded.Inc()
}

// ObserveLatency records the upstream round-trip time.
func (q *QuoteMetrics) ObserveLatency(duration time.Duration) {
	if q == nil || q.latency == nil {
		return
	}
	q.latency.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestQuoteMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewQuoteMetrics(reg)

	metrics.IncIssued("ok")
	metrics.IncFailed("timeout")
	metrics.IncSuperseded()
	metrics.ObserveLatency(180 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "shipping_quote_requests_total", "outcome", "ok"); err != nil {
		t.Fatalf("fetch issued: %v", err)
	} else if got != 1 {
		t.Fatalf("expected issued=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "shipping_quote_failures_total", "reason", "timeout"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failed=1, got %f", got)
	}

	superseded := findMetricFamily(mfs, "shipping_quote_superseded_total")
	if superseded == nil || len(superseded.GetMetric()) == 0 {
		t.Fatal("superseded counter not exported")
	}
	if got := superseded.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected superseded=1, got %f", got)
	}

	latency := findMetricFamily(mfs, "shipping_quote_upstream_seconds")
	if latency == nil || len(latency.GetMetric()) == 0 {
		t.Fatal("latency histogram not exported")
	}
	if got := latency.GetMetric()[0].GetHistogram().GetSampleSum(); got <= 0 {
		t.Fatalf("expected latency sum > 0, got %f", got)
	}
}

func TestQuoteMetricsNilSafe(t *testing.T) {
	var metrics *QuoteMetrics
	metrics.IncIssued("ok")
	metrics.IncFailed("decode")
	metrics.IncSuperseded()
	metrics.ObserveLatency(time.Second)

	empty := NewQuoteMetrics(nil)
	empty.IncIssued("ok")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q with %s=%s not found", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

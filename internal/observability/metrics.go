package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// flood-risk aggregation engine.
type Metrics struct {
	Aggregations        *prometheus.CounterVec // labels: scenario
	AggregationDuration prometheus.Histogram
	FeaturesEmitted     prometheus.Histogram

	// Upstream feed metrics.
	FeedFetches      *prometheus.CounterVec   // labels: feed={risk_zones,water_depths}, outcome={success,error}
	FeedFetchSeconds *prometheus.HistogramVec // labels: feed

	// Scenario cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
	LastComputed *prometheus.GaugeVec   // labels: scenario; unix seconds
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "aggregations_total",
			Help:      "Completed aggregation passes by scenario.",
		}, []string{"scenario"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_risk",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of a complete fetch-correlate-combine pass.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FeaturesEmitted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_risk",
			Name:      "features_emitted",
			Help:      "Combined features produced per aggregation pass.",
			Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000, 2500},
		}),
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "feed_fetches_total",
			Help:      "Upstream feed fetches by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedFetchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flood_risk",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Upstream feed request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"feed"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "cache_lookups_total",
			Help:      "Scenario cache lookups by result.",
		}, []string{"result"}),
		LastComputed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "flood_risk",
			Name:      "last_computed_timestamp_seconds",
			Help:      "Unix time of the most recent aggregation per scenario.",
		}, []string{"scenario"}),
	}

	prometheus.MustRegister(
		m.Aggregations,
		m.AggregationDuration,
		m.FeaturesEmitted,
		m.FeedFetches,
		m.FeedFetchSeconds,
		m.CacheLookups,
		m.LastComputed,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Aggregations:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_risk", Name: "aggregations_total"}, []string{"scenario"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flood_risk", Name: "aggregation_duration_seconds"}),
		FeaturesEmitted:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flood_risk", Name: "features_emitted"}),
		FeedFetches:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_risk", Name: "feed_fetches_total"}, []string{"feed", "outcome"}),
		FeedFetchSeconds:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "flood_risk", Name: "feed_fetch_duration_seconds"}, []string{"feed"}),
		CacheLookups:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_risk", Name: "cache_lookups_total"}, []string{"result"}),
		LastComputed:        prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "flood_risk", Name: "last_computed_timestamp_seconds"}, []string{"scenario"}),
	}
}

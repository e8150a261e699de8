package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RefreshCycles counts completed refresh cycles by outcome
	RefreshCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storemap",
			Name:      "refresh_cycles_total",
			Help:      "Total number of refresh cycles, by outcome",
		},
		[]string{"outcome"},
	)

	// LiveFetchErrors counts failed fetches of the live listing source
	LiveFetchErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storemap",
			Name:      "live_fetch_errors_total",
			Help:      "Total number of failed live source fetches",
		},
	)

	// DedupDropped counts listings dropped during reconciliation
	DedupDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storemap",
			Name:      "dedup_dropped_total",
			Help:      "Total number of listings dropped as duplicates, by key tier and losing source",
		},
		[]string{"tier", "source"},
	)

	// WeakDedupKeys counts uses of the text-fallback dedup tier.
	// A rising rate means records are arriving without place IDs or
	// coordinates and merges are relying on the least reliable signal.
	WeakDedupKeys = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storemap",
			Name:      "weak_dedup_keys_total",
			Help:      "Total number of listings keyed by the text-fallback dedup tier",
		},
	)

	// PublishedListings tracks the size of the most recently published ordering
	PublishedListings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "storemap",
			Name:      "published_listings",
			Help:      "Number of listings in the most recently published ordering",
		},
	)

	// CycleDuration observes end-to-end refresh cycle latency
	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "storemap",
			Name:      "refresh_cycle_seconds",
			Help:      "End-to-end duration of fetch-reconcile-rank cycles",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(RefreshCycles)
		prometheus.DefaultRegisterer.Register(LiveFetchErrors)
		prometheus.DefaultRegisterer.Register(DedupDropped)
		prometheus.DefaultRegisterer.Register(WeakDedupKeys)
		prometheus.DefaultRegisterer.Register(PublishedListings)
		prometheus.DefaultRegisterer.Register(CycleDuration)
	})
}

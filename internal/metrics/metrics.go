// Package metrics provides the centralized Prometheus registry for the odds
// tracker.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	CollectionRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "odds_tracker",
		Name:      "collection_runs_total",
		Help:      "Total number of collection runs by status",
	}, []string{"status"})
	SnapshotsStoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "odds_tracker",
		Name:      "snapshots_stored_total",
		Help:      "Total number of odds snapshots persisted by league",
	}, []string{"league"})
	EventsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "odds_tracker",
		Name:      "events_skipped_total",
		Help:      "Total number of events skipped for incomplete h2h prices by league",
	}, []string{"league"})
	FetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "odds_tracker",
		Name:      "fetch_errors_total",
		Help:      "Total number of failed league fetches by league",
	}, []string{"league"})
)

// Gauge metrics
var (
	APIQuotaRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "odds_tracker",
		Name:      "api_quota_remaining",
		Help:      "Upstream API requests remaining in the current period",
	})
	TrackedMarkets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "odds_tracker",
		Name:      "tracked_markets",
		Help:      "Number of distinct markets seen in the last collection run",
	})
	LastCollectionTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "odds_tracker",
		Name:      "last_collection_timestamp_seconds",
		Help:      "Unix time of the last successful collection run",
	})
)

// Histogram metrics
var (
	CollectionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "odds_tracker",
		Name:      "collection_duration_seconds",
		Help:      "Duration of full collection runs in seconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})
	MoversComputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "odds_tracker",
		Name:      "movers_compute_duration_seconds",
		Help:      "Duration of top-movers ranking computations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(CollectionRunsTotal)
		registry.MustRegister(SnapshotsStoredTotal)
		registry.MustRegister(EventsSkippedTotal)
		registry.MustRegister(FetchErrorsTotal)

		registry.MustRegister(APIQuotaRemaining)
		registry.MustRegister(TrackedMarkets)
		registry.MustRegister(LastCollectionTimestamp)

		registry.MustRegister(CollectionDuration)
		registry.MustRegister(MoversComputeDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordCollectionRun records a collection run outcome.
// status should be one of: "success", "partial", "failure"
func RecordCollectionRun(status string, durationSeconds float64) {
	CollectionRunsTotal.WithLabelValues(status).Inc()
	CollectionDuration.Observe(durationSeconds)
}

// RecordSnapshotsStored records persisted snapshots for a league.
func RecordSnapshotsStored(league string, count int) {
	SnapshotsStoredTotal.WithLabelValues(league).Add(float64(count))
}

// RecordEventSkipped records an event dropped for incomplete prices.
func RecordEventSkipped(league string) {
	EventsSkippedTotal.WithLabelValues(league).Inc()
}

// RecordFetchError records a failed league fetch.
func RecordFetchError(league string) {
	FetchErrorsTotal.WithLabelValues(league).Inc()
}

// UpdateAPIQuota updates the remaining-quota gauge.
func UpdateAPIQuota(remaining int) {
	APIQuotaRemaining.Set(float64(remaining))
}

// UpdateTrackedMarkets updates the tracked-markets gauge.
func UpdateTrackedMarkets(count int) {
	TrackedMarkets.Set(float64(count))
}

// MarkCollectionTime sets the last-collection timestamp gauge.
func MarkCollectionTime(unixSeconds float64) {
	LastCollectionTimestamp.Set(unixSeconds)
}

// RecordMoversCompute records a ranking computation duration.
func RecordMoversCompute(durationSeconds float64) {
	MoversComputeDuration.Observe(durationSeconds)
}

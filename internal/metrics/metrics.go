// Package metrics provides centralized Prometheus metrics registry for the rating service.
package metrics

import (
	"fmt"
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
	RatingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ski_ratings",
		Name:      "rating_runs_total",
		Help:      "Total number of rating runs by discipline and status",
	}, []string{"discipline", "status"})
	EventsProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ski_ratings",
		Name:      "events_processed_total",
		Help:      "Total number of events processed by discipline and ground-truth coverage",
	}, []string{"discipline", "coverage"})
	UnmatchedGroundTruthTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ski_ratings",
		Name:      "unmatched_ground_truth_total",
		Help:      "Total number of ground-truth rows that matched no result",
	}, []string{"discipline"})
	GroundTruthCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ski_ratings",
		Name:      "ground_truth_cache_requests_total",
		Help:      "Ground-truth cache lookups by result",
	}, []string{"result"})
	SnapshotsExportedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ski_ratings",
		Name:      "snapshots_exported_total",
		Help:      "Total number of rating snapshots written by sink",
	}, []string{"discipline", "sink"})
)

// Gauge metrics
var (
	SeasonKFactor = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ski_ratings",
		Name:      "season_k_factor",
		Help:      "K-factor applied to each season",
	}, []string{"discipline", "season"})
	CompetitorsRated = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ski_ratings",
		Name:      "competitors_rated",
		Help:      "Number of competitors rated in the last run",
	}, []string{"discipline"})
	PredictedOnlyCompetitors = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ski_ratings",
		Name:      "predicted_only_competitors",
		Help:      "Competitors never covered by ground truth in the last run",
	}, []string{"discipline"})
	LastRunTimestamp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ski_ratings",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last successful run",
	}, []string{"discipline"})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ski_ratings",
		Name:      "run_duration_seconds",
		Help:      "Duration of rating runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"discipline"})
	EventFieldSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ski_ratings",
		Name:      "event_field_size",
		Help:      "Number of competitors per processed event",
		Buckets:   []float64{1, 2, 5, 10, 20, 30, 50, 80, 120},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RatingRunsTotal)
		registry.MustRegister(EventsProcessedTotal)
		registry.MustRegister(UnmatchedGroundTruthTotal)
		registry.MustRegister(SnapshotsExportedTotal)
		registry.MustRegister(GroundTruthCacheTotal)

		registry.MustRegister(SeasonKFactor)
		registry.MustRegister(CompetitorsRated)
		registry.MustRegister(PredictedOnlyCompetitors)
		registry.MustRegister(LastRunTimestamp)

		registry.MustRegister(RunDuration)
		registry.MustRegister(EventFieldSize)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry in text exposition format for the node
// exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, GetRegistry()); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

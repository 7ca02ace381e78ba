// Package metrics exposes Prometheus collectors for the ingestion service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	articlesScrapedTotal   *prometheus.CounterVec
	articlesSavedTotal     *prometheus.CounterVec
	articlesDuplicateTotal *prometheus.CounterVec
	sourceFailuresTotal    *prometheus.CounterVec
	runsTotal              *prometheus.CounterVec
	runDurationSeconds     prometheus.Histogram

	once sync.Once
)

// Init registers the Prometheus collectors. It is safe to call multiple
// times.
func Init() {
	once.Do(func() {
		articlesScrapedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_articles_scraped_total",
				Help: "Total number of raw article records extracted, labeled by source.",
			},
			[]string{"source"},
		)

		articlesSavedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_articles_saved_total",
				Help: "Total number of previously-unseen articles persisted, labeled by source.",
			},
			[]string{"source"},
		)

		articlesDuplicateTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_articles_duplicate_total",
				Help: "Total number of insert attempts rejected as duplicates, labeled by source.",
			},
			[]string{"source"},
		)

		sourceFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_source_failures_total",
				Help: "Total number of per-source fetch or parse failures.",
			},
			[]string{"source"},
		)

		runsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_runs_total",
				Help: "Total number of ingestion runs, labeled by final status.",
			},
			[]string{"status"},
		)

		runDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ingest_run_duration_seconds",
				Help:    "Histogram of full ingestion run durations.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSource records the per-source counters for one processed source.
func ObserveSource(source string, scraped, saved, duplicates int) {
	articlesScrapedTotal.WithLabelValues(source).Add(float64(scraped))
	articlesSavedTotal.WithLabelValues(source).Add(float64(saved))
	articlesDuplicateTotal.WithLabelValues(source).Add(float64(duplicates))
}

// ObserveSourceFailure increments the failure counter for a source.
func ObserveSourceFailure(source string) {
	sourceFailuresTotal.WithLabelValues(source).Inc()
}

// ObserveRun records a completed run with its final status and duration.
func ObserveRun(status string, duration time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runDurationSeconds.Observe(duration.Seconds())
}

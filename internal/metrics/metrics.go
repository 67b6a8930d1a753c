// Package metrics holds the Prometheus collectors of the importer and the read API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cosmogony-cities/internal/domain"
)

// Run statuses of ImportRunsTotal.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusDryRun  = "dry_run"
)

var (
	ImportRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cities_import_runs_total",
		Help: "Import runs by final status",
	}, []string{"status"})
	ImportRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cities_import_rows_total",
		Help: "Rows committed to the regions table",
	})
	ImportBatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cities_import_batches_total",
		Help: "INSERT batches rendered",
	})
	ImportSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cities_import_skipped_zones_total",
		Help: "Input zones skipped because they could not be decoded",
	})
	ImportCities = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cities_import_last_cities",
		Help: "Cities found by the last run",
	})
	ImportDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cities_import_duration_seconds",
		Help:    "Wall time of an import run",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	ImportLastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cities_import_last_success_timestamp_seconds",
		Help: "Unix time of the last committed run",
	})
	RegionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cities_region_cache_hits_total",
		Help: "Region lookups served from Redis",
	})
	RegionCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cities_region_cache_misses_total",
		Help: "Region lookups that went to PostGIS",
	})
)

func init() {
	prometheus.MustRegister(ImportRunsTotal)
	prometheus.MustRegister(ImportRowsTotal)
	prometheus.MustRegister(ImportBatchesTotal)
	prometheus.MustRegister(ImportSkippedTotal)
	prometheus.MustRegister(ImportCities)
	prometheus.MustRegister(ImportDurationSeconds)
	prometheus.MustRegister(ImportLastSuccess)
	prometheus.MustRegister(RegionCacheHitsTotal)
	prometheus.MustRegister(RegionCacheMissesTotal)
}

// ObserveImport records one finished run. result may be partial when err is set.
func ObserveImport(result *domain.ImportResult, err error) {
	status := StatusSuccess
	switch {
	case err != nil:
		status = StatusFailed
	case result != nil && result.DryRun:
		status = StatusDryRun
	}
	ImportRunsTotal.WithLabelValues(status).Inc()

	if result == nil {
		return
	}

	ImportSkippedTotal.Add(float64(result.Skipped))
	ImportBatchesTotal.Add(float64(result.Batches))
	ImportDurationSeconds.Observe(result.Duration.Seconds())

	if status == StatusSuccess {
		ImportRowsTotal.Add(float64(result.Rows))
		ImportCities.Set(float64(result.Cities))
		ImportLastSuccess.SetToCurrentTime()
	}
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }

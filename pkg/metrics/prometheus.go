// Package metrics provides Prometheus metrics for the momentgrid service.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	refreshInterval  atomic.Int64 // nanoseconds
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Catalog
	catalogMoments      prometheus.Gauge
	catalogPlayers      prometheus.Gauge
	catalogTeams        prometheus.Gauge
	catalogLoads        *prometheus.CounterVec
	catalogRejected     *prometheus.CounterVec
	catalogLoadDuration prometheus.Histogram
	catalogLastLoadUnix prometheus.Gauge

	// Grid generation
	gridGenerations     *prometheus.CounterVec
	gridSearchDuration  prometheus.Histogram
	gridValidCandidates prometheus.Histogram
	gridBestScore       *prometheus.GaugeVec
	gridFallbacks       *prometheus.CounterVec
	gridDegraded        prometheus.Counter

	// Answer validation
	validations *prometheus.CounterVec

	// Caches
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheSize   *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "momentgrid",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)
	m.refreshInterval.Store(int64(defaultRefreshInterval))

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.catalogMoments = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "catalog_moments",
		Help: "Number of moments in the published catalog snapshot",
	})
	m.catalogPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "catalog_players",
		Help: "Number of distinct players in the published catalog snapshot",
	})
	m.catalogTeams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "catalog_teams",
		Help: "Number of distinct teams in the published catalog snapshot",
	})
	m.catalogLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "catalog_loads_total",
		Help: "Catalog load attempts by outcome",
	}, []string{"outcome"})
	m.catalogRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "catalog_rejected_records_total",
		Help: "Catalog records dropped at load time by reason",
	}, []string{"reason"})
	m.catalogLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    "catalog_load_duration_milliseconds",
		Help:    "Time to validate and index a catalog",
		Buckets: m.histogramBuckets,
	})
	m.catalogLastLoadUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "catalog_last_load_unix",
		Help: "Unix time of the last published catalog snapshot",
	})

	m.gridGenerations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "grid_generations_total",
		Help: "Grid generations by league and outcome (found, exhausted)",
	}, []string{"league", "outcome"})
	m.gridSearchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    "grid_search_duration_milliseconds",
		Help:    "Wall time of a full grid search including fallback",
		Buckets: m.histogramBuckets,
	})
	m.gridValidCandidates = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    "grid_valid_candidates",
		Help:    "Number of feasible candidates found per search",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 150, 200},
	})
	m.gridBestScore = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "grid_best_score",
		Help: "Deviation score of the most recently generated grid",
	}, []string{"league"})
	m.gridFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "grid_fallbacks_total",
		Help: "Fallback grid constructions by strategy",
	}, []string{"strategy"})
	m.gridDegraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "grid_degraded_total",
		Help: "Grids returned from the last-resort fallback tier",
	})

	m.validations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "validations_total",
		Help: "Answer validations by reason code",
	}, []string{"reason"})

	m.cacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "cache_hits_total",
		Help: "Cache hits by cache name",
	}, []string{"cache"})
	m.cacheMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "cache_misses_total",
		Help: "Cache misses by cache name",
	}, []string{"cache"})
	m.cacheSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "cache_entries",
		Help: "Live entries by cache name",
	}, []string{"cache"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "errors_by_component_total",
		Help: "Errors by component and type",
	}, []string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "errors_by_endpoint_total",
		Help: "Errors by endpoint",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "system_memory_usage_bytes",
		Help: "Heap bytes allocated",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: "system_goroutine_count",
		Help: "Number of goroutines",
	})
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled.Load() }

// RefreshInterval is how often sampled gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return time.Duration(m.refreshInterval.Load()) }

// SetEnabled turns recording by the package helpers on or off.
func SetEnabled(enabled bool) { WithMetricsEnabled(enabled)(globalManager) }

// SetRefreshInterval sets the refresh interval of the global manager. Non-positive values are ignored.
func SetRefreshInterval(d time.Duration) { WithRefreshInterval(d)(globalManager) }

// Enabled reports whether the package helpers record observations.
func Enabled() bool { return globalManager.Enabled() }

// RefreshInterval is how often callers should refresh sampled gauges.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

// Catalog.

// UpdateCatalogSize publishes the size of the current catalog snapshot.
func UpdateCatalogSize(moments, players, teams int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.catalogMoments.Set(float64(moments))
	globalManager.catalogPlayers.Set(float64(players))
	globalManager.catalogTeams.Set(float64(teams))
	globalManager.catalogLastLoadUnix.Set(float64(time.Now().Unix()))
}

// RecordCatalogLoad counts a catalog load attempt ("ok" or "failed").
func RecordCatalogLoad(outcome string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.catalogLoads.WithLabelValues(outcome).Inc()
}

// RecordCatalogRejected adds n dropped records for reason.
func RecordCatalogRejected(reason string, n int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.catalogRejected.WithLabelValues(reason).Add(float64(n))
}

// RecordCatalogLoadDuration records how long indexing took.
func RecordCatalogLoadDuration(ms float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.catalogLoadDuration.Observe(ms)
}

// Grid generation.

// RecordGridGeneration counts a finished search.
func RecordGridGeneration(league, outcome string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.gridGenerations.WithLabelValues(league, outcome).Inc()
}

// RecordGridSearchDuration records search wall time.
func RecordGridSearchDuration(ms float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.gridSearchDuration.Observe(ms)
}

// RecordGridValidCandidates records how many feasible candidates a search saw.
func RecordGridValidCandidates(n int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.gridValidCandidates.Observe(float64(n))
}

// UpdateGridBestScore publishes the score of the latest grid for league.
func UpdateGridBestScore(league string, score int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.gridBestScore.WithLabelValues(league).Set(float64(score))
}

// RecordGridFallback counts a fallback construction by strategy.
func RecordGridFallback(strategy string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.gridFallbacks.WithLabelValues(strategy).Inc()
}

// RecordGridDegraded counts a last-resort grid.
func RecordGridDegraded() {
	if !globalManager.Enabled() {
		return
	}
	globalManager.gridDegraded.Inc()
}

// Validation.

// RecordValidation counts a validation verdict by reason code.
func RecordValidation(reason string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.validations.WithLabelValues(reason).Inc()
}

// Caches.

// RecordCacheHit counts a hit on the named cache.
func RecordCacheHit(cache string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss counts a miss on the named cache.
func RecordCacheMiss(cache string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.cacheMisses.WithLabelValues(cache).Inc()
}

// UpdateCacheSize publishes the live entry count of the named cache.
func UpdateCacheSize(cache string, n int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.cacheSize.WithLabelValues(cache).Set(float64(n))
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors.

// RecordErrorByComponent counts an error raised by component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint counts an error response by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System.

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

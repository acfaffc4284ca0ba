// Package metrics provides Prometheus metrics for the holmgang duel service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the holmgang service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Lookup metrics - the core business flow
	lookupsTotal     *prometheus.CounterVec
	lookupErrors     *prometheus.CounterVec
	lookupLatency    prometheus.Histogram
	projectionsTotal prometheus.Counter
	summariesTotal   prometheus.Counter
	recordsSkipped   prometheus.Counter
	recordsFetched   prometheus.Histogram

	// Upstream source metrics
	sourceRequests prometheus.Counter
	sourceErrors   *prometheus.CounterVec
	sourceLatency  prometheus.Histogram

	// Standings store metrics
	storeParticipants  prometheus.Gauge
	storeUpdateLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram

	// Refresh pipeline metrics
	refreshEnqueued  prometheus.Counter
	refreshDropped   prometheus.Counter
	refreshProcessed prometheus.Counter
	refreshFailures  prometheus.Counter
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	workerCount      prometheus.Gauge
	workerLatency    prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Population metrics
	recentLookups   prometheus.Gauge
	uniqueAddresses prometheus.Gauge

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge

	// Build metadata
	buildInfo *prometheus.GaugeVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "holmgang",
		subsystem:        "duels",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // registers every metric in one place
	auto := promauto.With(m.registry)

	m.lookupsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "lookups_total",
			Help:      "Total number of viewpoint lookups served, by kind",
		},
		[]string{"kind"},
	)

	m.lookupErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "lookup_errors_total",
			Help:      "Total number of failed lookups, by reason",
		},
		[]string{"reason"},
	)

	m.lookupLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookup_latency_milliseconds",
		Help:      "End-to-end lookup latency in milliseconds (fetch + project + summarize)",
		Buckets:   m.histogramBuckets,
	})

	m.projectionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projections_total",
		Help:      "Total number of viewpoint-relative duel projections produced",
	})

	m.summariesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "summaries_total",
		Help:      "Total number of win/loss summaries computed",
	})

	m.recordsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_skipped_total",
		Help:      "Total number of fetched records skipped because the viewpoint is not a participant",
	})

	m.recordsFetched = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_fetched",
		Help:      "Distribution of record-collection sizes returned by the source per lookup",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	m.sourceRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_requests_total",
		Help:      "Total number of requests issued to the upstream record source",
	})

	m.sourceErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_errors_total",
			Help:      "Total number of upstream source failures, by kind (query or transport)",
		},
		[]string{"kind"},
	)

	m.sourceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_latency_milliseconds",
		Help:      "Upstream source request latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeParticipants = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_participants",
		Help:      "Number of participants with a stored standing",
	})

	m.storeUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_update_latency_milliseconds",
		Help:      "Standings store update latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Standings store query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.refreshEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_enqueued_total",
		Help:      "Total number of refresh jobs accepted onto the queue",
	})

	m.refreshDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_dropped_total",
		Help:      "Total number of refresh jobs rejected due to backpressure",
	})

	m.refreshProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_processed_total",
		Help:      "Total number of refresh jobs completed successfully",
	})

	m.refreshFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_failures_total",
		Help:      "Total number of refresh jobs that failed",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of refresh jobs waiting in the queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum refresh queue capacity",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Refresh queue utilization ratio (size / capacity)",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of refresh workers",
	})

	m.workerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_latency_milliseconds",
		Help:      "Refresh job processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method, and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP error responses by endpoint, method, and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.recentLookups = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recent_lookups",
		Help:      "Number of entries in the recent-lookup history",
	})

	m.uniqueAddresses = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unique_addresses_estimate",
		Help:      "Approximate number of distinct addresses observed in fetched records",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.buildInfo = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      "build_info",
			Help:      "Build information, constant 1 labeled by version and Go runtime",
		},
		[]string{"version", "go_version"},
	)
}

// RecordLookup increments the lookups counter for the given kind (record, duels).
func RecordLookup(kind string) {
	globalManager.lookupsTotal.WithLabelValues(kind).Inc()
}

// RecordLookupError increments the lookup error counter for the given reason.
func RecordLookupError(reason string) {
	globalManager.lookupErrors.WithLabelValues(reason).Inc()
}

// RecordLookupLatency records end-to-end lookup latency in milliseconds.
func RecordLookupLatency(latencyMs float64) {
	globalManager.lookupLatency.Observe(latencyMs)
}

// RecordProjections adds to the projections counter.
func RecordProjections(count int) {
	globalManager.projectionsTotal.Add(float64(count))
}

// RecordSummary increments the summaries counter.
func RecordSummary() {
	globalManager.summariesTotal.Inc()
}

// RecordSkippedRecords adds to the skipped-record counter.
func RecordSkippedRecords(count int) {
	globalManager.recordsSkipped.Add(float64(count))
}

// RecordFetchSize records the size of a fetched record collection.
func RecordFetchSize(count int) {
	globalManager.recordsFetched.Observe(float64(count))
}

// RecordSourceRequest increments the source request counter.
func RecordSourceRequest() {
	globalManager.sourceRequests.Inc()
}

// RecordSourceError increments the source error counter for the given kind (query, transport).
func RecordSourceError(kind string) {
	globalManager.sourceErrors.WithLabelValues(kind).Inc()
}

// RecordSourceLatency records upstream request latency in milliseconds.
func RecordSourceLatency(latencyMs float64) {
	globalManager.sourceLatency.Observe(latencyMs)
}

// UpdateStoreParticipants sets the stored participant count.
func UpdateStoreParticipants(count int) {
	globalManager.storeParticipants.Set(float64(count))
}

// RecordStoreUpdateLatency records a store update latency in milliseconds.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records a store query latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordRefreshEnqueued increments the accepted refresh-job counter.
func RecordRefreshEnqueued() {
	globalManager.refreshEnqueued.Inc()
}

// RecordRefreshDropped increments the dropped refresh-job counter.
func RecordRefreshDropped() {
	globalManager.refreshDropped.Inc()
}

// RecordRefreshProcessed increments the processed refresh-job counter.
func RecordRefreshProcessed() {
	globalManager.refreshProcessed.Inc()
}

// RecordRefreshFailure increments the failed refresh-job counter.
func RecordRefreshFailure() {
	globalManager.refreshFailures.Inc()
}

// UpdateQueueSize sets the current refresh queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the refresh queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the refresh queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// UpdateWorkerCount sets the refresh worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerLatency records refresh job processing latency in milliseconds.
func RecordWorkerLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an HTTP error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateRecentLookups sets the recent-lookup history size.
func UpdateRecentLookups(count int) {
	globalManager.recentLookups.Set(float64(count))
}

// UpdateUniqueAddresses sets the distinct-address estimate.
func UpdateUniqueAddresses(count uint32) {
	globalManager.uniqueAddresses.Set(float64(count))
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// SetBuildInfo publishes the running build's version labels.
func SetBuildInfo(version, goVersion string) {
	globalManager.buildInfo.WithLabelValues(version, goVersion).Set(1)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

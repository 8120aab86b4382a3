// Package metrics provides Prometheus metrics for the scoutmap service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scoutmap service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Clustering
	clusteringRuns     prometheus.Counter
	clusteringErrors   prometheus.Counter
	clusteringDuration prometheus.Histogram
	clusterSize        *prometheus.GaugeVec
	populationSize     prometheus.Gauge
	playersLoaded      prometheus.Gauge

	// Projection
	projectionRuns     prometheus.Counter
	projectionSkipped  prometheus.Counter
	projectionDuration prometheus.Histogram

	// Recluster requests
	reclusterRequests  prometheus.Counter
	reclusterDuplicate prometheus.Counter
	reclusterRejected  *prometheus.CounterVec

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueue           prometheus.Counter
	queueDequeue           prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Repository
	snapshotCount          prometheus.Counter
	snapshotLastUnix       prometheus.Gauge
	repositoryQueryLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
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
		namespace:        "scoutmap",
		subsystem:        "clusters",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.clusteringRuns = auto.NewCounter(m.counterOpts("runs_total", "Total number of completed clustering runs"))
	m.clusteringErrors = auto.NewCounter(m.counterOpts("run_errors_total", "Total number of failed clustering runs"))
	m.clusteringDuration = auto.NewHistogram(m.histogramOpts("run_duration_milliseconds", "Clustering run duration in milliseconds"))
	m.clusterSize = auto.NewGaugeVec(m.gaugeOpts("cluster_size", "Number of players per cluster in the current snapshot"),
		[]string{"cluster_id", "label"})
	m.populationSize = auto.NewGauge(m.gaugeOpts("population_size", "Number of players in the current filtered population"))
	m.playersLoaded = auto.NewGauge(m.gaugeOpts("players_loaded", "Number of players loaded from the dataset"))

	m.projectionRuns = auto.NewCounter(m.counterOpts("projection_runs_total", "Total number of projections computed"))
	m.projectionSkipped = auto.NewCounter(m.counterOpts("projection_skipped_total", "Total number of projections skipped for insufficient data"))
	m.projectionDuration = auto.NewHistogram(m.histogramOpts("projection_duration_milliseconds", "Projection duration in milliseconds"))

	m.reclusterRequests = auto.NewCounter(m.counterOpts("recluster_requests_total", "Total number of accepted recluster requests"))
	m.reclusterDuplicate = auto.NewCounter(m.counterOpts("recluster_duplicate_total", "Total number of duplicate recluster requests"))
	m.reclusterRejected = auto.NewCounterVec(m.counterOpts("recluster_rejected_total", "Total number of rejected recluster requests by reason"),
		[]string{"reason"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the recluster queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum recluster queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)"))
	m.queueEnqueue = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of jobs enqueued"))
	m.queueDequeue = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of enqueue errors"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts("queue_processing_latency_milliseconds", "Time a job waited in the queue in milliseconds"))

	m.workerActive = auto.NewGauge(m.gaugeOpts("worker_active", "1 while the recluster worker is running a job"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Worker job latency in milliseconds"))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of worker errors"))

	m.snapshotCount = auto.NewCounter(m.counterOpts("snapshot_count_total", "Total number of snapshots published"))
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_unix", "Unix timestamp of the last snapshot publish"))
	m.repositoryQueryLatency = auto.NewHistogram(m.histogramOpts("repository_query_latency_milliseconds", "Repository query latency in milliseconds"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordClusteringRun counts a finished run and observes its duration.
func (m *Manager) RecordClusteringRun(d time.Duration) {
	m.clusteringRuns.Inc()
	m.clusteringDuration.Observe(ms(d))
}

// RecordClusteringError counts a failed run.
func (m *Manager) RecordClusteringError() { m.clusteringErrors.Inc() }

// UpdateClusterSize sets the size gauge for one cluster.
func (m *Manager) UpdateClusterSize(id int, label string, size int) {
	m.clusterSize.WithLabelValues(strconv.Itoa(id), label).Set(float64(size))
}

// UpdatePopulationSize sets the filtered population gauge.
func (m *Manager) UpdatePopulationSize(n int) { m.populationSize.Set(float64(n)) }

// UpdatePlayersLoaded sets the loaded dataset size gauge.
func (m *Manager) UpdatePlayersLoaded(n int) { m.playersLoaded.Set(float64(n)) }

// RecordProjection counts a computed projection and observes its duration.
func (m *Manager) RecordProjection(d time.Duration) {
	m.projectionRuns.Inc()
	m.projectionDuration.Observe(ms(d))
}

// RecordProjectionSkipped counts a projection skipped for lack of data.
func (m *Manager) RecordProjectionSkipped() { m.projectionSkipped.Inc() }

// RecordReclusterRequest counts an accepted recluster request.
func (m *Manager) RecordReclusterRequest() { m.reclusterRequests.Inc() }

// RecordReclusterDuplicate counts a duplicate recluster request.
func (m *Manager) RecordReclusterDuplicate() { m.reclusterDuplicate.Inc() }

// RecordReclusterRejected counts a rejected recluster request.
func (m *Manager) RecordReclusterRejected(reason string) {
	m.reclusterRejected.WithLabelValues(reason).Inc()
}

// UpdateQueueSize sets the queue size and utilization gauges.
func (m *Manager) UpdateQueueSize(size, capacity int) {
	m.queueSize.Set(float64(size))
	m.queueCapacity.Set(float64(capacity))
	if capacity > 0 {
		m.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func (m *Manager) RecordQueueEnqueue() { m.queueEnqueue.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func (m *Manager) RecordQueueDequeue() { m.queueDequeue.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func (m *Manager) RecordQueueEnqueueError() { m.queueEnqueueErrors.Inc() }

// RecordQueueProcessingLatency observes how long a job waited.
func (m *Manager) RecordQueueProcessingLatency(d time.Duration) {
	m.queueProcessingLatency.Observe(ms(d))
}

// UpdateWorkerActive marks the worker busy or idle.
func (m *Manager) UpdateWorkerActive(active bool) {
	if active {
		m.workerActive.Set(1)
		return
	}
	m.workerActive.Set(0)
}

// RecordWorkerProcessingLatency observes a job's processing time.
func (m *Manager) RecordWorkerProcessingLatency(d time.Duration) {
	m.workerProcessingLatency.Observe(ms(d))
}

// RecordWorkerError increments the worker error counter.
func (m *Manager) RecordWorkerError() { m.workerErrors.Inc() }

// RecordSnapshotPublished counts a snapshot and stamps its publish time.
func (m *Manager) RecordSnapshotPublished(at time.Time) {
	m.snapshotCount.Inc()
	m.snapshotLastUnix.Set(float64(at.Unix()))
}

// RecordRepositoryQueryLatency observes a repository read.
func (m *Manager) RecordRepositoryQueryLatency(d time.Duration) {
	m.repositoryQueryLatency.Observe(ms(d))
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, d time.Duration) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms(d))
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Global helpers delegating to the default manager.

// RecordClusteringRun counts a finished run on the default manager.
func RecordClusteringRun(d time.Duration) { globalManager.RecordClusteringRun(d) }

// RecordClusteringError counts a failed run on the default manager.
func RecordClusteringError() { globalManager.RecordClusteringError() }

// UpdateClusterSize sets a cluster size gauge on the default manager.
func UpdateClusterSize(id int, label string, size int) { globalManager.UpdateClusterSize(id, label, size) }

// UpdatePopulationSize sets the population gauge on the default manager.
func UpdatePopulationSize(n int) { globalManager.UpdatePopulationSize(n) }

// UpdatePlayersLoaded sets the loaded players gauge on the default manager.
func UpdatePlayersLoaded(n int) { globalManager.UpdatePlayersLoaded(n) }

// RecordProjection counts a projection on the default manager.
func RecordProjection(d time.Duration) { globalManager.RecordProjection(d) }

// RecordProjectionSkipped counts a skipped projection on the default manager.
func RecordProjectionSkipped() { globalManager.RecordProjectionSkipped() }

// RecordReclusterRequest counts an accepted request on the default manager.
func RecordReclusterRequest() { globalManager.RecordReclusterRequest() }

// RecordReclusterDuplicate counts a duplicate request on the default manager.
func RecordReclusterDuplicate() { globalManager.RecordReclusterDuplicate() }

// RecordReclusterRejected counts a rejected request on the default manager.
func RecordReclusterRejected(reason string) { globalManager.RecordReclusterRejected(reason) }

// UpdateQueueSize sets queue gauges on the default manager.
func UpdateQueueSize(size, capacity int) { globalManager.UpdateQueueSize(size, capacity) }

// RecordQueueEnqueue increments the enqueue counter on the default manager.
func RecordQueueEnqueue() { globalManager.RecordQueueEnqueue() }

// RecordQueueDequeue increments the dequeue counter on the default manager.
func RecordQueueDequeue() { globalManager.RecordQueueDequeue() }

// RecordQueueEnqueueError increments the enqueue error counter on the default manager.
func RecordQueueEnqueueError() { globalManager.RecordQueueEnqueueError() }

// RecordQueueProcessingLatency observes queue wait on the default manager.
func RecordQueueProcessingLatency(d time.Duration) { globalManager.RecordQueueProcessingLatency(d) }

// UpdateWorkerActive marks the worker busy or idle on the default manager.
func UpdateWorkerActive(active bool) { globalManager.UpdateWorkerActive(active) }

// RecordWorkerProcessingLatency observes job time on the default manager.
func RecordWorkerProcessingLatency(d time.Duration) { globalManager.RecordWorkerProcessingLatency(d) }

// RecordWorkerError increments the worker error counter on the default manager.
func RecordWorkerError() { globalManager.RecordWorkerError() }

// RecordSnapshotPublished records a snapshot on the default manager.
func RecordSnapshotPublished(at time.Time) { globalManager.RecordSnapshotPublished(at) }

// RecordRepositoryQueryLatency observes a read on the default manager.
func RecordRepositoryQueryLatency(d time.Duration) { globalManager.RecordRepositoryQueryLatency(d) }

// RecordHTTPRequest records an HTTP request on the default manager.
func RecordHTTPRequest(endpoint, method, statusCode string, d time.Duration) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, d)
}

// RecordErrorByComponent records a component error on the default manager.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByEndpoint records an endpoint error on the default manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

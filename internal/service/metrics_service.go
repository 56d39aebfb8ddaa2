package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/pkg/jobs"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	generationAttempts *prometheus.HistogramVec
	generationDuration *prometheus.HistogramVec
	bestEffortTotal    prometheus.Counter
	clashes            prometheus.Gauge
	jobsInFlight       prometheus.Gauge

	generationCount uint64
	bestEffortCount uint64
	clashCount      int64

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	dbQueryCount         uint64
	dbQueryDurationTotal uint64

	queueMu    sync.RWMutex
	queueStats func() jobs.Stats
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	generationAttempts := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_generation_attempts",
		Help:    "Attempts used per class generation",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 30},
	}, []string{"outcome"})

	generationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "Duration of generation jobs",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})

	bestEffortTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_best_effort_total",
		Help: "Class generations accepted after exhausting the retry cap",
	})

	clashes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_teacher_clashes",
		Help: "Teacher clashes reported by the most recent generation",
	})

	jobsInFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_jobs_in_flight",
		Help: "Generation jobs queued or running",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses, dbQueryDuration,
		generationAttempts, generationDuration, bestEffortTotal, clashes, jobsInFlight, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		dbQueryDuration: dbQueryDuration,

		generationAttempts: generationAttempts,
		generationDuration: generationDuration,
		bestEffortTotal:    bestEffortTotal,
		clashes:            clashes,
		jobsInFlight:       jobsInFlight,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.dbQueryCount, 1)
	atomic.AddUint64(&m.dbQueryDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveGeneration records the outcome of one class generation.
func (m *MetricsService) ObserveGeneration(attempts int, perfect bool) {
	if m == nil {
		return
	}
	outcome := "perfect"
	if !perfect {
		outcome = "best_effort"
		m.bestEffortTotal.Inc()
		atomic.AddUint64(&m.bestEffortCount, 1)
	}
	m.generationAttempts.WithLabelValues(outcome).Observe(float64(attempts))
	atomic.AddUint64(&m.generationCount, 1)
}

// ObserveJob records the wall time of a generation job.
func (m *MetricsService) ObserveJob(scope string, duration time.Duration) {
	if m == nil {
		return
	}
	m.generationDuration.WithLabelValues(scope).Observe(duration.Seconds())
}

// SetClashes publishes the current number of teacher clashes.
func (m *MetricsService) SetClashes(count int) {
	if m == nil {
		return
	}
	m.clashes.Set(float64(count))
	atomic.StoreInt64(&m.clashCount, int64(count))
}

// TrackQueue exposes the depth and failure counters of a job queue. Only the first queue
// registered is tracked.
func (m *MetricsService) TrackQueue(name string, stats func() jobs.Stats) {
	if m == nil || stats == nil {
		return
	}
	m.queueMu.Lock()
	defer m.queueMu.Unlock()
	if m.queueStats != nil {
		return
	}
	m.queueStats = stats
	labels := prometheus.Labels{"queue": name}
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "job_queue_pending",
			Help:        "Jobs buffered and waiting for a worker",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().Pending) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "job_queue_failed_total",
			Help:        "Jobs that exhausted their retries",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().Failed) }),
	)
}

// JobsInFlight adjusts the in-flight job gauge by delta.
func (m *MetricsService) JobsInFlight(delta int) {
	if m == nil {
		return
	}
	m.jobsInFlight.Add(float64(delta))
}

// Snapshot returns aggregated metrics suitable for the summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	dbCount := atomic.LoadUint64(&m.dbQueryCount)
	dbDuration := atomic.LoadUint64(&m.dbQueryDurationTotal)

	var cacheRatio float64
	totalLookups := hits + misses
	if totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgDBMs float64
	if dbCount > 0 {
		avgDBMs = float64(dbDuration) / float64(dbCount) / float64(time.Millisecond)
	}

	var queue jobs.Stats
	m.queueMu.RLock()
	if m.queueStats != nil {
		queue = m.queueStats()
	}
	m.queueMu.RUnlock()

	return models.SystemMetrics{
		QueuePending:             queue.Pending,
		QueueRunning:             queue.Running,
		JobsProcessed:            queue.Processed,
		JobsFailed:               queue.Failed,
		Generations:              atomic.LoadUint64(&m.generationCount),
		BestEffortGenerations:    atomic.LoadUint64(&m.bestEffortCount),
		TeacherClashes:           int(atomic.LoadInt64(&m.clashCount)),
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DBQueryCount:             dbCount,
		AverageDBQueryDurationMs: avgDBMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

// Package metrics exposes parse job, queue and HTTP measurements in the
// Prometheus exposition format.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

var _ driven.JobMetrics = (*Metrics)(nil)

// queueStatsTimeout bounds the queue sample taken on each scrape.
const queueStatsTimeout = 2 * time.Second

var (
	jobBuckets  = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60}
	httpBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5}
)

// Config holds configuration for Metrics.
type Config struct {
	// Queue is sampled for the parse_queue_* gauges on every scrape. Optional.
	Queue  driven.TaskQueue
	Logger *slog.Logger
}

// Metrics owns a private registry. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	jobsEnqueued  prometheus.Counter
	jobsCompleted *prometheus.CounterVec
	jobsFailed    *prometheus.CounterVec
	jobDuration   prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with Go runtime and process metrics.
func New(cfg Config) *Metrics {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		jobsEnqueued: f.NewCounter(prometheus.CounterOpts{
			Name: "parse_jobs_enqueued_total",
			Help: "Total number of parse jobs enqueued",
		}),
		jobsCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "parse_jobs_completed_total",
			Help: "Total number of parse jobs completed, by result (stored or rejected)",
		}, []string{"result"}),
		jobsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "parse_jobs_failed_total",
			Help: "Total number of failed parse job attempts, by whether the job will be retried",
		}, []string{"retry"}),
		jobDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "parse_job_duration_seconds",
			Help:    "Duration of parse jobs in seconds",
			Buckets: jobBuckets,
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: httpBuckets,
		}, []string{"method", "route"}),
	}

	// Export zero-valued series before the first job.
	m.jobsCompleted.WithLabelValues(string(domain.JobOutcomeStored))
	m.jobsCompleted.WithLabelValues(string(domain.JobOutcomeRejected))
	m.jobsFailed.WithLabelValues("false")
	m.jobsFailed.WithLabelValues("true")

	if cfg.Queue != nil {
		reg.MustRegister(newQueueCollector(cfg.Queue, logger))
	}
	return m
}

// JobEnqueued counts a parse job accepted by the queue.
func (m *Metrics) JobEnqueued() {
	if m == nil {
		return
	}
	m.jobsEnqueued.Inc()
}

// JobFinished records one worker attempt.
func (m *Metrics) JobFinished(outcome domain.JobOutcome, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.Observe(duration.Seconds())
	switch outcome {
	case domain.JobOutcomeStored, domain.JobOutcomeRejected:
		m.jobsCompleted.WithLabelValues(string(outcome)).Inc()
	case domain.JobOutcomeFailed:
		m.jobsFailed.WithLabelValues("false").Inc()
	case domain.JobOutcomeRetried:
		m.jobsFailed.WithLabelValues("true").Inc()
	}
}

// ObserveHTTP records one served request. route is the matched pattern,
// never the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// queueCollector samples queue depth at scrape time.
type queueCollector struct {
	queue   driven.TaskQueue
	logger  *slog.Logger
	waiting *prometheus.Desc
	active  *prometheus.Desc
}

func newQueueCollector(queue driven.TaskQueue, logger *slog.Logger) *queueCollector {
	return &queueCollector{
		queue:   queue,
		logger:  logger,
		waiting: prometheus.NewDesc("parse_queue_waiting", "Number of jobs waiting in the parse queue", nil, nil),
		active:  prometheus.NewDesc("parse_queue_active", "Number of jobs being processed", nil, nil),
	}
}

func (c *queueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.waiting
	ch <- c.active
}

func (c *queueCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), queueStatsTimeout)
	defer cancel()

	stats, err := c.queue.Stats(ctx)
	if err != nil || stats == nil {
		c.logger.Warn("queue stats unavailable", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.waiting, prometheus.GaugeValue, float64(stats.PendingCount))
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(stats.ProcessingCount))
}

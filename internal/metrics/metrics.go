// Package metrics holds the Prometheus collectors exported by the HTTP feed.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/azan1ud/landlordshield/internal/model"
)

const namespace = "shield"

// DefaultHTTPDurationBuckets are the request latency buckets in seconds.
var DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics is the set of collectors the server updates.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DeadlinesServed     *prometheus.CounterVec
	OverdueDeadlines    prometheus.Gauge
	CriticalDeadlines   prometheus.Gauge
	ComplianceScore     *prometheus.GaugeVec
	StorageErrors       *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry together
// with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		prometheus.NewGoCollector(),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   DefaultHTTPDurationBuckets,
		}, []string{"method", "route"}),
		DeadlinesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deadlines_served_total",
			Help:      "Deadlines returned by the feed endpoints",
		}, []string{"feed"}),
		OverdueDeadlines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "deadlines_overdue",
			Help:      "Overdue deadlines in the most recently built feed",
		}),
		CriticalDeadlines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "deadlines_critical",
			Help:      "Critical deadlines in the most recently built feed",
		}),
		ComplianceScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "compliance_score",
			Help:      "Most recently computed readiness score (0-100)",
		}, []string{"scope", "domain"}),
		StorageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Storage reads that failed while serving a request",
		}, []string{"operation"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DeadlinesServed,
		m.OverdueDeadlines,
		m.CriticalDeadlines,
		m.ComplianceScore,
		m.StorageErrors,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest counts one finished request.
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFeed counts the deadlines returned on a feed and updates the
// overdue and critical gauges.
func (m *Metrics) RecordFeed(feed string, deadlines []model.Deadline) {
	var overdue, critical int
	for _, d := range deadlines {
		if d.IsOverdue {
			overdue++
		}
		if d.IsCritical {
			critical++
		}
	}
	m.DeadlinesServed.WithLabelValues(feed).Add(float64(len(deadlines)))
	m.OverdueDeadlines.Set(float64(overdue))
	m.CriticalDeadlines.Set(float64(critical))
}

// RecordOverview publishes the overall and per-domain scores of one overview.
func (m *Metrics) RecordOverview(scope string, overview model.ComplianceOverview) {
	m.ComplianceScore.WithLabelValues(scope, "overall").Set(float64(overview.OverallScore))
	for domain, status := range overview.PerDomain {
		m.ComplianceScore.WithLabelValues(scope, string(domain)).Set(float64(status.Score))
	}
}

// RecordStorageError counts a failed storage read.
func (m *Metrics) RecordStorageError(operation string) {
	m.StorageErrors.WithLabelValues(operation).Inc()
}

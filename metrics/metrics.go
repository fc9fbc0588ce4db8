// ABOUTME: Prometheus collectors for the HTTP surface and CRM lifecycle events
// ABOUTME: A nil *Metrics is valid and records nothing
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "buildcrm"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	cascadeRows         *prometheus.CounterVec
	leadConversions     prometheus.Counter
	leadsSubmitted      *prometheus.CounterVec
	notificationFailure prometheus.Counter
}

// New registers every collector on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cascadeRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_deleted_rows_total",
			Help:      "Rows removed by cascading deletes, by table.",
		}, []string{"table"}),
		leadConversions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_conversions_total",
			Help:      "Leads converted into customers.",
		}),
		leadsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_submitted_total",
			Help:      "Leads received through intake, by source.",
		}, []string{"source"}),
		notificationFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_notification_failures_total",
			Help:      "Intake notifications that could not be created after the lead was committed.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.cascadeRows,
		m.leadConversions,
		m.leadsSubmitted,
		m.notificationFailure,
	)
	return m
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// CascadeDeleted records per-table row counts from a cascading delete.
func (m *Metrics) CascadeDeleted(deleted map[string]int64) {
	if m == nil {
		return
	}
	for table, n := range deleted {
		m.cascadeRows.WithLabelValues(table).Add(float64(n))
	}
}

func (m *Metrics) LeadConverted() {
	if m == nil {
		return
	}
	m.leadConversions.Inc()
}

func (m *Metrics) LeadSubmitted(source string) {
	if m == nil {
		return
	}
	m.leadsSubmitted.WithLabelValues(source).Inc()
}

func (m *Metrics) NotificationFailed() {
	if m == nil {
		return
	}
	m.notificationFailure.Inc()
}

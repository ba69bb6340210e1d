package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pinboard.app/api/internal/model"
)

const namespace = "pinboard"

// Metrics holds the ledger and HTTP collectors registered on one registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestsSubmitted   prometheus.Counter
	requestsDuplicate   prometheus.Counter
	requestsResolved    *prometheus.CounterVec
	attendeesAdded      prometheus.Counter
	reconciliationWarns prometheus.Counter
	httpDuration        *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "requests_submitted_total",
			Help:      "Event requests created in pending state.",
		}),
		requestsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "requests_duplicate_total",
			Help:      "Submissions rejected because a pending request already existed.",
		}),
		requestsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "requests_resolved_total",
			Help:      "Resolve calls by decision and outcome (applied or noop).",
		}, []string{"decision", "outcome"}),
		attendeesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "attendees_added_total",
			Help:      "Senders appended to a pin's attendee set on accept.",
		}),
		reconciliationWarns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "reconciliation_warnings_total",
			Help:      "Accepted requests whose pin no longer exists.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsSubmitted,
		m.requestsDuplicate,
		m.requestsResolved,
		m.attendeesAdded,
		m.reconciliationWarns,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) RequestSubmitted() {
	if m == nil {
		return
	}
	m.requestsSubmitted.Inc()
}

func (m *Metrics) DuplicateRejected() {
	if m == nil {
		return
	}
	m.requestsDuplicate.Inc()
}

// RequestResolved records one resolve call. applied is false for a same-decision noop.
func (m *Metrics) RequestResolved(decision model.EventRequestStatus, applied bool) {
	if m == nil {
		return
	}
	outcome := "noop"
	if applied {
		outcome = "applied"
	}
	m.requestsResolved.WithLabelValues(string(decision), outcome).Inc()
}

func (m *Metrics) AttendeeAdded() {
	if m == nil {
		return
	}
	m.attendeesAdded.Inc()
}

func (m *Metrics) ReconciliationWarning() {
	if m == nil {
		return
	}
	m.reconciliationWarns.Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

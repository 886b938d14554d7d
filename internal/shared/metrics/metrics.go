package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Meeting metrics
	MeetingsTotal          *prometheus.CounterVec
	MeetingParticipants    *prometheus.HistogramVec
	MeetingEventsTotal     *prometheus.CounterVec

	// Friend metrics
	FriendRequestsTotal *prometheus.CounterVec

	// Auth metrics
	AuthEventsTotal *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge

	// Database metrics
	DBQueryDuration   *prometheus.HistogramVec
	DBConnectionsOpen prometheus.Gauge

	// Storage metrics
	StorageRequestsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "meetgo"
	}

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Meeting metrics
		MeetingsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "meeting",
				Name:      "operations_total",
				Help:      "Total number of meeting operations",
			},
			[]string{"operation"}, // created, updated, deleted, joined, left, invited
		),
		MeetingParticipants: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "meeting",
				Name:      "participants",
				Help:      "Participant count observed on membership changes",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
			},
			[]string{"operation"},
		),
		MeetingEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "meeting",
				Name:      "events_total",
				Help:      "Total number of meeting domain events dispatched",
			},
			[]string{"event"},
		),

		// Friend metrics
		FriendRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "friend",
				Name:      "requests_total",
				Help:      "Total number of friend request operations",
			},
			[]string{"operation"}, // sent, accepted, rejected
		),

		// Auth metrics
		AuthEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "events_total",
				Help:      "Total number of auth events",
			},
			[]string{"event", "provider"}, // event: login_success, login_failed, logout, token_refresh
		),
		ActiveSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "active_sessions",
				Help:      "Number of active user sessions",
			},
		),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "Database query duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"}, // select, insert, update, delete
		),
		DBConnectionsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "connections_open",
				Help:      "Number of open database connections",
			},
		),

		// Storage metrics
		StorageRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "requests_total",
				Help:      "Total number of object storage requests",
			},
			[]string{"operation", "status"},
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordMeetingOperation records a meeting operation.
func (m *Metrics) RecordMeetingOperation(operation string) {
	m.MeetingsTotal.WithLabelValues(operation).Inc()
}

// ObserveMeetingParticipants records a participant count observation.
func (m *Metrics) ObserveMeetingParticipants(operation string, count int) {
	m.MeetingParticipants.WithLabelValues(operation).Observe(float64(count))
}

// RecordMeetingEvent records a dispatched meeting domain event.
func (m *Metrics) RecordMeetingEvent(event string) {
	m.MeetingEventsTotal.WithLabelValues(event).Inc()
}

// RecordFriendRequest records a friend request operation.
func (m *Metrics) RecordFriendRequest(operation string) {
	m.FriendRequestsTotal.WithLabelValues(operation).Inc()
}

// RecordAuthEvent records an auth event.
func (m *Metrics) RecordAuthEvent(event, provider string) {
	m.AuthEventsTotal.WithLabelValues(event, provider).Inc()
}

// RecordDBQuery records a database query.
func (m *Metrics) RecordDBQuery(operation string, duration time.Duration) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStorageRequest records an object storage request.
func (m *Metrics) RecordStorageRequest(operation, status string) {
	m.StorageRequestsTotal.WithLabelValues(operation, status).Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

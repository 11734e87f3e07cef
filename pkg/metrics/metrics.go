package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	ErrorTotal      *prometheus.CounterVec

	// Guard decisions by session state and outcome (render or redirect)
	GuardDecisions *prometheus.CounterVec

	// Auth attempts by kind (sign_up, sign_in, sign_out) and outcome
	AuthAttempts *prometheus.CounterVec

	// Doctor writes by operation (create, update, delete) and outcome
	DoctorWrites *prometheus.CounterVec

	// Session store operations
	SessionOperations *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path", "status"}),
		RequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		ErrorTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total number of HTTP errors",
		}, []string{"method", "path", "type"}),

		GuardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Route guard decisions by session state and outcome",
		}, []string{"state", "outcome"}),
		AuthAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Authentication attempts by kind and outcome",
		}, []string{"kind", "outcome"}),
		DoctorWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "doctor",
			Name:      "writes_total",
			Help:      "Doctor record writes by operation and outcome",
		}, []string{"operation", "outcome"}),
		SessionOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "operations_total",
			Help:      "Session store operations by kind and status",
		}, []string{"operation", "status"}),
	}
}

// NewNop returns metrics registered on a throwaway registry.
func NewNop() *Metrics {
	return New("test", prometheus.NewRegistry())
}

// Outcome maps an error to a metric label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

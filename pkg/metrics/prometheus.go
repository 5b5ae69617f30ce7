package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Default histogram buckets for HTTP request durations, in milliseconds.
var defaultBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}

// Manager owns all Prometheus collectors for the engine.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Engine metrics.
	sessionsCreated      prometheus.Counter
	assignments          *prometheus.CounterVec
	conflictsRejected    prometheus.Counter
	evaluationsSubmitted *prometheus.CounterVec
	boardsAssigned       prometheus.Counter
	awardsComputed       prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "aula",
		histogramBuckets: defaultBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	m.sessionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sessions_created_total",
		Help:      "Number of sessions created.",
	})
	m.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "assignments_total",
		Help:      "Number of participant assignments, by role.",
	}, []string{"role"})
	m.conflictsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "conflicts_rejected_total",
		Help:      "Number of assignments rejected by a uniqueness invariant.",
	})
	m.evaluationsSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "evaluations_submitted_total",
		Help:      "Number of evaluation submissions, by outcome (insert or update).",
	}, []string{"outcome"})
	m.boardsAssigned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "boards_assigned_total",
		Help:      "Number of poster board assignments.",
	})
	m.awardsComputed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "awards_computed_total",
		Help:      "Number of awards computed by agenda generation.",
	})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.registry.MustRegister(
		m.sessionsCreated,
		m.assignments,
		m.conflictsRejected,
		m.evaluationsSubmitted,
		m.boardsAssigned,
		m.awardsComputed,
		m.httpRequests,
		m.httpRequestDuration,
	)
}

// Registry returns the manager's Prometheus registry for serving /metrics.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// defaultManager backs the package-level record functions.
var defaultManager = NewManager()

// GetRegistry returns the default manager's registry.
func GetRegistry() *prometheus.Registry { return defaultManager.registry }

// RecordSessionCreated increments the session creation counter.
func RecordSessionCreated() {
	defaultManager.sessionsCreated.Inc()
}

// RecordAssignment increments the assignment counter for a role
// ("presenter" or "evaluator").
func RecordAssignment(role string) {
	defaultManager.assignments.WithLabelValues(role).Inc()
}

// RecordConflictRejected increments the invariant rejection counter.
func RecordConflictRejected() {
	defaultManager.conflictsRejected.Inc()
}

// RecordEvaluationSubmitted increments the submission counter, labeled by
// whether the submission updated an existing record.
func RecordEvaluationSubmitted(updated bool) {
	outcome := "insert"
	if updated {
		outcome = "update"
	}
	defaultManager.evaluationsSubmitted.WithLabelValues(outcome).Inc()
}

// RecordBoardAssigned increments the board assignment counter.
func RecordBoardAssigned() {
	defaultManager.boardsAssigned.Inc()
}

// RecordAwardsComputed adds n to the computed award counter.
func RecordAwardsComputed(n int) {
	defaultManager.awardsComputed.Add(float64(n))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in
// milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	defaultManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

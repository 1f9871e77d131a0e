package observability

import (
	"time"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the BFF.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	logins          *prometheus.CounterVec
	stepEvents      *prometheus.CounterVec
	submissions     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "financehub_bff_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financehub_bff_external_errors_total",
				Help: "Total errors from the FinanceHub API.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financehub_bff_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financehub_bff_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financehub_bff_logins_total",
				Help: "Login attempts by outcome.",
			},
			[]string{"outcome"},
		),
		stepEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financehub_bff_step_events_total",
				Help: "Onboarding step submissions by step and outcome.",
			},
			[]string{"step", "outcome"},
		),
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financehub_bff_submissions_total",
				Help: "Aggregate onboarding submissions by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// ExternalErrorCount returns the external errors counted for service.
func (m *Metrics) ExternalErrorCount(service string) int64 {
	return int64(getCounterValue(m.externalErrors.WithLabelValues(service)))
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrLogin counts a login attempt: success, invalid, rejected or error.
func (m *Metrics) IncrLogin(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

// IncrStep counts a step submission: completed or rejected.
func (m *Metrics) IncrStep(step domain.Step, outcome string) {
	m.stepEvents.WithLabelValues(step.String(), outcome).Inc()
}

// IncrSubmission counts an aggregate submission: created, failed,
// blocked or ignored.
func (m *Metrics) IncrSubmission(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

// GetOnboardingSnapshot returns cumulative counters for the
// GET /v1/metrics/onboarding endpoint.
func (m *Metrics) GetOnboardingSnapshot() *domain.OnboardingMetrics {
	var completed, rejected float64
	for _, s := range domain.Steps {
		completed += getCounterValue(m.stepEvents.WithLabelValues(s.String(), "completed"))
		rejected += getCounterValue(m.stepEvents.WithLabelValues(s.String(), "rejected"))
	}

	hits := getCounterValue(m.cacheHits.WithLabelValues("reference"))
	misses := getCounterValue(m.cacheMisses.WithLabelValues("reference"))
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.OnboardingMetrics{
		LoginSuccess:       int64(getCounterValue(m.logins.WithLabelValues("success"))),
		LoginFailure:       int64(getCounterValue(m.logins.WithLabelValues("invalid"))),
		StepsCompleted:     int64(completed),
		StepsRejected:      int64(rejected),
		SubmissionsCreated: int64(getCounterValue(m.submissions.WithLabelValues("created"))),
		SubmissionsFailed:  int64(getCounterValue(m.submissions.WithLabelValues("failed"))),
		ReferenceHitRate:   hitRate,
		Period:             "all_time",
	}
}

// getCounterValue extracts the current float64 value of a counter.
func getCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

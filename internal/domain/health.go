package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual service.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// OnboardingMetrics is returned by GET /v1/metrics/onboarding.
type OnboardingMetrics struct {
	LoginSuccess       int64   `json:"loginSuccess"`
	LoginFailure       int64   `json:"loginFailure"`
	StepsCompleted     int64   `json:"stepsCompleted"`
	StepsRejected      int64   `json:"stepsRejected"`
	SubmissionsCreated int64   `json:"submissionsCreated"`
	SubmissionsFailed  int64   `json:"submissionsFailed"`
	ReferenceHitRate   float64 `json:"referenceHitRate"`
	Period             string  `json:"period"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Next    string `json:"next,omitempty"`
}

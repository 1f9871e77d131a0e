package observability_test

import (
	"context"
	"testing"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/observability"

	"go.uber.org/zap/zapcore"
)

func TestNewMetrics_Twice(t *testing.T) {
	// Private registries: a second instance must not panic.
	_ = observability.NewMetrics()
	_ = observability.NewMetrics()
}

func TestGetOnboardingSnapshot(t *testing.T) {
	m := observability.NewMetrics()

	m.IncrLogin("success")
	m.IncrLogin("invalid")
	m.IncrLogin("invalid")
	m.IncrStep(domain.StepTenant, "completed")
	m.IncrStep(domain.StepOrganization, "completed")
	m.IncrStep(domain.StepOrganization, "rejected")
	m.IncrSubmission("created")
	m.IncrCacheHit("reference")
	m.IncrCacheHit("reference")
	m.IncrCacheHit("reference")
	m.IncrCacheMiss("reference")

	snap := m.GetOnboardingSnapshot()
	if snap.LoginSuccess != 1 || snap.LoginFailure != 2 {
		t.Errorf("unexpected logins: %+v", snap)
	}
	if snap.StepsCompleted != 2 || snap.StepsRejected != 1 {
		t.Errorf("unexpected steps: %+v", snap)
	}
	if snap.SubmissionsCreated != 1 || snap.SubmissionsFailed != 0 {
		t.Errorf("unexpected submissions: %+v", snap)
	}
	if snap.ReferenceHitRate != 0.75 {
		t.Errorf("expected hit rate 0.75, got %f", snap.ReferenceHitRate)
	}
}

func TestInitTracer_NoEndpoint(t *testing.T) {
	shutdown, err := observability.InitTracer("", "test")
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := observability.NewLogger("loud", "test")
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled at info level")
	}
}

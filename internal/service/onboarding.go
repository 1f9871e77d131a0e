package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/form"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/cache"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/observability"
	"github.com/boddenberg/financehub-onboarding-bff/internal/port"
	"github.com/boddenberg/financehub-onboarding-bff/internal/wizard"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var onboardingTracer = otel.Tracer("service/onboarding")

// flow is one user's in-progress onboarding: the wizard plus the form
// state of each step. mu serialises form events; the wizard has its own
// lock so a submission in flight does not block rendering.
type flow struct {
	mu           sync.Mutex
	wizard       *wizard.Controller
	tenant       *form.StepForm[domain.TenantData]
	organization *form.StepForm[domain.OrganizationData]
	labels       *form.LabelsForm
}

// view must be called with mu held.
func (f *flow) view() *domain.OnboardingView {
	st := f.wizard.Snapshot()
	return &domain.OnboardingView{
		OpenStep:     st.OpenStep,
		Completed:    st.Completed,
		Progress:     st.Progress(),
		Submitting:   st.Submitting,
		Complete:     st.Complete(),
		Next:         st.Next(),
		Tenant:       f.tenant.State(),
		Organization: f.organization.State(),
		Labels:       f.labels.State(),
		Submission:   st.Submission,
	}
}

// fieldForm returns the field-based form of step. Labels has none.
func (f *flow) fieldForm(step domain.Step) (*form.Form, error) {
	switch step {
	case domain.StepTenant:
		return f.tenant.Form, nil
	case domain.StepOrganization:
		return f.organization.Form, nil
	}
	return nil, &domain.ErrValidation{Field: "step", Message: step.String() + " has no editable fields"}
}

// OnboardingService drives the per-user onboarding wizards.
type OnboardingService struct {
	store   port.SubmissionStore
	flows   port.Registry[*flow]
	closer  func()
	opts    []wizard.Option
	newID   func() string
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewOnboardingService creates the service. Wizards idle for longer than
// ttl are dropped and the onboarding restarts from scratch.
func NewOnboardingService(store port.SubmissionStore, ttl time.Duration, metrics *observability.Metrics, logger *zap.Logger, opts ...wizard.Option) *OnboardingService {
	flows := cache.New[*flow](ttl)
	return &OnboardingService{
		store:   store,
		flows:   flows,
		closer:  flows.Close,
		opts:    opts,
		newID:   uuid.NewString,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *OnboardingService) flow(userID domain.ID) *flow {
	return s.flows.GetOrSet(userID.String(), func() *flow {
		s.logger.Debug("onboarding: new wizard", zap.String("user_id", userID.String()))
		return &flow{
			wizard:       wizard.New(userID, s.opts...),
			tenant:       form.NewTenantForm(nil),
			organization: form.NewOrganizationForm(nil),
			labels:       form.NewLabelsForm(nil, s.newID),
		}
	})
}

func (s *OnboardingService) start(ctx context.Context, op string, userID domain.ID) (context.Context, trace.Span) {
	ctx, span := onboardingTracer.Start(ctx, "OnboardingService."+op)
	span.SetAttributes(attribute.String("user.id", userID.String()))
	return ctx, span
}

// View renders the user's wizard, starting one if needed.
func (s *OnboardingService) View(ctx context.Context, userID domain.ID) *domain.OnboardingView {
	_, span := s.start(ctx, "View", userID)
	defer span.End()

	f := s.flow(userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view()
}

// Toggle opens step, or collapses it when it is the open one.
func (s *OnboardingService) Toggle(ctx context.Context, userID domain.ID, step domain.Step) (*domain.OnboardingView, error) {
	_, span := s.start(ctx, "Toggle", userID)
	defer span.End()

	f := s.flow(userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.wizard.Toggle(step); err != nil {
		return nil, err
	}
	return f.view(), nil
}

// Change edits field values of a Tenant or Organization step.
func (s *OnboardingService) Change(ctx context.Context, userID domain.ID, step domain.Step, values map[string]string) (*domain.OnboardingView, error) {
	_, span := s.start(ctx, "Change", userID)
	defer span.End()

	f := s.flow(userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.wizard.Editable(); err != nil {
		return nil, err
	}
	fm, err := f.fieldForm(step)
	if err != nil {
		return nil, err
	}
	if err := fm.ChangeAll(values); err != nil {
		return nil, err
	}
	return f.view(), nil
}

// Blur marks a field touched and validates it.
func (s *OnboardingService) Blur(ctx context.Context, userID domain.ID, step domain.Step, field string) (*domain.OnboardingView, error) {
	_, span := s.start(ctx, "Blur", userID)
	defer span.End()

	f := s.flow(userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.wizard.Editable(); err != nil {
		return nil, err
	}
	fm, err := f.fieldForm(step)
	if err != nil {
		return nil, err
	}
	if err := fm.Blur(field); err != nil {
		return nil, err
	}
	return f.view(), nil
}

// SubmitStep applies values, if any, and completes step. A step that fails
// validation is dropped from the completed set and the full error set is
// returned as *domain.ErrFormInvalid alongside the updated view.
func (s *OnboardingService) SubmitStep(ctx context.Context, userID domain.ID, step domain.Step, values map[string]string) (*domain.OnboardingView, error) {
	_, span := s.start(ctx, "SubmitStep", userID)
	defer span.End()
	span.SetAttributes(attribute.String("step", step.String()))

	if !step.Valid() {
		return nil, &domain.ErrValidation{Field: "step", Message: "unknown step"}
	}

	f := s.flow(userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.wizard.Editable(); err != nil {
		return nil, err
	}
	if len(values) > 0 {
		fm, err := f.fieldForm(step)
		if err != nil {
			return nil, err
		}
		if err := fm.ChangeAll(values); err != nil {
			return nil, err
		}
	}

	var (
		errs form.Errors
		ok   = true
		err  error
	)
	switch step {
	case domain.StepTenant:
		var data domain.TenantData
		if data, errs, ok = f.tenant.Complete(); ok {
			err = f.wizard.CompleteTenant(data)
		}
	case domain.StepOrganization:
		var data domain.OrganizationData
		if data, errs, ok = f.organization.Complete(); ok {
			err = f.wizard.CompleteOrganization(data)
		}
	case domain.StepLabels:
		err = f.wizard.CompleteLabels(f.labels.Complete())
	}
	if err != nil {
		return nil, err
	}

	if !ok {
		if ferr := f.wizard.FailStep(step); ferr != nil {
			return nil, ferr
		}
		s.metrics.IncrStep(step, "rejected")
		s.logger.Debug("onboarding: step rejected",
			zap.String("user_id", userID.String()),
			zap.String("step", step.String()),
			zap.Int("errors", len(errs)),
		)
		return f.view(), &domain.ErrFormInvalid{Form: step.String(), Fields: errs}
	}

	s.metrics.IncrStep(step, "completed")
	s.logger.Info("onboarding: step completed",
		zap.String("user_id", userID.String()),
		zap.String("step", step.String()),
	)
	return f.view(), nil
}

// AddLabel appends a label to the Labels step.
func (s *OnboardingService) AddLabel(ctx context.Context, userID domain.ID, name, color string) (*domain.OnboardingView, error) {
	_, span := s.start(ctx, "AddLabel", userID)
	defer span.End()

	f := s.flow(userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.wizard.Editable(); err != nil {
		return nil, err
	}
	if _, errs := f.labels.Add(name, color); len(errs) > 0 {
		return f.view(), &domain.ErrFormInvalid{Form: "label", Fields: errs}
	}
	return f.view(), nil
}

// RemoveLabel deletes a label. Unknown ids are ignored.
func (s *OnboardingService) RemoveLabel(ctx context.Context, userID domain.ID, labelID string) (*domain.OnboardingView, error) {
	_, span := s.start(ctx, "RemoveLabel", userID)
	defer span.End()

	f := s.flow(userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.wizard.Editable(); err != nil {
		return nil, err
	}
	f.labels.Remove(labelID)
	return f.view(), nil
}

// Submit posts the aggregate of all three steps. The form lock is not
// held during the POST, so the view keeps answering with submitting=true
// and a second Submit is refused with *domain.ErrSubmissionInFlight.
func (s *OnboardingService) Submit(ctx context.Context, userID domain.ID) (*domain.OnboardingView, error) {
	ctx, span := s.start(ctx, "Submit", userID)
	defer span.End()

	f := s.flow(userID)
	created, err := f.wizard.Submit(ctx, s.store)

	f.mu.Lock()
	defer f.mu.Unlock()
	view := f.view()

	if err != nil {
		var precondition *domain.ErrPrecondition
		var inFlight *domain.ErrSubmissionInFlight
		var conflict *domain.ErrConflict
		switch {
		case errors.As(err, &precondition):
			s.metrics.IncrSubmission("blocked")
			s.logger.Warn("onboarding: submission blocked", zap.String("user_id", userID.String()), zap.Error(err))
		case errors.As(err, &inFlight), errors.As(err, &conflict):
			s.metrics.IncrSubmission("ignored")
		default:
			s.metrics.IncrSubmission("failed")
			s.logger.Error("onboarding: submission failed", zap.String("user_id", userID.String()), zap.Error(err))
			span.RecordError(err)
		}
		return view, err
	}

	s.metrics.IncrSubmission("created")
	s.logger.Info("onboarding: submission created",
		zap.String("user_id", userID.String()),
		zap.String("submission_id", created.ID.String()),
	)
	return view, nil
}

// Close stops expiring idle wizards.
func (s *OnboardingService) Close() {
	s.closer()
}

// Restart replaces the user's wizard with a fresh one so another
// organization can be onboarded. A submission still in flight is not
// abandoned: Restart then fails with *domain.ErrSubmissionInFlight.
func (s *OnboardingService) Restart(ctx context.Context, userID domain.ID) (*domain.OnboardingView, error) {
	_, span := s.start(ctx, "Restart", userID)
	defer span.End()

	old := s.flow(userID)
	old.mu.Lock()
	err := old.wizard.Editable()
	old.mu.Unlock()
	var inFlight *domain.ErrSubmissionInFlight
	if errors.As(err, &inFlight) {
		return nil, err
	}

	s.flows.Delete(userID.String())
	s.logger.Info("onboarding: restarted", zap.String("user_id", userID.String()))

	f := s.flow(userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view(), nil
}

// Discard drops the user's in-progress onboarding.
func (s *OnboardingService) Discard(userID domain.ID) {
	s.flows.Delete(userID.String())
}

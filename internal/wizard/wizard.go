// Package wizard sequences the three onboarding steps to a single
// aggregate submission.
package wizard

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/port"
)

// Routes handed to the navigation layer.
const (
	RouteOnboarding = "/onboarding"
	RouteDashboard  = "/dashboard"
)

// Controller owns the open section, the completed set and the step data of
// one user's onboarding. It is safe for concurrent use; events are applied
// in the order they acquire the lock.
type Controller struct {
	mu sync.Mutex

	userID    domain.ID
	open      domain.Section
	completed map[domain.Step]bool

	tenant       *domain.TenantData
	organization *domain.OrganizationData
	labels       *domain.LabelsData

	// pending is the aggregate of the last attempt; a retry re-sends it.
	pending    *domain.Submission
	submitting bool
	submission *domain.Submission

	now func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the clock used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New starts a wizard with the Tenant section open.
func New(userID domain.ID, opts ...Option) *Controller {
	c := &Controller{
		userID:    userID,
		open:      domain.Open(domain.StepTenant),
		completed: map[domain.Step]bool{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func checkStep(step domain.Step) error {
	if !step.Valid() {
		return &domain.ErrValidation{Field: "step", Message: fmt.Sprintf("unknown step %d", int(step))}
	}
	return nil
}

// editable must be called with mu held.
func (c *Controller) editable() error {
	if c.submission != nil {
		return &domain.ErrConflict{Message: "onboarding already submitted"}
	}
	if c.submitting {
		return &domain.ErrSubmissionInFlight{}
	}
	return nil
}

// Editable reports whether step data may still change: not while a
// submission is in flight and never after one succeeded.
func (c *Controller) Editable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editable()
}

// Open expands step. Opening the already-open step keeps it open.
func (c *Controller) Open(step domain.Step) error {
	if err := checkStep(step); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = domain.Open(step)
	return nil
}

// Toggle expands step, or collapses everything if step is already open.
func (c *Controller) Toggle(step domain.Step) (domain.Section, error) {
	if err := checkStep(step); err != nil {
		return domain.Section{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open.IsOpen(step) {
		c.open = domain.Closed()
	} else {
		c.open = domain.Open(step)
	}
	return c.open, nil
}

// CompleteTenant records the Tenant step and opens Organization.
func (c *Controller) CompleteTenant(d domain.TenantData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	c.tenant = &d
	c.markCompleted(domain.StepTenant)
	return nil
}

// CompleteOrganization records the Organization step and opens Labels.
func (c *Controller) CompleteOrganization(d domain.OrganizationData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	c.organization = &d
	c.markCompleted(domain.StepOrganization)
	return nil
}

// CompleteLabels records the Labels step. There is no step after it, so
// the open section is left alone.
func (c *Controller) CompleteLabels(d domain.LabelsData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	d.Labels = slices.Clone(d.Labels)
	if d.Labels == nil {
		d.Labels = []domain.Label{}
	}
	c.labels = &d
	c.markCompleted(domain.StepLabels)
	return nil
}

// markCompleted must be called with mu held.
func (c *Controller) markCompleted(step domain.Step) {
	c.completed[step] = true
	c.pending = nil
	if next, ok := step.Next(); ok {
		c.open = domain.Open(next)
	}
}

// FailStep demotes step after a failed re-validation. The step's previous
// data is kept for prefill but no longer counts toward submission.
func (c *Controller) FailStep(step domain.Step) error {
	if err := checkStep(step); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	delete(c.completed, step)
	c.pending = nil
	return nil
}

// missing must be called with mu held.
func (c *Controller) missing() []domain.Step {
	var out []domain.Step
	for _, s := range domain.Steps {
		present := false
		switch s {
		case domain.StepTenant:
			present = c.tenant != nil
		case domain.StepOrganization:
			present = c.organization != nil
		case domain.StepLabels:
			present = c.labels != nil
		}
		if !c.completed[s] || !present {
			out = append(out, s)
		}
	}
	return out
}

// Submit posts the aggregate once every step is complete. A call while a
// submission is outstanding returns ErrSubmissionInFlight without posting.
// On failure all step data is retained and a retry re-sends the same
// aggregate.
func (c *Controller) Submit(ctx context.Context, store port.SubmissionStore) (*domain.Submission, error) {
	c.mu.Lock()
	if c.submission != nil {
		c.mu.Unlock()
		return nil, &domain.ErrConflict{Message: "onboarding already submitted"}
	}
	if c.submitting {
		c.mu.Unlock()
		return nil, &domain.ErrSubmissionInFlight{}
	}
	if missing := c.missing(); len(missing) > 0 {
		c.mu.Unlock()
		return nil, &domain.ErrPrecondition{Missing: missing}
	}
	if c.pending == nil {
		c.pending = &domain.Submission{
			UserID:       c.userID,
			CreatedAt:    c.now().UTC(),
			Tenant:       *c.tenant,
			Organization: *c.organization,
			Labels:       slices.Clone(c.labels.Labels),
		}
	}
	agg := *c.pending
	agg.Labels = slices.Clone(c.pending.Labels)
	c.submitting = true
	c.mu.Unlock()

	created, err := store.CreateSubmission(ctx, &agg)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = &agg
	}
	c.submission = created
	return created, nil
}

// State is a consistent copy of the controller for rendering.
type State struct {
	OpenStep     domain.Section
	Completed    []domain.Step
	Tenant       *domain.TenantData
	Organization *domain.OrganizationData
	Labels       *domain.LabelsData
	Submitting   bool
	Submission   *domain.Submission
}

// Complete reports whether the wizard reached its terminal state.
func (s State) Complete() bool {
	return s.Submission != nil
}

// Progress renders "N of 3 completed".
func (s State) Progress() string {
	return fmt.Sprintf("%d of %d completed", len(s.Completed), len(domain.Steps))
}

// Next is the route to navigate to, if any.
func (s State) Next() string {
	if s.Complete() {
		return RouteDashboard
	}
	return ""
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		OpenStep:   c.open,
		Completed:  []domain.Step{},
		Submitting: c.submitting,
	}
	for _, s := range domain.Steps {
		if c.completed[s] {
			st.Completed = append(st.Completed, s)
		}
	}
	if c.tenant != nil {
		t := *c.tenant
		st.Tenant = &t
	}
	if c.organization != nil {
		o := *c.organization
		st.Organization = &o
	}
	if c.labels != nil {
		l := domain.LabelsData{Labels: slices.Clone(c.labels.Labels)}
		st.Labels = &l
	}
	if c.submission != nil {
		sub := *c.submission
		st.Submission = &sub
	}
	return st
}

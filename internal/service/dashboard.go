package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/observability"
	"github.com/boddenberg/financehub-onboarding-bff/internal/port"
	"github.com/boddenberg/financehub-onboarding-bff/internal/wizard"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var dashboardTracer = otel.Tracer("service/dashboard")

// dashboardTables are the reference tables a submission points into.
var dashboardTables = []domain.ReferenceKind{
	domain.RefEnvironment,
	domain.RefRegion,
	domain.RefIndustry,
	domain.RefCountry,
	domain.RefEmployeeRange,
}

// DashboardService reads a user's submissions and resolves their
// reference ids for display.
type DashboardService struct {
	submissions port.SubmissionStore
	references  *ReferenceService
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewDashboardService creates the dashboard reader.
func NewDashboardService(submissions port.SubmissionStore, references *ReferenceService, metrics *observability.Metrics, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		submissions: submissions,
		references:  references,
		metrics:     metrics,
		logger:      logger,
	}
}

// Get builds the dashboard for sess, showing the submission at index.
// Submissions and reference tables are fetched concurrently. A reference
// table that cannot be fetched resolves to raw ids; failing to fetch the
// submissions fails the whole view.
func (s *DashboardService) Get(ctx context.Context, sess domain.Session, index int) (*domain.DashboardView, error) {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", sess.ID.String()),
		attribute.Int("index", index),
	)

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("dashboard", time.Since(start)) }()

	var subs []domain.Submission
	lookups := make([]domain.Lookup, len(dashboardTables))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subs, err = s.submissions.ListSubmissions(gctx, sess.ID)
		if err != nil {
			return fmt.Errorf("submissions fetch: %w", err)
		}
		return nil
	})
	for i, kind := range dashboardTables {
		i, kind := i, kind
		g.Go(func() error {
			l, err := s.references.Lookup(gctx, kind)
			if err != nil {
				s.logger.Warn("dashboard: reference table unavailable, showing raw ids",
					zap.String("table", string(kind)),
					zap.Error(err),
				)
				l = domain.Lookup{}
			}
			lookups[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	view := &domain.DashboardView{
		User:            sess,
		SubmissionCount: len(subs),
	}
	if len(subs) == 0 {
		view.State = domain.DashboardOnboardingIncomplete
		view.Next = wizard.RouteOnboarding
		return view, nil
	}
	if index < 0 || index >= len(subs) {
		return nil, &domain.ErrValidation{
			Field:   "index",
			Message: fmt.Sprintf("must be between 0 and %d", len(subs)-1),
		}
	}

	envs, regions, industries, countries, ranges := lookups[0], lookups[1], lookups[2], lookups[3], lookups[4]

	view.State = domain.DashboardReady
	view.SelectedIndex = index
	view.Organizations = make([]domain.OrganizationSummary, 0, len(subs))
	for i, sub := range subs {
		view.Organizations = append(view.Organizations, domain.OrganizationSummary{
			Index:    i,
			Name:     sub.Organization.OrganizationName,
			Initial:  initial(sub.Organization.OrganizationName),
			Industry: industries.Name(sub.Organization.Industry),
			Selected: i == index,
		})
	}

	sub := subs[index]
	labels := sub.Labels
	if labels == nil {
		labels = []domain.Label{}
	}
	view.Current = &domain.ResolvedSubmission{
		ID:        sub.ID,
		CreatedAt: sub.CreatedAt,
		Tenant: domain.ResolvedTenant{
			TenantName:       sub.Tenant.TenantName,
			TenantIdentifier: sub.Tenant.TenantIdentifier,
			Environment:      envs.Resolve(sub.Tenant.Environment),
			DataRegion:       regions.Resolve(sub.Tenant.DataRegion),
			MultiCurrency:    sub.Tenant.MultiCurrency,
		},
		Organization: domain.ResolvedOrganization{
			OrganizationName:   sub.Organization.OrganizationName,
			LegalEntityName:    sub.Organization.LegalEntityName,
			RegistrationNumber: sub.Organization.RegistrationNumber,
			Industry:           industries.Resolve(sub.Organization.Industry),
			NumberOfEmployees:  ranges.Resolve(sub.Organization.NumberOfEmployees),
			AnnualRevenue:      sub.Organization.AnnualRevenue,
			Country:            countries.Resolve(sub.Organization.Country),
			BusinessAddress:    sub.Organization.BusinessAddress,
		},
		Labels:     labels,
		LabelCount: len(labels),
	}
	return view, nil
}

// initial is the upper-cased first letter of name, for the switcher avatar.
func initial(name string) string {
	name = strings.TrimSpace(name)
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/observability"
	"github.com/boddenberg/financehub-onboarding-bff/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var referenceTracer = otel.Tracer("service/reference")

// ReferenceService serves the read-only lookup tables, cached.
type ReferenceService struct {
	source  port.ReferenceSource
	cache   port.Cache[[]domain.ReferenceItem]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewReferenceService creates the reference catalogue.
func NewReferenceService(source port.ReferenceSource, cache port.Cache[[]domain.ReferenceItem], metrics *observability.Metrics, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{
		source:  source,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// List returns one reference table, from cache when possible.
func (s *ReferenceService) List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceItem, error) {
	ctx, span := referenceTracer.Start(ctx, "ReferenceService.List")
	defer span.End()
	span.SetAttributes(attribute.String("reference.kind", string(kind)))

	cacheKey := "reference:" + string(kind)
	if items, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("reference")
		return slices.Clone(items), nil
	}
	s.metrics.IncrCacheMiss("reference")

	items, err := s.source.ListReference(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("reference %s: %w", kind, err)
	}
	s.cache.Set(cacheKey, items)
	return slices.Clone(items), nil
}

// Lookup returns the id-to-name index of one table.
func (s *ReferenceService) Lookup(ctx context.Context, kind domain.ReferenceKind) (domain.Lookup, error) {
	items, err := s.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	return domain.NewLookup(items), nil
}

// Check calls the FinanceHub API directly, bypassing the cache.
func (s *ReferenceService) Check(ctx context.Context) error {
	ctx, span := referenceTracer.Start(ctx, "ReferenceService.Check")
	defer span.End()

	_, err := s.source.ListReference(ctx, domain.RefEnvironment)
	return err
}

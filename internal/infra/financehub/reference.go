package financehub

import (
	"context"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ListReference fetches one reference table.
func (c *Client) ListReference(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceItem, error) {
	ctx, span := tracer.Start(ctx, "FinanceHub.ListReference")
	defer span.End()
	span.SetAttributes(attribute.String("reference.kind", string(kind)))

	var items []domain.ReferenceItem
	if err := c.getJSON(ctx, string(kind), "/"+string(kind), &items); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if items == nil {
		items = []domain.ReferenceItem{}
	}
	return items, nil
}

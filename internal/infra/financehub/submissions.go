package financehub

import (
	"context"
	"net/url"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ListSubmissions returns every submission of userID in API order.
func (c *Client) ListSubmissions(ctx context.Context, userID domain.ID) ([]domain.Submission, error) {
	ctx, span := tracer.Start(ctx, "FinanceHub.ListSubmissions")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	var subs []domain.Submission
	path := "/submission?userId=" + url.QueryEscape(userID.String())
	if err := c.getJSON(ctx, "submission", path, &subs); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	return subs, nil
}

// CreateSubmission posts the aggregate and returns the stored record.
func (c *Client) CreateSubmission(ctx context.Context, sub *domain.Submission) (*domain.Submission, error) {
	ctx, span := tracer.Start(ctx, "FinanceHub.CreateSubmission")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", sub.UserID.String()),
		attribute.Int("labels.count", len(sub.Labels)),
	)

	var created domain.Submission
	if err := c.postJSON(ctx, "submission", "/submission", sub, &created); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if created.UserID == "" {
		created = *sub
	}
	return &created, nil
}

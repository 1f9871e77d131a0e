package financehub

import (
	"context"
	"net/url"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
)

// FindUsersByEmail implements port.UserDirectory. An unknown email yields
// an empty slice, not an error.
func (c *Client) FindUsersByEmail(ctx context.Context, email string) ([]domain.User, error) {
	ctx, span := tracer.Start(ctx, "FinanceHub.FindUsersByEmail")
	defer span.End()

	var users []domain.User
	path := "/users?email=" + url.QueryEscape(email)
	if err := c.getJSON(ctx, "users", path, &users); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return users, nil
}

// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
)

// UserDirectory looks users up for the credential check.
type UserDirectory interface {
	FindUsersByEmail(ctx context.Context, email string) ([]domain.User, error)
}

// SubmissionStore reads and creates onboarding submissions.
type SubmissionStore interface {
	ListSubmissions(ctx context.Context, userID domain.ID) ([]domain.Submission, error)
	CreateSubmission(ctx context.Context, sub *domain.Submission) (*domain.Submission, error)
}

// ReferenceSource fetches one read-only reference table.
type ReferenceSource interface {
	ListReference(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceItem, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// Registry is a keyed store that creates entries on first use.
type Registry[T any] interface {
	GetOrSet(key string, create func() T) T
	Delete(key string)
}

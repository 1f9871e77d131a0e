package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
)

// --- Mocks ---

type mockUsers struct {
	users []domain.User
	err   error
	calls int
}

func (m *mockUsers) FindUsersByEmail(_ context.Context, email string) ([]domain.User, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.User
	for _, u := range m.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockSubmissions struct {
	mu      sync.Mutex
	list    []domain.Submission
	listErr error
	postErr error
	posted  []domain.Submission
}

func (m *mockSubmissions) ListSubmissions(_ context.Context, userID domain.ID) ([]domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []domain.Submission{}
	for _, s := range m.list {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSubmissions) CreateSubmission(_ context.Context, sub *domain.Submission) (*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, *sub)
	if m.postErr != nil {
		return nil, m.postErr
	}
	created := *sub
	created.ID = domain.ID(fmt.Sprintf("sub-%d", len(m.posted)))
	m.list = append(m.list, created)
	return &created, nil
}

func (m *mockSubmissions) postedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posted)
}

type mockReferences struct {
	mu     sync.Mutex
	tables map[domain.ReferenceKind][]domain.ReferenceItem
	failed map[domain.ReferenceKind]bool
	calls  map[domain.ReferenceKind]int
}

func newMockReferences() *mockReferences {
	return &mockReferences{
		tables: map[domain.ReferenceKind][]domain.ReferenceItem{
			domain.RefEnvironment:   {{ID: "1", Name: "Production"}, {ID: "2", Name: "Staging"}},
			domain.RefRegion:        {{ID: "1", Name: "US East"}, {ID: "2", Name: "EU West"}},
			domain.RefIndustry:      {{ID: "1", Name: "Financial Services"}, {ID: "2", Name: "Technology"}},
			domain.RefCountry:       {{ID: "1", Name: "United States"}, {ID: "2", Name: "Germany"}},
			domain.RefEmployeeRange: {{ID: "1", Name: "1-10"}, {ID: "2", Name: "11-50"}},
		},
		failed: map[domain.ReferenceKind]bool{},
		calls:  map[domain.ReferenceKind]int{},
	}
}

func (m *mockReferences) ListReference(_ context.Context, kind domain.ReferenceKind) ([]domain.ReferenceItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[kind]++
	if m.failed[kind] {
		return nil, &domain.ErrExternalService{Service: "financehub/" + string(kind), Err: errors.New("boom")}
	}
	return m.tables[kind], nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

var tenantValues = map[string]string{
	"tenantName":       "Acme Corp",
	"tenantIdentifier": "acme",
	"environment":      "1",
	"dataRegion":       "2",
	"multiCurrency":    "true",
}

var organizationValues = map[string]string{
	"organizationName": "Acme",
	"legalEntityName":  "Acme Ltd",
	"industry":         "2",
	"country":          "1",
	"annualRevenue":    "1 000 000",
}

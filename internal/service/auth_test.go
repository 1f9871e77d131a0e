package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/cache"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/observability"
	"github.com/boddenberg/financehub-onboarding-bff/internal/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var adminUser = domain.User{
	ID:       "1",
	Email:    "admin@financehub.com",
	Password: "password123",
	Name:     "Admin User",
	Role:     "admin",
}

func newAuth(t *testing.T, users *mockUsers, devAuth bool) *service.AuthService {
	t.Helper()
	sessions := cache.New[string](time.Hour)
	t.Cleanup(sessions.Close)
	return service.NewAuthService(users, sessions, "test-secret", time.Hour, devAuth, observability.NewMetrics(), zap.NewNop())
}

func TestLogin_Success(t *testing.T) {
	svc := newAuth(t, &mockUsers{users: []domain.User{adminUser}}, true)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "admin@financehub.com", Password: "password123"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.Next != "/onboarding" {
		t.Errorf("expected next /onboarding, got %q", resp.Next)
	}
	want := domain.Session{ID: "1", Email: "admin@financehub.com", Name: "Admin User", Role: "admin"}
	if resp.Session != want {
		t.Errorf("unexpected session: %+v", resp.Session)
	}

	sess, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("token should validate: %v", err)
	}
	if *sess != want {
		t.Errorf("validated session mismatch: %+v", sess)
	}
}

func TestLogin_InvalidFormSkipsLookup(t *testing.T) {
	users := &mockUsers{users: []domain.User{adminUser}}
	svc := newAuth(t, users, true)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "not-an-email", Password: ""})
	var invalid *domain.ErrFormInvalid
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrFormInvalid, got %v", err)
	}
	if invalid.Fields["email"] != "Please enter a valid email" {
		t.Errorf("unexpected email error %q", invalid.Fields["email"])
	}
	if invalid.Fields["password"] != "Password is required" {
		t.Errorf("unexpected password error %q", invalid.Fields["password"])
	}
	if users.calls != 0 {
		t.Errorf("user directory must not be queried, got %d calls", users.calls)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc := newAuth(t, &mockUsers{users: []domain.User{adminUser}}, true)

	_, errWrong := svc.Login(context.Background(), &domain.LoginRequest{Email: "admin@financehub.com", Password: "nope"})
	_, errUnknown := svc.Login(context.Background(), &domain.LoginRequest{Email: "ghost@financehub.com", Password: "password123"})

	var a, b *domain.ErrInvalidCredentials
	if !errors.As(errWrong, &a) || !errors.As(errUnknown, &b) {
		t.Fatalf("expected ErrInvalidCredentials, got %v / %v", errWrong, errUnknown)
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Error("both failures must be indistinguishable")
	}
	if a.Fields()["email"] != "Invalid email or password" || a.Fields()["password"] != "Invalid email or password" {
		t.Errorf("unexpected field attribution: %v", a.Fields())
	}
}

func TestLogin_TransportFailure(t *testing.T) {
	svc := newAuth(t, &mockUsers{err: &domain.ErrExternalService{Service: "financehub/users", Err: errors.New("connection refused")}}, true)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "admin@financehub.com", Password: "password123"})
	var unavailable *domain.ErrLoginUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ErrLoginUnavailable, got %v", err)
	}
	if err.Error() != "Login failed. Please try again." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestLogin_BcryptMode(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user := adminUser
	user.Password = string(hash)
	svc := newAuth(t, &mockUsers{users: []domain.User{user}}, false)

	if _, err := svc.Login(context.Background(), &domain.LoginRequest{Email: user.Email, Password: "s3cret"}); err != nil {
		t.Fatalf("expected bcrypt match, got %v", err)
	}
	_, err = svc.Login(context.Background(), &domain.LoginRequest{Email: user.Email, Password: string(hash)})
	var invalid *domain.ErrInvalidCredentials
	if !errors.As(err, &invalid) {
		t.Errorf("the hash itself must not be accepted as a password, got %v", err)
	}
}

func TestLogin_SupersedesPreviousSession(t *testing.T) {
	svc := newAuth(t, &mockUsers{users: []domain.User{adminUser}}, true)
	req := &domain.LoginRequest{Email: adminUser.Email, Password: adminUser.Password}

	first, err := svc.Login(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Login(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	var unauthorized *domain.ErrUnauthorized
	if _, err := svc.ValidateToken(first.Token); !errors.As(err, &unauthorized) {
		t.Errorf("first token should be superseded, got %v", err)
	}
	if _, err := svc.ValidateToken(second.Token); err != nil {
		t.Errorf("second token should be live, got %v", err)
	}
}

func TestLogout_EndsSession(t *testing.T) {
	svc := newAuth(t, &mockUsers{users: []domain.User{adminUser}}, true)
	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Email: adminUser.Email, Password: adminUser.Password})
	if err != nil {
		t.Fatal(err)
	}

	svc.Logout(context.Background(), resp.Session.ID)

	var unauthorized *domain.ErrUnauthorized
	if _, err := svc.ValidateToken(resp.Token); !errors.As(err, &unauthorized) {
		t.Errorf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newAuth(t, &mockUsers{}, true)

	var unauthorized *domain.ErrUnauthorized
	if _, err := svc.ValidateToken("not.a.jwt"); !errors.As(err, &unauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

// Package service holds the application services. AuthService is the session gate: it checks credentials
// against the FinanceHub user directory, issues session tokens and keeps
// track of the one live session per user.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/form"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/observability"
	"github.com/boddenberg/financehub-onboarding-bff/internal/port"
	"github.com/boddenberg/financehub-onboarding-bff/internal/wizard"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

const tokenIssuer = "financehub-bff"

// AuthService orchestrates login, logout and token validation.
type AuthService struct {
	users     port.UserDirectory
	sessions  port.Cache[string] // user id -> jti of the live token
	jwtSecret []byte
	ttl       time.Duration
	devAuth   bool
	metrics   *observability.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new auth service. With devAuth the stored
// password is compared verbatim; otherwise it must be a bcrypt hash.
func NewAuthService(users port.UserDirectory, sessions port.Cache[string], jwtSecret string, ttl time.Duration, devAuth bool, metrics *observability.Metrics, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		devAuth:   devAuth,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// ============================================================
// Login: POST /v1/auth/login
// ============================================================

func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if errs := form.ValidateLogin(*req); len(errs) > 0 {
		s.metrics.IncrLogin("rejected")
		return nil, &domain.ErrFormInvalid{Form: "login", Fields: errs}
	}

	email := strings.TrimSpace(req.Email)
	span.SetAttributes(attribute.String("email", email))

	users, err := s.users.FindUsersByEmail(ctx, email)
	if err != nil {
		s.metrics.IncrLogin("error")
		s.logger.Error("login: user lookup failed", zap.String("email", email), zap.Error(err))
		return nil, &domain.ErrLoginUnavailable{Err: err}
	}
	if len(users) == 0 || !s.passwordMatches(users[0].Password, req.Password) {
		s.metrics.IncrLogin("invalid")
		s.logger.Warn("login: invalid credentials", zap.String("email", email))
		return nil, &domain.ErrInvalidCredentials{}
	}

	user := users[0]
	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		s.metrics.IncrLogin("error")
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	s.metrics.IncrLogin("success")
	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Session:   domain.SessionFromUser(user),
		Next:      wizard.RouteOnboarding,
	}, nil
}

func (s *AuthService) passwordMatches(stored, given string) bool {
	if stored == "" {
		return false
	}
	if s.devAuth {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
}

// ============================================================
// Logout: POST /v1/auth/logout
// ============================================================

// Logout ends the user's live session. Tokens issued before stay
// cryptographically valid but are rejected by ValidateToken.
func (s *AuthService) Logout(ctx context.Context, userID domain.ID) {
	_, span := authTracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	s.sessions.Delete(userID.String())
	s.logger.Info("user logged out", zap.String("user_id", userID.String()))
}

// ============================================================
// ValidateToken: used by middleware
// ============================================================

// SessionClaims are the claims of a session token. The registered ID
// (jti) identifies the login that issued it.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ValidateToken returns the session behind a token if it belongs to the
// user's current login.
func (s *AuthService) ValidateToken(tokenString string) (*domain.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &domain.ErrUnauthorized{Message: "session expired"}
		}
		return nil, &domain.ErrUnauthorized{Message: "invalid session token"}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, &domain.ErrUnauthorized{Message: "invalid session token"}
	}

	live, ok := s.sessions.Get(claims.Subject)
	if !ok || subtle.ConstantTimeCompare([]byte(live), []byte(claims.ID)) != 1 {
		return nil, &domain.ErrUnauthorized{Message: "session ended"}
	}

	return &domain.Session{
		ID:    domain.ID(claims.Subject),
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}

// issueToken signs a token for user and makes it the user's live session,
// superseding any earlier login.
func (s *AuthService) issueToken(user domain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	jti := uuid.NewString()

	claims := SessionClaims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    tokenIssuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	s.sessions.Set(user.ID.String(), jti)
	return signed, expiresAt, nil
}

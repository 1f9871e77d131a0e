package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionMiddleware validates Bearer tokens and injects the session into
// the request context. Requests without a live session get 401 with a
// redirect to the login screen.
func SessionMiddleware(authSvc *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required", Redirect: RouteLogin})
				return
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid authorization header", Redirect: RouteLogin})
				return
			}

			sess, err := authSvc.ValidateToken(tokenString)
			if err != nil {
				logger.Debug("auth: rejected token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				handleServiceError(w, err, logger)
				return
			}

			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("user.id", sess.ID.String()))
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), *sess)))
		})
	}
}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext extracts the authenticated session from context.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(domain.Session)
	return sess, ok
}

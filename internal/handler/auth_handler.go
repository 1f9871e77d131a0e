package handler

import (
	"net/http"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Session gate
// ============================================================

func authLoginHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login")
		defer span.End()

		var req domain.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp, err := authSvc.Login(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// authLogoutHandler ends the session and drops any onboarding in progress.
func authLogoutHandler(authSvc *service.AuthService, onboardingSvc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/logout")
		defer span.End()

		sess, _ := SessionFromContext(ctx)
		authSvc.Logout(ctx, sess.ID)
		if onboardingSvc != nil {
			onboardingSvc.Discard(sess.ID)
		}

		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "logged out", Next: RouteLogin})
	}
}

func authSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())
		writeJSON(w, http.StatusOK, sess)
	}
}

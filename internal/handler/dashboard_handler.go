package handler

import (
	"net/http"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Dashboard & reference tables
// ============================================================

func dashboardHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard")
		defer span.End()

		index, err := parseIndex(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess, _ := SessionFromContext(ctx)
		view, err := svc.Get(ctx, sess, index)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func referenceHandler(svc *service.ReferenceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reference/{kind}")
		defer span.End()

		kind, err := domain.ParseReferenceKind(chi.URLParam(r, "kind"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("reference.kind", string(kind)))

		items, err := svc.List(ctx, kind)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

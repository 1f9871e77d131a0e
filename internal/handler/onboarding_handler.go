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
// Onboarding wizard
// ============================================================

type stepValuesRequest struct {
	Values map[string]string `json:"values"`
}

type addLabelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// writeOnboarding renders the wizard, attaching it to error responses
// when the service returned one.
func writeOnboarding(w http.ResponseWriter, view *domain.OnboardingView, err error, logger *zap.Logger) {
	if err != nil {
		if view != nil {
			writeServiceError(w, err, view, logger)
			return
		}
		handleServiceError(w, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func stepParam(r *http.Request) (domain.Step, error) {
	return domain.ParseStep(chi.URLParam(r, "step"))
}

func getOnboardingHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/onboarding")
		defer span.End()

		sess, _ := SessionFromContext(ctx)
		writeOnboarding(w, svc.View(ctx, sess.ID), nil, logger)
	}
}

func toggleStepHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/steps/{step}/toggle")
		defer span.End()

		step, err := stepParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("step", step.String()))

		sess, _ := SessionFromContext(ctx)
		view, err := svc.Toggle(ctx, sess.ID, step)
		writeOnboarding(w, view, err, logger)
	}
}

func changeStepHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/onboarding/steps/{step}")
		defer span.End()

		step, err := stepParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("step", step.String()))

		var req stepValuesRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess, _ := SessionFromContext(ctx)
		view, err := svc.Change(ctx, sess.ID, step, req.Values)
		writeOnboarding(w, view, err, logger)
	}
}

func blurFieldHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/steps/{step}/blur/{field}")
		defer span.End()

		step, err := stepParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		field := chi.URLParam(r, "field")
		span.SetAttributes(attribute.String("step", step.String()), attribute.String("field", field))

		sess, _ := SessionFromContext(ctx)
		view, err := svc.Blur(ctx, sess.ID, step, field)
		writeOnboarding(w, view, err, logger)
	}
}

func submitStepHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/steps/{step}/submit")
		defer span.End()

		step, err := stepParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("step", step.String()))

		var req stepValuesRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess, _ := SessionFromContext(ctx)
		view, err := svc.SubmitStep(ctx, sess.ID, step, req.Values)
		writeOnboarding(w, view, err, logger)
	}
}

func addLabelHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/labels")
		defer span.End()

		var req addLabelRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess, _ := SessionFromContext(ctx)
		view, err := svc.AddLabel(ctx, sess.ID, req.Name, req.Color)
		writeOnboarding(w, view, err, logger)
	}
}

func removeLabelHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/onboarding/labels/{labelId}")
		defer span.End()

		sess, _ := SessionFromContext(ctx)
		view, err := svc.RemoveLabel(ctx, sess.ID, chi.URLParam(r, "labelId"))
		writeOnboarding(w, view, err, logger)
	}
}

func submitOnboardingHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/submit")
		defer span.End()

		sess, _ := SessionFromContext(ctx)
		view, err := svc.Submit(ctx, sess.ID)
		if err != nil {
			span.RecordError(err)
		}
		writeOnboarding(w, view, err, logger)
	}
}

// restartOnboardingHandler backs the dashboard's "New Organization" action.
func restartOnboardingHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/new")
		defer span.End()

		sess, _ := SessionFromContext(ctx)
		view, err := svc.Restart(ctx, sess.ID)
		writeOnboarding(w, view, err, logger)
	}
}

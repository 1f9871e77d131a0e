package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/observability"
	"github.com/boddenberg/financehub-onboarding-bff/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// healthCheckTimeout bounds the upstream probe of /healthz.
const healthCheckTimeout = 2 * time.Second

// RouterOption customizes NewRouter.
type RouterOption func(*routerOptions)

type routerOptions struct {
	allowedOrigins []string
}

// WithAllowedOrigins enables CORS for the given browser origins.
func WithAllowedOrigins(origins ...string) RouterOption {
	return func(o *routerOptions) { o.allowedOrigins = origins }
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes under /v1 other than login and the reference tables require a
// session. A nil authSvc disables every session-bound route.
func NewRouter(
	authSvc *service.AuthService,
	onboardingSvc *service.OnboardingService,
	dashboardSvc *service.DashboardService,
	referenceSvc *service.ReferenceService,
	metrics *observability.Metrics,
	logger *zap.Logger,
	opts ...RouterOption,
) http.Handler {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(logger, metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	if len(o.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   o.allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(referenceSvc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Metrics snapshot
		// GET /v1/metrics/onboarding
		// =============================================
		r.Get("/metrics/onboarding", onboardingMetricsHandler(metrics))

		// =============================================
		// Reference tables (select box options)
		// GET /v1/reference/{kind}
		// =============================================
		if referenceSvc != nil {
			r.Get("/reference/{kind}", referenceHandler(referenceSvc, logger))
		}

		if authSvc == nil {
			r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusServiceUnavailable, "session service unavailable")
			}))
			return
		}

		// =============================================
		// Session gate
		// =============================================
		r.Post("/auth/login", authLoginHandler(authSvc, logger))

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(authSvc, logger))

			r.Post("/auth/logout", authLogoutHandler(authSvc, onboardingSvc, logger))
			r.Get("/auth/session", authSessionHandler())

			// =============================================
			// Onboarding wizard
			// =============================================
			if onboardingSvc != nil {
				r.Route("/onboarding", func(r chi.Router) {
					r.Get("/", getOnboardingHandler(onboardingSvc, logger))
					r.Post("/steps/{step}/toggle", toggleStepHandler(onboardingSvc, logger))
					r.Patch("/steps/{step}", changeStepHandler(onboardingSvc, logger))
					r.Post("/steps/{step}/blur/{field}", blurFieldHandler(onboardingSvc, logger))
					r.Post("/steps/{step}/submit", submitStepHandler(onboardingSvc, logger))
					r.Post("/labels", addLabelHandler(onboardingSvc, logger))
					r.Delete("/labels/{labelId}", removeLabelHandler(onboardingSvc, logger))
					r.Post("/submit", submitOnboardingHandler(onboardingSvc, logger))
					r.Post("/new", restartOnboardingHandler(onboardingSvc, logger))
				})
			}

			// =============================================
			// Dashboard
			// =============================================
			if dashboardSvc != nil {
				r.Get("/dashboard", dashboardHandler(dashboardSvc, logger))
			}
		})
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(referenceSvc *service.ReferenceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "financehub-bff", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		if referenceSvc != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()

			start := time.Now()
			err := referenceSvc.Check(ctx)
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				logger.Warn("healthz: financehub api check failed", zap.Error(err))
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: "financehub-api", Status: status, LatencyMs: latency, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func onboardingMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetOnboardingSnapshot())
	}
}

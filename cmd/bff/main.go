package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/financehub-onboarding-bff/internal/config"
	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/handler"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/cache"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/financehub"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/observability"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/resilience"
	"github.com/boddenberg/financehub-onboarding-bff/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, "financehub-bff")
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("financehub_api_url", cfg.FinanceHubAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Duration("wizard_ttl", cfg.WizardTTL),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Bool("dev_auth", cfg.DevAuth),
	)
	if cfg.DevAuth {
		logger.Warn("DEV_AUTH enabled: passwords are compared in plaintext against the FinanceHub API")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "financehub-bff")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	referenceCache := cache.New[[]domain.ReferenceItem](cfg.CacheTTL)
	defer referenceCache.Close()
	sessionCache := cache.New[string](cfg.SessionTTL)
	defer sessionCache.Close()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("financehub-api")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	if cfg.HTTPTimeout <= 0 {
		logger.Info("financehub client timeout disabled, calls are bounded by the request context only")
	}
	fhClient := financehub.NewClient(httpClient, cfg.FinanceHubAPIURL, cb, resilienceCfg, metrics, logger)

	// --- Services ---
	authSvc := service.NewAuthService(fhClient, sessionCache, cfg.JWTSecret, cfg.SessionTTL, cfg.DevAuth, metrics, logger)
	onboardingSvc := service.NewOnboardingService(fhClient, cfg.WizardTTL, metrics, logger)
	defer onboardingSvc.Close()
	referenceSvc := service.NewReferenceService(fhClient, referenceCache, metrics, logger)
	dashboardSvc := service.NewDashboardService(fhClient, referenceSvc, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(authSvc, onboardingSvc, dashboardSvc, referenceSvc, metrics, logger,
		handler.WithAllowedOrigins(cfg.AllowedOrigins...),
	)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// Command mockapi serves an in-memory FinanceHub API for local
// development and demos.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/mockapi"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/observability"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	addr := pflag.String("addr", ":3001", "listen address")
	seedPath := pflag.String("seed", "", "YAML seed file (defaults to the embedded seed)")
	logLevel := pflag.String("log-level", "info", "log level (debug, info, warn, error)")
	pflag.Parse()

	logger := observability.NewLogger(*logLevel, "financehub-mockapi")
	defer logger.Sync()

	if err := run(*addr, *seedPath, logger); err != nil {
		logger.Error("mockapi failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(addr, seedPath string, logger *zap.Logger) error {
	seed := mockapi.DefaultSeed()
	if seedPath != "" {
		data, err := os.ReadFile(seedPath)
		if err != nil {
			return fmt.Errorf("read seed: %w", err)
		}
		seed = data
	}
	store, err := mockapi.LoadSeed(seed)
	if err != nil {
		return err
	}
	logger.Info("seed loaded", zap.Strings("collections", store.Collections()))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mockapi.NewServer(store, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mockapi listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/neomorfeo/orderguard/internal/adapter/fsm"
	otelAdapter "github.com/neomorfeo/orderguard/internal/adapter/otel"
	riverAdapter "github.com/neomorfeo/orderguard/internal/adapter/river"
	"github.com/neomorfeo/orderguard/internal/adapter/session"
	"github.com/neomorfeo/orderguard/internal/adapter/sqlite"
	"github.com/neomorfeo/orderguard/internal/app"
	"github.com/neomorfeo/orderguard/internal/config"
	"github.com/neomorfeo/orderguard/internal/domain"

	handler "github.com/neomorfeo/orderguard/internal/adapter/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("orderguard exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := newLogger(cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Observability ---
	providers, err := otelAdapter.Setup(ctx, cfg.OTel)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("otel shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := otelAdapter.OpenDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	sqliteRepo, err := sqlite.NewFromDB(db)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	repo := otelAdapter.NewTracingRepository(sqliteRepo)

	riverClient, err := riverAdapter.Setup(ctx, db, logger)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	// Start detaches from the signal context so Stop below drains in-flight jobs.
	if err := riverClient.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("river start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			logger.Error("river stop", "error", err)
		}
	}()
	publisher := otelAdapter.NewTracingPublisher(riverAdapter.NewPublisher(riverClient))

	// --- Application ---
	authorizer, err := otelAdapter.NewMeteredAuthorizer(domain.NewPolicy(fsm.New()))
	if err != nil {
		return fmt.Errorf("authorizer: %w", err)
	}
	svc := app.NewOrderService(repo, publisher, authorizer, app.WithMaxStatusAttempts(cfg.StatusMaxAttempts))

	if cfg.SeedDemoData {
		n, err := svc.Seed(ctx, app.DemoOrders)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if n > 0 {
			logger.Info("seeded demo orders", "count", n)
		}
	}

	sessions, err := session.NewIssuer([]byte(cfg.SessionSecret), cfg.SessionIssuer, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("sessions: %w", err)
	}

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(otelchi.Middleware(cfg.OTel.ServiceName, otelchi.WithChiRoutes(router)))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(sessions.Middleware)

	api := humachi.New(router, huma.DefaultConfig("orderguard", cfg.OTel.ServiceVersion))
	handler.Register(api, svc, sessions, cfg.KnownTenants)

	// --- Server ---
	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("orderguard listening", "addr", srv.Addr, "docs", "/docs")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}

func newLogger(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// Package main is the entry point for the shopadmin API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopadmin/internal/config"
	"shopadmin/internal/database"
	"shopadmin/internal/handlers"
	"shopadmin/internal/middleware"
	"shopadmin/internal/router"
	"shopadmin/internal/service"
	"shopadmin/internal/store"
	"shopadmin/internal/valkey"
)

// staticTokenVerifier accepts the single API token configured at
// startup. Real token issuance lives in the external auth service; this
// is the minimal verifier for single-tenant deployments.
type staticTokenVerifier struct {
	token string
}

func (v staticTokenVerifier) Verify(token string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) != 1 {
		return "", errors.New("invalid token")
	}
	return "admin", nil
}

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for rate-limit counters. The API runs without
	// it; the limiter is simply disabled.
	var limiter *middleware.RateLimiter
	valkeyClient, err := valkey.Connect(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey not available, rate limiting disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		limiter = middleware.NewRateLimiter(valkeyClient, 120, time.Minute)
	}

	// Initialize data stores and services.
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)
	categoryService := service.NewCategoryService(categoryStore)
	postService := service.NewPostService(postStore, categoryStore)

	// Bearer-token auth on mutating routes. Without a configured token
	// (development) the routes are open.
	var verifier middleware.TokenVerifier
	if cfg.APIToken != "" {
		verifier = staticTokenVerifier{token: cfg.APIToken}
	} else {
		slog.Warn("ADMIN_API_TOKEN not set, mutating routes are unauthenticated")
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(
		handlers.NewCategories(categoryService),
		handlers.NewPosts(postService),
		verifier,
		limiter,
	)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// Carbon footprint dashboard server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ashureev/carbon-ledger/internal/advisor"
	"github.com/ashureev/carbon-ledger/internal/api"
	"github.com/ashureev/carbon-ledger/internal/chart"
	"github.com/ashureev/carbon-ledger/internal/config"
	"github.com/ashureev/carbon-ledger/internal/identity"
	"github.com/ashureev/carbon-ledger/internal/middleware"
	"github.com/ashureev/carbon-ledger/internal/page"
	"github.com/ashureev/carbon-ledger/internal/store"
	"github.com/ashureev/carbon-ledger/internal/synth"
	"github.com/ashureev/carbon-ledger/web"
)

const (
	maxMemorySessions = 10_000
	sweepInterval     = 5 * time.Minute
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrConfigurationMissing) {
			slog.Error("Required configuration missing", "error", err)
		} else {
			slog.Error("Failed to load configuration", "error", err)
		}
		os.Exit(1)
	}
	level.Set(cfg.LogLevel())

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "model", cfg.AI.Model)

	repo, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Session store health check failed", "error", err)
		os.Exit(1)
	}

	// Initialize services.
	completer := advisor.NewAnthropic(advisor.AnthropicConfig{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	})
	advisoryClient := advisor.New(completer, cfg.AI.Timeout)
	controller := page.NewController(repo, advisoryClient, chart.NewRenderer(cfg.ChartColors), synth.NewRandom(), cfg.InitialCredits)

	limiter := api.NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration)
	defer limiter.Stop()

	// Initialize handlers.
	handler := api.NewHandler(controller, limiter, cfg.AllowedOrigins(), cfg.IsDevelopment())
	healthHandler := api.NewHealthHandler(repo, 0)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins()))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// Dashboard routes are scoped to the anonymous browser identity.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(cfg.IsDevelopment()))
		handler.RegisterRoutes(r)
	})

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// WriteTimeout stays 0 so chat websockets are not cut off.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeperDone := store.StartSweeper(ctx, repo, cfg.SessionTTL, sweepInterval, func(removed int64) {
		slog.Info("Expired sessions removed", "count", removed)
	})

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	<-sweeperDone

	slog.Info("Server stopped successfully")
}

// openStore picks SQLite when DATABASE_URL is set and the in-memory cache otherwise.
func openStore(cfg *config.Config) (store.Repository, error) {
	if path := cfg.SQLitePath(); path != "" {
		slog.Info("Using SQLite session store", "path", path)
		repo, err := store.NewSQLite(path, cfg.InitialCredits)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	slog.Info("Using in-memory session store", "ttl", cfg.SessionTTL)
	repo, err := store.NewMemory(cfg.InitialCredits, cfg.SessionTTL, maxMemorySessions)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

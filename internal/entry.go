// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/coachnudge/internal/api"
	"github.com/starford/coachnudge/internal/inbox"
	"github.com/starford/coachnudge/internal/llm"
	"github.com/starford/coachnudge/internal/mcpserver"
	"github.com/starford/coachnudge/internal/nudge"
	"github.com/starford/coachnudge/internal/persist"
	"github.com/starford/coachnudge/internal/scheduler"
	"github.com/starford/coachnudge/internal/sse"
	"github.com/starford/coachnudge/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_path", cfg.Store.Path),
		slog.String("llm_model", cfg.LLM.Model),
		slog.Bool("scheduler_enabled", cfg.Scheduler.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Persistence gateway.
	gw, err := persist.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init persistence: %w", err)
	}
	defer gw.Close()

	// State store, hydrated from the last session.
	st := store.New(gw, logger)
	if err := st.Hydrate(); err != nil {
		logger.Warn("hydration failed, starting from initial state", slog.String("error", err.Error()))
	}
	if cfg.Scheduler.DemoMode {
		st.Dispatch(store.SetDemoMode{Enabled: true})
	}

	// Content generation and the nudge lifecycle engine.
	client := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxCompletionTokens, cfg.LLM.Timeout())
	gen := llm.NewGenerator(client)
	engine := nudge.NewEngine(st, gen, logger)

	// SSE broker, fed by store change notifications.
	broker := sse.NewBroker()
	defer broker.Close()
	st.Subscribe(broker.PublishStateEvent)

	// Build API router.
	h := api.NewHandler(st, engine, gen)
	apiRouter := api.NewRouter(h, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Background nudge scheduler.
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(st, engine, logger, cfg.Scheduler.DemoMode)
		g.Go(func() error {
			return sched.Run(gCtx)
		})
	}

	// Document inbox watcher.
	if cfg.Inbox.Path != "" {
		g.Go(func() error {
			return inbox.Watch(gCtx, st, cfg.Inbox.Path, logger)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server against the persisted state. The
// scheduler and HTTP surface stay off; the process serves tools until
// stdin closes.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// MCP uses stdout for the protocol; log to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	gw, err := persist.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init persistence: %w", err)
	}
	defer gw.Close()

	st := store.New(gw, logger)
	if err := st.Hydrate(); err != nil {
		logger.Warn("hydration failed, starting from initial state", slog.String("error", err.Error()))
	}

	client := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxCompletionTokens, cfg.LLM.Timeout())
	gen := llm.NewGenerator(client)
	engine := nudge.NewEngine(st, gen, logger)

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(st, engine, gen).ServeStdio()
}

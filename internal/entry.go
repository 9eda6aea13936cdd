// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/jera/internal/api"
	"github.com/starford/jera/internal/mcpserver"
	"github.com/starford/jera/internal/page"
	"github.com/starford/jera/internal/pageservice"
	"github.com/starford/jera/internal/site"
	"github.com/starford/jera/internal/sse"
	"github.com/starford/jera/internal/state"
	"github.com/starford/jera/internal/storage"
)

// runtime bundles the components shared by the serve, sync, and mcp modes.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	store  *storage.FS
	db     *state.DB
	syncer *site.Syncer
}

func (rt *runtime) close() {
	_ = rt.db.Close()
}

// setup builds the shared runtime from options. logs is where the structured
// logger writes (stdout for server modes, stderr for stdio MCP).
func setup(logs io.Writer, opts ...Option) (*runtime, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("workspace", cfg.Sources.Workspace),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Sources.Workspace)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := state.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init state: %w", err)
	}

	syncer := site.NewSyncer(store, db, site.Config{
		Roots:             cfg.Sources.Roots(),
		OutputRoot:        cfg.Site.OutputRoot,
		RepoURL:           cfg.Site.RepoURL,
		Branch:            cfg.Site.Branch,
		DefaultDifficulty: cfg.Site.DefaultDifficulty,
		Descriptions:      cfg.Site.FallbackDescriptions(),
	}, logger)

	return &runtime{cfg: cfg, logger: logger, store: store, db: db, syncer: syncer}, nil
}

// RunSync performs a one-shot synchronization and exits. This is the CI mode.
func RunSync(ctx context.Context, opts ...Option) error {
	rt, err := setup(os.Stdout, opts...)
	if err != nil {
		return err
	}
	defer rt.close()

	report, err := rt.syncer.SyncAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	rt.logger.Info("Sync complete",
		slog.Int("synced", report.Synced),
		slog.Int("skipped", report.Skipped),
		slog.Int("pruned", report.Pruned))
	return nil
}

// RunMCP starts the MCP stdio server. Logs go to stderr so stdout stays
// reserved for the MCP transport.
func RunMCP(ctx context.Context, opts ...Option) error {
	rt, err := setup(os.Stderr, opts...)
	if err != nil {
		return err
	}
	defer rt.close()

	if _, err := rt.syncer.SyncAll(ctx, nil); err != nil {
		rt.logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	svc := pageservice.NewService(rt.store, rt.db, rt.syncer, nil)
	return mcpserver.New(svc).ServeStdio()
}

// Run starts the long-running service: initial sync, source watcher, HTTP
// API, and SSE events, shutting down gracefully on SIGINT/SIGTERM.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(os.Stdout, opts...)
	if err != nil {
		return err
	}
	defer rt.close()

	cfg := rt.cfg
	logger := rt.logger

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	onPage := func(kind string, category page.Category, outputPath string) {
		broker.PublishPageEvent(kind, string(category), outputPath)
	}

	// Run initial sync.
	if report, err := rt.syncer.SyncAll(ctx, onPage); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	} else {
		logger.Info("Initial sync complete",
			slog.Int("synced", report.Synced),
			slog.Int("skipped", report.Skipped),
			slog.Int("pruned", report.Pruned))
	}

	// Build API service and router.
	svc := pageservice.NewService(rt.store, rt.db, rt.syncer, onPage)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

	// Start source watcher.
	g.Go(func() error {
		var roots []string
		for _, rel := range cfg.Sources.Roots() {
			roots = append(roots, filepath.Join(rt.store.Root(), rel))
		}
		return site.Watch(gCtx, rt.syncer, roots, logger, onPage)
	})

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

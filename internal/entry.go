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
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/perthro/internal/index"
	"github.com/starford/perthro/internal/mcpserver"
	"github.com/starford/perthro/internal/pageservice"
	"github.com/starford/perthro/internal/render"
	"github.com/starford/perthro/internal/server"
	"github.com/starford/perthro/internal/site"
	"github.com/starford/perthro/internal/sse"
	"github.com/starford/perthro/internal/vault"
)

func setup(defaultLog io.Writer, opts []Option) (*Config, *slog.Logger, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	w := app.logWriter
	if w == nil {
		w = defaultLog
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("out_dir", cfg.Site.OutDir),
		slog.Bool("search_enabled", cfg.Search.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return cfg, logger, nil
}

func siteConfig(cfg *Config, liveReload bool) site.Config {
	return site.Config{
		OutDir:     cfg.Site.OutDir,
		Title:      cfg.Site.Title,
		BaseURL:    cfg.Site.BaseURL,
		Workers:    cfg.Site.Workers,
		LiveReload: liveReload,
	}
}

// openIndex opens and syncs the search index when enabled. Disabled search
// returns (nil, nil); the page service treats a missing index as search
// turned off.
func openIndex(cfg *Config, v *vault.Vault, logger *slog.Logger) (*index.DB, error) {
	if !cfg.Search.Enabled {
		return nil, nil
	}
	db, err := index.Open(cfg.Search.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}
	if err := index.Sync(db, v, logger); err != nil {
		logger.Warn("initial index sync failed", slog.String("error", err.Error()))
	}
	return db, nil
}

// RunBuild loads the vault and writes the static site once.
func RunBuild(ctx context.Context, opts ...Option) error {
	cfg, logger, err := setup(os.Stdout, opts)
	if err != nil {
		return err
	}

	v, err := vault.Load(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("load vault: %w", err)
	}
	return site.Build(ctx, logger, v, render.New(v), siteConfig(cfg, false))
}

// RunServe builds the site, then serves it with the JSON API, live reload
// events and a file watcher that rebuilds on vault changes.
func RunServe(ctx context.Context, opts ...Option) error {
	cfg, logger, err := setup(os.Stdout, opts)
	if err != nil {
		return err
	}

	v, err := vault.Load(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("load vault: %w", err)
	}
	if err := site.Build(ctx, logger, v, render.New(v), siteConfig(cfg, true)); err != nil {
		return err
	}

	db, err := openIndex(cfg, v, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var pi index.PageIndex
	if db != nil {
		pi = db
	}
	svc := pageservice.New(pageservice.NewSnapshot(v), pi)

	broker := sse.NewBroker(0)
	defer broker.Close()

	httpServer := &http.Server{
		Addr:    cfg.Serve.Address(),
		Handler: server.New(svc, broker, cfg.Site.OutDir),
	}

	// rebuild reloads the vault and rewrites the site after watcher events.
	// Failures keep the previous snapshot and site so one bad save never
	// takes the preview down.
	rebuild := func(changed []string) {
		nv, loadErr := vault.Load(cfg.Vault.Path)
		if loadErr != nil {
			logger.Warn("rebuild: vault load failed", slog.String("error", loadErr.Error()))
			return
		}
		if buildErr := site.Build(ctx, logger, nv, render.New(nv), siteConfig(cfg, true)); buildErr != nil {
			logger.Warn("rebuild: site build failed", slog.String("error", buildErr.Error()))
			return
		}
		svc.Replace(pageservice.NewSnapshot(nv))
		if db != nil {
			if syncErr := index.Sync(db, nv, logger); syncErr != nil {
				logger.Warn("rebuild: index sync failed", slog.String("error", syncErr.Error()))
			}
		}
		for _, p := range changed {
			broker.PublishPageUpdated(p)
		}
		broker.PublishReload()
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.Serve.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher.
	g.Go(func() error {
		debounce := time.Duration(cfg.Serve.WatchDebounceMS) * time.Millisecond
		return server.Watch(gCtx, v.Root, debounce, logger, rebuild)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.Serve.Address()))
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

// RunMCP exposes the vault over MCP stdio. The logger writes to stderr
// because stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	cfg, logger, err := setup(os.Stderr, opts)
	if err != nil {
		return err
	}

	v, err := vault.Load(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("load vault: %w", err)
	}

	db, err := openIndex(cfg, v, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var pi index.PageIndex
	if db != nil {
		pi = db
	}
	svc := pageservice.New(pageservice.NewSnapshot(v), pi)

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}

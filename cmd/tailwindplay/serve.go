// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"tailwindplay/internal/cache"
	"tailwindplay/internal/catalog"
	"tailwindplay/internal/config"
	"tailwindplay/internal/database"
	"tailwindplay/internal/handlers"
	"tailwindplay/internal/live"
	"tailwindplay/internal/middleware"
	"tailwindplay/internal/recent"
	"tailwindplay/internal/render"
	"tailwindplay/internal/router"
	"tailwindplay/internal/session"
	"tailwindplay/internal/storage"
	"tailwindplay/internal/store"
	"tailwindplay/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, logCloser, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"db_driver", cfg.DBDriver,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	slog.Info("catalog loaded", "categories", len(cat.List()), "functions", cat.FunctionCount())

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Valkey is optional: without it visitor sessions are cookie-only,
	// recent lists live in process memory and pages are not cached.
	var valkeyClient *redis.Client
	if cfg.ValkeyEnabled() {
		valkeyClient, err = cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, continuing without it", "error", err)
		} else {
			defer valkeyClient.Close()
		}
	}

	var kv recent.KV = recent.NewMemoryKV()
	var pageCache *cache.PageCache
	if valkeyClient != nil {
		kv = cache.NewKV(valkeyClient, cache.DefaultKVTTL)
		pageCache = cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
		// A new binary may ship a different catalog or templates.
		pageCache.InvalidateAll(ctx)
	}

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	recentStore := recent.NewStore(kv, recent.DefaultLimit)
	snippets := store.NewSnippetStore(db, cfg.DBDriver)

	// S3-compatible object storage (optional; publishing is disabled without it).
	var publisher handlers.Publisher
	storageClient, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return fmt.Errorf("initialize s3 storage: %w", err)
	}
	if storageClient != nil {
		publisher = storageClient
		slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, publishing disabled")
	}

	renderer, err := render.New(cfg.IsDev(), cfg.ScriptURL)
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	liveHandler := live.NewHandler(cfg.PreviewOptions(), nil, strings.TrimRight(cfg.BaseURL, "/"))

	var limiter *middleware.RateLimiter
	if cfg.ShareRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.ShareRateLimit, time.Minute, nil)
		defer limiter.Stop()
	}

	r := router.New(
		sessionStore,
		handlers.NewDocs(renderer, cat, recentStore, snippets, pageCache),
		handlers.NewPlayground(renderer, cat, snippets, publisher, cfg.PreviewOptions(), cfg.BaseURL),
		liveHandler,
		handlers.NewHealth(db, valkeyClient, liveHandler),
		router.Options{
			Secure:       secureCookies,
			Static:       web.Static(),
			ShareLimiter: limiter,
		},
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown.
	liveHandler.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully", "live_sessions_served", liveHandler.Total())
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("load built-in catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

// openDatabase connects and applies pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.DBDriver == database.DriverSQLite && cfg.SQLitePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := database.Connect(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

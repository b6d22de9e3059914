// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"promsnab/internal/cache"
	"promsnab/internal/config"
	"promsnab/internal/contact"
	"promsnab/internal/database"
	"promsnab/internal/handlers"
	"promsnab/internal/i18n"
	"promsnab/internal/middleware"
	"promsnab/internal/render"
	"promsnab/internal/router"
	"promsnab/internal/storage"
	"promsnab/internal/store"
	"promsnab/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	set, err := localeSet(cfg)
	if err != nil {
		return err
	}

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Seed default settings (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	// The page cache is optional: without Valkey every request renders.
	valkeyClient := connectCache(cfg)
	if valkeyClient != nil {
		defer valkeyClient.Close()
	}
	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)

	bundle, err := i18n.Load(set)
	if err != nil {
		return fmt.Errorf("load dictionaries: %w", err)
	}

	// In dev mode templates are re-parsed on every request.
	renderer, err := render.New(bundle, cfg.IsDev())
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		return err
	}
	contactService := contact.NewService(mailer, contact.Config{
		From:     cfg.MailFrom,
		To:       cfg.MailTo,
		SiteName: "Promsnab",
		DryRun:   cfg.ContactDryRun,
	})
	if contactService.DryRun() {
		slog.Warn("contact form in dry-run mode, submissions are not mailed")
	}

	deps := handlers.Deps{
		Locales:       set,
		Bundle:        bundle,
		Renderer:      renderer,
		Content:       store.NewContentStore(db),
		Catalog:       store.NewCatalogStore(db),
		Settings:      store.NewSiteSettingStore(db),
		Nav:           store.NewNavigationStore(db),
		Cache:         pageCache,
		Contact:       contactService,
		BaseURL:       cfg.SiteURL,
		AllowIndexing: cfg.AllowIndexing,
	}

	// Connect to S3-compatible object storage (optional, datasheet links
	// 404 without it).
	storageClient, err := newStorage(cfg)
	if err != nil {
		return err
	}
	if storageClient != nil {
		deps.Objects = storageClient
	}

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static files: %w", err)
	}

	var limitOpts []middleware.RateLimitOption
	if cfg.TrustProxy {
		limitOpts = append(limitOpts, middleware.TrustProxyHeaders())
	}
	limiter := middleware.NewRateLimiter(cfg.ContactRateLimit, cfg.ContactRateWindow, limitOpts...)
	defer limiter.Stop()

	r := router.New(router.Options{
		Locales:        set,
		DetectLanguage: cfg.DetectLanguage,
		Secure:         !cfg.IsDev(),
		ContactLimiter: limiter,
		Static:         static,
	}, handlers.NewPublic(deps))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// connectCache returns nil when Valkey is unreachable.
func connectCache(cfg *config.Config) *redis.Client {
	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		slog.Warn("valkey unavailable, page cache disabled", "error", err)
		return nil
	}
	return client
}

// newMailer returns nil in dry-run mode.
func newMailer(cfg *config.Config) (contact.Mailer, error) {
	if cfg.ContactDryRun {
		return nil, nil
	}
	m, err := contact.NewSMTPMailer(contact.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize mailer: %w", err)
	}
	return m, nil
}

func newStorage(cfg *config.Config) (*storage.Client, error) {
	client, err := storage.New(storage.Config{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBucket:  cfg.S3BucketPublic,
		PrivateBucket: cfg.S3BucketPrivate,
		PublicURL:     cfg.S3PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize s3 storage: %w", err)
	}
	if client == nil {
		slog.Warn("s3 storage not configured, datasheets disabled")
		return nil, nil
	}
	slog.Info("s3 storage connected",
		"endpoint", cfg.S3Endpoint,
		"public_bucket", cfg.S3BucketPublic,
		"private_bucket", cfg.S3BucketPrivate,
	)
	return client, nil
}

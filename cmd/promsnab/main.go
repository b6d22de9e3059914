// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Promsnab site. It serves the
// public website, applies database migrations and imports content.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"promsnab/internal/config"
	"promsnab/internal/locale"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. Running the binary without a subcommand
// starts the server.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "promsnab",
		Short:         "Promsnab bilingual company website",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newImportCmd())
	return root
}

// setup loads configuration and installs the default logger: text in
// development, JSON everywhere else.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"site_url", cfg.SiteURL,
		"locales", cfg.Locales,
	)
	return cfg, nil
}

// localeSet builds the supported locales from configuration.
func localeSet(cfg *config.Config) (*locale.Set, error) {
	return locale.NewSet(cfg.DefaultLocale, cfg.Locales...)
}

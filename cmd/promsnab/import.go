// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"promsnab/content"
	"promsnab/internal/cache"
	"promsnab/internal/database"
	"promsnab/internal/importer"
	"promsnab/internal/store"
)

func newImportCmd() *cobra.Command {
	var (
		dir  string
		opts importer.Options
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load Markdown content into the database",
		Long: `Import reads site.yaml and the pages, posts and products directories
and writes them to the database. Files under datasheets/ are uploaded to
object storage when it is configured. Cached pages are dropped afterwards.

Without --dir the content bundled into the binary is imported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			set, err := localeSet(cfg)
			if err != nil {
				return err
			}

			var src fs.FS = content.FS
			if dir != "" {
				if _, err := os.Stat(dir); err != nil {
					return fmt.Errorf("content dir: %w", err)
				}
				src = os.DirFS(dir)
			}

			db, err := database.Connect(cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			catalogStore := store.NewCatalogStore(db)
			targets := importer.Targets{
				Entries:  store.NewContentStore(db),
				Settings: store.NewSiteSettingStore(db),
				Nav:      store.NewNavigationStore(db),
				Labels:   catalogStore,
				History:  store.NewImportLogStore(db),
			}

			storageClient, err := newStorage(cfg)
			if err != nil {
				return err
			}
			if storageClient != nil {
				targets.Files = storageClient
			}
			if client := connectCache(cfg); client != nil {
				defer client.Close()
				targets.Cache = cache.NewPageCache(client, cfg.PageCacheTTL)
			}

			report, err := importer.New(src, set, targets).Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for typ, n := range report.Imported {
				fmt.Fprintf(out, "%-9s %d\n", typ, n)
			}
			fmt.Fprintf(out, "pruned    %d\nuploaded  %d\nskipped   %d\n", report.Pruned, report.Uploaded, len(report.Skipped))
			if opts.DryRun {
				fmt.Fprintln(out, "dry run, nothing written")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "content directory (default: bundled content)")
	cmd.Flags().BoolVar(&opts.Prune, "prune", false, "delete entries whose files were removed")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "parse and report without writing")
	return cmd
}

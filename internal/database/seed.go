// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// defaultSettings are shared (locale "") settings a fresh database starts
// with, so the site renders before the first content import.
var defaultSettings = map[string]string{
	"site_name":   "Promsnab",
	"theme_color": "#1f3a5f",
	"logo":        "/static/img/logo.svg",
}

// Seed inserts the default shared site settings when the settings table is
// empty. Existing rows are never touched.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM site_settings").Scan(&count); err != nil {
		return fmt.Errorf("seed check settings: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for key, value := range defaultSettings {
		if _, err := tx.Exec(`
			INSERT INTO site_settings (locale, key, value)
			VALUES ('', $1, $2)
			ON CONFLICT (locale, key) DO NOTHING`,
			key, value,
		); err != nil {
			return fmt.Errorf("seed insert %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default site settings", "count", len(defaultSettings))
	return nil
}

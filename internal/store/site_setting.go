// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"promsnab/internal/locale"
	"promsnab/internal/models"
)

// SiteSettingStore manages per-locale site configuration in the database.
// Rows with an empty locale are shared by every locale.
type SiteSettingStore struct {
	db *sql.DB
}

// NewSiteSettingStore returns a new SiteSettingStore backed by the given database.
func NewSiteSettingStore(db *sql.DB) *SiteSettingStore {
	return &SiteSettingStore{db: db}
}

// All returns the settings for loc as a convenience map. Locale-specific
// values override shared ones.
func (s *SiteSettingStore) All(ctx context.Context, loc locale.Code) (models.SiteSettings, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value FROM site_settings
		WHERE locale = '' OR locale = $1
		ORDER BY (locale <> '') ASC, key
	`, loc)
	if err != nil {
		return nil, fmt.Errorf("list site settings: %w", err)
	}
	defer rows.Close()

	settings := make(models.SiteSettings)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan site setting: %w", err)
		}
		if v == "" {
			if _, ok := settings[k]; ok {
				continue
			}
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// Get returns a single setting for loc, falling back to the shared value
// and then to fallback.
func (s *SiteSettingStore) Get(ctx context.Context, loc locale.Code, key, fallback string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM site_settings
		WHERE key = $1 AND (locale = $2 OR locale = '') AND value <> ''
		ORDER BY (locale = '') ASC
		LIMIT 1
	`, key, loc).Scan(&val)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("get site setting: %w", err)
	}
	return val, nil
}

// SetMany upserts settings for one locale ("" for shared) in a single
// transaction.
func (s *SiteSettingStore) SetMany(ctx context.Context, loc locale.Code, settings map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set settings begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO site_settings (locale, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (locale, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare settings upsert: %w", err)
	}
	defer stmt.Close()

	for k, v := range settings {
		if _, err := stmt.ExecContext(ctx, string(loc), k, v); err != nil {
			return fmt.Errorf("upsert setting %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set settings commit: %w", err)
	}
	return nil
}

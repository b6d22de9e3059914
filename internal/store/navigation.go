// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"promsnab/internal/locale"
	"promsnab/internal/models"
	"promsnab/internal/seo"
)

// NavigationStore reads and replaces the per-locale menus.
type NavigationStore struct {
	db *sql.DB
}

// NewNavigationStore creates a new NavigationStore.
func NewNavigationStore(db *sql.DB) *NavigationStore {
	return &NavigationStore{db: db}
}

// List returns the menu for loc with URLs resolved. Items pointing at an
// entry that is unpublished or untranslated in loc are left out. A key
// shared by several types resolves to the page first.
func (s *NavigationStore) List(ctx context.Context, loc locale.Code) ([]models.NavItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.label, n.entry_key, n.href, n.sort_order, target.type, target.slug
		FROM nav_items n
		LEFT JOIN LATERAL (
			SELECT e.type, t.slug
			FROM entries e
			JOIN entry_translations t ON t.entry_id = e.id AND t.locale = n.locale
			WHERE e.key = n.entry_key AND e.published
			ORDER BY CASE e.type WHEN 'page' THEN 0 WHEN 'product' THEN 1 ELSE 2 END
			LIMIT 1
		) target ON TRUE
		WHERE n.locale = $1
		ORDER BY n.sort_order, n.label
	`, loc)
	if err != nil {
		return nil, fmt.Errorf("list navigation: %w", err)
	}
	defer rows.Close()

	var items []models.NavItem
	for rows.Next() {
		item := models.NavItem{Locale: loc}
		var typ, slug sql.NullString
		if err := rows.Scan(&item.Label, &item.EntryKey, &item.Href, &item.SortOrder, &typ, &slug); err != nil {
			return nil, fmt.Errorf("scan nav item: %w", err)
		}
		switch {
		case item.Href != nil:
			item.URL = ResolveHref(loc, *item.Href)
		case typ.Valid && slug.Valid:
			item.URL = seo.EntryPath(models.EntryType(typ.String))(loc, slug.String)
		default:
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Replace swaps the menu of loc for items in one transaction.
func (s *NavigationStore) Replace(ctx context.Context, loc locale.Code, items []models.NavItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace navigation begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nav_items WHERE locale = $1`, loc); err != nil {
		return fmt.Errorf("clear navigation: %w", err)
	}
	for i, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO nav_items (locale, label, entry_key, href, sort_order)
			VALUES ($1, $2, $3, $4, $5)
		`, loc, item.Label, item.EntryKey, item.Href, i); err != nil {
			return fmt.Errorf("insert nav item %q: %w", item.Label, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace navigation commit: %w", err)
	}
	return nil
}

// ResolveHref turns a menu href into a URL. Absolute URLs, mailto: and
// tel: links are kept; site paths get the locale prefix.
func ResolveHref(loc locale.Code, href string) string {
	switch {
	case strings.Contains(href, "://"), strings.HasPrefix(href, "mailto:"), strings.HasPrefix(href, "tel:"), strings.HasPrefix(href, "#"):
		return href
	}
	return seo.Path(loc, href)
}

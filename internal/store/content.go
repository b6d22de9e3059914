// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"promsnab/internal/locale"
	"promsnab/internal/models"
)

// ContentStore handles entries and their translations. Pages, posts and
// products share the entries table, differentiated by the type column.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const entryColumns = `e.id, e.key, e.type, e.published, e.sort_order, e.datasheet,
       e.published_at, e.created_at, e.updated_at`

func scanEntry(row interface{ Scan(...any) error }, e *models.Entry) error {
	return row.Scan(
		&e.ID, &e.Key, &e.Type, &e.Published, &e.SortOrder, &e.Datasheet,
		&e.PublishedAt, &e.CreatedAt, &e.UpdatedAt,
	)
}

// FindBySlug retrieves a published entry by type and localized slug, with
// every translation loaded so alternates can be built. Returns nil if not
// found.
func (s *ContentStore) FindBySlug(ctx context.Context, typ models.EntryType, loc locale.Code, slug string) (*models.Entry, error) {
	e := &models.Entry{}
	err := scanEntry(s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM entries e
		JOIN entry_translations t ON t.entry_id = e.id
		WHERE e.type = $1 AND t.locale = $2 AND t.slug = $3 AND e.published
	`, typ, loc, slug), e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find entry by slug: %w", err)
	}
	if err := s.hydrate(ctx, []*models.Entry{e}, ""); err != nil {
		return nil, err
	}
	return e, nil
}

// FindByKey retrieves a published entry by its import key. Returns nil if
// not found.
func (s *ContentStore) FindByKey(ctx context.Context, typ models.EntryType, key string) (*models.Entry, error) {
	e := &models.Entry{}
	err := scanEntry(s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM entries e
		WHERE e.type = $1 AND e.key = $2 AND e.published
	`, typ, key), e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find entry by key: %w", err)
	}
	if err := s.hydrate(ctx, []*models.Entry{e}, ""); err != nil {
		return nil, err
	}
	return e, nil
}

// ListPublished returns published entries of a type that are translated
// into loc, newest first for posts and by sort order otherwise. Only the
// loc translation is loaded. limit <= 0 means no limit.
func (s *ContentStore) ListPublished(ctx context.Context, typ models.EntryType, loc locale.Code, limit int) ([]models.Entry, error) {
	order := "e.sort_order, t.title"
	if typ == models.EntryTypePost {
		order = "e.published_at DESC NULLS LAST, e.created_at DESC"
	}
	query := `
		SELECT ` + entryColumns + `
		FROM entries e
		JOIN entry_translations t ON t.entry_id = e.id AND t.locale = $2
		WHERE e.type = $1 AND e.published
		ORDER BY ` + order
	args := []any{typ, loc}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	entries, err := s.queryEntries(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list published entries: %w", err)
	}
	if err := s.hydrate(ctx, pointers(entries), loc); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListAllPublished returns every published entry with all translations.
// Used to build the sitemap.
func (s *ContentStore) ListAllPublished(ctx context.Context) ([]models.Entry, error) {
	entries, err := s.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM entries e
		WHERE e.published
		ORDER BY e.type, e.sort_order, e.key
	`)
	if err != nil {
		return nil, fmt.Errorf("list all published entries: %w", err)
	}
	if err := s.hydrate(ctx, pointers(entries), ""); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of entries of a type, published or not.
func (s *ContentStore) Count(ctx context.Context, typ models.EntryType) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE type = $1`, typ).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Upsert inserts or replaces an entry identified by (type, key) together
// with its translations and attributes, in one transaction. e.ID is set to
// the stored id.
func (s *ContentStore) Upsert(ctx context.Context, e *models.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert entry begin: %w", err)
	}
	defer tx.Rollback()

	if e.Published && e.PublishedAt == nil {
		now := time.Now()
		e.PublishedAt = &now
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO entries (key, type, published, sort_order, datasheet, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (type, key) DO UPDATE SET
			published    = EXCLUDED.published,
			sort_order   = EXCLUDED.sort_order,
			datasheet    = EXCLUDED.datasheet,
			published_at = EXCLUDED.published_at,
			updated_at   = now()
		RETURNING id, created_at, updated_at
	`, e.Key, e.Type, e.Published, e.SortOrder, e.Datasheet, e.PublishedAt,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_translations WHERE entry_id = $1`, e.ID); err != nil {
		return fmt.Errorf("clear translations: %w", err)
	}
	for _, loc := range sortedLocales(e.Translations) {
		tr := e.Translations[loc]
		format := tr.BodyFormat
		if format == "" {
			format = models.BodyFormatMarkdown
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entry_translations (entry_id, entry_type, locale, slug, title, excerpt,
			                                body, body_format, seo_title, seo_description, og_image)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, e.ID, e.Type, loc, tr.Slug, tr.Title, tr.Excerpt,
			tr.Body, format, tr.SEOTitle, tr.SEODescription, tr.OGImage,
		); err != nil {
			return fmt.Errorf("insert translation %s: %w", loc, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_attributes WHERE entry_id = $1`, e.ID); err != nil {
		return fmt.Errorf("clear attributes: %w", err)
	}
	for group, values := range e.Attributes {
		for _, v := range values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO product_attributes (entry_id, grp, value)
				VALUES ($1, $2, $3)
				ON CONFLICT DO NOTHING
			`, e.ID, group, v); err != nil {
				return fmt.Errorf("insert attribute %s=%s: %w", group, v, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert entry commit: %w", err)
	}
	return nil
}

// Prune deletes entries of a type whose key is not in keep. Returns the
// number of deleted entries.
func (s *ContentStore) Prune(ctx context.Context, typ models.EntryType, keep []string) (int64, error) {
	if keep == nil {
		keep = []string{}
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM entries WHERE type = $1 AND NOT (key = ANY($2))
	`, typ, keep)
	if err != nil {
		return 0, fmt.Errorf("prune entries: %w", err)
	}
	return res.RowsAffected()
}

func (s *ContentStore) queryEntries(ctx context.Context, query string, args ...any) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		if err := scanEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// hydrate loads translations (all locales, or only loc when set) and
// product attributes for the given entries.
func (s *ContentStore) hydrate(ctx context.Context, entries []*models.Entry, loc locale.Code) error {
	if len(entries) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.Entry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		e.Translations = make(map[locale.Code]*models.Translation)
		byID[e.ID] = e
		ids = append(ids, e.ID.String())
	}

	query := `
		SELECT entry_id, locale, slug, title, excerpt, body, body_format,
		       seo_title, seo_description, og_image, updated_at
		FROM entry_translations
		WHERE entry_id = ANY($1::uuid[])`
	args := []any{ids}
	if loc != "" {
		query += " AND locale = $2"
		args = append(args, loc)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		tr := &models.Translation{}
		if err := rows.Scan(
			&id, &tr.Locale, &tr.Slug, &tr.Title, &tr.Excerpt, &tr.Body, &tr.BodyFormat,
			&tr.SEOTitle, &tr.SEODescription, &tr.OGImage, &tr.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan translation: %w", err)
		}
		if e, ok := byID[id]; ok {
			e.Translations[tr.Locale] = tr
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	return s.loadAttributes(ctx, byID, ids)
}

func (s *ContentStore) loadAttributes(ctx context.Context, byID map[uuid.UUID]*models.Entry, ids []string) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, grp, value
		FROM product_attributes
		WHERE entry_id = ANY($1::uuid[])
		ORDER BY grp, value
	`, ids)
	if err != nil {
		return fmt.Errorf("load attributes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		var group, value string
		if err := rows.Scan(&id, &group, &value); err != nil {
			return fmt.Errorf("scan attribute: %w", err)
		}
		e, ok := byID[id]
		if !ok {
			continue
		}
		if e.Attributes == nil {
			e.Attributes = make(map[string][]string)
		}
		e.Attributes[group] = append(e.Attributes[group], value)
	}
	return rows.Err()
}

func pointers(entries []models.Entry) []*models.Entry {
	out := make([]*models.Entry, len(entries))
	for i := range entries {
		out[i] = &entries[i]
	}
	return out
}

func sortedLocales(m map[locale.Code]*models.Translation) []locale.Code {
	out := make([]locale.Code, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(string(out[i]), string(out[j])) < 0
	})
	return out
}

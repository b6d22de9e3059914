// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// import_log.go records content import runs in the database so the last
// successful import and its counts can be checked after a deploy.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"promsnab/internal/models"
)

// ImportLogStore handles import run log operations.
type ImportLogStore struct {
	db *sql.DB
}

// NewImportLogStore creates a new ImportLogStore.
func NewImportLogStore(db *sql.DB) *ImportLogStore {
	return &ImportLogStore{db: db}
}

// ImportRun is one recorded import.
type ImportRun struct {
	ID          int64
	Pages       int
	Posts       int
	Products    int
	Pruned      int64
	Uploaded    int
	Skipped     int
	Invalidated int
	ImportedAt  time.Time
}

// Record stores a finished import run. Failures are logged, not returned:
// the import itself already succeeded.
func (s *ImportLogStore) Record(ctx context.Context, run ImportRun) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_log (pages, posts, products, pruned, uploaded, skipped, invalidated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.Pages, run.Posts, run.Products, run.Pruned, run.Uploaded, run.Skipped, run.Invalidated)
	if err != nil {
		slog.Warn("failed to record import run", "error", err)
		return
	}
	slog.Debug("import run recorded",
		"pages", run.Pages,
		"posts", run.Posts,
		"products", run.Products,
	)
}

// RecordCounts stores a run from per-type counts as the importer reports
// them.
func (s *ImportLogStore) RecordCounts(ctx context.Context, imported map[models.EntryType]int, pruned int64, uploaded, skipped, invalidated int) {
	s.Record(ctx, ImportRun{
		Pages:       imported[models.EntryTypePage],
		Posts:       imported[models.EntryTypePost],
		Products:    imported[models.EntryTypeProduct],
		Pruned:      pruned,
		Uploaded:    uploaded,
		Skipped:     skipped,
		Invalidated: invalidated,
	})
}

// Recent returns the most recent import runs, newest first.
func (s *ImportLogStore) Recent(ctx context.Context, limit int) ([]ImportRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pages, posts, products, pruned, uploaded, skipped, invalidated, imported_at
		FROM import_log
		ORDER BY imported_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import log: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var r ImportRun
		if err := rows.Scan(&r.ID, &r.Pages, &r.Posts, &r.Products, &r.Pruned, &r.Uploaded, &r.Skipped, &r.Invalidated, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan import log: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

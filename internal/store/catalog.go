// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"promsnab/internal/catalog"
	"promsnab/internal/locale"
	"promsnab/internal/models"
)

// CatalogStore answers filtered product queries. It is the only authority
// on which products match a filter selection.
type CatalogStore struct {
	db      *sql.DB
	content *ContentStore
}

// NewCatalogStore creates a new CatalogStore.
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db, content: NewContentStore(db)}
}

// List returns published products translated into loc that match sel:
// any selected value within a group, every selected group. An empty
// selection returns every product.
func (s *CatalogStore) List(ctx context.Context, loc locale.Code, sel catalog.Selection) ([]models.Entry, error) {
	query, args := buildListQuery(loc, sel)
	entries, err := s.content.queryEntries(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	if err := s.content.hydrate(ctx, pointers(entries), loc); err != nil {
		return nil, err
	}
	return entries, nil
}

// buildListQuery renders the product query for a selection. Groups are
// iterated in sorted order so equal selections produce equal SQL.
func buildListQuery(loc locale.Code, sel catalog.Selection) (string, []any) {
	var b strings.Builder
	b.WriteString(`
		SELECT ` + entryColumns + `
		FROM entries e
		JOIN entry_translations t ON t.entry_id = e.id AND t.locale = $1
		WHERE e.type = 'product' AND e.published`)
	args := []any{loc}

	n := sel.Normalize()
	for _, group := range n.Groups() {
		args = append(args, group, n[group])
		gi, vi := len(args)-1, len(args)
		b.WriteString(`
		  AND EXISTS (
			SELECT 1 FROM product_attributes pa
			WHERE pa.entry_id = e.id AND pa.grp = $` + strconv.Itoa(gi) + ` AND pa.value = ANY($` + strconv.Itoa(vi) + `)
		  )`)
	}
	b.WriteString(`
		ORDER BY e.sort_order, t.title`)
	return b.String(), args
}

// Facets returns every filter group with its values, localized labels
// and the number of published products in loc carrying each value.
func (s *CatalogStore) Facets(ctx context.Context, loc locale.Code) ([]models.Facet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pa.grp, pa.value, COUNT(DISTINCT pa.entry_id),
		       COALESCE(gl.label, ''), COALESCE(vl.label, ''),
		       COALESCE(MIN(gl.sort_order), 0), COALESCE(MIN(vl.sort_order), 0)
		FROM product_attributes pa
		JOIN entries e ON e.id = pa.entry_id AND e.type = 'product' AND e.published
		JOIN entry_translations t ON t.entry_id = e.id AND t.locale = $1
		LEFT JOIN attribute_labels gl ON gl.grp = pa.grp AND gl.value = '' AND gl.locale = $1
		LEFT JOIN attribute_labels vl ON vl.grp = pa.grp AND vl.value = pa.value AND vl.locale = $1
		GROUP BY pa.grp, pa.value, gl.label, vl.label
		ORDER BY 6, pa.grp, 7, pa.value
	`, loc)
	if err != nil {
		return nil, fmt.Errorf("list facets: %w", err)
	}
	defer rows.Close()

	var facets []models.Facet
	for rows.Next() {
		var group, value, groupLabel, valueLabel string
		var count, groupSort, valueSort int
		if err := rows.Scan(&group, &value, &count, &groupLabel, &valueLabel, &groupSort, &valueSort); err != nil {
			return nil, fmt.Errorf("scan facet: %w", err)
		}
		if len(facets) == 0 || facets[len(facets)-1].Group != group {
			facets = append(facets, models.Facet{Group: group, Label: orDefault(groupLabel, group)})
		}
		f := &facets[len(facets)-1]
		f.Values = append(f.Values, models.FacetValue{
			Value: value,
			Label: orDefault(valueLabel, value),
			Count: count,
		})
	}
	return facets, rows.Err()
}

// Labels returns the localized attribute labels for loc.
func (s *CatalogStore) Labels(ctx context.Context, loc locale.Code) (models.LabelSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT grp, value, label FROM attribute_labels WHERE locale = $1
	`, loc)
	if err != nil {
		return nil, fmt.Errorf("list attribute labels: %w", err)
	}
	defer rows.Close()

	labels := make(models.LabelSet)
	for rows.Next() {
		var group, value, label string
		if err := rows.Scan(&group, &value, &label); err != nil {
			return nil, fmt.Errorf("scan attribute label: %w", err)
		}
		if value == "" {
			labels[group] = label
		} else {
			labels[group+"/"+value] = label
		}
	}
	return labels, rows.Err()
}

// ReplaceLabels swaps the whole label table for the given rows in one
// transaction.
func (s *CatalogStore) ReplaceLabels(ctx context.Context, labels []models.AttributeLabel) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace labels begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attribute_labels`); err != nil {
		return fmt.Errorf("clear labels: %w", err)
	}
	for i, l := range labels {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attribute_labels (grp, value, locale, label, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (grp, value, locale) DO UPDATE SET label = EXCLUDED.label
		`, l.Group, l.Value, l.Locale, l.Label, i); err != nil {
			return fmt.Errorf("insert label %s/%s: %w", l.Group, l.Value, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace labels commit: %w", err)
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"promsnab/internal/catalog"
	"promsnab/internal/models"
	"promsnab/internal/render"
	"promsnab/internal/seo"
	"promsnab/internal/storage"
)

// attributeRow is one line of a product's specification table.
type attributeRow struct {
	Label string
	Value string
}

// Catalog lists products matching the filters in the query string. The
// form works with plain GET; HTMX requests receive only the results
// fragment and the canonical filter URL to push into the history.
func (p *Public) Catalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := p.locale(r)

	// Facets come first: they define which query keys are filter groups.
	facets, err := p.catalog.Facets(ctx, loc)
	if err != nil {
		p.serverError(w, r, loc, err)
		return
	}
	sel := catalog.Decode(r.URL.Query(), catalog.GroupNames(facets))

	if render.IsHTMX(r) {
		w.Header().Set("HX-Push-Url", catalog.URL(r.URL.Path, sel))
	}

	p.serve(w, r, pageKey(loc, r, catalog.EncodeQuery(sel)), "results", func(ctx context.Context) (*view, error) {
		build := seo.EntryPath(models.EntryTypeProduct)
		data, err := p.pageData(ctx, loc, r.URL.Path, p.everyLocale(""), build)
		if err != nil {
			return nil, err
		}
		products, err := p.catalog.List(ctx, loc, sel)
		if err != nil {
			return nil, err
		}

		title := p.bundle.T(loc, "catalog.title")
		// Filtered views share the index canonical and stay out of the index.
		meta := p.sectionMeta(data, title, p.bundle.T(loc, "catalog.description"), build, !sel.IsEmpty())
		data.Crumbs = p.crumbs(loc, [2]string{title, data.Path})
		meta.JSONLD = append(meta.JSONLD, seo.BreadcrumbLD(data.Crumbs))
		p.withMeta(data, meta)

		data.Data["Facets"] = catalog.MarkSelected(facets, sel)
		data.Data["Selection"] = sel
		data.Data["Products"] = products
		data.Data["Count"] = len(products)
		return &view{name: "catalog", data: data}, nil
	})
}

// Product serves a single catalog item with its specifications and an
// optional datasheet download.
func (p *Public) Product(w http.ResponseWriter, r *http.Request) {
	loc := p.locale(r)
	slug := chi.URLParam(r, "slug")
	p.serve(w, r, pageKey(loc, r, ""), "content", func(ctx context.Context) (*view, error) {
		entry, err := p.content.FindBySlug(ctx, models.EntryTypeProduct, loc, slug)
		if err != nil || entry == nil {
			return nil, err
		}
		v, err := p.entryView(ctx, entry, loc, r.URL.Path, "product", "product")
		if err != nil || v == nil {
			return v, err
		}

		labels, err := p.catalog.Labels(ctx, loc)
		if err != nil {
			return nil, err
		}
		rows := attributeRows(entry.Attributes, labels)
		v.data.Data["Attributes"] = rows
		if entry.Datasheet != nil {
			v.data.Data["Datasheet"] = DatasheetPath(*entry.Datasheet)
		}

		pairs := make([][2]string, len(rows))
		for i, row := range rows {
			pairs[i] = [2]string{row.Label, row.Value}
		}
		v.data.Meta.JSONLD = append(v.data.Meta.JSONLD, seo.ProductLD(v.data.Meta, pairs))
		return v, nil
	})
}

// attributeRows turns product attributes into labelled rows, groups in
// alphabetical order and multiple values joined with commas.
func attributeRows(attrs map[string][]string, labels models.LabelSet) []attributeRow {
	groups := make([]string, 0, len(attrs))
	for g := range attrs {
		groups = append(groups, g)
	}
	slices.Sort(groups)

	rows := make([]attributeRow, 0, len(groups))
	for _, g := range groups {
		values := make([]string, 0, len(attrs[g]))
		for _, v := range attrs[g] {
			values = append(values, labels.Value(g, v))
		}
		if len(values) == 0 {
			continue
		}
		rows = append(rows, attributeRow{Label: labels.Group(g), Value: strings.Join(values, ", ")})
	}
	return rows
}

// DatasheetPath returns the public download path of a datasheet object
// key. Keys with or without the datasheet prefix are accepted.
func DatasheetPath(key string) string {
	return "/media/" + storage.DatasheetPrefix + strings.TrimPrefix(strings.TrimPrefix(key, "/"), storage.DatasheetPrefix)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"promsnab/internal/locale"
	"promsnab/internal/models"
	"promsnab/internal/seo"
)

const (
	// homeProducts and homePosts bound the lists shown on the home page.
	homeProducts = 6
	homePosts    = 3
)

// Home serves the locale root. The home page is the page whose slug is
// empty in the locale; without one the page still renders with site
// defaults, the featured products and the latest posts.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	loc := p.locale(r)
	p.serve(w, r, pageKey(loc, r, ""), "content", func(ctx context.Context) (*view, error) {
		entry, err := p.content.FindBySlug(ctx, models.EntryTypePage, loc, "")
		if err != nil {
			return nil, err
		}
		slugs := p.everyLocale("")
		if entry != nil {
			slugs = entry.Slugs()
		}

		data, err := p.pageData(ctx, loc, r.URL.Path, slugs, seo.Path)
		if err != nil {
			return nil, err
		}

		var meta seo.Metadata
		if tr := entry.In(loc); tr != nil {
			html, err := body(tr)
			if err != nil {
				return nil, err
			}
			data.Data["Entry"] = tr
			data.Data["Body"] = html
			meta = p.entryMeta(data, tr, slugs, seo.Path, "website")
		} else {
			meta = seo.Defaults("", seo.Input{
				Settings:   p.resolvedSettings(data.Settings),
				Base:       p.base,
				Locale:     loc,
				Path:       data.Path,
				Alternates: seo.Alternates(p.base, slugs, p.set, seo.Path),
			})
		}
		meta.JSONLD = append(meta.JSONLD,
			seo.OrganizationLD(data.Settings, p.base),
			seo.WebSiteLD(meta, data.SiteName),
		)
		p.withMeta(data, meta)

		products, err := p.content.ListPublished(ctx, models.EntryTypeProduct, loc, homeProducts)
		if err != nil {
			return nil, err
		}
		posts, err := p.content.ListPublished(ctx, models.EntryTypePost, loc, homePosts)
		if err != nil {
			return nil, err
		}
		data.Data["Products"] = products
		data.Data["Posts"] = posts

		return &view{name: "home", data: data}, nil
	})
}

// Page serves a CMS page at /{locale}/{slug}. Slugs may be nested.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	loc := p.locale(r)
	slug := strings.Trim(chi.URLParam(r, "*"), "/")
	if slug == "" {
		p.Home(w, r)
		return
	}

	p.serve(w, r, pageKey(loc, r, ""), "content", func(ctx context.Context) (*view, error) {
		entry, err := p.content.FindBySlug(ctx, models.EntryTypePage, loc, slug)
		if err != nil || entry == nil {
			return nil, err
		}
		return p.entryView(ctx, entry, loc, r.URL.Path, "page", "website")
	})
}

// Blog lists the posts translated into the locale, newest first.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	loc := p.locale(r)
	p.serve(w, r, pageKey(loc, r, ""), "content", func(ctx context.Context) (*view, error) {
		build := seo.EntryPath(models.EntryTypePost)
		data, err := p.pageData(ctx, loc, r.URL.Path, p.everyLocale(""), build)
		if err != nil {
			return nil, err
		}
		posts, err := p.content.ListPublished(ctx, models.EntryTypePost, loc, 0)
		if err != nil {
			return nil, err
		}

		title := p.bundle.T(loc, "blog.title")
		meta := p.sectionMeta(data, title, p.bundle.T(loc, "blog.description"), build, false)
		data.Crumbs = p.crumbs(loc, [2]string{title, data.Path})
		meta.JSONLD = append(meta.JSONLD, seo.BreadcrumbLD(data.Crumbs))
		p.withMeta(data, meta)

		data.Data["Posts"] = posts
		return &view{name: "blog", data: data}, nil
	})
}

// Post serves a single blog post.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	loc := p.locale(r)
	slug := chi.URLParam(r, "slug")
	p.serve(w, r, pageKey(loc, r, ""), "content", func(ctx context.Context) (*view, error) {
		entry, err := p.content.FindBySlug(ctx, models.EntryTypePost, loc, slug)
		if err != nil || entry == nil {
			return nil, err
		}
		return p.entryView(ctx, entry, loc, r.URL.Path, "post", "article")
	})
}

// entryView builds the page of a single entry: body, metadata, alternates,
// breadcrumbs and the JSON-LD matching its type.
func (p *Public) entryView(ctx context.Context, entry *models.Entry, loc locale.Code, path, name, ogType string) (*view, error) {
	tr := entry.In(loc)
	if tr == nil {
		return nil, nil
	}

	slugs := entry.Slugs()
	build := seo.EntryPath(entry.Type)
	data, err := p.pageData(ctx, loc, path, slugs, build)
	if err != nil {
		return nil, err
	}
	html, err := body(tr)
	if err != nil {
		return nil, err
	}
	data.Data["Entry"] = tr
	data.Data["Body"] = html

	meta := p.entryMeta(data, tr, slugs, build, ogType)

	var steps [][2]string
	if section := entry.Type.Section(); section != "" {
		steps = append(steps, [2]string{p.bundle.T(loc, "nav."+section), seo.SectionPath(loc, section, "")})
	}
	steps = append(steps, [2]string{tr.Title, path})
	data.Crumbs = p.crumbs(loc, steps...)

	if entry.Type == models.EntryTypePost {
		data.Data["Published"] = entry.PublishedAt
		meta.JSONLD = append(meta.JSONLD, seo.ArticleLD(meta, entry.PublishedAt, entry.LastModified()))
	}
	meta.JSONLD = append(meta.JSONLD, seo.BreadcrumbLD(data.Crumbs))
	p.withMeta(data, meta)

	return &view{name: name, data: data}, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"promsnab/internal/cache"
	"promsnab/internal/locale"
	"promsnab/internal/models"
	"promsnab/internal/seo"
)

// feedSize is the number of posts in an Atom feed.
const feedSize = 20

// sectionIndexes are the listing pages announced in the sitemap besides
// the entries themselves.
var sectionIndexes = []string{"blog", "catalog", contactSection}

// document serves a generated, locale-independent document through the
// page cache.
func (p *Public) document(w http.ResponseWriter, r *http.Request, name, contentType string, build func(ctx context.Context) ([]byte, error)) {
	ctx := r.Context()
	key := cache.DocumentKey(name)

	body, ok := p.cache.Get(ctx, key)
	if !ok {
		var err error
		body, err = build(ctx)
		if err != nil {
			p.serverError(w, r, p.locale(r), fmt.Errorf("build %s: %w", name, err))
			return
		}
		p.cache.Set(ctx, key, body)
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Sitemap lists every published entry and section index in every locale,
// each URL carrying its hreflang alternates.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	p.document(w, r, "sitemap.xml", "application/xml; charset=utf-8", func(ctx context.Context) ([]byte, error) {
		entries, err := p.content.ListAllPublished(ctx)
		if err != nil {
			return nil, err
		}

		items := make([]seo.SitemapEntry, 0, len(entries)+len(sectionIndexes))
		for _, e := range entries {
			freq, prio := sitemapHints(&e)
			items = append(items, seo.SitemapEntry{
				Alternates: seo.Alternates(p.base, e.Slugs(), p.set, seo.EntryPath(e.Type)),
				LastMod:    e.LastModified(),
				ChangeFreq: freq,
				Priority:   prio,
			})
		}
		for _, section := range sectionIndexes {
			build := func(loc locale.Code, slug string) string { return seo.SectionPath(loc, section, slug) }
			items = append(items, seo.SitemapEntry{
				Alternates: seo.Alternates(p.base, p.everyLocale(""), p.set, build),
				ChangeFreq: "weekly",
				Priority:   "0.6",
			})
		}
		return seo.Sitemap(items, p.set)
	})
}

// sitemapHints returns the change frequency and priority of an entry.
func sitemapHints(e *models.Entry) (string, string) {
	switch {
	case e.Type == models.EntryTypePage && isHome(e):
		return "daily", "1.0"
	case e.Type == models.EntryTypeProduct:
		return "weekly", "0.8"
	case e.Type == models.EntryTypePost:
		return "monthly", "0.5"
	}
	return "monthly", "0.7"
}

// isHome reports whether a page is the locale root in any locale.
func isHome(e *models.Entry) bool {
	for _, tr := range e.Translations {
		if tr.Slug == "" {
			return true
		}
	}
	return false
}

// DefaultFeed serves the Atom feed of the default locale at /feed.xml.
func (p *Public) DefaultFeed(w http.ResponseWriter, r *http.Request) {
	p.feed(w, r, p.set.Default())
}

// Feed serves the Atom feed of the request locale.
func (p *Public) Feed(w http.ResponseWriter, r *http.Request) {
	p.feed(w, r, p.locale(r))
}

func (p *Public) feed(w http.ResponseWriter, r *http.Request, loc locale.Code) {
	p.document(w, r, "feed:"+string(loc), "application/atom+xml; charset=utf-8", func(ctx context.Context) ([]byte, error) {
		settings, err := p.settings.All(ctx, loc)
		if err != nil {
			return nil, err
		}
		posts, err := p.content.ListPublished(ctx, models.EntryTypePost, loc, feedSize)
		if err != nil {
			return nil, err
		}

		siteName := settings.Get(models.SettingSiteName, fallbackSiteName)
		info := seo.FeedInfo{
			Title:    seo.TitleWithSite(p.bundle.T(loc, "blog.title"), siteName),
			Subtitle: p.bundle.T(loc, "blog.description"),
			SelfURL:  seo.Absolute(p.base, seo.Path(loc, "feed.xml")),
			SiteURL:  seo.Absolute(p.base, seo.SectionPath(loc, "blog", "")),
			Author:   siteName,
			Lang:     string(loc),
		}

		build := seo.EntryPath(models.EntryTypePost)
		items := make([]seo.FeedItem, 0, len(posts))
		for _, e := range posts {
			tr := e.In(loc)
			if tr == nil {
				continue
			}
			item := seo.FeedItem{
				Title:   tr.Title,
				URL:     seo.Absolute(p.base, build(loc, tr.Slug)),
				Summary: models.Deref(tr.Excerpt),
				Updated: e.LastModified(),
			}
			if e.PublishedAt != nil {
				item.Published = *e.PublishedAt
			}
			items = append(items, item)
		}
		return seo.Atom(info, items)
	})
}

// Robots serves robots.txt. Staging hosts block every crawler.
func (p *Public) Robots(w http.ResponseWriter, r *http.Request) {
	body := seo.Robots(p.base, seo.RobotsOptions{
		AllowIndexing: p.indexing,
		Disallow:      []string{"/media/"},
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(body))
}

// Manifest serves the web app manifest of the default locale.
func (p *Public) Manifest(w http.ResponseWriter, r *http.Request) {
	p.document(w, r, "manifest.webmanifest", "application/manifest+json", func(ctx context.Context) ([]byte, error) {
		loc := p.set.Default()
		settings, err := p.settings.All(ctx, loc)
		if err != nil {
			return nil, err
		}
		return json.Marshal(seo.Manifest(settings, loc))
	})
}

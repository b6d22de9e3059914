// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers serves the public site: localized pages, the blog, the
// product catalog, the contact form and the documents read by crawlers.
// Rendered responses go through the Valkey page cache (L2) so repeat
// requests skip the database and template execution.
package handlers

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"promsnab/internal/cache"
	"promsnab/internal/catalog"
	"promsnab/internal/contact"
	"promsnab/internal/i18n"
	"promsnab/internal/locale"
	"promsnab/internal/markdown"
	"promsnab/internal/models"
	"promsnab/internal/render"
	"promsnab/internal/seo"
)

// fallbackSiteName is shown when the site_name setting is missing or the
// settings could not be loaded.
const fallbackSiteName = "Promsnab"

// ContentReader loads published pages, posts and products.
type ContentReader interface {
	FindBySlug(ctx context.Context, typ models.EntryType, loc locale.Code, slug string) (*models.Entry, error)
	ListPublished(ctx context.Context, typ models.EntryType, loc locale.Code, limit int) ([]models.Entry, error)
	ListAllPublished(ctx context.Context) ([]models.Entry, error)
}

// CatalogReader filters products and lists their facets.
type CatalogReader interface {
	List(ctx context.Context, loc locale.Code, sel catalog.Selection) ([]models.Entry, error)
	Facets(ctx context.Context, loc locale.Code) ([]models.Facet, error)
	Labels(ctx context.Context, loc locale.Code) (models.LabelSet, error)
}

// SettingsReader loads the site settings of a locale.
type SettingsReader interface {
	All(ctx context.Context, loc locale.Code) (models.SiteSettings, error)
}

// NavReader loads the menu of a locale.
type NavReader interface {
	List(ctx context.Context, loc locale.Code) ([]models.NavItem, error)
}

// PageCache stores rendered responses. *cache.PageCache satisfies it, a
// nil one included.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

// ContactSubmitter validates and relays contact form submissions.
type ContactSubmitter interface {
	Submit(ctx context.Context, f contact.Form) error
}

// ObjectStore resolves images and signs datasheet downloads.
type ObjectStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
	ImageURL(ref string) string
}

// Deps wires the public handlers. Objects may be nil when object storage
// is not configured.
type Deps struct {
	Locales  *locale.Set
	Bundle   *i18n.Bundle
	Renderer *render.Renderer
	Content  ContentReader
	Catalog  CatalogReader
	Settings SettingsReader
	Nav      NavReader
	Cache    PageCache
	Contact  ContactSubmitter
	Objects  ObjectStore

	// BaseURL is the canonical origin, e.g. "https://promsnab.ru".
	BaseURL string
	// AllowIndexing is false on staging hosts.
	AllowIndexing bool
}

// Public groups all handlers of the public site.
type Public struct {
	set      *locale.Set
	bundle   *i18n.Bundle
	renderer *render.Renderer
	content  ContentReader
	catalog  CatalogReader
	settings SettingsReader
	nav      NavReader
	cache    PageCache
	contact  ContactSubmitter
	objects  ObjectStore
	base     string
	indexing bool
}

// NewPublic creates the public handler group.
func NewPublic(d Deps) *Public {
	pc := d.Cache
	if pc == nil {
		pc = (*cache.PageCache)(nil)
	}
	return &Public{
		set:      d.Locales,
		bundle:   d.Bundle,
		renderer: d.Renderer,
		content:  d.Content,
		catalog:  d.Catalog,
		settings: d.Settings,
		nav:      d.Nav,
		cache:    pc,
		contact:  d.Contact,
		objects:  d.Objects,
		base:     seo.NormalizeBase(d.BaseURL),
		indexing: d.AllowIndexing,
	}
}

// view is a rendered page before it is written. A nil view means the
// requested content does not exist.
type view struct {
	name string
	data *render.PageData
}

// locale returns the locale stored by the locale middleware, falling back
// to the default for unlocalized routes.
func (p *Public) locale(r *http.Request) locale.Code {
	if c, ok := locale.FromContext(r.Context()); ok {
		return c
	}
	return p.set.Default()
}

// serve answers from the page cache when possible. On a miss it calls
// build, renders the view and caches the result. partial names the block
// sent to HTMX requests.
func (p *Public) serve(w http.ResponseWriter, r *http.Request, key, partial string, build func(ctx context.Context) (*view, error)) {
	ctx := r.Context()
	loc := p.locale(r)

	block := "base.html"
	if render.IsHTMX(r) {
		block = partial
		key += "|" + partial
	}
	w.Header().Add("Vary", "HX-Request")

	if body, ok := p.cache.Get(ctx, key); ok {
		render.Write(w, http.StatusOK, body)
		return
	}

	v, err := build(ctx)
	if err != nil {
		p.serverError(w, r, loc, err)
		return
	}
	if v == nil {
		p.notFound(w, r, loc)
		return
	}

	body, err := p.renderer.RenderBlock(v.name, block, v.data)
	if err != nil {
		p.serverError(w, r, loc, err)
		return
	}
	p.cache.Set(ctx, key, body)
	render.Write(w, http.StatusOK, body)
}

// pageData loads the chrome shared by every page: settings, menu and the
// language switcher.
func (p *Public) pageData(ctx context.Context, loc locale.Code, path string, slugs models.SlugMap, build seo.PathFunc) (*render.PageData, error) {
	settings, err := p.settings.All(ctx, loc)
	if err != nil {
		return nil, err
	}
	nav, err := p.nav.List(ctx, loc)
	if err != nil {
		return nil, err
	}
	return &render.PageData{
		Locale:   loc,
		Path:     path,
		SiteName: settings.Get(models.SettingSiteName, fallbackSiteName),
		Settings: settings,
		Nav:      nav,
		Switcher: p.switcher(loc, slugs, build),
		Data:     make(map[string]any),
	}, nil
}

// switcher links every locale to the same content, or to its home when
// the content is not translated.
func (p *Public) switcher(current locale.Code, slugs models.SlugMap, build seo.PathFunc) []render.LocaleLink {
	if build == nil {
		build = seo.Path
	}
	links := make([]render.LocaleLink, 0, len(p.set.Supported()))
	for _, loc := range p.set.Supported() {
		href := seo.Path(loc, "")
		if slug, ok := slugs[loc]; ok {
			href = build(loc, slug)
		}
		links = append(links, render.LocaleLink{Code: loc, URL: href, Current: loc == current})
	}
	return links
}

// everyLocale is the slug map of a section index, which exists in every
// locale.
func (p *Public) everyLocale(slug string) models.SlugMap {
	m := make(models.SlugMap, len(p.set.Supported()))
	for _, loc := range p.set.Supported() {
		m[loc] = slug
	}
	return m
}

// withMeta fills the head metadata and hreflang links of data.
func (p *Public) withMeta(data *render.PageData, meta seo.Metadata) {
	data.Meta = meta
	data.Links = seo.Links(meta.Alternates, p.set)
}

// entryMeta composes the metadata of an entry translation.
func (p *Public) entryMeta(data *render.PageData, tr *models.Translation, slugs models.SlugMap, build seo.PathFunc, ogType string) seo.Metadata {
	resolved := *tr
	if ref := models.Deref(tr.OGImage); ref != "" {
		resolved.OGImage = models.StringPtr(p.imageURL(ref))
	}
	return seo.Compose(seo.Input{
		Entry:      &resolved,
		Settings:   p.resolvedSettings(data.Settings),
		Base:       p.base,
		Locale:     data.Locale,
		Path:       data.Path,
		Alternates: seo.Alternates(p.base, slugs, p.set, build),
		Type:       ogType,
	})
}

// sectionMeta composes the metadata of a page without an entry, such as
// the blog index. The dictionary description wins over site defaults.
func (p *Public) sectionMeta(data *render.PageData, title, description string, build seo.PathFunc, noIndex bool) seo.Metadata {
	tr := &models.Translation{
		Locale:         data.Locale,
		Title:          title,
		SEOTitle:       models.StringPtr(title),
		SEODescription: models.StringPtr(description),
	}
	return seo.Compose(seo.Input{
		Entry:      tr,
		Settings:   p.resolvedSettings(data.Settings),
		Base:       p.base,
		Locale:     data.Locale,
		Path:       data.Path,
		Alternates: seo.Alternates(p.base, p.everyLocale(""), p.set, build),
		NoIndex:    noIndex,
	})
}

// resolvedSettings points the default OG image at object storage.
func (p *Public) resolvedSettings(s models.SiteSettings) models.SiteSettings {
	ref := s.Get(models.SettingOGImage, "")
	if ref == "" {
		return s
	}
	out := make(models.SiteSettings, len(s))
	for k, v := range s {
		out[k] = v
	}
	out[models.SettingOGImage] = p.imageURL(ref)
	return out
}

func (p *Public) imageURL(ref string) string {
	if p.objects == nil {
		return ref
	}
	return p.objects.ImageURL(ref)
}

// crumbs builds a breadcrumb trail starting at the locale home. Each step
// is a (name, path) pair.
func (p *Public) crumbs(loc locale.Code, steps ...[2]string) []seo.Crumb {
	out := []seo.Crumb{{Name: p.bundle.T(loc, "breadcrumb.home"), URL: seo.Absolute(p.base, seo.Path(loc, ""))}}
	for _, s := range steps {
		out = append(out, seo.Crumb{Name: s[0], URL: seo.Absolute(p.base, s[1])})
	}
	return out
}

// body renders a translation body. Markdown is converted; HTML bodies
// come from the trusted importer and are used as-is.
func body(tr *models.Translation) (template.HTML, error) {
	if tr.BodyFormat == models.BodyFormatHTML {
		return template.HTML(tr.Body), nil
	}
	out, err := markdown.ToHTML(tr.Body)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

// NotFound renders the localized 404 page. It is never cached.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.notFound(w, r, p.locale(r))
}

func (p *Public) notFound(w http.ResponseWriter, r *http.Request, loc locale.Code) {
	data, err := p.pageData(r.Context(), loc, r.URL.Path, nil, nil)
	if err != nil {
		slog.Warn("load 404 chrome", "error", err)
		data = p.bareData(loc, r.URL.Path)
	}
	title := p.bundle.T(loc, "notfound.title")
	meta := seo.Defaults(title, seo.Input{Settings: data.Settings, Base: p.base, Locale: loc, Path: r.URL.Path, NoIndex: true})
	meta.Canonical = ""
	meta.OG.URL = ""
	p.withMeta(data, meta)
	p.renderer.Page(w, r, http.StatusNotFound, "notfound", data)
}

// serverError logs err and renders the plain error page without touching
// the database again.
func (p *Public) serverError(w http.ResponseWriter, r *http.Request, loc locale.Code, err error) {
	slog.Error("public handler failed", "error", err, "path", r.URL.Path, "locale", loc)
	data := p.bareData(loc, r.URL.Path)
	data.Meta = seo.Metadata{Title: p.bundle.T(loc, "error.title"), Robots: seo.RobotsNoIndex}
	p.renderer.Page(w, r, http.StatusInternalServerError, "error", data)
}

func (p *Public) bareData(loc locale.Code, path string) *render.PageData {
	return &render.PageData{
		Locale:   loc,
		Path:     path,
		SiteName: fallbackSiteName,
		Switcher: p.switcher(loc, nil, nil),
		Data:     make(map[string]any),
	}
}

// pageKey is the cache key of a localized HTML page.
func pageKey(loc locale.Code, r *http.Request, query string) string {
	return cache.PageKey(string(loc), r.URL.Path, query)
}

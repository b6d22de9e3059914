// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"promsnab/internal/catalog"
	"promsnab/internal/contact"
	"promsnab/internal/i18n"
	"promsnab/internal/locale"
	"promsnab/internal/middleware"
	"promsnab/internal/models"
	"promsnab/internal/seo"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Locale    locale.Code         // Active locale
	Path      string              // Request path without query
	SiteName  string              // Localized site name
	Settings  models.SiteSettings // Site settings for the locale
	Nav       []models.NavItem    // Main menu
	Switcher  []LocaleLink        // Language switcher entries
	Meta      seo.Metadata        // Head metadata
	Links     []seo.Link          // hreflang links in configured order
	Crumbs    []seo.Crumb         // Breadcrumbs, home first
	CSRFToken string              // CSRF token for forms and HTMX headers
	DevMode   bool
	Data      map[string]any // Page-specific data
}

// LocaleLink is one entry of the language switcher. URL points at the
// same content in that locale when it exists, otherwise at its home.
type LocaleLink struct {
	Code    locale.Code
	URL     string
	Current bool
}

// Renderer handles template parsing and execution for public pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	devMode   bool
}

// New parses all page templates from the embedded filesystem. Each page
// template is paired with the base layout.
func New(bundle *i18n.Bundle, devMode bool) (*Renderer, error) {
	return newFromFS(templatesFS, "templates", bundle, devMode)
}

func newFromFS(fsys fs.FS, dir string, bundle *i18n.Bundle, devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		devMode:   devMode,
	}
	r.funcMap = template.FuncMap{
		"t": func(loc locale.Code, key string, args ...any) string {
			return bundle.T(loc, key, args...)
		},
		// deref safely dereferences a string pointer for use in templates.
		"deref":         models.Deref,
		"path":          seo.Path,
		"sectionPath":   seo.SectionPath,
		"entryURL":      entryURL,
		"titleWithSite": seo.TitleWithSite,
		"date":          formatDate,
		"isoDate":       func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
		"filterURL":     catalog.URL,
		"year":          func() int { return time.Now().Year() },
		"upper":         strings.ToUpper,
		"tel":           telURL,
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".html") || name == "base.html" {
			continue
		}
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			fsys, dir+"/base.html", dir+"/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// RenderBlock executes a single named block of a page template, such as
// the catalog "results" fragment.
func (rn *Renderer) RenderBlock(name, block string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	data.DevMode = rn.devMode
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return nil, fmt.Errorf("execute %s/%s: %w", name, block, err)
	}
	return buf.Bytes(), nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers, and writes it with the given status. For HTMX requests only the
// "content" block is sent. Used for responses that are never cached.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	// Inject CSRF token from context (set by CSRF middleware).
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())

	block := "base.html"
	if IsHTMX(r) {
		block = "content"
	}
	body, err := rn.RenderBlock(name, block, data)
	if err != nil {
		slog.Error("render page", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	Write(w, status, body)
}

// Write sends an HTML body with the given status.
func Write(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// IsHTMX returns true if the request was made by HTMX (has HX-Request header).
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// entryURL returns the localized path of an entry, or "" when it has no
// translation in loc.
func entryURL(loc locale.Code, e models.Entry) string {
	tr := e.In(loc)
	if tr == nil {
		return ""
	}
	return seo.EntryPath(e.Type)(loc, tr.Slug)
}

// telURL builds a tel: link, which html/template would otherwise filter
// as an unsafe scheme. Only digits survive.
func telURL(phone string) template.URL {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, contact.PhoneDigits(phone))
	return template.URL("tel:+" + digits)
}

var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// formatDate renders a date the way readers of loc expect. A nil or zero
// time renders as "".
func formatDate(loc locale.Code, t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	if loc == "ru" {
		return fmt.Sprintf("%d %s %d", t.Day(), ruMonths[t.Month()-1], t.Year())
	}
	return t.Format("January 2, 2006")
}

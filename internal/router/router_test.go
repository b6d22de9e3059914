// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"promsnab/internal/catalog"
	"promsnab/internal/contact"
	"promsnab/internal/handlers"
	"promsnab/internal/i18n"
	"promsnab/internal/locale"
	"promsnab/internal/middleware"
	"promsnab/internal/models"
	"promsnab/internal/render"
)

var testSet = locale.MustNewSet("ru", "en")

// emptySite is a content store, catalog and settings source with nothing
// published.
type emptySite struct{}

func (emptySite) FindBySlug(context.Context, models.EntryType, locale.Code, string) (*models.Entry, error) {
	return nil, nil
}
func (emptySite) ListPublished(context.Context, models.EntryType, locale.Code, int) ([]models.Entry, error) {
	return nil, nil
}
func (emptySite) ListAllPublished(context.Context) ([]models.Entry, error) { return nil, nil }
func (emptySite) List(context.Context, locale.Code, catalog.Selection) ([]models.Entry, error) {
	return nil, nil
}
func (emptySite) Facets(context.Context, locale.Code) ([]models.Facet, error)   { return nil, nil }
func (emptySite) Labels(context.Context, locale.Code) (models.LabelSet, error)  { return nil, nil }
func (emptySite) All(context.Context, locale.Code) (models.SiteSettings, error) { return nil, nil }
func (emptySite) Submit(context.Context, contact.Form) error                    { return nil }

type emptyNav struct{}

func (emptyNav) List(context.Context, locale.Code) ([]models.NavItem, error) { return nil, nil }

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) http.Handler {
	t.Helper()
	bundle, err := i18n.Load(testSet)
	if err != nil {
		t.Fatalf("i18n.Load: %v", err)
	}
	rn, err := render.New(bundle, false)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	public := handlers.NewPublic(handlers.Deps{
		Locales:       testSet,
		Bundle:        bundle,
		Renderer:      rn,
		Content:       emptySite{},
		Catalog:       emptySite{},
		Settings:      emptySite{},
		Nav:           emptyNav{},
		Contact:       emptySite{},
		BaseURL:       "https://example.com",
		AllowIndexing: true,
	})
	return New(Options{
		Locales:        testSet,
		ContactLimiter: limiter,
		Static: fstest.MapFS{
			"css/site.css": {Data: []byte("body{}")},
		},
	}, public)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name         string
		target       string
		wantStatus   int
		wantLocation string
	}{
		{"root redirects to default locale", "/", http.StatusTemporaryRedirect, "/ru"},
		{"unprefixed page redirects", "/catalog?material=steel", http.StatusTemporaryRedirect, "/ru/catalog?material=steel"},
		{"unknown locale is a path", "/de/about", http.StatusTemporaryRedirect, "/ru/de/about"},
		{"trailing slash", "/en/", http.StatusMovedPermanently, "/en"},
		{"locale home", "/en", http.StatusOK, ""},
		{"blog", "/ru/blog", http.StatusOK, ""},
		{"catalog", "/en/catalog", http.StatusOK, ""},
		{"contact", "/ru/contact", http.StatusOK, ""},
		{"missing page", "/ru/no-such-page", http.StatusNotFound, ""},
		{"missing post", "/ru/blog/no-such-post", http.StatusNotFound, ""},
		{"health", "/health", http.StatusOK, ""},
		{"sitemap", "/sitemap.xml", http.StatusOK, ""},
		{"robots", "/robots.txt", http.StatusOK, ""},
		{"manifest", "/manifest.webmanifest", http.StatusOK, ""},
		{"default feed", "/feed.xml", http.StatusOK, ""},
		{"locale feed", "/en/feed.xml", http.StatusOK, ""},
		{"static file", "/static/css/site.css", http.StatusOK, ""},
		{"datasheet without storage", "/media/datasheets/a.pdf", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("%s: status got %d, want %d", tt.target, rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("Location: got %q, want %q", loc, tt.wantLocation)
				}
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("security headers missing")
			}
		})
	}
}

func TestLocalizedResponseHeaders(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/en/catalog", nil))
	if cl := rec.Header().Get("Content-Language"); cl != "en" {
		t.Errorf("Content-Language: got %q, want en", cl)
	}
	if !strings.Contains(rec.Body.String(), `<html lang="en">`) {
		t.Error("page not rendered in the path locale")
	}

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=86400" {
		t.Errorf("static Cache-Control: got %q", cc)
	}
	if rec.Header().Get("Content-Language") != "" {
		t.Error("static files are not localized")
	}
}

// contactPost builds a contact form POST carrying the CSRF cookie and,
// when token is non-empty, the matching form field.
func contactPost(cookie, token string) *http.Request {
	form := url.Values{
		"name":    {"Иван"},
		"email":   {"ivan@example.com"},
		"message": {"Нужна труба 57x3.5"},
		"consent": {"yes"},
	}
	if token != "" {
		form.Set(middleware.CSRFFormField, token)
	}
	req := httptest.NewRequest(http.MethodPost, "/ru/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: cookie})
	return req
}

func TestContactFlow(t *testing.T) {
	token := strings.Repeat("ab", 32)

	t.Run("form sets the csrf cookie", func(t *testing.T) {
		h := newTestRouter(t, nil)
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/ru/contact", nil))
		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == middleware.CSRFCookieName {
				found = true
				if !strings.Contains(rec.Body.String(), `value="`+c.Value+`"`) {
					t.Error("form does not carry the cookie token")
				}
			}
		}
		if !found {
			t.Error("csrf cookie not set")
		}
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		h := newTestRouter(t, nil)
		rec := serve(h, contactPost(token, ""))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rec.Code)
		}
	})

	t.Run("valid post redirects with status", func(t *testing.T) {
		h := newTestRouter(t, nil)
		rec := serve(h, contactPost(token, token))
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status: got %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/ru/contact?status=sent" {
			t.Errorf("Location: got %q", loc)
		}
	})

	t.Run("oversized post is rejected", func(t *testing.T) {
		h := newTestRouter(t, nil)
		req := contactPost(token, token)
		form := url.Values{
			middleware.CSRFFormField: {token},
			"name":                   {"Иван"},
			"email":                  {"ivan@example.com"},
			"message":                {strings.Repeat("a", handlers.MaxContactBody)},
			"consent":                {"yes"},
		}
		req.Body = io.NopCloser(strings.NewReader(form.Encode()))
		req.ContentLength = int64(len(form.Encode()))

		rec := serve(h, req)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status: got %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/ru/contact?status=error" {
			t.Errorf("Location: got %q, want /ru/contact?status=error", loc)
		}
	})

	t.Run("throttled post is refused before the csrf check", func(t *testing.T) {
		limiter := middleware.NewRateLimiter(1, time.Minute)
		defer limiter.Stop()
		h := newTestRouter(t, limiter)

		if rec := serve(h, contactPost(token, token)); rec.Code != http.StatusSeeOther {
			t.Fatalf("first post: got %d, want 303", rec.Code)
		}
		if rec := serve(h, contactPost(token, "")); rec.Code != http.StatusTooManyRequests {
			t.Errorf("tokenless post over the limit: got %d, want 429", rec.Code)
		}
	})

	t.Run("posts are rate limited", func(t *testing.T) {
		limiter := middleware.NewRateLimiter(1, time.Minute)
		defer limiter.Stop()
		h := newTestRouter(t, limiter)

		if rec := serve(h, contactPost(token, token)); rec.Code != http.StatusSeeOther {
			t.Fatalf("first post: got %d, want 303", rec.Code)
		}
		if rec := serve(h, contactPost(token, token)); rec.Code != http.StatusTooManyRequests {
			t.Errorf("second post: got %d, want 429", rec.Code)
		}
	})
}

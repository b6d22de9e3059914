// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// public site. Unlocalized documents (sitemap, robots, feeds, static files)
// sit beside the locale-prefixed page tree.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"promsnab/internal/handlers"
	"promsnab/internal/locale"
	"promsnab/internal/middleware"
)

// Options configures the router.
type Options struct {
	Locales *locale.Set

	// DetectLanguage enables Accept-Language matching for unprefixed
	// requests.
	DetectLanguage bool

	// Secure marks cookies HTTPS-only and enables HSTS.
	Secure bool

	// ContactLimiter throttles contact form posts per client IP. Nil
	// disables throttling.
	ContactLimiter *middleware.RateLimiter

	// Static is served under /static/. Nil disables static files.
	Static fs.FS
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if opts.Secure {
		r.Use(middleware.HSTS)
	}
	r.Use(chimw.RedirectSlashes)
	r.Use(locale.Middleware(opts.Locales, locale.MiddlewareOptions{
		DetectLanguage: opts.DetectLanguage,
		Secure:         opts.Secure,
	}))

	r.NotFound(public.NotFound)

	// Unlocalized routes. The locale middleware lets these through as-is.
	r.Get("/health", healthHandler)
	r.Get("/sitemap.xml", public.Sitemap)
	r.Get("/robots.txt", public.Robots)
	r.Get("/manifest.webmanifest", public.Manifest)
	r.Get("/feed.xml", public.DefaultFeed)
	r.Get("/media/datasheets/*", public.Datasheet)
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", staticHandler(opts.Static)))
	}

	// Localized pages. The middleware already redirected anything without
	// a supported prefix, so {locale} is always valid here.
	r.Route("/{locale}", func(r chi.Router) {
		r.Get("/", public.Home)
		r.Get("/feed.xml", public.Feed)
		r.Get("/blog", public.Blog)
		r.Get("/blog/{slug}", public.Post)
		r.Get("/catalog", public.Catalog)
		r.Get("/catalog/{slug}", public.Product)

		// Throttling and the body cap run before CSRF reads the form.
		csrf := middleware.NewCSRF(opts.Secure)
		var submit []func(http.Handler) http.Handler
		if opts.ContactLimiter != nil {
			submit = append(submit, opts.ContactLimiter.Middleware)
		}
		submit = append(submit,
			middleware.FormBody(handlers.MaxContactBody, http.HandlerFunc(public.ContactRejected)),
			csrf,
		)
		r.With(csrf).Get("/contact", public.ContactPage)
		r.With(submit...).Post("/contact", public.ContactSubmit)

		r.Get("/*", public.Page)
	})

	return r
}

// staticHandler serves embedded assets with a long cache lifetime.
func staticHandler(fsys fs.FS) http.Handler {
	files := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

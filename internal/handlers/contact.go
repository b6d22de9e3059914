// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"promsnab/internal/contact"
	"promsnab/internal/locale"
	"promsnab/internal/seo"
)

const (
	contactSection = "contact"

	// MaxContactBody bounds the POST body of the contact form.
	MaxContactBody = 64 << 10

	statusSent  = "sent"
	statusError = "error"
)

// ContactPage renders the contact form. It carries the visitor's CSRF
// token, so it bypasses the page cache.
func (p *Public) ContactPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := p.locale(r)

	build := func(l locale.Code, slug string) string { return seo.SectionPath(l, contactSection, slug) }
	data, err := p.pageData(ctx, loc, r.URL.Path, p.everyLocale(""), build)
	if err != nil {
		p.serverError(w, r, loc, err)
		return
	}

	title := p.bundle.T(loc, "contact.title")
	meta := p.sectionMeta(data, title, p.bundle.T(loc, "contact.description"), build, false)
	data.Crumbs = p.crumbs(loc, [2]string{title, data.Path})
	meta.JSONLD = append(meta.JSONLD, seo.BreadcrumbLD(data.Crumbs))
	p.withMeta(data, meta)

	// Only the generic flag set by ContactSubmit is shown.
	status := ""
	switch s := r.URL.Query().Get("status"); s {
	case statusSent, statusError:
		status = s
	}
	data.Data["Status"] = status

	w.Header().Set("Cache-Control", "no-store")
	p.renderer.Page(w, r, http.StatusOK, "contact", data)
}

// ContactSubmit handles the form POST and redirects back to the form with
// a status flag. Details of a failure are logged, never shown. The router
// caps and parses the body before CSRF reads the token field.
func (p *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	loc := p.locale(r)
	target := seo.SectionPath(loc, contactSection, "")

	if err := r.ParseForm(); err != nil {
		slog.Warn("contact form parse failed", "error", err)
		p.ContactRejected(w, r)
		return
	}

	form := contact.FromValues(r.PostForm, loc)
	err := p.contact.Submit(r.Context(), form)
	switch {
	case err == nil:
		slog.Info("contact request accepted", "locale", loc)
		http.Redirect(w, r, target+"?status="+statusSent, http.StatusSeeOther)
		return
	case errors.Is(err, contact.ErrSpam):
		slog.Warn("contact honeypot triggered", "locale", loc)
	case errors.Is(err, contact.ErrInvalid):
		slog.Info("contact request rejected", "locale", loc, "error", err)
	default:
		slog.Error("contact request failed", "locale", loc, "error", err)
	}
	http.Redirect(w, r, target+"?status="+statusError, http.StatusSeeOther)
}

// ContactRejected sends the visitor back to the form with the error flag.
func (p *Public) ContactRejected(w http.ResponseWriter, r *http.Request) {
	target := seo.SectionPath(p.locale(r), contactSection, "")
	http.Redirect(w, r, target+"?status="+statusError, http.StatusSeeOther)
}

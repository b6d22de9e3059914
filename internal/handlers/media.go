// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"promsnab/internal/storage"
)

// datasheetURLTTL is how long a signed datasheet link stays valid.
const datasheetURLTTL = 15 * time.Minute

// Datasheet redirects to a short-lived signed URL of a datasheet in the
// private bucket. Unknown files and sites without object storage get the
// 404 page.
func (p *Public) Datasheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "*")
	if p.objects == nil || !validObjectName(name) {
		p.NotFound(w, r)
		return
	}
	key := storage.DatasheetPrefix + name

	ok, err := p.objects.Exists(ctx, key)
	if err != nil {
		p.serverError(w, r, p.locale(r), err)
		return
	}
	if !ok {
		p.NotFound(w, r)
		return
	}

	url, err := p.objects.PresignedURL(ctx, key, datasheetURLTTL)
	if err != nil {
		p.serverError(w, r, p.locale(r), err)
		return
	}
	slog.Debug("datasheet download", "key", key)
	w.Header().Set("Cache-Control", "private, no-store")
	http.Redirect(w, r, url, http.StatusFound)
}

// validObjectName accepts plain relative names without parent references.
func validObjectName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	return path.Clean(name) == name && !strings.HasPrefix(name, "..")
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package locale

import (
	"net/http"
	"strings"
)

const (
	// CookieName stores the visitor's last chosen locale.
	CookieName = "site_locale"

	// cookieMaxAge keeps the choice for one year.
	cookieMaxAge = 365 * 24 * 60 * 60
)

// DefaultUnlocalized lists path prefixes that are served without a locale
// prefix and never redirected.
var DefaultUnlocalized = []string{
	"/health",
	"/static/",
	"/media/",
	"/sitemap.xml",
	"/robots.txt",
	"/manifest.webmanifest",
	"/feed.xml",
	"/favicon.ico",
}

// MiddlewareOptions configures Middleware.
type MiddlewareOptions struct {
	// DetectLanguage enables Accept-Language matching between the cookie
	// and the default.
	DetectLanguage bool

	// Secure marks the locale cookie HTTPS-only.
	Secure bool

	// Unlocalized overrides DefaultUnlocalized when non-nil.
	Unlocalized []string
}

// Middleware resolves the request locale. Requests whose path does not
// start with a supported locale are redirected (307) to the prefixed path
// and the resolved locale is persisted in a cookie. Prefixed requests get
// the locale stored in their context.
func Middleware(set *Set, opts MiddlewareOptions) func(http.Handler) http.Handler {
	skip := opts.Unlocalized
	if skip == nil {
		skip = DefaultUnlocalized
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if isUnlocalized(path, skip) {
				next.ServeHTTP(w, r)
				return
			}

			var cookieVal string
			if c, err := r.Cookie(CookieName); err == nil {
				cookieVal = c.Value
			}
			var accept string
			if opts.DetectLanguage {
				accept = r.Header.Get("Accept-Language")
			}

			res := set.Resolve(path, cookieVal, accept)

			if !res.FromPath() {
				setCookie(w, res.Locale, opts.Secure)
				http.Redirect(w, r, redirectTarget(res.Locale, path, r.URL.RawQuery), http.StatusTemporaryRedirect)
				return
			}

			// Canonicalise "/EN/..." to "/en/...".
			_, rest, _ := set.SplitPath(path)
			if seg := firstSegment(path); seg != string(res.Locale) {
				http.Redirect(w, r, redirectTarget(res.Locale, rest, r.URL.RawQuery), http.StatusMovedPermanently)
				return
			}

			if cookieVal != string(res.Locale) {
				setCookie(w, res.Locale, opts.Secure)
			}
			w.Header().Set("Content-Language", string(res.Locale))

			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.Locale)))
		})
	}
}

// redirectTarget prefixes path with the locale, keeping the query string.
func redirectTarget(c Code, path, rawQuery string) string {
	target := "/" + string(c)
	if path != "" && path != "/" {
		target += "/" + strings.TrimPrefix(path, "/")
	}
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}

func setCookie(w http.ResponseWriter, c Code, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(c),
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func isUnlocalized(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

func firstSegment(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return seg
}

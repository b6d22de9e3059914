// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seo builds localized URLs, alternate-language links and the
// metadata documents consumed by search engines: page metadata, sitemap,
// Atom feeds, robots.txt, the web app manifest and schema.org JSON-LD.
//
// Every locale, including the default one, is served under its own prefix
// ("/ru/...", "/en/..."). The bare root redirects through the locale
// middleware and is announced to crawlers as the x-default alternate.
package seo

import (
	"net/url"
	"strings"

	"promsnab/internal/locale"
	"promsnab/internal/models"
)

// PathFunc builds the root-relative path of a slug in a locale.
type PathFunc func(loc locale.Code, slug string) string

// Path returns "/{loc}" for an empty slug and "/{loc}/{slug}" otherwise.
// Slug segments are path-escaped individually.
func Path(loc locale.Code, slug string) string {
	segs := segments(slug)
	if len(segs) == 0 {
		return "/" + string(loc)
	}
	return "/" + string(loc) + "/" + strings.Join(segs, "/")
}

// SectionPath returns the path of a slug inside a section such as "blog"
// or "catalog". An empty slug yields the section index.
func SectionPath(loc locale.Code, section, slug string) string {
	if section == "" {
		return Path(loc, slug)
	}
	if slug == "" {
		return Path(loc, section)
	}
	return Path(loc, section+"/"+slug)
}

// EntryPath returns the PathFunc for entries of the given type.
func EntryPath(typ models.EntryType) PathFunc {
	section := typ.Section()
	return func(loc locale.Code, slug string) string {
		return SectionPath(loc, section, slug)
	}
}

// NormalizeBase trims whitespace and trailing slashes from a canonical base
// URL and adds an https scheme when none is given. An empty input yields "".
func NormalizeBase(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	if !strings.Contains(base, "://") {
		base = "https://" + strings.TrimLeft(base, "/")
	}
	scheme, host, _ := strings.Cut(base, "://")
	host = strings.TrimRight(host, "/")
	if host == "" {
		return ""
	}
	return scheme + "://" + host
}

// Absolute resolves ref against base. References that already carry a
// scheme or are protocol-relative are returned unchanged. With an empty
// base the result is root-relative.
func Absolute(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		return ref
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return NormalizeBase(base) + ref
}

// SitemapURL returns the absolute sitemap location for a canonical base,
// or "/sitemap.xml" when no base is configured.
func SitemapURL(base string) string {
	return Absolute(base, "/sitemap.xml")
}

func segments(slug string) []string {
	var out []string
	for _, s := range strings.Split(strings.Trim(slug, "/"), "/") {
		if s == "" {
			continue
		}
		out = append(out, url.PathEscape(s))
	}
	return out
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"promsnab/internal/locale"
	"promsnab/internal/models"
)

// XDefault is the hreflang value for the language-neutral alternate.
const XDefault = "x-default"

// Link is a single alternate-language link.
type Link struct {
	Hreflang string
	Href     string
}

// Alternates maps each locale present in slugs to its absolute URL, plus
// x-default. Locales missing from slugs are omitted. x-default points at
// the default locale when present, otherwise at the first present locale
// in configured order. A nil or empty slug map yields nil.
func Alternates(base string, slugs models.SlugMap, set *locale.Set, build PathFunc) map[string]string {
	if len(slugs) == 0 {
		return nil
	}
	if build == nil {
		build = Path
	}

	out := make(map[string]string, len(slugs)+1)
	var fallback string
	for _, loc := range set.Supported() {
		slug, ok := slugs[loc]
		if !ok {
			continue
		}
		href := Absolute(base, build(loc, slug))
		out[string(loc)] = href
		if fallback == "" {
			fallback = href
		}
	}
	if len(out) == 0 {
		return nil
	}

	if href, ok := out[string(set.Default())]; ok {
		out[XDefault] = href
	} else {
		out[XDefault] = fallback
	}
	return out
}

// Links flattens an alternates map into a list ordered by the configured
// locales, with x-default last.
func Links(alternates map[string]string, set *locale.Set) []Link {
	if len(alternates) == 0 {
		return nil
	}
	links := make([]Link, 0, len(alternates))
	for _, loc := range set.Supported() {
		if href, ok := alternates[string(loc)]; ok {
			links = append(links, Link{Hreflang: string(loc), Href: href})
		}
	}
	if href, ok := alternates[XDefault]; ok {
		links = append(links, Link{Hreflang: XDefault, Href: href})
	}
	return links
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"promsnab/internal/locale"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"
)

// SitemapEntry is one logical document with all of its language versions.
type SitemapEntry struct {
	Alternates map[string]string
	LastMod    time.Time
	ChangeFreq string
	Priority   string
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	ChangeFreq string      `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Links      []xhtmlLink `xml:"xhtml:link"`
}

type xhtmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Sitemap renders a sitemap with one <url> per language version. Each
// <url> lists every version of its document, itself included, as
// xhtml:link alternates so the sets stay symmetric.
func Sitemap(entries []SitemapEntry, set *locale.Set) ([]byte, error) {
	var urls []sitemapURL
	seen := make(map[string]bool)

	for _, e := range entries {
		links := Links(e.Alternates, set)
		var xl []xhtmlLink
		if len(links) > 2 {
			xl = make([]xhtmlLink, 0, len(links))
			for _, l := range links {
				xl = append(xl, xhtmlLink{Rel: "alternate", Hreflang: l.Hreflang, Href: l.Href})
			}
		}

		var lastMod string
		if !e.LastMod.IsZero() {
			lastMod = e.LastMod.UTC().Format(time.RFC3339)
		}

		for _, l := range links {
			if l.Hreflang == XDefault || seen[l.Href] {
				continue
			}
			seen[l.Href] = true
			urls = append(urls, sitemapURL{
				Loc:        l.Href,
				LastMod:    lastMod,
				ChangeFreq: e.ChangeFreq,
				Priority:   e.Priority,
				Links:      xl,
			})
		}
	}

	sort.Slice(urls, func(i, j int) bool {
		return urls[i].Loc < urls[j].Loc
	})

	doc := sitemapURLSet{
		XMLNS: sitemapNS,
		XHTML: xhtmlNS,
		URLs:  urls,
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

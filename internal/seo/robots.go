// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import "strings"

// RobotsOptions configures robots.txt output.
type RobotsOptions struct {
	// AllowIndexing is false on staging hosts, which block every crawler.
	AllowIndexing bool
	Disallow      []string
}

// Robots renders robots.txt with the sitemap location for base.
func Robots(base string, opts RobotsOptions) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	if !opts.AllowIndexing {
		b.WriteString("Disallow: /\n")
		return b.String()
	}
	b.WriteString("Allow: /\n")
	for _, p := range opts.Disallow {
		b.WriteString("Disallow: " + p + "\n")
	}
	b.WriteString("\nSitemap: " + SitemapURL(base) + "\n")
	return b.String()
}

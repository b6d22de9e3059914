// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"promsnab/internal/locale"
	"promsnab/internal/models"
)

// DescriptionLimit caps computed descriptions, in runes.
const DescriptionLimit = 160

// Twitter card types.
const (
	CardSummary           = "summary"
	CardSummaryLargeImage = "summary_large_image"
)

// Robots directives.
const (
	RobotsIndex   = "index, follow"
	RobotsNoIndex = "noindex, nofollow"
)

// Input is everything Compose needs to build a page's metadata.
type Input struct {
	// Entry is the translation being rendered. Nil means the entry does not
	// exist and Compose returns an empty Metadata.
	Entry *models.Translation

	Settings   models.SiteSettings
	Base       string
	Locale     locale.Code
	Path       string
	Alternates map[string]string

	// Type is the Open Graph type; "website" when empty.
	Type    string
	NoIndex bool
}

// OpenGraph holds the og:* properties of a page.
type OpenGraph struct {
	Title            string
	Description      string
	URL              string
	Image            string
	Type             string
	Locale           string
	AlternateLocales []string
	SiteName         string
}

// Metadata is the merged SEO record of a page.
type Metadata struct {
	Title       string
	Description string
	Canonical   string
	Alternates  map[string]string
	OG          OpenGraph
	TwitterCard string
	TwitterSite string
	Robots      string

	// JSONLD holds schema.org documents rendered as ld+json scripts.
	JSONLD []any
}

// Compose merges page-level overrides, site-wide defaults and values
// computed from the entry, taking the first non-empty value per field.
func Compose(in Input) Metadata {
	if in.Entry == nil {
		return Metadata{}
	}
	tr := in.Entry
	s := in.Settings

	title := firstNonEmpty(
		models.Deref(tr.SEOTitle),
		s.Get(models.SettingSEOTitle, ""),
		tr.Title,
	)
	description := firstNonEmpty(
		models.Deref(tr.SEODescription),
		s.Get(models.SettingSEODescription, ""),
		Truncate(models.Deref(tr.Excerpt), DescriptionLimit),
	)
	image := Absolute(in.Base, firstNonEmpty(
		models.Deref(tr.OGImage),
		s.Get(models.SettingOGImage, ""),
	))

	loc := in.Locale
	if loc == "" {
		loc = tr.Locale
	}
	canonical := Absolute(in.Base, in.Path)

	ogType := in.Type
	if ogType == "" {
		ogType = "website"
	}

	robots := RobotsIndex
	if in.NoIndex {
		robots = RobotsNoIndex
	}

	return Metadata{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		Alternates:  in.Alternates,
		OG: OpenGraph{
			Title:            title,
			Description:      description,
			URL:              canonical,
			Image:            image,
			Type:             ogType,
			Locale:           OGLocale(loc),
			AlternateLocales: alternateOGLocales(loc, in.Alternates),
			SiteName:         s.Get(models.SettingSiteName, ""),
		},
		TwitterCard: TwitterCard(image),
		TwitterSite: twitterHandle(s.Get(models.SettingTwitterHandle, "")),
		Robots:      robots,
	}
}

// Defaults builds metadata for pages without an entry (listings, 404) from
// site settings alone.
func Defaults(title string, in Input) Metadata {
	s := in.Settings
	tr := &models.Translation{
		Locale:  in.Locale,
		Title:   firstNonEmpty(title, s.Get(models.SettingSiteName, "")),
		Excerpt: models.StringPtr(s.Get(models.SettingSiteDescription, "")),
	}
	if title != "" {
		tr.SEOTitle = &tr.Title
	}
	in.Entry = tr
	return Compose(in)
}

// TitleWithSite appends the site name to a page title unless they are
// equal or the title is empty.
func TitleWithSite(title, siteName string) string {
	switch {
	case siteName == "" || title == siteName:
		return title
	case title == "":
		return siteName
	}
	return title + " | " + siteName
}

// OGLocale converts a locale code into an Open Graph locale tag.
func OGLocale(c locale.Code) string {
	switch c {
	case "":
		return ""
	case "ru":
		return "ru_RU"
	case "en":
		return "en_US"
	}
	code := strings.ToLower(string(c))
	return code + "_" + strings.ToUpper(code)
}

// TwitterCard picks the large-image card when an image is present.
func TwitterCard(image string) string {
	if image != "" {
		return CardSummaryLargeImage
	}
	return CardSummary
}

// Truncate shortens s to at most limit runes, cutting at the last word
// boundary and appending an ellipsis when anything was removed.
func Truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := runes[:limit-1]
	if i := lastSpace(cut); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "…"
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}
	return -1
}

func alternateOGLocales(current locale.Code, alternates map[string]string) []string {
	var out []string
	for key := range alternates {
		if key == XDefault || key == string(current) {
			continue
		}
		out = append(out, OGLocale(locale.Code(key)))
	}
	slices.Sort(out)
	return out
}

func twitterHandle(h string) string {
	h = strings.TrimSpace(h)
	if h == "" || strings.HasPrefix(h, "@") {
		return h
	}
	return "@" + h
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

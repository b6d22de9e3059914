// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"promsnab/internal/locale"
)

// EntryType distinguishes pages, blog posts and catalog products, which
// share the entries table.
type EntryType string

const (
	EntryTypePage    EntryType = "page"
	EntryTypePost    EntryType = "post"
	EntryTypeProduct EntryType = "product"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypePage, EntryTypePost, EntryTypeProduct:
		return true
	}
	return false
}

// Section returns the URL section an entry type lives under. Pages live at
// the locale root and return "".
func (t EntryType) Section() string {
	switch t {
	case EntryTypePost:
		return "blog"
	case EntryTypeProduct:
		return "catalog"
	}
	return ""
}

// Body formats stored on a translation.
const (
	BodyFormatMarkdown = "markdown"
	BodyFormatHTML     = "html"
)

// SlugMap maps a locale to the entry's slug in that locale. A missing key
// means the entry is not published in that locale. The empty string is the
// locale root.
type SlugMap map[locale.Code]string

// Entry is a page, post or product with its per-locale translations.
type Entry struct {
	ID          uuid.UUID  `json:"id"`
	Key         string     `json:"key"`
	Type        EntryType  `json:"type"`
	Published   bool       `json:"published"`
	SortOrder   int        `json:"sort_order"`
	Datasheet   *string    `json:"datasheet,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Translations map[locale.Code]*Translation `json:"translations"`

	// Attributes holds product filter values keyed by group, e.g.
	// "material" -> ["steel"]. Empty for pages and posts.
	Attributes map[string][]string `json:"attributes,omitempty"`
}

// Translation is the localized part of an entry.
type Translation struct {
	Locale         locale.Code `json:"locale"`
	Slug           string      `json:"slug"`
	Title          string      `json:"title"`
	Excerpt        *string     `json:"excerpt,omitempty"`
	Body           string      `json:"body"`
	BodyFormat     string      `json:"body_format"`
	SEOTitle       *string     `json:"seo_title,omitempty"`
	SEODescription *string     `json:"seo_description,omitempty"`
	OGImage        *string     `json:"og_image,omitempty"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// IsPublished returns true if the entry is visible on the public site.
func (e *Entry) IsPublished() bool {
	return e.Published
}

// In returns the translation for loc, or nil if the entry has none.
func (e *Entry) In(loc locale.Code) *Translation {
	if e == nil || e.Translations == nil {
		return nil
	}
	return e.Translations[loc]
}

// Slugs returns the entry's slug map.
func (e *Entry) Slugs() SlugMap {
	m := make(SlugMap, len(e.Translations))
	for loc, tr := range e.Translations {
		m[loc] = tr.Slug
	}
	return m
}

// LastModified returns the most recent update time across the entry and
// its translations.
func (e *Entry) LastModified() time.Time {
	t := e.UpdatedAt
	for _, tr := range e.Translations {
		if tr.UpdatedAt.After(t) {
			t = tr.UpdatedAt
		}
	}
	return t
}

// Deref returns the value of an optional string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, or nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

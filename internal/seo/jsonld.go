// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"time"

	"promsnab/internal/models"
)

const schemaContext = "https://schema.org"

// Organization is the schema.org Organization of the site owner.
type Organization struct {
	Context   string `json:"@context"`
	Type      string `json:"@type"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Logo      string `json:"logo,omitempty"`
	Telephone string `json:"telephone,omitempty"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address,omitempty"`
}

// WebSite is the schema.org WebSite of one locale.
type WebSite struct {
	Context    string `json:"@context"`
	Type       string `json:"@type"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	InLanguage string `json:"inLanguage"`
}

// Article is the schema.org BlogPosting of a post.
type Article struct {
	Context       string `json:"@context"`
	Type          string `json:"@type"`
	Headline      string `json:"headline"`
	Description   string `json:"description,omitempty"`
	URL           string `json:"url"`
	Image         string `json:"image,omitempty"`
	InLanguage    string `json:"inLanguage"`
	DatePublished string `json:"datePublished,omitempty"`
	DateModified  string `json:"dateModified,omitempty"`
	Publisher     *Named `json:"publisher,omitempty"`
}

// Product is the schema.org Product of a catalog item.
type Product struct {
	Context            string          `json:"@context"`
	Type               string          `json:"@type"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	URL                string          `json:"url"`
	Image              string          `json:"image,omitempty"`
	Brand              *Named          `json:"brand,omitempty"`
	AdditionalProperty []PropertyValue `json:"additionalProperty,omitempty"`
}

// PropertyValue is one product attribute.
type PropertyValue struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Named is a minimal typed reference such as a publisher or brand.
type Named struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// BreadcrumbList is a schema.org breadcrumb trail.
type BreadcrumbList struct {
	Context string           `json:"@context"`
	Type    string           `json:"@type"`
	Items   []BreadcrumbItem `json:"itemListElement"`
}

// BreadcrumbItem is one step of a breadcrumb trail.
type BreadcrumbItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

// Crumb is a breadcrumb step before positions are assigned.
type Crumb struct {
	Name string
	URL  string
}

// OrganizationLD describes the site owner from site settings.
func OrganizationLD(s models.SiteSettings, base string) Organization {
	return Organization{
		Context:   schemaContext,
		Type:      "Organization",
		Name:      s.Get(models.SettingSiteName, ""),
		URL:       NormalizeBase(base),
		Logo:      Absolute(base, s.Get(models.SettingLogo, "")),
		Telephone: s.Get(models.SettingPhone, ""),
		Email:     s.Get(models.SettingEmail, ""),
		Address:   s.Get(models.SettingAddress, ""),
	}
}

// WebSiteLD describes one locale's home.
func WebSiteLD(m Metadata, name string) WebSite {
	return WebSite{
		Context:    schemaContext,
		Type:       "WebSite",
		Name:       name,
		URL:        m.Canonical,
		InLanguage: ogLang(m.OG.Locale),
	}
}

// ArticleLD describes a blog post.
func ArticleLD(m Metadata, published *time.Time, modified time.Time) Article {
	a := Article{
		Context:     schemaContext,
		Type:        "BlogPosting",
		Headline:    m.Title,
		Description: m.Description,
		URL:         m.Canonical,
		Image:       m.OG.Image,
		InLanguage:  ogLang(m.OG.Locale),
	}
	if published != nil {
		a.DatePublished = published.UTC().Format(time.RFC3339)
	}
	if !modified.IsZero() {
		a.DateModified = modified.UTC().Format(time.RFC3339)
	}
	if m.OG.SiteName != "" {
		a.Publisher = &Named{Type: "Organization", Name: m.OG.SiteName}
	}
	return a
}

// ProductLD describes a catalog item. attrs are (label, value) pairs in
// display order.
func ProductLD(m Metadata, attrs [][2]string) Product {
	p := Product{
		Context:     schemaContext,
		Type:        "Product",
		Name:        m.Title,
		Description: m.Description,
		URL:         m.Canonical,
		Image:       m.OG.Image,
	}
	if m.OG.SiteName != "" {
		p.Brand = &Named{Type: "Brand", Name: m.OG.SiteName}
	}
	for _, a := range attrs {
		p.AdditionalProperty = append(p.AdditionalProperty, PropertyValue{
			Type: "PropertyValue", Name: a[0], Value: a[1],
		})
	}
	return p
}

// BreadcrumbLD numbers crumbs from 1.
func BreadcrumbLD(crumbs []Crumb) BreadcrumbList {
	items := make([]BreadcrumbItem, len(crumbs))
	for i, c := range crumbs {
		items[i] = BreadcrumbItem{Type: "ListItem", Position: i + 1, Name: c.Name, Item: c.URL}
	}
	return BreadcrumbList{Context: schemaContext, Type: "BreadcrumbList", Items: items}
}

// ogLang turns "ru_RU" into "ru-RU".
func ogLang(og string) string {
	b := []byte(og)
	for i := range b {
		if b[i] == '_' {
			b[i] = '-'
		}
	}
	return string(b)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"promsnab/internal/locale"
	"promsnab/internal/models"
)

// WebManifest is the web app manifest document.
type WebManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description,omitempty"`
	StartURL        string         `json:"start_url"`
	Scope           string         `json:"scope"`
	Display         string         `json:"display"`
	Lang            string         `json:"lang"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Icons           []ManifestIcon `json:"icons,omitempty"`
}

// ManifestIcon is one icon entry of the manifest.
type ManifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

const defaultThemeColor = "#1f3a5f"

// Manifest builds the manifest for the default locale's site settings.
func Manifest(s models.SiteSettings, loc locale.Code) WebManifest {
	name := s.Get(models.SettingSiteName, "Promsnab")
	short := name
	if r := []rune(short); len(r) > 12 {
		short = string(r[:12])
	}
	return WebManifest{
		Name:            name,
		ShortName:       short,
		Description:     s.Get(models.SettingSiteDescription, ""),
		StartURL:        Path(loc, ""),
		Scope:           "/",
		Display:         "browser",
		Lang:            string(loc),
		BackgroundColor: "#ffffff",
		ThemeColor:      s.Get(models.SettingThemeColor, defaultThemeColor),
		Icons: []ManifestIcon{
			{Src: "/static/icons/icon-192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "/static/icons/icon-512.png", Sizes: "512x512", Type: "image/png"},
		},
	}
}

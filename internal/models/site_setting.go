// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Setting keys read by the public site.
const (
	SettingSiteName        = "site_name"
	SettingSiteDescription = "site_description"
	SettingSEOTitle        = "seo_title"
	SettingSEODescription  = "seo_description"
	SettingOGImage         = "og_image"
	SettingTwitterHandle   = "twitter_handle"
	SettingPhone           = "org_phone"
	SettingEmail           = "org_email"
	SettingAddress         = "org_address"
	SettingLogo            = "logo"
	SettingThemeColor      = "theme_color"
)

// SiteSetting represents a single configuration key-value pair. An empty
// Locale marks a value shared by every locale.
type SiteSetting struct {
	Locale    string    `json:"locale"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteSettings is a convenience map for accessing settings by key.
type SiteSettings map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (s SiteSettings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}

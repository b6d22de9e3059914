// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "promsnab/internal/locale"

// NavItem is a single menu link. It points either at an entry (by key) or
// at a fixed href such as "/catalog".
type NavItem struct {
	Locale    locale.Code `json:"locale"`
	Label     string      `json:"label"`
	EntryKey  *string     `json:"entry_key,omitempty"`
	Href      *string     `json:"href,omitempty"`
	SortOrder int         `json:"sort_order"`

	// URL is resolved by the store from EntryKey or Href.
	URL string `json:"url"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog mirrors the catalog filter checkboxes into the query
// string and back. Filtering itself happens in the store: values within a
// group are OR-ed, groups are AND-ed.
package catalog

import (
	"net/url"
	"slices"
	"strings"

	"promsnab/internal/models"
)

// Selection maps a filter group to its checked values.
type Selection map[string][]string

// Normalize returns a copy with lowercased groups, trimmed and lowercased
// values split on commas, duplicates removed, values sorted and empty
// groups dropped.
func (s Selection) Normalize() Selection {
	out := make(Selection, len(s))
	for group, values := range s {
		g := normalizeToken(group)
		if g == "" {
			continue
		}
		merged := append(out[g], splitValues(values)...)
		slices.Sort(merged)
		merged = slices.Compact(merged)
		if len(merged) > 0 {
			out[g] = merged
		}
	}
	return out
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	for _, v := range s {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// Has reports whether value is checked in group.
func (s Selection) Has(group, value string) bool {
	return slices.Contains(s[group], value)
}

// Groups returns the selected group names, sorted.
func (s Selection) Groups() []string {
	out := make([]string, 0, len(s))
	for g, v := range s {
		if len(v) > 0 {
			out = append(out, g)
		}
	}
	slices.Sort(out)
	return out
}

// Equal reports whether two selections are the same after normalization.
func (s Selection) Equal(other Selection) bool {
	a, b := s.Normalize(), other.Normalize()
	if len(a) != len(b) {
		return false
	}
	for g, av := range a {
		if !slices.Equal(av, b[g]) {
			return false
		}
	}
	return true
}

// Encode writes the normalized selection as one repeated key per group.
func Encode(s Selection) url.Values {
	n := s.Normalize()
	v := make(url.Values, len(n))
	for g, values := range n {
		v[g] = slices.Clone(values)
	}
	return v
}

// EncodeQuery returns the canonical query string for s, keys sorted.
func EncodeQuery(s Selection) string {
	return Encode(s).Encode()
}

// Decode reads a selection from query values, keeping only known groups.
// Both repeated keys and comma-separated values are accepted.
func Decode(values url.Values, groups []string) Selection {
	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[normalizeToken(g)] = true
	}
	raw := make(Selection)
	for key, vals := range values {
		g := normalizeToken(key)
		if !known[g] {
			continue
		}
		raw[g] = append(raw[g], vals...)
	}
	return raw.Normalize()
}

// URL returns path with the canonical query for s appended.
func URL(path string, s Selection) string {
	if q := EncodeQuery(s); q != "" {
		return path + "?" + q
	}
	return path
}

// MarkSelected sets the Selected flag on facet values checked in s.
func MarkSelected(facets []models.Facet, s Selection) []models.Facet {
	out := make([]models.Facet, len(facets))
	for i, f := range facets {
		f.Values = slices.Clone(f.Values)
		for j := range f.Values {
			f.Values[j].Selected = s.Has(f.Group, f.Values[j].Value)
		}
		out[i] = f
	}
	return out
}

// GroupNames lists the group keys of facets.
func GroupNames(facets []models.Facet) []string {
	out := make([]string, len(facets))
	for i, f := range facets {
		out[i] = f.Group
	}
	return out
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := normalizeToken(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Facet is a catalog filter group with its selectable values.
type Facet struct {
	Group  string       `json:"group"`
	Label  string       `json:"label"`
	Values []FacetValue `json:"values"`
}

// FacetValue is one checkbox in a facet.
type FacetValue struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// AttributeLabel is the localized display name of a filter group or value.
// An empty Value labels the group itself.
type AttributeLabel struct {
	Group  string `json:"group"`
	Value  string `json:"value"`
	Locale string `json:"locale"`
	Label  string `json:"label"`
}

// LabelSet resolves localized attribute labels. Keys are "group" for the
// group label and "group/value" for a value label.
type LabelSet map[string]string

// Group returns the label of a filter group, or the group key itself.
func (l LabelSet) Group(group string) string {
	if v, ok := l[group]; ok && v != "" {
		return v
	}
	return group
}

// Value returns the label of a group value, or the value itself.
func (l LabelSet) Value(group, value string) string {
	if v, ok := l[group+"/"+value]; ok && v != "" {
		return v
	}
	return value
}

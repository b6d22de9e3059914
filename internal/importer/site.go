// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"promsnab/internal/locale"
	"promsnab/internal/models"
)

// SiteFileName is the site-wide configuration file at the content root.
const SiteFileName = "site.yaml"

// sharedSettingsKey holds settings that apply to every locale.
const sharedSettingsKey = "shared"

// SiteFile is the decoded site.yaml.
type SiteFile struct {
	// Settings maps "shared" or a locale code to key/value settings.
	Settings map[string]map[string]string `yaml:"settings"`
	// Nav maps a locale code to its menu.
	Nav map[string][]NavEntry `yaml:"nav"`
	// Labels localizes filter groups and values.
	Labels []LabelGroup `yaml:"labels"`
}

// NavEntry is one menu item. Exactly one of Key and Href is set.
type NavEntry struct {
	Label string `yaml:"label"`
	Key   string `yaml:"key"`
	Href  string `yaml:"href"`
}

// LabelGroup localizes one filter group and its values.
type LabelGroup struct {
	Group  string            `yaml:"group"`
	Label  map[string]string `yaml:"label"`
	Values []LabelValue      `yaml:"values"`
}

// LabelValue localizes one filter value.
type LabelValue struct {
	Value string            `yaml:"value"`
	Label map[string]string `yaml:"label"`
}

// readSite decodes site.yaml. A missing file yields nil.
func readSite(fsys fs.FS, set *locale.Set) (*SiteFile, error) {
	data, err := fs.ReadFile(fsys, SiteFileName)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SiteFileName, err)
	}

	var site SiteFile
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("decode %s: %w", SiteFileName, err)
	}
	if err := site.validate(set); err != nil {
		return nil, fmt.Errorf("%s: %w", SiteFileName, err)
	}
	return &site, nil
}

func (s *SiteFile) validate(set *locale.Set) error {
	for k := range s.Settings {
		if k == sharedSettingsKey {
			continue
		}
		if _, ok := set.Parse(k); !ok {
			return fmt.Errorf("settings: unsupported locale %q", k)
		}
	}
	for k, items := range s.Nav {
		if _, ok := set.Parse(k); !ok {
			return fmt.Errorf("nav: unsupported locale %q", k)
		}
		for i, item := range items {
			if strings.TrimSpace(item.Label) == "" {
				return fmt.Errorf("nav.%s[%d]: label is required", k, i)
			}
			if (item.Key == "") == (item.Href == "") {
				return fmt.Errorf("nav.%s[%d]: exactly one of key and href is required", k, i)
			}
		}
	}
	for i, g := range s.Labels {
		if strings.TrimSpace(g.Group) == "" {
			return fmt.Errorf("labels[%d]: group is required", i)
		}
	}
	return nil
}

// SettingsFor returns the settings to store for a locale, or "" for the
// shared row set.
func (s *SiteFile) SettingsFor(loc locale.Code) map[string]string {
	if loc == "" {
		return s.Settings[sharedSettingsKey]
	}
	return s.Settings[string(loc)]
}

// NavItems returns the menu for loc.
func (s *SiteFile) NavItems(loc locale.Code) []models.NavItem {
	entries := s.Nav[string(loc)]
	items := make([]models.NavItem, 0, len(entries))
	for i, n := range entries {
		items = append(items, models.NavItem{
			Locale:    loc,
			Label:     strings.TrimSpace(n.Label),
			EntryKey:  models.StringPtr(n.Key),
			Href:      models.StringPtr(n.Href),
			SortOrder: i,
		})
	}
	return items
}

// AttributeLabels flattens the label groups in file order. Group and
// value identifiers are lowercased to match product attributes.
func (s *SiteFile) AttributeLabels(set *locale.Set) []models.AttributeLabel {
	var out []models.AttributeLabel
	add := func(group, value string, labels map[string]string) {
		for _, loc := range set.Supported() {
			if l := strings.TrimSpace(labels[string(loc)]); l != "" {
				out = append(out, models.AttributeLabel{Group: group, Value: value, Locale: string(loc), Label: l})
			}
		}
	}
	for _, g := range s.Labels {
		group := strings.ToLower(strings.TrimSpace(g.Group))
		add(group, "", g.Label)
		for _, v := range g.Values {
			add(group, strings.ToLower(strings.TrimSpace(v.Value)), v.Label)
		}
	}
	return out
}

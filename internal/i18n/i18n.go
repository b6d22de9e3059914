// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package i18n holds the UI message dictionaries. Dictionaries are YAML
// files, one per locale, with nested keys flattened to dotted paths
// ("contact.submit").
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"promsnab/internal/locale"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Bundle is a read-only set of dictionaries, safe for concurrent use.
type Bundle struct {
	def   locale.Code
	dicts map[locale.Code]map[string]string
}

// Load reads the embedded dictionaries for every locale in set.
func Load(set *locale.Set) (*Bundle, error) {
	return LoadFS(localeFS, "locales", set)
}

// LoadFS reads <dir>/<code>.yaml from fsys for every locale in set. A
// missing dictionary for the default locale is an error; other locales
// fall back to the default.
func LoadFS(fsys fs.FS, dir string, set *locale.Set) (*Bundle, error) {
	b := &Bundle{
		def:   set.Default(),
		dicts: make(map[locale.Code]map[string]string),
	}
	for _, code := range set.Supported() {
		data, err := fs.ReadFile(fsys, path.Join(dir, string(code)+".yaml"))
		if err != nil {
			if code == set.Default() {
				return nil, fmt.Errorf("read dictionary %s: %w", code, err)
			}
			continue
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse dictionary %s: %w", code, err)
		}
		flat := make(map[string]string)
		flatten("", raw, flat)
		b.dicts[code] = flat
	}
	return b, nil
}

// T returns the message for key in loc, falling back to the default
// locale and finally to the key itself. With args the message is used as
// a fmt format.
func (b *Bundle) T(loc locale.Code, key string, args ...any) string {
	msg, ok := b.lookup(loc, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has reports whether key exists in loc or the default locale.
func (b *Bundle) Has(loc locale.Code, key string) bool {
	_, ok := b.lookup(loc, key)
	return ok
}

// Keys returns every key defined for loc.
func (b *Bundle) Keys(loc locale.Code) []string {
	out := make([]string, 0, len(b.dicts[loc]))
	for k := range b.dicts[loc] {
		out = append(out, k)
	}
	return out
}

func (b *Bundle) lookup(loc locale.Code, key string) (string, bool) {
	if msg, ok := b.dicts[loc][key]; ok {
		return msg, true
	}
	msg, ok := b.dicts[b.def][key]
	return msg, ok
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		case nil:
			out[key] = ""
		default:
			out[key] = strings.TrimSpace(fmt.Sprint(val))
		}
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package locale resolves the active site language for a request. The
// language comes from the first path segment, then the locale cookie, then
// (optionally) the Accept-Language header, then the configured default.
package locale

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Code is a supported language code such as "ru" or "en".
type Code string

// String returns the code as a plain string.
func (c Code) String() string {
	return string(c)
}

// Source records where a resolved locale came from.
type Source string

const (
	SourcePath    Source = "path"
	SourceCookie  Source = "cookie"
	SourceHeader  Source = "header"
	SourceDefault Source = "default"
)

// Resolution is the outcome of resolving a request's locale.
type Resolution struct {
	Locale Code
	Source Source
}

// FromPath reports whether the locale was taken from the URL path.
func (r Resolution) FromPath() bool {
	return r.Source == SourcePath
}

// Set is the fixed list of supported locales with one default.
// It is immutable after construction and safe for concurrent use.
type Set struct {
	supported []Code
	def       Code
	tags      []language.Tag
	matcher   language.Matcher
}

// NewSet builds a Set from a default code and the supported codes. The
// default is added to the supported list if missing. Codes are lowercased.
func NewSet(def string, codes ...string) (*Set, error) {
	def = normalize(def)
	if def == "" {
		return nil, fmt.Errorf("locale: default locale is required")
	}

	s := &Set{def: Code(def)}
	seen := make(map[Code]bool)
	add := func(raw string) error {
		c := Code(normalize(raw))
		if c == "" || seen[c] {
			return nil
		}
		tag, err := language.Parse(string(c))
		if err != nil {
			return fmt.Errorf("locale: invalid code %q: %w", raw, err)
		}
		seen[c] = true
		s.supported = append(s.supported, c)
		s.tags = append(s.tags, tag)
		return nil
	}

	// The default always comes first so the matcher falls back to it.
	if err := add(def); err != nil {
		return nil, err
	}
	for _, c := range codes {
		if err := add(c); err != nil {
			return nil, err
		}
	}

	s.matcher = language.NewMatcher(s.tags)
	return s, nil
}

// MustNewSet is like NewSet but panics on error. Intended for tests and
// package-level defaults.
func MustNewSet(def string, codes ...string) *Set {
	s, err := NewSet(def, codes...)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the default locale.
func (s *Set) Default() Code {
	return s.def
}

// Supported returns a copy of the supported locales in configured order,
// default first.
func (s *Set) Supported() []Code {
	out := make([]Code, len(s.supported))
	copy(out, s.supported)
	return out
}

// Parse returns the supported locale matching v (case-insensitive, trimmed).
// Malformed or unsupported values return false.
func (s *Set) Parse(v string) (Code, bool) {
	v = normalize(v)
	if v == "" {
		return "", false
	}
	for _, c := range s.supported {
		if string(c) == v {
			return c, true
		}
	}
	return "", false
}

// Resolve picks exactly one locale for a request. acceptLanguage may be
// empty to disable header detection.
func (s *Set) Resolve(path, cookie, acceptLanguage string) Resolution {
	if c, _, ok := s.SplitPath(path); ok {
		return Resolution{Locale: c, Source: SourcePath}
	}
	if c, ok := s.Parse(cookie); ok {
		return Resolution{Locale: c, Source: SourceCookie}
	}
	if acceptLanguage != "" {
		if c, ok := s.match(acceptLanguage); ok {
			return Resolution{Locale: c, Source: SourceHeader}
		}
	}
	return Resolution{Locale: s.def, Source: SourceDefault}
}

// SplitPath splits a request path into its locale prefix and the remainder.
// The remainder always starts with "/". ok is false when the first segment
// is not a supported locale.
func (s *Set) SplitPath(path string) (Code, string, bool) {
	trimmed := strings.TrimPrefix(path, "/")
	first, rest, _ := strings.Cut(trimmed, "/")
	c, ok := s.Parse(first)
	if !ok {
		return "", path, false
	}
	return c, "/" + rest, true
}

// match picks the best supported locale for an Accept-Language header.
func (s *Set) match(header string) (Code, bool) {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := s.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(s.supported) {
		return "", false
	}
	return s.supported[idx], true
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// ctxKey is unexported to prevent collisions with other packages.
type ctxKey struct{}

// WithContext returns a copy of ctx carrying the locale.
func WithContext(ctx context.Context, c Code) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the locale stored by the middleware, if any.
func FromContext(ctx context.Context) (Code, bool) {
	c, ok := ctx.Value(ctxKey{}).(Code)
	return c, ok
}

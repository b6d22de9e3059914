package i18n

import (
	"testing"
	"testing/fstest"

	"promsnab/internal/locale"
)

func TestLoadEmbedded(t *testing.T) {
	set := locale.MustNewSet("ru", "en")
	b, err := Load(set)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := b.T("ru", "contact.submit"); got != "Отправить" {
		t.Errorf("ru contact.submit: got %q", got)
	}
	if got := b.T("en", "contact.submit"); got != "Send" {
		t.Errorf("en contact.submit: got %q", got)
	}
	if got := b.T("en", "catalog.found", 3); got != "Products found: 3" {
		t.Errorf("formatted: got %q", got)
	}
}

// TestDictionariesHaveSameKeys catches keys added to one language only.
func TestDictionariesHaveSameKeys(t *testing.T) {
	set := locale.MustNewSet("ru", "en")
	b, err := Load(set)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, k := range b.Keys("ru") {
		if _, ok := b.dicts["en"][k]; !ok {
			t.Errorf("en dictionary missing %q", k)
		}
	}
	for _, k := range b.Keys("en") {
		if _, ok := b.dicts["ru"][k]; !ok {
			t.Errorf("ru dictionary missing %q", k)
		}
	}
}

func TestFallback(t *testing.T) {
	fsys := fstest.MapFS{
		"d/ru.yaml": {Data: []byte("a:\n  b: Б\nonly_ru: только\n")},
		"d/en.yaml": {Data: []byte("a:\n  b: B\n")},
	}
	set := locale.MustNewSet("ru", "en")
	b, err := LoadFS(fsys, "d", set)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	tests := []struct {
		loc  locale.Code
		key  string
		want string
	}{
		{"en", "a.b", "B"},
		{"ru", "a.b", "Б"},
		{"en", "only_ru", "только"},
		{"en", "missing.key", "missing.key"},
		{"de", "a.b", "Б"},
	}
	for _, tt := range tests {
		if got := b.T(tt.loc, tt.key); got != tt.want {
			t.Errorf("T(%q, %q): got %q, want %q", tt.loc, tt.key, got, tt.want)
		}
	}
	if !b.Has("en", "only_ru") || b.Has("en", "nope") {
		t.Error("Has reports wrong result")
	}
}

func TestLoadErrors(t *testing.T) {
	set := locale.MustNewSet("ru", "en")

	if _, err := LoadFS(fstest.MapFS{"d/en.yaml": {Data: []byte("a: b")}}, "d", set); err == nil {
		t.Error("expected error when default dictionary is missing")
	}
	if _, err := LoadFS(fstest.MapFS{"d/ru.yaml": {Data: []byte("a: [")}}, "d", set); err == nil {
		t.Error("expected error for malformed YAML")
	}
	if _, err := LoadFS(fstest.MapFS{"d/ru.yaml": {Data: []byte("a: b")}}, "d", set); err != nil {
		t.Errorf("missing secondary dictionary should be allowed: %v", err)
	}
}

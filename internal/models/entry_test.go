package models

import (
	"testing"
	"time"

	"promsnab/internal/locale"
)

// TestEntryTypeSection verifies the URL section for each entry type.
func TestEntryTypeSection(t *testing.T) {
	tests := []struct {
		typ  EntryType
		want string
	}{
		{EntryTypePage, ""},
		{EntryTypePost, "blog"},
		{EntryTypeProduct, "catalog"},
		{EntryType("unknown"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Section(); got != tt.want {
				t.Errorf("Section() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntryTypeValid(t *testing.T) {
	for _, typ := range []EntryType{EntryTypePage, EntryTypePost, EntryTypeProduct} {
		if !typ.Valid() {
			t.Errorf("%q should be valid", typ)
		}
	}
	if EntryType("category").Valid() {
		t.Error("category should not be valid")
	}
}

// TestEntrySlugs verifies the slug map only carries translated locales.
func TestEntrySlugs(t *testing.T) {
	e := &Entry{Translations: map[locale.Code]*Translation{
		"ru": {Locale: "ru", Slug: "o-kompanii"},
		"en": {Locale: "en", Slug: "about"},
	}}

	slugs := e.Slugs()
	if len(slugs) != 2 {
		t.Fatalf("len(slugs) = %d, want 2", len(slugs))
	}
	if slugs["ru"] != "o-kompanii" || slugs["en"] != "about" {
		t.Errorf("unexpected slugs: %v", slugs)
	}
	if _, ok := slugs["de"]; ok {
		t.Error("missing locale should be absent from slug map")
	}
}

func TestEntryIn(t *testing.T) {
	var nilEntry *Entry
	if nilEntry.In("ru") != nil {
		t.Error("nil entry should return nil translation")
	}

	e := &Entry{Translations: map[locale.Code]*Translation{"ru": {Title: "Главная"}}}
	if tr := e.In("ru"); tr == nil || tr.Title != "Главная" {
		t.Errorf("In(ru) = %+v", tr)
	}
	if e.In("en") != nil {
		t.Error("In(en) should be nil")
	}
}

func TestEntryLastModified(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := base.Add(48 * time.Hour)
	e := &Entry{
		UpdatedAt: base,
		Translations: map[locale.Code]*Translation{
			"ru": {UpdatedAt: base.Add(time.Hour)},
			"en": {UpdatedAt: later},
		},
	}
	if got := e.LastModified(); !got.Equal(later) {
		t.Errorf("LastModified() = %v, want %v", got, later)
	}
}

func TestDerefAndStringPtr(t *testing.T) {
	if Deref(nil) != "" {
		t.Error("Deref(nil) should be empty")
	}
	if StringPtr("") != nil {
		t.Error("StringPtr(\"\") should be nil")
	}
	if p := StringPtr("x"); p == nil || Deref(p) != "x" {
		t.Error("StringPtr/Deref round trip failed")
	}
}

func TestSiteSettingsGet(t *testing.T) {
	s := SiteSettings{"site_name": "Промснаб", "empty": ""}
	if got := s.Get("site_name", "x"); got != "Промснаб" {
		t.Errorf("Get(site_name) = %q", got)
	}
	if got := s.Get("empty", "fallback"); got != "fallback" {
		t.Errorf("Get(empty) = %q, want fallback", got)
	}
	if got := s.Get("missing", "fallback"); got != "fallback" {
		t.Errorf("Get(missing) = %q, want fallback", got)
	}
}

func TestLabelSet(t *testing.T) {
	l := LabelSet{"material": "Материал", "material/steel": "Сталь"}
	if l.Group("material") != "Материал" || l.Group("form") != "form" {
		t.Error("Group labels wrong")
	}
	if l.Value("material", "steel") != "Сталь" || l.Value("material", "copper") != "copper" {
		t.Error("Value labels wrong")
	}
}

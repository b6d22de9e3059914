// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory stores, a map-backed page cache and request helpers.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"promsnab/internal/catalog"
	"promsnab/internal/contact"
	"promsnab/internal/i18n"
	"promsnab/internal/locale"
	"promsnab/internal/models"
	"promsnab/internal/render"
)

var testSet = locale.MustNewSet("ru", "en")

const testBase = "https://example.com"

// fakeContent serves entries from memory.
type fakeContent struct {
	entries []models.Entry
	err     error
	calls   int
}

func (f *fakeContent) FindBySlug(_ context.Context, typ models.EntryType, loc locale.Code, slug string) (*models.Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.entries {
		e := f.entries[i]
		if e.Type != typ || !e.Published {
			continue
		}
		if tr := e.In(loc); tr != nil && tr.Slug == slug {
			return &e, nil
		}
	}
	return nil, nil
}

func (f *fakeContent) ListPublished(_ context.Context, typ models.EntryType, loc locale.Code, limit int) ([]models.Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Entry
	for _, e := range f.entries {
		tr := e.In(loc)
		if e.Type != typ || !e.Published || tr == nil {
			continue
		}
		e.Translations = map[locale.Code]*models.Translation{loc: tr}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeContent) ListAllPublished(_ context.Context) ([]models.Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Entry
	for _, e := range f.entries {
		if e.Published {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeCatalog filters the products of a fakeContent in memory.
type fakeCatalog struct {
	content *fakeContent
	facets  []models.Facet
	labels  map[locale.Code]models.LabelSet
	err     error
	lastSel catalog.Selection
}

func (f *fakeCatalog) List(ctx context.Context, loc locale.Code, sel catalog.Selection) ([]models.Entry, error) {
	f.lastSel = sel
	if f.err != nil {
		return nil, f.err
	}
	all, err := f.content.ListPublished(ctx, models.EntryTypeProduct, loc, 0)
	if err != nil {
		return nil, err
	}
	var out []models.Entry
	for _, e := range all {
		if matchesSelection(sel, e.Attributes) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Facets(_ context.Context, _ locale.Code) ([]models.Facet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.facets, nil
}

func (f *fakeCatalog) Labels(_ context.Context, loc locale.Code) (models.LabelSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.labels[loc], nil
}

type fakeSettings map[locale.Code]models.SiteSettings

func (f fakeSettings) All(_ context.Context, loc locale.Code) (models.SiteSettings, error) {
	return f[loc], nil
}

type fakeNav map[locale.Code][]models.NavItem

func (f fakeNav) List(_ context.Context, loc locale.Code) ([]models.NavItem, error) {
	return f[loc], nil
}

// memCache is a map-backed PageCache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	return b, ok
}

func (c *memCache) Set(_ context.Context, key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = body
	c.sets++
}

// fakeSubmitter records the last submitted form.
type fakeSubmitter struct {
	err  error
	got  contact.Form
	sent int
}

func (f *fakeSubmitter) Submit(_ context.Context, form contact.Form) error {
	f.got = form
	f.sent++
	return f.err
}

// fakeObjects is an in-memory private bucket.
type fakeObjects struct {
	keys map[string]bool
	err  error
}

func (f *fakeObjects) Exists(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.keys[key], nil
}

func (f *fakeObjects) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.example.com/private/" + key + "?X-Amz-Signature=abc", nil
}

func (f *fakeObjects) ImageURL(ref string) string {
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "/") {
		return ref
	}
	return "https://cdn.example.com/" + ref
}

// testEnv bundles a Public handler group with its fakes.
type testEnv struct {
	Public    *Public
	Content   *fakeContent
	Catalog   *fakeCatalog
	Cache     *memCache
	Submitter *fakeSubmitter
	Objects   *fakeObjects
}

func tr(loc locale.Code, slug, title, body string) *models.Translation {
	return &models.Translation{
		Locale:     loc,
		Slug:       slug,
		Title:      title,
		Body:       body,
		BodyFormat: models.BodyFormatMarkdown,
		Excerpt:    models.StringPtr(title + " excerpt"),
	}
}

func testEntries() []models.Entry {
	published := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return []models.Entry{
		{
			Key: "home", Type: models.EntryTypePage, Published: true,
			Translations: map[locale.Code]*models.Translation{
				"ru": tr("ru", "", "Главная", "Металлопрокат со склада."),
				"en": tr("en", "", "Home", "Rolled metal from stock."),
			},
		},
		{
			Key: "about", Type: models.EntryTypePage, Published: true,
			Translations: map[locale.Code]*models.Translation{
				"ru": tr("ru", "o-kompanii", "О компании", "Мы **работаем** с 2004 года."),
				"en": tr("en", "about", "About us", "We have **worked** since 2004."),
			},
		},
		{
			Key: "secret", Type: models.EntryTypePage, Published: false,
			Translations: map[locale.Code]*models.Translation{
				"ru": tr("ru", "sekret", "Черновик", "..."),
			},
		},
		{
			Key: "gost", Type: models.EntryTypePost, Published: true, PublishedAt: &published,
			Translations: map[locale.Code]*models.Translation{
				"ru": tr("ru", "gost-vs-din", "ГОСТ или DIN", "Сравнение стандартов."),
				"en": tr("en", "gost-vs-din", "GOST or DIN", "Comparing standards."),
			},
		},
		{
			Key: "warehouse", Type: models.EntryTypePost, Published: true, PublishedAt: &published,
			Translations: map[locale.Code]*models.Translation{
				"ru": tr("ru", "novyj-sklad", "Новый склад", "Открыли склад."),
			},
		},
		{
			Key: "steel-sheet", Type: models.EntryTypeProduct, Published: true, SortOrder: 1,
			Datasheet: models.StringPtr("datasheets/steel-sheet.pdf"),
			Translations: map[locale.Code]*models.Translation{
				"ru": tr("ru", "list-stalnoj", "Лист стальной", "Горячекатаный лист."),
				"en": tr("en", "steel-sheet", "Steel sheet", "Hot-rolled sheet."),
			},
			Attributes: map[string][]string{"material": {"steel"}, "form": {"sheet"}},
		},
		{
			Key: "copper-bar", Type: models.EntryTypeProduct, Published: true, SortOrder: 2,
			Translations: map[locale.Code]*models.Translation{
				"ru": tr("ru", "med-prutok", "Пруток медный", "Медный пруток."),
				"en": tr("en", "copper-bar", "Copper bar", "Copper bar."),
			},
			Attributes: map[string][]string{"material": {"copper"}, "form": {"bar"}},
		},
	}
}

func testFacets() []models.Facet {
	return []models.Facet{
		{Group: "form", Label: "Форма", Values: []models.FacetValue{
			{Value: "bar", Label: "Пруток", Count: 1},
			{Value: "sheet", Label: "Лист", Count: 1},
		}},
		{Group: "material", Label: "Материал", Values: []models.FacetValue{
			{Value: "copper", Label: "Медь", Count: 1},
			{Value: "steel", Label: "Сталь", Count: 1},
		}},
	}
}

// newTestEnv builds a Public handler group over in-memory fakes and the
// real embedded templates and dictionaries.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	bundle, err := i18n.Load(testSet)
	if err != nil {
		t.Fatalf("i18n.Load: %v", err)
	}
	rn, err := render.New(bundle, false)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	content := &fakeContent{entries: testEntries()}
	env := &testEnv{
		Content: content,
		Catalog: &fakeCatalog{
			content: content,
			facets:  testFacets(),
			labels: map[locale.Code]models.LabelSet{
				"en": {"material": "Material", "material/steel": "Steel", "form": "Form", "form/sheet": "Sheet"},
			},
		},
		Cache:     newMemCache(),
		Submitter: &fakeSubmitter{},
		Objects:   &fakeObjects{keys: map[string]bool{"datasheets/steel-sheet.pdf": true}},
	}
	env.Public = NewPublic(Deps{
		Locales:  testSet,
		Bundle:   bundle,
		Renderer: rn,
		Content:  env.Content,
		Catalog:  env.Catalog,
		Settings: fakeSettings{
			"ru": {"site_name": "Промснаб", "org_phone": "+7 (495) 123-45-67"},
			"en": {"site_name": "Promsnab", "org_phone": "+7 (495) 123-45-67"},
		},
		Nav: fakeNav{
			"ru": {{Label: "Каталог", URL: "/ru/catalog"}},
			"en": {{Label: "Catalog", URL: "/en/catalog"}},
		},
		Cache:         env.Cache,
		Contact:       env.Submitter,
		Objects:       env.Objects,
		BaseURL:       testBase,
		AllowIndexing: true,
	})
	return env
}

// request builds a request the way the router would hand it over: chi URL
// params set and the locale of a prefixed path stored in the context.
func request(method, target string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if loc, _, ok := testSet.SplitPath(req.URL.Path); ok {
		ctx = locale.WithContext(ctx, loc)
	}
	return req.WithContext(ctx)
}

// do runs h and returns the recorder.
func do(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("body missing %q", w)
		}
	}
}

func assertNotContains(t *testing.T, body string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(body, u) {
			t.Errorf("body should not contain %q", u)
		}
	}
}

// matchesSelection mirrors the catalog query: any value within a group,
// every selected group.
func matchesSelection(sel catalog.Selection, attrs map[string][]string) bool {
	for group, wanted := range sel {
		if len(wanted) == 0 {
			continue
		}
		if !slices.ContainsFunc(attrs[group], func(v string) bool { return slices.Contains(wanted, v) }) {
			return false
		}
	}
	return true
}

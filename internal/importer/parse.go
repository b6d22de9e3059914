// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"promsnab/internal/locale"
	"promsnab/internal/markdown"
	"promsnab/internal/models"
	"promsnab/internal/seo"
	"promsnab/internal/slug"
)

// Content directories, one per entry type.
var typeDirs = []struct {
	dir string
	typ models.EntryType
}{
	{"pages", models.EntryTypePage},
	{"posts", models.EntryTypePost},
	{"products", models.EntryTypeProduct},
}

var (
	keyPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*(/[a-z0-9][a-z0-9-]*)*$`)
)

// dateLayouts are accepted for the date frontmatter field.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// frontMatter is the YAML header of a content file.
type frontMatter struct {
	Title          string     `yaml:"title"`
	Slug           *string    `yaml:"slug"`
	Summary        string     `yaml:"summary"`
	SEOTitle       string     `yaml:"seo_title"`
	SEODescription string     `yaml:"seo_description"`
	OGImage        string     `yaml:"og_image"`
	Format         string     `yaml:"format"`
	Draft          bool       `yaml:"draft"`
	Date           string     `yaml:"date"`
	Sort           int        `yaml:"sort"`
	Datasheet      string     `yaml:"datasheet"`
	Attributes     attributes `yaml:"attributes"`
}

func (f frontMatter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Format, validation.In(models.BodyFormatMarkdown, models.BodyFormatHTML)),
		validation.Field(&f.Date, validation.By(validDate)),
		validation.Field(&f.SEODescription, validation.Length(0, 300)),
	)
}

func validDate(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := parseDate(s); err != nil {
		return validation.NewError("validation_date", "must be a date such as 2026-03-01")
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// attributes maps a filter group to its values. A group may be written
// as a single scalar or as a list.
type attributes map[string]attrValues

type attrValues []string

func (a *attrValues) UnmarshalYAML(unmarshal func(any) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*a = list
		return nil
	}
	var single string
	if err := unmarshal(&single); err != nil {
		return err
	}
	*a = attrValues{single}
	return nil
}

// normalized lowercases groups and values, drops blanks and duplicates.
func (a attributes) normalized() map[string][]string {
	if len(a) == 0 {
		return nil
	}
	out := make(map[string][]string, len(a))
	for group, values := range a {
		g := strings.ToLower(strings.TrimSpace(group))
		if g == "" {
			continue
		}
		seen := make(map[string]bool)
		for _, v := range values {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out[g] = append(out[g], v)
		}
		sort.Strings(out[g])
	}
	return out
}

// document is one parsed file: a single translation of an entry.
type document struct {
	path   string
	typ    models.EntryType
	key    string
	locale locale.Code
	meta   frontMatter
	body   string
}

// Parsed is the result of reading a content tree, before anything is
// written.
type Parsed struct {
	Entries []*models.Entry
	Site    *SiteFile
	Skipped []string
}

func (p *Parsed) skip(format string, args ...any) {
	p.Skipped = append(p.Skipped, fmt.Sprintf(format, args...))
}

// Parse reads every content file and site.yaml from fsys. Files that
// cannot be used are reported in Skipped; only I/O failures and a broken
// site.yaml return an error.
func Parse(fsys fs.FS, set *locale.Set) (*Parsed, error) {
	p := &Parsed{}

	for _, td := range typeDirs {
		docs, err := readDir(fsys, td.dir, td.typ, set, p)
		if err != nil {
			return nil, err
		}
		p.Entries = append(p.Entries, assemble(docs, td.typ, set, p)...)
	}

	site, err := readSite(fsys, set)
	if err != nil {
		return nil, err
	}
	p.Site = site
	return p, nil
}

func readDir(fsys fs.FS, dir string, typ models.EntryType, set *locale.Set, p *Parsed) ([]document, error) {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var docs []document
	for _, f := range files {
		if f.IsDir() || path.Ext(f.Name()) != ".md" {
			continue
		}
		name := path.Join(dir, f.Name())

		key, rawLoc, ok := strings.Cut(strings.TrimSuffix(f.Name(), ".md"), ".")
		if !ok || !keyPattern.MatchString(key) {
			p.skip("%s: file name must be <key>.<locale>.md", name)
			continue
		}
		loc, ok := set.Parse(rawLoc)
		if !ok {
			p.skip("%s: unsupported locale %q", name, rawLoc)
			continue
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var meta frontMatter
		body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
		if err != nil {
			p.skip("%s: parse frontmatter: %v", name, err)
			continue
		}
		if err := meta.Validate(); err != nil {
			p.skip("%s: %v", name, err)
			continue
		}
		if meta.Draft {
			p.skip("%s: draft", name)
			continue
		}

		docs = append(docs, document{
			path:   name,
			typ:    typ,
			key:    key,
			locale: loc,
			meta:   meta,
			body:   strings.TrimSpace(string(body)),
		})
	}
	return docs, nil
}

// assemble groups documents by key into entries. Shared fields (date,
// sort order, attributes, datasheet) come from the default-locale file
// when present, otherwise from the first locale in configured order.
func assemble(docs []document, typ models.EntryType, set *locale.Set, p *Parsed) []*models.Entry {
	byKey := make(map[string]map[locale.Code]document)
	var keys []string
	for _, d := range docs {
		if byKey[d.key] == nil {
			byKey[d.key] = make(map[locale.Code]document)
			keys = append(keys, d.key)
		}
		byKey[d.key][d.locale] = d
	}
	sort.Strings(keys)

	// slugs taken per locale within this type
	taken := make(map[locale.Code]map[string]string)

	var entries []*models.Entry
	for _, key := range keys {
		e := &models.Entry{
			Key:          key,
			Type:         typ,
			Published:    true,
			Translations: make(map[locale.Code]*models.Translation),
		}

		var shared *frontMatter
		for _, loc := range set.Supported() {
			d, ok := byKey[key][loc]
			if !ok {
				continue
			}
			if shared == nil {
				m := d.meta
				shared = &m
			}

			tr, reason := translation(d)
			if reason != "" {
				p.skip("%s: %s", d.path, reason)
				continue
			}
			if taken[loc] == nil {
				taken[loc] = make(map[string]string)
			}
			if other, dup := taken[loc][tr.Slug]; dup {
				p.skip("%s: slug %q already used by %s", d.path, tr.Slug, other)
				continue
			}
			taken[loc][tr.Slug] = key
			e.Translations[loc] = tr
		}

		if len(e.Translations) == 0 {
			p.skip("%s/%s: no publishable translation", typ, key)
			continue
		}

		e.SortOrder = shared.Sort
		e.Datasheet = models.StringPtr(shared.Datasheet)
		if shared.Date != "" {
			t, _ := parseDate(shared.Date)
			e.PublishedAt = &t
		}
		if typ == models.EntryTypeProduct {
			e.Attributes = shared.Attributes.normalized()
		}
		entries = append(entries, e)
	}
	return entries
}

// translation converts a document into a translation. A non-empty reason
// means the document cannot be used.
func translation(d document) (*models.Translation, string) {
	m := d.meta
	var s string
	if m.Slug != nil {
		s = strings.Trim(strings.ToLower(strings.TrimSpace(*m.Slug)), "/")
	} else {
		s = slug.Generate(m.Title)
	}

	if s == "" {
		// Only pages may sit on the locale root.
		if d.typ != models.EntryTypePage || m.Slug == nil {
			return nil, "empty slug"
		}
	} else if !slugPattern.MatchString(s) {
		return nil, fmt.Sprintf("invalid slug %q", s)
	}
	if d.typ != models.EntryTypePage && strings.Contains(s, "/") {
		return nil, fmt.Sprintf("nested slug %q is only allowed for pages", s)
	}

	format := m.Format
	if format == "" {
		format = models.BodyFormatMarkdown
	}

	excerpt := m.Summary
	if excerpt == "" && format == models.BodyFormatMarkdown {
		excerpt = markdown.PlainText(d.body, seo.DescriptionLimit)
	}

	return &models.Translation{
		Locale:         d.locale,
		Slug:           s,
		Title:          strings.TrimSpace(m.Title),
		Excerpt:        models.StringPtr(excerpt),
		Body:           d.body,
		BodyFormat:     format,
		SEOTitle:       models.StringPtr(m.SEOTitle),
		SEODescription: models.StringPtr(m.SEODescription),
		OGImage:        models.StringPtr(m.OGImage),
	}, ""
}

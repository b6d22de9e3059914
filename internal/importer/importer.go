// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package importer loads site content from a tree of Markdown files with
// YAML frontmatter into the content store. It is the only write path for
// content; the web server reads what the importer last wrote.
//
// Layout:
//
//	site.yaml                      settings, menus, filter labels
//	pages/<key>.<locale>.md        pages ("home" with slug "" is the locale root)
//	posts/<key>.<locale>.md        blog posts
//	products/<key>.<locale>.md     catalog products
//	datasheets/<name>              files uploaded to object storage
//
// Files sharing a key are translations of one entry.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"path"

	"promsnab/internal/locale"
	"promsnab/internal/models"
)

// EntryWriter persists entries.
type EntryWriter interface {
	Upsert(ctx context.Context, e *models.Entry) error
	Prune(ctx context.Context, typ models.EntryType, keep []string) (int64, error)
}

// SettingsWriter persists site settings.
type SettingsWriter interface {
	SetMany(ctx context.Context, loc locale.Code, settings map[string]string) error
}

// NavWriter persists menus.
type NavWriter interface {
	Replace(ctx context.Context, loc locale.Code, items []models.NavItem) error
}

// LabelWriter persists filter labels.
type LabelWriter interface {
	ReplaceLabels(ctx context.Context, labels []models.AttributeLabel) error
}

// Invalidator drops cached pages once new content is in place.
type Invalidator interface {
	InvalidateAll(ctx context.Context) int
}

// DatasheetUploader stores datasheet files.
type DatasheetUploader interface {
	UploadDatasheet(ctx context.Context, name, contentType string, body io.Reader, size int64) error
}

// RunRecorder keeps a history of completed imports.
type RunRecorder interface {
	RecordCounts(ctx context.Context, imported map[models.EntryType]int, pruned int64, uploaded, skipped, invalidated int)
}

// Targets are the stores the importer writes to. Files, Cache and History
// may be nil.
type Targets struct {
	Entries  EntryWriter
	Settings SettingsWriter
	Nav      NavWriter
	Labels   LabelWriter
	Files    DatasheetUploader
	Cache    Invalidator
	History  RunRecorder
}

// datasheetDir holds files to upload when a DatasheetUploader is set.
const datasheetDir = "datasheets"

// Options control an import run.
type Options struct {
	// Prune deletes stored entries that no longer have files.
	Prune bool
	// DryRun parses and reports without writing.
	DryRun bool
}

// Report summarizes an import run.
type Report struct {
	Imported    map[models.EntryType]int
	Pruned      int64
	Uploaded    int
	Skipped     []string
	Invalidated int
	SiteFile    bool
}

// Importer reads a content tree and writes it to the stores.
type Importer struct {
	fsys    fs.FS
	set     *locale.Set
	targets Targets
}

// New creates an Importer reading from fsys.
func New(fsys fs.FS, set *locale.Set, targets Targets) *Importer {
	return &Importer{fsys: fsys, set: set, targets: targets}
}

// Run imports the whole tree. Unusable files are skipped and listed in
// the report; a store failure aborts the run.
func (im *Importer) Run(ctx context.Context, opts Options) (*Report, error) {
	parsed, err := Parse(im.fsys, im.set)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	report := &Report{
		Imported: make(map[models.EntryType]int),
		Skipped:  parsed.Skipped,
		SiteFile: parsed.Site != nil,
	}
	for _, msg := range parsed.Skipped {
		slog.Warn("import skipped", "reason", msg)
	}

	keep := make(map[models.EntryType][]string)
	for _, e := range parsed.Entries {
		keep[e.Type] = append(keep[e.Type], e.Key)
		report.Imported[e.Type]++
	}
	if opts.DryRun {
		return report, nil
	}

	for _, e := range parsed.Entries {
		if err := im.targets.Entries.Upsert(ctx, e); err != nil {
			return report, fmt.Errorf("import %s/%s: %w", e.Type, e.Key, err)
		}
	}

	if opts.Prune {
		for _, td := range typeDirs {
			n, err := im.targets.Entries.Prune(ctx, td.typ, keep[td.typ])
			if err != nil {
				return report, fmt.Errorf("import prune %s: %w", td.typ, err)
			}
			report.Pruned += n
		}
	}

	if parsed.Site != nil {
		if err := im.writeSite(ctx, parsed.Site); err != nil {
			return report, err
		}
	}

	if im.targets.Files != nil {
		n, err := im.uploadDatasheets(ctx)
		report.Uploaded = n
		if err != nil {
			return report, err
		}
	}

	if im.targets.Cache != nil {
		report.Invalidated = im.targets.Cache.InvalidateAll(ctx)
	}
	if im.targets.History != nil {
		im.targets.History.RecordCounts(ctx, report.Imported, report.Pruned, report.Uploaded, len(report.Skipped), report.Invalidated)
	}

	slog.Info("import complete",
		"pages", report.Imported[models.EntryTypePage],
		"posts", report.Imported[models.EntryTypePost],
		"products", report.Imported[models.EntryTypeProduct],
		"pruned", report.Pruned,
		"uploaded", report.Uploaded,
		"skipped", len(report.Skipped),
		"invalidated", report.Invalidated,
	)
	return report, nil
}

func (im *Importer) writeSite(ctx context.Context, site *SiteFile) error {
	if shared := site.SettingsFor(""); len(shared) > 0 {
		if err := im.targets.Settings.SetMany(ctx, "", shared); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
	}
	for _, loc := range im.set.Supported() {
		if s := site.SettingsFor(loc); len(s) > 0 {
			if err := im.targets.Settings.SetMany(ctx, loc, s); err != nil {
				return fmt.Errorf("import settings %s: %w", loc, err)
			}
		}
		if site.Nav != nil {
			if err := im.targets.Nav.Replace(ctx, loc, site.NavItems(loc)); err != nil {
				return fmt.Errorf("import nav %s: %w", loc, err)
			}
		}
	}
	if site.Labels != nil {
		if err := im.targets.Labels.ReplaceLabels(ctx, site.AttributeLabels(im.set)); err != nil {
			return fmt.Errorf("import labels: %w", err)
		}
	}
	return nil
}

func (im *Importer) uploadDatasheets(ctx context.Context) (int, error) {
	files, err := fs.ReadDir(im.fsys, datasheetDir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", datasheetDir, err)
	}

	var n int
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := path.Join(datasheetDir, f.Name())
		data, err := fs.ReadFile(im.fsys, name)
		if err != nil {
			return n, fmt.Errorf("read %s: %w", name, err)
		}
		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := im.targets.Files.UploadDatasheet(ctx, f.Name(), contentType, bytes.NewReader(data), int64(len(data))); err != nil {
			return n, fmt.Errorf("upload %s: %w", name, err)
		}
		n++
	}
	return n, nil
}

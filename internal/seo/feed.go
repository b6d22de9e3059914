// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"encoding/xml"
	"fmt"
	"time"
)

const atomNS = "http://www.w3.org/2005/Atom"

// FeedInfo describes an Atom feed.
type FeedInfo struct {
	Title    string
	Subtitle string
	// SelfURL is the absolute URL of the feed document itself.
	SelfURL string
	// SiteURL is the absolute URL of the HTML page the feed mirrors.
	SiteURL string
	Author  string
	Lang    string
	Updated time.Time
}

// FeedItem is one entry of an Atom feed.
type FeedItem struct {
	Title     string
	URL       string
	Summary   string
	Published time.Time
	Updated   time.Time
}

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	XMLNS    string      `xml:"xmlns,attr"`
	Lang     string      `xml:"http://www.w3.org/XML/1998/namespace lang,attr,omitempty"`
	ID       string      `xml:"id"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	Updated  string      `xml:"updated"`
	Links    []atomLink  `xml:"link"`
	Author   *atomAuthor `xml:"author,omitempty"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomEntry struct {
	ID        string    `xml:"id"`
	Title     string    `xml:"title"`
	Link      atomLink  `xml:"link"`
	Published string    `xml:"published,omitempty"`
	Updated   string    `xml:"updated"`
	Summary   *atomText `xml:"summary,omitempty"`
}

type atomText struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

// Atom renders an Atom 1.0 feed. The feed's updated time is the newest
// item time, or info.Updated when there are no items.
func Atom(info FeedInfo, items []FeedItem) ([]byte, error) {
	updated := info.Updated
	entries := make([]atomEntry, 0, len(items))
	for _, it := range items {
		itemUpdated := it.Updated
		if itemUpdated.IsZero() {
			itemUpdated = it.Published
		}
		if itemUpdated.After(updated) {
			updated = itemUpdated
		}

		e := atomEntry{
			ID:      it.URL,
			Title:   it.Title,
			Link:    atomLink{Href: it.URL, Rel: "alternate", Type: "text/html"},
			Updated: atomTime(itemUpdated),
		}
		if !it.Published.IsZero() {
			e.Published = atomTime(it.Published)
		}
		if it.Summary != "" {
			e.Summary = &atomText{Type: "text", Body: it.Summary}
		}
		entries = append(entries, e)
	}

	feed := atomFeed{
		XMLNS:    atomNS,
		Lang:     info.Lang,
		ID:       info.SelfURL,
		Title:    info.Title,
		Subtitle: info.Subtitle,
		Updated:  atomTime(updated),
		Links: []atomLink{
			{Href: info.SelfURL, Rel: "self", Type: "application/atom+xml"},
			{Href: info.SiteURL, Rel: "alternate", Type: "text/html"},
		},
		Entries: entries,
	}
	if info.Author != "" {
		feed.Author = &atomAuthor{Name: info.Author}
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal atom feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func atomTime(t time.Time) string {
	if t.IsZero() {
		t = time.Unix(0, 0)
	}
	return t.UTC().Format(time.RFC3339)
}

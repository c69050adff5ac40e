// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq is the advertised change frequency of a URL.
type ChangeFreq string

const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL is one entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap is the complete urlset document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Entry is a published item to include in the sitemap.
type Entry struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder assembles a sitemap from published content.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder rooted at siteURL.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: siteURL}
}

// AddHomepage adds the site root.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL,
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddPages adds published builder pages at /{slug}.
func (b *SitemapBuilder) AddPages(pages []Entry) {
	for _, p := range pages {
		b.add("/"+p.Slug, p.UpdatedAt, ChangeFreqWeekly, "0.8")
	}
}

// AddProjects adds research project pages at /research/{slug}.
func (b *SitemapBuilder) AddProjects(projects []Entry) {
	for _, p := range projects {
		b.add("/research/"+p.Slug, p.UpdatedAt, ChangeFreqWeekly, "0.7")
	}
}

// AddBlogPosts adds published blog posts at /blog/{slug}.
func (b *SitemapBuilder) AddBlogPosts(posts []Entry) {
	for _, p := range posts {
		b.add("/blog/"+p.Slug, p.UpdatedAt, ChangeFreqMonthly, "0.6")
	}
}

func (b *SitemapBuilder) add(path string, lastMod time.Time, freq ChangeFreq, priority string) {
	u := SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: freq,
		Priority:   priority,
	}
	if !lastMod.IsZero() {
		u.LastMod = lastMod.Format(time.RFC3339)
	}
	b.urls = append(b.urls, u)
}

// Build generates the sitemap XML document.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}
	out, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the crawler-facing surfaces of the public site:
// meta tag sets, sitemap.xml, robots.txt and security.txt.
package seo

import (
	"strings"

	"github.com/rcmslabs/rcms/internal/model"
)

// Meta is the resolved set of meta tags for one published page. Clients
// rendering a page put these into the document head.
type Meta struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
	Canonical     string `json:"canonical,omitempty"`
	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty"`
	OGSiteName    string `json:"og_site_name,omitempty"`
	TwitterCard   string `json:"twitter_card,omitempty"`
	TwitterSite   string `json:"twitter_site,omitempty"`
	Robots        string `json:"robots"`
}

// SiteConfig carries the site-wide fallbacks for meta resolution.
type SiteConfig struct {
	SiteName      string
	SiteURL       string
	DefaultImage  string
	TwitterHandle string
}

// BuildMeta resolves the meta tags for a page from its own meta block,
// falling back to the theme's SEO settings and the site config.
func BuildMeta(page model.Page, seo model.SEOSettings, site SiteConfig) Meta {
	m := Meta{
		OGSiteName:  site.SiteName,
		TwitterCard: "summary_large_image",
		TwitterSite: site.TwitterHandle,
		Robots:      "index,follow",
	}

	m.Title = page.Meta.Title
	if m.Title == "" {
		m.Title = page.Title
	}
	if tmpl := seo.TitleTemplate; tmpl != "" && strings.Contains(tmpl, "%s") {
		m.Title = strings.Replace(tmpl, "%s", m.Title, 1)
	} else if seo.SiteTitle != "" {
		m.Title = m.Title + " - " + seo.SiteTitle
	}

	m.Description = page.Meta.Description
	if m.Description == "" {
		m.Description = seo.MetaDescription
	}
	m.Keywords = strings.Join(page.Meta.Keywords, ", ")

	m.OGTitle = m.Title
	m.OGDescription = m.Description
	m.OGImage = page.Meta.OGImage
	if m.OGImage == "" {
		m.OGImage = seo.OGImage
	}
	if m.OGImage == "" {
		m.OGImage = site.DefaultImage
	}

	if site.SiteURL != "" {
		m.Canonical = strings.TrimSuffix(site.SiteURL, "/") + "/" + page.Slug
	}

	if page.Meta.NoIndex {
		m.Robots = "noindex,nofollow"
	} else if seo.RobotsPolicy != "" {
		m.Robots = seo.RobotsPolicy
	}

	return m
}

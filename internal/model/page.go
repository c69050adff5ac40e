// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Page, Section, Revision, User and the theme
// customization structures.
package model

import (
	"time"
)

// Page statuses
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// PageMeta holds per-page SEO metadata.
type PageMeta struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	OGImage     string   `json:"og_image,omitempty"`
	NoIndex     bool     `json:"no_index,omitempty"`
}

// PageSettings holds per-page behavior options.
type PageSettings struct {
	RequiresAuth bool     `json:"requires_auth,omitempty"`
	Layout       string   `json:"layout,omitempty"` // default, full, sidebar
	Theme        string   `json:"theme,omitempty"`  // light, dark
	CustomCSS    string   `json:"custom_css,omitempty"`
	Scripts      []string `json:"scripts,omitempty"`
}

// Page is the persisted unit of the page builder. Sections order is the
// sole source of render order. Version increments on every successful
// update and backs the optimistic compare-and-swap in the save pipeline.
type Page struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	Status      string        `json:"status"`
	Sections    []Section     `json:"sections"`
	Meta        PageMeta      `json:"meta"`
	Settings    PageSettings  `json:"settings"`
	Theme       *Theme        `json:"theme,omitempty"`
	Version     int64         `json:"version"`
	AuthorID    int64         `json:"author_id"`
	PublishAt   *time.Time    `json:"publish_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// IsDraft returns true if the page is a draft.
func (p *Page) IsDraft() bool {
	return p.Status == PageStatusDraft
}

// SectionByID returns the section with the given id, or nil.
func (p *Page) SectionByID(id string) *Section {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			return &p.Sections[i]
		}
	}
	return nil
}

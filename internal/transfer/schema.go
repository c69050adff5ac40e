// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer moves site content in and out as a single JSON
// document: pages with their section trees, research projects with
// publications and milestones, blog posts, products, users, the site
// theme and config. Cross-references travel as emails and slugs, never
// as database ids, so a document imports cleanly into a fresh site.
package transfer

import (
	"time"

	"github.com/rcmslabs/rcms/internal/model"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData is the complete export document.
type ExportData struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Site       ExportSite        `json:"site"`
	Theme      *model.Theme      `json:"theme,omitempty"`
	Users      []ExportUser      `json:"users,omitempty"`
	Pages      []ExportPage      `json:"pages,omitempty"`
	Projects   []ExportProject   `json:"projects,omitempty"`
	BlogPosts  []ExportBlogPost  `json:"blog_posts,omitempty"`
	Products   []ExportProduct   `json:"products,omitempty"`
	Config     map[string]string `json:"config,omitempty"`
}

// ExportSite carries basic site information.
type ExportSite struct {
	Name string `json:"name,omitempty"`
}

// ExportUser is a user without credentials. Imported accounts get a
// random password and must be reset by an admin.
type ExportUser struct {
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportPage is a page with its full section tree. The author travels
// by email.
type ExportPage struct {
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status"`
	Sections    []model.Section    `json:"sections"`
	Meta        model.PageMeta     `json:"meta"`
	Settings    model.PageSettings `json:"settings"`
	Theme       *model.Theme       `json:"theme,omitempty"`
	AuthorEmail string             `json:"author_email,omitempty"`
	PublishAt   *time.Time         `json:"publish_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ExportProject is a research project with its nested publications and
// milestones. The lead travels by email.
type ExportProject struct {
	Title        string              `json:"title"`
	Slug         string              `json:"slug"`
	Summary      string              `json:"summary,omitempty"`
	Body         string              `json:"body,omitempty"`
	Status       string              `json:"status"`
	Tags         []string            `json:"tags,omitempty"`
	LeadEmail    string              `json:"lead_email,omitempty"`
	StartedAt    *time.Time          `json:"started_at,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	Publications []ExportPublication `json:"publications,omitempty"`
	Milestones   []ExportMilestone   `json:"milestones,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ExportPublication is one publication entry.
type ExportPublication struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Venue   string `json:"venue,omitempty"`
	Year    int64  `json:"year"`
	DOI     string `json:"doi,omitempty"`
	URL     string `json:"url,omitempty"`
}

// ExportMilestone is one milestone entry.
type ExportMilestone struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Done        bool       `json:"done"`
}

// ExportBlogPost is a blog post. The author travels by email.
type ExportBlogPost struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	AuthorEmail string     `json:"author_email,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ExportProduct is one product entry.
type ExportProduct struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	LinkURL     string `json:"link_url,omitempty"`
	Published   bool   `json:"published"`
	Position    int64  `json:"position"`
}

// ExportOptions selects which entity groups to export.
type ExportOptions struct {
	IncludeUsers    bool
	IncludePages    bool
	IncludeResearch bool
	IncludeBlog     bool
	IncludeProducts bool
	IncludeTheme    bool
	IncludeConfig   bool
}

// FullExport selects everything.
func FullExport() ExportOptions {
	return ExportOptions{
		IncludeUsers:    true,
		IncludePages:    true,
		IncludeResearch: true,
		IncludeBlog:     true,
		IncludeProducts: true,
		IncludeTheme:    true,
		IncludeConfig:   true,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	// DryRun validates and counts without writing anything.
	DryRun bool
	// SkipExisting skips records whose slug or email is already taken
	// instead of reporting an error.
	SkipExisting bool
}

// ImportError describes one rejected record.
type ImportError struct {
	Entity  string `json:"entity"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ImportResult summarizes an import run.
type ImportResult struct {
	DryRun   bool           `json:"dry_run"`
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
	Errors   []ImportError  `json:"errors,omitempty"`
}

// NewImportResult creates an empty result.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		DryRun:   dryRun,
		Imported: make(map[string]int),
		Skipped:  make(map[string]int),
	}
}

func (r *ImportResult) addError(entity, key, message string) {
	r.Errors = append(r.Errors, ImportError{Entity: entity, Key: key, Message: message})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package site serves the crawler-facing endpoints at the server root:
// sitemap.xml, robots.txt and security.txt.
package site

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/seo"
	"github.com/rcmslabs/rcms/internal/store"
)

const sitemapPageLimit = 5000

// Handler serves the root SEO endpoints.
type Handler struct {
	queries         *store.Queries
	logger          *slog.Logger
	siteURL         string
	securityContact string
	disallowAll     bool
}

// Config configures the site handler.
type Config struct {
	DB              *sql.DB
	Logger          *slog.Logger
	SiteURL         string
	SecurityContact string
	// DisallowAll blocks all crawlers; set on non-production sites.
	DisallowAll bool
}

// NewHandler creates the site handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		queries:         store.New(cfg.DB),
		logger:          cfg.Logger,
		siteURL:         strings.TrimSuffix(cfg.SiteURL, "/"),
		securityContact: cfg.SecurityContact,
		disallowAll:     cfg.DisallowAll,
	}
}

// Sitemap serves sitemap.xml built from all published content.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b := seo.NewSitemapBuilder(h.siteURL)
	b.AddHomepage()

	pages, err := h.queries.ListPagesByStatus(ctx, store.ListPagesByStatusParams{
		Status: model.PageStatusPublished,
		Limit:  sitemapPageLimit,
	})
	if err != nil {
		h.logger.Error("sitemap: listing pages", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	entries := make([]seo.Entry, 0, len(pages))
	for _, p := range pages {
		// Pages behind auth stay out of the sitemap.
		if p.Settings.RequiresAuth || p.Meta.NoIndex {
			continue
		}
		entries = append(entries, seo.Entry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	b.AddPages(entries)

	projects, err := h.queries.ListProjects(ctx)
	if err != nil {
		h.logger.Error("sitemap: listing projects", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	entries = entries[:0]
	for _, p := range projects {
		if p.Status == model.ProjectStatusArchived {
			continue
		}
		entries = append(entries, seo.Entry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	b.AddProjects(entries)

	posts, err := h.queries.ListBlogPosts(ctx, store.ListBlogPostsParams{
		Status: model.PageStatusPublished,
		Limit:  sitemapPageLimit,
	})
	if err != nil {
		h.logger.Error("sitemap: listing blog posts", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	entries = entries[:0]
	for _, p := range posts {
		entries = append(entries, seo.Entry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	b.AddBlogPosts(entries)

	out, err := b.Build()
	if err != nil {
		h.logger.Error("sitemap: building xml", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// Robots serves robots.txt.
func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	out := seo.GenerateRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: h.disallowAll,
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// SecurityTxt serves /.well-known/security.txt when a contact is
// configured, 404 otherwise.
func (h *Handler) SecurityTxt(w http.ResponseWriter, r *http.Request) {
	if h.securityContact == "" {
		http.NotFound(w, r)
		return
	}
	out := seo.GenerateSecurityTxt(seo.SecurityTxtConfig{
		Contact:   []string{h.securityContact},
		Canonical: h.siteURL + "/.well-known/security.txt",
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

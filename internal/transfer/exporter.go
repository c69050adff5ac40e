// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
)

// exportPageBatch pages through the page table in chunks.
const exportPageBatch = 500

// Exporter builds an ExportData document from the live database.
type Exporter struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewExporter creates an Exporter.
func NewExporter(queries *store.Queries, logger *slog.Logger) *Exporter {
	return &Exporter{queries: queries, logger: logger}
}

// Export assembles the export document per the options.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
	}

	siteName, err := e.queries.GetConfig(ctx, store.ConfigKeySiteName)
	if err != nil {
		return nil, err
	}
	data.Site.Name = siteName

	// id -> email map for author and lead references.
	emailByID, err := e.userEmails(ctx)
	if err != nil {
		return nil, err
	}

	if opts.IncludeUsers {
		if err := e.exportUsers(ctx, data); err != nil {
			return nil, err
		}
	}
	if opts.IncludePages {
		if err := e.exportPages(ctx, data, emailByID); err != nil {
			return nil, err
		}
	}
	if opts.IncludeResearch {
		if err := e.exportProjects(ctx, data, emailByID); err != nil {
			return nil, err
		}
	}
	if opts.IncludeBlog {
		if err := e.exportBlogPosts(ctx, data, emailByID); err != nil {
			return nil, err
		}
	}
	if opts.IncludeProducts {
		if err := e.exportProducts(ctx, data); err != nil {
			return nil, err
		}
	}
	if opts.IncludeTheme {
		if err := e.exportTheme(ctx, data); err != nil {
			return nil, err
		}
	}
	if opts.IncludeConfig {
		if err := e.exportConfig(ctx, data); err != nil {
			return nil, err
		}
	}

	e.logger.Info("export assembled",
		"users", len(data.Users),
		"pages", len(data.Pages),
		"projects", len(data.Projects),
		"blog_posts", len(data.BlogPosts),
		"products", len(data.Products),
	)
	return data, nil
}

func (e *Exporter) userEmails(ctx context.Context) (map[int64]string, error) {
	users, err := e.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users for export: %w", err)
	}
	m := make(map[int64]string, len(users))
	for _, u := range users {
		m[u.ID] = u.Email
	}
	return m, nil
}

func (e *Exporter) exportUsers(ctx context.Context, data *ExportData) error {
	users, err := e.queries.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		data.Users = append(data.Users, ExportUser{
			Email:     u.Email,
			FullName:  u.FullName,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	return nil
}

func (e *Exporter) exportPages(ctx context.Context, data *ExportData, emailByID map[int64]string) error {
	for offset := int64(0); ; offset += exportPageBatch {
		pages, err := e.queries.ListPages(ctx, store.ListPagesParams{
			Limit:  exportPageBatch,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		for _, p := range pages {
			data.Pages = append(data.Pages, ExportPage{
				Title:       p.Title,
				Slug:        p.Slug,
				Description: p.Description,
				Status:      p.Status,
				Sections:    p.Sections,
				Meta:        p.Meta,
				Settings:    p.Settings,
				Theme:       p.Theme,
				AuthorEmail: emailByID[p.AuthorID],
				PublishAt:   p.PublishAt,
				CreatedAt:   p.CreatedAt,
				UpdatedAt:   p.UpdatedAt,
			})
		}
		if int64(len(pages)) < exportPageBatch {
			return nil
		}
	}
}

func (e *Exporter) exportProjects(ctx context.Context, data *ExportData, emailByID map[int64]string) error {
	projects, err := e.queries.ListProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		out := ExportProject{
			Title:       p.Title,
			Slug:        p.Slug,
			Summary:     p.Summary,
			Body:        p.Body,
			Status:      p.Status,
			Tags:        p.Tags,
			LeadEmail:   emailByID[p.LeadID],
			StartedAt:   timePtr(p.StartedAt),
			CompletedAt: timePtr(p.CompletedAt),
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}

		pubs, err := e.queries.ListPublicationsByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, pub := range pubs {
			out.Publications = append(out.Publications, ExportPublication{
				Title:   pub.Title,
				Authors: pub.Authors,
				Venue:   pub.Venue,
				Year:    pub.Year,
				DOI:     pub.DOI,
				URL:     pub.URL,
			})
		}

		milestones, err := e.queries.ListMilestonesByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, m := range milestones {
			out.Milestones = append(out.Milestones, ExportMilestone{
				Title:       m.Title,
				Description: m.Description,
				DueAt:       timePtr(m.DueAt),
				Done:        m.Done,
			})
		}

		data.Projects = append(data.Projects, out)
	}
	return nil
}

func (e *Exporter) exportBlogPosts(ctx context.Context, data *ExportData, emailByID map[int64]string) error {
	posts, err := e.queries.ListBlogPosts(ctx, store.ListBlogPostsParams{Limit: exportPageBatch * 10, Offset: 0})
	if err != nil {
		return err
	}
	for _, p := range posts {
		data.BlogPosts = append(data.BlogPosts, ExportBlogPost{
			Title:       p.Title,
			Slug:        p.Slug,
			Excerpt:     p.Excerpt,
			Body:        p.Body,
			Status:      p.Status,
			AuthorEmail: emailByID[p.AuthorID],
			PublishedAt: timePtr(p.PublishedAt),
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return nil
}

func (e *Exporter) exportProducts(ctx context.Context, data *ExportData) error {
	products, err := e.queries.ListProducts(ctx, false)
	if err != nil {
		return err
	}
	for _, p := range products {
		data.Products = append(data.Products, ExportProduct{
			Name:        p.Name,
			Slug:        p.Slug,
			Tagline:     p.Tagline,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			LinkURL:     p.LinkURL,
			Published:   p.Published,
			Position:    p.Position,
		})
	}
	return nil
}

func (e *Exporter) exportTheme(ctx context.Context, data *ExportData) error {
	stored, err := e.queries.GetConfig(ctx, store.ConfigKeySiteTheme)
	if err != nil {
		return err
	}
	if stored == "" {
		return nil
	}
	var t model.Theme
	if err := unmarshalTheme(stored, &t); err != nil {
		e.logger.Warn("stored theme not exportable", "error", err)
		return nil
	}
	data.Theme = &t
	return nil
}

func (e *Exporter) exportConfig(ctx context.Context, data *ExportData) error {
	cfg, err := e.queries.ListConfig(ctx)
	if err != nil {
		return err
	}
	// The theme travels in its own field.
	delete(cfg, store.ConfigKeySiteTheme)
	if len(cfg) > 0 {
		data.Config = cfg
	}
	return nil
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

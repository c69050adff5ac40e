// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rcmslabs/rcms/internal/auth"
	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
)

// Importer writes an ExportData document into the database. All writes
// happen inside a single transaction; a dry run only validates and
// counts.
type Importer struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(db *sql.DB, logger *slog.Logger) *Importer {
	return &Importer{db: db, logger: logger}
}

// Import applies the document. actorID is the importing user; content
// whose author email does not resolve is attributed to them.
func (im *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions, actorID int64) (*ImportResult, error) {
	if data == nil {
		return nil, errors.New("import: nil document")
	}
	if data.Version != ExportVersion {
		return nil, fmt.Errorf("import: unsupported format version %q", data.Version)
	}

	result := NewImportResult(opts.DryRun)

	var (
		tx  *sql.Tx
		q   *store.Queries
		err error
	)
	if opts.DryRun {
		q = store.New(im.db)
	} else {
		tx, err = im.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()
		q = store.New(im.db).WithTx(tx)
	}

	run := &importRun{
		queries: q,
		opts:    opts,
		result:  result,
		actorID: actorID,
		now:     time.Now().UTC(),
	}

	if err := run.resolveExistingUsers(ctx); err != nil {
		return nil, err
	}
	if err := run.importUsers(ctx, data.Users); err != nil {
		return nil, err
	}
	if err := run.importPages(ctx, data.Pages); err != nil {
		return nil, err
	}
	if err := run.importProjects(ctx, data.Projects); err != nil {
		return nil, err
	}
	if err := run.importBlogPosts(ctx, data.BlogPosts); err != nil {
		return nil, err
	}
	if err := run.importProducts(ctx, data.Products); err != nil {
		return nil, err
	}
	if err := run.importSite(ctx, data); err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}

	im.logger.Info("import finished",
		"dry_run", opts.DryRun,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

// importRun carries the state of one import pass.
type importRun struct {
	queries *store.Queries
	opts    ImportOptions
	result  *ImportResult
	actorID int64
	now     time.Time

	// userIDs maps email to id for existing and freshly imported users.
	// During a dry run imported users map to the actor id.
	userIDs map[string]int64
}

func (r *importRun) resolveExistingUsers(ctx context.Context) error {
	users, err := r.queries.ListUsers(ctx)
	if err != nil {
		return err
	}
	r.userIDs = make(map[string]int64, len(users))
	for _, u := range users {
		r.userIDs[u.Email] = u.ID
	}
	return nil
}

// resolveAuthor maps an exported email to a local user, falling back to
// the importing user for unattributed or unknown authors.
func (r *importRun) resolveAuthor(email string) int64 {
	if id, ok := r.userIDs[email]; ok && id > 0 {
		return id
	}
	return r.actorID
}

func (r *importRun) importUsers(ctx context.Context, users []ExportUser) error {
	for _, u := range users {
		if u.Email == "" {
			r.result.addError("user", u.Email, "email is required")
			continue
		}
		if !model.IsValidRole(u.Role) {
			r.result.addError("user", u.Email, "unknown role "+u.Role)
			continue
		}
		if _, exists := r.userIDs[u.Email]; exists {
			if r.opts.SkipExisting {
				r.result.Skipped["users"]++
				continue
			}
			r.result.addError("user", u.Email, "email already taken")
			continue
		}

		if r.opts.DryRun {
			r.userIDs[u.Email] = r.actorID
			r.result.Imported["users"]++
			continue
		}

		// Imported accounts get an unguessable throwaway password; an
		// admin has to reset it before the account is usable.
		hash, err := auth.HashPassword(uuid.NewString())
		if err != nil {
			return err
		}
		created, err := r.queries.CreateUser(ctx, store.CreateUserParams{
			Email:        u.Email,
			PasswordHash: hash,
			FullName:     u.FullName,
			Role:         u.Role,
			CreatedAt:    r.now,
			UpdatedAt:    r.now,
		})
		if err != nil {
			return fmt.Errorf("importing user %s: %w", u.Email, err)
		}
		r.userIDs[u.Email] = created.ID
		r.result.Imported["users"]++
	}
	return nil
}

func (r *importRun) importPages(ctx context.Context, pages []ExportPage) error {
	for _, p := range pages {
		if p.Slug == "" || p.Title == "" {
			r.result.addError("page", p.Slug, "title and slug are required")
			continue
		}
		exists, err := r.queries.PageSlugExists(ctx, store.PageSlugExistsParams{Slug: p.Slug})
		if err != nil {
			return err
		}
		if exists {
			if r.opts.SkipExisting {
				r.result.Skipped["pages"]++
				continue
			}
			r.result.addError("page", p.Slug, "slug already taken")
			continue
		}
		if r.opts.DryRun {
			r.result.Imported["pages"]++
			continue
		}

		if _, err := r.queries.CreatePage(ctx, store.CreatePageParams{
			Title:       p.Title,
			Slug:        p.Slug,
			Description: p.Description,
			Status:      p.Status,
			Sections:    p.Sections,
			Meta:        p.Meta,
			Settings:    p.Settings,
			Theme:       p.Theme,
			AuthorID:    r.resolveAuthor(p.AuthorEmail),
			PublishAt:   p.PublishAt,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   r.now,
		}); err != nil {
			return fmt.Errorf("importing page %s: %w", p.Slug, err)
		}
		r.result.Imported["pages"]++
	}
	return nil
}

func (r *importRun) importProjects(ctx context.Context, projects []ExportProject) error {
	for _, p := range projects {
		if p.Slug == "" || p.Title == "" {
			r.result.addError("project", p.Slug, "title and slug are required")
			continue
		}
		_, err := r.queries.GetProjectBySlug(ctx, p.Slug)
		switch {
		case err == nil:
			if r.opts.SkipExisting {
				r.result.Skipped["projects"]++
				continue
			}
			r.result.addError("project", p.Slug, "slug already taken")
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
		if r.opts.DryRun {
			r.result.Imported["projects"]++
			continue
		}

		created, err := r.queries.CreateProject(ctx, store.CreateProjectParams{
			Title:     p.Title,
			Slug:      p.Slug,
			Summary:   p.Summary,
			Body:      p.Body,
			Status:    p.Status,
			LeadID:    r.resolveAuthor(p.LeadEmail),
			Tags:      p.Tags,
			StartedAt: nullTime(p.StartedAt),
			CreatedAt: p.CreatedAt,
			UpdatedAt: r.now,
		})
		if err != nil {
			return fmt.Errorf("importing project %s: %w", p.Slug, err)
		}
		if p.CompletedAt != nil {
			if err := r.queries.UpdateProject(ctx, store.UpdateProjectParams{
				ID:          created.ID,
				Title:       created.Title,
				Slug:        created.Slug,
				Summary:     created.Summary,
				Body:        created.Body,
				Status:      created.Status,
				Tags:        created.Tags,
				StartedAt:   created.StartedAt,
				CompletedAt: nullTime(p.CompletedAt),
				UpdatedAt:   r.now,
			}); err != nil {
				return fmt.Errorf("importing project %s: %w", p.Slug, err)
			}
		}

		for _, pub := range p.Publications {
			if _, err := r.queries.CreatePublication(ctx, store.CreatePublicationParams{
				ProjectID: created.ID,
				Title:     pub.Title,
				Authors:   pub.Authors,
				Venue:     pub.Venue,
				Year:      pub.Year,
				DOI:       pub.DOI,
				URL:       pub.URL,
				CreatedAt: r.now,
				UpdatedAt: r.now,
			}); err != nil {
				return fmt.Errorf("importing publication %q: %w", pub.Title, err)
			}
			r.result.Imported["publications"]++
		}
		for _, m := range p.Milestones {
			ms, err := r.queries.CreateMilestone(ctx, store.CreateMilestoneParams{
				ProjectID:   created.ID,
				Title:       m.Title,
				Description: m.Description,
				DueAt:       nullTime(m.DueAt),
				CreatedAt:   r.now,
				UpdatedAt:   r.now,
			})
			if err != nil {
				return fmt.Errorf("importing milestone %q: %w", m.Title, err)
			}
			if m.Done {
				if err := r.queries.UpdateMilestone(ctx, store.UpdateMilestoneParams{
					ID:          ms.ID,
					Title:       ms.Title,
					Description: ms.Description,
					DueAt:       ms.DueAt,
					Done:        true,
					UpdatedAt:   r.now,
				}); err != nil {
					return fmt.Errorf("importing milestone %q: %w", m.Title, err)
				}
			}
			r.result.Imported["milestones"]++
		}
		r.result.Imported["projects"]++
	}
	return nil
}

func (r *importRun) importBlogPosts(ctx context.Context, posts []ExportBlogPost) error {
	for _, p := range posts {
		if p.Slug == "" || p.Title == "" {
			r.result.addError("blog_post", p.Slug, "title and slug are required")
			continue
		}
		_, err := r.queries.GetBlogPostBySlug(ctx, p.Slug)
		switch {
		case err == nil:
			if r.opts.SkipExisting {
				r.result.Skipped["blog_posts"]++
				continue
			}
			r.result.addError("blog_post", p.Slug, "slug already taken")
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
		if r.opts.DryRun {
			r.result.Imported["blog_posts"]++
			continue
		}

		created, err := r.queries.CreateBlogPost(ctx, store.CreateBlogPostParams{
			Title:     p.Title,
			Slug:      p.Slug,
			Excerpt:   p.Excerpt,
			Body:      p.Body,
			Status:    p.Status,
			AuthorID:  r.resolveAuthor(p.AuthorEmail),
			CreatedAt: p.CreatedAt,
			UpdatedAt: r.now,
		})
		if err != nil {
			return fmt.Errorf("importing blog post %s: %w", p.Slug, err)
		}
		if p.PublishedAt != nil {
			if err := r.queries.UpdateBlogPost(ctx, store.UpdateBlogPostParams{
				ID:          created.ID,
				Title:       created.Title,
				Slug:        created.Slug,
				Excerpt:     created.Excerpt,
				Body:        created.Body,
				Status:      created.Status,
				PublishedAt: nullTime(p.PublishedAt),
				UpdatedAt:   r.now,
			}); err != nil {
				return fmt.Errorf("importing blog post %s: %w", p.Slug, err)
			}
		}
		r.result.Imported["blog_posts"]++
	}
	return nil
}

func (r *importRun) importProducts(ctx context.Context, products []ExportProduct) error {
	for _, p := range products {
		if p.Slug == "" || p.Name == "" {
			r.result.addError("product", p.Slug, "name and slug are required")
			continue
		}
		_, err := r.queries.GetProductBySlug(ctx, p.Slug)
		switch {
		case err == nil:
			if r.opts.SkipExisting {
				r.result.Skipped["products"]++
				continue
			}
			r.result.addError("product", p.Slug, "slug already taken")
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
		if r.opts.DryRun {
			r.result.Imported["products"]++
			continue
		}

		if _, err := r.queries.CreateProduct(ctx, store.CreateProductParams{
			Name:        p.Name,
			Slug:        p.Slug,
			Tagline:     p.Tagline,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			LinkURL:     p.LinkURL,
			Published:   p.Published,
			Position:    p.Position,
			CreatedAt:   r.now,
			UpdatedAt:   r.now,
		}); err != nil {
			return fmt.Errorf("importing product %s: %w", p.Slug, err)
		}
		r.result.Imported["products"]++
	}
	return nil
}

func (r *importRun) importSite(ctx context.Context, data *ExportData) error {
	if r.opts.DryRun {
		return nil
	}
	if data.Site.Name != "" {
		if err := r.queries.SetConfig(ctx, store.ConfigKeySiteName, data.Site.Name); err != nil {
			return err
		}
	}
	if data.Theme != nil {
		raw, err := json.Marshal(data.Theme)
		if err != nil {
			return fmt.Errorf("encoding imported theme: %w", err)
		}
		if err := r.queries.SetConfig(ctx, store.ConfigKeySiteTheme, string(raw)); err != nil {
			return err
		}
	}
	for key, value := range data.Config {
		if err := r.queries.SetConfig(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func unmarshalTheme(data string, t *model.Theme) error {
	return json.Unmarshal([]byte(data), t)
}

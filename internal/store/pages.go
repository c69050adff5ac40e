// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
)

const pageColumns = `id, title, slug, description, status, sections, meta,
	settings, theme, version, author_id, publish_at, created_at, updated_at`

// scanPage reads one page row, decoding the JSON columns into the model.
func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var (
		p                        model.Page
		sections, meta, settings string
		theme                    sql.NullString
		publishAt                sql.NullTime
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Status,
		&sections, &meta, &settings, &theme, &p.Version, &p.AuthorID,
		&publishAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Page{}, err
	}

	if err := unmarshalJSON(sections, &p.Sections); err != nil {
		return model.Page{}, fmt.Errorf("page %d sections: %w", p.ID, err)
	}
	if err := unmarshalJSON(meta, &p.Meta); err != nil {
		return model.Page{}, fmt.Errorf("page %d meta: %w", p.ID, err)
	}
	if err := unmarshalJSON(settings, &p.Settings); err != nil {
		return model.Page{}, fmt.Errorf("page %d settings: %w", p.ID, err)
	}
	if theme.Valid && theme.String != "" {
		var t model.Theme
		if err := unmarshalJSON(theme.String, &t); err != nil {
			return model.Page{}, fmt.Errorf("page %d theme: %w", p.ID, err)
		}
		p.Theme = &t
	}
	if publishAt.Valid {
		t := publishAt.Time
		p.PublishAt = &t
	}
	if p.Sections == nil {
		p.Sections = []model.Section{}
	}
	return p, nil
}

// pageJSONColumns encodes the page's JSON column values.
func pageJSONColumns(p model.Page) (sections, meta, settings string, theme sql.NullString, err error) {
	if p.Sections == nil {
		p.Sections = []model.Section{}
	}
	if sections, err = marshalJSON(p.Sections); err != nil {
		return
	}
	if meta, err = marshalJSON(p.Meta); err != nil {
		return
	}
	if settings, err = marshalJSON(p.Settings); err != nil {
		return
	}
	if p.Theme != nil {
		var s string
		if s, err = marshalJSON(p.Theme); err != nil {
			return
		}
		theme = sql.NullString{String: s, Valid: true}
	}
	return
}

// CreatePageParams holds the inputs for CreatePage.
type CreatePageParams struct {
	Title       string
	Slug        string
	Description string
	Status      string
	Sections    []model.Section
	Meta        model.PageMeta
	Settings    model.PageSettings
	Theme       *model.Theme
	AuthorID    int64
	PublishAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePage inserts a new page with version 1 and returns it.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	sections, meta, settings, theme, err := pageJSONColumns(model.Page{
		Sections: arg.Sections, Meta: arg.Meta, Settings: arg.Settings, Theme: arg.Theme,
	})
	if err != nil {
		return model.Page{}, err
	}

	var publishAt sql.NullTime
	if arg.PublishAt != nil {
		publishAt = sql.NullTime{Time: *arg.PublishAt, Valid: true}
	}

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO pages (title, slug, description, status, sections, meta,
			settings, theme, version, author_id, publish_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Description, arg.Status, sections, meta,
		settings, theme, arg.AuthorID, publishAt, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Page{}, fmt.Errorf("creating page: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Page{}, err
	}
	return q.GetPageByID(ctx, id)
}

// GetPageByID returns a page by primary key.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// GetPageBySlug returns a page by its slug regardless of status.
func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug)
	return scanPage(row)
}

// GetPublishedPageBySlug returns a published page by slug.
func (q *Queries) GetPublishedPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ? AND status = 'published'`, slug)
	return scanPage(row)
}

// ListPagesParams holds pagination inputs for ListPages.
type ListPagesParams struct {
	Limit  int64
	Offset int64
}

// ListPages returns pages ordered by most recently updated.
func (q *Queries) ListPages(ctx context.Context, arg ListPagesParams) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY updated_at DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// ListPagesByStatusParams holds inputs for ListPagesByStatus.
type ListPagesByStatusParams struct {
	Status string
	Limit  int64
	Offset int64
}

// ListPagesByStatus returns pages with the given status.
func (q *Queries) ListPagesByStatus(ctx context.Context, arg ListPagesByStatusParams) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE status = ? ORDER BY updated_at DESC LIMIT ? OFFSET ?`,
		arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing pages by status: %w", err)
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// CountPages returns the total number of pages.
func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n)
	return n, err
}

// CountPagesByStatus returns the number of pages with the given status.
func (q *Queries) CountPagesByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE status = ?`, status).Scan(&n)
	return n, err
}

// UpdatePageParams holds the inputs for UpdatePage. Version is the value
// the editor last loaded; the update only applies if it still matches.
type UpdatePageParams struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	Status      string
	Sections    []model.Section
	Meta        model.PageMeta
	Settings    model.PageSettings
	Theme       *model.Theme
	PublishAt   *time.Time
	Version     int64
	UpdatedAt   time.Time
}

// UpdatePage applies a compare-and-swap update on the page row,
// incrementing version. It reports whether a row matched; a false return
// with no error means the stored version had already advanced.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (bool, error) {
	sections, meta, settings, theme, err := pageJSONColumns(model.Page{
		Sections: arg.Sections, Meta: arg.Meta, Settings: arg.Settings, Theme: arg.Theme,
	})
	if err != nil {
		return false, err
	}

	var publishAt sql.NullTime
	if arg.PublishAt != nil {
		publishAt = sql.NullTime{Time: *arg.PublishAt, Valid: true}
	}

	res, err := q.db.ExecContext(ctx, `
		UPDATE pages
		SET title = ?, slug = ?, description = ?, status = ?, sections = ?,
			meta = ?, settings = ?, theme = ?, publish_at = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		arg.Title, arg.Slug, arg.Description, arg.Status, sections,
		meta, settings, theme, publishAt, arg.UpdatedAt, arg.ID, arg.Version)
	if err != nil {
		return false, fmt.Errorf("updating page: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdatePageStatusParams holds inputs for UpdatePageStatus.
type UpdatePageStatusParams struct {
	ID        int64
	Status    string
	UpdatedAt time.Time
}

// UpdatePageStatus transitions a page's status without touching content.
// Status-only transitions bump the version too, so editors holding a
// stale copy get a conflict instead of silently unpublishing work.
func (q *Queries) UpdatePageStatus(ctx context.Context, arg UpdatePageStatusParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE pages SET status = ?, version = version + 1, updated_at = ? WHERE id = ?`,
		arg.Status, arg.UpdatedAt, arg.ID)
	if err != nil {
		return fmt.Errorf("updating page status: %w", err)
	}
	return nil
}

// DeletePage removes a page; revisions cascade at the schema level.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	return nil
}

// PageSlugExistsParams holds inputs for PageSlugExists.
type PageSlugExistsParams struct {
	Slug      string
	ExcludeID int64
}

// PageSlugExists reports whether another page already uses the slug.
func (q *Queries) PageSlugExists(ctx context.Context, arg PageSlugExistsParams) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages WHERE slug = ? AND id != ?`,
		arg.Slug, arg.ExcludeID).Scan(&n)
	return n > 0, err
}

// ListScheduledPages returns draft pages whose publish_at has passed.
func (q *Queries) ListScheduledPages(ctx context.Context, now time.Time) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages
		 WHERE status = 'draft' AND publish_at IS NOT NULL AND publish_at <= ?`, now)
	if err != nil {
		return nil, fmt.Errorf("listing scheduled pages: %w", err)
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

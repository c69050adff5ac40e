// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
)

const templateColumns = `id, name, slug, description, sections, settings,
	created_by, created_at, updated_at`

// scanTemplate reads one page template row.
func scanTemplate(row interface{ Scan(...any) error }) (model.PageTemplate, error) {
	var (
		t                  model.PageTemplate
		sections, settings string
	)
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &sections,
		&settings, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.PageTemplate{}, err
	}

	if err := unmarshalJSON(sections, &t.Sections); err != nil {
		return model.PageTemplate{}, fmt.Errorf("template %d sections: %w", t.ID, err)
	}
	if err := unmarshalJSON(settings, &t.Settings); err != nil {
		return model.PageTemplate{}, fmt.Errorf("template %d settings: %w", t.ID, err)
	}
	if t.Sections == nil {
		t.Sections = []model.Section{}
	}
	return t, nil
}

// CreateTemplateParams holds the inputs for CreateTemplate.
type CreateTemplateParams struct {
	Name        string
	Slug        string
	Description string
	Sections    []model.Section
	Settings    model.PageSettings
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTemplate inserts a new page template and returns it.
func (q *Queries) CreateTemplate(ctx context.Context, arg CreateTemplateParams) (model.PageTemplate, error) {
	if arg.Sections == nil {
		arg.Sections = []model.Section{}
	}
	sections, err := marshalJSON(arg.Sections)
	if err != nil {
		return model.PageTemplate{}, err
	}
	settings, err := marshalJSON(arg.Settings)
	if err != nil {
		return model.PageTemplate{}, err
	}

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO page_templates (name, slug, description, sections, settings,
			created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Slug, arg.Description, sections, settings,
		arg.CreatedBy, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.PageTemplate{}, fmt.Errorf("creating template: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.PageTemplate{}, err
	}
	return q.GetTemplateByID(ctx, id)
}

// GetTemplateByID returns a page template by primary key.
func (q *Queries) GetTemplateByID(ctx context.Context, id int64) (model.PageTemplate, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM page_templates WHERE id = ?`, id)
	return scanTemplate(row)
}

// ListTemplates returns all page templates ordered by name.
func (q *Queries) ListTemplates(ctx context.Context) ([]model.PageTemplate, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM page_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var templates []model.PageTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// DeleteTemplate removes a page template.
func (q *Queries) DeleteTemplate(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM page_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return nil
}

// TemplateSlugExists reports whether a template already uses the slug.
func (q *Queries) TemplateSlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_templates WHERE slug = ?`, slug).Scan(&n)
	return n > 0, err
}

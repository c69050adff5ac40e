// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/util"
)

// TemplateInput holds the editable fields of a page template.
type TemplateInput struct {
	Name        string
	Slug        string
	Description string
	Sections    []model.Section
	Settings    model.PageSettings
}

// CreateTemplate stores a reusable section-list blueprint, typically
// captured from an existing page.
func (s *PageService) CreateTemplate(ctx context.Context, in TemplateInput, actorID int64) (model.PageTemplate, error) {
	if in.Name == "" {
		return model.PageTemplate{}, newValidationError("name", "must not be empty")
	}
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Name)
	}
	if !util.IsValidSlug(in.Slug) {
		return model.PageTemplate{}, newValidationError("slug", "must contain only lowercase letters, digits and single hyphens")
	}
	exists, err := s.queries.TemplateSlugExists(ctx, in.Slug)
	if err != nil {
		return model.PageTemplate{}, fmt.Errorf("checking template slug: %w", err)
	}
	if exists {
		return model.PageTemplate{}, newValidationError("slug", "is already in use")
	}

	now := time.Now().UTC()
	tpl, err := s.queries.CreateTemplate(ctx, store.CreateTemplateParams{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Sections:    in.Sections,
		Settings:    in.Settings,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.PageTemplate{}, err
	}

	_ = s.events.LogPageEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Page template created: %s", tpl.Slug), &actorID,
		map[string]any{"template_id": tpl.ID})
	return tpl, nil
}

// ListTemplates returns all page templates.
func (s *PageService) ListTemplates(ctx context.Context) ([]model.PageTemplate, error) {
	return s.queries.ListTemplates(ctx)
}

// GetTemplate returns one page template.
func (s *PageService) GetTemplate(ctx context.Context, id int64) (model.PageTemplate, error) {
	tpl, err := s.queries.GetTemplateByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PageTemplate{}, newNotFoundError("template", fmt.Sprint(id))
	}
	return tpl, err
}

// DeleteTemplate removes a page template. Pages created from it are
// untouched; templates are copied, never referenced.
func (s *PageService) DeleteTemplate(ctx context.Context, id, actorID int64) error {
	tpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	if err := s.queries.DeleteTemplate(ctx, id); err != nil {
		return err
	}

	_ = s.events.LogPageEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Page template deleted: %s", tpl.Slug), &actorID,
		map[string]any{"template_id": id})
	return nil
}

// CreateFromTemplate creates a new draft page seeded with a template's
// sections and settings. Section ids are regenerated so two pages made
// from the same template never share ids.
func (s *PageService) CreateFromTemplate(ctx context.Context, templateID int64, in PageInput, authorID int64) (model.Page, error) {
	tpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return model.Page{}, err
	}

	sections := make([]model.Section, len(tpl.Sections))
	copy(sections, tpl.Sections)
	for i := range sections {
		sections[i].ID = uuid.NewString()
	}

	in.Sections = sections
	in.Settings = tpl.Settings
	return s.Create(ctx, in, authorID)
}

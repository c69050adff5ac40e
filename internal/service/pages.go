// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcmslabs/rcms/internal/builder"
	"github.com/rcmslabs/rcms/internal/cache"
	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/util"
)

// PageService implements the page save pipeline: validation, the
// snapshot-then-update transaction with an optimistic version check, and
// best-effort audit logging after commit. It also mediates section edits
// and revision restore.
type PageService struct {
	db      *sql.DB
	queries *store.Queries
	events  *EventService
	cache   *cache.PageCache
}

// NewPageService creates a new PageService. pageCache may be nil when
// published-page caching is disabled.
func NewPageService(db *sql.DB, events *EventService, pageCache *cache.PageCache) *PageService {
	return &PageService{
		db:      db,
		queries: store.New(db),
		events:  events,
		cache:   pageCache,
	}
}

// PageInput holds the editable fields of a page for create and update.
type PageInput struct {
	Title       string
	Slug        string
	Description string
	Sections    []model.Section
	Meta        model.PageMeta
	Settings    model.PageSettings
	Theme       *model.Theme
	PublishAt   *time.Time
}

// validate checks title and slug, deriving the slug from the title when
// empty. excludeID is the page being updated, or 0 on create.
func (s *PageService) validate(ctx context.Context, in *PageInput, excludeID int64) error {
	if in.Title == "" {
		return newValidationError("title", "must not be empty")
	}
	if len(in.Title) > 200 {
		return newValidationError("title", "must be at most 200 characters")
	}

	if in.Slug == "" {
		in.Slug = util.Slugify(in.Title)
	}
	if !util.IsValidSlug(in.Slug) {
		return newValidationError("slug", "must contain only lowercase letters, digits and single hyphens")
	}

	exists, err := s.queries.PageSlugExists(ctx, store.PageSlugExistsParams{
		Slug: in.Slug, ExcludeID: excludeID,
	})
	if err != nil {
		return fmt.Errorf("checking slug uniqueness: %w", err)
	}
	if exists {
		return newValidationError("slug", "is already in use")
	}
	return nil
}

// Create inserts a new draft page with version 1. No revision is
// written; history starts with the first update.
func (s *PageService) Create(ctx context.Context, in PageInput, authorID int64) (model.Page, error) {
	if err := s.validate(ctx, &in, 0); err != nil {
		return model.Page{}, err
	}

	now := time.Now().UTC()
	page, err := s.queries.CreatePage(ctx, store.CreatePageParams{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		Status:      model.PageStatusDraft,
		Sections:    in.Sections,
		Meta:        in.Meta,
		Settings:    in.Settings,
		Theme:       in.Theme,
		AuthorID:    authorID,
		PublishAt:   in.PublishAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Page{}, err
	}

	_ = s.events.LogPageEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Page created: %s", page.Slug), &authorID,
		map[string]any{"page_id": page.ID})
	return page, nil
}

// Update runs the save pipeline against the page's current state.
// version is the value the editor loaded; when the stored version has
// advanced the call fails with a ConflictError and writes nothing.
// Every successful update snapshots the pre-save state into the
// revision log, atomically with the page write.
func (s *PageService) Update(ctx context.Context, id int64, version int64, in PageInput, actorID int64) (model.Page, error) {
	if err := s.validate(ctx, &in, id); err != nil {
		return model.Page{}, err
	}

	oldSlug, err := s.saveTx(ctx, id, version, actorID, func(current model.Page) store.UpdatePageParams {
		return store.UpdatePageParams{
			ID:          id,
			Title:       in.Title,
			Slug:        in.Slug,
			Description: in.Description,
			Status:      current.Status,
			Sections:    in.Sections,
			Meta:        in.Meta,
			Settings:    in.Settings,
			Theme:       in.Theme,
			PublishAt:   in.PublishAt,
			Version:     version,
			UpdatedAt:   time.Now().UTC(),
		}
	})
	if err != nil {
		return model.Page{}, err
	}

	s.invalidate(ctx, oldSlug, in.Slug)

	page, err := s.queries.GetPageByID(ctx, id)
	if err != nil {
		return model.Page{}, err
	}

	_ = s.events.LogPageEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Page updated: %s", page.Slug), &actorID,
		map[string]any{"page_id": page.ID, "version": page.Version})
	return page, nil
}

// saveTx runs the transactional core of the save pipeline: load the
// current row, snapshot it into the revision log, then apply the
// compare-and-swap update built by buildUpdate from the current state.
// Either both writes commit or neither does. Returns the pre-save slug
// for cache invalidation.
func (s *PageService) saveTx(ctx context.Context, id, version, actorID int64, buildUpdate func(current model.Page) store.UpdatePageParams) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning save transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	current, err := qtx.GetPageByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", newNotFoundError("page", fmt.Sprint(id))
		}
		return "", err
	}

	if _, err := qtx.CreateRevision(ctx, store.CreateRevisionParams{
		PageID:    id,
		Sections:  current.Sections,
		Meta:      current.Meta,
		Settings:  current.Settings,
		AuthorID:  actorID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return "", fmt.Errorf("snapshotting revision: %w", err)
	}

	ok, err := qtx.UpdatePage(ctx, buildUpdate(current))
	if err != nil {
		return "", err
	}
	if !ok {
		// The rollback discards the revision snapshot too.
		return "", &ConflictError{Resource: "page", ID: id, LoadedVersion: version}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing save transaction: %w", err)
	}
	return current.Slug, nil
}

// Get returns a page by id.
func (s *PageService) Get(ctx context.Context, id int64) (model.Page, error) {
	page, err := s.queries.GetPageByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, newNotFoundError("page", fmt.Sprint(id))
	}
	return page, err
}

// GetPublishedBySlug returns a published page for public rendering,
// through the cache when one is configured.
func (s *PageService) GetPublishedBySlug(ctx context.Context, slug string) (model.Page, error) {
	var (
		page model.Page
		err  error
	)
	if s.cache != nil {
		page, err = s.cache.GetPublishedBySlug(ctx, slug)
	} else {
		page, err = s.queries.GetPublishedPageBySlug(ctx, slug)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, newNotFoundError("page", slug)
	}
	return page, err
}

// List returns pages for the admin listing, optionally filtered by
// status, with the total count for pagination.
func (s *PageService) List(ctx context.Context, status string, limit, offset int64) ([]model.Page, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if status != "" {
		pages, err := s.queries.ListPagesByStatus(ctx, store.ListPagesByStatusParams{
			Status: status, Limit: limit, Offset: offset,
		})
		if err != nil {
			return nil, 0, err
		}
		total, err := s.queries.CountPagesByStatus(ctx, status)
		return pages, total, err
	}

	pages, err := s.queries.ListPages(ctx, store.ListPagesParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountPages(ctx)
	return pages, total, err
}

// Publish transitions a page to published. The version bump happens in
// the store; content is untouched so no revision is written.
func (s *PageService) Publish(ctx context.Context, id, actorID int64) (model.Page, error) {
	return s.setStatus(ctx, id, model.PageStatusPublished, actorID)
}

// Unpublish transitions a page back to draft.
func (s *PageService) Unpublish(ctx context.Context, id, actorID int64) (model.Page, error) {
	return s.setStatus(ctx, id, model.PageStatusDraft, actorID)
}

func (s *PageService) setStatus(ctx context.Context, id int64, status string, actorID int64) (model.Page, error) {
	page, err := s.Get(ctx, id)
	if err != nil {
		return model.Page{}, err
	}

	if err := s.queries.UpdatePageStatus(ctx, store.UpdatePageStatusParams{
		ID: id, Status: status, UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return model.Page{}, err
	}

	s.invalidate(ctx, page.Slug, "")

	_ = s.events.LogPageEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Page %s: %s", status, page.Slug), &actorID,
		map[string]any{"page_id": id})
	return s.Get(ctx, id)
}

// Delete removes a page; its revisions cascade at the schema level.
func (s *PageService) Delete(ctx context.Context, id, actorID int64) error {
	page, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.queries.DeletePage(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, page.Slug, "")

	_ = s.events.LogPageEvent(ctx, model.EventLevelWarning,
		fmt.Sprintf("Page deleted: %s", page.Slug), &actorID,
		map[string]any{"page_id": id})
	return nil
}

// editSections loads the page, applies a builder edit to its section
// list, and persists the result through the save pipeline with the
// caller's loaded version.
func (s *PageService) editSections(ctx context.Context, pageID, version, actorID int64, edit func(ed *builder.Editor) error) (model.Page, error) {
	page, err := s.Get(ctx, pageID)
	if err != nil {
		return model.Page{}, err
	}

	ed := builder.New(page.Sections)
	if err := edit(ed); err != nil {
		if errors.Is(err, builder.ErrSectionNotFound) {
			return model.Page{}, newNotFoundError("section", "")
		}
		if errors.Is(err, builder.ErrNotPermutation) {
			return model.Page{}, newValidationError("section_ids", "must be a permutation of the existing section ids")
		}
		return model.Page{}, err
	}

	oldSlug, err := s.saveTx(ctx, pageID, version, actorID, func(current model.Page) store.UpdatePageParams {
		return store.UpdatePageParams{
			ID:          pageID,
			Title:       current.Title,
			Slug:        current.Slug,
			Description: current.Description,
			Status:      current.Status,
			Sections:    ed.Sections(),
			Meta:        current.Meta,
			Settings:    current.Settings,
			Theme:       current.Theme,
			PublishAt:   current.PublishAt,
			Version:     version,
			UpdatedAt:   time.Now().UTC(),
		}
	})
	if err != nil {
		return model.Page{}, err
	}

	s.invalidate(ctx, oldSlug, "")
	return s.Get(ctx, pageID)
}

// AddSection appends a new section of the given type with its defaults
// and returns the updated page and the new section's id.
func (s *PageService) AddSection(ctx context.Context, pageID, version int64, t model.SectionType, actorID int64) (model.Page, string, error) {
	var sectionID string
	page, err := s.editSections(ctx, pageID, version, actorID, func(ed *builder.Editor) error {
		sectionID = ed.Add(t)
		return nil
	})
	return page, sectionID, err
}

// UpdateSection applies a partial content/settings update to a section.
func (s *PageService) UpdateSection(ctx context.Context, pageID, version int64, sectionID string, patch builder.Patch, actorID int64) (model.Page, error) {
	return s.editSections(ctx, pageID, version, actorID, func(ed *builder.Editor) error {
		return ed.Update(sectionID, patch)
	})
}

// DeleteSection removes a section. Unknown ids are a no-op, but the
// save still runs and produces a revision.
func (s *PageService) DeleteSection(ctx context.Context, pageID, version int64, sectionID string, actorID int64) (model.Page, error) {
	return s.editSections(ctx, pageID, version, actorID, func(ed *builder.Editor) error {
		ed.Delete(sectionID)
		return nil
	})
}

// ReorderSections replaces the section order with the given id sequence.
func (s *PageService) ReorderSections(ctx context.Context, pageID, version int64, ids []string, actorID int64) (model.Page, error) {
	return s.editSections(ctx, pageID, version, actorID, func(ed *builder.Editor) error {
		return ed.Reorder(ids)
	})
}

// MoveSection shifts a section one position up or down.
func (s *PageService) MoveSection(ctx context.Context, pageID, version int64, sectionID, direction string, actorID int64) (model.Page, error) {
	if direction != "up" && direction != "down" {
		return model.Page{}, newValidationError("direction", "must be \"up\" or \"down\"")
	}
	return s.editSections(ctx, pageID, version, actorID, func(ed *builder.Editor) error {
		if direction == "up" {
			ed.MoveUp(sectionID)
		} else {
			ed.MoveDown(sectionID)
		}
		return nil
	})
}

// ListRevisions returns a page's revision history, newest first.
func (s *PageService) ListRevisions(ctx context.Context, pageID int64) ([]model.Revision, error) {
	if _, err := s.Get(ctx, pageID); err != nil {
		return nil, err
	}
	return s.queries.ListRevisionsByPage(ctx, pageID)
}

// GetRevision returns one revision, verifying it belongs to the page.
func (s *PageService) GetRevision(ctx context.Context, pageID, revisionID int64) (model.Revision, error) {
	rev, err := s.queries.GetRevision(ctx, revisionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Revision{}, newNotFoundError("revision", fmt.Sprint(revisionID))
		}
		return model.Revision{}, err
	}
	if rev.PageID != pageID {
		return model.Revision{}, newNotFoundError("revision", fmt.Sprint(revisionID))
	}
	return rev, nil
}

// Restore overwrites the page's live sections, meta and settings from a
// past revision. The pre-restore live state is snapshotted first, so the
// restore itself is undoable and history only grows.
func (s *PageService) Restore(ctx context.Context, pageID, revisionID, actorID int64) (model.Page, error) {
	rev, err := s.GetRevision(ctx, pageID, revisionID)
	if err != nil {
		return model.Page{}, err
	}

	page, err := s.Get(ctx, pageID)
	if err != nil {
		return model.Page{}, err
	}

	oldSlug, err := s.saveTx(ctx, pageID, page.Version, actorID, func(current model.Page) store.UpdatePageParams {
		return store.UpdatePageParams{
			ID:          pageID,
			Title:       current.Title,
			Slug:        current.Slug,
			Description: current.Description,
			Status:      current.Status,
			Sections:    rev.Sections,
			Meta:        rev.Meta,
			Settings:    rev.Settings,
			Theme:       current.Theme,
			PublishAt:   current.PublishAt,
			Version:     page.Version,
			UpdatedAt:   time.Now().UTC(),
		}
	})
	if err != nil {
		return model.Page{}, err
	}

	s.invalidate(ctx, oldSlug, "")

	_ = s.events.LogPageEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Page restored from revision %d: %s", revisionID, page.Slug), &actorID,
		map[string]any{"page_id": pageID, "revision_id": revisionID})
	return s.Get(ctx, pageID)
}

// invalidate drops the cached published copies for the given slugs.
func (s *PageService) invalidate(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}
	for _, slug := range slugs {
		if slug != "" {
			s.cache.InvalidateSlug(ctx, slug)
		}
	}
}

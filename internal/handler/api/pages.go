// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rcmslabs/rcms/internal/builder"
	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/seo"
	"github.com/rcmslabs/rcms/internal/service"
	"github.com/rcmslabs/rcms/internal/store"
)

// PageRequest is the request body for creating and updating pages.
// Version is the optimistic-concurrency token: ignored on create,
// required on update.
type PageRequest struct {
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	Sections    []model.Section    `json:"sections"`
	Meta        model.PageMeta     `json:"meta"`
	Settings    model.PageSettings `json:"settings"`
	Theme       *model.Theme       `json:"theme,omitempty"`
	PublishAt   *time.Time         `json:"publish_at,omitempty"`
	Version     int64              `json:"version"`
}

func (req PageRequest) toInput() service.PageInput {
	return service.PageInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Sections:    req.Sections,
		Meta:        req.Meta,
		Settings:    req.Settings,
		Theme:       req.Theme,
		PublishAt:   req.PublishAt,
	}
}

// ListPages handles GET /api/v1/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	page, perPage, offset := parsePagination(r, 20, 100)

	pages, total, err := h.pages.List(r.Context(), status, perPage, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, pages, paginationMeta(total, page, perPage))
}

// CreatePage handles POST /api/v1/pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.pages.Create(r.Context(), req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, created)
}

// GetPage handles GET /api/v1/pages/{id}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}

	page, err := h.pages.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, page, nil)
}

// UpdatePage handles PUT /api/v1/pages/{id}. The body must carry the
// version the editor loaded; a stale version gets a 409.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}

	var req PageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Version <= 0 {
		WriteBadRequest(w, "Version is required")
		return
	}

	updated, err := h.pages.Update(r.Context(), id, req.Version, req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, updated, nil)
}

// DeletePage handles DELETE /api/v1/pages/{id}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}

	if err := h.pages.Delete(r.Context(), id, middleware.GetUserID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PublishPage handles POST /api/v1/pages/{id}/publish.
func (h *Handler) PublishPage(w http.ResponseWriter, r *http.Request) {
	h.setPageStatus(w, r, h.pages.Publish)
}

// UnpublishPage handles POST /api/v1/pages/{id}/unpublish.
func (h *Handler) UnpublishPage(w http.ResponseWriter, r *http.Request) {
	h.setPageStatus(w, r, h.pages.Unpublish)
}

func (h *Handler) setPageStatus(w http.ResponseWriter, r *http.Request, transition func(ctx context.Context, id, actorID int64) (model.Page, error)) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}

	page, err := transition(r.Context(), id, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, page, nil)
}

// GetPublishedPage handles GET /api/v1/public/pages/{slug}. With
// ?include=html the response also carries the rendered section markup.
func (h *Handler) GetPublishedPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Slug is required")
		return
	}

	page, err := h.pages.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	includes := strings.Split(r.URL.Query().Get("include"), ",")
	out := struct {
		model.Page
		HTML string    `json:"html,omitempty"`
		Meta *seo.Meta `json:"seo,omitempty"`
	}{Page: page}

	for _, inc := range includes {
		switch strings.TrimSpace(inc) {
		case "html":
			html, renderErr := h.renderer.Page(page)
			if renderErr != nil {
				WriteInternalError(w, "Failed to render page")
				return
			}
			out.HTML = string(html)
		case "meta":
			siteName, _ := store.New(h.db).GetConfig(r.Context(), store.ConfigKeySiteName)
			meta := seo.BuildMeta(page, h.themes.Active().SEO, seo.SiteConfig{
				SiteName: siteName,
				SiteURL:  h.siteURL,
			})
			out.Meta = &meta
		}
	}

	if out.HTML == "" && out.Meta == nil {
		WriteSuccess(w, page, nil)
		return
	}
	WriteSuccess(w, out, nil)
}

// AddSectionRequest is the request body for adding a section.
type AddSectionRequest struct {
	Version int64             `json:"version"`
	Type    model.SectionType `json:"type"`
}

// AddSection handles POST /api/v1/pages/{id}/sections.
func (h *Handler) AddSection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}

	var req AddSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !model.IsKnownSectionType(req.Type) {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed",
			map[string]string{"type": "unknown section type"})
		return
	}

	page, sectionID, err := h.pages.AddSection(r.Context(), id, req.Version, req.Type, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, struct {
		Page      model.Page `json:"page"`
		SectionID string     `json:"section_id"`
	}{Page: page, SectionID: sectionID})
}

// UpdateSectionRequest is the request body for patching a section.
type UpdateSectionRequest struct {
	Version   int64           `json:"version"`
	Content   json.RawMessage `json:"content,omitempty"`
	Settings  json.RawMessage `json:"settings,omitempty"`
	IsVisible *bool           `json:"is_visible,omitempty"`
}

// UpdateSection handles PATCH /api/v1/pages/{id}/sections/{sectionID}.
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}
	sectionID := chi.URLParam(r, "sectionID")

	var req UpdateSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	patch := builder.Patch{
		Content:   req.Content,
		Settings:  req.Settings,
		IsVisible: req.IsVisible,
	}
	page, err := h.pages.UpdateSection(r.Context(), id, req.Version, sectionID, patch, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, page, nil)
}

// DeleteSectionRequest is the request body for deleting a section.
type DeleteSectionRequest struct {
	Version int64 `json:"version"`
}

// DeleteSection handles DELETE /api/v1/pages/{id}/sections/{sectionID}.
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}
	sectionID := chi.URLParam(r, "sectionID")

	var req DeleteSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	page, err := h.pages.DeleteSection(r.Context(), id, req.Version, sectionID, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, page, nil)
}

// ReorderSectionsRequest is the request body for reordering sections.
type ReorderSectionsRequest struct {
	Version    int64    `json:"version"`
	SectionIDs []string `json:"section_ids"`
}

// ReorderSections handles POST /api/v1/pages/{id}/sections/reorder.
func (h *Handler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}

	var req ReorderSectionsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	page, err := h.pages.ReorderSections(r.Context(), id, req.Version, req.SectionIDs, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, page, nil)
}

// MoveSectionRequest is the request body for moving a section.
type MoveSectionRequest struct {
	Version   int64  `json:"version"`
	Direction string `json:"direction"` // up or down
}

// MoveSection handles POST /api/v1/pages/{id}/sections/{sectionID}/move.
func (h *Handler) MoveSection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}
	sectionID := chi.URLParam(r, "sectionID")

	var req MoveSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	page, err := h.pages.MoveSection(r.Context(), id, req.Version, sectionID, req.Direction, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, page, nil)
}

// ListRevisions handles GET /api/v1/pages/{id}/revisions.
func (h *Handler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}

	revisions, err := h.pages.ListRevisions(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, revisions, nil)
}

// GetRevision handles GET /api/v1/pages/{id}/revisions/{revisionID}.
func (h *Handler) GetRevision(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}
	revisionID, err := parseIDParam(r, "revisionID")
	if err != nil {
		WriteBadRequest(w, "Invalid revision ID")
		return
	}

	rev, err := h.pages.GetRevision(r.Context(), id, revisionID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, rev, nil)
}

// RestoreRevision handles POST /api/v1/pages/{id}/revisions/{revisionID}/restore.
func (h *Handler) RestoreRevision(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}
	revisionID, err := parseIDParam(r, "revisionID")
	if err != nil {
		WriteBadRequest(w, "Invalid revision ID")
		return
	}

	page, err := h.pages.Restore(r.Context(), id, revisionID, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, page, nil)
}

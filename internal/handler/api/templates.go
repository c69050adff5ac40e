// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/service"
)

// TemplateRequest is the request body for creating a page template.
type TemplateRequest struct {
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	Sections    []model.Section    `json:"sections"`
	Settings    model.PageSettings `json:"settings"`
}

// ListTemplates handles GET /api/v1/pages/templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.pages.ListTemplates(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, templates, nil)
}

// CreateTemplate handles POST /api/v1/pages/templates.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tpl, err := h.pages.CreateTemplate(r.Context(), service.TemplateInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Sections:    req.Sections,
		Settings:    req.Settings,
	}, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, tpl)
}

// GetTemplate handles GET /api/v1/pages/templates/{templateID}.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "templateID")
	if err != nil {
		WriteBadRequest(w, "Invalid template ID")
		return
	}

	tpl, err := h.pages.GetTemplate(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, tpl, nil)
}

// DeleteTemplate handles DELETE /api/v1/pages/templates/{templateID}.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "templateID")
	if err != nil {
		WriteBadRequest(w, "Invalid template ID")
		return
	}

	if err := h.pages.DeleteTemplate(r.Context(), id, middleware.GetUserID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreatePageFromTemplate handles POST /api/v1/pages/templates/{templateID}/pages.
// The body is a PageRequest; its sections are ignored in favor of the
// template's.
func (h *Handler) CreatePageFromTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "templateID")
	if err != nil {
		WriteBadRequest(w, "Invalid template ID")
		return
	}

	var req PageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.pages.CreateFromTemplate(r.Context(), id, req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, created)
}

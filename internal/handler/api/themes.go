// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"io"
	"net/http"

	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/model"
)

// GetTheme handles GET /api/v1/theme.
func (h *Handler) GetTheme(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.themes.Active(), nil)
}

// SetTheme handles PUT /api/v1/theme. The full settings document
// replaces the active theme.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var theme model.Theme
	if !decodeBody(w, r, &theme) {
		return
	}

	if err := h.themes.Set(r.Context(), theme, middleware.GetUserID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, h.themes.Active(), nil)
}

// ListThemePresets handles GET /api/v1/theme/presets.
func (h *Handler) ListThemePresets(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.themes.Presets(), nil)
}

// ApplyThemePresetRequest is the request body for applying a preset.
type ApplyThemePresetRequest struct {
	Name string `json:"name"`
}

// ApplyThemePreset handles POST /api/v1/theme/presets/apply.
func (h *Handler) ApplyThemePreset(w http.ResponseWriter, r *http.Request) {
	var req ApplyThemePresetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	theme, err := h.themes.ApplyPreset(r.Context(), req.Name, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, theme, nil)
}

// SetThemeFieldRequest is the request body for a single-field update.
type SetThemeFieldRequest struct {
	Category string `json:"category"`
	Field    string `json:"field"`
	Value    any    `json:"value"`
}

// SetThemeField handles PATCH /api/v1/theme/field.
func (h *Handler) SetThemeField(w http.ResponseWriter, r *http.Request) {
	var req SetThemeFieldRequest
	if !decodeBody(w, r, &req) {
		return
	}

	theme, err := h.themes.SetField(r.Context(), req.Category, req.Field, req.Value, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, theme, nil)
}

// ExportTheme handles GET /api/v1/theme/export; it serves the active
// theme as a downloadable JSON document.
func (h *Handler) ExportTheme(w http.ResponseWriter, _ *http.Request) {
	data, filename, err := h.themes.Export()
	if err != nil {
		WriteInternalError(w, "Failed to export theme")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

// ImportTheme handles POST /api/v1/theme/import with a raw JSON body.
func (h *Handler) ImportTheme(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		WriteBadRequest(w, "Failed to read request body")
		return
	}

	theme, importErr := h.themes.Import(r.Context(), data, middleware.GetUserID(r))
	if importErr != nil {
		WriteServiceError(w, importErr)
		return
	}

	WriteSuccess(w, theme, nil)
}

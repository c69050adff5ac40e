// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers under /api/v1.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/rbac"
	"github.com/rcmslabs/rcms/internal/render"
	"github.com/rcmslabs/rcms/internal/service"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db       *sql.DB
	sessions *scs.SessionManager
	shield   *middleware.LoginProtection
	renderer *render.Renderer
	siteURL  string

	pages    *service.PageService
	users    *service.UserService
	themes   *service.ThemeService
	research *service.ResearchService
	content  *service.ContentService
	media    *service.MediaService
	events   *service.EventService
}

// Services bundles the service layer for NewHandler.
type Services struct {
	Pages    *service.PageService
	Users    *service.UserService
	Themes   *service.ThemeService
	Research *service.ResearchService
	Content  *service.ContentService
	Media    *service.MediaService
	Events   *service.EventService
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, sessions *scs.SessionManager, svcs Services) *Handler {
	return &Handler{
		db:       db,
		sessions: sessions,
		shield:   middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()),
		renderer: render.New(),
		pages:    svcs.Pages,
		users:    svcs.Users,
		themes:   svcs.Themes,
		research: svcs.Research,
		content:  svcs.Content,
		media:    svcs.Media,
		events:   svcs.Events,
	}
}

// SetSiteURL sets the public base URL used in canonical links.
func (h *Handler) SetSiteURL(u string) {
	h.siteURL = strings.TrimSuffix(u, "/")
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int64 `json:"page,omitempty"`
	PerPage int64 `json:"per_page,omitempty"`
	Pages   int64 `json:"pages,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response in the shared envelope.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	middleware.WriteAPIError(w, statusCode, code, message, details)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteServiceError maps the service error taxonomy onto HTTP statuses:
// validation 422, not found 404, version conflict 409, forbidden 403.
// Anything unrecognized becomes a logged 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed",
			map[string]string{ve.Field: ve.Message})
		return
	}

	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		WriteNotFound(w, capitalizeFirst(nf.Resource)+" not found")
		return
	}

	var ce *service.ConflictError
	if errors.As(err, &ce) {
		WriteError(w, http.StatusConflict, "conflict",
			"The "+ce.Resource+" changed since you loaded it. Reload and re-apply your changes.",
			map[string]string{"loaded_version": strconv.FormatInt(ce.LoadedVersion, 10)})
		return
	}

	if errors.Is(err, service.ErrForbidden) {
		WriteForbidden(w, "Insufficient permissions")
		return
	}

	slog.Error("unhandled service error", "error", err)
	WriteInternalError(w, "Internal error")
}

// allow evaluates a permission with full resource attributes. Routes
// whose grants are conditioned on ownership or status skip the route
// middleware and call this after loading the record. On deny it writes
// the error response and returns false.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, action, resource string, rctx *rbac.Context) bool {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return false
	}
	if !rbac.Can(rbac.Session{UserID: user.ID, Role: user.Role}, action, resource, rctx) {
		WriteForbidden(w, "Insufficient permissions")
		return false
	}
	return true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// parseIDParam parses the {id} chi URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// parsePagination reads page/per_page query parameters, clamped to
// perPageMax, and returns limit/offset plus a Meta builder input.
func parsePagination(r *http.Request, perPageDefault, perPageMax int64) (page, perPage, offset int64) {
	page = 1
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && v > 0 {
		page = v
	}
	perPage = perPageDefault
	if v, err := strconv.ParseInt(r.URL.Query().Get("per_page"), 10, 64); err == nil && v > 0 && v <= perPageMax {
		perPage = v
	}
	return page, perPage, (page - 1) * perPage
}

// paginationMeta builds response metadata from a total count.
func paginationMeta(total, page, perPage int64) *Meta {
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return &Meta{Total: total, Page: page, PerPage: perPage, Pages: pages}
}

// decodeBody decodes a JSON request body into dst. On failure it writes
// a 400 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return false
	}
	return true
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{Status: "ok", Version: "v1"}, nil)
}

// Healthz handles GET /healthz; it pings the database.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		WriteError(w, http.StatusServiceUnavailable, "unhealthy", "Database unreachable", nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/rbac"
	"github.com/rcmslabs/rcms/internal/service"
)

// ProjectRequest is the request body for creating and updating
// research projects.
type ProjectRequest struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (req ProjectRequest) toInput() service.ProjectInput {
	return service.ProjectInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Summary:     req.Summary,
		Body:        req.Body,
		Status:      req.Status,
		Tags:        req.Tags,
		StartedAt:   req.StartedAt,
		CompletedAt: req.CompletedAt,
	}
}

// ListProjects handles GET /api/v1/research/projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.research.ListProjects(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, projects, nil)
}

// CreateProject handles POST /api/v1/research/projects. The
// authenticated user becomes the project lead.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	project, err := h.research.CreateProject(r.Context(), req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, project)
}

// GetProject handles GET /api/v1/research/projects/{id}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	project, err := h.research.GetProject(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, project, nil)
}

// GetProjectBySlug handles GET /api/v1/public/research/{slug}.
func (h *Handler) GetProjectBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Slug is required")
		return
	}

	project, err := h.research.GetProjectBySlug(r.Context(), slug)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, project, nil)
}

// UpdateProject handles PUT /api/v1/research/projects/{id}. The update
// grant for researchers is conditioned on leading the project, so the
// permission is checked here with the loaded record.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	current, err := h.research.GetProject(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !h.allow(w, r, rbac.ActionUpdate, rbac.ResourceProjects, &rbac.Context{OwnerID: current.LeadID, Status: current.Status}) {
		return
	}

	var req ProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	project, err := h.research.UpdateProject(r.Context(), id, req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, project, nil)
}

// DeleteProject handles DELETE /api/v1/research/projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	if err := h.research.DeleteProject(r.Context(), id, middleware.GetUserID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PublicationRequest is the request body for publications.
type PublicationRequest struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Venue   string `json:"venue"`
	Year    int64  `json:"year"`
	DOI     string `json:"doi"`
	URL     string `json:"url"`
}

func (req PublicationRequest) toInput() service.PublicationInput {
	return service.PublicationInput{
		Title:   req.Title,
		Authors: req.Authors,
		Venue:   req.Venue,
		Year:    req.Year,
		DOI:     req.DOI,
		URL:     req.URL,
	}
}

// ListPublications handles GET /api/v1/research/projects/{id}/publications.
func (h *Handler) ListPublications(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	pubs, err := h.research.ListPublications(r.Context(), projectID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, pubs, nil)
}

// CreatePublication handles POST /api/v1/research/projects/{id}/publications.
func (h *Handler) CreatePublication(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	var req PublicationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pub, err := h.research.CreatePublication(r.Context(), projectID, req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, pub)
}

// GetPublication handles GET /api/v1/research/projects/{id}/publications/{pubID}.
func (h *Handler) GetPublication(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}
	pubID, err := parseIDParam(r, "pubID")
	if err != nil {
		WriteBadRequest(w, "Invalid publication ID")
		return
	}

	pub, err := h.research.GetPublication(r.Context(), projectID, pubID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, pub, nil)
}

// UpdatePublication handles PUT /api/v1/research/projects/{id}/publications/{pubID}.
func (h *Handler) UpdatePublication(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}
	pubID, err := parseIDParam(r, "pubID")
	if err != nil {
		WriteBadRequest(w, "Invalid publication ID")
		return
	}

	var req PublicationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pub, err := h.research.UpdatePublication(r.Context(), projectID, pubID, req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, pub, nil)
}

// DeletePublication handles DELETE /api/v1/research/projects/{id}/publications/{pubID}.
func (h *Handler) DeletePublication(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}
	pubID, err := parseIDParam(r, "pubID")
	if err != nil {
		WriteBadRequest(w, "Invalid publication ID")
		return
	}

	if err := h.research.DeletePublication(r.Context(), projectID, pubID, middleware.GetUserID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MilestoneRequest is the request body for milestones.
type MilestoneRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Done        bool       `json:"done"`
}

func (req MilestoneRequest) toInput() service.MilestoneInput {
	return service.MilestoneInput{
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		Done:        req.Done,
	}
}

// ListMilestones handles GET /api/v1/research/projects/{id}/milestones.
func (h *Handler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	milestones, err := h.research.ListMilestones(r.Context(), projectID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, milestones, nil)
}

// CreateMilestone handles POST /api/v1/research/projects/{id}/milestones.
func (h *Handler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	var req MilestoneRequest
	if !decodeBody(w, r, &req) {
		return
	}

	milestone, err := h.research.CreateMilestone(r.Context(), projectID, req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, milestone)
}

// GetMilestone handles GET /api/v1/research/projects/{id}/milestones/{milestoneID}.
func (h *Handler) GetMilestone(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}
	milestoneID, err := parseIDParam(r, "milestoneID")
	if err != nil {
		WriteBadRequest(w, "Invalid milestone ID")
		return
	}

	milestone, err := h.research.GetMilestone(r.Context(), projectID, milestoneID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, milestone, nil)
}

// UpdateMilestone handles PUT /api/v1/research/projects/{id}/milestones/{milestoneID}.
func (h *Handler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}
	milestoneID, err := parseIDParam(r, "milestoneID")
	if err != nil {
		WriteBadRequest(w, "Invalid milestone ID")
		return
	}

	var req MilestoneRequest
	if !decodeBody(w, r, &req) {
		return
	}

	milestone, err := h.research.UpdateMilestone(r.Context(), projectID, milestoneID, req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, milestone, nil)
}

// DeleteMilestone handles DELETE /api/v1/research/projects/{id}/milestones/{milestoneID}.
func (h *Handler) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}
	milestoneID, err := parseIDParam(r, "milestoneID")
	if err != nil {
		WriteBadRequest(w, "Invalid milestone ID")
		return
	}

	if err := h.research.DeleteMilestone(r.Context(), projectID, milestoneID, middleware.GetUserID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

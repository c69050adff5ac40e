// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/rbac"
	"github.com/rcmslabs/rcms/internal/service"
)

// BlogPostRequest is the request body for creating and updating blog
// posts.
type BlogPostRequest struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt"`
	Body    string `json:"body"`
}

func (req BlogPostRequest) toInput() service.BlogPostInput {
	return service.BlogPostInput{
		Title:   req.Title,
		Slug:    req.Slug,
		Excerpt: req.Excerpt,
		Body:    req.Body,
	}
}

// ListBlogPosts handles GET /api/v1/blog/posts.
func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	page, perPage, offset := parsePagination(r, 20, 100)

	posts, total, err := h.content.ListBlogPosts(r.Context(), status, perPage, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, posts, paginationMeta(total, page, perPage))
}

// CreateBlogPost handles POST /api/v1/blog/posts.
func (h *Handler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req BlogPostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.content.CreateBlogPost(r.Context(), req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, post)
}

// GetBlogPost handles GET /api/v1/blog/posts/{id}.
func (h *Handler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.content.GetBlogPost(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, post, nil)
}

// GetPublishedBlogPost handles GET /api/v1/public/blog/{slug}.
func (h *Handler) GetPublishedBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Slug is required")
		return
	}

	post, err := h.content.GetPublishedBlogPostBySlug(r.Context(), slug)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, post, nil)
}

// UpdateBlogPost handles PUT /api/v1/blog/posts/{id}. Instructors may
// only edit their own posts, so the permission is checked here with the
// loaded record.
func (h *Handler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	current, err := h.content.GetBlogPost(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !h.allow(w, r, rbac.ActionUpdate, rbac.ResourceBlogPosts, &rbac.Context{OwnerID: current.AuthorID, Status: current.Status}) {
		return
	}

	var req BlogPostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.content.UpdateBlogPost(r.Context(), id, req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, post, nil)
}

// PublishBlogPost handles POST /api/v1/blog/posts/{id}/publish.
func (h *Handler) PublishBlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.content.PublishBlogPost(r.Context(), id, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, post, nil)
}

// UnpublishBlogPost handles POST /api/v1/blog/posts/{id}/unpublish.
func (h *Handler) UnpublishBlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.content.UnpublishBlogPost(r.Context(), id, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, post, nil)
}

// DeleteBlogPost handles DELETE /api/v1/blog/posts/{id}. Instructors
// may only delete their own drafts.
func (h *Handler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	current, err := h.content.GetBlogPost(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !h.allow(w, r, rbac.ActionDelete, rbac.ResourceBlogPosts, &rbac.Context{OwnerID: current.AuthorID, Status: current.Status}) {
		return
	}

	if err := h.content.DeleteBlogPost(r.Context(), id, middleware.GetUserID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ProductRequest is the request body for products.
type ProductRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	LinkURL     string `json:"link_url"`
	Published   bool   `json:"published"`
	Position    int64  `json:"position"`
}

func (req ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Tagline:     req.Tagline,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		LinkURL:     req.LinkURL,
		Published:   req.Published,
		Position:    req.Position,
	}
}

// ListProducts handles GET /api/v1/products. With ?published=true only
// published products are returned, which is also the public view.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	publishedOnly, _ := strconv.ParseBool(r.URL.Query().Get("published"))

	products, err := h.content.ListProducts(r.Context(), publishedOnly)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, products, nil)
}

// ListPublishedProducts handles GET /api/v1/public/products.
func (h *Handler) ListPublishedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.content.ListProducts(r.Context(), true)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, products, nil)
}

// CreateProduct handles POST /api/v1/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.content.CreateProduct(r.Context(), req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, product)
}

// GetProduct handles GET /api/v1/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid product ID")
		return
	}

	product, err := h.content.GetProduct(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, product, nil)
}

// UpdateProduct handles PUT /api/v1/products/{id}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid product ID")
		return
	}

	var req ProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.content.UpdateProduct(r.Context(), id, req.toInput(), middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, product, nil)
}

// DeleteProduct handles DELETE /api/v1/products/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid product ID")
		return
	}

	if err := h.content.DeleteProduct(r.Context(), id, middleware.GetUserID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

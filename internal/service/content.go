// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/util"
)

// ContentService manages blog posts and products. Markdown bodies are
// stored raw; rendering to sanitized HTML happens at read time in the
// render package.
type ContentService struct {
	queries *store.Queries
	events  *EventService
}

// NewContentService creates a new ContentService.
func NewContentService(db *sql.DB, events *EventService) *ContentService {
	return &ContentService{
		queries: store.New(db),
		events:  events,
	}
}

// BlogPostInput holds the editable fields of a blog post.
type BlogPostInput struct {
	Title   string
	Slug    string
	Excerpt string
	Body    string
}

func (s *ContentService) validateBlogPost(ctx context.Context, in *BlogPostInput, excludeID int64) error {
	if in.Title == "" {
		return newValidationError("title", "must not be empty")
	}
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Title)
	}
	if !util.IsValidSlug(in.Slug) {
		return newValidationError("slug", "must contain only lowercase letters, digits and single hyphens")
	}

	existing, err := s.queries.GetBlogPostBySlug(ctx, in.Slug)
	if err == nil && existing.ID != excludeID {
		return newValidationError("slug", "is already in use")
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

// CreateBlogPost inserts a new draft post.
func (s *ContentService) CreateBlogPost(ctx context.Context, in BlogPostInput, authorID int64) (model.BlogPost, error) {
	if err := s.validateBlogPost(ctx, &in, 0); err != nil {
		return model.BlogPost{}, err
	}

	now := time.Now().UTC()
	post, err := s.queries.CreateBlogPost(ctx, store.CreateBlogPostParams{
		Title:     in.Title,
		Slug:      in.Slug,
		Excerpt:   in.Excerpt,
		Body:      in.Body,
		Status:    model.PageStatusDraft,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.BlogPost{}, err
	}

	_ = s.events.LogContentEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Blog post created: %s", post.Slug), &authorID,
		map[string]any{"post_id": post.ID})
	return post, nil
}

// GetBlogPost returns a post by id.
func (s *ContentService) GetBlogPost(ctx context.Context, id int64) (model.BlogPost, error) {
	post, err := s.queries.GetBlogPostByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BlogPost{}, newNotFoundError("blog post", fmt.Sprint(id))
	}
	return post, err
}

// GetPublishedBlogPostBySlug returns a published post for public reading.
func (s *ContentService) GetPublishedBlogPostBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	post, err := s.queries.GetBlogPostBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && post.Status != model.PageStatusPublished) {
		return model.BlogPost{}, newNotFoundError("blog post", slug)
	}
	return post, err
}

// ListBlogPosts returns posts filtered by status with a total count.
func (s *ContentService) ListBlogPosts(ctx context.Context, status string, limit, offset int64) ([]model.BlogPost, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	posts, err := s.queries.ListBlogPosts(ctx, store.ListBlogPostsParams{
		Status: status, Limit: limit, Offset: offset,
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountBlogPosts(ctx, status)
	return posts, total, err
}

// UpdateBlogPost updates a post's editable fields, keeping its status.
func (s *ContentService) UpdateBlogPost(ctx context.Context, id int64, in BlogPostInput, actorID int64) (model.BlogPost, error) {
	if err := s.validateBlogPost(ctx, &in, id); err != nil {
		return model.BlogPost{}, err
	}

	current, err := s.GetBlogPost(ctx, id)
	if err != nil {
		return model.BlogPost{}, err
	}

	if err := s.queries.UpdateBlogPost(ctx, store.UpdateBlogPostParams{
		ID:          id,
		Title:       in.Title,
		Slug:        in.Slug,
		Excerpt:     in.Excerpt,
		Body:        in.Body,
		Status:      current.Status,
		PublishedAt: current.PublishedAt,
		UpdatedAt:   time.Now().UTC(),
	}); err != nil {
		return model.BlogPost{}, err
	}

	_ = s.events.LogContentEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Blog post updated: %s", in.Slug), &actorID,
		map[string]any{"post_id": id})
	return s.GetBlogPost(ctx, id)
}

// PublishBlogPost publishes a post, stamping PublishedAt on the first
// publish only so re-publishing keeps the original date.
func (s *ContentService) PublishBlogPost(ctx context.Context, id, actorID int64) (model.BlogPost, error) {
	return s.setBlogPostStatus(ctx, id, model.PageStatusPublished, actorID)
}

// UnpublishBlogPost returns a post to draft.
func (s *ContentService) UnpublishBlogPost(ctx context.Context, id, actorID int64) (model.BlogPost, error) {
	return s.setBlogPostStatus(ctx, id, model.PageStatusDraft, actorID)
}

func (s *ContentService) setBlogPostStatus(ctx context.Context, id int64, status string, actorID int64) (model.BlogPost, error) {
	current, err := s.GetBlogPost(ctx, id)
	if err != nil {
		return model.BlogPost{}, err
	}

	now := time.Now().UTC()
	publishedAt := current.PublishedAt
	if status == model.PageStatusPublished && !publishedAt.Valid {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	if err := s.queries.UpdateBlogPost(ctx, store.UpdateBlogPostParams{
		ID:          id,
		Title:       current.Title,
		Slug:        current.Slug,
		Excerpt:     current.Excerpt,
		Body:        current.Body,
		Status:      status,
		PublishedAt: publishedAt,
		UpdatedAt:   now,
	}); err != nil {
		return model.BlogPost{}, err
	}

	_ = s.events.LogContentEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Blog post %s: %s", status, current.Slug), &actorID,
		map[string]any{"post_id": id})
	return s.GetBlogPost(ctx, id)
}

// DeleteBlogPost removes a post.
func (s *ContentService) DeleteBlogPost(ctx context.Context, id, actorID int64) error {
	post, err := s.GetBlogPost(ctx, id)
	if err != nil {
		return err
	}

	if err := s.queries.DeleteBlogPost(ctx, id); err != nil {
		return err
	}

	_ = s.events.LogContentEvent(ctx, model.EventLevelWarning,
		fmt.Sprintf("Blog post deleted: %s", post.Slug), &actorID,
		map[string]any{"post_id": id})
	return nil
}

// ProductInput holds the editable fields of a product.
type ProductInput struct {
	Name        string
	Slug        string
	Tagline     string
	Description string
	ImageURL    string
	LinkURL     string
	Published   bool
	Position    int64
}

func (s *ContentService) validateProduct(ctx context.Context, in *ProductInput, excludeID int64) error {
	if in.Name == "" {
		return newValidationError("name", "must not be empty")
	}
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Name)
	}
	if !util.IsValidSlug(in.Slug) {
		return newValidationError("slug", "must contain only lowercase letters, digits and single hyphens")
	}

	existing, err := s.queries.GetProductBySlug(ctx, in.Slug)
	if err == nil && existing.ID != excludeID {
		return newValidationError("slug", "is already in use")
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

// CreateProduct inserts a new product.
func (s *ContentService) CreateProduct(ctx context.Context, in ProductInput, actorID int64) (model.Product, error) {
	if err := s.validateProduct(ctx, &in, 0); err != nil {
		return model.Product{}, err
	}

	now := time.Now().UTC()
	product, err := s.queries.CreateProduct(ctx, store.CreateProductParams{
		Name:        in.Name,
		Slug:        in.Slug,
		Tagline:     in.Tagline,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		LinkURL:     in.LinkURL,
		Published:   in.Published,
		Position:    in.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Product{}, err
	}

	_ = s.events.LogContentEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Product created: %s", product.Slug), &actorID,
		map[string]any{"product_id": product.ID})
	return product, nil
}

// GetProduct returns a product by id.
func (s *ContentService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	product, err := s.queries.GetProductByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, newNotFoundError("product", fmt.Sprint(id))
	}
	return product, err
}

// ListProducts returns products ordered by position. publishedOnly
// restricts to the public listing.
func (s *ContentService) ListProducts(ctx context.Context, publishedOnly bool) ([]model.Product, error) {
	return s.queries.ListProducts(ctx, publishedOnly)
}

// UpdateProduct updates a product's fields.
func (s *ContentService) UpdateProduct(ctx context.Context, id int64, in ProductInput, actorID int64) (model.Product, error) {
	if err := s.validateProduct(ctx, &in, id); err != nil {
		return model.Product{}, err
	}
	if _, err := s.GetProduct(ctx, id); err != nil {
		return model.Product{}, err
	}

	if err := s.queries.UpdateProduct(ctx, store.UpdateProductParams{
		ID:          id,
		Name:        in.Name,
		Slug:        in.Slug,
		Tagline:     in.Tagline,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		LinkURL:     in.LinkURL,
		Published:   in.Published,
		Position:    in.Position,
		UpdatedAt:   time.Now().UTC(),
	}); err != nil {
		return model.Product{}, err
	}

	_ = s.events.LogContentEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Product updated: %s", in.Slug), &actorID,
		map[string]any{"product_id": id})
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product.
func (s *ContentService) DeleteProduct(ctx context.Context, id, actorID int64) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.queries.DeleteProduct(ctx, id); err != nil {
		return err
	}

	_ = s.events.LogContentEvent(ctx, model.EventLevelWarning,
		fmt.Sprintf("Product deleted: %s", product.Slug), &actorID,
		map[string]any{"product_id": id})
	return nil
}

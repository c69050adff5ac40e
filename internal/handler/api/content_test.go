// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/testutil"
)

func createBlogPost(t *testing.T, h *Handler, author model.User, title, slug string) model.BlogPost {
	t.Helper()

	rec := doJSON(t, h.CreateBlogPost, http.MethodPost, BlogPostRequest{
		Title: title, Slug: slug, Body: "body",
	}, &author, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var post model.BlogPost
	decodeData(t, rec, &post)
	return post
}

func TestBlogPostLifecycle(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	post := createBlogPost(t, h, editor, "New preprint out", "new-preprint")
	assert.Equal(t, model.PageStatusDraft, post.Status)
	assert.False(t, post.PublishedAt.Valid)
	idParam := map[string]string{"id": strconv.FormatInt(post.ID, 10)}

	// Draft is not publicly visible.
	rec := doJSON(t, h.GetPublishedBlogPost, http.MethodGet, nil, nil, map[string]string{"slug": "new-preprint"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h.PublishBlogPost, http.MethodPost, nil, &editor, idParam)
	require.Equal(t, http.StatusOK, rec.Code)
	var published model.BlogPost
	decodeData(t, rec, &published)
	assert.Equal(t, model.PageStatusPublished, published.Status)
	require.True(t, published.PublishedAt.Valid)
	firstPublished := published.PublishedAt.Time

	rec = doJSON(t, h.GetPublishedBlogPost, http.MethodGet, nil, nil, map[string]string{"slug": "new-preprint"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Unpublish and re-publish keeps the original date.
	rec = doJSON(t, h.UnpublishBlogPost, http.MethodPost, nil, &editor, idParam)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h.PublishBlogPost, http.MethodPost, nil, &editor, idParam)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &published)
	assert.Equal(t, firstPublished.Unix(), published.PublishedAt.Time.Unix())
}

func TestInstructorOwnsOwnPosts(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	instructor := testutil.SeedUser(t, q, "instructor@example.com", model.RoleInstructor)
	other := testutil.SeedUser(t, q, "other@example.com", model.RoleInstructor)

	post := createBlogPost(t, h, instructor, "Teaching notes", "teaching-notes")
	idParam := map[string]string{"id": strconv.FormatInt(post.ID, 10)}

	// The author can edit and delete their draft.
	rec := doJSON(t, h.UpdateBlogPost, http.MethodPut, BlogPostRequest{
		Title: "Teaching notes v2", Slug: "teaching-notes", Body: "body",
	}, &instructor, idParam)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another instructor cannot.
	rec = doJSON(t, h.UpdateBlogPost, http.MethodPut, BlogPostRequest{
		Title: "Hijacked", Slug: "teaching-notes", Body: "body",
	}, &other, idParam)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h.DeleteBlogPost, http.MethodDelete, nil, &other, idParam)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h.DeleteBlogPost, http.MethodDelete, nil, &instructor, idParam)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestInstructorCannotDeletePublishedPost(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)
	instructor := testutil.SeedUser(t, q, "instructor@example.com", model.RoleInstructor)

	post := createBlogPost(t, h, instructor, "Archived", "archived")
	idParam := map[string]string{"id": strconv.FormatInt(post.ID, 10)}

	rec := doJSON(t, h.PublishBlogPost, http.MethodPost, nil, &editor, idParam)
	require.Equal(t, http.StatusOK, rec.Code)

	// Delete is granted to instructors for their own drafts only.
	rec = doJSON(t, h.DeleteBlogPost, http.MethodDelete, nil, &instructor, idParam)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductCRUD(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreateProduct, http.MethodPost, ProductRequest{
		Name: "Spectrometer Kit", Slug: "spectrometer-kit", Tagline: "Bench-top analysis",
	}, &editor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var product model.Product
	decodeData(t, rec, &product)
	idParam := map[string]string{"id": strconv.FormatInt(product.ID, 10)}

	// Unpublished products are hidden from the public list.
	rec = doJSON(t, h.ListPublishedProducts, http.MethodGet, nil, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var publicList []model.Product
	decodeData(t, rec, &publicList)
	assert.Empty(t, publicList)

	rec = doJSON(t, h.UpdateProduct, http.MethodPut, ProductRequest{
		Name: "Spectrometer Kit", Slug: "spectrometer-kit", Published: true,
	}, &editor, idParam)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.ListPublishedProducts, http.MethodGet, nil, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &publicList)
	assert.Len(t, publicList, 1)

	rec = doJSON(t, h.DeleteProduct, http.MethodDelete, nil, &editor, idParam)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h.GetProduct, http.MethodGet, nil, &editor, idParam)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmslabs/rcms/internal/model"
)

func TestCreateAndGetPage(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreatePage, http.MethodPost, PageRequest{
		Title: "About the Lab",
		Slug:  "about",
		Sections: []model.Section{
			{ID: "s1", Type: model.SectionText, Content: model.TextContent{Body: "Hello **lab**"}, IsVisible: true},
		},
	}, &editor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Page
	decodeData(t, rec, &created)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, model.PageStatusDraft, created.Status)
	require.Len(t, created.Sections, 1)

	rec = doJSON(t, h.GetPage, http.MethodGet, nil, &editor, map[string]string{"id": strconv.FormatInt(created.ID, 10)})
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Page
	decodeData(t, rec, &got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "About the Lab", got.Title)
}

func TestCreatePageValidation(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreatePage, http.MethodPost, PageRequest{Slug: "no-title"}, &editor, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestUpdatePageVersionConflict(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreatePage, http.MethodPost, PageRequest{Title: "Home", Slug: "home"}, &editor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var page model.Page
	decodeData(t, rec, &page)
	idParam := map[string]string{"id": strconv.FormatInt(page.ID, 10)}

	rec = doJSON(t, h.UpdatePage, http.MethodPut, PageRequest{
		Title: "Home v2", Slug: "home", Version: page.Version,
	}, &editor, idParam)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Page
	decodeData(t, rec, &updated)
	assert.Equal(t, int64(2), updated.Version)

	// Replaying the first version must be rejected.
	rec = doJSON(t, h.UpdatePage, http.MethodPut, PageRequest{
		Title: "Home v3", Slug: "home", Version: page.Version,
	}, &editor, idParam)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", errorCode(t, rec))
}

func TestUpdatePageRequiresVersion(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreatePage, http.MethodPost, PageRequest{Title: "Home", Slug: "home"}, &editor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var page model.Page
	decodeData(t, rec, &page)

	rec = doJSON(t, h.UpdatePage, http.MethodPut, PageRequest{Title: "Home", Slug: "home"}, &editor,
		map[string]string{"id": strconv.FormatInt(page.ID, 10)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSectionLifecycle(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreatePage, http.MethodPost, PageRequest{Title: "Docs", Slug: "docs"}, &editor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var page model.Page
	decodeData(t, rec, &page)
	idParam := map[string]string{"id": strconv.FormatInt(page.ID, 10)}

	// Unknown type never reaches the service.
	rec = doJSON(t, h.AddSection, http.MethodPost, AddSectionRequest{Version: page.Version, Type: "hologram"}, &editor, idParam)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h.AddSection, http.MethodPost, AddSectionRequest{Version: page.Version, Type: model.SectionText}, &editor, idParam)
	require.Equal(t, http.StatusCreated, rec.Code)
	var added struct {
		Page      model.Page `json:"page"`
		SectionID string     `json:"section_id"`
	}
	decodeData(t, rec, &added)
	require.NotEmpty(t, added.SectionID)
	assert.Equal(t, int64(2), added.Page.Version)

	rec = doJSON(t, h.UpdateSection, http.MethodPatch, UpdateSectionRequest{
		Version: added.Page.Version,
		Content: []byte(`{"body":"updated body"}`),
	}, &editor, map[string]string{"id": strconv.FormatInt(page.ID, 10), "sectionID": added.SectionID})
	require.Equal(t, http.StatusOK, rec.Code)
	var patched model.Page
	decodeData(t, rec, &patched)
	require.Len(t, patched.Sections, 1)
	text, ok := patched.Sections[0].Content.(model.TextContent)
	require.True(t, ok)
	assert.Equal(t, "updated body", text.Body)

	rec = doJSON(t, h.DeleteSection, http.MethodDelete, DeleteSectionRequest{Version: patched.Version}, &editor,
		map[string]string{"id": strconv.FormatInt(page.ID, 10), "sectionID": added.SectionID})
	require.Equal(t, http.StatusOK, rec.Code)
	var emptied model.Page
	decodeData(t, rec, &emptied)
	assert.Empty(t, emptied.Sections)
}

func TestRevisionsAndRestore(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreatePage, http.MethodPost, PageRequest{Title: "History", Slug: "history"}, &editor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var page model.Page
	decodeData(t, rec, &page)
	idParam := map[string]string{"id": strconv.FormatInt(page.ID, 10)}

	// Creating a page writes no revision.
	rec = doJSON(t, h.ListRevisions, http.MethodGet, nil, &editor, idParam)
	require.Equal(t, http.StatusOK, rec.Code)
	var revisions []model.Revision
	decodeData(t, rec, &revisions)
	assert.Empty(t, revisions)

	rec = doJSON(t, h.UpdatePage, http.MethodPut, PageRequest{
		Title: "History", Slug: "history",
		Sections: []model.Section{{ID: "s1", Type: model.SectionText, Content: model.TextContent{Body: "v2"}, IsVisible: true}},
		Version:  page.Version,
	}, &editor, idParam)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.ListRevisions, http.MethodGet, nil, &editor, idParam)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &revisions)
	require.Len(t, revisions, 1)

	rec = doJSON(t, h.RestoreRevision, http.MethodPost, nil, &editor,
		map[string]string{"id": strconv.FormatInt(page.ID, 10), "revisionID": strconv.FormatInt(revisions[0].ID, 10)})
	require.Equal(t, http.StatusOK, rec.Code)
	var restored model.Page
	decodeData(t, rec, &restored)
	// Restore snapshots the pre-restore state, so the version advances.
	assert.Equal(t, int64(3), restored.Version)
	assert.Empty(t, restored.Sections)
}

func TestGetPublishedPage(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreatePage, http.MethodPost, PageRequest{
		Title: "Welcome", Slug: "welcome",
		Sections: []model.Section{
			{ID: "s1", Type: model.SectionText, Content: model.TextContent{Body: "# Welcome"}, IsVisible: true},
		},
	}, &editor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var page model.Page
	decodeData(t, rec, &page)

	// Draft pages are invisible to the public endpoint.
	rec = doJSON(t, h.GetPublishedPage, http.MethodGet, nil, nil, map[string]string{"slug": "welcome"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h.PublishPage, http.MethodPost, nil, &editor, map[string]string{"id": strconv.FormatInt(page.ID, 10)})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.GetPublishedPage, http.MethodGet, nil, nil, map[string]string{"slug": "welcome"})
	require.Equal(t, http.StatusOK, rec.Code)
	var published model.Page
	decodeData(t, rec, &published)
	assert.Equal(t, model.PageStatusPublished, published.Status)
}

func TestGetPublishedPageWithHTML(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreatePage, http.MethodPost, PageRequest{
		Title: "Rendered", Slug: "rendered",
		Sections: []model.Section{
			{ID: "s1", Type: model.SectionText, Content: model.TextContent{Body: "plain *emphasis*"}, IsVisible: true},
		},
	}, &editor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var page model.Page
	decodeData(t, rec, &page)

	rec = doJSON(t, h.PublishPage, http.MethodPost, nil, &editor, map[string]string{"id": strconv.FormatInt(page.ID, 10)})
	require.Equal(t, http.StatusOK, rec.Code)

	req := doJSONWithQuery(t, h.GetPublishedPage, "include=html", map[string]string{"slug": "rendered"})
	require.Equal(t, http.StatusOK, req.Code)
	var rendered struct {
		HTML string `json:"html"`
	}
	decodeData(t, req, &rendered)
	assert.Contains(t, rendered.HTML, "<em>emphasis</em>")
}

func TestListPagesPagination(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	for _, slug := range []string{"one", "two", "three"} {
		rec := doJSON(t, h.CreatePage, http.MethodPost, PageRequest{Title: slug, Slug: slug}, &editor, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, h.ListPages, http.MethodGet, nil, &editor, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []model.Page `json:"data"`
		Meta *Meta        `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 3)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, int64(3), envelope.Meta.Total)
	assert.Equal(t, int64(1), envelope.Meta.Pages)
}

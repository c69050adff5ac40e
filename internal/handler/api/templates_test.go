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
)

func TestTemplateLifecycle(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreateTemplate, http.MethodPost, TemplateRequest{
		Name: "Landing",
		Sections: []model.Section{
			{ID: "s1", Type: model.SectionHero, Content: model.HeroContent{Title: "Hi"}, IsVisible: true},
			{ID: "s2", Type: model.SectionText, Content: model.TextContent{Body: "Body"}, IsVisible: true},
		},
		Settings: model.PageSettings{Layout: "full"},
	}, &editor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var tpl model.PageTemplate
	decodeData(t, rec, &tpl)
	assert.Equal(t, "landing", tpl.Slug)
	require.Len(t, tpl.Sections, 2)

	rec = doJSON(t, h.ListTemplates, http.MethodGet, nil, &editor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.PageTemplate
	decodeData(t, rec, &list)
	require.Len(t, list, 1)

	tplParam := map[string]string{"templateID": strconv.FormatInt(tpl.ID, 10)}
	rec = doJSON(t, h.DeleteTemplate, http.MethodDelete, nil, &editor, tplParam)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h.GetTemplate, http.MethodGet, nil, &editor, tplParam)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePageFromTemplate(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreateTemplate, http.MethodPost, TemplateRequest{
		Name: "Project page",
		Sections: []model.Section{
			{ID: "s1", Type: model.SectionHero, Content: model.HeroContent{Title: "Project"}, IsVisible: true},
		},
		Settings: model.PageSettings{Layout: "sidebar"},
	}, &editor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var tpl model.PageTemplate
	decodeData(t, rec, &tpl)

	rec = doJSON(t, h.CreatePageFromTemplate, http.MethodPost, PageRequest{
		Title: "Coral Genomics", Slug: "coral-genomics",
	}, &editor, map[string]string{"templateID": strconv.FormatInt(tpl.ID, 10)})
	require.Equal(t, http.StatusCreated, rec.Code)

	var page model.Page
	decodeData(t, rec, &page)
	assert.Equal(t, "coral-genomics", page.Slug)
	assert.Equal(t, "sidebar", page.Settings.Layout)
	require.Len(t, page.Sections, 1)
	// Section ids are regenerated on copy.
	assert.NotEqual(t, "s1", page.Sections[0].ID)

	hero, ok := page.Sections[0].Content.(model.HeroContent)
	require.True(t, ok)
	assert.Equal(t, "Project", hero.Title)
}

func TestCreateTemplateValidation(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.CreateTemplate, http.MethodPost, TemplateRequest{}, &editor, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

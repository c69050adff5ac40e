// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmslabs/rcms/internal/model"
)

func TestGetThemeDefault(t *testing.T) {
	h, _, cleanup := newTestHandler(t)
	defer cleanup()

	rec := doJSON(t, h.GetTheme, http.MethodGet, nil, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var theme model.Theme
	decodeData(t, rec, &theme)
	assert.NotEmpty(t, theme.Name)
	assert.NotEmpty(t, theme.Colors.Primary)
}

func TestApplyThemePreset(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.ListThemePresets, http.MethodGet, nil, &editor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var presets []string
	decodeData(t, rec, &presets)
	require.NotEmpty(t, presets)

	rec = doJSON(t, h.ApplyThemePreset, http.MethodPost, ApplyThemePresetRequest{Name: presets[len(presets)-1]}, &editor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var applied model.Theme
	decodeData(t, rec, &applied)
	assert.Equal(t, presets[len(presets)-1], applied.Name)

	rec = doJSON(t, h.ApplyThemePreset, http.MethodPost, ApplyThemePresetRequest{Name: "does-not-exist"}, &editor, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetThemeField(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.SetThemeField, http.MethodPatch, SetThemeFieldRequest{
		Category: "colors", Field: "primary", Value: "#ff0000",
	}, &editor, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var theme model.Theme
	decodeData(t, rec, &theme)
	assert.Equal(t, "#ff0000", theme.Colors.Primary)

	rec = doJSON(t, h.SetThemeField, http.MethodPatch, SetThemeFieldRequest{
		Category: "nonsense", Field: "primary", Value: "x",
	}, &editor, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestThemeExportImportRoundTrip(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	rec := doJSON(t, h.SetThemeField, http.MethodPatch, SetThemeFieldRequest{
		Category: "colors", Field: "primary", Value: "#123456",
	}, &editor, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.ExportTheme, http.MethodGet, nil, &editor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	exported := rec.Body.Bytes()

	// Reset to a preset, then import the export back.
	presetsRec := doJSON(t, h.ListThemePresets, http.MethodGet, nil, &editor, nil)
	var presets []string
	decodeData(t, presetsRec, &presets)
	rec = doJSON(t, h.ApplyThemePreset, http.MethodPost, ApplyThemePresetRequest{Name: presets[0]}, &editor, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	req := newRawBodyRequest(t, http.MethodPost, exported)
	rec = serveAuthed(t, h.ImportTheme, req, editor)
	require.Equal(t, http.StatusOK, rec.Code)

	var imported model.Theme
	decodeData(t, rec, &imported)
	assert.Equal(t, "#123456", imported.Colors.Primary)
}

func TestThemeImportRejectsGarbage(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	editor := seedEditor(t, q)

	req := newRawBodyRequest(t, http.MethodPost, []byte("not json"))
	rec := serveAuthed(t, h.ImportTheme, req, editor)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

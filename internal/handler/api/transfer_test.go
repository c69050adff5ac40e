// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/testutil"
	"github.com/rcmslabs/rcms/internal/transfer"
)

func TestExportSite(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	admin := testutil.SeedUser(t, q, "admin@example.com", model.RoleAdmin)
	editor := seedEditor(t, q)
	testutil.SeedPage(t, q, "About", "about", editor.ID, nil)

	rec := doJSON(t, h.ExportSite, http.MethodGet, nil, &admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	var doc transfer.ExportData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, transfer.ExportVersion, doc.Version)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "editor@example.com", doc.Pages[0].AuthorEmail)
	assert.Len(t, doc.Users, 2)
}

func TestImportSite(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	admin := testutil.SeedUser(t, q, "admin@example.com", model.RoleAdmin)

	doc := transfer.ExportData{
		Version: transfer.ExportVersion,
		Pages: []transfer.ExportPage{
			{Title: "Imported", Slug: "imported", Status: model.PageStatusDraft},
		},
	}
	rec := doJSON(t, h.ImportSite, http.MethodPost, doc, &admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result transfer.ImportResult
	decodeData(t, rec, &result)
	assert.Equal(t, 1, result.Imported["pages"])
	assert.Empty(t, result.Errors)

	page, err := q.GetPageBySlug(context.Background(), "imported")
	require.NoError(t, err)
	// Unattributed content lands on the importing user.
	assert.Equal(t, admin.ID, page.AuthorID)
}

func TestImportSiteDryRun(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	admin := testutil.SeedUser(t, q, "admin@example.com", model.RoleAdmin)

	doc := transfer.ExportData{
		Version: transfer.ExportVersion,
		Pages: []transfer.ExportPage{
			{Title: "Maybe", Slug: "maybe", Status: model.PageStatusDraft},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	req := newRawBodyRequest(t, http.MethodPost, raw)
	req.URL.RawQuery = "dry_run=true"
	rec := serveAuthed(t, h.ImportSite, req, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var result transfer.ImportResult
	decodeData(t, rec, &result)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Imported["pages"])

	_, err = q.GetPageBySlug(context.Background(), "maybe")
	assert.Error(t, err)
}

func TestImportSiteRejectsGarbage(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	admin := testutil.SeedUser(t, q, "admin@example.com", model.RoleAdmin)

	req := newRawBodyRequest(t, http.MethodPost, []byte("not json at all"))
	rec := serveAuthed(t, h.ImportSite, req, admin)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestImportSiteRejectsUnknownVersion(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	admin := testutil.SeedUser(t, q, "admin@example.com", model.RoleAdmin)

	rec := doJSON(t, h.ImportSite, http.MethodPost, transfer.ExportData{Version: "0.1"}, &admin, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

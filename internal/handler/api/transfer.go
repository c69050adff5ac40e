// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/transfer"
)

// maxImportSize caps the import document body.
const maxImportSize = 32 << 20

// ExportSite handles GET /api/v1/site/export. It streams the full site
// export as a JSON attachment.
func (h *Handler) ExportSite(w http.ResponseWriter, r *http.Request) {
	exporter := transfer.NewExporter(store.New(h.db), slog.Default())
	data, err := exporter.Export(r.Context(), transfer.FullExport())
	if err != nil {
		slog.Error("site export failed", "error", err)
		WriteInternalError(w, "Export failed")
		return
	}

	filename := "site-export-" + time.Now().UTC().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// ImportSite handles POST /api/v1/site/import. The body is an export
// document; ?dry_run=true validates without writing and
// ?skip_existing=true skips records whose slug or email is taken.
func (h *Handler) ImportSite(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		WriteBadRequest(w, "Unreadable request body")
		return
	}

	var data transfer.ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error",
			"Body is not a valid export document", map[string]string{"body": err.Error()})
		return
	}

	opts := transfer.ImportOptions{
		DryRun:       r.URL.Query().Get("dry_run") == "true",
		SkipExisting: r.URL.Query().Get("skip_existing") == "true",
	}

	user := middleware.GetUser(r)
	importer := transfer.NewImporter(h.db, slog.Default())
	result, err := importer.Import(r.Context(), &data, opts, user.ID)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error",
			err.Error(), nil)
		return
	}
	WriteSuccess(w, result, nil)
}

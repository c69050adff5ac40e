// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/rcmslabs/rcms/internal/middleware"
)

// maxUploadSize caps multipart uploads at 32 MiB.
const maxUploadSize = 32 << 20

// ListMedia handles GET /api/v1/media.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	page, perPage, offset := parsePagination(r, 50, 200)

	items, total, err := h.media.List(r.Context(), perPage, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, items, paginationMeta(total, page, perPage))
}

// UploadMedia handles POST /api/v1/media with a multipart form; the
// file goes in the "file" field.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing file field")
		return
	}
	defer file.Close()

	item, err := h.media.Upload(r.Context(), file, header, middleware.GetUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, item)
}

// GetMedia handles GET /api/v1/media/{id}.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid media ID")
		return
	}

	item, err := h.media.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, item, nil)
}

// DeleteMedia handles DELETE /api/v1/media/{id}. The stored file and
// thumbnail are removed along with the record.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid media ID")
		return
	}

	if err := h.media.Delete(r.Context(), id, middleware.GetUserID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

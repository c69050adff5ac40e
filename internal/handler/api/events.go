// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
)

// EventResponse is the API shape of an audit event. Metadata is stored
// as a JSON string and inlined here.
type EventResponse struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	UserID    *int64          `json:"user_id,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toEventResponse(e model.Event) EventResponse {
	resp := EventResponse{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
	if e.UserID.Valid {
		id := e.UserID.Int64
		resp.UserID = &id
	}
	if e.Metadata != "" && json.Valid([]byte(e.Metadata)) {
		resp.Metadata = json.RawMessage(e.Metadata)
	}
	return resp
}

// ListEvents handles GET /api/v1/events with optional level and
// category filters.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	category := r.URL.Query().Get("category")
	page, perPage, offset := parsePagination(r, 50, 200)

	events, err := h.events.List(r.Context(), level, category, perPage, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	total, err := h.events.Count(r.Context(), level, category)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}

	WriteSuccess(w, out, paginationMeta(total, page, perPage))
}

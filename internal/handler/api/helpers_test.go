// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/service"
	"github.com/rcmslabs/rcms/internal/session"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/testutil"
)

// newTestHandler builds a Handler over a fresh database with all
// services wired. Media uploads land in a per-test temp dir.
func newTestHandler(t *testing.T) (*Handler, *store.Queries, func()) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	events := service.NewEventService(db)

	themes, err := service.NewThemeService(context.Background(), db, events)
	require.NoError(t, err)

	h := NewHandler(db, session.New(db, true), Services{
		Pages:    service.NewPageService(db, events, nil),
		Users:    service.NewUserService(db, events),
		Themes:   themes,
		Research: service.NewResearchService(db, events),
		Content:  service.NewContentService(db, events),
		Media:    service.NewMediaService(db, events, t.TempDir()),
		Events:   events,
	})
	return h, store.New(db), cleanup
}

// doJSON invokes a handler directly with an optional JSON body, URL
// params, and an authenticated user in the request context.
func doJSON(t *testing.T, handler http.HandlerFunc, method string, body any, user *model.User, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, "/", rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if user != nil {
		ctx = context.WithValue(ctx, middleware.ContextKeyUser, *user)
	}

	rec := httptest.NewRecorder()
	handler(rec, req.WithContext(ctx))
	return rec
}

// seedEditor inserts an editor user for use as the acting identity.
func seedEditor(t *testing.T, q *store.Queries) model.User {
	t.Helper()
	return testutil.SeedUser(t, q, "editor@example.com", model.RoleEditor)
}

// doJSONWithQuery invokes a GET handler with a raw query string and URL
// params, unauthenticated.
func doJSONWithQuery(t *testing.T, handler http.HandlerFunc, query string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// newRawBodyRequest builds a request with a raw, non-JSON-encoded body.
func newRawBodyRequest(t *testing.T, method string, body []byte) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, "/", bytes.NewReader(body))
}

// serveAuthed runs a handler with the given user in the request context.
func serveAuthed(t *testing.T, handler http.HandlerFunc, req *http.Request, user model.User) *httptest.ResponseRecorder {
	t.Helper()

	ctx := context.WithValue(req.Context(), middleware.ContextKeyUser, user)
	rec := httptest.NewRecorder()
	handler(rec, req.WithContext(ctx))
	return rec
}

// authedGet wraps a handler so it sees user as the authenticated
// identity, for use with doJSONWithQuery.
func authedGet(handler http.HandlerFunc, user model.User) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, user)
		handler(w, r.WithContext(ctx))
	}
}

// decodeData unmarshals the Data field of a response envelope into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

// errorCode extracts the error code from an error envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var apiErr middleware.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr.Error.Code
}

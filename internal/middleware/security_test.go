// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveWithHeaders(cfg SecurityHeadersConfig, path string) *httptest.ResponseRecorder {
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSecurityHeadersProduction(t *testing.T) {
	rec := serveWithHeaders(DefaultSecurityHeadersConfig(false), "/")

	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=31536000")
	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "includeSubDomains")
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Header().Get("Permissions-Policy"), "camera=()")
}

func TestSecurityHeadersDevelopmentSkipsHSTS(t *testing.T) {
	rec := serveWithHeaders(DefaultSecurityHeadersConfig(true), "/")

	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "'unsafe-eval'")
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/uploads/"}

	rec := serveWithHeaders(cfg, "/uploads/abc.jpg")
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))

	rec = serveWithHeaders(cfg, "/api/v1/pages")
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestBuildCSPOrdering(t *testing.T) {
	csp := buildCSP(map[string]string{
		"script-src":  "'self'",
		"default-src": "'self'",
	})
	assert.Equal(t, "default-src 'self'; script-src 'self'", csp)
}

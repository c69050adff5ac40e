// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/rbac"
)

func requestAs(role string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/pages", nil)
	if role == "" {
		return r
	}
	ctx := context.WithValue(r.Context(), ContextKeyUser, model.User{ID: 1, Role: role})
	return r.WithContext(ctx)
}

func TestAuthorize(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		role     string
		action   string
		resource string
		want     int
	}{
		{"editor creates pages", model.RoleEditor, rbac.ActionCreate, rbac.ResourcePages, http.StatusOK},
		{"editor publishes pages", model.RoleEditor, rbac.ActionPublish, rbac.ResourcePages, http.StatusOK},
		{"viewer cannot create pages", model.RoleUser, rbac.ActionCreate, rbac.ResourcePages, http.StatusForbidden},
		{"researcher manages publications", model.RoleResearcher, rbac.ActionDelete, rbac.ResourcePublications, http.StatusOK},
		{"researcher cannot publish pages", model.RoleResearcher, rbac.ActionPublish, rbac.ResourcePages, http.StatusForbidden},
		{"super admin does anything", model.RoleSuperAdmin, rbac.ActionManage, rbac.ResourceUsers, http.StatusOK},
		{"anonymous is unauthorized", "", rbac.ActionRead, rbac.ResourcePages, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Authorize(tt.action, tt.resource)(okHandler).ServeHTTP(rec, requestAs(tt.role))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthorizeDeniedIsJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Authorize(rbac.ActionManage, rbac.ResourceUsers)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, requestAs(model.RoleUser))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "forbidden")
}

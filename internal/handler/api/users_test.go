// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/testutil"
)

func TestUserCRUD(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	admin := testutil.SeedUser(t, q, "admin@example.com", model.RoleAdmin)

	rec := doJSON(t, h.CreateUser, http.MethodPost, CreateUserRequest{
		Email: "New.Person@Example.com", Password: "long-enough-secret", FullName: "New Person", Role: model.RoleResearcher,
	}, &admin, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.User
	decodeData(t, rec, &created)
	assert.Equal(t, "new.person@example.com", created.Email)
	idParam := map[string]string{"id": strconv.FormatInt(created.ID, 10)}

	// The password hash never leaves the API.
	assert.NotContains(t, rec.Body.String(), "password")

	rec = doJSON(t, h.UpdateUser, http.MethodPut, UpdateUserRequest{
		Email: created.Email, FullName: "New Person", Role: model.RoleEditor,
	}, &admin, idParam)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.User
	decodeData(t, rec, &updated)
	assert.Equal(t, model.RoleEditor, updated.Role)

	rec = doJSON(t, h.ChangeUserPassword, http.MethodPut, ChangePasswordRequest{Password: "another-long-secret"}, &admin, idParam)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.ListUsers, http.MethodGet, nil, &admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []model.User
	decodeData(t, rec, &users)
	assert.Len(t, users, 2)

	rec = doJSON(t, h.DeleteUser, http.MethodDelete, nil, &admin, idParam)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h.GetUser, http.MethodGet, nil, &admin, idParam)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateUserValidation(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	admin := testutil.SeedUser(t, q, "admin@example.com", model.RoleAdmin)

	cases := []struct {
		name string
		req  CreateUserRequest
	}{
		{"bad email", CreateUserRequest{Email: "not-an-email", Password: "long-enough", Role: model.RoleUser}},
		{"short password", CreateUserRequest{Email: "a@b.com", Password: "short", Role: model.RoleUser}},
		{"unknown role", CreateUserRequest{Email: "a@b.com", Password: "long-enough", Role: "czar"}},
		{"duplicate email", CreateUserRequest{Email: "admin@example.com", Password: "long-enough", Role: model.RoleUser}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h.CreateUser, http.MethodPost, tc.req, &admin, nil)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, "validation_error", errorCode(t, rec))
		})
	}
}

func TestValidationErrorEnvelope(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()
	admin := testutil.SeedUser(t, q, "admin@example.com", model.RoleAdmin)

	rec := doJSON(t, h.CreateUser, http.MethodPost, CreateUserRequest{
		Email: "a@b.com", Password: "short", Role: model.RoleUser,
	}, &admin, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"password"`), "details keyed by field: %s", rec.Body.String())
}

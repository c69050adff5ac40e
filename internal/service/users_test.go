// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/testutil"
)

func setupUserService(t *testing.T) (*UserService, *store.Queries, func()) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	svc := NewUserService(db, NewEventService(db))
	return svc, store.New(db), cleanup
}

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	svc, _, cleanup := setupUserService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateUserInput{
		Email:    "Alice@Example.com",
		Password: "correct horse battery",
		FullName: "Alice",
		Role:     model.RoleAdmin,
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", created.Email, "email normalized to lowercase")

	user, err := svc.Authenticate(ctx, "alice@example.com", "correct horse battery", nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.True(t, user.LastLoginAt.Valid, "login recorded")

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong", nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "whatever", nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email indistinguishable from wrong password")
}

func TestUserService_CreateValidation(t *testing.T) {
	svc, _, cleanup := setupUserService(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateUserInput
	}{
		{"invalid email", CreateUserInput{Email: "not-an-email", Password: "password1", Role: model.RoleUser}},
		{"short password", CreateUserInput{Email: "a@b.com", Password: "short", Role: model.RoleUser}},
		{"unknown role", CreateUserInput{Email: "a@b.com", Password: "password1", Role: "warlock"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in, 0)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestUserService_DuplicateEmail(t *testing.T) {
	svc, _, cleanup := setupUserService(t)
	defer cleanup()
	ctx := context.Background()

	in := CreateUserInput{Email: "dup@example.com", Password: "password1", Role: model.RoleUser}
	_, err := svc.Create(ctx, in, 0)
	require.NoError(t, err)

	_, err = svc.Create(ctx, in, 0)
	assert.True(t, IsValidation(err))
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, _, cleanup := setupUserService(t)
	defer cleanup()
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserInput{
		Email: "bob@example.com", Password: "original-pass", Role: model.RoleEditor,
	}, 0)
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "new-password", user.ID))

	_, err = svc.Authenticate(ctx, "bob@example.com", "original-pass", nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "bob@example.com", "new-password", nil)
	assert.NoError(t, err)
}

func TestUserService_DeleteLastUserRefused(t *testing.T) {
	svc, _, cleanup := setupUserService(t)
	defer cleanup()
	ctx := context.Background()

	only, err := svc.Create(ctx, CreateUserInput{
		Email: "solo@example.com", Password: "password1", Role: model.RoleSuperAdmin,
	}, 0)
	require.NoError(t, err)

	err = svc.Delete(ctx, only.ID, only.ID)
	assert.True(t, IsValidation(err), "last user must not be deletable")

	second, err := svc.Create(ctx, CreateUserInput{
		Email: "other@example.com", Password: "password1", Role: model.RoleUser,
	}, only.ID)
	require.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, second.ID, only.ID))
}

func TestUserService_AuthenticateRehashesLegacyHash(t *testing.T) {
	svc, q, cleanup := setupUserService(t)
	defer cleanup()
	ctx := context.Background()

	// Hash minted with pre-OWASP parameters (m=65536,t=1,p=4) for "changeme".
	legacy := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"
	user := testutil.SeedUser(t, q, "legacy@example.com", model.RoleUser)
	require.NoError(t, q.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		ID: user.ID, PasswordHash: legacy, UpdatedAt: user.UpdatedAt,
	}))

	_, err := svc.Authenticate(ctx, "legacy@example.com", "changeme", nil)
	require.NoError(t, err)

	refreshed, err := q.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, legacy, refreshed.PasswordHash, "hash upgraded on login")
}

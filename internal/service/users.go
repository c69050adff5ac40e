// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcmslabs/rcms/internal/auth"
	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
)

// UserService handles account management and credential verification.
type UserService struct {
	queries *store.Queries
	events  *EventService
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, events *EventService) *UserService {
	return &UserService{
		queries: store.New(db),
		events:  events,
	}
}

// Authenticate verifies an email/password pair and records the login.
// Unknown email and wrong password return the same error. metadata is
// attached to the audit event (client IP, user agent).
func (s *UserService) Authenticate(ctx context.Context, email, password string, metadata map[string]any) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = s.events.LogAuthEvent(ctx, model.EventLevelWarning,
				fmt.Sprintf("Failed login for unknown email %s", email), nil, metadata)
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		_ = s.events.LogAuthEvent(ctx, model.EventLevelWarning,
			fmt.Sprintf("Failed login for %s", email), &user.ID, metadata)
		return model.User{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()

	// Transparently upgrade hashes minted with older parameters.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			_ = s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				ID: user.ID, PasswordHash: newHash, UpdatedAt: now,
			})
		}
	}

	_ = s.queries.TouchUserLogin(ctx, user.ID, now)
	_ = s.events.LogAuthEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("User logged in: %s", email), &user.ID, metadata)

	user.LastLoginAt = sql.NullTime{Time: now, Valid: true}
	return user, nil
}

// CreateUserInput holds the fields for Create.
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

func validateEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		return newValidationError("email", "must be a valid email address")
	}
	return nil
}

// Create adds a new user account.
func (s *UserService) Create(ctx context.Context, in CreateUserInput, actorID int64) (model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateEmail(in.Email); err != nil {
		return model.User{}, err
	}
	if len(in.Password) < 8 {
		return model.User{}, newValidationError("password", "must be at least 8 characters")
	}
	if !model.IsValidRole(in.Role) {
		return model.User{}, newValidationError("role", "is not a recognized role")
	}

	if _, err := s.queries.GetUserByEmail(ctx, in.Email); err == nil {
		return model.User{}, newValidationError("email", "is already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, err
	}

	_ = s.events.LogUserEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("User created: %s (%s)", user.Email, user.Role), &actorID,
		map[string]any{"user_id": user.ID})
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, newNotFoundError("user", fmt.Sprint(id))
	}
	return user, err
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.queries.ListUsers(ctx)
}

// UpdateUserInput holds the fields for Update.
type UpdateUserInput struct {
	Email    string
	FullName string
	Role     string
}

// Update changes a user's profile fields.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput, actorID int64) (model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateEmail(in.Email); err != nil {
		return model.User{}, err
	}
	if !model.IsValidRole(in.Role) {
		return model.User{}, newValidationError("role", "is not a recognized role")
	}

	if _, err := s.Get(ctx, id); err != nil {
		return model.User{}, err
	}

	if err := s.queries.UpdateUser(ctx, store.UpdateUserParams{
		ID: id, Email: in.Email, FullName: in.FullName, Role: in.Role,
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return model.User{}, err
	}

	_ = s.events.LogUserEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("User updated: %s", in.Email), &actorID,
		map[string]any{"user_id": id})
	return s.Get(ctx, id)
}

// ChangePassword replaces a user's password.
func (s *UserService) ChangePassword(ctx context.Context, id int64, password string, actorID int64) error {
	if len(password) < 8 {
		return newValidationError("password", "must be at least 8 characters")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		ID: id, PasswordHash: hash, UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	_ = s.events.LogUserEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Password changed for %s", user.Email), &actorID,
		map[string]any{"user_id": id})
	return nil
}

// Delete removes a user account. The last remaining user cannot be
// deleted, so the instance is never locked out.
func (s *UserService) Delete(ctx context.Context, id, actorID int64) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.queries.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return newValidationError("id", "cannot delete the last user")
	}

	if err := s.queries.DeleteUser(ctx, id); err != nil {
		return err
	}

	_ = s.events.LogUserEvent(ctx, model.EventLevelWarning,
		fmt.Sprintf("User deleted: %s", user.Email), &actorID,
		map[string]any{"user_id": id})
	return nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the business logic layer between the HTTP
// handlers and the store: the page save pipeline, revision restore,
// theme persistence, research tracking, content management, media
// uploads, authentication and the audit log.
package service

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the acting user lacks permission for an
// operation. Handlers map it to 403.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidCredentials is returned by Authenticate for both unknown
// emails and wrong passwords, deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports a field-level input problem. Handlers map it
// to 422 with the field name in the error details.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing resource. Handlers map it to 404.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

// ConflictError reports a lost optimistic-concurrency race: the stored
// version advanced past the one the editor loaded. Handlers map it to
// 409; the client should reload and re-apply its changes.
type ConflictError struct {
	Resource      string
	ID            int64
	LoadedVersion int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d changed since version %d was loaded", e.Resource, e.ID, e.LoadedVersion)
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func newNotFoundError(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

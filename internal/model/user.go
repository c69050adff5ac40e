// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// User roles, in ascending order of privilege for display purposes only.
// Authorization decisions go through the rbac package, not role ordering.
const (
	RoleUser       = "user"
	RoleResearcher = "researcher"
	RoleEditor     = "editor"
	RoleInstructor = "instructor"
	RoleModerator  = "moderator"
	RoleAnalyst    = "analyst"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// ValidRoles contains every assignable role.
var ValidRoles = []string{
	RoleUser, RoleResearcher, RoleEditor, RoleInstructor,
	RoleModerator, RoleAnalyst, RoleAdmin, RoleSuperAdmin,
}

// IsValidRole reports whether role is assignable.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a CMS user.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	FullName     string       `json:"full_name"`
	Role         string       `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has an admin-level role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rcmslabs/rcms/internal/rbac"
	"github.com/rcmslabs/rcms/internal/service"
)

// Authorize gates a route on the role table: the authenticated user must
// hold the given action on the given resource. Conditional grants (owner
// or status restricted) cannot be decided from the route alone; handlers
// re-check those with full resource context.
func Authorize(action, resource string) func(http.Handler) http.Handler {
	return AuthorizeWithEventLog(action, resource, nil)
}

// AuthorizeWithEventLog is Authorize with denied attempts recorded in the
// audit trail.
func AuthorizeWithEventLog(action, resource string, events *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}

			sess := rbac.Session{UserID: user.ID, Role: user.Role}
			if !rbac.Can(sess, action, resource, nil) {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"action", action,
					"resource", resource,
				)

				if events != nil {
					userID := user.ID
					_ = events.LogAuthEvent(r.Context(), "warning", "Access denied: insufficient permissions", &userID, map[string]any{
						"method":   r.Method,
						"path":     r.URL.Path,
						"role":     user.Role,
						"action":   action,
						"resource": resource,
					})
				}

				WriteAPIError(w, http.StatusForbidden, "forbidden", "Insufficient permissions", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mileusna/useragent"

	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/service"
)

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login. Failed attempts feed the
// account lockout tracker; both unknown emails and wrong passwords get
// the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		WriteBadRequest(w, "Email and password are required")
		return
	}

	if locked, remaining := h.shield.IsAccountLocked(email); locked {
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			"Account temporarily locked due to failed login attempts",
			map[string]string{"retry_after_seconds": strconv.Itoa(int(remaining.Seconds()) + 1)})
		return
	}

	ua := useragent.Parse(r.UserAgent())
	metadata := map[string]any{
		"ip":      r.RemoteAddr,
		"browser": ua.Name,
		"os":      ua.OS,
	}

	user, err := h.users.Authenticate(r.Context(), email, req.Password, metadata)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if nowLocked, _ := h.shield.RecordFailedAttempt(email); nowLocked {
				WriteError(w, http.StatusTooManyRequests, "account_locked",
					"Account temporarily locked due to failed login attempts", nil)
				return
			}
			WriteUnauthorized(w, "Invalid email or password")
			return
		}
		WriteServiceError(w, err)
		return
	}

	h.shield.RecordSuccessfulLogin(email)

	// New session token on privilege change.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		WriteInternalError(w, "Failed to establish session")
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	WriteSuccess(w, user, nil)
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDPtr(r)
	if err := h.sessions.Destroy(r.Context()); err != nil {
		WriteInternalError(w, "Failed to end session")
		return
	}

	_ = h.events.LogAuthEvent(r.Context(), "info", "User logged out", userID, nil)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, user, nil)
}

// LoginShield exposes the login protection middleware for router wiring.
func (h *Handler) LoginShield() func(http.Handler) http.Handler {
	return h.shield.Middleware()
}

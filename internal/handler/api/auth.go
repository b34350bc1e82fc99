// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/roteiro-cms/roteiro/internal/auth"
	"github.com/roteiro-cms/roteiro/internal/middleware"
	"github.com/roteiro-cms/roteiro/internal/model"
)

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	HotelID     *int64     `json:"hotel_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func userToResponse(u model.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
	if u.HotelID.Valid {
		resp.HotelID = &u.HotelID.Int64
	}
	if u.LastLoginAt.Valid {
		resp.LastLoginAt = &u.LastLoginAt.Time
	}
	return resp
}

// Login handles POST /api/auth/login. Failed attempts count toward the
// account lockout; the response never reveals whether the email exists.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := clientIP(r)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		WriteValidationError(w, map[string]string{
			"email":    "Email is required",
			"password": "Password is required",
		})
		return
	}

	if h.logins != nil {
		if locked, remaining := h.logins.IsAccountLocked(req.Email); locked {
			_ = h.events.LogAuthEvent(ctx, model.EventLevelWarning, "login attempt on locked account",
				0, ip, h.events.RequestMeta(r, ip))
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				fmt.Sprintf("Account locked. Try again in %s", remaining.Round(time.Second)), nil)
			return
		}
	}

	user, err := h.queries.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			WriteInternalError(w, "Login failed")
			return
		}
		h.failLogin(w, r, req.Email, ip)
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.failLogin(w, r, req.Email, ip)
		return
	}

	// Rotate the session token on privilege change.
	if err := h.sessions.RenewToken(ctx); err != nil {
		slog.Error("session renew failed", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}
	h.sessions.Put(ctx, middleware.SessionKeyUserID, user.ID)

	if err := h.queries.UpdateUserLastLogin(ctx, user.ID); err != nil {
		slog.Warn("failed to update last login", "category", model.EventCategoryAuth, "user_id", user.ID, "error", err)
	}
	if h.logins != nil {
		h.logins.RecordSuccessfulLogin(req.Email)
	}
	_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "user logged in",
		user.ID, ip, h.events.RequestMeta(r, ip))

	WriteSuccess(w, userToResponse(user), nil)
}

// failLogin records a failed attempt and answers with a generic 401.
func (h *Handler) failLogin(w http.ResponseWriter, r *http.Request, email, ip string) {
	ctx := r.Context()

	meta := h.events.RequestMeta(r, ip)
	meta["email"] = email
	_ = h.events.LogAuthEvent(ctx, model.EventLevelWarning, "failed login", 0, ip, meta)

	if h.logins != nil {
		if locked, remaining := h.logins.RecordFailedAttempt(email); locked {
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				fmt.Sprintf("Too many failed attempts. Account locked for %s", remaining.Round(time.Second)), nil)
			return
		}
	}

	WriteUnauthorized(w, "Invalid email or password")
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := clientIP(r)

	userID := middleware.GetUserID(r)
	if err := h.sessions.Destroy(ctx); err != nil {
		slog.Error("session destroy failed", "error", err)
		WriteInternalError(w, "Logout failed")
		return
	}

	if userID != 0 {
		_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "user logged out", userID, ip, nil)
	}

	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}

// Me handles GET /api/auth/me and returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, userToResponse(*user), nil)
}

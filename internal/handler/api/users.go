// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/roteiro-cms/roteiro/internal/auth"
	"github.com/roteiro-cms/roteiro/internal/middleware"
	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/store"
)

// CreateUserRequest is the request body for creating a staff account.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	HotelID  int64  `json:"hotel_id,omitempty"`
}

const minPasswordLength = 8

// ListUsers handles GET /api/admin/users. Admin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)

	users, err := h.queries.ListUsers(ctx, store.ListUsersParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list users")
		return
	}

	total, err := h.queries.CountUsers(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to count users")
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userToResponse(u))
	}

	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// GetUser handles GET /api/admin/users/{id}. Admin only.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
		} else {
			WriteInternalError(w, "Failed to retrieve user")
		}
		return
	}

	WriteSuccess(w, userToResponse(user), nil)
}

// CreateUser handles POST /api/admin/users. Admin only. Admin accounts are
// hotel-unbound; editors and authors must belong to a hotel.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	fieldErrors := make(map[string]string)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		fieldErrors["email"] = "A valid email is required"
	}
	if len(req.Password) < minPasswordLength {
		fieldErrors["password"] = "Password must be at least 8 characters"
	}
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !model.IsValidRole(req.Role) {
		fieldErrors["role"] = "Role must be admin, editor, or author"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	var hotelID sql.NullInt64
	if req.Role == model.RoleAdmin {
		if req.HotelID != 0 {
			WriteValidationError(w, map[string]string{"hotel_id": "Admins cannot be bound to a hotel"})
			return
		}
	} else {
		if req.HotelID == 0 {
			WriteValidationError(w, map[string]string{"hotel_id": "Editors and authors must belong to a hotel"})
			return
		}
		if _, err := h.queries.GetHotelByID(ctx, req.HotelID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteValidationError(w, map[string]string{"hotel_id": "Hotel does not exist"})
			} else {
				WriteInternalError(w, "Failed to verify hotel")
			}
			return
		}
		hotelID = sql.NullInt64{Int64: req.HotelID, Valid: true}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteInternalError(w, "Failed to create user")
		return
	}

	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Name:         req.Name,
		HotelID:      hotelID,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteValidationError(w, map[string]string{"email": "Email already in use"})
			return
		}
		WriteInternalError(w, "Failed to create user")
		return
	}

	_ = h.events.LogUserEvent(ctx, model.EventLevelInfo, "user created",
		middleware.GetUserID(r), clientIP(r),
		map[string]any{"created_user_id": user.ID, "role": user.Role})

	WriteCreated(w, userToResponse(user))
}

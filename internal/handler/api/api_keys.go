// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/roteiro-cms/roteiro/internal/middleware"
	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/store"
)

// CreateAPIKeyRequest is the request body for creating an API key.
type CreateAPIKeyRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	ExpiresAt   *string  `json:"expires_at,omitempty"` // RFC3339
}

// APIKeyResponse represents an API key in responses. Key carries the raw
// secret and is set only on creation; it is never retrievable again.
type APIKeyResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	KeyPrefix   string     `json:"key_prefix"`
	Key         string     `json:"key,omitempty"`
	Permissions []string   `json:"permissions"`
	IsActive    bool       `json:"is_active"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func apiKeyToResponse(k model.APIKey) APIKeyResponse {
	resp := APIKeyResponse{
		ID:          k.ID,
		Name:        k.Name,
		KeyPrefix:   k.KeyPrefix,
		Permissions: k.GetPermissions(),
		IsActive:    k.IsActive,
		CreatedAt:   k.CreatedAt,
	}
	if k.LastUsedAt.Valid {
		resp.LastUsedAt = &k.LastUsedAt.Time
	}
	if k.ExpiresAt.Valid {
		resp.ExpiresAt = &k.ExpiresAt.Time
	}
	return resp
}

// ListAPIKeys handles GET /api/admin/keys. Admin only.
func (h *Handler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.queries.ListAPIKeys(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list API keys")
		return
	}

	responses := make([]APIKeyResponse, 0, len(keys))
	for _, k := range keys {
		responses = append(responses, apiKeyToResponse(k))
	}

	WriteSuccess(w, responses, nil)
}

// CreateAPIKey handles POST /api/admin/keys. Admin only. The raw key appears
// once in the response and is stored only as a hash.
func (h *Handler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "Name is required"})
		return
	}

	valid := make(map[string]bool)
	for _, p := range model.AllPermissions() {
		valid[p] = true
	}
	for _, p := range req.Permissions {
		if !valid[p] {
			WriteValidationError(w, map[string]string{"permissions": "Unknown permission: " + p})
			return
		}
	}

	var expiresAt sql.NullTime
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			WriteValidationError(w, map[string]string{"expires_at": "Invalid date format. Use RFC3339"})
			return
		}
		expiresAt = sql.NullTime{Time: t, Valid: true}
	}

	rawKey, prefix, err := model.GenerateAPIKey()
	if err != nil {
		WriteInternalError(w, "Failed to generate API key")
		return
	}

	key, err := h.queries.CreateAPIKey(ctx, store.CreateAPIKeyParams{
		Name:        req.Name,
		KeyHash:     model.HashAPIKey(rawKey),
		KeyPrefix:   prefix,
		Permissions: model.PermissionsToJSON(req.Permissions),
		ExpiresAt:   expiresAt,
		CreatedBy:   middleware.GetUserID(r),
	})
	if err != nil {
		WriteInternalError(w, "Failed to create API key")
		return
	}

	_ = h.events.LogSystemEvent(ctx, model.EventLevelInfo, "api key created",
		middleware.GetUserID(r), clientIP(r),
		map[string]any{"key_id": key.ID, "name": key.Name})

	resp := apiKeyToResponse(key)
	resp.Key = rawKey

	WriteCreated(w, resp)
}

// DeactivateAPIKey handles DELETE /api/admin/keys/{id}. Admin only. Keys are
// deactivated, never deleted, so the audit trail stays intact.
func (h *Handler) DeactivateAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid key ID", nil)
		return
	}

	if err := h.queries.DeactivateAPIKey(ctx, id); err != nil {
		WriteInternalError(w, "Failed to deactivate API key")
		return
	}

	_ = h.events.LogSystemEvent(ctx, model.EventLevelInfo, "api key deactivated",
		middleware.GetUserID(r), clientIP(r), map[string]any{"key_id": id})

	w.WriteHeader(http.StatusNoContent)
}

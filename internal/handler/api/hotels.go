// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/roteiro-cms/roteiro/internal/middleware"
	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/store"
)

// HotelRequest is the request body for creating or updating a hotel.
type HotelRequest struct {
	Name         string `json:"name"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

func (req HotelRequest) validate() map[string]string {
	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if req.City == "" {
		fieldErrors["city"] = "City is required"
	}
	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// ListHotels handles GET /api/admin/hotels. Admin only.
func (h *Handler) ListHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.queries.ListHotels(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list hotels")
		return
	}
	WriteSuccess(w, hotels, nil)
}

// GetHotel handles GET /api/hotels/{id}. Admins can read any hotel; other
// users only their own.
func (h *Handler) GetHotel(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid hotel ID", nil)
		return
	}

	if !user.IsAdmin() && (!user.HotelID.Valid || user.HotelID.Int64 != id) {
		WriteForbidden(w, "Not allowed")
		return
	}

	hotel, err := h.queries.GetHotelByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Hotel not found")
		} else {
			WriteInternalError(w, "Failed to retrieve hotel")
		}
		return
	}

	WriteSuccess(w, hotel, nil)
}

// CreateHotel handles POST /api/admin/hotels. Admin only.
func (h *Handler) CreateHotel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req HotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	hotel, err := h.queries.CreateHotel(ctx, store.CreateHotelParams{
		Name:         req.Name,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create hotel")
		return
	}

	_ = h.events.LogHotelEvent(ctx, model.EventLevelInfo, "hotel created",
		middleware.GetUserID(r), clientIP(r), map[string]any{"hotel_id": hotel.ID, "name": hotel.Name})

	WriteCreated(w, hotel)
}

// UpdateHotel handles PUT /api/admin/hotels/{id}. Admin only.
func (h *Handler) UpdateHotel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid hotel ID", nil)
		return
	}

	if _, err := h.queries.GetHotelByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Hotel not found")
		} else {
			WriteInternalError(w, "Failed to retrieve hotel")
		}
		return
	}

	var req HotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	hotel, err := h.queries.UpdateHotel(ctx, store.UpdateHotelParams{
		ID:           id,
		Name:         req.Name,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update hotel")
		return
	}

	_ = h.events.LogHotelEvent(ctx, model.EventLevelInfo, "hotel updated",
		middleware.GetUserID(r), clientIP(r), map[string]any{"hotel_id": hotel.ID})

	WriteSuccess(w, hotel, nil)
}

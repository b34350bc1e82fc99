// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/roteiro-cms/roteiro/internal/ai"
	"github.com/roteiro-cms/roteiro/internal/middleware"
	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/slug"
)

// GenerateArticleRequest is the request body for POST /api/generate/article.
type GenerateArticleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Tone        string `json:"tone,omitempty"`
	Length      string `json:"length,omitempty"`
	HotelID     int64  `json:"hotel_id,omitempty"` // admins only
}

// GenerateArticleResponse carries a generated draft back to the dashboard.
// Slug is a preview; the stored slug is derived again on save.
type GenerateArticleResponse struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Body            string `json:"body"`
	Excerpt         string `json:"excerpt"`
	MetaDescription string `json:"meta_description"`
	Keywords        string `json:"keywords"`
	TokensUsed      int64  `json:"tokens_used"`
	Model           string `json:"model"`
}

// SuggestTopicsRequest is the request body for POST /api/generate/suggestions.
type SuggestTopicsRequest struct {
	Season     string `json:"season,omitempty"`
	TravelType string `json:"travel_type,omitempty"`
	Event      string `json:"event,omitempty"`
	HotelID    int64  `json:"hotel_id,omitempty"` // admins only
}

// resolveHotelContext loads the hotel the caller generates content for.
// Non-admins always use their own hotel; admins must name one.
func (h *Handler) resolveHotelContext(w http.ResponseWriter, r *http.Request, requestedID int64) (ai.HotelContext, bool) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return ai.HotelContext{}, false
	}

	hotelID := requestedID
	if !user.IsAdmin() {
		if !user.HotelID.Valid {
			WriteForbidden(w, "No hotel bound to this account")
			return ai.HotelContext{}, false
		}
		hotelID = user.HotelID.Int64
	} else if hotelID == 0 {
		WriteValidationError(w, map[string]string{"hotel_id": "Hotel ID is required for admins"})
		return ai.HotelContext{}, false
	}

	hotel, err := h.queries.GetHotelByID(r.Context(), hotelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Hotel not found")
		} else {
			WriteInternalError(w, "Failed to retrieve hotel")
		}
		return ai.HotelContext{}, false
	}

	return ai.HotelContext{
		Name:         hotel.Name,
		Neighborhood: hotel.Neighborhood,
		City:         hotel.City,
		State:        hotel.State,
	}, true
}

// GenerateArticle handles POST /api/generate/article. The draft is returned
// to the caller for review; nothing is persisted here.
func (h *Handler) GenerateArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.generator == nil {
		WriteError(w, http.StatusServiceUnavailable, "ai_not_configured",
			"Content generation is not configured", nil)
		return
	}

	var req GenerateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Title == "" {
		WriteValidationError(w, map[string]string{"title": "Title is required"})
		return
	}

	hotelCtx, ok := h.resolveHotelContext(w, r, req.HotelID)
	if !ok {
		return
	}

	article, result, err := h.generator.GenerateArticle(ctx, ai.ArticleInput{
		Title:       req.Title,
		Description: req.Description,
		Tone:        req.Tone,
		Length:      req.Length,
		Hotel:       hotelCtx,
	})
	if err != nil {
		meta := map[string]any{"title": req.Title, "error": err.Error()}
		if result != nil {
			meta["tokens"] = result.TotalTokens
		}
		_ = h.events.LogAIEvent(ctx, model.EventLevelError, "article generation failed",
			middleware.GetUserID(r), clientIP(r), meta)
		WriteError(w, http.StatusBadGateway, "generation_failed", "Content generation failed", nil)
		return
	}

	_ = h.events.LogAIEvent(ctx, model.EventLevelInfo, "article generated",
		middleware.GetUserID(r), clientIP(r),
		map[string]any{"title": article.Title, "tokens": result.TotalTokens, "model": result.Model})

	WriteSuccess(w, GenerateArticleResponse{
		Title:           article.Title,
		Slug:            slug.Normalize(article.Title),
		Body:            article.Body,
		Excerpt:         article.Excerpt,
		MetaDescription: article.MetaDescription,
		Keywords:        article.Keywords,
		TokensUsed:      result.TotalTokens,
		Model:           result.Model,
	}, nil)
}

// SuggestTopics handles POST /api/generate/suggestions.
func (h *Handler) SuggestTopics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.generator == nil {
		WriteError(w, http.StatusServiceUnavailable, "ai_not_configured",
			"Content generation is not configured", nil)
		return
	}

	var req SuggestTopicsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	hotelCtx, ok := h.resolveHotelContext(w, r, req.HotelID)
	if !ok {
		return
	}

	suggestions, result, err := h.generator.SuggestTopics(ctx, ai.SuggestionInput{
		Hotel:      hotelCtx,
		Season:     req.Season,
		TravelType: req.TravelType,
		Event:      req.Event,
	})
	if err != nil {
		_ = h.events.LogAIEvent(ctx, model.EventLevelError, "topic suggestion failed",
			middleware.GetUserID(r), clientIP(r), map[string]any{"error": err.Error()})
		WriteError(w, http.StatusBadGateway, "generation_failed", "Content generation failed", nil)
		return
	}

	_ = h.events.LogAIEvent(ctx, model.EventLevelInfo, "topics suggested",
		middleware.GetUserID(r), clientIP(r),
		map[string]any{"count": len(suggestions), "tokens": result.TotalTokens})

	WriteSuccess(w, suggestions, nil)
}

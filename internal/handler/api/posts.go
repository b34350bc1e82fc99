// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/roteiro-cms/roteiro/internal/middleware"
	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/service"
)

// PostResponse represents a post in dashboard API responses. Body is the raw
// Markdown source; the public endpoints return rendered HTML instead.
type PostResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Body            string     `json:"body"`
	Excerpt         string     `json:"excerpt,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	Keywords        string     `json:"keywords,omitempty"`
	FeaturedImage   string     `json:"featured_image,omitempty"`
	Status          string     `json:"status"`
	AuthorID        int64      `json:"author_id"`
	HotelID         int64      `json:"hotel_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

func postToResponse(p model.Post) PostResponse {
	resp := PostResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Body:            p.Body,
		Excerpt:         p.Excerpt,
		MetaDescription: p.MetaDescription,
		Keywords:        p.Keywords,
		FeaturedImage:   p.FeaturedImage,
		Status:          p.Status,
		AuthorID:        p.AuthorID,
		HotelID:         p.HotelID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.PublishedAt.Valid {
		resp.PublishedAt = &p.PublishedAt.Time
	}
	return resp
}

// CreatePostRequest is the request body for creating a post. The slug is
// derived from the title server-side and cannot be supplied.
type CreatePostRequest struct {
	Title           string `json:"title"`
	Body            string `json:"body"`
	Excerpt         string `json:"excerpt,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Keywords        string `json:"keywords,omitempty"`
	FeaturedImage   string `json:"featured_image,omitempty"`
	Status          string `json:"status,omitempty"`
	HotelID         int64  `json:"hotel_id,omitempty"` // admins only
}

// UpdatePostRequest is the request body for updating a post. Absent fields
// keep their stored values.
type UpdatePostRequest struct {
	Title           *string `json:"title,omitempty"`
	Body            *string `json:"body,omitempty"`
	Excerpt         *string `json:"excerpt,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
	Keywords        *string `json:"keywords,omitempty"`
	FeaturedImage   *string `json:"featured_image,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// ListPosts handles GET /api/posts. Admins see every hotel's posts; editors
// and authors see their own hotel only.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ac, err := middleware.GetAuthContext(r)
	if err != nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)

	posts, err := h.posts.List(ctx, ac, service.ListOptions{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		writeServiceError(w, err, "posts")
		return
	}

	var total int64
	if ac.IsAdmin() {
		total, err = h.queries.CountPosts(ctx)
	} else {
		total, err = h.queries.CountPostsByHotel(ctx, ac.HotelID)
	}
	if err != nil {
		WriteInternalError(w, "Failed to count posts")
		return
	}

	responses := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, postToResponse(p))
	}

	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// GetPost handles GET /api/posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	ac, err := middleware.GetAuthContext(r)
	if err != nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID", nil)
		return
	}

	post, err := h.posts.Get(r.Context(), ac, id)
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}

	WriteSuccess(w, postToResponse(post), nil)
}

// CreatePost handles POST /api/posts.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ac, err := middleware.GetAuthContext(r)
	if err != nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Title == "" {
		WriteValidationError(w, map[string]string{"title": "Title is required"})
		return
	}

	post, err := h.posts.Create(r.Context(), ac, service.CreatePostInput{
		Title:           req.Title,
		Body:            req.Body,
		Excerpt:         req.Excerpt,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
		FeaturedImage:   req.FeaturedImage,
		Status:          req.Status,
		HotelID:         req.HotelID,
	})
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}

	WriteCreated(w, postToResponse(post))
}

// UpdatePost handles PUT /api/posts/{id}.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ac, err := middleware.GetAuthContext(r)
	if err != nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID", nil)
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	post, err := h.posts.Update(r.Context(), ac, id, service.UpdatePostInput{
		Title:           req.Title,
		Body:            req.Body,
		Excerpt:         req.Excerpt,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
		FeaturedImage:   req.FeaturedImage,
		Status:          req.Status,
	})
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}

	WriteSuccess(w, postToResponse(post), nil)
}

// DeletePost handles DELETE /api/posts/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ac, err := middleware.GetAuthContext(r)
	if err != nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID", nil)
		return
	}

	if err := h.posts.Delete(r.Context(), ac, id); err != nil {
		writeServiceError(w, err, "post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roteiro-cms/roteiro/internal/middleware"
	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/render"
	"github.com/roteiro-cms/roteiro/internal/service"
	"github.com/roteiro-cms/roteiro/internal/store"
)

// PublicPostResponse represents a published post on the public blog. Slugs
// are globally unique, so the URL carries no hotel segment.
type PublicPostResponse struct {
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	HTML            string    `json:"html,omitempty"` // rendered body, detail only
	Excerpt         string    `json:"excerpt,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Keywords        string    `json:"keywords,omitempty"`
	FeaturedImage   string    `json:"featured_image,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
}

func publicPostToResponse(p model.Post) PublicPostResponse {
	resp := PublicPostResponse{
		Title:           p.Title,
		Slug:            p.Slug,
		Excerpt:         render.Excerpt(p.Excerpt),
		MetaDescription: p.MetaDescription,
		Keywords:        p.Keywords,
		FeaturedImage:   p.FeaturedImage,
	}
	if p.PublishedAt.Valid {
		resp.PublishedAt = p.PublishedAt.Time
	}
	return resp
}

// ListPublishedPosts handles GET /api/blog. Only published posts are visible,
// newest first, optionally filtered by keyword.
func (h *Handler) ListPublishedPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keyword := r.URL.Query().Get("keyword")
	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)

	posts, err := h.posts.ListPublished(ctx, service.ListPublishedOptions{
		Keyword: keyword,
		Limit:   int64(perPage),
		Offset:  int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list posts")
		return
	}

	responses := make([]PublicPostResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, publicPostToResponse(p))
	}

	meta := &Meta{Page: page, PerPage: perPage}
	if keyword == "" {
		total, countErr := h.queries.CountPostsByStatus(ctx, model.PostStatusPublished)
		if countErr == nil {
			meta.Total = total
			meta.Pages = totalPages(total, perPage)
		}
	}

	WriteSuccess(w, responses, meta)
}

// GetPublishedPost handles GET /api/blog/{slug}. The body is rendered from
// Markdown to sanitized HTML; cache hits skip the database entirely.
func (h *Handler) GetPublishedPost(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")
	if postSlug == "" {
		WriteBadRequest(w, "Slug is required", nil)
		return
	}

	post, err := h.posts.GetPublishedBySlug(r.Context(), postSlug)
	if err != nil {
		writeServiceError(w, err, "post")
		return
	}

	html, err := render.Markdown(post.Body)
	if err != nil {
		WriteInternalError(w, "Failed to render post")
		return
	}

	resp := publicPostToResponse(post)
	resp.HTML = html

	WriteSuccess(w, resp, nil)
}

// IntegrationListPosts handles GET /api/v1/posts for API key callers.
// Requires posts:read; unlike the public blog it includes drafts.
func (h *Handler) IntegrationListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)

	posts, err := h.queries.ListPosts(ctx, store.ListPostsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list posts")
		return
	}

	total, err := h.queries.CountPosts(ctx)
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

// IntegrationGetPost handles GET /api/v1/posts/{id} for API key callers.
func (h *Handler) IntegrationGetPost(w http.ResponseWriter, r *http.Request) {
	if key := middleware.GetAPIKey(r); key == nil {
		WriteUnauthorized(w, "API key required")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID", nil)
		return
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Post not found")
		} else {
			WriteInternalError(w, "Failed to retrieve post")
		}
		return
	}

	WriteSuccess(w, postToResponse(post), nil)
}

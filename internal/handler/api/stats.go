// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/roteiro-cms/roteiro/internal/model"
)

// StatsResponse summarizes content and account counts for the admin
// dashboard.
type StatsResponse struct {
	Posts          int64 `json:"posts"`
	PublishedPosts int64 `json:"published_posts"`
	DraftPosts     int64 `json:"draft_posts"`
	Users          int64 `json:"users"`
	Hotels         int64 `json:"hotels"`
}

// AdminStats handles GET /api/admin/stats. Admin only.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		resp StatsResponse
		err  error
	)
	if resp.Posts, err = h.queries.CountPosts(ctx); err != nil {
		WriteInternalError(w, "Failed to collect stats")
		return
	}
	if resp.PublishedPosts, err = h.queries.CountPostsByStatus(ctx, model.PostStatusPublished); err != nil {
		WriteInternalError(w, "Failed to collect stats")
		return
	}
	if resp.DraftPosts, err = h.queries.CountPostsByStatus(ctx, model.PostStatusDraft); err != nil {
		WriteInternalError(w, "Failed to collect stats")
		return
	}
	if resp.Users, err = h.queries.CountUsers(ctx); err != nil {
		WriteInternalError(w, "Failed to collect stats")
		return
	}
	if resp.Hotels, err = h.queries.CountHotels(ctx); err != nil {
		WriteInternalError(w, "Failed to collect stats")
		return
	}

	WriteSuccess(w, resp, nil)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/testutil"
)

func TestAdminStats(t *testing.T) {
	h, db := newTestHandler(t)
	hotel := testutil.CreateHotel(t, db, "Pousada Mar Azul")
	admin := testutil.CreateUser(t, db, "admin@example.com", model.RoleAdmin, 0)
	editor := testutil.CreateUser(t, db, "editor@example.com", model.RoleEditor, hotel.ID)

	publishPost(t, h, editor, "Publicado")
	createPostRequest(t, h, editor, "Rascunho")

	r := withUser(httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil), admin)
	w := httptest.NewRecorder()
	h.AdminStats(w, r)

	assertStatus(t, w, http.StatusOK)
	var resp StatsResponse
	decodeData(t, w, &resp)
	if resp.Posts != 2 {
		t.Errorf("posts = %d, want 2", resp.Posts)
	}
	if resp.PublishedPosts != 1 {
		t.Errorf("published = %d, want 1", resp.PublishedPosts)
	}
	if resp.DraftPosts != 1 {
		t.Errorf("drafts = %d, want 1", resp.DraftPosts)
	}
	if resp.Users != 2 {
		t.Errorf("users = %d, want 2", resp.Users)
	}
	if resp.Hotels != 1 {
		t.Errorf("hotels = %d, want 1", resp.Hotels)
	}
}

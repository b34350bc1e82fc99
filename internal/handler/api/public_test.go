// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/roteiro-cms/roteiro/internal/middleware"
	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/testutil"
)

// publishPost creates a post and flips it to published through the handlers.
func publishPost(t *testing.T, h *Handler, user model.User, title string) PostResponse {
	t.Helper()

	created := createPostRequest(t, h, user, title)

	r := withUser(httptest.NewRequest(http.MethodPut, "/api/posts/1",
		strings.NewReader(`{"status": "published"}`)), user)
	r = withURLParam(r, "id", fmt.Sprintf("%d", created.ID))
	w := httptest.NewRecorder()
	h.UpdatePost(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("publishing post %q: status %d (body: %s)", title, w.Code, w.Body.String())
	}
	var resp PostResponse
	decodeData(t, w, &resp)
	return resp
}

func TestListPublishedPosts(t *testing.T) {
	h, db := newTestHandler(t)
	hotel := testutil.CreateHotel(t, db, "Pousada Mar Azul")
	editor := testutil.CreateUser(t, db, "editor@example.com", model.RoleEditor, hotel.ID)

	publishPost(t, h, editor, "Verão na Lagoa")
	createPostRequest(t, h, editor, "Rascunho invisível")

	w := httptest.NewRecorder()
	h.ListPublishedPosts(w, httptest.NewRequest(http.MethodGet, "/api/blog", nil))

	assertStatus(t, w, http.StatusOK)
	var posts []PublicPostResponse
	meta := decodeData(t, w, &posts)
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1 (drafts must stay hidden)", len(posts))
	}
	if posts[0].Slug != "verao-na-lagoa" {
		t.Errorf("slug = %q, want verao-na-lagoa", posts[0].Slug)
	}
	if posts[0].HTML != "" {
		t.Error("list responses should not carry rendered HTML")
	}
	if meta == nil || meta.Total != 1 {
		t.Errorf("meta = %+v, want total 1", meta)
	}
}

func TestListPublishedPostsKeyword(t *testing.T) {
	h, db := newTestHandler(t)
	hotel := testutil.CreateHotel(t, db, "Pousada Mar Azul")
	editor := testutil.CreateUser(t, db, "editor@example.com", model.RoleEditor, hotel.ID)

	body := `{"title": "Trilhas na Serra do Tabuleiro", "body": "texto", "keywords": "trilhas, natureza", "status": "published"}`
	r := withUser(httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body)), editor)
	cw := httptest.NewRecorder()
	h.CreatePost(cw, r)
	if cw.Code != http.StatusCreated {
		t.Fatalf("creating keyword post: status %d (body: %s)", cw.Code, cw.Body.String())
	}
	publishPost(t, h, editor, "Gastronomia açoriana")

	w := httptest.NewRecorder()
	h.ListPublishedPosts(w, httptest.NewRequest(http.MethodGet, "/api/blog?keyword=trilhas", nil))

	assertStatus(t, w, http.StatusOK)
	var posts []PublicPostResponse
	decodeData(t, w, &posts)
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	if !strings.Contains(posts[0].Title, "Trilhas") {
		t.Errorf("title = %q, want the trail post", posts[0].Title)
	}
}

func TestGetPublishedPost(t *testing.T) {
	h, db := newTestHandler(t)
	hotel := testutil.CreateHotel(t, db, "Pousada Mar Azul")
	editor := testutil.CreateUser(t, db, "editor@example.com", model.RoleEditor, hotel.ID)

	published := publishPost(t, h, editor, "Roteiro de um fim de semana")

	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/blog/"+published.Slug, nil), "slug", published.Slug)
	w := httptest.NewRecorder()
	h.GetPublishedPost(w, r)

	assertStatus(t, w, http.StatusOK)
	var resp PublicPostResponse
	decodeData(t, w, &resp)
	if resp.Slug != published.Slug {
		t.Errorf("slug = %q, want %q", resp.Slug, published.Slug)
	}
	if !strings.Contains(resp.HTML, "<p>") {
		t.Errorf("body not rendered to HTML: %q", resp.HTML)
	}
	if resp.PublishedAt.IsZero() {
		t.Error("published_at should be set")
	}
}

func TestGetPublishedPostDraftHidden(t *testing.T) {
	h, db := newTestHandler(t)
	hotel := testutil.CreateHotel(t, db, "Pousada Mar Azul")
	editor := testutil.CreateUser(t, db, "editor@example.com", model.RoleEditor, hotel.ID)

	draft := createPostRequest(t, h, editor, "Ainda não publicado")

	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/blog/"+draft.Slug, nil), "slug", draft.Slug)
	w := httptest.NewRecorder()
	h.GetPublishedPost(w, r)

	assertStatus(t, w, http.StatusNotFound)
}

func TestIntegrationGetPostMissing(t *testing.T) {
	h, _ := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/posts/42", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyAPIKey, model.APIKey{ID: 1, Name: "site"}))
	r = withURLParam(r, "id", "42")
	w := httptest.NewRecorder()
	h.IntegrationGetPost(w, r)

	assertStatus(t, w, http.StatusNotFound)
	assertErrorCode(t, w, "not_found")
}

func TestIntegrationGetPostStoreFailure(t *testing.T) {
	h, db := newTestHandler(t)
	if err := db.Close(); err != nil {
		t.Fatalf("closing database: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/posts/42", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyAPIKey, model.APIKey{ID: 1, Name: "site"}))
	r = withURLParam(r, "id", "42")
	w := httptest.NewRecorder()
	h.IntegrationGetPost(w, r)

	assertStatus(t, w, http.StatusInternalServerError)
	assertErrorCode(t, w, "internal_error")
}

func TestGetPublishedPostMissingSlug(t *testing.T) {
	h, _ := newTestHandler(t)

	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/blog/", nil), "slug", "")
	w := httptest.NewRecorder()
	h.GetPublishedPost(w, r)

	assertStatus(t, w, http.StatusBadRequest)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roteiro-cms/roteiro/internal/authz"
	"github.com/roteiro-cms/roteiro/internal/model"
)

func TestGetUser(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		user := GetUser(req)
		if user != nil {
			t.Errorf("GetUser() = %v, want nil", user)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{
			ID:    123,
			Email: "test@example.com",
			Role:  model.RoleAdmin,
			Name:  "Test User",
		}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		user := GetUser(req)
		if user == nil {
			t.Fatal("GetUser() = nil, want user")
		}
		if user.ID != 123 {
			t.Errorf("GetUser().ID = %d, want 123", user.ID)
		}
		if user.Email != "test@example.com" {
			t.Errorf("GetUser().Email = %q, want %q", user.Email, "test@example.com")
		}
	})
}

func TestGetUserID(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		id := GetUserID(req)
		if id != 0 {
			t.Errorf("GetUserID() = %d, want 0", id)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{ID: 456}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		id := GetUserID(req)
		if id != 456 {
			t.Errorf("GetUserID() = %d, want 456", id)
		}
	})
}

func TestGetAuthContext(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := GetAuthContext(req)
		if err != authz.ErrUnauthenticated {
			t.Errorf("GetAuthContext() error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("admin without hotel", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{ID: 1, Role: model.RoleAdmin}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		ac, err := GetAuthContext(req)
		if err != nil {
			t.Fatalf("GetAuthContext() error = %v", err)
		}
		if !ac.IsAdmin() {
			t.Error("expected admin auth context")
		}
	})

	t.Run("author with hotel", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{
			ID:      7,
			Role:    model.RoleAuthor,
			HotelID: sql.NullInt64{Int64: 3, Valid: true},
		}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		ac, err := GetAuthContext(req)
		if err != nil {
			t.Fatalf("GetAuthContext() error = %v", err)
		}
		if ac.PrincipalID != 7 || ac.HotelID != 3 {
			t.Errorf("GetAuthContext() = %+v, want principal 7 hotel 3", ac)
		}
	})

	t.Run("editor without hotel is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{ID: 2, Role: model.RoleEditor}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		_, err := GetAuthContext(req)
		if err != authz.ErrUnauthenticated {
			t.Errorf("GetAuthContext() error = %v, want ErrUnauthenticated", err)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := RequireAdmin()(handler)

	t.Run("no user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		rr := httptest.NewRecorder()

		wrapped.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("non-admin user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		testUser := model.User{ID: 5, Role: model.RoleEditor}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)
		rr := httptest.NewRecorder()

		wrapped.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusForbidden)
		}
	})

	t.Run("admin user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		testUser := model.User{ID: 1, Role: model.RoleAdmin}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)
		rr := httptest.NewRecorder()

		wrapped.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
		}
	})
}

func TestRequestPath(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := GetRequestPath(r.Context())
		_, _ = w.Write([]byte(path))
	})

	wrapped := RequestPath(handler)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/posts", nil)
	rr := httptest.NewRecorder()

	wrapped.ServeHTTP(rr, req)

	if body := rr.Body.String(); body != "/dashboard/posts" {
		t.Errorf("GetRequestPath() = %q, want %q", body, "/dashboard/posts")
	}
}

func TestGetRequestPath(t *testing.T) {
	t.Run("no path in context", func(t *testing.T) {
		ctx := context.Background()
		path := GetRequestPath(ctx)
		if path != "" {
			t.Errorf("GetRequestPath() = %q, want empty", path)
		}
	})

	t.Run("path in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ContextKeyRequestPath, "/test/path")
		path := GetRequestPath(ctx)
		if path != "/test/path" {
			t.Errorf("GetRequestPath() = %q, want %q", path, "/test/path")
		}
	})
}

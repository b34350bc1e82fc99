// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/testutil"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func createUserHTTP(t *testing.T, h *Handler, admin model.User, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := withUser(httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(body)), admin)
	w := httptest.NewRecorder()
	h.CreateUser(w, r)
	return w
}

func TestCreateUserEditor(t *testing.T) {
	h, db := newTestHandler(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", model.RoleAdmin, 0)
	hotel := testutil.CreateHotel(t, db, "Pousada Mar Azul")

	body := `{"email": "Nova@Example.com", "password": "segredo-forte", "name": "Nova Editora",
		"role": "editor", "hotel_id": ` + itoa(hotel.ID) + `}`
	w := createUserHTTP(t, h, admin, body)

	assertStatus(t, w, http.StatusCreated)
	var resp UserResponse
	decodeData(t, w, &resp)
	if resp.Email != "nova@example.com" {
		t.Errorf("email = %q, want lowercased", resp.Email)
	}
	if resp.Role != model.RoleEditor {
		t.Errorf("role = %q", resp.Role)
	}
	if resp.HotelID == nil || *resp.HotelID != hotel.ID {
		t.Errorf("hotel_id = %v, want %d", resp.HotelID, hotel.ID)
	}
}

func TestCreateUserValidation(t *testing.T) {
	h, db := newTestHandler(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", model.RoleAdmin, 0)
	hotel := testutil.CreateHotel(t, db, "Pousada Mar Azul")

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email": "not-an-email", "password": "segredo-forte", "name": "X", "role": "editor", "hotel_id": ` + itoa(hotel.ID) + `}`},
		{"short password", `{"email": "a@b.com", "password": "curta", "name": "X", "role": "editor", "hotel_id": ` + itoa(hotel.ID) + `}`},
		{"bad role", `{"email": "a@b.com", "password": "segredo-forte", "name": "X", "role": "owner"}`},
		{"admin with hotel", `{"email": "a@b.com", "password": "segredo-forte", "name": "X", "role": "admin", "hotel_id": ` + itoa(hotel.ID) + `}`},
		{"editor without hotel", `{"email": "a@b.com", "password": "segredo-forte", "name": "X", "role": "editor"}`},
		{"editor with ghost hotel", `{"email": "a@b.com", "password": "segredo-forte", "name": "X", "role": "editor", "hotel_id": 99}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createUserHTTP(t, h, admin, tt.body)
			assertStatus(t, w, http.StatusUnprocessableEntity)
			assertErrorCode(t, w, "validation_error")
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	h, db := newTestHandler(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", model.RoleAdmin, 0)
	hotel := testutil.CreateHotel(t, db, "Pousada Mar Azul")
	testutil.CreateUser(t, db, "taken@example.com", model.RoleEditor, hotel.ID)

	body := `{"email": "taken@example.com", "password": "segredo-forte", "name": "Duplicada",
		"role": "editor", "hotel_id": ` + itoa(hotel.ID) + `}`
	w := createUserHTTP(t, h, admin, body)

	assertStatus(t, w, http.StatusUnprocessableEntity)
	resp := assertErrorCode(t, w, "validation_error")
	if resp.Error.Details["email"] == "" {
		t.Errorf("details = %v, want email error", resp.Error.Details)
	}
}

func TestListUsers(t *testing.T) {
	h, db := newTestHandler(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", model.RoleAdmin, 0)
	hotel := testutil.CreateHotel(t, db, "Pousada Mar Azul")
	testutil.CreateUser(t, db, "one@example.com", model.RoleEditor, hotel.ID)
	testutil.CreateUser(t, db, "two@example.com", model.RoleAuthor, hotel.ID)

	r := withUser(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil), admin)
	w := httptest.NewRecorder()
	h.ListUsers(w, r)

	assertStatus(t, w, http.StatusOK)
	var users []UserResponse
	meta := decodeData(t, w, &users)
	if len(users) != 3 {
		t.Errorf("got %d users, want 3", len(users))
	}
	if meta == nil || meta.Total != 3 {
		t.Errorf("meta = %+v, want total 3", meta)
	}
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Email), "password") {
			t.Errorf("unexpected field content in %q", u.Email)
		}
	}
}

func TestGetUserNotFound(t *testing.T) {
	h, db := newTestHandler(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", model.RoleAdmin, 0)

	r := withUser(httptest.NewRequest(http.MethodGet, "/api/admin/users/77", nil), admin)
	r = withURLParam(r, "id", "77")
	w := httptest.NewRecorder()
	h.GetUser(w, r)

	assertStatus(t, w, http.StatusNotFound)
}

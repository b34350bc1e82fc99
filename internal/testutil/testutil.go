// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the roteiro project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// Cleanup is registered on t.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "roteiro-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// CreateHotel inserts a hotel and returns it.
func CreateHotel(t *testing.T, db *sql.DB, name string) model.Hotel {
	t.Helper()

	hotel, err := store.New(db).CreateHotel(context.Background(), store.CreateHotelParams{
		Name: name, Neighborhood: "Lagoa da Conceição", City: "Florianópolis", State: "SC", Country: "BR",
	})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	return hotel
}

// CreateUser inserts a user with the given role and hotel binding (0 for none).
func CreateUser(t *testing.T, db *sql.DB, email, role string, hotelID int64) model.User {
	t.Helper()

	params := store.CreateUserParams{
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$dGVzdHNhbHQxMjM0NTY$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		Role:         role,
		Name:         email,
	}
	if hotelID > 0 {
		params.HotelID = sql.NullInt64{Int64: hotelID, Valid: true}
	}

	user, err := store.New(db).CreateUser(context.Background(), params)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

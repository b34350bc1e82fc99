// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roteiro-cms/roteiro/internal/auth"
	"github.com/roteiro-cms/roteiro/internal/model"
)

// Default admin credentials, intended to be changed on first login.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates initial data in the database: a default admin account and, in
// demo deployments, an example hotel with an editor account.
func Seed(ctx context.Context, db *sql.DB, withDemo bool) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	admin, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		Name:         DefaultAdminName,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", admin.ID,
		"email", admin.Email,
	)

	if !withDemo {
		return nil
	}

	hotel, err := queries.CreateHotel(ctx, CreateHotelParams{
		Name:         "Pousada Mar Azul",
		Neighborhood: "Lagoa da Conceição",
		City:         "Florianópolis",
		State:        "SC",
		Country:      "BR",
	})
	if err != nil {
		return fmt.Errorf("creating demo hotel: %w", err)
	}

	editorHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	_, err = queries.CreateUser(ctx, CreateUserParams{
		Email:        "editor@example.com",
		PasswordHash: editorHash,
		Role:         model.RoleEditor,
		Name:         "Demo Editor",
		HotelID:      sql.NullInt64{Int64: hotel.ID, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("creating demo editor: %w", err)
	}

	slog.Info("seeded demo hotel", "hotel_id", hotel.ID, "name", hotel.Name)
	return nil
}

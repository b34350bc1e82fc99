// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application
// including User, Hotel, Post, and audit event structures.
package model

import (
	"database/sql"
	"time"
)

// User roles. Admins are unbound from any hotel; editors and authors belong to
// exactly one hotel.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleAuthor = "author"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleAdmin, RoleEditor, RoleAuthor}

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a staff account.
type User struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"` // Never expose in JSON
	Role         string        `json:"role"`
	Name         string        `json:"name"`
	HotelID      sql.NullInt64 `json:"hotel_id,omitempty"` // NULL only for admins
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	LastLoginAt  sql.NullTime  `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsEditor returns true if the user has editor role.
func (u *User) IsEditor() bool {
	return u.Role == RoleEditor
}

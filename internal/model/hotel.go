// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Hotel represents a tenant: an isolated organizational scope that owns its
// own posts and hotel-bound staff accounts.
type Hotel struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Neighborhood string    `json:"neighborhood"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

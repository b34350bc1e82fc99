// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/roteiro-cms/roteiro/internal/model"
)

const hotelColumns = `id, name, neighborhood, city, state, country, created_at, updated_at`

func scanHotel(row *sql.Row) (model.Hotel, error) {
	var h model.Hotel
	err := row.Scan(&h.ID, &h.Name, &h.Neighborhood, &h.City, &h.State, &h.Country, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

// CreateHotelParams holds the fields for CreateHotel.
type CreateHotelParams struct {
	Name         string
	Neighborhood string
	City         string
	State        string
	Country      string
}

// CreateHotel inserts a new hotel and returns the stored row.
func (q *Queries) CreateHotel(ctx context.Context, arg CreateHotelParams) (model.Hotel, error) {
	now := time.Now()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO hotels (name, neighborhood, city, state, country, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+hotelColumns,
		arg.Name, arg.Neighborhood, arg.City, arg.State, arg.Country, now, now)
	return scanHotel(row)
}

// GetHotelByID fetches a hotel by primary key.
func (q *Queries) GetHotelByID(ctx context.Context, id int64) (model.Hotel, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id = ?`, id)
	return scanHotel(row)
}

// ListHotels returns all hotels ordered by name.
func (q *Queries) ListHotels(ctx context.Context) ([]model.Hotel, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+hotelColumns+` FROM hotels ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []model.Hotel
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Neighborhood, &h.City, &h.State, &h.Country, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

// UpdateHotelParams holds the fields for UpdateHotel.
type UpdateHotelParams struct {
	ID           int64
	Name         string
	Neighborhood string
	City         string
	State        string
	Country      string
}

// UpdateHotel updates a hotel's attributes and returns the stored row.
func (q *Queries) UpdateHotel(ctx context.Context, arg UpdateHotelParams) (model.Hotel, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE hotels SET name = ?, neighborhood = ?, city = ?, state = ?, country = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+hotelColumns,
		arg.Name, arg.Neighborhood, arg.City, arg.State, arg.Country, time.Now(), arg.ID)
	return scanHotel(row)
}

// CountHotels returns the total number of hotels.
func (q *Queries) CountHotels(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hotels`).Scan(&n)
	return n, err
}

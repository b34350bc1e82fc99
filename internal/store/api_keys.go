// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/roteiro-cms/roteiro/internal/model"
)

const apiKeyColumns = `id, name, key_hash, key_prefix, permissions, last_used_at,
	expires_at, is_active, created_by, created_at, updated_at`

func scanAPIKey(row *sql.Row) (model.APIKey, error) {
	var k model.APIKey
	err := row.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Permissions,
		&k.LastUsedAt, &k.ExpiresAt, &k.IsActive, &k.CreatedBy, &k.CreatedAt, &k.UpdatedAt)
	return k, err
}

// CreateAPIKeyParams holds the fields for CreateAPIKey.
type CreateAPIKeyParams struct {
	Name        string
	KeyHash     string
	KeyPrefix   string
	Permissions string
	ExpiresAt   sql.NullTime
	CreatedBy   int64
}

// CreateAPIKey inserts a new API key and returns the stored row.
func (q *Queries) CreateAPIKey(ctx context.Context, arg CreateAPIKeyParams) (model.APIKey, error) {
	now := time.Now()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO api_keys (name, key_hash, key_prefix, permissions, expires_at,
			is_active, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?)
		RETURNING `+apiKeyColumns,
		arg.Name, arg.KeyHash, arg.KeyPrefix, arg.Permissions, arg.ExpiresAt,
		arg.CreatedBy, now, now)
	return scanAPIKey(row)
}

// GetAPIKeyByHash fetches an API key by its hash.
func (q *Queries) GetAPIKeyByHash(ctx context.Context, keyHash string) (model.APIKey, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = ?`, keyHash)
	return scanAPIKey(row)
}

// ListAPIKeys returns all API keys, newest first.
func (q *Queries) ListAPIKeys(ctx context.Context) ([]model.APIKey, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []model.APIKey
	for rows.Next() {
		var k model.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Permissions,
			&k.LastUsedAt, &k.ExpiresAt, &k.IsActive, &k.CreatedBy, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// TouchAPIKey stamps the key's last-used time.
func (q *Queries) TouchAPIKey(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// DeactivateAPIKey disables an API key without deleting it.
func (q *Queries) DeactivateAPIKey(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE api_keys SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

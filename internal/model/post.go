// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Post statuses. Transitions are caller-driven; nothing moves a post between
// states automatically.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// ValidPostStatuses contains all valid post statuses.
var ValidPostStatuses = []string{PostStatusDraft, PostStatusPublished, PostStatusArchived}

// IsValidPostStatus reports whether status is one of the known post statuses.
func IsValidPostStatus(status string) bool {
	for _, s := range ValidPostStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Post represents a blog post owned by exactly one hotel and written by
// exactly one author.
type Post struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Slug            string       `json:"slug"`
	Body            string       `json:"body"` // Markdown source
	Excerpt         string       `json:"excerpt"`
	MetaDescription string       `json:"meta_description"`
	Keywords        string       `json:"keywords"`
	FeaturedImage   string       `json:"featured_image,omitempty"`
	Status          string       `json:"status"`
	AuthorID        int64        `json:"author_id"`
	HotelID         int64        `json:"hotel_id"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	PublishedAt     sql.NullTime `json:"published_at,omitempty"`
}

// IsPublished returns true if the post is published.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsDraft returns true if the post is a draft.
func (p *Post) IsDraft() bool {
	return p.Status == PostStatusDraft
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/roteiro-cms/roteiro/internal/model"
)

const postColumns = `id, title, slug, body, excerpt, meta_description, keywords,
	featured_image, status, author_id, hotel_id, created_at, updated_at, published_at`

func scanPost(row *sql.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Excerpt, &p.MetaDescription,
		&p.Keywords, &p.FeaturedImage, &p.Status, &p.AuthorID, &p.HotelID,
		&p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)
	return p, err
}

func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Excerpt, &p.MetaDescription,
			&p.Keywords, &p.FeaturedImage, &p.Status, &p.AuthorID, &p.HotelID,
			&p.CreatedAt, &p.UpdatedAt, &p.PublishedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CreatePostParams holds the fields for CreatePost.
type CreatePostParams struct {
	Title           string
	Slug            string
	Body            string
	Excerpt         string
	MetaDescription string
	Keywords        string
	FeaturedImage   string
	Status          string
	AuthorID        int64
	HotelID         int64
	PublishedAt     sql.NullTime
}

// CreatePost inserts a new post and returns the stored row. A duplicate slug
// fails with the posts.slug UNIQUE constraint; see IsUniqueViolation.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	now := time.Now()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, body, excerpt, meta_description, keywords,
			featured_image, status, author_id, hotel_id, created_at, updated_at, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postColumns,
		arg.Title, arg.Slug, arg.Body, arg.Excerpt, arg.MetaDescription, arg.Keywords,
		arg.FeaturedImage, arg.Status, arg.AuthorID, arg.HotelID, now, now, arg.PublishedAt)
	return scanPost(row)
}

// GetPostByID fetches a post by primary key.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// GetPublishedPostBySlug fetches a published post by slug. Drafts and
// archived posts are invisible on this path.
func (q *Queries) GetPublishedPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+postColumns+` FROM posts WHERE slug = ? AND status = ?`,
		slug, model.PostStatusPublished)
	return scanPost(row)
}

// SlugExistsParams holds the arguments for SlugExists.
type SlugExistsParams struct {
	Slug      string
	ExcludeID int64 // 0 means exclude nothing
}

// SlugExists reports whether a slug is already taken, optionally ignoring one
// row (the post being updated).
func (q *Queries) SlugExists(ctx context.Context, arg SlugExistsParams) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE slug = ? AND id != ?`,
		arg.Slug, arg.ExcludeID).Scan(&n)
	return n > 0, err
}

// ListPostsParams holds pagination for post listings.
type ListPostsParams struct {
	Limit  int64
	Offset int64
}

// ListPosts returns all posts, newest first.
func (q *Queries) ListPosts(ctx context.Context, arg ListPostsParams) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// ListPostsByHotelParams holds the arguments for ListPostsByHotel.
type ListPostsByHotelParams struct {
	HotelID int64
	Limit   int64
	Offset  int64
}

// ListPostsByHotel returns a hotel's posts, newest first.
func (q *Queries) ListPostsByHotel(ctx context.Context, arg ListPostsByHotelParams) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts WHERE hotel_id = ?
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, arg.HotelID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// ListPublishedPostsParams holds the arguments for ListPublishedPosts.
type ListPublishedPostsParams struct {
	Keyword string // optional substring match against keywords
	Limit   int64
	Offset  int64
}

// ListPublishedPosts returns published posts for the public blog, newest
// first, optionally filtered by keyword.
func (q *Queries) ListPublishedPosts(ctx context.Context, arg ListPublishedPostsParams) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE status = ?`
	args := []any{model.PostStatusPublished}
	if arg.Keyword != "" {
		query += ` AND keywords LIKE ?`
		args = append(args, "%"+arg.Keyword+"%")
	}
	query += ` ORDER BY published_at DESC, created_at DESC LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// UpdatePostParams holds the fields for UpdatePost.
type UpdatePostParams struct {
	ID              int64
	Title           string
	Slug            string
	Body            string
	Excerpt         string
	MetaDescription string
	Keywords        string
	FeaturedImage   string
	Status          string
	PublishedAt     sql.NullTime
}

// UpdatePost updates a post's content fields and returns the stored row.
// Author and hotel bindings never change on update.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE posts SET title = ?, slug = ?, body = ?, excerpt = ?,
			meta_description = ?, keywords = ?, featured_image = ?, status = ?,
			published_at = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+postColumns,
		arg.Title, arg.Slug, arg.Body, arg.Excerpt, arg.MetaDescription,
		arg.Keywords, arg.FeaturedImage, arg.Status, arg.PublishedAt,
		time.Now(), arg.ID)
	return scanPost(row)
}

// DeletePost removes a post.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// CountPostsByStatus returns the number of posts in the given status.
func (q *Queries) CountPostsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE status = ?`, status).Scan(&n)
	return n, err
}

// CountPostsByHotel returns the number of posts owned by a hotel.
func (q *Queries) CountPostsByHotel(ctx context.Context, hotelID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE hotel_id = ?`, hotelID).Scan(&n)
	return n, err
}

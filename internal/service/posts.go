// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roteiro-cms/roteiro/internal/authz"
	"github.com/roteiro-cms/roteiro/internal/cache"
	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/slug"
	"github.com/roteiro-cms/roteiro/internal/store"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("service: not found")

// ErrInvalidInput is returned for malformed or missing input fields.
// Wrapped errors carry the field detail.
var ErrInvalidInput = errors.New("service: invalid input")

// ForbiddenError is returned when an authorization check denies the operation.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "service: forbidden: " + e.Reason
}

// IsForbidden reports whether err is an authorization denial.
func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

// Listing limits.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func clampLimit(limit int64) int64 {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// PostService is the single write path for posts. Every dashboard operation
// goes through the same authorization check and slug allocation, so no handler
// can bypass tenant isolation.
type PostService struct {
	queries   *store.Queries
	allocator *slug.Allocator
	postCache *cache.PostCache // optional, may be nil
	events    *EventService    // optional, may be nil
}

// NewPostService creates a PostService backed by the given database.
func NewPostService(db *sql.DB, postCache *cache.PostCache, events *EventService) *PostService {
	queries := store.New(db)

	allocator := slug.NewAllocator(func(ctx context.Context, s string, _ int64, excludeID int64) (bool, error) {
		return queries.SlugExists(ctx, store.SlugExistsParams{Slug: s, ExcludeID: excludeID})
	})

	return &PostService{
		queries:   queries,
		allocator: allocator,
		postCache: postCache,
		events:    events,
	}
}

// CreatePostInput holds the fields for creating a post.
type CreatePostInput struct {
	Title           string
	Body            string
	Excerpt         string
	MetaDescription string
	Keywords        string
	FeaturedImage   string
	Status          string
	HotelID         int64 // only honored for admins; others are bound to their own hotel
}

// Create creates a post for the caller's hotel. Admins must name a target
// hotel explicitly since they carry no hotel binding of their own.
func (s *PostService) Create(ctx context.Context, ac authz.AuthContext, in CreatePostInput) (model.Post, error) {
	hotelID := ac.HotelID
	if ac.IsAdmin() {
		hotelID = in.HotelID
		if hotelID <= 0 {
			return model.Post{}, fmt.Errorf("%w: hotel_id is required for admin-created posts", ErrInvalidInput)
		}
	}

	if d := authz.Authorize(ac, authz.ActionCreate, authz.Target{HotelID: hotelID}); !d.Allowed {
		return model.Post{}, &ForbiddenError{Reason: d.Reason}
	}

	if in.Title == "" {
		return model.Post{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = model.PostStatusDraft
	}
	if !model.IsValidPostStatus(status) {
		return model.Post{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	var publishedAt sql.NullTime
	if status == model.PostStatusPublished {
		publishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	candidate := slug.Normalize(in.Title)

	var created model.Post
	_, err := s.allocator.AllocateForInsert(ctx, candidate, slug.ScopeGlobal, store.IsUniqueViolation,
		func(ctx context.Context, allocated string) error {
			var insertErr error
			created, insertErr = s.queries.CreatePost(ctx, store.CreatePostParams{
				Title:           in.Title,
				Slug:            allocated,
				Body:            in.Body,
				Excerpt:         in.Excerpt,
				MetaDescription: in.MetaDescription,
				Keywords:        in.Keywords,
				FeaturedImage:   in.FeaturedImage,
				Status:          status,
				AuthorID:        ac.PrincipalID,
				HotelID:         hotelID,
				PublishedAt:     publishedAt,
			})
			return insertErr
		})
	if err != nil {
		return model.Post{}, fmt.Errorf("creating post: %w", err)
	}

	if s.events != nil {
		_ = s.events.LogPostEvent(ctx, model.EventLevelInfo, "post created", ac.PrincipalID, "",
			map[string]any{"post_id": created.ID, "slug": created.Slug, "hotel_id": created.HotelID})
	}

	return created, nil
}

// Get fetches a post the caller is allowed to read.
func (s *PostService) Get(ctx context.Context, ac authz.AuthContext, id int64) (model.Post, error) {
	post, err := s.queries.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, ErrNotFound
		}
		return model.Post{}, fmt.Errorf("fetching post %d: %w", id, err)
	}

	if d := authz.Authorize(ac, authz.ActionRead, authz.Target{HotelID: post.HotelID, AuthorID: post.AuthorID}); !d.Allowed {
		return model.Post{}, &ForbiddenError{Reason: d.Reason}
	}

	return post, nil
}

// ListOptions holds pagination for dashboard listings.
type ListOptions struct {
	Limit  int64
	Offset int64
}

// List returns the posts visible to the caller: every post for admins, the
// caller's hotel for everyone else.
func (s *PostService) List(ctx context.Context, ac authz.AuthContext, opts ListOptions) ([]model.Post, error) {
	limit := clampLimit(opts.Limit)

	if ac.IsAdmin() {
		return s.queries.ListPosts(ctx, store.ListPostsParams{Limit: limit, Offset: opts.Offset})
	}

	if d := authz.Authorize(ac, authz.ActionListAll, authz.Target{HotelID: ac.HotelID}); !d.Allowed {
		return nil, &ForbiddenError{Reason: d.Reason}
	}

	return s.queries.ListPostsByHotel(ctx, store.ListPostsByHotelParams{
		HotelID: ac.HotelID,
		Limit:   limit,
		Offset:  opts.Offset,
	})
}

// UpdatePostInput holds the patchable fields of a post. Nil fields are left
// unchanged.
type UpdatePostInput struct {
	Title           *string
	Body            *string
	Excerpt         *string
	MetaDescription *string
	Keywords        *string
	FeaturedImage   *string
	Status          *string
}

// Update applies a partial update to a post. The slug is re-derived only when
// the title actually changes; saving a post with an unchanged title keeps its
// slug and therefore its public URL.
func (s *PostService) Update(ctx context.Context, ac authz.AuthContext, id int64, in UpdatePostInput) (model.Post, error) {
	existing, err := s.queries.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, ErrNotFound
		}
		return model.Post{}, fmt.Errorf("fetching post %d: %w", id, err)
	}

	if d := authz.Authorize(ac, authz.ActionUpdate, authz.Target{HotelID: existing.HotelID, AuthorID: existing.AuthorID}); !d.Allowed {
		return model.Post{}, &ForbiddenError{Reason: d.Reason}
	}

	updated := existing

	if in.Title != nil {
		if *in.Title == "" {
			return model.Post{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		if *in.Title != existing.Title {
			candidate := slug.Normalize(*in.Title)
			newSlug, err := s.allocator.Allocate(ctx, candidate, slug.ScopeGlobal, existing.ID)
			if err != nil {
				return model.Post{}, fmt.Errorf("allocating slug: %w", err)
			}
			updated.Slug = newSlug
		}
		updated.Title = *in.Title
	}
	if in.Body != nil {
		updated.Body = *in.Body
	}
	if in.Excerpt != nil {
		updated.Excerpt = *in.Excerpt
	}
	if in.MetaDescription != nil {
		updated.MetaDescription = *in.MetaDescription
	}
	if in.Keywords != nil {
		updated.Keywords = *in.Keywords
	}
	if in.FeaturedImage != nil {
		updated.FeaturedImage = *in.FeaturedImage
	}
	if in.Status != nil {
		if !model.IsValidPostStatus(*in.Status) {
			return model.Post{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
		}
		updated.Status = *in.Status
	}

	// First transition to published stamps the publication time; republishing
	// an archived post keeps the original timestamp.
	if updated.Status == model.PostStatusPublished && !updated.PublishedAt.Valid {
		updated.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	saved, err := s.queries.UpdatePost(ctx, store.UpdatePostParams{
		ID:              updated.ID,
		Title:           updated.Title,
		Slug:            updated.Slug,
		Body:            updated.Body,
		Excerpt:         updated.Excerpt,
		MetaDescription: updated.MetaDescription,
		Keywords:        updated.Keywords,
		FeaturedImage:   updated.FeaturedImage,
		Status:          updated.Status,
		PublishedAt:     updated.PublishedAt,
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("updating post %d: %w", id, err)
	}

	if s.postCache != nil {
		// Old slug may still be cached if the title changed
		s.postCache.Invalidate(ctx, existing.Slug)
		s.postCache.Invalidate(ctx, saved.Slug)
	}

	if s.events != nil {
		_ = s.events.LogPostEvent(ctx, model.EventLevelInfo, "post updated", ac.PrincipalID, "",
			map[string]any{"post_id": saved.ID, "slug": saved.Slug, "status": saved.Status})
	}

	return saved, nil
}

// Delete removes a post the caller is allowed to delete.
func (s *PostService) Delete(ctx context.Context, ac authz.AuthContext, id int64) error {
	existing, err := s.queries.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetching post %d: %w", id, err)
	}

	if d := authz.Authorize(ac, authz.ActionDelete, authz.Target{HotelID: existing.HotelID, AuthorID: existing.AuthorID}); !d.Allowed {
		return &ForbiddenError{Reason: d.Reason}
	}

	if err := s.queries.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}

	if s.postCache != nil {
		s.postCache.Invalidate(ctx, existing.Slug)
	}

	if s.events != nil {
		_ = s.events.LogPostEvent(ctx, model.EventLevelInfo, "post deleted", ac.PrincipalID, "",
			map[string]any{"post_id": existing.ID, "slug": existing.Slug})
	}

	return nil
}

// GetPublishedBySlug serves the anonymous read path. Only published posts are
// visible; drafts and archived posts return ErrNotFound.
func (s *PostService) GetPublishedBySlug(ctx context.Context, postSlug string) (model.Post, error) {
	if s.postCache != nil {
		if post, ok := s.postCache.GetPublished(ctx, postSlug); ok {
			return post, nil
		}
	}

	post, err := s.queries.GetPublishedPostBySlug(ctx, postSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, ErrNotFound
		}
		return model.Post{}, fmt.Errorf("fetching published post %q: %w", postSlug, err)
	}

	if s.postCache != nil {
		s.postCache.SetPublished(ctx, post)
	}

	return post, nil
}

// ListPublishedOptions holds the arguments for ListPublished.
type ListPublishedOptions struct {
	Keyword string
	Limit   int64
	Offset  int64
}

// ListPublished returns published posts for the public blog, newest first.
func (s *PostService) ListPublished(ctx context.Context, opts ListPublishedOptions) ([]model.Post, error) {
	return s.queries.ListPublishedPosts(ctx, store.ListPublishedPostsParams{
		Keyword: opts.Keyword,
		Limit:   clampLimit(opts.Limit),
		Offset:  opts.Offset,
	})
}

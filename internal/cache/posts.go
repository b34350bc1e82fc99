package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/roteiro-cms/roteiro/internal/model"
)

const publishedPostPrefix = "post:published:"

// PostCache caches published posts by slug for the public blog surface.
// Dashboard reads always go to the database; only the anonymous read path is
// served from here.
type PostCache struct {
	backend Cacher
	ttl     time.Duration
}

// NewPostCache creates a post cache on top of the given backend.
func NewPostCache(backend Cacher, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PostCache{backend: backend, ttl: ttl}
}

// GetPublished returns a cached published post by slug.
// The second return value is false on a miss.
func (pc *PostCache) GetPublished(ctx context.Context, slug string) (model.Post, bool) {
	data, err := pc.backend.Get(ctx, publishedPostPrefix+slug)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("post cache read failed", "slug", slug, "error", err)
		}
		return model.Post{}, false
	}

	var post model.Post
	if err := json.Unmarshal(data, &post); err != nil {
		// Corrupt entry, drop it
		_ = pc.backend.Delete(ctx, publishedPostPrefix+slug)
		return model.Post{}, false
	}
	return post, true
}

// SetPublished stores a published post under its slug.
func (pc *PostCache) SetPublished(ctx context.Context, post model.Post) {
	if !post.IsPublished() {
		return
	}
	data, err := json.Marshal(post)
	if err != nil {
		return
	}
	if err := pc.backend.Set(ctx, publishedPostPrefix+post.Slug, data, pc.ttl); err != nil {
		slog.Warn("post cache write failed", "slug", post.Slug, "error", err)
	}
}

// Invalidate removes a post from the cache. Call on every update, delete, or
// status transition so the public surface never serves a stale or unpublished
// revision.
func (pc *PostCache) Invalidate(ctx context.Context, slug string) {
	if err := pc.backend.Delete(ctx, publishedPostPrefix+slug); err != nil {
		slog.Warn("post cache invalidation failed", "slug", slug, "error", err)
	}
}

// InvalidateAll drops every cached post.
func (pc *PostCache) InvalidateAll(ctx context.Context) {
	if err := pc.backend.DeleteByPrefix(ctx, publishedPostPrefix); err != nil {
		slog.Warn("post cache flush failed", "error", err)
	}
}

package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsportal/app/cache"
	"newsportal/app/metrics"
	"newsportal/app/models"
)

const versionKey = "posts:version"

// CachedPostClient keeps read results in a cache.Store. Every successful
// mutation bumps a version counter that is part of each cache key, so reads
// after a write never see stale pages. Cache failures degrade to a direct call.
type CachedPostClient struct {
	next    API
	store   cache.Store
	ttl     time.Duration
	log     *slog.Logger
	metrics metrics.Provider
}

func NewCachedPostClient(next API, store cache.Store, ttl time.Duration, log *slog.Logger, m metrics.Provider) *CachedPostClient {
	return &CachedPostClient{
		next:    next,
		store:   store,
		ttl:     ttl,
		log:     log,
		metrics: m,
	}
}

func (c *CachedPostClient) ListPosts(ctx context.Context, page int) ([]models.Post, error) {
	version, ok := c.version(ctx)
	if !ok {
		return c.next.ListPosts(ctx, page)
	}
	key := fmt.Sprintf("posts:v%d:page:%d", version, page)

	var posts []models.Post
	if c.lookup(ctx, key, &posts) {
		return posts, nil
	}

	posts, err := c.next.ListPosts(ctx, page)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, posts)
	return posts, nil
}

func (c *CachedPostClient) GetPost(ctx context.Context, id int) (*models.Post, error) {
	version, ok := c.version(ctx)
	if !ok {
		return c.next.GetPost(ctx, id)
	}
	key := fmt.Sprintf("posts:v%d:post:%d", version, id)

	var post models.Post
	if c.lookup(ctx, key, &post) {
		return &post, nil
	}

	found, err := c.next.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, found)
	return found, nil
}

func (c *CachedPostClient) CreatePost(ctx context.Context, fields models.PostFields) (*models.Post, error) {
	post, err := c.next.CreatePost(ctx, fields)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return post, nil
}

func (c *CachedPostClient) UpdatePost(ctx context.Context, id int, fields models.PostFields) (*models.Post, error) {
	post, err := c.next.UpdatePost(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return post, nil
}

func (c *CachedPostClient) DeletePost(ctx context.Context, id int) error {
	if err := c.next.DeletePost(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedPostClient) version(ctx context.Context) (int64, bool) {
	var v int64
	err := c.store.Get(ctx, versionKey, &v)
	if err == nil || errors.Is(err, cache.ErrCacheMiss) {
		return v, true
	}
	c.log.Warn("Cache version unavailable, bypassing cache", slog.String("error", err.Error()))
	return 0, false
}

func (c *CachedPostClient) lookup(ctx context.Context, key string, dest interface{}) bool {
	err := c.store.Get(ctx, key, dest)
	if err == nil {
		c.metrics.IncrementCacheHits()
		return true
	}
	c.metrics.IncrementCacheMisses()
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.log.Warn("Cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return false
}

func (c *CachedPostClient) save(ctx context.Context, key string, value interface{}) {
	if err := c.store.Set(ctx, key, value, c.ttl); err != nil {
		c.log.Warn("Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (c *CachedPostClient) invalidate(ctx context.Context) {
	if _, err := c.store.Incr(ctx, versionKey); err != nil {
		c.log.Warn("Cache invalidation failed", slog.String("error", err.Error()))
	}
}

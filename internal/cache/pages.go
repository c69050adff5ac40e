// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
)

const pageKeyPrefix = "page:slug:"

// PageCache serves published pages from a Cacher, falling back to the
// database on a miss. Only published pages are cached; drafts always hit
// the database so editors see fresh state.
type PageCache struct {
	cache   Cacher
	queries *store.Queries
	ttl     time.Duration
}

// NewPageCache creates a page cache on top of the given backend.
func NewPageCache(c Cacher, queries *store.Queries, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &PageCache{cache: c, queries: queries, ttl: ttl}
}

// GetPublishedBySlug retrieves a published page by slug, serving from
// cache when possible. Database errors (including sql.ErrNoRows) pass
// through to the caller.
func (c *PageCache) GetPublishedBySlug(ctx context.Context, slug string) (model.Page, error) {
	key := pageKeyPrefix + slug

	if data, err := c.cache.Get(ctx, key); err == nil {
		var page model.Page
		if err := json.Unmarshal(data, &page); err == nil {
			return page, nil
		}
		// Corrupt entry: drop it and fall through to the database
		_ = c.cache.Delete(ctx, key)
	}

	page, err := c.queries.GetPublishedPageBySlug(ctx, slug)
	if err != nil {
		return model.Page{}, err
	}

	if data, err := json.Marshal(page); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}

	return page, nil
}

// InvalidateSlug removes a single page's cached copy.
func (c *PageCache) InvalidateSlug(ctx context.Context, slug string) {
	_ = c.cache.Delete(ctx, pageKeyPrefix+slug)
}

// InvalidateAll drops every cached page.
func (c *PageCache) InvalidateAll(ctx context.Context) {
	_ = c.cache.DeleteByPrefix(ctx, pageKeyPrefix)
}

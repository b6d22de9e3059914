// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page cache (L2). Rendered HTML and
// generated documents (sitemap, feeds) are stored per locale and path so
// repeat requests skip the database and template execution.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute

	// maxKeyLen bounds keys built from long filter query strings.
	maxKeyLen = 200
)

// PageCache manages full-page caching in Valkey. A nil *PageCache or one
// without a client is a valid, always-missing cache.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

func (pc *PageCache) enabled() bool {
	return pc != nil && pc.client != nil
}

// Get retrieves a cached page. The bool is false on a miss or error.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !pc.enabled() {
		return nil, false
	}
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores a rendered page with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, body []byte) {
	if !pc.enabled() {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes all cached pages by scanning for the prefix. The
// importer calls it after every sync since any page could be affected.
func (pc *PageCache) InvalidateAll(ctx context.Context) int {
	return pc.deleteMatching(ctx, pageKeyPrefix+"*")
}

func (pc *PageCache) deleteMatching(ctx context.Context, pattern string) int {
	if !pc.enabled() {
		return 0
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache cleared", "pattern", pattern, "deleted", deleted)
	}
	return deleted
}

// PageKey returns the cache key for a localized path and its canonical
// query string. Overlong keys are replaced by a digest.
func PageKey(loc, path, rawQuery string) string {
	key := loc + ":" + path
	if rawQuery != "" {
		key += "?" + rawQuery
	}
	if len(key) > maxKeyLen {
		sum := sha256.Sum256([]byte(key))
		key = loc + ":#" + hex.EncodeToString(sum[:16])
	}
	return key
}

// DocumentKey returns the cache key for a locale-independent document such
// as the sitemap.
func DocumentKey(name string) string {
	return "_doc:" + name
}

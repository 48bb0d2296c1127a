// Package storage resolves stored image paths to public URLs. Show
// images are written under a stable per-show prefix; resolved URLs are
// cached in Redis because resolution may be slow or rate limited on
// hosted backends.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// URLResolver turns a stored media path into a URL a client can fetch.
type URLResolver interface {
	ResolveURL(ctx context.Context, mediaPath string) (string, error)
}

// StaticResolver serves media from a fixed base URL, e.g. a CDN or the
// app's own /media mount.
type StaticResolver struct {
	BaseURL string
}

func (s *StaticResolver) ResolveURL(_ context.Context, mediaPath string) (string, error) {
	base := strings.TrimSuffix(s.BaseURL, "/")
	return base + "/" + strings.TrimPrefix(mediaPath, "/"), nil
}

// MediaCache wraps a URLResolver with a Redis cache keyed by media path.
type MediaCache struct {
	resolver URLResolver
	rdb      *redis.Client
	ttl      time.Duration
}

// NewMediaCache returns a caching wrapper around resolver. A nil Redis
// client disables caching and every call hits the resolver directly.
func NewMediaCache(resolver URLResolver, rdb *redis.Client, ttl time.Duration) *MediaCache {
	return &MediaCache{resolver: resolver, rdb: rdb, ttl: ttl}
}

// URL resolves mediaPath, serving from cache when possible. Resolver
// errors are returned; cache errors are ignored and fall through to the
// resolver.
func (m *MediaCache) URL(ctx context.Context, mediaPath string) (string, error) {
	key := "media:url:" + mediaPath
	if m.rdb != nil {
		if u, err := m.rdb.Get(ctx, key).Result(); err == nil && u != "" {
			return u, nil
		}
	}
	u, err := m.resolver.ResolveURL(ctx, mediaPath)
	if err != nil {
		return "", err
	}
	if m.rdb != nil {
		_ = m.rdb.Set(ctx, key, u, m.ttl).Err()
	}
	return u, nil
}

// ImagePath builds the storage path for a show image: the file keeps
// its extension but is renamed after the show title plus a short unique
// suffix, grouped under uploads/shows/.
func ImagePath(showTitle, filename, uniq string) string {
	ext := path.Ext(filename)
	slug := slugify(showTitle)
	return fmt.Sprintf("uploads/shows/%s-%s%s", slug, uniq, ext)
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

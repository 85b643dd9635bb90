package fetch

import (
	"context"
	"time"
)

// DefaultPageCacheTTL is how long a rendered page stays fresh in the cache.
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// PageCache stores rendered pages by URL.
type PageCache interface {
	// GetPage returns the cached HTML when a page newer than maxAge exists.
	GetPage(ctx context.Context, url string, maxAge time.Duration) (html string, ok bool, err error)
	PutPage(ctx context.Context, url, html string) error
}

// CachedRenderer serves renders from a PageCache and fills it on miss.
// Cache failures never fail a render.
type CachedRenderer struct {
	next  Renderer
	cache PageCache
	ttl   time.Duration
}

// NewCachedRenderer wraps next with cache; ttl <= 0 uses DefaultPageCacheTTL.
func NewCachedRenderer(next Renderer, cache PageCache, ttl time.Duration) *CachedRenderer {
	if ttl <= 0 {
		ttl = DefaultPageCacheTTL
	}
	return &CachedRenderer{next: next, cache: cache, ttl: ttl}
}

// Render implements Renderer.
func (r *CachedRenderer) Render(ctx context.Context, url string) (string, error) {
	if html, ok, err := r.cache.GetPage(ctx, url, r.ttl); err == nil && ok {
		return html, nil
	}
	html, err := r.next.Render(ctx, url)
	if err != nil {
		return "", err
	}
	_ = r.cache.PutPage(ctx, url, html)
	return html, nil
}

// internal/cache/cache.go
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/law-makers/boxdiff/internal/engine"
	"github.com/law-makers/boxdiff/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Defaults for the page cache
const (
	DefaultSize = 512
	DefaultTTL  = 10 * time.Minute
)

// PageCache wraps a Fetcher and remembers successful responses by URL.
//
// Listings are crawled more than once when a report needs both comparison
// modes; the second pass is then served from memory. Failed responses are
// never stored.
type PageCache struct {
	next    engine.Fetcher
	entries *lru.LRU[string, engine.Response]
	metrics *metrics.Metrics
}

// New creates a PageCache in front of next. size <= 0 or ttl <= 0 use the defaults.
func New(next engine.Fetcher, size int, ttl time.Duration, m *metrics.Metrics) *PageCache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PageCache{
		next:    next,
		entries: lru.NewLRU[string, engine.Response](size, nil, ttl),
		metrics: m,
	}
}

// Fetch implements engine.Fetcher
func (c *PageCache) Fetch(ctx context.Context, url string) (*engine.Response, error) {
	if resp, ok := c.entries.Get(url); ok {
		c.metrics.IncPage(metrics.OutcomeCached)
		log.Debug().Str("url", url).Msg("Cache hit")
		return &resp, nil
	}

	resp, err := c.next.Fetch(ctx, url)
	if err != nil || resp == nil {
		return resp, err
	}
	if resp.OK {
		c.entries.Add(url, *resp)
	}
	return resp, nil
}

// Len returns the number of cached pages
func (c *PageCache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached page
func (c *PageCache) Purge() {
	c.entries.Purge()
}

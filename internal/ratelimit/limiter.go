// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces outgoing requests.
//
// Wait blocks until a request to the given URL may proceed, or returns the
// context error if ctx is done first.
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// HostLimiter keeps one token bucket per host so a crawl of one site never
// exceeds the configured request rate, however many fetches are in flight.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing rps requests per second per host.
// A non-positive rps disables limiting.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  limit,
		burst:    burst,
	}
}

// Wait blocks until a request to rawURL is allowed
func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host := hostOf(rawURL)
	if host == "" {
		// Unparseable URLs fail at request time
		return nil
	}
	return h.limiter(host).Wait(ctx)
}

// Hosts returns the number of hosts seen so far
func (h *HostLimiter) Hosts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.limiters)
}

func (h *HostLimiter) limiter(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(h.perHost, h.burst)
		h.limiters[host] = l
	}
	return l
}

// Unlimited is a Limiter that never waits
type Unlimited struct{}

// Wait returns immediately unless ctx is already done
func (Unlimited) Wait(ctx context.Context, _ string) error {
	return ctx.Err()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Package proxy rotates outgoing requests across a list of proxies.
package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

// Pool manages a list of proxies with rotation and health tracking.
// A nil *Pool is valid and always connects directly.
type Pool struct {
	proxies  []*url.URL
	index    int
	mu       sync.Mutex
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// ParseList splits a comma separated proxy setting into its entries
func ParseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NewPool creates a Pool from proxy URLs. An empty list yields a nil Pool.
func NewPool(raw []string) (*Pool, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	p := &Pool{
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
	for _, r := range raw {
		u, err := url.Parse(r)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy URL %q", r)
		}
		p.proxies = append(p.proxies, u)
	}
	return p, nil
}

// Len returns the number of proxies in the pool
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Next returns the next healthy proxy. When every proxy is cooling down
// the rotation continues regardless; nil means connect directly.
func (p *Pool) Next() *url.URL {
	if p == nil || len(p.proxies) == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for range p.proxies {
		u := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		failedAt, ok := p.failed[u.String()]
		if !ok {
			return u
		}
		if p.now().Sub(failedAt) >= p.cooldown {
			delete(p.failed, u.String())
			return u
		}
	}

	u := p.proxies[p.index]
	p.index = (p.index + 1) % len(p.proxies)
	return u
}

// MarkFailed benches u for the cooldown period
func (p *Pool) MarkFailed(u *url.URL) {
	if p == nil || u == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[u.String()] = p.now()
}

// MarkHealthy clears the failure status of u
func (p *Pool) MarkHealthy(u *url.URL) {
	if p == nil || u == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, u.String())
}

type ctxKey struct{}

// WithProxy pins the proxy a request made under ctx will use
func WithProxy(ctx context.Context, u *url.URL) context.Context {
	if u == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromRequest reads the proxy pinned by WithProxy. It has the signature of
// http.Transport.Proxy.
func FromRequest(req *http.Request) (*url.URL, error) {
	u, _ := req.Context().Value(ctxKey{}).(*url.URL)
	return u, nil
}

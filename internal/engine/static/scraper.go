// internal/engine/static/scraper.go
package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/law-makers/boxdiff/internal/engine"
	"github.com/law-makers/boxdiff/internal/metrics"
	"github.com/law-makers/boxdiff/internal/proxy"
	"github.com/law-makers/boxdiff/internal/ratelimit"
	"github.com/law-makers/boxdiff/internal/retry"
	"github.com/law-makers/boxdiff/internal/utils/headers"
	"github.com/rs/zerolog/log"
)

// DefaultUserAgent identifies boxdiff to the site
const DefaultUserAgent = "boxdiff/1.0 (+https://github.com/law-makers/boxdiff)"

// maxBodyBytes caps how much of a listing page is read
const maxBodyBytes = 8 << 20

// Fetcher performs plain HTTP GETs for listing pages.
// Transient statuses are retried under the policy; the final response is
// returned as is so the caller decides what a status means.
type Fetcher struct {
	client    *http.Client
	limiter   ratelimit.Limiter
	policy    retry.Policy
	userAgent string
	metrics   *metrics.Metrics
	headers   http.Header
	proxies   *proxy.Pool
}

// New creates a Fetcher with dependency injection
func New(client *http.Client, lim ratelimit.Limiter, policy retry.Policy, ua string, m *metrics.Metrics) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if lim == nil {
		lim = ratelimit.Unlimited{}
	}
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Fetcher{
		client:    client,
		limiter:   lim,
		policy:    policy,
		userAgent: ua,
		metrics:   m,
	}
}

// WithHeaders adds extra headers to every request, overriding the defaults
func (f *Fetcher) WithHeaders(h http.Header) *Fetcher {
	f.headers = h
	return f
}

// WithProxies rotates requests across the pool. The client must come from
// NewClient for the chosen proxy to take effect.
func (f *Fetcher) WithProxies(p *proxy.Pool) *Fetcher {
	f.proxies = p
	return f
}

// NewClient builds the HTTP client. Each request goes through the proxy
// pinned on its context, or directly when there is none.
func NewClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	transport.Proxy = proxy.FromRequest

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Fetch implements engine.Fetcher
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*engine.Response, error) {
	start := time.Now()

	log.Debug().
		Str("url", pageURL).
		Msg("Starting fetch")

	var last *engine.Response
	err := retry.Do(ctx, f.policy, func(int, error) { f.metrics.IncRetries() }, func(ctx context.Context) error {
		resp, err := f.get(ctx, pageURL)
		if err != nil {
			return err
		}
		last = resp
		if !resp.OK {
			return &retry.StatusError{Code: resp.Status, URL: pageURL}
		}
		return nil
	})

	var se *retry.StatusError
	if err != nil && !errors.As(err, &se) {
		return nil, err
	}

	log.Debug().
		Str("url", pageURL).
		Int("status", last.Status).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Msg("Fetch completed")

	return last, nil
}

func (f *Fetcher) get(ctx context.Context, pageURL string) (*engine.Response, error) {
	if err := f.limiter.Wait(ctx, pageURL); err != nil {
		return nil, err
	}

	via := f.proxies.Next()
	req, err := http.NewRequestWithContext(proxy.WithProxy(ctx, via), http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	headers.Apply(req, f.headers)

	resp, err := f.client.Do(req)
	if err != nil {
		if via != nil && ctx.Err() == nil {
			log.Warn().Str("proxy", via.Host).Err(err).Msg("Proxy failed, benching it")
			f.proxies.MarkFailed(via)
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()
	f.proxies.MarkHealthy(via)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &engine.Response{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Body:   string(body),
	}, nil
}

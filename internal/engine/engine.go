package engine

import "context"

// Response is the raw result of one page fetch
type Response struct {
	OK     bool
	Status int
	Body   string
}

// Fetcher is the page-fetch capability the crawler is built on.
// Implementations perform a GET and hand back the raw markup; a non-2xx
// status is reported through Response, not as an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface
type FetcherFunc func(ctx context.Context, url string) (*Response, error)

// Fetch calls f(ctx, url)
func (f FetcherFunc) Fetch(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}

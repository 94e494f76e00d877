package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/law-makers/boxdiff/internal/engine/batch"
	"github.com/law-makers/boxdiff/internal/engine/extract"
	"github.com/law-makers/boxdiff/internal/markup"
	"github.com/law-makers/boxdiff/internal/metrics"
	"github.com/law-makers/boxdiff/internal/progress"
	urlutil "github.com/law-makers/boxdiff/internal/utils/url"
	"github.com/law-makers/boxdiff/pkg/models"
	"github.com/rs/zerolog/log"
)

// Listing identifies one of a user's film listings
type Listing struct {
	Name   string // metrics and log label
	Path   string
	Suffix string // appended after the genre segment
}

var (
	// Watched is every film the user has logged, rated or not
	Watched = Listing{Name: "watched", Path: "films"}
	// Rated is the user's films ordered by their rating. With a genre the
	// site's form is /<user>/films/genre/<g>/by/entry-rating/.
	Rated = Listing{Name: "rated", Path: "films", Suffix: "by/entry-rating"}
)

// AnyGenre disables the genre filter, as does an empty genre
const AnyGenre = "any"

// ListingURL builds the address of a listing page. page <= 0 yields the
// un-paginated root of the listing.
func ListingURL(base, subject string, l Listing, genre string, page int) string {
	segments := []string{subject, l.Path}
	if genre != "" && genre != AnyGenre {
		segments = append(segments, "genre", genre)
	}
	segments = append(segments, l.Suffix)
	if page > 0 {
		segments = append(segments, "page", strconv.Itoa(page))
	}
	return urlutil.JoinPath(base, segments...)
}

// ProgressOverride makes a crawl report its progress as a slice of a
// larger bar: pages are shown as PageOffset+n out of TotalPages.
type ProgressOverride struct {
	TotalPages int
	PageOffset int
}

// CrawlOptions tune a single crawl
type CrawlOptions struct {
	FirstPage markup.Node // already fetched page 1, skips the initial fetch
	Override  *ProgressOverride
}

// CrawlRequest describes one listing crawl
type CrawlRequest struct {
	Subject  string
	Listing  Listing
	Genre    string
	Extract  extract.Func
	Progress chan<- models.ProgressSnapshot
	Label    string // progress message, defaults to "Scraping <subject>..."
	Options  CrawlOptions
}

// Crawler walks paginated listings with a bounded number of concurrent fetches
type Crawler struct {
	fetcher   Fetcher
	baseURL   string
	batchSize int
	metrics   *metrics.Metrics
}

// NewCrawler creates a Crawler. batchSize outside 1..8 falls back to 8.
func NewCrawler(fetcher Fetcher, baseURL string, batchSize int, m *metrics.Metrics) *Crawler {
	if batchSize <= 0 || batchSize > batch.DefaultSize {
		batchSize = batch.DefaultSize
	}
	return &Crawler{
		fetcher:   fetcher,
		baseURL:   baseURL,
		batchSize: batchSize,
		metrics:   m,
	}
}

// isNil also catches a typed nil, such as a nil *static.Fetcher, stored
// in the interface
func isNil(f Fetcher) bool {
	if f == nil {
		return true
	}
	v := reflect.ValueOf(f)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// BaseURL returns the site root listings are resolved against
func (c *Crawler) BaseURL() string {
	return c.baseURL
}

// Crawl fetches every page of a listing and returns the extracted records
// in page order. Only page 1 failures abort the crawl; a later page that
// fails is logged and contributes nothing.
func (c *Crawler) Crawl(ctx context.Context, req CrawlRequest) ([]models.MovieRecord, error) {
	if isNil(c.fetcher) {
		return nil, NewEngineError(ErrCodeConfiguration, "cannot crawl listing", ErrNoFetcher).WithSubject(req.Subject)
	}
	if req.Extract == nil {
		return nil, NewEngineError(ErrCodeConfiguration, "cannot crawl listing", ErrNoExtractor).WithSubject(req.Subject)
	}

	label := req.Label
	if label == "" {
		label = fmt.Sprintf("Scraping %s...", req.Subject)
	}

	first := req.Options.FirstPage
	if first == nil {
		progress.Emit(ctx, req.Progress, models.ProgressSnapshot{
			Subject: req.Subject,
			Message: fmt.Sprintf("Analyzing %s's library...", req.Subject),
		})

		var err error
		first, err = c.FirstPage(ctx, req.Subject, req.Listing, req.Genre)
		if err != nil {
			return nil, err
		}
	}

	totalPages := extract.LastPage(first)
	records := req.Extract(first)
	c.metrics.AddRecords(req.Listing.Name, len(records))

	displayTotal, offset := totalPages, 0
	if o := req.Options.Override; o != nil {
		displayTotal, offset = o.TotalPages, o.PageOffset
	}
	report := func(completed int) {
		progress.Emit(ctx, req.Progress, models.ProgressSnapshot{
			Subject:     req.Subject,
			Message:     label,
			CurrentPage: offset + min(completed, totalPages),
			TotalPages:  displayTotal,
		})
	}

	completed := 1
	report(completed)

	log.Debug().
		Str("subject", req.Subject).
		Str("listing", req.Listing.Name).
		Int("pages", totalPages).
		Msg("Resolved listing size")

	if totalPages <= 1 {
		return records, nil
	}

	pages := make([]string, 0, totalPages-1)
	for p := 2; p <= totalPages; p++ {
		pages = append(pages, ListingURL(c.baseURL, req.Subject, req.Listing, req.Genre, p))
	}

	for _, chunk := range batch.Chunk(pages, c.batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results := batch.Settle(ctx, chunk, func(ctx context.Context, pageURL string) ([]models.MovieRecord, error) {
			page, err := c.fetchPage(ctx, req.Subject, pageURL)
			if err != nil {
				return nil, err
			}
			return req.Extract(page), nil
		})

		for _, res := range results {
			if res.Err != nil {
				c.metrics.IncPage(metrics.OutcomeSkipped)
				log.Warn().
					Err(res.Err).
					Str("subject", req.Subject).
					Str("url", res.Item).
					Msg("Skipping page that failed to load")
				continue
			}
			c.metrics.AddRecords(req.Listing.Name, len(res.Value))
			records = append(records, res.Value...)
		}

		completed += len(chunk)
		report(completed)
	}

	return records, nil
}

// FirstPage fetches page 1 of a listing. If the paginated address fails it
// retries once against the listing root; when that fails too the first
// error is returned.
func (c *Crawler) FirstPage(ctx context.Context, subject string, l Listing, genre string) (markup.Node, error) {
	if c.fetcher == nil {
		return nil, NewEngineError(ErrCodeConfiguration, "cannot fetch first page", ErrNoFetcher).WithSubject(subject)
	}

	page, err := c.fetchPage(ctx, subject, ListingURL(c.baseURL, subject, l, genre, 1))
	if err == nil {
		return page, nil
	}
	if ctx.Err() != nil || HasCode(err, ErrCodeConfiguration) {
		return nil, err
	}

	log.Debug().Err(err).Str("subject", subject).Msg("First page failed, retrying listing root")

	page, retryErr := c.fetchPage(ctx, subject, ListingURL(c.baseURL, subject, l, genre, 0))
	if retryErr != nil {
		return nil, err
	}
	return page, nil
}

func (c *Crawler) fetchPage(ctx context.Context, subject, pageURL string) (markup.Node, error) {
	start := time.Now()
	resp, err := c.fetcher.Fetch(ctx, pageURL)
	c.metrics.ObserveFetch(time.Since(start))

	if err != nil {
		c.metrics.IncPage(metrics.OutcomeFailed)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, NewEngineError(ErrCodeFetchFailed, "failed to fetch page", err).
			WithSubject(subject).
			WithStatus(0, pageURL)
	}
	if resp == nil {
		c.metrics.IncPage(metrics.OutcomeFailed)
		return nil, NewEngineError(ErrCodeFetchFailed, "empty response", nil).
			WithSubject(subject).
			WithStatus(0, pageURL)
	}

	if !resp.OK {
		if resp.Status == http.StatusNotFound {
			c.metrics.IncPage(metrics.OutcomeNotFound)
			return nil, NotFoundError(subject).WithStatus(resp.Status, pageURL)
		}
		c.metrics.IncPage(metrics.OutcomeFailed)
		code := ErrCodeFetchFailed
		if resp.Status == http.StatusTooManyRequests || resp.Status >= 500 {
			code = ErrCodeTransientPage
		}
		msg := fmt.Sprintf("failed to fetch page: HTTP %d", resp.Status)
		return nil, NewEngineError(code, msg, nil).
			WithSubject(subject).
			WithStatus(resp.Status, pageURL)
	}

	page, err := markup.Parse(resp.Body)
	if err != nil {
		c.metrics.IncPage(metrics.OutcomeFailed)
		return nil, NewEngineError(ErrCodeParseError, "failed to parse page", err).
			WithSubject(subject).
			WithStatus(resp.Status, pageURL)
	}

	c.metrics.IncPage(metrics.OutcomeOK)
	return page, nil
}

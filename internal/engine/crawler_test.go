package engine

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/law-makers/boxdiff/internal/engine/extract"
	"github.com/law-makers/boxdiff/internal/markup"
	"github.com/law-makers/boxdiff/internal/metrics"
	"github.com/law-makers/boxdiff/internal/progress"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://letterboxd.test"

// listingPages renders n pages with one rated film each, /film/p<N>/
func listingPages(n int) []string {
	bodies := make([]string, n)
	for p := 1; p <= n; p++ {
		items := []extract.FixtureItem{{
			Link:   fmt.Sprintf("/film/p%d/", p),
			Title:  fmt.Sprintf("Film %d", p),
			Halves: 1 + p%10,
		}}
		bodies[p-1] = extract.FixturePage(items, n)
	}
	return bodies
}

func newTestCrawler(site *FakeSite) (*Crawler, *metrics.Metrics) {
	m := metrics.New()
	return NewCrawler(site, testBase, 8, m), m
}

func TestListingURL(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		genre   string
		page    int
		want    string
	}{
		{"rated page", Rated, "", 3, testBase + "/alice/films/by/entry-rating/page/3/"},
		{"rated root", Rated, "", 0, testBase + "/alice/films/by/entry-rating/"},
		{"watched page", Watched, "", 1, testBase + "/alice/films/page/1/"},
		{"rated with genre", Rated, "horror", 2, testBase + "/alice/films/genre/horror/by/entry-rating/page/2/"},
		{"watched with genre", Watched, "drama", 0, testBase + "/alice/films/genre/drama/"},
		{"any genre ignored", Watched, AnyGenre, 1, testBase + "/alice/films/page/1/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ListingURL(testBase, "alice", tt.listing, tt.genre, tt.page))
		})
	}
}

func TestCrawl_BatchesAndProgress(t *testing.T) {
	site := NewFakeSite(testBase)
	site.AddListing("alice", Rated, "", listingPages(20)...)
	crawler, _ := newTestCrawler(site)
	rec := progress.NewRecorder()

	records, err := crawler.Crawl(context.Background(), CrawlRequest{
		Subject:  "alice",
		Listing:  Rated,
		Extract:  extract.New(testBase).Rated,
		Progress: rec.Sink(),
	})
	require.NoError(t, err)

	require.Len(t, records, 20)
	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("%s/film/p%d/", testBase, i+1), r.URL, "records must keep page order")
	}

	snaps := rec.Snapshots()
	// analysis + page 1 + ceil(19/8) batches
	require.Len(t, snaps, 5)
	assert.Equal(t, "Analyzing alice's library...", snaps[0].Message)
	assert.Equal(t, 0, snaps[0].TotalPages)

	wantPages := []int{1, 9, 17, 20}
	for i, want := range wantPages {
		s := snaps[i+1]
		assert.Equal(t, want, s.CurrentPage)
		assert.Equal(t, 20, s.TotalPages)
		assert.Equal(t, "Scraping alice...", s.Message)
		assert.Equal(t, "alice", s.Subject)
	}
	assert.Equal(t, 20, site.Requests())
}

func TestCrawl_NeverExceedsEightInFlight(t *testing.T) {
	site := NewFakeSite(testBase)
	site.Delay = 5 * time.Millisecond
	site.AddListing("alice", Watched, "", listingPages(30)...)
	crawler, _ := newTestCrawler(site)

	_, err := crawler.Crawl(context.Background(), CrawlRequest{
		Subject: "alice",
		Listing: Watched,
		Extract: extract.New(testBase).Watched,
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, site.PeakInFlight(), 8)
	assert.Greater(t, site.PeakInFlight(), 1)
}

func TestCrawl_FailedPageIsSkipped(t *testing.T) {
	site := NewFakeSite(testBase)
	site.AddListing("alice", Rated, "", listingPages(9)...)
	site.Fail(ListingURL(testBase, "alice", Rated, "", 5), http.StatusInternalServerError)
	crawler, m := newTestCrawler(site)

	records, err := crawler.Crawl(context.Background(), CrawlRequest{
		Subject: "alice",
		Listing: Rated,
		Extract: extract.New(testBase).Rated,
	})
	require.NoError(t, err)

	assert.Len(t, records, 8)
	for _, r := range records {
		assert.NotEqual(t, testBase+"/film/p5/", r.URL)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PagesFetched.WithLabelValues(metrics.OutcomeSkipped)))
}

func TestCrawl_SinglePage(t *testing.T) {
	site := NewFakeSite(testBase)
	site.AddListing("bob", Rated, "", extract.FixturePage([]extract.FixtureItem{
		{Link: "/film/a/", Title: "A", Halves: 7},
	}, 0))
	crawler, _ := newTestCrawler(site)
	rec := progress.NewRecorder()

	records, err := crawler.Crawl(context.Background(), CrawlRequest{
		Subject:  "bob",
		Listing:  Rated,
		Extract:  extract.New(testBase).Rated,
		Progress: rec.Sink(),
	})
	require.NoError(t, err)

	assert.Len(t, records, 1)
	assert.Equal(t, 1, site.Requests())

	snaps := rec.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, 1, snaps[1].CurrentPage)
	assert.Equal(t, 1, snaps[1].TotalPages)
}

func TestCrawl_UnknownSubject(t *testing.T) {
	site := NewFakeSite(testBase)
	crawler, _ := newTestCrawler(site)

	_, err := crawler.Crawl(context.Background(), CrawlRequest{
		Subject: "ghost",
		Listing: Rated,
		Extract: extract.New(testBase).Rated,
	})
	require.Error(t, err)

	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Could not find Letterboxd user 'ghost'. Please check the username and try again.", UserMessage(err))
	// page 1 and the listing root
	assert.Equal(t, 2, site.Requests())
}

func TestCrawl_RetriesListingRoot(t *testing.T) {
	site := NewFakeSite(testBase)
	site.Fail(ListingURL(testBase, "carol", Rated, "", 1), http.StatusBadGateway)
	site.Set(ListingURL(testBase, "carol", Rated, "", 0), &Response{
		OK:     true,
		Status: http.StatusOK,
		Body:   extract.FixturePage([]extract.FixtureItem{{Link: "/film/root/", Title: "Root", Halves: 8}}, 0),
	})
	crawler, _ := newTestCrawler(site)

	records, err := crawler.Crawl(context.Background(), CrawlRequest{
		Subject: "carol",
		Listing: Rated,
		Extract: extract.New(testBase).Rated,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, testBase+"/film/root/", records[0].URL)
}

func TestCrawl_FirstPageFailurePropagatesFirstError(t *testing.T) {
	site := NewFakeSite(testBase)
	site.Fail(ListingURL(testBase, "dave", Rated, "", 1), http.StatusServiceUnavailable)
	crawler, _ := newTestCrawler(site)

	_, err := crawler.Crawl(context.Background(), CrawlRequest{
		Subject: "dave",
		Listing: Rated,
		Extract: extract.New(testBase).Rated,
	})
	require.Error(t, err)

	assert.True(t, HasCode(err, ErrCodeTransientPage), "expected the page 1 error, got %v", err)
	assert.False(t, IsNotFound(err))
}

func TestCrawl_NilFetcher(t *testing.T) {
	crawler := NewCrawler(nil, testBase, 8, nil)

	_, err := crawler.Crawl(context.Background(), CrawlRequest{
		Subject: "alice",
		Listing: Rated,
		Extract: extract.New(testBase).Rated,
	})
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeConfiguration))
	assert.ErrorIs(t, err, ErrNoFetcher)
}

func TestCrawl_TypedNilFetcher(t *testing.T) {
	var site *FakeSite
	var fn FetcherFunc
	for name, f := range map[string]Fetcher{"pointer": site, "func": fn} {
		crawler := NewCrawler(f, testBase, 8, nil)

		_, err := crawler.Crawl(context.Background(), CrawlRequest{
			Subject: "alice",
			Listing: Rated,
			Extract: extract.New(testBase).Rated,
		})
		require.Error(t, err, name)
		assert.True(t, HasCode(err, ErrCodeConfiguration), name)
		assert.ErrorIs(t, err, ErrNoFetcher, name)
	}
}

func TestCrawl_ProgressOverrideAndSuppliedFirstPage(t *testing.T) {
	bodies := listingPages(10)
	site := NewFakeSite(testBase)
	site.AddListing("erin", Watched, "", bodies...)
	crawler, _ := newTestCrawler(site)

	first, err := markup.Parse(bodies[0])
	require.NoError(t, err)

	rec := progress.NewRecorder()
	records, err := crawler.Crawl(context.Background(), CrawlRequest{
		Subject:  "erin",
		Listing:  Watched,
		Extract:  extract.New(testBase).Watched,
		Progress: rec.Sink(),
		Label:    "Scraping erin's watched films...",
		Options: CrawlOptions{
			FirstPage: first,
			Override:  &ProgressOverride{TotalPages: 25, PageOffset: 15},
		},
	})
	require.NoError(t, err)
	assert.Len(t, records, 10)

	// page 1 was supplied
	assert.Equal(t, 0, site.Hits(ListingURL(testBase, "erin", Watched, "", 1)))
	assert.Equal(t, 9, site.Requests())

	snaps := rec.Snapshots()
	require.Len(t, snaps, 3)
	assert.Equal(t, []int{16, 24, 25}, []int{snaps[0].CurrentPage, snaps[1].CurrentPage, snaps[2].CurrentPage})
	for _, s := range snaps {
		assert.Equal(t, 25, s.TotalPages)
		assert.Equal(t, "Scraping erin's watched films...", s.Message)
	}
}

func TestCrawl_CancelledContext(t *testing.T) {
	site := NewFakeSite(testBase)
	site.AddListing("alice", Rated, "", listingPages(20)...)
	crawler, _ := newTestCrawler(site)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := crawler.Crawl(ctx, CrawlRequest{
		Subject: "alice",
		Listing: Rated,
		Extract: extract.New(testBase).Rated,
	})
	assert.Error(t, err)
}

package cache

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/law-makers/boxdiff/internal/engine"
	"github.com/law-makers/boxdiff/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://letterboxd.test"

func TestPageCache_ServesRepeatFetchesFromMemory(t *testing.T) {
	site := engine.NewFakeSite(base)
	site.AddListing("alice", engine.Rated, "", "<html>page one</html>")
	url := engine.ListingURL(base, "alice", engine.Rated, "", 1)

	m := metrics.New()
	c := New(site, 0, 0, m)

	for i := 0; i < 3; i++ {
		resp, err := c.Fetch(context.Background(), url)
		require.NoError(t, err)
		assert.Equal(t, "<html>page one</html>", resp.Body)
	}

	assert.Equal(t, 1, site.Hits(url))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PagesFetched.WithLabelValues(metrics.OutcomeCached)))
}

func TestPageCache_DoesNotStoreFailures(t *testing.T) {
	site := engine.NewFakeSite(base)
	url := base + "/ghost/films/page/1/"
	site.Fail(url, http.StatusNotFound)

	c := New(site, 8, time.Minute, nil)
	for i := 0; i < 2; i++ {
		resp, err := c.Fetch(context.Background(), url)
		require.NoError(t, err)
		assert.False(t, resp.OK)
	}

	assert.Equal(t, 2, site.Hits(url))
	assert.Equal(t, 0, c.Len())
}

func TestPageCache_ReturnsCopies(t *testing.T) {
	site := engine.NewFakeSite(base)
	site.AddListing("bob", engine.Watched, "", "<html>original</html>")
	url := engine.ListingURL(base, "bob", engine.Watched, "", 1)

	c := New(site, 8, time.Minute, nil)
	first, err := c.Fetch(context.Background(), url)
	require.NoError(t, err)
	first.Body = "mutated"

	second, err := c.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "<html>original</html>", second.Body)
}

func TestPageCache_Purge(t *testing.T) {
	site := engine.NewFakeSite(base)
	site.AddListing("bob", engine.Watched, "", "<html></html>")
	url := engine.ListingURL(base, "bob", engine.Watched, "", 1)

	c := New(site, 8, time.Minute, nil)
	_, _ = c.Fetch(context.Background(), url)
	c.Purge()
	_, _ = c.Fetch(context.Background(), url)

	assert.Equal(t, 2, site.Hits(url))
}

package prometheus_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/harvest"
	hprom "github.com/fwojciec/harvest/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver(t *testing.T) {
	t.Parallel()

	t.Run("counts failed attempts by kind and class", func(t *testing.T) {
		t.Parallel()

		reg := prom.NewRegistry()
		obs, err := hprom.NewObserver(reg)
		require.NoError(t, err)

		obs.AttemptFailed(harvest.FetchFile, harvest.ClassRetry)
		obs.AttemptFailed(harvest.FetchFile, harvest.ClassRetry)
		obs.AttemptFailed(harvest.FetchPage, harvest.ClassLimitedRetry)

		expected := `
# HELP harvest_attempts_failed_total Failed fetch attempts partitioned by kind and error class.
# TYPE harvest_attempts_failed_total counter
harvest_attempts_failed_total{class="limited-retry",kind="page"} 1
harvest_attempts_failed_total{class="retry",kind="file"} 2
`
		require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "harvest_attempts_failed_total"))
	})

	t.Run("records page totals and queue depth", func(t *testing.T) {
		t.Parallel()

		reg := prom.NewRegistry()
		obs, err := hprom.NewObserver(reg)
		require.NoError(t, err)

		obs.PageCrawled(10, 25)
		obs.PageCrawled(4, 0)
		obs.QueueDepth(17)

		expected := `
# HELP harvest_downloads_queued_total Media downloads added to the queue.
# TYPE harvest_downloads_queued_total counter
harvest_downloads_queued_total 25
# HELP harvest_pages_total Listing pages crawled.
# TYPE harvest_pages_total counter
harvest_pages_total 2
# HELP harvest_posts_total Posts found on listing pages.
# TYPE harvest_posts_total counter
harvest_posts_total 14
# HELP harvest_queue_depth Downloads waiting in the queue.
# TYPE harvest_queue_depth gauge
harvest_queue_depth 17
`
		require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
			"harvest_downloads_queued_total", "harvest_pages_total", "harvest_posts_total", "harvest_queue_depth"))
	})

	t.Run("observes attempts per finished fetch", func(t *testing.T) {
		t.Parallel()

		reg := prom.NewRegistry()
		obs, err := hprom.NewObserver(reg)
		require.NoError(t, err)

		obs.FetchFinished(harvest.FetchFile, true, 1)
		obs.FetchFinished(harvest.FetchFile, false, 3)

		count, err := testutil.GatherAndCount(reg, "harvest_fetches_total", "harvest_fetch_attempts")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("fails on duplicate registration", func(t *testing.T) {
		t.Parallel()

		reg := prom.NewRegistry()
		_, err := hprom.NewObserver(reg)
		require.NoError(t, err)

		_, err = hprom.NewObserver(reg)
		assert.Error(t, err)
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	obs, err := hprom.NewObserver(reg)
	require.NoError(t, err)
	obs.QueueDepth(3)

	srv := httptest.NewServer(hprom.Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "harvest_queue_depth 3")
}

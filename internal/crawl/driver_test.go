package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedServer simulates a provider with fixed found/pages and perPage items
// per page, echoing back the requested page index.
func pagedServer(t *testing.T, found, pages, perPage int, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		items := make([]map[string]any, perPage)
		for i := range items {
			items[i] = map[string]any{"id": fmt.Sprintf("%d-%d", page, i)}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": items,
			"found": found,
			"page":  page,
			"pages": pages,
		})
	}))
}

func TestCrawlStopsAtCap(t *testing.T) {
	var hits atomic.Int32
	srv := pagedServer(t, 250, 3, 50, &hits)
	defer srv.Close()

	items, st, err := testClient(1).Crawl(context.Background(), srv.URL, url.Values{}, 100, State{}, 0)
	require.NoError(t, err)

	// 100 accumulated after two 50-item pages, even though a page remains
	assert.Len(t, items, 100)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 250, st.Found)
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, 3, st.Pages)
}

func TestCrawlStopsAtLastPage(t *testing.T) {
	var hits atomic.Int32
	srv := pagedServer(t, 60, 2, 30, &hits)
	defer srv.Close()

	items, st, err := testClient(1).Crawl(context.Background(), srv.URL, url.Values{}, 1000, State{}, 0)
	require.NoError(t, err)
	assert.Len(t, items, 60)
	assert.Equal(t, int32(2), hits.Load())
	assert.GreaterOrEqual(t, st.Page, st.Pages)
}

func TestCrawlEmptyProvider(t *testing.T) {
	var hits atomic.Int32
	srv := pagedServer(t, 0, 1, 0, &hits)
	defer srv.Close()

	items, _, err := testClient(1).Crawl(context.Background(), srv.URL, url.Values{}, 100, State{}, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCrawlSeedCountsTowardTarget(t *testing.T) {
	var hits atomic.Int32
	srv := pagedServer(t, 250, 5, 50, &hits)
	defer srv.Close()

	// 60 already accumulated by an earlier round: one more page suffices
	items, _, err := testClient(1).Crawl(context.Background(), srv.URL, url.Values{}, 100, State{}, 60)
	require.NoError(t, err)
	assert.Len(t, items, 50)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCrawlSurfacesExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	items, _, err := testClient(2).Crawl(context.Background(), srv.URL, url.Values{}, 100, State{}, 0)
	// outage is an error, not a silent empty crawl
	require.ErrorIs(t, err, ErrExhausted)
	assert.Empty(t, items)
}

func TestCrawlResumesFromCursor(t *testing.T) {
	var hits atomic.Int32
	srv := pagedServer(t, 90, 3, 30, &hits)
	defer srv.Close()

	c := testClient(1)
	_, st, err := c.Crawl(context.Background(), srv.URL, url.Values{}, 30, State{}, 0)
	require.NoError(t, err)
	require.Equal(t, 1, st.Page)

	// second round picks up where the cursor left off
	items, st, err := c.Crawl(context.Background(), srv.URL, url.Values{}, 60, st, 30)
	require.NoError(t, err)
	assert.Len(t, items, 30)
	assert.Equal(t, 2, st.Page)
}

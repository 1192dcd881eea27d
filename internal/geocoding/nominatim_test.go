package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wonderLakeBox = &BoundingBox{MinLat: 42.33, MaxLat: 42.43, MinLon: -88.41, MaxLon: -88.29}

func newTestClient(t *testing.T, handler http.HandlerFunc, ttl time.Duration) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(config.GeocoderConfig{
		BaseURL:   srv.URL,
		UserAgent: "owl-test/1.0",
		Timeout:   2 * time.Second,
		CacheTTL:  ttl,
	})
	return c, &calls
}

func TestSearch_DecodesResultsAndSendsParams(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "123 Lake Shore Rd, Wonder Lake, IL", r.URL.Query().Get("q"))
		assert.Equal(t, "-88.410000,42.430000,-88.290000,42.330000", r.URL.Query().Get("viewbox"))
		assert.Equal(t, "owl-test/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lat":"42.3801","lon":"-88.3502","display_name":"123, Lake Shore Road, Wonder Lake, IL"},
			{"lat":"bogus","lon":"-88.1","display_name":"broken"}
		]`))
	}, 0)

	got, err := c.Search(context.Background(), "123 Lake Shore Rd, Wonder Lake, IL", wonderLakeBox)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 42.3801, got[0].Lat, 1e-9)
	assert.InDelta(t, -88.3502, got[0].Lon, 1e-9)
	assert.Equal(t, "123, Lake Shore Road, Wonder Lake, IL", got[0].DisplayName)
}

func TestSearch_PrefersResultsInsideBox(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"lat":"40.0","lon":"-75.0","display_name":"Main St, Pennsylvania"},
			{"lat":"42.37","lon":"-88.36","display_name":"Main St, Wonder Lake"},
			{"lat":"42.46","lon":"-88.36","display_name":"Main St, just outside the margin"}
		]`))
	}, 0)

	got, err := c.Search(context.Background(), "Main St", wonderLakeBox)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Main St, Wonder Lake", got[0].DisplayName)
	assert.Equal(t, "Main St, just outside the margin", got[1].DisplayName)
}

func TestSearch_FallsBackWhenNothingInsideBox(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"lat":"40.0","lon":"-75.0","display_name":"A"},
			{"lat":"41.0","lon":"-76.0","display_name":"B"}
		]`))
	}, 0)

	got, err := c.Search(context.Background(), "Elsewhere", wonderLakeBox)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearch_NoBoxSkipsViewbox(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("viewbox"))
		_, _ = w.Write([]byte(`[]`))
	}, 0)

	got, err := c.Search(context.Background(), "Nowhere", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_Non2xxIsError(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}, time.Minute)

	_, err := c.Search(context.Background(), "123 Main St", wonderLakeBox)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	// Errors are not cached and are not retried.
	_, err = c.Search(context.Background(), "123 Main St", wonderLakeBox)
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestSearch_BadJSONIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}, 0)

	_, err := c.Search(context.Background(), "x", nil)
	assert.Error(t, err)
}

func TestSearch_CachesSuccessfulResponses(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"42.38","lon":"-88.35","display_name":"Cached"}]`))
	}, time.Minute)

	ctx := context.Background()
	first, err := c.Search(ctx, "7 Oak Ct", wonderLakeBox)
	require.NoError(t, err)
	second, err := c.Search(ctx, "  7 OAK CT ", wonderLakeBox)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	// A different box is a different query.
	_, err = c.Search(ctx, "7 Oak Ct", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestSearch_ContextCancelled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Search(ctx, "x", nil)
	assert.Error(t, err)
}

func TestBoundingBox(t *testing.T) {
	b := BoundingBox{MinLat: 1, MaxLat: 2, MinLon: 3, MaxLon: 4}
	assert.True(t, b.Contains(1.5, 3.5))
	assert.True(t, b.Contains(1, 3))
	assert.False(t, b.Contains(0.9, 3.5))

	e := b.Expand(0.5)
	assert.Equal(t, BoundingBox{MinLat: 0.5, MaxLat: 2.5, MinLon: 2.5, MaxLon: 4.5}, e)
	assert.Equal(t, "3.000000,2.000000,4.000000,1.000000", b.viewbox())
}

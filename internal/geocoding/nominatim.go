package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/config"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Candidate is one search hit.
type Candidate struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// BoundingBox is used both as the search viewbox and as the filter applied
// to results.
type BoundingBox struct {
	MinLat, MaxLat, MinLon, MaxLon float64
}

// Expand grows the box by deg on every side.
func (b BoundingBox) Expand(deg float64) BoundingBox {
	return BoundingBox{
		MinLat: b.MinLat - deg,
		MaxLat: b.MaxLat + deg,
		MinLon: b.MinLon - deg,
		MaxLon: b.MaxLon + deg,
	}
}

func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// viewbox renders Nominatim's "left,top,right,bottom" form.
func (b BoundingBox) viewbox() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.MinLon, b.MaxLat, b.MaxLon, b.MinLat)
}

// FilterMargin is how far past the viewbox a result may fall and still be
// preferred over the unfiltered list.
const FilterMargin = 0.05

const defaultLimit = 10

// Client talks to a Nominatim-compatible /search endpoint. It makes exactly
// one HTTP request per uncached Search call and never retries.
type Client struct {
	baseURL    string
	userAgent  string
	email      string
	httpClient *http.Client
	cache      *responseCache
	log        *zap.Logger
}

// NewClient builds a client from config. A zero CacheTTL disables caching.
func NewClient(cfg config.GeocoderConfig) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		email:     cfg.Email,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: zap.L().Named("geocoding"),
	}
	if cfg.CacheTTL > 0 {
		c.cache = newResponseCache(cfg.CacheTTL)
	}
	return c
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search geocodes a free-form query. When bbox is non-nil it is sent as a
// viewbox hint and results inside the slightly expanded box are preferred;
// if none are inside, every result is returned.
func (c *Client) Search(ctx context.Context, query string, bbox *BoundingBox) ([]Candidate, error) {
	key := cacheKey(query, bbox)
	if cached, ok := c.cache.get(ctx, key); ok {
		geocodeRequests.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	all, err := c.fetch(ctx, query, bbox)
	if err != nil {
		return nil, err
	}

	out := all
	if bbox != nil {
		out = preferWithin(all, bbox.Expand(FilterMargin))
	}
	c.cache.set(ctx, key, out)
	return out, nil
}

func (c *Client) fetch(ctx context.Context, query string, bbox *BoundingBox) ([]Candidate, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(defaultLimit))
	params.Set("countrycodes", "us")
	if bbox != nil {
		params.Set("viewbox", bbox.viewbox())
	}
	if c.email != "" {
		params.Set("email", c.email)
	}
	u := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocoding: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	geocodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		geocodeRequests.WithLabelValues("error").Inc()
		return nil, eris.Wrap(err, "geocoding: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		geocodeRequests.WithLabelValues("http_error").Inc()
		return nil, eris.Errorf("geocoding: search returned HTTP %d", resp.StatusCode)
	}

	var raw []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		geocodeRequests.WithLabelValues("decode_error").Inc()
		return nil, eris.Wrap(err, "geocoding: decode response")
	}

	out := make([]Candidate, 0, len(raw))
	for _, r := range raw {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			c.log.Debug("skipping result with bad coordinates",
				zap.String("lat", r.Lat), zap.String("lon", r.Lon))
			continue
		}
		out = append(out, Candidate{Lat: lat, Lon: lon, DisplayName: r.DisplayName})
	}

	geocodeRequests.WithLabelValues("ok").Inc()
	c.log.Debug("search",
		zap.String("query", query),
		zap.Int("results", len(out)),
		zap.Duration("took", time.Since(start)))
	return out, nil
}

// preferWithin keeps the order of all but drops results outside box, unless
// that would leave nothing.
func preferWithin(all []Candidate, box BoundingBox) []Candidate {
	var inside []Candidate
	for _, c := range all {
		if box.Contains(c.Lat, c.Lon) {
			inside = append(inside, c)
		}
	}
	if len(inside) == 0 {
		return all
	}
	return inside
}

package geocoding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	go_cache "github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"
)

// responseCache memoises search results in process. A nil cache is a no-op.
type responseCache struct {
	ttl     time.Duration
	manager *cache.Cache[[]Candidate]
}

func newResponseCache(ttl time.Duration) *responseCache {
	client := gocache.New(ttl, 2*ttl)
	return &responseCache{
		ttl:     ttl,
		manager: cache.New[[]Candidate](go_cache.NewGoCache(client)),
	}
}

func (r *responseCache) get(ctx context.Context, key string) ([]Candidate, bool) {
	if r == nil {
		return nil, false
	}
	v, err := r.manager.Get(ctx, key)
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}

func (r *responseCache) set(ctx context.Context, key string, v []Candidate) {
	if r == nil {
		return
	}
	if v == nil {
		v = []Candidate{}
	}
	_ = r.manager.Set(ctx, key, v, store.WithExpiration(r.ttl))
}

func cacheKey(query string, bbox *BoundingBox) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if bbox == nil {
		return "search:" + q
	}
	return fmt.Sprintf("search:%s|%s", q, bbox.viewbox())
}

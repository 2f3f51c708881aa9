package movement

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/NeilMac555/odds-tracker/internal/models"
)

// ResultCache memoizes ranked mover lists between dashboard refreshes so a
// page reload does not recompute movement for every tracked market.
type ResultCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewResultCache creates a cache whose entries expire after ttl.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// cacheKey uniquely identifies one ranking request shape.
func cacheKey(window Window, limit int, opts Options) string {
	return fmt.Sprintf("%s:%d:novig=%t", window, limit, opts.UseNoVig)
}

// Get returns the cached ranking for the request shape, if present.
func (rc *ResultCache) Get(window Window, limit int, opts Options) ([]*models.MovementResult, bool) {
	v, found := rc.cache.Get(cacheKey(window, limit, opts))
	if !found {
		return nil, false
	}
	results, ok := v.([]*models.MovementResult)
	return results, ok
}

// Set stores a ranking for the request shape.
func (rc *ResultCache) Set(window Window, limit int, opts Options, results []*models.MovementResult) {
	rc.cache.Set(cacheKey(window, limit, opts), results, rc.ttl)
}

// Flush drops all cached rankings. Called after each collection tick so
// fresh snapshots become visible immediately.
func (rc *ResultCache) Flush() {
	rc.cache.Flush()
}

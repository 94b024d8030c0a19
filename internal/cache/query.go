package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"legalrag/internal/domain"
)

// QueryCache memoizes ranked results for one index generation.
type QueryCache struct {
	cache *gocache.Cache
}

// NewQueryCache creates a query cache whose entries expire after ttl.
func NewQueryCache(ttl, cleanupInterval time.Duration) *QueryCache {
	return &QueryCache{cache: gocache.New(ttl, cleanupInterval)}
}

func queryKey(generation uint64, law, query string, topK int) string {
	return fmt.Sprintf("%d\x00%s\x00%d\x00%s", generation, law, topK, query)
}

// Get returns a copy of the cached results.
func (c *QueryCache) Get(generation uint64, law, query string, topK int) ([]domain.SearchResult, bool) {
	val, found := c.cache.Get(queryKey(generation, law, query, topK))
	if !found {
		return nil, false
	}
	cached := val.([]domain.SearchResult)
	out := make([]domain.SearchResult, len(cached))
	copy(out, cached)
	return out, true
}

// Set stores a copy of results with the default TTL.
func (c *QueryCache) Set(generation uint64, law, query string, topK int, results []domain.SearchResult) {
	stored := make([]domain.SearchResult, len(results))
	copy(stored, results)
	c.cache.SetDefault(queryKey(generation, law, query, topK), stored)
}

// Flush drops every entry.
func (c *QueryCache) Flush() {
	c.cache.Flush()
}

// Len reports the number of cached entries, expired ones included until cleanup.
func (c *QueryCache) Len() int {
	return c.cache.ItemCount()
}

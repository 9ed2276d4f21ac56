package datasource

import (
	"context"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/ski-ratings/internal/metrics"
	"github.com/yourusername/ski-ratings/internal/models"
)

// CachedSource keeps loaded ground-truth tables in memory for a TTL so that
// scheduled runs do not reload an unchanged secondary table every time.
// Results are always loaded fresh.
type CachedSource struct {
	DataSource
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewCachedSource wraps src with a ground-truth cache
func NewCachedSource(src DataSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		DataSource: src,
		cache:      cache.New(ttl, ttl*2),
		ttl:        ttl,
	}
}

func (c *CachedSource) key(discipline string) string {
	return c.DataSource.Name() + ":" + discipline
}

// LoadGroundTruth returns the cached table or loads and caches it
func (c *CachedSource) LoadGroundTruth(ctx context.Context, discipline string) ([]models.GroundTruthRecord, error) {
	key := c.key(discipline)
	if cached, found := c.cache.Get(key); found {
		if records, ok := cached.([]models.GroundTruthRecord); ok {
			c.hitCount.Add(1)
			metrics.RecordGroundTruthCache(true)
			return records, nil
		}
	}

	c.missCount.Add(1)
	metrics.RecordGroundTruthCache(false)
	records, err := c.DataSource.LoadGroundTruth(ctx, discipline)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, records, c.ttl)
	return records, nil
}

// Invalidate drops the cached table of a discipline
func (c *CachedSource) Invalidate(discipline string) {
	c.cache.Delete(c.key(discipline))
}

// Stats returns cache statistics
func (c *CachedSource) Stats() (hits, misses uint64, ratio float64) {
	hits = c.hitCount.Load()
	misses = c.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

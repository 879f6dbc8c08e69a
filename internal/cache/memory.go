package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kestrelworks/vantage/internal/interfaces"
	"github.com/kestrelworks/vantage/internal/models"
)

// MemoryCache is an in-process cache bounded by entry count and TTL.
type MemoryCache struct {
	snapshots *expirable.LRU[string, *models.StockSnapshot]
	bars      *expirable.LRU[string, []models.HistoricalBar]
}

// NewMemoryCache creates a memory cache holding at most capacity entries per
// dataset kind, each expiring ttl after insertion.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	if capacity <= 0 {
		capacity = 512
	}
	return &MemoryCache{
		snapshots: expirable.NewLRU[string, *models.StockSnapshot](capacity, nil, ttl),
		bars:      expirable.NewLRU[string, []models.HistoricalBar](capacity, nil, ttl),
	}
}

func (c *MemoryCache) GetSnapshot(_ context.Context, key string) (*models.StockSnapshot, bool) {
	return c.snapshots.Get(key)
}

func (c *MemoryCache) SetSnapshot(_ context.Context, key string, snap *models.StockSnapshot) error {
	c.snapshots.Add(key, snap)
	return nil
}

func (c *MemoryCache) GetBars(_ context.Context, key string) ([]models.HistoricalBar, bool) {
	return c.bars.Get(key)
}

func (c *MemoryCache) SetBars(_ context.Context, key string, bars []models.HistoricalBar) error {
	c.bars.Add(key, bars)
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

// Ensure MemoryCache implements SnapshotCache
var _ interfaces.SnapshotCache = (*MemoryCache)(nil)

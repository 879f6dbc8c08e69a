package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/kestrelworks/vantage/internal/common"
	"github.com/kestrelworks/vantage/internal/interfaces"
	"github.com/kestrelworks/vantage/internal/models"
)

// CachedEntry is a key-value row stored in BadgerDB. Payload is the JSON
// encoding of the snapshot; CachedAt drives TTL checks on read.
type CachedEntry struct {
	Key      string `badgerhold:"key"`
	Payload  []byte
	CachedAt time.Time
}

// BadgerCache is a BadgerHold-backed snapshot cache. It trades the memory
// backend's speed for persistence across restarts; TTL semantics are
// identical because expiry is checked against CachedAt on every read.
type BadgerCache struct {
	db     *badgerhold.Store
	ttl    time.Duration
	logger *common.Logger
}

// NewBadgerCache opens (or creates) a BadgerHold store at path.
func NewBadgerCache(logger *common.Logger, path string, ttl time.Duration) (*BadgerCache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Badger cache opened")

	return &BadgerCache{db: db, ttl: ttl, logger: logger}, nil
}

// get loads and decodes a fresh entry into dest, reporting a miss for
// absent or expired keys. Expired entries are deleted on the way out.
func (c *BadgerCache) get(key string, dest interface{}) bool {
	var entry CachedEntry
	if err := c.db.Get(key, &entry); err != nil {
		return false
	}

	if !common.IsFresh(entry.CachedAt, c.ttl) {
		if err := c.db.Delete(key, CachedEntry{}); err != nil && err != badgerhold.ErrNotFound {
			c.logger.Warn().Err(err).Str("key", key).Msg("Failed to delete expired cache entry")
		}
		return false
	}

	if err := json.Unmarshal(entry.Payload, dest); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to decode cache entry")
		return false
	}
	return true
}

func (c *BadgerCache) set(key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry '%s': %w", key, err)
	}
	entry := CachedEntry{Key: key, Payload: data, CachedAt: time.Now()}
	if err := c.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to store cache entry '%s': %w", key, err)
	}
	return nil
}

func (c *BadgerCache) GetSnapshot(_ context.Context, key string) (*models.StockSnapshot, bool) {
	var snap models.StockSnapshot
	if !c.get(key, &snap) {
		return nil, false
	}
	return &snap, true
}

func (c *BadgerCache) SetSnapshot(_ context.Context, key string, snap *models.StockSnapshot) error {
	return c.set(key, snap)
}

func (c *BadgerCache) GetBars(_ context.Context, key string) ([]models.HistoricalBar, bool) {
	var bars []models.HistoricalBar
	if !c.get(key, &bars) {
		return nil, false
	}
	return bars, true
}

func (c *BadgerCache) SetBars(_ context.Context, key string, bars []models.HistoricalBar) error {
	return c.set(key, bars)
}

func (c *BadgerCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ensure BadgerCache implements SnapshotCache
var _ interfaces.SnapshotCache = (*BadgerCache)(nil)

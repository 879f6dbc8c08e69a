// Package cache provides the short-TTL response cache with pluggable
// backends: an in-memory expirable LRU and a BadgerHold-backed store that
// survives restarts. Entries expire strictly by wall-clock age; an expired
// read behaves exactly like a miss.
package cache

import (
	"fmt"
	"strings"

	"github.com/kestrelworks/vantage/internal/common"
	"github.com/kestrelworks/vantage/internal/interfaces"
)

// Backend type constants.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Logical dataset names used to build cache keys.
const (
	DatasetStockData = "stock_data"
	DatasetIntraday  = "intraday_data"
)

// Key builds the deterministic cache key for a dataset and ticker.
// Tickers are uppercase-normalized so "aapl" and "AAPL" share an entry.
func Key(dataset, ticker string) string {
	return dataset + "_" + strings.ToUpper(strings.TrimSpace(ticker))
}

// New creates a snapshot cache from configuration.
// Supported backends: "memory" (default), "badger".
func New(logger *common.Logger, config *common.CacheConfig) (interfaces.SnapshotCache, error) {
	backend := config.Backend
	if backend == "" {
		backend = BackendMemory
	}

	switch backend {
	case BackendMemory:
		return NewMemoryCache(config.Capacity, config.GetTTL()), nil

	case BackendBadger:
		return NewBadgerCache(logger, config.Path, config.GetTTL())

	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: memory, badger)", backend)
	}
}

// Package interfaces defines service contracts for Vantage
package interfaces

import (
	"context"

	"github.com/kestrelworks/vantage/internal/models"
)

// SnapshotCache memoizes per-ticker responses for a fixed TTL. Reads of an
// expired entry behave identically to a miss; there is no explicit deletion
// beyond expiry and the capacity bound.
type SnapshotCache interface {
	// GetSnapshot returns the cached analysis bundle for key, if fresh
	GetSnapshot(ctx context.Context, key string) (*models.StockSnapshot, bool)

	// SetSnapshot stores the analysis bundle under key
	SetSnapshot(ctx context.Context, key string, snap *models.StockSnapshot) error

	// GetBars returns cached bars for key, if fresh
	GetBars(ctx context.Context, key string) ([]models.HistoricalBar, bool)

	// SetBars stores bars under key
	SetBars(ctx context.Context, key string, bars []models.HistoricalBar) error

	Close() error
}

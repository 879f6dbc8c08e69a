// Package interfaces defines service contracts for Vantage
package interfaces

import (
	"context"
	"time"

	"github.com/kestrelworks/vantage/internal/models"
)

// MarketDataProvider is the upstream market-data collaborator. Implementations
// exist for Yahoo Finance and Alpha Vantage; the aggregator is indifferent to
// which one it talks to.
type MarketDataProvider interface {
	// Name identifies the provider ("yahoo" or "alpha")
	Name() string

	// GetQuote retrieves a live quote. This is the one fetch whose total
	// failure is allowed to surface to the caller.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetFundamentals retrieves normalized fundamental metrics
	GetFundamentals(ctx context.Context, symbol string) (*models.FinancialMetrics, error)

	// GetHistoricalBars retrieves close/volume bars for the date range.
	// interval is a provider interval string such as "1d" or "5m".
	// Returns an empty slice when no data exists.
	GetHistoricalBars(ctx context.Context, symbol string, from, to time.Time, interval string) ([]models.HistoricalBar, error)

	// SearchNews retrieves up to limit recent headlines for a symbol.
	// Returns an empty slice on no results.
	SearchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)

	// SearchSymbol resolves a free-text query to the best-matching ticker
	SearchSymbol(ctx context.Context, query string) (string, error)
}

// QuoteProvider is a narrow quote-only source used as a fallback path
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// Package interfaces defines service contracts for Vantage
package interfaces

import (
	"context"

	"github.com/kestrelworks/vantage/internal/models"
)

// AdvisorService produces the full analysis bundle for a ticker
type AdvisorService interface {
	// GetFullAnalysis returns the composite snapshot for a ticker, serving
	// from cache when a fresh snapshot exists.
	GetFullAnalysis(ctx context.Context, ticker string) (*models.StockSnapshot, error)

	// GetIntradayBars returns the last trading day of 5-minute bars
	GetIntradayBars(ctx context.Context, ticker string) ([]models.HistoricalBar, error)

	// ResolveSymbol maps a free-text query to a ticker symbol, falling back
	// to the uppercased query when no match is found.
	ResolveSymbol(ctx context.Context, query string) string
}

// QuoteService retrieves live quotes with provider fallback
type QuoteService interface {
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
}

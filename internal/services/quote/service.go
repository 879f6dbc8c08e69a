// Package quote provides a real-time quote service with automatic fallback
package quote

import (
	"context"
	"time"

	"github.com/kestrelworks/vantage/internal/common"
	"github.com/kestrelworks/vantage/internal/interfaces"
	"github.com/kestrelworks/vantage/internal/models"
)

// StalenessThreshold is the age beyond which a primary-provider quote is
// considered broken enough to attempt the fallback source. Quotes are
// expected to lag a few minutes; a day-old timestamp means the provider
// is serving cached garbage.
var StalenessThreshold = 24 * time.Hour

// Service implements QuoteService with a primary provider and an optional
// finance-go fallback.
type Service struct {
	provider interfaces.MarketDataProvider
	fallback interfaces.QuoteProvider
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

// NewService creates a new quote service.
// fallback may be nil, in which case primary failures surface directly.
func NewService(provider interfaces.MarketDataProvider, fallback interfaces.QuoteProvider, logger *common.Logger) *Service {
	return &Service{
		provider: provider,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// GetQuote retrieves a live quote, falling back to the secondary source when
// the primary fails or returns a stale timestamp.
func (s *Service) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	primary, primaryErr := s.provider.GetQuote(ctx, ticker)

	if primaryErr == nil && primary != nil && !s.isStale(primary.Timestamp) {
		return primary, nil
	}

	if s.fallback == nil {
		if primaryErr != nil {
			return nil, primaryErr
		}
		return primary, nil
	}

	s.logger.Info().
		Str("ticker", ticker).
		Bool("primary_failed", primaryErr != nil).
		Msg("Attempting quote fallback")

	fallbackQuote, fallbackErr := s.fallback.GetQuote(ctx, ticker)
	if fallbackErr != nil {
		s.logger.Warn().Err(fallbackErr).Str("ticker", ticker).Msg("Quote fallback failed")
		// Return the stale primary quote if we have one, otherwise the original error
		if primaryErr != nil {
			return nil, primaryErr
		}
		return primary, nil
	}

	s.logger.Info().
		Str("ticker", ticker).
		Str("source", fallbackQuote.Source).
		Float64("price", fallbackQuote.Price).
		Msg("Quote fallback succeeded")

	return fallbackQuote, nil
}

// isStale reports whether a quote timestamp is older than the threshold.
// A zero timestamp is treated as fresh since some sources omit it.
func (s *Service) isStale(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return s.now().Sub(ts) > StalenessThreshold
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)

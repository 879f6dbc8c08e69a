// Package finq wraps the finance-go library as a quote-only fallback source.
// It covers the narrow case where the primary provider's quote endpoint is
// down but the rest of the analysis pipeline can still proceed.
package finq

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/quote"

	"github.com/kestrelworks/vantage/internal/common"
	"github.com/kestrelworks/vantage/internal/interfaces"
	"github.com/kestrelworks/vantage/internal/models"
)

// Client implements the QuoteProvider interface via finance-go
type Client struct {
	logger *common.Logger
}

// NewClient creates a new finance-go quote client
func NewClient(logger *common.Logger) *Client {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Client{logger: logger}
}

// GetQuote retrieves a live quote. finance-go has no context support, so the
// call runs in a goroutine and the result is dropped if ctx expires first.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	type result struct {
		quote *models.Quote
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		q, err := quote.Get(symbol)
		if err != nil {
			ch <- result{err: fmt.Errorf("finance-go quote for %s: %w", symbol, err)}
			return
		}
		if q == nil || q.RegularMarketPrice == 0 {
			ch <- result{err: fmt.Errorf("no quote data for %s", symbol)}
			return
		}

		ch <- result{quote: &models.Quote{
			Symbol:        q.Symbol,
			Price:         q.RegularMarketPrice,
			Open:          q.RegularMarketOpen,
			High:          q.RegularMarketDayHigh,
			Low:           q.RegularMarketDayLow,
			Volume:        int64(q.RegularMarketVolume),
			PreviousClose: q.RegularMarketPreviousClose,
			Change:        q.RegularMarketChange,
			ChangePct:     q.RegularMarketChangePercent,
			Timestamp:     time.Unix(int64(q.RegularMarketTime), 0).UTC(),
			Source:        "finance-go",
		}}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			c.logger.Debug().Err(r.err).Str("symbol", symbol).Msg("finance-go quote failed")
		}
		return r.quote, r.err
	}
}

// Ensure Client implements QuoteProvider
var _ interfaces.QuoteProvider = (*Client)(nil)

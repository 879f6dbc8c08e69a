package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/kestrelworks/vantage/internal/cache"
	"github.com/kestrelworks/vantage/internal/models"
)

// IntradayLookback covers weekends and market holidays when searching for
// the most recent trading day.
const IntradayLookback = 5 * 24 * time.Hour

// GetIntradayBars returns 5-minute bars for the most recent trading day,
// serving from cache when fresh.
func (s *Service) GetIntradayBars(ctx context.Context, ticker string) ([]models.HistoricalBar, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	key := cache.Key(cache.DatasetIntraday, ticker)

	if bars, ok := s.cache.GetBars(ctx, key); ok {
		s.logger.Debug().Str("ticker", ticker).Msg("Serving intraday bars from cache")
		return bars, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if bars, ok := s.cache.GetBars(ctx, key); ok {
			return bars, nil
		}

		now := s.now()
		bars, err := s.provider.GetHistoricalBars(ctx, ticker, now.Add(-IntradayLookback), now, "5m")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch data for %s: %w", ticker, err)
		}

		bars = lastTradingDay(bars)

		if err := s.cache.SetBars(ctx, key, bars); err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache intraday bars")
		}

		return bars, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.HistoricalBar), nil
}

// lastTradingDay trims a multi-day bar series to the bars sharing the final
// bar's calendar date.
func lastTradingDay(bars []models.HistoricalBar) []models.HistoricalBar {
	if len(bars) == 0 {
		return []models.HistoricalBar{}
	}

	last := bars[len(bars)-1].Date.UTC()
	y, m, d := last.Date()

	start := len(bars) - 1
	for start > 0 {
		py, pm, pd := bars[start-1].Date.UTC().Date()
		if py != y || pm != m || pd != d {
			break
		}
		start--
	}

	return bars[start:]
}

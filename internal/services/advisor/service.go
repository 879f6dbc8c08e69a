// Package advisor assembles the full analysis bundle for a ticker: live
// quote, normalized fundamentals, headlines, price history and the scored
// investment opinion, memoized behind the response cache.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/kestrelworks/vantage/internal/analysis"
	"github.com/kestrelworks/vantage/internal/cache"
	"github.com/kestrelworks/vantage/internal/common"
	"github.com/kestrelworks/vantage/internal/interfaces"
	"github.com/kestrelworks/vantage/internal/models"
)

const (
	// FetchTimeout bounds the whole upstream fan-out for one ticker
	FetchTimeout = 20 * time.Second

	// HistoryMonths is the daily price history window
	HistoryMonths = 6

	// NewsLimit is the number of headlines fetched per ticker
	NewsLimit = 5
)

// Service implements AdvisorService
type Service struct {
	provider interfaces.MarketDataProvider
	quotes   interfaces.QuoteService
	cache    interfaces.SnapshotCache
	engine   *analysis.Engine
	logger   *common.Logger
	group    singleflight.Group
	now      func() time.Time // injectable clock for testing
}

// NewService creates a new advisor service
func NewService(provider interfaces.MarketDataProvider, quotes interfaces.QuoteService, snapshotCache interfaces.SnapshotCache, logger *common.Logger) *Service {
	return &Service{
		provider: provider,
		quotes:   quotes,
		cache:    snapshotCache,
		engine:   analysis.NewEngine(),
		logger:   logger,
		now:      time.Now,
	}
}

// GetFullAnalysis returns the composite snapshot for a ticker, serving from
// cache when a fresh snapshot exists. Concurrent requests for the same ticker
// share a single upstream fetch.
func (s *Service) GetFullAnalysis(ctx context.Context, ticker string) (*models.StockSnapshot, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	key := cache.Key(cache.DatasetStockData, ticker)

	if snap, ok := s.cache.GetSnapshot(ctx, key); ok {
		s.logger.Debug().Str("ticker", ticker).Msg("Serving analysis from cache")
		return snap, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A concurrent flight may have filled the cache while we waited
		if snap, ok := s.cache.GetSnapshot(ctx, key); ok {
			return snap, nil
		}

		snap, err := s.buildSnapshot(ctx, ticker)
		if err != nil {
			return nil, err
		}

		if err := s.cache.SetSnapshot(ctx, key, snap); err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache snapshot")
		}

		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.StockSnapshot), nil
}

// buildSnapshot fans out the upstream fetches and scores the result. Only a
// quote failure is fatal; fundamentals, news and history degrade to empty so
// a partial bundle still renders.
func (s *Service) buildSnapshot(ctx context.Context, ticker string) (*models.StockSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	var (
		quote      *models.Quote
		metrics    *models.FinancialMetrics
		news       []models.NewsItem
		historical []models.HistoricalBar
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q, err := s.quotes.GetQuote(gctx, ticker)
		if err != nil {
			return fmt.Errorf("failed to fetch data for %s: %w", ticker, err)
		}
		quote = q
		return nil
	})

	g.Go(func() error {
		m, err := s.provider.GetFundamentals(gctx, ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Fundamentals fetch failed, continuing without")
			return nil
		}
		metrics = m
		return nil
	})

	g.Go(func() error {
		n, err := s.provider.SearchNews(gctx, ticker, NewsLimit)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("News fetch failed, continuing without")
			return nil
		}
		news = n
		return nil
	})

	g.Go(func() error {
		now := s.now()
		bars, err := s.provider.GetHistoricalBars(gctx, ticker, now.AddDate(0, -HistoryMonths, 0), now, "1d")
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("History fetch failed, continuing without")
			return nil
		}
		historical = bars
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if news == nil {
		news = []models.NewsItem{}
	}
	if historical == nil {
		historical = []models.HistoricalBar{}
	}

	snap := &models.StockSnapshot{
		Ticker:     ticker,
		Quote:      quote,
		Metrics:    metrics,
		News:       news,
		Analysis:   s.engine.Analyze(metrics, quote),
		Historical: historical,
		FetchedAt:  s.now().UTC(),
		Source:     s.provider.Name(),
	}

	s.logger.Info().
		Str("ticker", ticker).
		Str("recommendation", string(snap.Analysis.Recommendation)).
		Int("score", snap.Analysis.Score).
		Msg("Built analysis snapshot")

	return snap, nil
}

// ResolveSymbol maps a free-text query to a ticker symbol, falling back to
// the uppercased query when the provider finds no match.
func (s *Service) ResolveSymbol(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}

	symbol, err := s.provider.SearchSymbol(ctx, query)
	if err != nil || symbol == "" {
		s.logger.Debug().Str("query", query).Msg("Symbol search found no match, using raw query")
		return strings.ToUpper(query)
	}

	return symbol
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Ensure Service implements AdvisorService
var _ interfaces.AdvisorService = (*Service)(nil)

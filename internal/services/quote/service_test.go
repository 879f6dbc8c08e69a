package quote

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kestrelworks/vantage/internal/common"
	"github.com/kestrelworks/vantage/internal/models"
)

// --- mock market data provider ---

type mockProvider struct {
	quoteFn func(ctx context.Context, symbol string) (*models.Quote, error)
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if m.quoteFn != nil {
		return m.quoteFn(ctx, symbol)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockProvider) GetFundamentals(ctx context.Context, symbol string) (*models.FinancialMetrics, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockProvider) GetHistoricalBars(ctx context.Context, symbol string, from, to time.Time, interval string) ([]models.HistoricalBar, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockProvider) SearchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockProvider) SearchSymbol(ctx context.Context, query string) (string, error) {
	return "", fmt.Errorf("not implemented")
}

// --- mock fallback quote provider ---

type mockFallback struct {
	quoteFn func(ctx context.Context, symbol string) (*models.Quote, error)
	calls   int
}

func (m *mockFallback) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	m.calls++
	if m.quoteFn != nil {
		return m.quoteFn(ctx, symbol)
	}
	return nil, fmt.Errorf("not implemented")
}

func TestGetQuote_PrimarySucceeds(t *testing.T) {
	now := time.Now()
	primary := &mockProvider{
		quoteFn: func(_ context.Context, symbol string) (*models.Quote, error) {
			return &models.Quote{Symbol: symbol, Price: 187.44, Timestamp: now, Source: "yahoo"}, nil
		},
	}
	fallback := &mockFallback{}

	svc := NewService(primary, fallback, common.NewSilentLogger())
	quote, err := svc.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if quote.Source != "yahoo" {
		t.Errorf("expected primary quote, got source %s", quote.Source)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback should not be called when primary is fresh, got %d calls", fallback.calls)
	}
}

func TestGetQuote_PrimaryFailsFallbackSucceeds(t *testing.T) {
	primary := &mockProvider{
		quoteFn: func(_ context.Context, _ string) (*models.Quote, error) {
			return nil, fmt.Errorf("upstream down")
		},
	}
	fallback := &mockFallback{
		quoteFn: func(_ context.Context, symbol string) (*models.Quote, error) {
			return &models.Quote{Symbol: symbol, Price: 186.90, Timestamp: time.Now(), Source: "finance-go"}, nil
		},
	}

	svc := NewService(primary, fallback, common.NewSilentLogger())
	quote, err := svc.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if quote.Source != "finance-go" {
		t.Errorf("expected fallback quote, got source %s", quote.Source)
	}
	if quote.Price != 186.90 {
		t.Errorf("expected price 186.90, got %.2f", quote.Price)
	}
}

func TestGetQuote_BothFail(t *testing.T) {
	primaryErr := fmt.Errorf("upstream down")
	primary := &mockProvider{
		quoteFn: func(_ context.Context, _ string) (*models.Quote, error) {
			return nil, primaryErr
		},
	}
	fallback := &mockFallback{
		quoteFn: func(_ context.Context, _ string) (*models.Quote, error) {
			return nil, fmt.Errorf("fallback down too")
		},
	}

	svc := NewService(primary, fallback, common.NewSilentLogger())
	_, err := svc.GetQuote(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error when both sources fail")
	}
	// The primary error is the one that surfaces
	if err != primaryErr {
		t.Errorf("expected primary error, got %v", err)
	}
}

func TestGetQuote_StaleTriggersFallback(t *testing.T) {
	now := time.Date(2026, 8, 28, 16, 0, 0, 0, time.UTC)
	stale := now.Add(-48 * time.Hour)

	primary := &mockProvider{
		quoteFn: func(_ context.Context, symbol string) (*models.Quote, error) {
			return &models.Quote{Symbol: symbol, Price: 180.00, Timestamp: stale, Source: "yahoo"}, nil
		},
	}
	fallback := &mockFallback{
		quoteFn: func(_ context.Context, symbol string) (*models.Quote, error) {
			return &models.Quote{Symbol: symbol, Price: 187.44, Timestamp: now, Source: "finance-go"}, nil
		},
	}

	svc := NewService(primary, fallback, common.NewSilentLogger())
	svc.now = func() time.Time { return now }

	quote, err := svc.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote.Source != "finance-go" {
		t.Errorf("expected fallback for stale primary quote, got source %s", quote.Source)
	}
}

func TestGetQuote_StaleFallbackFailsReturnsStale(t *testing.T) {
	now := time.Date(2026, 8, 28, 16, 0, 0, 0, time.UTC)

	primary := &mockProvider{
		quoteFn: func(_ context.Context, symbol string) (*models.Quote, error) {
			return &models.Quote{Symbol: symbol, Price: 180.00, Timestamp: now.Add(-48 * time.Hour), Source: "yahoo"}, nil
		},
	}
	fallback := &mockFallback{
		quoteFn: func(_ context.Context, _ string) (*models.Quote, error) {
			return nil, fmt.Errorf("fallback down")
		},
	}

	svc := NewService(primary, fallback, common.NewSilentLogger())
	svc.now = func() time.Time { return now }

	quote, err := svc.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	// A stale quote beats no quote
	if quote.Price != 180.00 {
		t.Errorf("expected stale primary quote, got %.2f", quote.Price)
	}
}

func TestGetQuote_NoFallbackConfigured(t *testing.T) {
	primary := &mockProvider{
		quoteFn: func(_ context.Context, _ string) (*models.Quote, error) {
			return nil, fmt.Errorf("upstream down")
		},
	}

	svc := NewService(primary, nil, common.NewSilentLogger())
	if _, err := svc.GetQuote(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error with no fallback configured")
	}
}

package alpha

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const globalQuoteBody = `{
	"Global Quote": {
		"01. symbol": "IBM",
		"02. open": "185.10",
		"03. high": "187.90",
		"04. low": "184.50",
		"05. price": "186.75",
		"06. volume": "3210000",
		"07. latest trading day": "2026-08-28",
		"08. previous close": "184.00",
		"09. change": "2.75",
		"10. change percent": "1.4946%"
	}
}`

func TestGetQuote_ParsesStringFields(t *testing.T) {
	var capturedFunction string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedFunction = r.URL.Query().Get("function")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, globalQuoteBody)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	quote, err := client.GetQuote(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if capturedFunction != "GLOBAL_QUOTE" {
		t.Errorf("expected function GLOBAL_QUOTE, got %s", capturedFunction)
	}
	if quote.Symbol != "IBM" {
		t.Errorf("expected symbol IBM, got %s", quote.Symbol)
	}
	if quote.Price != 186.75 {
		t.Errorf("expected price 186.75, got %.2f", quote.Price)
	}
	if quote.Volume != 3210000 {
		t.Errorf("expected volume 3210000, got %d", quote.Volume)
	}
	if quote.ChangePct != 1.4946 {
		t.Errorf("expected change percent 1.4946, got %.4f", quote.ChangePct)
	}
	if quote.Source != "alpha" {
		t.Errorf("expected source alpha, got %s", quote.Source)
	}
}

func TestGetQuote_EmptyEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Global Quote": {}}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	if _, err := client.GetQuote(context.Background(), "NOSUCH"); err == nil {
		t.Fatal("expected error for empty quote envelope")
	}
}

func TestGetQuote_ThrottleNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.GetQuote(context.Background(), "IBM")
	if err == nil {
		t.Fatal("expected error for throttle note")
	}
	if _, ok := err.(*APIError); !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
}

const overviewBody = `{
	"Symbol": "IBM",
	"MarketCapitalization": "171000000000",
	"TrailingPE": "22.5",
	"ForwardPE": "18.2",
	"PEGRatio": "1.9",
	"EPS": "8.25",
	"DividendYield": "0.036",
	"52WeekHigh": "199.18",
	"52WeekLow": "130.68",
	"Beta": "0.72",
	"PriceToBookRatio": "7.4",
	"ReturnOnEquityTTM": "0.34",
	"ProfitMargin": "0.132",
	"QuarterlyEarningsGrowthYOY": "-0.08",
	"QuarterlyRevenueGrowthYOY": "None",
	"AnalystTargetPrice": "195.00"
}`

func TestGetFundamentals_NormalizesOverview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, overviewBody)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	m, err := client.GetFundamentals(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("GetFundamentals failed: %v", err)
	}

	if !m.TrailingPE.Valid || m.TrailingPE.Value != 22.5 {
		t.Errorf("expected trailing PE 22.5, got %+v", m.TrailingPE)
	}

	// Fractional rates convert to percent units
	if !m.ReturnOnEquity.Valid || m.ReturnOnEquity.Value != 34.0 {
		t.Errorf("expected ROE 34.0, got %+v", m.ReturnOnEquity)
	}
	if diff := m.DividendYield.Value - 3.6; !m.DividendYield.Valid || diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected dividend yield 3.6, got %+v", m.DividendYield)
	}
	if !m.EarningsGrowth.Valid || m.EarningsGrowth.Value != -8.0 {
		t.Errorf("expected earnings growth -8.0, got %+v", m.EarningsGrowth)
	}

	// "None" sentinel maps to an absent metric
	if m.RevenueGrowth.Valid {
		t.Errorf("expected revenue growth absent, got %+v", m.RevenueGrowth)
	}
	if m.DebtToEquity.Valid {
		t.Errorf("expected debt/equity absent, got %+v", m.DebtToEquity)
	}

	if !m.TargetMeanPrice.Valid || m.TargetMeanPrice.Value != 195.00 {
		t.Errorf("expected analyst target 195.00, got %+v", m.TargetMeanPrice)
	}
}

func TestGetFundamentals_EmptyOverview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	if _, err := client.GetFundamentals(context.Background(), "NOSUCH"); err == nil {
		t.Fatal("expected error for empty overview")
	}
}

func TestSearchNews_WithoutKeyReturnsEmpty(t *testing.T) {
	client := NewClient("test-key")
	news, err := client.SearchNews(context.Background(), "IBM", 5)
	if err != nil {
		t.Fatalf("SearchNews failed: %v", err)
	}
	if len(news) != 0 {
		t.Errorf("expected no headlines without a NewsAPI key, got %d", len(news))
	}
}

func TestSearchNews_ParsesArticles(t *testing.T) {
	var capturedKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedKey = r.Header.Get("X-Api-Key")
		fmt.Fprint(w, `{"status":"ok","articles":[{"title":"IBM lands cloud deal","url":"https://example.com/1"},{"title":"","url":"https://example.com/2"}]}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithNewsBaseURL(srv.URL), WithNewsAPIKey("news-key"))
	news, err := client.SearchNews(context.Background(), "IBM", 5)
	if err != nil {
		t.Fatalf("SearchNews failed: %v", err)
	}

	if capturedKey != "news-key" {
		t.Errorf("expected X-Api-Key header, got %q", capturedKey)
	}
	if len(news) != 1 {
		t.Fatalf("expected 1 headline after filtering, got %d", len(news))
	}
	if news[0].Title != "IBM lands cloud deal" {
		t.Errorf("unexpected headline: %s", news[0].Title)
	}
}

func TestSearchSymbol_BestMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"bestMatches":[{"1. symbol":"IBM","2. name":"International Business Machines","9. matchScore":"1.0000"}]}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	symbol, err := client.SearchSymbol(context.Background(), "international business")
	if err != nil {
		t.Fatalf("SearchSymbol failed: %v", err)
	}
	if symbol != "IBM" {
		t.Errorf("expected IBM, got %s", symbol)
	}
}

func TestGetHistoricalBars_Empty(t *testing.T) {
	client := NewClient("test-key")
	bars, err := client.GetHistoricalBars(context.Background(), "IBM", time.Time{}, time.Time{}, "1d")
	if err != nil {
		t.Fatalf("GetHistoricalBars failed: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected empty bars, got %d", len(bars))
	}
}

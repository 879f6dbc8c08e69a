// Package alpha provides a client for the Alpha Vantage API, with company
// headlines sourced from NewsAPI. It is the alternate market-data path; its
// free tier is heavily rationed, so callers cache its responses longer.
package alpha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kestrelworks/vantage/internal/analysis"
	"github.com/kestrelworks/vantage/internal/common"
	"github.com/kestrelworks/vantage/internal/interfaces"
	"github.com/kestrelworks/vantage/internal/models"
)

const (
	DefaultBaseURL     = "https://www.alphavantage.co"
	DefaultNewsBaseURL = "https://newsapi.org"
	DefaultTimeout     = 10 * time.Second
	DefaultRateLimit   = 1 // requests per second; the free tier allows 25/day
)

// Client implements the MarketDataProvider interface against Alpha Vantage
type Client struct {
	baseURL     string
	newsBaseURL string
	apiKey      string
	newsAPIKey  string
	httpClient  *http.Client
	logger      *common.Logger
	limiter     *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the Alpha Vantage base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithNewsBaseURL sets the NewsAPI base URL
func WithNewsBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.newsBaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithNewsAPIKey sets the NewsAPI key; headlines are skipped without one
func WithNewsAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.newsAPIKey = key
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		newsBaseURL: DefaultNewsBaseURL,
		apiKey:      apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies the provider
func (c *Client) Name() string {
	return "alpha"
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// query performs a rate-limited GET against the Alpha Vantage query endpoint
func (c *Client) query(ctx context.Context, function, symbol string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("function", function).Str("symbol", symbol).Msg("Alpha Vantage API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   function,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Alpha Vantage reports throttling and bad keys inside a 200 response
	var envelope struct {
		Note         string `json:"Note"`
		Information  string `json:"Information"`
		ErrorMessage string `json:"Error Message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.ErrorMessage != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: envelope.ErrorMessage, Endpoint: function}
		}
		if envelope.Note != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: envelope.Note, Endpoint: function}
		}
		if envelope.Information != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: envelope.Information, Endpoint: function}
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// globalQuoteResponse is the GLOBAL_QUOTE envelope; every field is a string
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Open          string `json:"02. open"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		LatestDay     string `json:"07. latest trading day"`
		PreviousClose string `json:"08. previous close"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// GetQuote retrieves a live quote via GLOBAL_QUOTE
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var resp globalQuoteResponse
	if err := c.query(ctx, "GLOBAL_QUOTE", symbol, &resp); err != nil {
		return nil, err
	}

	gq := resp.GlobalQuote
	price := analysis.ParseNumeric(gq.Price)
	if gq.Symbol == "" || price == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	quote := &models.Quote{
		Symbol:        gq.Symbol,
		Price:         price,
		Open:          analysis.ParseNumeric(gq.Open),
		High:          analysis.ParseNumeric(gq.High),
		Low:           analysis.ParseNumeric(gq.Low),
		Volume:        int64(analysis.ParseNumeric(gq.Volume)),
		PreviousClose: analysis.ParseNumeric(gq.PreviousClose),
		Change:        analysis.ParseNumeric(gq.Change),
		ChangePct:     analysis.ParseNumeric(gq.ChangePercent),
		Timestamp:     time.Now().UTC(),
		Source:        "alpha",
	}

	if day, err := time.Parse("2006-01-02", gq.LatestDay); err == nil {
		quote.Timestamp = day
	}

	return quote, nil
}

// overviewResponse is the OVERVIEW envelope; absent values arrive as "None" or "-"
type overviewResponse struct {
	Symbol                     string `json:"Symbol"`
	MarketCapitalization       string `json:"MarketCapitalization"`
	TrailingPE                 string `json:"TrailingPE"`
	ForwardPE                  string `json:"ForwardPE"`
	PEGRatio                   string `json:"PEGRatio"`
	EPS                        string `json:"EPS"`
	DividendYield              string `json:"DividendYield"`
	High52Week                 string `json:"52WeekHigh"`
	Low52Week                  string `json:"52WeekLow"`
	Beta                       string `json:"Beta"`
	PriceToBookRatio           string `json:"PriceToBookRatio"`
	PriceToSalesRatioTTM       string `json:"PriceToSalesRatioTTM"`
	ReturnOnEquityTTM          string `json:"ReturnOnEquityTTM"`
	ReturnOnAssetsTTM          string `json:"ReturnOnAssetsTTM"`
	OperatingMarginTTM         string `json:"OperatingMarginTTM"`
	ProfitMargin               string `json:"ProfitMargin"`
	GrossProfitTTM             string `json:"GrossProfitTTM"`
	QuarterlyRevenueGrowthYOY  string `json:"QuarterlyRevenueGrowthYOY"`
	QuarterlyEarningsGrowthYOY string `json:"QuarterlyEarningsGrowthYOY"`
	RevenuePerShareTTM         string `json:"RevenuePerShareTTM"`
	AnalystTargetPrice         string `json:"AnalystTargetPrice"`
}

// pctMetric parses a fractional string rate into percent units
func pctMetric(raw string) models.Metric {
	m := analysis.ParseMetric(raw)
	if !m.Valid {
		return m
	}
	return models.Some(m.Value * 100)
}

// GetFundamentals retrieves normalized fundamental metrics via OVERVIEW
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*models.FinancialMetrics, error) {
	var resp overviewResponse
	if err := c.query(ctx, "OVERVIEW", symbol, &resp); err != nil {
		return nil, err
	}

	if resp.Symbol == "" {
		return nil, fmt.Errorf("no fundamental data for %s", symbol)
	}

	return &models.FinancialMetrics{
		Ticker:        strings.ToUpper(symbol),
		MarketCap:     analysis.ParseMetric(resp.MarketCapitalization),
		TrailingPE:    analysis.ParseMetric(resp.TrailingPE),
		ForwardPE:     analysis.ParseMetric(resp.ForwardPE),
		PEGRatio:      analysis.ParseMetric(resp.PEGRatio),
		EPS:           analysis.ParseMetric(resp.EPS),
		DividendYield: pctMetric(resp.DividendYield),
		High52Week:    analysis.ParseMetric(resp.High52Week),
		Low52Week:     analysis.ParseMetric(resp.Low52Week),
		Beta:          analysis.ParseMetric(resp.Beta),

		PriceToBook:  analysis.ParseMetric(resp.PriceToBookRatio),
		PriceToSales: analysis.ParseMetric(resp.PriceToSalesRatioTTM),

		ReturnOnEquity:  pctMetric(resp.ReturnOnEquityTTM),
		ReturnOnAssets:  pctMetric(resp.ReturnOnAssetsTTM),
		OperatingMargin: pctMetric(resp.OperatingMarginTTM),
		ProfitMargin:    pctMetric(resp.ProfitMargin),

		RevenueGrowth:   pctMetric(resp.QuarterlyRevenueGrowthYOY),
		EarningsGrowth:  pctMetric(resp.QuarterlyEarningsGrowthYOY),
		RevenuePerShare: analysis.ParseMetric(resp.RevenuePerShareTTM),

		TargetMeanPrice: analysis.ParseMetric(resp.AnalystTargetPrice),

		LastUpdated: time.Now().UTC(),
	}, nil
}

// GetHistoricalBars is not served on this path. The free tier rations daily
// series requests too aggressively to spend them on chart data, so the
// aggregator degrades to an empty history.
func (c *Client) GetHistoricalBars(_ context.Context, _ string, _, _ time.Time, _ string) ([]models.HistoricalBar, error) {
	return []models.HistoricalBar{}, nil
}

// newsAPIResponse is the NewsAPI /v2/everything envelope
type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"articles"`
}

// SearchNews retrieves recent headlines from NewsAPI
func (c *Client) SearchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if c.newsAPIKey == "" {
		return []models.NewsItem{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", symbol)
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")

	reqURL := fmt.Sprintf("%s/v2/everything?%s", c.newsBaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.newsAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/v2/everything",
		}
	}

	var newsResp newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&newsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	news := make([]models.NewsItem, 0, len(newsResp.Articles))
	for _, a := range newsResp.Articles {
		if a.Title == "" {
			continue
		}
		news = append(news, models.NewsItem{Title: a.Title, URL: a.URL})
		if len(news) >= limit {
			break
		}
	}

	return news, nil
}

// symbolSearchResponse is the SYMBOL_SEARCH envelope
type symbolSearchResponse struct {
	BestMatches []struct {
		Symbol     string `json:"1. symbol"`
		Name       string `json:"2. name"`
		Type       string `json:"3. type"`
		Region     string `json:"4. region"`
		MatchScore string `json:"9. matchScore"`
	} `json:"bestMatches"`
}

// SearchSymbol resolves a free-text query via SYMBOL_SEARCH
func (c *Client) SearchSymbol(ctx context.Context, query string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", query)
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "SYMBOL_SEARCH",
		}
	}

	var searchResp symbolSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(searchResp.BestMatches) == 0 {
		return "", fmt.Errorf("no symbol match for %q", query)
	}

	return searchResp.BestMatches[0].Symbol, nil
}

// Ensure Client implements MarketDataProvider
var _ interfaces.MarketDataProvider = (*Client)(nil)

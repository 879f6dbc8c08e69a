// Package yahoo provides a client for the Yahoo Finance API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kestrelworks/vantage/internal/common"
	"github.com/kestrelworks/vantage/internal/interfaces"
	"github.com/kestrelworks/vantage/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second

	// Yahoo rejects requests without a browser-looking user agent
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Client implements the MarketDataProvider interface against Yahoo Finance
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter

	crumbMu sync.Mutex // guards crumb; the client is shared across requests
	crumb   string
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
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

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)

	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
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
	return "yahoo"
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

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
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// ensureCrumb primes the session cookie and fetches the API crumb required
// by the quoteSummary endpoint, returning the cached crumb on later calls.
// Failure is non-fatal; requests proceed without a crumb and Yahoo decides
// whether to serve them. The lock also serializes the first fetch so
// concurrent callers share one crumb request.
func (c *Client) ensureCrumb(ctx context.Context) string {
	c.crumbMu.Lock()
	defer c.crumbMu.Unlock()

	if c.crumb != "" {
		return c.crumb
	}

	// A plain GET against the base host sets the session cookie in the jar
	if req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil); err == nil {
		req.Header.Set("User-Agent", userAgent)
		if resp, err := c.httpClient.Do(req); err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Yahoo crumb fetch failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("Yahoo crumb fetch rejected")
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	c.crumb = strings.TrimSpace(string(body))
	return c.crumb
}

// chartResponse is the /v8/finance/chart envelope
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetQuote retrieves a live quote from the chart endpoint
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("range", "1d")
	params.Set("interval", "1d")

	var resp chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	result := resp.Chart.Result[0]
	meta := result.Meta

	quote := &models.Quote{
		Symbol:        meta.Symbol,
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.PreviousClose,
		Timestamp:     time.Unix(meta.RegularMarketTime, 0).UTC(),
		Source:        "yahoo",
	}
	if quote.Symbol == "" {
		quote.Symbol = strings.ToUpper(symbol)
	}
	if quote.Price == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	// Fill day open/high/low/volume from the single daily bar when present
	if len(result.Indicators.Quote) > 0 && len(result.Timestamp) > 0 {
		bar := result.Indicators.Quote[0]
		last := len(result.Timestamp) - 1
		if last < len(bar.Open) && bar.Open[last] != nil {
			quote.Open = *bar.Open[last]
		}
		if last < len(bar.High) && bar.High[last] != nil {
			quote.High = *bar.High[last]
		}
		if last < len(bar.Low) && bar.Low[last] != nil {
			quote.Low = *bar.Low[last]
		}
		if last < len(bar.Volume) && bar.Volume[last] != nil {
			quote.Volume = *bar.Volume[last]
		}
	}

	if quote.PreviousClose > 0 {
		quote.Change = quote.Price - quote.PreviousClose
		quote.ChangePct = quote.Change / quote.PreviousClose * 100
	}

	return quote, nil
}

// yfValue is Yahoo's formatted-number wrapper; Raw is nil when absent
type yfValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

func (v yfValue) metric() models.Metric {
	if v.Raw == nil {
		return models.None()
	}
	return models.Some(*v.Raw)
}

// percent converts Yahoo's fractional rates to percent units
func (v yfValue) percent() models.Metric {
	if v.Raw == nil {
		return models.None()
	}
	return models.Some(*v.Raw * 100)
}

// quoteSummaryResponse is the /v10/finance/quoteSummary envelope
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE    yfValue `json:"trailingPE"`
				ForwardPE     yfValue `json:"forwardPE"`
				DividendYield yfValue `json:"dividendYield"`
				PayoutRatio   yfValue `json:"payoutRatio"`
				Beta          yfValue `json:"beta"`
				MarketCap     yfValue `json:"marketCap"`
				High52Week    yfValue `json:"fiftyTwoWeekHigh"`
				Low52Week     yfValue `json:"fiftyTwoWeekLow"`
				PriceToSales  yfValue `json:"priceToSalesTrailing12Months"`
			} `json:"summaryDetail"`
			FinancialData struct {
				TargetMeanPrice    yfValue `json:"targetMeanPrice"`
				TargetMedianPrice  yfValue `json:"targetMedianPrice"`
				TargetHighPrice    yfValue `json:"targetHighPrice"`
				TargetLowPrice     yfValue `json:"targetLowPrice"`
				RecommendationMean yfValue `json:"recommendationMean"`
				RecommendationKey  string  `json:"recommendationKey"`
				AnalystOpinions    yfValue `json:"numberOfAnalystOpinions"`
				ReturnOnEquity     yfValue `json:"returnOnEquity"`
				ReturnOnAssets     yfValue `json:"returnOnAssets"`
				OperatingMargins   yfValue `json:"operatingMargins"`
				ProfitMargins      yfValue `json:"profitMargins"`
				GrossMargins       yfValue `json:"grossMargins"`
				RevenueGrowth      yfValue `json:"revenueGrowth"`
				EarningsGrowth     yfValue `json:"earningsGrowth"`
				FreeCashFlow       yfValue `json:"freeCashflow"`
				RevenuePerShare    yfValue `json:"revenuePerShare"`
				DebtToEquity       yfValue `json:"debtToEquity"`
				CurrentRatio       yfValue `json:"currentRatio"`
				QuickRatio         yfValue `json:"quickRatio"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				PEGRatio     yfValue `json:"pegRatio"`
				TrailingEPS  yfValue `json:"trailingEps"`
				ForwardPE    yfValue `json:"forwardPE"`
				PriceToBook  yfValue `json:"priceToBook"`
				Beta         yfValue `json:"beta"`
				ProfitMargin yfValue `json:"profitMargins"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetFundamentals retrieves normalized fundamental metrics
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*models.FinancialMetrics, error) {
	crumb := c.ensureCrumb(ctx)

	params := url.Values{}
	params.Set("modules", "price,summaryDetail,financialData,defaultKeyStatistics")
	if crumb != "" {
		params.Set("crumb", crumb)
	}

	var resp quoteSummaryResponse
	if err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params, &resp); err != nil {
		return nil, err
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary error for %s: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no fundamental data for %s", symbol)
	}

	r := resp.QuoteSummary.Result[0]
	sd, fd, ks := r.SummaryDetail, r.FinancialData, r.DefaultKeyStatistics

	m := &models.FinancialMetrics{
		Ticker:        strings.ToUpper(symbol),
		MarketCap:     sd.MarketCap.metric(),
		TrailingPE:    sd.TrailingPE.metric(),
		ForwardPE:     sd.ForwardPE.metric(),
		PEGRatio:      ks.PEGRatio.metric(),
		EPS:           ks.TrailingEPS.metric(),
		DividendYield: sd.DividendYield.percent(),
		High52Week:    sd.High52Week.metric(),
		Low52Week:     sd.Low52Week.metric(),
		Beta:          sd.Beta.metric(),

		PriceToBook:  ks.PriceToBook.metric(),
		PriceToSales: sd.PriceToSales.metric(),

		ReturnOnEquity:  fd.ReturnOnEquity.percent(),
		ReturnOnAssets:  fd.ReturnOnAssets.percent(),
		OperatingMargin: fd.OperatingMargins.percent(),
		ProfitMargin:    fd.ProfitMargins.percent(),
		GrossMargin:     fd.GrossMargins.percent(),

		RevenueGrowth:   fd.RevenueGrowth.percent(),
		EarningsGrowth:  fd.EarningsGrowth.percent(),
		FreeCashFlow:    fd.FreeCashFlow.metric(),
		RevenuePerShare: fd.RevenuePerShare.metric(),

		PayoutRatio:  sd.PayoutRatio.percent(),
		CurrentRatio: fd.CurrentRatio.metric(),
		QuickRatio:   fd.QuickRatio.metric(),

		TargetMeanPrice:    fd.TargetMeanPrice.metric(),
		TargetMedianPrice:  fd.TargetMedianPrice.metric(),
		TargetHighPrice:    fd.TargetHighPrice.metric(),
		TargetLowPrice:     fd.TargetLowPrice.metric(),
		RecommendationMean: fd.RecommendationMean.metric(),
		RecommendationKey:  fd.RecommendationKey,
		AnalystOpinions:    fd.AnalystOpinions.metric(),

		LastUpdated: time.Now().UTC(),
	}

	if !m.ForwardPE.Valid {
		m.ForwardPE = ks.ForwardPE.metric()
	}
	if !m.Beta.Valid {
		m.Beta = ks.Beta.metric()
	}
	if !m.ProfitMargin.Valid {
		m.ProfitMargin = ks.ProfitMargin.percent()
	}

	// Yahoo reports debt/equity as a percentage (e.g. 30.5); store the ratio
	if m.DebtToEquity = fd.DebtToEquity.metric(); m.DebtToEquity.Valid {
		m.DebtToEquity = models.Some(m.DebtToEquity.Value / 100)
	}

	return m, nil
}

// GetHistoricalBars retrieves close/volume bars from the chart endpoint
func (c *Client) GetHistoricalBars(ctx context.Context, symbol string, from, to time.Time, interval string) ([]models.HistoricalBar, error) {
	if interval == "" {
		interval = "1d"
	}

	params := url.Values{}
	params.Set("interval", interval)
	params.Set("period1", strconv.FormatInt(from.Unix(), 10))
	params.Set("period2", strconv.FormatInt(to.Unix(), 10))

	var resp chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return []models.HistoricalBar{}, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []models.HistoricalBar{}, nil
	}
	quote := result.Indicators.Quote[0]

	bars := make([]models.HistoricalBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // market holidays and halted periods come back null
		}
		bar := models.HistoricalBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// searchResponse is the /v1/finance/search envelope
type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
	News []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"news"`
}

// SearchNews retrieves recent headlines for a symbol
func (c *Client) SearchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("q", symbol)
	params.Set("newsCount", strconv.Itoa(limit))
	params.Set("quotesCount", "0")

	var resp searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return nil, err
	}

	news := make([]models.NewsItem, 0, len(resp.News))
	for _, item := range resp.News {
		if item.Title == "" {
			continue
		}
		news = append(news, models.NewsItem{Title: item.Title, URL: item.Link})
		if len(news) >= limit {
			break
		}
	}

	return news, nil
}

// SearchSymbol resolves a free-text query to the best-matching ticker
func (c *Client) SearchSymbol(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", "5")
	params.Set("newsCount", "0")

	var resp searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return "", err
	}

	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		// Prefer equity and ETF matches over indexes and currencies
		switch q.QuoteType {
		case "EQUITY", "ETF", "":
			return q.Symbol, nil
		}
	}
	if len(resp.Quotes) > 0 {
		return resp.Quotes[0].Symbol, nil
	}

	return "", fmt.Errorf("no symbol match for %q", query)
}

// Ensure Client implements MarketDataProvider
var _ interfaces.MarketDataProvider = (*Client)(nil)

// Package models defines data structures for Vantage
package models

import (
	"time"
)

// Quote holds a live price snapshot for a ticker
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Volume        int64     `json:"volume"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`         // absolute change from previous close
	ChangePct     float64   `json:"change_percent"` // percentage change from previous close
	Timestamp     time.Time `json:"timestamp"`
	Source        string    `json:"source,omitempty"` // "yahoo", "alpha" or "finance-go"
}

// FinancialMetrics holds normalized fundamental data for a ticker.
//
// Conventions: growth, margin, yield and return fields are percent units
// (ReturnOnEquity 18 means 18%); DebtToEquity is a plain ratio; cash flow and
// market cap are absolute currency amounts. Every field is independently
// optional; consumers read through Metric.Or with a neutral default.
type FinancialMetrics struct {
	Ticker string `json:"ticker"`

	MarketCap     Metric `json:"market_cap"`
	TrailingPE    Metric `json:"trailing_pe"`
	ForwardPE     Metric `json:"forward_pe"`
	PEGRatio      Metric `json:"peg_ratio"`
	EPS           Metric `json:"eps"`
	DividendYield Metric `json:"dividend_yield"`
	High52Week    Metric `json:"high_52_week"`
	Low52Week     Metric `json:"low_52_week"`
	Beta          Metric `json:"beta"`

	DebtToEquity Metric `json:"debt_to_equity"`
	PriceToBook  Metric `json:"price_to_book"`
	PriceToSales Metric `json:"price_to_sales"`

	ReturnOnEquity  Metric `json:"return_on_equity"`
	ReturnOnAssets  Metric `json:"return_on_assets"`
	OperatingMargin Metric `json:"operating_margin"`
	ProfitMargin    Metric `json:"profit_margin"`
	GrossMargin     Metric `json:"gross_margin"`

	RevenueGrowth   Metric `json:"revenue_growth"`
	EarningsGrowth  Metric `json:"earnings_growth"`
	FreeCashFlow    Metric `json:"free_cash_flow"`
	RevenuePerShare Metric `json:"revenue_per_share"`

	PayoutRatio  Metric `json:"payout_ratio"`
	CurrentRatio Metric `json:"current_ratio"`
	QuickRatio   Metric `json:"quick_ratio"`

	TargetMeanPrice    Metric `json:"target_mean_price"`
	TargetMedianPrice  Metric `json:"target_median_price"`
	TargetHighPrice    Metric `json:"target_high_price"`
	TargetLowPrice     Metric `json:"target_low_price"`
	RecommendationMean Metric `json:"recommendation_mean"`
	RecommendationKey  string `json:"recommendation_key,omitempty"`
	AnalystOpinions    Metric `json:"analyst_opinions"`

	LastUpdated time.Time `json:"last_updated"`
}

// HistoricalBar represents a single close observation, daily or intraday
type HistoricalBar struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// NewsItem represents a news headline
type NewsItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Recommendation is an investment opinion tier
type Recommendation string

const (
	RecStrongBuy Recommendation = "Strong Buy"
	RecBuy       Recommendation = "Buy"
	RecHold      Recommendation = "Hold"
	RecSell      Recommendation = "Sell"
)

// Rank orders tiers from worst (0) to best (3).
func (r Recommendation) Rank() int {
	switch r {
	case RecStrongBuy:
		return 3
	case RecBuy:
		return 2
	case RecHold:
		return 1
	default:
		return 0
	}
}

// RiskLevel is a qualitative volatility/leverage classification
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// AnalysisResult is the investment opinion produced by the scoring engine.
// Created fresh per scoring call and never merged with a previous result.
type AnalysisResult struct {
	Recommendation Recommendation `json:"recommendation"`
	Score          int            `json:"score"`
	PriceTarget    float64        `json:"price_target"` // rounded to two decimals
	Upside         string         `json:"upside"`       // signed percentage, e.g. "12.34%"
	RiskLevel      RiskLevel      `json:"risk_level"`
	Strengths      []string       `json:"strengths,omitempty"`
	Weaknesses     []string       `json:"weaknesses,omitempty"`
	Summary        string         `json:"summary"`
}

// StockSnapshot is the composite record served for a full-analysis request
type StockSnapshot struct {
	Ticker     string            `json:"ticker"`
	Quote      *Quote            `json:"quote"`
	Metrics    *FinancialMetrics `json:"fundamentals"`
	News       []NewsItem        `json:"news"`
	Analysis   *AnalysisResult   `json:"analysis"`
	Historical []HistoricalBar   `json:"historical"`
	FetchedAt  time.Time         `json:"fetched_at"`
	Source     string            `json:"source"`
}

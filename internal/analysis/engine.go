package analysis

import (
	"fmt"
	"math"

	"github.com/kestrelworks/vantage/internal/models"
)

// Engine turns normalized metrics and a quote into an investment opinion.
// It is a pure computation: it never fails, never blocks, and tolerates an
// arbitrarily sparse metrics record.
type Engine struct{}

// NewEngine creates a new scoring engine
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze produces a fresh AnalysisResult. The result is never merged with a
// previous one.
func (e *Engine) Analyze(m *models.FinancialMetrics, q *models.Quote) *models.AnalysisResult {
	if m == nil {
		m = &models.FinancialMetrics{}
	}

	var price float64
	if q != nil {
		price = q.Price
	}

	target := PriceTarget(m, price)
	target = math.Round(target*100) / 100

	var upsidePct float64
	if price > 0 {
		upsidePct = (target - price) / price * 100
	}

	score, achievable := Score(m, price, target)
	rec := Recommend(score, achievable)
	risk := Risk(m)

	return &models.AnalysisResult{
		Recommendation: rec,
		Score:          score,
		PriceTarget:    target,
		Upside:         fmt.Sprintf("%.2f%%", upsidePct),
		RiskLevel:      risk,
		Strengths:      Strengths(m),
		Weaknesses:     Weaknesses(m),
		Summary:        Summarize(m, rec, risk, target, upsidePct),
	}
}

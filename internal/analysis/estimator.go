package analysis

import (
	"math"

	"github.com/kestrelworks/vantage/internal/models"
)

// DefaultPEMultiple is applied when neither forward nor trailing P/E is positive.
const DefaultPEMultiple = 15.0

// PriceTarget returns the price target for a ticker: the analyst mean when
// available, then the analyst median, otherwise the estimated fair price.
func PriceTarget(m *models.FinancialMetrics, currentPrice float64) float64 {
	if m.TargetMeanPrice.Positive() {
		return m.TargetMeanPrice.Value
	}
	if m.TargetMedianPrice.Positive() {
		return m.TargetMedianPrice.Value
	}
	return EstimatePriceTarget(m, currentPrice)
}

// EstimatePriceTarget computes a projected fair price when no analyst
// consensus exists. Ordered fallback: earnings projection at a P/E multiple,
// then price-to-sales valuation, then analyst mean, then current price.
// Always returns a finite, non-negative number.
func EstimatePriceTarget(m *models.FinancialMetrics, currentPrice float64) float64 {
	multiple := DefaultPEMultiple
	if m.ForwardPE.Positive() {
		multiple = m.ForwardPE.Value
	} else if m.TrailingPE.Positive() {
		multiple = m.TrailingPE.Value
	}

	// Growth below -100% would project earnings past zero into nonsense
	growth := m.EarningsGrowth.Or(0)
	if growth < -100 {
		growth = -100
	}

	projectedEPS := m.EPS.Or(0) * (1 + growth/100)

	if projectedEPS <= 0 {
		if m.RevenuePerShare.Positive() && m.PriceToSales.Positive() {
			return m.RevenuePerShare.Value * m.PriceToSales.Value
		}
		return targetFallback(m, currentPrice)
	}

	target := projectedEPS * multiple
	if target <= 0 || math.IsNaN(target) || math.IsInf(target, 0) {
		return targetFallback(m, currentPrice)
	}
	return target
}

// targetFallback resolves to the analyst mean, then the current price, then 0.
func targetFallback(m *models.FinancialMetrics, currentPrice float64) float64 {
	if m.TargetMeanPrice.Positive() {
		return m.TargetMeanPrice.Value
	}
	if currentPrice > 0 {
		return currentPrice
	}
	return 0
}

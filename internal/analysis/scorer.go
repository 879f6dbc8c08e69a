package analysis

import (
	"math"

	"github.com/kestrelworks/vantage/internal/models"
)

// MaxScore is the ceiling of the cumulative fundamental score when every
// metric is available.
const MaxScore = 30

// Score evaluates the fixed battery of threshold rules and returns the
// accumulated score together with the number of points that were achievable
// given which metrics were actually present. A rule only fires, and only
// counts toward the achievable ceiling, when its inputs are available, so an
// entirely-absent metrics record scores 0 out of 0.
func Score(m *models.FinancialMetrics, currentPrice, priceTarget float64) (score, achievable int) {
	// Valuation
	if pe := effectivePE(m); pe.Valid {
		achievable += 2
		if pe.Value > 0 && pe.Value < 15 {
			score += 2
		} else if pe.Value >= 15 && pe.Value <= 25 {
			score += 1
		}
	}
	if peg := effectivePEG(m); peg.Valid {
		achievable += 2
		if peg.Value > 0 && peg.Value < 1 {
			score += 2
		} else if peg.Value >= 1 && peg.Value <= 2 {
			score += 1
		}
	}

	// Profitability
	score += stepUp(m.ReturnOnEquity, 15, 10, &achievable)
	score += stepUp(m.ReturnOnAssets, 10, 5, &achievable)
	score += stepUp(m.OperatingMargin, 20, 10, &achievable)
	score += stepUp(m.ProfitMargin, 15, 8, &achievable)
	score += stepUp(m.GrossMargin, 40, 20, &achievable)

	// Growth
	score += stepUp(m.EarningsGrowth, 15, 5, &achievable)
	score += stepUp(m.RevenueGrowth, 10, 5, &achievable)

	// Leverage and liquidity
	if m.DebtToEquity.Valid {
		achievable += 2
		de := m.DebtToEquity.Value
		if de >= 0 && de < 0.5 {
			score += 2
		} else if de >= 0.5 && de <= 1 {
			score += 1
		}
	}
	if m.CurrentRatio.Valid {
		achievable += 1
		if m.CurrentRatio.Value > 1.5 {
			score += 1
		}
	}
	if m.QuickRatio.Valid {
		achievable += 1
		if m.QuickRatio.Value > 1 {
			score += 1
		}
	}
	if m.FreeCashFlow.Valid {
		achievable += 2
		if m.FreeCashFlow.Value > 0 {
			score += 2
		}
	}

	// Dividend
	if m.DividendYield.Valid && m.PayoutRatio.Valid {
		achievable += 2
		yield := m.DividendYield.Value
		payout := m.PayoutRatio.Value
		if yield > 2 && payout > 0 && payout < 60 {
			score += 2
		} else if yield > 0 && payout > 0 {
			score += 1
		}
	}

	// Risk
	if m.Beta.Valid {
		achievable += 2
		beta := m.Beta.Value
		if beta > 0 && beta < 1 {
			score += 2
		} else if beta >= 1 && beta <= 1.5 {
			score += 1
		}
	}

	// Upside against the price target
	if currentPrice > 0 {
		achievable += 2
		upside := (priceTarget - currentPrice) / currentPrice * 100
		if upside >= 20 {
			score += 2
		} else if upside > 0 {
			score += 1
		}
	}

	return score, achievable
}

// stepUp scores a two-tier threshold rule: strictly above strong earns 2,
// within [moderate, strong] earns 1. Unavailable metrics earn and count nothing.
func stepUp(m models.Metric, strong, moderate float64, achievable *int) int {
	if !m.Valid {
		return 0
	}
	*achievable += 2
	if m.Value > strong {
		return 2
	}
	if m.Value >= moderate && m.Value <= strong {
		return 1
	}
	return 0
}

// effectivePE prefers the forward P/E over the trailing one.
func effectivePE(m *models.FinancialMetrics) models.Metric {
	if m.ForwardPE.Valid {
		return m.ForwardPE
	}
	return m.TrailingPE
}

// effectivePEG uses the provider PEG, deriving P/E over earnings growth when
// absent and both parts are positive.
func effectivePEG(m *models.FinancialMetrics) models.Metric {
	if m.PEGRatio.Valid {
		return m.PEGRatio
	}
	pe := effectivePE(m)
	if pe.Positive() && m.EarningsGrowth.Positive() {
		return models.Some(pe.Value / m.EarningsGrowth.Value)
	}
	return models.None()
}

// Tier maps a score on the full 30-point scale to a recommendation tier.
// The mapping is a non-decreasing step function.
func Tier(score int) models.Recommendation {
	switch {
	case score >= 22:
		return models.RecStrongBuy
	case score >= 16:
		return models.RecBuy
	case score >= 10:
		return models.RecHold
	default:
		return models.RecSell
	}
}

// Recommend maps an accumulated score to a tier, rescaling to the full
// 30-point range so that tickers with sparse fundamentals are judged on the
// rules that could actually be evaluated.
func Recommend(score, achievable int) models.Recommendation {
	if achievable <= 0 || score <= 0 {
		return models.RecSell
	}
	scaled := int(math.Round(float64(score) * MaxScore / float64(achievable)))
	return Tier(scaled)
}

// Risk classifies volatility and leverage independently of the score.
// Missing beta defaults to market-average (1); missing debt-to-equity to 0.
func Risk(m *models.FinancialMetrics) models.RiskLevel {
	beta := m.Beta.Or(1)
	de := m.DebtToEquity.Or(0)

	if beta < 1 && de < 0.5 {
		return models.RiskLow
	}
	if (beta >= 1 && beta <= 1.5) || (de >= 0.5 && de <= 1) {
		return models.RiskModerate
	}
	return models.RiskHigh
}

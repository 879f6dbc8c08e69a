package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelworks/vantage/internal/models"
)

func TestScore_HealthyValueStock(t *testing.T) {
	m := &models.FinancialMetrics{
		TrailingPE:     models.Some(12),
		PEGRatio:       models.Some(0.8),
		ReturnOnEquity: models.Some(18),
		EarningsGrowth: models.Some(12),
		Beta:           models.Some(0.7),
		DebtToEquity:   models.Some(0.3),
	}

	score, achievable := Score(m, 100, 86)

	// PE +2, PEG +2, ROE +2, growth +1, beta +2, debt +2, upside 0
	assert.Equal(t, 11, score)
	assert.Equal(t, 14, achievable)
	assert.Equal(t, models.RecStrongBuy, Recommend(score, achievable))
}

func TestScore_AllMetricsAbsent(t *testing.T) {
	m := &models.FinancialMetrics{}

	score, achievable := Score(m, 0, 0)
	assert.Equal(t, 0, score)
	assert.Equal(t, 0, achievable)
	assert.Equal(t, models.RecSell, Recommend(score, achievable))
}

func TestScore_AbsentMetricsDoNotCount(t *testing.T) {
	full := &models.FinancialMetrics{
		TrailingPE:     models.Some(12),
		ReturnOnEquity: models.Some(18),
	}
	sparse := &models.FinancialMetrics{
		TrailingPE: models.Some(12),
	}

	_, fullAchievable := Score(full, 0, 0)
	_, sparseAchievable := Score(sparse, 0, 0)

	assert.Equal(t, 4, fullAchievable)
	assert.Equal(t, 2, sparseAchievable)
}

func TestScore_UpsideNeedsPositiveGap(t *testing.T) {
	m := &models.FinancialMetrics{}

	// Target equal to price earns nothing
	score, achievable := Score(m, 50, 50)
	assert.Equal(t, 0, score)
	assert.Equal(t, 2, achievable)

	// Small positive upside earns 1
	score, _ = Score(m, 50, 55)
	assert.Equal(t, 1, score)

	// 20% or more earns 2
	score, _ = Score(m, 50, 60)
	assert.Equal(t, 2, score)
}

func TestScore_FullBatteryCeiling(t *testing.T) {
	m := &models.FinancialMetrics{
		ForwardPE:       models.Some(12),
		PEGRatio:        models.Some(0.8),
		ReturnOnEquity:  models.Some(25),
		ReturnOnAssets:  models.Some(15),
		OperatingMargin: models.Some(30),
		ProfitMargin:    models.Some(22),
		GrossMargin:     models.Some(55),
		EarningsGrowth:  models.Some(20),
		RevenueGrowth:   models.Some(15),
		DebtToEquity:    models.Some(0.2),
		CurrentRatio:    models.Some(2.0),
		QuickRatio:      models.Some(1.5),
		FreeCashFlow:    models.Some(1e9),
		DividendYield:   models.Some(2.5),
		PayoutRatio:     models.Some(35),
		Beta:            models.Some(0.8),
	}

	score, achievable := Score(m, 100, 130)
	assert.Equal(t, MaxScore, achievable)
	assert.Equal(t, MaxScore, score)
	assert.Equal(t, models.RecStrongBuy, Recommend(score, achievable))
}

func TestEffectivePE_PrefersForward(t *testing.T) {
	m := &models.FinancialMetrics{
		TrailingPE: models.Some(28),
		ForwardPE:  models.Some(14),
	}
	assert.Equal(t, models.Some(14.0), effectivePE(m))

	m.ForwardPE = models.None()
	assert.Equal(t, models.Some(28.0), effectivePE(m))
}

func TestEffectivePEG_DerivedFromPEAndGrowth(t *testing.T) {
	m := &models.FinancialMetrics{
		TrailingPE:     models.Some(20),
		EarningsGrowth: models.Some(10),
	}
	peg := effectivePEG(m)
	assert.True(t, peg.Valid)
	assert.InDelta(t, 2.0, peg.Value, 1e-9)

	// Provider PEG wins over the derivation
	m.PEGRatio = models.Some(1.1)
	assert.Equal(t, models.Some(1.1), effectivePEG(m))

	// No derivation from negative growth
	noGrowth := &models.FinancialMetrics{
		TrailingPE:     models.Some(20),
		EarningsGrowth: models.Some(-5),
	}
	assert.False(t, effectivePEG(noGrowth).Valid)
}

func TestTier_Boundaries(t *testing.T) {
	assert.Equal(t, models.RecStrongBuy, Tier(22))
	assert.Equal(t, models.RecBuy, Tier(21))
	assert.Equal(t, models.RecBuy, Tier(16))
	assert.Equal(t, models.RecHold, Tier(15))
	assert.Equal(t, models.RecHold, Tier(10))
	assert.Equal(t, models.RecSell, Tier(9))
	assert.Equal(t, models.RecSell, Tier(0))
}

func TestTier_NonDecreasing(t *testing.T) {
	prev := Tier(0)
	for s := 1; s <= MaxScore; s++ {
		cur := Tier(s)
		assert.GreaterOrEqual(t, cur.Rank(), prev.Rank(), "tier must not drop at score %d", s)
		prev = cur
	}
}

func TestRecommend_ScalesSparseBatteries(t *testing.T) {
	// 11 of 14 achievable points scales past the Strong Buy cut
	assert.Equal(t, models.RecStrongBuy, Recommend(11, 14))
	// The same raw score against the full battery does not
	assert.Equal(t, models.RecHold, Recommend(11, 30))

	assert.Equal(t, models.RecSell, Recommend(0, 14))
	assert.Equal(t, models.RecSell, Recommend(0, 0))
}

func TestRisk(t *testing.T) {
	low := &models.FinancialMetrics{Beta: models.Some(0.7), DebtToEquity: models.Some(0.3)}
	assert.Equal(t, models.RiskLow, Risk(low))

	moderateBeta := &models.FinancialMetrics{Beta: models.Some(1.2), DebtToEquity: models.Some(0.2)}
	assert.Equal(t, models.RiskModerate, Risk(moderateBeta))

	moderateDebt := &models.FinancialMetrics{Beta: models.Some(0.8), DebtToEquity: models.Some(0.8)}
	assert.Equal(t, models.RiskModerate, Risk(moderateDebt))

	high := &models.FinancialMetrics{Beta: models.Some(1.8), DebtToEquity: models.Some(1.5)}
	assert.Equal(t, models.RiskHigh, Risk(high))

	// Absent metrics default to market-average beta and zero leverage
	assert.Equal(t, models.RiskModerate, Risk(&models.FinancialMetrics{}))
}

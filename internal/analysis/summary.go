package analysis

import (
	"fmt"
	"strings"

	"github.com/kestrelworks/vantage/internal/models"
)

// Strengths derives strength statements from the same thresholds the scorer
// uses, so the narrative can never contradict the numeric score. Each
// predicate is disjoint from its Weaknesses counterpart.
func Strengths(m *models.FinancialMetrics) []string {
	var out []string

	if pe := effectivePE(m); pe.Positive() && pe.Value < 15 {
		out = append(out, fmt.Sprintf("Attractively valued at %.1fx earnings", pe.Value))
	}
	if peg := effectivePEG(m); peg.Positive() && peg.Value < 1 {
		out = append(out, fmt.Sprintf("Earnings growth comes cheap (PEG %.2f)", peg.Value))
	}
	if m.ReturnOnEquity.Valid && m.ReturnOnEquity.Value >= 15 {
		out = append(out, fmt.Sprintf("High return on equity (%.1f%%)", m.ReturnOnEquity.Value))
	}
	if m.OperatingMargin.Valid && m.OperatingMargin.Value > 20 {
		out = append(out, fmt.Sprintf("Efficient operations with a %.1f%% operating margin", m.OperatingMargin.Value))
	}
	if m.ProfitMargin.Valid && m.ProfitMargin.Value > 15 {
		out = append(out, fmt.Sprintf("Strong profitability (%.1f%% profit margin)", m.ProfitMargin.Value))
	}
	if m.EarningsGrowth.Valid && m.EarningsGrowth.Value > 15 {
		out = append(out, fmt.Sprintf("Earnings growing at %.1f%%", m.EarningsGrowth.Value))
	}
	if m.RevenueGrowth.Valid && m.RevenueGrowth.Value > 10 {
		out = append(out, fmt.Sprintf("Revenue growing at %.1f%%", m.RevenueGrowth.Value))
	}
	if m.DebtToEquity.Valid && m.DebtToEquity.Value >= 0 && m.DebtToEquity.Value < 0.5 {
		out = append(out, "Strong balance sheet with low debt")
	}
	if m.FreeCashFlow.Valid && m.FreeCashFlow.Value > 0 {
		out = append(out, "Generates positive free cash flow")
	}
	if m.DividendYield.Valid && m.PayoutRatio.Valid &&
		m.DividendYield.Value > 2 && m.PayoutRatio.Value > 0 && m.PayoutRatio.Value < 60 {
		out = append(out, fmt.Sprintf("Attractive and sustainable %.2f%% dividend yield", m.DividendYield.Value))
	}
	if m.Beta.Valid && m.Beta.Value > 0 && m.Beta.Value < 1 {
		out = append(out, "Lower volatility than the broader market")
	}

	return out
}

// Weaknesses derives weakness statements mirroring the scoring thresholds.
func Weaknesses(m *models.FinancialMetrics) []string {
	var out []string

	if pe := effectivePE(m); pe.Valid && pe.Value >= 25 {
		out = append(out, fmt.Sprintf("Rich valuation at %.1fx earnings", pe.Value))
	}
	if peg := effectivePEG(m); peg.Valid && peg.Value > 2 {
		out = append(out, fmt.Sprintf("Growth looks expensive (PEG %.2f)", peg.Value))
	}
	if m.ReturnOnEquity.Valid && m.ReturnOnEquity.Value < 10 {
		out = append(out, fmt.Sprintf("Low return on equity (%.1f%%)", m.ReturnOnEquity.Value))
	}
	if m.OperatingMargin.Valid && m.OperatingMargin.Value < 10 {
		out = append(out, fmt.Sprintf("Thin operating margin (%.1f%%)", m.OperatingMargin.Value))
	}
	if m.ProfitMargin.Valid && m.ProfitMargin.Value < 8 {
		out = append(out, fmt.Sprintf("Weak profitability (%.1f%% profit margin)", m.ProfitMargin.Value))
	}
	if m.EarningsGrowth.Valid && m.EarningsGrowth.Value < 0 {
		out = append(out, fmt.Sprintf("Earnings shrinking at %.1f%%", m.EarningsGrowth.Value))
	}
	if m.RevenueGrowth.Valid && m.RevenueGrowth.Value < 0 {
		out = append(out, fmt.Sprintf("Revenue shrinking at %.1f%%", m.RevenueGrowth.Value))
	}
	if m.DebtToEquity.Valid && m.DebtToEquity.Value > 1 {
		out = append(out, "High debt load relative to equity")
	}
	if m.FreeCashFlow.Valid && m.FreeCashFlow.Value < 0 {
		out = append(out, "Burning cash rather than generating it")
	}
	if m.PayoutRatio.Valid && m.PayoutRatio.Value > 80 {
		out = append(out, fmt.Sprintf("Stretched dividend payout (%.1f%% of earnings)", m.PayoutRatio.Value))
	}
	if m.Beta.Valid && m.Beta.Value > 1.5 {
		out = append(out, "Higher volatility than the broader market")
	}

	return out
}

// Summarize renders the narrative paragraph: one sentence per dimension for
// which data exists, then the closing sentence with the recommendation, risk
// level, two-decimal price target and signed-percentage upside.
func Summarize(m *models.FinancialMetrics, rec models.Recommendation, risk models.RiskLevel, priceTarget, upsidePct float64) string {
	var b strings.Builder

	if m.DebtToEquity.Valid {
		b.WriteString("Financial Strength: ")
		if m.DebtToEquity.Value < 0.5 {
			b.WriteString("the company has a strong balance sheet with low debt levels. ")
		} else if m.DebtToEquity.Value <= 1 {
			b.WriteString("debt levels are manageable but worth monitoring. ")
		} else {
			b.WriteString("debt levels are relatively high, which may limit financial flexibility. ")
		}
	}

	if m.OperatingMargin.Valid {
		b.WriteString("Profitability: ")
		if m.OperatingMargin.Value > 20 {
			b.WriteString("impressive operating margins indicate efficient operations. ")
		} else {
			b.WriteString("operating margins suggest room for improvement in operational efficiency. ")
		}
	}

	if m.RevenueGrowth.Valid || m.EarningsGrowth.Valid {
		b.WriteString("Growth Prospects: ")
		if m.RevenueGrowth.Or(0) > 10 && m.EarningsGrowth.Or(0) > 10 {
			b.WriteString("strong revenue and earnings growth point to positive future prospects. ")
		} else {
			b.WriteString("growth metrics suggest challenges in maintaining consistent expansion. ")
		}
	}

	if pe := effectivePE(m); pe.Positive() {
		b.WriteString("Valuation: ")
		if pe.Value < 20 {
			b.WriteString("the stock appears reasonably priced against its earnings. ")
		} else {
			b.WriteString("the valuation looks rich relative to fundamentals. ")
		}
	}

	if m.DividendYield.Valid && m.DividendYield.Value > 0 {
		b.WriteString("Dividend: ")
		if m.DividendYield.Value > 2 && m.PayoutRatio.Or(0) > 0 && m.PayoutRatio.Or(0) < 60 {
			b.WriteString("the dividend is attractive and sustainably covered. ")
		} else {
			b.WriteString("the payout appears sustainable but is unlikely to be a primary draw. ")
		}
	}

	fmt.Fprintf(&b, "Overall: %s with %s risk; price target $%.2f (%.2f%% upside).",
		rec, strings.ToLower(string(risk)), priceTarget, upsidePct)

	return b.String()
}

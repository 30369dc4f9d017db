// Package insight rolls enriched manifest items up into manifest-level
// value, profit and recommendation figures.
package insight

import (
	"math"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// ROI thresholds, in percent, for each recommended action.
const (
	StrongBuyROI = 50.0
	BuyROI       = 20.0
	ConsiderROI  = 0.0
)

// HighRiskScore is the risk score above which an item counts as high risk.
const HighRiskScore = 70

// Insights is the rollup of one manifest's enriched items.
type Insights struct {
	TotalRetailValue     float64
	TotalPotentialProfit float64
	Summary              domain.ExecutiveSummary
	Categories           []domain.CategoryBreakdown
}

// Aggregate computes totals, ROI, confidence and a recommended action for
// items. Money is rounded to cents and percentages to two decimals. An empty
// or zero-retail manifest has an ROI of 0.
func Aggregate(items []domain.EnrichedItem) Insights {
	var (
		retail, profit, confidence float64
		highRisk                   int
	)
	byCategory := make(map[domain.Category]*domain.CategoryBreakdown)

	for i := range items {
		it := &items[i]
		lineRetail := it.EffectiveTotalRetail()
		lineValue := it.EstimatedValue * float64(it.Quantity)

		retail += lineRetail
		profit += lineValue - lineRetail
		confidence += it.CategorizationConfidence
		if it.RiskScore > HighRiskScore {
			highRisk++
		}

		b, ok := byCategory[it.Category]
		if !ok {
			b = &domain.CategoryBreakdown{Category: it.Category}
			byCategory[it.Category] = b
		}
		b.Items++
		b.Units += it.Quantity
		b.RetailValue += lineRetail
		b.EstimatedValue += lineValue
	}

	roi := 0.0
	if retail > 0 {
		roi = profit / retail * 100
	}
	meanConfidence := 0.0
	if len(items) > 0 {
		meanConfidence = confidence / float64(len(items))
	}

	return Insights{
		TotalRetailValue:     round2(retail),
		TotalPotentialProfit: round2(profit),
		Summary: domain.ExecutiveSummary{
			ExpectedProfit:    round2(profit),
			AverageROI:        round2(roi),
			RecommendedAction: RecommendAction(roi),
			ConfidenceScore:   round2(meanConfidence),
			HighRiskItems:     highRisk,
		},
		Categories: breakdown(byCategory),
	}
}

// breakdown orders category rollups by the canonical category list.
func breakdown(m map[domain.Category]*domain.CategoryBreakdown) []domain.CategoryBreakdown {
	out := make([]domain.CategoryBreakdown, 0, len(m))
	for _, c := range domain.Categories {
		if b, ok := m[c]; ok {
			b.RetailValue = round2(b.RetailValue)
			b.EstimatedValue = round2(b.EstimatedValue)
			out = append(out, *b)
		}
	}
	return out
}

// RecommendAction maps an ROI percentage to an action. Higher ROI never
// yields a less favorable action. NaN maps to Pass.
func RecommendAction(roi float64) domain.RecommendedAction {
	switch {
	case roi >= StrongBuyROI:
		return domain.ActionStrongBuy
	case roi >= BuyROI:
		return domain.ActionBuy
	case roi >= ConsiderROI:
		return domain.ActionConsider
	default:
		return domain.ActionPass
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

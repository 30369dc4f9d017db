package insight_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/manifest-analyzer/pkg/insight"
	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

func item(cat domain.Category, qty int, unit, total, value, conf float64, risk int) domain.EnrichedItem {
	return domain.EnrichedItem{
		ManifestItem: domain.ManifestItem{
			Description:      "x",
			Quantity:         qty,
			RetailPrice:      unit,
			TotalRetailPrice: total,
		},
		Category:                 cat,
		EstimatedValue:           value,
		CategorizationConfidence: conf,
		RiskScore:                risk,
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	items := []domain.EnrichedItem{
		// retail 100, value 2 x 80 = 160, profit 60
		item(domain.CategoryElectronics, 2, 50, 100, 80, 0.6, 90),
		// total missing: retail 3 x 10 = 30, value 3 x 5 = 15, profit -15
		item(domain.CategoryClothing, 3, 10, 0, 5, 0.3, 10),
		// retail 20, value 50, profit 30
		item(domain.CategoryElectronics, 1, 20, 20, 50, 0.9, 71),
	}

	got := insight.Aggregate(items)

	assert.InDelta(t, 150, got.TotalRetailValue, 0.001)
	assert.InDelta(t, 75, got.TotalPotentialProfit, 0.001)
	assert.InDelta(t, 75, got.Summary.ExpectedProfit, 0.001)
	assert.InDelta(t, 50, got.Summary.AverageROI, 0.001)
	assert.Equal(t, domain.ActionStrongBuy, got.Summary.RecommendedAction)
	assert.InDelta(t, 0.6, got.Summary.ConfidenceScore, 0.001)
	assert.Equal(t, 2, got.Summary.HighRiskItems)

	require.Len(t, got.Categories, 2)
	assert.Equal(t, domain.CategoryBreakdown{
		Category: domain.CategoryElectronics, Items: 2, Units: 3, RetailValue: 120, EstimatedValue: 210,
	}, got.Categories[0])
	assert.Equal(t, domain.CategoryBreakdown{
		Category: domain.CategoryClothing, Items: 1, Units: 3, RetailValue: 30, EstimatedValue: 15,
	}, got.Categories[1])
}

func TestAggregate_NoDivideByZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []domain.EnrichedItem
	}{
		{name: "no items", items: nil},
		{name: "zero retail", items: []domain.EnrichedItem{item(domain.CategoryOther, 1, 0, 0, 50, 0.3, 5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := insight.Aggregate(tt.items)
			assert.InDelta(t, 0.0, got.TotalRetailValue, 0)
			assert.False(t, math.IsNaN(got.Summary.AverageROI))
			assert.InDelta(t, 0.0, got.Summary.AverageROI, 0)
			assert.False(t, math.IsNaN(got.Summary.ConfidenceScore))
			assert.Equal(t, domain.ActionConsider, got.Summary.RecommendedAction)
			assert.NotNil(t, got.Categories)
		})
	}
}

func TestAggregate_RoundsMoney(t *testing.T) {
	t.Parallel()

	got := insight.Aggregate([]domain.EnrichedItem{
		item(domain.CategoryOther, 3, 0.1, 0.3, 0.3333, 1, 0),
	})
	assert.InDelta(t, 0.3, got.TotalRetailValue, 1e-9)
	assert.InDelta(t, 0.7, got.TotalPotentialProfit, 1e-9)
	assert.InDelta(t, 233.3, got.Summary.AverageROI, 1e-9)
}

func TestRecommendAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		roi  float64
		want domain.RecommendedAction
	}{
		{math.Inf(1), domain.ActionStrongBuy},
		{500, domain.ActionStrongBuy},
		{50, domain.ActionStrongBuy},
		{49.99, domain.ActionBuy},
		{20, domain.ActionBuy},
		{19.99, domain.ActionConsider},
		{0, domain.ActionConsider},
		{-0.01, domain.ActionPass},
		{-100, domain.ActionPass},
		{math.Inf(-1), domain.ActionPass},
		{math.NaN(), domain.ActionPass},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, insight.RecommendAction(tt.roi), "roi %v", tt.roi)
	}
}

func TestRecommendAction_Monotonic(t *testing.T) {
	t.Parallel()

	rank := map[domain.RecommendedAction]int{
		domain.ActionPass:      0,
		domain.ActionConsider:  1,
		domain.ActionBuy:       2,
		domain.ActionStrongBuy: 3,
	}

	prev := rank[insight.RecommendAction(-1000)]
	for roi := -1000.0; roi <= 1000; roi += 0.5 {
		cur := rank[insight.RecommendAction(roi)]
		require.GreaterOrEqual(t, cur, prev, "roi %v", roi)
		prev = cur
	}
}

package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/manifest-analyzer/internal/store"
	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

var baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testAnalysis(id string, uploaded time.Time) *domain.ManifestAnalysis {
	return &domain.ManifestAnalysis{
		ManifestID:           id,
		FileName:             "lot-" + id + ".csv",
		UploadTimestamp:      uploaded,
		ProcessingDurationMs: 1234,
		TotalItems:           3,
		ValidItems:           2,
		TotalRetailValue:     1059.5,
		TotalPotentialProfit: -612.25,
		ExecutiveSummary: domain.ExecutiveSummary{
			ExpectedProfit:    -612.25,
			AverageROI:        -57.79,
			RecommendedAction: domain.ActionPass,
			ConfidenceScore:   0.6,
			HighRiskItems:     1,
		},
		Categories: []domain.CategoryBreakdown{
			{Category: domain.CategoryElectronics, Items: 1, Units: 1, RetailValue: 999, EstimatedValue: 200},
			{Category: domain.CategoryHomeGarden, Items: 1, Units: 2, RetailValue: 60.5, EstimatedValue: 247.25},
		},
		EstimatorName: "rules",
		Items: []domain.EnrichedItem{
			{
				ManifestItem: domain.ManifestItem{
					RowNumber: 1, Description: "Apple iPhone 14 Pro", Brand: "Apple",
					Quantity: 1, RetailPrice: 999, TotalRetailPrice: 999, Condition: domain.ConditionNew,
				},
				Category: domain.CategoryElectronics, Brand: "Apple", Model: "iPhone 14 Pro",
				CategorizationConfidence: 0.6,
				EstimatedValue:           200, MarketValueLow: 160, MarketValueHigh: 240,
				MarketScore: 50, DemandScore: 50, SeasonalityFactor: 1,
				ValuationConfidence: 0.5,
				RiskScore:           81, AuthenticityScore: 80, RiskFactors: []string{"High risk item"},
				Degraded: []string{"categorize", "brand_model", "valuate", "risk"},
			},
			{
				ManifestItem: domain.ManifestItem{
					RowNumber: 3, Description: "Garden Hose 50ft", Brand: "Garden",
					Quantity: 2, RetailPrice: 30.25, TotalRetailPrice: 60.5, Condition: domain.ConditionGood,
				},
				Category: domain.CategoryHomeGarden, Brand: "Garden",
				CategorizationConfidence: 0.6,
				EstimatedValue:           123.63, MarketValueLow: 98.9, MarketValueHigh: 148.36,
				MarketScore: 50, DemandScore: 50, SeasonalityFactor: 1,
				ValuationConfidence: 0.5,
				RiskScore:           12, AuthenticityScore: 80, RiskFactors: []string{},
			},
		},
	}
}

// clearStore empties s through the public API so the same contract runs
// against shared integration instances.
func clearStore(t *testing.T, s store.Store) {
	t.Helper()
	_, err := s.DeleteOlderThan(context.Background(), time.Now().AddDate(100, 0, 0))
	require.NoError(t, err)
}

// runStoreContract exercises behavior every Store backend must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Ping(ctx))
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "does-not-exist")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("put then get round trips", func(t *testing.T) {
		s := newStore(t)
		want := testAnalysis("a1", baseTime)
		require.NoError(t, s.Put(ctx, want))

		got, err := s.Get(ctx, "a1")
		require.NoError(t, err)
		assert.True(t, want.UploadTimestamp.Equal(got.UploadTimestamp))
		got.UploadTimestamp = want.UploadTimestamp
		assert.Equal(t, want, got)
	})

	t.Run("put requires an id", func(t *testing.T) {
		s := newStore(t)
		require.Error(t, s.Put(ctx, testAnalysis("", baseTime)))
	})

	t.Run("put is last write wins", func(t *testing.T) {
		s := newStore(t)
		first := testAnalysis("a1", baseTime)
		require.NoError(t, s.Put(ctx, first))

		second := testAnalysis("a1", baseTime.Add(time.Minute))
		second.FileName = "replacement.csv"
		require.NoError(t, s.Put(ctx, second))

		got, err := s.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "replacement.csv", got.FileName)

		_, total, err := s.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		s := newStore(t)
		a := testAnalysis("a1", baseTime)
		require.NoError(t, s.Put(ctx, a))
		a.FileName = "mutated-after-put.csv"

		got, err := s.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "lot-a1.csv", got.FileName)

		got.Items[0].EstimatedValue = 1e6
		again, err := s.Get(ctx, "a1")
		require.NoError(t, err)
		assert.InDelta(t, 200.0, again.Items[0].EstimatedValue, 0.001)
	})

	t.Run("list is newest first and paged", func(t *testing.T) {
		s := newStore(t)
		for i := range 5 {
			id := fmt.Sprintf("m%d", i)
			require.NoError(t, s.Put(ctx, testAnalysis(id, baseTime.Add(time.Duration(i)*time.Hour))))
		}

		all, total, err := s.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, all, 5)
		assert.Equal(t, []string{"m4", "m3", "m2", "m1", "m0"}, summaryIDs(all))
		assert.Equal(t, domain.ActionPass, all[0].RecommendedAction)
		assert.InDelta(t, -57.79, all[0].AverageROI, 0.001)
		assert.Equal(t, "lot-m4.csv", all[0].FileName)
		assert.True(t, baseTime.Add(4*time.Hour).Equal(all[0].UploadTimestamp))

		pageTwo, total, err := s.List(ctx, &store.ListQuery{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Equal(t, []string{"m2", "m1"}, summaryIDs(pageTwo))

		past, _, err := s.List(ctx, &store.ListQuery{Limit: 2, Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, past)
	})

	t.Run("list empty store", func(t *testing.T) {
		s := newStore(t)
		got, total, err := s.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("delete reports whether removed", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, testAnalysis("a1", baseTime)))

		removed, err := s.Delete(ctx, "a1")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.Delete(ctx, "a1")
		require.NoError(t, err)
		assert.False(t, removed)

		_, err = s.Get(ctx, "a1")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, total, err := s.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("delete older than", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, testAnalysis("old1", baseTime.Add(-72*time.Hour))))
		require.NoError(t, s.Put(ctx, testAnalysis("old2", baseTime.Add(-48*time.Hour))))
		require.NoError(t, s.Put(ctx, testAnalysis("new", baseTime)))

		n, err := s.DeleteOlderThan(ctx, baseTime.Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		all, total, err := s.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, []string{"new"}, summaryIDs(all))

		n, err = s.DeleteOlderThan(ctx, baseTime.Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func summaryIDs(in []domain.ManifestSummary) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.ManifestID
	}
	return out
}

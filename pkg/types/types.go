// Package domain defines the core business types for the manifest analyzer.
package domain

import (
	"slices"
	"time"
)

// Category is the closed set of item categories an item can be classified into.
type Category string

// Category constants.
const (
	CategoryElectronics         Category = "Electronics"
	CategoryClothing            Category = "Clothing & Accessories"
	CategoryHomeGarden          Category = "Home & Garden"
	CategoryToysGames           Category = "Toys & Games"
	CategorySportsOutdoors      Category = "Sports & Outdoors"
	CategoryHealthBeauty        Category = "Health & Beauty"
	CategoryAutomotive          Category = "Automotive"
	CategoryBooksMedia          Category = "Books & Media"
	CategoryIndustrialEquipment Category = "Industrial Equipment"
	CategoryOther               Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryHomeGarden,
	CategoryToysGames,
	CategorySportsOutdoors,
	CategoryHealthBeauty,
	CategoryAutomotive,
	CategoryBooksMedia,
	CategoryIndustrialEquipment,
	CategoryOther,
}

// Valid reports whether c belongs to the closed category list.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Condition represents a normalized item condition.
type Condition string

// Condition constants.
const (
	ConditionNew            Condition = "New"
	ConditionLikeNew        Condition = "Like New"
	ConditionGood           Condition = "Good"
	ConditionFair           Condition = "Fair"
	ConditionPoor           Condition = "Poor"
	ConditionCustomerReturn Condition = "Customer Return"
	ConditionRefurbished    Condition = "Refurbished"
	ConditionUnknown        Condition = "Unknown"
)

// RecommendedAction is the buy recommendation for a whole manifest.
type RecommendedAction string

// Recommended action constants, from most to least favorable.
const (
	ActionStrongBuy RecommendedAction = "Strong Buy"
	ActionBuy       RecommendedAction = "Buy"
	ActionConsider  RecommendedAction = "Consider"
	ActionPass      RecommendedAction = "Pass"
)

// RawRow maps a lower-cased column name to the raw cell value.
type RawRow map[string]string

// ManifestItem is one normalized manifest line.
type ManifestItem struct {
	RowNumber        int       `json:"row_number"`
	Description      string    `json:"description"`
	Brand            string    `json:"brand_guess,omitempty"`
	Quantity         int       `json:"quantity"`
	RetailPrice      float64   `json:"retail_price"`
	TotalRetailPrice float64   `json:"total_retail_price"`
	Condition        Condition `json:"condition"`
	ConditionRaw     string    `json:"condition_raw,omitempty"`
}

// EffectiveTotalRetail returns the line's total retail value, falling back
// to unit price times quantity when no total was supplied.
func (m *ManifestItem) EffectiveTotalRetail() float64 {
	if m.TotalRetailPrice > 0 {
		return m.TotalRetailPrice
	}
	qty := m.Quantity
	if qty < 1 {
		qty = 1
	}
	return m.RetailPrice * float64(qty)
}

// EnrichedItem is a ManifestItem plus classification, valuation and risk.
type EnrichedItem struct {
	ManifestItem

	// Classification
	Category                 Category `json:"category"`
	Subcategory              string   `json:"subcategory"`
	Brand                    string   `json:"brand"`
	Model                    string   `json:"model"`
	CategorizationConfidence float64  `json:"categorization_confidence"`

	// Valuation
	EstimatedValue      float64 `json:"estimated_value"`
	MarketValueLow      float64 `json:"market_value_low"`
	MarketValueHigh     float64 `json:"market_value_high"`
	MarketScore         int     `json:"market_score"`
	DemandScore         int     `json:"demand_score"`
	SeasonalityFactor   float64 `json:"seasonality_factor"`
	ValuationConfidence float64 `json:"valuation_confidence"`

	// Risk
	RiskScore         int      `json:"risk_score"`
	AuthenticityScore int      `json:"authenticity_score"`
	RiskFactors       []string `json:"risk_factors"`

	// Degraded names the enrichment steps that fell back to the rule estimator.
	Degraded []string `json:"degraded,omitempty"`
}

// PotentialProfit is the estimated resale value of the whole line minus
// what it cost at retail.
func (e *EnrichedItem) PotentialProfit() float64 {
	return e.EstimatedValue*float64(e.Quantity) - e.EffectiveTotalRetail()
}

// ValidationResult summarizes a structural validation pass.
type ValidationResult struct {
	IsValid    bool     `json:"is_valid"`
	TotalItems int      `json:"total_items"`
	ValidItems int      `json:"valid_items"`
	Errors     []string `json:"errors"`
}

// ExecutiveSummary holds manifest-level rollup metrics.
type ExecutiveSummary struct {
	ExpectedProfit    float64           `json:"expected_profit"`
	AverageROI        float64           `json:"average_roi"`
	RecommendedAction RecommendedAction `json:"recommended_action"`
	ConfidenceScore   float64           `json:"confidence_score"`
	HighRiskItems     int               `json:"high_risk_items"`
}

// CategoryBreakdown aggregates items sharing a category.
type CategoryBreakdown struct {
	Category       Category `json:"category"`
	Items          int      `json:"items"`
	Units          int      `json:"units"`
	RetailValue    float64  `json:"retail_value"`
	EstimatedValue float64  `json:"estimated_value"`
}

// ManifestAnalysis is the full result of analyzing one manifest.
type ManifestAnalysis struct {
	ManifestID           string              `json:"manifest_id"`
	FileName             string              `json:"file_name"`
	UploadTimestamp      time.Time           `json:"upload_timestamp"`
	ProcessingDurationMs int64               `json:"processing_duration_ms"`
	TotalItems           int                 `json:"total_items"`
	ValidItems           int                 `json:"valid_items"`
	TotalRetailValue     float64             `json:"total_retail_value"`
	TotalPotentialProfit float64             `json:"total_potential_profit"`
	ExecutiveSummary     ExecutiveSummary    `json:"executive_summary"`
	Categories           []CategoryBreakdown `json:"categories"`
	ValidationErrors     []string            `json:"validation_errors,omitempty"`
	EstimatorName        string              `json:"estimator"`
	Items                []EnrichedItem      `json:"items"`
}

// ManifestSummary is the list view of a stored analysis (no items).
type ManifestSummary struct {
	ManifestID        string            `json:"manifest_id"`
	FileName          string            `json:"file_name"`
	UploadTimestamp   time.Time         `json:"upload_timestamp"`
	TotalItems        int               `json:"total_items"`
	ValidItems        int               `json:"valid_items"`
	TotalRetailValue  float64           `json:"total_retail_value"`
	AverageROI        float64           `json:"average_roi"`
	RecommendedAction RecommendedAction `json:"recommended_action"`
}

// Summary returns the list view of the analysis.
func (a *ManifestAnalysis) Summary() ManifestSummary {
	return ManifestSummary{
		ManifestID:        a.ManifestID,
		FileName:          a.FileName,
		UploadTimestamp:   a.UploadTimestamp,
		TotalItems:        a.TotalItems,
		ValidItems:        a.ValidItems,
		TotalRetailValue:  a.TotalRetailValue,
		AverageROI:        a.ExecutiveSummary.AverageROI,
		RecommendedAction: a.ExecutiveSummary.RecommendedAction,
	}
}

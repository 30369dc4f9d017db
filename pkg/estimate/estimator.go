package estimate

import (
	"context"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// Subtask names one step of item enrichment. The names appear in metrics
// labels and in EnrichedItem.Degraded.
type Subtask string

// Enrichment subtasks, in execution order.
const (
	SubtaskCategorize Subtask = "categorize"
	SubtaskBrandModel Subtask = "brand_model"
	SubtaskValuate    Subtask = "valuate"
	SubtaskRisk       Subtask = "risk"
)

// Estimator derives category, brand/model, value and risk for one item.
// Implementations must be safe for concurrent use.
type Estimator interface {
	Categorize(ctx context.Context, description string) (Categorization, error)
	ExtractBrandModel(ctx context.Context, description string, category domain.Category) (BrandModel, error)
	Valuate(ctx context.Context, in ValuationInput) (Valuation, error)
	AssessRisk(ctx context.Context, in RiskInput) (RiskAssessment, error)
	Name() string
}

// Categorization is the category decision for an item.
type Categorization struct {
	Category    domain.Category `json:"category"`
	Subcategory string          `json:"subcategory"`
	Confidence  float64         `json:"confidence"`
	Degraded    bool            `json:"-"`
}

// BrandModel is the category-aware brand and model for an item.
type BrandModel struct {
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Degraded bool   `json:"-"`
}

// ValuationInput carries what a valuation is based on.
type ValuationInput struct {
	Description string
	Category    domain.Category
	Brand       string
	Model       string
	Condition   domain.Condition
}

// Valuation is the estimated per-unit resale value of an item.
type Valuation struct {
	EstimatedValue    float64 `json:"estimated_value"`
	MarketValueLow    float64 `json:"market_value_low"`
	MarketValueHigh   float64 `json:"market_value_high"`
	MarketScore       int     `json:"market_score"`
	DemandScore       int     `json:"demand_score"`
	SeasonalityFactor float64 `json:"seasonality_factor"`
	Confidence        float64 `json:"-"`
	Degraded          bool    `json:"-"`
}

// RiskInput carries what a risk assessment is based on.
type RiskInput struct {
	Description    string
	Category       domain.Category
	Brand          string
	Model          string
	EstimatedValue float64
}

// RiskAssessment scores resale and authenticity risk for an item.
type RiskAssessment struct {
	RiskScore         int      `json:"risk_score"`
	AuthenticityScore int      `json:"authenticity_score"`
	RiskFactors       []string `json:"risk_factors"`
	Degraded          bool     `json:"-"`
}

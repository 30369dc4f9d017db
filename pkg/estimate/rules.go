package estimate

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// RiskMode selects how the rule estimator scores risk.
type RiskMode string

// Risk modes.
const (
	// RiskModeHash derives the score from the description and category, so
	// the same item always scores the same.
	RiskModeHash RiskMode = "hash"
	// RiskModeRandom draws a fresh score on every call.
	RiskModeRandom RiskMode = "random"
)

const (
	valueBand             = 0.2
	highRiskThreshold     = 70
	ruleAuthenticity      = 80
	ruleLexiconConfidence = 0.6
	ruleDefaultConfidence = 0.3

	// DefaultFallbackValuationConfidence is the valuation confidence assigned
	// to rule-based valuations.
	DefaultFallbackValuationConfidence = 0.5

	// HighRiskFactor is the single factor the rule estimator reports for
	// items scoring above the high-risk threshold.
	HighRiskFactor = "High risk item"
)

var categoryLexicon = []struct {
	category domain.Category
	keywords []string
}{
	{domain.CategoryElectronics, []string{"phone", "laptop", "tv"}},
	{domain.CategoryClothing, []string{"shirt", "pants", "shoes"}},
}

// BaseValues is the per-unit base value for each category, in USD.
var BaseValues = map[domain.Category]float64{
	domain.CategoryElectronics:         200,
	domain.CategoryClothing:            50,
	domain.CategoryHomeGarden:          75,
	domain.CategoryToysGames:           30,
	domain.CategorySportsOutdoors:      100,
	domain.CategoryHealthBeauty:        25,
	domain.CategoryAutomotive:          150,
	domain.CategoryBooksMedia:          15,
	domain.CategoryIndustrialEquipment: 500,
	domain.CategoryOther:               50,
}

// ConditionMultipliers scales the base value by condition. Damaged items
// normalize to Poor.
var ConditionMultipliers = map[domain.Condition]float64{
	domain.ConditionNew:            1.0,
	domain.ConditionLikeNew:        1.0,
	domain.ConditionGood:           0.85,
	domain.ConditionRefurbished:    0.85,
	domain.ConditionFair:           0.65,
	domain.ConditionPoor:           0.4,
	domain.ConditionCustomerReturn: 0.7,
	domain.ConditionUnknown:        0.7,
}

// RuleEstimator is the deterministic Estimator used when the LLM is
// unavailable. It never returns an error.
type RuleEstimator struct {
	riskMode            RiskMode
	valuationConfidence float64
}

// RuleOption configures the RuleEstimator.
type RuleOption func(*RuleEstimator)

// WithRiskMode selects hash or random risk scoring. Unknown modes fall back
// to RiskModeHash.
func WithRiskMode(m RiskMode) RuleOption {
	return func(r *RuleEstimator) {
		if m == RiskModeRandom {
			r.riskMode = RiskModeRandom
			return
		}
		r.riskMode = RiskModeHash
	}
}

// WithValuationConfidence overrides the confidence attached to rule valuations.
func WithValuationConfidence(c float64) RuleOption {
	return func(r *RuleEstimator) {
		r.valuationConfidence = clampFloat(c, 0, 1)
	}
}

// NewRuleEstimator creates a RuleEstimator.
func NewRuleEstimator(opts ...RuleOption) *RuleEstimator {
	r := &RuleEstimator{
		riskMode:            RiskModeHash,
		valuationConfidence: DefaultFallbackValuationConfidence,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns "rules".
func (*RuleEstimator) Name() string {
	return "rules"
}

// Categorize matches lowercase keyword substrings against a small lexicon.
func (*RuleEstimator) Categorize(_ context.Context, description string) (Categorization, error) {
	lower := strings.ToLower(description)
	for _, entry := range categoryLexicon {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return Categorization{Category: entry.category, Confidence: ruleLexiconConfidence}, nil
			}
		}
	}
	return Categorization{Category: domain.CategoryOther, Confidence: ruleDefaultConfidence}, nil
}

// ExtractBrandModel has no rule-based answer and returns empty strings.
func (*RuleEstimator) ExtractBrandModel(context.Context, string, domain.Category) (BrandModel, error) {
	return BrandModel{}, nil
}

// Valuate multiplies the category base value by the condition multiplier.
func (r *RuleEstimator) Valuate(_ context.Context, in ValuationInput) (Valuation, error) {
	base, ok := BaseValues[in.Category]
	if !ok {
		base = BaseValues[domain.CategoryOther]
	}
	mult, ok := ConditionMultipliers[in.Condition]
	if !ok {
		mult = ConditionMultipliers[domain.ConditionUnknown]
	}

	est := roundCents(base * mult)
	return Valuation{
		EstimatedValue:    est,
		MarketValueLow:    roundCents(est * (1 - valueBand)),
		MarketValueHigh:   roundCents(est * (1 + valueBand)),
		MarketScore:       50,
		DemandScore:       50,
		SeasonalityFactor: 1.0,
		Confidence:        r.valuationConfidence,
	}, nil
}

// AssessRisk scores risk in [1, 100] using the configured RiskMode.
func (r *RuleEstimator) AssessRisk(_ context.Context, in RiskInput) (RiskAssessment, error) {
	var score int
	switch r.riskMode {
	case RiskModeRandom:
		score = rand.IntN(100) + 1 //nolint:gosec // not security sensitive
	default:
		score = HashRiskScore(in.Description, in.Category)
	}

	factors := []string{}
	if score > highRiskThreshold {
		factors = append(factors, HighRiskFactor)
	}

	return RiskAssessment{
		RiskScore:         score,
		AuthenticityScore: ruleAuthenticity,
		RiskFactors:       factors,
	}, nil
}

// HashRiskScore maps description and category to a stable score in [1, 100]
// using FNV-1a.
func HashRiskScore(description string, category domain.Category) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s\x00%s", description, category)
	return int(h.Sum32()%100) + 1
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

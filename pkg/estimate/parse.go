package estimate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// Response validation errors.
var (
	ErrMalformedResponse = errors.New("malformed estimator response")
	ErrMissingField      = errors.New("missing required field")
	ErrOutOfRange        = errors.New("value out of valid range")
)

// decodeObject pulls the first JSON object out of an LLM reply. Markdown
// code fences and prose around the object are ignored.
func decodeObject(content string) (map[string]any, error) {
	s := strings.TrimSpace(content)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		s = rest
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object in %q", ErrMalformedResponse, truncate(content, 80))
	}

	var attrs map[string]any
	if err := json.NewDecoder(strings.NewReader(s[start:])).Decode(&attrs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return attrs, nil
}

// ParseCategorization validates a categorization reply. Categories outside
// the closed list become Other; confidence is clamped to [0, 1].
func ParseCategorization(content string) (Categorization, error) {
	attrs, err := decodeObject(content)
	if err != nil {
		return Categorization{}, err
	}

	raw, ok := attrString(attrs, "category")
	if !ok || strings.TrimSpace(raw) == "" {
		return Categorization{}, fmt.Errorf("category: %w", ErrMissingField)
	}
	conf, ok := attrFloat(attrs, "confidence")
	if !ok {
		return Categorization{}, fmt.Errorf("confidence: %w", ErrMissingField)
	}
	sub, _ := attrString(attrs, "subcategory")

	return Categorization{
		Category:    CoerceCategory(raw),
		Subcategory: strings.TrimSpace(sub),
		Confidence:  clampFloat(conf, 0, 1),
	}, nil
}

// CoerceCategory maps s onto the closed category list, case-insensitively.
// Anything else is Other.
func CoerceCategory(s string) domain.Category {
	s = strings.TrimSpace(s)
	for _, c := range domain.Categories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return domain.CategoryOther
}

// ParseBrandModel validates a brand/model reply. Missing fields are empty.
func ParseBrandModel(content string) (BrandModel, error) {
	attrs, err := decodeObject(content)
	if err != nil {
		return BrandModel{}, err
	}

	brand, _ := attrString(attrs, "brand")
	model, _ := attrString(attrs, "model")
	return BrandModel{
		Brand: strings.TrimSpace(brand),
		Model: strings.TrimSpace(model),
	}, nil
}

// ParseValuation validates a valuation reply. The estimate is required and
// must be non-negative; bounds default to +-20% and are widened to contain
// the estimate; scores and seasonality are clamped.
func ParseValuation(content string) (Valuation, error) {
	attrs, err := decodeObject(content)
	if err != nil {
		return Valuation{}, err
	}

	est, ok := attrFloat(attrs, "estimated_value")
	if !ok {
		return Valuation{}, fmt.Errorf("estimated_value: %w", ErrMissingField)
	}
	if est < 0 {
		return Valuation{}, fmt.Errorf("estimated_value %.2f: %w (must be >= 0)", est, ErrOutOfRange)
	}

	low, ok := attrFloat(attrs, "market_value_low")
	if !ok || low <= 0 {
		low = est * (1 - valueBand)
	}
	high, ok := attrFloat(attrs, "market_value_high")
	if !ok || high <= 0 {
		high = est * (1 + valueBand)
	}

	v := Valuation{
		EstimatedValue:    est,
		MarketValueLow:    math.Min(low, est),
		MarketValueHigh:   math.Max(high, est),
		MarketScore:       50,
		DemandScore:       50,
		SeasonalityFactor: 1.0,
	}
	if n, ok := attrInt(attrs, "market_score"); ok {
		v.MarketScore = clampInt(n, 0, 100)
	}
	if n, ok := attrInt(attrs, "demand_score"); ok {
		v.DemandScore = clampInt(n, 0, 100)
	}
	if f, ok := attrFloat(attrs, "seasonality_factor"); ok {
		v.SeasonalityFactor = clampFloat(f, 0.5, 1.5)
	}
	return v, nil
}

// ParseRiskAssessment validates a risk reply. Both scores are required and
// clamped to [0, 100].
func ParseRiskAssessment(content string) (RiskAssessment, error) {
	attrs, err := decodeObject(content)
	if err != nil {
		return RiskAssessment{}, err
	}

	risk, ok := attrInt(attrs, "risk_score")
	if !ok {
		return RiskAssessment{}, fmt.Errorf("risk_score: %w", ErrMissingField)
	}
	auth, ok := attrInt(attrs, "authenticity_score")
	if !ok {
		return RiskAssessment{}, fmt.Errorf("authenticity_score: %w", ErrMissingField)
	}

	factors := []string{}
	if list, ok := attrs["risk_factors"].([]any); ok {
		for _, f := range list {
			if s, ok := f.(string); ok && strings.TrimSpace(s) != "" {
				factors = append(factors, strings.TrimSpace(s))
			}
		}
	}

	return RiskAssessment{
		RiskScore:         clampInt(risk, 0, 100),
		AuthenticityScore: clampInt(auth, 0, 100),
		RiskFactors:       factors,
	}, nil
}

// attrString extracts a string attribute, returning false if nil or not a string.
func attrString(attrs map[string]any, key string) (string, bool) {
	v, ok := attrs[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// attrFloat extracts a finite number. Numeric strings such as "12.50" or
// "$12.50" are accepted since models occasionally quote numbers.
func attrFloat(attrs map[string]any, key string) (float64, bool) {
	v, ok := attrs[key]
	if !ok || v == nil {
		return 0, false
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.Trim(strings.TrimSpace(n), "$"), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// attrInt extracts an integer attribute, rounding fractional numbers.
func attrInt(attrs map[string]any, key string) (int, bool) {
	f, ok := attrFloat(attrs, key)
	if !ok || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(math.Round(f)), true
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

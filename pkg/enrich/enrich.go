// Package enrich turns validated manifest items into enriched items by
// running the four estimation steps in order.
package enrich

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/manifest-analyzer/pkg/estimate"
	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

const tracerName = "github.com/donaldgifford/manifest-analyzer/pkg/enrich"

// Enricher enriches one item at a time and is safe for concurrent use.
type Enricher struct {
	est    estimate.Estimator
	rules  *estimate.RuleEstimator
	log    *slog.Logger
	tracer trace.Tracer
}

// Option configures the Enricher.
type Option func(*Enricher)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Enricher) {
		e.log = l
	}
}

// WithRuleEstimator replaces the rule estimator used when est itself
// returns an error.
func WithRuleEstimator(r *estimate.RuleEstimator) Option {
	return func(e *Enricher) {
		if r != nil {
			e.rules = r
		}
	}
}

// New creates an Enricher. est is normally an *estimate.FallbackEstimator.
func New(est estimate.Estimator, opts ...Option) *Enricher {
	e := &Enricher{
		est:    est,
		rules:  estimate.NewRuleEstimator(),
		log:    slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EstimatorName returns the name of the configured estimator.
func (e *Enricher) EstimatorName() string {
	return e.est.Name()
}

// Enrich categorizes, identifies, values and risk-scores item. Each step
// depends on the ones before it. Enrich never fails: a step whose estimator
// errors is answered by the rule estimator and listed in Degraded.
func (e *Enricher) Enrich(ctx context.Context, item domain.ManifestItem) domain.EnrichedItem {
	ctx, span := e.tracer.Start(ctx, "enrich.Item", trace.WithAttributes(
		attribute.Int("manifest.row", item.RowNumber),
	))
	defer span.End()

	out := domain.EnrichedItem{ManifestItem: item}
	var degraded []string
	mark := func(s estimate.Subtask, d bool) {
		if d {
			degraded = append(degraded, string(s))
		}
	}

	cat, err := e.est.Categorize(ctx, item.Description)
	if err != nil {
		e.stepFailed(estimate.SubtaskCategorize, item, err)
		cat, _ = e.rules.Categorize(ctx, item.Description)
		cat.Degraded = true
	}
	if !cat.Category.Valid() {
		cat.Category = domain.CategoryOther
	}
	mark(estimate.SubtaskCategorize, cat.Degraded)

	bm, err := e.est.ExtractBrandModel(ctx, item.Description, cat.Category)
	if err != nil {
		e.stepFailed(estimate.SubtaskBrandModel, item, err)
		bm, _ = e.rules.ExtractBrandModel(ctx, item.Description, cat.Category)
		bm.Degraded = true
	}
	mark(estimate.SubtaskBrandModel, bm.Degraded)

	brand := bm.Brand
	if brand == "" {
		brand = item.Brand
	}

	valIn := estimate.ValuationInput{
		Description: item.Description,
		Category:    cat.Category,
		Brand:       brand,
		Model:       bm.Model,
		Condition:   item.Condition,
	}
	val, err := e.est.Valuate(ctx, valIn)
	if err != nil {
		e.stepFailed(estimate.SubtaskValuate, item, err)
		val, _ = e.rules.Valuate(ctx, valIn)
		val.Degraded = true
	}
	mark(estimate.SubtaskValuate, val.Degraded)

	risk, err := e.est.AssessRisk(ctx, estimate.RiskInput{
		Description:    item.Description,
		Category:       cat.Category,
		Brand:          brand,
		Model:          bm.Model,
		EstimatedValue: val.EstimatedValue,
	})
	if err != nil {
		e.stepFailed(estimate.SubtaskRisk, item, err)
		risk, _ = e.rules.AssessRisk(ctx, estimate.RiskInput{Description: item.Description, Category: cat.Category})
		risk.Degraded = true
	}
	mark(estimate.SubtaskRisk, risk.Degraded)
	if risk.RiskFactors == nil {
		risk.RiskFactors = []string{}
	}

	out.Category = cat.Category
	out.Subcategory = cat.Subcategory
	out.CategorizationConfidence = cat.Confidence
	out.Brand = brand
	out.Model = bm.Model
	out.EstimatedValue = val.EstimatedValue
	out.MarketValueLow = val.MarketValueLow
	out.MarketValueHigh = val.MarketValueHigh
	out.MarketScore = val.MarketScore
	out.DemandScore = val.DemandScore
	out.SeasonalityFactor = val.SeasonalityFactor
	out.ValuationConfidence = val.Confidence
	out.RiskScore = risk.RiskScore
	out.AuthenticityScore = risk.AuthenticityScore
	out.RiskFactors = risk.RiskFactors
	out.Degraded = degraded

	if len(degraded) > 0 {
		span.SetAttributes(attribute.StringSlice("enrich.degraded", degraded))
	}
	return out
}

func (e *Enricher) stepFailed(s estimate.Subtask, item domain.ManifestItem, err error) {
	e.log.Warn("enrichment step failed, using rules",
		"subtask", s,
		"row", item.RowNumber,
		"error", err,
	)
}

package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ManifestsRate shows completed analyses and failures by reason.
func ManifestsRate() *timeseries.PanelBuilder {
	return series("Manifests", "Analyses completed and failed per second, failures by reason", TSWidth).
		WithTarget(PromQuery(`mfa:manifests_analyzed:rate5m`, "analyzed", "A")).
		WithTarget(PromQuery(`sum(mfa:manifests_failed:rate5m) by (reason)`, "failed {{reason}}", "B")).
		Legend(TableLegend("mean", "max"))
}

// AnalysisDuration shows p50 and p95 wall time of full analyses.
func AnalysisDuration() *timeseries.PanelBuilder {
	const metric = "mfa_analysis_duration_seconds"
	return series("Analysis Duration", "Wall time of full manifest analyses", TSWidth).
		WithTarget(PromQuery(Quantile(0.50, metric), "p50", "A")).
		WithTarget(PromQuery(Quantile(0.95, metric), "p95", "B")).
		Unit("s").
		Legend(TableLegend("mean", "max"))
}

// DegradedRatio shows the share of enriched items that needed at least one
// fallback estimate.
func DegradedRatio() *timeseries.PanelBuilder {
	return series("Degraded Items %", "Percentage of enriched items answered at least partly by the rule fallback", TSWidth).
		WithTarget(PromQuery(`mfa:items_degraded:rate5m / mfa:items_enriched:rate5m * 100`, "degraded %", "A")).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(10, 50)).
		ColorScheme(ColorSchemeThresholds())
}

// ManifestSize is a bar gauge of valid items per analyzed manifest over the
// last day.
func ManifestSize() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Manifest Size").
		Description("Valid items per analyzed manifest over the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(jobExpr(`sum(increase(mfa_manifest_items_bucket{job=%q}[24h])) by (le)`), "{{le}}", "A")).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

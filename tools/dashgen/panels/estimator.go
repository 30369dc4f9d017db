package panels

import "github.com/grafana/grafana-foundation-sdk/go/timeseries"

// EstimatorLatency shows p95 primary estimator call latency per subtask.
func EstimatorLatency() *timeseries.PanelBuilder {
	return series("Estimator Latency (p95)", "95th percentile primary estimator call duration by subtask", ThirdWidth).
		WithTarget(PromQuery(Quantile(0.95, "mfa_estimator_call_duration_seconds", "subtask"), "{{subtask}}", "A")).
		Unit("s").
		Legend(TableLegend("mean", "max"))
}

// EstimatorErrors shows failed primary calls per subtask.
func EstimatorErrors() *timeseries.PanelBuilder {
	return series("Estimator Errors", "Failed primary estimator calls per second by subtask", ThirdWidth).
		WithTarget(PromQuery(`sum(mfa:estimator_errors:rate5m) by (subtask)`, "{{subtask}}", "A")).
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.1))
}

// FallbackRate shows answers served by the rule estimator per subtask.
func FallbackRate() *timeseries.PanelBuilder {
	return series("Fallback Answers", "Estimates answered by the rule fallback per second by subtask", ThirdWidth).
		WithTarget(PromQuery(`sum(mfa:estimator_fallbacks:rate5m) by (subtask)`, "{{subtask}}", "A"))
}

package panels

import "github.com/grafana/grafana-foundation-sdk/go/timeseries"

// RequestRate shows HTTP requests per second.
func RequestRate() *timeseries.PanelBuilder {
	return series("Request Rate", "HTTP requests per second", ThirdWidth).
		WithTarget(PromQuery(`mfa:http_requests:rate5m`, "req/s", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max"))
}

// LatencyPercentiles shows p50, p95 and p99 request latency. Uploads carry
// the whole analysis, so the upper percentiles track estimator latency.
func LatencyPercentiles() *timeseries.PanelBuilder {
	const metric = "mfa_http_request_duration_seconds"
	return series("Latency Percentiles", "HTTP request duration percentiles. Uploads include the full analysis.", ThirdWidth).
		WithTarget(PromQuery(Quantile(0.50, metric), "p50", "A")).
		WithTarget(PromQuery(Quantile(0.95, metric), "p95", "B")).
		WithTarget(PromQuery(Quantile(0.99, metric), "p99", "C")).
		Unit("s").
		Legend(TableLegend("mean", "max"))
}

// ErrorRate shows 5xx responses as a share of all requests.
func ErrorRate() *timeseries.PanelBuilder {
	return series("Error Rate %", "HTTP 5xx responses as a percentage of all requests", ThirdWidth).
		WithTarget(PromQuery(`mfa:http_errors:rate5m / mfa:http_requests:rate5m * 100`, "error %", "A")).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}

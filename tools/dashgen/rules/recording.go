package rules

// RecordingRules returns the rates the dashboard and alerts read. Names
// follow level:metric:operation.
func RecordingRules() PrometheusRule {
	return newResource("mfa-recording-rules", "mfa-recording",
		record("mfa:http_requests:rate5m", `sum(rate(mfa_http_requests_total[5m]))`),
		record("mfa:http_errors:rate5m", `sum(rate(mfa_http_requests_total{status=~"5.."}[5m]))`),
		record("mfa:manifests_analyzed:rate5m", `sum(rate(mfa_manifests_analyzed_total[5m]))`),
		record("mfa:manifests_failed:rate5m", `sum(rate(mfa_manifests_failed_total[5m])) by (reason)`),
		record("mfa:items_enriched:rate5m", `sum(rate(mfa_items_enriched_total[5m]))`),
		record("mfa:items_degraded:rate5m", `sum(rate(mfa_items_degraded_total[5m]))`),
		record("mfa:estimator_errors:rate5m", `sum(rate(mfa_estimator_errors_total[5m])) by (subtask)`),
		record("mfa:estimator_fallbacks:rate5m", `sum(rate(mfa_estimator_fallbacks_total[5m])) by (subtask)`),
		record("mfa:store_errors:rate5m", `sum(rate(mfa_store_errors_total[5m])) by (op)`),
	)
}

package rules

// AlertRules returns the server's operational alerts.
func AlertRules() PrometheusRule {
	return newResource("mfa-alerts", "mfa-alerts",
		alert("MfaDown", `absent(up{job="manifest-analyzer"})`, "2m", "critical",
			"Manifest Analyzer is down",
			"The manifest-analyzer job has been absent for more than 2 minutes.",
		),
		alert("MfaReadinessDown", `mfa_readyz_up == 0`, "2m", "critical",
			"Manifest Analyzer cannot reach its store",
			"The readiness probe has been reporting not-ready for more than 2 minutes.",
		),
		alert("MfaHighErrorRate", `mfa:http_errors:rate5m / mfa:http_requests:rate5m > 0.05`, "5m", "warning",
			"High HTTP error rate on Manifest Analyzer",
			"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
		),
		alert("MfaPanics", `increase(mfa_http_panics_recovered_total[5m]) > 0`, "", "warning",
			"Handler panics recovered",
			"One or more HTTP handlers panicked in the last 5 minutes. Check the server logs for stack traces.",
		),
		alert("MfaDegradedEstimates", `mfa:items_degraded:rate5m / mfa:items_enriched:rate5m > 0.5`, "10m", "warning",
			"Most items are falling back to rule estimates",
			"More than half of enriched items used the rule fallback for 10 minutes. The LLM backend may be down or over budget.",
		),
		alert("MfaLLMBudgetExhausted", `mfa_llm_daily_budget_remaining == 0`, "", "warning",
			"LLM daily call budget exhausted",
			"All estimates use the rule fallback until the rolling 24-hour budget resets.",
		),
		alert("MfaStoreErrors", `sum(mfa:store_errors:rate5m) > 0`, "5m", "warning",
			"Analysis store errors detected",
			"The analysis store has been returning errors for more than 5 minutes.",
		),
		alert("MfaRetentionStale", `time() - mfa_retention_last_run_timestamp > 172800`, "10m", "warning",
			"Retention sweep has not run in two days",
			"No successful retention sweep was recorded in the last 48 hours.",
		),
		alert("MfaNotificationFailures", `increase(mfa_notification_failures_total[5m]) > 0`, "", "info",
			"Analysis notifications are failing",
			"The notification webhook rejected or dropped at least one analysis notification.",
		),
	)
}

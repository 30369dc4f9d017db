package main

import "errors"

// KnownMetrics is the set of metric names exported by manifest-analyzer
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"mfa_http_request_duration_seconds":        true,
	"mfa_http_request_duration_seconds_bucket": true,
	"mfa_http_requests_total":                  true,
	"mfa_http_panics_recovered_total":          true,

	// Health metrics.
	"mfa_healthz_up": true,
	"mfa_readyz_up":  true,

	// Analysis metrics.
	"mfa_manifests_analyzed_total":         true,
	"mfa_manifests_failed_total":           true,
	"mfa_items_enriched_total":             true,
	"mfa_items_degraded_total":             true,
	"mfa_analysis_duration_seconds_bucket": true,
	"mfa_manifest_items_bucket":            true,

	// Estimator metrics.
	"mfa_estimator_call_duration_seconds_bucket": true,
	"mfa_estimator_errors_total":                 true,
	"mfa_estimator_fallbacks_total":              true,
	"mfa_llm_daily_budget_remaining":             true,

	// Store metrics.
	"mfa_store_errors_total":           true,
	"mfa_retention_deleted_total":      true,
	"mfa_retention_last_run_timestamp": true,
	"mfa_notifications_sent_total":     true,
	"mfa_notification_failures_total":  true,

	// Recording rules.
	"mfa:http_requests:rate5m":       true,
	"mfa:http_errors:rate5m":         true,
	"mfa:manifests_analyzed:rate5m":  true,
	"mfa:manifests_failed:rate5m":    true,
	"mfa:items_enriched:rate5m":      true,
	"mfa:items_degraded:rate5m":      true,
	"mfa:estimator_errors:rate5m":    true,
	"mfa:estimator_fallbacks:rate5m": true,
	"mfa:store_errors:rate5m":        true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}

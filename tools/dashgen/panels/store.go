package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// StoreErrors shows analysis store errors by operation.
func StoreErrors() *timeseries.PanelBuilder {
	return series("Store Errors", "Analysis store errors per second by operation", ThirdWidth).
		WithTarget(PromQuery(`sum(mfa:store_errors:rate5m) by (op)`, "{{op}}", "A")).
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.1))
}

// RetentionDeleted shows analyses removed by the retention sweep in the last
// day.
func RetentionDeleted() *stat.PanelBuilder {
	return single("Retention Deletes (24h)", "Stored analyses removed by the retention sweep in the last 24 hours", TSHeight, ThirdWidth).
		WithTarget(PromQuery(jobExpr(`increase(mfa_retention_deleted_total{job=%q}[24h])`), "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		GraphMode(common.BigValueGraphModeArea)
}

// LastRetention shows time since the last successful sweep; yellow after a
// day, red after two.
func LastRetention() *stat.PanelBuilder {
	return single("Last Retention Sweep", "Time since the last successful retention sweep", TSHeight, ThirdWidth).
		WithTarget(PromQuery(jobExpr(`time() - mfa_retention_last_run_timestamp{job=%q}`), "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenYellowRed(86400, 172800)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

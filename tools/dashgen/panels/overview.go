package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

func probe(title, description, metric string) *stat.PanelBuilder {
	return single(title, description, StatHeight, StatWidth).
		WithTarget(PromQuery(metric, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// HealthzStat shows the liveness probe (1 = ok).
func HealthzStat() *stat.PanelBuilder {
	return probe("Healthz", "Liveness probe (1 = ok, 0 = failing)", `mfa_healthz_up`)
}

// ReadyzStat shows the readiness probe, which pings the analysis store.
func ReadyzStat() *stat.PanelBuilder {
	return probe("Readyz", "Readiness probe (1 = store reachable, 0 = not ready)", `mfa_readyz_up`)
}

// BudgetStat shows the LLM calls left in the rolling daily budget. The gauge
// reads -1 when no budget is configured.
func BudgetStat() *stat.PanelBuilder {
	return single("LLM Budget Left", "LLM calls left in the rolling 24-hour budget (-1 = unlimited)", StatHeight, StatWidth).
		WithTarget(PromQuery(jobExpr(`mfa_llm_daily_budget_remaining{job=%q}`), "", "A")).
		Thresholds(ThresholdsRedGreen(100)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// UptimeStat shows time since process start.
func UptimeStat() *stat.PanelBuilder {
	return single("Uptime", "Time since process start", StatHeight, StatWidth).
		WithTarget(PromQuery(jobExpr(`time() - process_start_time_seconds{job=%q}`), "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		GraphMode(common.BigValueGraphModeNone)
}

// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/manifest-analyzer/tools/dashgen/panels"
)

// BuildOverview constructs the Manifest Analyzer overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Manifest Analyzer Overview").
		Uid("mfa-overview").
		Tags([]string{"mfa", "manifest-analyzer"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.BudgetStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Analysis").
		WithPanel(panels.ManifestsRate()).
		WithPanel(panels.AnalysisDuration()).
		WithPanel(panels.DegradedRatio()).
		WithPanel(panels.ManifestSize()))

	b.WithRow(dashboard.NewRowBuilder("Estimator").
		WithPanel(panels.EstimatorLatency()).
		WithPanel(panels.EstimatorErrors()).
		WithPanel(panels.FallbackRate()))

	b.WithRow(dashboard.NewRowBuilder("Store").
		WithPanel(panels.StoreErrors()).
		WithPanel(panels.RetentionDeleted()).
		WithPanel(panels.LastRetention()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}

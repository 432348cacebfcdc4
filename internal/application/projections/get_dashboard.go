package projections

import (
	"context"
	"log/slog"
	"time"

	"ascend/internal/adapters/http/perf"
	"ascend/internal/adapters/remote"
	"ascend/internal/application/datatable"
	"ascend/internal/domain/audit"
	"ascend/internal/domain/table"
)

// DefaultPerfWindow is how far back the dashboard aggregates timings.
const DefaultPerfWindow = time.Hour

const (
	dashboardTopN     = 5
	dashboardActivity = 10
)

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Now time.Time
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Source    datatable.Source
	Registry  *table.Registry
	Collector *perf.Collector // optional: nil hides the performance panel
	Activity  ActivityStore   // optional: nil hides the recent activity list
	Window    time.Duration   // optional: defaults to DefaultPerfWindow
}

// TableCount is one row-count card.
type TableCount struct {
	Table string
	Label string
	Rows  int
	Err   error // set when the count could not be fetched
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Tables   []TableCount
	Perf     *perf.Snapshot
	Activity []audit.Event
}

// QueryGetDashboard counts rows in every registered table and summarizes recent timings.
// PRE: Now is set
// POST: One TableCount per registered table in registry order; a failed count does not fail the dashboard
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	schemas := deps.Registry.Tables()
	result := DashboardResult{Tables: make([]TableCount, 0, len(schemas))}
	for _, s := range schemas {
		tc := TableCount{Table: s.Name, Label: s.Label}
		rows, err := deps.Source.Select(ctx, s.Name, remote.Query{})
		if err != nil {
			slog.Error("dashboard_count_failed", "table", s.Name, "error", err)
			tc.Err = err
		} else {
			tc.Rows = len(rows)
		}
		result.Tables = append(result.Tables, tc)
	}

	if deps.Collector != nil {
		window := deps.Window
		if window <= 0 {
			window = DefaultPerfWindow
		}
		snap := deps.Collector.Snapshot(query.Now.Add(-window), dashboardTopN)
		result.Perf = &snap
	}

	if deps.Activity != nil {
		events, err := deps.Activity.ListRecent(ctx, dashboardActivity)
		if err != nil {
			slog.Error("dashboard_activity_failed", "error", err)
		} else {
			result.Activity = events
		}
	}
	return result, nil
}

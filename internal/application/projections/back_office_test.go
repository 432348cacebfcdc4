package projections

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"ascend/internal/adapters/http/perf"
	"ascend/internal/adapters/remote"
	auditStore "ascend/internal/adapters/storage/audit"
	"ascend/internal/application/datatable"
	"ascend/internal/domain/audit"
	"ascend/internal/domain/table"
)

// failingSource fails every call.
type failingSource struct{}

func (failingSource) Select(context.Context, string, remote.Query) ([]remote.Row, error) {
	return nil, &remote.Error{Status: 503, Message: "backend unavailable"}
}

func (failingSource) Delete(context.Context, string, ...remote.Filter) error {
	return errors.New("backend unavailable")
}

func seedSubscribers(t *testing.T, b remote.Backend, emails ...string) {
	t.Helper()
	for _, email := range emails {
		if _, err := b.Insert(context.Background(), table.NewsletterSubscriptions, remote.Row{"email": email}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
}

// TestQueryGetTableView verifies search counts and formatted cells.
func TestQueryGetTableView(t *testing.T) {
	s := newTestSite(t)
	seedSubscribers(t, s.backend, "ana@kiri.example", "bea@tui.example", "cat@kiri.example")
	deps := GetTableViewDeps{Source: s.backend, Registry: table.DefaultRegistry(), Location: time.UTC}

	res, err := QueryGetTableView(context.Background(), GetTableViewQuery{Table: table.NewsletterSubscriptions, Search: "KIRI", Selected: []string{"3"}}, deps)
	if err != nil {
		t.Fatalf("QueryGetTableView: %v", err)
	}
	v := res.View
	if v.State != datatable.StateReady {
		t.Fatalf("State = %v, err = %v", v.State, v.Err)
	}
	if v.Total != 3 || v.Filtered != 2 || len(v.Rows) != v.Filtered {
		t.Errorf("Total = %d, Filtered = %d, rows = %d", v.Total, v.Filtered, len(v.Rows))
	}
	if v.Rows[0].ID != "3" || !v.Rows[0].Selected || v.Rows[1].Selected {
		t.Errorf("rows = %+v, want id 3 first and selected", v.Rows)
	}
	if got := strings.Join(v.Columns, ","); got != "id,email,subscribed_at" {
		t.Errorf("Columns = %s", got)
	}
	if res.Schema.Label != "Newsletter" {
		t.Errorf("Schema.Label = %q, want Newsletter", res.Schema.Label)
	}
}

// TestQueryGetTableView_Failures verifies unknown tables and failed fetches.
func TestQueryGetTableView_Failures(t *testing.T) {
	deps := GetTableViewDeps{Source: failingSource{}, Registry: table.DefaultRegistry()}

	if _, err := QueryGetTableView(context.Background(), GetTableViewQuery{Table: "sqlite_master"}, deps); !errors.Is(err, table.ErrUnknownTable) {
		t.Errorf("err = %v, want ErrUnknownTable", err)
	}

	res, err := QueryGetTableView(context.Background(), GetTableViewQuery{Table: table.Events}, deps)
	if err != nil {
		t.Fatalf("QueryGetTableView: %v", err)
	}
	if res.View.State != datatable.StateFailed || res.View.Err == nil {
		t.Errorf("View = %+v, want failed with error", res.View)
	}
	if len(res.View.Rows) != 0 {
		t.Errorf("rows = %d, want none", len(res.View.Rows))
	}
}

// TestQueryExportTable verifies selected rows win over the search and the filename carries the date.
func TestQueryExportTable(t *testing.T) {
	s := newTestSite(t)
	seedSubscribers(t, s.backend, "ana@kiri.example", "bea@tui.example")
	deps := ExportTableDeps{Source: s.backend, Registry: table.DefaultRegistry(), Now: testNow}

	res, err := QueryExportTable(context.Background(), ExportTableQuery{Table: table.NewsletterSubscriptions, Search: "tui"}, deps)
	if err != nil {
		t.Fatalf("QueryExportTable: %v", err)
	}
	if res.Filename != "newsletter_subscriptions-2030-03-01.csv" {
		t.Errorf("Filename = %q", res.Filename)
	}
	lines := strings.Split(strings.TrimSpace(string(res.Data)), "\n")
	if len(lines) != 2 || lines[0] != "id,email,subscribed_at" || !strings.HasPrefix(lines[1], "2,bea@tui.example,") {
		t.Errorf("csv = %q", res.Data)
	}

	res, err = QueryExportTable(context.Background(), ExportTableQuery{Table: table.NewsletterSubscriptions, Search: "tui", IDs: []string{"1"}}, deps)
	if err != nil {
		t.Fatalf("QueryExportTable: %v", err)
	}
	if !strings.Contains(string(res.Data), "ana@kiri.example") || strings.Contains(string(res.Data), "bea@") {
		t.Errorf("selected export = %q, want only id 1", res.Data)
	}

	if _, err := QueryExportTable(context.Background(), ExportTableQuery{Table: table.Events}, ExportTableDeps{Source: failingSource{}, Registry: table.DefaultRegistry()}); err == nil {
		t.Error("export from a failing backend returned no error")
	}
}

// TestQueryGetDashboard verifies counts per table and the perf window.
func TestQueryGetDashboard(t *testing.T) {
	s := newTestSite(t)
	seedSubscribers(t, s.backend, "a@x.example", "b@x.example")
	collector := perf.NewCollector(10)
	collector.Record(perf.Entry{Kind: perf.KindRequest, Path: "GET /", StatusCode: 200, DurationMs: 4, Timestamp: testNow.Add(-time.Minute)})
	collector.Record(perf.Entry{Kind: perf.KindRequest, Path: "GET /", StatusCode: 200, DurationMs: 4, Timestamp: testNow.Add(-3 * time.Hour)})
	registry := table.DefaultRegistry()

	res, err := QueryGetDashboard(context.Background(), GetDashboardQuery{Now: testNow}, GetDashboardDeps{
		Source: s.backend, Registry: registry, Collector: collector,
	})
	if err != nil {
		t.Fatalf("QueryGetDashboard: %v", err)
	}
	if len(res.Tables) != len(registry.Tables()) {
		t.Fatalf("Tables = %d, want %d", len(res.Tables), len(registry.Tables()))
	}
	for _, tc := range res.Tables {
		want := 0
		if tc.Table == table.NewsletterSubscriptions {
			want = 2
		}
		if tc.Err != nil || tc.Rows != want {
			t.Errorf("%s: rows = %d, err = %v; want %d", tc.Table, tc.Rows, tc.Err, want)
		}
	}
	if res.Perf == nil || res.Perf.Requests != 1 {
		t.Errorf("Perf = %+v, want one request in the last hour", res.Perf)
	}
}

// TestQueryGetDashboard_CountFailure verifies a failing table does not fail the page.
func TestQueryGetDashboard_CountFailure(t *testing.T) {
	res, err := QueryGetDashboard(context.Background(), GetDashboardQuery{Now: testNow}, GetDashboardDeps{
		Source: failingSource{}, Registry: table.DefaultRegistry(),
	})
	if err != nil {
		t.Fatalf("QueryGetDashboard: %v", err)
	}
	for _, tc := range res.Tables {
		if tc.Err == nil {
			t.Errorf("%s: Err = nil, want the fetch error", tc.Table)
		}
	}
	if res.Perf != nil {
		t.Error("Perf set without a collector")
	}
}

// TestQueryGetDashboard_RecentActivity verifies the newest activity is listed first.
func TestQueryGetDashboard_RecentActivity(t *testing.T) {
	s := newTestSite(t)
	activity := auditStore.NewRemoteStore(s.backend)
	for i := 0; i < 12; i++ {
		e := audit.NewEvent("ada@ascend.example", audit.ActionUpdate, testNow.Add(time.Duration(i)*time.Minute)).
			WithResource(table.Events, strconv.Itoa(i+1))
		if err := activity.Save(context.Background(), e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	res, err := QueryGetDashboard(context.Background(), GetDashboardQuery{Now: testNow}, GetDashboardDeps{
		Source: s.backend, Registry: table.DefaultRegistry(), Activity: activity,
	})
	if err != nil {
		t.Fatalf("QueryGetDashboard: %v", err)
	}
	if len(res.Activity) != dashboardActivity {
		t.Fatalf("Activity = %d events, want %d", len(res.Activity), dashboardActivity)
	}
	if res.Activity[0].ResourceID != "12" {
		t.Errorf("first activity = %+v, want the newest", res.Activity[0])
	}
}

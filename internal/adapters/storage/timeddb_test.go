package storage

import (
	"errors"
	"testing"
	"time"

	"ascend/internal/adapters/http/perf"
)

// TestStatementLabel verifies statements are grouped by verb and table.
func TestStatementLabel(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT * FROM `events` WHERE `status`=?", "SELECT events"},
		{"select id from \"blog_posts\" order by id", "SELECT blog_posts"},
		{"INSERT INTO `newsletter_subscriptions` (`email`) VALUES (?) RETURNING *", "INSERT newsletter_subscriptions"},
		{"UPDATE \"events\" SET \"title\"=$1 WHERE \"id\"=$2", "UPDATE events"},
		{"DELETE FROM `contact_inquiries` WHERE `id` IN (?, ?)", "DELETE contact_inquiries"},
		{"PRAGMA journal_mode", "PRAGMA"},
		{"", "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := statementLabel(tt.sql); got != tt.want {
			t.Errorf("statementLabel(%q) = %q, want %q", tt.sql, got, tt.want)
		}
	}
}

// TestQueryTimer_RecordsToCollector verifies every statement, failed or not, is recorded.
func TestQueryTimer_RecordsToCollector(t *testing.T) {
	collector := perf.NewCollector(10)
	timer := NewQueryTimer(collector)

	timer.record("SELECT * FROM events", 3*time.Millisecond, nil)
	timer.record("DELETE FROM events WHERE id=1", time.Millisecond, errors.New("locked"))

	if collector.TotalRecorded() != 2 {
		t.Fatalf("TotalRecorded = %d, want 2", collector.TotalRecorded())
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestQueries) != 2 {
		t.Fatalf("SlowestQueries = %v, want 2 entries", snap.SlowestQueries)
	}
	if snap.SlowestQueries[0].Path != "SELECT events" {
		t.Errorf("slowest = %q, want SELECT events", snap.SlowestQueries[0].Path)
	}
	if snap.FailedQueries != 1 {
		t.Errorf("FailedQueries = %d, want 1", snap.FailedQueries)
	}
}

// TestQueryTimer_NilCollector verifies a timer without a collector only logs.
func TestQueryTimer_NilCollector(t *testing.T) {
	timer := NewQueryTimer(nil)
	timer.record("SELECT 1", time.Millisecond, nil)
}

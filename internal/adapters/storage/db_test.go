package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"ascend/internal/adapters/http/perf"
	"ascend/internal/adapters/remote"
)

// openTestDB creates a migrated SQLite database in a temp dir for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(DialectSQLite, SQLiteDSN(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db, DialectSQLite); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' AND name != 'goose_db_version' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TestMigrate_CreatesAllTables verifies the schema holds every back-office table.
func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	got := getTableNames(t, db)
	want := []string{
		"admin_activity", "blog_posts", "contact_inquiries", "events", "newsletter_subscriptions",
		"pricing_plans", "registrations", "training_sessions", "users",
	}
	if len(got) != len(want) {
		t.Fatalf("tables = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("table[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestMigrate_Idempotent verifies a second run is a no-op.
func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(db, DialectSQLite); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

// TestParseDialect covers accepted spellings.
func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"sqlite", DialectSQLite, false},
		{"SQLite3", DialectSQLite, false},
		{"postgres", DialectPostgres, false},
		{"pg", DialectPostgres, false},
		{"mysql", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDialect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDialect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func newTestBackend(t *testing.T) (*SQLBackend, *perf.Collector) {
	t.Helper()
	collector := perf.NewCollector(100)
	return NewSQLBackend(openTestDB(t), DialectSQLite, collector), collector
}

// TestSQLBackend_InsertReturnsTypedRow verifies booleans and JSON lists survive a round trip.
func TestSQLBackend_InsertReturnsTypedRow(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	row, err := b.Insert(ctx, "pricing_plans", remote.Row{
		"name":       "Growth",
		"price":      json.Number("49"),
		"features":   []any{"Weekly coaching", "Community"},
		"is_popular": true,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if row["id"] != int64(1) {
		t.Errorf("id = %#v, want int64(1)", row["id"])
	}
	if row["is_popular"] != true {
		t.Errorf("is_popular = %#v, want true", row["is_popular"])
	}
	features, ok := row["features"].([]any)
	if !ok || len(features) != 2 || features[0] != "Weekly coaching" {
		t.Errorf("features = %#v, want decoded list", row["features"])
	}
	if row["currency"] != "USD" {
		t.Errorf("currency default = %#v, want USD", row["currency"])
	}
}

// TestSQLBackend_SelectOrderAndFilter verifies descending order and equality filters.
func TestSQLBackend_SelectOrderAndFilter(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	for _, status := range []string{"published", "draft", "published"} {
		if _, err := b.Insert(ctx, "training_sessions", remote.Row{"title": "Pitch clinic", "status": status}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	rows, err := b.Select(ctx, "training_sessions", remote.Query{
		Filters:    []remote.Filter{remote.Eq("status", "published")},
		OrderBy:    "id",
		Descending: true,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0]["id"] != int64(3) || rows[1]["id"] != int64(1) {
		t.Errorf("ids = %v, %v; want 3, 1", rows[0]["id"], rows[1]["id"])
	}

	limited, err := b.Select(ctx, "training_sessions", remote.Query{OrderBy: "id", Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("Select limited: %v", err)
	}
	if len(limited) != 1 || limited[0]["id"] != int64(2) {
		t.Errorf("limited = %v, want only id 2", limited)
	}
}

// TestSQLBackend_GteFilter verifies range filters on RFC 3339 text dates.
func TestSQLBackend_GteFilter(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()
	past := time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)
	future := time.Date(2030, 1, 10, 18, 0, 0, 0, time.UTC)

	for _, d := range []time.Time{past, future} {
		if _, err := b.Insert(ctx, "events", remote.Row{"title": "Founders night", "event_date": d}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	rows, err := b.Select(ctx, "events", remote.Query{
		Filters: []remote.Filter{remote.Gte("event_date", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))},
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 1 || rows[0]["event_date"] != "2030-01-10T18:00:00Z" {
		t.Errorf("rows = %v, want only the 2030 event", rows)
	}
}

// TestSQLBackend_DeleteIn verifies a batched delete removes exactly the given ids.
func TestSQLBackend_DeleteIn(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		if _, err := b.Insert(ctx, "newsletter_subscriptions", remote.Row{"email": email}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	if err := b.Delete(ctx, "newsletter_subscriptions", remote.In("id", int64(1), int64(3))); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	rows, err := b.Select(ctx, "newsletter_subscriptions", remote.Query{})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 1 || rows[0]["email"] != "b@x.com" {
		t.Errorf("remaining = %v, want only b@x.com", rows)
	}
}

// TestSQLBackend_UpdateReturnsRows verifies update by id returns the new values.
func TestSQLBackend_UpdateReturnsRows(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	if _, err := b.Insert(ctx, "blog_posts", remote.Row{"title": "Draft", "published": false}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rows, err := b.Update(ctx, "blog_posts", remote.Row{"published": true, "title": "Live"}, remote.Eq("id", int64(1)))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(rows) != 1 || rows[0]["published"] != true || rows[0]["title"] != "Live" {
		t.Errorf("rows = %v, want published Live", rows)
	}

	none, err := b.Update(ctx, "blog_posts", remote.Row{"title": "x"}, remote.Eq("id", int64(99)))
	if err != nil {
		t.Fatalf("Update missing: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("len(none) = %d, want 0", len(none))
	}
}

// TestSQLBackend_RejectsUnsafeInput verifies guards fire before any SQL runs.
func TestSQLBackend_RejectsUnsafeInput(t *testing.T) {
	b, collector := newTestBackend(t)
	ctx := context.Background()
	before := collector.TotalRecorded()

	if err := b.Delete(ctx, "events"); !errors.Is(err, remote.ErrUnfilteredMutation) {
		t.Errorf("Delete without filter = %v, want ErrUnfilteredMutation", err)
	}
	if _, err := b.Select(ctx, "events; DROP TABLE users", remote.Query{}); !errors.Is(err, remote.ErrInvalidIdentifier) {
		t.Errorf("Select bad table = %v, want ErrInvalidIdentifier", err)
	}
	if _, err := b.Insert(ctx, "events", remote.Row{"title) VALUES ('x'); --": "y"}); !errors.Is(err, remote.ErrInvalidIdentifier) {
		t.Errorf("Insert bad column = %v, want ErrInvalidIdentifier", err)
	}
	if collector.TotalRecorded() != before {
		t.Errorf("statements recorded = %d, want %d", collector.TotalRecorded(), before)
	}
}

// TestSQLBackend_RecordsStatements verifies query timing feeds the collector.
func TestSQLBackend_RecordsStatements(t *testing.T) {
	b, collector := newTestBackend(t)

	if _, err := b.Select(context.Background(), "events", remote.Query{}); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if collector.TotalRecorded() == 0 {
		t.Fatal("TotalRecorded = 0, want at least one statement")
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 5)
	found := false
	for _, q := range snap.SlowestQueries {
		if q.Path == "SELECT events" {
			found = true
		}
	}
	if !found {
		t.Errorf("SlowestQueries = %v, want an entry for SELECT events", snap.SlowestQueries)
	}
}

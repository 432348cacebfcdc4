package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pocketbase/dbx"

	"ascend/internal/adapters/http/perf"
)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

var slowQueryMs int64
var slowQueryOnce sync.Once

// getSlowQueryThreshold returns the slow-query threshold in milliseconds.
func getSlowQueryThreshold() float64 {
	slowQueryOnce.Do(func() {
		ms := DefaultSlowQueryMs
		if v := os.Getenv("ASCEND_SLOW_QUERY_MS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				ms = n
			}
		}
		atomic.StoreInt64(&slowQueryMs, int64(ms))
	})
	return float64(atomic.LoadInt64(&slowQueryMs))
}

// QueryTimer logs slow statements and records every statement to a collector.
// It hooks into dbx's query and exec callbacks, so every builder call is timed.
type QueryTimer struct {
	collector *perf.Collector
	threshold float64
}

// NewQueryTimer creates a timer feeding collector (which may be nil).
// PRE: none
// POST: Returns a timer using ASCEND_SLOW_QUERY_MS as the warn threshold
func NewQueryTimer(collector *perf.Collector) *QueryTimer {
	return &QueryTimer{
		collector: collector,
		threshold: getSlowQueryThreshold(),
	}
}

// Attach installs the timer's hooks on db.
// PRE: db is not nil
// POST: Every subsequent query and exec on db is timed
func (t *QueryTimer) Attach(db *dbx.DB) {
	db.QueryLogFunc = func(ctx context.Context, d time.Duration, sqlText string, rows *sql.Rows, err error) {
		t.record(sqlText, d, err)
	}
	db.ExecLogFunc = func(ctx context.Context, d time.Duration, sqlText string, result sql.Result, err error) {
		t.record(sqlText, d, err)
	}
}

// record logs and optionally records a statement timing.
func (t *QueryTimer) record(sqlText string, d time.Duration, err error) {
	op := statementLabel(sqlText)
	durationMs := float64(d.Microseconds()) / 1000.0

	switch {
	case err != nil:
		slog.Warn("query_failed", "op", op, "duration_ms", durationMs, "error", err)
	case durationMs >= t.threshold:
		slog.Warn("slow_query", "op", op, "duration_ms", durationMs)
	default:
		slog.Debug("query", "op", op, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       op,
			Failed:     err != nil,
			DurationMs: durationMs,
			Timestamp:  time.Now().Add(-d),
		})
	}
}

// statementLabel reduces a SQL statement to "VERB table" so the dashboard
// groups executions of the same statement shape.
func statementLabel(sqlText string) string {
	fields := strings.Fields(sqlText)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	verb := strings.ToUpper(fields[0])
	var marker string
	switch verb {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT":
		marker = "INTO"
	case "UPDATE":
		if len(fields) > 1 {
			return verb + " " + cleanIdent(fields[1])
		}
		return verb
	default:
		return verb
	}
	for i, f := range fields {
		if strings.EqualFold(f, marker) && i+1 < len(fields) {
			return verb + " " + cleanIdent(fields[i+1])
		}
	}
	return verb
}

func cleanIdent(s string) string {
	return strings.Trim(s, "\"`[](),;")
}

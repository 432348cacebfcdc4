package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pocketbase/dbx"

	"ascend/internal/adapters/http/perf"
	"ascend/internal/adapters/remote"
)

// SQLBackend serves the remote.Backend contract from a local SQLite or Postgres
// database, so the site runs without the hosted store.
type SQLBackend struct {
	db      *dbx.DB
	dialect Dialect
}

// Compile-time check that *SQLBackend satisfies remote.Backend.
var _ remote.Backend = (*SQLBackend)(nil)

// NewSQLBackend wraps db with the dbx builder and query timing.
// PRE: db is open and migrated
// POST: Returns a backend whose statements feed collector (if non-nil)
func NewSQLBackend(db *sql.DB, dialect Dialect, collector *perf.Collector) *SQLBackend {
	xdb := dbx.NewFromDB(db, dialect.driverName())
	NewQueryTimer(collector).Attach(xdb)
	return &SQLBackend{db: xdb, dialect: dialect}
}

// Select fetches rows from table.
// PRE: table and every filter column are valid identifiers
// POST: Returns matching rows; never nil on success
func (b *SQLBackend) Select(ctx context.Context, table string, q remote.Query) ([]remote.Row, error) {
	if !remote.ValidIdentifier(table) {
		return nil, fmt.Errorf("%w: %q", remote.ErrInvalidIdentifier, table)
	}
	sq := b.db.Select().From(table)
	if len(q.Filters) > 0 {
		where, err := whereExpression(q.Filters)
		if err != nil {
			return nil, err
		}
		sq = sq.Where(where)
	}
	if q.OrderBy != "" {
		if !remote.ValidIdentifier(q.OrderBy) {
			return nil, fmt.Errorf("%w: %q", remote.ErrInvalidIdentifier, q.OrderBy)
		}
		dir := " ASC"
		if q.Descending {
			dir = " DESC"
		}
		sq = sq.OrderBy(q.OrderBy + dir)
	}
	if q.Limit > 0 {
		sq = sq.Limit(int64(q.Limit))
	}
	if q.Offset > 0 {
		sq = sq.Offset(int64(q.Offset))
	}

	rows, err := sq.Build().WithContext(ctx).Rows()
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return collectRows(rows)
}

// Insert creates one row and returns it as stored.
// PRE: table and column names are valid identifiers
// POST: Returns the created row including generated id and defaults
func (b *SQLBackend) Insert(ctx context.Context, table string, values remote.Row) (remote.Row, error) {
	if !remote.ValidIdentifier(table) {
		return nil, fmt.Errorf("%w: %q", remote.ErrInvalidIdentifier, table)
	}
	cols, err := sortedColumns(values)
	if err != nil {
		return nil, err
	}

	params := dbx.Params{}
	var stmt string
	if len(cols) == 0 {
		stmt = fmt.Sprintf("INSERT INTO {{%s}} DEFAULT VALUES RETURNING *", table)
	} else {
		names := make([]string, len(cols))
		placeholders := make([]string, len(cols))
		for i, c := range cols {
			key := fmt.Sprintf("v%d", i)
			names[i] = "[[" + c + "]]"
			placeholders[i] = "{:" + key + "}"
			params[key] = normalizeParam(values[c])
		}
		stmt = fmt.Sprintf("INSERT INTO {{%s}} (%s) VALUES (%s) RETURNING *",
			table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	}

	rows, err := b.db.NewQuery(stmt).Bind(params).WithContext(ctx).Rows()
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}
	out, err := b.returned(ctx, table, rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", table)
	}
	return out[0], nil
}

// Update sets values on every row matching filters and returns the updated rows.
// PRE: at least one filter
// POST: Returns updated rows; empty slice when nothing matched
func (b *SQLBackend) Update(ctx context.Context, table string, values remote.Row, filters ...remote.Filter) ([]remote.Row, error) {
	if len(filters) == 0 {
		return nil, remote.ErrUnfilteredMutation
	}
	if !remote.ValidIdentifier(table) {
		return nil, fmt.Errorf("%w: %q", remote.ErrInvalidIdentifier, table)
	}
	cols, err := sortedColumns(values)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("update %s: no columns to set", table)
	}
	where, err := whereExpression(filters)
	if err != nil {
		return nil, err
	}

	params := dbx.Params{}
	sets := make([]string, len(cols))
	for i, c := range cols {
		key := fmt.Sprintf("v%d", i)
		sets[i] = "[[" + c + "]]={:" + key + "}"
		params[key] = normalizeParam(values[c])
	}
	whereSQL := where.Build(b.db, params)
	stmt := fmt.Sprintf("UPDATE {{%s}} SET %s WHERE %s RETURNING *", table, strings.Join(sets, ", "), whereSQL)

	rows, err := b.db.NewQuery(stmt).Bind(params).WithContext(ctx).Rows()
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	return b.returned(ctx, table, rows)
}

// returned collects RETURNING rows. SQLite reports no declared column types for
// RETURNING results, so booleans and JSON would come back raw; those rows are
// re-read by id through Select.
func (b *SQLBackend) returned(ctx context.Context, table string, rows *dbx.Rows) ([]remote.Row, error) {
	out, err := collectRows(rows)
	if err != nil || b.dialect != DialectSQLite || len(out) == 0 {
		return out, err
	}
	ids := make([]any, 0, len(out))
	for _, row := range out {
		id, ok := row["id"]
		if !ok {
			return out, nil
		}
		ids = append(ids, id)
	}
	return b.Select(ctx, table, remote.Query{
		Filters: []remote.Filter{remote.In("id", ids...)},
		OrderBy: "id",
	})
}

// Delete removes every row matching filters in one statement.
// PRE: at least one filter
// POST: Matching rows removed
func (b *SQLBackend) Delete(ctx context.Context, table string, filters ...remote.Filter) error {
	if len(filters) == 0 {
		return remote.ErrUnfilteredMutation
	}
	if !remote.ValidIdentifier(table) {
		return fmt.Errorf("%w: %q", remote.ErrInvalidIdentifier, table)
	}
	where, err := whereExpression(filters)
	if err != nil {
		return err
	}
	if _, err := b.db.Delete(table, where).WithContext(ctx).Execute(); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

// whereExpression converts filters into one AND-ed dbx expression.
func whereExpression(filters []remote.Filter) (dbx.Expression, error) {
	exprs := make([]dbx.Expression, 0, len(filters))
	for i, f := range filters {
		if !remote.ValidIdentifier(f.Column) {
			return nil, fmt.Errorf("%w: %q", remote.ErrInvalidIdentifier, f.Column)
		}
		switch f.Op {
		case remote.OpEq:
			exprs = append(exprs, dbx.HashExp{f.Column: normalizeParam(f.Value)})
		case remote.OpNeq:
			exprs = append(exprs, dbx.Not(dbx.HashExp{f.Column: normalizeParam(f.Value)}))
		case remote.OpIn:
			values, _ := f.Value.([]any)
			normalized := make([]any, len(values))
			for j, v := range values {
				normalized[j] = normalizeParam(v)
			}
			exprs = append(exprs, dbx.In(f.Column, normalized...))
		case remote.OpGte, remote.OpLte:
			op := ">="
			if f.Op == remote.OpLte {
				op = "<="
			}
			key := fmt.Sprintf("f%d", i)
			exprs = append(exprs, dbx.NewExp("[["+f.Column+"]] "+op+" {:"+key+"}", dbx.Params{key: normalizeParam(f.Value)}))
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}
	return dbx.And(exprs...), nil
}

func sortedColumns(values remote.Row) ([]string, error) {
	cols := make([]string, 0, len(values))
	for c := range values {
		if !remote.ValidIdentifier(c) {
			return nil, fmt.Errorf("%w: %q", remote.ErrInvalidIdentifier, c)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols, nil
}

// normalizeParam maps row values onto driver-friendly parameters.
// Lists and objects are stored as JSON text; times as RFC 3339 UTC.
func normalizeParam(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case []any, []string, map[string]any, map[string]string:
		buf, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(buf)
	default:
		return v
	}
}

// collectRows scans every row into a map keyed by column name and closes rows.
func collectRows(rows *dbx.Rows) ([]remote.Row, error) {
	defer rows.Close()
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	out := []remote.Row{}
	for rows.Next() {
		values := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(remote.Row, len(types))
		for i, ct := range types {
			row[ct.Name()] = normalizeColumn(ct.DatabaseTypeName(), values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// normalizeColumn converts a scanned value using the column's declared type, so both
// engines yield the shapes the hosted store returns: booleans, decoded JSON, plain strings.
func normalizeColumn(dbType string, v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	dbType = strings.ToUpper(dbType)
	switch {
	case strings.Contains(dbType, "BOOL"):
		switch x := v.(type) {
		case int64:
			return x != 0
		case string:
			return x == "1" || x == "t" || x == "true"
		}
	case dbType == "JSON" || dbType == "JSONB":
		if s, ok := v.(string); ok {
			dec := json.NewDecoder(bytes.NewReader([]byte(s)))
			dec.UseNumber()
			var decoded any
			if err := dec.Decode(&decoded); err == nil {
				return decoded
			}
		}
	case dbType == "NUMERIC" || dbType == "DECIMAL":
		if s, ok := v.(string); ok {
			return json.Number(s)
		}
	}
	return v
}

package datatable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ascend/internal/adapters/remote"
	"ascend/internal/domain/table"
)

// State is the viewer's fetch lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

var (
	ErrNotConfirmed    = errors.New("deletion was not confirmed")
	ErrNothingSelected = errors.New("no rows selected")
	ErrNotReady        = errors.New("table has not been loaded")
)

// Source is the subset of remote.Backend the viewer reads and deletes through.
type Source interface {
	Select(ctx context.Context, table string, q remote.Query) ([]remote.Row, error)
	Delete(ctx context.Context, table string, filters ...remote.Filter) error
}

// Viewer lists one table and runs the back-office row actions against it.
// INVARIANT: rows is only replaced by a completed fetch; a failed fetch clears it.
type Viewer struct {
	table     string
	schema    *table.Schema
	source    Source
	loc       *time.Location
	state     State
	rows      []remote.Row
	err       error
	Selection *Selection
}

// NewViewer creates an idle viewer for name. schema may be nil for unregistered tables.
// PRE: name is a valid identifier
// POST: Returns a viewer in StateIdle with an empty selection
func NewViewer(source Source, name string, schema *table.Schema, loc *time.Location) *Viewer {
	if loc == nil {
		loc = time.UTC
	}
	return &Viewer{
		table:     name,
		schema:    schema,
		source:    source,
		loc:       loc,
		state:     StateIdle,
		Selection: NewSelection(),
	}
}

// Table returns the table name.
func (v *Viewer) Table() string { return v.table }

// State returns the current fetch state.
func (v *Viewer) State() State { return v.state }

// Err returns the error of the last failed fetch.
func (v *Viewer) Err() error { return v.err }

// Rows returns the rows of the last successful fetch.
func (v *Viewer) Rows() []remote.Row { return v.rows }

// Load fetches every row, newest id first.
// PRE: none
// POST: State is StateReady with rows replaced, or StateFailed with Err set
func (v *Viewer) Load(ctx context.Context) error {
	v.state = StateLoading
	rows, err := v.source.Select(ctx, v.table, remote.Query{OrderBy: table.IDColumn, Descending: true})
	if err != nil {
		v.state = StateFailed
		v.rows = nil
		v.err = fmt.Errorf("load %s: %w", v.table, err)
		slog.Error("table_load_failed", "table", v.table, "error", err)
		return v.err
	}
	v.rows = rows
	v.err = nil
	v.state = StateReady
	return nil
}

// Columns returns the registered schema's columns, or the first row's keys when the
// table is unregistered. An unregistered empty table has no columns.
func (v *Viewer) Columns() []string {
	if v.schema != nil && len(v.schema.Columns) > 0 {
		return v.schema.ColumnNames()
	}
	if len(v.rows) == 0 {
		return nil
	}
	return table.IntrospectColumns(v.rows[0])
}

// Cell is one formatted value.
type Cell struct {
	Column string
	Text   string
}

// ViewRow is one displayed row.
type ViewRow struct {
	ID       string
	Cells    []Cell
	Selected bool
}

// View is a rendered search result.
// INVARIANT: len(Rows) == Filtered
type View struct {
	Table    string
	State    State
	Err      error
	Query    string
	Columns  []string
	Rows     []ViewRow
	Total    int
	Filtered int
	Selected int
}

// Search formats the rows matching query.
// PRE: none (a viewer that is not ready yields an empty view carrying its state)
// POST: View.Filtered == len(View.Rows) and View.Total == len(Rows())
func (v *Viewer) Search(query string) View {
	view := View{Table: v.table, State: v.state, Err: v.err, Query: query, Columns: v.Columns()}
	matched := v.filtered(query)
	view.Total = len(v.rows)
	view.Filtered = len(matched)
	view.Rows = make([]ViewRow, len(matched))
	for i, row := range matched {
		id := RowID(row)
		cells := make([]Cell, len(view.Columns))
		for j, col := range view.Columns {
			cells[j] = Cell{Column: col, Text: FormatValue(col, row[col], v.loc)}
		}
		view.Rows[i] = ViewRow{ID: id, Cells: cells, Selected: v.Selection.Has(id)}
	}
	view.Selected = v.Selection.Len()
	return view
}

func (v *Viewer) filtered(query string) []remote.Row {
	if v.state != StateReady {
		return nil
	}
	return Search(v.rows, query)
}

// DeleteRow removes one row after confirmation, then refetches.
// PRE: confirmed is the user's answer to the confirmation prompt
// POST: On success the row is gone remotely and the viewer reflects the refetched table
func (v *Viewer) DeleteRow(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if id == "" {
		return ErrNothingSelected
	}
	if err := v.source.Delete(ctx, v.table, remote.Eq(table.IDColumn, remote.ParseID(id))); err != nil {
		return fmt.Errorf("delete %s/%s: %w", v.table, id, err)
	}
	slog.Info("table_event", "event", "row_deleted", "table", v.table, "id", id)
	return v.Load(ctx)
}

// DeleteSelected removes every selected row with one batched delete, then refetches.
// PRE: confirmed is the user's answer to the single confirmation prompt
// POST: On success the selection is empty and the viewer reflects the refetched table
func (v *Viewer) DeleteSelected(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	ids := v.Selection.IDs()
	if len(ids) == 0 {
		return ErrNothingSelected
	}
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = remote.ParseID(id)
	}
	if err := v.source.Delete(ctx, v.table, remote.In(table.IDColumn, values...)); err != nil {
		return fmt.Errorf("bulk delete %s: %w", v.table, err)
	}
	slog.Info("table_event", "event", "rows_deleted", "table", v.table, "count", len(ids))
	v.Selection.Clear()
	return v.Load(ctx)
}

// Export renders the selected rows as CSV, or every row matching query when nothing is selected.
// PRE: the viewer is ready
// POST: Returns CSV text with the viewer's columns as header
func (v *Viewer) Export(query string) ([]byte, error) {
	if v.state != StateReady {
		return nil, ErrNotReady
	}
	rows := v.filtered(query)
	if v.Selection.Len() > 0 {
		picked := make([]remote.Row, 0, v.Selection.Len())
		for _, row := range v.rows {
			if v.Selection.Has(RowID(row)) {
				picked = append(picked, row)
			}
		}
		rows = picked
	}
	return ExportCSV(v.Columns(), rows), nil
}

// RowID returns the string form of a row's identifier.
func RowID(row remote.Row) string {
	return scalarString(row[table.IDColumn])
}

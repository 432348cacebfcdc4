package projections

import (
	"context"
	"fmt"
	"time"

	"ascend/internal/application/datatable"
	"ascend/internal/domain/table"
)

// GetTableViewQuery carries query parameters.
type GetTableViewQuery struct {
	Table    string
	Search   string
	Selected []string // ids to keep checked after a failed bulk action
}

// GetTableViewDeps holds dependencies for the data-table projections.
type GetTableViewDeps struct {
	Source   datatable.Source
	Registry *table.Registry
	Location *time.Location
}

// GetTableViewResult carries one rendered data-table.
type GetTableViewResult struct {
	Schema table.Schema
	View   datatable.View
}

// QueryGetTableView fetches a registered table and applies the search.
// PRE: none
// POST: Returns ErrUnknownTable for unregistered names; a failed fetch is reported in View.State and View.Err
func QueryGetTableView(ctx context.Context, query GetTableViewQuery, deps GetTableViewDeps) (GetTableViewResult, error) {
	schema, ok := deps.Registry.Lookup(query.Table)
	if !ok {
		return GetTableViewResult{}, fmt.Errorf("%w: %s", table.ErrUnknownTable, query.Table)
	}
	v := datatable.NewViewer(deps.Source, query.Table, &schema, deps.Location)
	_ = v.Load(ctx) // failure is carried by the view
	v.Selection = datatable.NewSelection(query.Selected...)
	return GetTableViewResult{Schema: schema, View: v.Search(query.Search)}, nil
}

// ExportTableQuery carries an export request.
type ExportTableQuery struct {
	Table  string
	Search string
	IDs    []string // selected rows; empty exports every row matching Search
}

// ExportTableDeps holds dependencies for ExportTable.
type ExportTableDeps struct {
	Source   datatable.Source
	Registry *table.Registry
	Now      time.Time
}

// ExportTableResult is a CSV download.
type ExportTableResult struct {
	Filename string
	Data     []byte
}

// QueryExportTable renders the selected rows, or the filtered rows, of a registered table as CSV.
// PRE: none
// POST: Returns the CSV and its <table>-<date>.csv filename, or the fetch error
func QueryExportTable(ctx context.Context, query ExportTableQuery, deps ExportTableDeps) (ExportTableResult, error) {
	schema, ok := deps.Registry.Lookup(query.Table)
	if !ok {
		return ExportTableResult{}, fmt.Errorf("%w: %s", table.ErrUnknownTable, query.Table)
	}
	v := datatable.NewViewer(deps.Source, query.Table, &schema, time.UTC)
	if err := v.Load(ctx); err != nil {
		return ExportTableResult{}, err
	}
	v.Selection = datatable.NewSelection(query.IDs...)
	data, err := v.Export(query.Search)
	if err != nil {
		return ExportTableResult{}, err
	}
	now := deps.Now
	if now.IsZero() {
		now = time.Now()
	}
	return ExportTableResult{Filename: datatable.ExportFilename(query.Table, now), Data: data}, nil
}

package orchestrators

import (
	"context"
	"fmt"
	"time"

	"ascend/internal/application/datatable"
	"ascend/internal/domain/table"
)

// DeleteRowsInput carries a single or bulk delete from the data-table.
type DeleteRowsInput struct {
	Table     string
	IDs       []string
	Confirmed bool
	Actor     string
}

// DeleteRowsDeps holds dependencies for DeleteRows.
type DeleteRowsDeps struct {
	Source   datatable.Source
	Registry *table.Registry
	Location *time.Location
}

// ExecuteDeleteRows deletes the given rows and returns the refetched viewer.
// One id is a single-row delete; several ids are one batched delete.
// PRE: Table is registered; Confirmed reflects the user's single confirmation
// POST: On success the rows are gone, the viewer is ready and its selection is empty
func ExecuteDeleteRows(ctx context.Context, input DeleteRowsInput, deps DeleteRowsDeps) (*datatable.Viewer, error) {
	schema, ok := deps.Registry.Lookup(input.Table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", table.ErrUnknownTable, input.Table)
	}
	v := datatable.NewViewer(deps.Source, input.Table, &schema, deps.Location)

	if len(input.IDs) == 1 {
		err := v.DeleteRow(ctx, input.IDs[0], input.Confirmed)
		return v, err
	}
	v.Selection = datatable.NewSelection(input.IDs...)
	return v, v.DeleteSelected(ctx, input.Confirmed)
}

package remote

import (
	"context"
	"fmt"
)

// Table is a typed view of one backend table. T must round-trip through its json tags.
type Table[T any] struct {
	backend Backend
	name    string
}

// NewTable scopes backend to one table.
func NewTable[T any](backend Backend, name string) Table[T] {
	return Table[T]{backend: backend, name: name}
}

// Name returns the table name.
func (t Table[T]) Name() string {
	return t.name
}

// List fetches and decodes rows matching q.
// PRE: q filters reference existing columns
// POST: Returns decoded rows in backend order
func (t Table[T]) List(ctx context.Context, q Query) ([]T, error) {
	rows, err := t.backend.Select(ctx, t.name, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return DecodeAll[T](rows)
}

// First returns the first row matching filters, or ErrNotFound.
// PRE: none
// POST: Returns the decoded row or an error wrapping ErrNotFound
func (t Table[T]) First(ctx context.Context, filters ...Filter) (T, error) {
	var zero T
	rows, err := t.backend.Select(ctx, t.name, Query{Filters: filters, Limit: 1})
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", t.name, err)
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("%s: %w", t.name, ErrNotFound)
	}
	var v T
	if err := Decode(rows[0], &v); err != nil {
		return zero, err
	}
	return v, nil
}

// Get fetches one row by id.
func (t Table[T]) Get(ctx context.Context, id any) (T, error) {
	return t.First(ctx, Eq("id", id))
}

// Insert encodes v, inserts it and returns the stored row.
// Null fields are omitted so column defaults apply.
// PRE: v has no id set (omitted by its json tag)
// POST: Returns v as stored, including server-assigned columns
func (t Table[T]) Insert(ctx context.Context, v T) (T, error) {
	var zero T
	values, err := encodeWritable(v)
	if err != nil {
		return zero, err
	}
	row, err := t.backend.Insert(ctx, t.name, values)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", t.name, err)
	}
	var out T
	if err := Decode(row, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// Update writes v over the row with the given id, excluding read-only columns.
// Null fields leave the stored value unchanged.
// PRE: id > 0
// POST: Returns the updated row, or an error wrapping ErrNotFound
func (t Table[T]) Update(ctx context.Context, id any, v T, readOnly ...string) (T, error) {
	var zero T
	values, err := encodeWritable(v)
	if err != nil {
		return zero, err
	}
	for _, col := range readOnly {
		delete(values, col)
	}
	rows, err := t.backend.Update(ctx, t.name, values, Eq("id", id))
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", t.name, err)
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("%s: %w", t.name, ErrNotFound)
	}
	var out T
	if err := Decode(rows[0], &out); err != nil {
		return zero, err
	}
	return out, nil
}

// Delete removes the row with the given id.
func (t Table[T]) Delete(ctx context.Context, id any) error {
	if err := t.backend.Delete(ctx, t.name, Eq("id", id)); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return nil
}

// encodeWritable encodes v without its id and null fields.
func encodeWritable(v any) (Row, error) {
	values, err := Encode(v)
	if err != nil {
		return nil, err
	}
	delete(values, "id")
	for col, val := range values {
		if val == nil {
			delete(values, col)
		}
	}
	return values, nil
}

// Package remote is the table-scoped data client every store is built on.
// A Backend speaks to the hosted relational store (or a local stand-in), a
// Storage speaks to the object bucket, and a Client bundles the two.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Row is one record as returned by the backend, keyed by column name.
type Row = map[string]any

// Op is a filter operator.
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpIn  Op = "in"
	OpGte Op = "gte"
	OpLte Op = "lte"
)

// Filter restricts a query to rows where Column Op Value holds.
// For OpIn, Value is a []any.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq matches rows where column equals v.
func Eq(column string, v any) Filter {
	return Filter{Column: column, Op: OpEq, Value: v}
}

// Neq matches rows where column differs from v.
func Neq(column string, v any) Filter {
	return Filter{Column: column, Op: OpNeq, Value: v}
}

// In matches rows whose column is one of values.
func In(column string, values ...any) Filter {
	return Filter{Column: column, Op: OpIn, Value: values}
}

// Gte matches rows where column >= v.
func Gte(column string, v any) Filter {
	return Filter{Column: column, Op: OpGte, Value: v}
}

// Lte matches rows where column <= v.
func Lte(column string, v any) Filter {
	return Filter{Column: column, Op: OpLte, Value: v}
}

// Query describes a select. Zero values mean: all columns, no filter, backend order, no limit.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
	Offset     int
}

// Backend is the table-scoped CRUD surface of the data store.
type Backend interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	Insert(ctx context.Context, table string, values Row) (Row, error)
	Update(ctx context.Context, table string, values Row, filters ...Filter) ([]Row, error)
	Delete(ctx context.Context, table string, filters ...Filter) error
}

// Storage is the object bucket surface of the data store.
type Storage interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) error
	PublicURL(path string) string
	Remove(ctx context.Context, paths ...string) error
}

// Client is the single configured handle to the data store.
type Client struct {
	Backend
	Storage
}

// NewClient bundles a backend and a storage into one handle.
func NewClient(b Backend, s Storage) *Client {
	return &Client{Backend: b, Storage: s}
}

var (
	// ErrNotFound is returned when a single-row lookup matches nothing.
	ErrNotFound = errors.New("row not found")
	// ErrUnfilteredMutation guards against table-wide updates and deletes.
	ErrUnfilteredMutation = errors.New("update and delete require at least one filter")
	// ErrInvalidIdentifier is returned for table or column names outside [A-Za-z0-9_].
	ErrInvalidIdentifier = errors.New("invalid table or column name")
)

// Error is a non-2xx answer from the hosted backend.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Error implements error.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote store: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("remote store: %d: %s", e.Status, e.Message)
}

// ValidIdentifier reports whether name is safe to use as a table or column name.
func ValidIdentifier(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func validateFilters(filters []Filter) error {
	for _, f := range filters {
		if !ValidIdentifier(f.Column) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, f.Column)
		}
		switch f.Op {
		case OpEq, OpNeq, OpIn, OpGte, OpLte:
		default:
			return fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}
	return nil
}

// ParseID converts a form or path identifier to int64 when numeric, else returns it unchanged.
func ParseID(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

// Decode converts a row into a typed struct using its json tags.
// PRE: dst is a pointer
// POST: dst populated from matching columns; unknown columns ignored
func Decode(row Row, dst any) error {
	buf, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	if err := json.Unmarshal(buf, dst); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}

// DecodeAll converts rows into a slice of T.
func DecodeAll[T any](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var v T
		if err := Decode(row, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode converts a typed struct into a row using its json tags.
// Numbers are kept as json.Number so integer columns stay integral.
func Encode(src any) (Row, error) {
	buf, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", src, err)
	}
	var row Row
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	if err := dec.Decode(&row); err != nil {
		return nil, fmt.Errorf("decode %T: %w", src, err)
	}
	return row, nil
}

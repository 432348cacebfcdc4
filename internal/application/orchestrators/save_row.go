package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"ascend/internal/adapters/remote"
	"ascend/internal/domain/blog"
	"ascend/internal/domain/event"
	"ascend/internal/domain/inquiry"
	"ascend/internal/domain/newsletter"
	"ascend/internal/domain/pricing"
	"ascend/internal/domain/table"
	"ascend/internal/domain/training"
)

// RowWriter defines the backend interface needed by SaveRow.
type RowWriter interface {
	Insert(ctx context.Context, table string, values remote.Row) (remote.Row, error)
	Update(ctx context.Context, table string, values remote.Row, filters ...remote.Filter) ([]remote.Row, error)
}

// SaveRowInput carries an add/edit form submission. An empty ID creates a row.
type SaveRowInput struct {
	Table  string
	ID     string
	Values map[string]string
	Actor  string
}

// SaveRowDeps holds dependencies for SaveRow.
type SaveRowDeps struct {
	Backend  RowWriter
	Registry *table.Registry
	Location *time.Location
	Now      func() time.Time
}

// FieldError reports which form field failed conversion or validation.
type FieldError struct {
	Column string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Column, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Is lets callers match every field failure with ErrInvalidRow.
func (e *FieldError) Is(target error) bool { return target == ErrInvalidRow }

var (
	// ErrInvalidRow matches every submission rejected before a write.
	ErrInvalidRow    = errors.New("invalid row")
	ErrRequiredField = errors.New("is required")
	ErrInvalidNumber = errors.New("must be a number")
	ErrInvalidDate   = errors.New("must be a date and time")
	ErrInvalidJSON   = errors.New("must be a JSON object")
)

// DateTimeInputLayout is the value format of <input type="datetime-local">.
const DateTimeInputLayout = "2006-01-02T15:04"

// rowValidators check converted rows against the domain rules of each table.
var rowValidators = map[string]func(remote.Row) error{
	table.Events:                  validateRowAs[event.Event],
	table.TrainingSessions:        validateRowAs[training.Session],
	table.BlogPosts:               validateRowAs[blog.Post],
	table.PricingPlans:            validateRowAs[pricing.Plan],
	table.ContactInquiries:        validateRowAs[inquiry.Inquiry],
	table.NewsletterSubscriptions: validateRowAs[newsletter.Subscription],
}

type validatable interface {
	Validate() error
}

func validateRowAs[T validatable](row remote.Row) error {
	var v T
	if err := remote.Decode(row, &v); err != nil {
		return err
	}
	return v.Validate()
}

// ExecuteSaveRow converts form values by column kind and creates or updates the row.
// PRE: Table is registered
// POST: Returns the stored row; nothing is written when any field is invalid
func ExecuteSaveRow(ctx context.Context, input SaveRowInput, deps SaveRowDeps) (remote.Row, error) {
	schema, ok := deps.Registry.Lookup(input.Table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", table.ErrUnknownTable, input.Table)
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	editing := input.ID != ""
	values, err := ConvertFormValues(schema, input.Values, loc, editing)
	if err != nil {
		return nil, err
	}
	if input.Table == table.BlogPosts {
		normalizeBlogRow(values, editing, now())
	}
	if validate, ok := rowValidators[input.Table]; ok {
		if err := validate(values); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
		}
	}

	if !editing {
		row, err := deps.Backend.Insert(ctx, input.Table, values)
		if err != nil {
			return nil, err
		}
		slog.Info("admin_event", "event", "row_created", "table", input.Table, "id", row[table.IDColumn], "actor", input.Actor)
		return row, nil
	}

	rows, err := deps.Backend.Update(ctx, input.Table, values, remote.Eq(table.IDColumn, remote.ParseID(input.ID)))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", input.Table, input.ID, remote.ErrNotFound)
	}
	slog.Info("admin_event", "event", "row_updated", "table", input.Table, "id", input.ID, "actor", input.Actor)
	return rows[0], nil
}

// ConvertFormValues turns submitted strings into typed row values for every editable column.
// A blank optional field is left out on create so the column default applies. On edit it
// clears the column: text becomes "", numbers become 0 (NULL when Nullable), datetimes NULL.
// Checkboxes, lists and objects always carry a value.
// PRE: schema is registered
// POST: Returns the row to write, or a *FieldError for the first bad field
func ConvertFormValues(schema table.Schema, form map[string]string, loc *time.Location, editing bool) (remote.Row, error) {
	row := remote.Row{}
	for _, col := range schema.Editable() {
		raw := form[col.Name]
		if col.Kind != table.KindLongText {
			raw = strings.TrimSpace(raw)
		}
		blank := strings.TrimSpace(raw) == ""
		if col.Required && blank {
			return nil, &FieldError{Column: col.Label, Err: ErrRequiredField}
		}
		if blank && hasEmptyState(col.Kind) {
			if editing {
				row[col.Name] = clearedValue(col)
			}
			continue
		}
		v, err := convertValue(col.Kind, raw, loc)
		if err != nil {
			return nil, &FieldError{Column: col.Label, Err: err}
		}
		row[col.Name] = v
	}
	return row, nil
}

// hasEmptyState reports whether a blank input means "no value" for kind.
// Checkboxes, lists and objects convert blank input to false, [] and {}.
func hasEmptyState(kind table.Kind) bool {
	switch kind {
	case table.KindBool, table.KindList, table.KindJSON:
		return false
	}
	return true
}

// clearedValue is what an edit stores for a field the admin emptied.
func clearedValue(col table.Column) any {
	switch {
	case col.Nullable, col.Kind == table.KindDateTime:
		return nil
	case col.Kind == table.KindNumber:
		return json.Number("0")
	default:
		return ""
	}
}

func convertValue(kind table.Kind, raw string, loc *time.Location) (any, error) {
	switch kind {
	case table.KindBool:
		switch strings.ToLower(raw) {
		case "on", "true", "1", "yes":
			return true, nil
		}
		return false, nil
	case table.KindNumber:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return nil, ErrInvalidNumber
		}
		return json.Number(raw), nil
	case table.KindDateTime:
		if t, err := time.ParseInLocation(DateTimeInputLayout, raw, loc); err == nil {
			return t.UTC(), nil
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC(), nil
		}
		return nil, ErrInvalidDate
	case table.KindList:
		items := []string{}
		for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == ',' }) {
			if s := strings.TrimSpace(part); s != "" {
				items = append(items, s)
			}
		}
		return items, nil
	case table.KindJSON:
		if raw == "" {
			return map[string]any{}, nil
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, ErrInvalidJSON
		}
		return obj, nil
	default:
		return raw, nil
	}
}

// normalizeBlogRow derives slug and read time, and stamps updated_at on edits.
func normalizeBlogRow(row remote.Row, editing bool, now time.Time) {
	title, _ := row["title"].(string)
	if slug, _ := row["slug"].(string); slug == "" {
		row["slug"] = blog.Slugify(title)
	}
	content, _ := row["content"].(string)
	if readTime, _ := row["read_time"].(json.Number); (readTime == "" || readTime == "0") && strings.TrimSpace(content) != "" {
		row["read_time"] = blog.ReadTimeFor(content)
	}
	if editing {
		row["updated_at"] = now.UTC()
	}
}

// FormValuesFromRow renders a stored row as the strings an edit form submits, so that
// ConvertFormValues(schema, FormValuesFromRow(schema, row, loc), loc, true) reproduces row.
// PRE: row came from the backend for schema's table
// POST: Returns one value per editable column; missing columns are blank
func FormValuesFromRow(schema table.Schema, row remote.Row, loc *time.Location) map[string]string {
	if loc == nil {
		loc = time.UTC
	}
	values := make(map[string]string, len(schema.Columns))
	for _, col := range schema.Editable() {
		v, ok := row[col.Name]
		if !ok || v == nil {
			values[col.Name] = ""
			continue
		}
		values[col.Name] = formValue(col.Kind, v, loc)
	}
	return values
}

func formValue(kind table.Kind, v any, loc *time.Location) string {
	switch kind {
	case table.KindBool:
		if b, ok := v.(bool); ok && b {
			return "true"
		}
		return ""
	case table.KindDateTime:
		switch t := v.(type) {
		case time.Time:
			return t.In(loc).Format(DateTimeInputLayout)
		case string:
			if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
				return parsed.In(loc).Format(DateTimeInputLayout)
			}
			return t
		}
	case table.KindList:
		switch items := v.(type) {
		case []any:
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, fmt.Sprint(item))
			}
			return strings.Join(parts, "\n")
		case []string:
			return strings.Join(items, "\n")
		}
	case table.KindJSON:
		if s, ok := v.(string); ok {
			return s
		}
		buf, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(buf)
	}
	return fmt.Sprint(v)
}

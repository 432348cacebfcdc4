// Package datatable implements the back-office's generic table viewer: column
// resolution, search, value formatting, row selection and CSV export for any
// table in the remote store.
package datatable

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Placeholder is shown for null values.
const Placeholder = "-"

// DateTimeLayout renders date/time columns.
const DateTimeLayout = "Jan 2, 2006, 3:04:05 PM"

// FormatValue renders one cell for display. Rules apply in order: nil, bool,
// list, object, date/time column, price/amount column, plain string.
// PRE: loc is non-nil
// POST: Returns a display string; never empty for non-nil input unless the value itself is ""
func FormatValue(column string, v any, loc *time.Location) string {
	switch x := v.(type) {
	case nil:
		return Placeholder
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = scalarString(item)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(x, ", ")
	case map[string]any, map[string]string:
		return jsonText(x)
	}

	name := strings.ToLower(column)
	if strings.Contains(name, "date") || strings.Contains(name, "time") {
		if t, ok := asTime(v); ok {
			return t.In(loc).Format(DateTimeLayout)
		}
		if s, ok := v.(string); ok {
			return s
		}
	}
	if strings.Contains(name, "price") || strings.Contains(name, "amount") {
		return "$" + scalarString(v)
	}
	return scalarString(v)
}

// asTime accepts time values and RFC 3339 text. Numbers are never dates.
func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// scalarString is the plain string form of a scalar value.
func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case map[string]any, map[string]string, []any, []string:
		return jsonText(x)
	default:
		return fmt.Sprint(x)
	}
}

func jsonText(v any) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(buf)
}

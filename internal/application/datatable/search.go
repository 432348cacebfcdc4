package datatable

import (
	"strings"

	"ascend/internal/adapters/remote"
)

// Search keeps rows where any column value contains query, ignoring case.
// An empty query keeps every row.
// PRE: none
// POST: Returns a subset of rows in their original order; O(rows x columns)
func Search(rows []remote.Row, query string) []remote.Row {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := make([]remote.Row, 0, len(rows))
	for _, row := range rows {
		if rowMatches(row, q) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row remote.Row, lowered string) bool {
	for _, v := range row {
		if v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(searchString(v)), lowered) {
			return true
		}
	}
	return false
}

// searchString joins lists with commas so "a,b" style queries behave like the export.
func searchString(v any) string {
	switch x := v.(type) {
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = scalarString(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(x, ",")
	default:
		return scalarString(v)
	}
}

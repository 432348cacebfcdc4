package datatable

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"ascend/internal/adapters/remote"
)

// WriteCSV writes rows as comma-separated text with a header line.
//
// Only string values containing a comma are quoted. Embedded quotes and newlines
// are written as-is, so such files do not round-trip through a standard CSV reader.
// Lists are joined with "," and objects are written as JSON text.
// PRE: columns is non-empty
// POST: Writes len(rows)+1 lines separated by "\n"
func WriteCSV(w io.Writer, columns []string, rows []remote.Row) error {
	if _, err := io.WriteString(w, strings.Join(columns, ",")+"\n"); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = csvCell(row[col])
		}
		if _, err := io.WriteString(w, strings.Join(cells, ",")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ExportCSV renders rows to a byte slice.
func ExportCSV(columns []string, rows []remote.Row) []byte {
	var buf bytes.Buffer
	_ = WriteCSV(&buf, columns, rows)
	return buf.Bytes()
}

// ExportFilename names a download, e.g. "events-2026-03-08.csv".
func ExportFilename(table string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", table, now.Format("2006-01-02"))
}

func csvCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if strings.Contains(x, ",") {
			return `"` + x + `"`
		}
		return x
	case []any, []string:
		return searchString(x)
	default:
		return scalarString(x)
	}
}

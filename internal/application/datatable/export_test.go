package datatable

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascend/internal/adapters/remote"
)

func TestExportCSV_LegacyEscaping(t *testing.T) {
	rows := []remote.Row{
		{"id": int64(2), "name": "Growth, Pro", "features": []any{"a", "b"}, "badge": nil, "is_popular": true},
		{"id": int64(1), "name": "Starter", "features": []any{}, "badge": "New", "is_popular": false},
	}

	got := string(ExportCSV([]string{"id", "name", "features", "badge", "is_popular"}, rows))

	want := "id,name,features,badge,is_popular\n" +
		"2,\"Growth, Pro\",a,b,,true\n" +
		"1,Starter,,New,false\n"
	assert.Equal(t, want, got)
}

func TestExportCSV_ObjectsAsJSON(t *testing.T) {
	rows := []remote.Row{{"id": int64(1), "registration_data": map[string]any{"name": "Ana"}}}

	got := string(ExportCSV([]string{"id", "registration_data"}, rows))
	assert.Equal(t, "id,registration_data\n1,{\"name\":\"Ana\"}\n", got)
}

// Quotes and newlines are written unescaped, which a standards reader cannot read back.
func TestExportCSV_QuotesAndNewlinesDoNotRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"embedded quote", `She said "hi"`},
		{"embedded newline", "line one\nline two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ExportCSV([]string{"id", "message"}, []remote.Row{{"id": int64(1), "message": tt.value}})
			assert.Contains(t, string(out), tt.value, "value is written verbatim")

			records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
			if err != nil {
				return
			}
			roundTripped := len(records) == 2 && len(records[1]) == 2 && records[1][1] == tt.value
			assert.False(t, roundTripped, "records = %q", records)
		})
	}
}

func TestExportCSV_CommaFieldsDoRoundTrip(t *testing.T) {
	out := ExportCSV([]string{"id", "location"}, []remote.Row{{"id": int64(1), "location": "Auckland, NZ"}})

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"1", "Auckland, NZ"}, records[1])
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "events-2026-03-08.csv", ExportFilename("events", time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)))
}

package datatable

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	nz, err := time.LoadLocation("Pacific/Auckland")
	if err != nil {
		nz = time.FixedZone("NZDT", 13*3600)
	}
	tests := []struct {
		name   string
		column string
		value  any
		loc    *time.Location
		want   string
	}{
		{"nil", "title", nil, time.UTC, "-"},
		{"nil beats price", "price", nil, time.UTC, "-"},
		{"true", "published", true, time.UTC, "Yes"},
		{"false", "is_popular", false, time.UTC, "No"},
		{"list", "features", []any{"Coaching", "Community"}, time.UTC, "Coaching, Community"},
		{"empty list", "features", []any{}, time.UTC, ""},
		{"object", "registration_data", map[string]any{"name": "Ana"}, time.UTC, `{"name":"Ana"}`},
		{"date column", "event_date", "2026-03-08T18:30:00Z", time.UTC, "Mar 8, 2026, 6:30:00 PM"},
		{"date in location", "event_date", "2026-03-08T18:30:00Z", nz, "Mar 9, 2026, 7:30:00 AM"},
		{"time value", "start_time", time.Date(2025, 12, 1, 9, 5, 7, 0, time.UTC), time.UTC, "Dec 1, 2025, 9:05:07 AM"},
		{"timestamp without date or time in the name", "created_at", "2026-03-08T18:30:00Z", nz, "2026-03-08T18:30:00Z"},
		{"unparsable date", "event_date", "next tuesday", time.UTC, "next tuesday"},
		{"numeric time column", "read_time", json.Number("5"), time.UTC, "5"},
		{"price", "price", json.Number("49.5"), time.UTC, "$49.5"},
		{"amount float", "amount_due", 12.0, time.UTC, "$12"},
		{"price int", "price", int64(0), time.UTC, "$0"},
		{"plain", "title", "Pitch night", time.UTC, "Pitch night"},
		{"number", "capacity", int64(40), time.UTC, "40"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.column, tt.value, tt.loc))
		})
	}
}

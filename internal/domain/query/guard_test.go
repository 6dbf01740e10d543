package query_test

import (
	"testing"

	"metrofleet/analyst-api/internal/domain/query"
)

func TestIsReadOnly(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		{"plain select", "SELECT * FROM dbt_dev.fct_trips LIMIT 10", true},
		{"mixed case select", "SeLeCt 1", true},
		{"aggregate", "SELECT sum(total_amount) FROM dbt_dev.fct_trips WHERE is_holiday", true},
		{"empty query", "", true},
		{"insert", "INSERT INTO t VALUES (1)", false},
		{"lowercase update", "update t set x = 1", false},
		{"delete", "DELETE FROM t", false},
		{"drop", "DROP TABLE t", false},
		{"alter", "ALTER TABLE t ADD COLUMN x int", false},
		{"truncate", "TRUNCATE t", false},
		{"chained statement", "SELECT * FROM t; DROP TABLE t", false},
		{"keyword inside literal still rejected", "SELECT 'please do not DELETE me'", false},
		{"keyword inside identifier still rejected", "SELECT last_update FROM t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := query.IsReadOnly(tt.query); got != tt.expected {
				t.Errorf("IsReadOnly(%q) = %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}

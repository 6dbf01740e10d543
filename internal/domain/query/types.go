package query

import "context"

// DefaultRowLimit caps the rows returned to the model per query.
const DefaultRowLimit = 50

// Row is one result row keyed by column name. Column order is carried
// separately on the Result since Go maps do not preserve it.
type Row map[string]any

// Result is the closed two-variant outcome of a query execution: either
// Data (with an optional truncation Note) or Error, never both.
type Result struct {
	Columns []string `json:"columns,omitempty"`
	Data    []Row    `json:"data,omitempty"`
	Note    string   `json:"note,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// IsError reports whether the execution failed at the data store.
func (r Result) IsError() bool {
	return r.Error != ""
}

// Store executes one read-only SQL statement against the analytics
// warehouse. Every call is a single, independent, stateless query: no
// transactions or session state survive across calls.
type Store interface {
	Query(ctx context.Context, query string) (columns []string, rows []Row, err error)
}

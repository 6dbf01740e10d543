package query

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Shaper executes approved queries and bounds the result size. Execution
// failures are folded into the Result contract: the model consumes them as
// data, never as a control-flow error.
type Shaper struct {
	store    Store
	rowLimit int
	timeout  time.Duration
	log      zerolog.Logger
}

// NewShaper constructs a shaper. A non-positive rowLimit falls back to
// DefaultRowLimit; a non-positive timeout disables the per-query deadline.
func NewShaper(store Store, rowLimit int, timeout time.Duration, log zerolog.Logger) *Shaper {
	if rowLimit <= 0 {
		rowLimit = DefaultRowLimit
	}
	return &Shaper{
		store:    store,
		rowLimit: rowLimit,
		timeout:  timeout,
		log:      log.With().Str("component", "query-shaper").Logger(),
	}
}

// Execute runs one query against the store. Exactly one store call is made;
// a failing query is reported once, not retried. Oversized results are cut
// to the row limit with a note carrying the true count.
func (s *Shaper) Execute(ctx context.Context, query string) Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	columns, rows, err := s.store.Query(ctx, query)
	if err != nil {
		s.log.Warn().Err(err).Msg("query execution failed")
		return Result{Error: err.Error()}
	}

	if len(rows) > s.rowLimit {
		return Result{
			Columns: columns,
			Data:    rows[:s.rowLimit],
			Note:    fmt.Sprintf("Result truncated. Showing %d of %d rows.", s.rowLimit, len(rows)),
		}
	}

	return Result{Columns: columns, Data: rows}
}

// RowLimit exposes the configured cap, mostly for the tool description.
func (s *Shaper) RowLimit() int {
	return s.rowLimit
}

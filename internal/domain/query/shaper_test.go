package query_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"metrofleet/analyst-api/internal/domain/query"
)

// mockStore is a query.Store backed by function fields.
type mockStore struct {
	QueryFunc func(ctx context.Context, statement string) ([]string, []query.Row, error)
	calls     int
}

func (m *mockStore) Query(ctx context.Context, statement string) ([]string, []query.Row, error) {
	m.calls++
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, statement)
	}
	return nil, nil, nil
}

func makeRows(n int) []query.Row {
	rows := make([]query.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, query.Row{"n": i})
	}
	return rows
}

func TestShaper_SmallResultPassesThrough(t *testing.T) {
	store := &mockStore{
		QueryFunc: func(ctx context.Context, statement string) ([]string, []query.Row, error) {
			return []string{"n"}, makeRows(3), nil
		},
	}
	shaper := query.NewShaper(store, 50, 0, zerolog.Nop())

	result := shaper.Execute(context.Background(), "SELECT n FROM t")
	if result.IsError() {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if len(result.Data) != 3 {
		t.Errorf("len(Data) = %d, want 3", len(result.Data))
	}
	if result.Note != "" {
		t.Errorf("Note = %q, want empty", result.Note)
	}
}

func TestShaper_ExactLimitNotTruncated(t *testing.T) {
	store := &mockStore{
		QueryFunc: func(ctx context.Context, statement string) ([]string, []query.Row, error) {
			return []string{"n"}, makeRows(50), nil
		},
	}
	shaper := query.NewShaper(store, 50, 0, zerolog.Nop())

	result := shaper.Execute(context.Background(), "SELECT n FROM t")
	if len(result.Data) != 50 {
		t.Errorf("len(Data) = %d, want 50", len(result.Data))
	}
	if result.Note != "" {
		t.Errorf("Note = %q, want empty", result.Note)
	}
}

func TestShaper_OversizedResultTruncatedWithTrueCount(t *testing.T) {
	store := &mockStore{
		QueryFunc: func(ctx context.Context, statement string) ([]string, []query.Row, error) {
			return []string{"n"}, makeRows(1207), nil
		},
	}
	shaper := query.NewShaper(store, 50, 0, zerolog.Nop())

	result := shaper.Execute(context.Background(), "SELECT n FROM t")
	if len(result.Data) != 50 {
		t.Errorf("len(Data) = %d, want 50", len(result.Data))
	}
	want := "Result truncated. Showing 50 of 1207 rows."
	if result.Note != want {
		t.Errorf("Note = %q, want %q", result.Note, want)
	}
	// First rows survive in order.
	if result.Data[0]["n"] != 0 || result.Data[49]["n"] != 49 {
		t.Error("truncation did not keep the leading rows")
	}
}

func TestShaper_StoreErrorBecomesResultError(t *testing.T) {
	store := &mockStore{
		QueryFunc: func(ctx context.Context, statement string) ([]string, []query.Row, error) {
			return nil, nil, errors.New(`pq: relation "dbt_dev.missing" does not exist`)
		},
	}
	shaper := query.NewShaper(store, 50, 0, zerolog.Nop())

	result := shaper.Execute(context.Background(), "SELECT * FROM dbt_dev.missing")
	if !result.IsError() {
		t.Fatal("expected an error result")
	}
	if result.Error != `pq: relation "dbt_dev.missing" does not exist` {
		t.Errorf("Error = %q, want verbatim driver message", result.Error)
	}
	if store.calls != 1 {
		t.Errorf("store calls = %d, want exactly 1 (no retry)", store.calls)
	}
}

func TestShaper_DefaultRowLimit(t *testing.T) {
	store := &mockStore{
		QueryFunc: func(ctx context.Context, statement string) ([]string, []query.Row, error) {
			return []string{"n"}, makeRows(60), nil
		},
	}
	shaper := query.NewShaper(store, 0, 0, zerolog.Nop())

	if shaper.RowLimit() != query.DefaultRowLimit {
		t.Errorf("RowLimit() = %d, want %d", shaper.RowLimit(), query.DefaultRowLimit)
	}
	result := shaper.Execute(context.Background(), "SELECT n FROM t")
	if len(result.Data) != query.DefaultRowLimit {
		t.Errorf("len(Data) = %d, want %d", len(result.Data), query.DefaultRowLimit)
	}
	if result.Note != fmt.Sprintf("Result truncated. Showing %d of 60 rows.", query.DefaultRowLimit) {
		t.Errorf("unexpected note %q", result.Note)
	}
}

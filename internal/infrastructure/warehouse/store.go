// Package warehouse reads the analytics Postgres used by the analyst tools.
package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"metrofleet/analyst-api/internal/domain/query"
	"metrofleet/analyst-api/internal/domain/trip"
	"metrofleet/analyst-api/internal/infrastructure/metrics"
	"metrofleet/analyst-api/internal/infrastructure/observability"
)

// Store implements query.Store and trip.Store on top of the warehouse
// connection. Every call is a single stateless statement.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewStore wraps a warehouse GORM connection.
func NewStore(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("component", "warehouse-store").Logger(),
	}
}

// Ensure interface compliance.
var (
	_ query.Store = (*Store)(nil)
	_ trip.Store  = (*Store)(nil)
)

// Query executes one arbitrary read statement and materializes every row.
// Column order is preserved from the driver; the caller owns truncation.
func (s *Store) Query(ctx context.Context, statement string) ([]string, []query.Row, error) {
	started := time.Now()
	ctx, span := observability.StartQuerySpan(ctx)
	defer span.End()

	rows, err := s.db.WithContext(ctx).Raw(statement).Rows()
	if err != nil {
		observability.RecordError(span, err)
		metrics.RecordWarehouseQuery("error", time.Since(started).Seconds())
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns: %w", err)
	}

	var data []query.Row
	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(query.Row, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordWarehouseQuery("error", time.Since(started).Seconds())
		return nil, nil, err
	}

	metrics.RecordWarehouseQuery("ok", time.Since(started).Seconds())
	s.log.Debug().
		Int("rows", len(data)).
		Dur("duration", time.Since(started)).
		Msg("warehouse query executed")
	return columns, data, nil
}

// ListTrips reads dbt_dev.fct_trips with optional time bounds.
func (s *Store) ListTrips(ctx context.Context, filter trip.Filter) ([]trip.Trip, error) {
	stmt := `SELECT pickup_datetime, total_amount, trip_distance, precip_mm, temp_c, is_holiday, holiday_name
FROM dbt_dev.fct_trips`
	var args []any
	clause := " WHERE"
	if !filter.From.IsZero() {
		stmt += clause + " pickup_datetime >= ?"
		args = append(args, filter.From)
		clause = " AND"
	}
	if !filter.To.IsZero() {
		stmt += clause + " pickup_datetime < ?"
		args = append(args, filter.To)
	}
	stmt += " ORDER BY pickup_datetime DESC LIMIT ?"
	args = append(args, filter.Limit)

	var trips []trip.Trip
	if err := s.db.WithContext(ctx).Raw(stmt, args...).Scan(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

// normalizeValue converts driver byte slices to strings so results survive
// JSON encoding intact.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

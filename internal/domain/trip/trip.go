// Package trip exposes read access to the warehouse trip fact table.
package trip

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Listing bounds. Callers may lower the limit, never raise it past MaxLimit.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Trip is one row of dbt_dev.fct_trips.
type Trip struct {
	PickupDatetime time.Time       `json:"pickup_datetime"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TripDistance   float64         `json:"trip_distance"`
	PrecipMM       *float64        `json:"precip_mm,omitempty"`
	TempC          *float64        `json:"temp_c,omitempty"`
	IsHoliday      bool            `json:"is_holiday"`
	HolidayName    *string         `json:"holiday_name,omitempty"`
}

// Filter narrows a trip listing. Zero time bounds are open-ended.
type Filter struct {
	From  time.Time
	To    time.Time
	Limit int
}

// Store reads trips from the analytics warehouse.
type Store interface {
	ListTrips(ctx context.Context, filter Filter) ([]Trip, error)
}

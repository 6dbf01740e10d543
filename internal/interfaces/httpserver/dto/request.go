package dto

import (
	"time"

	"metrofleet/analyst-api/pkg/chatstream"
)

// ChatRequest is the POST /v1/chat payload: the full client-side transcript
// in part-structured form.
type ChatRequest struct {
	Messages []chatstream.Message `json:"messages" binding:"required"`
}

// ListTripsQuery binds the GET /v1/trips query string.
type ListTripsQuery struct {
	From  *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To    *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit int        `form:"limit"`
}

// CreatePredictionRequest is the POST /v1/predictions payload.
type CreatePredictionRequest struct {
	PickupLocationID  int       `json:"pickup_location_id" binding:"required"`
	DropoffLocationID int       `json:"dropoff_location_id" binding:"required"`
	PickupDatetime    time.Time `json:"pickup_datetime" binding:"required"`
	TripDistance      float64   `json:"trip_distance" binding:"required"`
	PrecipMM          *float64  `json:"precip_mm,omitempty"`
	TempC             *float64  `json:"temp_c,omitempty"`
}

// ListPredictionsQuery binds the GET /v1/predictions query string.
type ListPredictionsQuery struct {
	Limit int `form:"limit"`
}

// Package prediction persists fare predictions served by the ML gateway.
package prediction

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Prediction is the main aggregate persisted to the database. ModelInputs
// keeps the exact feature payload sent to the gateway so a stored estimate
// can be audited against the model version that produced it.
type Prediction struct {
	ID                uint            `json:"-"`
	PublicID          string          `json:"id"`
	PickupLocationID  int             `json:"pickup_location_id"`
	DropoffLocationID int             `json:"dropoff_location_id"`
	PickupDatetime    time.Time       `json:"pickup_datetime"`
	TripDistance      float64         `json:"trip_distance"`
	PredictedFare     decimal.Decimal `json:"predicted_fare"`
	Currency          string          `json:"currency"`
	ModelVersion      string          `json:"model_version,omitempty"`
	ModelInputs       json.RawMessage `json:"model_inputs,omitempty"`
	CreatedAt         time.Time       `json:"created"`
}

// CreateParams contains inputs collected from the HTTP layer. Location IDs
// are TLC zone IDs (1-263).
type CreateParams struct {
	PickupLocationID  int
	DropoffLocationID int
	PickupDatetime    time.Time
	TripDistance      float64
	PrecipMM          *float64
	TempC             *float64
}

// Filter narrows a prediction listing.
type Filter struct {
	Limit int
}

// Repository defines persistence operations for predictions.
type Repository interface {
	Create(ctx context.Context, prediction *Prediction) error
	FindByPublicID(ctx context.Context, publicID string) (*Prediction, error)
	List(ctx context.Context, filter Filter) ([]Prediction, error)
}

// Predictor calls the external fare model.
type Predictor interface {
	PredictFare(ctx context.Context, params CreateParams) (Estimate, error)
}

// Estimate is the gateway's answer for one fare request.
type Estimate struct {
	Fare         decimal.Decimal
	Currency     string
	ModelVersion string
}

// Service exposes the prediction domain operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Prediction, error)
	GetByPublicID(ctx context.Context, publicID string) (*Prediction, error)
	List(ctx context.Context, filter Filter) ([]Prediction, error)
}

package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Listing bounds.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ServiceImpl provides the domain implementation.
type ServiceImpl struct {
	predictions Repository
	predictor   Predictor
	log         zerolog.Logger
}

// NewService wires dependencies.
func NewService(predictions Repository, predictor Predictor, log zerolog.Logger) *ServiceImpl {
	return &ServiceImpl{
		predictions: predictions,
		predictor:   predictor,
		log:         log.With().Str("component", "prediction-service").Logger(),
	}
}

// Create asks the fare model for an estimate and persists it.
func (s *ServiceImpl) Create(ctx context.Context, params CreateParams) (*Prediction, error) {
	if params.TripDistance <= 0 {
		return nil, fmt.Errorf("trip_distance must be positive")
	}
	if params.PickupDatetime.IsZero() {
		return nil, fmt.Errorf("pickup_datetime is required")
	}
	if params.PickupLocationID < 1 || params.PickupLocationID > 263 {
		return nil, fmt.Errorf("pickup_location_id must be a TLC zone ID (1-263)")
	}
	if params.DropoffLocationID < 1 || params.DropoffLocationID > 263 {
		return nil, fmt.Errorf("dropoff_location_id must be a TLC zone ID (1-263)")
	}

	estimate, err := s.predictor.PredictFare(ctx, params)
	if err != nil {
		s.log.Error().Err(err).Msg("fare prediction failed")
		return nil, fmt.Errorf("predict fare: %w", err)
	}

	model := &Prediction{
		PublicID:          newPublicID("pred"),
		PickupLocationID:  params.PickupLocationID,
		DropoffLocationID: params.DropoffLocationID,
		PickupDatetime:    params.PickupDatetime,
		TripDistance:      params.TripDistance,
		PredictedFare:     estimate.Fare,
		Currency:          estimate.Currency,
		ModelVersion:      estimate.ModelVersion,
		ModelInputs:       encodeModelInputs(params),
		CreatedAt:         time.Now(),
	}
	if err := s.predictions.Create(ctx, model); err != nil {
		return nil, fmt.Errorf("store prediction: %w", err)
	}
	return model, nil
}

// GetByPublicID fetches one stored prediction.
func (s *ServiceImpl) GetByPublicID(ctx context.Context, publicID string) (*Prediction, error) {
	return s.predictions.FindByPublicID(ctx, publicID)
}

// List returns recent predictions, newest first.
func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]Prediction, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	return s.predictions.List(ctx, filter)
}

func newPublicID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// encodeModelInputs snapshots the feature payload for auditing. Weather
// fields are recorded only when the caller supplied them; gateway defaults
// are the model's concern.
func encodeModelInputs(params CreateParams) json.RawMessage {
	inputs := map[string]interface{}{
		"pickup_location_id":  params.PickupLocationID,
		"dropoff_location_id": params.DropoffLocationID,
		"pickup_datetime":     params.PickupDatetime.Format(time.RFC3339),
		"trip_distance":       params.TripDistance,
	}
	if params.PrecipMM != nil {
		inputs["precip_mm"] = *params.PrecipMM
	}
	if params.TempC != nil {
		inputs["temp_c"] = *params.TempC
	}
	data, err := json.Marshal(inputs)
	if err != nil {
		return nil
	}
	return data
}

package dto

import (
	"metrofleet/analyst-api/internal/domain/prediction"
	"metrofleet/analyst-api/internal/domain/trip"
)

// TripList wraps a trip listing.
type TripList struct {
	Data  []trip.Trip `json:"data"`
	Count int         `json:"count"`
}

// FromTrips builds the listing payload.
func FromTrips(trips []trip.Trip) TripList {
	if trips == nil {
		trips = []trip.Trip{}
	}
	return TripList{Data: trips, Count: len(trips)}
}

// PredictionList wraps a prediction listing.
type PredictionList struct {
	Data  []prediction.Prediction `json:"data"`
	Count int                     `json:"count"`
}

// FromPredictions builds the listing payload.
func FromPredictions(predictions []prediction.Prediction) PredictionList {
	if predictions == nil {
		predictions = []prediction.Prediction{}
	}
	return PredictionList{Data: predictions, Count: len(predictions)}
}

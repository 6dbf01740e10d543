package handlers

import (
	"github.com/rs/zerolog"

	"metrofleet/analyst-api/internal/domain/chat"
	"metrofleet/analyst-api/internal/domain/prediction"
	"metrofleet/analyst-api/internal/domain/trip"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat       *ChatHandler
	Trip       *TripHandler
	Prediction *PredictionHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	chatService chat.Service,
	tripService trip.Service,
	predictionService prediction.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:       NewChatHandler(chatService, log),
		Trip:       NewTripHandler(tripService, log),
		Prediction: NewPredictionHandler(predictionService, log),
	}
}

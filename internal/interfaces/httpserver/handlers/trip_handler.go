package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"metrofleet/analyst-api/internal/domain/trip"
	"metrofleet/analyst-api/internal/interfaces/httpserver/dto"
)

// TripHandler exposes read access to warehouse trips.
type TripHandler struct {
	service trip.Service
	log     zerolog.Logger
}

// NewTripHandler constructs the handler.
func NewTripHandler(service trip.Service, log zerolog.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		log:     log.With().Str("handler", "trip").Logger(),
	}
}

// List handles GET /v1/trips
func (h *TripHandler) List(c *gin.Context) {
	var query dto.ListTripsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := trip.Filter{Limit: query.Limit}
	if query.From != nil {
		filter.From = *query.From
	}
	if query.To != nil {
		filter.To = *query.To
	}

	trips, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromTrips(trips))
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"metrofleet/analyst-api/internal/domain/prediction"
	"metrofleet/analyst-api/internal/infrastructure/metrics"
	"metrofleet/analyst-api/internal/interfaces/httpserver/dto"
	"metrofleet/analyst-api/internal/utils/platformerrors"
)

// PredictionHandler exposes fare prediction endpoints.
type PredictionHandler struct {
	service prediction.Service
	log     zerolog.Logger
}

// NewPredictionHandler constructs the handler.
func NewPredictionHandler(service prediction.Service, log zerolog.Logger) *PredictionHandler {
	return &PredictionHandler{
		service: service,
		log:     log.With().Str("handler", "prediction").Logger(),
	}
}

// Create handles POST /v1/predictions
func (h *PredictionHandler) Create(c *gin.Context) {
	var req dto.CreatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pred, err := h.service.Create(c.Request.Context(), prediction.CreateParams{
		PickupLocationID:  req.PickupLocationID,
		DropoffLocationID: req.DropoffLocationID,
		PickupDatetime:    req.PickupDatetime,
		TripDistance:      req.TripDistance,
		PrecipMM:          req.PrecipMM,
		TempC:             req.TempC,
	})
	if err != nil {
		metrics.RecordPrediction("error")
		h.renderError(c, err)
		return
	}

	metrics.RecordPrediction("ok")
	c.JSON(http.StatusCreated, pred)
}

// Get handles GET /v1/predictions/:prediction_id
func (h *PredictionHandler) Get(c *gin.Context) {
	pred, err := h.service.GetByPublicID(c.Request.Context(), c.Param("prediction_id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, pred)
}

// List handles GET /v1/predictions
func (h *PredictionHandler) List(c *gin.Context) {
	var query dto.ListPredictionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	predictions, err := h.service.List(c.Request.Context(), prediction.Filter{Limit: query.Limit})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPredictions(predictions))
}

func (h *PredictionHandler) renderError(c *gin.Context, err error) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		platformerrors.LogError(h.log, platformErr)
		c.JSON(platformerrors.ErrorTypeToHTTPStatus(platformErr.Type), gin.H{"error": platformErr.Message})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

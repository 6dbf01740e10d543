package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"metrofleet/analyst-api/internal/domain/chat"
	"metrofleet/analyst-api/internal/infrastructure/metrics"
	"metrofleet/analyst-api/internal/infrastructure/observability"
	"metrofleet/analyst-api/internal/interfaces/httpserver/dto"
	"metrofleet/analyst-api/pkg/chatstream"
)

// ChatHandler exposes the streaming analyst chat endpoint.
type ChatHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// Stream handles POST /v1/chat. The response is always a frame stream; there
// is no non-streaming variant.
func (h *ChatHandler) Stream(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages must not be empty"})
		return
	}

	encoder, err := chatstream.NewEncoder(c.Writer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	ctx, span := observability.StartTurnSpan(c.Request.Context(), "", len(req.Messages))
	defer span.End()

	messageID := "msg_" + uuid.NewString()
	observer := newStreamObserver(encoder, messageID, h.log)
	observer.Begin()

	result, err := h.service.StreamTurn(ctx, chat.TurnParams{
		Messages: req.Messages,
		Observer: observer,
	})
	if err != nil {
		// The stream is already open; all we can do is seal the message and
		// log. The client sees a message with no parts.
		h.log.Error().Err(err).Msg("chat turn failed")
		observability.RecordError(span, err)
		observer.End()
		return
	}

	observability.AddStopEvent(span, string(result.StopReason), result.Steps)
	metrics.RecordAgentTurn(string(result.StopReason), result.Steps)
	observer.End()
}

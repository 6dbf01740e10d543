package v1

import (
	"github.com/gin-gonic/gin"

	"metrofleet/analyst-api/internal/interfaces/httpserver/handlers"
)

func registerPredictionRoutes(group *gin.RouterGroup, handler *handlers.PredictionHandler) {
	predictions := group.Group("/predictions")
	predictions.POST("", handler.Create)
	predictions.GET("", handler.List)
	predictions.GET("/:prediction_id", handler.Get)
}

package v1

import (
	"github.com/gin-gonic/gin"

	"metrofleet/analyst-api/internal/interfaces/httpserver/handlers"
)

func registerTripRoutes(group *gin.RouterGroup, handler *handlers.TripHandler) {
	group.GET("/trips", handler.List)
}

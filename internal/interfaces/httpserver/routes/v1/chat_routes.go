package v1

import (
	"github.com/gin-gonic/gin"

	"metrofleet/analyst-api/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(group *gin.RouterGroup, handler *handlers.ChatHandler) {
	group.POST("/chat", handler.Stream)
}

package routes

import (
	"yoke_travel/internal/controllers"

	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine) {
	// Token rides in the query string; browsers cannot set headers on a
	// WebSocket handshake.
	r.GET("/ws", controllers.HandleChatSocket)
}

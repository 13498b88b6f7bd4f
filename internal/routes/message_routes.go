package routes

import (
	"yoke_travel/internal/controllers"
	"yoke_travel/internal/middleware"

	"github.com/gin-gonic/gin"
)

func MessageRoutes(r *gin.Engine) {
	messages := r.Group("/messages")
	messages.Use(middleware.RequireAuth())
	{
		messages.POST("/", controllers.SendMessage)
		messages.GET("/conversations", controllers.GetConversations)
		messages.GET("/:userId", controllers.GetMessages)
		messages.PUT("/:userId/read", controllers.MarkAsRead)
	}
}

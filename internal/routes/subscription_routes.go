package routes

import (
	"yoke_travel/internal/controllers"
	"yoke_travel/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SubscriptionRoutes(r *gin.Engine) {
	sub := r.Group("/subscription")
	sub.Use(middleware.RequireAuth())
	{
		sub.GET("/", controllers.GetCurrentSubscription)
		sub.POST("/intent", controllers.CreatePaymentIntent)
		sub.POST("/confirm", controllers.ConfirmSubscription)
		sub.POST("/downgrade", controllers.DowngradeToFree)
	}
}

package routes

import (
	"yoke_travel/internal/controllers"
	"yoke_travel/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TripRoutes(r *gin.Engine) {
	trip := r.Group("/trips")
	trip.Use(middleware.RequireAuth())
	{
		trip.POST("/", controllers.CreateTrip)
		trip.GET("/", controllers.GetAllTrips)
		trip.GET("/trending", controllers.GetTrendingTrips)
		trip.GET("/own", controllers.GetOwnTrips)
		trip.GET("/:id", controllers.GetTrip)
		trip.POST("/:id/view", controllers.AddTripView)
		trip.POST("/:id/like", controllers.ToggleLikeTrip)
		trip.GET("/:id/liked", controllers.IsTripLiked)
		trip.PUT("/:id", controllers.EditTrip)
		trip.DELETE("/:id", controllers.DeleteTrip)
	}
}

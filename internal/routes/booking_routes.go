package routes

import (
	"yoke_travel/internal/controllers"
	"yoke_travel/internal/middleware"

	"github.com/gin-gonic/gin"
)

func BookingRoutes(r *gin.Engine) {
	booking := r.Group("/bookings")
	booking.Use(middleware.RequireAuth())
	{
		booking.POST("/", controllers.CreateBooking)
		booking.GET("/", controllers.GetUserBookings)
		booking.DELETE("/:id", controllers.CancelBooking)
		booking.GET("/trip/:tripId", controllers.GetBookingsForTrip)
	}
}

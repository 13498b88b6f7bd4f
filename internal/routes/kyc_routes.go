package routes

import (
	"yoke_travel/internal/controllers"
	"yoke_travel/internal/middleware"

	"github.com/gin-gonic/gin"
)

func KYCRoutes(r *gin.Engine) {
	kyc := r.Group("/kyc")
	kyc.Use(middleware.RequireAuth())
	{
		kyc.POST("/", controllers.SubmitKYC)
		kyc.GET("/status", controllers.GetKYCStatus)
	}
}

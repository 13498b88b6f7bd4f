package routes

import (
	"yoke_travel/internal/controllers"
	"yoke_travel/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ReferralRoutes(r *gin.Engine) {
	referral := r.Group("/referral")
	referral.Use(middleware.RequireAuth())
	{
		referral.GET("/link", controllers.GetReferralLink)
		referral.GET("/list", controllers.GetReferralList)
	}
}

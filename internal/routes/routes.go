package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	// Recovery and request logging apply to every route group below.
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	UserRoutes(r)
	WalletRoutes(r)
	ReferralRoutes(r)
	TripRoutes(r)
	BookingRoutes(r)
	SubscriptionRoutes(r)
	MessageRoutes(r)
	KYCRoutes(r)
	WebSocketRoutes(r)

	return r
}

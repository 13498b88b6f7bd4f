package routes

import (
	"yoke_travel/internal/controllers"
	"yoke_travel/internal/middleware"

	"github.com/gin-gonic/gin"
)

func WalletRoutes(r *gin.Engine) {
	wallet := r.Group("/wallet")
	wallet.Use(middleware.RequireAuth())
	{
		wallet.GET("/", controllers.GetWallet)
		wallet.POST("/deposit/order", controllers.CreateDepositOrder)
		wallet.POST("/deposit/verify", controllers.VerifyDeposit)
		wallet.POST("/withdraw", controllers.Withdraw)
		wallet.GET("/transactions", controllers.GetTransactions)
		wallet.GET("/transactions/:id", controllers.GetTransaction)
	}
}

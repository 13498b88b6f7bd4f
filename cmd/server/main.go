package main

import (
	"log"
	"net/http"

	"yoke_travel/internal/config"
	"yoke_travel/internal/gateway"
	"yoke_travel/internal/logger"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/notify"
	"yoke_travel/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database and side-cache
	config.InitDB()
	config.InitRedis()

	// External services
	gateway.Init()
	notify.Init()

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + config.GetEnv("PORT", "8080")
	log.Println("🚀 Server running at " + addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bingolaperla/perla-backend/config"
	"github.com/bingolaperla/perla-backend/controllers"
	"github.com/bingolaperla/perla-backend/routes"
	"github.com/bingolaperla/perla-backend/scheduler"
	"github.com/bingolaperla/perla-backend/services"
	"github.com/bingolaperla/perla-backend/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg *config.Config, api *controllers.API, hub *services.Hub) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup REST routes
	routes.SetupRoutes(r, api)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket game feed endpoint
	r.GET("/ws/games/:gameId", hub.HandleGameFeed)

	return r
}

func main() {
	cfg := config.Load()

	// Connect to database
	db := config.SetupDatabase(cfg.DatabaseURL)

	// Wire services around the persisted provider
	provider := services.NewDBProvider(db)
	registry := scheduler.NewRegistry()
	hub := services.NewHub()

	gamesSvc := services.NewGameService(provider, registry, hub)
	cardsSvc := services.NewCardService(provider, cfg.MaxCardsPerUser)
	walletSvc := services.NewWalletService(provider)
	paymentsSvc := services.NewPaymentService(provider, cfg.WebhookSecret)

	api := controllers.NewAPI(gamesSvc, cardsSvc, walletSvc, paymentsSvc, provider, cfg.DrawInterval)
	router := setupRouter(cfg, api, hub)

	// Stop all draw timers on shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Infof("shutting down, stopping draw timers")
		registry.Shutdown()
		os.Exit(0)
	}()

	logger.Infof("🚀 Bingo La Perla backend starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}

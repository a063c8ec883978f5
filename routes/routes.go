package routes

import (
	"github.com/bingolaperla/perla-backend/controllers"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, api *controllers.API) {
	group := r.Group("/api")

	// ----------------------
	// User routes
	// ----------------------
	group.POST("/users", api.RegisterUser)
	group.GET("/users/:id", api.GetUser)
	group.GET("/users/:id/transactions", api.GetUserTransactions)
	group.GET("/users/:id/cards", api.GetUserCards)

	// ----------------------
	// Game routes
	// ----------------------
	group.POST("/games", api.CreateGame)
	group.GET("/games", api.ListGames)
	group.GET("/games/:id", api.GetGame)
	group.POST("/games/:id/join", api.JoinGame)
	group.PATCH("/games/:id/status", api.SetGameStatus)
	group.POST("/games/:id/draw-ball", api.DrawBall)
	group.POST("/games/:id/announce-bingo", api.AnnounceBingo)
	group.POST("/games/:id/autodraw/start", api.StartAutoDraw)
	group.POST("/games/:id/autodraw/stop", api.StopAutoDraw)

	// ----------------------
	// Card routes
	// ----------------------
	group.POST("/cards", api.GenerateCards)
	group.GET("/cards/:cardId", api.GetCard)
	group.PUT("/cards/:cardId/mark", api.MarkCard)
	group.GET("/cards/:cardId/patterns", api.GetCardPatterns)

	// ----------------------
	// Wallet & payment routes
	// ----------------------
	group.POST("/wallet/deposit", api.Deposit)
	group.POST("/wallet/withdraw", api.Withdraw)
	group.POST("/payments/webhook", api.PaymentWebhook)

	// ----------------------
	// Pattern table
	// ----------------------
	group.GET("/patterns", api.ListPatterns)
}

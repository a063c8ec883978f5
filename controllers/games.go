package controllers

import (
	"net/http"
	"time"

	"github.com/bingolaperla/perla-backend/models"
	"github.com/bingolaperla/perla-backend/services"

	"github.com/gin-gonic/gin"
)

// CreateGame schedules a new round.
func (a *API) CreateGame(c *gin.Context) {
	var req struct {
		Title          string     `json:"title" binding:"required"`
		MarkMode       string     `json:"mark_mode"`
		WinningPattern string     `json:"winning_pattern" binding:"required"`
		CardPrice      float64    `json:"card_price"`
		PrizePool      float64    `json:"prize_pool"`
		MaxPlayers     int        `json:"max_players"`
		ScheduledAt    *time.Time `json:"scheduled_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := a.Games.Create(services.CreateGameInput{
		Title:          req.Title,
		MarkMode:       models.MarkMode(req.MarkMode),
		WinningPattern: req.WinningPattern,
		CardPrice:      req.CardPrice,
		PrizePool:      req.PrizePool,
		MaxPlayers:     req.MaxPlayers,
		ScheduledAt:    req.ScheduledAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// ListGames returns all games
func (a *API) ListGames(c *gin.Context) {
	games, err := a.Games.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame returns single game info
func (a *API) GetGame(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	game, err := a.Games.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// JoinGame registers the caller as a player.
func (a *API) JoinGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}

	game, err := a.Games.Join(gameID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "joined", "game_id": game.ID})
}

// SetGameStatus applies a lifecycle transition.
func (a *API) SetGameStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := a.Games.SetStatus(id, models.GameStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// DrawBall draws the next random ball and reports any winners.
func (a *API) DrawBall(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := a.Games.DrawBall(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnnounceBingo validates a player's claim for a specific pattern.
func (a *API) AnnounceBingo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		CardID  uint   `json:"cardId" binding:"required"`
		Pattern string `json:"pattern" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := a.Games.AnnounceBingo(userID, gameID, req.CardID, req.Pattern)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// StartAutoDraw attaches the draw timer to a running game.
func (a *API) StartAutoDraw(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := a.Games.StartAutoDraw(id, a.DrawInterval); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "autodraw started", "game_id": id})
}

// StopAutoDraw detaches the draw timer.
func (a *API) StopAutoDraw(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	stopped := a.Games.StopAutoDraw(id)
	c.JSON(http.StatusOK, gin.H{"message": "autodraw stopped", "was_running": stopped})
}

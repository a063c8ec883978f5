package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GenerateCards buys cards for the caller in a game.
func (a *API) GenerateCards(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		GameID uint `json:"gameId" binding:"required"`
		Count  int  `json:"count" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cards, err := a.Cards.GenerateCards(userID, req.GameID, req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cards)
}

// GetCard returns one of the caller's cards with its 25 cells.
func (a *API) GetCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "cardId")
	if !ok {
		return
	}

	card, err := a.Cards.GetCard(userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// MarkCard marks the cell holding the given number, if present.
func (a *API) MarkCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "cardId")
	if !ok {
		return
	}

	var req struct {
		Number int `json:"number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := a.Cards.MarkNumber(userID, cardID, req.Number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// GetCardPatterns lists the pattern names currently satisfied on a card.
func (a *API) GetCardPatterns(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "cardId")
	if !ok {
		return
	}

	patterns, err := a.Cards.SatisfiedPatterns(userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card_id": cardID, "patterns": patterns})
}

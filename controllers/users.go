package controllers

import (
	"net/http"

	"github.com/bingolaperla/perla-backend/models"

	"github.com/gin-gonic/gin"
)

// RegisterUser creates a new account.
func (a *API) RegisterUser(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// check if already exists
	if _, err := a.Provider.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	user := models.User{Email: req.Email, Name: req.Name, Phone: req.Phone}
	if err := a.Provider.CreateUser(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser fetches a user by id.
func (a *API) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := a.Provider.GetUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserTransactions returns a user's Perlas ledger, newest first.
func (a *API) GetUserTransactions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	txs, err := a.Wallet.Transactions(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// GetUserCards returns all cards a user holds.
func (a *API) GetUserCards(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	cards, err := a.Cards.CardsByUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

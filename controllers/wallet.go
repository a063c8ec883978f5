package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Deposit opens a pending deposit; Perlas are credited when the payment
// gateway confirms the charge via webhook.
func (a *API) Deposit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dep, err := a.Wallet.RequestDeposit(userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dep)
}

// Withdraw debits Perlas and opens a pending payout.
func (a *API) Withdraw(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Amount      float64 `json:"amount" binding:"required"`
		BankAccount string  `json:"bankAccount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wd, err := a.Wallet.RequestWithdrawal(userID, req.Amount, req.BankAccount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wd)
}

package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PaymentWebhook receives Openpay deliveries. The raw body is verified
// against the signature header before anything is parsed.
func (a *API) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	signature := c.GetHeader("X-Openpay-Signature")
	if !a.Payments.VerifySignature(body, signature) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	if err := a.Payments.HandleWebhook(body); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

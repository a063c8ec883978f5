package controllers

import (
	"strconv"
	"time"

	"github.com/bingolaperla/perla-backend/apperrors"
	"github.com/bingolaperla/perla-backend/services"

	"github.com/gin-gonic/gin"
)

// API holds the service dependencies for every HTTP handler.
type API struct {
	Games        *services.GameService
	Cards        *services.CardService
	Wallet       *services.WalletService
	Payments     *services.PaymentService
	Provider     services.GameProvider
	DrawInterval time.Duration
}

func NewAPI(games *services.GameService, cards *services.CardService, wallet *services.WalletService, payments *services.PaymentService, provider services.GameProvider, drawInterval time.Duration) *API {
	return &API{
		Games:        games,
		Cards:        cards,
		Wallet:       wallet,
		Payments:     payments,
		Provider:     provider,
		DrawInterval: drawInterval,
	}
}

// respondError maps service errors to the {error} body and status code.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.StatusCode(err), gin.H{"error": err.Error()})
}

// currentUserID reads the verified identity the auth middleware supplies.
func currentUserID(c *gin.Context) (uint, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		c.JSON(401, gin.H{"error": "missing X-User-ID header"})
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(401, gin.H{"error": "invalid X-User-ID header"})
		return 0, false
	}
	return uint(id), true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		respondError(c, apperrors.Validationf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

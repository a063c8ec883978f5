package controllers

import (
	"net/http"

	"github.com/bingolaperla/perla-backend/bingo"

	"github.com/gin-gonic/gin"
)

// ListPatterns returns the static winning-pattern table.
func (a *API) ListPatterns(c *gin.Context) {
	c.JSON(http.StatusOK, bingo.Patterns())
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/inventory-analytics/internal/analytics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps analytics errors to status codes: domain errors are the
// caller's fault, sparse ledgers are 422, anything else is ours.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, analytics.ErrDomain):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, analytics.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient data", "code": "insufficient_data", "details": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
}

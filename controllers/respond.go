package controllers

import (
	"errors"
	"net/http"

	"recircuit-api/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the API's three failure kinds.
// Unexpected errors are returned verbatim.
func respondError(c *gin.Context, err error, notFoundDetail string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": notFoundDetail})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}

package handlers

import (
	"errors"
	"net/http"

	"energy-forecast-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Missing data
	case errors.Is(err, domain.ErrKeyNotFound),
		errors.Is(err, domain.ErrArtifactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})

	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

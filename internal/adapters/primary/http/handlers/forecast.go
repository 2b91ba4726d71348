package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"energy-forecast-service/internal/adapters/primary/http/dto"
	"energy-forecast-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Name:       h.project.Name,
		APIVersion: h.project.Version,
	})
}

func (h *Handler) ConsumerTypeValues(c *gin.Context) {
	values, err := h.forecastSvc.ConsumerTypeValues(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToValuesResponse(values))
}

func (h *Handler) AreaValues(c *gin.Context) {
	values, err := h.forecastSvc.AreaValues(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToValuesResponse(values))
}

func (h *Handler) GetPredictions(c *gin.Context) {
	key, err := getKey(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.forecastSvc.Predictions(c.Request.Context(), key)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictionsResponse(result))
}

// getKey parses the area and consumer_type path parameters.
func getKey(c *gin.Context) (domain.Key, error) {
	area, err := strconv.Atoi(c.Param("area"))
	if err != nil {
		return domain.Key{}, fmt.Errorf("area must be an integer, got %q", c.Param("area"))
	}
	consumerType, err := strconv.Atoi(c.Param("consumer_type"))
	if err != nil {
		return domain.Key{}, fmt.Errorf("consumer_type must be an integer, got %q", c.Param("consumer_type"))
	}
	return domain.Key{Area: area, ConsumerType: consumerType}, nil
}

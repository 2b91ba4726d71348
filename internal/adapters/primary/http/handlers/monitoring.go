package handlers

import (
	"net/http"

	"energy-forecast-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetMonitoringMetrics(c *gin.Context) {
	metrics, err := h.forecastSvc.MonitoringMetrics(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMonitoringMetricsResponse(metrics))
}

func (h *Handler) GetMonitoringValues(c *gin.Context) {
	key, err := getKey(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	values, err := h.forecastSvc.MonitoringValues(c.Request.Context(), key)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMonitoringValuesResponse(values))
}

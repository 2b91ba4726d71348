package handlers

import (
	"energy-forecast-service/internal/config"
	"energy-forecast-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	forecastSvc *services.ForecastService
	project     config.ProjectConfig
}

func New(forecastSvc *services.ForecastService, project config.ProjectConfig) *Handler {
	return &Handler{
		forecastSvc: forecastSvc,
		project:     project,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)

	// Index values
	r.GET("/consumer_type_values", h.ConsumerTypeValues)
	r.GET("/area_values", h.AreaValues)

	// Forecasts
	r.GET("/predictions/:area/:consumer_type", h.GetPredictions)

	// Monitoring
	r.GET("/monitoring/metrics", h.GetMonitoringMetrics)
	r.GET("/monitoring/values/:area/:consumer_type", h.GetMonitoringValues)
}

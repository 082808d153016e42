package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/globetrek/booking-backend/services"
	"github.com/globetrek/booking-backend/types"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	health *services.HealthService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(health *services.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// HealthCheckHandler reports the service and dependency status.
// GET /health
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	check := h.health.CheckHealth(c.Request.Context())

	status := http.StatusOK
	if check.Status == types.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, check)
}

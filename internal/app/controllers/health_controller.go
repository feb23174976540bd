package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HealthCheck checks one dependency
type HealthCheck func(ctx context.Context) error

// HealthController reports the reachability of the datastores
type HealthController struct {
	checks map[string]HealthCheck
	logger zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(checks map[string]HealthCheck, logger zerolog.Logger) *HealthController {
	return &HealthController{checks: checks, logger: logger}
}

// Health godoc
// @Summary Health check
// @Description Pings MongoDB and Redis
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "All dependencies reachable"
// @Failure 503 {object} map[string]interface{} "At least one dependency is down"
// @Router /health [get]
func (h *HealthController) Health(ctx *gin.Context) {
	c, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](c); err != nil {
			h.logger.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	ctx.JSON(status, gin.H{"status": overall, "checks": results})
}

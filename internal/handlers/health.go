package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ojt-tracker/internal/config"
	"github.com/localnerve/ojt-tracker/internal/services"
	"gorm.io/gorm"
)

// HealthHandler reports dependency health
type HealthHandler struct {
	Cfg   *config.Config
	DB    *gorm.DB
	Store services.WritableChecker
}

// Health handles GET /api/health
// @Summary Health check
// @Tags Ops
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Cfg, h.DB, h.Store)
	status := fiber.StatusOK
	if !result.Healthy() {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/finquest/finquest/models"
	"github.com/finquest/finquest/utils"
)

// HealthCheck reports process liveness.
func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendJSON(c, fiber.StatusOK, webmodels.HealthResponse{
			Status:    "healthy",
			Version:   webApp.Version,
			Timestamp: time.Now(),
		})
	}
}

// HealthCheckDB reports database reachability.
func HealthCheckDB(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := webmodels.HealthResponse{
			Status:    "healthy",
			Version:   webApp.Version,
			Timestamp: time.Now(),
			Checks:    map[string]string{"database": "healthy"},
		}
		status := fiber.StatusOK

		if err := webApp.DB.Ping(c.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Checks["database"] = err.Error()
			status = fiber.StatusServiceUnavailable
		}
		return utils.SendJSON(c, status, resp)
	}
}

package handlers

import (
	"log"

	"github.com/dialforge/backend/internal/stats"
	"github.com/dialforge/backend/internal/telemetry"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	stats   *stats.Service
	tracker *telemetry.Tracker
}

func NewAdminHandler(statsService *stats.Service, tracker *telemetry.Tracker) *AdminHandler {
	return &AdminHandler{stats: statsService, tracker: tracker}
}

// Users lists all accounts, heaviest quota users first
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.stats.ListUsers()
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"ok":    true,
		"users": users,
	})
}

// Stats returns the global usage rollup
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	rollup, err := h.stats.System()
	if err != nil {
		log.Printf("Failed to compute system stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"ok":    true,
		"stats": rollup,
	})
}

// EndpointStats returns the per-endpoint request counters
func (h *AdminHandler) EndpointStats(c *fiber.Ctx) error {
	endpoints, err := h.tracker.List()
	if err != nil {
		log.Printf("Failed to list endpoint stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"ok":        true,
		"endpoints": endpoints,
	})
}

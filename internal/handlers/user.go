package handlers

import (
	"errors"
	"log"

	"github.com/dialforge/backend/internal/history"
	"github.com/dialforge/backend/internal/middleware"
	"github.com/dialforge/backend/internal/quota"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	ledger  *quota.Ledger
	history *history.Log
}

func NewUserHandler(ledger *quota.Ledger, callLog *history.Log) *UserHandler {
	return &UserHandler{ledger: ledger, history: callLog}
}

// Stats returns the quota snapshot for the current account
func (h *UserHandler) Stats(c *fiber.Ctx) error {
	account := middleware.CurrentAccount(c)
	if account == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":    false,
			"error": "unauthorized",
		})
	}

	usage, err := h.ledger.Usage(account.ID)
	if err != nil {
		if errors.Is(err, quota.ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok":    false,
				"error": "user not found",
			})
		}
		log.Printf("Failed to read usage for user %d: %v", account.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"ok":    true,
		"stats": usage,
	})
}

// CallHistory returns the most recent calls for the current account
func (h *UserHandler) CallHistory(c *fiber.Ctx) error {
	account := middleware.CurrentAccount(c)
	if account == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":    false,
			"error": "unauthorized",
		})
	}

	calls, err := h.history.Recent(account.ID, history.DefaultRecentLimit)
	if err != nil {
		log.Printf("Failed to read call history for user %d: %v", account.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"ok":    true,
		"calls": calls,
	})
}

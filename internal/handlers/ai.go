package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/dialforge/backend/internal/gateway"
	"github.com/dialforge/backend/internal/llm"
	"github.com/dialforge/backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// ChatService is the passthrough side of the LLM collaborator
type ChatService interface {
	Chat(ctx context.Context, message string) (string, error)
}

type AIHandler struct {
	gateway *gateway.Gateway
	chat    ChatService
}

func NewAIHandler(gw *gateway.Gateway, chat ChatService) *AIHandler {
	return &AIHandler{gateway: gw, chat: chat}
}

// CallRequest is the body for the billable call action
type CallRequest struct {
	CallerName string `json:"callerName"`
	Restaurant string `json:"restaurant"`
	Phone      string `json:"phone"`
	Script     string `json:"script"`
}

// Call runs the billable call pipeline for the current account
func (h *AIHandler) Call(c *fiber.Ctx) error {
	account := middleware.CurrentAccount(c)
	if account == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":    false,
			"error": "unauthorized",
		})
	}

	var req CallRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "invalid request body",
		})
	}

	outcome, err := h.gateway.PerformCall(c.UserContext(), gateway.Request{
		AccountID:  account.ID,
		CallerName: req.CallerName,
		Restaurant: req.Restaurant,
		Phone:      req.Phone,
		UserScript: req.Script,
	})
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":    false,
				"error": "all fields required",
			})
		case errors.Is(err, gateway.ErrAccountNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok":    false,
				"error": "user not found",
			})
		default:
			log.Printf("Call action failed for user %d: %v", account.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok":    false,
				"error": "internal server error",
			})
		}
	}

	resp := fiber.Map{
		"ok":           true,
		"status":       outcome.Label,
		"script":       outcome.Script,
		"apiCallsUsed": outcome.Usage.Used,
		"remaining":    outcome.Usage.Remaining,
	}
	if outcome.CallSID != "" {
		resp["callSid"] = outcome.CallSID
	}
	return c.JSON(resp)
}

// ChatRequest is the body for the chat passthrough
type ChatRequest struct {
	Message string `json:"message"`
}

// Chat forwards a message to the LLM. No quota or history involvement.
func (h *AIHandler) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "message is required",
		})
	}

	reply, err := h.chat.Chat(c.UserContext(), req.Message)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"ok":    false,
				"error": "LLM server not configured",
			})
		}
		log.Printf("Chat passthrough failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"ok":    false,
			"error": "failed to reach LLM server",
		})
	}

	return c.JSON(fiber.Map{
		"ok":    true,
		"reply": reply,
	})
}

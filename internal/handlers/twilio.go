package handlers

import (
	"github.com/dialforge/backend/internal/twilio"
	"github.com/gofiber/fiber/v2"
)

type TwilioHandler struct{}

func NewTwilioHandler() *TwilioHandler {
	return &TwilioHandler{}
}

// Say is the webhook the voice gateway fetches once a call connects. It
// answers with a TwiML document speaking the script passed in the text
// parameter.
func (h *TwilioHandler) Say(c *fiber.Ctx) error {
	text := c.Query("text")
	if text == "" {
		text = c.FormValue("text")
	}

	doc, err := twilio.SayDocument(text)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("could not render voice response")
	}

	c.Set(fiber.HeaderContentType, "text/xml")
	return c.Send(doc)
}

package handlers

import (
	"github.com/dialforge/backend/internal/config"
	"github.com/dialforge/backend/internal/gateway"
	"github.com/dialforge/backend/internal/history"
	"github.com/dialforge/backend/internal/middleware"
	"github.com/dialforge/backend/internal/quota"
	"github.com/dialforge/backend/internal/stats"
	"github.com/dialforge/backend/internal/telemetry"
	"github.com/gofiber/fiber/v2"
)

// Services bundles everything the route table needs
type Services struct {
	Cfg     *config.Config
	Ledger  *quota.Ledger
	History *history.Log
	Tracker *telemetry.Tracker
	Stats   *stats.Service
	Gateway *gateway.Gateway
	Chat    ChatService
}

// SetupRoutes mounts the full API surface on the app
func SetupRoutes(app *fiber.App, s *Services) {
	authHandler := NewAuthHandler(s.Cfg)
	userHandler := NewUserHandler(s.Ledger, s.History)
	aiHandler := NewAIHandler(s.Gateway, s.Chat)
	adminHandler := NewAdminHandler(s.Stats, s.Tracker)
	twilioHandler := NewTwilioHandler()

	// Every request under /api and /auth feeds the endpoint counters
	app.Use(middleware.TrackEndpoints(s.Tracker))

	// Public routes
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/logout", authHandler.Logout)

	// Twilio fetches this as a webhook, there is no session to check
	app.Post("/twilio/say", twilioHandler.Say)

	// Authenticated routes
	app.Get("/auth/main", middleware.Protected(s.Cfg), authHandler.Main)

	api := app.Group("/api", middleware.Protected(s.Cfg))
	api.Get("/user/stats", userHandler.Stats)
	api.Get("/user/call-history", userHandler.CallHistory)
	api.Post("/ai/call", aiHandler.Call)
	api.Post("/ai/chat", aiHandler.Chat)

	// Admin routes
	admin := api.Group("/admin", middleware.AdminOnly())
	admin.Get("/users", adminHandler.Users)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/endpoint-stats", adminHandler.EndpointStats)
}

package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dialforge/backend/internal/config"
	"github.com/dialforge/backend/internal/database"
	"github.com/dialforge/backend/internal/gateway"
	"github.com/dialforge/backend/internal/handlers"
	"github.com/dialforge/backend/internal/history"
	"github.com/dialforge/backend/internal/llm"
	"github.com/dialforge/backend/internal/middleware"
	"github.com/dialforge/backend/internal/models"
	"github.com/dialforge/backend/internal/quota"
	"github.com/dialforge/backend/internal/stats"
	"github.com/dialforge/backend/internal/telemetry"
	"github.com/dialforge/backend/internal/twilio"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load .env in development; a missing file is fine
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := models.AutoMigrate(database.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seedAdminUser()

	// Wire up services and collaborators
	limit := int64(cfg.APICallLimit)
	ledger := quota.NewLedger(database.DB, limit)
	callLog := history.NewLog(database.DB)
	tracker := telemetry.NewTracker(database.DB)
	statsService := stats.NewService(database.DB, limit)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	twilioClient := twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.TwilioVoiceURL)
	callGateway := gateway.New(database.DB, ledger, callLog, llmClient, twilioClient)

	app := fiber.New(fiber.Config{
		AppName:      "DialForge API v1.0",
		ServerHeader: "DialForge",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"ok":    false,
				"error": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigin))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "dialforge-api",
		})
	})

	handlers.SetupRoutes(app, &handlers.Services{
		Cfg:     cfg,
		Ledger:  ledger,
		History: callLog,
		Tracker: tracker,
		Stats:   statsService,
		Gateway: callGateway,
		Chat:    llmClient,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	log.Printf("API listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// seedAdminUser creates the initial admin account when none exists
func seedAdminUser() {
	var count int64
	database.DB.Model(&models.Account{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("No admin account found and ADMIN_EMAIL/ADMIN_PASSWORD not set - skipping admin seed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.Account{
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return
	}
	log.Printf("Seeded admin account %s", email)
}

package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dialforge/backend/internal/config"
	"github.com/dialforge/backend/internal/database"
	"github.com/dialforge/backend/internal/middleware"
	"github.com/dialforge/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// CredentialsRequest is the body for register and login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func accountSummary(account *models.Account) fiber.Map {
	return fiber.Map{
		"id":           account.ID,
		"email":        account.Email,
		"role":         account.Role,
		"apiCallsUsed": account.APICallsUsed,
		"createdAt":    account.CreatedAt,
		"lastLogin":    account.LastLogin,
	}
}

// Register creates a new account with the user role
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "invalid request body",
		})
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "email and password are required",
		})
	}
	if !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "invalid email address",
		})
	}
	if h.cfg.PasswordMinLength > 0 && len(req.Password) < h.cfg.PasswordMinLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": fmt.Sprintf("password must be at least %d characters", h.cfg.PasswordMinLength),
		})
	}

	var existing models.Account
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"ok":    false,
			"error": "email already registered",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "internal server error",
		})
	}

	account := models.Account{
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := database.DB.Create(&account).Error; err != nil {
		// A concurrent registration can still trip the unique index; only
		// report a conflict when the email actually exists now
		var dup models.Account
		if database.DB.Where("email = ?", req.Email).First(&dup).Error == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"ok":    false,
				"error": "email already registered",
			})
		}
		log.Printf("Failed to create account for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":   true,
		"user": accountSummary(&account),
	})
}

// Login authenticates an account and issues the session cookie
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "email and password are required",
		})
	}

	// Unknown email and wrong password produce the same answer
	var account models.Account
	if err := database.DB.Where("email = ?", req.Email).First(&account).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":    false,
			"error": "invalid credentials",
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":    false,
			"error": "invalid credentials",
		})
	}

	token, err := middleware.GenerateToken(&account, h.cfg)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "failed to generate token",
		})
	}

	now := time.Now().UTC()
	if err := database.DB.Model(&account).Update("last_login", now).Error; err != nil {
		log.Printf("Failed to update last login for user %d: %v", account.ID, err)
	}
	account.LastLogin = &now

	c.Cookie(middleware.SessionCookie(token, h.cfg))

	return c.JSON(fiber.Map{
		"ok":   true,
		"user": accountSummary(&account),
	})
}

// Logout revokes the session token and clears the cookie. It is deliberately
// unauthenticated: a stale or already-invalid cookie still gets cleared.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if tokenString := c.Cookies(middleware.TokenCookie); tokenString != "" {
		if ttl := remainingTokenTTL(tokenString, h.cfg.JWTSecret); ttl > 0 {
			if err := database.BlacklistToken(tokenString, ttl); err != nil {
				// Cookie clearing below still logs the browser out
				c.Cookie(middleware.ClearedSessionCookie(h.cfg))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"ok":    false,
					"error": "failed to revoke session",
				})
			}
		}
	}

	c.Cookie(middleware.ClearedSessionCookie(h.cfg))

	return c.JSON(fiber.Map{"ok": true})
}

// Main returns the current account summary
func (h *AuthHandler) Main(c *fiber.Ctx) error {
	account := middleware.CurrentAccount(c)
	if account == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":    false,
			"error": "unauthorized",
		})
	}

	return c.JSON(fiber.Map{
		"ok":   true,
		"user": accountSummary(account),
	})
}

// remainingTokenTTL returns how long a token stays valid, or 0 for tokens
// that are expired or unparseable and need no blacklist entry.
func remainingTokenTTL(tokenString, secret string) time.Duration {
	token, err := jwt.ParseWithClaims(tokenString, &middleware.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0
	}
	claims, ok := token.Claims.(*middleware.JWTClaims)
	if !ok || claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}

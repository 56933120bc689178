package middleware

import (
	"time"

	"github.com/dialforge/backend/internal/config"
	"github.com/dialforge/backend/internal/database"
	"github.com/dialforge/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie the session token travels in
const TokenCookie = "token"

// JWTClaims represents JWT token claims
type JWTClaims struct {
	UserID uint        `json:"uid"`
	Role   models.Role `json:"role"`
	Email  string      `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken generates a new JWT token for an account
func GenerateToken(account *models.Account, cfg *config.Config) (string, error) {
	claims := JWTClaims{
		UserID: account.ID,
		Role:   account.Role,
		Email:  account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.JWTExpire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// SessionCookie builds the HTTP-only cookie carrying the token
func SessionCookie(token string, cfg *config.Config) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.JWTExpire.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: "Lax",
	}
}

// ClearedSessionCookie builds the expired cookie sent on logout
func ClearedSessionCookie(cfg *config.Config) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: "Lax",
	}
}

// Protected validates the session cookie and loads the account
func Protected(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(TokenCookie)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "unauthorized",
			})
		}

		// Check if token is blacklisted (user logged out)
		if database.IsTokenBlacklisted(tokenString) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "invalid",
			})
		}

		// Parse and validate token
		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "invalid",
			})
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "invalid",
			})
		}

		// The account may have been removed since the token was issued
		var account models.Account
		if err := database.DB.First(&account, claims.UserID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "user not found",
			})
		}

		c.Locals("account", &account)
		c.Locals("accountID", claims.UserID)
		c.Locals("role", account.Role)
		c.Locals("token", tokenString)

		return c.Next()
	}
}

// AdminOnly restricts a route to admin accounts
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(models.Role)
		if !ok || role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"ok":    false,
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}

// CurrentAccount returns the authenticated account from context
func CurrentAccount(c *fiber.Ctx) *models.Account {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return nil
	}
	return account
}

// CurrentToken returns the raw session token from context
func CurrentToken(c *fiber.Ctx) string {
	token, ok := c.Locals("token").(string)
	if !ok {
		return ""
	}
	return token
}

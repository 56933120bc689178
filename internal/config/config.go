package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// Redis
	RedisHost     string
	RedisPort     int
	RedisPassword string

	// JWT
	JWTSecret    string
	JWTExpire    time.Duration
	CookieSecure bool

	// API
	APIPort    int
	CORSOrigin string

	// Quota
	APICallLimit int

	// Registration. 0 disables the length check entirely.
	PasswordMinLength int

	// LLM
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Twilio
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	// Publicly reachable URL Twilio fetches for TwiML (the /twilio/say webhook).
	TwilioVoiceURL string
}

// generateSecureSecret generates a cryptographically secure random secret
func generateSecureSecret(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a hostname-based value if crypto/rand fails
		return hex.EncodeToString([]byte(os.Getenv("HOSTNAME") + string(rune(length))))
	}
	return hex.EncodeToString(bytes)
}

func Load() *Config {
	// JWT Secret - generate random if not provided
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = generateSecureSecret(32) // 64 character hex string
		log.Println("WARNING: JWT_SECRET not set - generated random secret. Sessions will not persist across restarts.")
	}

	dbPassword := getEnv("DB_PASSWORD", "")
	if dbPassword == "" {
		log.Println("WARNING: DB_PASSWORD not set - this is insecure for production!")
		dbPassword = "changeme"
	}

	redisPassword := getEnv("REDIS_PASSWORD", "")
	if redisPassword == "" {
		log.Println("WARNING: REDIS_PASSWORD not set - Redis is not secured!")
	}

	if os.Getenv("TWILIO_ACCOUNT_SID") == "" {
		log.Println("WARNING: TWILIO_ACCOUNT_SID not set - voice calls will be simulated")
	}
	if os.Getenv("LLM_API_KEY") == "" {
		log.Println("WARNING: LLM_API_KEY not set - script generation will fall back to the user script")
	}

	return &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "dialforge"),
		DBPassword: dbPassword,
		DBName:     getEnv("DB_NAME", "dialforge"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisPassword: redisPassword,

		// JWT
		JWTSecret:    jwtSecret,
		JWTExpire:    time.Duration(getEnvInt("JWT_EXPIRE_MINUTES", 60)) * time.Minute,
		CookieSecure: getEnvBool("COOKIE_SECURE", false),

		// API
		APIPort:    getEnvInt("API_PORT", 3000),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5500"),

		// Quota
		APICallLimit: getEnvInt("API_CALL_LIMIT", 20),

		// Registration
		PasswordMinLength: getEnvInt("PASSWORD_MIN_LENGTH", 8),

		// LLM
		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:  getEnv("LLM_API_KEY", ""),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout: time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,

		// Twilio
		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		TwilioVoiceURL:   getEnv("TWILIO_VOICE_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

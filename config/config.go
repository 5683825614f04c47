package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// Config reads an environment variable by key.
func Config(key string) string {
	return os.Getenv(key)
}

func ConfigOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ConfigInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// TokenTTLHours is the bearer token lifetime. Default 7 days.
func TokenTTLHours() int {
	return ConfigInt("TOKEN_TTL_HOURS", 168)
}

// OTPTTLMinutes is the one-time-code validity window.
func OTPTTLMinutes() int {
	return ConfigInt("OTP_TTL_MINUTES", 10)
}

// AuthMode selects the login flow: "otp" (default) or "password".
func AuthMode() string {
	return ConfigOr("AUTH_MODE", "otp")
}

// Package config loads service configuration from the environment, with
// optional .env support for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"unishop/internal/logger"
)

// Config holds everything main needs to wire the service.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// RedisAddr enables the Redis storage backend when non-empty;
	// otherwise the in-memory store is used.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// JWTSecret signs session tokens.
	JWTSecret string
	// AdminEmail is the seeded administrator account.
	AdminEmail string
	// AdminPassword is the seeded administrator password. Mock credential,
	// not a security boundary.
	AdminPassword string
	// PaymentDelay is the simulated payment latency before an order is
	// created.
	PaymentDelay time.Duration
	// RolloutKey is the feature-flag SDK key (may be empty).
	RolloutKey string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration. A missing .env file is not an error.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warnf("config: .env not loaded: %v", err)
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	delay := 1500 * time.Millisecond
	if v := os.Getenv("PAYMENT_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			delay = time.Duration(n) * time.Millisecond
		}
	}

	return Config{
		Addr:          envOr("ADDR", ":8080"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		JWTSecret:     envOr("JWT_SECRET", "unishop-dev-secret"),
		AdminEmail:    envOr("ADMIN_EMAIL", "admin@unishop.com"),
		AdminPassword: envOr("ADMIN_PASSWORD", "admin123"),
		PaymentDelay:  delay,
		RolloutKey:    os.Getenv("ROX_API_KEY"),
	}
}

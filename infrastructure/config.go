package infrastructure

import (
	"fmt"
	"os"
	"strconv"
)

// Config is read from the environment once at startup. cmd loads .env
// before calling LoadConfig.
type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	SecretKey   string
	BcryptCost  int
	RabbitMQURL string
	LogLevel    string
	GinMode     string

	// AuthRatePerMinute caps /auth requests per client IP.
	AuthRatePerMinute int

	// AdminUsername and AdminPassword seed an admin account when both are set.
	AdminUsername string
	AdminPassword string
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Env:           getenv("APP_ENV", "development"),
		Port:          getenv("PORT", "3001"),
		SecretKey:     getenv("SECRET_KEY", "secret-dev"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		GinMode:       getenv("GIN_MODE", "release"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.Env == "test" {
		cfg.DatabaseURL = getenv("DATABASE_URL", "postgresql:///jobly_test")
	} else {
		cfg.DatabaseURL = getenv("DATABASE_URL", "postgresql:///jobly")
	}

	// Speed up tests by keeping the work factor low.
	defaultCost := "12"
	if cfg.Env == "test" {
		defaultCost = "4"
	}

	var err error
	if cfg.BcryptCost, err = strconv.Atoi(getenv("BCRYPT_WORK_FACTOR", defaultCost)); err != nil {
		return Config{}, fmt.Errorf("BCRYPT_WORK_FACTOR: %w", err)
	}
	if cfg.AuthRatePerMinute, err = strconv.Atoi(getenv("AUTH_RATE_LIMIT", "30")); err != nil {
		return Config{}, fmt.Errorf("AUTH_RATE_LIMIT: %w", err)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

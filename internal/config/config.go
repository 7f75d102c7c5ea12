package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSecret = "pharmacy-management-dev-secret-change-me-before-deploying-anywhere"

// Config holds application configuration values.
type Config struct {
	Env         string
	LogLevel    string
	HTTPPort    string
	DatabaseDSN string
	CORSOrigins []string

	JWTSecret     string
	JWTExpiration time.Duration

	AdminUsername string
	AdminPassword string
	AdminEmail    string

	SeedMedicinesCSV string
}

// Development reports whether the service runs with developer conveniences
// such as console logging.
func (c Config) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "production"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "file:pharmacy.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"),
		CORSOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		JWTSecret:        getEnv("JWT_SECRET", defaultSecret),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", "admin123"),
		AdminEmail:       getEnv("ADMIN_EMAIL", "admin@pharmacy.com"),
		SeedMedicinesCSV: os.Getenv("SEED_MEDICINES_CSV"),
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_PORT value %q: %w", cfg.HTTPPort, err)
	}

	ms, err := strconv.ParseInt(getEnv("JWT_EXPIRATION_MS", "86400000"), 10, 64)
	if err != nil || ms <= 0 {
		return Config{}, fmt.Errorf("invalid JWT_EXPIRATION_MS value %q", os.Getenv("JWT_EXPIRATION_MS"))
	}
	cfg.JWTExpiration = time.Duration(ms) * time.Millisecond

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be blank")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

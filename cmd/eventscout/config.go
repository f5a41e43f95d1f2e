package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DatabaseURL    string
	Addr           string
	AllowedOrigins []string

	LogLevel  string
	LogFormat string

	IntentServiceURL string
	IntentTimeout    time.Duration
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return Config{}, errors.New("DATABASE_URL env var is required")
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8080"))

	origins := parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	intentTimeout, err := time.ParseDuration(envOrDefault("INTENT_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INTENT_TIMEOUT: %w", err)
	}

	return Config{
		DatabaseURL:      dsn,
		Addr:             addr,
		AllowedOrigins:   origins,
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		IntentServiceURL: envOrDefault("INTENT_SERVICE_URL", "http://localhost:8000"),
		IntentTimeout:    intentTimeout,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

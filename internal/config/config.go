package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/neomorfeo/orderguard/internal/adapter/otel"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Port              string
	DatabasePath      string
	SessionSecret     string
	SessionIssuer     string
	SessionTTL        time.Duration
	SeedDemoData      bool
	StatusMaxAttempts int
	LogFormat         string // "json" or "text"
	KnownTenants      []string
	OTel              otel.Config
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	environment := valueOrDefault(k.String("OTEL_ENVIRONMENT"), "development")

	cfg := &Config{
		Port:              valueOrDefault(k.String("PORT"), "8080"),
		DatabasePath:      valueOrDefault(k.String("DATABASE_PATH"), "orderguard.db"),
		SessionSecret:     valueOrDefault(k.String("SESSION_SECRET"), "orderguard-dev-secret"),
		SessionIssuer:     valueOrDefault(k.String("SESSION_ISSUER"), "orderguard"),
		SessionTTL:        parseDuration(k.String("SESSION_TTL"), "12h"),
		SeedDemoData:      parseBool(valueOrDefault(k.String("SEED_DEMO_DATA"), "true")),
		StatusMaxAttempts: parseInt(k.String("STATUS_MAX_ATTEMPTS"), 3),
		LogFormat:         strings.ToLower(valueOrDefault(k.String("LOG_FORMAT"), "text")),
		KnownTenants:      splitAndTrim(valueOrDefault(k.String("KNOWN_TENANTS"), "tenantA,tenantB")),
		OTel: otel.Config{
			ServiceName:    valueOrDefault(k.String("OTEL_SERVICE_NAME"), "orderguard"),
			ServiceVersion: valueOrDefault(k.String("OTEL_SERVICE_VERSION"), "0.1.0"),
			Environment:    environment,
			Exporter:       valueOrDefault(k.String("OTEL_EXPORTER"), "stdout"),
			Insecure:       environment == "development",
		},
	}

	if cfg.StatusMaxAttempts < 1 {
		return nil, errors.New("STATUS_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	if environment == "production" && k.String("SESSION_SECRET") == "" {
		return nil, errors.New("SESSION_SECRET is required in production")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

// ReminderConfig controls the overdue reminder worker.
type ReminderConfig struct {
	Enabled      bool
	PollInterval time.Duration
	// Cooldown is the minimum gap between reminders to the same resident.
	Cooldown   time.Duration
	WebhookURL string
}

// TracingConfig controls the OTLP trace exporter.
type TracingConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

// Config is the full service configuration.
type Config struct {
	Environment    string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	DatabaseDSN    string
	SeedDemoData   bool
	Reminder       ReminderConfig
	Tracing        TracingConfig
}

// Load reads configuration from the environment, after loading a .env file
// when one exists (development convenience; missing files are not an error).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:    getString("ENVIRONMENT", "development"),
		ServiceName:    getString("SERVICE_NAME", "messpro"),
		ServiceVersion: getString("SERVICE_VERSION", "dev"),
		HTTPAddr:       getString("HTTP_ADDR", ":8080"),
		DatabaseDSN:    getString("DATABASE_DSN", "file:messpro.db?_fk=1"),
		SeedDemoData:   getBool("SEED_DEMO_DATA", false),
		Reminder: ReminderConfig{
			Enabled:      getBool("REMINDER_ENABLED", false),
			PollInterval: getDuration("REMINDER_POLL_INTERVAL", 1*time.Hour),
			Cooldown:     getDuration("REMINDER_COOLDOWN", 24*time.Hour),
			WebhookURL:   getString("REMINDER_WEBHOOK_URL", ""),
		},
		Tracing: TracingConfig{
			Enabled:       getBool("TRACING_ENABLED", false),
			Endpoint:      getString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Protocol:      getString("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			SamplingRatio: getFloat("TRACING_SAMPLING_RATIO", 0.1),
		},
	}
	return cfg, nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultWebhookSecret is the placeholder used when WEBHOOK_SECRET is unset.
// It must never be used in a production deployment.
const DefaultWebhookSecret = "default-secret-change-in-production"

// Config holds configuration knobs, all sourced from the environment once at
// startup.
type Config struct {
	HTTPAddr        string
	DatabaseURL     string // empty selects the in-memory store
	KafkaBrokers    []string
	RedisAddr       string // empty selects the in-memory replay guard
	WebhookSecret   string
	ReplayTTL       time.Duration
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load collects configuration from environment with defaults.
func Load() Config {
	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		KafkaBrokers:    brokers,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		WebhookSecret:   getenv("WEBHOOK_SECRET", DefaultWebhookSecret),
		ReplayTTL:       time.Duration(atoienv("WEBHOOK_REPLAY_TTL_HOURS", 24)) * time.Hour,
		ShutdownTimeout: time.Duration(atoienv("SHUTDOWN_TIMEOUT", 15)) * time.Second,
	}
}

// UsingDefaultSecret reports whether the placeholder secret is in effect.
func (c Config) UsingDefaultSecret() bool {
	return c.WebhookSecret == DefaultWebhookSecret
}

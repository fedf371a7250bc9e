// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bulletform/bulletform-api/internal/constants"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    int
	BaseURL string

	// Key-value store. Empty means an in-process store (local
	// development only; counters do not survive restarts and are not
	// shared across instances).
	KVURL string

	// Purchase webhook
	WebhookSecret string

	// Payment vendor product variants mapped to tiers
	VariantIDBasic    int64
	VariantIDLifetime int64

	// Text-generation collaborator (OpenAI-compatible)
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// CORS
	CORSOrigins []string

	// Rate limiting
	GlobalIPRatePerMinute int
	GenerateRatePerMinute int
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnvInt("PORT", 8080),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		KVURL: getEnv("KV_URL", os.Getenv("REDIS_URL")),

		WebhookSecret: getEnv("PURCHASE_WEBHOOK_SECRET", ""),

		VariantIDBasic:    getEnvInt64("VARIANT_ID_BASIC", 0),
		VariantIDLifetime: getEnvInt64("VARIANT_ID_LIFETIME", 0),

		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:  getEnv("LLM_API_KEY", ""),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout: getEnvDuration("LLM_TIMEOUT", 120*time.Second),

		CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),

		GlobalIPRatePerMinute: getEnvInt("GLOBAL_IP_RATE_PER_MINUTE", constants.GlobalIPRateLimitPerMinute),
		GenerateRatePerMinute: getEnvInt("GENERATE_RATE_PER_MINUTE", constants.GenerateRateLimitPerMinute),
	}

	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("PURCHASE_WEBHOOK_SECRET is required")
	}
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}

	return cfg, nil
}

// VariantTiers returns the configured variant-to-tier mapping. Variants
// left unset (0) are omitted, so their orders are acknowledged without
// creating a license.
func (c *Config) VariantTiers() map[int64]string {
	m := make(map[int64]string, 2)
	if c.VariantIDBasic != 0 {
		m[c.VariantIDBasic] = constants.TierBasic
	}
	if c.VariantIDLifetime != 0 {
		m[c.VariantIDLifetime] = constants.TierLifetime
	}
	return m
}

// HasKVStore reports whether an external key-value store is configured.
func (c *Config) HasKVStore() bool {
	return c.KVURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

package config

import (
	"os"
	"time"
)

const placeholderAPIKey = "your-gemini-api-key-here"

type Config struct {
	Port               string
	GeminiAPIKey       string
	AdminKey           string
	ModelName          string
	DailyFreeLimit     int
	VisionTimeout      time.Duration
	UsageRetention     time.Duration
	UsagePruneInterval time.Duration
	MaxImageBytes      int64
}

func NewConfig() *Config {
	return &Config{
		Port:               envOr("PORT", "3000"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		AdminKey:           os.Getenv("ADMIN_KEY"),
		ModelName:          envOr("GEMINI_MODEL", "gemini-1.5-flash"),
		DailyFreeLimit:     3,
		VisionTimeout:      30 * time.Second,
		UsageRetention:     48 * time.Hour,
		UsagePruneInterval: 1 * time.Hour,
		MaxImageBytes:      10 << 20,
	}
}

// HasValidAPIKey reports whether a usable model credential is configured.
// The placeholder value from the example .env counts as unconfigured.
func (c *Config) HasValidAPIKey() bool {
	return c.GeminiAPIKey != "" && c.GeminiAPIKey != placeholderAPIKey
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

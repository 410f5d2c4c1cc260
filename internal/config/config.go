// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible defaults.
// In Go, we typically use structs to hold configuration, and a function to
// load values from environment variables. Go keeps this explicit — no
// framework magic, every key is visible right here.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultSessionSecret = "dev-session-secret-change-in-production"

// Config holds all application configuration.
// Go Pattern: We use exported (capitalized) fields so other packages can read them.
type Config struct {
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Session cookie signing
	SessionSecret string
	SessionTTL    time.Duration

	// Upload limits
	MaxUploadMB int64 // Maximum PDF upload size in megabytes

	// Rate limiting
	DefaultRateLimit int // Requests per hour per client on the API group

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
//
// Go Pattern: Functions that can fail return (value, error). This is Go's
// alternative to exceptions — the caller MUST handle the error. You'll see
// this pattern everywhere in Go: `result, err := doSomething()`.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// Session cookie signing
		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,

		// Uploads — a scanned contract can be large, but 50 MB is plenty
		MaxUploadMB: int64(getEnvInt("MAX_UPLOAD_MB", 50)),

		// Rate limiting
		DefaultRateLimit: getEnvInt("DEFAULT_RATE_LIMIT", 100),

		// CORS — only affects the JSON API; the HTML form is same-origin.
		// In production, set this to the consuming frontend's URL.
		AllowedOrigins: []string{
			getEnv("CORS_ORIGIN", "http://localhost:3000"),
		},
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}

	// Security: the session secret MUST be set in production mode.
	// In release mode, we refuse to start with the default secret.
	if cfg.GinMode == "release" && cfg.SessionSecret == defaultSessionSecret {
		return nil, fmt.Errorf("SESSION_SECRET must be set in production; refusing to start with default secret")
	}

	return cfg, nil
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// UsingDefaultSecret reports whether the cookie signing key is still the
// development default. Load already refuses this in release mode; debug
// mode just warns.
func (c *Config) UsingDefaultSecret() bool {
	return c.SessionSecret == defaultSessionSecret
}

// getEnv reads an environment variable with a fallback default.
// Go Pattern: Small helper functions are idiomatic. Go favors simple,
// composable functions over complex frameworks.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}

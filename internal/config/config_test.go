package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("GIN_MODE", "test")
	t.Setenv("SESSION_SECRET", "unit-test-secret")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("DEFAULT_RATE_LIMIT", "7")
	t.Setenv("CORS_ORIGIN", "https://example.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.SessionSecret != "unit-test-secret" {
		t.Errorf("SessionSecret = %q", cfg.SessionSecret)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL = %v, want 5m", cfg.SessionTTL)
	}
	if cfg.MaxUploadMB != 10 {
		t.Errorf("MaxUploadMB = %d, want 10", cfg.MaxUploadMB)
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", cfg.MaxUploadBytes(), 10<<20)
	}
	if cfg.DefaultRateLimit != 7 {
		t.Errorf("DefaultRateLimit = %d, want 7", cfg.DefaultRateLimit)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://example.test" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadReleaseModeRequiresSecret(t *testing.T) {
	// t.Setenv registers the restore; Unsetenv makes the key truly absent.
	t.Setenv("SESSION_SECRET", "")
	os.Unsetenv("SESSION_SECRET")
	t.Setenv("GIN_MODE", "release")

	if _, err := Load(); err == nil {
		t.Error("Load() in release mode accepted the default session secret")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("SESSION_SECRET", "unit-test-secret")

	t.Run("negative ttl", func(t *testing.T) {
		t.Setenv("SESSION_TTL_MINUTES", "-5")
		if _, err := Load(); err == nil {
			t.Error("Load() accepted a negative session TTL")
		}
	})

	t.Run("zero upload cap", func(t *testing.T) {
		t.Setenv("SESSION_TTL_MINUTES", "60")
		t.Setenv("MAX_UPLOAD_MB", "0")
		if _, err := Load(); err == nil {
			t.Error("Load() accepted a zero upload cap")
		}
	})
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "42")
	if got := getEnvInt("CFG_TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt(set) = %d, want 42", got)
	}
	t.Setenv("CFG_TEST_INT", "not-a-number")
	if got := getEnvInt("CFG_TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt(unparsable) = %d, want fallback 7", got)
	}
	if got := getEnvInt("CFG_TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("getEnvInt(missing) = %d, want fallback 7", got)
	}
}

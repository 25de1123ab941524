package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_RequiresUpstreamBaseURL(t *testing.T) {
	setEnv(t, "UPSTREAM_BASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when UPSTREAM_BASE_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "UPSTREAM_BASE_URL", "http://localhost:5000/api")
	setEnv(t, "ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.UpstreamTimeoutSec != 15 {
		t.Errorf("expected default upstream timeout 15s, got %d", cfg.UpstreamTimeoutSec)
	}
	if cfg.SessionTTLMin != 480 {
		t.Errorf("expected default session TTL 480 min, got %d", cfg.SessionTTLMin)
	}
	if cfg.SessionSecret == "" {
		t.Error("expected a development fallback session secret")
	}
	if !cfg.DevSecret {
		t.Error("expected DevSecret to flag the fallback secret")
	}
	if !cfg.IsDev() {
		t.Error("expected IsDev to be true")
	}
}

func TestLoad_ExplicitSecretClearsDevFlag(t *testing.T) {
	setEnv(t, "UPSTREAM_BASE_URL", "http://localhost:5000/api")
	setEnv(t, "ENV", "development")
	setEnv(t, "SESSION_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DevSecret {
		t.Error("DevSecret should not be set when SESSION_SECRET is provided")
	}
	if cfg.SessionSecret != "0123456789abcdef0123456789abcdef" {
		t.Errorf("secret = %q", cfg.SessionSecret)
	}
}

func TestValidate_BadUpstreamURL(t *testing.T) {
	cfg := &Config{
		Env:                "development",
		UpstreamBaseURL:    "not-a-url",
		SessionSecret:      "x",
		UpstreamTimeoutSec: 15,
		SessionTTLMin:      480,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid upstream URL")
	}

	cfg.UpstreamBaseURL = "ftp://example.com"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-http scheme")
	}
}

func TestValidate_ProductionSecret(t *testing.T) {
	cfg := &Config{
		Env:                "production",
		UpstreamBaseURL:    "https://api.clinic.example.com",
		UpstreamTimeoutSec: 15,
		SessionTTLMin:      480,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing production session secret")
	}

	cfg.SessionSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short production session secret")
	}

	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_Durations(t *testing.T) {
	cfg := &Config{
		Env:                "development",
		UpstreamBaseURL:    "http://localhost:5000",
		SessionSecret:      "dev",
		UpstreamTimeoutSec: 0,
		SessionTTLMin:      480,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero upstream timeout")
	}

	cfg.UpstreamTimeoutSec = 15
	cfg.UpstreamRetries = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative retries")
	}
}

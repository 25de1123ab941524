package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string   `mapstructure:"PORT"`
	Env                string   `mapstructure:"ENV"`
	UpstreamBaseURL    string   `mapstructure:"UPSTREAM_BASE_URL"`
	UpstreamTimeoutSec int      `mapstructure:"UPSTREAM_TIMEOUT_SEC"`
	UpstreamRetries    int      `mapstructure:"UPSTREAM_RETRIES"`
	SessionSecret      string   `mapstructure:"SESSION_SECRET"`
	SessionTTLMin      int      `mapstructure:"SESSION_TTL_MIN"`
	RedisURL           string   `mapstructure:"REDIS_URL"`
	CORSOrigins        []string `mapstructure:"CORS_ORIGINS"`
	ClinicName         string   `mapstructure:"CLINIC_NAME"`

	// DevSecret is set when Load substituted the built-in development
	// session secret; callers should warn about it on their own logger.
	DevSecret bool `mapstructure:"-"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("UPSTREAM_TIMEOUT_SEC", 15)
	v.SetDefault("UPSTREAM_RETRIES", 2)
	v.SetDefault("SESSION_TTL_MIN", 480)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("CLINIC_NAME", "VM Mother and Child Clinic")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("UPSTREAM_BASE_URL")
	v.BindEnv("UPSTREAM_TIMEOUT_SEC")
	v.BindEnv("UPSTREAM_RETRIES")
	v.BindEnv("SESSION_SECRET")
	v.BindEnv("SESSION_TTL_MIN")
	v.BindEnv("REDIS_URL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("CLINIC_NAME")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL is required")
	}

	if cfg.IsDev() && cfg.SessionSecret == "" {
		cfg.SessionSecret = "dev-session-secret-not-for-production"
		cfg.DevSecret = true
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UpstreamTimeout returns the upstream request timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSec) * time.Second
}

// SessionTTL returns the session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMin) * time.Minute
}

// Validate checks that the configuration is safe to run. The upstream base
// URL must parse, and outside development a real session secret is required.
func (c *Config) Validate() error {
	u, err := url.Parse(c.UpstreamBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL %q is not a valid absolute URL", c.UpstreamBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("UPSTREAM_BASE_URL scheme must be http or https, got %q", u.Scheme)
	}

	if !c.IsDev() {
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required when ENV is not development")
		}
		if len(c.SessionSecret) < 32 {
			return fmt.Errorf("SESSION_SECRET must be at least 32 characters, got %d", len(c.SessionSecret))
		}
	}

	if c.UpstreamTimeoutSec <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SEC must be positive, got %d", c.UpstreamTimeoutSec)
	}
	if c.UpstreamRetries < 0 {
		return fmt.Errorf("UPSTREAM_RETRIES must not be negative, got %d", c.UpstreamRetries)
	}
	if c.SessionTTLMin <= 0 {
		return fmt.Errorf("SESSION_TTL_MIN must be positive, got %d", c.SessionTTLMin)
	}

	return nil
}

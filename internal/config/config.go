// Package config loads process configuration from the environment, with an
// optional .env file for development. Per-installation scheduling settings
// live in domain.Settings, not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Env names the deployment mode.
type Env string

const (
	EnvDevelopment Env = "development"
	EnvProduction  Env = "production"
)

// Config is the full process configuration.
type Config struct {
	Env       Env
	DBPath    string
	Addr      string
	PublicURL string
	LogsDir   string

	// Upstream project service.
	TrackerBaseURL    string
	TrackerAppID      string
	TrackerPrivateKey []byte // PEM
	WebhookSecret     string

	// API surface.
	SessionSecret string

	// TokenKey is the raw secret the AES key is derived from (SHA-256).
	TokenKey string

	// Billing provider.
	BillingSecret        string
	BillingWebhookSecret string

	// PastDueCron is the sweep schedule; empty disables the job.
	PastDueCron string
}

// Production reports whether the process runs in production mode.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// Load reads .env (ignored when absent) and the environment. In production,
// missing webhook, session, or token secrets are a fatal configuration
// error; development falls back to deterministic values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env from working directory")
	}

	cfg := &Config{
		Env:                  Env(getEnv("AUTOPLAN_ENV", string(EnvDevelopment))),
		DBPath:               os.Getenv("AUTOPLAN_DB"),
		Addr:                 getEnv("AUTOPLAN_ADDR", ":8080"),
		PublicURL:            os.Getenv("PUBLIC_URL"),
		LogsDir:              os.Getenv("LOGS_DIR"),
		TrackerBaseURL:       getEnv("TRACKER_BASE_URL", "https://api.github.com"),
		TrackerAppID:         os.Getenv("TRACKER_APP_ID"),
		WebhookSecret:        os.Getenv("TRACKER_WEBHOOK_SECRET"),
		SessionSecret:        os.Getenv("SESSION_SECRET"),
		TokenKey:             os.Getenv("TOKEN_KEY"),
		BillingSecret:        os.Getenv("BILLING_SECRET"),
		BillingWebhookSecret: os.Getenv("BILLING_WEBHOOK_SECRET"),
		PastDueCron:          getEnv("PAST_DUE_CRON", "0 3 * * *"),
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".autoplan", "autoplan.db")
	}

	if key, err := loadPrivateKey(os.Getenv("TRACKER_PRIVATE_KEY")); err != nil {
		return nil, err
	} else {
		cfg.TrackerPrivateKey = key
	}

	if cfg.Production() {
		var missing []string
		for name, value := range map[string]string{
			"TRACKER_WEBHOOK_SECRET": cfg.WebhookSecret,
			"SESSION_SECRET":         cfg.SessionSecret,
			"TOKEN_KEY":              cfg.TokenKey,
		} {
			if value == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing required configuration in production: %s", strings.Join(missing, ", "))
		}
	} else {
		// Deterministic development fallbacks; never used in production.
		if cfg.WebhookSecret == "" {
			cfg.WebhookSecret = "dev-webhook-secret"
		}
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = "dev-session-secret"
		}
		if cfg.TokenKey == "" {
			cfg.TokenKey = "dev-token-key"
		}
	}

	return cfg, nil
}

// loadPrivateKey accepts either inline PEM or a path to a PEM file.
func loadPrivateKey(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	if strings.Contains(value, "-----BEGIN") {
		return []byte(value), nil
	}
	pem, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("reading tracker private key %q: %w", value, err)
	}
	return pem, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"RCMS_DB_PATH" envDefault:"./data/rcms.db"`
	SessionSecret string `env:"RCMS_SESSION_SECRET,required"`
	ServerHost    string `env:"RCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"RCMS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"RCMS_ENV" envDefault:"development"`
	LogLevel      string `env:"RCMS_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"RCMS_UPLOADS_DIR" envDefault:"./uploads"`

	// SiteURL is the public base URL, used in sitemap.xml, robots.txt
	// and canonical links.
	SiteURL string `env:"RCMS_SITE_URL" envDefault:"http://localhost:8080"`
	// SecurityContact enables /.well-known/security.txt when set
	// (e.g. "mailto:security@example.org").
	SecurityContact string `env:"RCMS_SECURITY_CONTACT"`

	// RevisionKeep is how many revisions the nightly pruning job keeps
	// per page.
	RevisionKeep int `env:"RCMS_REVISION_KEEP" envDefault:"50"`

	// Cache configuration
	RedisURL     string `env:"RCMS_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"RCMS_CACHE_PREFIX" envDefault:"rcms:"`   // Redis key prefix
	CacheTTL     int    `env:"RCMS_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"RCMS_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Seeding configuration
	DoSeed bool `env:"RCMS_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("RCMS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("RCMS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("RCMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.RevisionKeep < 1 {
		return nil, fmt.Errorf("RCMS_REVISION_KEEP must be at least 1, got %d", cfg.RevisionKeep)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"ROTEIRO_DB_PATH" envDefault:"./data/roteiro.db"`
	SessionSecret string `env:"ROTEIRO_SESSION_SECRET,required"`
	ServerHost    string `env:"ROTEIRO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"ROTEIRO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"ROTEIRO_ENV" envDefault:"development"`
	LogLevel      string `env:"ROTEIRO_LOG_LEVEL" envDefault:"info"`

	// AI generation
	AIAPIKey  string `env:"ROTEIRO_AI_API_KEY"`                                     // OpenAI-compatible API key
	AIBaseURL string `env:"ROTEIRO_AI_BASE_URL" envDefault:"https://api.groq.com/openai/v1"` // Groq by default
	AIModel   string `env:"ROTEIRO_AI_MODEL" envDefault:"llama-3.1-8b-instant"`

	// Cache configuration
	RedisURL     string `env:"ROTEIRO_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"ROTEIRO_CACHE_PREFIX" envDefault:"roteiro:"` // Redis key prefix
	CacheTTL     int    `env:"ROTEIRO_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"ROTEIRO_CACHE_MAX_SIZE" envDefault:"1000"`  // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"ROTEIRO_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Seeding configuration
	DoSeed bool `env:"ROTEIRO_DO_SEED" envDefault:"false"` // Enable database seeding
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

// AIEnabled returns true if an AI API key is configured.
func (c Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("ROTEIRO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	cfg.AIBaseURL = strings.TrimRight(cfg.AIBaseURL, "/")

	return cfg, nil
}

// Copyright (c) 2026 PawWell Care Center. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, auth service) via constructors.
  - Zero Hidden State: No global variables are used to store config.

Token lifetimes are explicit configuration rather than scattered constants so
that the auth workflow receives every expiry window through its constructor.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the PawWell API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) for the refresh-token blacklist
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for session token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Token lifetimes. Every expiry window the auth workflows use is
	// enumerated here; nothing reads process-wide defaults at call sites.
	VerificationWindow time.Duration `env:"VERIFICATION_WINDOW" envDefault:"24h"`
	ResetWindow        time.Duration `env:"RESET_WINDOW"        envDefault:"1h"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL"    envDefault:"60m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL"   envDefault:"24h"`

	// Outbound email (Resend)
	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"PawWell Care Center <no-reply@pawwellcare.com>"`

	// FrontendURL is the base URL embedded in verification and reset links.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins configured via EXTRA_ORIGINS
// (comma-separated). Empty entries are dropped.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

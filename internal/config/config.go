// Package config loads the application configuration from the environment.
//
// All configuration is read once at startup into an immutable Config value
// that gets injected into the components that need it (TokenService,
// GoogleProvider, the server). Nothing reads ambient environment state
// after startup.
//
// A .env file in the working directory is loaded automatically via the
// godotenv autoload import in cmd/server/main.go, so local development
// doesn't need exported shell variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the server reads from the environment.
//
// The envDefault values mirror a typical local setup: SQLite file under
// data/, a 7-day token lifetime, and a frontend dev server on port 3000.
// JWT_SECRET has a deliberately obvious dev default — replace it in any
// real deployment.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/boilerplate.db"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// JWT configuration
	JWTSecret    string `env:"JWT_SECRET" envDefault:"dev-secret-key-change-in-production"`
	JWTAlgorithm string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	// Token lifetime in minutes. 10080 = 7 days.
	AccessTokenExpireMinutes int `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"10080"`

	// Google OAuth. Empty client id/secret means the OAuth endpoints
	// respond with "not configured" instead of failing at startup.
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"GOOGLE_REDIRECT_URI" envDefault:"http://localhost:8080/auth/google/callback"`

	// FrontendURL is where the OAuth callback redirects with the issued
	// token appended: {FrontendURL}/auth/callback?token=...
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	if cfg.AccessTokenExpireMinutes <= 0 {
		return Config{}, fmt.Errorf("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", cfg.AccessTokenExpireMinutes)
	}
	return cfg, nil
}

// AccessTokenTTL returns the configured token lifetime as a duration.
func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

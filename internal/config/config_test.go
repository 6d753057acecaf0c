package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.JWTAlgorithm != "HS256" {
		t.Errorf("JWTAlgorithm = %q, want HS256", cfg.JWTAlgorithm)
	}
	if got, want := cfg.AccessTokenTTL(), 7*24*time.Hour; got != want {
		t.Errorf("AccessTokenTTL() = %v, want %v", got, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id-from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if got, want := cfg.AccessTokenTTL(), 15*time.Minute; got != want {
		t.Errorf("AccessTokenTTL() = %v, want %v", got, want)
	}
	if cfg.GoogleClientID != "client-id-from-env" {
		t.Errorf("GoogleClientID = %q, want %q", cfg.GoogleClientID, "client-id-from-env")
	}
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a zero token lifetime")
	}
}

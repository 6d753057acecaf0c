package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/sakif/boilerplate-api/internal/apperror"
)

// newTestTokenService creates a TokenService with a fixed secret so tests
// are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short", "HS256", time.Hour)
	if err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestNewTokenService_UnsupportedAlgorithm(t *testing.T) {
	_, err := NewTokenService("test-secret-at-least-16-chars!!", "RS256", time.Hour)
	if err == nil {
		t.Fatal("NewTokenService() should reject non-HMAC algorithms")
	}
}

func TestNewTokenService_AcceptedAlgorithms(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		if _, err := NewTokenService("test-secret-at-least-16-chars!!", alg, time.Hour); err != nil {
			t.Errorf("NewTokenService(%s) unexpected error: %v", alg, err)
		}
	}
}

func TestGenerate_ReturnsJWTShapedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123", "a@x.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	// JWTs have 3 dot-separated parts: header.payload.signature
	dots := 0
	for _, c := range token {
		if c == '.' {
			dots++
		}
	}
	if dots != 2 {
		t.Errorf("token doesn't look like a JWT (expected 2 dots, got %d)", dots)
	}
}

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-abc-123", "user@example.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Subject != "user-abc-123" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-abc-123")
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "user@example.com")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	// Expired 1 second ago — no clock-skew leeway, so it must fail.
	token, err := ts.GenerateWithTTL("user-123", "a@x.com", -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateWithTTL() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() should return an error for an expired token")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.Generate("user-123", "a@x.com")
	tampered := token[:len(token)-3] + "xxx"

	if _, err := ts.Validate(tampered); err == nil {
		t.Fatal("Validate() should return an error for a tampered token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1, _ := NewTokenService("correct-secret-32-chars-long!!!!", "HS256", time.Hour)
	ts2, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!", "HS256", time.Hour)

	token, _ := ts1.Generate("user-123", "a@x.com")

	if _, err := ts2.Validate(token); err == nil {
		t.Fatal("Validate() should fail when using a different secret")
	}
}

func TestValidate_AlgorithmMismatch(t *testing.T) {
	// A token signed as HS512 must not validate against a service pinned
	// to HS256, even with the same secret.
	secret := "shared-secret-at-least-16-chars!"
	hs512, _ := NewTokenService(secret, "HS512", time.Hour)
	hs256, _ := NewTokenService(secret, "HS256", time.Hour)

	token, _ := hs512.Generate("user-123", "a@x.com")

	if _, err := hs256.Validate(token); err == nil {
		t.Fatal("Validate() should reject tokens signed with a different algorithm")
	}
}

func TestValidate_GarbageInput(t *testing.T) {
	ts := newTestTokenService(t)

	for _, bad := range []string{"", "garbage", "not.a.jwt.token"} {
		if _, err := ts.Validate(bad); err == nil {
			t.Errorf("Validate(%q) should return an error", bad)
		}
	}
}

func TestValidate_FailuresAreUnauthorized(t *testing.T) {
	// Whatever the low-level reason, a verification failure means the
	// caller is not authenticated — every path must carry the
	// Unauthorized class so errors.Is works like the other auth failures.
	ts := newTestTokenService(t)

	expired, err := ts.GenerateWithTTL("user-123", "a@x.com", -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateWithTTL() error = %v", err)
	}
	good, _ := ts.Generate("user-123", "a@x.com")
	tampered := good[:len(good)-3] + "xxx"

	for name, token := range map[string]string{
		"expired":  expired,
		"tampered": tampered,
		"garbage":  "not.a.jwt",
	} {
		_, err := ts.Validate(token)
		if err == nil {
			t.Fatalf("Validate(%s) should fail", name)
		}
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("Validate(%s) error = %v, want the Unauthorized class", name, err)
		}
	}
}

package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestPasswordService(t *testing.T) *PasswordService {
	t.Helper()
	// bcrypt.MinCost keeps the suite fast; the logic is cost-independent.
	return NewPasswordServiceForTest(bcrypt.MinCost)
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "password123" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := ps.Verify(hash, "password123"); err != nil {
		t.Errorf("Verify() with correct password error = %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "password124"); err == nil {
		t.Error("Verify() should fail for a different password")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	ps := newTestPasswordService(t)

	h1, _ := ps.Hash("same-password")
	h2, _ := ps.Hash("same-password")

	// Random salt means two hashes of the same input differ, yet both verify.
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
	if err := ps.Verify(h2, "same-password"); err != nil {
		t.Errorf("Verify() against second hash error = %v", err)
	}
}

func TestHash_RejectsOver72Bytes(t *testing.T) {
	ps := newTestPasswordService(t)

	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Fatal("Hash() should reject passwords longer than 72 bytes")
	}

	// Exactly 72 bytes is still fine.
	if _, err := ps.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("Hash() at 72 bytes error = %v", err)
	}
}

func TestHash_NonASCIIPassword(t *testing.T) {
	ps := newTestPasswordService(t)

	// Byte length is what matters, not rune count.
	pw := "pässwörd-日本語-🔐"
	hash, err := ps.Hash(pw)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if err := ps.Verify(hash, pw); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

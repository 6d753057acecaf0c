// Package auth provides the authentication primitives: bcrypt password
// hashing, JWT issuing/validation, the Google OAuth provider, and the
// bearer-token middleware. Nothing in here touches the database.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor.
//
// Cost 12 takes roughly 250ms on a modern server — negligible for a login,
// expensive for an attacker brute-forcing a leaked hash dump. Tune it so
// hashing stays in the 200–300ms range on your production hardware.
const defaultCost = 12

// bcryptMaxLen is the bcrypt input limit. The primitive silently truncates
// longer passwords, so we reject them explicitly instead of letting two
// different passwords verify against the same hash.
const bcryptMaxLen = 72

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be injected in tests —
// cost 4 makes the test suite fast without changing the logic under test.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom cost.
// Use bcrypt.MinCost (4) in tests. Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is self-contained ($2a$12$<salt><hash>) — the salt and cost
// are embedded, so the string can be stored directly and verified later
// without any extra columns.
//
// Returns an error if the plaintext exceeds 72 bytes (bcrypt limit).
// Any valid UTF-8 within that limit is fine; byte length is what counts.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > bcryptMaxLen {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", bcryptMaxLen)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// Returns nil on a match. The comparison inside
// bcrypt.CompareHashAndPassword is constant-time, so response timing leaks
// nothing about how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

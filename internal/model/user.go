// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents an account that can sign in with email/password,
// with Google, or both.
//
// WHY PasswordHash string (not *string)?
// An empty string means "this account has no password" — it was created by
// an OAuth login and can only sign in through Google. Using the zero value
// instead of a nullable pointer keeps the struct simple to work with; the
// service layer treats "" as the OAuth-only marker.
//
// Email is UNIQUE in the database and stored exactly as given (no
// case-folding). The repository surfaces a duplicate email as a Conflict.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // never serialized
	AvatarURL    string    `json:"avatarUrl"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasPassword reports whether this account can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// ProviderGoogle is the only OAuth provider the app supports.
const ProviderGoogle = "google"

// OAuthAccount links a User to an external identity at an OAuth provider.
//
// A user may have multiple accounts (one per provider); each
// (provider, provider_account_id) pair maps to exactly one row — the
// database enforces a composite UNIQUE constraint. Rows are created when an
// identity is first linked and never updated afterwards: a repeat login for
// a known pair returns the owning user without refreshing the stored tokens.
//
// Deleting a User cascades to its OAuthAccounts (FK ON DELETE CASCADE).
type OAuthAccount struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Provider          string    `json:"provider"`
	ProviderAccountID string    `json:"providerAccountId"`
	AccessToken       string    `json:"-"`
	RefreshToken      string    `json:"-"`
	ExpiresAt         time.Time `json:"-"` // zero when the provider gave no expiry
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

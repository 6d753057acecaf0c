// Package service contains the business logic layer: auth, OAuth account
// resolution, and the example item CRUD. Services sit between the HTTP
// handlers and the repositories and know nothing about either HTTP or SQL.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/boilerplate-api/internal/apperror"
	"github.com/sakif/boilerplate-api/internal/auth"
	"github.com/sakif/boilerplate-api/internal/model"
	"github.com/sakif/boilerplate-api/internal/repository"
)

// Authentication failure modes. All map to 401/403 at the HTTP layer, but
// callers that need to tell them apart (tests, logging, future audit
// trails) can errors.Is against these. ErrUnknownEmail and ErrWrongPassword
// deliberately share one user-facing message so a login response never
// reveals whether an email is registered.
var (
	ErrUnknownEmail  = apperror.Unauthorized("incorrect email or password")
	ErrNoPassword    = apperror.Unauthorized("this account uses social login; please sign in with Google")
	ErrWrongPassword = apperror.Unauthorized("incorrect email or password")
	ErrInactive      = apperror.Forbidden("account is inactive")
)

// AuthService handles registration and credential-based authentication.
//
// Dependencies (injected via NewAuthService):
//   - users     repository.UserRepository  → user records
//   - tokens    *auth.TokenService         → JWT issue/validate
//   - passwords *auth.PasswordService      → bcrypt hashing
//   - logger    *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new password-based user.
//
// The GetByEmail pre-check gives a friendly Conflict for the common case;
// it is only an optimization. Two concurrent registrations can both pass
// it, and then the users table's UNIQUE email constraint decides — the
// repository surfaces the loser as the same Conflict class.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	if email == "" {
		return nil, fmt.Errorf("service/auth: %w", apperror.ValidationFailed("email", "email is required"))
	}
	if password == "" {
		return nil, fmt.Errorf("service/auth: %w", apperror.ValidationFailed("password", "password is required"))
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("service/auth: %w", apperror.Conflict("user", "email "+email))
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/auth: checking existing email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Authenticate verifies email/password credentials and returns the user.
//
// Check order matters for which message is surfaced:
//  1. unknown email        → ErrUnknownEmail (401)
//  2. no password on file  → ErrNoPassword (401, "use social login")
//  3. hash mismatch        → ErrWrongPassword (401)
//  4. inactive account     → ErrInactive (403)
//
// The inactive check runs last: a correct password on a deactivated
// account yields Forbidden, not Unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/auth: %w", ErrUnknownEmail)
		}
		return nil, fmt.Errorf("service/auth: looking up user by email: %w", err)
	}

	if !user.HasPassword() {
		return nil, fmt.Errorf("service/auth: %w", ErrNoPassword)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("service/auth: %w", ErrWrongPassword)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("service/auth: %w", ErrInactive)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// IssueToken signs a JWT for a resolved user. The claims carry the user's
// ID as subject plus the email.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return token, nil
}

// UpdateProfileParams is a partial update: nil fields leave the stored
// value untouched.
type UpdateProfileParams struct {
	Name      *string
	AvatarURL *string
}

// UpdateProfile applies the patch to the user, persists it, and returns
// the refreshed entity.
func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, params UpdateProfileParams) (*model.User, error) {
	if params.Name != nil {
		if *params.Name == "" {
			return nil, fmt.Errorf("service/auth: %w", apperror.ValidationFailed("name", "name must not be empty"))
		}
		user.Name = *params.Name
	}
	if params.AvatarURL != nil {
		user.AvatarURL = *params.AvatarURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: updating user %s: %w", user.ID, err)
	}

	refreshed, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: refreshing user %s: %w", user.ID, err)
	}
	return refreshed, nil
}

// GetUserByID returns the user for the given internal ID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}

// GetActiveUser resolves a token subject to its user record and rejects
// deactivated accounts. Handlers behind RequireAuth use this so a user
// deactivated after token issuance loses access immediately.
func (s *AuthService) GetActiveUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("service/auth: %w", ErrInactive)
	}
	return user, nil
}

// ValidateToken validates a JWT string and returns its claims. A thin
// delegation so callers only import the service package.
func (s *AuthService) ValidateToken(tokenStr string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}
	return claims, nil
}

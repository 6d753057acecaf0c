package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"

	"github.com/sakif/boilerplate-api/internal/apperror"
	"github.com/sakif/boilerplate-api/internal/auth"
	"github.com/sakif/boilerplate-api/internal/model"
	"github.com/sakif/boilerplate-api/internal/repository"
)

// OAuthProvider is what OAuthService needs from an OAuth client. The
// concrete implementation is auth.GoogleProvider; tests substitute a fake.
type OAuthProvider interface {
	// HasClientID reports whether the authorization URL can be built.
	HasClientID() bool
	// Configured reports whether the code exchange can run (id + secret).
	Configured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*auth.GoogleProfile, error)
}

// OAuthService drives the Google authorization-code flow:
// build the consent URL, then on callback exchange the code, fetch the
// remote profile, and resolve it to an internal user.
type OAuthService struct {
	users    repository.UserRepository
	accounts repository.OAuthAccountRepository
	provider OAuthProvider
	logger   *slog.Logger
}

// NewOAuthService creates an OAuthService with all required dependencies.
func NewOAuthService(
	users repository.UserRepository,
	accounts repository.OAuthAccountRepository,
	provider OAuthProvider,
	logger *slog.Logger,
) *OAuthService {
	return &OAuthService{
		users:    users,
		accounts: accounts,
		provider: provider,
		logger:   logger,
	}
}

// AuthorizationURL returns the Google consent URL and a fresh CSRF state
// token (32 bytes of entropy, base64url).
//
// The state is handed to the caller for the round-trip; this service does
// not persist it and CompleteLogin does not check it. Validating the
// echo-back is the caller's job.
func (s *OAuthService) AuthorizationURL() (url, state string, err error) {
	if !s.provider.HasClientID() {
		return "", "", fmt.Errorf("service/oauth: %w", apperror.NotConfigured("Google OAuth"))
	}

	state, err = auth.GenerateState()
	if err != nil {
		return "", "", fmt.Errorf("service/oauth: %w", err)
	}

	return s.provider.AuthCodeURL(state), state, nil
}

// CompleteLogin finishes the OAuth flow for a callback code and returns
// the resolved internal user.
//
// Steps: exchange the code for provider tokens, fetch the remote profile,
// then resolve with first-match-wins precedence:
//
//  1. existing (provider, account id) link → return its owner unchanged
//  2. a user already has the profile's email → link this identity to them
//  3. otherwise → create a passwordless user and link it
//
// The ordering guarantees at most one OAuthAccount per provider identity
// and that an email-matched login attaches to the existing account instead
// of creating a duplicate user. Step 1 performs no writes, so stored
// provider tokens go stale on repeat logins; steps 2 and 3 each perform
// their creates in order (user before account), so a failure leaves no
// account without its user.
func (s *OAuthService) CompleteLogin(ctx context.Context, code string) (*model.User, error) {
	if !s.provider.Configured() {
		return nil, fmt.Errorf("service/oauth: %w", apperror.NotConfigured("Google OAuth"))
	}

	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("service/oauth: %w", err)
	}

	profile, err := s.provider.FetchProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("service/oauth: %w", err)
	}

	user, err := s.resolveUser(ctx, profile, token)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// resolveUser maps a fetched provider profile to an internal user,
// creating or linking as needed.
func (s *OAuthService) resolveUser(ctx context.Context, profile *auth.GoogleProfile, token *oauth2.Token) (*model.User, error) {
	// 1. Known provider identity → return the owner.
	account, err := s.accounts.GetByProviderAccountID(ctx, model.ProviderGoogle, profile.ID)
	if err == nil {
		owner, err := s.users.GetByID(ctx, account.UserID)
		if err != nil {
			// The FK makes this unreachable short of store corruption;
			// surface it as an internal error, not a client-facing 404.
			return nil, fmt.Errorf("service/oauth: oauth account %s has no user: %w", account.ID, err)
		}
		s.logger.Info("oauth login for linked account",
			slog.String("userID", owner.ID),
			slog.String("providerAccountID", profile.ID),
		)
		return owner, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/oauth: looking up oauth account: %w", err)
	}

	// 2. Email already registered → link this identity to that user.
	existing, err := s.users.GetByEmail(ctx, profile.Email)
	if err == nil {
		if err := s.createLink(ctx, existing.ID, profile, token); err != nil {
			return nil, err
		}
		s.logger.Info("oauth account linked to existing user",
			slog.String("userID", existing.ID),
			slog.String("providerAccountID", profile.ID),
		)
		return existing, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/oauth: looking up user by email: %w", err)
	}

	// 3. First sight of this identity and email → create user + link.
	name := profile.Name
	if name == "" {
		// Google can omit the display name; fall back to the email's
		// local part, matching what the user would recognize.
		name, _, _ = strings.Cut(profile.Email, "@")
	}
	user := &model.User{
		Email:     profile.Email,
		Name:      name,
		AvatarURL: profile.Picture,
		IsActive:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/oauth: creating user: %w", err)
	}
	if err := s.createLink(ctx, user.ID, profile, token); err != nil {
		return nil, err
	}

	s.logger.Info("user created from oauth login",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// createLink records the provider identity against the user. Concurrent
// logins for the same identity race here; the composite UNIQUE constraint
// lets exactly one create succeed and the loser sees a Conflict.
func (s *OAuthService) createLink(ctx context.Context, userID string, profile *auth.GoogleProfile, token *oauth2.Token) error {
	account := &model.OAuthAccount{
		UserID:            userID,
		Provider:          model.ProviderGoogle,
		ProviderAccountID: profile.ID,
		AccessToken:       token.AccessToken,
		RefreshToken:      token.RefreshToken,
		ExpiresAt:         token.Expiry,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return fmt.Errorf("service/oauth: linking oauth account: %w", err)
	}
	return nil
}

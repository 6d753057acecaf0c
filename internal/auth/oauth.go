package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/sakif/boilerplate-api/internal/apperror"
)

// googleUserInfoURL is Google's OpenID userinfo endpoint. The response is
// much larger than what we need; GoogleProfile only unmarshals the fields
// the account-resolution logic uses.
const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// providerTimeout bounds each outbound call to Google (token exchange and
// profile fetch). The flow is interactive — a user is sitting on a redirect
// page — so 10s is already generous.
const providerTimeout = 10 * time.Second

// GoogleProfile is the portion of the userinfo response we care about.
type GoogleProfile struct {
	ID      string `json:"id"`      // Google's account id — stable, never changes
	Email   string `json:"email"`   // verified primary email
	Name    string `json:"name"`    // display name (may be empty)
	Picture string `json:"picture"` // avatar URL (may be empty)
}

// GoogleProvider wraps golang.org/x/oauth2 for the Google Authorization
// Code flow: build the consent URL, exchange the callback code for tokens
// server-to-server, then fetch the user's profile with the access token.
//
// The client secret never leaves this process and the access token never
// touches the browser.
type GoogleProvider struct {
	config *oauth2.Config

	// userInfoURL is overridable so tests can point the profile fetch at
	// an httptest server.
	userInfoURL string
}

// NewGoogleProvider creates a GoogleProvider with the given credentials.
//
// redirectURI must exactly match an authorized redirect URI registered in
// the Google Cloud console for this client. Empty clientID/clientSecret are
// allowed — the provider reports itself as unconfigured and the service
// layer turns that into a NotConfigured error instead of a broken flow.
func NewGoogleProvider(clientID, clientSecret, redirectURI string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// HasClientID reports whether a client id is configured. Building the
// authorization URL needs only the id; the secret is first required at the
// code exchange.
func (p *GoogleProvider) HasClientID() bool {
	return p.config.ClientID != ""
}

// Configured reports whether both client id and secret are present.
func (p *GoogleProvider) Configured() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

// AuthCodeURL returns the Google consent page URL for the given state.
//
// access_type=offline plus prompt=consent forces Google to issue a refresh
// token on first consent; without the forced prompt, repeat authorizations
// come back without one.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the authorization code for provider tokens.
//
// This is the server-to-server POST to Google's token endpoint with
// {code, client_id, client_secret, redirect_uri, grant_type} — the oauth2
// package builds the form body. A non-success response from Google maps to
// an ExternalAuth error.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: %w: %v", apperror.ExternalAuth("failed to exchange code for token"), err)
	}
	return token, nil
}

// FetchProfile calls the userinfo endpoint with the obtained access token.
//
// oauth2.Config.Client returns an *http.Client that injects the
// "Authorization: Bearer <token>" header on every request. A non-200
// response maps to an ExternalAuth error.
func (p *GoogleProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*GoogleProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	client := p.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: %w: %v", apperror.ExternalAuth("failed to fetch Google user info"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: %w: userinfo returned status %d",
			apperror.ExternalAuth("failed to fetch Google user info"), resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("auth: decoding userinfo response: %w", err)
	}

	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("auth: %w: userinfo response missing id or email",
			apperror.ExternalAuth("failed to fetch Google user info"))
	}

	return &profile, nil
}

// GenerateState returns a cryptographically random opaque state token for
// CSRF binding of the authorization round-trip: 32 bytes of entropy,
// base64url-encoded. The caller is responsible for persisting and checking
// it against the callback.
func GenerateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generating state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/sakif/boilerplate-api/internal/apperror"
)

func newTestGoogleProvider() *GoogleProvider {
	return NewGoogleProvider("test-client-id", "test-client-secret", "http://localhost:8080/auth/google/callback")
}

func TestAuthCodeURL_CarriesRequiredParams(t *testing.T) {
	p := newTestGoogleProvider()

	raw := p.AuthCodeURL("opaque-state-value")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("AuthCodeURL() returned unparseable URL: %v", err)
	}

	q := u.Query()
	checks := map[string]string{
		"client_id":     "test-client-id",
		"redirect_uri":  "http://localhost:8080/auth/google/callback",
		"response_type": "code",
		"state":         "opaque-state-value",
		"access_type":   "offline",
		"prompt":        "consent",
	}
	for key, want := range checks {
		if got := q.Get(key); got != want {
			t.Errorf("query param %s = %q, want %q", key, got, want)
		}
	}

	scope := q.Get("scope")
	for _, s := range []string{"openid", "email", "profile"} {
		if !strings.Contains(scope, s) {
			t.Errorf("scope %q missing %q", scope, s)
		}
	}
}

func TestConfigured(t *testing.T) {
	if !newTestGoogleProvider().Configured() {
		t.Error("provider with id+secret should be configured")
	}

	noSecret := NewGoogleProvider("id-only", "", "")
	if noSecret.Configured() {
		t.Error("provider without a secret should not be configured")
	}
	if !noSecret.HasClientID() {
		t.Error("provider with a client id should report HasClientID")
	}

	empty := NewGoogleProvider("", "", "")
	if empty.HasClientID() {
		t.Error("empty provider should not report HasClientID")
	}
}

func TestExchange_ProviderRejectsCode(t *testing.T) {
	// Token endpoint answering 400, the way Google rejects a bad code.
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer tokenSrv.Close()

	p := newTestGoogleProvider()
	p.config.Endpoint = oauth2.Endpoint{TokenURL: tokenSrv.URL}

	_, err := p.Exchange(context.Background(), "bad-code")
	if err == nil {
		t.Fatal("Exchange() should fail when the provider rejects the code")
	}
	if !errors.Is(err, apperror.ErrExternalAuth) {
		t.Errorf("Exchange() error = %v, want ErrExternalAuth", err)
	}
}

func TestExchange_Success(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing token request form: %v", err)
		}
		if got := r.FormValue("grant_type"); got != "authorization_code" {
			t.Errorf("grant_type = %q, want authorization_code", got)
		}
		if got := r.FormValue("code"); got != "good-code" {
			t.Errorf("code = %q, want good-code", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-123","refresh_token":"rt-456","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	p := newTestGoogleProvider()
	p.config.Endpoint = oauth2.Endpoint{TokenURL: tokenSrv.URL}

	token, err := p.Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if token.AccessToken != "at-123" {
		t.Errorf("AccessToken = %q, want at-123", token.AccessToken)
	}
	if token.RefreshToken != "rt-456" {
		t.Errorf("RefreshToken = %q, want rt-456", token.RefreshToken)
	}
}

func TestFetchProfile_Success(t *testing.T) {
	infoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer at-123" {
			t.Errorf("Authorization = %q, want Bearer at-123", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"google-uid-1","email":"g@x.com","name":"G User","picture":"https://img/avatar.png"}`))
	}))
	defer infoSrv.Close()

	p := newTestGoogleProvider()
	p.userInfoURL = infoSrv.URL

	profile, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "at-123", TokenType: "Bearer"})
	if err != nil {
		t.Fatalf("FetchProfile() error = %v", err)
	}
	if profile.ID != "google-uid-1" || profile.Email != "g@x.com" {
		t.Errorf("profile = %+v, want id google-uid-1 / email g@x.com", profile)
	}
}

func TestFetchProfile_NonSuccessStatus(t *testing.T) {
	infoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired token", http.StatusUnauthorized)
	}))
	defer infoSrv.Close()

	p := newTestGoogleProvider()
	p.userInfoURL = infoSrv.URL

	_, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "stale", TokenType: "Bearer"})
	if err == nil {
		t.Fatal("FetchProfile() should fail on a non-200 response")
	}
	if !errors.Is(err, apperror.ErrExternalAuth) {
		t.Errorf("FetchProfile() error = %v, want ErrExternalAuth", err)
	}
}

func TestFetchProfile_MissingIdentity(t *testing.T) {
	infoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"No Identity"}`))
	}))
	defer infoSrv.Close()

	p := newTestGoogleProvider()
	p.userInfoURL = infoSrv.URL

	_, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "at", TokenType: "Bearer"})
	if err == nil {
		t.Fatal("FetchProfile() should reject a profile without id/email")
	}
}

func TestGenerateState(t *testing.T) {
	s1, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	s2, _ := GenerateState()

	// 32 bytes base64url without padding is 43 characters.
	if len(s1) != 43 {
		t.Errorf("state length = %d, want 43", len(s1))
	}
	if s1 == s2 {
		t.Error("two generated states should differ")
	}
}

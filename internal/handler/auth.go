package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sakif/boilerplate-api/internal/apperror"
	"github.com/sakif/boilerplate-api/internal/auth"
	"github.com/sakif/boilerplate-api/internal/model"
	"github.com/sakif/boilerplate-api/internal/service"
)

// AuthHandler manages registration, login, the current-user endpoints, and
// the Google OAuth flow.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister       → create a password-based user, return a token
//   - HandleLogin          → verify credentials, return a token
//   - HandleMe             → return the authenticated user's profile
//   - HandleUpdateMe       → patch the authenticated user's profile
//   - HandleGoogleLogin    → hand the frontend the Google consent URL
//   - HandleGoogleCallback → finish the OAuth flow, redirect with a token
//
// DEPENDENCY CHAIN:
//   - authSvc  *service.AuthService  → registration, credentials, tokens
//   - oauthSvc *service.OAuthService → Google code exchange + user resolution
//   - frontendURL string             → where the OAuth callback redirects to
type AuthHandler struct {
	authSvc     *service.AuthService
	oauthSvc    *service.OAuthService
	frontendURL string
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(
	authSvc *service.AuthService,
	oauthSvc *service.OAuthService,
	frontendURL string,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authSvc:     authSvc,
		oauthSvc:    oauthSvc,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// TokenResponse is the successful auth payload: a bearer token plus the
// resolved user so the frontend doesn't need a second round-trip.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"` // always "bearer"
	User        *model.User `json:"user"`
}

// registerRequest is the POST /auth/register body.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateMeRequest is the PATCH /auth/me body. Pointer fields distinguish
// "absent" from "set to empty" — a key difference for partial updates.
type updateMeRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

// HandleRegister creates a new user from email/password credentials.
//
// HTTP: POST /auth/register
// BODY: {"email": "a@x.com", "password": "...", "name": "A"}
//
// Responds 201 with a TokenResponse — registering logs the user straight in.
// A duplicate email is a 409 regardless of whether the pre-check or the
// database's UNIQUE constraint catches it.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.authSvc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and returns a fresh token.
//
// HTTP: POST /auth/login
// BODY: {"email": "a@x.com", "password": "..."}
//
// All credential failures are 401 with the same message; a correct password
// on a deactivated account is 403.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.authSvc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /auth/me
// Auth: Required (RequireAuth middleware sets userID in context)
//
// GetActiveUser re-reads the user on every call, so a user deactivated
// after their token was issued is cut off here with a 403 even though the
// token itself is still cryptographically valid.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateMe applies a partial update to the authenticated user's
// profile.
//
// HTTP: PATCH /auth/me
// BODY: {"name": "New Name"} and/or {"avatarUrl": "https://..."}
//
// Fields absent from the body are left untouched. Email and password are
// not updatable here.
func (h *AuthHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.authSvc.UpdateProfile(r.Context(), user, service.UpdateProfileParams{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleGoogleLogin hands the frontend everything it needs to start the
// Google flow.
//
// HTTP: GET /auth/google/login
// RESPONSE: {"authorization_url": "https://accounts.google.com/...", "state": "..."}
//
// The frontend redirects the browser to authorization_url itself; we return
// JSON instead of a 302 so a SPA can open the consent screen however it
// likes (full redirect, popup window, etc.).
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	authURL, state, err := h.oauthSvc.AuthorizationURL()
	if err != nil {
		h.logger.Error("google login: building authorization URL",
			slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"authorization_url": authURL,
		"state":             state,
	})
}

// HandleGoogleCallback completes the OAuth login flow.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Exchange the code for Google tokens
//  2. Fetch the Google profile
//  3. Resolve to an internal user (existing link → email match → create)
//  4. Issue our own JWT
//  5. Redirect the browser to {FRONTEND_URL}/auth/callback?token=...
//
// The frontend's callback page reads the token from the query string and
// stores it. Errors redirect nowhere — the browser lands on a JSON error
// body, which the consent popup surfaces well enough for a failure path.
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "missing authorization code"))
		return
	}

	user, err := h.oauthSvc.CompleteLogin(r.Context(), code)
	if err != nil {
		h.logger.Error("google callback: login failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	tokenStr, err := h.authSvc.IssueToken(user)
	if err != nil {
		h.logger.Error("google callback: token generation failed",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	redirect := h.frontendURL + "/auth/callback?token=" + url.QueryEscape(tokenStr)
	http.Redirect(w, r, redirect, http.StatusFound)
}

// respondWithToken issues a JWT for the resolved user and writes the
// TokenResponse at the given status. Register and login share this tail:
// both end with a signed-in user holding a usable bearer token.
func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *model.User) {
	tokenStr, err := h.authSvc.IssueToken(user)
	if err != nil {
		h.logger.Error("issuing token failed",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, status, TokenResponse{
		AccessToken: tokenStr,
		TokenType:   "bearer",
		User:        user,
	})
}

// currentUser resolves the RequireAuth context to an active user record,
// writing the error response itself on failure.
func (h *AuthHandler) currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeError(w, apperror.Unauthorized("could not validate credentials"))
		return nil, false
	}

	user, err := h.authSvc.GetActiveUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return user, true
}

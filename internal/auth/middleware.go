package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means no other package can read or shadow the
// values this middleware stores.
type contextKey string

const userIDKey contextKey = "userID"

var errNoToken = errors.New("auth: missing bearer token")

// RequireAuth enforces authentication on protected routes.
//
// The API is consumed by a separate frontend, so tokens travel in the
// Authorization header ("Bearer <jwt>") rather than a cookie. The
// middleware validates the token and stores the subject user ID in the
// request context; missing or invalid tokens end the chain with 401.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, `{"error":"unauthorized","message":"could not validate credentials"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) when the request carried no valid token.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID reads and validates the bearer token from the
// Authorization header.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", errNoToken
	}

	claims, err := tokens.Validate(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

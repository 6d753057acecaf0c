package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/boilerplate-api/internal/apperror"
)

// TokenService issues and validates the API's JWT access tokens.
//
// Tokens are signed with a process-wide HMAC secret and a fixed symmetric
// algorithm, both set once at construction from configuration. The same
// secret verifies every token — no database lookup is needed.
//
// Payload shape: {"sub": <user id>, "email": <string>, "iat": ..., "exp": ...}.
// Expiry is computed as now + TTL in UTC at issue time; validation compares
// against current UTC time with no clock-skew leeway.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// signingMethods are the symmetric algorithms the service accepts as its
// configured identifier. Asymmetric methods (RS*/ES*) are out of scope —
// this is a single-process deployment with one shared secret.
var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// NewTokenService creates a TokenService.
//
// secret should be at least 32 bytes of random data in production
// (JWT_SECRET=$(openssl rand -hex 32)); anything under 16 is rejected.
// algorithm is one of HS256, HS384, HS512. ttl is the default token
// lifetime applied by Generate.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("auth: unsupported JWT algorithm %q", algorithm)
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// Claims is the fixed, typed token payload.
//
// The subject ("sub") carries the internal user ID; Email is a custom claim
// so the routing layer can display who is logged in without a DB roundtrip.
// A fixed struct keeps validation total — there is no open claims map to
// probe for optional keys.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate signs a token for the given user with the default TTL.
func (s *TokenService) Generate(userID, email string) (string, error) {
	return s.GenerateWithTTL(userID, email, s.ttl)
}

// GenerateWithTTL signs a token with a custom lifetime. Used by tests to
// mint already-expired tokens.
func (s *TokenService) GenerateWithTTL(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	c := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(s.method, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns its claims.
//
// Fails when the signature doesn't match, the token is malformed, the
// expiry has passed, or the token was signed with a different algorithm —
// every failure carries apperror.ErrUnauthorized so callers map it like any
// other authentication failure. Pinning the algorithm via WithValidMethods
// blocks algorithm-confusion attacks (a token claiming alg=none or an RS*
// method is rejected outright).
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	// Every verification failure is an Unauthorized to callers: the token
	// holder is not authenticated, whatever the low-level reason. The
	// underlying jwt error stays in the chain for logs.
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: %w: %v", apperror.Unauthorized("token has expired"), err)
		}
		return nil, fmt.Errorf("auth: %w: %v", apperror.Unauthorized("could not validate credentials"), err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: %w: invalid claims", apperror.Unauthorized("could not validate credentials"))
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: %w: token has no subject", apperror.Unauthorized("could not validate credentials"))
	}

	return c, nil
}

// Package auth implements token verification for incoming requests.
// Token issuance lives in an external identity service; this package
// only validates bearer tokens and extracts the caller's identity.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
)

// Token verification errors. HTTP handlers map all of them to 401.
var (
	// ErrTokenMissing indicates the request carried no credential.
	ErrTokenMissing = errors.New("auth: token missing")

	// ErrTokenMalformed indicates the credential is not a parseable token.
	ErrTokenMalformed = errors.New("auth: token malformed")

	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrTokenInvalid indicates signature or claim validation failed.
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// Claims is the JWT claim set issued by the identity service.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Config holds token validator settings.
type Config struct {
	// Secret is the HMAC signing key shared with the identity service.
	Secret []byte

	// Issuer, when non-empty, is required to match the token's iss claim.
	Issuer string

	// Leeway tolerates clock skew when validating time claims.
	Leeway time.Duration
}

// TokenValidator verifies HS256 bearer tokens.
type TokenValidator struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

// NewTokenValidator creates a validator from config.
func NewTokenValidator(cfg Config) (*TokenValidator, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: signing secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}

	return &TokenValidator{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Verify validates a raw bearer token and returns the caller's identity.
// The subject claim carries the user ID and the role claim must be one
// of the known roles.
func (v *TokenValidator) Verify(credential string) (*identity.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, mapJWTError(err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	userID := identity.UserID(strings.TrimSpace(claims.Subject))
	if !userID.IsValid() {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	role, err := identity.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	ident, err := identity.NewIdentity(userID, role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.IssuedAt != nil {
		ident.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		ident.ExpiresAt = claims.ExpiresAt.Time
	}

	return ident, nil
}

// mapJWTError translates jwt library errors into package sentinels so
// callers never depend on the library's error types.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
}

// IsAuthError reports whether err is any token verification failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenInvalid)
}

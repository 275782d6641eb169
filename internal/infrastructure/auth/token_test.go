package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
)

var testSecret = []byte("test-secret-key")

func newValidator(t *testing.T, cfg Config) *TokenValidator {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = testSecret
	}
	v, err := NewTokenValidator(cfg)
	require.NoError(t, err)
	return v
}

func signToken(t *testing.T, secret []byte, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func defaultClaims(subject, role string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: role,
	}
}

func TestNewTokenValidator_RequiresSecret(t *testing.T) {
	_, err := NewTokenValidator(Config{})
	assert.Error(t, err)
}

func TestVerify_ValidStudentToken(t *testing.T) {
	v := newValidator(t, Config{})
	credential := signToken(t, testSecret, defaultClaims("user-1", "student"))

	ident, err := v.Verify(credential)
	require.NoError(t, err)

	assert.Equal(t, identity.UserID("user-1"), ident.UserID)
	assert.True(t, ident.IsStudent())
	assert.False(t, ident.ExpiresAt.IsZero())
}

func TestVerify_ValidMentorToken(t *testing.T) {
	v := newValidator(t, Config{})
	credential := signToken(t, testSecret, defaultClaims("mentor-9", "mentor"))

	ident, err := v.Verify(credential)
	require.NoError(t, err)

	assert.True(t, ident.IsMentor())
}

func TestVerify_EmptyCredential(t *testing.T) {
	v := newValidator(t, Config{})

	_, err := v.Verify("  ")
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestVerify_Garbage(t *testing.T) {
	v := newValidator(t, Config{})

	_, err := v.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerify_Expired(t *testing.T) {
	v := newValidator(t, Config{})
	claims := defaultClaims("user-1", "student")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	_, err := v.Verify(signToken(t, testSecret, claims))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_ExpiredWithinLeeway(t *testing.T) {
	v := newValidator(t, Config{Leeway: 5 * time.Minute})
	claims := defaultClaims("user-1", "student")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	_, err := v.Verify(signToken(t, testSecret, claims))
	assert.NoError(t, err)
}

func TestVerify_WrongSignature(t *testing.T) {
	v := newValidator(t, Config{})
	credential := signToken(t, []byte("other-secret"), defaultClaims("user-1", "student"))

	_, err := v.Verify(credential)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_MissingExpiry(t *testing.T) {
	v := newValidator(t, Config{})
	claims := defaultClaims("user-1", "student")
	claims.ExpiresAt = nil

	_, err := v.Verify(signToken(t, testSecret, claims))
	assert.True(t, IsAuthError(err))
}

func TestVerify_MissingSubject(t *testing.T) {
	v := newValidator(t, Config{})

	_, err := v.Verify(signToken(t, testSecret, defaultClaims("", "student")))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_UnknownRole(t *testing.T) {
	v := newValidator(t, Config{})

	_, err := v.Verify(signToken(t, testSecret, defaultClaims("user-1", "admin")))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_IssuerEnforced(t *testing.T) {
	v := newValidator(t, Config{Issuer: "devhelp-identity"})

	claims := defaultClaims("user-1", "student")
	claims.Issuer = "someone-else"
	_, err := v.Verify(signToken(t, testSecret, claims))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	claims.Issuer = "devhelp-identity"
	_, err = v.Verify(signToken(t, testSecret, claims))
	assert.NoError(t, err)
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(ErrTokenMissing))
	assert.True(t, IsAuthError(ErrTokenExpired))
	assert.False(t, IsAuthError(assert.AnError))
	assert.False(t, IsAuthError(nil))
}

package authn_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfort/shopfort/internal/authn"
)

var testSecret = []byte("test-secret-0123456789")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func TestJWTVerifier_ValidToken(t *testing.T) {
	v := authn.NewJWTVerifier(testSecret)

	signed := signToken(t, jwt.MapClaims{
		"sub":   "user-42",
		"email": "ops@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.SubjectID)
	assert.Equal(t, "ops@example.com", claims.Email)
}

func TestJWTVerifier_EmailIsOptional(t *testing.T) {
	v := authn.NewJWTVerifier(testSecret)

	signed := signToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Empty(t, claims.Email)
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	v := authn.NewJWTVerifier(testSecret)

	signed := signToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := v.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, authn.ErrInvalidToken)
}

func TestJWTVerifier_WrongSecret(t *testing.T) {
	v := authn.NewJWTVerifier([]byte("a-different-secret"))

	signed := signToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, authn.ErrInvalidToken)
}

func TestJWTVerifier_MissingSubject(t *testing.T) {
	v := authn.NewJWTVerifier(testSecret)

	signed := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, authn.ErrNoSubject)
}

func TestJWTVerifier_GarbageToken(t *testing.T) {
	v := authn.NewJWTVerifier(testSecret)

	_, err := v.Verify(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, authn.ErrInvalidToken)
}

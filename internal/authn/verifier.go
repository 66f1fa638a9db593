package authn

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSubject    = errors.New("token has no subject")
)

// Claims is the minimal identity material extracted from a verified
// token.
type Claims struct {
	SubjectID string
	Email     string
}

// TokenVerifier checks a bearer token's signature and validity window
// and extracts the subject. Signature scheme and key management are
// the verifier's concern, not the authorization engine's.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// JWTVerifier verifies HS256-signed JWTs against a shared secret.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for HS256 tokens.
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify parses and validates the token. Expiry and not-before are
// enforced by the jwt library's default validator.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, err := mapClaims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrNoSubject
	}

	claims := &Claims{SubjectID: sub}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}

	return claims, nil
}

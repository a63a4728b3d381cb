package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// JwtVerifier validates HS256 tokens signed with a shared secret. It is the
// provider used when no external identity service is configured, and by the
// tests to mint tokens without network access.
type JwtVerifier struct {
	auth *jwtauth.JWTAuth
}

func NewJwtVerifier(secret []byte) *JwtVerifier {
	return &JwtVerifier{auth: jwtauth.New("HS256", secret, nil)}
}

func (v *JwtVerifier) VerifyToken(ctx context.Context, token string) (Identity, error) {
	decoded, err := jwtauth.VerifyToken(v.auth, token)
	if err != nil {
		return Identity{}, fmt.Errorf("error verifying token: %w", err)
	}

	identity := Identity{Subject: decoded.Subject()}
	if email, ok := decoded.PrivateClaims()["email"].(string); ok {
		identity.Email = email
	}
	return identity, nil
}

func (v *JwtVerifier) CreateToken(subject, email string, exp time.Duration) (string, error) {
	claims := map[string]interface{}{
		"sub":   subject,
		"email": email,
		"exp":   time.Now().Add(exp),
	}
	_, token, err := v.auth.Encode(claims)
	if err != nil {
		slog.Error("error generating jwt", "error", err)
		return "", fmt.Errorf("error generating access token: %w", err)
	}
	return token, nil
}

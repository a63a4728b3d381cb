package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceAccountConfig holds the identity provider service account fields
// loaded from the environment. The private key arrives with escaped newlines,
// Key() unescapes them before parsing.
type ServiceAccountConfig struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

func (c *ServiceAccountConfig) Key() (*rsa.PrivateKey, error) {
	pem := strings.ReplaceAll(c.PrivateKey, `\n`, "\n")
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("error parsing service account private key: %w", err)
	}
	return key, nil
}

// ServiceAccountVerifier validates RS256 identity tokens issued for the
// configured project. Tokens must carry the project id as both issuer and
// audience, matching what the identity service mints for this account.
type ServiceAccountVerifier struct {
	key       *rsa.PrivateKey
	projectID string
}

func NewServiceAccountVerifier(config ServiceAccountConfig) (*ServiceAccountVerifier, error) {
	key, err := config.Key()
	if err != nil {
		return nil, err
	}
	if config.ProjectID == "" {
		return nil, fmt.Errorf("service account project id must be specified")
	}
	return &ServiceAccountVerifier{key: key, projectID: config.ProjectID}, nil
}

type serviceAccountClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (v *ServiceAccountVerifier) VerifyToken(ctx context.Context, token string) (Identity, error) {
	var claims serviceAccountClaims

	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return &v.key.PublicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("error verifying token: %w", err)
	}
	if !parsed.Valid {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

// SignToken mints a token the verifier will accept. Used by the local token
// issuing tooling and the verifier tests.
func (v *ServiceAccountVerifier) SignToken(subject, email string, exp time.Duration) (string, error) {
	now := time.Now()
	claims := serviceAccountClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.projectID,
			Audience:  jwt.ClaimStrings{v.projectID},
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(exp)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(v.key)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return token, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nerzal/gocloak/v13"
)

// KeycloakVerifier submits bearer tokens to a Keycloak server for
// verification. Every protected request results in one round trip to the
// identity service, no verification results are cached.
type KeycloakVerifier struct {
	keycloak *gocloak.GoCloak
	realm    string
}

func NewKeycloakVerifier(serverUrl, realm string) *KeycloakVerifier {
	return &KeycloakVerifier{keycloak: gocloak.NewClient(serverUrl), realm: realm}
}

func (v *KeycloakVerifier) VerifyToken(ctx context.Context, token string) (Identity, error) {
	userInfo, err := v.keycloak.GetUserInfo(ctx, token, v.realm)
	if err != nil {
		return Identity{}, fmt.Errorf("unable to verify token with keycloak: %w", err)
	}

	if userInfo.Sub == nil {
		return Identity{}, errors.New("user identifier missing in keycloak response")
	}

	identity := Identity{Subject: *userInfo.Sub}
	if userInfo.Email != nil {
		identity.Email = *userInfo.Email
	}
	return identity, nil
}

package auth

import (
	"context"
	"errors"
	"log/slog"
	"model_inventory/utils"
	"net/http"
	"strings"
)

var (
	ErrTokenMissing = errors.New("unauthorized access, token not found")
	ErrTokenInvalid = errors.New("unauthorized access")
)

// Identity is the authenticated caller as reported by the token verifier.
type Identity struct {
	Subject string
	Email   string
}

// Verifier validates an opaque bearer token. Implementations either check the
// token locally or submit it to an external identity service.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (Identity, error)
}

type requestContextKey string

const identityRequestContextKey requestContextKey = "identity"

// TokenFromHeader extracts the token portion of the Authorization header, the
// second whitespace delimited segment. The scheme itself is not validated.
func TokenFromHeader(r *http.Request) (string, error) {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return "", ErrTokenMissing
	}

	parts := strings.Fields(authorization)
	if len(parts) < 2 {
		return "", ErrTokenInvalid
	}
	return parts[1], nil
}

type unauthorizedResponse struct {
	Message string `json:"message"`
}

// RequireToken re-verifies the bearer token on every request, no session
// state is retained in between. Verification failures are logged but only a
// generic message is returned to the caller.
func RequireToken(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		handler := func(w http.ResponseWriter, r *http.Request) {
			token, err := TokenFromHeader(r)
			if err != nil {
				utils.WriteJsonResponseStatus(w, http.StatusUnauthorized, unauthorizedResponse{Message: err.Error()})
				return
			}

			identity, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				slog.Error("token verification failed", "error", err)
				utils.WriteJsonResponseStatus(w, http.StatusUnauthorized, unauthorizedResponse{Message: ErrTokenInvalid.Error()})
				return
			}

			reqCtx := context.WithValue(r.Context(), identityRequestContextKey, identity)
			next.ServeHTTP(w, r.WithContext(reqCtx))
		}

		return http.HandlerFunc(handler)
	}
}

func IdentityFromContext(r *http.Request) (Identity, error) {
	identityUntyped := r.Context().Value(identityRequestContextKey)
	if identityUntyped == nil {
		return Identity{}, errors.New("identity field not found in request context")
	}
	identity, ok := identityUntyped.(Identity)
	if !ok {
		return Identity{}, errors.New("invalid value for identity field")
	}
	return identity, nil
}

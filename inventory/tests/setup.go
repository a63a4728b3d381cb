package tests

import (
	"bytes"
	"model_inventory/inventory/auth"
	"model_inventory/inventory/services"
	"model_inventory/inventory/store"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type testEnv struct {
	inventory *services.Inventory
	api       chi.Router
	store     *store.MemoryStore
	verifier  *auth.JwtVerifier
}

func setupTestEnv(t *testing.T) *testEnv {
	memory := store.NewMemoryStore()
	verifier := auth.NewJwtVerifier([]byte("290zcv02ai249"))

	inventory := services.NewInventory(
		memory.Listings(),
		memory.Purchases(),
		verifier,
		auth.NewAuditLogger(new(bytes.Buffer)),
	)

	return &testEnv{
		inventory: inventory,
		api:       inventory.Routes(),
		store:     memory,
		verifier:  verifier,
	}
}

func (env *testEnv) newClient() client {
	return client{api: env.api}
}

// newUser returns a client holding a freshly minted token for the given email.
func (env *testEnv) newUser(t *testing.T, email string) client {
	token, err := env.verifier.CreateToken(email, email, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	c := env.newClient()
	c.authToken = token
	c.email = email
	return c
}

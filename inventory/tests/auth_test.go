package tests

import (
	"encoding/json"
	"errors"
	"model_inventory/inventory/schema"
	"net/http"
	"testing"
)

func protectedEndpoints(c *client) []*httpTestRequest {
	return []*httpTestRequest{
		c.Get("/models/507f1f77bcf86cd799439011"),
		c.Get("/my-models?email=user@mail.com"),
		c.Get("/model-purchase-page?email=user@mail.com"),
	}
}

func TestMissingTokenRejected(t *testing.T) {
	env := setupTestEnv(t)
	anon := env.newClient()

	for _, req := range protectedEndpoints(&anon) {
		status, body := req.DoRaw()
		if status != http.StatusUnauthorized {
			t.Fatalf("%v: expected status 401 without token, got %d", req.endpoint, status)
		}

		var res map[string]string
		if err := json.Unmarshal([]byte(body), &res); err != nil {
			t.Fatalf("%v: 401 body is not json: %v", req.endpoint, body)
		}
		if res["message"] != "unauthorized access, token not found" {
			t.Fatalf("%v: unexpected 401 message: %v", req.endpoint, res["message"])
		}
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	env := setupTestEnv(t)
	anon := env.newClient()
	anon.authToken = "not-a-valid-token"

	for _, req := range protectedEndpoints(&anon) {
		status, body := req.DoRaw()
		if status != http.StatusUnauthorized {
			t.Fatalf("%v: expected status 401 with invalid token, got %d", req.endpoint, status)
		}

		var res map[string]string
		if err := json.Unmarshal([]byte(body), &res); err != nil {
			t.Fatalf("%v: 401 body is not json: %v", req.endpoint, body)
		}
		if res["message"] != "unauthorized access" {
			t.Fatalf("%v: unexpected 401 message: %v", req.endpoint, res["message"])
		}
	}
}

func TestMalformedAuthorizationHeaderRejected(t *testing.T) {
	env := setupTestEnv(t)
	anon := env.newClient()

	status, _ := anon.Get("/my-models?email=user@mail.com").
		Header("Authorization", "token-without-scheme").DoRaw()
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for single segment header, got %d", status)
	}
}

func TestValidTokenAccepted(t *testing.T) {
	env := setupTestEnv(t)
	user := env.newUser(t, "user@mail.com")

	if _, err := user.myModels(); err != nil {
		t.Fatal(err)
	}
	if _, err := user.purchasePage(); err != nil {
		t.Fatal(err)
	}
	if _, err := user.getModel("507f1f77bcf86cd799439011"); err != nil {
		t.Fatal(err)
	}
}

func TestPublicEndpointsSkipAuth(t *testing.T) {
	env := setupTestEnv(t)
	anon := env.newClient()

	if _, err := anon.listModels(); err != nil {
		t.Fatal(err)
	}
	if _, err := anon.latestModels(); err != nil {
		t.Fatal(err)
	}
	if _, err := anon.search("", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := anon.createModel(schema.Listing{Name: "model", CreatedBy: "user@mail.com"}); err != nil {
		t.Fatal(err)
	}
}

func TestProtectedEndpointErrorIsUnauthorized(t *testing.T) {
	env := setupTestEnv(t)
	anon := env.newClient()

	_, err := anon.myModels()
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

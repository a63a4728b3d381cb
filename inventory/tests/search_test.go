package tests

import (
	"model_inventory/inventory/schema"
	"testing"
)

func TestSearchModels(t *testing.T) {
	env := setupTestEnv(t)
	user := env.newUser(t, "creator@mail.com")

	listings := []schema.Listing{
		{Name: "GPT-4 Turbo", Framework: "openai", CreatedBy: "creator@mail.com"},
		{Name: "gpt-neo", Framework: "pytorch", CreatedBy: "creator@mail.com"},
		{Name: "Stable Diffusion", Framework: "pytorch", CreatedBy: "creator@mail.com"},
		{Name: "whisper", Framework: "pytorch", CreatedBy: "creator@mail.com"},
	}
	for _, listing := range listings {
		if _, err := user.createModel(listing); err != nil {
			t.Fatal(err)
		}
	}

	names := func(results []schema.Listing) map[string]bool {
		set := make(map[string]bool)
		for _, r := range results {
			set[r.Name] = true
		}
		return set
	}

	t.Run("EmptySearchMatchesAll", func(t *testing.T) {
		results, err := user.search("", "")
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != len(listings) {
			t.Fatalf("empty search should match all %d models, got %d", len(listings), len(results))
		}
	})

	t.Run("CaseInsensitiveSubstring", func(t *testing.T) {
		results, err := user.search("gpt", "")
		if err != nil {
			t.Fatal(err)
		}
		found := names(results)
		if len(results) != 2 || !found["GPT-4 Turbo"] || !found["gpt-neo"] {
			t.Fatalf("expected both gpt models, got %v", found)
		}
	})

	t.Run("FrameworkExactMatch", func(t *testing.T) {
		results, err := user.search("", "pytorch")
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 pytorch models, got %d", len(results))
		}
	})

	t.Run("TextAndFrameworkCombined", func(t *testing.T) {
		results, err := user.search("gpt", "pytorch")
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0].Name != "gpt-neo" {
			t.Fatalf("expected only gpt-neo, got %+v", results)
		}
	})

	t.Run("NoMatches", func(t *testing.T) {
		results, err := user.search("nonexistent", "")
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Fatalf("expected no matches, got %+v", results)
		}
	})
}

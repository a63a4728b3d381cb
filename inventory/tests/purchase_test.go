package tests

import (
	"model_inventory/inventory/schema"
	"net/http"
	"testing"
)

func TestPurchaseModel(t *testing.T) {
	env := setupTestEnv(t)
	buyer := env.newUser(t, "buyer@mail.com")

	created, err := buyer.createModel(schema.Listing{
		Name: "resnet-50", Price: 25, CreatedBy: "seller@mail.com",
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := buyer.purchase(created.InsertedID.Hex(), schema.Purchase{
		ModelID:     created.InsertedID.Hex(),
		ModelName:   "resnet-50",
		Price:       25,
		PurchasedBy: "buyer@mail.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Result.Acknowledged || res.Result.InsertedID.IsZero() {
		t.Fatalf("purchase record insert not acknowledged: %+v", res)
	}
	if res.UpdatedModel.MatchedCount != 1 || res.UpdatedModel.ModifiedCount != 1 {
		t.Fatalf("purchase counter not updated: %+v", res.UpdatedModel)
	}

	listing, err := buyer.getModel(created.InsertedID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if listing.Purchased != 1 {
		t.Fatalf("expected purchase count 1, got %d", listing.Purchased)
	}

	_, err = buyer.purchase(created.InsertedID.Hex(), schema.Purchase{PurchasedBy: "buyer@mail.com"})
	if err != nil {
		t.Fatal(err)
	}

	listing, err = buyer.getModel(created.InsertedID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if listing.Purchased != 2 {
		t.Fatalf("expected purchase count 2 after second purchase, got %d", listing.Purchased)
	}
}

func TestPurchaseUnknownModel(t *testing.T) {
	env := setupTestEnv(t)
	buyer := env.newUser(t, "buyer@mail.com")

	// The purchase record is written even when no listing matches the id, the
	// counter update just reports zero matches.
	res, err := buyer.purchase("507f1f77bcf86cd799439011", schema.Purchase{PurchasedBy: "buyer@mail.com"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Result.Acknowledged {
		t.Fatalf("purchase record insert not acknowledged: %+v", res)
	}
	if res.UpdatedModel.MatchedCount != 0 {
		t.Fatalf("expected no matched listing, got %+v", res.UpdatedModel)
	}
}

func TestPurchaseValidation(t *testing.T) {
	env := setupTestEnv(t)
	buyer := env.newUser(t, "buyer@mail.com")

	status, _ := buyer.Post("/purchased-model/507f1f77bcf86cd799439011").
		Json(schema.Purchase{ModelName: "resnet-50"}).DoRaw()
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 for purchase without purchasedBy, got %d", status)
	}
}

func TestPurchasePage(t *testing.T) {
	env := setupTestEnv(t)
	buyerA := env.newUser(t, "a@mail.com")
	buyerB := env.newUser(t, "b@mail.com")

	created, err := buyerA.createModel(schema.Listing{Name: "model", CreatedBy: "seller@mail.com"})
	if err != nil {
		t.Fatal(err)
	}

	for _, buyer := range []string{"a@mail.com", "a@mail.com", "b@mail.com"} {
		_, err := buyerA.purchase(created.InsertedID.Hex(), schema.Purchase{
			ModelID: created.InsertedID.Hex(), PurchasedBy: buyer,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	purchases, err := buyerA.purchasePage()
	if err != nil {
		t.Fatal(err)
	}
	if len(purchases) != 2 {
		t.Fatalf("expected 2 purchases for buyer a, got %d", len(purchases))
	}
	for _, purchase := range purchases {
		if purchase.PurchasedBy != "a@mail.com" {
			t.Fatalf("purchase page returned record for wrong buyer: %+v", purchase)
		}
		if purchase.PurchasedAt.IsZero() {
			t.Fatal("purchasedAt should be defaulted on purchase")
		}
	}

	purchases, err = buyerB.purchasePage()
	if err != nil {
		t.Fatal(err)
	}
	if len(purchases) != 1 {
		t.Fatalf("expected 1 purchase for buyer b, got %d", len(purchases))
	}
}

package services

import (
	"log/slog"
	"model_inventory/inventory/schema"
	"model_inventory/inventory/store"
	"model_inventory/utils"
	"net/http"
	"time"
)

// PurchaseService records purchases and keeps the per-listing purchase counter
// in step. The record insert and the counter increment are two separate store
// writes, there is no transaction spanning them.
type PurchaseService struct {
	purchases store.PurchaseStore
	listings  store.ListingStore
}

type purchaseResponse struct {
	Result       store.InsertResult `json:"result"`
	UpdatedModel store.UpdateResult `json:"updatedModel"`
}

type purchaseFailedResponse struct {
	Error string `json:"error"`
}

func (s *PurchaseService) Create(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamObjectID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var purchase schema.Purchase
	if !utils.ParseRequestBody(w, r, &purchase) {
		return
	}

	if purchase.PurchasedBy == "" {
		http.Error(w, "field 'purchasedBy' must be specified as a non empty string", http.StatusUnprocessableEntity)
		return
	}
	if purchase.PurchasedAt.IsZero() {
		purchase.PurchasedAt = time.Now().UTC()
	}

	result, err := s.purchases.Insert(r.Context(), purchase)
	if err != nil {
		slog.Error("store error recording purchase", "model_id", id.Hex(), "error", err)
		utils.WriteJsonResponseStatus(w, http.StatusInternalServerError, purchaseFailedResponse{Error: "Something went wrong"})
		return
	}

	updated, err := s.listings.IncrementPurchased(r.Context(), id)
	if err != nil {
		slog.Error("store error incrementing purchase counter", "model_id", id.Hex(), "error", err)
		utils.WriteJsonResponseStatus(w, http.StatusInternalServerError, purchaseFailedResponse{Error: "Something went wrong"})
		return
	}

	slog.Info("recorded model purchase", "model_id", id.Hex(), "purchased_by", purchase.PurchasedBy)

	utils.WriteJsonResponse(w, purchaseResponse{Result: result, UpdatedModel: updated})
}

func (s *PurchaseService) Page(w http.ResponseWriter, r *http.Request) {
	email, ok := queryParam(w, r, "email")
	if !ok {
		return
	}

	purchases, err := s.purchases.ByBuyer(r.Context(), email)
	if err != nil {
		slog.Error("store error listing purchases", "error", err)
		utils.WriteJsonResponseStatus(w, http.StatusInternalServerError, purchaseFailedResponse{Error: "Something went wrong"})
		return
	}

	utils.WriteJsonResponse(w, purchases)
}

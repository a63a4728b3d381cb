package services

import (
	"errors"
	"fmt"
	"log/slog"
	"model_inventory/inventory/schema"
	"model_inventory/inventory/store"
	"model_inventory/utils"
	"net/http"
	"time"
)

// latestModelLimit caps the number of listings returned by the recency feed.
const latestModelLimit = 6

// ModelService serves the listing catalog routes. All state lives in the
// injected store, handlers keep nothing in process.
type ModelService struct {
	listings store.ListingStore
}

func (s *ModelService) List(w http.ResponseWriter, r *http.Request) {
	listings, err := s.listings.All(r.Context())
	if err != nil {
		err = storeError("listing models", err)
		http.Error(w, fmt.Sprintf("unable to list models: %v", err), GetResponseCode(err))
		return
	}

	utils.WriteJsonResponse(w, listings)
}

func (s *ModelService) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamObjectID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	listing, err := s.listings.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, schema.ErrListingNotFound) {
			// The store's no-match shape is propagated as is, callers check
			// for an empty body rather than a 404.
			utils.WriteJsonResponse(w, nil)
			return
		}
		err = storeError("retrieving model", err)
		http.Error(w, fmt.Sprintf("unable to retrieve model: %v", err), GetResponseCode(err))
		return
	}

	utils.WriteJsonResponse(w, listing)
}

func (s *ModelService) Create(w http.ResponseWriter, r *http.Request) {
	var listing schema.Listing
	if !utils.ParseRequestBody(w, r, &listing) {
		return
	}

	if listing.Name == "" || listing.CreatedBy == "" {
		http.Error(w, "fields 'name' and 'createdBy' must be specified as non empty strings", http.StatusUnprocessableEntity)
		return
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now().UTC()
	}

	result, err := s.listings.Insert(r.Context(), listing)
	if err != nil {
		err = storeError("creating model", err)
		http.Error(w, fmt.Sprintf("unable to create model: %v", err), GetResponseCode(err))
		return
	}

	slog.Info("created model listing", "model_id", result.InsertedID.Hex(), "created_by", listing.CreatedBy)

	utils.WriteJsonResponse(w, result)
}

type updateModelResponse struct {
	Success bool               `json:"success"`
	Result  store.UpdateResult `json:"result"`
}

func (s *ModelService) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamObjectID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var update schema.ListingUpdate
	if !utils.ParseRequestBody(w, r, &update) {
		return
	}
	if update.Empty() {
		http.Error(w, "request body contains no updatable fields", http.StatusBadRequest)
		return
	}

	result, err := s.listings.Update(r.Context(), id, update)
	if err != nil {
		err = storeError("updating model", err)
		http.Error(w, fmt.Sprintf("unable to update model: %v", err), GetResponseCode(err))
		return
	}

	slog.Info("updated model listing", "model_id", id.Hex(), "matched", result.MatchedCount)

	utils.WriteJsonResponse(w, updateModelResponse{Success: true, Result: result})
}

func (s *ModelService) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamObjectID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.listings.Delete(r.Context(), id)
	if err != nil {
		err = storeError("deleting model", err)
		http.Error(w, fmt.Sprintf("unable to delete model: %v", err), GetResponseCode(err))
		return
	}

	slog.Info("deleted model listing", "model_id", id.Hex(), "deleted", result.DeletedCount)

	utils.WriteJsonResponse(w, result)
}

func (s *ModelService) Latest(w http.ResponseWriter, r *http.Request) {
	listings, err := s.listings.Latest(r.Context(), latestModelLimit)
	if err != nil {
		err = storeError("listing latest models", err)
		http.Error(w, fmt.Sprintf("unable to list latest models: %v", err), GetResponseCode(err))
		return
	}

	utils.WriteJsonResponse(w, listings)
}

func (s *ModelService) Mine(w http.ResponseWriter, r *http.Request) {
	email, ok := queryParam(w, r, "email")
	if !ok {
		return
	}

	listings, err := s.listings.ByCreator(r.Context(), email)
	if err != nil {
		err = storeError("listing models by creator", err)
		http.Error(w, fmt.Sprintf("unable to list models: %v", err), GetResponseCode(err))
		return
	}

	utils.WriteJsonResponse(w, listings)
}

func (s *ModelService) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	text := params.Get("search")
	framework := params.Get("framework")

	listings, err := s.listings.Search(r.Context(), text, framework)
	if err != nil {
		err = storeError("searching models", err)
		http.Error(w, fmt.Sprintf("unable to search models: %v", err), GetResponseCode(err))
		return
	}

	utils.WriteJsonResponse(w, listings)
}

package store

import (
	"context"
	"model_inventory/inventory/schema"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore implements the store interfaces over in-process slices. It is
// the substitutable store used by the service tests, and keeps the same
// not-found and acknowledgment semantics as the mongo implementation.
type MemoryStore struct {
	mu        sync.Mutex
	listings  []schema.Listing
	purchases []schema.Purchase
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Listings() ListingStore {
	return &memoryListings{store: s}
}

func (s *MemoryStore) Purchases() PurchaseStore {
	return &memoryPurchases{store: s}
}

type memoryListings struct {
	store *MemoryStore
}

func (m *memoryListings) find(id primitive.ObjectID) int {
	for i := range m.store.listings {
		if m.store.listings[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *memoryListings) All(ctx context.Context) ([]schema.Listing, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	return append(make([]schema.Listing, 0, len(m.store.listings)), m.store.listings...), nil
}

func (m *memoryListings) Get(ctx context.Context, id primitive.ObjectID) (schema.Listing, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if i := m.find(id); i >= 0 {
		return m.store.listings[i], nil
	}
	return schema.Listing{}, schema.ErrListingNotFound
}

func (m *memoryListings) Insert(ctx context.Context, listing schema.Listing) (InsertResult, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	m.store.listings = append(m.store.listings, listing)

	return InsertResult{Acknowledged: true, InsertedID: listing.ID}, nil
}

func (m *memoryListings) Update(ctx context.Context, id primitive.ObjectID, update schema.ListingUpdate) (UpdateResult, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return UpdateResult{Acknowledged: true}, nil
	}

	listing := &m.store.listings[i]
	modified := int64(0)
	apply := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			modified = 1
		}
	}
	apply(&listing.Name, update.Name)
	apply(&listing.Framework, update.Framework)
	apply(&listing.UseCase, update.UseCase)
	apply(&listing.Description, update.Description)
	apply(&listing.Image, update.Image)
	if update.Price != nil && listing.Price != *update.Price {
		listing.Price = *update.Price
		modified = 1
	}

	return UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
}

func (m *memoryListings) Delete(ctx context.Context, id primitive.ObjectID) (DeleteResult, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return DeleteResult{Acknowledged: true}, nil
	}
	m.store.listings = append(m.store.listings[:i], m.store.listings[i+1:]...)

	return DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (m *memoryListings) Latest(ctx context.Context, limit int) ([]schema.Listing, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	latest := append(make([]schema.Listing, 0, len(m.store.listings)), m.store.listings...)
	sort.SliceStable(latest, func(i, j int) bool {
		return latest[i].CreatedAt.After(latest[j].CreatedAt)
	})
	if len(latest) > limit {
		latest = latest[:limit]
	}
	return latest, nil
}

func (m *memoryListings) ByCreator(ctx context.Context, email string) ([]schema.Listing, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	matches := make([]schema.Listing, 0)
	for _, listing := range m.store.listings {
		if listing.CreatedBy == email {
			matches = append(matches, listing)
		}
	}
	return matches, nil
}

func (m *memoryListings) Search(ctx context.Context, text, framework string) ([]schema.Listing, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	text = strings.ToLower(text)

	matches := make([]schema.Listing, 0)
	for _, listing := range m.store.listings {
		if !strings.Contains(strings.ToLower(listing.Name), text) {
			continue
		}
		if framework != "" && listing.Framework != framework {
			continue
		}
		matches = append(matches, listing)
	}
	return matches, nil
}

func (m *memoryListings) IncrementPurchased(ctx context.Context, id primitive.ObjectID) (UpdateResult, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return UpdateResult{Acknowledged: true}, nil
	}
	m.store.listings[i].Purchased++

	return UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

type memoryPurchases struct {
	store *MemoryStore
}

func (m *memoryPurchases) Insert(ctx context.Context, purchase schema.Purchase) (InsertResult, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if purchase.ID.IsZero() {
		purchase.ID = primitive.NewObjectID()
	}
	m.store.purchases = append(m.store.purchases, purchase)

	return InsertResult{Acknowledged: true, InsertedID: purchase.ID}, nil
}

func (m *memoryPurchases) ByBuyer(ctx context.Context, email string) ([]schema.Purchase, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	matches := make([]schema.Purchase, 0)
	for _, purchase := range m.store.purchases {
		if purchase.PurchasedBy == email {
			matches = append(matches, purchase)
		}
	}
	return matches, nil
}

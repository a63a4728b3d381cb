package store

import (
	"context"
	"model_inventory/inventory/schema"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryStoreListingLifecycle(t *testing.T) {
	ctx := context.Background()
	listings := NewMemoryStore().Listings()

	_, err := listings.Get(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, schema.ErrListingNotFound)

	inserted, err := listings.Insert(ctx, schema.Listing{
		Name: "model-a", Framework: "pytorch", Price: 10, CreatedBy: "a@mail.com",
	})
	assert.NoError(t, err)
	assert.True(t, inserted.Acknowledged)
	assert.False(t, inserted.InsertedID.IsZero())

	listing, err := listings.Get(ctx, inserted.InsertedID)
	assert.NoError(t, err)
	assert.Equal(t, "model-a", listing.Name)

	name := "model-b"
	updated, err := listings.Update(ctx, inserted.InsertedID, schema.ListingUpdate{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), updated.MatchedCount)
	assert.Equal(t, int64(1), updated.ModifiedCount)

	listing, err = listings.Get(ctx, inserted.InsertedID)
	assert.NoError(t, err)
	assert.Equal(t, "model-b", listing.Name)
	assert.Equal(t, "pytorch", listing.Framework)

	updated, err = listings.Update(ctx, primitive.NewObjectID(), schema.ListingUpdate{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), updated.MatchedCount)

	deleted, err := listings.Delete(ctx, inserted.InsertedID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted.DeletedCount)

	_, err = listings.Get(ctx, inserted.InsertedID)
	assert.ErrorIs(t, err, schema.ErrListingNotFound)
}

func TestMemoryStoreLatestOrdering(t *testing.T) {
	ctx := context.Background()
	listings := NewMemoryStore().Listings()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_, err := listings.Insert(ctx, schema.Listing{
			Name:      string(rune('a' + i)),
			CreatedBy: "a@mail.com",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		assert.NoError(t, err)
	}

	latest, err := listings.Latest(ctx, 3)
	assert.NoError(t, err)
	assert.Len(t, latest, 3)
	assert.Equal(t, "d", latest[0].Name)
	assert.Equal(t, "c", latest[1].Name)
	assert.Equal(t, "b", latest[2].Name)
}

func TestMemoryStoreIncrementPurchased(t *testing.T) {
	ctx := context.Background()
	listings := NewMemoryStore().Listings()

	inserted, err := listings.Insert(ctx, schema.Listing{Name: "model-a", CreatedBy: "a@mail.com"})
	assert.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := listings.IncrementPurchased(ctx, inserted.InsertedID)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), result.MatchedCount)
	}

	listing, err := listings.Get(ctx, inserted.InsertedID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), listing.Purchased)

	result, err := listings.IncrementPurchased(ctx, primitive.NewObjectID())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.MatchedCount)
}

func TestMemoryStorePurchases(t *testing.T) {
	ctx := context.Background()
	purchases := NewMemoryStore().Purchases()

	for _, buyer := range []string{"a@mail.com", "b@mail.com", "a@mail.com"} {
		_, err := purchases.Insert(ctx, schema.Purchase{PurchasedBy: buyer, PurchasedAt: time.Now()})
		assert.NoError(t, err)
	}

	records, err := purchases.ByBuyer(ctx, "a@mail.com")
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = purchases.ByBuyer(ctx, "c@mail.com")
	assert.NoError(t, err)
	assert.Empty(t, records)
}

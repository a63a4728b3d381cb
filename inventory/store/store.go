package store

import (
	"context"
	"model_inventory/inventory/schema"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result types mirror the acknowledgments the document store returns for
// writes. They are serialized directly into HTTP responses, so the field
// names match what api consumers of the original service expect.

type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// ListingStore is the collection of operations the handlers need over the
// listing collection. Get returns schema.ErrListingNotFound when no document
// matches, Update and Delete report a zero count instead.
type ListingStore interface {
	All(ctx context.Context) ([]schema.Listing, error)

	Get(ctx context.Context, id primitive.ObjectID) (schema.Listing, error)

	Insert(ctx context.Context, listing schema.Listing) (InsertResult, error)

	Update(ctx context.Context, id primitive.ObjectID, update schema.ListingUpdate) (UpdateResult, error)

	Delete(ctx context.Context, id primitive.ObjectID) (DeleteResult, error)

	// Latest returns up to limit listings ordered by createdAt descending.
	Latest(ctx context.Context, limit int) ([]schema.Listing, error)

	ByCreator(ctx context.Context, email string) ([]schema.Listing, error)

	// Search matches name as a case-insensitive substring, empty text matches
	// everything. The framework predicate is applied only when non-empty.
	Search(ctx context.Context, text, framework string) ([]schema.Listing, error)

	// IncrementPurchased atomically adds 1 to the purchased counter.
	IncrementPurchased(ctx context.Context, id primitive.ObjectID) (UpdateResult, error)
}

type PurchaseStore interface {
	Insert(ctx context.Context, purchase schema.Purchase) (InsertResult, error)

	ByBuyer(ctx context.Context, email string) ([]schema.Purchase, error)
}

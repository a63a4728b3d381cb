package schema

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrStoreAccessFailed = errors.New("unable to access document store")
)

// Listing is a catalog entry for one AI model offered in the inventory.
// Fields other than Name, CreatedBy, and CreatedAt are optional.
type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Framework   string             `bson:"framework,omitempty" json:"framework,omitempty"`
	UseCase     string             `bson:"useCase,omitempty" json:"useCase,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedBy   string             `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`

	// Purchased counts completed purchases. It is absent until the first
	// purchase and is only ever modified by atomic increments.
	Purchased int64 `bson:"purchased,omitempty" json:"purchased"`
}

// ListingUpdate is a partial update applied as a field merge. Only non-nil
// fields are written, all other fields on the listing are left untouched.
type ListingUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Framework   *string  `json:"framework,omitempty"`
	UseCase     *string  `json:"useCase,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

func (u *ListingUpdate) Empty() bool {
	return u.Name == nil && u.Framework == nil && u.UseCase == nil &&
		u.Description == nil && u.Price == nil && u.Image == nil
}

// Purchase links a buyer identity to a purchase event. The listing it refers
// to is addressed by the request path, the ModelID field is informational and
// is not checked against it.
type Purchase struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ModelID     string             `bson:"modelId,omitempty" json:"modelId,omitempty"`
	ModelName   string             `bson:"modelName,omitempty" json:"modelName,omitempty"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
	PurchasedBy string             `bson:"purchasedBy" json:"purchasedBy"`
	PurchasedAt time.Time          `bson:"purchasedAt" json:"purchasedAt"`
}

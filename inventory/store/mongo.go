package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"model_inventory/inventory/schema"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	listingCollection  = "ai-models"
	purchaseCollection = "purchased-model"

	// Bounds every store call so a slow database cannot block a request
	// indefinitely.
	queryTimeout = 10 * time.Second
)

// MongoStore is the shared, long lived connection to the document database.
// It is opened once at startup and passed to the services, never per request.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(
		options.ServerAPI(options.ServerAPIVersion1),
	))
	if err != nil {
		return nil, fmt.Errorf("error opening document store connection: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("error pinging document store: %w", err)
	}

	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Listings() ListingStore {
	return &mongoListings{collection: s.db.Collection(listingCollection)}
}

func (s *MongoStore) Purchases() PurchaseStore {
	return &mongoPurchases{collection: s.db.Collection(purchaseCollection)}
}

type mongoListings struct {
	collection *mongo.Collection
}

func listingResults(ctx context.Context, cursor *mongo.Cursor, err error) ([]schema.Listing, error) {
	if err != nil {
		return nil, err
	}
	listings := make([]schema.Listing, 0)
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (m *mongoListings) All(ctx context.Context) ([]schema.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := m.collection.Find(ctx, bson.D{})
	return listingResults(ctx, cursor, err)
}

func (m *mongoListings) Get(ctx context.Context, id primitive.ObjectID) (schema.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var listing schema.Listing
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return schema.Listing{}, schema.ErrListingNotFound
		}
		return schema.Listing{}, err
	}
	return listing, nil
}

func (m *mongoListings) Insert(ctx context.Context, listing schema.Listing) (InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.collection.InsertOne(ctx, listing)
	if err != nil {
		return InsertResult{}, err
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		slog.Error("document store returned non object id for inserted listing", "inserted_id", result.InsertedID)
		return InsertResult{}, errors.New("invalid id returned for inserted listing")
	}

	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func setFields(update schema.ListingUpdate) bson.M {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Framework != nil {
		set["framework"] = *update.Framework
	}
	if update.UseCase != nil {
		set["useCase"] = *update.UseCase
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	return set
}

func (m *mongoListings) Update(ctx context.Context, id primitive.ObjectID, update schema.ListingUpdate) (UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.collection.UpdateByID(ctx, id, bson.M{"$set": setFields(update)})
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Acknowledged: true, MatchedCount: result.MatchedCount, ModifiedCount: result.ModifiedCount}, nil
}

func (m *mongoListings) Delete(ctx context.Context, id primitive.ObjectID) (DeleteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Acknowledged: true, DeletedCount: result.DeletedCount}, nil
}

func (m *mongoListings) Latest(ctx context.Context, limit int) ([]schema.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, bson.D{}, opts)
	return listingResults(ctx, cursor, err)
}

func (m *mongoListings) ByCreator(ctx context.Context, email string) ([]schema.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := m.collection.Find(ctx, bson.M{"createdBy": email})
	return listingResults(ctx, cursor, err)
}

func (m *mongoListings) Search(ctx context.Context, text, framework string) ([]schema.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// QuoteMeta so the search text is always a literal substring match, not a
	// caller supplied regex.
	query := bson.M{
		"name": primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"},
	}
	if framework != "" {
		query["framework"] = framework
	}

	cursor, err := m.collection.Find(ctx, query)
	return listingResults(ctx, cursor, err)
}

func (m *mongoListings) IncrementPurchased(ctx context.Context, id primitive.ObjectID) (UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"purchased": 1}})
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Acknowledged: true, MatchedCount: result.MatchedCount, ModifiedCount: result.ModifiedCount}, nil
}

type mongoPurchases struct {
	collection *mongo.Collection
}

func (m *mongoPurchases) Insert(ctx context.Context, purchase schema.Purchase) (InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.collection.InsertOne(ctx, purchase)
	if err != nil {
		return InsertResult{}, err
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		slog.Error("document store returned non object id for inserted purchase", "inserted_id", result.InsertedID)
		return InsertResult{}, errors.New("invalid id returned for inserted purchase")
	}

	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (m *mongoPurchases) ByBuyer(ctx context.Context, email string) ([]schema.Purchase, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := m.collection.Find(ctx, bson.M{"purchasedBy": email})
	if err != nil {
		return nil, err
	}
	purchases := make([]schema.Purchase, 0)
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

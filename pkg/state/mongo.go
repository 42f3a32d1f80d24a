package state

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore persists state records in a MongoDB collection. Each record is
// a single document keyed by the state identifier, so every operation below
// relies only on single-document atomicity.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates a store over the named collection.
func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	return &MongoStore{col: db.Collection(collection)}
}

var _ Store = (*MongoStore)(nil)

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state record: %w", err)
	}
	return &rec, nil
}

func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write state record: %w", err)
	}
	return nil
}

func (s *MongoStore) MarkUsed(ctx context.Context, id string) error {
	// Matching zero documents (absent or already updated) is not an error.
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"used": true}})
	if err != nil {
		return fmt.Errorf("failed to mark state record used: %w", err)
	}
	return nil
}

func (s *MongoStore) TryConsume(ctx context.Context, id string) (bool, error) {
	// The used:false filter and the $set run as one atomic document update;
	// only one concurrent caller can observe a modified count of 1.
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "used": false},
		bson.M{"$set": bson.M{"used": true}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to consume state record: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (s *MongoStore) IsEmpty(ctx context.Context) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count state records: %w", err)
	}
	return n == 0, nil
}

func (s *MongoStore) FindOneUnused(ctx context.Context) (*Record, error) {
	var rec Record
	err := s.col.FindOne(ctx, bson.M{"used": false}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find unused state record: %w", err)
	}
	return &rec, nil
}

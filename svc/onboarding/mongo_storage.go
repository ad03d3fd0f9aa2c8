package onboarding

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const journeysCollection = "onboarding_journeys"

// MongoStorage is the production Storage. A unique index on
// (user_id, organization_id) holds the one-journey-per-pair invariant, so a
// concurrent double start resolves to a single document.
type MongoStorage struct {
	journeys *mongo.Collection
}

// NewMongoStorage creates a storage over the given database and ensures its
// indexes exist.
func NewMongoStorage(ctx context.Context, db *mongo.Database) (*MongoStorage, error) {
	s := &MongoStorage{journeys: db.Collection(journeysCollection)}

	_, err := s.journeys.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "organization_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "is_complete", Value: 1}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create journey indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStorage) Insert(ctx context.Context, j Journey) error {
	if _, err := s.journeys.InsertOne(ctx, j); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrJourneyExists
		}
		return fmt.Errorf("insert journey: %w", err)
	}
	return nil
}

func (s *MongoStorage) Update(ctx context.Context, j Journey) error {
	res, err := s.journeys.ReplaceOne(ctx, bson.M{"_id": j.ID}, j)
	if err != nil {
		return fmt.Errorf("update journey: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrJourneyNotFound
	}
	return nil
}

func (s *MongoStorage) Find(ctx context.Context, userID, organizationID string) (Journey, error) {
	return s.findOne(ctx, bson.M{
		"user_id":         userID,
		"organization_id": organizationID,
	})
}

func (s *MongoStorage) FindIncomplete(ctx context.Context, userID, organizationID string) (Journey, error) {
	return s.findOne(ctx, bson.M{
		"user_id":         userID,
		"organization_id": organizationID,
		"is_complete":     false,
	})
}

func (s *MongoStorage) findOne(ctx context.Context, filter bson.M) (Journey, error) {
	var j Journey
	err := s.journeys.FindOne(ctx, filter).Decode(&j)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Journey{}, ErrJourneyNotFound
		}
		return Journey{}, fmt.Errorf("find journey: %w", err)
	}
	return j, nil
}

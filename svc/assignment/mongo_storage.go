package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const assignmentsCollection = "role_assignments"

// MongoStorage is the production Storage. A partial unique index on
// (user_id, role_id, organization_id) filtered to is_active=true closes the
// check-then-insert race: two concurrent inserts for the same triple cannot
// both succeed, and the duplicate-key error is mapped to
// ErrRoleAssignmentExists.
type MongoStorage struct {
	assignments *mongo.Collection
}

// NewMongoStorage creates a storage over the given database and ensures its
// indexes exist.
func NewMongoStorage(ctx context.Context, db *mongo.Database) (*MongoStorage, error) {
	s := &MongoStorage{assignments: db.Collection(assignmentsCollection)}

	_, err := s.assignments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "role_id", Value: 1},
				{Key: "organization_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "is_active", Value: true}}),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_active", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "role_id", Value: 1}, {Key: "is_active", Value: 1}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create assignment indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStorage) Insert(ctx context.Context, a Assignment) error {
	if _, err := s.assignments.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrRoleAssignmentExists
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (s *MongoStorage) Update(ctx context.Context, a Assignment) error {
	res, err := s.assignments.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (s *MongoStorage) Find(ctx context.Context, userID, roleID, organizationID string) (Assignment, error) {
	filter := bson.M{
		"user_id":   userID,
		"role_id":   roleID,
		"is_active": true,
	}
	if organizationID == "" {
		filter["organization_id"] = bson.M{"$in": bson.A{nil, ""}}
	} else {
		filter["organization_id"] = organizationID
	}

	var a Assignment
	err := s.assignments.FindOne(ctx, filter).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Assignment{}, ErrAssignmentNotFound
		}
		return Assignment{}, fmt.Errorf("find assignment: %w", err)
	}
	return a, nil
}

func (s *MongoStorage) ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]Assignment, error) {
	filter := bson.M{
		"user_id":   userID,
		"is_active": true,
		"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": now}},
		},
	}

	cur, err := s.assignments.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "assigned_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	var out []Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	return out, nil
}

func (s *MongoStorage) CountActiveByRole(ctx context.Context, roleID string) (int64, error) {
	n, err := s.assignments.CountDocuments(ctx, bson.M{
		"role_id":   roleID,
		"is_active": true,
		"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": time.Now().UTC()}},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("count assignments by role: %w", err)
	}
	return n, nil
}

func (s *MongoStorage) CountManagedUsers(ctx context.Context, assignedBy, organizationID string, now time.Time) (int64, error) {
	filter := bson.M{
		"assigned_by": assignedBy,
		"is_active":   true,
		"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": now}},
		},
	}
	if organizationID == "" {
		filter["organization_id"] = bson.M{"$in": bson.A{nil, ""}}
	} else {
		filter["organization_id"] = organizationID
	}

	users := s.assignments.Distinct(ctx, "user_id", filter)
	if err := users.Err(); err != nil {
		return 0, fmt.Errorf("count managed users: %w", err)
	}

	var ids []string
	if err := users.Decode(&ids); err != nil {
		return 0, fmt.Errorf("decode managed users: %w", err)
	}
	return int64(len(ids)), nil
}

package role

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	rolesCollection       = "role_definitions"
	hierarchiesCollection = "role_hierarchies"
)

// MongoStorage is the production Storage and HierarchyStorage on MongoDB.
// The unique index on (name, organization_id) is the authoritative guard
// against duplicate role names within a scope.
type MongoStorage struct {
	roles       *mongo.Collection
	hierarchies *mongo.Collection
}

// NewMongoStorage creates a storage over the given database and ensures its
// indexes exist.
func NewMongoStorage(ctx context.Context, db *mongo.Database) (*MongoStorage, error) {
	s := &MongoStorage{
		roles:       db.Collection(rolesCollection),
		hierarchies: db.Collection(hierarchiesCollection),
	}

	_, err := s.roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: 1},
			{Key: "organization_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create role indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStorage) Insert(ctx context.Context, r Role) error {
	if _, err := s.roles.InsertOne(ctx, r); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateRole
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (s *MongoStorage) Update(ctx context.Context, r Role) error {
	res, err := s.roles.ReplaceOne(ctx, bson.M{"_id": r.ID}, r)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (s *MongoStorage) FindByID(ctx context.Context, id string) (Role, error) {
	var r Role
	err := s.roles.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("find role: %w", err)
	}
	return r, nil
}

func (s *MongoStorage) FindByName(ctx context.Context, name, organizationID string) (Role, error) {
	filter := bson.M{"name": name}
	if organizationID == "" {
		filter["organization_id"] = bson.M{"$in": bson.A{nil, ""}}
	} else {
		filter["organization_id"] = organizationID
	}

	var r Role
	err := s.roles.FindOne(ctx, filter).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("find role by name: %w", err)
	}
	return r, nil
}

func (s *MongoStorage) List(ctx context.Context, f Filter) ([]Role, error) {
	filter := bson.M{}
	platformScope := bson.M{"organization_id": bson.M{"$in": bson.A{nil, ""}}}

	switch {
	case f.OrganizationID == "":
		for k, v := range platformScope {
			filter[k] = v
		}
	case f.IncludeSystem:
		filter["$or"] = bson.A{
			bson.M{"organization_id": f.OrganizationID},
			platformScope,
		}
	default:
		filter["organization_id"] = f.OrganizationID
	}
	if f.Level != "" {
		filter["level"] = f.Level
	}
	if f.ActiveOnly {
		filter["is_active"] = true
	}

	cur, err := s.roles.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	var out []Role
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	return out, nil
}

func (s *MongoStorage) SaveHierarchy(ctx context.Context, h Hierarchy) error {
	_, err := s.hierarchies.ReplaceOne(ctx,
		bson.M{"_id": h.OrganizationID}, h,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save hierarchy: %w", err)
	}
	return nil
}

func (s *MongoStorage) FindHierarchy(ctx context.Context, organizationID string) (Hierarchy, error) {
	var h Hierarchy
	err := s.hierarchies.FindOne(ctx, bson.M{"_id": organizationID}).Decode(&h)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Hierarchy{}, ErrHierarchyNotFound
		}
		return Hierarchy{}, fmt.Errorf("find hierarchy: %w", err)
	}
	return h, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/internal/models"
)

// TagStore manages the tags collection.
type TagStore struct {
	col *mongo.Collection
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *mongo.Database) *TagStore {
	return &TagStore{col: db.Collection("tags")}
}

// FindByID retrieves a tag by id. Returns nil if not found or deleted.
func (s *TagStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Tag, error) {
	var t models.Tag
	err := s.col.FindOne(ctx, bson.M{"_id": id, "deleted_at": nil}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return &t, nil
}

// FindByNameCI retrieves a tag by exact name, case-insensitively.
// Returns nil if not found or deleted.
func (s *TagStore) FindByNameCI(ctx context.Context, name string) (*models.Tag, error) {
	filter := bson.M{
		"name":       bson.M{"$regex": "^" + regexp.QuoteMeta(name) + "$", "$options": "i"},
		"deleted_at": nil,
	}
	var t models.Tag
	err := s.col.FindOne(ctx, filter).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return &t, nil
}

// FindBySlug retrieves a tag by slug. Returns nil if not found or deleted.
func (s *TagStore) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var t models.Tag
	err := s.col.FindOne(ctx, bson.M{"slug": slug, "deleted_at": nil}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return &t, nil
}

// List returns non-deleted tags ordered by usage count (most used first),
// with pagination.
func (s *TagStore) List(ctx context.Context, skip, limit int64) ([]models.Tag, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "usage_count", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.col.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	var tags []models.Tag
	if err := cur.All(ctx, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

// Count returns the number of non-deleted tags.
func (s *TagStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"deleted_at": nil})
	if err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return n, nil
}

// Upsert writes the full tag document keyed by id.
func (s *TagStore) Upsert(ctx context.Context, t *models.Tag) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": t.ID},
		bson.M{"$set": t},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert tag: %w", err)
	}
	return nil
}

// Update applies a partial $set to the tag. Returns false if no document
// matched.
func (s *TagStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, fmt.Errorf("update tag: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// IncrementUsage atomically bumps the tag's usage count by one.
func (s *TagStore) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"usage_count": 1}})
	if err != nil {
		return fmt.Errorf("increment tag usage: %w", err)
	}
	return nil
}

// DecrementUsage atomically lowers the tag's usage count by one.
func (s *TagStore) DecrementUsage(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"usage_count": -1}})
	if err != nil {
		return fmt.Errorf("decrement tag usage: %w", err)
	}
	return nil
}

// SoftDelete stamps deleted_at on the tag. Returns false if no document
// was modified.
func (s *TagStore) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"deleted_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("soft delete tag: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides MongoDB access methods for all Inkwell
// collections. Each store struct wraps a *mongo.Collection and exposes
// typed query methods. Find methods return (nil, nil) when no matching
// document exists; soft-deleted documents are excluded from reads.
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

// CategoryStore manages the categories collection.
type CategoryStore struct {
	col *mongo.Collection
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{col: db.Collection("categories")}
}

// FindByID retrieves a category by id. Returns nil if not found or deleted.
func (s *CategoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var c models.Category
	err := s.col.FindOne(ctx, bson.M{"_id": id, "deleted_at": nil}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return &c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found or deleted.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := s.col.FindOne(ctx, bson.M{"slug": slug, "deleted_at": nil}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return &c, nil
}

// FindRoots returns non-deleted root categories (no parent) ordered by
// creation time, with pagination.
func (s *CategoryStore) FindRoots(ctx context.Context, skip, limit int64) ([]models.Category, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.col.Find(ctx, bson.M{"parent_id": nil, "deleted_at": nil}, opts)
	if err != nil {
		return nil, fmt.Errorf("find root categories: %w", err)
	}

	var roots []models.Category
	if err := cur.All(ctx, &roots); err != nil {
		return nil, fmt.Errorf("decode root categories: %w", err)
	}
	return roots, nil
}

// FindByPathPrefixes returns all non-deleted categories whose stored path
// starts with any of the given prefixes, ordered by creation time. The
// prefixes are anchored and quoted before being handed to the server.
func (s *CategoryStore) FindByPathPrefixes(ctx context.Context, prefixes []string) ([]models.Category, error) {
	if len(prefixes) == 0 {
		return nil, nil
	}

	conditions := make([]bson.M, 0, len(prefixes))
	for _, p := range prefixes {
		conditions = append(conditions, bson.M{
			"path": bson.M{"$regex": "^" + regexp.QuoteMeta(p)},
		})
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{"deleted_at": nil, "$or": conditions}, opts)
	if err != nil {
		return nil, fmt.Errorf("find categories by path prefix: %w", err)
	}

	var cats []models.Category
	if err := cur.All(ctx, &cats); err != nil {
		return nil, fmt.Errorf("decode categories by path prefix: %w", err)
	}
	return cats, nil
}

// List returns non-deleted categories ordered by creation time, with pagination.
func (s *CategoryStore) List(ctx context.Context, skip, limit int64) ([]models.Category, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.col.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var cats []models.Category
	if err := cur.All(ctx, &cats); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return cats, nil
}

// Count returns the number of non-deleted categories.
func (s *CategoryStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"deleted_at": nil})
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// Upsert writes the full category document keyed by id.
func (s *CategoryStore) Upsert(ctx context.Context, c *models.Category) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": c.ID},
		bson.M{"$set": c},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

// Update applies a partial $set to the category. Returns false if no
// document matched.
func (s *CategoryStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, fmt.Errorf("update category: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// SoftDelete stamps deleted_at on the category. Returns false if no
// document was modified.
func (s *CategoryStore) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"deleted_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("soft delete category: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/internal/models"
)

// PostStore manages the posts collection. The denormalized tag arrays
// (tag_ids, tag_names, tag_slugs) are always written together in a single
// update so readers never observe them out of lockstep.
type PostStore struct {
	col *mongo.Collection
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{col: db.Collection("posts")}
}

// FindByID retrieves a post by id. Returns nil if not found or deleted.
func (s *PostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	err := s.col.FindOne(ctx, bson.M{"_id": id, "deleted_at": nil}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return &p, nil
}

// FindBySlug retrieves a post by slug regardless of status. Returns nil
// if not found or deleted.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	err := s.col.FindOne(ctx, bson.M{"slug": slug, "deleted_at": nil}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return &p, nil
}

// FindPublishedBySlug retrieves a published post by slug. Returns nil if
// not found, deleted, or not published.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	filter := bson.M{"slug": slug, "status": models.PostStatusPublished, "deleted_at": nil}
	var p models.Post
	err := s.col.FindOne(ctx, filter).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published post by slug: %w", err)
	}
	return &p, nil
}

// List returns non-deleted posts of any status, newest first, with pagination.
func (s *PostStore) List(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.col.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// Count returns the number of non-deleted posts.
func (s *PostStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"deleted_at": nil})
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// ListPublished returns published posts ordered by publication time,
// optionally filtered by category.
func (s *PostStore) ListPublished(ctx context.Context, categoryID *primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	filter := bson.M{"status": models.PostStatusPublished, "deleted_at": nil}
	if categoryID != nil {
		filter["category_id"] = *categoryID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode published posts: %w", err)
	}
	return posts, nil
}

// CountPublished returns the number of published posts, optionally
// filtered by category.
func (s *PostStore) CountPublished(ctx context.Context, categoryID *primitive.ObjectID) (int64, error) {
	filter := bson.M{"status": models.PostStatusPublished, "deleted_at": nil}
	if categoryID != nil {
		filter["category_id"] = *categoryID
	}
	n, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return n, nil
}

// FindPublishedByTagSlug returns published posts carrying the given tag
// slug, using the denormalized tag_slugs array.
func (s *PostStore) FindPublishedByTagSlug(ctx context.Context, tagSlug string, skip, limit int64) ([]models.Post, error) {
	filter := bson.M{
		"status":     models.PostStatusPublished,
		"tag_slugs":  tagSlug,
		"deleted_at": nil,
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts by tag slug: %w", err)
	}

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts by tag slug: %w", err)
	}
	return posts, nil
}

// Upsert writes the full post document keyed by id.
func (s *PostStore) Upsert(ctx context.Context, p *models.Post) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$set": p},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert post: %w", err)
	}
	return nil
}

// Update applies a partial $set to the post. Returns false if no
// document matched.
func (s *PostStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, fmt.Errorf("update post: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// IncrementViews atomically bumps the post's view counter.
func (s *PostStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views_count": 1}})
	if err != nil {
		return fmt.Errorf("increment post views: %w", err)
	}
	return nil
}

// IncrementLikes atomically bumps the post's like counter.
func (s *PostStore) IncrementLikes(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"likes_count": 1}})
	if err != nil {
		return fmt.Errorf("increment post likes: %w", err)
	}
	return nil
}

// SoftDelete stamps deleted_at on the post. Returns false if no document
// was modified.
func (s *PostStore) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"deleted_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("soft delete post: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

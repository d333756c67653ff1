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

// UserStore manages the users collection. Lockout counters are updated
// with single-document atomic operations so concurrent logins for the
// same account cannot lose increments.
type UserStore struct {
	col *mongo.Collection
}

// NewUserStore returns a new UserStore.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

// FindByEmail retrieves a user by email. Returns nil if not found or deleted.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, bson.M{"email": email, "deleted_at": nil}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

// FindByID retrieves a user by id. Returns nil if not found or deleted.
func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id, "deleted_at": nil}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &u, nil
}

// List returns non-deleted users ordered by creation time, with pagination.
func (s *UserStore) List(ctx context.Context, skip, limit int64) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.col.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// Count returns the number of non-deleted users.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"deleted_at": nil})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Upsert writes the full user document keyed by id.
func (s *UserStore) Upsert(ctx context.Context, u *models.User) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": u.ID},
		bson.M{"$set": u},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpdateFields applies a partial $set to the user. Returns false if no
// document matched.
func (s *UserStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// IncrementFailedAttempts atomically bumps failed_attempts and returns
// the new value, so the caller can decide whether the lockout threshold
// was crossed without a read-modify-write race.
func (s *UserStore) IncrementFailedAttempts(ctx context.Context, id primitive.ObjectID) (int, error) {
	update := bson.M{
		"$inc": bson.M{"failed_attempts": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u)
	if err != nil {
		return 0, fmt.Errorf("increment failed attempts: %w", err)
	}
	return u.FailedAttempts, nil
}

// SoftDelete stamps deleted_at on the user. Returns false if no document
// was modified.
func (s *UserStore) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"deleted_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("soft delete user: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

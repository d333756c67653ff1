// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package database handles MongoDB connection management and index
// bootstrap. It provides a Connect function that returns a ready-to-use
// *mongo.Database and an EnsureIndexes function run at startup.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a MongoDB connection using the provided URI and returns
// the named database. It verifies the connection with a ping before
// returning.
func Connect(ctx context.Context, uri, name string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	// Verify the connection is alive.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("mongodb connected", "db", name)
	return client.Database(name), nil
}

// Disconnect closes the underlying client of the given database.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes the application relies on. Creation
// is idempotent; Mongo ignores indexes that already exist with the same
// definition.
//
// Unique indexes are built over all documents including soft-deleted
// ones, so a deleted row keeps holding its slug or email.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	type spec struct {
		collection string
		models     []mongo.IndexModel
	}

	specs := []spec{
		{
			collection: "categories",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
				{Keys: bson.D{{Key: "path", Value: 1}}},
				{Keys: bson.D{{Key: "parent_id", Value: 1}}},
			},
		},
		{
			collection: "tags",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
				{Keys: bson.D{{Key: "name", Value: 1}}},
			},
		},
		{
			collection: "posts",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
				{Keys: bson.D{{Key: "status", Value: 1}, {Key: "published_at", Value: -1}}},
				{Keys: bson.D{{Key: "tag_slugs", Value: 1}}},
				{Keys: bson.D{{Key: "category_id", Value: 1}}},
			},
		},
		{
			collection: "users",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			},
		},
		{
			collection: "audit_logs",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "created_at", Value: -1}}},
			},
		},
	}

	for _, s := range specs {
		if _, err := db.Collection(s.collection).Indexes().CreateMany(ctx, s.models); err != nil {
			return fmt.Errorf("create indexes for %s: %w", s.collection, err)
		}
	}

	slog.Info("mongodb indexes ensured")
	return nil
}

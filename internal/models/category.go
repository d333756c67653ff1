// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category represents a hierarchical content category.
// Posts can have at most one category assigned.
//
// Path is the materialized ancestor chain: a child's path is its parent's
// path plus "/" plus the parent's id, and a root's path is the empty
// string. The path is computed once when the category is created and is
// not rewritten afterwards.
type Category struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Slug        string              `bson:"slug" json:"slug"`
	Description string              `bson:"description" json:"description"`
	ParentID    *primitive.ObjectID `bson:"parent_id" json:"parent_id,omitempty"`
	Path        string              `bson:"path" json:"path"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time          `bson:"deleted_at,omitempty" json:"-"`

	// Children is populated by tree assembly, never stored.
	Children []*Category `bson:"-" json:"children"`
}

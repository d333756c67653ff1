// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// SEO holds the optional search and social metadata attached to a post.
type SEO struct {
	MetaTitle          string   `bson:"meta_title,omitempty" json:"meta_title,omitempty"`
	MetaDescription    string   `bson:"meta_description,omitempty" json:"meta_description,omitempty"`
	MetaKeywords       []string `bson:"meta_keywords,omitempty" json:"meta_keywords,omitempty"`
	MetaRobots         string   `bson:"meta_robots,omitempty" json:"meta_robots,omitempty"`
	OGTitle            string   `bson:"og_title,omitempty" json:"og_title,omitempty"`
	OGDescription      string   `bson:"og_description,omitempty" json:"og_description,omitempty"`
	OGImage            string   `bson:"og_image,omitempty" json:"og_image,omitempty"`
	OGType             string   `bson:"og_type,omitempty" json:"og_type,omitempty"`
	TwitterCard        string   `bson:"twitter_card,omitempty" json:"twitter_card,omitempty"`
	TwitterTitle       string   `bson:"twitter_title,omitempty" json:"twitter_title,omitempty"`
	TwitterDescription string   `bson:"twitter_description,omitempty" json:"twitter_description,omitempty"`
	TwitterImage       string   `bson:"twitter_image,omitempty" json:"twitter_image,omitempty"`
	CanonicalURL       string   `bson:"canonical_url,omitempty" json:"canonical_url,omitempty"`
}

// Post is the blog post document.
//
// TagNames and TagSlugs are denormalized copies of the referenced tags'
// name and slug, kept positionally in lockstep with TagIDs: the three
// slices always have equal length and TagNames[i]/TagSlugs[i] describe
// TagIDs[i]. They are re-derived together whenever TagIDs changes and the
// store writes the three arrays as a unit.
//
// AuthorName and AuthorEmail are snapshots captured when the post is
// created; they do not follow later edits to the user record.
type Post struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Slug        string               `bson:"slug" json:"slug"`
	Title       string               `bson:"title" json:"title"`
	Content     string               `bson:"content" json:"content"`
	Excerpt     string               `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Status      PostStatus           `bson:"status" json:"status"`
	TagIDs      []primitive.ObjectID `bson:"tag_ids" json:"tag_ids"`
	TagNames    []string             `bson:"tag_names" json:"tag_names"`
	TagSlugs    []string             `bson:"tag_slugs" json:"tag_slugs"`
	CategoryID  *primitive.ObjectID  `bson:"category_id" json:"category_id,omitempty"`
	AuthorID    primitive.ObjectID   `bson:"author_id" json:"author_id"`
	AuthorName  string               `bson:"author_name" json:"author_name"`
	AuthorEmail string               `bson:"author_email" json:"author_email"`
	Thumbnail   string               `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Banner      string               `bson:"banner,omitempty" json:"banner,omitempty"`
	SEO         SEO                  `bson:"seo,omitempty" json:"seo,omitempty"`
	ViewsCount  int                  `bson:"views_count" json:"views_count"`
	LikesCount  int                  `bson:"likes_count" json:"likes_count"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
	PublishedAt *time.Time           `bson:"published_at,omitempty" json:"published_at,omitempty"`
	DeletedAt   *time.Time           `bson:"deleted_at,omitempty" json:"-"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

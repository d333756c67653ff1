// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store_test

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"

	. "inkwell/internal/store"
)

func newTestPost(title, slug string, status models.PostStatus, published *time.Time) *models.Post {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Post{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Slug:        slug,
		Content:     "body",
		Status:      status,
		AuthorID:    primitive.NewObjectID(),
		AuthorName:  "Tester",
		TagIDs:      []primitive.ObjectID{},
		TagNames:    []string{},
		TagSlugs:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
		PublishedAt: published,
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestPostStorePublishedFilter(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	draft := newTestPost("Draft", "draft-post", models.PostStatusDraft, nil)
	older := newTestPost("Older", "older-post", models.PostStatusPublished, ptrTime(base.Add(-time.Hour)))
	newer := newTestPost("Newer", "newer-post", models.PostStatusPublished, ptrTime(base))
	archived := newTestPost("Archived", "archived-post", models.PostStatusArchived, ptrTime(base.Add(-2*time.Hour)))

	for _, p := range []*models.Post{draft, older, newer, archived} {
		if err := s.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert %s: %v", p.Slug, err)
		}
	}

	posts, err := s.ListPublished(ctx, nil, 0, 10)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d published posts, want 2", len(posts))
	}
	// Newest publication first.
	if posts[0].ID != newer.ID || posts[1].ID != older.ID {
		t.Errorf("published posts out of order")
	}

	total, err := s.CountPublished(ctx, nil)
	if err != nil {
		t.Fatalf("count published: %v", err)
	}
	if total != 2 {
		t.Errorf("count = %d, want 2", total)
	}

	// The public slug lookup sees only published posts.
	if got, _ := s.FindPublishedBySlug(ctx, "draft-post"); got != nil {
		t.Errorf("draft visible through published lookup")
	}
	if got, _ := s.FindPublishedBySlug(ctx, "newer-post"); got == nil {
		t.Errorf("published post missing from lookup")
	}
}

func TestPostStoreFindPublishedByTagSlug(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	tagged := newTestPost("Tagged", "tagged-post", models.PostStatusPublished, ptrTime(base))
	tagged.TagIDs = []primitive.ObjectID{primitive.NewObjectID()}
	tagged.TagNames = []string{"Go"}
	tagged.TagSlugs = []string{"go"}

	untagged := newTestPost("Untagged", "untagged-post", models.PostStatusPublished, ptrTime(base))
	draftTagged := newTestPost("Draft Tagged", "draft-tagged", models.PostStatusDraft, nil)
	draftTagged.TagSlugs = []string{"go"}

	for _, p := range []*models.Post{tagged, untagged, draftTagged} {
		if err := s.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert %s: %v", p.Slug, err)
		}
	}

	// The query runs entirely against the denormalized slug array; no
	// join through the tags collection.
	posts, err := s.FindPublishedByTagSlug(ctx, "go", 0, 10)
	if err != nil {
		t.Fatalf("find by tag slug: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != tagged.ID {
		t.Errorf("got %d posts, want only the published tagged one", len(posts))
	}
}

func TestPostStoreCounters(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	p := newTestPost("Counted", "counted-post", models.PostStatusPublished, ptrTime(time.Now().UTC()))
	if err := s.Upsert(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.IncrementViews(ctx, p.ID); err != nil {
			t.Fatalf("views: %v", err)
		}
	}
	if err := s.IncrementLikes(ctx, p.ID); err != nil {
		t.Fatalf("likes: %v", err)
	}

	got, err := s.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ViewsCount != 2 || got.LikesCount != 1 {
		t.Errorf("counters = %d views / %d likes, want 2/1", got.ViewsCount, got.LikesCount)
	}
}

package store_test

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"

	. "inkwell/internal/store"
)

func newTestTag(name, slug string) *models.Tag {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Tag{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTagStoreFindByNameCI(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)
	ctx := context.Background()

	tag := newTestTag("GoLang", "golang")
	if err := s.Upsert(ctx, tag); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Upsert(ctx, newTestTag("Go Modules", "go-modules")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	tests := []struct {
		name string
		want bool
	}{
		{"GoLang", true},
		{"golang", true},
		{"GOLANG", true},
		{"Go", false},      // exact match only, not a prefix
		{"GoLangX", false}, // nor a superstring
	}
	for _, tt := range tests {
		got, err := s.FindByNameCI(ctx, tt.name)
		if err != nil {
			t.Fatalf("FindByNameCI(%q): %v", tt.name, err)
		}
		if (got != nil) != tt.want {
			t.Errorf("FindByNameCI(%q) found=%v, want %v", tt.name, got != nil, tt.want)
		}
		if got != nil && got.ID != tag.ID {
			t.Errorf("FindByNameCI(%q) matched wrong tag %q", tt.name, got.Name)
		}
	}
}

func TestTagStoreUsageCounters(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)
	ctx := context.Background()

	tag := newTestTag("Counted", "counted")
	if err := s.Upsert(ctx, tag); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := s.IncrementUsage(ctx, tag.ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	if err := s.DecrementUsage(ctx, tag.ID); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	got, err := s.FindByID(ctx, tag.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.UsageCount != 2 {
		t.Errorf("usage_count = %d, want 2", got.UsageCount)
	}
}

func TestTagStoreListByUsage(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)
	ctx := context.Background()

	low := newTestTag("Low", "low")
	high := newTestTag("High", "high")
	for _, tag := range []*models.Tag{low, high} {
		if err := s.Upsert(ctx, tag); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	for i := 0; i < 5; i++ {
		s.IncrementUsage(ctx, high.ID)
	}
	s.IncrementUsage(ctx, low.ID)

	tags, err := s.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	if tags[0].ID != high.ID {
		t.Errorf("most used tag not first")
	}
}

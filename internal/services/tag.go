// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// TagStore is the persistence surface the tag service needs.
type TagStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Tag, error)
	FindByNameCI(ctx context.Context, name string) (*models.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
	List(ctx context.Context, skip, limit int64) ([]models.Tag, error)
	Count(ctx context.Context) (int64, error)
	Upsert(ctx context.Context, t *models.Tag) error
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error)
	IncrementUsage(ctx context.Context, id primitive.ObjectID) error
	DecrementUsage(ctx context.Context, id primitive.ObjectID) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// TagInput identifies a tag by id, by name, or by both. With both set,
// the id is tried first and the name serves as creation material when
// the id does not resolve.
type TagInput struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ResolvedTags holds the canonical outcome of tag resolution. The three
// slices are positionally aligned and always of equal length.
type ResolvedTags struct {
	IDs   []primitive.ObjectID
	Names []string
	Slugs []string
}

// TagService resolves mixed tag inputs against the tag collection,
// creating missing tags on demand, and maintains per-tag usage counts.
type TagService struct {
	store TagStore
}

// NewTagService returns a TagService backed by the given store.
func NewTagService(store TagStore) *TagService {
	return &TagService{store: store}
}

// Resolve maps each input to a canonical tag, creating tags that don't
// exist yet. Inputs that cannot be resolved are dropped without failing
// the batch; resolution is best-effort by design.
//
// Note: the lookup-then-create sequence is not atomic. Two concurrent
// requests resolving the same new name can race; the unique slug index
// fails the second insert, which is then dropped like any other
// unresolvable input.
func (s *TagService) Resolve(ctx context.Context, inputs []TagInput) ResolvedTags {
	resolved := ResolvedTags{
		IDs:   []primitive.ObjectID{},
		Names: []string{},
		Slugs: []string{},
	}

	for _, in := range inputs {
		tag := s.resolveOne(ctx, in)
		if tag == nil {
			continue
		}
		resolved.IDs = append(resolved.IDs, tag.ID)
		resolved.Names = append(resolved.Names, tag.Name)
		resolved.Slugs = append(resolved.Slugs, tag.Slug)
	}
	return resolved
}

// resolveOne resolves a single input, returning nil when it is dropped.
func (s *TagService) resolveOne(ctx context.Context, in TagInput) *models.Tag {
	name := strings.TrimSpace(in.Name)

	if in.ID != "" {
		id, err := primitive.ObjectIDFromHex(in.ID)
		if err != nil {
			// Malformed id: fall back to the name when we have one.
			if name == "" {
				return nil
			}
			return s.resolveByName(ctx, name)
		}

		tag, err := s.store.FindByID(ctx, id)
		if err != nil {
			slog.Warn("tag lookup by id failed", "id", in.ID, "error", err)
			if name == "" {
				return nil
			}
			return s.resolveByName(ctx, name)
		}
		if tag != nil {
			return tag
		}
		if name == "" {
			return nil
		}
		return s.createTag(ctx, name)
	}

	if name == "" {
		return nil
	}
	return s.resolveByName(ctx, name)
}

// resolveByName finds a tag by case-insensitive exact name, creating it
// when absent.
func (s *TagService) resolveByName(ctx context.Context, name string) *models.Tag {
	tag, err := s.store.FindByNameCI(ctx, name)
	if err != nil {
		slog.Warn("tag lookup by name failed", "name", name, "error", err)
		return nil
	}
	if tag != nil {
		return tag
	}
	return s.createTag(ctx, name)
}

// createTag inserts a new tag with a slug derived from the name. Insert
// failures (including a lost find-or-create race on the unique slug
// index) drop the input.
func (s *TagService) createTag(ctx context.Context, name string) *models.Tag {
	now := time.Now().UTC()
	tag := &models.Tag{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Slug:      slug.Generate(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Upsert(ctx, tag); err != nil {
		slog.Warn("tag create failed", "name", name, "error", err)
		return nil
	}
	return tag
}

// ReconcileUsage adjusts usage counts after a post's tag set changed:
// ids present only in next are incremented, ids present only in prev are
// decremented. Decrements are issued only for previously stored ids, so
// counts do not go negative through this path.
func (s *TagService) ReconcileUsage(ctx context.Context, prev, next []primitive.ObjectID) error {
	prevSet := make(map[primitive.ObjectID]bool, len(prev))
	for _, id := range prev {
		prevSet[id] = true
	}
	nextSet := make(map[primitive.ObjectID]bool, len(next))
	for _, id := range next {
		nextSet[id] = true
	}

	for _, id := range next {
		if !prevSet[id] {
			if err := s.store.IncrementUsage(ctx, id); err != nil {
				return err
			}
		}
	}
	for _, id := range prev {
		if !nextSet[id] {
			if err := s.store.DecrementUsage(ctx, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// Create inserts a tag explicitly. Unlike Resolve, a taken slug here is
// a loud Conflict.
func (s *TagService) Create(ctx context.Context, name, description, slugStr string) (*models.Tag, error) {
	if slugStr == "" {
		slugStr = slug.Generate(name)
	}
	if !slug.Valid(slugStr) {
		return nil, ErrInvalidInput("invalid slug format")
	}

	existing, err := s.store.FindBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict("slug", "tag slug already in use")
	}

	now := time.Now().UTC()
	tag := &models.Tag{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Slug:        slugStr,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Upsert(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTagInput carries the optional fields of a tag update.
type UpdateTagInput struct {
	Name        *string
	Description *string
	Slug        *string
}

// Update applies a partial update. Moving the slug onto one held by a
// different tag is a Conflict.
func (s *TagService) Update(ctx context.Context, id primitive.ObjectID, in UpdateTagInput) (*models.Tag, error) {
	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound("tag not found")
	}

	fields := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Slug != nil {
		if !slug.Valid(*in.Slug) {
			return nil, ErrInvalidInput("invalid slug format")
		}
		other, err := s.store.FindBySlug(ctx, *in.Slug)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrConflict("slug", "tag slug already in use")
		}
		fields["slug"] = *in.Slug
	}

	if _, err := s.store.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Get returns one tag by id.
func (s *TagService) Get(ctx context.Context, id primitive.ObjectID) (*models.Tag, error) {
	tag, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrNotFound("tag not found")
	}
	return tag, nil
}

// GetBySlug returns one tag by slug.
func (s *TagService) GetBySlug(ctx context.Context, slugStr string) (*models.Tag, error) {
	tag, err := s.store.FindBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrNotFound("tag not found")
	}
	return tag, nil
}

// List returns a page of tags (most used first) plus the total count.
func (s *TagService) List(ctx context.Context, skip, limit int64) ([]models.Tag, int64, error) {
	tags, err := s.store.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

// Delete soft-deletes a tag. Posts referencing it keep their denormalized
// copies until their own tag set next changes.
func (s *TagService) Delete(ctx context.Context, id primitive.ObjectID) error {
	ok, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound("tag not found")
	}
	return nil
}

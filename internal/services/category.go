// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// CategoryStore is the persistence surface the category service needs.
type CategoryStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindRoots(ctx context.Context, skip, limit int64) ([]models.Category, error)
	FindByPathPrefixes(ctx context.Context, prefixes []string) ([]models.Category, error)
	List(ctx context.Context, skip, limit int64) ([]models.Category, error)
	Count(ctx context.Context) (int64, error)
	Upsert(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// CategoryService maintains the category hierarchy: materialized paths,
// tree assembly, and CRUD with slug uniqueness.
type CategoryService struct {
	store CategoryStore
}

// NewCategoryService returns a CategoryService backed by the given store.
func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

// BuildPath computes the materialized path for a category created under
// parentID. A root category (nil parent) gets the empty path; otherwise
// the result is the parent's path plus "/" plus the parent's id. Fails
// with NotFound when the parent does not exist.
//
// Paths are computed once at creation time and never rewritten; parents
// are immutable after creation (see UpdateCategoryInput).
func (s *CategoryService) BuildPath(ctx context.Context, parentID *primitive.ObjectID) (string, error) {
	if parentID == nil {
		return "", nil
	}

	parent, err := s.store.FindByID(ctx, *parentID)
	if err != nil {
		return "", err
	}
	if parent == nil {
		return "", ErrNotFound("parent category not found")
	}

	return parent.Path + "/" + parentID.Hex(), nil
}

// Create inserts a new category under the optional parent. The slug is
// derived from the name when absent; a taken slug is a Conflict.
func (s *CategoryService) Create(ctx context.Context, name, description, slugStr string, parentID *primitive.ObjectID) (*models.Category, error) {
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
		return nil, ErrConflict("slug", "category slug already in use")
	}

	path, err := s.BuildPath(ctx, parentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &models.Category{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Slug:        slugStr,
		Description: description,
		ParentID:    parentID,
		Path:        path,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategoryInput carries the optional fields of a category update.
// A nil pointer leaves the field untouched. ParentID is deliberately
// absent: stored paths are not rebuilt on re-parenting, so the parent is
// immutable once set.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Slug        *string
}

// Update applies a partial update. Changing the slug to one held by a
// different category is a Conflict.
func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, in UpdateCategoryInput) (*models.Category, error) {
	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound("category not found")
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
			return nil, ErrConflict("slug", "category slug already in use")
		}
		fields["slug"] = *in.Slug
	}

	if _, err := s.store.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Get returns one category by id.
func (s *CategoryService) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound("category not found")
	}
	return c, nil
}

// Delete soft-deletes a category. Descendants are left in place; they
// drop out of tree assembly as orphans of a deleted ancestor only when
// their own chain is broken.
func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	ok, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound("category not found")
	}
	return nil
}

// List returns a flat page of categories plus the total count.
func (s *CategoryService) List(ctx context.Context, skip, limit int64) ([]models.Category, int64, error) {
	cats, err := s.store.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return cats, total, nil
}

// ListTree returns paginated root categories with their full descendant
// trees attached. Descendants are fetched in one query by matching each
// root's path prefix, then linked through an adjacency map; a node whose
// parent is missing from the fetched set is silently excluded.
func (s *CategoryService) ListTree(ctx context.Context, skip, limit int64) ([]*models.Category, error) {
	roots, err := s.store.FindRoots(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return []*models.Category{}, nil
	}

	// Roots have the empty path, so every descendant's path starts
	// with "/" + the root's id.
	prefixes := make([]string, 0, len(roots))
	for _, r := range roots {
		prefixes = append(prefixes, "/"+r.ID.Hex())
	}

	descendants, err := s.store.FindByPathPrefixes(ctx, prefixes)
	if err != nil {
		return nil, err
	}

	rootIDs := make([]primitive.ObjectID, 0, len(roots))
	for _, r := range roots {
		rootIDs = append(rootIDs, r.ID)
	}
	return assembleTrees(append(roots, descendants...), rootIDs), nil
}

// GetSubtree returns the category with its descendant tree attached.
func (s *CategoryService) GetSubtree(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	anchor, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if anchor == nil {
		return nil, ErrNotFound("category not found")
	}

	// Children of the anchor have paths starting with the anchor's own
	// path extended by its id.
	prefix := anchor.Path + "/" + id.Hex()

	descendants, err := s.store.FindByPathPrefixes(ctx, []string{prefix})
	if err != nil {
		return nil, err
	}

	trees := assembleTrees(append([]models.Category{*anchor}, descendants...), []primitive.ObjectID{id})
	if len(trees) == 0 {
		return nil, ErrNotFound("category not found")
	}
	return trees[0], nil
}

// assembleTrees links a flat node set into nested trees rooted at
// rootIDs. Children keep the order of the input slice. Nodes referencing
// a parent outside the set are unreachable from any root and therefore
// excluded.
func assembleTrees(all []models.Category, rootIDs []primitive.ObjectID) []*models.Category {
	nodes := make(map[string]*models.Category, len(all))
	order := make([]*models.Category, 0, len(all))
	for i := range all {
		key := all[i].ID.Hex()
		if _, seen := nodes[key]; seen {
			continue
		}
		n := all[i]
		n.Children = []*models.Category{}
		nodes[key] = &n
		order = append(order, &n)
	}

	childrenOf := make(map[string][]*models.Category)
	for _, n := range order {
		if n.ParentID != nil {
			key := n.ParentID.Hex()
			childrenOf[key] = append(childrenOf[key], n)
		}
	}

	var attach func(node *models.Category)
	attach = func(node *models.Category) {
		if kids, ok := childrenOf[node.ID.Hex()]; ok {
			node.Children = kids
		}
		for _, child := range node.Children {
			attach(child)
		}
	}

	trees := make([]*models.Category, 0, len(rootIDs))
	for _, id := range rootIDs {
		root, ok := nodes[id.Hex()]
		if !ok {
			continue
		}
		attach(root)
		trees = append(trees, root)
	}
	return trees
}

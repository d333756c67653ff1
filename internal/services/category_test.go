// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
)

// fakeCategoryStore is an in-memory CategoryStore preserving insertion
// order, which stands in for the created_at sort of the real store.
type fakeCategoryStore struct {
	cats []*models.Category
}

func (f *fakeCategoryStore) find(id primitive.ObjectID) *models.Category {
	for _, c := range f.cats {
		if c.ID == id && c.DeletedAt == nil {
			return c
		}
	}
	return nil
}

func (f *fakeCategoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	c := f.find(id)
	if c == nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range f.cats {
		if c.Slug == slug && c.DeletedAt == nil {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryStore) FindRoots(_ context.Context, skip, limit int64) ([]models.Category, error) {
	var roots []models.Category
	for _, c := range f.cats {
		if c.ParentID == nil && c.DeletedAt == nil {
			roots = append(roots, *c)
		}
	}
	if skip > int64(len(roots)) {
		skip = int64(len(roots))
	}
	roots = roots[skip:]
	if limit > 0 && limit < int64(len(roots)) {
		roots = roots[:limit]
	}
	return roots, nil
}

func (f *fakeCategoryStore) FindByPathPrefixes(_ context.Context, prefixes []string) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.cats {
		if c.DeletedAt != nil {
			continue
		}
		for _, p := range prefixes {
			if strings.HasPrefix(c.Path, p) {
				out = append(out, *c)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) List(_ context.Context, skip, limit int64) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.cats {
		if c.DeletedAt == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) Count(_ context.Context) (int64, error) {
	var n int64
	for _, c := range f.cats {
		if c.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeCategoryStore) Upsert(_ context.Context, c *models.Category) error {
	cp := *c
	f.cats = append(f.cats, &cp)
	return nil
}

func (f *fakeCategoryStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	c := f.find(id)
	if c == nil {
		return false, nil
	}
	if v, ok := fields["name"].(string); ok {
		c.Name = v
	}
	if v, ok := fields["description"].(string); ok {
		c.Description = v
	}
	if v, ok := fields["slug"].(string); ok {
		c.Slug = v
	}
	return true, nil
}

func (f *fakeCategoryStore) SoftDelete(_ context.Context, id primitive.ObjectID) (bool, error) {
	c := f.find(id)
	if c == nil {
		return false, nil
	}
	now := c.CreatedAt
	c.DeletedAt = &now
	return true, nil
}

func TestBuildPath(t *testing.T) {
	ctx := context.Background()
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	// Root path is empty.
	path, err := svc.BuildPath(ctx, nil)
	if err != nil {
		t.Fatalf("BuildPath(nil): %v", err)
	}
	if path != "" {
		t.Errorf("root path = %q, want empty", path)
	}

	// Missing parent is NotFound.
	missing := primitive.NewObjectID()
	if _, err := svc.BuildPath(ctx, &missing); !IsNotFound(err) {
		t.Errorf("BuildPath(missing) = %v, want NotFound", err)
	}
}

func TestCreateBuildsChainedPaths(t *testing.T) {
	ctx := context.Background()
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	a, err := svc.Create(ctx, "Tech", "", "", nil)
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if a.Path != "" {
		t.Errorf("root path = %q, want empty", a.Path)
	}

	b, err := svc.Create(ctx, "Go", "", "", &a.ID)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if want := "/" + a.ID.Hex(); b.Path != want {
		t.Errorf("child path = %q, want %q", b.Path, want)
	}

	c, err := svc.Create(ctx, "Generics", "", "", &b.ID)
	if err != nil {
		t.Fatalf("create grandchild: %v", err)
	}
	if want := "/" + a.ID.Hex() + "/" + b.ID.Hex(); c.Path != want {
		t.Errorf("grandchild path = %q, want %q", c.Path, want)
	}

	// Depth equals the number of separators.
	if got := strings.Count(c.Path, "/"); got != 2 {
		t.Errorf("grandchild depth = %d, want 2", got)
	}
}

func TestCreateSlugHandling(t *testing.T) {
	ctx := context.Background()
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	c, err := svc.Create(ctx, "Hello World!", "", "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Slug != "hello-world" {
		t.Errorf("derived slug = %q, want %q", c.Slug, "hello-world")
	}

	if _, err := svc.Create(ctx, "Another", "", "hello-world", nil); !IsConflict(err) {
		t.Errorf("duplicate slug = %v, want Conflict", err)
	}
	if _, err := svc.Create(ctx, "Bad", "", "-bad-slug", nil); !IsInvalidInput(err) {
		t.Errorf("bad slug = %v, want InvalidInput", err)
	}
}

func TestUpdateSlugConflictExcludesSelf(t *testing.T) {
	ctx := context.Background()
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	a, _ := svc.Create(ctx, "Alpha", "", "", nil)
	b, _ := svc.Create(ctx, "Beta", "", "", nil)

	// Keeping your own slug is not a conflict.
	slug := "alpha"
	if _, err := svc.Update(ctx, a.ID, UpdateCategoryInput{Slug: &slug}); err != nil {
		t.Errorf("update own slug: %v", err)
	}

	// Taking another category's slug is.
	if _, err := svc.Update(ctx, b.ID, UpdateCategoryInput{Slug: &slug}); !IsConflict(err) {
		t.Errorf("update to taken slug = %v, want Conflict", err)
	}
}

func TestListTree(t *testing.T) {
	ctx := context.Background()
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	root, _ := svc.Create(ctx, "Root", "", "", nil)
	child1, _ := svc.Create(ctx, "Child One", "", "", &root.ID)
	child2, _ := svc.Create(ctx, "Child Two", "", "", &root.ID)
	grand, _ := svc.Create(ctx, "Grand", "", "", &child1.ID)

	trees, err := svc.ListTree(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	if len(trees) != 1 {
		t.Fatalf("got %d roots, want 1", len(trees))
	}
	got := trees[0]
	if got.ID != root.ID {
		t.Fatalf("root id mismatch")
	}
	if len(got.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(got.Children))
	}
	// Children keep store order.
	if got.Children[0].ID != child1.ID || got.Children[1].ID != child2.ID {
		t.Errorf("children out of order")
	}
	if len(got.Children[0].Children) != 1 || got.Children[0].Children[0].ID != grand.ID {
		t.Errorf("grandchild not attached under child one")
	}
	// Leaves carry an empty slice, not nil, so JSON renders [].
	if got.Children[1].Children == nil {
		t.Errorf("leaf Children is nil, want empty slice")
	}
}

func TestListTreeExcludesOrphansOfDeletedParent(t *testing.T) {
	ctx := context.Background()
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	root, _ := svc.Create(ctx, "Root", "", "", nil)
	mid, _ := svc.Create(ctx, "Mid", "", "", &root.ID)
	leaf, _ := svc.Create(ctx, "Leaf", "", "", &mid.ID)

	if err := svc.Delete(ctx, mid.ID); err != nil {
		t.Fatalf("delete mid: %v", err)
	}

	trees, err := svc.ListTree(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	if len(trees) != 1 {
		t.Fatalf("got %d roots, want 1", len(trees))
	}
	if len(trees[0].Children) != 0 {
		t.Errorf("root has %d children after mid deleted, want 0", len(trees[0].Children))
	}
	// The leaf is fetched by prefix but its parent is gone, so it must
	// not surface anywhere in the tree.
	var walk func(n *models.Category) bool
	walk = func(n *models.Category) bool {
		if n.ID == leaf.ID {
			return true
		}
		for _, k := range n.Children {
			if walk(k) {
				return true
			}
		}
		return false
	}
	if walk(trees[0]) {
		t.Errorf("orphaned leaf surfaced in tree")
	}
}

func TestGetSubtree(t *testing.T) {
	ctx := context.Background()
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	root, _ := svc.Create(ctx, "Root", "", "", nil)
	mid, _ := svc.Create(ctx, "Mid", "", "", &root.ID)
	leaf, _ := svc.Create(ctx, "Leaf", "", "", &mid.ID)

	sub, err := svc.GetSubtree(ctx, mid.ID)
	if err != nil {
		t.Fatalf("GetSubtree: %v", err)
	}
	if sub.ID != mid.ID {
		t.Fatalf("subtree root = %s, want mid", sub.ID.Hex())
	}
	if len(sub.Children) != 1 || sub.Children[0].ID != leaf.ID {
		t.Errorf("subtree missing leaf child")
	}

	if _, err := svc.GetSubtree(ctx, primitive.NewObjectID()); !IsNotFound(err) {
		t.Errorf("GetSubtree(missing) = %v, want NotFound", err)
	}
}

func TestDeleteMissingCategory(t *testing.T) {
	svc := NewCategoryService(&fakeCategoryStore{})
	if err := svc.Delete(context.Background(), primitive.NewObjectID()); !IsNotFound(err) {
		t.Errorf("Delete(missing) = %v, want NotFound", err)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// PostStore is the persistence surface the post service needs.
type PostStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, skip, limit int64) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)
	ListPublished(ctx context.Context, categoryID *primitive.ObjectID, skip, limit int64) ([]models.Post, error)
	CountPublished(ctx context.Context, categoryID *primitive.ObjectID) (int64, error)
	FindPublishedByTagSlug(ctx context.Context, tagSlug string, skip, limit int64) ([]models.Post, error)
	Upsert(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	IncrementLikes(ctx context.Context, id primitive.ObjectID) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// AuthorLookup resolves the author snapshot embedded in each post.
type AuthorLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// TagResolver is the slice of TagService the post service depends on.
type TagResolver interface {
	Resolve(ctx context.Context, inputs []TagInput) ResolvedTags
	ReconcileUsage(ctx context.Context, prev, next []primitive.ObjectID) error
}

// PostService owns post lifecycle and keeps the denormalized tag arrays
// and usage counts consistent.
type PostService struct {
	posts PostStore
	users AuthorLookup
	tags  TagResolver
}

// NewPostService wires a PostService.
func NewPostService(posts PostStore, users AuthorLookup, tags TagResolver) *PostService {
	return &PostService{posts: posts, users: users, tags: tags}
}

// CreatePostInput carries the fields accepted at post creation.
type CreatePostInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	Thumbnail  string
	Banner     string
	CategoryID *primitive.ObjectID
	Tags       []TagInput
	SEO        models.SEO
}

// Create inserts a draft post. The author snapshot (name and email) is
// captured at creation time and not kept in sync with later profile
// edits.
func (s *PostService) Create(ctx context.Context, authorID primitive.ObjectID, in CreatePostInput) (*models.Post, error) {
	slugStr := in.Slug
	if slugStr == "" {
		slugStr = slug.Generate(in.Title)
	}
	if !slug.Valid(slugStr) {
		return nil, ErrInvalidInput("invalid slug format")
	}

	existing, err := s.posts.FindBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict("slug", "post slug already in use")
	}

	authorName, authorEmail := "Unknown", ""
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		slog.Warn("author lookup failed", "author_id", authorID.Hex(), "error", err)
	} else if author != nil {
		authorName, authorEmail = author.FullName, author.Email
	}

	resolved := s.tags.Resolve(ctx, in.Tags)

	now := time.Now().UTC()
	post := &models.Post{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Slug:        slugStr,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		Thumbnail:   in.Thumbnail,
		Banner:      in.Banner,
		Status:      models.PostStatusDraft,
		AuthorID:    authorID,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		CategoryID:  in.CategoryID,
		TagIDs:      resolved.IDs,
		TagNames:    resolved.Names,
		TagSlugs:    resolved.Slugs,
		SEO:         in.SEO,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.posts.Upsert(ctx, post); err != nil {
		return nil, err
	}

	if err := s.tags.ReconcileUsage(ctx, nil, resolved.IDs); err != nil {
		// The post is already stored. A missed increment drifts counts
		// rather than failing the request.
		slog.Warn("tag usage reconcile failed", "post_id", post.ID.Hex(), "error", err)
	}
	return post, nil
}

// UpdatePostInput carries the optional fields of a post update. A nil
// Tags means "leave the tag set alone"; an empty non-nil slice clears it.
type UpdatePostInput struct {
	Title      *string
	Slug       *string
	Excerpt    *string
	Content    *string
	Thumbnail  *string
	Banner     *string
	CategoryID *primitive.ObjectID
	Tags       *[]TagInput
	SEO        *models.SEO
}

// Update applies a partial update. When the tag set changes, all three
// denormalized arrays are rewritten together and usage counts are
// adjusted by set difference.
func (s *PostService) Update(ctx context.Context, id primitive.ObjectID, in UpdatePostInput) (*models.Post, error) {
	current, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound("post not found")
	}

	fields := bson.M{"updated_at": time.Now().UTC()}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Slug != nil {
		if !slug.Valid(*in.Slug) {
			return nil, ErrInvalidInput("invalid slug format")
		}
		other, err := s.posts.FindBySlug(ctx, *in.Slug)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrConflict("slug", "post slug already in use")
		}
		fields["slug"] = *in.Slug
	}
	if in.Excerpt != nil {
		fields["excerpt"] = *in.Excerpt
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.Thumbnail != nil {
		fields["thumbnail"] = *in.Thumbnail
	}
	if in.Banner != nil {
		fields["banner"] = *in.Banner
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	}
	if in.SEO != nil {
		fields["seo"] = *in.SEO
	}

	var newTagIDs []primitive.ObjectID
	if in.Tags != nil {
		resolved := s.tags.Resolve(ctx, *in.Tags)
		fields["tag_ids"] = resolved.IDs
		fields["tag_names"] = resolved.Names
		fields["tag_slugs"] = resolved.Slugs
		newTagIDs = resolved.IDs
	}

	if _, err := s.posts.Update(ctx, id, fields); err != nil {
		return nil, err
	}

	if in.Tags != nil {
		if err := s.tags.ReconcileUsage(ctx, current.TagIDs, newTagIDs); err != nil {
			slog.Warn("tag usage reconcile failed", "post_id", id.Hex(), "error", err)
		}
	}
	return s.posts.FindByID(ctx, id)
}

// Publish marks a post published. The published_at timestamp is set only
// on the first publish and survives later unpublish/republish cycles.
func (s *PostService) Publish(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	current, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound("post not found")
	}

	fields := bson.M{
		"status":     models.PostStatusPublished,
		"updated_at": time.Now().UTC(),
	}
	if current.PublishedAt == nil {
		now := time.Now().UTC()
		fields["published_at"] = now
	}
	if _, err := s.posts.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.posts.FindByID(ctx, id)
}

// Unpublish reverts a post to draft and clears its publish timestamp.
func (s *PostService) Unpublish(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return s.setStatus(ctx, id, bson.M{
		"status":       models.PostStatusDraft,
		"published_at": nil,
		"updated_at":   time.Now().UTC(),
	})
}

// Archive marks a post archived. It stops appearing in public listings
// but keeps its publish timestamp.
func (s *PostService) Archive(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return s.setStatus(ctx, id, bson.M{
		"status":     models.PostStatusArchived,
		"updated_at": time.Now().UTC(),
	})
}

func (s *PostService) setStatus(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Post, error) {
	ok, err := s.posts.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound("post not found")
	}
	return s.posts.FindByID(ctx, id)
}

// Get returns one post by id regardless of status.
func (s *PostService) Get(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound("post not found")
	}
	return post, nil
}

// GetPublishedBySlug returns one published post by slug and counts the
// view. View counting is best-effort.
func (s *PostService) GetPublishedBySlug(ctx context.Context, slugStr string) (*models.Post, error) {
	post, err := s.posts.FindPublishedBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound("post not found")
	}
	if err := s.posts.IncrementViews(ctx, post.ID); err != nil {
		slog.Warn("view count increment failed", "post_id", post.ID.Hex(), "error", err)
	} else {
		post.ViewsCount++
	}
	return post, nil
}

// Like increments a post's like counter.
func (s *PostService) Like(ctx context.Context, id primitive.ObjectID) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound("post not found")
	}
	return s.posts.IncrementLikes(ctx, id)
}

// List returns a page of posts of any status plus the total count.
func (s *PostService) List(ctx context.Context, skip, limit int64) ([]models.Post, int64, error) {
	posts, err := s.posts.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListPublished returns a page of published posts, optionally filtered
// by category, plus the total count for the same filter.
func (s *PostService) ListPublished(ctx context.Context, categoryID *primitive.ObjectID, skip, limit int64) ([]models.Post, int64, error) {
	posts, err := s.posts.ListPublished(ctx, categoryID, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.posts.CountPublished(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListPublishedByTag returns published posts carrying the given tag slug
// in their denormalized tag arrays.
func (s *PostService) ListPublishedByTag(ctx context.Context, tagSlug string, skip, limit int64) ([]models.Post, error) {
	return s.posts.FindPublishedByTagSlug(ctx, tagSlug, skip, limit)
}

// Delete soft-deletes a post. Tag usage counts are left untouched so a
// restore does not need a second reconcile pass.
func (s *PostService) Delete(ctx context.Context, id primitive.ObjectID) error {
	ok, err := s.posts.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound("post not found")
	}
	return nil
}

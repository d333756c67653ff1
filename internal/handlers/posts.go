// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
)

// Posts handles the post endpoints, both the authoring surface and the
// public published listings.
type Posts struct {
	Posts *services.PostService
}

type postRequest struct {
	Title      string              `json:"title"`
	Slug       string              `json:"slug"`
	Excerpt    string              `json:"excerpt"`
	Content    string              `json:"content"`
	Thumbnail  string              `json:"thumbnail"`
	Banner     string              `json:"banner"`
	CategoryID *string             `json:"category_id"`
	Tags       []services.TagInput `json:"tags"`
	SEO        *models.SEO         `json:"seo"`
}

func parseOptionalID(raw *string, field string) (*primitive.ObjectID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(*raw)
	if err != nil {
		return nil, services.ErrInvalidInput("invalid " + field + " format")
	}
	return &id, nil
}

// Create inserts a draft post authored by the caller.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	authorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, services.ErrInvalidInput("invalid token subject"))
		return
	}

	var req postRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	categoryID, err := parseOptionalID(req.CategoryID, "category_id")
	if err != nil {
		writeError(w, err)
		return
	}

	in := services.CreatePostInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Thumbnail:  req.Thumbnail,
		Banner:     req.Banner,
		CategoryID: categoryID,
		Tags:       req.Tags,
	}
	if req.SEO != nil {
		in.SEO = *req.SEO
	}

	post, err := h.Posts.Create(r.Context(), authorID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, post)
}

type updatePostRequest struct {
	Title      *string              `json:"title"`
	Slug       *string              `json:"slug"`
	Excerpt    *string              `json:"excerpt"`
	Content    *string              `json:"content"`
	Thumbnail  *string              `json:"thumbnail"`
	Banner     *string              `json:"banner"`
	CategoryID *string              `json:"category_id"`
	Tags       *[]services.TagInput `json:"tags"`
	SEO        *models.SEO          `json:"seo"`
}

// Update applies a partial update. Sending a tags array, even an empty
// one, replaces the post's whole tag set.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req updatePostRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	categoryID, err := parseOptionalID(req.CategoryID, "category_id")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.Posts.Update(r.Context(), id, services.UpdatePostInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Thumbnail:  req.Thumbnail,
		Banner:     req.Banner,
		CategoryID: categoryID,
		Tags:       req.Tags,
		SEO:        req.SEO,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, post)
}

// Get returns one post by id regardless of status.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	post, err := h.Posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, post)
}

// List returns posts of any status for the authoring UI.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	posts, total, err := h.Posts.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, pagedData{Items: posts, Total: total, Skip: skip, Limit: limit})
}

// Publish makes a post public.
func (h *Posts) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Posts.Publish)
}

// Unpublish reverts a post to draft.
func (h *Posts) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Posts.Unpublish)
}

// Archive retires a post from the public listings.
func (h *Posts) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Posts.Archive)
}

func (h *Posts) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id primitive.ObjectID) (*models.Post, error)) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	post, err := op(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, post)
}

// Delete soft-deletes a post.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Posts.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "post deleted"})
}

// ListPublished returns the public feed, optionally filtered by category.
func (h *Posts) ListPublished(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	var categoryID *primitive.ObjectID
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			writeError(w, services.ErrInvalidInput("invalid category_id format"))
			return
		}
		categoryID = &id
	}

	posts, total, err := h.Posts.ListPublished(r.Context(), categoryID, skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, pagedData{Items: posts, Total: total, Skip: skip, Limit: limit})
}

// GetPublishedBySlug returns one published post and counts the view.
func (h *Posts) GetPublishedBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.Posts.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, post)
}

// ListPublishedByTag returns the public feed filtered by tag slug, using
// the denormalized tag arrays on the posts.
func (h *Posts) ListPublishedByTag(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	posts, err := h.Posts.ListPublishedByTag(r.Context(), chi.URLParam(r, "slug"), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, posts)
}

// Like increments a post's like counter.
func (h *Posts) Like(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Posts.Like(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "liked"})
}

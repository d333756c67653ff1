// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/services"
)

// Categories handles the category endpoints, including the tree views.
type Categories struct {
	Categories *services.CategoryService
}

type createCategoryRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// Create inserts a category under the given parent (root when absent).
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := primitive.ObjectIDFromHex(*req.ParentID)
		if err != nil {
			writeError(w, services.ErrInvalidInput("invalid parent_id format"))
			return
		}
		parentID = &id
	}

	category, err := h.Categories.Create(r.Context(), req.Name, req.Description, req.Slug, parentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, category)
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

// Update applies a partial update. The parent is fixed at creation and
// not part of the update surface.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	category, err := h.Categories.Update(r.Context(), id, services.UpdateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, category)
}

// Get returns one category by id.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	category, err := h.Categories.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, category)
}

// List returns a flat page of categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	categories, total, err := h.Categories.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, pagedData{Items: categories, Total: total, Skip: skip, Limit: limit})
}

// Tree returns a page of root categories with their full descendant
// trees attached.
func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	roots, err := h.Categories.ListTree(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, roots)
}

// Subtree returns one category with its descendants attached.
func (h *Categories) Subtree(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	root, err := h.Categories.GetSubtree(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, root)
}

// Delete soft-deletes a category. Descendants stay in place and drop out
// of tree views until re-parented.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Categories.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "category deleted"})
}

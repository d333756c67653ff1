package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/services"
)

// Tags handles the tag endpoints.
type Tags struct {
	Tags *services.TagService
}

type tagRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Create inserts a tag. Unlike tags created implicitly through posts, a
// taken slug here is reported as a conflict.
func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tag, err := h.Tags.Create(r.Context(), req.Name, req.Description, req.Slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, tag)
}

type updateTagRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

// Update applies a partial update.
func (h *Tags) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateTagRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tag, err := h.Tags.Update(r.Context(), id, services.UpdateTagInput{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tag)
}

// Get returns one tag by id.
func (h *Tags) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	tag, err := h.Tags.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tag)
}

// GetBySlug returns one tag by slug.
func (h *Tags) GetBySlug(w http.ResponseWriter, r *http.Request) {
	tag, err := h.Tags.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tag)
}

// List returns tags ordered by usage, most used first.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	tags, total, err := h.Tags.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, pagedData{Items: tags, Total: total, Skip: skip, Limit: limit})
}

// Delete soft-deletes a tag.
func (h *Tags) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Tags.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "tag deleted"})
}

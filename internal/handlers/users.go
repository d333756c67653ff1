// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
)

// Users handles the admin user management endpoints.
type Users struct {
	Users *services.UserService
}

// List returns a page of users.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	users, total, err := h.Users.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, pagedData{Items: users, Total: total, Skip: skip, Limit: limit})
}

// Get returns one user by id.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := h.Users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

type updateUserRequest struct {
	FullName *string      `json:"full_name"`
	Role     *models.Role `json:"role"`
}

// Update applies a partial profile update.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.Users.Update(r.Context(), id, services.UpdateUserInput{
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// Delete soft-deletes a user.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "user deleted"})
}

// Lock places a manual lock on the account until an admin releases it.
func (h *Users) Lock(w http.ResponseWriter, r *http.Request) {
	actorID, id, err := h.lockParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := h.Users.Lock(r.Context(), actorID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// Unlock releases a manual or timed lock and resets the failure counter.
func (h *Users) Unlock(w http.ResponseWriter, r *http.Request) {
	actorID, id, err := h.lockParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := h.Users.Unlock(r.Context(), actorID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *Users) lockParams(r *http.Request) (actorID, id primitive.ObjectID, err error) {
	id, err = pathID(chi.URLParam(r, "id"))
	if err != nil {
		return
	}
	claims := middleware.ClaimsFromCtx(r.Context())
	actorID, err = primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		err = services.ErrInvalidInput("invalid token subject")
	}
	return
}

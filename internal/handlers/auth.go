// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
)

// Auth handles registration, login, logout, and password changes.
type Auth struct {
	Users *services.UserService
}

type registerRequest struct {
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Register creates a new account and returns its first access token.
// Admin-only: the route is mounted behind the admin guard, so there is
// no self-service signup. An omitted role defaults to guest.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.Users.Register(r.Context(), req.FullName, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and opens the user's single active session.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

// Logout drops the caller's active session.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, services.ErrInvalidInput("invalid token subject"))
		return
	}
	if err := h.Users.Logout(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "logged out"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword rotates the caller's password and invalidates their
// session, forcing a fresh login.
func (h *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, services.ErrInvalidInput("invalid token subject"))
		return
	}
	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Users.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "password changed, please log in again"})
}

// Me returns the authenticated user's own record.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, services.ErrInvalidInput("invalid token subject"))
		return
	}
	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the JSON API.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/services"
)

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// pagedData wraps list payloads with their total count.
type pagedData struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Skip  int64 `json:"skip"`
	Limit int64 `json:"limit"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeData writes a success envelope around data.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError maps a service error to its HTTP status. Timed lockouts get
// a Retry-After header; anything that is not a ServiceError becomes an
// opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var se services.ServiceError
	if !errors.As(err, &se) {
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "internal server error"})
		return
	}
	if se.RetryAfter > 0 {
		seconds := int(se.RetryAfter.Round(time.Second) / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}
	writeJSON(w, se.Status, envelope{Success: false, Message: se.Message, Field: se.Field})
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.ErrInvalidInput("malformed request body")
	}
	return nil
}

// pathID parses the {id} URL parameter as an ObjectID.
func pathID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, services.ErrInvalidInput("invalid id format")
	}
	return id, nil
}

// pagination reads skip and limit query parameters with sane bounds.
func pagination(r *http.Request) (skip, limit int64) {
	skip, _ = strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	limit, _ = strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return skip, limit
}

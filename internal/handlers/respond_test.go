package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/services"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", services.ErrNotFound("missing"), http.StatusNotFound},
		{"conflict", services.ErrConflict("slug", "taken"), http.StatusConflict},
		{"invalid input", services.ErrInvalidInput("bad"), http.StatusBadRequest},
		{"auth failed", services.ErrAuthenticationFailed(), http.StatusUnauthorized},
		{"locked", services.ErrAccountLocked(10 * time.Minute), http.StatusLocked},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}

			var body envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body.Success {
				t.Errorf("success = true on error response")
			}
		})
	}
}

func TestWriteErrorLockedSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, services.ErrAccountLocked(10*time.Minute))
	if got := rec.Header().Get("Retry-After"); got != "600" {
		t.Errorf("Retry-After = %q, want 600", got)
	}

	// A manual lock carries no retry hint.
	rec = httptest.NewRecorder()
	writeError(rec, services.ErrAccountLocked(0))
	if got := rec.Header().Get("Retry-After"); got != "" {
		t.Errorf("Retry-After = %q for manual lock, want unset", got)
	}
}

func TestWriteErrorConflictCarriesField(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, services.ErrConflict("email", "email already registered"))

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Field != "email" {
		t.Errorf("field = %q, want email", body.Field)
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("dial tcp 10.0.0.1: connection refused"))

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Message != "internal server error" {
		t.Errorf("message = %q, leaks internal detail", body.Message)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query     string
		wantSkip  int64
		wantLimit int64
	}{
		{"", 0, 20},
		{"?skip=5&limit=10", 5, 10},
		{"?skip=-3", 0, 20},
		{"?limit=0", 0, 20},
		{"?limit=5000", 0, 100},
		{"?skip=abc&limit=xyz", 0, 20},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
		skip, limit := pagination(r)
		if skip != tt.wantSkip || limit != tt.wantLimit {
			t.Errorf("pagination(%q) = %d, %d, want %d, %d", tt.query, skip, limit, tt.wantSkip, tt.wantLimit)
		}
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package services implements the application logic on top of the stores:
// category trees, tag resolution, post lifecycle, authentication with
// account lockout, and token issuance.
package services

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ServiceError is the error type crossing the service boundary. Handlers
// translate Status to the HTTP response code; Field names the offending
// field on conflicts; RetryAfter is set for timed account lockouts.
type ServiceError struct {
	Status     int
	Message    string
	Field      string
	RetryAfter time.Duration
}

func (e ServiceError) Error() string {
	return e.Message
}

// ErrNotFound reports a missing category, tag, user, or post.
func ErrNotFound(msg string) error {
	return ServiceError{Status: http.StatusNotFound, Message: msg}
}

// ErrConflict reports a uniqueness violation on the named field.
func ErrConflict(field, msg string) error {
	return ServiceError{Status: http.StatusConflict, Message: msg, Field: field}
}

// ErrInvalidInput reports a malformed id, bad slug format, or similar.
func ErrInvalidInput(msg string) error {
	return ServiceError{Status: http.StatusBadRequest, Message: msg}
}

// ErrAccountLocked reports a login attempt against a locked account.
// retryAfter > 0 indicates a timed lockout and is surfaced to the client
// so it can show a cooldown message; zero means a manual lock with no
// retry hint.
func ErrAccountLocked(retryAfter time.Duration) error {
	msg := "account is locked, contact an administrator"
	if retryAfter > 0 {
		minutes := int(retryAfter.Round(time.Minute) / time.Minute)
		if minutes < 1 {
			minutes = 1
		}
		msg = fmt.Sprintf("account is locked, try again in %d minutes", minutes)
	}
	return ServiceError{Status: http.StatusLocked, Message: msg, RetryAfter: retryAfter}
}

// ErrAuthenticationFailed reports bad credentials without revealing
// whether the email exists.
func ErrAuthenticationFailed() error {
	return ServiceError{Status: http.StatusUnauthorized, Message: "invalid email or password"}
}

// statusOf extracts the ServiceError status, or 0 if err is not one.
func statusOf(err error) int {
	var se ServiceError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// IsNotFound reports whether err is a NotFound service error.
func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

// IsConflict reports whether err is a Conflict service error.
func IsConflict(err error) bool { return statusOf(err) == http.StatusConflict }

// IsInvalidInput reports whether err is an InvalidInput service error.
func IsInvalidInput(err error) bool { return statusOf(err) == http.StatusBadRequest }

// IsAccountLocked reports whether err is an AccountLocked service error.
func IsAccountLocked(err error) bool { return statusOf(err) == http.StatusLocked }

// IsAuthenticationFailed reports whether err is an AuthenticationFailed
// service error.
func IsAuthenticationFailed(err error) bool { return statusOf(err) == http.StatusUnauthorized }

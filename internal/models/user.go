// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the document structures stored in MongoDB and
// provides the core types used throughout the application.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"
	RoleGuest  Role = "guest"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleWriter || r == RoleGuest
}

// User represents an account with authentication and lockout state.
//
// Locked and LockedUntil together encode three states: unlocked
// (Locked=false), manually locked (Locked=true, LockedUntil=nil), and
// timed lockout (Locked=true, LockedUntil set). FailedAttempts resets to
// zero on any successful login or explicit unlock.
type User struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	FullName       string             `bson:"full_name" json:"full_name"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"password_hash" json:"-"` // Never serialize the hash
	Role           Role               `bson:"role" json:"role"`
	Locked         bool               `bson:"locked" json:"locked"`
	FailedAttempts int                `bson:"failed_attempts" json:"failed_attempts"`
	LockedUntil    *time.Time         `bson:"locked_until,omitempty" json:"locked_until,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time         `bson:"deleted_at,omitempty" json:"-"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

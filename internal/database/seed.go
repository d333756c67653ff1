// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/store"
)

// Seed creates the default admin account if it does not exist yet.
// It is a no-op when the email is already registered, so it is safe to
// run on every startup.
func Seed(ctx context.Context, users *store.UserStore, email, password, fullName string) error {
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check seed user: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	now := time.Now().UTC()
	admin := &models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Upsert(ctx, admin); err != nil {
		return fmt.Errorf("insert seed user: %w", err)
	}
	slog.Info("seeded default admin user", "email", email)
	return nil
}

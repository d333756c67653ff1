// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"

	. "inkwell/internal/store"
)

func newTestUser(email string) *models.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.User{
		ID:           primitive.NewObjectID(),
		FullName:     "Test User",
		Email:        email,
		PasswordHash: "irrelevant",
		Role:         models.RoleWriter,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserStoreRoundTrip(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := newTestUser("roundtrip@example.com")
	if err := s.Upsert(ctx, u); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.FindByEmail(ctx, "roundtrip@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("find by email returned %+v", got)
	}

	// Missing records come back as (nil, nil).
	got, err = s.FindByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if got != nil {
		t.Errorf("missing email returned %+v", got)
	}
}

func TestUserStoreSoftDeleteHidesRecord(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := newTestUser("gone@example.com")
	if err := s.Upsert(ctx, u); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	ok, err := s.SoftDelete(ctx, u.ID)
	if err != nil || !ok {
		t.Fatalf("soft delete = %v, %v", ok, err)
	}

	if got, _ := s.FindByEmail(ctx, "gone@example.com"); got != nil {
		t.Errorf("soft-deleted user still found by email")
	}
	if got, _ := s.FindByID(ctx, u.ID); got != nil {
		t.Errorf("soft-deleted user still found by id")
	}

	ok, err = s.SoftDelete(ctx, u.ID)
	if err != nil {
		t.Fatalf("second soft delete: %v", err)
	}
	if ok {
		t.Errorf("second soft delete reported a match")
	}
}

func TestIncrementFailedAttemptsConcurrent(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := newTestUser("racy@example.com")
	if err := s.Upsert(ctx, u); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Ten concurrent failures must count exactly ten; $inc is atomic so
	// no attempt may be lost to a read-modify-write race.
	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.IncrementFailedAttempts(ctx, u.ID); err != nil {
				t.Errorf("increment: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.FailedAttempts != n {
		t.Errorf("failed_attempts = %d, want %d", got.FailedAttempts, n)
	}
}

func TestUserStoreUpdateFields(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := newTestUser("fields@example.com")
	if err := s.Upsert(ctx, u); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	until := time.Now().UTC().Add(15 * time.Minute).Truncate(time.Millisecond)
	ok, err := s.UpdateFields(ctx, u.ID, bson.M{"locked": true, "locked_until": until})
	if err != nil || !ok {
		t.Fatalf("update = %v, %v", ok, err)
	}

	got, _ := s.FindByID(ctx, u.ID)
	if !got.Locked || got.LockedUntil == nil || !got.LockedUntil.Equal(until) {
		t.Errorf("lock fields not persisted: locked=%v until=%v", got.Locked, got.LockedUntil)
	}

	// Clearing locked_until with nil round-trips as a nil pointer.
	if _, err := s.UpdateFields(ctx, u.ID, bson.M{"locked": false, "locked_until": nil}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = s.FindByID(ctx, u.ID)
	if got.Locked || got.LockedUntil != nil {
		t.Errorf("lock fields not cleared: locked=%v until=%v", got.Locked, got.LockedUntil)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
)

// HashPassword hashes a password for storage. The password is first
// reduced to a sha256 hex digest so inputs longer than bcrypt's 72-byte
// limit still hash completely, then run through bcrypt.
func HashPassword(password string) (string, error) {
	digest := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(digest[:])), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(password, hash string) bool {
	digest := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(hex.EncodeToString(digest[:]))) == nil
}

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context, skip, limit int64) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	Upsert(ctx context.Context, u *models.User) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error)
	IncrementFailedAttempts(ctx context.Context, id primitive.ObjectID) (int, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// SessionRegistry tracks the single active session token per user.
type SessionRegistry interface {
	Store(ctx context.Context, userID, token string, ttl time.Duration) error
	InvalidateSession(ctx context.Context, userID string) error
}

// AuditSink records administrative actions. Failures are logged, never
// surfaced to the caller.
type AuditSink interface {
	Record(ctx context.Context, action, actorID, actorEmail, targetID, targetEmail string, details map[string]any) error
}

// UserService owns account lifecycle, authentication, and the failed
// login lockout policy.
type UserService struct {
	users    UserStore
	sessions SessionRegistry
	audit    AuditSink
	tokens   *TokenService

	maxFailedAttempts int
	lockoutDuration   time.Duration

	now func() time.Time
}

// NewUserService wires a UserService with the given lockout policy.
func NewUserService(users UserStore, sessions SessionRegistry, audit AuditSink, tokens *TokenService, maxFailedAttempts int, lockoutDuration time.Duration) *UserService {
	return &UserService{
		users:             users,
		sessions:          sessions,
		audit:             audit,
		tokens:            tokens,
		maxFailedAttempts: maxFailedAttempts,
		lockoutDuration:   lockoutDuration,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// AuthResult is what a successful register or login returns.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"access_token"`
}

// Register creates an account and opens a session for it. A taken email
// is a Conflict.
func (s *UserService) Register(ctx context.Context, fullName, email, password string, role models.Role) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidInput("email is required")
	}
	if role == "" {
		role = models.RoleGuest
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidInput("invalid role")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict("email", "email already registered")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return s.openSession(ctx, user)
}

// Login authenticates by email and password.
//
// The lockout check runs before the password check, and an expired timed
// lock is cleared before either. A failed password attempt increments the
// account's counter; crossing the threshold locks the account until
// now+lockoutDuration. The same "invalid email or password" error covers
// both unknown emails and wrong passwords.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAuthenticationFailed()
	}

	if user.Locked {
		if user.LockedUntil == nil {
			// Manual lock, only an admin releases it.
			return nil, ErrAccountLocked(0)
		}
		remaining := user.LockedUntil.Sub(s.now())
		if remaining > 0 {
			return nil, ErrAccountLocked(remaining)
		}
		// The lock expired; clear it and let this attempt proceed.
		if err := s.clearLock(ctx, user.ID); err != nil {
			return nil, err
		}
		user.Locked = false
		user.LockedUntil = nil
		user.FailedAttempts = 0
	}

	if !VerifyPassword(password, user.PasswordHash) {
		if err := s.recordFailedAttempt(ctx, user); err != nil {
			slog.Error("failed attempt bookkeeping", "user_id", user.ID.Hex(), "error", err)
		}
		return nil, ErrAuthenticationFailed()
	}

	if user.FailedAttempts > 0 {
		if _, err := s.users.UpdateFields(ctx, user.ID, bson.M{
			"failed_attempts": 0,
			"updated_at":      s.now(),
		}); err != nil {
			return nil, err
		}
		user.FailedAttempts = 0
	}
	return s.openSession(ctx, user)
}

// recordFailedAttempt bumps the counter and locks the account when the
// threshold is reached.
func (s *UserService) recordFailedAttempt(ctx context.Context, user *models.User) error {
	attempts, err := s.users.IncrementFailedAttempts(ctx, user.ID)
	if err != nil {
		return err
	}
	if attempts < s.maxFailedAttempts {
		return nil
	}
	until := s.now().Add(s.lockoutDuration)
	_, err = s.users.UpdateFields(ctx, user.ID, bson.M{
		"locked":       true,
		"locked_until": until,
		"updated_at":   s.now(),
	})
	if err == nil {
		slog.Warn("account locked after failed logins", "user_id", user.ID.Hex(), "attempts", attempts, "until", until)
	}
	return err
}

func (s *UserService) clearLock(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.users.UpdateFields(ctx, id, bson.M{
		"locked":          false,
		"locked_until":    nil,
		"failed_attempts": 0,
		"updated_at":      s.now(),
	})
	return err
}

// openSession issues a token and registers it as the user's single
// active session, displacing any previous one.
func (s *UserService) openSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Create(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}
	ttl := s.tokens.TTLUntilExpiry(token)
	if err := s.sessions.Store(ctx, user.ID.Hex(), token, ttl); err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout drops the user's active session.
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	return s.sessions.InvalidateSession(ctx, userID.Hex())
}

// ChangePassword verifies the old password, stores the new hash, and
// invalidates the active session so the user must log in again.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound("user not found")
	}
	if user.Locked {
		return ErrAccountLocked(0)
	}
	if !VerifyPassword(oldPassword, user.PasswordHash) {
		return ServiceError{Status: http.StatusUnauthorized, Message: "old password is incorrect"}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.UpdateFields(ctx, userID, bson.M{
		"password_hash": hash,
		"updated_at":    s.now(),
	}); err != nil {
		return err
	}
	return s.sessions.InvalidateSession(ctx, userID.Hex())
}

// Unlock releases a lock of either kind and resets the failure counter.
// The action is audited with the acting admin.
func (s *UserService) Unlock(ctx context.Context, actorID primitive.ObjectID, targetID primitive.ObjectID) (*models.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound("user not found")
	}

	if err := s.clearLock(ctx, targetID); err != nil {
		return nil, err
	}
	target.Locked = false
	target.LockedUntil = nil
	target.FailedAttempts = 0

	s.recordAudit(ctx, "user.unlock", actorID, targetID, target.Email, nil)
	return target, nil
}

// Lock places a manual lock on the account. It holds until an admin
// unlocks it. The user's active session is invalidated.
func (s *UserService) Lock(ctx context.Context, actorID primitive.ObjectID, targetID primitive.ObjectID) (*models.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound("user not found")
	}

	if _, err := s.users.UpdateFields(ctx, targetID, bson.M{
		"locked":       true,
		"locked_until": nil,
		"updated_at":   s.now(),
	}); err != nil {
		return nil, err
	}
	target.Locked = true
	target.LockedUntil = nil

	if err := s.sessions.InvalidateSession(ctx, targetID.Hex()); err != nil {
		slog.Warn("session invalidation on lock failed", "user_id", targetID.Hex(), "error", err)
	}
	s.recordAudit(ctx, "user.lock", actorID, targetID, target.Email, nil)
	return target, nil
}

// recordAudit writes an audit entry without letting a sink failure
// bubble up into the admin operation.
func (s *UserService) recordAudit(ctx context.Context, action string, actorID, targetID primitive.ObjectID, targetEmail string, details map[string]any) {
	actorEmail := ""
	if actor, err := s.users.FindByID(ctx, actorID); err == nil && actor != nil {
		actorEmail = actor.Email
	}
	if err := s.audit.Record(ctx, action, actorID.Hex(), actorEmail, targetID.Hex(), targetEmail, details); err != nil {
		slog.Warn("audit record failed", "action", action, "target_id", targetID.Hex(), "error", err)
	}
}

// Get returns one user by id.
func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound("user not found")
	}
	return user, nil
}

// List returns a page of users plus the total count.
func (s *UserService) List(ctx context.Context, skip, limit int64) ([]models.User, int64, error) {
	users, err := s.users.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUserInput carries the optional fields of a profile update.
type UpdateUserInput struct {
	FullName *string
	Role     *models.Role
}

// Update applies a partial profile update.
func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, in UpdateUserInput) (*models.User, error) {
	fields := bson.M{"updated_at": s.now()}
	if in.FullName != nil {
		fields["full_name"] = *in.FullName
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, ErrInvalidInput("invalid role")
		}
		fields["role"] = *in.Role
	}

	ok, err := s.users.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound("user not found")
	}
	return s.users.FindByID(ctx, id)
}

// Delete soft-deletes a user and drops their active session.
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	ok, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound("user not found")
	}
	if err := s.sessions.InvalidateSession(ctx, id.Hex()); err != nil {
		slog.Warn("session invalidation on delete failed", "user_id", id.Hex(), "error", err)
	}
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps one active session token per user in Redis.
//
// Two keys exist per session: session:<user_id> holds the current token,
// and token:<sha256(token)> points back at the user id. Storing a new
// token removes the previous token's reverse key first, so an old token
// stops validating the moment a new login happens.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Registry is the Redis-backed session store.
type Registry struct {
	client *redis.Client
}

// New returns a Registry over the given Redis client.
func New(client *redis.Client) *Registry {
	return &Registry{client: client}
}

func sessionKey(userID string) string { return "session:" + userID }

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "token:" + hex.EncodeToString(sum[:])
}

// Store registers token as the user's only active session. Any previous
// token for the same user is invalidated. Both keys expire after ttl.
func (r *Registry) Store(ctx context.Context, userID, token string, ttl time.Duration) error {
	prev, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("get current session: %w", err)
	}
	if prev != "" && prev != token {
		if err := r.client.Del(ctx, tokenKey(prev)).Err(); err != nil {
			return fmt.Errorf("drop previous token: %w", err)
		}
	}

	if err := r.client.Set(ctx, sessionKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if err := r.client.Set(ctx, tokenKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// IsValid reports whether token belongs to a live session.
func (r *Registry) IsValid(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check token: %w", err)
	}
	return n > 0, nil
}

// UserIDForToken returns the user id a live token belongs to, or "" when
// the token is unknown or expired.
func (r *Registry) UserIDForToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve token: %w", err)
	}
	return userID, nil
}

// InvalidateSession drops the user's active session and its token key.
func (r *Registry) InvalidateSession(ctx context.Context, userID string) error {
	token, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("get current session: %w", err)
	}
	if token != "" {
		if err := r.client.Del(ctx, tokenKey(token)).Err(); err != nil {
			return fmt.Errorf("drop token: %w", err)
		}
	}
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("drop session: %w", err)
	}
	return nil
}

// InvalidateToken drops a single token and, when it is the user's
// current session token, the session key too.
func (r *Registry) InvalidateToken(ctx context.Context, token string) error {
	userID, err := r.UserIDForToken(ctx, token)
	if err != nil {
		return err
	}
	if userID != "" {
		current, err := r.client.Get(ctx, sessionKey(userID)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("get current session: %w", err)
		}
		if current == token {
			if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
				return fmt.Errorf("drop session: %w", err)
			}
		}
	}
	if err := r.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("drop token: %w", err)
	}
	return nil
}

// Package cache provides a Redis-backed read-through cache for users.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"

	"github.com/and161185/blogd/internal/model"
)

// Users caches user records by id with a TTL. A nil *Users is a valid,
// disabled cache: every lookup misses and writes are dropped, so callers
// never branch on whether caching is configured.
type Users struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr and verifies the connection. An empty addr
// returns a nil (disabled) cache.
func New(ctx context.Context, addr string, ttl time.Duration) (*Users, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}
	return &Users{client: rdb, ttl: ttl}, nil
}

func key(id uuid.UUID) string { return "user:" + id.String() }

// Get returns the cached user or (nil, nil) on a miss. Decode failures are
// treated as misses so a stale or truncated entry never breaks a request.
func (c *Users) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

// Set stores the user for the configured TTL.
func (c *Users) Set(ctx context.Context, u *model.User) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(u.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached entries for the given ids. Called after any
// user mutation or deletion.
func (c *Users) Invalidate(ctx context.Context, ids ...uuid.UUID) error {
	if c == nil || len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close releases the underlying connection.
func (c *Users) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

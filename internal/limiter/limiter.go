// Package limiter defines interfaces and implementations for login rate limiting.
package limiter

import (
	"context"
	"time"
)

// Limiter throttles login attempts per (identifier, client) pair and places
// temporary lockouts after repeated failures.
type Limiter interface {
	// Allow reports whether a login attempt is currently allowed and, when it
	// is not, how long until the lockout expires.
	Allow(ctx context.Context, identifier string, ipHash []byte) (bool, time.Duration, error)
	// Success resets counters after a successful login.
	Success(ctx context.Context, identifier string, ipHash []byte) error
	// Failure records a failed attempt; may place a temporary block.
	Failure(ctx context.Context, identifier string, ipHash []byte) (bool, time.Duration, error)
}

// Noop is a Limiter that never throttles. Used when limiting is disabled.
type Noop struct{}

func (Noop) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	return true, 0, nil
}

func (Noop) Success(context.Context, string, []byte) error { return nil }

func (Noop) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	return false, 0, nil
}

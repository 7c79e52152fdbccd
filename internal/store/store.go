// Package store provides session state persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ashureev/carbon-ledger/internal/domain"
)

// ErrEmptyKey is returned when a session key is blank.
var ErrEmptyKey = errors.New("empty session key")

// UpdateFunc mutates a private copy of a session state. Returning an error
// discards the copy and leaves the stored state unchanged.
type UpdateFunc func(state *domain.SessionState) error

// Repository defines the interface for holding per-session dashboard state.
type Repository interface {
	// GetOrInit returns a snapshot of the session state, creating it with
	// defaults on first access.
	GetOrInit(ctx context.Context, key string) (*domain.SessionState, error)

	// Update applies fn atomically to the session state and returns the
	// committed snapshot. Errors from fn are returned unchanged.
	Update(ctx context.Context, key string, fn UpdateFunc) (*domain.SessionState, error)

	// Delete discards the session state.
	Delete(ctx context.Context, key string) error

	// CleanupExpired removes sessions idle for longer than ttl.
	CleanupExpired(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

package store

import (
	"context"
	"log/slog"
	"time"
)

// CleanupCallback is called with the number of sessions removed by a sweep.
type CleanupCallback func(removed int64)

// StartSweeper runs a background goroutine that periodically removes sessions
// idle for longer than ttl. The returned channel closes when the goroutine exits.
func StartSweeper(ctx context.Context, repo Repository, ttl, interval time.Duration, onCleanup CleanupCallback) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				sweep(ctx, repo, ttl, onCleanup)
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
	return done
}

func sweep(ctx context.Context, repo Repository, ttl time.Duration, onCleanup CleanupCallback) {
	removed, err := repo.CleanupExpired(ctx, ttl)
	if err != nil {
		slog.Error("Session sweeper failed", "error", err)
		return
	}
	if removed == 0 {
		return
	}
	slog.Info("Session sweeper removed expired sessions", "count", removed)
	if onCleanup != nil {
		onCleanup(removed)
	}
}

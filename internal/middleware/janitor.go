package middleware

import (
	"context"
	"log/slog"
	"time"
)

// IdempotencyPruner removes stored responses older than a cutoff.
type IdempotencyPruner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// ExpireIdempotencyKeys deletes keys older than ttl every interval until ctx
// is done. A failed sweep is logged and retried on the next tick.
func ExpireIdempotencyKeys(ctx context.Context, repo IdempotencyPruner, ttl, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			deleted, err := repo.DeleteOlderThan(ctx, now.Add(-ttl))
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error("failed to expire idempotency keys", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("expired idempotency keys", "deleted", deleted)
			}
		}
	}
}

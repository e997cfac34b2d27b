package repository

import (
	"context"
	"fmt"
	"time"
)

// Incr atomically increments a rate-limit counter and returns the new
// count. The upsert makes increment-and-check race-free across workers
// sharing the database; a key created after the previous window expired
// starts from one. This is the SQL fallback used when no Redis counter
// store is configured.
func (r *Repository) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var count int64
	query := `
		INSERT INTO rate_limit_counters (key, count, expires_at)
		VALUES ($1, 1, $2)
		ON CONFLICT (key) DO UPDATE
		SET count = rate_limit_counters.count + 1
		RETURNING count`
	expiresAt := time.Now().UTC().Add(ttl)
	if err := r.db.QueryRowContext(ctx, query, key, expiresAt).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	return count, nil
}

// DeleteExpiredRateLimitCounters removes counter rows whose window has
// closed. Called by the hourly sweeper job.
func (r *Repository) DeleteExpiredRateLimitCounters(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM rate_limit_counters WHERE expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired counters: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return deleted, nil
}

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/harborline/loanserve/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Category names a rate-limit bucket with a fixed limit and window.
type Category string

const (
	// CategoryAuth throttles authentication-adjacent endpoints such as
	// password reset requests.
	CategoryAuth Category = "auth"
	// CategoryAPI throttles general API traffic.
	CategoryAPI Category = "api"
	// CategoryUpload throttles document uploads.
	CategoryUpload Category = "upload"
)

type rule struct {
	limit  int64
	window time.Duration
}

var rules = map[Category]rule{
	CategoryAuth:   {limit: 5, window: 15 * time.Minute},
	CategoryAPI:    {limit: 100, window: time.Minute},
	CategoryUpload: {limit: 20, window: time.Hour},
}

// Result is the outcome of a rate-limit check. Unlimited means limiting is
// administratively disabled; Remaining and ResetAt are meaningless in that
// variant and must not be read as counts.
type Result struct {
	Unlimited bool
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// CounterStore atomically increments a counter that expires with its
// window. Implementations must be safe for concurrent workers sharing the
// same store.
type CounterStore interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Limiter enforces fixed-window limits per (category, subject).
type Limiter struct {
	store    CounterStore
	disabled bool
	log      *logrus.Logger
	now      func() time.Time
}

// NewLimiter initializes a limiter backed by the given counter store.
func NewLimiter(store CounterStore, disabled bool, log *logrus.Logger) *Limiter {
	return &Limiter{
		store:    store,
		disabled: disabled,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Check increments the counter for (category, subject) and reports whether
// the request is allowed. The counter key embeds the window start, so a
// fresh window always counts from zero.
func (l *Limiter) Check(ctx context.Context, category Category, subject string) (Result, error) {
	if l.disabled {
		return Result{Unlimited: true, Allowed: true}, nil
	}

	r, ok := rules[category]
	if !ok {
		return Result{}, fmt.Errorf("unknown rate limit category: %s", category)
	}

	windowStart := l.now().Truncate(r.window)
	resetAt := windowStart.Add(r.window)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", category, subject, windowStart.Unix())

	count, err := l.store.Incr(ctx, key, r.window)
	if err != nil {
		return Result{}, fmt.Errorf("failed to increment counter: %w", err)
	}

	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}
	allowed := count <= r.limit
	if !allowed {
		metrics.RateLimitRejections.WithLabelValues(string(category)).Inc()
		l.log.Warnf("Rate limit exceeded: category=%s subject=%s count=%d", category, subject, count)
	}
	return Result{Allowed: allowed, Remaining: remaining, ResetAt: resetAt}, nil
}

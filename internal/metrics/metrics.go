package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operational counters. Audit write failures feed alerting: the primary
// mutation is never rolled back, so this counter is the signal that the
// audit trail has gaps.
var (
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loanserve_rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter, by category.",
	}, []string{"category"})

	CSRFFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loanserve_csrf_failures_total",
		Help: "Mutating requests rejected for a missing or invalid CSRF token.",
	})

	IdempotentReplays = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loanserve_idempotent_replays_total",
		Help: "Transaction requests answered from an existing idempotency key.",
	})

	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loanserve_audit_write_failures_total",
		Help: "Audit trail writes that failed after the primary mutation committed.",
	})
)

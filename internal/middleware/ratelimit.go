package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/harborline/loanserve/internal/ratelimit"
	"github.com/sirupsen/logrus"
)

// rateLimitResponse is the wire shape clients use to compute backoff.
// remaining == -1 means limiting is disabled, never a literal count.
type rateLimitResponse struct {
	Success   bool   `json:"success"`
	Remaining int64  `json:"remaining"`
	ResetAt   string `json:"resetAt,omitempty"`
}

// RateLimitMiddleware throttles requests in the given category. The
// subject is the authenticated user when available, the client IP
// otherwise.
func RateLimitMiddleware(limiter *ratelimit.Limiter, category ratelimit.Category, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := ClientIP(r)
			if identity, ok := IdentityFrom(r.Context()); ok {
				subject = fmt.Sprintf("user:%d", identity.UserID)
			}

			result, err := limiter.Check(r.Context(), category, subject)
			if err != nil {
				log.Errorf("Rate limit check failed: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if result.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := int(time.Until(result.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(rateLimitResponse{
				Success:   false,
				Remaining: result.Remaining,
				ResetAt:   result.ResetAt.Format(time.RFC3339),
			})
		})
	}
}

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/harborline/loanserve/internal/csrf"
	"github.com/harborline/loanserve/internal/metrics"
	"github.com/sirupsen/logrus"
)

// CSRFHeader carries the token on every mutating request.
const CSRFHeader = "X-CSRF-Token"

// CSRFFailureMessage is the error text clients match on to fetch a fresh
// token and retry exactly once. Do not reword it casually.
const CSRFFailureMessage = "CSRF token invalid"

// CSRFMiddleware rejects state-changing requests whose token does not
// verify against the caller's session. Read-only verbs are exempt.
func CSRFMiddleware(guard *csrf.Guard, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			identity, ok := IdentityFrom(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			token := r.Header.Get(CSRFHeader)
			if token == "" || !guard.VerifyToken(token, identity.SessionID) {
				metrics.CSRFFailures.Inc()
				log.Warnf("CSRF verification failed: user=%d method=%s path=%s",
					identity.UserID, r.Method, r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"error": CSRFFailureMessage})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

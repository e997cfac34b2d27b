package middleware

import (
	"net"
	"net/http"
	"strings"
)

// UnknownSubject is the rate-limit subject when no client address can be
// determined.
const UnknownSubject = "unknown"

// ClientIP extracts the client address for rate-limit keying: the first
// hop of X-Forwarded-For, then X-Real-IP, then the connection's remote
// address, then the "unknown" sentinel.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return UnknownSubject
}

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/ratelimit"
	"github.com/vidtube/backend/internal/response"
)

// RateLimit rejects clients that exceed limiter under scope with 429. Limiter
// failures let the request through.
func RateLimit(limiter ratelimit.Limiter, scope string, responses *response.Writer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientIP(r)
			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logging.WithContext(r.Context(), logger).Warn("rate limit check failed", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				seconds := int((res.RetryAfter + time.Second - 1) / time.Second)
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				responses.Error(w, r, domain.TooManyRequests("too many requests, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP uses RemoteAddr, which chi's RealIP middleware has already
// rewritten from proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
